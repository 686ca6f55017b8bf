package model

// Card is one prompt/penalty unit in the deck. Category and difficulty are
// open string sets driven by the seed data, not enums.
type Card struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Category   string `gorm:"size:32;not null" json:"category"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Penalty    string `gorm:"type:text" json:"penalty"` // unused for ITEM cards
	Difficulty string `gorm:"size:32" json:"difficulty"`
}

func (Card) TableName() string { return "cards" }

// CategoryItem marks cards that can be kept in a player's inventory.
const CategoryItem = "ITEM"
