// Package deck manages the card table's lifecycle and random access.
package deck

import (
	"errors"

	"github.com/Nam088/drinking-game-v2/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns every read and write against the cards table.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new deck Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// SeedRecord is one card to be inserted by Seed or Create. A zero ID lets
// the store generate one; a non-zero ID is inserted as-is (data.json ships
// explicit ids).
type SeedRecord struct {
	ID         int64
	Category   string
	Content    string
	Penalty    string
	Difficulty string
}

// ListAll returns every card. Order is unspecified.
func (s *Service) ListAll() ([]model.Card, error) {
	var cards []model.Card
	if err := s.db.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// DrawRandom returns one card selected by the store's native random
// ordering, or (nil, nil) when the deck is empty. Uniformity is whatever
// the database's RANDOM()/RAND() gives; this is a party game, not a
// lottery.
func (s *Service) DrawRandom() (*model.Card, error) {
	var card model.Card
	err := s.db.Order(s.randomExpr()).Take(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Seed replaces the entire table in one transaction: delete everything,
// then insert all records. Returns the number of cards inserted.
func (s *Service) Seed(records []SeedRecord) (int, error) {
	cards := make([]model.Card, len(records))
	for i, r := range records {
		cards[i] = model.Card{
			ID:         r.ID,
			Category:   r.Category,
			Content:    r.Content,
			Penalty:    r.Penalty,
			Difficulty: r.Difficulty,
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.Card{}).Error; err != nil {
			return err
		}
		if len(cards) == 0 {
			return nil
		}
		return tx.CreateInBatches(&cards, 100).Error
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("cards seeded", zap.Int("count", len(cards)))
	return len(cards), nil
}

// ClearAll deletes every card. Clearing an empty table is a no-op success.
func (s *Service) ClearAll() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Card{}).Error; err != nil {
		return err
	}
	s.logger.Info("all cards cleared")
	return nil
}

// Create inserts a single card and returns it with its generated id.
func (s *Service) Create(rec SeedRecord) (*model.Card, error) {
	card := model.Card{
		ID:         rec.ID,
		Category:   rec.Category,
		Content:    rec.Content,
		Penalty:    rec.Penalty,
		Difficulty: rec.Difficulty,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Service) randomExpr() string {
	if s.db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}
