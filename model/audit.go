package model

import (
	"time"

	"gorm.io/datatypes"
)

// DeckAudit records administrative deck operations (seed, clear, create).
type DeckAudit struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_deck_audit_trace;size:36;not null" json:"trace_id"`
	Action     string         `gorm:"size:32;not null" json:"action"`
	Source     string         `gorm:"size:64" json:"source"` // data.csv / data.json / api
	Count      int            `json:"count"`
	Detail     datatypes.JSON `json:"detail"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	DurationMs int            `json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"index:idx_deck_audit_created;autoCreateTime:milli" json:"created_at"`
}

func (DeckAudit) TableName() string { return "deck_audits" }
