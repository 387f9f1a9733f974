package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashMovement is one petty-cash entry (caisse).
type CashMovement struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	Label     string          `gorm:"size:255;not null" json:"label" validate:"required"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Type      string          `gorm:"size:16;not null" json:"type" validate:"required,oneof=Entrée Sortie"`
	Date      string          `gorm:"size:10;index" json:"date"`
	Operator  string          `gorm:"size:255" json:"operator"`
	Site      Site            `gorm:"size:32;index" json:"site"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CashMovement) TableName() string { return "caisse" }

func (m *CashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *CashMovement) RecordID() string   { return m.ID }
func (m *CashMovement) RecordSite() string { return string(m.Site) }
func (m *CashMovement) RecordDate() string { return m.Date }

func init() {
	registerTable[CashMovement]("caisse")
}
