package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a ledger entry of the financial journal (bilan).
type Transaction struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	Type      TransactionType `gorm:"size:16;not null" json:"type" validate:"required,oneof=Recette Dépense"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Label     string          `gorm:"size:255;not null" json:"label" validate:"required"`
	Category  string          `gorm:"size:64" json:"category"` // Vente | Achat | Salaire | Loyer | Autre
	Date      string          `gorm:"size:10;index" json:"date"`
	Site      Site            `gorm:"size:32;index" json:"site"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Transaction) RecordID() string   { return t.ID }
func (t *Transaction) RecordSite() string { return string(t.Site) }
func (t *Transaction) RecordDate() string { return t.Date }

func init() {
	registerTable[Transaction]("transactions")
}
