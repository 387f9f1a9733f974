package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrder is a hardware-store purchase slip (bon d'achat).
type PurchaseOrder struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	ItemName  string          `gorm:"size:255;not null" json:"item_name" validate:"required"`
	Supplier  string          `gorm:"size:255" json:"supplier"`
	Quantity  int             `gorm:"not null;default:0" json:"quantity"`
	Cost      decimal.Decimal `gorm:"type:decimal(20,2)" json:"cost"`
	Date      string          `gorm:"size:10;index" json:"date"`
	Status    string          `gorm:"size:32;default:'Commandé'" json:"status"` // Commandé | Reçu | Annulé
	Site      Site            `gorm:"size:32;index" json:"site"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PurchaseOrder) TableName() string { return "purchases" }

func (p *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *PurchaseOrder) RecordID() string   { return p.ID }
func (p *PurchaseOrder) RecordSite() string { return string(p.Site) }
func (p *PurchaseOrder) RecordDate() string { return p.Date }

func init() {
	registerTable[PurchaseOrder]("purchases")
}
