package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockItem raises a ticker alert whenever Quantity <= Threshold.
type StockItem struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Threshold int       `gorm:"not null" json:"threshold"`
	Unit      string    `gorm:"size:32" json:"unit"`
	Site      Site      `gorm:"size:32;index" json:"site"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockItem) TableName() string { return "stocks" }

func (s *StockItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *StockItem) RecordID() string   { return s.ID }
func (s *StockItem) RecordSite() string { return string(s.Site) }
func (s *StockItem) RecordDate() string { return "" }

// IsLow reports whether the item should raise a stock alert.
func (s *StockItem) IsLow() bool {
	return s.Quantity <= s.Threshold
}

func init() {
	registerTable[StockItem]("stocks")
}
