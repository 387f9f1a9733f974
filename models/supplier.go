package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier zone may also be "National" for partners serving both branches,
// so the field stays a plain string.
type Supplier struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Contact   string    `gorm:"size:255" json:"contact"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Category  string    `gorm:"size:64" json:"category"` // Électricité | Plomberie | Froid | Matériaux | Divers
	Site      string    `gorm:"size:32;index" json:"site"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Supplier) TableName() string { return "suppliers" }

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *Supplier) RecordID() string   { return s.ID }
func (s *Supplier) RecordSite() string { return s.Site }
func (s *Supplier) RecordDate() string { return "" }

func init() {
	registerTable[Supplier]("suppliers")
}
