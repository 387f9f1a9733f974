package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Technician struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Specialty string    `gorm:"size:100" json:"specialty"`
	Status    string    `gorm:"size:32;default:'Available'" json:"status"`
	Site      Site      `gorm:"size:32;index" json:"site"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Technician) TableName() string { return "technicians" }

func (t *Technician) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Technician) RecordID() string   { return t.ID }
func (t *Technician) RecordSite() string { return string(t.Site) }
func (t *Technician) RecordDate() string { return "" }

func init() {
	registerTable[Technician]("technicians")
}
