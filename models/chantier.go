package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chantier is a work site managed by the site foreman.
type Chantier struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Location  string    `gorm:"size:255" json:"location"`
	Client    string    `gorm:"size:255" json:"client"`
	Site      Site      `gorm:"size:32;index" json:"site"`
	Status    string    `gorm:"size:32;default:'En cours'" json:"status"`
	Date      string    `gorm:"size:10" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Chantier) TableName() string { return "chantiers" }

func (c *Chantier) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Chantier) RecordID() string   { return c.ID }
func (c *Chantier) RecordSite() string { return string(c.Site) }
func (c *Chantier) RecordDate() string { return c.Date }

func init() {
	registerTable[Chantier]("chantiers")
}
