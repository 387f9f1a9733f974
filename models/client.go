package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a CRM record kept by the secretariat.
type Client struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	Address   string    `gorm:"size:255" json:"address"`
	Site      Site      `gorm:"size:32;index" json:"site"`
	Type      string    `gorm:"size:32;default:'Particulier'" json:"type"` // Particulier | Entreprise
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Client) RecordID() string   { return c.ID }
func (c *Client) RecordSite() string { return string(c.Site) }
func (c *Client) RecordDate() string { return "" }

func init() {
	registerTable[Client]("clients")
}
