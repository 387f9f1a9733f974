package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Intervention struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Site           Site      `gorm:"size:32;index" json:"site"`
	Client         string    `gorm:"size:255;not null" json:"client" validate:"required"`
	ClientPhone    string    `gorm:"size:32" json:"clientPhone"`
	Location       string    `gorm:"size:255" json:"location"`
	Description    string    `gorm:"type:text" json:"description"`
	TechnicianId   string    `gorm:"size:64;index" json:"technicianId"`
	TechnicianName string    `gorm:"size:255" json:"technicianName"`
	Date           string    `gorm:"size:10;index" json:"date"`
	Status         string    `gorm:"size:32;default:'Pending'" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Intervention) TableName() string { return "interventions" }

func (i *Intervention) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Intervention) RecordID() string   { return i.ID }
func (i *Intervention) RecordSite() string { return string(i.Site) }
func (i *Intervention) RecordDate() string { return i.Date }

func init() {
	registerTable[Intervention]("interventions")
}
