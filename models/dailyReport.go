package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyReport is a technician's end-of-day report. Rating is the client
// satisfaction note (1-5); 0 means not rated and is excluded from the
// satisfaction average.
type DailyReport struct {
	ID               string          `gorm:"primaryKey;size:64" json:"id"`
	TechnicianName   string          `gorm:"size:255;not null" json:"technicianName" validate:"required"`
	Date             string          `gorm:"size:10;index" json:"date"`
	Content          string          `gorm:"type:text" json:"content"`
	Method           string          `gorm:"size:16;default:'Form'" json:"method"` // Text | Voice | Form
	Site             Site            `gorm:"size:32;index" json:"site"`
	Domain           string          `gorm:"size:64" json:"domain"`
	InterventionType string          `gorm:"size:64" json:"interventionType"`
	Location         string          `gorm:"size:255" json:"location"`
	Expenses         decimal.Decimal `gorm:"type:decimal(20,2)" json:"expenses"`
	Revenue          decimal.Decimal `gorm:"type:decimal(20,2)" json:"revenue"`
	ClientName       string          `gorm:"size:255" json:"clientName"`
	ClientPhone      string          `gorm:"size:32" json:"clientPhone"`
	AudioUrl         string          `gorm:"size:1024" json:"audioUrl"`
	Rating           int             `gorm:"default:0" json:"rating"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailyReport) TableName() string { return "reports" }

func (r *DailyReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *DailyReport) RecordID() string   { return r.ID }
func (r *DailyReport) RecordSite() string { return string(r.Site) }
func (r *DailyReport) RecordDate() string { return r.Date }

func init() {
	registerTable[DailyReport]("reports")
}
