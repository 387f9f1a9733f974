package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payroll is one monthly pay slip. Period is free text ("Mars 2024").
type Payroll struct {
	ID           string          `gorm:"primaryKey;size:64" json:"id"`
	EmployeeName string          `gorm:"size:255;not null" json:"employee_name" validate:"required"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Period       string          `gorm:"size:64" json:"period"`
	Date         string          `gorm:"size:10;index" json:"date"`
	Status       string          `gorm:"size:32;default:'En attente'" json:"status"` // Payé | En attente
	Site         Site            `gorm:"size:32;index" json:"site"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payroll) TableName() string { return "payrolls" }

func (p *Payroll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Payroll) RecordID() string   { return p.ID }
func (p *Payroll) RecordSite() string { return string(p.Site) }
func (p *Payroll) RecordDate() string { return p.Date }

func init() {
	registerTable[Payroll]("payrolls")
}
