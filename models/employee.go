package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee is an HR file, distinct from the login profile.
type Employee struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	FullName  string          `gorm:"size:255;not null" json:"full_name" validate:"required"`
	Role      string          `gorm:"size:100" json:"role"`
	Phone     string          `gorm:"size:32" json:"phone"`
	Email     string          `gorm:"size:255" json:"email"`
	Site      Site            `gorm:"size:32;index" json:"site"`
	Salary    decimal.Decimal `gorm:"type:decimal(20,2)" json:"salary"`
	DateHired string          `gorm:"size:10" json:"date_hired"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *Employee) RecordID() string   { return e.ID }
func (e *Employee) RecordSite() string { return string(e.Site) }
func (e *Employee) RecordDate() string { return "" }

func init() {
	registerTable[Employee]("employees")
}
