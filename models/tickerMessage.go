package models

import (
	"context"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TickerMessage is a manual banner message written by an Admin. Automatic
// period and stock messages are generated on the fly and never persisted.
type TickerMessage struct {
	ID           string            `gorm:"primaryKey;size:64" json:"id"`
	Text         string            `gorm:"type:text;not null" json:"text" validate:"required"`
	Type         TickerMessageType `gorm:"size:16;default:'info'" json:"type"`
	DisplayOrder int               `gorm:"not null;default:0" json:"display_order"`
	IsManual     bool              `gorm:"not null;default:true" json:"isManual"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TickerMessage) TableName() string { return "ticker_messages" }

func (m *TickerMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *TickerMessage) RecordID() string   { return m.ID }
func (m *TickerMessage) RecordSite() string { return "" }
func (m *TickerMessage) RecordDate() string { return "" }

func init() {
	registerTable[TickerMessage]("ticker_messages")
}

type NewTickerMessage struct {
	Text string            `json:"text" binding:"required"`
	Type TickerMessageType `json:"type" binding:"required,oneof=alert success info"`
}

// CreateTickerMessage appends a manual message after the current last one.
func CreateTickerMessage(ctx context.Context, input *NewTickerMessage) (*TickerMessage, error) {

	db := config.GetDB()
	message := TickerMessage{
		Text:     input.Text,
		Type:     input.Type,
		IsManual: true,
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder *int
		if err := tx.Model(&TickerMessage{}).Select("max(display_order)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		message.DisplayOrder = utils.DereferencePtr(maxOrder) + 1
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "ticker_messages", message.ID, SiteAll, ChangeActionInsert, &message, nil)
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func DeleteTickerMessage(ctx context.Context, id string) (*TickerMessage, error) {
	rec, err := DeleteRecord(ctx, "ticker_messages", id)
	if err != nil {
		return nil, err
	}
	return rec.(*TickerMessage), nil
}
