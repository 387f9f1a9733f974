package models

import (
	"context"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string            `gorm:"primaryKey;size:64" json:"id"`
	Title     string            `gorm:"size:255;not null" json:"title" validate:"required"`
	Message   string            `gorm:"type:text" json:"message"`
	Type      TickerMessageType `gorm:"size:16;default:'info'" json:"type"`
	Read      bool              `gorm:"not null;default:false" json:"read"`
	Path      string            `gorm:"size:255" json:"path"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func (n *Notification) RecordID() string   { return n.ID }
func (n *Notification) RecordSite() string { return "" }
func (n *Notification) RecordDate() string { return "" }

func init() {
	registerTable[Notification]("notifications")
}

// MarkNotificationRead flips read to true. The transition is one-way: a
// notification already read stays read and the call is a no-op.
func MarkNotificationRead(ctx context.Context, id string) (*Notification, error) {

	notification, err := utils.FetchModel[Notification](ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.Read {
		return notification, nil
	}

	old := *notification
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification.Read = true
		if err := tx.Model(notification).Update("Read", true).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "notifications", notification.ID, SiteAll, ChangeActionUpdate, notification, &old)
	})
	if err != nil {
		return nil, err
	}
	return notification, nil
}
