package models

import (
	"time"
)

// ChangeMessageRecord is the transactional outbox row behind the change feed.
// Every entity write creates one inside the same DB transaction; the outbox
// dispatcher publishes it to redis (and optionally Pub/Sub) after commit.
type ChangeMessageRecord struct {
	ID            int          `gorm:"primary_key;index:idx_outbox_dispatch,priority:3" json:"id"`
	EntityTable   string       `gorm:"column:table_name;size:64;not null;index" json:"table_name"`
	RecordId      string       `gorm:"size:64;not null" json:"record_id"`
	Site          string       `gorm:"size:32;index" json:"site"`
	Action        ChangeAction `gorm:"type:enum('INSERT','UPDATE','DELETE')" json:"action"`
	OldObj        []byte       `gorm:"type:blob" json:"old_obj"`
	NewObj        []byte       `gorm:"type:blob" json:"new_obj"`
	PublishStatus string       `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"` // PENDING|PROCESSING|SENT|FAILED|DEAD
	PublishedAt   *time.Time   `gorm:"index" json:"published_at"`

	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`

	CorrelationId string    `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChangeMessageRecord) TableName() string {
	return "change_messages"
}
