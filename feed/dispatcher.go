package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/models"
)

// Dispatcher drains the change outbox: it claims pending rows in batches,
// publishes each onto its table's redis channel (optionally mirrored to a
// Pub/Sub topic) and marks it sent. Rows that keep failing go DEAD after
// MaxAttempts. Safe to run on several instances at once; SKIP LOCKED and
// the stale-lock reclaim keep them from fighting over rows.
type Dispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	DispatcherID string

	BatchSize      int
	PollInterval   time.Duration
	LockTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration

	mirrorOnce  sync.Once
	mirrorTopic *pubsub.Topic
}

func NewDispatcher(db *gorm.DB, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		DB:             db,
		Logger:         logger,
		DispatcherID:   uuid.NewString(),
		BatchSize:      50,
		PollInterval:   500 * time.Millisecond,
		LockTimeout:    30 * time.Second,
		MaxAttempts:    20,
		InitialBackoff: 5 * time.Second,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *Dispatcher) dispatchOnce(ctx context.Context) {
	now := time.Now().UTC()
	staleBefore := now.Add(-d.LockTimeout)
	db := d.DB
	if db == nil {
		return
	}

	var claimed []models.ChangeMessageRecord
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Eligible:
		// - PENDING / FAILED and ready to retry
		// - PROCESSING but lock is stale (dispatcher crashed mid-batch), reclaim after LockTimeout
		q := tx.
			Where(`
				(
					publish_status IN ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?)
				)
				OR
				(
					publish_status = ? AND locked_at IS NOT NULL AND locked_at <= ?
				)
			`, []string{models.OutboxPublishStatusPending, models.OutboxPublishStatusFailed}, now, models.OutboxPublishStatusProcessing, staleBefore).
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		for i := range claimed {
			// Enforce max attempts: poison messages go terminal.
			if d.MaxAttempts > 0 && claimed[i].PublishAttempts >= d.MaxAttempts {
				msg := fmt.Sprintf("max publish attempts exceeded (%d)", d.MaxAttempts)
				claimed[i].PublishStatus = models.OutboxPublishStatusDead
				if err := tx.Model(&models.ChangeMessageRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
					"publish_status":     models.OutboxPublishStatusDead,
					"last_publish_error": &msg,
					"next_attempt_at":    nil,
					"locked_at":          nil,
					"locked_by":          nil,
				}).Error; err != nil {
					return err
				}
				continue
			}

			// Claim for publishing.
			claimed[i].PublishStatus = models.OutboxPublishStatusProcessing
			claimed[i].LockedAt = &now
			claimed[i].LockedBy = &d.DispatcherID
			claimed[i].PublishAttempts = claimed[i].PublishAttempts + 1
			claimed[i].LastPublishError = nil
			if err := tx.Model(&models.ChangeMessageRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
				"publish_status":     claimed[i].PublishStatus,
				"locked_at":          claimed[i].LockedAt,
				"locked_by":          claimed[i].LockedBy,
				"publish_attempts":   gorm.Expr("publish_attempts + 1"),
				"last_publish_error": nil,
				"next_attempt_at":    nil,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		// Skip terminal rows that were marked DEAD in the claim transaction.
		if rec.PublishStatus == models.OutboxPublishStatusDead {
			continue
		}
		if pubErr := d.publish(ctx, &rec); pubErr != nil {
			d.markPublishFailed(ctx, rec.ID, rec.EntityTable, pubErr, rec.PublishAttempts)
			continue
		}
		d.markPublishSent(ctx, rec.ID, now)
	}
}

func (d *Dispatcher) publish(ctx context.Context, rec *models.ChangeMessageRecord) error {
	event := EventFromOutbox(rec)
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := config.PublishRedis(ctx, ChannelFor(rec.EntityTable), payload); err != nil {
		return err
	}
	d.mirrorToPubSub(ctx, rec.EntityTable, payload)
	return nil
}

// mirrorToPubSub is best-effort: a missing project or a publish failure
// never fails the redis delivery that the stores rely on.
func (d *Dispatcher) mirrorToPubSub(ctx context.Context, table string, payload []byte) {
	d.mirrorOnce.Do(func() {
		client, err := config.GetPubSubClient(ctx)
		if err != nil || client == nil {
			return
		}
		topicID := os.Getenv("PUBSUB_FEED_TOPIC")
		if topicID == "" {
			topicID = "manager-feed"
		}
		topic, err := config.CreateTopicIfNotExists(ctx, client, topicID)
		if err != nil {
			if d.Logger != nil {
				d.Logger.WithFields(logrus.Fields{"field": "Dispatcher", "topic": topicID}).
					Error("pubsub mirror disabled: " + err.Error())
			}
			return
		}
		d.mirrorTopic = topic
	})
	if d.mirrorTopic == nil {
		return
	}
	result := d.mirrorTopic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"table": table},
	})
	if _, err := result.Get(ctx); err != nil && d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{"field": "Dispatcher", "table": table}).
			Error("pubsub mirror publish failed: " + err.Error())
	}
}

func (d *Dispatcher) markPublishSent(ctx context.Context, recordID int, now time.Time) {
	db := d.DB.WithContext(ctx)
	_ = db.Model(&models.ChangeMessageRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":  models.OutboxPublishStatusSent,
			"published_at":    &now,
			"locked_at":       nil,
			"locked_by":       nil,
			"next_attempt_at": nil,
		}).Error
}

func (d *Dispatcher) markPublishFailed(ctx context.Context, recordID int, table string, err error, attempt int) {
	db := d.DB.WithContext(ctx)
	now := time.Now().UTC()
	msg := err.Error()

	// Terminal after MaxAttempts.
	if d.MaxAttempts > 0 && attempt >= d.MaxAttempts {
		_ = db.Model(&models.ChangeMessageRecord{}).
			Where("id = ?", recordID).
			Updates(map[string]interface{}{
				"publish_status":     models.OutboxPublishStatusDead,
				"last_publish_error": &msg,
				"next_attempt_at":    nil,
				"locked_at":          nil,
				"locked_by":          nil,
			}).Error

		if d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{
				"field":     "Dispatcher",
				"table":     table,
				"record_id": recordID,
				"attempt":   attempt,
			}).Error("outbox publish moved to DEAD after max attempts: " + fmt.Sprintf("%v", err))
		}
		return
	}

	backoff := d.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > time.Minute*10 {
			backoff = time.Minute * 10
			break
		}
	}
	next := now.Add(backoff)
	_ = db.Model(&models.ChangeMessageRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":     models.OutboxPublishStatusFailed,
			"last_publish_error": &msg,
			"next_attempt_at":    &next,
			"locked_at":          nil,
			"locked_by":          nil,
		}).Error

	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"field":           "Dispatcher",
			"table":           table,
			"record_id":       recordID,
			"attempt":         attempt,
			"next_attempt_at": next.Format(time.RFC3339Nano),
		}).Error("outbox publish failed: " + fmt.Sprintf("%v", err))
	}
}
