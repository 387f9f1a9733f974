package models

import (
	"context"
	"encoding/json"

	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublishChange implements the transactional outbox: it writes the change
// record inside the caller's DB transaction but does NOT publish anywhere.
// Publishing is performed asynchronously by the outbox dispatcher after
// commit, which keeps the feed free of rows from rolled-back transactions.
func PublishChange(ctx context.Context, tx *gorm.DB, tableName string, recordId string, site Site, action ChangeAction, obj interface{}, oldObj interface{}) error {

	var objInByte []byte
	var oldObjInByte []byte
	var err error

	if action == ChangeActionInsert || action == ChangeActionUpdate {
		objInByte, err = json.Marshal(obj)
		if err != nil {
			return err
		}
	}
	if action == ChangeActionUpdate || action == ChangeActionDelete {
		oldObjInByte, err = json.Marshal(oldObj)
		if err != nil {
			return err
		}
	}

	record := ChangeMessageRecord{
		EntityTable:   tableName,
		RecordId:      recordId,
		Site:          string(site),
		Action:        action,
		NewObj:        objInByte,
		OldObj:        oldObjInByte,
		PublishStatus: OutboxPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	err = tx.Create(&record).Error
	if err != nil {
		return err
	}
	return nil
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// SyncedTables lists every table carried on the change feed, in the order
// the store loads them at startup.
func SyncedTables() []string {
	return []string{
		"profiles",
		"technicians",
		"stocks",
		"interventions",
		"reports",
		"daily_stats",
		"ticker_messages",
		"notifications",
		"chantiers",
		"transactions",
		"employees",
		"payrolls",
		"clients",
		"caisse",
		"suppliers",
		"purchases",
	}
}
