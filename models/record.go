package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
)

// Synced is implemented by every record carried on the change feed.
// RecordDate returns "" for undated kinds; daily stats are the only kind
// keyed by (date, site) instead of id.
type Synced interface {
	RecordID() string
	RecordSite() string
	RecordDate() string
}

type syncedPtr[T any] interface {
	*T
	Synced
}

var (
	decoders = map[string]func(raw []byte) (Synced, error){}
	loaders  = map[string]func(ctx context.Context) ([]Synced, error){}
	blanks   = map[string]func() Synced{}
)

// registerTable wires a record type into the decode/load registries under its
// feed table name. Called from each model file's init.
func registerTable[T any, PT syncedPtr[T]](tableName string) {
	decoders[tableName] = func(raw []byte) (Synced, error) {
		rec := PT(new(T))
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	loaders[tableName] = func(ctx context.Context) ([]Synced, error) {
		rows, err := utils.FetchAllModels[T](ctx, "")
		if err != nil {
			return nil, err
		}
		out := make([]Synced, 0, len(rows))
		for _, row := range rows {
			out = append(out, PT(row))
		}
		return out, nil
	}
	blanks[tableName] = func() Synced {
		return PT(new(T))
	}
}

// DecodeRecord turns a raw feed payload back into a typed record. Partial
// payloads decode with zero-value defaults.
func DecodeRecord(tableName string, raw []byte) (Synced, error) {
	decode, ok := decoders[tableName]
	if !ok {
		return nil, fmt.Errorf("no decoder registered for table %q", tableName)
	}
	return decode(raw)
}

// LoadTable fetches every row of a synced table for a store snapshot.
func LoadTable(ctx context.Context, tableName string) ([]Synced, error) {
	load, ok := loaders[tableName]
	if !ok {
		return nil, fmt.Errorf("no loader registered for table %q", tableName)
	}
	return load(ctx)
}

// IsSyncedTable reports whether tableName is carried on the change feed.
func IsSyncedTable(tableName string) bool {
	_, ok := decoders[tableName]
	return ok
}

// InsertRecord persists a new row for a synced table together with its
// outbox row, in one transaction. The payload is the record itself minus the
// id; BeforeCreate assigns one.
func InsertRecord(ctx context.Context, tableName string, raw []byte) (Synced, error) {
	rec, err := DecodeRecord(tableName, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrorValidation, err)
	}
	if err := utils.Validate.Struct(rec); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("%w: %v", utils.ErrorValidation, utils.ProcessValidationErrors(err))
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrorValidation, err)
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, tableName, rec.RecordID(), Site(rec.RecordSite()), ChangeActionInsert, rec, nil)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecord removes a row by id together with its outbox row. Returns
// ErrorRecordNotFound when the id does not exist.
func DeleteRecord(ctx context.Context, tableName string, id string) (Synced, error) {
	blank, ok := blanks[tableName]
	if !ok {
		return nil, fmt.Errorf("no model registered for table %q", tableName)
	}
	rec := blank()

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(rec).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if err := tx.Delete(rec).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, tableName, id, Site(rec.RecordSite()), ChangeActionDelete, nil, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
