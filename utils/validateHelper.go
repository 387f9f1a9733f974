package utils

import (
	"context"
	"errors"
	"reflect"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"github.com/go-playground/validator/v10"
)

// Validate checks struct-level `validate` tags on dynamic record payloads,
// where gin's binding cannot (table is only known at runtime).
var Validate = validator.New()

// check if id exists, return ErrorRecordNotFound when missing
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, "", "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

func ValidateUnique[T any](ctx context.Context, site string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, site, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, site, column+" = ? AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records, using WHERE site = ? AND $condition
// site can be blank for cross-site records
func ResourceCountWhere[T any](ctx context.Context, site string, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if site != "" {
		dbCtx.Where("site = ?", site)
	}
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
