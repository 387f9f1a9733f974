package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyStat is the per-day per-site KPI row. Its grain is (date, site):
// feed updates match on that pair, never on id.
type DailyStat struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	Date          string          `gorm:"size:10;not null;uniqueIndex:idx_stat_grain,priority:1" json:"date" validate:"required"`
	Site          Site            `gorm:"size:32;not null;uniqueIndex:idx_stat_grain,priority:2" json:"site" validate:"required"`
	Revenue       decimal.Decimal `gorm:"type:decimal(20,2)" json:"revenue"`
	Expenses      decimal.Decimal `gorm:"type:decimal(20,2)" json:"expenses"`
	Profit        decimal.Decimal `gorm:"type:decimal(20,2)" json:"profit"`
	Interventions int             `gorm:"not null;default:0" json:"interventions"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailyStat) TableName() string { return "daily_stats" }

func (s *DailyStat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *DailyStat) RecordID() string   { return s.ID }
func (s *DailyStat) RecordSite() string { return string(s.Site) }
func (s *DailyStat) RecordDate() string { return s.Date }

func init() {
	registerTable[DailyStat]("daily_stats")
}

// UpsertDailyStat adds the deltas onto the (date, site) row, creating it
// when missing. A redis lock serializes concurrent upserts of the same grain
// across instances; without redis the DB transaction alone still keeps a
// single instance consistent.
func UpsertDailyStat(ctx context.Context, date string, site Site, revenue, expenses decimal.Decimal, interventions int) (*DailyStat, error) {

	lockKey := date + ":" + string(site)
	if release, lockErr := utils.SiteLock(ctx, lockKey, "DailyStatLock", "models", "UpsertDailyStat"); lockErr == nil {
		defer release()
	}

	db := config.GetDB()
	var stat DailyStat
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("date = ? AND site = ?", date, string(site)).First(&stat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stat = DailyStat{
				Date:          date,
				Site:          site,
				Revenue:       revenue,
				Expenses:      expenses,
				Profit:        revenue.Sub(expenses),
				Interventions: interventions,
			}
			if err := tx.Create(&stat).Error; err != nil {
				return err
			}
			return PublishChange(ctx, tx, "daily_stats", stat.ID, stat.Site, ChangeActionInsert, &stat, nil)
		} else if err != nil {
			return err
		}

		old := stat
		stat.Revenue = stat.Revenue.Add(revenue)
		stat.Expenses = stat.Expenses.Add(expenses)
		stat.Profit = stat.Revenue.Sub(stat.Expenses)
		stat.Interventions += interventions
		if err := tx.Model(&stat).Updates(map[string]interface{}{
			"Revenue":       stat.Revenue,
			"Expenses":      stat.Expenses,
			"Profit":        stat.Profit,
			"Interventions": stat.Interventions,
		}).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "daily_stats", stat.ID, stat.Site, ChangeActionUpdate, &stat, &old)
	})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// ReplaceDailyStat overwrites the (date, site) row with recomputed totals.
// Used by the stats backfill.
func ReplaceDailyStat(ctx context.Context, date string, site Site, revenue, expenses decimal.Decimal, interventions int) (*DailyStat, error) {

	db := config.GetDB()
	var stat DailyStat
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("date = ? AND site = ?", date, string(site)).First(&stat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stat = DailyStat{
				Date:          date,
				Site:          site,
				Revenue:       revenue,
				Expenses:      expenses,
				Profit:        revenue.Sub(expenses),
				Interventions: interventions,
			}
			if err := tx.Create(&stat).Error; err != nil {
				return err
			}
			return PublishChange(ctx, tx, "daily_stats", stat.ID, stat.Site, ChangeActionInsert, &stat, nil)
		} else if err != nil {
			return err
		}

		old := stat
		stat.Revenue = revenue
		stat.Expenses = expenses
		stat.Profit = revenue.Sub(expenses)
		stat.Interventions = interventions
		if err := tx.Model(&stat).Updates(map[string]interface{}{
			"Revenue":       stat.Revenue,
			"Expenses":      stat.Expenses,
			"Profit":        stat.Profit,
			"Interventions": stat.Interventions,
		}).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "daily_stats", stat.ID, stat.Site, ChangeActionUpdate, &stat, &old)
	})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}
