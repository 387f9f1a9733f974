// Package metrics derives the dashboard KPIs and the flash-info ticker from
// the entity store's filtered snapshots. Everything here is recomputed from
// scratch on demand; nothing derived is ever persisted.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/store"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Revenue       decimal.Decimal `json:"revenue"`
	Expenses      decimal.Decimal `json:"expenses"`
	Profit        decimal.Decimal `json:"profit"`
	Interventions int             `json:"interventions"`
}

// ComputeTotals sums the KPI columns of a stats slice.
func ComputeTotals(stats []*models.DailyStat) Totals {
	t := Totals{
		Revenue:  decimal.Zero,
		Expenses: decimal.Zero,
		Profit:   decimal.Zero,
	}
	for _, s := range stats {
		t.Revenue = t.Revenue.Add(s.Revenue)
		t.Expenses = t.Expenses.Add(s.Expenses)
		t.Profit = t.Profit.Add(s.Profit)
		t.Interventions += s.Interventions
	}
	return t
}

// MarginPercent is profit/revenue*100 rounded to one decimal. Zero or
// negative revenue yields exactly 0, never a division error.
func MarginPercent(t Totals) decimal.Decimal {
	if t.Revenue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return t.Profit.Div(t.Revenue).Mul(hundred).Round(1)
}

type Satisfaction struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// ComputeSatisfaction averages the client ratings of the rated reports
// (rating > 0), rounded to one decimal. No rated reports gives Count 0,
// which the surface renders as "N/A".
func ComputeSatisfaction(reports []*models.DailyReport) Satisfaction {
	total := 0
	count := 0
	for _, r := range reports {
		if r.Rating > 0 {
			total += r.Rating
			count++
		}
	}
	if count == 0 {
		return Satisfaction{Average: decimal.Zero, Count: 0}
	}
	avg := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(count))).Round(1)
	return Satisfaction{Average: avg, Count: count}
}

// Engine answers KPI and ticker questions over the live store.
type Engine struct {
	Store *store.Store
}

func NewEngine(st *store.Store) *Engine {
	return &Engine{Store: st}
}

func (e *Engine) stats(site models.Site, period models.Period, now time.Time) []*models.DailyStat {
	rows := e.Store.Filtered("daily_stats", site, period, now)
	out := make([]*models.DailyStat, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.(*models.DailyStat))
	}
	return out
}

func (e *Engine) reports(site models.Site, period models.Period, now time.Time) []*models.DailyReport {
	rows := e.Store.Filtered("reports", site, period, now)
	out := make([]*models.DailyReport, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.(*models.DailyReport))
	}
	return out
}

func (e *Engine) stock(site models.Site) []*models.StockItem {
	rows := e.Store.Filtered("stocks", site, "", time.Time{})
	out := make([]*models.StockItem, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.(*models.StockItem))
	}
	return out
}

// Totals computes the KPI cards for one site/period selection.
func (e *Engine) Totals(site models.Site, period models.Period, now time.Time) Totals {
	return ComputeTotals(e.stats(site, period, now))
}

// Margin is the margin percentage for the selection.
func (e *Engine) Margin(site models.Site, period models.Period, now time.Time) decimal.Decimal {
	return MarginPercent(e.Totals(site, period, now))
}

// Satisfaction averages client ratings for the selection.
func (e *Engine) Satisfaction(site models.Site, period models.Period, now time.Time) Satisfaction {
	return ComputeSatisfaction(e.reports(site, period, now))
}
