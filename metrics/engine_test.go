package metrics

import (
	"testing"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"github.com/shopspring/decimal"
)

func stat(date string, site models.Site, revenue, expenses int64, interventions int) *models.DailyStat {
	r := decimal.NewFromInt(revenue)
	e := decimal.NewFromInt(expenses)
	return &models.DailyStat{
		Date: date, Site: site,
		Revenue: r, Expenses: e, Profit: r.Sub(e),
		Interventions: interventions,
	}
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals([]*models.DailyStat{
		stat("2024-03-13", models.SiteAbidjan, 150000, 105000, 5),
		stat("2024-03-12", models.SiteAbidjan, 200000, 140000, 8),
	})
	if !totals.Revenue.Equal(decimal.NewFromInt(350000)) {
		t.Errorf("revenue = %s, want 350000", totals.Revenue)
	}
	if !totals.Profit.Equal(decimal.NewFromInt(105000)) {
		t.Errorf("profit = %s, want 105000", totals.Profit)
	}
	if totals.Interventions != 13 {
		t.Errorf("interventions = %d, want 13", totals.Interventions)
	}
}

func TestMarginPercent(t *testing.T) {
	tests := []struct {
		name    string
		revenue int64
		profit  int64
		want    string
	}{
		{"thirty percent", 150000, 45000, "30.0"},
		{"loss", 100000, -12550, "-12.6"},
		{"zero revenue", 0, 45000, "0.0"},
		{"negative revenue", -100, 50, "0.0"},
		{"rounding", 300000, 100000, "33.3"},
	}
	for _, tt := range tests {
		totals := Totals{
			Revenue: decimal.NewFromInt(tt.revenue),
			Profit:  decimal.NewFromInt(tt.profit),
		}
		if got := MarginPercent(totals).StringFixed(1); got != tt.want {
			t.Errorf("%s: MarginPercent = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestComputeSatisfaction(t *testing.T) {
	reports := []*models.DailyReport{
		{Rating: 4}, {Rating: 5}, {Rating: 3}, {Rating: 0},
	}
	s := ComputeSatisfaction(reports)
	if s.Count != 3 {
		t.Errorf("count = %d, want 3 (unrated reports excluded)", s.Count)
	}
	if s.Average.StringFixed(1) != "4.0" {
		t.Errorf("average = %s, want 4.0", s.Average)
	}

	empty := ComputeSatisfaction([]*models.DailyReport{{Rating: 0}})
	if empty.Count != 0 {
		t.Errorf("all-unrated should report count 0, got %d", empty.Count)
	}
}
