package filters

import (
	"testing"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/models"
)

// Wednesday 2024-03-13; its working week runs Mon 11th .. Fri 15th.
var wednesday = time.Date(2024, 3, 13, 14, 30, 0, 0, time.UTC)

func TestMatchesPeriodDay(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-13", true},
		{"2024-03-12", false},
		{"2024-03-14", false},
		{"2023-03-13", false},
		{"", false},
		{"13/03/2024", false},
	}
	for _, tt := range tests {
		if got := MatchesPeriod(tt.date, models.PeriodDay, wednesday); got != tt.want {
			t.Errorf("MatchesPeriod(%q, Day) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestMatchesPeriodWeek(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-11", true},  // Monday
		{"2024-03-15", true},  // Friday
		{"2024-03-16", false}, // Saturday never matches
		{"2024-03-17", false}, // Sunday never matches
		{"2024-03-10", false}, // previous Sunday
		{"2024-03-18", false}, // next Monday
		{"2024-03-08", false}, // previous Friday
		{"", false},
	}
	for _, tt := range tests {
		if got := MatchesPeriod(tt.date, models.PeriodWeek, wednesday); got != tt.want {
			t.Errorf("MatchesPeriod(%q, Week) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestMatchesPeriodWeekOnSunday(t *testing.T) {
	// A Sunday belongs to the week that just ended.
	sunday := time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)
	if !MatchesPeriod("2024-03-11", models.PeriodWeek, sunday) {
		t.Error("Monday of the ending week should match on Sunday")
	}
	if MatchesPeriod("2024-03-18", models.PeriodWeek, sunday) {
		t.Error("next Monday should not match on Sunday")
	}
}

func TestMatchesPeriodMonthYear(t *testing.T) {
	if !MatchesPeriod("2024-03-01", models.PeriodMonth, wednesday) {
		t.Error("same month should match")
	}
	if MatchesPeriod("2024-02-29", models.PeriodMonth, wednesday) {
		t.Error("previous month should not match")
	}
	if MatchesPeriod("2023-03-13", models.PeriodMonth, wednesday) {
		t.Error("same month of another year should not match")
	}
	if !MatchesPeriod("2024-01-01", models.PeriodYear, wednesday) {
		t.Error("same year should match")
	}
	if MatchesPeriod("2023-12-31", models.PeriodYear, wednesday) {
		t.Error("previous year should not match")
	}
}

func TestMatchesPeriodPassThrough(t *testing.T) {
	// zero Period matches everything, including undated records
	for _, date := range []string{"", "2020-01-01", "not-a-date"} {
		if !MatchesPeriod(date, "", wednesday) {
			t.Errorf("pass-through should match %q", date)
		}
	}
}

func TestMatchesSite(t *testing.T) {
	tests := []struct {
		recordSite string
		selected   models.Site
		want       bool
	}{
		{"Abidjan", models.SiteAll, true},
		{"Bouaké", models.SiteAll, true},
		{"", models.SiteAll, true},
		{"Abidjan", models.SiteAbidjan, true},
		{"Bouaké", models.SiteAbidjan, false},
		{"", models.SiteAbidjan, false},
		{"Bouaké", models.SiteBouake, true},
	}
	for _, tt := range tests {
		if got := MatchesSite(tt.recordSite, tt.selected); got != tt.want {
			t.Errorf("MatchesSite(%q, %q) = %v, want %v", tt.recordSite, tt.selected, got, tt.want)
		}
	}
}
