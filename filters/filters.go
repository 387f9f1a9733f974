// Package filters holds the pure period/site predicates shared by the
// entity store, the metrics engine and the export endpoints.
package filters

import (
	"time"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/utils"
)

// MatchesPeriod reports whether a YYYY-MM-DD date falls inside the selected
// period relative to now. The zero Period is a pass-through and matches
// everything, dated or not. For an actual period an empty or unparsable date
// never matches.
func MatchesPeriod(dateStr string, period models.Period, now time.Time) bool {
	if period == "" {
		return true
	}
	if dateStr == "" {
		return false
	}
	date, err := time.ParseInLocation(utils.DateLayout, dateStr, now.Location())
	if err != nil {
		return false
	}

	switch period {
	case models.PeriodDay:
		return sameDay(date, now)
	case models.PeriodWeek:
		// working week only: Saturday and Sunday never match
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			return false
		}
		monday := mondayOf(now)
		friday := monday.AddDate(0, 0, 4)
		day := truncateDay(date)
		return !day.Before(monday) && !day.After(friday)
	case models.PeriodMonth:
		return date.Month() == now.Month() && date.Year() == now.Year()
	case models.PeriodYear:
		return date.Year() == now.Year()
	}
	return false
}

// MatchesSite reports whether a record's site passes the selected site
// filter. Global (empty) selection matches every record; a specific site
// requires exact equality, so records without a site only show globally.
func MatchesSite(recordSite string, selected models.Site) bool {
	if selected == models.SiteAll {
		return true
	}
	return recordSite == string(selected)
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// mondayOf returns midnight Monday of t's week; a Sunday belongs to the
// week that ended, not the one starting.
func mondayOf(t time.Time) time.Time {
	day := truncateDay(t)
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}
