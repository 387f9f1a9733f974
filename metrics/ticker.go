package metrics

import (
	"fmt"
	"sort"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/filters"
	"bitbucket.org/ebfdigital/manager_backend/models"
)

// Message is one ticker entry. Manual messages come from the DB; automatic
// period messages and stock alerts are generated here and never stored.
type Message struct {
	ID           string                   `json:"id"`
	Text         string                   `json:"text"`
	Type         models.TickerMessageType `json:"type"`
	DisplayOrder int                      `json:"display_order"`
	IsManual     bool                     `json:"isManual"`
}

const welcomeText = "Bienvenue sur EBF Manager. Le système est prêt et connecté."

// AutoMessages derives at most one message per period from the stats slice,
// in day < week < month < year priority. A period with no stats, or a flat
// margin, says nothing. An entirely empty stats table yields exactly the
// welcome message.
func AutoMessages(stats []*models.DailyStat, now time.Time) []Message {
	if len(stats) == 0 {
		return []Message{{
			ID:           "welcome-default",
			Text:         welcomeText,
			Type:         models.TickerMessageInfo,
			DisplayOrder: 0,
		}}
	}

	var messages []Message

	perPeriod := func(period models.Period) (Totals, bool) {
		var subset []*models.DailyStat
		for _, s := range stats {
			if filters.MatchesPeriod(s.Date, period, now) {
				subset = append(subset, s)
			}
		}
		if len(subset) == 0 {
			return Totals{}, false
		}
		return ComputeTotals(subset), true
	}

	if totals, ok := perPeriod(models.PeriodDay); ok {
		percent := MarginPercent(totals)
		if !percent.IsZero() {
			message := Message{ID: "auto-day", DisplayOrder: 100}
			if percent.IsPositive() {
				message.Text = fmt.Sprintf("Félicitations ! Nous sommes à +%s%% de bénéfice aujourd'hui.", percent.StringFixed(1))
				message.Type = models.TickerMessageSuccess
			} else {
				message.Text = fmt.Sprintf("Alerte : Nous sommes à %s%% de perte aujourd'hui.", percent.StringFixed(1))
				message.Type = models.TickerMessageAlert
			}
			messages = append(messages, message)
		}
	}

	if totals, ok := perPeriod(models.PeriodWeek); ok {
		percent := MarginPercent(totals)
		if !percent.IsZero() {
			message := Message{ID: "auto-week", DisplayOrder: 101}
			if percent.IsPositive() {
				message.Text = fmt.Sprintf("Bravo ! Cette semaine enregistre +%s%% de marge positive.", percent.StringFixed(1))
				message.Type = models.TickerMessageSuccess
			} else {
				message.Text = fmt.Sprintf("Attention ! Nous sommes à %s%% de perte cette semaine.", percent.StringFixed(1))
				message.Type = models.TickerMessageAlert
			}
			messages = append(messages, message)
		}
	}

	if totals, ok := perPeriod(models.PeriodMonth); ok {
		percent := MarginPercent(totals)
		if !percent.IsZero() {
			message := Message{ID: "auto-month", DisplayOrder: 102}
			if percent.IsPositive() {
				message.Text = fmt.Sprintf("Excellent ! Le mois en cours est à +%s%% de rentabilité.", percent.StringFixed(1))
				message.Type = models.TickerMessageSuccess
			} else {
				message.Text = fmt.Sprintf("Vigilance : Le cumul mensuel est à %s%%.", percent.StringFixed(1))
				message.Type = models.TickerMessageAlert
			}
			messages = append(messages, message)
		}
	}

	if totals, ok := perPeriod(models.PeriodYear); ok {
		percent := MarginPercent(totals)
		if !percent.IsZero() {
			sign := ""
			messageType := models.TickerMessageAlert
			if percent.IsPositive() {
				sign = "+"
				// a positive yearly figure is informative, not a celebration
				messageType = models.TickerMessageInfo
			}
			messages = append(messages, Message{
				ID:           "auto-year",
				Text:         fmt.Sprintf("Bilan Annuel Global : %s%s%% de marge.", sign, percent.StringFixed(1)),
				Type:         messageType,
				DisplayOrder: 103,
			})
		}
	}

	return messages
}

// StockAlerts raises one alert per item at or under its threshold, scoped
// to the selected site.
func StockAlerts(stock []*models.StockItem, site models.Site) []Message {
	var alerts []Message
	for _, item := range stock {
		if !filters.MatchesSite(string(item.Site), site) {
			continue
		}
		if !item.IsLow() {
			continue
		}
		alerts = append(alerts, Message{
			ID:           "stock-alert-" + item.ID,
			Text:         fmt.Sprintf("⚠️ STOCK CRITIQUE : %s (%d %s restants) à %s", item.Name, item.Quantity, item.Unit, item.Site),
			Type:         models.TickerMessageAlert,
			DisplayOrder: 0,
		})
	}
	return alerts
}

// Ticker assembles the full banner: stock alerts first, then automatic
// period messages, then manual messages by display order.
func (e *Engine) Ticker(site models.Site, now time.Time) []Message {
	combined := StockAlerts(e.stock(site), site)

	// The welcome message stands in for an empty stats TABLE, not an empty
	// site selection: a site with no stats yet stays quiet when the other
	// site already has data.
	stats := e.stats(site, "", now)
	if len(stats) > 0 || len(e.Store.Snapshot("daily_stats")) == 0 {
		combined = append(combined, AutoMessages(stats, now)...)
	}

	manualRows := e.Store.Snapshot("ticker_messages")
	manual := make([]Message, 0, len(manualRows))
	for _, rec := range manualRows {
		m := rec.(*models.TickerMessage)
		manual = append(manual, Message{
			ID:           m.ID,
			Text:         m.Text,
			Type:         m.Type,
			DisplayOrder: m.DisplayOrder,
			IsManual:     true,
		})
	}
	sort.SliceStable(manual, func(i, j int) bool {
		return manual[i].DisplayOrder < manual[j].DisplayOrder
	})

	return append(combined, manual...)
}
