package metrics

import (
	"strings"
	"testing"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/store"
)

// Wednesday 2024-03-13
var now = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func messageByID(messages []Message, id string) *Message {
	for i := range messages {
		if messages[i].ID == id {
			return &messages[i]
		}
	}
	return nil
}

func TestAutoMessagesWelcomeWhenEmpty(t *testing.T) {
	messages := AutoMessages(nil, now)
	if len(messages) != 1 || messages[0].ID != "welcome-default" {
		t.Fatalf("empty stats should yield exactly the welcome message, got %d", len(messages))
	}
	if messages[0].Type != models.TickerMessageInfo {
		t.Errorf("welcome message should be info, got %q", messages[0].Type)
	}
}

func TestAutoMessagesPositiveDay(t *testing.T) {
	stats := []*models.DailyStat{
		stat("2024-03-13", models.SiteAbidjan, 150000, 105000, 5),
	}
	messages := AutoMessages(stats, now)

	day := messageByID(messages, "auto-day")
	if day == nil {
		t.Fatal("expected an auto-day message")
	}
	if day.Text != "Félicitations ! Nous sommes à +30.0% de bénéfice aujourd'hui." {
		t.Errorf("unexpected day text: %q", day.Text)
	}
	if day.Type != models.TickerMessageSuccess {
		t.Errorf("positive day should be success, got %q", day.Type)
	}

	// today's stat also lands in the wider periods
	if messageByID(messages, "auto-week") == nil || messageByID(messages, "auto-month") == nil {
		t.Error("today's stat should surface in week and month too")
	}
	year := messageByID(messages, "auto-year")
	if year == nil {
		t.Fatal("expected an auto-year message")
	}
	if year.Type != models.TickerMessageInfo {
		t.Errorf("positive year should be info, got %q", year.Type)
	}
	if year.Text != "Bilan Annuel Global : +30.0% de marge." {
		t.Errorf("unexpected year text: %q", year.Text)
	}
}

func TestAutoMessagesLossIsAlert(t *testing.T) {
	stats := []*models.DailyStat{
		stat("2024-03-13", models.SiteAbidjan, 100000, 120000, 3),
	}
	messages := AutoMessages(stats, now)

	day := messageByID(messages, "auto-day")
	if day == nil {
		t.Fatal("expected an auto-day message")
	}
	if day.Type != models.TickerMessageAlert {
		t.Errorf("loss should be alert, got %q", day.Type)
	}
	if !strings.Contains(day.Text, "-20.0%") {
		t.Errorf("loss text should carry the signed percent, got %q", day.Text)
	}

	year := messageByID(messages, "auto-year")
	if year == nil || year.Type != models.TickerMessageAlert {
		t.Error("negative year should be alert")
	}
}

func TestAutoMessagesFlatMarginSaysNothing(t *testing.T) {
	stats := []*models.DailyStat{
		stat("2024-03-13", models.SiteAbidjan, 100000, 100000, 3),
	}
	if messages := AutoMessages(stats, now); len(messages) != 0 {
		t.Errorf("zero margin should produce no messages, got %d", len(messages))
	}
}

func TestAutoMessagesStaleStatsPeriodScoped(t *testing.T) {
	// stat from last month: no day/week/month message, only year
	stats := []*models.DailyStat{
		stat("2024-02-10", models.SiteAbidjan, 100000, 60000, 3),
	}
	messages := AutoMessages(stats, now)
	if messageByID(messages, "auto-day") != nil || messageByID(messages, "auto-month") != nil {
		t.Error("old stat must not produce day or month messages")
	}
	if messageByID(messages, "auto-year") == nil {
		t.Error("old stat within the year should still produce the year message")
	}
}

func TestTickerWelcomeScopedToWholeTable(t *testing.T) {
	st := store.New(store.DBWriter{})
	engine := NewEngine(st)

	// empty table: welcome shows regardless of site
	messages := engine.Ticker(models.SiteBouake, now)
	if messageByID(messages, "welcome-default") == nil {
		t.Error("empty stats table should show the welcome message")
	}

	// one Abidjan stat: Bouaké has no stats but the table is not empty
	st.ApplyChange("daily_stats", models.ChangeActionInsert,
		stat("2024-03-13", models.SiteAbidjan, 150000, 105000, 5))
	messages = engine.Ticker(models.SiteBouake, now)
	if messageByID(messages, "welcome-default") != nil {
		t.Error("welcome must not show for a site filter once the table has data")
	}
}

func TestStockAlerts(t *testing.T) {
	items := []*models.StockItem{
		{ID: "S1", Name: "Câble 2.5mm", Quantity: 500, Threshold: 100, Unit: "m", Site: models.SiteAbidjan},
		{ID: "S2", Name: "Prises Legrand", Quantity: 45, Threshold: 50, Unit: "pcs", Site: models.SiteAbidjan},
		{ID: "S3", Name: "Tuyau PVC 40", Quantity: 20, Threshold: 30, Unit: "barres", Site: models.SiteBouake},
	}

	alerts := StockAlerts(items, models.SiteAbidjan)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 Abidjan alert, got %d", len(alerts))
	}
	want := "⚠️ STOCK CRITIQUE : Prises Legrand (45 pcs restants) à Abidjan"
	if alerts[0].Text != want {
		t.Errorf("alert text = %q, want %q", alerts[0].Text, want)
	}
	if alerts[0].Type != models.TickerMessageAlert {
		t.Errorf("stock alert should be alert, got %q", alerts[0].Type)
	}

	global := StockAlerts(items, models.SiteAll)
	if len(global) != 2 {
		t.Errorf("expected 2 global alerts, got %d", len(global))
	}

	// exactly at threshold still alerts
	atThreshold := StockAlerts([]*models.StockItem{
		{ID: "S4", Name: "Gaz R410", Quantity: 30, Threshold: 30, Unit: "kg", Site: models.SiteBouake},
	}, models.SiteBouake)
	if len(atThreshold) != 1 {
		t.Error("quantity == threshold should alert")
	}
}

func TestTickerOrdering(t *testing.T) {
	st := store.New(store.DBWriter{})
	engine := NewEngine(st)

	st.ApplyChange("stocks", models.ChangeActionInsert,
		&models.StockItem{ID: "S2", Name: "Prises Legrand", Quantity: 45, Threshold: 50, Unit: "pcs", Site: models.SiteAbidjan})
	st.ApplyChange("daily_stats", models.ChangeActionInsert,
		stat("2024-03-13", models.SiteAbidjan, 150000, 105000, 5))
	st.ApplyChange("ticker_messages", models.ChangeActionInsert,
		&models.TickerMessage{ID: "M2", Text: "Réunion générale Lundi à 08h00", Type: models.TickerMessageInfo, DisplayOrder: 2, IsManual: true})
	st.ApplyChange("ticker_messages", models.ChangeActionInsert,
		&models.TickerMessage{ID: "M1", Text: "Bienvenue sur EBF Manager v1.0", Type: models.TickerMessageInfo, DisplayOrder: 1, IsManual: true})

	messages := engine.Ticker(models.SiteAbidjan, now)
	if len(messages) < 4 {
		t.Fatalf("expected stock + auto + 2 manual messages, got %d", len(messages))
	}

	// stock alerts lead
	if !strings.HasPrefix(messages[0].ID, "stock-alert-") {
		t.Errorf("first message should be the stock alert, got %q", messages[0].ID)
	}
	// automatic period messages follow
	if messages[1].ID != "auto-day" {
		t.Errorf("second message should be auto-day, got %q", messages[1].ID)
	}
	// manual messages close, ordered by display_order
	last := messages[len(messages)-1]
	secondLast := messages[len(messages)-2]
	if secondLast.ID != "M1" || last.ID != "M2" {
		t.Errorf("manual messages should close in display order, got %q then %q", secondLast.ID, last.ID)
	}
}
