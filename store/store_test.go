package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/shopspring/decimal"
)

// fakeWriter persists nothing; it hands back canned results so store logic
// can be exercised without a database.
type fakeWriter struct {
	insertResult models.Synced
	deleteResult models.Synced
	err          error
	inserts      int
	deletes      int
}

func (w *fakeWriter) Insert(ctx context.Context, table string, payload []byte) (models.Synced, error) {
	w.inserts++
	if w.err != nil {
		return nil, w.err
	}
	return w.insertResult, nil
}

func (w *fakeWriter) Delete(ctx context.Context, table string, id string) (models.Synced, error) {
	w.deletes++
	if w.err != nil {
		return nil, w.err
	}
	return w.deleteResult, nil
}

func writerCtx(role string, path string) context.Context {
	ctx := utils.SetRoleInContext(context.Background(), role)
	return utils.SetSectionPathInContext(ctx, path)
}

func stock(id, name string, qty int, site models.Site) *models.StockItem {
	return &models.StockItem{ID: id, Name: name, Quantity: qty, Threshold: 10, Unit: "pcs", Site: site}
}

func TestApplyChangeInsertUpdateDelete(t *testing.T) {
	s := New(&fakeWriter{})

	s.ApplyChange("stocks", models.ChangeActionInsert, stock("S1", "Câble", 100, models.SiteAbidjan))
	s.ApplyChange("stocks", models.ChangeActionInsert, stock("S2", "Prises", 45, models.SiteAbidjan))
	if got := len(s.Snapshot("stocks")); got != 2 {
		t.Fatalf("expected 2 records, got %d", got)
	}

	s.ApplyChange("stocks", models.ChangeActionUpdate, stock("S1", "Câble 2.5mm", 80, models.SiteAbidjan))
	rows := s.Snapshot("stocks")
	if rows[0].(*models.StockItem).Name != "Câble 2.5mm" {
		t.Errorf("update should replace in place, got %q", rows[0].(*models.StockItem).Name)
	}

	s.ApplyChange("stocks", models.ChangeActionDelete, stock("S2", "", 0, models.SiteAbidjan))
	if got := len(s.Snapshot("stocks")); got != 1 {
		t.Fatalf("expected 1 record after delete, got %d", got)
	}
}

func TestApplyChangeUnknownIdIsNoOp(t *testing.T) {
	s := New(&fakeWriter{})
	s.ApplyChange("stocks", models.ChangeActionInsert, stock("S1", "Câble", 100, models.SiteAbidjan))

	s.ApplyChange("stocks", models.ChangeActionUpdate, stock("ghost", "x", 1, models.SiteAbidjan))
	s.ApplyChange("stocks", models.ChangeActionDelete, stock("ghost", "", 0, models.SiteAbidjan))

	rows := s.Snapshot("stocks")
	if len(rows) != 1 || rows[0].RecordID() != "S1" {
		t.Fatalf("unknown ids must not disturb the collection, got %d rows", len(rows))
	}
}

func TestApplyChangeDailyStatsMatchesOnGrain(t *testing.T) {
	s := New(&fakeWriter{})
	s.ApplyChange("daily_stats", models.ChangeActionInsert, &models.DailyStat{
		ID: "A", Date: "2024-03-13", Site: models.SiteAbidjan,
		Revenue: decimal.NewFromInt(150000),
	})

	// replica with a different id but the same (date, site) replaces the row
	s.ApplyChange("daily_stats", models.ChangeActionUpdate, &models.DailyStat{
		ID: "B", Date: "2024-03-13", Site: models.SiteAbidjan,
		Revenue: decimal.NewFromInt(200000),
	})

	rows := s.Snapshot("daily_stats")
	if len(rows) != 1 {
		t.Fatalf("expected 1 stat row, got %d", len(rows))
	}
	if !rows[0].(*models.DailyStat).Revenue.Equal(decimal.NewFromInt(200000)) {
		t.Errorf("update should have matched on (date, site)")
	}

	// same date, other site is a different row
	s.ApplyChange("daily_stats", models.ChangeActionInsert, &models.DailyStat{
		ID: "C", Date: "2024-03-13", Site: models.SiteBouake,
	})
	if got := len(s.Snapshot("daily_stats")); got != 2 {
		t.Fatalf("expected 2 stat rows, got %d", got)
	}
}

func TestInsertAppliesOptimistically(t *testing.T) {
	w := &fakeWriter{insertResult: stock("S9", "Tuyau", 20, models.SiteBouake)}
	s := New(w)

	rec, err := s.Insert(writerCtx("Magasinier", "/quincaillerie/stocks"), "stocks", []byte(`{"name":"Tuyau"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.RecordID() != "S9" {
		t.Errorf("expected persisted record back, got %q", rec.RecordID())
	}
	if len(s.Snapshot("stocks")) != 1 {
		t.Error("insert should mirror into the local collection")
	}
}

func TestInsertThenFeedEchoDoesNotDuplicate(t *testing.T) {
	committed := stock("S9", "Tuyau", 20, models.SiteBouake)
	w := &fakeWriter{insertResult: committed}
	s := New(w)

	if _, err := s.Insert(writerCtx("Magasinier", "/quincaillerie/stocks"), "stocks", []byte(`{"name":"Tuyau"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the dispatcher publishes the committed row; the same instance's
	// synchronizer then applies it on top of the optimistic insert
	s.ApplyChange("stocks", models.ChangeActionInsert, stock("S9", "Tuyau", 20, models.SiteBouake))

	rows := s.Snapshot("stocks")
	if len(rows) != 1 {
		t.Fatalf("record S9 present %d times, want 1", len(rows))
	}
	if rows[0].RecordID() != "S9" {
		t.Errorf("surviving record should be S9, got %q", rows[0].RecordID())
	}
}

func TestInsertDeniedLeavesStoreUntouched(t *testing.T) {
	w := &fakeWriter{insertResult: stock("S9", "Tuyau", 20, models.SiteBouake)}
	s := New(w)

	_, err := s.Insert(writerCtx("Visiteur", "/quincaillerie/stocks"), "stocks", []byte(`{}`))
	if !errors.Is(err, utils.ErrorPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if w.inserts != 0 {
		t.Error("denied write must never reach the writer")
	}
	if len(s.Snapshot("stocks")) != 0 {
		t.Error("denied write must not change the store")
	}
}

func TestInsertWriterErrorLeavesStoreUntouched(t *testing.T) {
	w := &fakeWriter{err: errors.New("duplicate entry")}
	s := New(w)

	_, err := s.Insert(writerCtx("Admin", "/quincaillerie/stocks"), "stocks", []byte(`{}`))
	if err == nil {
		t.Fatal("expected writer error to surface")
	}
	if len(s.Snapshot("stocks")) != 0 {
		t.Error("failed write must not change the store")
	}
}

func TestDeleteRemovesLocally(t *testing.T) {
	w := &fakeWriter{deleteResult: stock("S1", "", 0, models.SiteAbidjan)}
	s := New(w)
	s.ApplyChange("stocks", models.ChangeActionInsert, stock("S1", "Câble", 100, models.SiteAbidjan))

	if _, err := s.Delete(writerCtx("Admin", "/quincaillerie/stocks"), "stocks", "S1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Snapshot("stocks")) != 0 {
		t.Error("delete should remove the record locally")
	}
	// the feed's own delete event for the same key is then a no-op
	s.ApplyChange("stocks", models.ChangeActionDelete, stock("S1", "", 0, models.SiteAbidjan))
	if len(s.Snapshot("stocks")) != 0 {
		t.Error("replayed delete must stay a no-op")
	}
}

func TestFiltered(t *testing.T) {
	s := New(&fakeWriter{})
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

	s.ApplyChange("daily_stats", models.ChangeActionInsert, &models.DailyStat{ID: "A", Date: "2024-03-13", Site: models.SiteAbidjan})
	s.ApplyChange("daily_stats", models.ChangeActionInsert, &models.DailyStat{ID: "B", Date: "2024-03-12", Site: models.SiteAbidjan})
	s.ApplyChange("daily_stats", models.ChangeActionInsert, &models.DailyStat{ID: "C", Date: "2024-03-13", Site: models.SiteBouake})

	day := s.Filtered("daily_stats", models.SiteAbidjan, models.PeriodDay, now)
	if len(day) != 1 || day[0].RecordID() != "A" {
		t.Errorf("expected only today's Abidjan row, got %d rows", len(day))
	}

	global := s.Filtered("daily_stats", models.SiteAll, models.PeriodWeek, now)
	if len(global) != 3 {
		t.Errorf("expected all three rows in the week globally, got %d", len(global))
	}

	// undated records are not period-scoped
	s.ApplyChange("stocks", models.ChangeActionInsert, stock("S1", "Câble", 100, models.SiteAbidjan))
	undated := s.Filtered("stocks", models.SiteAbidjan, models.PeriodDay, now)
	if len(undated) != 1 {
		t.Errorf("undated records should pass the period filter, got %d", len(undated))
	}
}
