package models

import (
	"testing"
)

func TestDecodeRecordPartialPayload(t *testing.T) {
	rec, err := DecodeRecord("interventions", []byte(`{"id":"I9","client":"Hôtel Ivoire"}`))
	if err != nil {
		t.Fatalf("partial payload should decode: %v", err)
	}
	intervention, ok := rec.(*Intervention)
	if !ok {
		t.Fatalf("expected *Intervention, got %T", rec)
	}
	if intervention.ID != "I9" || intervention.Client != "Hôtel Ivoire" {
		t.Errorf("decoded fields wrong: %+v", intervention)
	}
	if intervention.Status != "" {
		t.Errorf("missing fields must stay zero, got status %q", intervention.Status)
	}
}

func TestDecodeRecordUnknownTable(t *testing.T) {
	if _, err := DecodeRecord("nope", []byte(`{}`)); err == nil {
		t.Error("unknown table should error")
	}
}

func TestSyncedTableRegistry(t *testing.T) {
	for _, table := range SyncedTables() {
		if !IsSyncedTable(table) {
			t.Errorf("table %q missing from decode registry", table)
		}
		if _, ok := loaders[table]; !ok {
			t.Errorf("table %q missing from load registry", table)
		}
	}
	if IsSyncedTable("change_messages") {
		t.Error("the outbox itself must not ride the feed")
	}
}

func TestDailyStatGrainKeys(t *testing.T) {
	stat := &DailyStat{ID: "X", Date: "2024-03-13", Site: SiteAbidjan}
	if stat.RecordDate() != "2024-03-13" || stat.RecordSite() != "Abidjan" {
		t.Errorf("grain accessors wrong: %q %q", stat.RecordDate(), stat.RecordSite())
	}
	if (&TickerMessage{ID: "M"}).RecordDate() != "" {
		t.Error("ticker messages are undated")
	}
}
