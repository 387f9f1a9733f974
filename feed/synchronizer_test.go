package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/store"
)

// chanSource replays a fixed slice of events.
type chanSource struct {
	events []Event
}

func (s *chanSource) Events(ctx context.Context) <-chan Event {
	out := make(chan Event, len(s.events))
	for _, event := range s.events {
		out <- event
	}
	close(out)
	return out
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func runSynchronizer(t *testing.T, st *store.Store, events []Event) int {
	t.Helper()
	applied := 0
	sync := NewSynchronizer(st, &chanSource{events: events}, nil)
	sync.OnApplied = func(Event) { applied++ }

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sync.Run(ctx)
	return applied
}

func TestSynchronizerAppliesEvents(t *testing.T) {
	st := store.New(store.DBWriter{})

	item := &models.StockItem{ID: "S1", Name: "Câble 2.5mm", Quantity: 500, Threshold: 100, Unit: "m", Site: models.SiteAbidjan}
	updated := &models.StockItem{ID: "S1", Name: "Câble 2.5mm", Quantity: 80, Threshold: 100, Unit: "m", Site: models.SiteAbidjan}

	applied := runSynchronizer(t, st, []Event{
		{Action: models.ChangeActionInsert, Table: "stocks", ID: "S1", Payload: mustJSON(t, item)},
		{Action: models.ChangeActionUpdate, Table: "stocks", ID: "S1", Payload: mustJSON(t, updated)},
	})

	if applied != 2 {
		t.Fatalf("expected 2 applied events, got %d", applied)
	}
	rows := st.Snapshot("stocks")
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	if got := rows[0].(*models.StockItem).Quantity; got != 80 {
		t.Errorf("expected updated quantity 80, got %d", got)
	}
}

func TestSynchronizerDeleteWithBareId(t *testing.T) {
	st := store.New(store.DBWriter{})
	st.ApplyChange("stocks", models.ChangeActionInsert,
		&models.StockItem{ID: "S1", Name: "Câble", Site: models.SiteAbidjan})

	applied := runSynchronizer(t, st, []Event{
		{Action: models.ChangeActionDelete, Table: "stocks", ID: "S1"},
	})

	if applied != 1 {
		t.Fatalf("expected 1 applied event, got %d", applied)
	}
	if len(st.Snapshot("stocks")) != 0 {
		t.Error("delete with a bare id should remove the record")
	}
}

func TestSynchronizerDropsMalformedEvents(t *testing.T) {
	st := store.New(store.DBWriter{})

	applied := runSynchronizer(t, st, []Event{
		{Action: models.ChangeActionInsert, Table: "no_such_table", ID: "x", Payload: []byte(`{}`)},
		{Action: models.ChangeActionInsert, Table: "stocks", ID: "S1", Payload: []byte(`{not json`)},
		{Action: "TRUNCATE", Table: "stocks", ID: "S1", Payload: []byte(`{}`)},
		{Action: models.ChangeActionUpdate, Table: "stocks"},
	})

	if applied != 0 {
		t.Fatalf("malformed events must not apply, got %d applied", applied)
	}
	if len(st.Snapshot("stocks")) != 0 {
		t.Error("store must stay empty after malformed events")
	}
}

func TestEventFromOutbox(t *testing.T) {
	newObj := []byte(`{"id":"S1","name":"Câble"}`)
	oldObj := []byte(`{"id":"S1"}`)

	insert := EventFromOutbox(&models.ChangeMessageRecord{
		EntityTable: "stocks", RecordId: "S1", Action: models.ChangeActionInsert,
		NewObj: newObj, CorrelationId: "corr-1",
	})
	if string(insert.Payload) != string(newObj) || insert.CorrelationId != "corr-1" {
		t.Errorf("insert event should carry the new row")
	}

	del := EventFromOutbox(&models.ChangeMessageRecord{
		EntityTable: "stocks", RecordId: "S1", Action: models.ChangeActionDelete,
		OldObj: oldObj,
	})
	if string(del.Payload) != string(oldObj) {
		t.Errorf("delete event should carry the deleted row")
	}
	if ChannelFor(del.Table) != "feed:stocks" {
		t.Errorf("unexpected channel %q", ChannelFor(del.Table))
	}
}
