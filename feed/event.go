// Package feed moves committed changes from the outbox to every store that
// mirrors the database: outbox rows are published onto redis pub/sub
// channels (one per table, so per-table order holds) and a synchronizer
// folds them back into the entity store.
package feed

import (
	"encoding/json"

	"bitbucket.org/ebfdigital/manager_backend/models"
)

// Event is the normalized change notification carried on the feed.
// Payload holds the full row for inserts and updates, and the deleted row
// for deletes (at minimum its id, plus date and site for daily stats).
type Event struct {
	Action        models.ChangeAction `json:"action"`
	Table         string              `json:"table"`
	ID            string              `json:"id"`
	Payload       json.RawMessage     `json:"payload,omitempty"`
	CorrelationId string              `json:"correlation_id,omitempty"`
}

// ChannelPrefix namespaces the per-table redis channels.
const ChannelPrefix = "feed:"

func ChannelFor(table string) string {
	return ChannelPrefix + table
}

// EventFromOutbox converts an outbox row into its wire form.
func EventFromOutbox(rec *models.ChangeMessageRecord) Event {
	ev := Event{
		Action:        rec.Action,
		Table:         rec.EntityTable,
		ID:            rec.RecordId,
		CorrelationId: rec.CorrelationId,
	}
	if rec.Action == models.ChangeActionDelete {
		ev.Payload = rec.OldObj
	} else {
		ev.Payload = rec.NewObj
	}
	return ev
}
