package feed

import (
	"context"

	"github.com/sirupsen/logrus"

	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/store"
)

// Synchronizer applies feed events to the entity store. Malformed events
// are logged and dropped; the loop only stops with its context.
type Synchronizer struct {
	Store  *store.Store
	Source Source
	Logger *logrus.Logger

	// OnApplied, when set, observes every applied event (metrics recompute,
	// websocket fan-out).
	OnApplied func(Event)
}

func NewSynchronizer(st *store.Store, source Source, logger *logrus.Logger) *Synchronizer {
	return &Synchronizer{Store: st, Source: source, Logger: logger}
}

func (s *Synchronizer) Run(ctx context.Context) {
	events := s.Source.Events(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.apply(event)
		}
	}
}

func (s *Synchronizer) apply(event Event) {
	if !models.IsSyncedTable(event.Table) {
		s.drop(event, "unknown table")
		return
	}

	payload := event.Payload
	if len(payload) == 0 {
		// a delete may arrive with a bare id
		if event.ID == "" {
			s.drop(event, "empty payload")
			return
		}
		payload = []byte(`{"id":"` + event.ID + `"}`)
	}

	rec, err := models.DecodeRecord(event.Table, payload)
	if err != nil {
		s.drop(event, err.Error())
		return
	}

	switch event.Action {
	case models.ChangeActionInsert, models.ChangeActionUpdate, models.ChangeActionDelete:
		s.Store.ApplyChange(event.Table, event.Action, rec)
	default:
		s.drop(event, "unknown action")
		return
	}

	if s.OnApplied != nil {
		s.OnApplied(event)
	}
}

func (s *Synchronizer) drop(event Event, reason string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"field":  "Synchronizer",
		"table":  event.Table,
		"action": event.Action,
		"id":     event.ID,
	}).Warn("feed event dropped: " + reason)
}
