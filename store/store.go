// Package store holds the in-memory mirror of the synced tables: the read
// model every dashboard request is answered from. It is fed by Load (bulk
// snapshots from the DB) and ApplyChange (feed events); local writes go
// through Insert/Delete which persist first and apply optimistically after.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/access"
	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/filters"
	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/utils"
)

const mutateTimeout = 15 * time.Second

// Writer persists a mutation durably before the store mirrors it locally.
type Writer interface {
	Insert(ctx context.Context, table string, payload []byte) (models.Synced, error)
	Delete(ctx context.Context, table string, id string) (models.Synced, error)
}

// DBWriter is the production Writer: gorm row + outbox row in one
// transaction.
type DBWriter struct{}

func (DBWriter) Insert(ctx context.Context, table string, payload []byte) (models.Synced, error) {
	return models.InsertRecord(ctx, table, payload)
}

func (DBWriter) Delete(ctx context.Context, table string, id string) (models.Synced, error) {
	return models.DeleteRecord(ctx, table, id)
}

type Store struct {
	mu     sync.RWMutex
	tables map[string][]models.Synced
	writer Writer
}

func New(writer Writer) *Store {
	tables := make(map[string][]models.Synced, len(models.SyncedTables()))
	for _, table := range models.SyncedTables() {
		tables[table] = nil
	}
	return &Store{tables: tables, writer: writer}
}

// keyFor identifies a record inside its table. Daily stats are keyed by
// their (date, site) grain; everything else by id.
func keyFor(table string, rec models.Synced) string {
	if table == "daily_stats" {
		return rec.RecordDate() + "|" + rec.RecordSite()
	}
	return rec.RecordID()
}

// Load replaces one table's collection with a fresh DB snapshot.
func (s *Store) Load(ctx context.Context, table string) error {
	rows, err := models.LoadTable(ctx, table)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tables[table] = rows
	s.mu.Unlock()
	return nil
}

// LoadAll snapshots every synced table. Feed events arriving while a load
// is in flight may be overwritten by it; subscribing before loading bounds
// the staleness to one refresh.
func (s *Store) LoadAll(ctx context.Context) error {
	for _, table := range models.SyncedTables() {
		if err := s.Load(ctx, table); err != nil {
			return fmt.Errorf("load %s: %w", table, err)
		}
	}
	return nil
}

// ApplyChange folds one feed event into the local collection. Inserts
// append, or replace in place when the key is already present (the feed
// echo of this instance's own optimistic insert); updates replace the
// record with the matching key; deletes remove it. An update or delete for
// an unknown key is a silent no-op: the feed may reference rows this
// instance never loaded.
func (s *Store) ApplyChange(table string, action models.ChangeAction, rec models.Synced) {
	if rec == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return
	}
	key := keyFor(table, rec)

	switch action {
	case models.ChangeActionInsert:
		for i := range rows {
			if keyFor(table, rows[i]) == key {
				rows[i] = rec
				return
			}
		}
		s.tables[table] = append(rows, rec)
	case models.ChangeActionUpdate:
		for i := range rows {
			if keyFor(table, rows[i]) == key {
				rows[i] = rec
				return
			}
		}
	case models.ChangeActionDelete:
		for i := range rows {
			if keyFor(table, rows[i]) == key {
				s.tables[table] = append(rows[:i], rows[i+1:]...)
				return
			}
		}
	}
}

// Insert validates the caller's write permission, persists through the
// writer with a bounded timeout, then mirrors the new record locally. On
// any error the local collection is untouched.
func (s *Store) Insert(ctx context.Context, table string, payload []byte) (models.Synced, error) {
	if err := checkWrite(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	rec, err := s.writer.Insert(ctx, table, payload)
	if err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "store", "Insert", "persist failed", table, err)
		return nil, err
	}
	s.ApplyChange(table, models.ChangeActionInsert, rec)
	return rec, nil
}

// Delete persists the removal, then drops the record locally. A later feed
// event for the same key lands on the already-removed row and no-ops.
func (s *Store) Delete(ctx context.Context, table string, id string) (models.Synced, error) {
	if err := checkWrite(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, mutateTimeout)
	defer cancel()

	rec, err := s.writer.Delete(ctx, table, id)
	if err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "store", "Delete", "persist failed", table+":"+id, err)
		return nil, err
	}
	s.ApplyChange(table, models.ChangeActionDelete, rec)
	return rec, nil
}

// checkWrite re-resolves the permission from the request context. The HTTP
// layer already gates writes, but roles can change mid-session and the
// store is the last line before the database.
func checkWrite(ctx context.Context) error {
	role, ok := utils.GetRoleFromContext(ctx)
	if !ok || role == "" {
		return utils.ErrorPermissionDenied
	}
	path, _ := utils.GetSectionPathFromContext(ctx)
	if !access.CanWrite(path, models.Role(role)) {
		return utils.ErrorPermissionDenied
	}
	return nil
}

// Snapshot returns a copy of one table's records.
func (s *Store) Snapshot(table string) []models.Synced {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.tables[table]
	out := make([]models.Synced, len(rows))
	copy(out, rows)
	return out
}

// Filtered returns the records passing the site and period filters.
func (s *Store) Filtered(table string, site models.Site, period models.Period, now time.Time) []models.Synced {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Synced
	for _, rec := range s.tables[table] {
		if !filters.MatchesSite(rec.RecordSite(), site) {
			continue
		}
		// undated kinds are not period-scoped
		if rec.RecordDate() != "" && !filters.MatchesPeriod(rec.RecordDate(), period, now) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
