// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package indexer keeps a queryable history of committed lease transitions in
// a SQLite database.
package indexer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/inconshreveable/log15"
	_ "modernc.org/sqlite"

	"github.com/ava-labs/leasevm/leasevm"
)

var _ leasevm.Notifier = (*Indexer)(nil)

// Record is an indexed event.
type Record struct {
	ID    uuid.UUID
	Event leasevm.Event
}

// Indexer is a leasevm.Notifier that appends every event it receives to a
// SQLite table.
type Indexer struct {
	db  *sql.DB
	log log.Logger
}

// Open opens or creates the index at [path].
func Open(path string, logger log.Logger) (*Indexer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if logger == nil {
		logger = log.New("module", "indexer")
	}
	i := &Indexer{db: db, log: logger}
	if err := i.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate index %s: %w", path, err)
	}
	return i, nil
}

func (i *Indexer) migrate() error {
	_, err := i.db.Exec(`
CREATE TABLE IF NOT EXISTS events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id TEXT NOT NULL UNIQUE,
	kind TEXT NOT NULL,
	slot_id INTEGER NOT NULL,
	caller TEXT NOT NULL,
	holder TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS events_by_slot ON events(slot_id, seq);
CREATE INDEX IF NOT EXISTS events_by_kind ON events(kind, seq);
`)
	return err
}

// Close closes the underlying database.
func (i *Indexer) Close() error {
	return i.db.Close()
}

// Notify stores [e]. The transition is already committed, so failures are
// logged rather than returned.
func (i *Indexer) Notify(e leasevm.Event) {
	if _, err := i.Insert(context.Background(), e); err != nil {
		i.log.Error("failed to index event", "kind", e.Kind, "slot", e.SlotID, "error", err)
	}
}

// Insert stores [e] and returns the id it was assigned.
func (i *Indexer) Insert(ctx context.Context, e leasevm.Event) (uuid.UUID, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	_, err = i.db.ExecContext(ctx, `
INSERT INTO events(event_id, kind, slot_id, caller, holder, timestamp, payload)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		id.String(),
		string(e.Kind),
		int64(e.SlotID),
		e.Caller.String(),
		e.Holder.String(),
		e.Timestamp,
		string(payload),
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// History returns the events of [slotID] in the order they were committed.
func (i *Indexer) History(ctx context.Context, slotID uint64) ([]Record, error) {
	return i.query(ctx, `SELECT event_id, payload FROM events WHERE slot_id = ? ORDER BY seq`, int64(slotID))
}

// ByKind returns at most [limit] of the most recent events of [kind], newest
// first.
func (i *Indexer) ByKind(ctx context.Context, kind leasevm.EventKind, limit int) ([]Record, error) {
	return i.query(ctx, `SELECT event_id, payload FROM events WHERE kind = ? ORDER BY seq DESC LIMIT ?`, string(kind), limit)
}

// Count returns the number of indexed events.
func (i *Indexer) Count(ctx context.Context) (uint64, error) {
	var count int64
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (i *Indexer) query(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			idStr   string
			payload string
		)
		if err := rows.Scan(&idStr, &payload); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("malformed event id %q: %w", idStr, err)
		}
		record := Record{ID: id}
		if err := json.Unmarshal([]byte(payload), &record.Event); err != nil {
			return nil, fmt.Errorf("malformed event %s: %w", idStr, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
