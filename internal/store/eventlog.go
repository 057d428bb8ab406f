package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one row of the append-only mutation history. Every CLI, TUI, and
// web mutation appends here; the log is diagnostic, not a source of truth.
type Event struct {
	EventID   string          `json:"event_id"`
	Timestamp time.Time       `json:"ts"`
	Type      string          `json:"type"`
	EntityID  string          `json:"entity_id"`
	Payload   json.RawMessage `json:"payload"`
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, "history.sqlite")
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database
	// is locked" flakiness when the CLI and TUI touch the log concurrently.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, ts_unixms);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// AppendEvent records one mutation. The payload is marshaled to JSON.
func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := NewID("evt")
	if err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events (event_id, ts_unixms, type, entity_id, payload_json) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UnixMilli(), typ, entityID, string(b),
	)
	return err
}

// ReadEvents returns history rows, oldest first. limit == 0 means all;
// entityID filters to one entity when non-empty.
func (s Store) ReadEvents(ctx context.Context, limit int, entityID string) ([]Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, ts_unixms, type, entity_id, payload_json FROM events`
	var args []any
	if entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY ts_unixms ASC, event_id ASC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			id, typ, entity, payload string
			tsMS                     int64
		)
		if err := rows.Scan(&id, &tsMS, &typ, &entity, &payload); err != nil {
			return nil, err
		}
		raw := json.RawMessage(strings.TrimSpace(payload))
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		out = append(out, Event{
			EventID:   id,
			Timestamp: time.UnixMilli(tsMS).UTC(),
			Type:      typ,
			EntityID:  entity,
			Payload:   raw,
		})
	}
	return out, rows.Err()
}
