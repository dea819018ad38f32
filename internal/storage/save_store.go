package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Asside333/HabitHub/internal/engine"
)

// MainSlotKey is the single save slot a local install uses.
const MainSlotKey = "main"

// SaveStore persists the engine's save blob and event archive in SQLite.
// It satisfies engine.Store.
type SaveStore struct {
	db   *sql.DB
	slot string
}

func NewSaveStore(db *sql.DB) *SaveStore {
	return &SaveStore{db: db, slot: MainSlotKey}
}

func (s *SaveStore) Load(ctx context.Context) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT state FROM save_slots WHERE slot = ?`, s.slot)

	var state string
	if err := row.Scan(&state); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("save load: %w", err)
	}
	return []byte(state), nil
}

func (s *SaveStore) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO save_slots (slot, schema_version, updated_at, state)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at,
			state = excluded.state
	`, s.slot, engine.SchemaVersion, time.Now().UTC(), string(data))
	if err != nil {
		return fmt.Errorf("save upsert: %w", err)
	}
	return nil
}

func (s *SaveStore) ArchiveEvents(ctx context.Context, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, ev := range events {
			payload, err := json.Marshal(ev.Payload)
			if err != nil {
				return fmt.Errorf("encode event payload: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO event_archive (id, timestamp, type, payload)
				VALUES (?, ?, ?, ?)
			`, ev.ID, ev.Timestamp, ev.Type, string(payload)); err != nil {
				return fmt.Errorf("archive event insert: %w", err)
			}
		}
		return nil
	})
}

// ArchivedEvents returns up to limit archived events, newest first.
func (s *SaveStore) ArchivedEvents(ctx context.Context, limit int) ([]engine.Event, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, type, payload
		FROM event_archive
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("archive query: %w", err)
	}
	defer rows.Close()

	var events []engine.Event
	for rows.Next() {
		var ev engine.Event
		var payload string
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.Type, &payload); err != nil {
			return nil, fmt.Errorf("archive scan: %w", err)
		}
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), &ev.Payload); err != nil {
				ev.Payload = map[string]any{"raw": payload}
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive rows: %w", err)
	}
	return events, nil
}
