package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, order_id, plant_key, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType,
		event.OrderID, event.PlantKey, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EventType,
			&e.OrderID, &e.PlantKey, &payloadStr,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, order_id, plant_key, payload FROM events WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, order_id, plant_key, payload FROM events WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}

// ---------------------------------------------------------
// SQLiteSessionRepository
// ---------------------------------------------------------

type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

func (r *SQLiteSessionRepository) Upsert(ctx context.Context, record SessionRecord) error {
	query := `
		INSERT INTO sessions (session_id, started_at, ended_at, final_score, orders_completed, orders_failed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			started_at=excluded.started_at,
			ended_at=excluded.ended_at,
			final_score=excluded.final_score,
			orders_completed=excluded.orders_completed,
			orders_failed=excluded.orders_failed
	`
	_, err := r.db.ExecContext(ctx, query,
		record.SessionID, record.StartedAt, record.EndedAt,
		record.FinalScore, record.OrdersCompleted, record.OrdersFailed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*SessionRecord, error) {
	query := `SELECT session_id, started_at, ended_at, final_score, orders_completed, orders_failed FROM sessions WHERE session_id = ?`

	var rec SessionRecord
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&rec.SessionID, &rec.StartedAt, &rec.EndedAt,
		&rec.FinalScore, &rec.OrdersCompleted, &rec.OrdersFailed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteSessionRepository) ListRecent(ctx context.Context, limit int) ([]SessionRecord, error) {
	query := `SELECT session_id, started_at, ended_at, final_score, orders_completed, orders_failed FROM sessions ORDER BY ended_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		err := rows.Scan(
			&rec.SessionID, &rec.StartedAt, &rec.EndedAt,
			&rec.FinalScore, &rec.OrdersCompleted, &rec.OrdersFailed,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
