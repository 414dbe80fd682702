// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the domain event structure for persistence.
// The domain packages should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	OrderID   uint64                 `json:"order_id" db:"order_id"`
	PlantKey  string                 `json:"plant_key" db:"plant_key"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetBySessionID retrieves all events for a session (for replay).
	GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type within a session.
	GetByEventType(ctx context.Context, sessionID string, eventType string) ([]GameEvent, error)
}

// SessionRecord is the summary row written when a session ends.
type SessionRecord struct {
	SessionID       string    `json:"session_id" db:"session_id"`
	StartedAt       time.Time `json:"started_at" db:"started_at"`
	EndedAt         time.Time `json:"ended_at" db:"ended_at"`
	FinalScore      int       `json:"final_score" db:"final_score"`
	OrdersCompleted int       `json:"orders_completed" db:"orders_completed"`
	OrdersFailed    int       `json:"orders_failed" db:"orders_failed"`
}

// SessionRepository defines the interface for session summaries.
type SessionRepository interface {
	// Upsert writes or updates a session record.
	Upsert(ctx context.Context, record SessionRecord) error

	// GetBySessionID retrieves one session record.
	GetBySessionID(ctx context.Context, sessionID string) (*SessionRecord, error)

	// ListRecent returns the most recent sessions, newest first.
	ListRecent(ctx context.Context, limit int) ([]SessionRecord, error)
}
