// Package events provides the append-only log of everything that happens
// inside a session. The presentation layer replays it to render feedback;
// the storage layer writes it through for post-session analysis.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type defines the category of a game event.
type Type string

const (
	TypeSessionStarted Type = "SESSION_STARTED"
	TypeSessionEnded   Type = "SESSION_ENDED"
	TypeOrderCreated   Type = "ORDER_CREATED"
	TypeOrderHurry     Type = "ORDER_HURRY"
	TypeOrderFailed    Type = "ORDER_FAILED"
	TypeOrderCompleted Type = "ORDER_COMPLETED"
	TypeItemDelivered  Type = "ITEM_DELIVERED"
	TypePlantUnlocked  Type = "PLANT_UNLOCKED"
	TypePlantRestocked Type = "PLANT_RESTOCKED"
	TypePlantDepleted  Type = "PLANT_DEPLETED"
)

// GameEvent is an immutable record of one state transition.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      Type        `json:"type"`
	SessionID string      `json:"session_id"`
	OrderID   uint64      `json:"order_id,omitempty"`
	PlantKey  string      `json:"plant_key,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event GameEvent) error
}

// Log is the in-memory append-only log of game events.
type Log struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister Persister
}

// NewLog creates a new event log with an optional persister.
func NewLog(persister Persister) *Log {
	return &Log{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
// Persistence is write-through and best-effort; a slow disk must never
// stall the tick loop.
func (l *Log) Append(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)

	if l.persister != nil {
		go func(e GameEvent) {
			_ = l.persister.Append(e)
		}(event)
	}
}

// Replay returns the full history of events in append order.
func (l *Log) Replay() []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.events
}

// GetBySession returns all events recorded under a session id.
func (l *Log) GetBySession(sessionID string) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []GameEvent
	for _, e := range l.events {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of a specific type.
func (l *Log) GetByType(t Type) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
