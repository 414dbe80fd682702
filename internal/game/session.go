package game

import (
	"fmt"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"

	"github.com/google/uuid"
)

// Phase is the overall session state.
type Phase string

const (
	PhasePre     Phase = "pre"
	PhaseRunning Phase = "running"
	PhaseEnded   Phase = "ended"
)

// SessionResult is the record written when a session ends.
type SessionResult struct {
	SessionID       string
	StartedAt       time.Time
	EndedAt         time.Time
	FinalScore      int
	OrdersCompleted int
	OrdersFailed    int
}

// ResultSink receives the result of a finished session.
type ResultSink interface {
	RecordSessionResult(result SessionResult) error
}

// SessionEndedPayload is the data attached to a SESSION_ENDED event.
type SessionEndedPayload struct {
	FinalScore      int `json:"final_score"`
	OrdersCompleted int `json:"orders_completed"`
	OrdersFailed    int `json:"orders_failed"`
}

// Start begins a fresh session: score back to zero, every order and slot
// cleared, every plant source back to its catalog state, the id sequence
// and the removal queue reset. A no-op while a session is already running.
//
// Clearing the removal queue here is what invalidates every deferred
// removal from the previous session in one step.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseRunning {
		return
	}

	now := g.clock.Now()

	g.sessionID = uuid.NewString()
	g.phase = PhaseRunning
	g.startedAt = now
	g.endsAt = now.Add(g.rules.SessionDuration)

	g.score = 0
	g.orders = make(map[uint64]*order.Order)
	g.slots = make([]uint64, g.rules.MaxOrders)
	g.nextID = 1
	g.selected = ""
	g.removals = nil
	g.rewards = nil
	g.mood = MoodIdle
	g.completed = 0
	g.failed = 0

	g.unlocked = g.unlocked[:0]
	for _, spec := range g.catalog {
		src := g.plants[spec.Key]
		src.State = spec.InitialState
		src.Multiplier = 1
		if spec.InitialState == plant.StateAvailable {
			src.Stock = g.rules.FullStock
			g.unlocked = append(g.unlocked, spec.Key)
		} else {
			src.Stock = 0
		}
	}

	g.lastGen = now
	g.emit(events.TypeSessionStarted, 0, "", nil)
	metrics.Get().RecordSessionStarted()
	if g.logger != nil {
		g.logger.Event("SESSION_STARTED", fmt.Sprintf("session=%s duration=%s", g.sessionID, g.rules.SessionDuration))
	}

	// Seed the first customer right away instead of waiting a full interval.
	g.tryGenerate(now)
}

// endSession flips the phase to Ended. Terminal: a new Start call is the
// only way forward.
func (g *Game) endSession(now time.Time) {
	g.phase = PhaseEnded
	g.selected = ""

	g.emit(events.TypeSessionEnded, 0, "", SessionEndedPayload{
		FinalScore:      g.score,
		OrdersCompleted: g.completed,
		OrdersFailed:    g.failed,
	})
	if g.logger != nil {
		g.logger.Event("SESSION_ENDED", fmt.Sprintf("session=%s score=%d completed=%d failed=%d",
			g.sessionID, g.score, g.completed, g.failed))
	}

	if g.results != nil {
		result := SessionResult{
			SessionID:       g.sessionID,
			StartedAt:       g.startedAt,
			EndedAt:         now,
			FinalScore:      g.score,
			OrdersCompleted: g.completed,
			OrdersFailed:    g.failed,
		}
		// Best-effort write; the tick loop must not wait on the database.
		go func(r SessionResult, sink ResultSink) {
			if err := sink.RecordSessionResult(r); err != nil && g.logger != nil {
				g.logger.Errorf("failed to record session result: %v", err)
			}
		}(result, g.results)
	}
}

// Phase returns the current session phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}
