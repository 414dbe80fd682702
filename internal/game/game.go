package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/config"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/logger"
)

// Mood is the shopkeeper's feedback state for the presentation layer.
type Mood string

const (
	MoodIdle        Mood = "idle"
	MoodCelebrating Mood = "celebrating"
	MoodDismayed    Mood = "dismayed"
)

// RewardNote is a transient score popup tied to a display slot.
type RewardNote struct {
	OrderID   uint64    `json:"order_id"`
	Slot      int       `json:"slot"`
	Amount    int       `json:"amount"`
	ExpiresAt time.Time `json:"expires_at"`
}

// removal is one pending deferred order removal.
// The queue is time-ordered by construction: dwell is constant, so appends
// arrive in due order.
type removal struct {
	orderID uint64
	due     time.Time
}

// Game is the central orchestrator owning all mutable session state.
type Game struct {
	mu sync.Mutex

	clock   Clock
	rules   config.Rules
	rng     *rand.Rand
	log     *events.Log
	logger  *logger.Logger
	results ResultSink

	catalog []plant.Spec

	// Session state
	sessionID string
	phase     Phase
	startedAt time.Time
	endsAt    time.Time

	// Score ledger
	score int

	// Inventory
	plants   map[string]*plant.Source
	unlocked []string // pool consulted by the order generator

	// Orders and display slots; slot value 0 means empty (ids start at 1).
	orders  map[uint64]*order.Order
	slots   []uint64
	nextID  uint64
	lastGen time.Time

	// Player intent
	selected string

	// Deferred work and presentation state
	removals  []removal
	rewards   []RewardNote
	mood      Mood
	moodUntil time.Time

	// Session counters for the result record
	completed int
	failed    int
}

// NewGame wires the state machine. The game starts in the Pre phase;
// nothing moves until Start is called.
func NewGame(rules config.Rules, catalog []plant.Spec, clock Clock, log *events.Log, appLogger *logger.Logger) *Game {
	g := &Game{
		clock:   clock,
		rules:   rules,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log,
		logger:  appLogger,
		catalog: catalog,
		phase:   PhasePre,
		plants:  make(map[string]*plant.Source, len(catalog)),
		orders:  make(map[uint64]*order.Order),
		slots:   make([]uint64, rules.MaxOrders),
		nextID:  1,
		mood:    MoodIdle,
	}
	for _, spec := range catalog {
		g.plants[spec.Key] = plant.NewSource(spec)
	}
	return g
}

// SetResultSink attaches the session-result writer. Optional.
func (g *Game) SetResultSink(sink ResultSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.results = sink
}

// Tick advances every timer-driven part of the machine: session end,
// deferred removals, expiring presentation state, the order expiry sweep,
// and the generation interval. Called at a fixed rate by the Ticker.
func (g *Game) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()

	if g.phase == PhaseRunning && !now.Before(g.endsAt) {
		g.endSession(now)
	}

	g.processRemovals(now)
	g.pruneRewards(now)
	if g.mood != MoodIdle && now.After(g.moodUntil) {
		g.mood = MoodIdle
	}

	if g.phase != PhaseRunning {
		return
	}

	g.sweepOrders(now)

	if now.Sub(g.lastGen) >= g.rules.GenerateEvery {
		g.lastGen = now
		g.tryGenerate(now)
	}
}

// SelectPlant records which plant the player intends to deliver next.
// Unknown keys are ignored.
func (g *Game) SelectPlant(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.plants[key]; !ok {
		return
	}
	g.selected = key
}

// ClearSelection drops the pending selection.
func (g *Game) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = ""
}

// setMood switches the shopkeeper feedback state for the configured hold.
func (g *Game) setMood(m Mood, now time.Time) {
	g.mood = m
	g.moodUntil = now.Add(g.rules.MoodHold)
}

// pruneRewards drops reward popups whose display time ran out.
func (g *Game) pruneRewards(now time.Time) {
	if len(g.rewards) == 0 {
		return
	}
	kept := g.rewards[:0]
	for _, note := range g.rewards {
		if now.Before(note.ExpiresAt) {
			kept = append(kept, note)
		}
	}
	g.rewards = kept
}

// emit appends one event to the log, stamped with the current session.
func (g *Game) emit(t events.Type, orderID uint64, plantKey string, payload interface{}) {
	if g.log == nil {
		return
	}
	g.log.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: g.clock.Now(),
		Type:      t,
		SessionID: g.sessionID,
		OrderID:   orderID,
		PlantKey:  plantKey,
		Payload:   payload,
	})
}
