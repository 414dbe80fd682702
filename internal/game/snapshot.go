package game

import (
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
)

// Snapshot is a deep copy of everything the presentation layer may read.
// Mutating a snapshot never touches live game state.
type Snapshot struct {
	SessionID   string         `json:"session_id"`
	Phase       Phase          `json:"phase"`
	RemainingMS int64          `json:"remaining_ms"`
	Score       int            `json:"score"`
	Selected    string         `json:"selected,omitempty"`
	Mood        Mood           `json:"mood"`
	Plants      []plant.Source `json:"plants"`
	Orders      []*order.Order `json:"orders"`
	Slots       []uint64       `json:"slots"`
	Rewards     []RewardNote   `json:"rewards"`
}

// Snapshot returns the current read-only view of the session.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()

	var remaining int64
	if g.phase == PhaseRunning {
		if left := g.endsAt.Sub(now); left > 0 {
			remaining = left.Milliseconds()
		}
	}

	snap := Snapshot{
		SessionID:   g.sessionID,
		Phase:       g.phase,
		RemainingMS: remaining,
		Score:       g.score,
		Selected:    g.selected,
		Mood:        g.mood,
		Plants:      make([]plant.Source, 0, len(g.catalog)),
		Orders:      make([]*order.Order, 0, len(g.orders)),
		Slots:       append([]uint64(nil), g.slots...),
		Rewards:     append([]RewardNote(nil), g.rewards...),
	}

	// Catalog order keeps the plant list stable for renderers.
	for _, spec := range g.catalog {
		snap.Plants = append(snap.Plants, *g.plants[spec.Key])
	}

	// Orders in slot order first, then any slotless stragglers by id.
	seen := make(map[uint64]bool, len(g.orders))
	for _, id := range g.slots {
		if o, ok := g.orders[id]; ok {
			snap.Orders = append(snap.Orders, o.Clone())
			seen[id] = true
		}
	}
	for id, o := range g.orders {
		if !seen[id] {
			snap.Orders = append(snap.Orders, o.Clone())
		}
	}

	return snap
}

// RemainingTime returns how long the running session still has.
func (g *Game) RemainingTime() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseRunning {
		return 0
	}
	left := g.endsAt.Sub(g.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}
