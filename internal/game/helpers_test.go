package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/config"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/logger"
)

// newTestGame builds a game on a manual clock with a fixed RNG seed.
// TrialChance is zeroed so sessions start without a seeded order; tests that
// exercise generation flip it back up or inject orders directly.
func newTestGame(t *testing.T, mutate func(*config.Rules)) (*Game, *ManualClock) {
	t.Helper()

	rules := config.DefaultRules()
	rules.TrialChance = 0
	if mutate != nil {
		mutate(&rules)
	}

	clock := NewManualClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	g := NewGame(rules, plant.Catalog, clock, events.NewLog(nil), logger.NewLogger())
	g.rng = rand.New(rand.NewSource(42))
	return g, clock
}

// injectOrder registers an in-progress order the way the generator would.
func injectOrder(t *testing.T, g *Game, requested map[string]int) *order.Order {
	t.Helper()

	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.freeSlot()
	if !ok {
		t.Fatal("no free display slot to inject an order into")
	}

	now := g.clock.Now()
	req := make(map[string]int, len(requested))
	for k, v := range requested {
		req[k] = v
	}

	id := g.nextID
	g.nextID++
	o := &order.Order{
		ID:            id,
		Requested:     req,
		Delivered:     make(map[string]int),
		Status:        order.StatusInProgress,
		CreatedAt:     now,
		TotalDuration: g.rules.OrderDuration,
		ExpiresAt:     now.Add(g.rules.OrderDuration),
		Slot:          slot,
	}
	g.orders[id] = o
	g.slots[slot] = id
	return o
}

// makeAvailable forces a source into the Available state with full stock.
func makeAvailable(t *testing.T, g *Game, key string) {
	t.Helper()

	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.plants[key]
	if !ok {
		t.Fatalf("unknown plant key %q", key)
	}
	src.State = plant.StateAvailable
	src.Stock = g.rules.FullStock
	src.Multiplier = 1
	g.addToPool(key)
}

// setScore overrides the ledger for precondition tests.
func setScore(g *Game, score int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.score = score
}

// source reads a live source under the lock.
func source(t *testing.T, g *Game, key string) plant.Source {
	t.Helper()

	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.plants[key]
	if !ok {
		t.Fatalf("unknown plant key %q", key)
	}
	return *src
}
