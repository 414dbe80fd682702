package game

import (
	"testing"

	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/config"
)

func TestGenerateFillsLowestFreeSlot(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 })
	g.Start()

	// Start seeds one order into slot 0.
	g.mu.Lock()
	if g.slots[0] == 0 {
		t.Fatal("session start did not seed an order into slot 0")
	}
	first := g.slots[0]
	g.tryGenerate(clock.Now())
	second := g.slots[1]
	g.mu.Unlock()

	if second == 0 {
		t.Fatal("second order did not land in slot 1")
	}
	if second <= first {
		t.Errorf("order ids not increasing: %d then %d", first, second)
	}
}

func TestGenerateNoopWhenSlotsFull(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 })
	g.Start()

	g.mu.Lock()
	for len(g.orders) < g.rules.MaxOrders {
		g.tryGenerate(clock.Now())
	}
	count := len(g.orders)
	g.tryGenerate(clock.Now())
	after := len(g.orders)
	g.mu.Unlock()

	if count != g.rules.MaxOrders {
		t.Fatalf("could not fill all slots: %d orders", count)
	}
	if after != count {
		t.Errorf("generation with full slots created an order: %d -> %d", count, after)
	}
}

func TestGenerateNoopWhenPoolEmpty(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 })
	g.Start()

	g.mu.Lock()
	g.unlocked = nil
	before := len(g.orders)
	g.tryGenerate(clock.Now())
	after := len(g.orders)
	g.mu.Unlock()

	if after != before {
		t.Errorf("generation with empty pool created an order")
	}
}

func TestGenerateDiscardsEmptyMapping(t *testing.T) {
	g, clock := newTestGame(t, nil) // TrialChance 0: every trial misses
	g.Start()

	g.mu.Lock()
	before := len(g.orders)
	g.tryGenerate(clock.Now())
	after := len(g.orders)
	nextID := g.nextID
	g.mu.Unlock()

	if after != before {
		t.Error("empty order reached a display slot")
	}
	if nextID != 1 {
		t.Errorf("discarded attempt consumed a sequence id: next=%d", nextID)
	}
}

func TestGeneratedOrderHasTimerFields(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 })
	g.Start()

	g.mu.Lock()
	defer g.mu.Unlock()

	o := g.orders[g.slots[0]]
	if o == nil {
		t.Fatal("no seeded order")
	}
	if o.TotalDuration != g.rules.OrderDuration {
		t.Errorf("TotalDuration = %s, want %s", o.TotalDuration, g.rules.OrderDuration)
	}
	if !o.ExpiresAt.Equal(o.CreatedAt.Add(o.TotalDuration)) {
		t.Errorf("ExpiresAt = %s, want CreatedAt+TotalDuration", o.ExpiresAt)
	}
	if o.Hurry {
		t.Error("new order born with hurry armed")
	}
	if !o.CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt = %s, want %s", o.CreatedAt, clock.Now())
	}
}

func TestGenerateRespectsInterval(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 })
	g.Start()

	// One order seeded at start. Ticks before the interval elapses must not
	// generate more.
	clock.Advance(g.rules.GenerateEvery / 2)
	g.Tick()

	g.mu.Lock()
	count := len(g.orders)
	g.mu.Unlock()
	if count != 1 {
		t.Fatalf("order generated before the interval: %d orders", count)
	}

	clock.Advance(g.rules.GenerateEvery)
	g.Tick()

	g.mu.Lock()
	count = len(g.orders)
	g.mu.Unlock()
	if count != 2 {
		t.Errorf("expected a second order after the interval, got %d", count)
	}
}
