package game

import (
	"fmt"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"
)

// OrderCreatedPayload is the data attached to an ORDER_CREATED event.
type OrderCreatedPayload struct {
	Requested map[string]int `json:"requested"`
	Slot      int            `json:"slot"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// tryGenerate makes one attempt to put a new customer order on display.
//
// Each attempt flips a coin a fixed number of times; every win adds one unit
// of a uniformly random unlocked plant. Flipping per trial rather than per
// plant bounds order size stochastically while allowing empty outcomes,
// which are discarded so an empty order never reaches a slot.
// Callers hold g.mu.
func (g *Game) tryGenerate(now time.Time) {
	slot, ok := g.freeSlot()
	if !ok {
		return
	}
	if len(g.unlocked) == 0 {
		return
	}

	requested := make(map[string]int)
	for i := 0; i < g.rules.OrderTrials; i++ {
		if g.rng.Float64() < g.rules.TrialChance {
			key := g.unlocked[g.rng.Intn(len(g.unlocked))]
			requested[key]++
		}
	}
	if len(requested) == 0 {
		return
	}

	id := g.nextID
	g.nextID++

	o := &order.Order{
		ID:            id,
		Requested:     requested,
		Delivered:     make(map[string]int),
		Status:        order.StatusInProgress,
		CreatedAt:     now,
		TotalDuration: g.rules.OrderDuration,
		ExpiresAt:     now.Add(g.rules.OrderDuration),
		Slot:          slot,
	}
	g.orders[id] = o
	g.slots[slot] = id

	g.emit(events.TypeOrderCreated, id, "", OrderCreatedPayload{
		Requested: cloneCounts(requested),
		Slot:      slot,
		ExpiresAt: o.ExpiresAt,
	})
	metrics.Get().RecordOrderGenerated()
	if g.logger != nil {
		g.logger.Event("ORDER_CREATED", fmt.Sprintf("order=%d slot=%d items=%d", id, slot, o.Remaining()))
	}
}

// cloneCounts copies a count map so event payloads stay immutable.
func cloneCounts(m map[string]int) map[string]int {
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
