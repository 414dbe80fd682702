package game

import (
	"fmt"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"
)

// ItemDeliveredPayload is the data attached to an ITEM_DELIVERED event.
// Points and Multiplier are the source's values at the moment of delivery;
// settlement at completion reads the inventory again.
type ItemDeliveredPayload struct {
	Points     int     `json:"points"`
	Multiplier float64 `json:"multiplier"`
	Remaining  int     `json:"remaining"`
}

// OrderCompletedPayload is the data attached to an ORDER_COMPLETED event.
type OrderCompletedPayload struct {
	Reward int `json:"reward"`
}

// Deliver applies the currently selected plant to an order.
//
// Preconditions, all silent no-ops when unmet: session running, the plant is
// the pending selection, its source is Available, the order exists, is in
// progress, and still wants this plant. On success one unit moves from
// requested to delivered, the stock drops, and the selection clears. The
// moment the requested map empties, the order succeeds in the same
// transformation: settlement, reward popup, and removal scheduling happen
// before the lock is released.
func (g *Game) Deliver(orderID uint64, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()

	if g.phase != PhaseRunning {
		return
	}
	if g.selected == "" || g.selected != key {
		return
	}
	src, ok := g.plants[key]
	if !ok || src.State != plant.StateAvailable {
		return
	}
	o, ok := g.orders[orderID]
	if !ok || o.Status != order.StatusInProgress || o.Requested[key] <= 0 {
		return
	}

	o.Requested[key]--
	if o.Requested[key] == 0 {
		delete(o.Requested, key)
	}
	o.Delivered[key]++

	snap := g.consumeOneUnit(src)
	g.selected = ""

	g.emit(events.TypeItemDelivered, orderID, key, ItemDeliveredPayload{
		Points:     snap.Points,
		Multiplier: snap.Multiplier,
		Remaining:  o.Remaining(),
	})
	metrics.Get().RecordDelivery()

	if len(o.Requested) == 0 {
		g.completeOrder(o, now)
	}
}

// completeOrder settles a fully delivered order: status flip, reward from
// completion-time inventory values, score credit, popup, deferred removal.
// Callers hold g.mu.
func (g *Game) completeOrder(o *order.Order, now time.Time) {
	o.Status = order.StatusSuccess
	g.completed++
	g.setMood(MoodCelebrating, now)

	reward := g.orderReward(o)
	g.addScore(reward)
	g.rewards = append(g.rewards, RewardNote{
		OrderID:   o.ID,
		Slot:      o.Slot,
		Amount:    reward,
		ExpiresAt: now.Add(g.rules.RewardNoteTTL),
	})
	g.scheduleRemoval(o.ID, now)

	g.emit(events.TypeOrderCompleted, o.ID, "", OrderCompletedPayload{Reward: reward})
	metrics.Get().RecordOrderCompleted()
	if g.logger != nil {
		g.logger.Event("ORDER_COMPLETED", fmt.Sprintf("order=%d reward=%d", o.ID, reward))
	}
}
