package game

import (
	"fmt"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"
)

// sweepOrders runs the expiry pass over every in-progress order.
// Each order is evaluated independently against its own timer: expired
// orders fail and enter the removal queue; orders inside the hurry window
// arm the sticky hurry flag. Orders without a timer are exempt.
// Callers hold g.mu.
func (g *Game) sweepOrders(now time.Time) {
	for _, o := range g.orders {
		if o.Status != order.StatusInProgress || o.TotalDuration <= 0 {
			continue
		}

		left := o.ExpiresAt.Sub(now)
		if left <= 0 {
			o.Status = order.StatusFail
			g.failed++
			g.setMood(MoodDismayed, now)
			g.scheduleRemoval(o.ID, now)
			g.emit(events.TypeOrderFailed, o.ID, "", nil)
			metrics.Get().RecordOrderFailed()
			if g.logger != nil {
				g.logger.Event("ORDER_FAILED", fmt.Sprintf("order=%d", o.ID))
			}
			continue
		}

		hurryWindow := time.Duration(float64(o.TotalDuration) * g.rules.HurryRatio)
		if !o.Hurry && left <= hurryWindow {
			o.Hurry = true
			g.emit(events.TypeOrderHurry, o.ID, "", nil)
		}
	}
}

// scheduleRemoval queues the deferred removal of a terminal order after the
// on-screen dwell. Callers hold g.mu.
func (g *Game) scheduleRemoval(orderID uint64, now time.Time) {
	g.removals = append(g.removals, removal{
		orderID: orderID,
		due:     now.Add(g.rules.RemovalDwell),
	})
}

// processRemovals executes every queued removal that has come due.
// Callers hold g.mu.
func (g *Game) processRemovals(now time.Time) {
	for len(g.removals) > 0 && !now.Before(g.removals[0].due) {
		next := g.removals[0]
		g.removals = g.removals[1:]
		g.removeOrder(next.orderID)
	}
}

// removeOrder takes a finished order off display. Idempotent: the order or
// its slot may already be gone (double-queued removal, session reset), in
// which case nothing happens. Never removes an in-progress order.
// Callers hold g.mu.
func (g *Game) removeOrder(orderID uint64) {
	o, ok := g.orders[orderID]
	if !ok || !order.IsTerminal(o.Status) {
		return
	}
	delete(g.orders, orderID)
	g.clearSlot(orderID)
}
