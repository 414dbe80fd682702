package game

import (
	"math"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/order"
)

// addScore applies a delta to the ledger. Only delivery settlement and
// unlock/restock costs call this; costs are pre-checked for affordability,
// so the ledger never goes negative.
func (g *Game) addScore(delta int) {
	g.score += delta
}

// Score returns the current ledger value.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// orderReward settles a completed order: the sum over delivered plants of
// round(points x multiplier) x delivered count, read from the inventory at
// completion time. A multiplier changed mid-order via a boosted restock
// therefore affects the whole payout.
func (g *Game) orderReward(o *order.Order) int {
	total := 0
	for key, count := range o.Delivered {
		src, ok := g.plants[key]
		if !ok {
			continue
		}
		unit := int(math.Round(float64(src.Points) * src.Multiplier))
		total += unit * count
	}
	return total
}
