package game

import (
	"fmt"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
)

// PlantChangePayload is attached to unlock/restock/depletion events.
type PlantChangePayload struct {
	State      plant.State `json:"state"`
	Stock      int         `json:"stock"`
	Multiplier float64     `json:"multiplier"`
	Cost       int         `json:"cost,omitempty"`
}

// DeliverySnapshot captures a source's scoring values at the moment one unit
// is consumed, before the stock decrement.
type DeliverySnapshot struct {
	Points     int     `json:"points"`
	Multiplier float64 `json:"multiplier"`
}

// Unlock purchases a Locked source: deducts its point cost from the score
// (the free plant costs nothing), fills its stock, and adds it to the pool
// the order generator samples from. Silent no-op on any failed precondition.
func (g *Game) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseRunning {
		return
	}
	src, ok := g.plants[key]
	if !ok || src.State != plant.StateLocked {
		return
	}

	cost := g.unlockCost(src)
	if g.score < cost {
		return
	}

	g.addScore(-cost)
	src.State = plant.StateAvailable
	src.Stock = g.rules.FullStock
	src.Multiplier = 1
	g.addToPool(key)

	g.emit(events.TypePlantUnlocked, 0, key, PlantChangePayload{
		State: src.State, Stock: src.Stock, Multiplier: src.Multiplier, Cost: cost,
	})
	if g.logger != nil {
		g.logger.Event("PLANT_UNLOCKED", fmt.Sprintf("plant=%s cost=%d", key, cost))
	}
}

// Restock refills a Depleted source at its point cost and resets the
// multiplier to 1. Silent no-op on any failed precondition.
func (g *Game) Restock(key string) {
	g.restock(key, 1)
}

// RestockBoosted refills a Depleted source and applies a score multiplier
// that persists until the next unlock or restock. Negative multipliers are
// clamped to zero.
func (g *Game) RestockBoosted(key string, multiplier float64) {
	if multiplier < 0 {
		multiplier = 0
	}
	g.restock(key, multiplier)
}

func (g *Game) restock(key string, multiplier float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseRunning {
		return
	}
	src, ok := g.plants[key]
	if !ok || src.State != plant.StateDepleted {
		return
	}

	cost := g.unlockCost(src)
	if g.score < cost {
		return
	}

	g.addScore(-cost)
	src.State = plant.StateAvailable
	src.Stock = g.rules.FullStock
	src.Multiplier = multiplier

	g.emit(events.TypePlantRestocked, 0, key, PlantChangePayload{
		State: src.State, Stock: src.Stock, Multiplier: src.Multiplier, Cost: cost,
	})
	if g.logger != nil {
		g.logger.Event("PLANT_RESTOCKED", fmt.Sprintf("plant=%s cost=%d multiplier=%.2f", key, cost, multiplier))
	}
}

// unlockCost is the score price of unlocking or restocking a source.
func (g *Game) unlockCost(src *plant.Source) int {
	if src.Key == g.rules.FreePlantKey {
		return 0
	}
	return src.Points
}

// consumeOneUnit takes one unit out of an Available source and returns the
// points/multiplier snapshot active at that moment. Reaching zero stock
// flips the source to Depleted. Callers hold g.mu.
func (g *Game) consumeOneUnit(src *plant.Source) DeliverySnapshot {
	if src.State != plant.StateAvailable {
		return DeliverySnapshot{}
	}

	snap := DeliverySnapshot{Points: src.Points, Multiplier: src.Multiplier}

	if src.Stock > 0 {
		src.Stock--
	}
	if src.Stock == 0 {
		src.State = plant.StateDepleted
		g.emit(events.TypePlantDepleted, 0, src.Key, PlantChangePayload{
			State: src.State, Stock: src.Stock, Multiplier: src.Multiplier,
		})
	}
	return snap
}

// addToPool adds a key to the generator pool, once.
func (g *Game) addToPool(key string) {
	for _, k := range g.unlocked {
		if k == key {
			return
		}
	}
	g.unlocked = append(g.unlocked, key)
}
