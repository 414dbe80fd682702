package game

// freeSlot returns the lowest-index empty display slot.
func (g *Game) freeSlot() (int, bool) {
	for i, id := range g.slots {
		if id == 0 {
			return i, true
		}
	}
	return 0, false
}

// clearSlot empties whichever slot holds the given order id.
// No-op when the order already lost its slot.
func (g *Game) clearSlot(orderID uint64) {
	for i, id := range g.slots {
		if id == orderID {
			g.slots[i] = 0
			return
		}
	}
}
