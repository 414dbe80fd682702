// Package order defines the customer order domain entity and its lifecycle states.
// This package is PURE and must NOT import any infrastructure packages.
package order

import "time"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSuccess    Status = "success"
	StatusFail       Status = "fail"
)

var terminalStatuses = map[Status]bool{
	StatusSuccess: true,
	StatusFail:    true,
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s Status) bool {
	return terminalStatuses[s]
}

// Order is one customer request for a multiset of plants.
//
// Requested holds the remaining required count per plant key; a key is removed
// the moment it is satisfied, so an empty Requested map means fully delivered.
// Delivered is cumulative and never decremented.
type Order struct {
	ID        uint64         `json:"id"`
	Requested map[string]int `json:"requested"`
	Delivered map[string]int `json:"delivered"`
	Status    Status         `json:"status"`

	CreatedAt     time.Time     `json:"created_at"`
	TotalDuration time.Duration `json:"total_duration"`
	ExpiresAt     time.Time     `json:"expires_at"`
	Hurry         bool          `json:"hurry"`

	// Slot is the display slot index the order occupies, for presentation only.
	Slot int `json:"slot"`
}

// Remaining returns the total requested units still outstanding.
func (o *Order) Remaining() int {
	total := 0
	for _, n := range o.Requested {
		total += n
	}
	return total
}

// DeliveredTotal returns the total units delivered so far.
func (o *Order) DeliveredTotal() int {
	total := 0
	for _, n := range o.Delivered {
		total += n
	}
	return total
}

// Clone returns a deep copy safe to hand to readers.
func (o *Order) Clone() *Order {
	c := *o
	c.Requested = make(map[string]int, len(o.Requested))
	for k, v := range o.Requested {
		c.Requested[k] = v
	}
	c.Delivered = make(map[string]int, len(o.Delivered))
	for k, v := range o.Delivered {
		c.Delivered[k] = v
	}
	return &c
}
