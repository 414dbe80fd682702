// Package plant defines the core domain entities for plant sources ("buckets").
// This package is PURE and must NOT import any infrastructure packages.
package plant

// State represents the availability of a plant source.
type State string

const (
	// StateLocked means the source has not been purchased yet.
	StateLocked State = "locked"
	// StateAvailable means the source can fulfil deliveries.
	StateAvailable State = "available"
	// StateDepleted means the stock ran out and the source needs a restock.
	StateDepleted State = "out_of_stock"
)

// Spec describes a plant source in the static catalog.
type Spec struct {
	ID           int    `json:"id"`
	Key          string `json:"key"`
	BucketKey    string `json:"bucket_key"`
	Name         string `json:"name"`
	Points       int    `json:"points"`
	InitialState State  `json:"initial_state"`
}

// Source is the live, mutable state of one plant source within a session.
type Source struct {
	Spec
	State      State   `json:"state"`
	Stock      int     `json:"stock"`
	Multiplier float64 `json:"multiplier"`
}

// NewSource creates a live source from its catalog spec with zero stock.
// Session start is responsible for filling stock on Available sources.
func NewSource(spec Spec) *Source {
	return &Source{
		Spec:       spec,
		State:      spec.InitialState,
		Stock:      0,
		Multiplier: 1,
	}
}

// Catalog is the built-in six-plant shop layout.
// plant4 is the free starter: it begins Available and unlocks at no cost.
var Catalog = []Spec{
	{ID: 1, Key: "plant1", BucketKey: "bucket1", Name: "Monstera", Points: 100, InitialState: StateLocked},
	{ID: 2, Key: "plant2", BucketKey: "bucket2", Name: "River Vine", Points: 3000, InitialState: StateLocked},
	{ID: 3, Key: "plant3", BucketKey: "bucket3", Name: "Tomato", Points: 20, InitialState: StateLocked},
	{ID: 4, Key: "plant4", BucketKey: "bucket4", Name: "Staff Stick", Points: 5, InitialState: StateAvailable},
	{ID: 5, Key: "plant5", BucketKey: "bucket5", Name: "Mega Carrot", Points: 99999, InitialState: StateLocked},
	{ID: 6, Key: "plant6", BucketKey: "bucket6", Name: "Giant Dandelion", Points: 250, InitialState: StateLocked},
}

// Keys returns the stable keys of a catalog in declaration order.
func Keys(catalog []Spec) []string {
	keys := make([]string, 0, len(catalog))
	for _, spec := range catalog {
		keys = append(keys, spec.Key)
	}
	return keys
}
