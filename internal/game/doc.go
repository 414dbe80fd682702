// Package game contains the order/inventory state machine and the tick loop.
// This is the heartbeat of the flower shop.
//
// ARCHITECTURAL RULE: all mutations go through Game methods under one mutex.
// The Ticker and player actions are the only writers; everyone else reads
// immutable snapshots or replays the event log.
package game
