// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Gameplay metrics
	OrdersGenerated int64
	OrdersCompleted int64
	OrdersFailed    int64
	Deliveries      int64
	SessionsStarted int64

	// Event metrics
	EventsWritten    int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordOrderGenerated records a new order entering a display slot.
func (c *Collector) RecordOrderGenerated() {
	atomic.AddInt64(&c.OrdersGenerated, 1)
}

// RecordOrderCompleted records a successful order settlement.
func (c *Collector) RecordOrderCompleted() {
	atomic.AddInt64(&c.OrdersCompleted, 1)
}

// RecordOrderFailed records an order failing on expiry.
func (c *Collector) RecordOrderFailed() {
	atomic.AddInt64(&c.OrdersFailed, 1)
}

// RecordDelivery records one delivered unit.
func (c *Collector) RecordDelivery() {
	atomic.AddInt64(&c.Deliveries, 1)
}

// RecordSessionStarted records a session reset.
func (c *Collector) RecordSessionStarted() {
	atomic.AddInt64(&c.SessionsStarted, 1)
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)

	var tickAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"gameplay": map[string]interface{}{
			"sessions_started": atomic.LoadInt64(&c.SessionsStarted),
			"orders_generated": atomic.LoadInt64(&c.OrdersGenerated),
			"orders_completed": atomic.LoadInt64(&c.OrdersCompleted),
			"orders_failed":    atomic.LoadInt64(&c.OrdersFailed),
			"deliveries":       atomic.LoadInt64(&c.Deliveries),
		},

		"events": map[string]interface{}{
			"written": atomic.LoadInt64(&c.EventsWritten),
			"errors":  atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP leafrush_tick_count Total tick cycles\n")
		fmt.Fprintf(w, "# TYPE leafrush_tick_count counter\n")
		fmt.Fprintf(w, "leafrush_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP leafrush_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE leafrush_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "leafrush_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP leafrush_sessions_started Total sessions started\n")
		fmt.Fprintf(w, "# TYPE leafrush_sessions_started counter\n")
		fmt.Fprintf(w, "leafrush_sessions_started %d\n\n", atomic.LoadInt64(&c.SessionsStarted))

		fmt.Fprintf(w, "# HELP leafrush_orders_total Orders by outcome\n")
		fmt.Fprintf(w, "# TYPE leafrush_orders_total counter\n")
		fmt.Fprintf(w, "leafrush_orders_total{state=\"generated\"} %d\n", atomic.LoadInt64(&c.OrdersGenerated))
		fmt.Fprintf(w, "leafrush_orders_total{state=\"completed\"} %d\n", atomic.LoadInt64(&c.OrdersCompleted))
		fmt.Fprintf(w, "leafrush_orders_total{state=\"failed\"} %d\n\n", atomic.LoadInt64(&c.OrdersFailed))

		fmt.Fprintf(w, "# HELP leafrush_deliveries Total delivered units\n")
		fmt.Fprintf(w, "# TYPE leafrush_deliveries counter\n")
		fmt.Fprintf(w, "leafrush_deliveries %d\n\n", atomic.LoadInt64(&c.Deliveries))

		fmt.Fprintf(w, "# HELP leafrush_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE leafrush_events_written counter\n")
		fmt.Fprintf(w, "leafrush_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP leafrush_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE leafrush_event_write_errors counter\n")
		fmt.Fprintf(w, "leafrush_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP leafrush_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE leafrush_ws_connections gauge\n")
		fmt.Fprintf(w, "leafrush_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP leafrush_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE leafrush_ws_messages_total counter\n")
		fmt.Fprintf(w, "leafrush_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "leafrush_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
