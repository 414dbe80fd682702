package game

import (
	"testing"
	"time"

	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/config"
)

func TestPhaseTransitions(t *testing.T) {
	g, clock := newTestGame(t, nil)

	if got := g.Phase(); got != PhasePre {
		t.Fatalf("initial phase = %s, want pre", got)
	}

	g.Start()
	if got := g.Phase(); got != PhaseRunning {
		t.Fatalf("phase after Start = %s, want running", got)
	}

	clock.Advance(g.rules.SessionDuration - time.Second)
	g.Tick()
	if got := g.Phase(); got != PhaseRunning {
		t.Fatalf("phase before the duration elapsed = %s, want running", got)
	}

	clock.Advance(2 * time.Second)
	g.Tick()
	if got := g.Phase(); got != PhaseEnded {
		t.Fatalf("phase after the duration elapsed = %s, want ended", got)
	}

	// Ended is terminal: further ticks change nothing.
	clock.Advance(time.Minute)
	g.Tick()
	if got := g.Phase(); got != PhaseEnded {
		t.Errorf("phase drifted after end: %s", got)
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	g, clock := newTestGame(t, nil)
	g.Start()

	g.mu.Lock()
	firstSession := g.sessionID
	g.mu.Unlock()

	clock.Advance(10 * time.Second)
	g.Start()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sessionID != firstSession {
		t.Error("Start during a running session reset state")
	}
}

func TestStartResetsEverything(t *testing.T) {
	g, clock := newTestGame(t, nil)
	g.Start()
	setScore(g, 500)
	makeAvailable(t, g, "plant1")
	o := injectOrder(t, g, map[string]int{"plant1": 1})

	g.SelectPlant("plant1")
	g.Deliver(o.ID, "plant1") // completes, queues removal, adds reward note

	clock.Advance(g.rules.SessionDuration + time.Second)
	g.Tick()
	g.Start()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.score != 0 {
		t.Errorf("score = %d after reset, want 0", g.score)
	}
	if len(g.orders) != 0 {
		t.Errorf("orders = %d after reset, want 0", len(g.orders))
	}
	for i, id := range g.slots {
		if id != 0 {
			t.Errorf("slot %d still holds order %d", i, id)
		}
	}
	if g.nextID != 1 {
		t.Errorf("id sequence = %d after reset, want 1", g.nextID)
	}
	if len(g.removals) != 0 || len(g.rewards) != 0 {
		t.Error("deferred work survived the reset")
	}
	if g.selected != "" {
		t.Error("selection survived the reset")
	}

	// plant1 was unlocked mid-session; the reset puts it back to Locked with
	// the pool rebuilt from catalog-Available sources only.
	if g.plants["plant1"].State != "locked" {
		t.Errorf("plant1 state = %s after reset, want locked", g.plants["plant1"].State)
	}
	if len(g.unlocked) != 1 || g.unlocked[0] != "plant4" {
		t.Errorf("pool = %v after reset, want [plant4]", g.unlocked)
	}
}

func TestOrderIDsUniqueWithinSession(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 })
	g.Start()

	seen := make(map[uint64]bool)
	var last uint64
	for i := 0; i < 6; i++ {
		g.mu.Lock()
		for _, id := range g.slots {
			if id != 0 && !seen[id] {
				if id <= last && last != 0 {
					t.Errorf("order id %d not greater than %d", id, last)
				}
				seen[id] = true
				if id > last {
					last = id
				}
				// Fail and remove to free the slot for the next round.
				o := g.orders[id]
				o.Status = "fail"
				g.removeOrder(id)
			}
		}
		g.tryGenerate(clock.Now())
		g.mu.Unlock()
	}

	if len(seen) < 4 {
		t.Fatalf("only %d distinct ids observed", len(seen))
	}
}

type captureSink struct {
	ch chan SessionResult
}

func (s *captureSink) RecordSessionResult(r SessionResult) error {
	s.ch <- r
	return nil
}

func TestSessionEndRecordsResult(t *testing.T) {
	g, clock := newTestGame(t, nil)
	sink := &captureSink{ch: make(chan SessionResult, 1)}
	g.SetResultSink(sink)

	g.Start()
	makeAvailable(t, g, "plant1")
	o := injectOrder(t, g, map[string]int{"plant1": 1})
	g.SelectPlant("plant1")
	g.Deliver(o.ID, "plant1")

	clock.Advance(g.rules.SessionDuration + time.Second)
	g.Tick()

	select {
	case result := <-sink.ch:
		if result.FinalScore != 100 {
			t.Errorf("FinalScore = %d, want 100", result.FinalScore)
		}
		if result.OrdersCompleted != 1 || result.OrdersFailed != 0 {
			t.Errorf("completed/failed = %d/%d, want 1/0", result.OrdersCompleted, result.OrdersFailed)
		}
		if result.SessionID == "" {
			t.Error("result missing session id")
		}
	case <-time.After(time.Second):
		t.Fatal("session result never reached the sink")
	}
}

func TestGenerationStopsAfterEnd(t *testing.T) {
	g, clock := newTestGame(t, func(r *config.Rules) { r.TrialChance = 1 }) // one order seeded
	g.Start()

	clock.Advance(g.rules.SessionDuration + time.Second)
	g.Tick() // ends the session

	g.mu.Lock()
	before := g.nextID
	g.mu.Unlock()

	for i := 0; i < 3; i++ {
		clock.Advance(g.rules.GenerateEvery)
		g.Tick()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.nextID != before {
		t.Error("orders generated after the session ended")
	}
}
