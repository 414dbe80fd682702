package game

import (
	"testing"
	"time"
)

func TestSnapshotIsolation(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	makeAvailable(t, g, "plant1")
	o := injectOrder(t, g, map[string]int{"plant1": 2})

	snap := g.Snapshot()
	if len(snap.Orders) != 1 {
		t.Fatalf("snapshot has %d orders, want 1", len(snap.Orders))
	}

	// Mutating the snapshot must not reach live state.
	snap.Orders[0].Requested["plant1"] = 99
	snap.Plants[0].Stock = -5
	snap.Slots[0] = 4242

	g.mu.Lock()
	defer g.mu.Unlock()
	if o.Requested["plant1"] != 2 {
		t.Error("snapshot mutation leaked into a live order")
	}
	if g.slots[o.Slot] != o.ID {
		t.Error("snapshot mutation leaked into live slots")
	}
	for _, src := range g.plants {
		if src.Stock < 0 {
			t.Error("snapshot mutation leaked into live inventory")
		}
	}
}

func TestSnapshotRemainingTime(t *testing.T) {
	g, clock := newTestGame(t, nil)

	if snap := g.Snapshot(); snap.RemainingMS != 0 {
		t.Errorf("pre-session remaining = %d, want 0", snap.RemainingMS)
	}

	g.Start()
	clock.Advance(30 * time.Second)

	snap := g.Snapshot()
	want := (g.rules.SessionDuration - 30*time.Second).Milliseconds()
	if snap.RemainingMS != want {
		t.Errorf("remaining = %dms, want %dms", snap.RemainingMS, want)
	}

	clock.Advance(g.rules.SessionDuration)
	g.Tick()
	if snap := g.Snapshot(); snap.RemainingMS != 0 {
		t.Errorf("post-session remaining = %d, want 0", snap.RemainingMS)
	}
}

func TestMoodDecaysToIdle(t *testing.T) {
	g, clock := newTestGame(t, nil)
	g.Start()
	injectOrder(t, g, map[string]int{"plant4": 1})

	clock.Advance(16 * time.Second)
	g.Tick() // order fails

	if snap := g.Snapshot(); snap.Mood != MoodDismayed {
		t.Fatalf("mood = %s after a failure, want dismayed", snap.Mood)
	}

	clock.Advance(g.rules.MoodHold + time.Second)
	g.Tick()

	if snap := g.Snapshot(); snap.Mood != MoodIdle {
		t.Errorf("mood = %s after the hold, want idle", snap.Mood)
	}
}

func TestRewardNotesExpire(t *testing.T) {
	g, clock := newTestGame(t, nil)
	g.Start()
	makeAvailable(t, g, "plant1")
	o := injectOrder(t, g, map[string]int{"plant1": 1})

	g.SelectPlant("plant1")
	g.Deliver(o.ID, "plant1")

	if snap := g.Snapshot(); len(snap.Rewards) != 1 {
		t.Fatalf("reward notes = %d, want 1", len(snap.Rewards))
	}

	clock.Advance(g.rules.RewardNoteTTL + time.Second)
	g.Tick()

	if snap := g.Snapshot(); len(snap.Rewards) != 0 {
		t.Errorf("reward notes = %d after TTL, want 0", len(snap.Rewards))
	}
}

func TestSelectUnknownPlantIgnored(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()

	g.SelectPlant("fern9000")

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected != "" {
		t.Errorf("selection = %q, want empty", g.selected)
	}
}
