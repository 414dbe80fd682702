package order

import "testing"

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusInProgress, false},
		{StatusSuccess, true},
		{StatusFail, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := IsTerminal(tt.status); got != tt.terminal {
				t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	o := &Order{
		ID:        7,
		Requested: map[string]int{"plant1": 2},
		Delivered: map[string]int{"plant3": 1},
		Status:    StatusInProgress,
	}

	c := o.Clone()
	c.Requested["plant1"] = 99
	c.Delivered["plant3"] = 99

	if o.Requested["plant1"] != 2 {
		t.Errorf("mutating clone leaked into original Requested: %d", o.Requested["plant1"])
	}
	if o.Delivered["plant3"] != 1 {
		t.Errorf("mutating clone leaked into original Delivered: %d", o.Delivered["plant3"])
	}
}

func TestTotals(t *testing.T) {
	o := &Order{
		Requested: map[string]int{"plant1": 2, "plant6": 1},
		Delivered: map[string]int{"plant1": 1},
	}
	if got := o.Remaining(); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
	if got := o.DeliveredTotal(); got != 1 {
		t.Errorf("DeliveredTotal() = %d, want 1", got)
	}
}
