package gallery

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSelectClamps(t *testing.T) {
	r := NewRotator(time.Hour, nil)
	r.SetCount(3)

	tests := []struct {
		sel  int
		want int
	}{
		{0, 0},
		{2, 2},
		{5, 2},
		{-1, 0},
	}
	for _, tt := range tests {
		r.Select(tt.sel)
		if got := r.Index(); got != tt.want {
			t.Errorf("Select(%d): Index = %d, want %d", tt.sel, got, tt.want)
		}
	}
}

func TestSetCountClampsIndex(t *testing.T) {
	r := NewRotator(time.Hour, nil)
	r.SetCount(5)
	r.Select(4)

	// List shrinks under the highlighted photo.
	r.SetCount(2)
	if got := r.Index(); got != 1 {
		t.Errorf("Index after shrink = %d, want 1", got)
	}

	r.SetCount(0)
	if got := r.Index(); got != 0 {
		t.Errorf("Index with empty list = %d, want 0", got)
	}
}

func TestAdvanceWraps(t *testing.T) {
	r := NewRotator(time.Hour, nil)
	r.SetCount(3)

	for i, want := range []int{1, 2, 0, 1} {
		r.advance()
		if got := r.Index(); got != want {
			t.Fatalf("advance %d: Index = %d, want %d", i+1, got, want)
		}
	}
}

func TestAdvanceOnEmptyListIsNoop(t *testing.T) {
	r := NewRotator(time.Hour, nil)
	r.advance()
	if got := r.Index(); got != 0 {
		t.Errorf("Index = %d, want 0", got)
	}
}

func TestAutoRotation(t *testing.T) {
	var advances atomic.Int64
	r := NewRotator(10*time.Millisecond, func(int) {
		advances.Add(1)
	})
	r.SetCount(4)

	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for advances.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d advances before deadline", advances.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopIsDeterministic(t *testing.T) {
	var advances atomic.Int64
	r := NewRotator(5*time.Millisecond, func(int) {
		advances.Add(1)
	})
	r.SetCount(3)

	r.Start()
	time.Sleep(20 * time.Millisecond)
	r.Stop()

	if r.Running() {
		t.Error("Running = true after Stop")
	}

	// No advance may fire once Stop has returned.
	after := advances.Load()
	time.Sleep(30 * time.Millisecond)
	if got := advances.Load(); got != after {
		t.Errorf("advances moved from %d to %d after Stop", after, got)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	r := NewRotator(time.Hour, nil)
	r.SetCount(2)

	r.Start()
	r.Start()
	r.Stop()
	r.Stop()

	if r.Running() {
		t.Error("Running = true after Stop")
	}

	// Can restart after a stop.
	r.Start()
	if !r.Running() {
		t.Error("Running = false after restart")
	}
	r.Stop()
}
