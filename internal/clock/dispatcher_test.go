package clock

import (
	"reflect"
	"testing"
	"time"
)

func TestDispatcherFiresDueTimers(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clk := NewMock(start)
	d := NewDispatcher(clk)

	var order []string
	fast := d.NewTimer("fast", func(time.Time) { order = append(order, "fast") })
	slow := d.NewTimer("slow", func(time.Time) { order = append(order, "slow") })
	fast.Start(100 * time.Millisecond)
	slow.Start(300 * time.Millisecond)

	for i := 0; i < 3; i++ {
		d.Step(clk.Advance(100 * time.Millisecond))
	}

	want := []string{"fast", "fast", "fast", "slow"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestDispatcherStoppedTimerNeverFires(t *testing.T) {
	clk := NewMock(time.Unix(0, 0))
	d := NewDispatcher(clk)

	fired := 0
	tm := d.NewTimer("x", func(time.Time) { fired++ })
	tm.Start(10 * time.Millisecond)
	tm.Stop()

	d.Step(clk.Advance(time.Second))
	if fired != 0 {
		t.Errorf("fired = %d, want 0", fired)
	}
	if _, ok := d.Next(); ok {
		t.Error("Next() reported a deadline with every timer stopped")
	}
}

func TestTimerRestartDiscardsPendingDeadline(t *testing.T) {
	clk := NewMock(time.Unix(0, 0))
	d := NewDispatcher(clk)

	fired := 0
	tm := d.NewTimer("frame", func(time.Time) { fired++ })
	tm.Start(100 * time.Millisecond)

	clk.Advance(90 * time.Millisecond)
	tm.Start(100 * time.Millisecond)

	d.Step(clk.Advance(20 * time.Millisecond))
	if fired != 0 {
		t.Errorf("fired = %d after restart, want 0", fired)
	}
	d.Step(clk.Advance(80 * time.Millisecond))
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestDispatcherDoesNotReplayMissedTicks(t *testing.T) {
	clk := NewMock(time.Unix(0, 0))
	d := NewDispatcher(clk)

	fired := 0
	tm := d.NewTimer("x", func(time.Time) { fired++ })
	tm.Start(10 * time.Millisecond)

	d.Step(clk.Advance(time.Second))
	if fired != 1 {
		t.Errorf("fired = %d after a long stall, want 1", fired)
	}
	next, ok := d.Next()
	if !ok || !next.Equal(clk.Now().Add(10*time.Millisecond)) {
		t.Errorf("Next() = %v, %v", next, ok)
	}
}

func TestTimerStartedFromCallbackUsesNewInterval(t *testing.T) {
	clk := NewMock(time.Unix(0, 0))
	d := NewDispatcher(clk)

	var tm *Timer
	fired := 0
	tm = d.NewTimer("x", func(time.Time) {
		fired++
		tm.Start(50 * time.Millisecond)
	})
	tm.Start(10 * time.Millisecond)

	d.Step(clk.Advance(10 * time.Millisecond))
	d.Step(clk.Advance(10 * time.Millisecond))
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if tm.Interval() != 50*time.Millisecond {
		t.Errorf("Interval() = %v", tm.Interval())
	}
}
