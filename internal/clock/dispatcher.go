package clock

import (
	"time"
)

// Dispatcher multiplexes logical timers onto one execution context. Step
// runs every due timer to completion, in registration order, before
// returning. Nothing here is safe for concurrent use: call Step and the
// timer methods from the same goroutine.
type Dispatcher struct {
	clock  Clock
	timers []*Timer
}

func NewDispatcher(c Clock) *Dispatcher {
	return &Dispatcher{clock: c}
}

func (d *Dispatcher) Clock() Clock {
	return d.clock
}

// NewTimer registers a stopped timer. fn receives the dispatch time.
func (d *Dispatcher) NewTimer(name string, fn func(now time.Time)) *Timer {
	t := &Timer{name: name, fn: fn, d: d}
	d.timers = append(d.timers, t)
	return t
}

// Step fires each armed timer whose deadline has passed. A timer fires at
// most once per Step; its next deadline is measured from now so a stalled
// loop does not replay missed ticks.
func (d *Dispatcher) Step(now time.Time) int {
	fired := 0
	for _, t := range d.timers {
		if !t.active || now.Before(t.due) {
			continue
		}
		t.due = now.Add(t.every)
		fired++
		t.fn(now)
	}
	return fired
}

// Next returns the earliest armed deadline, or false when every timer is
// stopped.
func (d *Dispatcher) Next() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range d.timers {
		if !t.active {
			continue
		}
		if !found || t.due.Before(next) {
			next = t.due
			found = true
		}
	}
	return next, found
}

// StopAll disarms every timer.
func (d *Dispatcher) StopAll() {
	for _, t := range d.timers {
		t.Stop()
	}
}

type Timer struct {
	name   string
	fn     func(now time.Time)
	d      *Dispatcher
	every  time.Duration
	due    time.Time
	active bool
}

// Start (re)arms the timer; the first fire is one interval from now.
// Restarting an armed timer discards its pending deadline.
func (t *Timer) Start(every time.Duration) {
	if every <= 0 {
		t.Stop()
		return
	}
	t.every = every
	t.due = t.d.clock.Now().Add(every)
	t.active = true
}

func (t *Timer) Stop() {
	t.active = false
}

func (t *Timer) Active() bool {
	return t.active
}

func (t *Timer) Interval() time.Duration {
	return t.every
}

func (t *Timer) Name() string {
	return t.name
}
