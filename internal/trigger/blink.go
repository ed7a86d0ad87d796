// Package trigger turns time, host load and user input into requests to the
// scheduler. Every trigger runs on the shared clock.Dispatcher and none of
// them touches presentation except through the scheduler and its sink.
package trigger

import (
	"time"

	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/scheduler"
)

// Main tick speeds offered in the menu.
const (
	TickSlow   = 200 * time.Millisecond
	TickNormal = 100 * time.Millisecond
	TickFast   = 50 * time.Millisecond
)

// Blink occasionally blinks while the pet is resting.
type Blink struct {
	s        *scheduler.Scheduler
	rand     scheduler.Rand
	perMille int
	tick     time.Duration
	timer    *clock.Timer
}

func NewBlink(d *clock.Dispatcher, s *scheduler.Scheduler, r scheduler.Rand, config pet.PetConfig) *Blink {
	b := &Blink{
		s:        s,
		rand:     r,
		perMille: config.BlinkPerMille,
		tick:     config.MainTick,
	}
	b.timer = d.NewTimer("blink", b.Check)
	return b
}

func (b *Blink) Start() {
	b.timer.Start(b.tick)
}

// SetTick changes the main tick period and restarts the timer.
func (b *Blink) SetTick(every time.Duration) {
	if every <= 0 {
		return
	}
	b.tick = every
	b.timer.Start(every)
}

func (b *Blink) Tick() time.Duration {
	return b.tick
}

func (b *Blink) Check(time.Time) {
	if b.s.Playing() || b.s.InSpecialState() {
		return
	}
	if b.rand.Intn(1000)+1 <= b.perMille {
		b.s.Request(pet.AnimBlink, false)
	}
}
