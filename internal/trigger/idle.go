package trigger

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/scheduler"
)

// Idle puts the pet to sleep after a long stretch without interaction.
type Idle struct {
	s        *scheduler.Scheduler
	log      hclog.Logger
	timer    *clock.Timer
	every    time.Duration
	timeout  time.Duration
	last     time.Time
	checking bool
}

func NewIdle(d *clock.Dispatcher, s *scheduler.Scheduler, config pet.PetConfig, log hclog.Logger) *Idle {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	i := &Idle{
		s:       s,
		log:     log.Named("idle"),
		every:   config.IdleCheckInterval,
		timeout: config.IdleTimeout,
		last:    d.Clock().Now(),
	}
	i.timer = d.NewTimer("idle", i.Check)
	return i
}

func (i *Idle) Start() {
	i.timer.Start(i.every)
}

// Touch records user interaction.
func (i *Idle) Touch(now time.Time) {
	i.last = now
}

func (i *Idle) LastInteraction() time.Time {
	return i.last
}

func (i *Idle) Check(now time.Time) {
	if i.checking {
		return
	}
	i.checking = true
	defer func() { i.checking = false }()

	idle := now.Sub(i.last)
	if idle <= i.timeout {
		return
	}

	switch {
	case i.s.HeixiuMode() && !i.s.Sleeping():
		if i.s.Sleep(pet.AnimHeixiuSleep) {
			i.log.Debug("dozed off", "idle", idle, "variant", pet.AnimHeixiuSleep)
		}
	case !i.s.Sleeping() && !i.s.ForceSleeping():
		if i.s.Sleep(pet.AnimSleep) {
			i.log.Debug("dozed off", "idle", idle, "variant", pet.AnimSleep)
		}
	}
}
