package trigger

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/conditions"
	"github.com/sethgrid/deskpet/internal/health"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/scheduler"
)

// Status samples the host, publishes the status line and applies the
// bedtime gate and the load reaction, in that order.
type Status struct {
	s       *scheduler.Scheduler
	sink    scheduler.Sink
	monitor *health.Monitor
	idle    *Idle
	log     hclog.Logger
	timer   *clock.Timer
	every   time.Duration
	th      conditions.Thresholds
	mode    health.ComputationMode
	hint    string
	last    conditions.DerivedStatus
}

func NewStatus(d *clock.Dispatcher, s *scheduler.Scheduler, sink scheduler.Sink, m *health.Monitor, idle *Idle, config pet.PetConfig, log hclog.Logger) *Status {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	st := &Status{
		s:       s,
		sink:    sink,
		monitor: m,
		idle:    idle,
		log:     log.Named("status"),
		every:   config.StatusInterval,
		th: conditions.Thresholds{
			ForceSleepHour: config.ForceSleepHour,
			LoadThreshold:  config.LoadThreshold,
			IdleTimeout:    config.IdleTimeout,
		},
		mode: health.ComputationMode(config.LoadMode),
		hint: config.SleepHint,
	}
	st.timer = d.NewTimer("status", st.Check)
	return st
}

func (st *Status) Start() {
	st.timer.Start(st.every)
}

// Last is the status derived on the most recent check.
func (st *Status) Last() conditions.DerivedStatus {
	return st.last
}

func (st *Status) Check(now time.Time) {
	r := st.monitor.Read()
	st.sink.ShowStatus(StatusLine(now, r))

	status := conditions.DeriveStatus(conditions.Observation{
		Now:             now,
		Load:            r.Load(st.mode),
		Peak:            r.Load(health.ComputationMax),
		LastInteraction: st.idle.LastInteraction(),
		Sleeping:        st.s.Sleeping(),
		Roaming:         st.s.FreeRoaming(),
		Playing:         st.s.Playing(),
	}, st.th)
	st.last = status

	// bedtime first
	bedtime := status.Has(conditions.CondBedtime)
	switch {
	case bedtime && !st.s.ForceSleeping():
		st.s.EnterForceSleep(st.hint)
	case !bedtime && st.s.ForceSleeping():
		st.s.ExitForceSleep()
	}

	high := status.Has(conditions.CondOverloaded)
	anxious := st.s.Active() == pet.AnimAnxiety
	switch {
	case high && !anxious && !st.s.ForceSleeping():
		if st.s.Request(pet.AnimAnxiety, true) {
			st.log.Info("host overloaded", "cpu", r.CPU, "gpu", r.GPU)
		}
	case !high && anxious:
		st.s.EndCurrent()
		st.log.Info("host load back to normal", "cpu", r.CPU, "gpu", r.GPU)
	}

	st.log.Trace("status", "conditions", conditions.FormatConditions(status.AllOrdered))
}

// StatusLine renders HH:MM|CPU:x.x%|GPU:y.y%.
func StatusLine(now time.Time, r health.Reading) string {
	return fmt.Sprintf("%s|CPU:%.1f%%|GPU:%.1f%%", now.Format("15:04"), r.CPU, r.GPU)
}
