package scheduler

import (
	"image"
	"time"

	"github.com/sethgrid/deskpet/internal/pet"
)

type roamState struct {
	active   bool
	kind     pet.AnimationID
	dir      int
	started  time.Time
	duration time.Duration
}

// StartFreeRoam picks walk-left, walk-right or sit (48/48/4) and starts it
// regardless of what is playing. Walking moves the window horizontally and
// bounces at the screen edges; sitting ends on its own after SitDuration.
func (s *Scheduler) StartFreeRoam() bool {
	if s.forceSleeping {
		return false
	}

	kind, dir, dur := pet.AnimSit, 0, s.cfg.SitDuration
	switch r := roll(s.rand, 100); {
	case r <= 48:
		kind, dir, dur = pet.AnimLeftWalk, -1, 0
	case r <= 96:
		kind, dir, dur = pet.AnimRightWalk, 1, 0
	}

	d, ok := s.cat.Lookup(kind)
	if !ok || !s.start(d) {
		s.log.Warn("free roam could not start", "id", kind)
		return false
	}
	s.roam = roamState{
		active:   true,
		kind:     kind,
		dir:      dir,
		started:  s.clock.Now(),
		duration: dur,
	}
	s.roamTimer.Start(s.cfg.RoamTick)
	s.log.Info("free roam started", "id", kind)
	return true
}

// EndFreeRoam returns to idle showing the last idle frame.
func (s *Scheduler) EndFreeRoam() bool {
	if !s.roam.active {
		return false
	}
	s.toIdle()
	s.log.Info("free roam ended")
	return true
}

func (s *Scheduler) FreeRoaming() bool {
	return s.roam.active
}

func (s *Scheduler) roamTick(now time.Time) {
	if !s.roam.active {
		return
	}
	if s.roam.duration > 0 && now.Sub(s.roam.started) >= s.roam.duration {
		s.EndFreeRoam()
		return
	}
	if s.roam.dir == 0 {
		return
	}
	s.step(s.roam.dir * s.cfg.RoamStep)
}

// step moves the window horizontally by dx, clamping to the screen and
// turning around at either edge.
func (s *Scheduler) step(dx int) {
	if s.mover == nil {
		return
	}
	pos := s.mover.Position()
	screen := s.mover.Screen()

	x := pos.X + dx
	switch {
	case x < screen.Min.X:
		x = screen.Min.X
		s.turn()
	case x > screen.Max.X-s.size.Width:
		x = screen.Max.X - s.size.Width
		s.turn()
	}
	s.mover.MoveTo(image.Pt(x, pos.Y))
}

func (s *Scheduler) turn() {
	s.roam.dir = -s.roam.dir
	if s.roam.kind == pet.AnimLeftWalk {
		s.roam.kind = pet.AnimRightWalk
	} else {
		s.roam.kind = pet.AnimLeftWalk
	}

	d, ok := s.cat.Lookup(s.roam.kind)
	if ok {
		s.state.Active = d.ID
		s.state.Priority = d.Priority
		s.desc = d
		if frames := s.assets.Frames(d.Folder, d.Frames, s.size.Scale(d.SizeScale)); len(frames) > 0 {
			s.frames = frames
		}
	}
	s.state.Cursor = 0
}
