package scheduler

import (
	"github.com/sethgrid/deskpet/internal/pet"
)

const sleepImage = "1.png"

// Sleep replaces the current animation with a static sleep image. It is
// arbitrated like a non-forced request. A missing heixiu-sleep image falls
// back to the plain sleep image.
func (s *Scheduler) Sleep(variant pet.AnimationID) bool {
	if s.forceSleeping || s.Sleeping() {
		return false
	}
	d, ok := s.cat.Lookup(variant)
	if !ok {
		s.log.Warn("unknown sleep variant", "id", variant)
		return false
	}
	if !s.state.CanInterrupt(d.Priority, s.desc.Interruptible) {
		return false
	}
	s.enterSleep(d)
	return true
}

func (s *Scheduler) enterSleep(d pet.Descriptor) {
	img := s.assets.Image(d.Folder, sleepImage, s.base)
	if img == nil && d.ID != pet.AnimSleep {
		s.log.Warn("sleep variant unavailable, using plain sleep", "id", d.ID)
		if plain, ok := s.cat.Lookup(pet.AnimSleep); ok {
			d = plain
			img = s.assets.Image(d.Folder, sleepImage, s.base)
		}
	}

	s.stop()
	s.state = pet.RunState{
		Active:    d.ID,
		Priority:  d.Priority,
		StartedAt: s.clock.Now(),
	}
	s.desc = d
	s.frames = nil
	s.resize(s.base)
	s.sink.ShowFrame(img)
	s.log.Info("sleeping", "id", d.ID)
}

// Sleeping reports whether a sleep image is showing.
func (s *Scheduler) Sleeping() bool {
	return isSleepID(s.state.Active)
}

func isSleepID(id pet.AnimationID) bool {
	return id == pet.AnimSleep || id == pet.AnimHeixiuSleep
}

// Wake leaves ordinary sleep and returns to idle. Force sleep is left only
// through ExitForceSleep.
func (s *Scheduler) Wake() bool {
	if !s.Sleeping() || s.forceSleeping {
		return false
	}
	s.stop()
	s.clear()
	s.showIdle(true)
	s.log.Info("woke up")
	return true
}

// EnterForceSleep stops whatever is playing, shows the sleep image and the
// hint, and rejects every request until ExitForceSleep.
func (s *Scheduler) EnterForceSleep(hint string) {
	if s.forceSleeping {
		return
	}
	if !s.Sleeping() {
		if d, ok := s.cat.Lookup(pet.AnimSleep); ok {
			s.enterSleep(d)
		}
	}
	s.forceSleeping = true
	s.sink.ShowHint(hint)
	s.log.Info("force sleep started")
}

func (s *Scheduler) ExitForceSleep() {
	if !s.forceSleeping {
		return
	}
	s.forceSleeping = false
	s.stop()
	s.clear()
	s.sink.HideHint()
	s.showIdle(true)
	s.log.Info("force sleep ended")
}

func (s *Scheduler) ForceSleeping() bool {
	return s.forceSleeping
}
