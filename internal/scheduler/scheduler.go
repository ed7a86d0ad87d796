// Package scheduler decides which animation plays. Every trigger and every
// user action goes through Request; the scheduler is the only arbiter of
// conflicting demands and the only writer of the run state.
package scheduler

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/pet"
)

type Options struct {
	Config     pet.PetConfig
	Catalog    *pet.Catalog
	Assets     Assets
	Sink       Sink
	Mover      Mover // optional; free roam does not move without one
	Dispatcher *clock.Dispatcher
	Rand       Rand  // defaults to a time-seeded source
	Hooks      Hooks // defaults to an empty table
	Logger     hclog.Logger
}

type Scheduler struct {
	cfg    pet.PetConfig
	cat    *pet.Catalog
	assets Assets
	sink   Sink
	mover  Mover
	clock  clock.Clock
	rand   Rand
	hooks  Hooks
	log    hclog.Logger

	base pet.Size
	size pet.Size

	state  pet.RunState
	desc   pet.Descriptor
	frames []image.Image
	idle   []image.Image

	frameTimer *clock.Timer
	roamTimer  *clock.Timer

	audioOn       bool
	forceSleeping bool
	heixiu        bool
	roam          roamState
}

func New(opts Options) (*Scheduler, error) {
	switch {
	case opts.Catalog == nil:
		return nil, errors.New("scheduler: catalog is required")
	case opts.Assets == nil:
		return nil, errors.New("scheduler: assets are required")
	case opts.Sink == nil:
		return nil, errors.New("scheduler: sink is required")
	case opts.Dispatcher == nil:
		return nil, errors.New("scheduler: dispatcher is required")
	}
	if _, ok := opts.Catalog.Lookup(pet.AnimMain); !ok {
		return nil, fmt.Errorf("scheduler: catalog has no %q animation", pet.AnimMain)
	}

	cfg := opts.Config
	cfg.Fill()

	s := &Scheduler{
		cfg:    cfg,
		cat:    opts.Catalog,
		assets: opts.Assets,
		sink:   opts.Sink,
		mover:  opts.Mover,
		clock:  opts.Dispatcher.Clock(),
		rand:   opts.Rand,
		hooks:  opts.Hooks,
		log:    opts.Logger,
		base:   cfg.BaseSize,
		size:   cfg.BaseSize,
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.hooks == nil {
		s.hooks = HookFuncs{}
	}
	if s.log == nil {
		s.log = hclog.NewNullLogger()
	}
	s.log = s.log.Named("scheduler")

	s.frameTimer = opts.Dispatcher.NewTimer("frame", func(time.Time) { s.Advance() })
	s.roamTimer = opts.Dispatcher.NewTimer("roam", s.roamTick)

	main, _ := s.cat.Lookup(pet.AnimMain)
	s.idle = s.assets.Frames(main.Folder, main.Frames, s.base)
	if len(s.idle) == 0 {
		s.log.Warn("idle frames unavailable, showing placeholder", "folder", main.Folder)
	}
	return s, nil
}

// Start shows the first idle frame at the base size.
func (s *Scheduler) Start() {
	s.resize(s.base)
	s.showIdle(false)
}

// Request asks for animation id to start. Without force it is accepted only
// when nothing is playing, or when the running animation is interruptible
// and id has a strictly higher priority. Even a forced request fails when
// the animation has no frames; in that case nothing changes. The sleep
// images are entered only through Sleep.
func (s *Scheduler) Request(id pet.AnimationID, force bool) bool {
	d, ok := s.cat.Lookup(id)
	if !ok {
		s.log.Warn("unknown animation requested", "id", id)
		return false
	}
	if isSleepID(id) {
		s.log.Warn("sleep requested as an animation", "id", id)
		return false
	}
	if s.forceSleeping {
		s.log.Trace("request ignored during force sleep", "id", id)
		return false
	}
	if !force && !s.state.CanInterrupt(d.Priority, s.desc.Interruptible) {
		s.log.Trace("request rejected", "id", id, "priority", d.Priority, "active", s.state.Active, "active_priority", s.state.Priority)
		return false
	}
	return s.start(d)
}

func (s *Scheduler) start(d pet.Descriptor) bool {
	// Load against the size the window will have once the current run is
	// torn down, before tearing anything down.
	size := s.size
	if s.state.SavedSize != nil {
		size = *s.state.SavedSize
	}
	frames := s.assets.Frames(d.Folder, d.Frames, size.Scale(d.SizeScale))
	if len(frames) == 0 {
		s.log.Warn("animation has no frames", "id", d.ID, "folder", d.Folder)
		return false
	}

	s.stop()

	s.state = pet.RunState{
		Active:    d.ID,
		Priority:  d.Priority,
		Playing:   true,
		StartedAt: s.clock.Now(),
	}
	s.desc = d
	s.frames = frames

	if d.SizeScale != 1 {
		saved := s.size
		s.state.SavedSize = &saved
		s.resize(s.base.Scale(d.SizeScale))
	}

	s.sink.ShowFrame(frames[0])
	if d.HasAudio() {
		s.playAudio(d)
	}
	s.frameTimer.Start(d.Interval)

	s.log.Debug("animation started", "id", d.ID, "priority", d.Priority, "frames", len(frames))
	return true
}

// stop tears down the current run: timers, audio, and any size change.
func (s *Scheduler) stop() {
	s.frameTimer.Stop()
	s.roamTimer.Stop()
	s.roam = roamState{}

	if s.audioOn {
		s.sink.StopAudio()
		s.audioOn = false
	}
	if s.state.SavedSize != nil {
		s.resize(*s.state.SavedSize)
		s.state.SavedSize = nil
	}
}

func (s *Scheduler) playAudio(d pet.Descriptor) {
	a := s.assets.Audio(d.Folder, d.Sound)
	if a == nil {
		s.log.Warn("audio unavailable", "id", d.ID, "file", d.Sound)
		return
	}
	if err := s.sink.PlayAudio(a); err != nil {
		s.log.Warn("audio failed to start", "id", d.ID, "error", err)
		return
	}
	s.audioOn = true
}

// Advance moves the active animation one frame forward. The frame timer
// calls it once per descriptor interval. A finite animation terminates on
// the advance that shows its last frame of its last loop, so it takes
// exactly Loops*Frames advances.
func (s *Scheduler) Advance() {
	if !s.state.Playing || len(s.frames) == 0 {
		return
	}

	if s.state.Cursor < len(s.frames) {
		s.sink.ShowFrame(s.frames[s.state.Cursor])
		s.state.Cursor++
	}
	if s.state.Cursor < len(s.frames) {
		return
	}

	s.state.Cursor = 0
	if s.desc.Forever() {
		return
	}
	s.state.Loop++
	if s.state.Loop >= s.desc.Loops {
		s.finish()
	}
}

// EndCurrent ends the playing animation as if it had finished on its own.
func (s *Scheduler) EndCurrent() bool {
	if !s.state.Playing {
		return false
	}
	s.finish()
	return true
}

// finish handles natural termination: the completion hook, then the fixed
// follow-up chains, then the idle fallback. Chains re-enter Request with
// force; stop-before-start ordering is preserved by start.
func (s *Scheduler) finish() {
	id := s.state.Active
	if name := s.desc.OnComplete; name != "" {
		s.runHook(name, id)
	}
	s.log.Debug("animation finished", "id", id)

	switch id {
	case pet.AnimAnger:
		if s.Request(pet.AnimWalkAway, true) {
			return
		}
	case pet.AnimDrinkMilk, pet.AnimEatBurger, pet.AnimEatChicken:
		if roll(s.rand, 100) <= s.cfg.BurpPercent && s.Request(pet.AnimBurp, true) {
			return
		}
	}
	s.toIdle()
}

func (s *Scheduler) runHook(name string, id pet.AnimationID) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("completion hook panicked", "hook", name, "id", id, "panic", r)
		}
	}()
	if err := s.hooks.Run(name, id); err != nil {
		s.log.Error("completion hook failed", "hook", name, "id", id, "error", err)
	}
}

// toIdle stops everything and shows the resting frame.
func (s *Scheduler) toIdle() {
	s.stop()
	s.clear()
	s.showIdle(true)
}

func (s *Scheduler) clear() {
	s.state.Reset()
	s.desc = pet.Descriptor{}
	s.frames = nil
}

// showIdle shows the last idle frame when resting, the first on a fresh
// start.
func (s *Scheduler) showIdle(last bool) {
	if len(s.idle) == 0 {
		s.sink.ShowFrame(nil)
		return
	}
	if last {
		s.sink.ShowFrame(s.idle[len(s.idle)-1])
		return
	}
	s.sink.ShowFrame(s.idle[0])
}

func (s *Scheduler) resize(size pet.Size) {
	s.size = size
	s.sink.Resize(size)
}

// SetHeixiuMode switches the alternate companion mode. Turning it on forces
// the heixiu animation; turning it off returns to the base size and idles.
func (s *Scheduler) SetHeixiuMode(on bool) {
	if on == s.heixiu {
		return
	}
	s.heixiu = on
	if on {
		s.Request(pet.AnimHeixiu, true)
		return
	}
	s.stop()
	s.clear()
	s.resize(s.base)
	s.showIdle(true)
}

func (s *Scheduler) HeixiuMode() bool {
	return s.heixiu
}

// Restart drops every mode and shows the first idle frame at base size.
func (s *Scheduler) Restart() {
	s.stop()
	s.clear()
	s.heixiu = false
	s.resize(s.base)
	s.showIdle(false)
}

// Close stops all timers and audio and releases cached assets.
func (s *Scheduler) Close() {
	s.stop()
	s.clear()
	s.assets.InvalidateAll()
}

func (s *Scheduler) State() pet.RunState {
	st := s.state
	if st.SavedSize != nil {
		saved := *st.SavedSize
		st.SavedSize = &saved
	}
	return st
}

func (s *Scheduler) Active() pet.AnimationID {
	return s.state.Active
}

func (s *Scheduler) Playing() bool {
	return s.state.Playing
}

func (s *Scheduler) Size() pet.Size {
	return s.size
}

func (s *Scheduler) BaseSize() pet.Size {
	return s.base
}

func (s *Scheduler) Mode() Mode {
	switch {
	case s.forceSleeping:
		return ModeForceSleeping
	case s.roam.active:
		return ModeFreeRoaming
	case s.Sleeping():
		return ModeSleeping
	case s.state.Playing:
		return ModePlaying
	}
	return ModeIdle
}

// InSpecialState reports a state that suppresses background animation.
func (s *Scheduler) InSpecialState() bool {
	return s.forceSleeping || s.roam.active || s.Sleeping()
}
