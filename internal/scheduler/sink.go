package scheduler

import (
	"fmt"
	"image"

	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/resource"
)

// Sink receives presentation commands. ShowFrame(nil) means no artwork is
// available and the sink should draw its placeholder.
type Sink interface {
	ShowFrame(img image.Image)
	Resize(size pet.Size)
	PlayAudio(a *resource.Audio) error
	StopAudio()
	ShowHint(text string)
	HideHint()
	ShowStatus(text string)
}

// Mover positions the pet on screen. Screen is the usable area in the same
// coordinates as Position.
type Mover interface {
	Position() image.Point
	MoveTo(p image.Point)
	Screen() image.Rectangle
}

// Assets is the part of resource.Cache the scheduler uses.
type Assets interface {
	Frames(folder string, count int, size pet.Size) []image.Image
	Image(folder, file string, size pet.Size) image.Image
	Audio(folder, file string) *resource.Audio
	InvalidateAll()
}

// Rand is satisfied by *math/rand.Rand. Tests script it.
type Rand interface {
	Intn(n int) int
}

// roll draws uniformly from [1, n].
func roll(r Rand, n int) int {
	return r.Intn(n) + 1
}

// Hooks resolves a descriptor's OnComplete name to behaviour.
type Hooks interface {
	Run(name string, id pet.AnimationID) error
}

type HookFuncs map[string]func(id pet.AnimationID) error

func (h HookFuncs) Run(name string, id pet.AnimationID) error {
	fn, ok := h[name]
	if !ok {
		return fmt.Errorf("unknown hook %q", name)
	}
	return fn(id)
}

type Mode int

const (
	ModeIdle Mode = iota
	ModePlaying
	ModeSleeping
	ModeForceSleeping
	ModeFreeRoaming
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePlaying:
		return "playing"
	case ModeSleeping:
		return "sleeping"
	case ModeForceSleeping:
		return "force-sleeping"
	case ModeFreeRoaming:
		return "free-roaming"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}
