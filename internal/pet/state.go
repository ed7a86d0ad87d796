package pet

import (
	"time"
)

type Size struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Scale multiplies both sides, truncating like the window toolkit does.
func (s Size) Scale(f float64) Size {
	return Size{
		Width:  int(float64(s.Width) * f),
		Height: int(float64(s.Height) * f),
	}
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// RunState is what is playing right now. There is exactly one per session.
type RunState struct {
	Active    AnimationID
	Priority  Priority
	Playing   bool
	Cursor    int
	Loop      int
	StartedAt time.Time

	// SavedSize is the window size to restore once a scaled animation stops.
	SavedSize *Size
}

// CanInterrupt reports whether a non-forced request at priority p may
// replace the current run. interruptible is the active descriptor's flag.
func (s *RunState) CanInterrupt(p Priority, interruptible bool) bool {
	if !s.Playing {
		return true
	}
	if !interruptible {
		return false
	}
	return p > s.Priority
}

// Reset puts the state back to idle defaults. SavedSize is left alone; the
// scheduler restores and clears it when it stops a run.
func (s *RunState) Reset() {
	s.Active = ""
	s.Priority = PriorityIdle
	s.Playing = false
	s.Cursor = 0
	s.Loop = 0
	s.StartedAt = time.Time{}
}

func (s *RunState) Idle() bool {
	return s.Active == ""
}
