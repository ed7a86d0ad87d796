// Package present holds the presentation sinks that do not own a window:
// speaker playback and a logging sink for headless runs.
package present

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/resource"
)

var ErrAudioStart = errors.New("audio could not start")

const (
	sampleRate = beep.SampleRate(44100)
	quality    = 4
)

// Device is the part of the beep speaker package Speaker drives. Tests
// replace it.
type Device struct {
	Init  func(sr beep.SampleRate, bufferSize int) error
	Play  func(s ...beep.Streamer)
	Clear func()
}

func SystemDevice() Device {
	return Device{Init: speaker.Init, Play: speaker.Play, Clear: speaker.Clear}
}

// Speaker plays one clip at a time. The device is opened on first use at a
// fixed rate; clips recorded at other rates are resampled. When the device
// cannot be opened every later Play fails fast with ErrAudioStart.
type Speaker struct {
	mu      sync.Mutex
	dev     Device
	log     hclog.Logger
	started bool
	initErr error
	playing *beep.Ctrl
}

func NewSpeaker(dev Device, log hclog.Logger) *Speaker {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Speaker{dev: dev, log: log.Named("speaker")}
}

func (s *Speaker) open() error {
	if s.started {
		return nil
	}
	if s.initErr != nil {
		return s.initErr
	}
	if err := s.dev.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		s.initErr = fmt.Errorf("%w: %v", ErrAudioStart, err)
		s.log.Warn("audio device unavailable", "error", err)
		return s.initErr
	}
	s.started = true
	return nil
}

// Play stops whatever is playing and starts a.
func (s *Speaker) Play(a *resource.Audio) error {
	if a == nil {
		return fmt.Errorf("%w: no clip", ErrAudioStart)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}
	s.stopLocked()

	var stream beep.Streamer = a.Streamer()
	if a.Format.SampleRate != sampleRate {
		stream = beep.Resample(quality, a.Format.SampleRate, sampleRate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: stream}
	s.playing = ctrl
	s.dev.Play(ctrl)

	s.log.Trace("playing", "path", a.Path, "duration", a.Duration())
	return nil
}

func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	if s.playing == nil {
		return
	}
	s.playing.Paused = true
	s.playing = nil
	if s.started {
		s.dev.Clear()
	}
}

// Playing reports whether a clip was started and not stopped. A clip that
// ran to its end still counts until the next Stop or Play.
func (s *Speaker) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing != nil
}
