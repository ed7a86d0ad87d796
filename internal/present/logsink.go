package present

import (
	"image"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/resource"
)

// AudioPlayer is satisfied by *Speaker.
type AudioPlayer interface {
	Play(a *resource.Audio) error
	Stop()
}

// Snapshot is what a LogSink currently shows.
type Snapshot struct {
	Frame       image.Image
	Placeholder bool
	Size        pet.Size
	Hint        string
	Status      string
	Frames      int
}

// LogSink presents by logging. It backs headless runs and keeps the last
// state around so commands can report it. Audio is optional.
type LogSink struct {
	mu    sync.Mutex
	audio AudioPlayer
	log   hclog.Logger
	snap  Snapshot
}

func NewLogSink(audio AudioPlayer, log hclog.Logger) *LogSink {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &LogSink{audio: audio, log: log.Named("sink")}
}

func (l *LogSink) ShowFrame(img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Frame = img
	l.snap.Placeholder = img == nil
	l.snap.Frames++
	if img == nil {
		l.log.Trace("frame", "placeholder", true)
		return
	}
	l.log.Trace("frame", "bounds", img.Bounds())
}

func (l *LogSink) Resize(size pet.Size) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if size != l.snap.Size {
		l.log.Debug("resize", "width", size.Width, "height", size.Height)
	}
	l.snap.Size = size
}

func (l *LogSink) PlayAudio(a *resource.Audio) error {
	if l.audio == nil {
		l.log.Debug("audio muted", "path", a.Path)
		return nil
	}
	return l.audio.Play(a)
}

func (l *LogSink) StopAudio() {
	if l.audio != nil {
		l.audio.Stop()
	}
}

func (l *LogSink) ShowHint(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Hint = text
	l.log.Info("hint", "text", text)
}

func (l *LogSink) HideHint() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snap.Hint != "" {
		l.log.Info("hint cleared")
	}
	l.snap.Hint = ""
}

func (l *LogSink) ShowStatus(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Status = text
	l.log.Debug("status", "line", text)
}

func (l *LogSink) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}
