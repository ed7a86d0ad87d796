package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// Audio is a clip decoded into memory. Each call to Streamer returns an
// independent reader positioned at the start.
type Audio struct {
	Path   string
	Format beep.Format
	buf    *beep.Buffer
}

func (a *Audio) Streamer() beep.StreamSeeker {
	return a.buf.Streamer(0, a.buf.Len())
}

func (a *Audio) Duration() time.Duration {
	return a.Format.SampleRate.D(a.buf.Len())
}

func loadAudio(fsys fs.FS, p string) (*Audio, error) {
	f, err := fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetMissing, p)
		}
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s: unsupported audio format %q", ErrDecode, p, ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, p, err)
	}
	defer stream.Close()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, p, err)
	}

	return &Audio{Path: p, Format: format, buf: buf}, nil
}
