// Package resource loads and memoizes animation frames, single images and
// audio clips.
//
// Every decoded file is kept once at its native resolution in a base tier;
// scaled variants are derived from that copy, so a file is decoded on first
// sight only. Missing or broken assets are logged and skipped: callers get an
// empty sequence or nil and treat it as "unavailable".
package resource

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // frames ship as PNG
	"io/fs"
	"math"
	"path"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/pet"
	"golang.org/x/image/draw"
)

var (
	ErrAssetMissing = errors.New("asset missing")
	ErrDecode       = errors.New("asset decode failed")
)

type frameKey struct {
	folder        string
	width, height int
}

type imageKey struct {
	folder, file  string
	width, height int
}

type audioKey struct {
	folder, file string
}

// Cache is safe for concurrent use; population is serialized by mu.
type Cache struct {
	mu   sync.Mutex
	fsys fs.FS
	log  hclog.Logger

	frames map[frameKey][]image.Image
	images map[imageKey]image.Image
	audio  map[audioKey]*Audio
	base   map[string]image.Image
	absent map[string]bool // folders already reported missing

	decodes int
}

func New(fsys fs.FS, log hclog.Logger) *Cache {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	c := &Cache{
		fsys: fsys,
		log:  log.Named("resource"),
	}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.frames = make(map[frameKey][]image.Image)
	c.images = make(map[imageKey]image.Image)
	c.audio = make(map[audioKey]*Audio)
	c.base = make(map[string]image.Image)
	c.absent = make(map[string]bool)
}

// Frames returns 1.png..count.png from folder scaled to size. Frames that
// fail to load are skipped. A folder that does not exist yields nil and is
// not cached, so art added later is picked up; it is warned about once.
func (c *Cache) Frames(folder string, count int, size pet.Size) []image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := frameKey{folder: folder, width: size.Width, height: size.Height}
	if frames, ok := c.frames[key]; ok {
		return frames
	}

	if _, err := fs.Stat(c.fsys, folder); err != nil {
		if !c.absent[folder] {
			c.absent[folder] = true
			c.log.Warn("frame folder not found", "folder", folder, "error", err)
		}
		return nil
	}
	delete(c.absent, folder)

	frames := make([]image.Image, 0, count)
	for i := 1; i <= count; i++ {
		p := path.Join(folder, fmt.Sprintf("%d.png", i))
		img, err := c.scaled(p, size)
		if err != nil {
			c.logLoadError(p, err)
			continue
		}
		frames = append(frames, img)
	}

	c.frames[key] = frames
	return frames
}

// Image returns a single scaled image, or nil when it cannot be loaded.
func (c *Cache) Image(folder, file string, size pet.Size) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := imageKey{folder: folder, file: file, width: size.Width, height: size.Height}
	if img, ok := c.images[key]; ok {
		return img
	}

	p := path.Join(folder, file)
	img, err := c.scaled(p, size)
	if err != nil {
		c.logLoadError(p, err)
		return nil
	}
	c.images[key] = img
	return img
}

// Audio returns a decoded clip, or nil when it cannot be loaded.
func (c *Cache) Audio(folder, file string) *Audio {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := audioKey{folder: folder, file: file}
	if a, ok := c.audio[key]; ok {
		return a
	}

	p := path.Join(folder, file)
	a, err := loadAudio(c.fsys, p)
	if err != nil {
		c.logLoadError(p, err)
		return nil
	}
	c.decodes++
	c.audio[key] = a
	return a
}

// Preload decodes the first frame of the priority animations into the base
// tier. It deliberately does not fill the frames tier: a one-frame entry
// there would shadow the full sequence later.
func (c *Cache) Preload(cat *pet.Catalog) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	warmed := 0
	for _, id := range pet.PreloadIDs {
		d, ok := cat.Lookup(id)
		if !ok {
			continue
		}
		p := path.Join(d.Folder, "1.png")
		if _, err := c.loadBase(p); err != nil {
			c.logLoadError(p, err)
			continue
		}
		warmed++
	}
	c.log.Debug("preloaded first frames", "count", warmed)
	return warmed
}

// InvalidateAll drops every tier. Used at shutdown.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Decodes reports how many files have been fully decoded.
func (c *Cache) Decodes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodes
}

func (c *Cache) scaled(p string, size pet.Size) (image.Image, error) {
	base, err := c.loadBase(p)
	if err != nil {
		return nil, err
	}
	b := base.Bounds()
	if size.Empty() || (b.Dx() == size.Width && b.Dy() == size.Height) {
		return base, nil
	}
	return fit(base, size), nil
}

func (c *Cache) loadBase(p string) (image.Image, error) {
	if img, ok := c.base[p]; ok {
		return img, nil
	}

	f, err := c.fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetMissing, p)
		}
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, p, err)
	}
	c.decodes++
	c.base[p] = img
	return img, nil
}

func (c *Cache) logLoadError(p string, err error) {
	if errors.Is(err, ErrAssetMissing) {
		c.log.Warn("asset missing", "path", p)
		return
	}
	c.log.Error("failed to load asset", "path", p, "error", err)
}

// fit scales src to the largest size inside target that keeps its aspect
// ratio.
func fit(src image.Image, target pet.Size) image.Image {
	b := src.Bounds()
	ratio := math.Min(float64(target.Width)/float64(b.Dx()), float64(target.Height)/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*ratio)))
	h := max(1, int(math.Round(float64(b.Dy())*ratio)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
