package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/sethgrid/deskpet/internal/pet"
	"gopkg.in/yaml.v3"
)

// Manifest is assets.yaml: per-animation overrides of the built-in table.
// An entry for an unknown id adds a new animation and must be complete.
type Manifest struct {
	Animations []AnimationEntry `yaml:"animations"`
}

type AnimationEntry struct {
	ID            string  `yaml:"id"`
	Folder        string  `yaml:"folder,omitempty"`
	Frames        int     `yaml:"frames,omitempty"`
	IntervalMS    int     `yaml:"interval_ms,omitempty"`
	Loops         int     `yaml:"loops,omitempty"` // -1 loops forever
	Sound         string  `yaml:"sound,omitempty"`
	Priority      string  `yaml:"priority,omitempty"`
	Interruptible *bool   `yaml:"interruptible,omitempty"`
	SizeScale     float64 `yaml:"size_scale,omitempty"`
	OnComplete    string  `yaml:"on_complete,omitempty"`
}

const manifestTemplate = `# Animation overrides. Every field except id is optional for built-in
# animations; new ids need folder, frames, interval_ms, loops and priority.
#
# animations:
#   - id: shake
#     interval_ms: 40
#   - id: wave
#     folder: wave
#     frames: 12
#     interval_ms: 50
#     loops: 2
#     priority: interaction
#     interruptible: true
animations: []
`

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Apply returns base with the manifest's entries merged in.
func (m *Manifest) Apply(base *pet.Catalog) (*pet.Catalog, error) {
	overrides := make([]pet.Descriptor, 0, len(m.Animations))
	for i, e := range m.Animations {
		if e.ID == "" {
			return nil, fmt.Errorf("manifest entry %d has no id", i)
		}
		d, ok := base.Lookup(pet.AnimationID(e.ID))
		if !ok {
			d = pet.Descriptor{ID: pet.AnimationID(e.ID), SizeScale: 1}
		}
		if err := e.overlay(&d); err != nil {
			return nil, err
		}
		overrides = append(overrides, d)
	}

	cat, err := base.Merge(overrides)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return cat, nil
}

func (e AnimationEntry) overlay(d *pet.Descriptor) error {
	if e.Folder != "" {
		d.Folder = e.Folder
	}
	if e.Frames != 0 {
		d.Frames = e.Frames
	}
	if e.IntervalMS != 0 {
		d.Interval = time.Duration(e.IntervalMS) * time.Millisecond
	}
	if e.Loops != 0 {
		d.Loops = e.Loops
	}
	if e.Sound != "" {
		d.Sound = e.Sound
	}
	if e.Priority != "" {
		p, err := pet.ParsePriority(e.Priority)
		if err != nil {
			return fmt.Errorf("%s: %w", e.ID, err)
		}
		d.Priority = p
	}
	if e.Interruptible != nil {
		d.Interruptible = *e.Interruptible
	}
	if e.SizeScale != 0 {
		d.SizeScale = e.SizeScale
	}
	if e.OnComplete != "" {
		d.OnComplete = e.OnComplete
	}
	return nil
}
