package health

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/clock"
)

// ErrUnavailable means the host has no way to report this metric.
var ErrUnavailable = errors.New("metric unavailable")

// Sampler returns a utilization percentage in [0, 100].
type Sampler interface {
	Sample() (float64, error)
}

type SamplerFunc func() (float64, error)

func (f SamplerFunc) Sample() (float64, error) {
	return f()
}

type ComputationMode string

const (
	ComputationMax     ComputationMode = "max"
	ComputationAverage ComputationMode = "average"
)

// ComputeLoad folds CPU and GPU utilization into one load figure.
func ComputeLoad(cpu, gpu float64, mode ComputationMode) float64 {
	var load float64

	switch mode {
	case ComputationAverage:
		load = (cpu + gpu) / 2
	default: // max
		load = max(cpu, gpu)
	}

	// Clamp to [0, 100]
	if load < 0 {
		load = 0
	}
	if load > 100 {
		load = 100
	}

	return load
}

type Reading struct {
	CPU float64
	GPU float64
	At  time.Time
}

func (r Reading) Load(mode ComputationMode) float64 {
	return ComputeLoad(r.CPU, r.GPU, mode)
}

// Monitor throttles samplers: within ttl of the last sample it returns the
// cached reading. A failing sampler keeps its previous value, or zero.
type Monitor struct {
	mu    sync.Mutex
	cpu   Sampler
	gpu   Sampler
	clock clock.Clock
	ttl   time.Duration
	log   hclog.Logger
	last  Reading
}

func NewMonitor(cpu, gpu Sampler, c clock.Clock, ttl time.Duration, log hclog.Logger) *Monitor {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Monitor{
		cpu:   cpu,
		gpu:   gpu,
		clock: c,
		ttl:   ttl,
		log:   log.Named("health"),
	}
}

func (m *Monitor) Read() Reading {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if !m.last.At.IsZero() && now.Sub(m.last.At) < m.ttl {
		return m.last
	}

	m.last.CPU = m.sample("cpu", m.cpu, m.last.CPU)
	m.last.GPU = m.sample("gpu", m.gpu, m.last.GPU)
	m.last.At = now
	return m.last
}

func (m *Monitor) sample(name string, s Sampler, prev float64) float64 {
	if s == nil {
		return 0
	}
	v, err := s.Sample()
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			m.log.Trace("sampler unavailable", "metric", name)
		} else {
			m.log.Warn("sampling failed", "metric", name, "error", err)
		}
		return prev
	}
	return v
}
