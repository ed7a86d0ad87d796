// Package app assembles one pet session: cache, scheduler, triggers and
// input, all driven by a single dispatcher.
package app

import (
	"errors"
	"io/fs"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/health"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/resource"
	"github.com/sethgrid/deskpet/internal/scheduler"
	"github.com/sethgrid/deskpet/internal/trigger"
)

type Options struct {
	Config  pet.PetConfig
	Catalog *pet.Catalog // defaults to pet.DefaultCatalog
	Assets  fs.FS
	Sink    scheduler.Sink
	Mover   scheduler.Mover
	Clock   clock.Clock     // defaults to the system clock
	Rand    scheduler.Rand  // defaults to a time-seeded source
	CPU     health.Sampler  // defaults to health.CPUSampler
	GPU     health.Sampler  // defaults to health.GPUSampler
	Hooks   scheduler.Hooks // defaults to DefaultHooks
	Logger  hclog.Logger
}

type App struct {
	cfg   pet.PetConfig
	log   hclog.Logger
	clock clock.Clock
	mover scheduler.Mover

	cache      *resource.Cache
	dispatcher *clock.Dispatcher
	scheduler  *scheduler.Scheduler
	monitor    *health.Monitor

	blink      *trigger.Blink
	idle       *trigger.Idle
	status     *trigger.Status
	controller *trigger.Controller

	started bool
	closed  bool
}

// DefaultHooks are the completion hooks a manifest may name.
func DefaultHooks(log hclog.Logger) scheduler.HookFuncs {
	return scheduler.HookFuncs{
		"log": func(id pet.AnimationID) error {
			log.Info("animation completed", "id", id)
			return nil
		},
	}
}

func New(opts Options) (*App, error) {
	if opts.Assets == nil {
		return nil, errors.New("app: assets are required")
	}
	if opts.Sink == nil {
		return nil, errors.New("app: sink is required")
	}

	cfg := opts.Config
	cfg.Fill()

	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	c := opts.Clock
	if c == nil {
		c = clock.Real{}
	}
	cat := opts.Catalog
	if cat == nil {
		cat = pet.DefaultCatalog()
	}
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cpu := opts.CPU
	if cpu == nil {
		cpu = health.CPUSampler{}
	}
	gpu := opts.GPU
	if gpu == nil {
		gpu = health.GPUSampler{Timeout: time.Second}
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = DefaultHooks(log.Named("hooks"))
	}

	a := &App{
		cfg:        cfg,
		log:        log,
		clock:      c,
		mover:      opts.Mover,
		cache:      resource.New(opts.Assets, log),
		dispatcher: clock.NewDispatcher(c),
	}
	a.cache.Preload(cat)

	s, err := scheduler.New(scheduler.Options{
		Config:     cfg,
		Catalog:    cat,
		Assets:     a.cache,
		Sink:       opts.Sink,
		Mover:      opts.Mover,
		Dispatcher: a.dispatcher,
		Rand:       r,
		Hooks:      hooks,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	a.scheduler = s

	a.monitor = health.NewMonitor(cpu, gpu, c, cfg.SampleTTL, log)
	a.blink = trigger.NewBlink(a.dispatcher, s, r, cfg)
	a.idle = trigger.NewIdle(a.dispatcher, s, cfg, log)
	a.status = trigger.NewStatus(a.dispatcher, s, opts.Sink, a.monitor, a.idle, cfg, log)
	a.controller = trigger.NewController(trigger.ControllerOptions{
		Scheduler: s,
		Mover:     opts.Mover,
		Clock:     c,
		Idle:      a.idle,
		Blink:     a.blink,
		Rand:      r,
		Config:    cfg,
		Logger:    log,
	})

	return a, nil
}

// Start shows the pet and arms every trigger. It is a no-op after the first
// call.
func (a *App) Start() {
	if a.started || a.closed {
		return
	}
	a.started = true

	a.idle.Touch(a.clock.Now())
	a.scheduler.Start()
	a.blink.Start()
	a.idle.Start()
	a.status.Start()
	a.log.Info("pet started", "name", a.cfg.Name, "size", a.scheduler.BaseSize())
}

// Step runs every timer due at now.
func (a *App) Step(now time.Time) {
	if a.closed {
		return
	}
	a.dispatcher.Step(now)
}

// Next is the earliest pending deadline.
func (a *App) Next() (time.Time, bool) {
	return a.dispatcher.Next()
}

func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.dispatcher.StopAll()
	a.scheduler.Close()
	a.log.Info("pet stopped", "name", a.cfg.Name)
}

func (a *App) Config() pet.PetConfig { return a.cfg }
func (a *App) Clock() clock.Clock { return a.clock }
func (a *App) Cache() *resource.Cache { return a.cache }
func (a *App) Scheduler() *scheduler.Scheduler { return a.scheduler }
func (a *App) Controller() *trigger.Controller { return a.controller }
func (a *App) Status() *trigger.Status { return a.status }
func (a *App) Blink() *trigger.Blink { return a.blink }
func (a *App) Idle() *trigger.Idle { return a.idle }
