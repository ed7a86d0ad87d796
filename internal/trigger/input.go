package trigger

import (
	"image"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/scheduler"
)

type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Event is a pointer event. Global is in screen coordinates, Local is
// relative to the pet window. For moves, Button is the held button.
type Event struct {
	Global image.Point
	Local  image.Point
	Button Button
}

// Controller maps pointer input and menu actions onto the scheduler.
type Controller struct {
	s      *scheduler.Scheduler
	mover  scheduler.Mover
	clock  clock.Clock
	idle   *Idle
	blink  *Blink
	clicks *ClickBurst
	rand   scheduler.Rand
	slop   int
	tick   time.Duration
	log    hclog.Logger

	pressed    bool
	pressAt    image.Point
	dragOffset image.Point

	// OnQuit runs when the quit action is chosen.
	OnQuit func()
}

type ControllerOptions struct {
	Scheduler *scheduler.Scheduler
	Mover     scheduler.Mover // optional; dragging needs one
	Clock     clock.Clock
	Idle      *Idle
	Blink     *Blink
	Rand      scheduler.Rand
	Config    pet.PetConfig
	Logger    hclog.Logger
}

func NewController(opts ControllerOptions) *Controller {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Controller{
		s:      opts.Scheduler,
		mover:  opts.Mover,
		clock:  opts.Clock,
		idle:   opts.Idle,
		blink:  opts.Blink,
		clicks: NewClickBurst(opts.Config.AngerClicks, opts.Config.AngerWindow),
		rand:   opts.Rand,
		slop:   opts.Config.ClickSlop,
		tick:   opts.Config.MainTick,
		log:    log.Named("input"),
	}
}

// ignored reports input that must be dropped entirely: during force sleep
// no event counts as interaction.
func (c *Controller) ignored() bool {
	if c.s.ForceSleeping() {
		return true
	}
	c.idle.Touch(c.clock.Now())
	return false
}

func (c *Controller) PointerDown(ev Event) {
	if c.ignored() || ev.Button != ButtonLeft {
		return
	}
	c.pressed = true
	c.pressAt = ev.Global
	if c.mover != nil {
		c.dragOffset = ev.Global.Sub(c.mover.Position())
	}
}

func (c *Controller) PointerMove(ev Event) {
	if c.ignored() {
		return
	}
	if c.pressed && ev.Button == ButtonLeft && c.mover != nil {
		c.mover.MoveTo(ev.Global.Sub(c.dragOffset))
	}
}

func (c *Controller) PointerUp(ev Event) {
	if c.ignored() || ev.Button != ButtonLeft {
		return
	}
	wasPressed := c.pressed
	c.pressed = false

	if c.s.Sleeping() {
		c.s.Wake()
		return
	}
	if !wasPressed || manhattan(ev.Global.Sub(c.pressAt)) >= c.slop {
		return
	}
	c.click()
}

func (c *Controller) click() {
	if c.s.HeixiuMode() {
		c.s.Request(pet.AnimHeixiu, false)
		return
	}

	switch r := c.rand.Intn(100) + 1; {
	case r < 10:
		c.s.Request(pet.AnimShake, false)
	case r < 20:
		c.s.Request(pet.AnimConfused, false)
	default:
		c.s.Request(pet.AnimBlink, false)
	}

	if c.clicks.Record(c.clock.Now()) {
		c.log.Info("too many clicks")
		c.s.Request(pet.AnimAnger, true)
	}
}

// ContextMenu returns the menu to show, or nil while force sleeping.
func (c *Controller) ContextMenu(ev Event) []MenuItem {
	if c.ignored() {
		return nil
	}
	return c.MenuItems()
}

func manhattan(p image.Point) int {
	return abs(p.X) + abs(p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
