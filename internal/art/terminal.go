package art

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/present"
	"github.com/sethgrid/deskpet/internal/resource"
	"github.com/sethgrid/deskpet/internal/scheduler"
	"github.com/sethgrid/deskpet/internal/trigger"
)

// Driver is the running session a front-end feeds with time and input.
type Driver interface {
	Step(now time.Time)
	Controller() *trigger.Controller
	Scheduler() *scheduler.Scheduler
}

// keyActions are the single-key shortcuts outside the menu.
var keyActions = map[rune]trigger.Action{
	'r': trigger.ActionRestart,
	'f': trigger.ActionFreeRoam,
	'e': trigger.ActionEndFreeRoam,
	'h': trigger.ActionHeixiu,
	'1': trigger.ActionSpeedSlow,
	'2': trigger.ActionSpeedNormal,
	'3': trigger.ActionSpeedFast,
}

const menuKeys = "123456789abcdefghijklmnop"

var (
	hintStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	menuStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(60, 60, 60))
	catStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Terminal is a tcell front-end. It is the scheduler's Sink and Mover, in
// pixel coordinates mapped onto cells by CellWidth and CellHeight.
type Terminal struct {
	screen tcell.Screen
	audio  present.AudioPlayer
	log    hclog.Logger

	pos    image.Point
	size   pet.Size
	frame  image.Image
	hint   string
	status string

	menu     []trigger.MenuItem
	buttons  tcell.ButtonMask
	grabbing bool

	driver Driver
	cancel context.CancelFunc
}

// NewTerminal initialises screen and takes it over. audio may be nil.
func NewTerminal(screen tcell.Screen, audio present.AudioPlayer, log hclog.Logger) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Terminal{
		screen: screen,
		audio:  audio,
		log:    log.Named("terminal"),
		pos:    image.Pt(CellWidth, CellHeight),
	}, nil
}

func (t *Terminal) ShowFrame(img image.Image) { t.frame = img }
func (t *Terminal) Resize(size pet.Size) { t.size = size }
func (t *Terminal) ShowHint(text string) { t.hint = text }
func (t *Terminal) HideHint() { t.hint = "" }
func (t *Terminal) ShowStatus(text string) { t.status = text }

func (t *Terminal) PlayAudio(a *resource.Audio) error {
	if t.audio == nil {
		return nil
	}
	return t.audio.Play(a)
}

func (t *Terminal) StopAudio() {
	if t.audio != nil {
		t.audio.Stop()
	}
}

func (t *Terminal) Position() image.Point { return t.pos }

// MoveTo keeps at least one cell of the pet on screen.
func (t *Terminal) MoveTo(p image.Point) {
	s := t.Screen()
	p.X = clamp(p.X, s.Min.X-t.size.Width+CellWidth, s.Max.X-CellWidth)
	p.Y = clamp(p.Y, s.Min.Y-t.size.Height+CellHeight, s.Max.Y-CellHeight)
	t.pos = p
}

// Screen is the drawable area; the last row holds the status line.
func (t *Terminal) Screen() image.Rectangle {
	w, h := t.screen.Size()
	if h > 1 {
		h--
	}
	return image.Rect(0, 0, w*CellWidth, h*CellHeight)
}

func (t *Terminal) petRect() image.Rectangle {
	return image.Rectangle{Min: t.pos, Max: t.pos.Add(image.Pt(t.size.Width, t.size.Height))}
}

// Run feeds d with time and input until ctx ends or the pet quits.
func (t *Terminal) Run(ctx context.Context, d Driver) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer t.screen.Fini()

	t.driver = d
	t.cancel = cancel
	d.Controller().OnQuit = cancel

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			t.handleEvent(ev)
		case now := <-ticker.C:
			d.Step(now)
			t.draw()
		}
	}
}

func (t *Terminal) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.handleKey(ev)
	case *tcell.EventMouse:
		t.handleMouse(ev)
	case *tcell.EventResize:
		t.screen.Sync()
		t.MoveTo(t.pos)
	}
}

func (t *Terminal) quit() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	ctl := t.driver.Controller()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.quit()
		return
	case tcell.KeyEscape:
		if t.menu != nil {
			t.menu = nil
			return
		}
		t.quit()
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	if t.menu != nil {
		if i := strings.IndexRune(menuKeys, r); i >= 0 && i < len(t.menu) {
			ctl.Do(t.menu[i].Action)
		}
		t.menu = nil
		return
	}

	switch r {
	case 'q':
		t.quit()
	case 'm':
		t.menu = ctl.ContextMenu(trigger.Event{Global: t.pos, Button: trigger.ButtonRight})
	default:
		if a, ok := keyActions[r]; ok {
			ctl.Do(a)
		}
	}
}

func (t *Terminal) handleMouse(ev *tcell.EventMouse) {
	ctl := t.driver.Controller()

	x, y := ev.Position()
	global := image.Pt(x*CellWidth+CellWidth/2, y*CellHeight+CellHeight/2)
	pe := trigger.Event{Global: global, Local: global.Sub(t.pos)}

	btn := ev.Buttons()
	left := btn&tcell.Button1 != 0
	right := btn&tcell.Button2 != 0
	wasLeft := t.buttons&tcell.Button1 != 0
	wasRight := t.buttons&tcell.Button2 != 0
	t.buttons = btn

	switch {
	case left && !wasLeft && t.menu != nil:
		if i, ok := t.menuHit(x, y); ok {
			ctl.Do(t.menu[i].Action)
		}
		t.menu = nil
	case left && !wasLeft:
		if !global.In(t.petRect()) {
			return
		}
		t.grabbing = true
		pe.Button = trigger.ButtonLeft
		ctl.PointerDown(pe)
	case left && t.grabbing:
		pe.Button = trigger.ButtonLeft
		ctl.PointerMove(pe)
	case !left && wasLeft && t.grabbing:
		t.grabbing = false
		pe.Button = trigger.ButtonLeft
		ctl.PointerUp(pe)
	case right && !wasRight && global.In(t.petRect()):
		pe.Button = trigger.ButtonRight
		t.menu = ctl.ContextMenu(pe)
	}
}

// menuOrigin places the menu to the right of the pet.
func (t *Terminal) menuOrigin() (int, int) {
	r := t.petRect()
	return r.Max.X / CellWidth, r.Min.Y / CellHeight
}

func (t *Terminal) menuHit(x, y int) (int, bool) {
	mx, my := t.menuOrigin()
	i := y - my
	if x < mx || i < 0 || i >= len(t.menu) {
		return 0, false
	}
	return i, true
}

func (t *Terminal) draw() {
	t.screen.Clear()

	cx, cy := t.pos.X/CellWidth, t.pos.Y/CellHeight
	if t.frame != nil {
		cols, rows := Cells(t.size.Width, t.size.Height)
		for y, row := range Sample(t.frame, cols, rows) {
			for x, c := range row {
				if c.Clear {
					continue
				}
				style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
				t.screen.SetContent(cx+x, cy+y, Glyph(c), nil, style)
			}
		}
	} else {
		t.drawLines(cx, cy, strings.Split(Placeholder(t.driver.Scheduler().Mode()), "\n"), catStyle)
	}

	w, h := t.screen.Size()
	if t.hint != "" {
		t.drawText(max(0, (w-len([]rune(t.hint)))/2), 0, t.hint, hintStyle)
	}
	if t.status != "" {
		t.drawText(0, h-1, t.status, statusStyle)
	}
	if t.menu != nil {
		mx, my := t.menuOrigin()
		lines := make([]string, len(t.menu))
		for i, item := range t.menu {
			label := item.Label
			if item.Group != "" {
				label = item.Group + " > " + label
			}
			key := " "
			if i < len(menuKeys) {
				key = menuKeys[i : i+1]
			}
			lines[i] = " " + key + " " + label + " "
		}
		t.drawLines(mx, my, lines, menuStyle)
	}

	t.screen.Show()
}

func (t *Terminal) drawLines(x, y int, lines []string, style tcell.Style) {
	for i, line := range lines {
		t.drawText(x, y+i, line, style)
	}
}

func (t *Terminal) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
