// Package window is the desktop front-end: a borderless, transparent,
// always-on-top ebiten window holding the pet.
package window

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/art"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/present"
	"github.com/sethgrid/deskpet/internal/resource"
	"github.com/sethgrid/deskpet/internal/trigger"
)

var keyActions = map[ebiten.Key]trigger.Action{
	ebiten.KeyR:      trigger.ActionRestart,
	ebiten.KeyF:      trigger.ActionFreeRoam,
	ebiten.KeyE:      trigger.ActionEndFreeRoam,
	ebiten.KeyH:      trigger.ActionHeixiu,
	ebiten.KeyDigit1: trigger.ActionSpeedSlow,
	ebiten.KeyDigit2: trigger.ActionSpeedNormal,
	ebiten.KeyDigit3: trigger.ActionSpeedFast,
}

const maxTextures = 512

var (
	menuBackground = color.RGBA{R: 40, G: 40, B: 40, A: 230}
	hintBackground = color.RGBA{R: 255, G: 230, B: 120, A: 230}
)

// Window is the scheduler's Sink and Mover for the desktop.
type Window struct {
	audio present.AudioPlayer
	log   hclog.Logger
	title string

	size     pet.Size
	frame    image.Image
	textures map[image.Image]*ebiten.Image
	hint     string
	status   string
	menu     menuView

	driver art.Driver
	ctx    context.Context
	quit   bool
	cursor image.Point
}

// New prepares the window. Nothing is shown until Run. audio may be nil.
func New(title string, audio present.AudioPlayer, log hclog.Logger) *Window {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Window{
		audio:    audio,
		log:      log.Named("window"),
		title:    title,
		textures: make(map[image.Image]*ebiten.Image),
	}
}

func (w *Window) ShowFrame(img image.Image) { w.frame = img }
func (w *Window) ShowHint(text string) { w.hint = text }
func (w *Window) HideHint() { w.hint = "" }
func (w *Window) ShowStatus(text string) { w.status = text }

func (w *Window) Resize(size pet.Size) {
	w.size = size
	ebiten.SetWindowSize(size.Width, size.Height)
}

func (w *Window) PlayAudio(a *resource.Audio) error {
	if w.audio == nil {
		return nil
	}
	return w.audio.Play(a)
}

func (w *Window) StopAudio() {
	if w.audio != nil {
		w.audio.Stop()
	}
}

func (w *Window) Position() image.Point {
	x, y := ebiten.WindowPosition()
	return image.Pt(x, y)
}

func (w *Window) MoveTo(p image.Point) {
	ebiten.SetWindowPosition(p.X, p.Y)
}

// Screen is the monitor the window is on.
func (w *Window) Screen() image.Rectangle {
	width, height := ebiten.Monitor().Size()
	return image.Rect(0, 0, width, height)
}

// Run opens the window and blocks until ctx ends, the pet quits or the
// window is closed. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context, d art.Driver) error {
	w.driver = d
	w.ctx = ctx
	d.Controller().OnQuit = func() { w.quit = true }

	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetRunnableOnUnfocused(true)

	err := ebiten.RunGameWithOptions(w, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
		X11ClassName:      "deskpet",
		X11InstanceName:   "deskpet",
	})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (w *Window) Update() error {
	if w.quit || w.ctx.Err() != nil {
		return ebiten.Termination
	}

	w.handleKeys()
	w.handleMouse()
	w.driver.Step(time.Now())

	if w.quit {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) handleKeys() {
	ctl := w.driver.Controller()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if w.menu.open() {
			w.menu.close()
			return
		}
		w.quit = true
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		w.quit = true
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		w.menu.show(ctl.ContextMenu(trigger.Event{Global: w.Position(), Button: trigger.ButtonRight}))
		return
	}

	for k, a := range keyActions {
		if inpututil.IsKeyJustPressed(k) {
			ctl.Do(a)
		}
	}
}

func (w *Window) handleMouse() {
	ctl := w.driver.Controller()

	x, y := ebiten.CursorPosition()
	local := image.Pt(x, y)
	ev := trigger.Event{Global: local.Add(w.Position()), Local: local}

	if w.menu.open() {
		if _, dy := ebiten.Wheel(); dy != 0 {
			w.menu.scroll(-int(dy))
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			if item, ok := w.menu.hit(y); ok {
				ctl.Do(item.Action)
			}
			w.menu.close()
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			w.menu.close()
		}
		return
	}

	ev.Button = trigger.ButtonLeft
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		ctl.PointerDown(ev)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		ctl.PointerUp(ev)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && local != w.cursor:
		ctl.PointerMove(ev)
	}
	w.cursor = local

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		ev.Button = trigger.ButtonRight
		w.menu.show(ctl.ContextMenu(ev))
	}
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Clear()

	if w.frame != nil {
		screen.DrawImage(w.texture(w.frame), &ebiten.DrawImageOptions{})
	} else {
		ebitenutil.DebugPrintAt(screen, art.Placeholder(w.driver.Scheduler().Mode()), 8, 8)
	}

	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	if w.hint != "" {
		ebitenutil.DrawRect(screen, 0, 0, float64(width), lineHeight, hintBackground)
		ebitenutil.DebugPrintAt(screen, w.hint, 2, 0)
	}
	if w.status != "" && !w.menu.open() {
		ebitenutil.DebugPrintAt(screen, w.status, 2, height-lineHeight)
	}
	if w.menu.open() {
		ebitenutil.DrawRect(screen, 0, 0, float64(width), float64(height), menuBackground)
		ebitenutil.DebugPrintAt(screen, strings.Join(w.menu.lines(), "\n"), 4, 0)
	}
}

// texture converts a frame once. Frames come from the resource cache, so
// the same image value recurs for the life of the session.
func (w *Window) texture(img image.Image) *ebiten.Image {
	if t, ok := w.textures[img]; ok {
		return t
	}
	if len(w.textures) >= maxTextures {
		for k, t := range w.textures {
			t.Deallocate()
			delete(w.textures, k)
		}
	}
	t := ebiten.NewImageFromImage(img)
	w.textures[img] = t
	return t
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w.size.Empty() {
		return outsideWidth, outsideHeight
	}
	return w.size.Width, w.size.Height
}
