package scheduler

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/sethgrid/deskpet/internal/clock"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/resource"
)

// frame is a fake image that remembers where it came from.
type frame struct {
	folder string
	index  int
	size   pet.Size
}

func (f frame) ColorModel() color.Model { return color.RGBAModel }
func (f frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.size.Width, f.size.Height) }
func (f frame) At(x, y int) color.Color { return color.RGBA{} }

type fakeAssets struct {
	missing     map[string]bool
	noAudio     bool
	invalidated bool
}

func (a *fakeAssets) Frames(folder string, count int, size pet.Size) []image.Image {
	if a.missing[folder] {
		return nil
	}
	frames := make([]image.Image, count)
	for i := range frames {
		frames[i] = frame{folder: folder, index: i, size: size}
	}
	return frames
}

func (a *fakeAssets) Image(folder, file string, size pet.Size) image.Image {
	if a.missing[folder] {
		return nil
	}
	return frame{folder: folder, size: size}
}

func (a *fakeAssets) Audio(folder, file string) *resource.Audio {
	if a.noAudio {
		return nil
	}
	return &resource.Audio{Path: folder + "/" + file}
}

func (a *fakeAssets) InvalidateAll() {
	a.invalidated = true
}

type recordingSink struct {
	shown    []image.Image
	sizes    []pet.Size
	played   []*resource.Audio
	stopped  int
	audioErr error
	hint     string
	hinted   bool
	status   string
}

func (s *recordingSink) ShowFrame(img image.Image) { s.shown = append(s.shown, img) }
func (s *recordingSink) Resize(size pet.Size) { s.sizes = append(s.sizes, size) }
func (s *recordingSink) StopAudio() { s.stopped++ }
func (s *recordingSink) ShowHint(text string) { s.hint, s.hinted = text, true }
func (s *recordingSink) HideHint() { s.hinted = false }
func (s *recordingSink) ShowStatus(text string) { s.status = text }
func (s *recordingSink) last() image.Image { return s.shown[len(s.shown)-1] }
func (s *recordingSink) PlayAudio(a *resource.Audio) error {
	if s.audioErr != nil {
		return s.audioErr
	}
	s.played = append(s.played, a)
	return nil
}

type fakeMover struct {
	pos    image.Point
	screen image.Rectangle
}

func (m *fakeMover) Position() image.Point { return m.pos }
func (m *fakeMover) MoveTo(p image.Point) { m.pos = p }
func (m *fakeMover) Screen() image.Rectangle { return m.screen }

// scriptRand replays vals; once exhausted it returns 0.
type scriptRand struct {
	vals []int
}

func (r *scriptRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v % n
}

type harness struct {
	s      *Scheduler
	sink   *recordingSink
	assets *fakeAssets
	mover  *fakeMover
	clk    *clock.Mock
	disp   *clock.Dispatcher
}

func (h *harness) tick(d time.Duration) {
	h.disp.Step(h.clk.Advance(d))
}

func (h *harness) advance(n int) {
	for i := 0; i < n; i++ {
		h.s.Advance()
	}
}

type option func(*Options)

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()
	h := &harness{
		sink:   &recordingSink{},
		assets: &fakeAssets{missing: map[string]bool{}},
		mover:  &fakeMover{pos: image.Pt(100, 50), screen: image.Rect(0, 0, 1000, 800)},
		clk:    clock.NewMock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	h.disp = clock.NewDispatcher(h.clk)
	o := Options{
		Config:     pet.DefaultConfig(),
		Catalog:    pet.DefaultCatalog(),
		Assets:     h.assets,
		Sink:       h.sink,
		Mover:      h.mover,
		Dispatcher: h.disp,
		Rand:       &scriptRand{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	s, err := New(o)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Start()
	h.s = s
	return h
}

func withMissing(folders ...string) option {
	return func(o *Options) {
		a := o.Assets.(*fakeAssets)
		for _, f := range folders {
			a.missing[f] = true
		}
	}
}

func withRand(r Rand) option {
	return func(o *Options) { o.Rand = r }
}

func withCatalog(c *pet.Catalog) option {
	return func(o *Options) { o.Catalog = c }
}

func withHooks(hooks Hooks) option {
	return func(o *Options) { o.Hooks = hooks }
}

func TestNewRequiresDependencies(t *testing.T) {
	disp := clock.NewDispatcher(clock.NewMock(time.Now()))
	full := Options{Catalog: pet.DefaultCatalog(), Assets: &fakeAssets{}, Sink: &recordingSink{}, Dispatcher: disp}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"no catalog", func(o *Options) { o.Catalog = nil }},
		{"no assets", func(o *Options) { o.Assets = nil }},
		{"no sink", func(o *Options) { o.Sink = nil }},
		{"no dispatcher", func(o *Options) { o.Dispatcher = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := full
			tt.mutate(&o)
			if _, err := New(o); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestStartShowsFirstIdleFrame(t *testing.T) {
	h := newHarness(t)
	got, ok := h.sink.last().(frame)
	if !ok || got.folder != "xiaoheichuchang2" || got.index != 0 {
		t.Errorf("first frame = %+v, want main frame 0", h.sink.last())
	}
	if h.s.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", h.s.Mode())
	}
}

func TestStartWithoutIdleFramesShowsPlaceholder(t *testing.T) {
	h := newHarness(t, withMissing("xiaoheichuchang2"))
	if h.sink.last() != nil {
		t.Errorf("last frame = %v, want nil placeholder", h.sink.last())
	}
}

func TestRequestArbitration(t *testing.T) {
	tests := []struct {
		name   string
		active pet.AnimationID
		req    pet.AnimationID
		force  bool
		want   bool
	}{
		{"nothing playing", "", pet.AnimBlink, false, true},
		{"higher preempts interruptible", pet.AnimBlink, pet.AnimShake, false, true},
		{"lower rejected", pet.AnimShake, pet.AnimBlink, false, false},
		{"equal rejected", pet.AnimShake, pet.AnimConfused, false, false},
		{"non-interruptible rejects higher", pet.AnimAnger, pet.AnimAnxiety, false, false},
		{"non-interruptible rejects equal", pet.AnimAnger, pet.AnimWalkAway, false, false},
		{"force overrides non-interruptible", pet.AnimAnger, pet.AnimShake, true, true},
		{"force overrides lower priority", pet.AnimAnxiety, pet.AnimBlink, true, true},
		{"system preempts special walk", pet.AnimLeftWalk, pet.AnimAnxiety, false, true},
		{"interaction cannot preempt walk", pet.AnimLeftWalk, pet.AnimShake, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.active != "" {
				if !h.s.Request(tt.active, true) {
					t.Fatalf("setup Request(%s) rejected", tt.active)
				}
				h.advance(1)
			}
			before := h.s.State()
			shown := len(h.sink.shown)

			got := h.s.Request(tt.req, tt.force)
			if got != tt.want {
				t.Fatalf("Request(%s, %v) = %v, want %v", tt.req, tt.force, got, tt.want)
			}
			after := h.s.State()
			if !got {
				if after.Active != before.Active || after.Cursor != before.Cursor || after.Loop != before.Loop || after.Priority != before.Priority {
					t.Errorf("rejected request changed state: %+v -> %+v", before, after)
				}
				if len(h.sink.shown) != shown {
					t.Error("rejected request drew a frame")
				}
				return
			}
			if after.Active != tt.req || !after.Playing || after.Cursor != 0 || after.Loop != 0 {
				t.Errorf("accepted state = %+v, want %s at cursor 0", after, tt.req)
			}
		})
	}
}

func TestRequestUnknownID(t *testing.T) {
	h := newHarness(t)
	if h.s.Request("dance", true) {
		t.Error("Request(unknown) = true, want false")
	}
}

func TestEmptyFramesLeavePreviousRun(t *testing.T) {
	h := newHarness(t, withMissing("yao"))
	h.s.Request(pet.AnimBlink, false)
	h.advance(1)
	before := h.s.State()

	if h.s.Request(pet.AnimShake, true) {
		t.Fatal("Request(shake) with no frames = true, want false")
	}
	after := h.s.State()
	if after.Active != pet.AnimBlink || after.Cursor != before.Cursor || !after.Playing {
		t.Errorf("state after failed request = %+v, want blink untouched", after)
	}
}

func TestLoopAccounting(t *testing.T) {
	tests := []struct {
		frames, loops int
	}{
		{1, 1},
		{2, 3},
		{5, 1},
		{4, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.frames, tt.loops), func(t *testing.T) {
			descs := pet.DefaultDescriptors()
			descs = append(descs, pet.Descriptor{
				ID: "probe", Folder: "probe", Frames: tt.frames, Interval: 10 * time.Millisecond,
				Loops: tt.loops, Priority: pet.PriorityInteraction, Interruptible: true, SizeScale: 1,
				OnComplete: "count",
			})
			cat, err := pet.NewCatalog(descs)
			if err != nil {
				t.Fatal(err)
			}
			calls := 0
			hooks := HookFuncs{"count": func(pet.AnimationID) error { calls++; return nil }}
			h := newHarness(t, withCatalog(cat), withHooks(hooks))

			h.s.Request("probe", false)
			total := tt.frames * tt.loops
			h.advance(total - 1)
			if h.s.Active() != "probe" {
				t.Fatalf("finished after %d advances, want %d", total-1, total)
			}
			h.advance(1)
			if h.s.Playing() {
				t.Errorf("still playing after %d advances", total)
			}
			if calls != 1 {
				t.Errorf("hook calls = %d, want 1", calls)
			}
		})
	}
}

func TestFrameTimerDrivesAdvance(t *testing.T) {
	h := newHarness(t)
	h.s.Request(pet.AnimBlink, false) // 2 frames, 100ms, 1 loop

	h.tick(100 * time.Millisecond)
	if got := h.s.State().Cursor; got != 1 {
		t.Fatalf("cursor after one tick = %d, want 1", got)
	}
	h.tick(100 * time.Millisecond)
	if h.s.Playing() {
		t.Error("blink still playing after two ticks")
	}
	idle := h.sink.last().(frame)
	if idle.folder != "xiaoheichuchang2" || idle.index != 33 {
		t.Errorf("idle frame = %+v, want last main frame", idle)
	}
}

func TestForeverNeverCompletes(t *testing.T) {
	descs := pet.DefaultDescriptors()
	for i := range descs {
		if descs[i].ID == pet.AnimAnxiety {
			descs[i].OnComplete = "never"
		}
	}
	cat, err := pet.NewCatalog(descs)
	if err != nil {
		t.Fatal(err)
	}
	called := false
	h := newHarness(t, withCatalog(cat), withHooks(HookFuncs{"never": func(pet.AnimationID) error { called = true; return nil }}))

	h.s.Request(pet.AnimAnxiety, true)
	h.advance(1000)
	if h.s.Active() != pet.AnimAnxiety || !h.s.Playing() {
		t.Errorf("anxiety stopped after 1000 advances: %+v", h.s.State())
	}
	if h.s.State().Loop != 0 {
		t.Errorf("forever animation counted loops: %d", h.s.State().Loop)
	}
	if called {
		t.Error("forever animation ran its completion hook")
	}

	if !h.s.EndCurrent() {
		t.Fatal("EndCurrent() = false while anxious")
	}
	if !called || h.s.Playing() {
		t.Error("EndCurrent() should run natural termination")
	}
}

func TestAngerChainsToWalkAway(t *testing.T) {
	h := newHarness(t)
	h.s.Request(pet.AnimAnger, true)
	h.advance(2*3 - 1)
	if h.s.Active() != pet.AnimAnger {
		t.Fatalf("anger ended early: %s", h.s.Active())
	}
	h.advance(1)
	if h.s.Active() != pet.AnimWalkAway || !h.s.Playing() {
		t.Fatalf("after anger: %+v, want walk-away playing", h.s.State())
	}
	h.advance(20)
	if h.s.Playing() {
		t.Error("walk-away should end after one loop")
	}
}

func TestChainFailureFallsToIdle(t *testing.T) {
	h := newHarness(t, withMissing("zoukai"))
	h.s.Request(pet.AnimAnger, true)
	h.advance(6)
	if h.s.Playing() || h.s.Active() != "" {
		t.Errorf("state = %+v, want idle", h.s.State())
	}
	if f := h.sink.last().(frame); f.folder != "xiaoheichuchang2" {
		t.Errorf("shown %+v, want idle frame", f)
	}
}

func TestBurpChain(t *testing.T) {
	tests := []struct {
		name string
		draw int // Intn result; the roll is draw+1
		want pet.AnimationID
	}{
		{"roll 1 burps", 0, pet.AnimBurp},
		{"roll 30 burps", 29, pet.AnimBurp},
		{"roll 31 idles", 30, ""},
		{"roll 100 idles", 99, ""},
	}
	for _, id := range []pet.AnimationID{pet.AnimDrinkMilk, pet.AnimEatBurger, pet.AnimEatChicken} {
		for _, tt := range tests {
			t.Run(string(id)+"/"+tt.name, func(t *testing.T) {
				h := newHarness(t, withRand(&scriptRand{vals: []int{tt.draw}}))
				h.s.Request(id, false)
				h.s.EndCurrent()
				if h.s.Active() != tt.want {
					t.Errorf("after %s: active = %q, want %q", id, h.s.Active(), tt.want)
				}
			})
		}
	}
}

func TestBurpRate(t *testing.T) {
	h := newHarness(t, withRand(rand.New(rand.NewSource(42))))

	const trials = 10000
	burps := 0
	for i := 0; i < trials; i++ {
		h.s.Request(pet.AnimDrinkMilk, true)
		h.s.EndCurrent()
		if h.s.Active() == pet.AnimBurp {
			burps++
		}
		h.s.Restart()
	}
	rate := float64(burps) / trials
	if rate < 0.27 || rate > 0.33 {
		t.Errorf("burp rate = %.3f, want about 0.30", rate)
	}
}

func TestBurpRateAfterNaturalEnd(t *testing.T) {
	h := newHarness(t, withRand(rand.New(rand.NewSource(7))))
	d, _ := pet.DefaultCatalog().Lookup(pet.AnimDrinkMilk)
	total := d.Loops * d.Frames

	const trials = 2000
	burps := 0
	for i := 0; i < trials; i++ {
		if !h.s.Request(pet.AnimDrinkMilk, false) {
			t.Fatalf("trial %d: Request(drink-milk) from idle rejected", i)
		}
		h.advance(total - 1)
		if h.s.Active() != pet.AnimDrinkMilk {
			t.Fatalf("trial %d: active = %q one advance before the end", i, h.s.Active())
		}
		h.advance(1)
		switch h.s.Active() {
		case pet.AnimBurp:
			burps++
		case "":
		default:
			t.Fatalf("trial %d: active = %q after the last advance", i, h.s.Active())
		}
		h.s.Restart()
	}
	rate := float64(burps) / trials
	if rate < 0.26 || rate > 0.34 {
		t.Errorf("burp rate = %.3f, want about 0.30", rate)
	}
}

func TestScaledAnimationRestoresSize(t *testing.T) {
	h := newHarness(t)
	base := pet.Size{Width: 200, Height: 200}

	h.s.Request(pet.AnimRoll, false)
	if got := h.s.Size(); got != (pet.Size{Width: 300, Height: 300}) {
		t.Errorf("size during roll = %+v, want 300x300", got)
	}
	if saved := h.s.State().SavedSize; saved == nil || *saved != base {
		t.Errorf("saved size = %v, want %+v", saved, base)
	}
	if f := h.sink.last().(frame); f.size != (pet.Size{Width: 300, Height: 300}) {
		t.Errorf("roll frame size = %+v, want 300x300", f.size)
	}

	h.s.EndCurrent()
	if got := h.s.Size(); got != base {
		t.Errorf("size after roll = %+v, want %+v", got, base)
	}
}

func TestScaledPreemptsScaled(t *testing.T) {
	h := newHarness(t)
	h.s.Request(pet.AnimHeixiu, false)
	if got := h.s.Size(); got != (pet.Size{Width: 100, Height: 100}) {
		t.Fatalf("heixiu size = %+v, want 100x100", got)
	}

	h.s.Request(pet.AnimRoll, true)
	if f := h.sink.last().(frame); f.size != (pet.Size{Width: 300, Height: 300}) {
		t.Errorf("roll frames loaded at %+v, want the restored size scaled", f.size)
	}
	if saved := h.s.State().SavedSize; saved == nil || *saved != (pet.Size{Width: 200, Height: 200}) {
		t.Errorf("saved size = %v, want 200x200", saved)
	}
	h.s.EndCurrent()
	if got := h.s.Size(); got != (pet.Size{Width: 200, Height: 200}) {
		t.Errorf("final size = %+v, want 200x200", got)
	}
}

func TestAudio(t *testing.T) {
	t.Run("plays and stops", func(t *testing.T) {
		h := newHarness(t)
		h.s.Request(pet.AnimConfused, false)
		if len(h.sink.played) != 1 {
			t.Fatalf("played %d clips, want 1", len(h.sink.played))
		}
		h.s.Request(pet.AnimAnxiety, true)
		if h.sink.stopped != 1 {
			t.Errorf("StopAudio calls = %d, want 1", h.sink.stopped)
		}
	})
	t.Run("start failure is not fatal", func(t *testing.T) {
		h := newHarness(t)
		h.sink.audioErr = errors.New("no device")
		if !h.s.Request(pet.AnimConfused, false) {
			t.Fatal("Request() = false when audio fails")
		}
		if !h.s.Playing() {
			t.Error("animation should keep playing without audio")
		}
		h.s.EndCurrent()
		if h.sink.stopped != 0 {
			t.Error("StopAudio called for audio that never started")
		}
	})
	t.Run("missing clip is not fatal", func(t *testing.T) {
		h := newHarness(t)
		h.assets.noAudio = true
		if !h.s.Request(pet.AnimHeixiu, false) {
			t.Error("Request() = false when the clip is missing")
		}
	})
}

func TestHookFailuresAreSwallowed(t *testing.T) {
	descs := pet.DefaultDescriptors()
	for i := range descs {
		switch descs[i].ID {
		case pet.AnimBlink:
			descs[i].OnComplete = "fails"
		case pet.AnimShake:
			descs[i].OnComplete = "panics"
		case pet.AnimGuitar:
			descs[i].OnComplete = "missing"
		}
	}
	cat, err := pet.NewCatalog(descs)
	if err != nil {
		t.Fatal(err)
	}
	hooks := HookFuncs{
		"fails":  func(pet.AnimationID) error { return errors.New("boom") },
		"panics": func(pet.AnimationID) error { panic("boom") },
	}
	h := newHarness(t, withCatalog(cat), withHooks(hooks))

	for _, id := range []pet.AnimationID{pet.AnimBlink, pet.AnimShake, pet.AnimGuitar} {
		h.s.Request(id, true)
		h.s.EndCurrent()
		if h.s.Playing() {
			t.Errorf("%s: still playing after a failing hook", id)
		}
	}
}

func TestSleep(t *testing.T) {
	t.Run("rejected by non-interruptible run", func(t *testing.T) {
		h := newHarness(t)
		h.s.Request(pet.AnimAnger, true)
		if h.s.Sleep(pet.AnimSleep) {
			t.Error("Sleep() during anger = true")
		}
	})
	t.Run("preempts interruptible run", func(t *testing.T) {
		h := newHarness(t)
		h.s.Request(pet.AnimShake, false)
		if !h.s.Sleep(pet.AnimSleep) {
			t.Fatal("Sleep() during shake = false")
		}
		if h.s.Mode() != ModeSleeping || h.s.Playing() {
			t.Errorf("Mode() = %v, Playing() = %v", h.s.Mode(), h.s.Playing())
		}
		if h.s.Sleep(pet.AnimSleep) {
			t.Error("second Sleep() = true")
		}
	})
	t.Run("heixiu variant falls back", func(t *testing.T) {
		h := newHarness(t, withMissing("heixiushuijiao"))
		h.s.Sleep(pet.AnimHeixiuSleep)
		if h.s.Active() != pet.AnimSleep {
			t.Errorf("Active() = %s, want plain sleep", h.s.Active())
		}
		if f := h.sink.last().(frame); f.folder != "shuijiao" {
			t.Errorf("shown %+v, want plain sleep image", f)
		}
	})
	t.Run("requests accepted while sleeping", func(t *testing.T) {
		h := newHarness(t)
		h.s.Sleep(pet.AnimSleep)
		if !h.s.Request(pet.AnimBlink, false) {
			t.Error("Request(blink) while sleeping = false")
		}
	})
	t.Run("wake", func(t *testing.T) {
		h := newHarness(t)
		if h.s.Wake() {
			t.Error("Wake() while awake = true")
		}
		h.s.Sleep(pet.AnimSleep)
		if !h.s.Wake() || h.s.Mode() != ModeIdle {
			t.Errorf("Wake() left mode %v", h.s.Mode())
		}
		if h.s.Playing() || h.s.frameTimer.Active() {
			t.Errorf("Wake() left playing=%v frame timer=%v", h.s.Playing(), h.s.frameTimer.Active())
		}
	})
	t.Run("sleep ids cannot be requested", func(t *testing.T) {
		for _, id := range []pet.AnimationID{pet.AnimSleep, pet.AnimHeixiuSleep} {
			for _, force := range []bool{false, true} {
				h := newHarness(t)
				h.s.Request(pet.AnimShake, false)
				before := h.s.State()
				if h.s.Request(id, force) {
					t.Errorf("Request(%s, %v) = true", id, force)
				}
				if h.s.Active() != before.Active || !h.s.Playing() || h.s.Sleeping() {
					t.Errorf("Request(%s, %v) changed state to %+v", id, force, h.s.State())
				}
			}
		}
	})
}

func TestForceSleep(t *testing.T) {
	h := newHarness(t)
	h.s.Request(pet.AnimAnxiety, true)

	h.s.EnterForceSleep("bedtime")
	if h.s.Mode() != ModeForceSleeping {
		t.Fatalf("Mode() = %v, want force-sleeping", h.s.Mode())
	}
	if !h.sink.hinted || h.sink.hint != "bedtime" {
		t.Errorf("hint = %q shown=%v", h.sink.hint, h.sink.hinted)
	}
	if f := h.sink.last().(frame); f.folder != "shuijiao" {
		t.Errorf("shown %+v, want sleep image", f)
	}
	for _, force := range []bool{false, true} {
		if h.s.Request(pet.AnimAnger, force) {
			t.Errorf("Request(anger, %v) during force sleep = true", force)
		}
	}
	if h.s.Wake() {
		t.Error("Wake() ended force sleep")
	}
	if h.s.StartFreeRoam() {
		t.Error("StartFreeRoam() during force sleep = true")
	}

	h.s.ExitForceSleep()
	if h.s.Mode() != ModeIdle || h.sink.hinted {
		t.Errorf("after exit: mode %v, hint shown %v", h.s.Mode(), h.sink.hinted)
	}
	if !h.s.Request(pet.AnimBlink, false) {
		t.Error("Request() rejected after force sleep ended")
	}
}

func TestFreeRoamChoice(t *testing.T) {
	tests := []struct {
		draw int
		want pet.AnimationID
	}{
		{0, pet.AnimLeftWalk},
		{47, pet.AnimLeftWalk},
		{48, pet.AnimRightWalk},
		{95, pet.AnimRightWalk},
		{96, pet.AnimSit},
		{99, pet.AnimSit},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("draw %d", tt.draw), func(t *testing.T) {
			h := newHarness(t, withRand(&scriptRand{vals: []int{tt.draw}}))
			if !h.s.StartFreeRoam() {
				t.Fatal("StartFreeRoam() = false")
			}
			if h.s.Active() != tt.want || h.s.Mode() != ModeFreeRoaming {
				t.Errorf("Active() = %s, Mode() = %v", h.s.Active(), h.s.Mode())
			}
		})
	}
}

func TestWalkMovesWindow(t *testing.T) {
	h := newHarness(t, withRand(&scriptRand{vals: []int{0}}))
	h.s.StartFreeRoam()

	h.tick(33 * time.Millisecond)
	if got := h.mover.pos; got != image.Pt(95, 50) {
		t.Errorf("position = %v, want (95,50)", got)
	}
}

func TestWalkBounce(t *testing.T) {
	tests := []struct {
		name     string
		draw     int
		start    int
		wantX    int
		wantWalk pet.AnimationID
	}{
		{"right edge", 50, 1000 - 200 - 3, 800, pet.AnimLeftWalk},
		{"left edge", 0, 2, 0, pet.AnimRightWalk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, withRand(&scriptRand{vals: []int{tt.draw}}))
			h.mover.pos = image.Pt(tt.start, 50)
			h.s.StartFreeRoam()

			h.tick(33 * time.Millisecond)
			if h.mover.pos.X != tt.wantX {
				t.Errorf("x = %d, want %d", h.mover.pos.X, tt.wantX)
			}
			st := h.s.State()
			if st.Active != tt.wantWalk {
				t.Errorf("Active = %s, want %s", st.Active, tt.wantWalk)
			}
			if st.Cursor != 0 {
				t.Errorf("Cursor = %d, want 0 after bounce", st.Cursor)
			}

			h.tick(33 * time.Millisecond)
			if h.mover.pos.X == tt.wantX {
				t.Error("window did not move away from the edge")
			}
		})
	}
}

func TestSitEndsAfterDuration(t *testing.T) {
	h := newHarness(t, withRand(&scriptRand{vals: []int{99}}))
	h.s.StartFreeRoam()
	start := h.mover.pos

	h.tick(time.Minute)
	if !h.s.FreeRoaming() || h.mover.pos != start {
		t.Fatalf("sit moved or ended early: roaming=%v pos=%v", h.s.FreeRoaming(), h.mover.pos)
	}
	h.tick(4 * time.Minute)
	if h.s.FreeRoaming() {
		t.Error("sit still active after five minutes")
	}
}

func TestPreemptionEndsFreeRoam(t *testing.T) {
	h := newHarness(t)
	h.s.StartFreeRoam()

	if h.s.Request(pet.AnimShake, false) {
		t.Fatal("interaction preempted a walk")
	}
	if !h.s.Request(pet.AnimAnger, true) {
		t.Fatal("forced anger rejected during walk")
	}
	if h.s.FreeRoaming() {
		t.Error("still free roaming after preemption")
	}
	pos := h.mover.pos
	h.tick(33 * time.Millisecond)
	if h.mover.pos != pos {
		t.Error("window moved after roaming ended")
	}
}

func TestEndFreeRoam(t *testing.T) {
	h := newHarness(t)
	if h.s.EndFreeRoam() {
		t.Error("EndFreeRoam() while not roaming = true")
	}
	h.s.StartFreeRoam()
	if !h.s.EndFreeRoam() || h.s.Mode() != ModeIdle {
		t.Errorf("after EndFreeRoam: mode %v", h.s.Mode())
	}
}

func TestHeixiuMode(t *testing.T) {
	h := newHarness(t)
	h.s.SetHeixiuMode(true)
	if !h.s.HeixiuMode() || h.s.Active() != pet.AnimHeixiu {
		t.Fatalf("heixiu mode on: active %s", h.s.Active())
	}
	h.s.SetHeixiuMode(false)
	if h.s.HeixiuMode() || h.s.Playing() {
		t.Errorf("heixiu mode off: %+v", h.s.State())
	}
	if got := h.s.Size(); got != h.s.BaseSize() {
		t.Errorf("size = %+v, want base", got)
	}
}

func TestRestart(t *testing.T) {
	h := newHarness(t)
	h.s.SetHeixiuMode(true)
	h.s.StartFreeRoam()

	h.s.Restart()
	if h.s.HeixiuMode() || h.s.FreeRoaming() || h.s.Playing() {
		t.Errorf("restart left modes on: heixiu=%v roam=%v playing=%v", h.s.HeixiuMode(), h.s.FreeRoaming(), h.s.Playing())
	}
	if f := h.sink.last().(frame); f.folder != "xiaoheichuchang2" || f.index != 0 {
		t.Errorf("shown %+v, want main frame 0", f)
	}
}

func TestClose(t *testing.T) {
	h := newHarness(t)
	h.s.Request(pet.AnimConfused, false)
	h.s.Close()

	if !h.assets.invalidated {
		t.Error("Close() did not invalidate the cache")
	}
	if h.sink.stopped != 1 {
		t.Errorf("StopAudio calls = %d, want 1", h.sink.stopped)
	}
	if _, ok := h.disp.Next(); ok {
		t.Error("timers still armed after Close()")
	}
}
