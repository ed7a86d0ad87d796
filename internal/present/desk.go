package present

import (
	"image"
	"sync"
)

// Desk is a Mover for runs without a real window: the pet moves over a
// fixed virtual screen.
type Desk struct {
	mu     sync.Mutex
	pos    image.Point
	screen image.Rectangle
}

func NewDesk(screen image.Rectangle, start image.Point) *Desk {
	return &Desk{screen: screen, pos: start}
}

func (d *Desk) Position() image.Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos
}

func (d *Desk) MoveTo(p image.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = p
}

func (d *Desk) Screen() image.Rectangle {
	return d.screen
}
