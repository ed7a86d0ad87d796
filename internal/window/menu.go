package window

import (
	"github.com/sethgrid/deskpet/internal/trigger"
)

const lineHeight = 16

// menuView is the context menu drawn inside the pet window. It scrolls when
// the window is shorter than the list.
type menuView struct {
	items []trigger.MenuItem
	top   int
}

func (m *menuView) open() bool {
	return m.items != nil
}

func (m *menuView) show(items []trigger.MenuItem) {
	m.items = items
	m.top = 0
}

func (m *menuView) close() {
	m.items = nil
	m.top = 0
}

// scroll moves the first visible entry by delta, keeping at least one
// entry on screen.
func (m *menuView) scroll(delta int) {
	m.top = max(0, min(m.top+delta, len(m.items)-1))
}

// hit returns the entry under window row y.
func (m *menuView) hit(y int) (trigger.MenuItem, bool) {
	if y < 0 {
		return trigger.MenuItem{}, false
	}
	i := m.top + y/lineHeight
	if i >= len(m.items) {
		return trigger.MenuItem{}, false
	}
	return m.items[i], true
}

// lines are the visible labels, top first.
func (m *menuView) lines() []string {
	if m.top >= len(m.items) {
		return nil
	}
	out := make([]string, 0, len(m.items)-m.top)
	for _, item := range m.items[m.top:] {
		label := item.Label
		if item.Group != "" {
			label = "  " + label
		}
		out = append(out, label)
	}
	return out
}
