package app

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/sethgrid/deskpet/internal/conditions"
	"github.com/sethgrid/deskpet/internal/pet"
	"github.com/sethgrid/deskpet/internal/trigger"
)

// Exec runs one console command against the session and returns what to
// print. It drives headless runs and scripted sessions.
//
//	click                 press and release on the pet
//	drag DX DY            drag the pet by DX, DY
//	menu                  list menu actions
//	do ACTION             run a menu action
//	play ID               request an interaction animation
//	sleep | wake          doze off or wake up
//	status                report the current state
//	quit                  stop the session
func (a *App) Exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	ctl := a.controller
	at := a.origin()

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "click":
		ctl.PointerDown(trigger.Event{Global: at, Button: trigger.ButtonLeft})
		ctl.PointerUp(trigger.Event{Global: at, Button: trigger.ButtonLeft})
		return a.describe(), nil

	case "drag":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: drag DX DY")
		}
		dx, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid DX: %w", err)
		}
		dy, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid DY: %w", err)
		}
		to := at.Add(image.Pt(dx, dy))
		ctl.PointerDown(trigger.Event{Global: at, Button: trigger.ButtonLeft})
		ctl.PointerMove(trigger.Event{Global: to, Button: trigger.ButtonLeft})
		ctl.PointerUp(trigger.Event{Global: to, Button: trigger.ButtonLeft})
		return a.describe(), nil

	case "menu":
		var sb strings.Builder
		for _, item := range ctl.ContextMenu(trigger.Event{Global: at, Button: trigger.ButtonRight}) {
			label := item.Label
			if item.Group != "" {
				label = item.Group + " > " + label
			}
			fmt.Fprintf(&sb, "%-24s %s\n", item.Action, label)
		}
		return strings.TrimRight(sb.String(), "\n"), nil

	case "do":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: do ACTION")
		}
		if !ctl.Do(trigger.Action(args[0])) {
			return "", fmt.Errorf("action %q not available", args[0])
		}
		return a.describe(), nil

	case "play":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: play ID")
		}
		if !ctl.Do(trigger.PlayAction(pet.AnimationID(args[0]))) {
			return "", fmt.Errorf("animation %q not available", args[0])
		}
		return a.describe(), nil

	case "sleep":
		if !a.scheduler.Sleep(pet.AnimSleep) {
			return "", fmt.Errorf("cannot sleep now")
		}
		return a.describe(), nil

	case "wake":
		if !a.scheduler.Wake() {
			return "", fmt.Errorf("not sleeping")
		}
		return a.describe(), nil

	case "status":
		return a.describe(), nil

	case "quit":
		ctl.Do(trigger.ActionQuit)
		return "bye", nil
	}
	return "", fmt.Errorf("unknown command %q", fields[0])
}

// origin is a point on the pet, or the zero point when nothing places it.
func (a *App) origin() image.Point {
	if a.mover == nil {
		return image.Point{}
	}
	return a.mover.Position()
}

func (a *App) describe() string {
	s := a.scheduler
	size := s.Size()
	active := string(s.Active())
	if active == "" {
		active = "-"
	}
	return fmt.Sprintf("mode=%s active=%s size=%dx%d conditions=%s",
		s.Mode(), active, size.Width, size.Height,
		conditions.FormatConditions(a.status.Last().AllOrdered))
}
