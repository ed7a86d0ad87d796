package trigger

import (
	"strings"

	"github.com/sethgrid/deskpet/internal/pet"
)

type Action string

const (
	ActionSpeedSlow   Action = "speed-slow"
	ActionSpeedNormal Action = "speed-normal"
	ActionSpeedFast   Action = "speed-fast"
	ActionRestart     Action = "restart"
	ActionFreeRoam    Action = "free-roam"
	ActionEndFreeRoam Action = "end-free-roam"
	ActionHeixiu      Action = "heixiu"
	ActionQuit        Action = "quit"

	playPrefix = "play:"
)

// PlayAction asks for an interaction animation.
func PlayAction(id pet.AnimationID) Action {
	return Action(playPrefix + string(id))
}

// MenuItem is one entry of the context menu. Group names a submenu; empty
// means top level.
type MenuItem struct {
	Label  string
	Action Action
	Group  string
}

const (
	GroupSpeed    = "Animation speed"
	GroupInteract = "Interactions"
)

// Interactions are the animations offered in the menu, in menu order.
var Interactions = []struct {
	ID    pet.AnimationID
	Label string
}{
	{pet.AnimDrinkMilk, "Drink milk"},
	{pet.AnimEatBurger, "Eat a burger"},
	{pet.AnimEatChicken, "Eat a drumstick"},
	{pet.AnimShake, "Shake"},
	{pet.AnimRoll, "Roll"},
	{pet.AnimGuitar, "Play guitar"},
	{pet.AnimPlayHeixiu, "Play with heixiu"},
}

// MenuItems builds the context menu for the current mode. While roaming
// only the way out is offered.
func (c *Controller) MenuItems() []MenuItem {
	if c.s.FreeRoaming() {
		return []MenuItem{
			{Label: "End free roam", Action: ActionEndFreeRoam},
			{Label: "Quit", Action: ActionQuit},
		}
	}

	items := []MenuItem{
		{Label: "Slow (200ms)", Action: ActionSpeedSlow, Group: GroupSpeed},
		{Label: "Normal (100ms)", Action: ActionSpeedNormal, Group: GroupSpeed},
		{Label: "Fast (50ms)", Action: ActionSpeedFast, Group: GroupSpeed},
		{Label: "Restart", Action: ActionRestart},
		{Label: "Free roam", Action: ActionFreeRoam},
	}
	if c.s.HeixiuMode() {
		items = append(items, MenuItem{Label: "Leave heixiu mode", Action: ActionHeixiu})
	} else {
		items = append(items, MenuItem{Label: "Enter heixiu mode", Action: ActionHeixiu})
		for _, in := range Interactions {
			items = append(items, MenuItem{Label: in.Label, Action: PlayAction(in.ID), Group: GroupInteract})
		}
	}
	return append(items, MenuItem{Label: "Quit", Action: ActionQuit})
}

// Do runs a menu action. It returns false for actions it does not know and
// for play actions the scheduler rejects.
func (c *Controller) Do(a Action) bool {
	if c.s.ForceSleeping() {
		return false
	}
	c.idle.Touch(c.clock.Now())

	switch a {
	case ActionSpeedSlow:
		c.blink.SetTick(TickSlow)
	case ActionSpeedNormal:
		c.blink.SetTick(TickNormal)
	case ActionSpeedFast:
		c.blink.SetTick(TickFast)
	case ActionRestart:
		c.s.Restart()
		c.blink.SetTick(c.tick)
	case ActionFreeRoam:
		c.s.StartFreeRoam()
	case ActionEndFreeRoam:
		c.s.EndFreeRoam()
	case ActionHeixiu:
		c.s.SetHeixiuMode(!c.s.HeixiuMode())
	case ActionQuit:
		if c.OnQuit != nil {
			c.OnQuit()
		}
	default:
		id, ok := strings.CutPrefix(string(a), playPrefix)
		if !ok {
			c.log.Warn("unknown menu action", "action", a)
			return false
		}
		if !c.s.Request(pet.AnimationID(id), false) {
			return false
		}
	}
	c.log.Debug("menu action", "action", a)
	return true
}
