package pet

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type AnimationID string

const (
	AnimMain        AnimationID = "main"
	AnimBlink       AnimationID = "blink"
	AnimAnger       AnimationID = "anger"
	AnimWalkAway    AnimationID = "walk-away"
	AnimSleep       AnimationID = "sleep"
	AnimHeixiu      AnimationID = "heixiu"
	AnimHeixiuSleep AnimationID = "heixiu-sleep"
	AnimDrinkMilk   AnimationID = "drink-milk"
	AnimConfused    AnimationID = "confused"
	AnimEatBurger   AnimationID = "eat-burger"
	AnimEatChicken  AnimationID = "eat-chicken"
	AnimShake       AnimationID = "shake"
	AnimRoll        AnimationID = "roll"
	AnimGuitar      AnimationID = "guitar"
	AnimPlayHeixiu  AnimationID = "play-heixiu"
	AnimBurp        AnimationID = "burp"
	AnimAnxiety     AnimationID = "anxiety"
	AnimLeftWalk    AnimationID = "left-walk"
	AnimRightWalk   AnimationID = "right-walk"
	AnimSit         AnimationID = "sit"
)

// Priority orders animations; a higher value preempts a lower one.
type Priority int

const (
	PriorityIdle        Priority = 0
	PriorityBackground  Priority = 10
	PriorityInteraction Priority = 20
	PrioritySpecial     Priority = 30
	PrioritySystem      Priority = 40
	PriorityForce       Priority = 50
)

var priorityNames = map[Priority]string{
	PriorityIdle:        "idle",
	PriorityBackground:  "background",
	PriorityInteraction: "interaction",
	PrioritySpecial:     "special",
	PrioritySystem:      "system",
	PriorityForce:       "force",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParsePriority accepts the lowercase level names used in manifests.
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// LoopForever marks a descriptor that never finishes on its own.
const LoopForever = -1

// Descriptor is the immutable configuration of one animation.
type Descriptor struct {
	ID            AnimationID
	Folder        string
	Frames        int
	Interval      time.Duration
	Loops         int
	Sound         string
	Priority      Priority
	Interruptible bool
	SizeScale     float64
	OnComplete    string // hook name, resolved by the scheduler
}

func (d Descriptor) HasAudio() bool {
	return d.Sound != ""
}

func (d Descriptor) Forever() bool {
	return d.Loops == LoopForever
}

func (d Descriptor) Validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("descriptor has no id")
	case d.Folder == "":
		return fmt.Errorf("%s: folder is required", d.ID)
	case d.Frames <= 0:
		return fmt.Errorf("%s: frames must be positive, got %d", d.ID, d.Frames)
	case d.Interval <= 0:
		return fmt.Errorf("%s: interval must be positive, got %s", d.ID, d.Interval)
	case d.Loops <= 0 && d.Loops != LoopForever:
		return fmt.Errorf("%s: loops must be positive or %d, got %d", d.ID, LoopForever, d.Loops)
	case d.SizeScale <= 0:
		return fmt.Errorf("%s: size scale must be positive, got %v", d.ID, d.SizeScale)
	}
	return nil
}

// Catalog maps animation ids to descriptors. It is built once and never
// mutated afterwards.
type Catalog struct {
	byID map[AnimationID]Descriptor
}

func NewCatalog(descs []Descriptor) (*Catalog, error) {
	c := &Catalog{byID: make(map[AnimationID]Descriptor, len(descs))}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate descriptor %q", d.ID)
		}
		c.byID[d.ID] = d
	}
	return c, nil
}

func (c *Catalog) Lookup(id AnimationID) (Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// IDs returns every id in the catalog, sorted.
func (c *Catalog) IDs() []AnimationID {
	ids := make([]AnimationID, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge returns a new catalog where overrides replace descriptors with the
// same id and add new ones.
func (c *Catalog) Merge(overrides []Descriptor) (*Catalog, error) {
	merged := make(map[AnimationID]Descriptor, len(c.byID)+len(overrides))
	for id, d := range c.byID {
		merged[id] = d
	}
	for _, d := range overrides {
		merged[d.ID] = d
	}
	descs := make([]Descriptor, 0, len(merged))
	for _, d := range merged {
		descs = append(descs, d)
	}
	return NewCatalog(descs)
}

// PreloadIDs are warmed at startup so their first frame shows without a
// decode.
var PreloadIDs = []AnimationID{AnimMain, AnimBlink, AnimSleep, AnimAnger, AnimAnxiety}

func DefaultDescriptors() []Descriptor {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return []Descriptor{
		{ID: AnimMain, Folder: "xiaoheichuchang2", Frames: 34, Interval: ms(100), Loops: 1, Priority: PriorityIdle, Interruptible: true, SizeScale: 1},
		{ID: AnimBlink, Folder: "zhayan", Frames: 2, Interval: ms(100), Loops: 1, Priority: PriorityBackground, Interruptible: true, SizeScale: 1},
		{ID: AnimAnger, Folder: "shengqi", Frames: 2, Interval: ms(100), Loops: 3, Priority: PrioritySpecial, Interruptible: false, SizeScale: 1},
		{ID: AnimWalkAway, Folder: "zoukai", Frames: 20, Interval: ms(100), Loops: 1, Priority: PrioritySpecial, Interruptible: false, SizeScale: 1},
		{ID: AnimSleep, Folder: "shuijiao", Frames: 1, Interval: ms(100), Loops: 1, Priority: PrioritySystem, Interruptible: false, SizeScale: 1},
		{ID: AnimHeixiu, Folder: "heixiu", Frames: 39, Interval: ms(33), Loops: 1, Sound: "heixiu.mp3", Priority: PriorityInteraction, Interruptible: true, SizeScale: 0.5},
		{ID: AnimHeixiuSleep, Folder: "heixiushuijiao", Frames: 1, Interval: ms(100), Loops: 1, Priority: PrioritySystem, Interruptible: false, SizeScale: 1},
		{ID: AnimDrinkMilk, Folder: "henai", Frames: 163, Interval: ms(33), Loops: 3, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimConfused, Folder: "yihuo", Frames: 39, Interval: ms(33), Loops: 1, Sound: "yihuo.mp3", Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimEatBurger, Folder: "chihanbao", Frames: 112, Interval: ms(33), Loops: 3, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimEatChicken, Folder: "chijitui", Frames: 45, Interval: ms(33), Loops: 3, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimShake, Folder: "yao", Frames: 28, Interval: ms(33), Loops: 1, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimRoll, Folder: "gun1", Frames: 118, Interval: ms(33), Loops: 1, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1.5},
		{ID: AnimGuitar, Folder: "tanjita", Frames: 30, Interval: ms(33), Loops: 3, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimPlayHeixiu, Folder: "wanheixiu", Frames: 33, Interval: ms(33), Loops: 3, Priority: PriorityInteraction, Interruptible: true, SizeScale: 1},
		{ID: AnimBurp, Folder: "dage1", Frames: 45, Interval: ms(33), Loops: 1, Priority: PriorityInteraction, Interruptible: false, SizeScale: 1},
		{ID: AnimAnxiety, Folder: "jiaolv", Frames: 2, Interval: ms(100), Loops: LoopForever, Priority: PrioritySystem, Interruptible: false, SizeScale: 1},
		{ID: AnimLeftWalk, Folder: "left_walk", Frames: 30, Interval: ms(33), Loops: LoopForever, Priority: PrioritySpecial, Interruptible: true, SizeScale: 1},
		{ID: AnimRightWalk, Folder: "right_walk", Frames: 30, Interval: ms(33), Loops: LoopForever, Priority: PrioritySpecial, Interruptible: true, SizeScale: 1},
		{ID: AnimSit, Folder: "sit", Frames: 1, Interval: ms(100), Loops: LoopForever, Priority: PrioritySpecial, Interruptible: true, SizeScale: 1},
	}
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDescriptors())
	if err != nil {
		// the built-in table is static
		panic(err)
	}
	return c
}
