package conditions

import (
	"strings"
	"time"
)

type Condition string

const (
	CondBedtime    Condition = "bedtime"
	CondOverloaded Condition = "overloaded"
	CondSleepy     Condition = "sleepy"
	CondRoaming    Condition = "roaming"
	CondBusy       Condition = "busy"
	CondCalm       Condition = "calm"
)

// Observation is what the status monitor sees on one tick.
type Observation struct {
	Now             time.Time
	Load            float64
	Peak            float64 // busiest single device; overload is judged on it too
	LastInteraction time.Time
	Sleeping        bool
	Roaming         bool
	Playing         bool
}

// Thresholds decide when an observation turns into a condition.
type Thresholds struct {
	ForceSleepHour int
	LoadThreshold  float64
	IdleTimeout    time.Duration
}

type DerivedStatus struct {
	Load       float64
	Conditions map[Condition]bool
	Primary    Condition
	AllOrdered []Condition
}

func (s DerivedStatus) Has(c Condition) bool {
	return s.Conditions[c]
}

// DeriveStatus lists the conditions that hold, in precedence order. Bedtime
// comes first: the clock gate is decided before load.
func DeriveStatus(obs Observation, th Thresholds) DerivedStatus {
	conds := make(map[Condition]bool)
	var allOrdered []Condition

	add := func(c Condition) {
		if conds[c] {
			return
		}
		conds[c] = true
		allOrdered = append(allOrdered, c)
	}

	// Priority 1: bedtime
	if obs.Now.Hour() == th.ForceSleepHour {
		add(CondBedtime)
	}

	// Priority 2: overloaded
	if obs.Load > th.LoadThreshold || obs.Peak > th.LoadThreshold {
		add(CondOverloaded)
	}

	// Priority 3: sleepy
	if obs.Sleeping || (!obs.LastInteraction.IsZero() && obs.Now.Sub(obs.LastInteraction) > th.IdleTimeout) {
		add(CondSleepy)
	}

	// Priority 4: roaming
	if obs.Roaming {
		add(CondRoaming)
	}

	// Priority 5: busy
	if obs.Playing && !obs.Roaming {
		add(CondBusy)
	}

	// Priority 6: calm when nothing else applies
	if len(allOrdered) == 0 {
		add(CondCalm)
	}

	return DerivedStatus{
		Load:       obs.Load,
		Conditions: conds,
		Primary:    allOrdered[0],
		AllOrdered: allOrdered,
	}
}

// FormatConditions joins conditions with commas. Returns "calm" if the slice
// is empty. Bedtime hides everything else except overloaded, which is
// appended as "and overloaded".
func FormatConditions(conds []Condition) string {
	if len(conds) == 0 {
		return string(CondCalm)
	}

	hasBedtime := false
	hasOverload := false
	for _, c := range conds {
		switch c {
		case CondBedtime:
			hasBedtime = true
		case CondOverloaded:
			hasOverload = true
		}
	}

	if hasBedtime {
		if hasOverload {
			return "bedtime and overloaded"
		}
		return "bedtime"
	}

	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}
