package pet

import (
	"time"
)

// PetConfig is the behaviour configuration stored in pet.toml.
type PetConfig struct {
	Version  string `toml:"version"`
	Name     string `toml:"name"`
	AssetDir string `toml:"assetDir"`
	Manifest string `toml:"manifest,omitempty"` // optional assets.yaml, relative to the config dir
	LogLevel string `toml:"logLevel"`

	BaseSize Size `toml:"baseSize"`

	MainTick          time.Duration `toml:"mainTick"`
	BlinkPerMille     int           `toml:"blinkPerMille"`
	IdleCheckInterval time.Duration `toml:"idleCheckInterval"`
	IdleTimeout       time.Duration `toml:"idleTimeout"`

	StatusInterval time.Duration `toml:"statusInterval"`
	SampleTTL      time.Duration `toml:"sampleTTL"`
	LoadThreshold  float64       `toml:"loadThreshold"`
	LoadMode       string        `toml:"loadMode"` // max or average of cpu and gpu
	ForceSleepHour int           `toml:"forceSleepHour"`
	SleepHint      string        `toml:"sleepHint"`

	AngerClicks int           `toml:"angerClicks"`
	AngerWindow time.Duration `toml:"angerWindow"`
	ClickSlop   int           `toml:"clickSlop"` // max manhattan distance for a click

	RoamTick    time.Duration `toml:"roamTick"`
	RoamStep    int           `toml:"roamStep"`
	SitDuration time.Duration `toml:"sitDuration"`
	BurpPercent int           `toml:"burpPercent"`
}

// DefaultConfig mirrors the numbers the pet has always shipped with.
func DefaultConfig() PetConfig {
	return PetConfig{
		Version:           "1.0",
		Name:              "Xiaohei",
		AssetDir:          "assets",
		LogLevel:          "info",
		BaseSize:          Size{Width: 200, Height: 200},
		MainTick:          100 * time.Millisecond,
		BlinkPerMille:     5,
		IdleCheckInterval: time.Minute,
		IdleTimeout:       10 * time.Minute,
		StatusInterval:    3 * time.Second,
		SampleTTL:         2 * time.Second,
		LoadThreshold:     90,
		LoadMode:          "max",
		ForceSleepHour:    1,
		SleepHint:         "It's bedtime, Xiaohei is sleepy",
		AngerClicks:       15,
		AngerWindow:       10 * time.Second,
		ClickSlop:         5,
		RoamTick:          33 * time.Millisecond,
		RoamStep:          5,
		SitDuration:       5 * time.Minute,
		BurpPercent:       30,
	}
}

// Fill replaces unset fields with defaults so partially written files work.
// ForceSleepHour and BurpPercent keep an explicit 0 (midnight, never burp)
// and are only reset when out of range. A zero PetConfig becomes
// DefaultConfig.
func (c *PetConfig) Fill() {
	d := DefaultConfig()
	if *c == (PetConfig{}) {
		*c = d
		return
	}
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.AssetDir == "" {
		c.AssetDir = d.AssetDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.BaseSize.Empty() {
		c.BaseSize = d.BaseSize
	}
	if c.MainTick <= 0 {
		c.MainTick = d.MainTick
	}
	if c.BlinkPerMille <= 0 {
		c.BlinkPerMille = d.BlinkPerMille
	}
	if c.IdleCheckInterval <= 0 {
		c.IdleCheckInterval = d.IdleCheckInterval
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = d.StatusInterval
	}
	if c.SampleTTL <= 0 {
		c.SampleTTL = d.SampleTTL
	}
	if c.LoadThreshold <= 0 {
		c.LoadThreshold = d.LoadThreshold
	}
	if c.LoadMode == "" {
		c.LoadMode = d.LoadMode
	}
	if c.ForceSleepHour < 0 || c.ForceSleepHour > 23 {
		c.ForceSleepHour = d.ForceSleepHour
	}
	if c.SleepHint == "" {
		c.SleepHint = d.SleepHint
	}
	if c.AngerClicks <= 0 {
		c.AngerClicks = d.AngerClicks
	}
	if c.AngerWindow <= 0 {
		c.AngerWindow = d.AngerWindow
	}
	if c.ClickSlop <= 0 {
		c.ClickSlop = d.ClickSlop
	}
	if c.RoamTick <= 0 {
		c.RoamTick = d.RoamTick
	}
	if c.RoamStep <= 0 {
		c.RoamStep = d.RoamStep
	}
	if c.SitDuration <= 0 {
		c.SitDuration = d.SitDuration
	}
	if c.BurpPercent < 0 || c.BurpPercent > 100 {
		c.BurpPercent = d.BurpPercent
	}
}
