package storage

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sethgrid/deskpet/internal/pet"
)

// EnvOverrides are settings taken from the environment. Unset variables
// leave the file configuration alone.
type EnvOverrides struct {
	AssetDir       string        `env:"DESKPET_ASSET_DIR"`
	LogLevel       string        `env:"DESKPET_LOG_LEVEL"`
	ForceSleepHour *int          `env:"DESKPET_FORCE_SLEEP_HOUR"`
	IdleTimeout    time.Duration `env:"DESKPET_IDLE_TIMEOUT"`
	JSONLog        bool          `env:"DESKPET_JSON_LOG" envDefault:"false"`
}

func ParseEnv() (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return o, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

func (o EnvOverrides) Apply(config *pet.PetConfig) {
	if o.AssetDir != "" {
		config.AssetDir = o.AssetDir
	}
	if o.LogLevel != "" {
		config.LogLevel = o.LogLevel
	}
	if o.ForceSleepHour != nil {
		config.ForceSleepHour = *o.ForceSleepHour
	}
	if o.IdleTimeout > 0 {
		config.IdleTimeout = o.IdleTimeout
	}
	config.Fill()
}
