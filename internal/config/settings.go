package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "POSTERINO_"

// Settings holds runtime options read from POSTERINO_* variables.
type Settings struct {
	// ConfigPath overrides the credential file location.
	// Env: POSTERINO_CONFIG
	ConfigPath string `env:"CONFIG"`

	// Timeout bounds each HTTP round trip.
	// Env: POSTERINO_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// Verbose enables debug logging.
	// Env: POSTERINO_VERBOSE
	Verbose bool `env:"VERBOSE"`

	// UserAgent is sent where the platform client allows it.
	// Env: POSTERINO_USER_AGENT
	UserAgent string `env:"USER_AGENT"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: envPrefix}); err != nil {
		return Settings{}, fmt.Errorf("error getting env configs: %w", err)
	}
	return s, nil
}
