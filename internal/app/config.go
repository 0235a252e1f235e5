package app

import (
	"errors"
	"fmt"
	"time"
)

// Run modes accepted by the -mode flag.
const (
	ModeServe = "serve"
	ModeProbe = "probe"
)

// DefaultAddr is the serve-mode listen address used when neither the -addr
// flag nor the config file sets one.
const DefaultAddr = ":3000"

// DefaultEvent is the event name probe mode waits for by default.
const DefaultEvent = "welcome"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mode string

	// Serve mode.
	Addr            string
	Root            string
	Mounts          []string
	Extras          []any
	ConfigPath      string
	ContinueOnError bool
	HealthcheckPort int

	// Probe mode.
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
	Insecure  bool

	// Shared.
	Verbose   bool
	LogFormat string
	LogLevel  string
}

// NewConfig validates the mode-specific required fields and returns the
// config. Flag syntax errors are the CLI layer's job; this only checks that
// the chosen mode has enough to work with.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Mode {
	case ModeServe:
		if len(cfg.Mounts) == 0 && cfg.ConfigPath == "" {
			return nil, errors.New("serve mode requires at least one mount directory or a config file")
		}
	case ModeProbe:
		if cfg.URL == "" {
			return nil, errors.New("probe mode requires a target URL")
		}
	default:
		return nil, fmt.Errorf("unknown mode %q: must be %q or %q", cfg.Mode, ModeServe, ModeProbe)
	}

	return &cfg, nil
}
