package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rkmax/keyboard-mate/internal/indicator"
	"github.com/rkmax/keyboard-mate/internal/inject"
	"github.com/rkmax/keyboard-mate/internal/logging"
)

// Duration wraps time.Duration for TOML string parsing.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config represents the complete kbmate configuration.
type Config struct {
	Indicator IndicatorConfig `toml:"indicator"`
	Monitor   MonitorConfig   `toml:"monitor"`
	Injector  InjectorConfig  `toml:"injector"`
	Presenter PresenterConfig `toml:"presenter"`
	Log       LogConfig       `toml:"log"`
}

// IndicatorConfig selects what to watch and the optional startup state.
type IndicatorConfig struct {
	Kind indicator.Kind `toml:"kind"`
	// ForceInitialState is nil when the indicator should be left alone.
	ForceInitialState *bool `toml:"force_initial_state"`
}

// MonitorConfig tunes the event loop.
type MonitorConfig struct {
	PollTimeout Duration `toml:"poll_timeout"`
	SettleDelay Duration `toml:"settle_delay"`
}

// InjectorConfig selects how key presses are synthesized.
type InjectorConfig struct {
	Backend string   `toml:"backend"`
	Warmup  Duration `toml:"warmup"`
}

// PresenterConfig controls how state is shown.
type PresenterConfig struct {
	TickInterval Duration `toml:"tick_interval"`
	History      int      `toml:"history"`
	Notify       bool     `toml:"notify"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// DefaultPath returns the default config file path following XDG conventions.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kbmate", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kbmate", "config.toml"), nil
}

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a config file from the given path.
// If path is empty, the default XDG path is used and a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Monitor.PollTimeout == 0 {
		cfg.Monitor.PollTimeout = DefaultPollTimeout
	}
	if cfg.Monitor.SettleDelay == 0 {
		cfg.Monitor.SettleDelay = DefaultSettleDelay
	}
	if cfg.Injector.Backend == "" {
		cfg.Injector.Backend = DefaultBackend
	}
	if cfg.Injector.Warmup == 0 {
		cfg.Injector.Warmup = DefaultWarmup
	}
	if cfg.Presenter.TickInterval == 0 {
		cfg.Presenter.TickInterval = DefaultTickInterval
	}
	if cfg.Presenter.History == 0 {
		cfg.Presenter.History = DefaultHistory
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate checks field values, reporting every problem at once.
func (cfg *Config) Validate() error {
	var errs []error

	if !cfg.Indicator.Kind.Valid() {
		errs = append(errs, fmt.Errorf("indicator.kind %d is not supported", int(cfg.Indicator.Kind)))
	}
	if cfg.Monitor.PollTimeout < 0 {
		errs = append(errs, errors.New("monitor.poll_timeout must be positive"))
	}
	if cfg.Monitor.SettleDelay < 0 {
		errs = append(errs, errors.New("monitor.settle_delay must not be negative"))
	}
	if !slices.Contains(inject.Backends(), cfg.Injector.Backend) {
		errs = append(errs, fmt.Errorf("injector.backend %q is not one of %v", cfg.Injector.Backend, inject.Backends()))
	}
	if cfg.Injector.Warmup < 0 {
		errs = append(errs, errors.New("injector.warmup must not be negative"))
	}
	if cfg.Presenter.TickInterval < 0 {
		errs = append(errs, errors.New("presenter.tick_interval must be positive"))
	}
	if cfg.Presenter.History < 0 {
		errs = append(errs, errors.New("presenter.history must not be negative"))
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(cfg.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
