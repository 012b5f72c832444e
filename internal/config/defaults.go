package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default values for optional config fields.
const (
	DefaultPollTimeout  = Duration(50 * time.Millisecond)
	DefaultSettleDelay  = Duration(100 * time.Millisecond)
	DefaultBackend      = "uinput"
	DefaultWarmup       = Duration(250 * time.Millisecond)
	DefaultTickInterval = Duration(500 * time.Millisecond)
	DefaultHistory      = 8
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// ExampleConfig is the template for --init with documentation comments.
const ExampleConfig = `# kbmate configuration

[indicator]
# Which indicator to watch: "caps" or "nums"
kind = "caps"

# Optional: force the indicator on (true) or off (false) at startup.
# Leave unset to keep whatever state it is in.
# force_initial_state = false

[monitor]
# Longest wait for one input event; bounds how quickly a stop is noticed
poll_timeout = "50ms"

# Pause after an injected toggle before reading the baseline state
settle_delay = "100ms"

[injector]
# How key presses are synthesized: "uinput" or "keybd"
backend = "uinput"

# Time given to the desktop to pick up a freshly created virtual keyboard
warmup = "250ms"

[presenter]
# How often the presenter drains pending state changes
tick_interval = "500ms"

# Number of drained states kept on screen
history = 8

# Send a desktop notification on every change (headless mode)
notify = false

[log]
# debug, info, warn or error
level = "info"

# text or json
format = "text"

# Log file; empty logs to stderr, or to the state directory in TUI mode
file = ""
`

// GenerateExampleConfig writes the example config to the given path.
// If path is empty, it uses the default XDG path.
// Returns the path where the file was written.
func GenerateExampleConfig(path string) (string, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(ExampleConfig), 0644); err != nil {
		return "", fmt.Errorf("cannot write config file: %w", err)
	}

	return path, nil
}
