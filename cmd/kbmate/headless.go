package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rkmax/keyboard-mate/internal/indicator"
)

// stateDrainer is the part of the monitor the headless presenter uses.
type stateDrainer interface {
	DrainAll() []bool
	Done() <-chan struct{}
	Err() error
}

// stateSink receives every state the headless presenter prints.
type stateSink interface {
	Notify(kind indicator.Kind, on bool) error
}

type headlessConfig struct {
	kind     indicator.Kind
	interval time.Duration
	out      io.Writer
	sink     stateSink
	logger   *slog.Logger
}

// runHeadless drains src on every tick and prints the newest state when it
// differs from the last one printed. It returns when ctx is cancelled or
// the monitor stops on its own.
func runHeadless(ctx context.Context, src stateDrainer, cfg headlessConfig) error {
	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	var (
		printed bool
		last    bool
	)
	show := func() {
		states := src.DrainAll()
		if len(states) == 0 {
			return
		}
		on := states[len(states)-1]
		if printed && on == last {
			return
		}
		printed, last = true, on

		fmt.Fprintf(cfg.out, "%s: %s\n", cfg.kind, onOff(on))
		if cfg.sink != nil {
			if err := cfg.sink.Notify(cfg.kind, on); err != nil && cfg.logger != nil {
				cfg.logger.Warn("desktop notification failed", "err", err)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-src.Done():
			show()
			return src.Err()
		case <-ticker.C:
			show()
		}
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
