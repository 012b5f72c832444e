// Package inject synthesizes lock-key presses on a virtual input device.
package inject

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rkmax/keyboard-mate/internal/indicator"
)

// ErrInjection wraps every failure to create the virtual device or emit
// events through it.
var ErrInjection = errors.New("key injection failed")

// Injector toggles an indicator by pressing and releasing its key. Each
// call flips the state; it never sets it.
type Injector interface {
	Toggle(ctx context.Context, kind indicator.Kind) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendUinput = "uinput"
	BackendKeybd  = "keybd"
)

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendUinput, BackendKeybd}
}

// New returns the injector for the named backend. warmup is how long to
// wait after creating the virtual device before the first key press, so the
// desktop has time to pick it up.
func New(backend string, warmup time.Duration) (Injector, error) {
	switch backend {
	case "", BackendUinput:
		return NewUinput(warmup), nil
	case BackendKeybd:
		return NewKeybd(warmup), nil
	default:
		return nil, fmt.Errorf("unknown injector backend %q", backend)
	}
}

func injectionError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInjection, op, err)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
