// Package monitor watches one keyboard indicator and hands its state changes
// to a consumer through a Queue.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rkmax/keyboard-mate/internal/device"
	"github.com/rkmax/keyboard-mate/internal/indicator"
	"github.com/rkmax/keyboard-mate/internal/inject"
)

// Defaults for optional settings.
const (
	DefaultPollTimeout = 50 * time.Millisecond
	DefaultSettleDelay = 100 * time.Millisecond
	DefaultWarmup      = 250 * time.Millisecond
)

var (
	// ErrDeviceRead is reported when the monitored device fails mid-loop,
	// typically because it was unplugged.
	ErrDeviceRead = errors.New("input device read failed")

	ErrAlreadyStarted = errors.New("monitor already started")
	ErrStopped        = errors.New("monitor stopped")
)

// Option configures a Monitor.
type Option func(*Monitor)

// WithSource sets where input devices are enumerated from.
func WithSource(src device.Source) Option {
	return func(m *Monitor) { m.source = src }
}

// WithInjector sets the injector used to reach the initial state. The
// Monitor closes it when it stops.
func WithInjector(inj inject.Injector) Option {
	return func(m *Monitor) { m.injector = inj }
}

// WithInitialState makes the Monitor toggle the indicator once at startup
// if it is not already in state on.
func WithInitialState(on bool) Option {
	return func(m *Monitor) { m.desired = &on }
}

// WithPollTimeout bounds each event wait, and therefore how long Stop can
// take to be observed.
func WithPollTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.pollTimeout = d
		}
	}
}

// WithSettleDelay sets how long to wait after an injected toggle before the
// baseline read.
func WithSettleDelay(d time.Duration) Option {
	return func(m *Monitor) {
		if d >= 0 {
			m.settleDelay = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithErrorHandler registers fn to receive every reported error, once each.
// fn runs on the monitor goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Monitor) { m.onError = fn }
}

// Monitor tracks one indicator on the first LED-capable input device.
type Monitor struct {
	kind        indicator.Kind
	source      device.Source
	injector    inject.Injector
	desired     *bool
	pollTimeout time.Duration
	settleDelay time.Duration
	logger      *slog.Logger
	onError     func(error)

	queue Queue

	mu     sync.Mutex
	state  Lifecycle
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	path   string
}

// New returns a Monitor in the Created state.
func New(kind indicator.Kind, opts ...Option) *Monitor {
	m := &Monitor{
		kind:        kind,
		pollTimeout: DefaultPollTimeout,
		settleDelay: DefaultSettleDelay,
		logger:      slog.Default(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.source == nil {
		m.source = device.New()
	}
	if m.desired != nil && m.injector == nil {
		m.injector = inject.NewUinput(DefaultWarmup)
	}
	m.logger = m.logger.With("kind", kind.String())
	return m
}

// Kind returns the watched indicator.
func (m *Monitor) Kind() indicator.Kind {
	return m.kind
}

// Start launches the monitor goroutine.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Running, StopRequested:
		return ErrAlreadyStarted
	case Stopped:
		return ErrStopped
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.state = Running
	go m.run(ctx)
	return nil
}

// Stop requests the monitor goroutine to exit and waits until it has,
// including releasing the device. Calling Stop again is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	switch m.state {
	case Created:
		m.state = Stopped
		close(m.done)
		m.mu.Unlock()
		return
	case Running:
		m.state = StopRequested
		m.cancel()
	}
	m.mu.Unlock()

	<-m.done
}

// Done is closed once the monitor reaches Stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// State returns the current lifecycle state.
func (m *Monitor) State() Lifecycle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the error that ended monitoring, if any.
func (m *Monitor) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Device returns the path of the monitored device, or "" before selection.
func (m *Monitor) Device() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// DrainAll returns every state pushed since the previous call, oldest
// first. It never blocks.
func (m *Monitor) DrainAll() []bool {
	return m.queue.DrainAll()
}

func (m *Monitor) run(ctx context.Context) {
	err := m.watch(ctx)

	if m.injector != nil {
		if cerr := m.injector.Close(); cerr != nil {
			m.logger.Warn("close injector", "err", cerr)
		}
	}
	if err != nil {
		m.report(err)
	}

	m.mu.Lock()
	m.err = err
	m.state = Stopped
	m.cancel()
	m.mu.Unlock()

	close(m.done)
}

func (m *Monitor) watch(ctx context.Context) error {
	h, err := device.Select(m.source)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			m.logger.Warn("close device", "device", h.Path(), "err", cerr)
		}
	}()

	m.mu.Lock()
	m.path = h.Path()
	m.mu.Unlock()
	m.logger.Info("monitoring device", "device", h.Path(), "name", h.Name())

	if m.desired != nil {
		if err := m.reconcile(ctx, h); err != nil {
			if !errors.Is(err, inject.ErrInjection) {
				return err
			}
			m.report(err)
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := m.pushState(h); err != nil {
		return err
	}

	led := m.kind.LED()
	for {
		if ctx.Err() != nil {
			return nil
		}
		ev, ok, err := h.NextEvent(m.pollTimeout)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDeviceRead, h.Path(), err)
		}
		if ctx.Err() != nil {
			return nil
		}
		if !ok || !ev.IsLED(led) {
			continue
		}
		if err := m.pushState(h); err != nil {
			return err
		}
	}
}

// reconcile toggles the indicator once if it differs from the desired state.
// The outcome is not re-checked.
func (m *Monitor) reconcile(ctx context.Context, h device.Handle) error {
	current, err := device.ReadState(h, m.kind)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceRead, err)
	}
	if current == *m.desired {
		m.logger.Debug("indicator already in initial state", "state", current)
		return nil
	}

	m.logger.Info("toggling indicator to initial state", "from", current, "to", *m.desired)
	if err := m.injector.Toggle(ctx, m.kind); err != nil {
		if !errors.Is(err, inject.ErrInjection) {
			err = fmt.Errorf("%w: %v", inject.ErrInjection, err)
		}
		return err
	}

	if m.settleDelay > 0 {
		timer := time.NewTimer(m.settleDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
	return nil
}

func (m *Monitor) pushState(h device.Handle) error {
	on, err := device.ReadState(h, m.kind)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceRead, err)
	}
	m.queue.Push(on)
	m.logger.Debug("indicator state", "state", on)
	return nil
}

func (m *Monitor) report(err error) {
	m.logger.Error("indicator monitor", "err", err)
	if m.onError != nil {
		m.onError(err)
	}
}
