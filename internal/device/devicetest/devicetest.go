// Package devicetest provides in-memory input devices for tests.
package devicetest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rkmax/keyboard-mate/internal/device"
)

// ErrUnplugged is returned by a Handle after Unplug.
var ErrUnplugged = errors.New("device unplugged")

// Handle is a scripted device. Events are fed with Emit or SetLED and
// consumed through NextEvent.
type Handle struct {
	path string
	name string
	caps []evdev.EvType

	events chan device.Event

	mu     sync.Mutex
	leds   evdev.StateMap
	ledErr error
	gone   bool
	closed bool
	closes int
}

// NewHandle returns a device at path advertising the given event types.
func NewHandle(path string, caps ...evdev.EvType) *Handle {
	return &Handle{
		path:   path,
		name:   "fake " + path,
		caps:   caps,
		events: make(chan device.Event, 256),
		leds:   evdev.StateMap{},
	}
}

// NewKeyboard returns a device advertising EV_KEY and EV_LED.
func NewKeyboard(path string) *Handle {
	return NewHandle(path, evdev.EV_SYN, evdev.EV_KEY, evdev.EV_LED)
}

func (h *Handle) Path() string                 { return h.path }
func (h *Handle) Name() string                 { return h.name }
func (h *Handle) Capabilities() []evdev.EvType { return h.caps }

func (h *Handle) LEDs() (evdev.StateMap, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ledErr != nil {
		return nil, h.ledErr
	}
	if h.gone {
		return nil, ErrUnplugged
	}
	leds := make(evdev.StateMap, len(h.leds))
	for k, v := range h.leds {
		leds[k] = v
	}
	return leds, nil
}

func (h *Handle) NextEvent(timeout time.Duration) (device.Event, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-h.events:
		if !ok {
			return device.Event{}, false, ErrUnplugged
		}
		return ev, true, nil
	case <-timer.C:
		return device.Event{}, false, nil
	}
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes++
	h.closed = true
	return nil
}

// Closed reports whether Close was called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// CloseCount reports how many times Close was called.
func (h *Handle) CloseCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

// SetLEDQuiet changes the LED state without emitting an event.
func (h *Handle) SetLEDQuiet(code evdev.EvCode, on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leds[code] = on
}

// SetLED changes the LED state and emits the matching EV_LED event followed
// by a SYN_REPORT.
func (h *Handle) SetLED(code evdev.EvCode, on bool) {
	h.SetLEDQuiet(code, on)
	value := int32(0)
	if on {
		value = 1
	}
	h.Emit(device.Event{Type: evdev.EV_LED, Code: code, Value: value})
	h.Emit(device.Event{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT})
}

// Emit queues a raw event.
func (h *Handle) Emit(ev device.Event) {
	h.events <- ev
}

// FailLEDs makes subsequent LEDs calls return err.
func (h *Handle) FailLEDs(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ledErr = err
}

// Unplug simulates the device disappearing: pending events are still
// delivered, then NextEvent fails.
func (h *Handle) Unplug() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.gone {
		h.gone = true
		close(h.events)
	}
}

// Source serves a fixed set of handles in order.
type Source struct {
	mu      sync.Mutex
	order   []string
	handles map[string]*Handle
	denied  map[string]bool
	listErr error
	opened  []string
}

// NewSource returns a Source listing handles in the given order.
func NewSource(handles ...*Handle) *Source {
	s := &Source{
		handles: make(map[string]*Handle),
		denied:  make(map[string]bool),
	}
	for _, h := range handles {
		s.order = append(s.order, h.path)
		s.handles[h.path] = h
	}
	return s
}

// Deny makes Open fail for path, as if permission were missing.
func (s *Source) Deny(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[path]; !ok {
		s.order = append(s.order, path)
	}
	s.denied[path] = true
}

// FailList makes Paths return err.
func (s *Source) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// Opened returns every path passed to Open.
func (s *Source) Opened() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

func (s *Source) Paths() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]string(nil), s.order...), nil
}

func (s *Source) Open(path string) (device.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, path)
	if s.denied[path] {
		return nil, fmt.Errorf("open %s: permission denied", path)
	}
	h, ok := s.handles[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such device", path)
	}
	return h, nil
}
