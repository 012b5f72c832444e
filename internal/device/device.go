// Package device finds the input device that reports keyboard LEDs and reads
// indicator state from it.
package device

import (
	"errors"
	"fmt"
	"slices"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rkmax/keyboard-mate/internal/indicator"
)

// ErrNotFound is returned when no input device advertises EV_LED.
var ErrNotFound = errors.New("no input device with LED capability")

// Event is one raw input event read from a device.
type Event struct {
	Type  evdev.EvType
	Code  evdev.EvCode
	Value int32
}

// IsLED reports whether e is an EV_LED change for the given LED code.
func (e Event) IsLED(code evdev.EvCode) bool {
	return e.Type == evdev.EV_LED && e.Code == code
}

// Handle is an opened input device.
type Handle interface {
	Path() string
	Name() string
	// Capabilities lists the event types the device can emit.
	Capabilities() []evdev.EvType
	// LEDs returns the currently lit LEDs.
	LEDs() (evdev.StateMap, error)
	// NextEvent waits at most timeout for the next event. It returns
	// ok=false when the timeout elapses without an event.
	NextEvent(timeout time.Duration) (ev Event, ok bool, err error)
	Close() error
}

// Source enumerates and opens input devices.
type Source interface {
	// Paths lists device nodes in enumeration order.
	Paths() ([]string, error)
	Open(path string) (Handle, error)
}

// Info describes one enumerated device.
type Info struct {
	Path     string
	Name     string
	HasLEDs  bool
	Selected bool
	Err      error
}

// HasLEDs reports whether h advertises EV_LED.
func HasLEDs(h Handle) bool {
	return slices.Contains(h.Capabilities(), evdev.EV_LED)
}

// Select returns the first device, in enumeration order, that advertises LED
// capability. Every other device it opened is closed again. The returned
// handle belongs to the caller.
func Select(src Source) (Handle, error) {
	paths, err := src.Paths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	skipped := 0
	for _, p := range paths {
		h, err := src.Open(p)
		if err != nil {
			skipped++
			continue
		}
		if HasLEDs(h) {
			return h, nil
		}
		h.Close()
	}

	if skipped > 0 {
		return nil, fmt.Errorf("%w (%d of %d devices could not be opened, is the user in the 'input' group?)",
			ErrNotFound, skipped, len(paths))
	}
	return nil, ErrNotFound
}

// List opens every device once and reports its LED capability. The device
// Select would pick is marked Selected.
func List(src Source) ([]Info, error) {
	paths, err := src.Paths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	infos := make([]Info, 0, len(paths))
	selected := false
	for _, p := range paths {
		info := Info{Path: p}
		h, err := src.Open(p)
		if err != nil {
			info.Err = err
			infos = append(infos, info)
			continue
		}
		info.Name = h.Name()
		info.HasLEDs = HasLEDs(h)
		if info.HasLEDs && !selected {
			info.Selected = true
			selected = true
		}
		h.Close()
		infos = append(infos, info)
	}
	return infos, nil
}

// ReadState reports whether the LED mapped to kind is lit on h.
func ReadState(h Handle, kind indicator.Kind) (bool, error) {
	leds, err := h.LEDs()
	if err != nil {
		return false, fmt.Errorf("read LED state of %s: %w", h.Path(), err)
	}
	return leds[kind.LED()], nil
}
