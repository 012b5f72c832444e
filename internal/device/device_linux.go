//go:build linux

package device

import (
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// eventBuffer bounds how many events the pump reads ahead of the consumer.
const eventBuffer = 64

type linuxSource struct{}

// New returns a Source backed by /dev/input.
func New() Source {
	return linuxSource{}
}

func (linuxSource) Paths() ([]string, error) {
	inputs, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		paths = append(paths, in.Path)
	}
	return paths, nil
}

func (linuxSource) Open(path string) (Handle, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	name, err := dev.Name()
	if err != nil {
		name = ""
	}
	return &linuxHandle{
		dev:    dev,
		path:   path,
		name:   name,
		events: make(chan Event, eventBuffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// linuxHandle wraps a go-evdev device. ReadOne blocks without a deadline, so
// a pump goroutine forwards events and NextEvent waits on the channel with a
// timer.
type linuxHandle struct {
	dev  *evdev.InputDevice
	path string
	name string

	startOnce sync.Once
	started   bool
	closeOnce sync.Once

	events chan Event
	quit   chan struct{}
	done   chan struct{}
	err    error // set by pump before events is closed
}

func (h *linuxHandle) Path() string { return h.path }
func (h *linuxHandle) Name() string { return h.name }

func (h *linuxHandle) Capabilities() []evdev.EvType {
	return h.dev.CapableTypes()
}

func (h *linuxHandle) LEDs() (evdev.StateMap, error) {
	return h.dev.State(evdev.EV_LED)
}

func (h *linuxHandle) NextEvent(timeout time.Duration) (Event, bool, error) {
	h.startOnce.Do(func() {
		h.started = true
		go h.pump()
	})

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-h.events:
		if !ok {
			return Event{}, false, h.err
		}
		return ev, true, nil
	case <-timer.C:
		return Event{}, false, nil
	}
}

func (h *linuxHandle) pump() {
	defer close(h.done)
	defer close(h.events)

	for {
		ev, err := h.dev.ReadOne()
		if err != nil {
			h.err = err
			return
		}
		select {
		case h.events <- Event{Type: ev.Type, Code: ev.Code, Value: ev.Value}:
		case <-h.quit:
			return
		}
	}
}

// Close revokes the file descriptor so a pump blocked in ReadOne returns,
// waits for it, then closes the device.
func (h *linuxHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.quit)
		if h.started {
			if rerr := h.dev.Revoke(); rerr == nil {
				<-h.done
			}
		}
		err = h.dev.Close()
	})
	return err
}
