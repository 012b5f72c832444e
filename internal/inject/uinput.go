package inject

import (
	"context"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rkmax/keyboard-mate/internal/indicator"
)

const virtualDeviceName = "kbmate virtual keyboard"

// BUS_VIRTUAL from linux/input.h.
const busVirtual = 0x06

// eventWriter is the part of evdev.InputDevice used for injection.
type eventWriter interface {
	WriteOne(event *evdev.InputEvent) error
	Close() error
}

// Uinput injects keys through a uinput device created with go-evdev. The
// device is created on first use and reused until Close.
type Uinput struct {
	warmup time.Duration
	create func() (eventWriter, error)

	mu  sync.Mutex
	dev eventWriter
}

// NewUinput returns an injector backed by /dev/uinput.
func NewUinput(warmup time.Duration) *Uinput {
	return &Uinput{
		warmup: warmup,
		create: createVirtualKeyboard,
	}
}

func createVirtualKeyboard() (eventWriter, error) {
	id := evdev.InputID{
		BusType: busVirtual,
		Vendor:  0x1209,
		Product: 0x6b6d,
		Version: 1,
	}
	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: indicator.Keys(),
	}
	return evdev.CreateDevice(virtualDeviceName, id, caps)
}

// Toggle emits key-down, SYN_REPORT, key-up, SYN_REPORT for kind's key.
func (u *Uinput) Toggle(ctx context.Context, kind indicator.Kind) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.dev == nil {
		dev, err := u.create()
		if err != nil {
			return injectionError("create uinput device", err)
		}
		u.dev = dev
		if err := sleep(ctx, u.warmup); err != nil {
			return injectionError("wait for uinput device", err)
		}
	}

	key := kind.Key()
	for _, value := range []int32{1, 0} {
		if err := u.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_KEY, Code: key, Value: value}); err != nil {
			return injectionError("write key event", err)
		}
		if err := u.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}); err != nil {
			return injectionError("write sync event", err)
		}
	}
	return nil
}

// Close destroys the virtual device if one was created.
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.dev == nil {
		return nil
	}
	err := u.dev.Close()
	u.dev = nil
	return err
}
