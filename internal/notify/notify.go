// Package notify raises desktop notifications over the session D-Bus.
package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rkmax/keyboard-mate/internal/indicator"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall = busName + ".Notify"

	appName = "kbmate"
	icon    = "input-keyboard"
)

// expireMillis is how long a bubble stays visible.
const expireMillis int32 = 1500

// Notifier keeps a single bubble per process and replaces it on each call.
type Notifier struct {
	conn *dbus.Conn

	mu     sync.Mutex
	lastID uint32
}

// New connects to the session bus.
func New() (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	return &Notifier{conn: conn}, nil
}

// Message returns the summary and body shown for a state.
func Message(kind indicator.Kind, on bool) (summary, body string) {
	name := "Caps Lock"
	if kind == indicator.Num {
		name = "Num Lock"
	}
	if on {
		return name + " on", fmt.Sprintf("%s is active", name)
	}
	return name + " off", fmt.Sprintf("%s is inactive", name)
}

// Notify shows the state, replacing the previous bubble.
func (n *Notifier) Notify(kind indicator.Kind, on bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	summary, body := Message(kind, on)
	hints := map[string]dbus.Variant{
		"urgency":   dbus.MakeVariant(byte(0)),
		"transient": dbus.MakeVariant(true),
	}

	obj := n.conn.Object(busName, objectPath)
	var id uint32
	err := obj.Call(notifyCall, 0,
		appName, n.lastID, icon, summary, body, []string{}, hints, expireMillis,
	).Store(&id)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	n.lastID = id
	return nil
}

func (n *Notifier) Close() error {
	return n.conn.Close()
}
