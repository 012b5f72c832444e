// Package indicator maps toggleable keyboard indicators to their evdev codes.
package indicator

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// Kind identifies a lock indicator.
type Kind int

const (
	Caps Kind = iota
	Num
)

// entry describes how one Kind is represented by the input subsystem.
type entry struct {
	name    string
	label   string
	led     evdev.EvCode
	key     evdev.EvCode
	aliases []string
}

// table is built once and never mutated.
var table = [...]entry{
	Caps: {
		name:    "caps",
		label:   "CAPS",
		led:     evdev.LED_CAPSL,
		key:     evdev.KEY_CAPSLOCK,
		aliases: []string{"caps", "capslock", "caps_lock"},
	},
	Num: {
		name:    "nums",
		label:   "NUM",
		led:     evdev.LED_NUML,
		key:     evdev.KEY_NUMLOCK,
		aliases: []string{"nums", "num", "numlock", "num_lock"},
	},
}

// Kinds returns every supported indicator in table order.
func Kinds() []Kind {
	kinds := make([]Kind, len(table))
	for i := range table {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Parse resolves a user supplied name such as "caps" or "nums".
func Parse(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, sp := range table {
		for _, alias := range sp.aliases {
			if name == alias {
				return Kind(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown indicator %q (want caps or nums)", s)
}

// Valid reports whether k is present in the table.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(table)
}

// String returns the canonical CLI name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("indicator(%d)", int(k))
	}
	return table[k].name
}

// Label returns a short upper-case label for display.
func (k Kind) Label() string {
	if !k.Valid() {
		return "?"
	}
	return table[k].label
}

// LED returns the EV_LED code reporting this indicator.
func (k Kind) LED() evdev.EvCode {
	return table[k].led
}

// Key returns the EV_KEY code of the physical toggle key.
func (k Kind) Key() evdev.EvCode {
	return table[k].key
}

// Keys returns the toggle key codes of every indicator.
func Keys() []evdev.EvCode {
	keys := make([]evdev.EvCode, len(table))
	for i, sp := range table {
		keys[i] = sp.key
	}
	return keys
}

// UnmarshalText lets Kind be decoded from config files.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText encodes the canonical name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid indicator %d", int(k))
	}
	return []byte(k.String()), nil
}
