package indicator

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"caps", Caps},
		{"CAPS", Caps},
		{" capslock ", Caps},
		{"nums", Num},
		{"num", Num},
		{"NumLock", Num},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, input := range []string{"", "scroll", "capsnum"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) expected error", input)
		}
	}
}

func TestTable(t *testing.T) {
	if Caps.LED() != evdev.LED_CAPSL || Caps.Key() != evdev.KEY_CAPSLOCK {
		t.Errorf("caps maps to led=%d key=%d", Caps.LED(), Caps.Key())
	}
	if Num.LED() != evdev.LED_NUML || Num.Key() != evdev.KEY_NUMLOCK {
		t.Errorf("nums maps to led=%d key=%d", Num.LED(), Num.Key())
	}
	if Caps.String() != "caps" || Num.String() != "nums" {
		t.Errorf("names = %q, %q", Caps.String(), Num.String())
	}
}

func TestKeys_ReturnsCopy(t *testing.T) {
	keys := Keys()
	if len(keys) != len(Kinds()) {
		t.Fatalf("len(Keys()) = %d, want %d", len(keys), len(Kinds()))
	}
	keys[0] = 0
	if Caps.Key() != evdev.KEY_CAPSLOCK {
		t.Error("mutating Keys() result changed the table")
	}
}

func TestInvalidKind(t *testing.T) {
	k := Kind(42)
	if k.Valid() {
		t.Error("Kind(42) should be invalid")
	}
	if _, err := k.MarshalText(); err == nil {
		t.Error("MarshalText on invalid kind should fail")
	}
}

func TestUnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("nums")); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if k != Num {
		t.Errorf("got %v, want nums", k)
	}
	if err := k.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for bogus indicator")
	}
}
