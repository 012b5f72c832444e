package notify

import (
	"testing"

	"github.com/rkmax/keyboard-mate/internal/indicator"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		kind        indicator.Kind
		on          bool
		wantSummary string
	}{
		{indicator.Caps, true, "Caps Lock on"},
		{indicator.Caps, false, "Caps Lock off"},
		{indicator.Num, true, "Num Lock on"},
		{indicator.Num, false, "Num Lock off"},
	}

	for _, tt := range tests {
		summary, body := Message(tt.kind, tt.on)
		if summary != tt.wantSummary {
			t.Errorf("Message(%v, %v) summary = %q, want %q", tt.kind, tt.on, summary, tt.wantSummary)
		}
		if body == "" {
			t.Errorf("Message(%v, %v) body is empty", tt.kind, tt.on)
		}
	}
}
