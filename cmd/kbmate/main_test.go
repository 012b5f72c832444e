package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rkmax/keyboard-mate/internal/config"
	"github.com/rkmax/keyboard-mate/internal/device"
	"github.com/rkmax/keyboard-mate/internal/indicator"
)

func TestParseForce(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"on", true},
		{"ON", true},
		{"true", true},
		{"off", false},
		{"false", false},
		{"0", false},
	}
	for _, tt := range tests {
		got, err := parseForce(tt.input)
		if err != nil {
			t.Errorf("parseForce(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseForce(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if _, err := parseForce("maybe"); err == nil {
		t.Error("expected error for invalid force value")
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--force", "on", "--notify", "--log-level", "debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts := &options{force: "on", notify: true, logLevel: "debug"}

	cfg := config.Default()
	if err := applyFlags(cfg, cmd, opts, []string{"nums"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Indicator.Kind != indicator.Num {
		t.Errorf("kind = %v, want nums", cfg.Indicator.Kind)
	}
	if cfg.Indicator.ForceInitialState == nil || !*cfg.Indicator.ForceInitialState {
		t.Error("force_initial_state should be true")
	}
	if !cfg.Presenter.Notify {
		t.Error("notify should be enabled")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestApplyFlags_NoForceLeavesStateAlone(t *testing.T) {
	cmd := newRootCmd()
	cfg := config.Default()
	if err := applyFlags(cfg, cmd, &options{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Indicator.ForceInitialState != nil {
		t.Error("force_initial_state should stay unset")
	}
	if cfg.Indicator.Kind != indicator.Caps {
		t.Errorf("kind = %v, want caps default", cfg.Indicator.Kind)
	}
}

func TestApplyFlags_Invalid(t *testing.T) {
	cmd := newRootCmd()

	if err := applyFlags(config.Default(), cmd, &options{}, []string{"scroll"}); err == nil {
		t.Error("expected error for unknown indicator")
	}
	if err := applyFlags(config.Default(), cmd, &options{logLevel: "loud"}, nil); err == nil {
		t.Error("expected error for invalid log level")
	}
}

type fakeDrainer struct {
	mu      sync.Mutex
	pending []bool
	done    chan struct{}
	err     error
}

func newFakeDrainer() *fakeDrainer {
	return &fakeDrainer{done: make(chan struct{})}
}

func (f *fakeDrainer) push(states ...bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, states...)
}

func (f *fakeDrainer) DrainAll() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pending
	f.pending = nil
	return p
}

func (f *fakeDrainer) Done() <-chan struct{} { return f.done }
func (f *fakeDrainer) Err() error            { return f.err }

type recordingSink struct {
	mu    sync.Mutex
	calls []bool
}

func (r *recordingSink) Notify(kind indicator.Kind, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, on)
	return nil
}

// syncBuffer guards bytes.Buffer for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunHeadless_PrintsLastOfBatch(t *testing.T) {
	src := newFakeDrainer()
	out := &syncBuffer{}
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runHeadless(ctx, src, headlessConfig{
			kind:     indicator.Caps,
			interval: 5 * time.Millisecond,
			out:      out,
			sink:     sink,
		})
	}()

	src.push(false, true)
	waitForOutput(t, out, "caps: on\n")

	src.push(true)
	src.push(false)
	waitForOutput(t, out, "caps: on\ncaps: off\n")

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("runHeadless returned %v", err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.calls) != 2 || !sink.calls[0] || sink.calls[1] {
		t.Errorf("sink calls = %v, want [true false]", sink.calls)
	}
}

func TestRunHeadless_MonitorFailure(t *testing.T) {
	src := newFakeDrainer()
	src.err = device.ErrNotFound
	close(src.done)

	err := runHeadless(context.Background(), src, headlessConfig{
		kind:     indicator.Num,
		interval: time.Hour,
		out:      &bytes.Buffer{},
	})
	if !errors.Is(err, device.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if out.String() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("output = %q, want %q", out.String(), want)
}

func TestPrintDevices(t *testing.T) {
	var buf bytes.Buffer
	printDevices(&buf, []device.Info{
		{Path: "/dev/input/event0", Name: "Power Button"},
		{Path: "/dev/input/event3", Name: "AT Translated Set 2 keyboard", HasLEDs: true, Selected: true},
		{Path: "/dev/input/event9", Err: errors.New("permission denied")},
	})

	out := buf.String()
	for _, want := range []string{"/dev/input/event3", "AT Translated Set 2 keyboard", "selected", "permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDevices_Empty(t *testing.T) {
	var buf bytes.Buffer
	printDevices(&buf, nil)
	if !strings.Contains(buf.String(), "No input devices") {
		t.Errorf("output = %q", buf.String())
	}
}
