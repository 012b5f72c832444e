package inject

import (
	"context"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
	"github.com/rkmax/keyboard-mate/internal/indicator"
)

// keyLauncher is the part of keybd_event.KeyBonding used for injection.
type keyLauncher interface {
	SetKeys(keys ...int)
	Launching() error
	Clear()
}

// Keybd injects keys through micmonay/keybd_event, which drives its own
// uinput device on Linux.
type Keybd struct {
	warmup time.Duration
	create func() (keyLauncher, error)

	mu sync.Mutex
	kb keyLauncher
}

// NewKeybd returns an injector backed by keybd_event.
func NewKeybd(warmup time.Duration) *Keybd {
	return &Keybd{
		warmup: warmup,
		create: func() (keyLauncher, error) {
			kb, err := keybd_event.NewKeyBonding()
			if err != nil {
				return nil, err
			}
			return &kb, nil
		},
	}
}

// Toggle presses and releases kind's key.
func (k *Keybd) Toggle(ctx context.Context, kind indicator.Kind) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.kb == nil {
		kb, err := k.create()
		if err != nil {
			return injectionError("create key bonding", err)
		}
		k.kb = kb
		if err := sleep(ctx, k.warmup); err != nil {
			return injectionError("wait for key bonding", err)
		}
	}

	k.kb.Clear()
	k.kb.SetKeys(int(kind.Key()))
	if err := k.kb.Launching(); err != nil {
		return injectionError("launch key", err)
	}
	return nil
}

// Close forgets the key bonding. keybd_event keeps its uinput device for the
// life of the process.
func (k *Keybd) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.kb = nil
	return nil
}
