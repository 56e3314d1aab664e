package buttons

import (
	"context"
	"sync"

	"github.com/ydixken/abfahrt/internal/system"
)

type Event string

const (
	// Exit stops the board.
	Exit Event = "exit"
	// Next rotates to the next station immediately.
	Next Event = "next"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { close(n.ch); return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// Logger matches the component-tagged logger used across the board.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Keyboard turns key presses on attached input devices into events.
// Presses arriving while the event buffer is full are dropped.
type Keyboard struct {
	logger Logger
	ch     chan Event
	cancel context.CancelFunc
	once   sync.Once
	watch  func(ctx context.Context, onKey func(system.Key))
}

func NewKeyboard(logger Logger) *Keyboard {
	k := &Keyboard{logger: logger, ch: make(chan Event, 8)}
	k.watch = func(ctx context.Context, onKey func(system.Key)) {
		system.WatchKeys(ctx, logger, onKey)
	}
	return k
}

func (k *Keyboard) Start(ctx context.Context) error {
	ctx, k.cancel = context.WithCancel(ctx)
	k.watch(ctx, k.handle)
	return nil
}

func (k *Keyboard) handle(key system.Key) {
	var ev Event
	switch key {
	case system.KeyExit:
		ev = Exit
	case system.KeyNext:
		ev = Next
	default:
		return
	}
	select {
	case k.ch <- ev:
	default:
	}
}

func (k *Keyboard) Stop() error {
	k.once.Do(func() {
		if k.cancel != nil {
			k.cancel()
		}
	})
	return nil
}

func (k *Keyboard) Events() <-chan Event { return k.ch }
