package buttons

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydixken/abfahrt/internal/system"
)

func TestKeyboardMapsKeys(t *testing.T) {
	k := NewKeyboard(nil)
	k.watch = func(ctx context.Context, onKey func(system.Key)) {
		onKey(system.KeyNext)
		onKey(system.Key(99))
		onKey(system.KeyExit)
	}
	require.NoError(t, k.Start(context.Background()))
	defer k.Stop()

	assert.Equal(t, Next, <-k.Events())
	assert.Equal(t, Exit, <-k.Events())
	assert.Empty(t, k.Events())
}

func TestKeyboardDropsWhenFull(t *testing.T) {
	k := NewKeyboard(nil)
	k.watch = func(ctx context.Context, onKey func(system.Key)) {
		for i := 0; i < 20; i++ {
			onKey(system.KeyNext)
		}
	}
	require.NoError(t, k.Start(context.Background()))
	assert.Len(t, k.Events(), cap(k.ch))
	require.NoError(t, k.Stop())
	require.NoError(t, k.Stop())
}

func TestNoopButtons(t *testing.T) {
	b := NewNoopButtons()
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Stop())
	_, ok := <-b.Events()
	assert.False(t, ok)
}
