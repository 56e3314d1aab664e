//go:build !linux

package system

import "context"

// WatchKeys is a no-op without evdev.
func WatchKeys(ctx context.Context, logger logger, onKey func(Key)) {
	if logger != nil {
		logger.Infof("input", "keyboard input not supported on this platform")
	}
}
