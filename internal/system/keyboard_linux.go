//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WatchKeys reads every evdev device under /dev/input/event* and calls onKey
// for each press of a control key until ctx is done.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, logger logger, onKey func(Key)) {
	if onKey == nil {
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found")
		}
		return
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, eventSize, onKey)
	}
}

func watchDevice(ctx context.Context, path string, tvSize, eventSize int, onKey func(Key)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, key := range parseKeyEvents(buf[:n], tvSize, eventSize) {
			onKey(key)
		}
	}
}

// parseKeyEvents extracts control key presses from raw input_event records.
func parseKeyEvents(data []byte, tvSize, eventSize int) []Key {
	var keys []Key
	for off := 0; off+eventSize <= len(data); off += eventSize {
		rec := data[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		if key, ok := keyFor(code); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
