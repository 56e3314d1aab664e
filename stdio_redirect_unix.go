//go:build unix

package main

import "golang.org/x/sys/unix"

// redirectStdIO points fds 1 and 2 at the log file, so panics from any
// goroutine land there even while the console is in graphics mode.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := openStdioLog(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, fd := range []int{unix.Stdout, unix.Stderr} {
		if err := unix.Dup2(int(f.Fd()), fd); err != nil {
			return err
		}
	}
	return nil
}
