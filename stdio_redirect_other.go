//go:build !unix

package main

import "os"

// redirectStdIO swaps the os file handles only; runtime panics still go to
// the original stderr.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := openStdioLog(path)
	if err != nil {
		return err
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
