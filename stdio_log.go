package main

import "os"

// maxStdioLogSize caps the crash log so a boot loop cannot fill the SD card.
const maxStdioLogSize = 8 << 20

// openStdioLog opens path for appending, starting over when it has grown
// past maxStdioLogSize.
func openStdioLog(path string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if fi, err := os.Stat(path); err == nil && fi.Size() > maxStdioLogSize {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0o644)
}
