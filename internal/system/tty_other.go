//go:build !unix

package system

func SetGraphicsModeWithLog(l logger) error { return nil }
func RestoreTextModeWithLog(l logger) error { return nil }
func HideCursorWithLog(l logger) error      { return nil }
func ShowCursorWithLog(l logger) error      { return nil }
