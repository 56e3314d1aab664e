package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Key is a board control key recognized on any attached keyboard.
type Key int

const (
	KeyExit Key = iota + 1
	KeyNext
)

// Linux input-event-codes.h
const (
	evKey = 0x01

	keyEsc   = 1
	keyQ     = 16
	keyN     = 49
	keySpace = 57
	keyF4    = 62
	keyRight = 106
)

// keyFor maps an evdev key code to a control key.
func keyFor(code uint16) (Key, bool) {
	switch code {
	case keyEsc, keyQ, keyF4:
		return KeyExit, true
	case keyRight, keySpace, keyN:
		return KeyNext, true
	}
	return 0, false
}
