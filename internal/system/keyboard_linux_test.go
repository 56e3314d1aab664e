//go:build linux

package system

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func event(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestParseKeyEvents(t *testing.T) {
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 8

	var data []byte
	data = append(data, event(tvSize, evKey, keyRight, 1)...)
	data = append(data, event(tvSize, evKey, keyRight, 0)...) // release
	data = append(data, event(tvSize, 0x00, 0, 0)...)         // sync
	data = append(data, event(tvSize, evKey, 30, 1)...)       // 'a'
	data = append(data, event(tvSize, evKey, keyF4, 1)...)
	data = append(data, 0x01, 0x02) // partial record

	assert.Equal(t, []Key{KeyNext, KeyExit}, parseKeyEvents(data, tvSize, eventSize))
}

func TestKeyFor(t *testing.T) {
	for _, code := range []uint16{keyEsc, keyQ, keyF4} {
		key, ok := keyFor(code)
		assert.True(t, ok)
		assert.Equal(t, KeyExit, key)
	}
	for _, code := range []uint16{keyRight, keySpace, keyN} {
		key, ok := keyFor(code)
		assert.True(t, ok)
		assert.Equal(t, KeyNext, key)
	}
	_, ok := keyFor(30)
	assert.False(t, ok)
}
