package opentype

import (
	"encoding/binary"
	"fmt"

	"github.com/twardoch/fontgrep/font"
)

// reader is a bounds-checked big-endian cursor over raw font bytes. Every
// short read surfaces as ErrTruncated so callers can distinguish corrupt
// fonts from files that were never fonts.
type reader struct {
	buf []byte
}

func (r reader) len() int {
	return len(r.buf)
}

func (r reader) u8(off int) (uint8, error) {
	if off < 0 || off+1 > len(r.buf) {
		return 0, truncated(off)
	}
	return r.buf[off], nil
}

func (r reader) u16(off int) (uint16, error) {
	if off < 0 || off+2 > len(r.buf) {
		return 0, truncated(off)
	}
	return binary.BigEndian.Uint16(r.buf[off:]), nil
}

func (r reader) u32(off int) (uint32, error) {
	if off < 0 || off+4 > len(r.buf) {
		return 0, truncated(off)
	}
	return binary.BigEndian.Uint32(r.buf[off:]), nil
}

func (r reader) bytes(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(r.buf) {
		return nil, truncated(off)
	}
	return r.buf[off : off+n], nil
}

func (r reader) tag(off int) (string, error) {
	b, err := r.bytes(off, 4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// sub returns a reader windowed to [off, off+n). A negative n extends to
// the end of the buffer.
func (r reader) sub(off, n int) (reader, error) {
	if n < 0 {
		n = len(r.buf) - off
	}
	b, err := r.bytes(off, n)
	if err != nil {
		return reader{}, err
	}
	return reader{buf: b}, nil
}

func truncated(off int) error {
	return fmt.Errorf("%w: read past end at offset %d", font.ErrTruncated, off)
}
