package channel

import (
	"errors"

	"github.com/gostonefire/linearhashmap/lherrors"
)

// MemChannel is an in-memory Channel backed by a growable byte slice. It
// exists so the coordinator's logic can be exercised in unit tests without
// touching the filesystem. The map is single-writer and non-concurrent, so
// no locking is needed here either.
type MemChannel struct {
	buf []byte
}

// NewMemChannel returns an empty MemChannel.
func NewMemChannel() *MemChannel {
	return &MemChannel{}
}

// ReadAt implements Channel.
func (c *MemChannel) ReadAt(offset int64, length int) ([]byte, error) {
	if offset < 0 || offset+int64(length) > int64(len(c.buf)) {
		return nil, lherrors.IoError{Op: "read", Err: errShortRead}
	}
	out := make([]byte, length)
	copy(out, c.buf[offset:offset+int64(length)])
	return out, nil
}

// WriteAt implements Channel, growing the buffer and zero-filling any gap
// as needed.
func (c *MemChannel) WriteAt(offset int64, data []byte) error {
	end := offset + int64(len(data))
	if end > int64(len(c.buf)) {
		grown := make([]byte, end)
		copy(grown, c.buf)
		c.buf = grown
	}
	copy(c.buf[offset:end], data)
	return nil
}

// Size implements Channel.
func (c *MemChannel) Size() (int64, error) {
	return int64(len(c.buf)), nil
}

// Truncate implements Channel.
func (c *MemChannel) Truncate(size int64) error {
	if size < int64(len(c.buf)) {
		c.buf = c.buf[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, c.buf)
	c.buf = grown
	return nil
}

// Close implements Channel; it is a no-op for MemChannel.
func (c *MemChannel) Close() error {
	return nil
}

var errShortRead = errors.New("read past end of in-memory channel")
