package channel

import (
	"fmt"
	"io"
	"os"

	"github.com/gostonefire/linearhashmap/lherrors"
)

// FileChannel is a Channel backed by an *os.File. It uses ReadAt/WriteAt
// instead of Seek+Read/Write since the Channel contract is positionless
// by design, opening with O_RDWR|O_CREATE and permission 0644.
type FileChannel struct {
	f *os.File
}

// OpenFileChannel opens (creating if necessary) the file at path and
// returns a FileChannel wrapping it.
func OpenFileChannel(path string) (*FileChannel, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, lherrors.IoError{Op: "open " + path, Err: err}
	}
	return &FileChannel{f: f}, nil
}

// ReadAt implements Channel.
func (c *FileChannel) ReadAt(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := c.f.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && n == length) {
		return nil, lherrors.IoError{Op: "read", Err: err}
	}
	if n != length {
		return nil, lherrors.IoError{Op: "read", Err: fmt.Errorf("short read: got %d of %d bytes", n, length)}
	}
	return buf, nil
}

// WriteAt implements Channel. os.File.WriteAt already zero-fills any gap
// between the current end of file and offset, so no extra padding logic
// is needed here.
func (c *FileChannel) WriteAt(offset int64, data []byte) error {
	n, err := c.f.WriteAt(data, offset)
	if err != nil {
		return lherrors.IoError{Op: "write", Err: err}
	}
	if n != len(data) {
		return lherrors.IoError{Op: "write", Err: fmt.Errorf("short write: wrote %d of %d bytes", n, len(data))}
	}
	return nil
}

// Size implements Channel.
func (c *FileChannel) Size() (int64, error) {
	fi, err := c.f.Stat()
	if err != nil {
		return 0, lherrors.IoError{Op: "stat", Err: err}
	}
	return fi.Size(), nil
}

// Truncate implements Channel.
func (c *FileChannel) Truncate(size int64) error {
	if err := c.f.Truncate(size); err != nil {
		return lherrors.IoError{Op: "truncate", Err: err}
	}
	return nil
}

// Close implements Channel.
func (c *FileChannel) Close() error {
	if err := c.f.Sync(); err != nil {
		return lherrors.IoError{Op: "sync", Err: err}
	}
	if err := c.f.Close(); err != nil {
		return lherrors.IoError{Op: "close", Err: err}
	}
	return nil
}
