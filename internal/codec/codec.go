// Package codec implements the big-endian, length-prefixed wire format
// for Metadata, Page headers and Items. Pure functions, no state, no I/O.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// EncodeMetadata converts a model.Metadata into its 137-byte on-disk form.
func EncodeMetadata(m model.Metadata) []byte {
	buf := make([]byte, model.MetadataSize)
	buf[0] = m.HashBits
	binary.BigEndian.PutUint32(buf[1:5], uint32(m.SplitIndex))
	for i, n := range m.OverflowPages {
		off := 5 + i*4
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(n))
	}
	return buf
}

// DecodeMetadata parses a 137-byte buffer into a model.Metadata.
func DecodeMetadata(buf []byte) (m model.Metadata, err error) {
	if len(buf) != model.MetadataSize {
		err = lherrors.CorruptionError{Msg: fmt.Sprintf("metadata buffer has wrong size: %d", len(buf))}
		return
	}

	m.HashBits = buf[0]
	if m.HashBits < 1 || m.HashBits > 33 {
		err = lherrors.CorruptionError{Msg: fmt.Sprintf("hashBits out of range: %d", m.HashBits)}
		return
	}

	m.SplitIndex = int32(binary.BigEndian.Uint32(buf[1:5]))
	if m.SplitIndex < 0 {
		err = lherrors.CorruptionError{Msg: "splitIndex is negative"}
		return
	}

	for i := range m.OverflowPages {
		off := 5 + i*4
		n := int32(binary.BigEndian.Uint32(buf[off : off+4]))
		if n < 0 {
			err = lherrors.CorruptionError{Msg: fmt.Sprintf("overflowPages[%d] is negative", i)}
			return
		}
		m.OverflowPages[i] = n
	}

	return
}

// EncodePageHeader writes the 8-byte page header (itemsCount, freeSpace,
// nextPageNumber) into buf[0:8]. buf must have length >= 8.
func EncodePageHeader(buf []byte, itemsCount, freeSpace uint16, nextPageNumber int32) {
	binary.BigEndian.PutUint16(buf[0:2], itemsCount)
	binary.BigEndian.PutUint16(buf[2:4], freeSpace)
	binary.BigEndian.PutUint32(buf[4:8], uint32(nextPageNumber))
}

// DecodePageHeader reads the 8-byte page header from buf[0:8].
func DecodePageHeader(buf []byte) (itemsCount, freeSpace uint16, nextPageNumber int32, err error) {
	if len(buf) < model.PageHeaderSize {
		err = lherrors.CorruptionError{Msg: "page buffer shorter than header"}
		return
	}

	itemsCount = binary.BigEndian.Uint16(buf[0:2])
	freeSpace = binary.BigEndian.Uint16(buf[2:4])
	nextPageNumber = int32(binary.BigEndian.Uint32(buf[4:8]))

	if nextPageNumber < -1 {
		err = lherrors.CorruptionError{Msg: fmt.Sprintf("invalid nextPageNumber: %d", nextPageNumber)}
		return
	}

	return
}

// EncodeItem appends the encoded form of it to buf and returns the result.
func EncodeItem(buf []byte, it model.Item) []byte {
	var hdr [model.ItemHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(it.Hash))
	binary.BigEndian.PutUint16(hdr[4:6], uint16(len(it.Key)))
	binary.BigEndian.PutUint16(hdr[6:8], uint16(len(it.Value)))

	buf = append(buf, hdr[:]...)
	buf = append(buf, it.Key...)
	buf = append(buf, it.Value...)
	return buf
}

// DecodeItem parses one Item starting at buf[0] and returns it along with
// the number of bytes consumed, so callers can decode a run of items back
// to back.
func DecodeItem(buf []byte) (it model.Item, consumed int, err error) {
	if len(buf) < model.ItemHeaderSize {
		err = lherrors.CorruptionError{Msg: "item buffer shorter than item header"}
		return
	}

	hash := int32(binary.BigEndian.Uint32(buf[0:4]))
	keyLen := int(binary.BigEndian.Uint16(buf[4:6]))
	valueLen := int(binary.BigEndian.Uint16(buf[6:8]))

	consumed = model.ItemHeaderSize + keyLen + valueLen
	if consumed > len(buf) {
		err = lherrors.CorruptionError{Msg: "item length prefix overruns buffer"}
		return
	}

	key := make([]byte, keyLen)
	copy(key, buf[model.ItemHeaderSize:model.ItemHeaderSize+keyLen])
	value := make([]byte, valueLen)
	copy(value, buf[model.ItemHeaderSize+keyLen:consumed])

	it = model.Item{Hash: hash, Key: key, Value: value}
	return
}
