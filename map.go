// Package linearhashmap implements a single-writer, disk-backed associative
// array using Linear Hashing over fixed-size 256-byte pages, an overflow
// free-space map, and a persisted metadata record. It is the root
// coordinator package: it owns the two channels (data, FSM), the metadata,
// and orchestrates internal/addressing, internal/page and internal/fsm to
// implement Get/Put/Remove/Split.
package linearhashmap

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/gostonefire/linearhashmap/channel"
	"github.com/gostonefire/linearhashmap/internal/codec"
	"github.com/gostonefire/linearhashmap/internal/fsm"
	"github.com/gostonefire/linearhashmap/internal/growth"
	"github.com/gostonefire/linearhashmap/internal/guard"
	"github.com/gostonefire/linearhashmap/internal/lhlog"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/internal/page"
	"github.com/gostonefire/linearhashmap/internal/utils"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// Map is the disk-backed associative array. It is not safe for concurrent
// use; see internal/guard.
type Map struct {
	data   channel.Channel
	fsmCh  channel.Channel
	fsm    *fsm.FSM
	meta   model.Metadata
	log    *lhlog.Logger
	growth *growth.Tracker
	guard  guard.Guard
}

// Open reopens a Map from two channels holding a previously created data
// file and FSM file. It fails with CorruptionError if the data channel's
// size does not match what the persisted metadata implies.
func Open(data, fsmCh channel.Channel, opts *Options) (*Map, error) {
	log := lhlog.New(opts.logger())

	size, err := data.Size()
	if err != nil {
		return nil, err
	}
	if size < int64(model.MetadataSize) {
		ce := lherrors.CorruptionError{Msg: fmt.Sprintf("data channel too short for metadata: %d bytes", size)}
		log.Warn("corruption detected", "err", ce.Error())
		return nil, ce
	}

	buf, err := data.ReadAt(0, model.MetadataSize)
	if err != nil {
		return nil, err
	}

	meta, err := codec.DecodeMetadata(buf)
	if err != nil {
		var ce lherrors.CorruptionError
		if errors.As(err, &ce) {
			log.Warn("corruption detected", "err", ce.Error())
		}
		return nil, err
	}

	expected := int64(model.MetadataSize) + meta.ExpectedPages()*model.PageSize
	if size != expected {
		ce := lherrors.CorruptionError{Msg: fmt.Sprintf("data channel size %d does not match expected %d for hashBits=%d splitIndex=%d", size, expected, meta.HashBits, meta.SplitIndex)}
		log.Warn("corruption detected", "err", ce.Error())
		return nil, ce
	}

	fm, err := fsm.Open(fsmCh)
	if err != nil {
		return nil, err
	}

	m := &Map{
		data:   data,
		fsmCh:  fsmCh,
		fsm:    fm,
		meta:   meta,
		log:    log,
		growth: growth.NewTracker(opts.loadFactorThreshold()),
	}
	m.log.Debug("opened map", "hashBits", meta.HashBits, "splitIndex", meta.SplitIndex, "bucketsNum", meta.BucketsNum())
	return m, nil
}

// OpenNew creates a new, empty Map on two freshly opened (and empty)
// channels. initialSize is the requested number of buckets; it is rounded
// up to the next power of two (initialSize==1 stays 1).
func OpenNew(data, fsmCh channel.Channel, initialSize uint32, opts *Options) (*Map, error) {
	if initialSize == 0 {
		return nil, lherrors.InvalidArgument{Msg: "initialSize must be >= 1"}
	}

	size, err := data.Size()
	if err != nil {
		return nil, err
	}
	if size != 0 {
		return nil, lherrors.InvalidArgument{Msg: "data channel must be empty for OpenNew"}
	}

	bucketsNum := utils.NextPow2(initialSize)
	hashBits := uint8(bits.Len32(bucketsNum))

	meta := model.Metadata{
		HashBits:   hashBits,
		SplitIndex: 0,
	}

	for p := int64(0); p < int64(bucketsNum); p++ {
		if err = page.Write(data, p, page.Empty()); err != nil {
			return nil, err
		}
	}

	if err = writeMetadata(data, meta); err != nil {
		return nil, err
	}

	fm, err := fsm.Open(fsmCh)
	if err != nil {
		return nil, err
	}

	m := &Map{
		data:   data,
		fsmCh:  fsmCh,
		fsm:    fm,
		meta:   meta,
		log:    lhlog.New(opts.logger()),
		growth: growth.NewTracker(opts.loadFactorThreshold()),
	}
	m.log.Debug("created new map", "hashBits", hashBits, "bucketsNum", bucketsNum)
	return m, nil
}

// Close closes the data channel then the FSM channel.
func (m *Map) Close() error {
	if err := m.data.Close(); err != nil {
		return err
	}
	return m.fsmCh.Close()
}

// writeMetadata encodes meta and writes it at offset 0 of the data channel.
func writeMetadata(data channel.Channel, meta model.Metadata) error {
	return data.WriteAt(0, codec.EncodeMetadata(meta))
}

// logCorruption logs a Warn-level line when err is a CorruptionError and
// returns err unchanged, so a call site can wrap a propagated error
// without branching on its type.
func (m *Map) logCorruption(err error) error {
	var ce lherrors.CorruptionError
	if errors.As(err, &ce) {
		m.log.Warn("corruption detected", "err", ce.Error())
	}
	return err
}
