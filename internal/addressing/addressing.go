// Package addressing implements the pure arithmetic of the hash function,
// the hash-to-bucket-index mapping, the bucket-index-to-physical-page-
// number mapping, and the two-way mapping between FSM slots and overflow
// page numbers. None of these functions touch a channel.Channel; they
// only look at a model.Metadata snapshot.
package addressing

import (
	"fmt"
	"math/bits"

	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// Hash implements Java's Arrays.hashCode(byte[]) over key: h starts at 1,
// and for each byte (read as signed int8) h = 31*h + byte, with 32-bit
// two's-complement wraparound. This exact definition is part of the
// on-disk contract since the hash is persisted in every Item.
func Hash(key []byte) int32 {
	h := int32(1)
	for _, b := range key {
		h = 31*h + int32(int8(b))
	}
	return h
}

// BucketIndex computes the logical bucket a hash maps to, given the
// current hashBits and splitIndex: buckets already split in the current
// round use all hashBits bits, the rest use hashBits-1.
func BucketIndex(hash int32, hashBits uint8, splitIndex int32) int32 {
	fullMask := int32(1)<<hashBits - 1
	fullIndex := hash & fullMask
	halfIndex := fullIndex &^ (1 << (hashBits - 1))

	if halfIndex < splitIndex {
		return fullIndex
	}
	return halfIndex
}

// BucketPageNumber maps a logical bucket index to its physical page
// number: bucket 0 is always page 0; otherwise the highest set bit of
// bucketIndex tells how many complete overflow-page stripes precede it.
func BucketPageNumber(bucketIndex int32, overflowPages [model.OverflowLevels]int32) int64 {
	if bucketIndex == 0 {
		return 0
	}

	highestBit := bits.Len32(uint32(bucketIndex)) - 1

	var overflowTotal int64
	for i := 0; i <= highestBit; i++ {
		overflowTotal += int64(overflowPages[i])
	}

	return int64(bucketIndex) + overflowTotal
}

// FSMSlotToOverflowPageNumber maps an FSM slot number to the physical
// overflow page number it corresponds to, scanning the overflow-page
// stripes from level 0 up to activeSplitPoint (inclusive).
func FSMSlotToOverflowPageNumber(slot int64, activeSplitPoint uint8, overflowPages [model.OverflowLevels]int32) (int64, error) {
	var pagesCount int64
	for i := 0; i <= int(activeSplitPoint); i++ {
		pagesCount += int64(overflowPages[i])
		if slot < pagesCount {
			return slot + int64(1)<<i, nil
		}
	}

	return 0, lherrors.CorruptionError{Msg: fmt.Sprintf("fsm slot %d has no corresponding overflow page", slot)}
}

// OverflowPageNumberToFSMSlot is the inverse of FSMSlotToOverflowPageNumber:
// given a physical overflow page number, returns the FSM slot tracking it.
// It mirrors the forward scan exactly - accumulate this level's overflow
// count, then test the page against the stripe boundary 1<<i it implies.
func OverflowPageNumberToFSMSlot(overflowPage int64, activeSplitPoint uint8, overflowPages [model.OverflowLevels]int32) (int64, error) {
	var pageCount int64
	for i := 0; i <= int(activeSplitPoint); i++ {
		pageCount += int64(overflowPages[i])
		buckets := int64(1) << i
		if overflowPage < pageCount+buckets {
			return overflowPage - buckets, nil
		}
	}

	return 0, lherrors.CorruptionError{Msg: fmt.Sprintf("overflow page %d has no corresponding fsm slot", overflowPage)}
}
