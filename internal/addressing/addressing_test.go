//go:build unit

package addressing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostonefire/linearhashmap/internal/model"
)

func TestHash(t *testing.T) {
	t.Run("matches Java's Arrays.hashCode(byte[]) for known inputs", func(t *testing.T) {
		// Execute and Check
		assert.Equal(t, int32(1), Hash(nil))
		assert.Equal(t, int32(31+97), Hash([]byte("a")))
		assert.Equal(t, int32(31*31+31*97+98), Hash([]byte("ab")))
	})
}

func TestBucketIndex(t *testing.T) {
	t.Run("buckets already split this round use the full bit width", func(t *testing.T) {
		// Prepare: hashBits=3, splitIndex=2 means buckets 0 and 1 already split
		var hashBits uint8 = 3
		var splitIndex int32 = 2

		// Execute and Check: an item whose full 3-bit index is 1 has already
		// split, so it must use the full index even though its 2-bit half
		// index would also be 1.
		assert.Equal(t, int32(1), BucketIndex(1, hashBits, splitIndex))

		// an item whose full index is 5 has half index 1, which has already
		// split (1 < splitIndex=2), so it also resolves via the full index.
		assert.Equal(t, int32(5), BucketIndex(5, hashBits, splitIndex))

		// an item whose half index is 3 (not less than splitIndex=2) stays
		// folded to its half index regardless of the extra bit
		assert.Equal(t, int32(3), BucketIndex(3, hashBits, splitIndex))
		assert.Equal(t, int32(3), BucketIndex(7, hashBits, splitIndex))
	})
}

// overflowPagesFixture is a worked example used by both the forward and
// inverse FSM-slot mapping tests: stripe 0 has 3 overflow pages, stripe 1
// has 2, stripe 2 has 1, and every other stripe is still empty.
func overflowPagesFixture() [model.OverflowLevels]int32 {
	var p [model.OverflowLevels]int32
	p[0] = 3
	p[1] = 2
	p[2] = 1
	return p
}

func TestFSMSlotToOverflowPageNumber(t *testing.T) {
	t.Run("maps slots to physical page numbers across three stripes", func(t *testing.T) {
		// Prepare
		overflowPages := overflowPagesFixture()
		cases := map[int64]int64{0: 1, 1: 2, 2: 3, 3: 5, 4: 6, 5: 9}

		// Execute and Check
		for slot, wantPage := range cases {
			gotPage, err := FSMSlotToOverflowPageNumber(slot, 2, overflowPages)
			require.NoError(t, err)
			assert.Equal(t, wantPage, gotPage, "slot %d", slot)
		}
	})
}

func TestOverflowPageNumberToFSMSlot(t *testing.T) {
	t.Run("is the exact inverse of FSMSlotToOverflowPageNumber", func(t *testing.T) {
		// Prepare
		overflowPages := overflowPagesFixture()
		cases := map[int64]int64{1: 0, 2: 1, 3: 2, 5: 3, 6: 4, 9: 5}

		// Execute and Check
		for page, wantSlot := range cases {
			gotSlot, err := OverflowPageNumberToFSMSlot(page, 2, overflowPages)
			require.NoError(t, err)
			assert.Equal(t, wantSlot, gotSlot, "page %d", page)
		}
	})

	t.Run("every slot round-trips through the forward mapping and back", func(t *testing.T) {
		// Prepare
		overflowPages := overflowPagesFixture()

		// Execute and Check
		for slot := int64(0); slot < 6; slot++ {
			page, err := FSMSlotToOverflowPageNumber(slot, 2, overflowPages)
			require.NoError(t, err)
			back, err := OverflowPageNumberToFSMSlot(page, 2, overflowPages)
			require.NoError(t, err)
			assert.Equal(t, slot, back)
		}
	})
}

func TestBucketPageNumber(t *testing.T) {
	t.Run("bucket 0 is always page 0", func(t *testing.T) {
		assert.Equal(t, int64(0), BucketPageNumber(0, overflowPagesFixture()))
	})

	t.Run("adds cumulative overflow pages up to the highest set bit", func(t *testing.T) {
		// Prepare
		overflowPages := overflowPagesFixture()

		// Execute and Check: bucket 1 has highest bit 0, so only stripe 0's
		// overflow pages precede it.
		assert.Equal(t, int64(1+3), BucketPageNumber(1, overflowPages))

		// bucket 2 has highest bit 1, so stripes 0 and 1 precede it.
		assert.Equal(t, int64(2+3+2), BucketPageNumber(2, overflowPages))

		// bucket 4 has highest bit 2, so stripes 0, 1 and 2 precede it.
		assert.Equal(t, int64(4+3+2+1), BucketPageNumber(4, overflowPages))
	})
}
