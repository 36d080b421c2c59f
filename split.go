package linearhashmap

import (
	"github.com/gostonefire/linearhashmap/internal/addressing"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/internal/page"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// Split performs one step of bucket splitting: it rehashes the chain of
// bucket splitIndex at level hashBits into splitIndex and its buddy
// splitIndex+2^(hashBits-1), grows the data file by one bucket page for
// the buddy (bucket pages are never tracked by the FSM), and advances
// splitIndex (rolling over into hashBits++ when a full round completes).
//
// Split is caller-triggered; nothing in this package calls it
// automatically. See ShouldSplit for an advisory hint.
func (m *Map) Split() error {
	if err := m.guard.Enter(); err != nil {
		return err
	}
	defer m.guard.Leave()

	half := int32(1) << (m.meta.HashBits - 1)
	s := m.meta.SplitIndex
	if s < 0 || s >= half {
		return m.logCorruption(lherrors.CorruptionError{Msg: "splitIndex out of range for current hashBits"})
	}

	oldBucketPageNum := addressing.BucketPageNumber(s, m.meta.OverflowPages)
	buddyIndex := s + half

	// buddyPageNum must be derived with the same formula a later Get will
	// use to find this bucket, not with the raw file-end: ExpectedPages
	// sums every overflow level, while BucketPageNumber only sums the
	// levels up to buddyIndex's own highest bit. Those two diverge as
	// soon as any Put has allocated an overflow page while splitIndex was
	// non-zero earlier in this round (that overflow is booked against
	// level hashBits, one level ahead of the level this buddy belongs
	// to), which would otherwise make the buddy unreachable once written.
	buddyPageNum := addressing.BucketPageNumber(buddyIndex, m.meta.OverflowPages)

	stayItems, moveItems, overflowPageNums, err := m.collectBucketChain(oldBucketPageNum, half)
	if err != nil {
		return err
	}

	for _, p := range overflowPageNums {
		slot, err := addressing.OverflowPageNumberToFSMSlot(p, m.meta.ActiveSplitPoint(), m.meta.OverflowPages)
		if err != nil {
			return m.logCorruption(err)
		}
		if err = m.fsm.Free(slot); err != nil {
			return err
		}
	}

	if err = m.writeChain(oldBucketPageNum, stayItems); err != nil {
		return err
	}
	if err = m.writeChain(buddyPageNum, moveItems); err != nil {
		return err
	}

	m.meta.SplitIndex++
	if m.meta.SplitIndex == half {
		m.meta.SplitIndex = 0
		m.meta.HashBits++
	}

	if err = writeMetadata(m.data, m.meta); err != nil {
		return err
	}

	m.log.Debug("split bucket", "splitIndex", s, "buddyIndex", buddyIndex, "buddyPageNum", buddyPageNum)
	return nil
}

// ShouldSplit reports whether the configured load-factor threshold has
// been crossed. It never triggers a split itself; callers decide whether
// to act on it by calling Split.
func (m *Map) ShouldSplit() bool {
	return m.growth.ShouldSplit(m.itemCountHint(), m.meta.BucketsNum())
}

// itemCountHint is a placeholder used only by ShouldSplit's load-factor
// estimate; it is recomputed from a live Stat rather than tracked
// incrementally, since Put/Remove do not maintain a running counter.
func (m *Map) itemCountHint() int64 {
	stat, err := m.Stat()
	if err != nil {
		return 0
	}
	return stat.ItemCount
}

// collectBucketChain reads every page in the chain starting at
// bucketPageNum, partitions its items into those that stay at the
// current bucket and those that move to the buddy bucket (by testing
// the newly introduced bit, half), and returns the page numbers of every
// overflow page in the chain (i.e. every page after the first) so their
// FSM slots can be freed.
func (m *Map) collectBucketChain(bucketPageNum int64, half int32) (stay, move []model.Item, overflowPageNums []int64, err error) {
	pageNum := bucketPageNum
	first := true
	for {
		p, readErr := page.Read(m.data, pageNum)
		if readErr != nil {
			return nil, nil, nil, m.logCorruption(readErr)
		}

		for _, it := range p.Items {
			if it.Hash&half != 0 {
				move = append(move, it)
			} else {
				stay = append(stay, it)
			}
		}

		if !first {
			overflowPageNums = append(overflowPageNums, pageNum)
		}
		first = false

		next := int64(p.NextPageNumber)
		if next == int64(model.NoPage) {
			break
		}
		pageNum = next
	}

	return stay, move, overflowPageNums, nil
}

// writeChain packs items into pages starting at firstPageNum, greedily
// filling each page before allocating an overflow page via the FSM the
// way Put's allocateOverflowPage does. The allocation is booked against
// level hashBits, the level that is active once this split completes:
// its stripe lies past every bucket of the round, so it never shifts the
// page number of the buddy being written. firstPageNum must already be a
// valid bucket page (existing or newly appended); it is always written,
// even when items is empty.
func (m *Map) writeChain(firstPageNum int64, items []model.Item) error {
	cur := page.Empty()
	curPageNum := firstPageNum

	for _, it := range items {
		if int(cur.FreeSpace) < it.Size() {
			sp := m.meta.HashBits
			m.meta.OverflowPages[sp]++

			slot, err := m.fsm.FindFreePage()
			if err != nil {
				return err
			}
			newPageNum, err := addressing.FSMSlotToOverflowPageNumber(slot, sp, m.meta.OverflowPages)
			if err != nil {
				return m.logCorruption(err)
			}

			cur.NextPageNumber = int32(newPageNum)
			if err = page.Write(m.data, curPageNum, cur); err != nil {
				return err
			}
			if err = m.fsm.Take(slot); err != nil {
				return err
			}

			curPageNum = newPageNum
			cur = page.Empty()
		}

		page.AddItem(&cur, it)
	}

	return page.Write(m.data, curPageNum, cur)
}
