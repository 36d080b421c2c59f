package linearhashmap

import (
	"github.com/gostonefire/linearhashmap/internal/addressing"
	"github.com/gostonefire/linearhashmap/internal/growth"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/internal/page"
	"github.com/gostonefire/linearhashmap/internal/utils"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// Put inserts or overwrites the value stored under key, walking the
// bucket's chain with a rolling prevPage/freePage pair: it first tries to
// replace an existing item in place or displace it within the chain
// before ever allocating a new overflow page.
func (m *Map) Put(key, value []byte) error {
	if err := m.guard.Enter(); err != nil {
		return err
	}
	defer m.guard.Leave()

	if err := validateKey(key); err != nil {
		return err
	}
	if value == nil {
		return lherrors.InvalidArgument{Msg: "value must not be nil"}
	}

	hash := addressing.Hash(key)
	newItem := model.Item{Hash: hash, Key: key, Value: value}
	itemSize := newItem.Size()
	if itemSize > model.MaxItemSize {
		return lherrors.InvalidArgument{Msg: "key/value pair exceeds maximum item size"}
	}

	bucketIndex := addressing.BucketIndex(hash, m.meta.HashBits, m.meta.SplitIndex)
	curPageNum := addressing.BucketPageNumber(bucketIndex, m.meta.OverflowPages)

	var (
		freePageNum         int64 = -1
		freePage            model.Page
		freePageLookingMode bool
		prevPageNum         int64
		prevPage            model.Page
	)

	for {
		curPage, err := page.Read(m.data, curPageNum)
		if err != nil {
			return m.logCorruption(err)
		}

		if !freePageLookingMode {
			for i, it := range curPage.Items {
				if it.Hash != hash || !utils.IsEqual(it.Key, key) {
					continue
				}

				if int(curPage.FreeSpace)+it.Size() >= itemSize {
					page.Replace(&curPage, i, newItem)
					return page.Write(m.data, curPageNum, curPage)
				}

				page.RemoveItem(&curPage, i)
				if err = page.Write(m.data, curPageNum, curPage); err != nil {
					return err
				}
				freePageLookingMode = true
				break
			}
		}

		if freePageNum == -1 && itemSize <= int(curPage.FreeSpace) {
			freePageNum = curPageNum
			freePage = curPage
		}

		prevPageNum = curPageNum
		prevPage = curPage

		next := int64(curPage.NextPageNumber)
		if next == int64(model.NoPage) {
			break
		}
		if freePageLookingMode && freePageNum != -1 {
			break
		}
		curPageNum = next
	}

	if freePageNum != -1 {
		page.AddItem(&freePage, newItem)
		if err := page.Write(m.data, freePageNum, freePage); err != nil {
			return err
		}
		m.warnIfLoadFactorHigh()
		return nil
	}

	if err := m.allocateOverflowPage(prevPageNum, prevPage, newItem); err != nil {
		return err
	}
	m.warnIfLoadFactorHigh()
	return nil
}

// warnIfLoadFactorHigh consults growth.Tracker.ShouldSplit purely to decide
// whether to log a hint; Put never triggers a split itself. It estimates
// the item count from total page count rather than walking every chain
// (that walk is Stat's job, and Stat is not reentrant with the guard Put
// already holds).
func (m *Map) warnIfLoadFactorHigh() {
	estimatedRecords := m.meta.ExpectedPages() * growth.AverageItemsPerPage
	if m.growth.ShouldSplit(estimatedRecords, m.meta.BucketsNum()) {
		m.log.Warn("load factor threshold crossed, consider calling Split",
			"bucketsNum", m.meta.BucketsNum(), "expectedPages", m.meta.ExpectedPages())
	}
}

// allocateOverflowPage extends a chain with a fresh overflow page: it
// increments the active level's overflow counter before the slot-to-page
// mapping call, finds a free FSM slot, links it onto the chain, and
// persists prevPage, the new page, and metadata before taking the FSM
// slot.
func (m *Map) allocateOverflowPage(prevPageNum int64, prevPage model.Page, newItem model.Item) error {
	sp := m.meta.ActiveSplitPoint()
	m.meta.OverflowPages[sp]++

	newFsmSlot, err := m.fsm.FindFreePage()
	if err != nil {
		return err
	}

	newPageNum, err := addressing.FSMSlotToOverflowPageNumber(newFsmSlot, sp, m.meta.OverflowPages)
	if err != nil {
		return m.logCorruption(err)
	}

	newPage := page.Empty()
	page.AddItem(&newPage, newItem)
	prevPage.NextPageNumber = int32(newPageNum)

	if err = page.Write(m.data, prevPageNum, prevPage); err != nil {
		return err
	}
	if err = page.Write(m.data, newPageNum, newPage); err != nil {
		return err
	}
	if err = writeMetadata(m.data, m.meta); err != nil {
		return err
	}
	if err = m.fsm.Take(newFsmSlot); err != nil {
		return err
	}

	m.log.Debug("extended chain with overflow page", "pageNum", newPageNum, "fsmSlot", newFsmSlot)
	return nil
}
