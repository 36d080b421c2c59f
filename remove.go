package linearhashmap

import (
	"github.com/gostonefire/linearhashmap/internal/addressing"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/internal/page"
	"github.com/gostonefire/linearhashmap/internal/utils"
)

// Remove deletes the item stored under key, if any. It is idempotent:
// removing a key that is not present is not an error. If removing the
// item leaves an overflow page empty, that page is spliced out of the
// chain and its FSM slot is freed; a bucket page is never spliced out
// since it has no predecessor.
func (m *Map) Remove(key []byte) error {
	if err := m.guard.Enter(); err != nil {
		return err
	}
	defer m.guard.Leave()

	if err := validateKey(key); err != nil {
		return err
	}

	hash := addressing.Hash(key)
	bucketIndex := addressing.BucketIndex(hash, m.meta.HashBits, m.meta.SplitIndex)
	if bucketIndex >= int32(m.meta.BucketsNum()) {
		return nil
	}
	curPageNum := addressing.BucketPageNumber(bucketIndex, m.meta.OverflowPages)

	var (
		prevPageNum int64 = -1
		prevPage    model.Page
	)

	for {
		curPage, err := page.Read(m.data, curPageNum)
		if err != nil {
			return m.logCorruption(err)
		}

		matchIdx := -1
		for i, it := range curPage.Items {
			if it.Hash == hash && utils.IsEqual(it.Key, key) {
				matchIdx = i
				break
			}
		}

		if matchIdx != -1 {
			page.RemoveItem(&curPage, matchIdx)

			if len(curPage.Items) > 0 || prevPageNum == -1 {
				return page.Write(m.data, curPageNum, curPage)
			}

			return m.spliceOutEmptyPage(prevPageNum, prevPage, curPageNum, curPage.NextPageNumber)
		}

		next := int64(curPage.NextPageNumber)
		if next == int64(model.NoPage) {
			return nil
		}

		prevPageNum = curPageNum
		prevPage = curPage
		curPageNum = next
	}
}

// spliceOutEmptyPage unlinks the now-empty overflow page at emptyPageNum
// from the chain and frees its FSM slot.
func (m *Map) spliceOutEmptyPage(prevPageNum int64, prevPage model.Page, emptyPageNum int64, next int32) error {
	prevPage.NextPageNumber = next

	slot, err := addressing.OverflowPageNumberToFSMSlot(emptyPageNum, m.meta.ActiveSplitPoint(), m.meta.OverflowPages)
	if err != nil {
		return m.logCorruption(err)
	}
	if err = m.fsm.Free(slot); err != nil {
		return err
	}

	m.log.Debug("spliced out empty overflow page", "pageNum", emptyPageNum, "fsmSlot", slot)
	return page.Write(m.data, prevPageNum, prevPage)
}
