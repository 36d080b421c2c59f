package linearhashmap

import (
	"github.com/gostonefire/linearhashmap/internal/addressing"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/internal/page"
)

// MapInfo is a cheap geometry snapshot of the map's current addressing
// state.
type MapInfo struct {
	HashBits           uint8
	SplitIndex         int32
	BucketsNum         int64
	TotalOverflowPages int64
	ExpectedPages      int64
}

// Info returns a snapshot of the map's current geometry. It touches no
// channel; everything it reports is already held in memory.
func (m *Map) Info() MapInfo {
	return MapInfo{
		HashBits:           m.meta.HashBits,
		SplitIndex:         m.meta.SplitIndex,
		BucketsNum:         m.meta.BucketsNum(),
		TotalOverflowPages: m.meta.TotalOverflowPages(),
		ExpectedPages:      m.meta.ExpectedPages(),
	}
}

// MapStat is a full walk of every bucket chain.
type MapStat struct {
	ItemCount        int64
	BucketsNum       int64
	OverflowPages    int64
	MaxChainLength   int
	ChainLengths     []int // ChainLengths[i] is the number of pages in bucket i's chain
	FSMSlotsOccupied int64
}

// Stat walks every bucket chain, counting items and chain lengths. It is
// O(pages) and meant for diagnostics, not the hot path.
func (m *Map) Stat() (MapStat, error) {
	if err := m.guard.Enter(); err != nil {
		return MapStat{}, err
	}
	defer m.guard.Leave()

	bucketsNum := m.meta.BucketsNum()
	stat := MapStat{
		BucketsNum:    bucketsNum,
		OverflowPages: m.meta.TotalOverflowPages(),
		ChainLengths:  make([]int, bucketsNum),
	}

	for b := int64(0); b < bucketsNum; b++ {
		pageNum := addressing.BucketPageNumber(int32(b), m.meta.OverflowPages)
		chainLen := 0

		for {
			p, err := page.Read(m.data, pageNum)
			if err != nil {
				return MapStat{}, m.logCorruption(err)
			}

			chainLen++
			stat.ItemCount += int64(len(p.Items))

			next := int64(p.NextPageNumber)
			if next == int64(model.NoPage) {
				break
			}
			pageNum = next
		}

		stat.ChainLengths[b] = chainLen
		if chainLen > stat.MaxChainLength {
			stat.MaxChainLength = chainLen
		}
	}

	taken, err := m.fsm.CountTaken()
	if err != nil {
		return MapStat{}, err
	}
	stat.FSMSlotsOccupied = taken

	return stat, nil
}

// BucketNumber returns the logical bucket index key would address,
// exposing internal/addressing.BucketIndex.
func (m *Map) BucketNumber(key []byte) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	hash := addressing.Hash(key)
	return int64(addressing.BucketIndex(hash, m.meta.HashBits, m.meta.SplitIndex)), nil
}
