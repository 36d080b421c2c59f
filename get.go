package linearhashmap

import (
	"github.com/gostonefire/linearhashmap/internal/addressing"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/internal/page"
	"github.com/gostonefire/linearhashmap/internal/utils"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// Get returns the value stored under key, or a NotFound error if no item
// with that key exists in the map.
func (m *Map) Get(key []byte) (value []byte, err error) {
	if err = m.guard.Enter(); err != nil {
		return nil, err
	}
	defer m.guard.Leave()

	if err = validateKey(key); err != nil {
		return nil, err
	}

	hash := addressing.Hash(key)
	bucketIndex := addressing.BucketIndex(hash, m.meta.HashBits, m.meta.SplitIndex)
	bucketPageNum := addressing.BucketPageNumber(bucketIndex, m.meta.OverflowPages)

	if bucketIndex >= int32(m.meta.BucketsNum()) {
		return nil, lherrors.NotFound{}
	}

	pageNum := bucketPageNum
	for pageNum != int64(model.NoPage) {
		p, err := page.Read(m.data, pageNum)
		if err != nil {
			return nil, m.logCorruption(err)
		}

		for _, it := range p.Items {
			if it.Hash == hash && utils.IsEqual(it.Key, key) {
				return it.Value, nil
			}
		}

		pageNum = int64(p.NextPageNumber)
	}

	return nil, lherrors.NotFound{}
}

func validateKey(key []byte) error {
	if key == nil {
		return lherrors.InvalidArgument{Msg: "key must not be nil"}
	}
	if len(key) > model.MaxKeySize {
		return lherrors.InvalidArgument{Msg: "key exceeds maximum size"}
	}
	return nil
}
