// Package model holds the plain data structures shared by the codec, the
// page engine, the free-space map and the addressing functions. None of
// the types here know how to read or write a channel.Channel themselves;
// they are pure value types.
package model

// PageSize is the fixed size in bytes of every data page.
const PageSize = 256

// PageHeaderSize is the number of bytes at the start of a page occupied by
// ItemsCount, FreeSpace and NextPageNumber.
const PageHeaderSize = 8

// MaxItemSize is the largest an Item's encoded form may be and still fit
// in a page body.
const MaxItemSize = PageSize - PageHeaderSize

// ItemHeaderSize is the number of bytes an Item spends on its hash and its
// two length prefixes, before the key and value bytes themselves.
const ItemHeaderSize = 4 + 2 + 2

// MaxKeySize is the largest a key may be: it must leave room for the item
// header and at least a zero-length value.
const MaxKeySize = MaxItemSize - ItemHeaderSize

// NoPage is the sentinel NextPageNumber value meaning "end of chain".
const NoPage int32 = -1

// OverflowLevels is the fixed length of Metadata.OverflowPages: one
// counter per possible value of hashBits (1..33), since a 32-bit hash
// can accumulate one more split level than it has bits.
const OverflowLevels = 33

// MetadataSize is the fixed on-disk size of Metadata: 1 (hashBits) + 4
// (splitIndex) + 33*4 (overflowPages).
const MetadataSize = 1 + 4 + OverflowLevels*4

// Metadata is the logarithmic addressing state persisted at offset 0 of
// the data file, from which every physical page offset is derived.
type Metadata struct {
	// HashBits is the number of hash bits currently addressable.
	HashBits uint8
	// SplitIndex is the next bucket to split.
	SplitIndex int32
	// OverflowPages[i] counts overflow pages allocated while level i was
	// active.
	OverflowPages [OverflowLevels]int32
}

// BucketsNum returns the number of logical buckets the metadata currently
// addresses: (1 << (hashBits-1)) + splitIndex.
func (m Metadata) BucketsNum() int64 {
	return int64(1)<<(m.HashBits-1) + int64(m.SplitIndex)
}

// TotalOverflowPages returns the sum of every entry in OverflowPages.
func (m Metadata) TotalOverflowPages() int64 {
	var total int64
	for _, n := range m.OverflowPages {
		total += int64(n)
	}
	return total
}

// ExpectedPages returns BucketsNum + TotalOverflowPages, i.e. the number
// of 256-byte pages the data file should contain right after the
// metadata record.
func (m Metadata) ExpectedPages() int64 {
	return m.BucketsNum() + m.TotalOverflowPages()
}

// ActiveSplitPoint is hashBits-1 if splitIndex==0, else hashBits; it is
// the index into OverflowPages that the next allocation should increment.
func (m Metadata) ActiveSplitPoint() uint8 {
	if m.SplitIndex == 0 {
		return m.HashBits - 1
	}
	return m.HashBits
}

// Item is one key/value entry stored inside a Page.
type Item struct {
	// Hash is the cached addressing.Hash(Key), persisted so Get can
	// compare hashes before falling back to a byte-wise key comparison.
	Hash int32
	Key   []byte
	Value []byte
}

// Size returns the number of bytes Item occupies once encoded: the fixed
// item header plus the key and value bytes themselves.
func (it Item) Size() int {
	return ItemHeaderSize + len(it.Key) + len(it.Value)
}

// Page is the in-memory representation of one 256-byte page: a header
// (ItemsCount is derived from len(Items) on encode, so it is not stored
// separately here) plus an ordered list of items.
type Page struct {
	FreeSpace      uint16
	NextPageNumber int32
	Items          []Item
}

// EmptyPage returns a Page with no items, NextPageNumber set to NoPage,
// and FreeSpace set to the maximum an empty page can offer.
func EmptyPage() Page {
	return Page{
		FreeSpace:      MaxItemSize,
		NextPageNumber: NoPage,
	}
}
