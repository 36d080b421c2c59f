// Package page implements the in-memory page operations (add/remove/
// replace an item, tracking free space) plus the channel-backed
// read/write pair that composes those operations with internal/codec.
package page

import (
	"fmt"

	"github.com/gostonefire/linearhashmap/channel"
	"github.com/gostonefire/linearhashmap/internal/codec"
	"github.com/gostonefire/linearhashmap/internal/model"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// Offset returns the absolute byte offset of page pageNum in the data
// channel, given the fixed 137-byte metadata record at the front.
func Offset(pageNum int64) int64 {
	return int64(model.MetadataSize) + pageNum*model.PageSize
}

// Empty returns a new, empty page: no items, maximum free space, no next
// page.
func Empty() model.Page {
	return model.EmptyPage()
}

// AddItem appends it to p's item list and decrements FreeSpace by its
// size. The caller must already have checked that FreeSpace >= it.Size().
func AddItem(p *model.Page, it model.Item) {
	p.Items = append(p.Items, it)
	p.FreeSpace -= uint16(it.Size())
}

// RemoveItem removes the item at index i, shifting the tail left, and
// credits its size back to FreeSpace.
func RemoveItem(p *model.Page, i int) {
	p.FreeSpace += uint16(p.Items[i].Size())
	p.Items = append(p.Items[:i], p.Items[i+1:]...)
}

// Replace overwrites the item at index i with new, adjusting FreeSpace by
// the size delta. The caller must already have checked the adjusted free
// space does not go negative.
func Replace(p *model.Page, i int, newItem model.Item) {
	old := p.Items[i]
	p.FreeSpace = uint16(int(p.FreeSpace) + old.Size() - newItem.Size())
	p.Items[i] = newItem
}

// Encode serializes p into an exact 256-byte buffer: header, then items
// in array order. Trailing bytes beyond the last item are left zeroed
// (the contract only requires that exactly 256 bytes are written, not
// what the unused tail contains).
func Encode(p model.Page) []byte {
	buf := make([]byte, model.PageSize)
	codec.EncodePageHeader(buf, uint16(len(p.Items)), p.FreeSpace, p.NextPageNumber)

	body := buf[model.PageHeaderSize:model.PageHeaderSize]
	for _, it := range p.Items {
		body = codec.EncodeItem(body, it)
	}
	// body was built as a zero-length slice sharing buf's backing array
	// starting right after the header, so the append above already wrote
	// into buf; nothing further to copy.
	return buf
}

// Decode parses a 256-byte buffer into a Page.
func Decode(buf []byte) (p model.Page, err error) {
	if len(buf) != model.PageSize {
		err = lherrors.CorruptionError{Msg: fmt.Sprintf("page buffer has wrong size: %d", len(buf))}
		return
	}

	itemsCount, freeSpace, nextPageNumber, err := codec.DecodePageHeader(buf)
	if err != nil {
		return
	}

	p.FreeSpace = freeSpace
	p.NextPageNumber = nextPageNumber
	p.Items = make([]model.Item, itemsCount)

	rest := buf[model.PageHeaderSize:]
	for i := 0; i < int(itemsCount); i++ {
		var it model.Item
		var consumed int
		it, consumed, err = codec.DecodeItem(rest)
		if err != nil {
			return
		}
		p.Items[i] = it
		rest = rest[consumed:]
	}

	return
}

// Read reads and decodes the page at pageNum from ch.
func Read(ch channel.Channel, pageNum int64) (model.Page, error) {
	buf, err := ch.ReadAt(Offset(pageNum), model.PageSize)
	if err != nil {
		return model.Page{}, err
	}
	return Decode(buf)
}

// Write encodes p and writes it at pageNum in ch.
func Write(ch channel.Channel, pageNum int64, p model.Page) error {
	return ch.WriteAt(Offset(pageNum), Encode(p))
}
