// Package fsm implements a bit-packed free-space map: a sequence of
// 32-byte pages over a channel.Channel, one bit per overflow slot,
// first-fit allocation by scanning for the lowest zero bit via
// math/bits.TrailingZeros8.
package fsm

import (
	"fmt"
	"math/bits"

	"github.com/gostonefire/linearhashmap/channel"
	"github.com/gostonefire/linearhashmap/lherrors"
)

// PageSize is the fixed size in bytes of one FSM page: 256 bits.
const PageSize = 32

const fullByte = 0xFF

// FSM is a bit-packed allocator over a channel.Channel.
type FSM struct {
	ch channel.Channel
}

// Open wraps ch in an FSM, validating that its current size is a whole
// number of 32-byte pages.
func Open(ch channel.Channel) (*FSM, error) {
	size, err := ch.Size()
	if err != nil {
		return nil, err
	}
	if size%PageSize != 0 {
		return nil, lherrors.CorruptionError{Msg: fmt.Sprintf("fsm channel size %d is not a whole number of pages", size)}
	}
	return &FSM{ch: ch}, nil
}

func (m *FSM) pages() (int64, error) {
	size, err := m.ch.Size()
	if err != nil {
		return 0, err
	}
	return size / PageSize, nil
}

func slotLocation(n int64) (pageNum int64, byteInPage int, bitInByte int) {
	pageNum = n / (8 * PageSize)
	bitInPage := n % (8 * PageSize)
	byteInPage = int(bitInPage / 8)
	bitInByte = int(bitInPage % 8)
	return
}

func composeSlot(pageNum int64, byteInPage, bitInByte int) int64 {
	return pageNum*8*PageSize + int64(byteInPage)*8 + int64(bitInByte)
}

func (m *FSM) readPage(pageNum int64) ([]byte, error) {
	return m.ch.ReadAt(pageNum*PageSize, PageSize)
}

func (m *FSM) writePage(pageNum int64, page []byte) error {
	return m.ch.WriteAt(pageNum*PageSize, page)
}

// IsFree returns true if slot n is unallocated (including any slot past
// the end of the currently allocated FSM, which implicitly reads as
// free).
func (m *FSM) IsFree(n int64) (bool, error) {
	pages, err := m.pages()
	if err != nil {
		return false, err
	}

	pageNum, byteInPage, bitInByte := slotLocation(n)
	if pageNum >= pages {
		return true, nil
	}

	page, err := m.readPage(pageNum)
	if err != nil {
		return false, err
	}

	return page[byteInPage]&(1<<bitInByte) == 0, nil
}

// Take marks slot n as taken, lazily creating (zero-filled) any
// intermediate FSM pages that don't exist yet.
func (m *FSM) Take(n int64) error {
	pages, err := m.pages()
	if err != nil {
		return err
	}

	pageNum, byteInPage, bitInByte := slotLocation(n)
	mask := byte(1 << bitInByte)

	var page []byte
	if pageNum < pages {
		page, err = m.readPage(pageNum)
		if err != nil {
			return err
		}
		if page[byteInPage]&mask != 0 {
			return lherrors.CorruptionError{Msg: fmt.Sprintf("fsm slot %d is already taken", n)}
		}
	} else {
		empty := make([]byte, PageSize)
		for p := pages; p < pageNum; p++ {
			if err = m.writePage(p, empty); err != nil {
				return err
			}
		}
		page = make([]byte, PageSize)
	}

	page[byteInPage] |= mask
	return m.writePage(pageNum, page)
}

// Free marks slot n as free. The FSM page covering n must already exist
// and the bit must currently be set.
func (m *FSM) Free(n int64) error {
	pages, err := m.pages()
	if err != nil {
		return err
	}

	pageNum, byteInPage, bitInByte := slotLocation(n)
	if pageNum >= pages {
		return lherrors.CorruptionError{Msg: fmt.Sprintf("cannot free unallocated fsm slot %d", n)}
	}

	page, err := m.readPage(pageNum)
	if err != nil {
		return err
	}

	mask := byte(1 << bitInByte)
	if page[byteInPage]&mask == 0 {
		return lherrors.CorruptionError{Msg: fmt.Sprintf("fsm slot %d is already free", n)}
	}

	page[byteInPage] &^= mask
	return m.writePage(pageNum, page)
}

// FindFreePage returns the lowest-numbered slot whose bit is 0, scanning
// sequentially and skipping any byte equal to 0xFF. If every allocated
// page is full, it returns the slot one past the end of the allocated
// FSM (which implicitly reads as free).
func (m *FSM) FindFreePage() (int64, error) {
	pages, err := m.pages()
	if err != nil {
		return 0, err
	}

	for pageNum := int64(0); pageNum < pages; pageNum++ {
		page, err := m.readPage(pageNum)
		if err != nil {
			return 0, err
		}

		for byteInPage, b := range page {
			if b == fullByte {
				continue
			}
			bitInByte := bits.TrailingZeros8(^b)
			return composeSlot(pageNum, byteInPage, bitInByte), nil
		}
	}

	return composeSlot(pages, 0, 0), nil
}

// CountTaken returns the number of slots currently marked taken across
// every allocated FSM page, used for diagnostics (Map.Stat) and tests.
func (m *FSM) CountTaken() (int64, error) {
	pages, err := m.pages()
	if err != nil {
		return 0, err
	}

	var total int64
	for pageNum := int64(0); pageNum < pages; pageNum++ {
		page, err := m.readPage(pageNum)
		if err != nil {
			return 0, err
		}
		for _, b := range page {
			total += int64(bits.OnesCount8(b))
		}
	}

	return total, nil
}

// TakeFreePage finds the lowest free slot and takes it in one step,
// returning the slot number allocated.
func (m *FSM) TakeFreePage() (int64, error) {
	n, err := m.FindFreePage()
	if err != nil {
		return 0, err
	}
	if err = m.Take(n); err != nil {
		return 0, err
	}
	return n, nil
}
