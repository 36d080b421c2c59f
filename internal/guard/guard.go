// Package guard implements a single non-reentrant check: the map is not
// safe for concurrent use, and rather than leave a concurrent-call
// mistake to silently corrupt pages, Guard turns it into an immediate,
// loud error.
package guard

import (
	"sync/atomic"

	"github.com/gostonefire/linearhashmap/lherrors"
)

// Guard is a single-slot reentrancy check.
type Guard struct {
	busy atomic.Bool
}

// Enter marks the guard busy, or fails if it already was.
func (g *Guard) Enter() error {
	if !g.busy.CompareAndSwap(false, true) {
		return lherrors.InvalidArgument{Msg: "concurrent call detected: the map is not safe for concurrent use"}
	}
	return nil
}

// Leave releases the guard. Callers should defer it right after a
// successful Enter.
func (g *Guard) Leave() {
	g.busy.Store(false)
}
