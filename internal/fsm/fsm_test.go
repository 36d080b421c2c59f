//go:build unit

package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostonefire/linearhashmap/channel"
)

func newFSM(t *testing.T) *FSM {
	ch := channel.NewMemChannel()
	m, err := Open(ch)
	require.NoError(t, err)
	return m
}

func TestTakeFreePage(t *testing.T) {
	t.Run("allocates slots 0..15 in order on an empty fsm", func(t *testing.T) {
		// Prepare
		m := newFSM(t)

		// Execute and Check
		for i := int64(0); i < 16; i++ {
			n, err := m.TakeFreePage()
			require.NoError(t, err)
			assert.Equal(t, i, n)
		}
	})

	t.Run("reuses freed slots in ascending order before extending", func(t *testing.T) {
		// Prepare
		m := newFSM(t)
		for i := 0; i < 16; i++ {
			_, err := m.TakeFreePage()
			require.NoError(t, err)
		}

		// Execute
		require.NoError(t, m.Free(1))
		require.NoError(t, m.Free(5))
		require.NoError(t, m.Free(9))

		first, err := m.TakeFreePage()
		require.NoError(t, err)
		second, err := m.TakeFreePage()
		require.NoError(t, err)
		third, err := m.TakeFreePage()
		require.NoError(t, err)

		// Check
		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(5), second)
		assert.Equal(t, int64(9), third)
	})

	t.Run("take lazily extends across many intermediate fsm pages", func(t *testing.T) {
		// Prepare
		m := newFSM(t)

		// Execute
		err := m.Take(20000)

		// Check
		require.NoError(t, err)
		free, err := m.IsFree(20000)
		require.NoError(t, err)
		assert.False(t, free)
	})
}

func TestTakeAlreadyTaken(t *testing.T) {
	t.Run("taking an already-taken slot fails with corruption", func(t *testing.T) {
		// Prepare
		m := newFSM(t)
		require.NoError(t, m.Take(3))

		// Execute
		err := m.Take(3)

		// Check
		assert.Error(t, err)
	})
}

func TestFreeUnallocated(t *testing.T) {
	t.Run("freeing a never-allocated slot fails with corruption", func(t *testing.T) {
		// Prepare
		m := newFSM(t)

		// Execute
		err := m.Free(100)

		// Check
		assert.Error(t, err)
	})
}

func TestIsFreePastEnd(t *testing.T) {
	t.Run("a slot beyond the allocated fsm reads as free", func(t *testing.T) {
		// Prepare
		m := newFSM(t)

		// Execute
		free, err := m.IsFree(1_000_000)

		// Check
		require.NoError(t, err)
		assert.True(t, free)
	})
}
