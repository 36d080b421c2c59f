//go:build unit

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEqual(t *testing.T) {
	t.Run("two byte slices are equal in length and values", func(t *testing.T) {
		// Prepare
		a := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		b := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

		// Execute
		isEqual := IsEqual(a, b)

		// Check
		assert.True(t, isEqual, "slices equal in length and values")
	})

	t.Run("two byte slices are unequal in length", func(t *testing.T) {
		// Prepare
		a := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		b := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

		// Execute
		isEqual := IsEqual(a, b)

		// Check
		assert.False(t, isEqual, "slices unequal in length")
	})

	t.Run("two byte slices are unequal in values", func(t *testing.T) {
		// Prepare
		a := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		b := []byte{0, 1, 5, 3, 4, 5, 6, 7, 8, 9}

		// Execute
		isEqual := IsEqual(a, b)

		// Check
		assert.False(t, isEqual, "slices unequal in values")
	})
}

func TestNextPow2(t *testing.T) {
	t.Run("rounds up to the nearest power of two", func(t *testing.T) {
		// Prepare
		pow2 := []uint32{1, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096}
		input := []uint32{1, 3, 5, 9, 30, 50, 100, 129, 512, 1020, 1500, 3000}

		// Execute and Check
		for i := range input {
			r := NextPow2(input[i])
			assert.Equal(t, pow2[i], r, "rounds up correctly")
		}
	})

	t.Run("zero rounds up to one", func(t *testing.T) {
		assert.Equal(t, uint32(1), NextPow2(0), "zero treated as one bucket")
	})
}
