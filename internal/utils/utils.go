package utils

import "bytes"

// IsEqual - Returns true if a and b are equal both in size and contents
func IsEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// NextPow2 - Returns n rounded up to the nearest power of two. NextPow2(1)
// returns 1 (it is already a power of two).
func NextPow2(n uint32) uint32 {
	if n <= 1 {
		return 1
	}

	p := uint32(1)
	for p < n {
		p <<= 1
	}

	return p
}
