//go:build unit

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostonefire/linearhashmap/internal/model"
)

func TestMetadataRoundTrip(t *testing.T) {
	t.Run("encode then decode reproduces every field", func(t *testing.T) {
		// Prepare
		m := model.Metadata{HashBits: 5, SplitIndex: 9}
		m.OverflowPages[0] = 4
		m.OverflowPages[32] = 2

		// Execute
		buf := EncodeMetadata(m)
		decoded, err := DecodeMetadata(buf)

		// Check
		require.NoError(t, err)
		assert.Len(t, buf, model.MetadataSize)
		assert.Equal(t, m, decoded)
	})

	t.Run("hashBits out of [1,33] is rejected as corruption", func(t *testing.T) {
		// Prepare
		buf := EncodeMetadata(model.Metadata{HashBits: 1})
		buf[0] = 0

		// Execute
		_, err := DecodeMetadata(buf)

		// Check
		assert.Error(t, err)
	})

	t.Run("wrong buffer size is rejected", func(t *testing.T) {
		// Execute
		_, err := DecodeMetadata(make([]byte, 10))

		// Check
		assert.Error(t, err)
	})
}

func TestPageHeaderRoundTrip(t *testing.T) {
	t.Run("encode then decode reproduces itemsCount, freeSpace and nextPageNumber", func(t *testing.T) {
		// Prepare
		buf := make([]byte, model.PageHeaderSize)

		// Execute
		EncodePageHeader(buf, 3, 100, -1)
		itemsCount, freeSpace, next, err := DecodePageHeader(buf)

		// Check
		require.NoError(t, err)
		assert.Equal(t, uint16(3), itemsCount)
		assert.Equal(t, uint16(100), freeSpace)
		assert.Equal(t, int32(-1), next)
	})

	t.Run("nextPageNumber below -1 is rejected as corruption", func(t *testing.T) {
		// Prepare
		buf := make([]byte, model.PageHeaderSize)
		EncodePageHeader(buf, 0, 248, -2)

		// Execute
		_, _, _, err := DecodePageHeader(buf)

		// Check
		assert.Error(t, err)
	})
}

func TestItemRoundTrip(t *testing.T) {
	t.Run("encode then decode reproduces hash, key and value", func(t *testing.T) {
		// Prepare
		it := model.Item{Hash: -42, Key: []byte("key1"), Value: []byte("value - 1")}

		// Execute
		buf := EncodeItem(nil, it)
		decoded, consumed, err := DecodeItem(buf)

		// Check
		require.NoError(t, err)
		assert.Equal(t, len(buf), consumed)
		assert.Equal(t, it, decoded)
	})

	t.Run("a run of items decodes back to back using the consumed count", func(t *testing.T) {
		// Prepare
		a := model.Item{Hash: 1, Key: []byte("a"), Value: []byte("1")}
		b := model.Item{Hash: 2, Key: []byte("bb"), Value: []byte("22")}
		var buf []byte
		buf = EncodeItem(buf, a)
		buf = EncodeItem(buf, b)

		// Execute
		first, n1, err := DecodeItem(buf)
		require.NoError(t, err)
		second, n2, err := DecodeItem(buf[n1:])
		require.NoError(t, err)

		// Check
		assert.Equal(t, a, first)
		assert.Equal(t, b, second)
		assert.Equal(t, len(buf), n1+n2)
	})

	t.Run("a length prefix overrunning the buffer is rejected as corruption", func(t *testing.T) {
		// Prepare
		it := model.Item{Hash: 1, Key: []byte("key"), Value: []byte("value")}
		buf := EncodeItem(nil, it)

		// Execute
		_, _, err := DecodeItem(buf[:len(buf)-2])

		// Check
		assert.Error(t, err)
	})
}
