package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Writes(t *testing.T) {
	bb := NewByteBuffer(LabelBufferDefaultSize)

	_, _ = bb.WriteString("LBLSIZE=")
	_, _ = bb.Write([]byte("00000000"))
	require.NoError(t, bb.WriteByte(' '))

	assert.Equal(t, "LBLSIZE=00000000 ", string(bb.Bytes()))
}

func TestByteBuffer_Pad(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("NL=4")

	bb.Pad(8, ' ')
	assert.Equal(t, "NL=4    ", string(bb.B))

	bb.Pad(4, ' ')
	assert.Equal(t, 8, bb.Len(), "pad to a shorter length is a no-op")
}

func TestByteBuffer_Overwrite(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("LBLSIZE=00000000")

	bb.Overwrite(8, []byte("00000512"))
	assert.Equal(t, "LBLSIZE=00000512", string(bb.B))

	require.Panics(t, func() { bb.Overwrite(12, []byte("123456")) })
	require.Panics(t, func() { bb.Overwrite(-1, []byte("1")) })
}

func TestByteBuffer_ResetAndWriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.WriteString("ORG='BSQ'")

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "ORG='BSQ'", out.String())

	c := cap(bb.B)
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, c, cap(bb.B))
}

func TestByteBufferPool(t *testing.T) {
	t.Run("reuse resets buffer", func(t *testing.T) {
		p := NewByteBufferPool(64, 1024)
		bb := p.Get()
		_, _ = bb.WriteString("history")
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("oversized buffers are dropped", func(t *testing.T) {
		p := NewByteBufferPool(8, 16)
		bb := NewByteBuffer(32)
		p.Put(bb)
		require.NotSame(t, bb, p.Get())
	})

	t.Run("nil put is ignored", func(t *testing.T) {
		p := NewByteBufferPool(8, 16)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("label pool", func(t *testing.T) {
		bb := GetLabelBuffer()
		require.NotNil(t, bb)
		require.Equal(t, 0, bb.Len())
		PutLabelBuffer(bb)
	})
}
