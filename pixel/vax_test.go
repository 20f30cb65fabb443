package pixel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/errs"
)

func TestVAXFKnownValues(t *testing.T) {
	tests := []struct {
		value float64
		bytes []byte
	}{
		{1.0, []byte{0x80, 0x40, 0x00, 0x00}},
		{-1.0, []byte{0x80, 0xC0, 0x00, 0x00}},
		{0.5, []byte{0x00, 0x40, 0x00, 0x00}},
		{2.0, []byte{0x00, 0x41, 0x00, 0x00}},
		{3.0, []byte{0x40, 0x41, 0x00, 0x00}},
		{0, []byte{0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.value, decodeVAXF(tt.bytes), "% x", tt.bytes)

		got := make([]byte, 4)
		require.NoError(t, encodeVAXF(tt.value, got))
		require.Equal(t, tt.bytes, got, "%v", tt.value)
	}
}

func TestVAXDKnownValues(t *testing.T) {
	tests := []struct {
		value float64
		bytes []byte
	}{
		{1.0, []byte{0x80, 0x40, 0, 0, 0, 0, 0, 0}},
		{-2.0, []byte{0x00, 0xC1, 0, 0, 0, 0, 0, 0}},
		{0.75, []byte{0x40, 0x40, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.value, decodeVAXD(tt.bytes), "% x", tt.bytes)

		got := make([]byte, 8)
		require.NoError(t, encodeVAXD(tt.value, got))
		require.Equal(t, tt.bytes, got, "%v", tt.value)
	}
}

func TestVAXReservedOperand(t *testing.T) {
	require.True(t, math.IsNaN(decodeVAXF([]byte{0x00, 0x80, 0x00, 0x00})))
	require.True(t, math.IsNaN(decodeVAXD([]byte{0x00, 0x80, 0, 0, 0, 0, 0, 0})))
	// exponent zero with sign clear is zero whatever the fraction
	require.Equal(t, 0.0, decodeVAXF([]byte{0x12, 0x00, 0x34, 0x56}))
}

func TestVAXRoundTrip(t *testing.T) {
	values := []float64{math.Pi, -math.E, 1e-30, 6.02e23, 1.5e38, 123456.789, -0.001}

	for _, v := range values {
		f := make([]byte, 4)
		require.NoError(t, encodeVAXF(v, f))
		require.InEpsilon(t, v, decodeVAXF(f), 1e-7, "%v", v)

		d := make([]byte, 8)
		require.NoError(t, encodeVAXD(v, d))
		require.Equal(t, v, decodeVAXD(d), "%v", v)
	}
}

func TestVAXUnrepresentable(t *testing.T) {
	buf := make([]byte, 8)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e39, -1e300} {
		require.ErrorIs(t, encodeVAXF(v, buf), errs.ErrUnrepresentableValue, "%v", v)
		require.ErrorIs(t, encodeVAXD(v, buf), errs.ErrUnrepresentableValue, "%v", v)
	}
}

func TestVAXUnderflow(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	require.NoError(t, encodeVAXF(1e-45, buf))
	require.Equal(t, []byte{0, 0, 0, 0}, buf)
}
