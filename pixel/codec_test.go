package pixel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
)

func newCodec(t *testing.T, dt format.DataType, ifmt format.IntFormat, rfmt format.RealFormat) *Codec {
	t.Helper()

	c, err := NewCodec(dt, ifmt, rfmt)
	require.NoError(t, err)

	return c
}

func TestCodecIntegers(t *testing.T) {
	tests := []struct {
		name  string
		dt    format.DataType
		ifmt  format.IntFormat
		bytes []byte
		want  int64
	}{
		{"byte", format.TypeByte, format.IntHigh, []byte{0xFF}, 255},
		{"half high", format.TypeHalf, format.IntHigh, []byte{0x01, 0x02}, 0x0102},
		{"half low", format.TypeHalf, format.IntLow, []byte{0x01, 0x02}, 0x0201},
		{"half negative", format.TypeHalf, format.IntHigh, []byte{0xFF, 0xFE}, -2},
		{"full high", format.TypeFull, format.IntHigh, []byte{0x00, 0x01, 0x00, 0x00}, 65536},
		{"full low", format.TypeFull, format.IntLow, []byte{0xFF, 0xFF, 0xFF, 0x7F}, 2147483647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCodec(t, tt.dt, tt.ifmt, format.RealIEEE)

			s, err := c.Decode(tt.bytes)
			require.NoError(t, err)
			require.Equal(t, SampleInt, s.Kind())
			require.Equal(t, tt.want, s.Int())

			out := make([]byte, c.Width())
			require.NoError(t, c.Encode(s, out))
			require.Equal(t, tt.bytes, out)
		})
	}
}

func TestCodecReals(t *testing.T) {
	tests := []struct {
		name  string
		dt    format.DataType
		rfmt  format.RealFormat
		bytes []byte
		want  float64
	}{
		{"real ieee", format.TypeReal, format.RealIEEE, []byte{0x3F, 0x80, 0x00, 0x00}, 1},
		{"real rieee", format.TypeReal, format.RealRIEEE, []byte{0x00, 0x00, 0x80, 0x3F}, 1},
		{"real vax", format.TypeReal, format.RealVAX, []byte{0x80, 0x40, 0x00, 0x00}, 1},
		{"doub ieee", format.TypeDouble, format.RealIEEE, []byte{0x40, 0x00, 0, 0, 0, 0, 0, 0}, 2},
		{"doub rieee", format.TypeDouble, format.RealRIEEE, []byte{0, 0, 0, 0, 0, 0, 0xF0, 0xBF}, -1},
		{"doub vax", format.TypeDouble, format.RealVAX, []byte{0x00, 0x41, 0, 0, 0, 0, 0, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCodec(t, tt.dt, format.IntLow, tt.rfmt)

			s, err := c.Decode(tt.bytes)
			require.NoError(t, err)
			require.Equal(t, SampleFloat, s.Kind())
			require.Equal(t, tt.want, s.Float())

			out := make([]byte, c.Width())
			require.NoError(t, c.Encode(s, out))
			require.Equal(t, tt.bytes, out)
		})
	}
}

func TestCodecComplex(t *testing.T) {
	c := newCodec(t, format.TypeComplex, format.IntLow, format.RealIEEE)
	require.Equal(t, 8, c.Width())

	out := make([]byte, 8)
	require.NoError(t, c.Encode(ComplexSample(complex(1, -2)), out))
	require.Equal(t, []byte{0x3F, 0x80, 0, 0, 0xC0, 0x00, 0, 0}, out)

	s, err := c.Decode(out)
	require.NoError(t, err)
	require.Equal(t, SampleComplex, s.Kind())
	require.Equal(t, complex(1, -2), s.Complex())
	require.Equal(t, 1.0, s.Float())
}

func TestCodecTruncatedWindow(t *testing.T) {
	c := newCodec(t, format.TypeFull, format.IntHigh, format.RealIEEE)

	_, err := c.Decode([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrTruncatedData)
	require.ErrorIs(t, c.Encode(IntSample(1), make([]byte, 2)), errs.ErrTruncatedData)
}

func TestCodecUnrepresentable(t *testing.T) {
	byteCodec := newCodec(t, format.TypeByte, format.IntLow, format.RealIEEE)
	halfCodec := newCodec(t, format.TypeHalf, format.IntLow, format.RealIEEE)
	vaxCodec := newCodec(t, format.TypeReal, format.IntLow, format.RealVAX)

	dst := []byte{9, 9}
	require.ErrorIs(t, byteCodec.Encode(IntSample(256), dst), errs.ErrUnrepresentableValue)
	require.ErrorIs(t, byteCodec.Encode(IntSample(-1), dst), errs.ErrUnrepresentableValue)
	require.ErrorIs(t, halfCodec.Encode(IntSample(40000), dst), errs.ErrUnrepresentableValue)
	require.ErrorIs(t, halfCodec.Encode(FloatSample(1.5), dst), errs.ErrUnrepresentableValue)
	require.Equal(t, []byte{9, 9}, dst, "failed encodes leave dst untouched")

	require.ErrorIs(t, vaxCodec.Encode(FloatSample(3e38), make([]byte, 4)), errs.ErrUnrepresentableValue)

	require.NoError(t, halfCodec.Encode(FloatSample(-3), dst))
	require.Equal(t, []byte{0xFD, 0xFF}, dst)
	require.NoError(t, halfCodec.EncodeFloat(1.6, dst))
	require.Equal(t, []byte{2, 0}, dst)
}

func TestNewCodecErrors(t *testing.T) {
	_, err := NewCodec(0, format.IntLow, format.RealIEEE)
	require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)
	_, err = NewCodec(format.TypeByte, 7, format.RealIEEE)
	require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)
	_, err = NewCodec(format.TypeByte, format.IntLow, 7)
	require.ErrorIs(t, err, errs.ErrUnsupportedEncoding)
}

func TestCodecSameEncoding(t *testing.T) {
	b1 := newCodec(t, format.TypeByte, format.IntHigh, format.RealIEEE)
	b2 := newCodec(t, format.TypeByte, format.IntLow, format.RealVAX)
	h1 := newCodec(t, format.TypeHalf, format.IntHigh, format.RealIEEE)
	h2 := newCodec(t, format.TypeHalf, format.IntLow, format.RealIEEE)
	r1 := newCodec(t, format.TypeReal, format.IntHigh, format.RealVAX)
	r2 := newCodec(t, format.TypeReal, format.IntLow, format.RealVAX)

	require.True(t, b1.SameEncoding(b2))
	require.False(t, h1.SameEncoding(h2))
	require.True(t, r1.SameEncoding(r2))
	require.False(t, b1.SameEncoding(h1))
}

func TestSampleConversions(t *testing.T) {
	require.Equal(t, int64(-3), FloatSample(-3.9).Int())
	require.Equal(t, 7.0, IntSample(7).Float())
	require.Equal(t, complex(7, 0), IntSample(7).Complex())
	require.Equal(t, "7", IntSample(7).String())
	require.Equal(t, "2.5", FloatSample(2.5).String())
}
