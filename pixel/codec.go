package pixel

import (
	"fmt"
	"math"

	"github.com/arloliu/vicar/endian"
	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
)

// SampleKind tells which variant a Sample holds.
type SampleKind uint8

const (
	SampleInt     SampleKind = 0x1 // SampleInt holds BYTE, HALF and FULL values.
	SampleFloat   SampleKind = 0x2 // SampleFloat holds REAL and DOUB values.
	SampleComplex SampleKind = 0x3 // SampleComplex holds COMP values.
)

// Sample is one decoded pixel value.
type Sample struct {
	kind SampleKind
	i    int64
	c    complex128
}

// IntSample creates an integer sample.
func IntSample(v int64) Sample {
	return Sample{kind: SampleInt, i: v}
}

// FloatSample creates a real sample.
func FloatSample(v float64) Sample {
	return Sample{kind: SampleFloat, c: complex(v, 0)}
}

// ComplexSample creates a complex sample.
func ComplexSample(v complex128) Sample {
	return Sample{kind: SampleComplex, c: v}
}

// Kind returns the variant held by s.
func (s Sample) Kind() SampleKind {
	return s.kind
}

// Int returns s as an integer. Real values are truncated toward zero and
// complex values use their real part.
func (s Sample) Int() int64 {
	if s.kind == SampleInt {
		return s.i
	}

	return int64(real(s.c))
}

// Float returns s as a float64. Complex values use their real part.
func (s Sample) Float() float64 {
	if s.kind == SampleInt {
		return float64(s.i)
	}

	return real(s.c)
}

// Complex returns s as a complex128.
func (s Sample) Complex() complex128 {
	if s.kind == SampleInt {
		return complex(float64(s.i), 0)
	}

	return s.c
}

func (s Sample) String() string {
	switch s.kind {
	case SampleInt:
		return fmt.Sprint(s.i)
	case SampleComplex:
		return fmt.Sprint(s.c)
	default:
		return fmt.Sprint(real(s.c))
	}
}

// Codec converts sample windows to and from values for one data type and
// one pair of byte order descriptors.
//
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	dataType format.DataType
	intFmt   format.IntFormat
	realFmt  format.RealFormat
	width    int
	ints     endian.EndianEngine
	reals    endian.EndianEngine // nil for VAX
}

// NewCodec creates a codec for dataType with the given integer and real
// formats. Integers follow intFmt; REAL, DOUB and COMP follow realFmt.
//
// Returns errs.ErrUnsupportedEncoding when any descriptor is not recognized.
func NewCodec(dataType format.DataType, intFmt format.IntFormat, realFmt format.RealFormat) (*Codec, error) {
	width := dataType.Width()
	if width == 0 {
		return nil, errs.UnsupportedEncoding("FORMAT", dataType.String())
	}
	if intFmt != format.IntHigh && intFmt != format.IntLow {
		return nil, errs.UnsupportedEncoding("INTFMT", intFmt.String())
	}
	reals := realFmt.Engine()
	if reals == nil && realFmt != format.RealVAX {
		return nil, errs.UnsupportedEncoding("REALFMT", realFmt.String())
	}

	return &Codec{
		dataType: dataType,
		intFmt:   intFmt,
		realFmt:  realFmt,
		width:    width,
		ints:     intFmt.Engine(),
		reals:    reals,
	}, nil
}

// DataType returns the sample data type.
func (c *Codec) DataType() format.DataType {
	return c.dataType
}

// Width returns the sample width in bytes.
func (c *Codec) Width() int {
	return c.width
}

// SameEncoding reports whether o produces the same bytes as c for every
// sample. Integer codecs ignore the real format and vice versa.
func (c *Codec) SameEncoding(o *Codec) bool {
	if c.dataType != o.dataType {
		return false
	}
	if c.dataType.IsInteger() {
		return c.dataType == format.TypeByte || c.intFmt == o.intFmt
	}

	return c.realFmt == o.realFmt
}

// Decode converts the first Width bytes of window into a sample.
//
// Returns errs.ErrTruncatedData when window is shorter than Width; no
// partial value is ever returned.
func (c *Codec) Decode(window []byte) (Sample, error) {
	if len(window) < c.width {
		return Sample{}, errs.TruncatedData(0, c.width, len(window))
	}

	switch c.dataType {
	case format.TypeByte:
		return IntSample(int64(window[0])), nil
	case format.TypeHalf:
		return IntSample(int64(int16(c.ints.Uint16(window)))), nil
	case format.TypeFull:
		return IntSample(int64(int32(c.ints.Uint32(window)))), nil
	case format.TypeReal:
		return FloatSample(c.real32(window)), nil
	case format.TypeDouble:
		return FloatSample(c.real64(window)), nil
	default:
		return ComplexSample(complex(c.real32(window), c.real32(window[4:]))), nil
	}
}

func (c *Codec) real32(b []byte) float64 {
	if c.reals == nil {
		return decodeVAXF(b)
	}

	return float64(math.Float32frombits(c.reals.Uint32(b)))
}

func (c *Codec) real64(b []byte) float64 {
	if c.reals == nil {
		return decodeVAXD(b)
	}

	return math.Float64frombits(c.reals.Uint64(b))
}

// Encode writes s into the first Width bytes of dst, converting it to the
// codec's data type.
//
// Returns errs.ErrUnrepresentableValue when the value does not fit the data
// type (an integer out of range, a non-integral value for an integer type,
// or a real outside the VAX range) and errs.ErrTruncatedData when dst is
// shorter than Width. dst is left untouched on error.
func (c *Codec) Encode(s Sample, dst []byte) error {
	if len(dst) < c.width {
		return errs.TruncatedData(0, c.width, len(dst))
	}

	if c.dataType.IsInteger() {
		v, err := c.integer(s)
		if err != nil {
			return err
		}
		switch c.dataType {
		case format.TypeByte:
			dst[0] = byte(v)
		case format.TypeHalf:
			c.ints.PutUint16(dst, uint16(v))
		default:
			c.ints.PutUint32(dst, uint32(v))
		}

		return nil
	}

	switch c.dataType {
	case format.TypeReal:
		return c.putReal32(s.Float(), dst)
	case format.TypeDouble:
		return c.putReal64(s.Float(), dst)
	default:
		v := s.Complex()
		var tmp [8]byte
		if err := c.putReal32(real(v), tmp[:4]); err != nil {
			return err
		}
		if err := c.putReal32(imag(v), tmp[4:]); err != nil {
			return err
		}
		copy(dst, tmp[:])

		return nil
	}
}

// EncodeFloat writes v into dst. Integer types round v to the nearest integer.
func (c *Codec) EncodeFloat(v float64, dst []byte) error {
	if c.dataType.IsInteger() {
		r := math.Round(v)
		if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
			return fmt.Errorf("%w: %v as %s", errs.ErrUnrepresentableValue, v, c.dataType)
		}

		return c.Encode(IntSample(int64(r)), dst)
	}

	return c.Encode(FloatSample(v), dst)
}

func (c *Codec) integer(s Sample) (int64, error) {
	var v int64
	switch s.kind {
	case SampleInt:
		v = s.i
	default:
		f := s.Float()
		if imag(s.c) != 0 || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v as %s", errs.ErrUnrepresentableValue, s, c.dataType)
		}
		v = int64(f)
	}

	var lo, hi int64
	switch c.dataType {
	case format.TypeByte:
		lo, hi = 0, math.MaxUint8
	case format.TypeHalf:
		lo, hi = math.MinInt16, math.MaxInt16
	default:
		lo, hi = math.MinInt32, math.MaxInt32
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %d outside %s range [%d, %d]", errs.ErrUnrepresentableValue, v, c.dataType, lo, hi)
	}

	return v, nil
}

func (c *Codec) putReal32(f float64, dst []byte) error {
	if c.reals == nil {
		var tmp [4]byte
		if err := encodeVAXF(f, tmp[:]); err != nil {
			return err
		}
		copy(dst, tmp[:])

		return nil
	}
	c.reals.PutUint32(dst, math.Float32bits(float32(f)))

	return nil
}

func (c *Codec) putReal64(f float64, dst []byte) error {
	if c.reals == nil {
		var tmp [8]byte
		if err := encodeVAXD(f, tmp[:]); err != nil {
			return err
		}
		copy(dst, tmp[:])

		return nil
	}
	c.reals.PutUint64(dst, math.Float64bits(f))

	return nil
}
