package pixel

import (
	"fmt"
	"math"

	"github.com/arloliu/vicar/errs"
)

// VAX F and D floating point.
//
// Both formats store a sign bit, an 8-bit exponent with bias 128 and a
// normalized fraction 0.1fff... with a hidden leading bit. F has 23 stored
// fraction bits, D has 55. The bits are laid out in 16-bit little-endian
// words with the word holding sign and exponent first:
//
//	F: bytes b0 b1 b2 b3   -> bits b1 b0 b3 b2
//	D: bytes b0..b7        -> bits b1 b0 b3 b2 b5 b4 b7 b6
//
// An exponent of zero means the value is zero when the sign is clear and a
// reserved operand when it is set. Reserved operands decode as NaN.
const (
	vaxBias      = 128
	vaxMaxExp    = 255
	vaxFFracBits = 23
	vaxDFracBits = 55
)

// decodeVAXF decodes a 4-byte VAX F_floating value.
func decodeVAXF(b []byte) float64 {
	v := uint32(b[1])<<24 | uint32(b[0])<<16 | uint32(b[3])<<8 | uint32(b[2])

	return vaxValue(uint64(v)>>31, int(v>>vaxFFracBits)&0xff, uint64(v)&(1<<vaxFFracBits-1), vaxFFracBits)
}

// decodeVAXD decodes an 8-byte VAX D_floating value.
func decodeVAXD(b []byte) float64 {
	var v uint64
	for w := 0; w < 8; w += 2 {
		v = v<<16 | uint64(b[w+1])<<8 | uint64(b[w])
	}

	return vaxValue(v>>63, int(v>>vaxDFracBits)&0xff, v&(1<<vaxDFracBits-1), vaxDFracBits)
}

func vaxValue(sign uint64, exp int, frac uint64, fracBits int) float64 {
	if exp == 0 {
		if sign != 0 {
			return math.NaN()
		}

		return 0
	}

	// 0.1fff x 2^(exp-128) == (2^fracBits + frac) x 2^(exp-128-fracBits-1)
	v := math.Ldexp(float64(1<<fracBits|frac), exp-vaxBias-fracBits-1)
	if sign != 0 {
		return -v
	}

	return v
}

// vaxParts splits f into sign, biased exponent and fraction of fracBits bits.
// Values too small for the format flush to zero.
func vaxParts(f float64, fracBits int) (uint64, uint64, uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, 0, 0, fmt.Errorf("%w: %v has no VAX representation", errs.ErrUnrepresentableValue, f)
	}
	if f == 0 {
		return 0, 0, 0, nil
	}

	var sign uint64
	if f < 0 {
		sign, f = 1, -f
	}

	m, e := math.Frexp(f) // f = m x 2^e, m in [0.5, 1)
	exp := e + vaxBias
	mant := uint64(math.Round(math.Ldexp(m, fracBits+1)))
	if mant == 1<<(fracBits+1) {
		mant >>= 1
		exp++
	}
	if exp > vaxMaxExp {
		return 0, 0, 0, fmt.Errorf("%w: %v exceeds the VAX exponent range", errs.ErrUnrepresentableValue, f)
	}
	if exp < 1 {
		return 0, 0, 0, nil
	}

	return sign, uint64(exp), mant & (1<<fracBits - 1), nil
}

// encodeVAXF writes f as VAX F_floating into dst[:4].
func encodeVAXF(f float64, dst []byte) error {
	sign, exp, frac, err := vaxParts(f, vaxFFracBits)
	if err != nil {
		return err
	}

	v := uint32(sign<<31 | exp<<vaxFFracBits | frac)
	dst[0], dst[1] = byte(v>>16), byte(v>>24)
	dst[2], dst[3] = byte(v), byte(v>>8)

	return nil
}

// encodeVAXD writes f as VAX D_floating into dst[:8].
func encodeVAXD(f float64, dst []byte) error {
	sign, exp, frac, err := vaxParts(f, vaxDFracBits)
	if err != nil {
		return err
	}

	v := sign<<63 | exp<<vaxDFracBits | frac
	for w := 0; w < 8; w += 2 {
		word := v >> (48 - 8*w)
		dst[w], dst[w+1] = byte(word), byte(word>>8)
	}

	return nil
}
