package format

import (
	"strings"

	"github.com/arloliu/vicar/endian"
	"github.com/arloliu/vicar/errs"
)

type (
	Organization    uint8
	DataType        uint8
	IntFormat       uint8
	RealFormat      uint8
	CompressionType uint8
)

const (
	OrgBSQ Organization = 0x1 // OrgBSQ is band sequential: band, line, sample.
	OrgBIL Organization = 0x2 // OrgBIL is band interleaved by line: line, band, sample.
	OrgBIP Organization = 0x3 // OrgBIP is band interleaved by pixel: line, sample, band.

	TypeByte    DataType = 0x1 // TypeByte is an unsigned 8-bit integer.
	TypeHalf    DataType = 0x2 // TypeHalf is a signed 16-bit integer.
	TypeFull    DataType = 0x3 // TypeFull is a signed 32-bit integer.
	TypeReal    DataType = 0x4 // TypeReal is a 32-bit float.
	TypeDouble  DataType = 0x5 // TypeDouble is a 64-bit float.
	TypeComplex DataType = 0x6 // TypeComplex is a pair of 32-bit floats (real, imaginary).

	IntHigh IntFormat = 0x1 // IntHigh is big-endian integers.
	IntLow  IntFormat = 0x2 // IntLow is little-endian integers.

	RealIEEE  RealFormat = 0x1 // RealIEEE is big-endian IEEE 754.
	RealRIEEE RealFormat = 0x2 // RealRIEEE is little-endian IEEE 754.
	RealVAX   RealFormat = 0x3 // RealVAX is VAX F/D floating point.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard frames.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents the S2 stream format.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 frames.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents gzip members.
)

func (o Organization) String() string {
	switch o {
	case OrgBSQ:
		return "BSQ"
	case OrgBIL:
		return "BIL"
	case OrgBIP:
		return "BIP"
	default:
		return "Unknown"
	}
}

// ParseOrganization parses an ORG keyword value.
func ParseOrganization(s string) (Organization, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BSQ":
		return OrgBSQ, nil
	case "BIL":
		return OrgBIL, nil
	case "BIP":
		return OrgBIP, nil
	default:
		return 0, errs.UnsupportedEncoding("ORG", s)
	}
}

func (d DataType) String() string {
	switch d {
	case TypeByte:
		return "BYTE"
	case TypeHalf:
		return "HALF"
	case TypeFull:
		return "FULL"
	case TypeReal:
		return "REAL"
	case TypeDouble:
		return "DOUB"
	case TypeComplex:
		return "COMP"
	default:
		return "Unknown"
	}
}

// Width returns the number of bytes one sample occupies, or 0 for an unknown type.
func (d DataType) Width() int {
	switch d {
	case TypeByte:
		return 1
	case TypeHalf:
		return 2
	case TypeFull, TypeReal:
		return 4
	case TypeDouble, TypeComplex:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether samples of this type are governed by INTFMT.
func (d DataType) IsInteger() bool {
	return d == TypeByte || d == TypeHalf || d == TypeFull
}

// ParseDataType parses a FORMAT keyword value. The legacy spellings WORD, LONG
// and COMPLEX are accepted.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BYTE":
		return TypeByte, nil
	case "HALF", "WORD":
		return TypeHalf, nil
	case "FULL", "LONG":
		return TypeFull, nil
	case "REAL":
		return TypeReal, nil
	case "DOUB":
		return TypeDouble, nil
	case "COMP", "COMPLEX":
		return TypeComplex, nil
	default:
		return 0, errs.UnsupportedEncoding("FORMAT", s)
	}
}

func (f IntFormat) String() string {
	switch f {
	case IntHigh:
		return "HIGH"
	case IntLow:
		return "LOW"
	default:
		return "Unknown"
	}
}

// Engine returns the byte order engine for the integer format.
func (f IntFormat) Engine() endian.EndianEngine {
	if f == IntHigh {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// ParseIntFormat parses an INTFMT or BINTFMT keyword value.
func ParseIntFormat(field, s string) (IntFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return IntHigh, nil
	case "LOW":
		return IntLow, nil
	default:
		return 0, errs.UnsupportedEncoding(field, s)
	}
}

func (f RealFormat) String() string {
	switch f {
	case RealIEEE:
		return "IEEE"
	case RealRIEEE:
		return "RIEEE"
	case RealVAX:
		return "VAX"
	default:
		return "Unknown"
	}
}

// Engine returns the byte order engine of an IEEE real format. VAX reals have
// their own word order and return nil.
func (f RealFormat) Engine() endian.EndianEngine {
	switch f {
	case RealIEEE:
		return endian.GetBigEndianEngine()
	case RealRIEEE:
		return endian.GetLittleEndianEngine()
	default:
		return nil
	}
}

// ParseRealFormat parses a REALFMT or BREALFMT keyword value.
func ParseRealFormat(field, s string) (RealFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IEEE":
		return RealIEEE, nil
	case "RIEEE":
		return RealRIEEE, nil
	case "VAX":
		return RealVAX, nil
	default:
		return 0, errs.UnsupportedEncoding(field, s)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a compression name as used in configuration
// files and command line flags.
func ParseCompressionType(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	default:
		return 0, errs.UnsupportedEncoding("compression", s)
	}
}
