package compress

import (
	"bytes"
	"fmt"
	"time"

	"github.com/arloliu/vicar/format"
)

// Compressor compresses a whole VICAR file into one self-describing stream.
type Compressor interface {
	// Compress compresses data and returns the compressed stream.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a stream produced by the matching Compressor.
//
// Thread Safety: Decompressor implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses data and returns the original bytes.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with another algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression run.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// CompressionTime is the time taken to compress the data
	CompressionTime time.Duration
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// Measure compresses data with the codec for compressionType and reports
// the result together with its statistics.
func Measure(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	start := time.Now()
	out, err := codec.Compress(data)
	if err != nil {
		return nil, CompressionStats{}, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}

	return out, CompressionStats{
		Algorithm:       compressionType,
		OriginalSize:    int64(len(data)),
		CompressedSize:  int64(len(out)),
		CompressionTime: time.Since(start),
	}, nil
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// Stream magic numbers.
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	s2Magic   = []byte("\xff\x06\x00\x00S2sTwO")
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
	gzipMagic = []byte{0x1F, 0x8B}
)

// Detect identifies the compression of a stream from its first bytes.
// Anything without a known magic number, a plain VICAR file included, is
// reported as format.CompressionNone.
func Detect(head []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(head, s2Magic):
		return format.CompressionS2
	case bytes.HasPrefix(head, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(head, gzipMagic):
		return format.CompressionGzip
	default:
		return format.CompressionNone
	}
}

// Decompress detects the compression of data and decompresses it. Plain
// data is returned as is.
func Decompress(data []byte) ([]byte, format.CompressionType, error) {
	ct := Detect(data)
	codec, err := GetCodec(ct)
	if err != nil {
		return nil, ct, err
	}

	out, err := codec.Decompress(data)
	if err != nil {
		return nil, ct, err
	}

	return out, ct, nil
}
