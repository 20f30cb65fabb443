// Package compress provides whole-file compression codecs for VICAR files.
//
// VICAR files are stored uncompressed on disk (the label's COMPRESS keyword
// is NONE), but archives commonly distribute them inside a compressed
// stream. This package wraps a complete file in one self-describing stream
// and recognizes such streams by their magic numbers, so a reader can open
// plain and compressed files alike:
//
//	data, ct, err := compress.Decompress(raw)
//	if err != nil {
//	    return err
//	}
//	log.Printf("file was %s compressed", ct)
//
// # Supported Algorithms
//
//   - None: plain file, passed through unchanged
//   - Zstd: Zstandard frame (klauspost/compress, or valyala/gozstd with the gozstd build tag)
//   - S2: S2 stream format (klauspost/compress/s2)
//   - LZ4: LZ4 frame (pierrec/lz4/v4)
//   - Gzip: gzip member (klauspost/compress/gzip)
//
// Every codec returned by GetCodec is stateless and safe for concurrent use.
// Zstd and LZ4 keep pooled encoders and decoders internally.
//
// # Statistics
//
// Measure compresses with a given algorithm and reports CompressionStats,
// which the vicar pack command prints:
//
//	out, stats, err := compress.Measure(format.CompressionZstd, data)
//	fmt.Printf("%.1f%% saved\n", stats.SpaceSavings())
package compress
