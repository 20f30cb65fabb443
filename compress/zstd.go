package compress

// ZstdCompressor writes Zstandard frames.
//
// The default build uses the pure Go klauspost/compress implementation;
// building with the gozstd tag switches to the cgo binding of the reference
// library. Both produce standard frames and read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec at the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
