package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Keyword computes the xxHash64 of a label keyword. Keywords are
// case-insensitive, so the hash is taken over the upper-case form.
func Keyword(keyword string) uint64 {
	return xxhash.Sum64String(strings.ToUpper(keyword))
}

// Digest accumulates an xxHash64 over a sequence of byte windows.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty Digest.
func NewDigest() Digest {
	return Digest{d: xxhash.New()}
}

// Write adds p to the digest.
func (d Digest) Write(p []byte) {
	_, _ = d.d.Write(p)
}

// Sum64 returns the current hash value.
func (d Digest) Sum64() uint64 {
	return d.d.Sum64()
}
