package pixel

import (
	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/internal/hash"
)

// Buffer is a pixel region: a geometry and a codec over a byte slice.
//
// A Buffer created by View does not copy its bytes, and the bytes may be
// shorter than the geometry declares. Accesses that reach past the end fail
// with errs.ErrTruncatedData; accesses inside the available bytes succeed.
//
// Concurrent reads are safe. Set must not race with other calls.
type Buffer struct {
	geom  Geometry
	codec *Codec
	data  []byte
}

// NewBuffer allocates a zeroed pixel region for g.
func NewBuffer(g Geometry, codec *Codec) (*Buffer, error) {
	if err := check(g, codec); err != nil {
		return nil, err
	}

	return &Buffer{geom: g, codec: codec, data: make([]byte, g.Len())}, nil
}

// View wraps data as the pixel region of g without copying it. data starts
// at the binary header; bytes beyond g.Len() are ignored.
func View(g Geometry, codec *Codec, data []byte) (*Buffer, error) {
	if err := check(g, codec); err != nil {
		return nil, err
	}
	if len(data) > g.Len() {
		data = data[:g.Len()]
	}

	return &Buffer{geom: g, codec: codec, data: data}, nil
}

func check(g Geometry, codec *Codec) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if codec.Width() != g.SampleWidth {
		return errs.InvalidSystemLabel("FORMAT", "codec width %d differs from sample width %d", codec.Width(), g.SampleWidth)
	}

	return nil
}

// Geometry returns the layout of the region.
func (b *Buffer) Geometry() Geometry {
	return b.geom
}

// Codec returns the sample codec.
func (b *Buffer) Codec() *Codec {
	return b.codec
}

// Complete reports whether every byte the geometry declares is present.
func (b *Buffer) Complete() bool {
	return len(b.data) == b.geom.Len()
}

// Bytes returns the available bytes of the region. The slice aliases the
// buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// span returns data[off:off+n] or a TruncatedData error.
func (b *Buffer) span(off, n int) ([]byte, error) {
	if off+n > len(b.data) {
		return nil, errs.TruncatedData(off, n, max(len(b.data)-off, 0))
	}

	return b.data[off : off+n], nil
}

// Window returns the bytes of the sample at (line, sample, band).
func (b *Buffer) Window(line, sample, band int) ([]byte, error) {
	off, err := b.geom.Offset(line, sample, band)
	if err != nil {
		return nil, err
	}

	return b.span(off, b.geom.SampleWidth)
}

// At decodes the sample at (line, sample, band).
func (b *Buffer) At(line, sample, band int) (Sample, error) {
	w, err := b.Window(line, sample, band)
	if err != nil {
		return Sample{}, err
	}

	return b.codec.Decode(w)
}

// Set encodes s at (line, sample, band).
func (b *Buffer) Set(line, sample, band int, s Sample) error {
	w, err := b.Window(line, sample, band)
	if err != nil {
		return err
	}

	return b.codec.Encode(s, w)
}

// SetFloat encodes v at (line, sample, band), rounding for integer types.
func (b *Buffer) SetFloat(line, sample, band int, v float64) error {
	w, err := b.Window(line, sample, band)
	if err != nil {
		return err
	}

	return b.codec.EncodeFloat(v, w)
}

// Header returns the binary header bytes.
func (b *Buffer) Header() ([]byte, error) {
	return b.span(0, b.geom.HeaderBytes)
}

// Record returns record r, prefix included.
func (b *Buffer) Record(r int) ([]byte, error) {
	off, err := b.geom.RecordOffset(r)
	if err != nil {
		return nil, err
	}

	return b.span(off, b.geom.RecordSize)
}

// Prefix returns the binary prefix of record r.
func (b *Buffer) Prefix(r int) ([]byte, error) {
	off, err := b.geom.RecordOffset(r)
	if err != nil {
		return nil, err
	}

	return b.span(off, b.geom.PrefixBytes)
}

// Scan calls fn for every sample in storage order and stops at the first
// error, from fn or from a truncated region.
func (b *Buffer) Scan(fn func(Index, Sample) error) error {
	for idx, off := range b.geom.All() {
		w, err := b.span(off, b.geom.SampleWidth)
		if err != nil {
			return err
		}
		s, err := b.codec.Decode(w)
		if err != nil {
			return err
		}
		if err := fn(idx, s); err != nil {
			return err
		}
	}

	return nil
}

// Digest returns the xxHash64 of the region, record by record.
func (b *Buffer) Digest() (uint64, error) {
	d := hash.NewDigest()

	h, err := b.Header()
	if err != nil {
		return 0, err
	}
	d.Write(h)
	for r := range b.geom.Records() {
		rec, err := b.Record(r)
		if err != nil {
			return 0, err
		}
		d.Write(rec)
	}

	return d.Sum64(), nil
}
