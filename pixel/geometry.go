package pixel

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
)

// Index addresses one sample of the image.
type Index struct {
	Line   int
	Sample int
	Band   int
}

// Geometry describes the physical layout of a pixel region. All offsets are
// relative to the start of the region, which begins with the binary header.
//
// Geometry is a plain value; its methods are safe for concurrent use.
type Geometry struct {
	Org         format.Organization
	Lines       int
	Samples     int
	Bands       int
	SampleWidth int // bytes per sample
	RecordSize  int // bytes per record, prefix included
	PrefixBytes int // binary prefix bytes at the start of each record
	HeaderBytes int // binary header bytes before the first record
}

// Validate checks that the dimensions are positive, that a record can hold
// its prefix and N1 samples, and that the region length fits in an int.
func (g Geometry) Validate() error {
	switch {
	case g.Lines < 1:
		return errs.InvalidSystemLabel("NL", "must be at least 1, got %d", g.Lines)
	case g.Samples < 1:
		return errs.InvalidSystemLabel("NS", "must be at least 1, got %d", g.Samples)
	case g.Bands < 1:
		return errs.InvalidSystemLabel("NB", "must be at least 1, got %d", g.Bands)
	case g.SampleWidth < 1:
		return errs.InvalidSystemLabel("FORMAT", "sample width must be positive, got %d", g.SampleWidth)
	case g.PrefixBytes < 0:
		return errs.InvalidSystemLabel("NBB", "must not be negative, got %d", g.PrefixBytes)
	case g.HeaderBytes < 0:
		return errs.InvalidSystemLabel("NLB", "header bytes must not be negative, got %d", g.HeaderBytes)
	}

	n1, _, _ := g.dims()
	if n1 == 0 {
		return errs.UnsupportedEncoding("ORG", g.Org.String())
	}
	if n1 > (math.MaxInt-g.PrefixBytes)/g.SampleWidth {
		return errs.InvalidSystemLabel("RECSIZE", "NBB + %d x %d bytes overflows", n1, g.SampleWidth)
	}
	if need := g.PrefixBytes + n1*g.SampleWidth; g.RecordSize < need {
		return errs.InvalidSystemLabel("RECSIZE", "%d is smaller than NBB + N1 x %d bytes = %d", g.RecordSize, g.SampleWidth, need)
	}

	_, n2, n3 := g.dims()
	if n2 > math.MaxInt/n3 {
		return errs.InvalidSystemLabel("NL", "%d x %d records overflows", n2, n3)
	}
	if count := n2 * n3; count > (math.MaxInt-g.HeaderBytes)/g.RecordSize {
		return errs.InvalidSystemLabel("NL", "%d records of %d bytes overflow the pixel region", count, g.RecordSize)
	}

	return nil
}

// dims returns (N1, N2, N3) for the organization, or zeros for an unknown one.
func (g Geometry) dims() (int, int, int) {
	switch g.Org {
	case format.OrgBSQ:
		return g.Samples, g.Lines, g.Bands
	case format.OrgBIL:
		return g.Samples, g.Bands, g.Lines
	case format.OrgBIP:
		return g.Bands, g.Samples, g.Lines
	default:
		return 0, 0, 0
	}
}

// axes maps an index onto its (i1, i2, i3) storage coordinates.
func (g Geometry) axes(idx Index) (int, int, int) {
	switch g.Org {
	case format.OrgBIL:
		return idx.Sample, idx.Band, idx.Line
	case format.OrgBIP:
		return idx.Band, idx.Sample, idx.Line
	default:
		return idx.Sample, idx.Line, idx.Band
	}
}

// index is the inverse of axes.
func (g Geometry) index(i1, i2, i3 int) Index {
	switch g.Org {
	case format.OrgBIL:
		return Index{Line: i3, Sample: i1, Band: i2}
	case format.OrgBIP:
		return Index{Line: i3, Sample: i2, Band: i1}
	default:
		return Index{Line: i2, Sample: i1, Band: i3}
	}
}

// Contains reports whether the index lies inside the image.
func (g Geometry) Contains(line, sample, band int) bool {
	return line >= 0 && line < g.Lines &&
		sample >= 0 && sample < g.Samples &&
		band >= 0 && band < g.Bands
}

// Offset returns the byte offset of the sample at (line, sample, band).
//
// The offset is HeaderBytes + r*RecordSize + PrefixBytes + i1*SampleWidth with
// record r = i3*N2 + i2. Distinct indexes never share a window.
//
// Returns an error wrapping errs.ErrOutOfRange when the index lies outside
// the image.
func (g Geometry) Offset(line, sample, band int) (int, error) {
	if !g.Contains(line, sample, band) {
		return 0, errs.OutOfRange(line, sample, band)
	}

	return g.offset(Index{Line: line, Sample: sample, Band: band}), nil
}

func (g Geometry) offset(idx Index) int {
	i1, i2, i3 := g.axes(idx)
	_, n2, _ := g.dims()

	return g.HeaderBytes + (i3*n2+i2)*g.RecordSize + g.PrefixBytes + i1*g.SampleWidth
}

// Record returns the number of the record holding the sample at idx.
func (g Geometry) Record(idx Index) (int, error) {
	if !g.Contains(idx.Line, idx.Sample, idx.Band) {
		return 0, errs.OutOfRange(idx.Line, idx.Sample, idx.Band)
	}
	_, i2, i3 := g.axes(idx)
	_, n2, _ := g.dims()

	return i3*n2 + i2, nil
}

// RecordCount returns the number of pixel records, N2*N3.
func (g Geometry) RecordCount() int {
	_, n2, n3 := g.dims()
	return n2 * n3
}

// RecordOffset returns the byte offset of the start of record r, prefix
// included.
func (g Geometry) RecordOffset(r int) (int, error) {
	if n := g.RecordCount(); r < 0 || r >= n {
		return 0, fmt.Errorf("%w: record %d of %d", errs.ErrOutOfRange, r, n)
	}

	return g.HeaderBytes + r*g.RecordSize, nil
}

// Len returns the length of the pixel region in bytes, binary header included.
func (g Geometry) Len() int {
	return g.HeaderBytes + g.RecordCount()*g.RecordSize
}

// SampleCount returns Lines*Samples*Bands.
func (g Geometry) SampleCount() int {
	return g.Lines * g.Samples * g.Bands
}

// All iterates over every sample in storage order, yielding its index and
// byte offset. Offsets increase monotonically.
func (g Geometry) All() iter.Seq2[Index, int] {
	return func(yield func(Index, int) bool) {
		n1, n2, n3 := g.dims()
		for i3 := range n3 {
			for i2 := range n2 {
				base := g.HeaderBytes + (i3*n2+i2)*g.RecordSize + g.PrefixBytes
				for i1 := range n1 {
					if !yield(g.index(i1, i2, i3), base+i1*g.SampleWidth) {
						return
					}
				}
			}
		}
	}
}

// Backward iterates over every sample in reverse storage order.
func (g Geometry) Backward() iter.Seq2[Index, int] {
	return func(yield func(Index, int) bool) {
		n1, n2, n3 := g.dims()
		for i3 := n3 - 1; i3 >= 0; i3-- {
			for i2 := n2 - 1; i2 >= 0; i2-- {
				base := g.HeaderBytes + (i3*n2+i2)*g.RecordSize + g.PrefixBytes
				for i1 := n1 - 1; i1 >= 0; i1-- {
					if !yield(g.index(i1, i2, i3), base+i1*g.SampleWidth) {
						return
					}
				}
			}
		}
	}
}

// Records iterates over the pixel records in storage order, yielding the
// record number and the offset of its first byte.
func (g Geometry) Records() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for r := range g.RecordCount() {
			if !yield(r, g.HeaderBytes+r*g.RecordSize) {
				return
			}
		}
	}
}
