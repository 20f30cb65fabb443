package pixel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
)

func geometry(org format.Organization, lines, samples, bands, width int) Geometry {
	g := Geometry{Org: org, Lines: lines, Samples: samples, Bands: bands, SampleWidth: width}
	n1, _, _ := g.dims()
	g.RecordSize = n1 * width

	return g
}

func TestGeometryOffsetBSQ(t *testing.T) {
	g := geometry(format.OrgBSQ, 4, 4, 1, 1)

	off, err := g.Offset(2, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 2*4+1, off)
	require.Equal(t, 16, g.Len())
}

func TestGeometryOffsetBIL(t *testing.T) {
	g := geometry(format.OrgBIL, 4, 4, 2, 1)

	off, err := g.Offset(1, 0, 1)
	require.NoError(t, err)
	// one image line spans NB records
	lineBytes := g.Samples * g.Bands * g.SampleWidth
	require.Equal(t, lineBytes*1+g.Samples*g.SampleWidth*1+0, off)
	require.Equal(t, 12, off)

	bsq := geometry(format.OrgBSQ, 4, 4, 2, 1)
	bsqOff, err := bsq.Offset(1, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 16+4, bsqOff)
	require.NotEqual(t, bsqOff, off)
}

func TestGeometryOffsetBIP(t *testing.T) {
	g := geometry(format.OrgBIP, 2, 3, 4, 2)
	require.Equal(t, 8, g.RecordSize)

	off, err := g.Offset(1, 2, 3)
	require.NoError(t, err)
	// record = line*NS + sample = 5
	require.Equal(t, 5*8+3*2, off)
}

func TestGeometryPrefixAndHeader(t *testing.T) {
	g := geometry(format.OrgBSQ, 3, 4, 2, 2)
	g.PrefixBytes = 6
	g.RecordSize = 6 + 4*2 + 2 // padded record
	g.HeaderBytes = 2 * g.RecordSize
	require.NoError(t, g.Validate())

	off, err := g.Offset(1, 3, 1)
	require.NoError(t, err)
	// record = band*NL + line = 4
	require.Equal(t, g.HeaderBytes+4*g.RecordSize+6+3*2, off)
	require.Equal(t, g.HeaderBytes+6*g.RecordSize, g.Len())

	r, err := g.RecordOffset(4)
	require.NoError(t, err)
	require.Equal(t, g.HeaderBytes+4*g.RecordSize, r)
	_, err = g.RecordOffset(6)
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	rec, err := g.Record(Index{Line: 1, Sample: 3, Band: 1})
	require.NoError(t, err)
	require.Equal(t, 4, rec)
}

func TestGeometryOutOfRange(t *testing.T) {
	g := geometry(format.OrgBIL, 4, 5, 3, 4)

	for _, idx := range []Index{{-1, 0, 0}, {4, 0, 0}, {0, 5, 0}, {0, 0, 3}, {0, -1, 0}, {0, 0, -1}} {
		_, err := g.Offset(idx.Line, idx.Sample, idx.Band)
		require.ErrorIs(t, err, errs.ErrOutOfRange, "%+v", idx)
	}
}

func TestGeometryInjective(t *testing.T) {
	for _, org := range []format.Organization{format.OrgBSQ, format.OrgBIL, format.OrgBIP} {
		t.Run(org.String(), func(t *testing.T) {
			g := geometry(org, 3, 4, 5, 2)
			g.PrefixBytes = 3
			g.RecordSize += 3
			g.HeaderBytes = g.RecordSize

			seen := make(map[int]Index)
			prev := -1
			for idx, off := range g.All() {
				want, err := g.Offset(idx.Line, idx.Sample, idx.Band)
				require.NoError(t, err)
				require.Equal(t, want, off)
				require.Greater(t, off, prev, "storage order is increasing")
				prev = off

				other, dup := seen[off]
				require.False(t, dup, "%+v and %+v share offset %d", idx, other, off)
				seen[off] = idx
				require.LessOrEqual(t, off+g.SampleWidth, g.Len())
			}
			require.Len(t, seen, g.SampleCount())

			var back []int
			for _, off := range g.Backward() {
				back = append(back, off)
			}
			require.Len(t, back, g.SampleCount())
			require.Equal(t, prev, back[0])
		})
	}
}

func TestGeometryRecords(t *testing.T) {
	g := geometry(format.OrgBIL, 2, 3, 4, 1)
	g.HeaderBytes = 3

	var offs []int
	for r, off := range g.Records() {
		require.Equal(t, len(offs), r)
		offs = append(offs, off)
	}
	require.Equal(t, g.RecordCount(), len(offs))
	require.Equal(t, 8, g.RecordCount())
	require.Equal(t, 3, offs[0])
	require.Equal(t, 3+7*3, offs[7])
}

func TestGeometryValidate(t *testing.T) {
	g := geometry(format.OrgBSQ, 1, 1, 1, 1)
	require.NoError(t, g.Validate())

	bad := g
	bad.RecordSize = 0
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidSystemLabel)

	bad = g
	bad.Org = 0
	require.ErrorIs(t, bad.Validate(), errs.ErrUnsupportedEncoding)

	bad = g
	bad.Lines = 0
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidSystemLabel)
}
