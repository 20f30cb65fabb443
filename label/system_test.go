package label

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
)

func TestNewSystemLabelDefaults(t *testing.T) {
	s, err := NewSystemLabel(format.TypeHalf, format.OrgBSQ, 10, 20, 3)
	require.NoError(t, err)

	require.Equal(t, 40, s.RecordSize)
	require.Equal(t, 40, s.BufSize)
	require.Equal(t, "X86-LINUX", s.Host)
	require.Equal(t, format.IntLow, s.IntFormat)
	require.Equal(t, format.RealRIEEE, s.RealFormat)
	require.Equal(t, format.DefaultType, s.Type)
	require.Equal(t, format.DefaultDim, s.Dim)
	require.Zero(t, s.LabelSize)
	require.False(t, s.EOL)
}

func TestNewSystemLabelOptions(t *testing.T) {
	s, err := NewSystemLabel(format.TypeReal, format.OrgBIP, 2, 3, 5,
		WithHost("SUN-SOLR", format.IntHigh, format.RealIEEE),
		WithBinaryPrefix(8),
		WithBinaryHeader(2),
		WithBinaryLabelType("CASSINI-ISS"),
		WithTrailer(),
		WithReservedLabelSize(1000),
	)
	require.NoError(t, err)

	require.Equal(t, 8+5*4, s.RecordSize)
	require.Equal(t, 1008, s.LabelSize, "reserved size rounds up to a record multiple")
	require.Equal(t, 2, s.HeaderLines)
	require.Equal(t, "CASSINI-ISS", s.BinaryLabelType)
	require.Equal(t, format.IntHigh, s.BinaryIntFormat)
	require.True(t, s.EOL)

	g := s.Geometry()
	require.Equal(t, 2*s.RecordSize, g.HeaderBytes)
	require.Equal(t, 8, g.PrefixBytes)
	require.Equal(t, 4, g.SampleWidth)
}

func TestSystemLabelDims(t *testing.T) {
	tests := []struct {
		org        format.Organization
		n1, n2, n3 int
	}{
		{format.OrgBSQ, 20, 10, 3},
		{format.OrgBIL, 20, 3, 10},
		{format.OrgBIP, 3, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.org.String(), func(t *testing.T) {
			s, err := NewSystemLabel(format.TypeByte, tt.org, 10, 20, 3)
			require.NoError(t, err)
			require.Equal(t, tt.n1, s.N1())
			require.Equal(t, tt.n2, s.N2())
			require.Equal(t, tt.n3, s.N3())
			require.Equal(t, tt.n1, s.RecordSize)
		})
	}
}

func TestSystemLabelValidate(t *testing.T) {
	base, err := NewSystemLabel(format.TypeByte, format.OrgBSQ, 4, 4, 1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*SystemLabel)
		field  string
		target error
	}{
		{"empty type", func(s *SystemLabel) { s.Type = "" }, KeywordType, errs.ErrInvalidSystemLabel},
		{"zero lines", func(s *SystemLabel) { s.Lines = 0 }, KeywordLines, errs.ErrInvalidSystemLabel},
		{"header overflow", func(s *SystemLabel) { s.HeaderLines = math.MaxInt / 2 }, KeywordHeaderLines, errs.ErrInvalidSystemLabel},
		{"region overflow", func(s *SystemLabel) { s.Lines = math.MaxInt / 2 }, KeywordLines, errs.ErrInvalidSystemLabel},
		{"zero samples", func(s *SystemLabel) { s.Samples = 0 }, KeywordSamples, errs.ErrInvalidSystemLabel},
		{"zero bands", func(s *SystemLabel) { s.Bands = 0 }, KeywordBands, errs.ErrInvalidSystemLabel},
		{"short record", func(s *SystemLabel) { s.RecordSize = 3 }, KeywordRecordSize, errs.ErrInvalidSystemLabel},
		{"label not record multiple", func(s *SystemLabel) { s.LabelSize = 510 }, KeywordLabelSize, errs.ErrInvalidSystemLabel},
		{"label too large", func(s *SystemLabel) { s.LabelSize = format.MaxLabelSize + 1 }, KeywordLabelSize, errs.ErrInvalidSystemLabel},
		{"negative prefix", func(s *SystemLabel) { s.PrefixBytes = -1 }, KeywordPrefixBytes, errs.ErrInvalidSystemLabel},
		{"dim 2 with bands", func(s *SystemLabel) { s.Dim, s.Bands = 2, 2 }, KeywordDim, errs.ErrInvalidSystemLabel},
		{"bad dim", func(s *SystemLabel) { s.Dim = 4 }, KeywordDim, errs.ErrInvalidSystemLabel},
		{"bad format", func(s *SystemLabel) { s.Format = 0 }, KeywordFormat, errs.ErrUnsupportedEncoding},
		{"bad org", func(s *SystemLabel) { s.Org = 9 }, KeywordOrg, errs.ErrUnsupportedEncoding},
		{"bad intfmt", func(s *SystemLabel) { s.IntFormat = 9 }, KeywordIntFormat, errs.ErrUnsupportedEncoding},
		{"compressed", func(s *SystemLabel) { s.Compress = "BASIC" }, KeywordCompress, errs.ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			err := s.Validate()
			require.ErrorIs(t, err, tt.target)

			var isl *errs.InvalidSystemLabelError
			var uee *errs.UnsupportedEncodingError
			switch {
			case errors.As(err, &isl):
				require.Equal(t, tt.field, isl.Field)
			case errors.As(err, &uee):
				require.Equal(t, tt.field, uee.Field)
			default:
				t.Fatalf("unexpected error type %T", err)
			}
		})
	}

	s := base
	s.Compress = "none"
	require.NoError(t, s.Validate())
}

func TestSystemLabelCodec(t *testing.T) {
	s, err := NewSystemLabel(format.TypeFull, format.OrgBSQ, 1, 1, 1, WithHost("VAX-VMS", format.IntLow, format.RealVAX))
	require.NoError(t, err)

	c, err := s.Codec()
	require.NoError(t, err)
	require.Equal(t, 4, c.Width())
}

func TestSystemKeywords(t *testing.T) {
	kws := SystemKeywords()
	require.Equal(t, KeywordLabelSize, kws[0])
	require.Equal(t, KeywordCompress, kws[len(kws)-1])
	kws[0] = "X"
	require.Equal(t, KeywordLabelSize, SystemKeywords()[0])
}
