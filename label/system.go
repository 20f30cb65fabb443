package label

import (
	"math"
	"strings"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/internal/options"
	"github.com/arloliu/vicar/pixel"
)

// System label keywords in canonical order.
const (
	KeywordLabelSize        = format.LabelSizeKeyword
	KeywordFormat           = "FORMAT"
	KeywordType             = "TYPE"
	KeywordBufSize          = "BUFSIZ"
	KeywordDim              = "DIM"
	KeywordEOL              = "EOL"
	KeywordRecordSize       = "RECSIZE"
	KeywordOrg              = "ORG"
	KeywordLines            = "NL"
	KeywordSamples          = "NS"
	KeywordBands            = "NB"
	KeywordN1               = "N1"
	KeywordN2               = "N2"
	KeywordN3               = "N3"
	KeywordN4               = "N4"
	KeywordPrefixBytes      = "NBB"
	KeywordHeaderLines      = "NLB"
	KeywordHost             = "HOST"
	KeywordIntFormat        = "INTFMT"
	KeywordRealFormat       = "REALFMT"
	KeywordBinaryHost       = "BHOST"
	KeywordBinaryIntFormat  = "BINTFMT"
	KeywordBinaryRealFormat = "BREALFMT"
	KeywordBinaryLabelType  = "BLTYPE"
	KeywordCompress         = "COMPRESS"
)

var systemKeywords = []string{
	KeywordLabelSize, KeywordFormat, KeywordType, KeywordBufSize, KeywordDim,
	KeywordEOL, KeywordRecordSize, KeywordOrg, KeywordLines, KeywordSamples,
	KeywordBands, KeywordN1, KeywordN2, KeywordN3, KeywordN4, KeywordPrefixBytes,
	KeywordHeaderLines, KeywordHost, KeywordIntFormat, KeywordRealFormat,
	KeywordBinaryHost, KeywordBinaryIntFormat, KeywordBinaryRealFormat,
	KeywordBinaryLabelType, KeywordCompress,
}

var systemKeywordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(systemKeywords))
	for _, k := range systemKeywords {
		m[k] = struct{}{}
	}

	return m
}()

// SystemKeywords returns the system label keywords in canonical order.
func SystemKeywords() []string {
	return append([]string(nil), systemKeywords...)
}

func isSystemKeyword(upper string) bool {
	_, ok := systemKeywordSet[upper]
	return ok
}

// SystemLabel holds the mandatory keywords that define the file geometry and
// encoding. Optional text fields left empty and binary formats left zero are
// not written.
type SystemLabel struct {
	LabelSize        int                 // LBLSIZE: bytes in the label area
	Format           format.DataType     // FORMAT
	Type             string              // TYPE, e.g. IMAGE
	BufSize          int                 // BUFSIZ, 0 when absent
	Dim              int                 // DIM, 0 when absent
	EOL              bool                // EOL: trailer label follows the pixel data
	RecordSize       int                 // RECSIZE
	Org              format.Organization // ORG
	Lines            int                 // NL
	Samples          int                 // NS
	Bands            int                 // NB
	PrefixBytes      int                 // NBB: binary prefix bytes per record
	HeaderLines      int                 // NLB: binary header records
	Host             string              // HOST
	IntFormat        format.IntFormat    // INTFMT
	RealFormat       format.RealFormat   // REALFMT
	BinaryHost       string              // BHOST
	BinaryIntFormat  format.IntFormat    // BINTFMT, 0 when absent
	BinaryRealFormat format.RealFormat   // BREALFMT, 0 when absent
	BinaryLabelType  string              // BLTYPE
	Compress         string              // COMPRESS, empty or NONE
}

// SystemOption configures NewSystemLabel.
type SystemOption = options.Option[*SystemLabel]

// WithHost sets the host name and the integer and real formats of the pixel
// data. The binary label descriptors follow the same host.
func WithHost(host string, intFmt format.IntFormat, realFmt format.RealFormat) SystemOption {
	return options.NoError(func(s *SystemLabel) {
		s.Host, s.IntFormat, s.RealFormat = host, intFmt, realFmt
		s.BinaryHost, s.BinaryIntFormat, s.BinaryRealFormat = host, intFmt, realFmt
	})
}

// WithBinaryHost sets BHOST, BINTFMT and BREALFMT, which describe the byte
// order of binary header and prefix data. Zero formats leave the keywords out.
func WithBinaryHost(host string, intFmt format.IntFormat, realFmt format.RealFormat) SystemOption {
	return options.NoError(func(s *SystemLabel) {
		s.BinaryHost, s.BinaryIntFormat, s.BinaryRealFormat = host, intFmt, realFmt
	})
}

// WithBinaryPrefix reserves n bytes of binary prefix at the start of every record.
func WithBinaryPrefix(n int) SystemOption {
	return options.NoError(func(s *SystemLabel) { s.PrefixBytes = n })
}

// WithBinaryHeader reserves n records of binary header before the pixel records.
func WithBinaryHeader(n int) SystemOption {
	return options.NoError(func(s *SystemLabel) { s.HeaderLines = n })
}

// WithBinaryLabelType sets BLTYPE, the name of the binary label layout.
func WithBinaryLabelType(t string) SystemOption {
	return options.NoError(func(s *SystemLabel) { s.BinaryLabelType = t })
}

// WithTrailer marks the file as carrying a trailer (EOL) label.
func WithTrailer() SystemOption {
	return options.NoError(func(s *SystemLabel) { s.EOL = true })
}

// WithReservedLabelSize asks for a label area of at least n bytes, leaving
// room to append history later without moving the pixel data.
func WithReservedLabelSize(n int) SystemOption {
	return options.NoError(func(s *SystemLabel) { s.LabelSize = n })
}

// NewSystemLabel builds a system label for a new image. RECSIZE and BUFSIZ
// are derived from the geometry. Without WithHost the label describes
// little-endian integers and IEEE reals on X86-LINUX.
func NewSystemLabel(dt format.DataType, org format.Organization, lines, samples, bands int, opts ...SystemOption) (SystemLabel, error) {
	s := SystemLabel{
		Format:  dt,
		Type:    format.DefaultType,
		Dim:     format.DefaultDim,
		Org:     org,
		Lines:   lines,
		Samples: samples,
		Bands:   bands,
	}
	opts = append([]SystemOption{WithHost("X86-LINUX", format.IntLow, format.RealRIEEE)}, opts...)
	if err := options.Apply(&s, opts...); err != nil {
		return SystemLabel{}, err
	}

	s.RecordSize = s.PrefixBytes + s.N1()*dt.Width()
	s.BufSize = s.RecordSize
	if s.LabelSize > 0 && s.RecordSize > 0 {
		s.LabelSize = roundUp(s.LabelSize, s.RecordSize)
	}

	if err := s.Validate(); err != nil {
		return SystemLabel{}, err
	}

	return s, nil
}

// N1 returns the number of samples per record: NS for BSQ and BIL, NB for BIP.
func (s SystemLabel) N1() int {
	n1, _, _ := s.dims()
	return n1
}

// N2 returns the number of records per N3 block.
func (s SystemLabel) N2() int {
	_, n2, _ := s.dims()
	return n2
}

// N3 returns the number of record blocks.
func (s SystemLabel) N3() int {
	_, _, n3 := s.dims()
	return n3
}

func (s SystemLabel) dims() (int, int, int) {
	switch s.Org {
	case format.OrgBIL:
		return s.Samples, s.Bands, s.Lines
	case format.OrgBIP:
		return s.Bands, s.Samples, s.Lines
	default:
		return s.Samples, s.Lines, s.Bands
	}
}

// Geometry returns the pixel layout described by the label.
func (s SystemLabel) Geometry() pixel.Geometry {
	return pixel.Geometry{
		Org:         s.Org,
		Lines:       s.Lines,
		Samples:     s.Samples,
		Bands:       s.Bands,
		SampleWidth: s.Format.Width(),
		RecordSize:  s.RecordSize,
		PrefixBytes: s.PrefixBytes,
		HeaderBytes: s.HeaderLines * s.RecordSize,
	}
}

// Codec returns the pixel codec for the label's data type and byte order.
func (s SystemLabel) Codec() (*pixel.Codec, error) {
	return pixel.NewCodec(s.Format, s.IntFormat, s.RealFormat)
}

// Validate checks the invariants that tie the fields together. A zero
// LabelSize is accepted so that writers can leave it to the encoder.
func (s SystemLabel) Validate() error {
	if s.LabelSize < 0 || s.LabelSize > format.MaxLabelSize {
		return errs.InvalidSystemLabel(KeywordLabelSize, "%d outside [0, %d]", s.LabelSize, format.MaxLabelSize)
	}
	if s.Type == "" {
		return errs.InvalidSystemLabel(KeywordType, "must not be empty")
	}
	if s.Format.Width() == 0 {
		return errs.UnsupportedEncoding(KeywordFormat, s.Format.String())
	}
	if s.Org.String() == "Unknown" {
		return errs.UnsupportedEncoding(KeywordOrg, s.Org.String())
	}
	if s.Lines < 1 {
		return errs.InvalidSystemLabel(KeywordLines, "must be at least 1, got %d", s.Lines)
	}
	if s.Samples < 1 {
		return errs.InvalidSystemLabel(KeywordSamples, "must be at least 1, got %d", s.Samples)
	}
	if s.Bands < 1 {
		return errs.InvalidSystemLabel(KeywordBands, "must be at least 1, got %d", s.Bands)
	}
	if s.PrefixBytes < 0 {
		return errs.InvalidSystemLabel(KeywordPrefixBytes, "must not be negative, got %d", s.PrefixBytes)
	}
	if s.HeaderLines < 0 {
		return errs.InvalidSystemLabel(KeywordHeaderLines, "must not be negative, got %d", s.HeaderLines)
	}
	if s.BufSize < 0 {
		return errs.InvalidSystemLabel(KeywordBufSize, "must not be negative, got %d", s.BufSize)
	}
	if s.RecordSize > 0 && s.HeaderLines > math.MaxInt/s.RecordSize {
		return errs.InvalidSystemLabel(KeywordHeaderLines, "%d records of %d bytes overflow", s.HeaderLines, s.RecordSize)
	}
	if err := s.Geometry().Validate(); err != nil {
		return err
	}
	if s.LabelSize > 0 && s.LabelSize%s.RecordSize != 0 {
		return errs.InvalidSystemLabel(KeywordLabelSize, "%d is not a multiple of RECSIZE %d", s.LabelSize, s.RecordSize)
	}
	switch s.Dim {
	case 0, 3:
	case 2:
		if s.Bands != 1 {
			return errs.InvalidSystemLabel(KeywordDim, "DIM=2 requires NB=1, got %d", s.Bands)
		}
	default:
		return errs.InvalidSystemLabel(KeywordDim, "must be 2 or 3, got %d", s.Dim)
	}
	if s.IntFormat.String() == "Unknown" {
		return errs.UnsupportedEncoding(KeywordIntFormat, s.IntFormat.String())
	}
	if s.RealFormat.String() == "Unknown" {
		return errs.UnsupportedEncoding(KeywordRealFormat, s.RealFormat.String())
	}
	if s.BinaryIntFormat != 0 && s.BinaryIntFormat.String() == "Unknown" {
		return errs.UnsupportedEncoding(KeywordBinaryIntFormat, s.BinaryIntFormat.String())
	}
	if s.BinaryRealFormat != 0 && s.BinaryRealFormat.String() == "Unknown" {
		return errs.UnsupportedEncoding(KeywordBinaryRealFormat, s.BinaryRealFormat.String())
	}
	if s.Compress != "" && !strings.EqualFold(s.Compress, format.CompressNone) {
		return errs.UnsupportedEncoding(KeywordCompress, s.Compress)
	}

	return nil
}

func roundUp(n, multiple int) int {
	if r := n % multiple; r != 0 {
		return n + multiple - r
	}

	return n
}
