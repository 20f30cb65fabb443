// Package vicar reads and writes VICAR image files.
//
// A VICAR file is a text label area followed by a binary pixel region and,
// when the label sets EOL=1, a trailer label area:
//
//	+--------------------------+
//	| label area (LBLSIZE)     |  system label, property and history groups
//	+--------------------------+
//	| binary header (NLB recs) |
//	| pixel records            |  NBB prefix bytes + N1 samples each
//	+--------------------------+
//	| trailer label (EOL=1)    |  more groups
//	+--------------------------+
//
// # Basic Usage
//
// Reading a file and one of its samples:
//
//	f, err := vicar.Open("image.vic")
//	if err != nil {
//	    return err
//	}
//	s, err := f.Pixels.At(line, sample, band)
//
// Writing a new file:
//
//	sys, _ := label.NewSystemLabel(format.TypeHalf, format.OrgBSQ, 512, 512, 1)
//	f, _ := vicar.New(sys)
//	_ = f.Pixels.Set(0, 0, 0, pixel.IntSample(42))
//	data, _ := vicar.Marshal(f)
//
// # Package Structure
//
// The label and pixel packages hold the format itself; this package ties
// them together and adds file access. Errors carry the kinds defined in the
// errs package and can be tested with errors.Is and errors.As.
package vicar

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/vicar/compress"
	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/label"
	"github.com/arloliu/vicar/pixel"
)

// File is a decoded VICAR file.
//
// BinaryHeader and Pixels alias the bytes the file was parsed from.
type File struct {
	System       label.SystemLabel
	Properties   *label.Store
	BinaryHeader []byte
	Pixels       *pixel.Buffer
	Trailer      *Trailer // nil unless System.EOL
}

// Trailer holds the label area written after the pixel data.
type Trailer struct {
	LabelSize  int
	Properties *label.Store
}

type parseState uint8

const (
	stateStart parseState = iota
	stateLabelSize
	stateSystemLabel
	statePropertyLabels
	stateBinaryHeader
	statePixelBuffer
	stateTrailer
	stateComplete
)

func (s parseState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateLabelSize:
		return "label-size"
	case stateSystemLabel:
		return "system-label"
	case statePropertyLabels:
		return "property-labels"
	case stateBinaryHeader:
		return "binary-header"
	case statePixelBuffer:
		return "pixel-buffer"
	case stateTrailer:
		return "trailer"
	default:
		return "complete"
	}
}

// parser walks a file through the parse states. Each state either advances
// or fails; a failure never leaves a partial File behind.
type parser struct {
	data   []byte
	logger logrus.FieldLogger
	state  parseState
	file   File
	size   int // label area size
	region []byte
}

func (p *parser) enter(s parseState, fields logrus.Fields) {
	p.state = s
	p.logger.WithFields(fields).WithField("state", s.String()).Debug("vicar parse")
}

// Parse decodes a complete VICAR file held in memory. data is not copied.
//
// Label and binary header faults fail immediately. Pixel data shorter than
// the label declares does not: the returned buffer reports
// errs.ErrTruncatedData on the first access past the end.
func Parse(data []byte, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	p := &parser{data: data, logger: cfg.logger}
	p.enter(stateStart, logrus.Fields{"bytes": len(data)})

	steps := []func() error{p.labelSize, p.systemLabel, p.binaryHeader, p.pixelBuffer, p.trailer}
	for _, step := range steps {
		if err := step(); err != nil {
			p.logger.WithError(err).WithField("state", p.state.String()).Debug("vicar parse failed")
			return nil, err
		}
	}
	p.enter(stateComplete, nil)

	return &p.file, nil
}

func (p *parser) labelSize() error {
	size, err := label.ReadLabelSize(p.data)
	if err != nil {
		return err
	}
	p.size = size
	p.enter(stateLabelSize, logrus.Fields{"lblsize": size})

	return nil
}

func (p *parser) systemLabel() error {
	sys, store, err := label.Decode(p.data)
	if err != nil {
		return err
	}
	p.file.System, p.file.Properties = sys, store
	p.region = p.data[p.size:]
	p.enter(stateSystemLabel, logrus.Fields{
		"format": sys.Format.String(),
		"org":    sys.Org.String(),
		"nl":     sys.Lines,
		"ns":     sys.Samples,
		"nb":     sys.Bands,
	})
	p.enter(statePropertyLabels, logrus.Fields{"groups": store.Len()})

	return nil
}

func (p *parser) binaryHeader() error {
	n := p.file.System.Geometry().HeaderBytes
	if n == 0 {
		return nil
	}
	if len(p.region) < n {
		return fmt.Errorf("binary header: %w", errs.TruncatedData(p.size, n, len(p.region)))
	}
	p.file.BinaryHeader = p.region[:n:n]
	p.enter(stateBinaryHeader, logrus.Fields{"bytes": n})

	return nil
}

func (p *parser) pixelBuffer() error {
	codec, err := p.file.System.Codec()
	if err != nil {
		return err
	}
	buf, err := pixel.View(p.file.System.Geometry(), codec, p.region)
	if err != nil {
		return err
	}
	p.file.Pixels = buf
	p.enter(statePixelBuffer, logrus.Fields{"bytes": len(buf.Bytes()), "complete": buf.Complete()})

	return nil
}

func (p *parser) trailer() error {
	if !p.file.System.EOL {
		return nil
	}

	n := p.file.System.Geometry().Len()
	if len(p.region) <= n {
		return fmt.Errorf("trailer label: %w", errs.TruncatedData(p.size+len(p.region), format.LabelSizeFieldWidth, 0))
	}
	size, store, err := label.DecodeTrailer(p.region[n:])
	if err != nil {
		return fmt.Errorf("trailer label: %w", err)
	}
	if rec := p.file.System.RecordSize; size%rec != 0 {
		return fmt.Errorf("trailer label: %w", errs.InvalidSystemLabel(label.KeywordLabelSize, "%d is not a multiple of RECSIZE %d", size, rec))
	}
	p.file.Trailer = &Trailer{LabelSize: size, Properties: store}
	p.enter(stateTrailer, logrus.Fields{"lblsize": size, "groups": store.Len()})

	return nil
}

// ReadFrom reads size bytes from r and parses them.
func ReadFrom(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative size %d", size)
	}
	data := make([]byte, size)
	n, err := r.ReadAt(data, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return Parse(data[:n], opts...)
}

// Open reads the file at path and parses it. Files wrapped in a zstd, S2,
// LZ4 or gzip stream are decompressed first.
func Open(path string, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, ct, err := compress.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.logger.WithFields(logrus.Fields{
		"path":        path,
		"compression": ct.String(),
		"bytes":       len(data),
	}).Debug("vicar open")

	f, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}
