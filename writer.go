package vicar

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/label"
	"github.com/arloliu/vicar/pixel"
)

// New creates a file for sys with zeroed pixels, an empty property store and,
// when sys.EOL is set, an empty trailer.
func New(sys label.SystemLabel, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}

	codec, err := sys.Codec()
	if err != nil {
		return nil, err
	}
	buf, err := pixel.NewBuffer(sys.Geometry(), codec)
	if err != nil {
		return nil, err
	}

	f := &File{System: sys, Properties: &label.Store{}, Pixels: buf}
	if h, _ := buf.Header(); len(h) > 0 {
		f.BinaryHeader = h
	}
	if sys.EOL {
		f.Trailer = &Trailer{Properties: &label.Store{}}
	}
	cfg.logger.WithFields(logrus.Fields{
		"format": sys.Format.String(),
		"org":    sys.Org.String(),
		"bytes":  len(buf.Bytes()),
	}).Debug("vicar new")

	return f, nil
}

// Marshal renders f as a complete VICAR file.
//
// The label areas are re-encoded, so f.System.LabelSize and
// f.Trailer.LabelSize are updated to the sizes written. Parsing the result
// yields a File equal to f.
func Marshal(f *File) ([]byte, error) {
	parts, err := f.render()
	if err != nil {
		return nil, err
	}

	n := 0
	for _, part := range parts {
		n += len(part)
	}
	out := make([]byte, 0, n)
	for _, part := range parts {
		out = append(out, part...)
	}

	return out, nil
}

// Encode writes f to w in the layout Marshal produces.
func Encode(w io.Writer, f *File) error {
	parts, err := f.render()
	if err != nil {
		return err
	}
	for _, part := range parts {
		if _, err := w.Write(part); err != nil {
			return err
		}
	}

	return nil
}

// render returns the label area, the pixel region and the trailer area.
func (f *File) render() ([][]byte, error) {
	if f.Pixels == nil {
		return nil, fmt.Errorf("file has no pixel buffer")
	}
	if err := f.System.Validate(); err != nil {
		return nil, err
	}

	g := f.System.Geometry()
	if f.Pixels.Geometry() != g {
		return nil, errs.InvalidSystemLabel(label.KeywordRecordSize, "pixel buffer layout does not match the system label")
	}
	if !f.Pixels.Complete() {
		return nil, fmt.Errorf("pixel region: %w", errs.TruncatedData(0, g.Len(), len(f.Pixels.Bytes())))
	}
	if f.BinaryHeader != nil && len(f.BinaryHeader) != g.HeaderBytes {
		return nil, errs.InvalidSystemLabel(label.KeywordHeaderLines, "binary header is %d bytes, label declares %d", len(f.BinaryHeader), g.HeaderBytes)
	}
	if f.Trailer != nil && !f.System.EOL && f.Trailer.Properties.Len() > 0 {
		return nil, errs.InvalidSystemLabel(label.KeywordEOL, "trailer labels need EOL=1")
	}

	area, err := label.Encode(f.System, f.Properties)
	if err != nil {
		return nil, err
	}

	region := f.Pixels.Bytes()
	if len(f.BinaryHeader) > 0 {
		h, _ := f.Pixels.Header()
		if &h[0] != &f.BinaryHeader[0] {
			region = append([]byte(nil), region...)
			copy(region, f.BinaryHeader)
		}
	}
	parts := [][]byte{area, region}

	if f.System.EOL {
		t := f.Trailer
		if t == nil {
			t = &Trailer{Properties: &label.Store{}}
		}
		trailer, err := label.EncodeTrailer(t.Properties, f.System.RecordSize, t.LabelSize)
		if err != nil {
			return nil, fmt.Errorf("trailer label: %w", err)
		}
		t.LabelSize = len(trailer)
		f.Trailer = t
		parts = append(parts, trailer)
	}
	f.System.LabelSize = len(area)

	return parts, nil
}
