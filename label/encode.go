package label

import (
	"fmt"
	"strconv"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/internal/pool"
)

const tokenSeparator = "  "

// Encode renders the system label and the groups of store into a label area.
//
// The area is padded with spaces to a multiple of RECSIZE, and never shrinks
// below sys.LabelSize when that is set. The returned area carries its own
// size in LBLSIZE; sys is not modified.
func Encode(sys SystemLabel, store *Store) ([]byte, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}

	bb := pool.GetLabelBuffer()
	defer pool.PutLabelBuffer(bb)

	writeSizeField(bb)
	writeSystem(bb, sys)
	if err := writeGroups(bb, store); err != nil {
		return nil, err
	}

	return finish(bb, sys.RecordSize, sys.LabelSize)
}

// EncodeTrailer renders a trailer (EOL) label area holding the groups of
// store. reserve, when positive, is the minimum area size.
func EncodeTrailer(store *Store, recordSize, reserve int) ([]byte, error) {
	if recordSize <= 0 {
		return nil, errs.InvalidSystemLabel(KeywordRecordSize, "must be positive, got %d", recordSize)
	}

	bb := pool.GetLabelBuffer()
	defer pool.PutLabelBuffer(bb)

	writeSizeField(bb)
	if err := writeGroups(bb, store); err != nil {
		return nil, err
	}

	return finish(bb, recordSize, reserve)
}

// writeSizeField writes LBLSIZE with a zero placeholder; finish fills in the
// digits once the area size is known.
func writeSizeField(bb *pool.ByteBuffer) {
	_, _ = bb.WriteString(format.LabelSizePrefix)
	for range format.LabelSizeDigits {
		_ = bb.WriteByte('0')
	}
}

func writeToken(bb *pool.ByteBuffer, keyword, text string) {
	_, _ = bb.WriteString(tokenSeparator)
	_, _ = bb.WriteString(keyword)
	_ = bb.WriteByte('=')
	_, _ = bb.WriteString(text)
}

func writeInt(bb *pool.ByteBuffer, keyword string, v int) {
	writeToken(bb, keyword, strconv.Itoa(v))
}

func writeString(bb *pool.ByteBuffer, keyword, v string) {
	writeToken(bb, keyword, quote(v))
}

func writeSystem(bb *pool.ByteBuffer, s SystemLabel) {
	writeString(bb, KeywordFormat, s.Format.String())
	if s.Type != "" {
		writeString(bb, KeywordType, s.Type)
	}
	if s.BufSize > 0 {
		writeInt(bb, KeywordBufSize, s.BufSize)
	}
	if s.Dim > 0 {
		writeInt(bb, KeywordDim, s.Dim)
	}
	eol := 0
	if s.EOL {
		eol = 1
	}
	writeInt(bb, KeywordEOL, eol)
	writeInt(bb, KeywordRecordSize, s.RecordSize)
	writeString(bb, KeywordOrg, s.Org.String())
	writeInt(bb, KeywordLines, s.Lines)
	writeInt(bb, KeywordSamples, s.Samples)
	writeInt(bb, KeywordBands, s.Bands)
	writeInt(bb, KeywordN1, s.N1())
	writeInt(bb, KeywordN2, s.N2())
	writeInt(bb, KeywordN3, s.N3())
	writeInt(bb, KeywordN4, 0)
	writeInt(bb, KeywordPrefixBytes, s.PrefixBytes)
	writeInt(bb, KeywordHeaderLines, s.HeaderLines)
	if s.Host != "" {
		writeString(bb, KeywordHost, s.Host)
	}
	writeString(bb, KeywordIntFormat, s.IntFormat.String())
	writeString(bb, KeywordRealFormat, s.RealFormat.String())
	if s.BinaryHost != "" {
		writeString(bb, KeywordBinaryHost, s.BinaryHost)
	}
	if s.BinaryIntFormat != 0 {
		writeString(bb, KeywordBinaryIntFormat, s.BinaryIntFormat.String())
	}
	if s.BinaryRealFormat != 0 {
		writeString(bb, KeywordBinaryRealFormat, s.BinaryRealFormat.String())
	}
	if s.BinaryLabelType != "" {
		writeString(bb, KeywordBinaryLabelType, s.BinaryLabelType)
	}
	if s.Compress != "" {
		writeString(bb, KeywordCompress, s.Compress)
	}
}

func writeGroups(bb *pool.ByteBuffer, store *Store) error {
	if store == nil {
		return nil
	}

	for _, g := range store.All() {
		switch g.Kind() {
		case GroupProperty:
			writeString(bb, KeywordProperty, g.Name())
		case GroupTask:
			writeString(bb, KeywordTask, g.Name())
			if g.User() != "" {
				writeString(bb, KeywordUser, g.User())
			}
			if g.DateTime() != "" {
				writeString(bb, KeywordDateTime, g.DateTime())
			}
		case GroupUnscoped:
		default:
			return fmt.Errorf("invalid group kind %d", g.Kind())
		}

		for _, l := range g.All() {
			if err := l.Validate(); err != nil {
				return err
			}
			text := l.Value.Text()
			if l.Unit != "" {
				text += " <" + l.Unit + ">"
			}
			writeToken(bb, l.Keyword, text)
		}
	}

	return nil
}

// finish converts the rendered text to Latin-1, pads it with spaces to its
// final size and writes that size into the LBLSIZE field.
func finish(bb *pool.ByteBuffer, recordSize, reserve int) ([]byte, error) {
	if !isASCII(string(bb.B)) {
		text, err := encodeText(bb.B)
		if err != nil {
			return nil, err
		}
		bb.Reset()
		_, _ = bb.Write(text)
	}

	size := roundUp(bb.Len(), recordSize)
	if reserve > size {
		size = roundUp(reserve, recordSize)
	}
	if size > format.MaxLabelSize {
		return nil, errs.InvalidSystemLabel(KeywordLabelSize, "label area needs %d bytes, more than %d", size, format.MaxLabelSize)
	}

	bb.Pad(size, format.PadChar)
	bb.Overwrite(len(format.LabelSizePrefix), fmt.Appendf(nil, "%0*d", format.LabelSizeDigits, size))

	return append([]byte(nil), bb.B...), nil
}
