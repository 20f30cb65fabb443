package label

import (
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/arloliu/vicar/errs"
	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/internal/collision"
)

// ReadLabelSize reads the LBLSIZE field at the start of a label area.
//
// The field is read with a fixed-width sub-grammar before anything else is
// tokenized: the literal "LBLSIZE=" at byte 0 followed by at most
// format.LabelSizeDigits decimal digits and a separator. This resolves the
// size of the area without knowing where it ends.
func ReadLabelSize(data []byte) (int, error) {
	prefix := format.LabelSizePrefix
	if len(data) < len(prefix) {
		return 0, errs.TruncatedData(0, format.LabelSizeFieldWidth, len(data))
	}
	if !strings.EqualFold(string(data[:len(prefix)]), prefix) {
		return 0, errs.MalformedLabel(0, "label area must start with %s", prefix)
	}

	start := len(prefix)
	i := start
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	switch {
	case i-start > format.LabelSizeDigits:
		return 0, errs.MalformedLabel(start, "%s value exceeds %d digits", format.LabelSizeKeyword, format.LabelSizeDigits)
	case i == len(data) && len(data) < format.LabelSizeFieldWidth:
		return 0, errs.TruncatedData(0, format.LabelSizeFieldWidth, len(data))
	case i == start:
		return 0, errs.MalformedLabel(start, "%s value is not a decimal integer", format.LabelSizeKeyword)
	case i < len(data) && !isSpace(data[i]):
		return 0, errs.MalformedLabel(i, "unexpected %q after %s value", data[i], format.LabelSizeKeyword)
	}

	size := 0
	for _, c := range data[start:i] {
		size = size*10 + int(c-'0')
	}
	if size == 0 {
		return 0, errs.InvalidSystemLabel(format.LabelSizeKeyword, "must be positive")
	}

	return size, nil
}

// Decode parses a label area into its system label and property store.
// data must start at the label area; bytes beyond LBLSIZE are ignored.
func Decode(data []byte) (SystemLabel, *Store, error) {
	size, err := ReadLabelSize(data)
	if err != nil {
		return SystemLabel{}, nil, err
	}
	if len(data) < size {
		return SystemLabel{}, nil, errs.TruncatedData(0, size, len(data))
	}

	p := newParser(true)
	if err := p.run(data[:size]); err != nil {
		return SystemLabel{}, nil, err
	}

	sys, err := p.systemLabel()
	if err != nil {
		return SystemLabel{}, nil, err
	}
	if sys.LabelSize != size {
		return SystemLabel{}, nil, errs.InvalidSystemLabel(KeywordLabelSize, "token value %d differs from size field %d", sys.LabelSize, size)
	}

	return sys, p.store, nil
}

// DecodeTrailer parses a trailer (EOL) label area. It returns the size of the
// area and its groups.
func DecodeTrailer(data []byte) (int, *Store, error) {
	size, err := ReadLabelSize(data)
	if err != nil {
		return 0, nil, err
	}
	if len(data) < size {
		return 0, nil, errs.TruncatedData(0, size, len(data))
	}

	p := newParser(false)
	if err := p.run(data[:size]); err != nil {
		return 0, nil, err
	}

	return size, p.store, nil
}

type groupBuilder struct {
	kind     GroupKind
	name     string
	user     string
	dateTime string
	offset   int
	labels   []Label
}

type parser struct {
	withSystem bool
	system     map[string]Token
	store      *Store
	cur        *groupBuilder
	seen       *collision.Tracker // keywords of cur
}

func newParser(withSystem bool) *parser {
	return &parser{
		withSystem: withSystem,
		system:     make(map[string]Token, len(systemKeywords)),
		store:      &Store{},
		seen:       collision.NewTracker(),
	}
}

func (p *parser) run(area []byte) error {
	for tok, err := range NewTokenizer(area).All() {
		if err != nil {
			return err
		}
		if err := p.add(tok); err != nil {
			return err
		}
	}

	return p.flush()
}

func (p *parser) add(tok Token) error {
	kw := strings.ToUpper(tok.Keyword)

	switch {
	case tok.Offset == 0 && kw == KeywordLabelSize && !p.withSystem:
		return nil
	case kw == KeywordProperty || kw == KeywordTask:
		return p.open(kw, tok)
	case p.cur != nil && p.cur.kind == GroupTask && kw == KeywordUser && p.cur.user == "":
		s, err := markerName(tok)
		p.cur.user = s
		return err
	case p.cur != nil && p.cur.kind == GroupTask && kw == KeywordDateTime && p.cur.dateTime == "":
		s, err := markerName(tok)
		p.cur.dateTime = s
		return err
	case (p.cur == nil || p.cur.kind == GroupUnscoped) && isSystemKeyword(kw):
		if !p.withSystem {
			return errs.InvalidSystemLabel(kw, "system keyword in trailer label at offset %d", tok.Offset)
		}
		if _, dup := p.system[kw]; dup {
			return errs.MalformedLabel(tok.Offset, "duplicate keyword %s", kw)
		}
		if tok.Unit != "" {
			return errs.InvalidSystemLabel(kw, "unit annotation not allowed")
		}
		p.system[kw] = tok

		return nil
	}

	if p.cur == nil {
		p.cur = &groupBuilder{kind: GroupUnscoped, offset: tok.Offset}
		p.seen.Reset()
	}
	if isReserved(p.cur.kind, kw) {
		return errs.MalformedLabel(tok.Offset, "keyword %s is reserved in %s groups", kw, p.cur.kind)
	}
	if err := p.seen.Track(kw); err != nil {
		return errs.MalformedLabel(tok.Offset, "%v %s in %s group %q", err, kw, p.cur.kind, p.cur.name)
	}

	l, err := decodeLabel(tok)
	if err != nil {
		return err
	}
	p.cur.labels = append(p.cur.labels, l)

	return nil
}

func (p *parser) open(kw string, tok Token) error {
	if err := p.flush(); err != nil {
		return err
	}
	name, err := markerName(tok)
	if err != nil {
		return err
	}
	if name == "" {
		return errs.MalformedLabel(tok.Offset, "%s needs a name", kw)
	}

	kind := GroupProperty
	if kw == KeywordTask {
		kind = GroupTask
	}
	p.cur = &groupBuilder{kind: kind, name: name, offset: tok.Offset}
	p.seen.Reset()

	return nil
}

func (p *parser) flush() error {
	if p.cur == nil {
		return nil
	}
	b := p.cur
	p.cur = nil

	g, err := Group{kind: b.kind, name: b.name, user: b.user, dateTime: b.dateTime}.With(b.labels...)
	if err != nil {
		return errs.MalformedLabel(b.offset, "%v", err)
	}
	if err := p.store.Append(g); err != nil {
		return errs.MalformedLabel(b.offset, "%v", err)
	}

	return nil
}

func markerName(tok Token) (string, error) {
	text, err := decodeText(tok.Raw)
	if err != nil {
		return "", errs.MalformedLabel(tok.Offset, "%v", err)
	}
	v, err := ParseValue(text)
	if err != nil {
		return "", errs.MalformedLabel(tok.Offset, "keyword %s: %v", tok.Keyword, err)
	}
	s, err := v.AsString()
	if err != nil {
		return "", errs.MalformedLabel(tok.Offset, "keyword %s: %v", tok.Keyword, err)
	}

	return s, nil
}

func decodeLabel(tok Token) (Label, error) {
	text, err := decodeText(tok.Raw)
	if err != nil {
		return Label{}, errs.MalformedLabel(tok.Offset, "%v", err)
	}
	v, err := ParseValue(text)
	if err != nil {
		return Label{}, errs.MalformedLabel(tok.Offset, "keyword %s: %v", tok.Keyword, err)
	}
	unit, err := decodeText(tok.Unit)
	if err != nil {
		return Label{}, errs.MalformedLabel(tok.Offset, "%v", err)
	}

	return Label{Keyword: tok.Keyword, Value: v, Unit: unit}, nil
}

func (p *parser) value(kw string) (Value, bool, error) {
	tok, ok := p.system[kw]
	if !ok {
		return Value{}, false, nil
	}
	v, err := ParseValue(tok.Raw)
	if err != nil {
		return Value{}, true, errs.MalformedLabel(tok.Offset, "keyword %s: %v", kw, err)
	}

	return v, true, nil
}

func (p *parser) intField(kw string, required bool, def int) (int, error) {
	v, ok, err := p.value(kw)
	if err != nil {
		return 0, err
	}
	if !ok {
		if required {
			return 0, errs.InvalidSystemLabel(kw, "missing required keyword")
		}
		return def, nil
	}
	i, err := v.AsInt()
	if err != nil {
		return 0, errs.InvalidSystemLabel(kw, "expected integer, got %s", v.Text())
	}

	return int(i), nil
}

func (p *parser) stringField(kw string, required bool) (string, bool, error) {
	v, ok, err := p.value(kw)
	if err != nil {
		return "", false, err
	}
	if !ok {
		if required {
			return "", false, errs.InvalidSystemLabel(kw, "missing required keyword")
		}
		return "", false, nil
	}
	s, err := v.AsString()
	if err != nil {
		return "", false, errs.InvalidSystemLabel(kw, "expected string, got %s", v.Text())
	}
	s, err = decodeText(s)
	if err != nil {
		return "", false, errs.InvalidSystemLabel(kw, "%v", err)
	}

	return s, true, nil
}

func (p *parser) systemLabel() (SystemLabel, error) {
	var (
		s   SystemLabel
		err error
		str string
		ok  bool
	)

	if s.LabelSize, err = p.intField(KeywordLabelSize, true, 0); err != nil {
		return s, err
	}
	if str, _, err = p.stringField(KeywordFormat, true); err != nil {
		return s, err
	}
	if s.Format, err = format.ParseDataType(str); err != nil {
		return s, err
	}
	if str, _, err = p.stringField(KeywordOrg, true); err != nil {
		return s, err
	}
	if s.Org, err = format.ParseOrganization(str); err != nil {
		return s, err
	}
	if s.Lines, err = p.intField(KeywordLines, true, 0); err != nil {
		return s, err
	}
	if s.Samples, err = p.intField(KeywordSamples, true, 0); err != nil {
		return s, err
	}
	if s.Bands, err = p.intField(KeywordBands, true, 0); err != nil {
		return s, err
	}
	if s.PrefixBytes, err = p.intField(KeywordPrefixBytes, false, 0); err != nil {
		return s, err
	}
	if s.HeaderLines, err = p.intField(KeywordHeaderLines, false, 0); err != nil {
		return s, err
	}
	if s.RecordSize, err = p.intField(KeywordRecordSize, false, s.PrefixBytes+s.N1()*s.Format.Width()); err != nil {
		return s, err
	}
	if s.BufSize, err = p.intField(KeywordBufSize, false, 0); err != nil {
		return s, err
	}
	if s.Dim, err = p.intField(KeywordDim, false, 0); err != nil {
		return s, err
	}

	eol, err := p.intField(KeywordEOL, false, 0)
	if err != nil {
		return s, err
	}
	switch eol {
	case 0:
	case 1:
		s.EOL = true
	default:
		return s, errs.InvalidSystemLabel(KeywordEOL, "must be 0 or 1, got %d", eol)
	}

	if s.Type, ok, err = p.stringField(KeywordType, false); err != nil {
		return s, err
	} else if !ok {
		s.Type = format.DefaultType
	}
	if s.Host, _, err = p.stringField(KeywordHost, false); err != nil {
		return s, err
	}
	if s.BinaryHost, _, err = p.stringField(KeywordBinaryHost, false); err != nil {
		return s, err
	}
	if s.BinaryLabelType, _, err = p.stringField(KeywordBinaryLabelType, false); err != nil {
		return s, err
	}
	if s.Compress, _, err = p.stringField(KeywordCompress, false); err != nil {
		return s, err
	}

	s.IntFormat, s.RealFormat = format.DefaultIntFormat, format.DefaultReal
	if str, ok, err = p.stringField(KeywordIntFormat, false); err != nil {
		return s, err
	} else if ok {
		if s.IntFormat, err = format.ParseIntFormat(KeywordIntFormat, str); err != nil {
			return s, err
		}
	}
	if str, ok, err = p.stringField(KeywordRealFormat, false); err != nil {
		return s, err
	} else if ok {
		if s.RealFormat, err = format.ParseRealFormat(KeywordRealFormat, str); err != nil {
			return s, err
		}
	}
	if str, ok, err = p.stringField(KeywordBinaryIntFormat, false); err != nil {
		return s, err
	} else if ok {
		if s.BinaryIntFormat, err = format.ParseIntFormat(KeywordBinaryIntFormat, str); err != nil {
			return s, err
		}
	}
	if str, ok, err = p.stringField(KeywordBinaryRealFormat, false); err != nil {
		return s, err
	} else if ok {
		if s.BinaryRealFormat, err = format.ParseRealFormat(KeywordBinaryRealFormat, str); err != nil {
			return s, err
		}
	}

	if err := p.checkDims(s); err != nil {
		return s, err
	}

	return s, s.Validate()
}

// checkDims verifies N1..N4 against ORG and NL/NS/NB when they are present.
func (p *parser) checkDims(s SystemLabel) error {
	want := []struct {
		kw string
		n  int
	}{
		{KeywordN1, s.N1()}, {KeywordN2, s.N2()}, {KeywordN3, s.N3()},
	}
	for _, w := range want {
		n, err := p.intField(w.kw, false, w.n)
		if err != nil {
			return err
		}
		if n != w.n {
			return errs.InvalidSystemLabel(w.kw, "%d disagrees with ORG=%s NL=%d NS=%d NB=%d (want %d)", n, s.Org, s.Lines, s.Samples, s.Bands, w.n)
		}
	}

	n4, err := p.intField(KeywordN4, false, 0)
	if err != nil {
		return err
	}
	if n4 != 0 && n4 != 1 {
		return errs.InvalidSystemLabel(KeywordN4, "four-dimensional files are not supported, got %d", n4)
	}

	return nil
}

// Label text is ISO-8859-1; strings in the model are UTF-8.
func decodeText(s string) (string, error) {
	if isASCII(s) {
		return s, nil
	}

	return charmap.ISO8859_1.NewDecoder().String(s)
}

func encodeText(b []byte) ([]byte, error) {
	if isASCII(string(b)) {
		return b, nil
	}
	out, err := charmap.ISO8859_1.NewEncoder().Bytes(b)
	if err != nil {
		return nil, errs.UnsupportedEncoding("label text", err.Error())
	}

	return out, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}

	return true
}
