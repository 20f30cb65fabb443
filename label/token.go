package label

import (
	"io"
	"iter"

	"github.com/arloliu/vicar/errs"
)

// Token is one KEYWORD=VALUE item of a label area. Raw is the value text as
// it appears in the area: quotes and parentheses included.
type Token struct {
	Keyword string
	Raw     string
	Unit    string
	Offset  int // byte offset of the keyword in the label area
}

// Tokenizer splits a label area into tokens.
//
// Tokens are separated by whitespace outside quotes and parentheses. Space,
// tab, CR, LF and NUL all count as whitespace, so record-boundary line breaks
// and the padding at the end of the area are skipped. A quoted value may span
// records.
//
// The Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	data []byte
	pos  int
}

// NewTokenizer creates a tokenizer over a label area. The area is not copied.
func NewTokenizer(area []byte) *Tokenizer {
	return &Tokenizer{data: area}
}

// Reset rewinds the tokenizer to the start of the area.
func (t *Tokenizer) Reset() {
	t.pos = 0
}

// Offset returns the current read position.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// Next returns the next token, or io.EOF after the last one.
func (t *Tokenizer) Next() (Token, error) {
	t.skipSpace()
	if t.pos >= len(t.data) {
		return Token{}, io.EOF
	}

	start := t.pos
	for t.pos < len(t.data) && isKeywordByte(t.data[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		return Token{}, errs.MalformedLabel(start, "expected keyword, found %q", t.data[start])
	}
	if !isKeywordStart(t.data[start]) {
		return Token{}, errs.MalformedLabel(start, "keyword %s starts with a digit", t.data[start:t.pos])
	}
	tok := Token{Keyword: string(t.data[start:t.pos]), Offset: start}

	t.skipSpace()
	if t.pos >= len(t.data) || t.data[t.pos] != '=' {
		return Token{}, errs.MalformedLabel(t.pos, "expected '=' after keyword %s", tok.Keyword)
	}
	t.pos++
	t.skipSpace()
	if t.pos >= len(t.data) {
		return Token{}, errs.MalformedLabel(t.pos, "missing value for keyword %s", tok.Keyword)
	}

	raw, err := t.scanValue()
	if err != nil {
		return Token{}, err
	}
	tok.Raw = raw

	unit, err := t.scanUnit()
	if err != nil {
		return Token{}, err
	}
	tok.Unit = unit

	return tok, nil
}

// All iterates over the remaining tokens. Iteration stops after the first
// error, which is yielded with a zero Token.
func (t *Tokenizer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := t.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

func (t *Tokenizer) scanValue() (string, error) {
	start := t.pos
	switch c := t.data[start]; c {
	case '\'', '"':
		end := skipQuoted(t.data, start)
		if end < 0 {
			return "", errs.MalformedLabel(start, "unterminated quoted string")
		}
		t.pos = end
	case '(':
		end, err := t.scanArray(start)
		if err != nil {
			return "", err
		}
		t.pos = end
	default:
		for t.pos < len(t.data) && !isSpace(t.data[t.pos]) {
			if b := t.data[t.pos]; b == '(' || b == ')' {
				return "", errs.MalformedLabel(t.pos, "unbalanced parentheses")
			}
			t.pos++
		}
	}

	return string(t.data[start:t.pos]), nil
}

func (t *Tokenizer) scanArray(start int) (int, error) {
	depth := 0
	for i := start; i < len(t.data); i++ {
		switch t.data[i] {
		case '\'', '"':
			end := skipQuoted(t.data, i)
			if end < 0 {
				return 0, errs.MalformedLabel(i, "unterminated quoted string")
			}
			i = end - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}

	return 0, errs.MalformedLabel(start, "unbalanced parentheses")
}

// scanUnit consumes an optional <unit> annotation following a value.
func (t *Tokenizer) scanUnit() (string, error) {
	p := t.pos
	for p < len(t.data) && isSpace(t.data[p]) {
		p++
	}
	if p >= len(t.data) || t.data[p] != '<' {
		return "", nil
	}
	for i := p + 1; i < len(t.data); i++ {
		if t.data[i] == '>' {
			t.pos = i + 1
			return string(t.data[p+1 : i]), nil
		}
	}

	return "", errs.MalformedLabel(p, "unterminated unit annotation")
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.data) && isSpace(t.data[t.pos]) {
		t.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == 0
}
