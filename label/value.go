package label

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInt    Kind = 0x1 // KindInt is a signed integer.
	KindReal   Kind = 0x2 // KindReal is a floating point number.
	KindString Kind = 0x3 // KindString is a character string.
	KindArray  Kind = 0x4 // KindArray is an ordered list of values.
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	default:
		return "Invalid"
	}
}

// Value is the right-hand side of a label: an integer, a real, a string or an
// array of values.
//
// Values read from a label area remember their source text when it differs
// from the canonical rendering (a bare string, "1.50", "+5"), so the label is
// written back exactly as it was read. Values built with Int, Real, String and
// Array always render canonically.
type Value struct {
	kind  Kind
	i     int64
	f     float64
	s     string
	elems []Value
	raw   string
}

// Int creates an integer value.
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// Real creates a real value.
func Real(v float64) Value {
	return Value{kind: KindReal, f: v}
}

// String creates a string value.
func String(v string) Value {
	return Value{kind: KindString, s: v}
}

// Array creates an array value. The elements are copied.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: append([]Value(nil), elems...)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the zero Value, which holds no variant.
func (v Value) IsZero() bool {
	return v.kind == 0
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, fmt.Errorf("label value %s is %s, not Int", v.Text(), v.kind)
	}

	return v.i, nil
}

// AsReal returns the number held by v. Integers are widened.
func (v Value) AsReal() (float64, error) {
	switch v.kind {
	case KindReal:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	default:
		return 0, fmt.Errorf("label value %s is %s, not Real", v.Text(), v.kind)
	}
}

// AsString returns the string held by v.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("label value %s is %s, not String", v.Text(), v.kind)
	}

	return v.s, nil
}

// Elems returns a copy of the elements of an array value, or nil for scalars.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}

	return append([]Value(nil), v.elems...)
}

// Len returns the number of elements of an array value and 1 for scalars.
func (v Value) Len() int {
	if v.kind == KindArray {
		return len(v.elems)
	}

	return 1
}

// Equal reports whether v and o hold the same variant and content, ignoring
// how either was spelled in a label area.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindReal:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// Text returns the label text of v: the source spelling when v was read from
// a label area and differs from canonical form, the canonical rendering otherwise.
func (v Value) Text() string {
	if v.raw != "" {
		return v.raw
	}

	return v.canonical()
}

func (v Value) String() string {
	return v.Text()
}

func (v Value) canonical() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return formatReal(v.f)
	case KindString:
		return quote(v.s)
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(e.Text())
		}
		sb.WriteByte(')')

		return sb.String()
	default:
		return ""
	}
}

// MarshalYAML renders v as a plain YAML scalar or sequence.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindReal:
		return v.f, nil
	case KindString:
		return v.s, nil
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			m, err := e.MarshalYAML()
			if err != nil {
				return nil, err
			}
			out[i] = m
		}

		return out, nil
	default:
		return nil, nil
	}
}

func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if strings.ContainsAny(s, ".EIN") {
		return s
	}

	return s + ".0"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var errEmptyValue = errors.New("empty value")

// ParseValue decodes the text of a label value.
//
// Quoted text ('...' or "...", with a doubled quote standing for itself) is a
// string. Parenthesized, comma-separated text is an array. Anything else is an
// integer or a real when it reads as one, and a bare string otherwise.
func ParseValue(text string) (Value, error) {
	if text == "" {
		return Value{}, errEmptyValue
	}

	var v Value
	switch text[0] {
	case '\'', '"':
		s, err := unquote(text)
		if err != nil {
			return Value{}, err
		}
		v = String(s)
	case '(':
		parts, err := splitArray(text)
		if err != nil {
			return Value{}, err
		}
		v = Value{kind: KindArray, elems: make([]Value, 0, len(parts))}
		for _, p := range parts {
			e, err := ParseValue(strings.Trim(p, " \t\r\n\x00"))
			if err != nil {
				return Value{}, fmt.Errorf("array element %d: %w", len(v.elems), err)
			}
			v.elems = append(v.elems, e)
		}
	default:
		v = parseBare(text)
	}

	if v.canonical() != text {
		v.raw = text
	}

	return v, nil
}

func parseBare(text string) Value {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i)
	}
	if looksReal(text) {
		// Fortran writers use D for double precision exponents.
		if f, err := strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(text), 64); err == nil {
			return Real(f)
		}
	}
	switch text {
	case "NaN":
		return Real(math.NaN())
	case "+Inf", "Inf":
		return Real(math.Inf(1))
	case "-Inf":
		return Real(math.Inf(-1))
	}

	return String(text)
}

func looksReal(text string) bool {
	digit := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			digit = true
		case c == '.' || c == '+' || c == '-' || c == 'E' || c == 'e' || c == 'D' || c == 'd':
		default:
			return false
		}
	}

	return digit
}

func unquote(text string) (string, error) {
	q := text[0]
	if len(text) < 2 || text[len(text)-1] != q {
		return "", fmt.Errorf("unterminated quoted string %s", text)
	}

	body := text[1 : len(text)-1]
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == q {
			if i+1 >= len(body) || body[i+1] != q {
				return "", fmt.Errorf("unescaped quote in %s", text)
			}
			i++
		}
		sb.WriteByte(c)
	}

	return sb.String(), nil
}

// splitArray splits "(a,b,c)" at top-level commas.
func splitArray(text string) ([]string, error) {
	if len(text) < 2 || text[len(text)-1] != ')' {
		return nil, fmt.Errorf("unbalanced parentheses in %s", text)
	}

	body := text[1 : len(text)-1]
	if strings.Trim(body, " \t\r\n\x00") == "" {
		return nil, nil
	}

	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '\'', '"':
			end := skipQuoted(body, i)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted string in %s", text)
			}
			i = end - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %s", text)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %s", text)
	}

	return append(parts, body[start:]), nil
}

// skipQuoted returns the index just past the quoted string starting at i, or
// -1 when the quote is never closed.
func skipQuoted[T string | []byte](data T, i int) int {
	q := data[i]
	for j := i + 1; j < len(data); j++ {
		if data[j] != q {
			continue
		}
		if j+1 < len(data) && data[j+1] == q {
			j++
			continue
		}

		return j + 1
	}

	return -1
}
