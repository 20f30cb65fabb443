package label

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/errs"
)

func collect(t *testing.T, area string) []Token {
	t.Helper()

	var toks []Token
	for tok, err := range NewTokenizer([]byte(area)).All() {
		require.NoError(t, err)
		toks = append(toks, tok)
	}

	return toks
}

func TestTokenizer(t *testing.T) {
	toks := collect(t, "LBLSIZE=512  FORMAT='BYTE'\tNOTE='a  b' \r\nA=(1, 'x y', 3)  B = 4  C=1.5 <km>\x00\x00   ")

	require.Len(t, toks, 6)
	require.Equal(t, Token{Keyword: "LBLSIZE", Raw: "512", Offset: 0}, toks[0])
	require.Equal(t, "FORMAT", toks[1].Keyword)
	require.Equal(t, "'BYTE'", toks[1].Raw)
	require.Equal(t, 13, toks[1].Offset)
	require.Equal(t, "'a  b'", toks[2].Raw)
	require.Equal(t, "(1, 'x y', 3)", toks[3].Raw)
	require.Equal(t, "B", toks[4].Keyword)
	require.Equal(t, "4", toks[4].Raw)
	require.Equal(t, "1.5", toks[5].Raw)
	require.Equal(t, "km", toks[5].Unit)
}

func TestTokenizerQuoteSpansRecords(t *testing.T) {
	toks := collect(t, "A='first\nsecond'  B=1")
	require.Len(t, toks, 2)
	require.Equal(t, "'first\nsecond'", toks[0].Raw)
}

func TestTokenizerNextEOF(t *testing.T) {
	tk := NewTokenizer([]byte("A=1   "))
	_, err := tk.Next()
	require.NoError(t, err)
	_, err = tk.Next()
	require.ErrorIs(t, err, io.EOF)

	tk.Reset()
	require.Equal(t, 0, tk.Offset())
	tok, err := tk.Next()
	require.NoError(t, err)
	require.Equal(t, "A", tok.Keyword)
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name   string
		area   string
		offset int
	}{
		{"missing equals", "ABC 5", 4},
		{"missing value", "ABC=   ", 7},
		{"bad keyword", "A=1 =2", 4},
		{"keyword with leading digit", "A=1 1ABC=2", 4},
		{"unterminated quote", "A='abc", 2},
		{"unbalanced parens", "A=(1,2", 2},
		{"stray paren", "A=1)", 3},
		{"unterminated unit", "A=1 <km", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			for _, e := range NewTokenizer([]byte(tt.area)).All() {
				if e != nil {
					err = e
				}
			}
			require.ErrorIs(t, err, errs.ErrMalformedLabel)

			var mle *errs.MalformedLabelError
			require.True(t, errors.As(err, &mle))
			require.Equal(t, tt.offset, mle.Offset)
		})
	}
}
