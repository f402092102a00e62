package internal

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Tokenize_TagContent(t *testing.T) {
	tokens, err := NewScanner("Hi {~ x + 1 ~}", nil).Tokenize()
	require.NoError(t, err)

	expected := []struct {
		kind   TokenKind
		value  string
		offset int
		length int
	}{
		{TokenKindUnparsed, "Hi ", 0, 3},
		{TokenKindStartTag, "{~", 3, 2},
		{TokenKindWhitespace, " ", 5, 1},
		{TokenKindWord, "x", 6, 1},
		{TokenKindWhitespace, " ", 7, 1},
		{TokenKindSymbol, "+", 8, 1},
		{TokenKindWhitespace, " ", 9, 1},
		{TokenKindNumber, "1", 10, 1},
		{TokenKindWhitespace, " ", 11, 1},
		{TokenKindEndTag, "~}", 12, 2},
	}
	require.Len(t, tokens, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.kind, tokens[i].Kind, "token %d kind", i)
		assert.Equal(t, exp.value, tokens[i].Value, "token %d value", i)
		assert.Equal(t, exp.offset, tokens[i].Position.Offset, "token %d offset", i)
		assert.Equal(t, exp.length, tokens[i].Length, "token %d length", i)
	}
}

func TestScanner_Next_Literals(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   TokenKind
		value  string
		length int
	}{
		{"integer", "{~42", TokenKindNumber, "42", 2},
		{"decimal", "{~3.25", TokenKindNumber, "3.25", 4},
		{"double quoted", `{~"hello"`, TokenKindString, "hello", 7},
		{"single quoted", `{~'it\'s'`, TokenKindString, "it's", 7},
		{"escape newline", `{~"a\nb"`, TokenKindString, "a\nb", 6},
		{"identifier", "{~_name1", TokenKindWord, "_name1", 6},
		{"multibyte symbol", "{~§", TokenKindSymbol, "§", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(tt.source, nil)
			start, err := s.Next()
			require.NoError(t, err)
			require.Equal(t, TokenKindStartTag, start.Kind)

			tok, err := s.Next()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tok.Kind)
			assert.Equal(t, tt.value, tok.Value)
			assert.Equal(t, tt.length, tok.Length)
		})
	}
}

func TestScanner_Next_NumberFollowedByMemberAccess(t *testing.T) {
	tokens, err := NewScanner("{~1.a~}", nil).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "1", tokens[1].Value)
	assert.Equal(t, TokenKindSymbol, tokens[2].Kind)
	assert.Equal(t, "a", tokens[3].Value)
}

func TestScanner_Next_EscapedDelimiter(t *testing.T) {
	tokens, err := NewScanner(`a\{~b`, nil).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, "a", tokens[0].Value)
	assert.Equal(t, "{~", tokens[1].Value)
	assert.Equal(t, 3, tokens[1].Length)
	assert.Equal(t, TokenKindUnparsed, tokens[1].Kind)
	assert.Equal(t, "b", tokens[2].Value)
	assert.Equal(t, 4, tokens[2].Position.Offset)
}

func TestScanner_Next_LineTracking(t *testing.T) {
	tokens, err := NewScanner("line1\n{~ x ~}", nil).Tokenize()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tokens), 3)

	start := tokens[1]
	assert.Equal(t, TokenKindStartTag, start.Kind)
	assert.Equal(t, 2, start.Position.Line)
	assert.Equal(t, 1, start.Position.Column)
	assert.Equal(t, 6, start.Position.Offset)
}

func TestScanner_Next_UnterminatedString(t *testing.T) {
	_, err := NewScanner(`{~ "abc`, nil).Tokenize()
	require.Error(t, err)

	var lexErr *LexingError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, ErrMsgUnterminatedStr, lexErr.Message)
	assert.Equal(t, 3, lexErr.Position.Offset)
}

func TestScanner_Next_CustomDelimiters(t *testing.T) {
	s := NewScannerWithConfig("x <% y %>", ScannerConfig{OpenDelim: "<%", CloseDelim: "%>"}, nil)
	tokens, err := s.Tokenize()
	require.NoError(t, err)

	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{
		TokenKindUnparsed, TokenKindStartTag, TokenKindWhitespace,
		TokenKindWord, TokenKindWhitespace, TokenKindEndTag,
	}, kinds)
}

func TestScanner_Next_EOF(t *testing.T) {
	s := NewScanner("", nil)
	_, err := s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSliceTokenSource_Next(t *testing.T) {
	src := NewSliceTokenSource([]Token{{Kind: TokenKindUnparsed, Value: "a", Length: 1}})

	tok, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Value)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"abc", true},
		{"_x9", true},
		{"A_B", true},
		{"9a", false},
		{"", false},
		{"a-b", false},
		{"a b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsIdentifier(tt.name))
		})
	}
}
