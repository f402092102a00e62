package internal

import (
	"fmt"
	"io"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// TokenKind identifies the lexical class of a token
type TokenKind int

// Token kind constants
const (
	TokenKindUnparsed TokenKind = iota
	TokenKindStartTag
	TokenKindEndTag
	TokenKindWord
	TokenKindNumber
	TokenKindString
	TokenKindSymbol
	TokenKindWhitespace
)

// Token kind names for debugging
const (
	TokenKindNameUnparsed   = "UNPARSED"
	TokenKindNameStartTag   = "START_TAG"
	TokenKindNameEndTag     = "END_TAG"
	TokenKindNameWord       = "WORD"
	TokenKindNameNumber     = "NUMBER"
	TokenKindNameString     = "STRING"
	TokenKindNameSymbol     = "SYMBOL"
	TokenKindNameWhitespace = "WHITESPACE"
)

// String returns the string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenKindUnparsed:
		return TokenKindNameUnparsed
	case TokenKindStartTag:
		return TokenKindNameStartTag
	case TokenKindEndTag:
		return TokenKindNameEndTag
	case TokenKindWord:
		return TokenKindNameWord
	case TokenKindNumber:
		return TokenKindNameNumber
	case TokenKindString:
		return TokenKindNameString
	case TokenKindSymbol:
		return TokenKindNameSymbol
	case TokenKindWhitespace:
		return TokenKindNameWhitespace
	default:
		return TokenKindNameUnparsed
	}
}

// Token is one lexical unit read from a template.
// For string tokens Value holds the unescaped content while Length covers the
// quoted source text.
type Token struct {
	Kind     TokenKind
	Value    string
	Position Position
	Length   int
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("Token{%s @ %s}", t.Kind, t.Position)
	}
	return fmt.Sprintf("Token{%s: %q @ %s}", t.Kind, t.Value, t.Position)
}

// End returns the offset just past the token
func (t Token) End() int {
	return t.Position.Offset + t.Length
}

// TokenSource is a pull-based stream of tokens.
// Next returns io.EOF once the stream is exhausted.
type TokenSource interface {
	Next() (Token, error)
}

// SliceTokenSource serves a prepared token slice. Useful for feeding the lexer
// from tokens produced elsewhere.
type SliceTokenSource struct {
	tokens []Token
	pos    int
}

// NewSliceTokenSource creates a token source over the given tokens
func NewSliceTokenSource(tokens []Token) *SliceTokenSource {
	return &SliceTokenSource{tokens: tokens}
}

// Next implements TokenSource
func (s *SliceTokenSource) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
