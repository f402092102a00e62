package internal

import (
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ScannerConfig holds scanner configuration
type ScannerConfig struct {
	OpenDelim  string // Opening tag delimiter (default: "{~")
	CloseDelim string // Closing tag delimiter (default: "~}")
}

// DefaultScannerConfig returns the default scanner configuration
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		OpenDelim:  StrOpenDelim,
		CloseDelim: StrCloseDelim,
	}
}

// escapeOpen returns the escape pattern for this config (e.g., "\{~" for "{~")
func (c ScannerConfig) escapeOpen() string {
	return string(CharBackslash) + c.OpenDelim
}

// Scanner turns template source into a pull-based token stream.
// Outside of tags it produces unparsed text; inside tags it produces words,
// numbers, strings, whitespace runs and single-character symbols.
type Scanner struct {
	source string
	config ScannerConfig
	pos    int  // Current byte position
	line   int  // Current line (1-indexed)
	column int  // Current column (1-indexed)
	inTag  bool // Between a start and an end delimiter
	logger *zap.Logger
}

// NewScanner creates a new scanner with default configuration
func NewScanner(source string, logger *zap.Logger) *Scanner {
	return NewScannerWithConfig(source, DefaultScannerConfig(), logger)
}

// NewScannerWithConfig creates a scanner with custom configuration
func NewScannerWithConfig(source string, config ScannerConfig, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgScannerCreated, zap.Int(LogFieldSource, len(source)))
	return &Scanner{
		source: source,
		config: config,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Next implements TokenSource
func (s *Scanner) Next() (Token, error) {
	if s.isAtEnd() {
		return Token{}, io.EOF
	}
	if s.inTag {
		return s.scanTagToken()
	}

	start := s.currentPosition()

	if s.matchStr(s.config.escapeOpen()) {
		s.advanceN(len(s.config.escapeOpen()))
		return s.token(TokenKindUnparsed, s.config.OpenDelim, start), nil
	}

	if s.matchStr(s.config.OpenDelim) {
		s.advanceN(len(s.config.OpenDelim))
		s.inTag = true
		return s.token(TokenKindStartTag, s.config.OpenDelim, start), nil
	}

	return s.scanText(start), nil
}

// Tokenize drains the scanner into a slice
func (s *Scanner) Tokenize() ([]Token, error) {
	s.logger.Debug(LogMsgScanStart)
	var tokens []Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanText scans text content until the next delimiter or escape sequence
func (s *Scanner) scanText(start Position) Token {
	var sb strings.Builder
	for !s.isAtEnd() {
		if s.matchStr(s.config.escapeOpen()) || s.matchStr(s.config.OpenDelim) {
			break
		}
		sb.WriteByte(s.advance())
	}
	return s.token(TokenKindUnparsed, sb.String(), start)
}

// scanTagToken scans a single token between tag delimiters
func (s *Scanner) scanTagToken() (Token, error) {
	start := s.currentPosition()

	if s.matchStr(s.config.CloseDelim) {
		s.advanceN(len(s.config.CloseDelim))
		s.inTag = false
		return s.token(TokenKindEndTag, s.config.CloseDelim, start), nil
	}

	ch := s.peek()
	switch {
	case isWhitespace(ch):
		for !s.isAtEnd() && isWhitespace(s.peek()) && !s.matchStr(s.config.CloseDelim) {
			s.advance()
		}
		return s.token(TokenKindWhitespace, s.source[start.Offset:s.pos], start), nil
	case isLetter(ch) || ch == CharUnderscore:
		for !s.isAtEnd() && isIdentifierChar(s.peek()) {
			s.advance()
		}
		return s.token(TokenKindWord, s.source[start.Offset:s.pos], start), nil
	case isDigit(ch):
		return s.scanNumber(start), nil
	case ch == CharDoubleQuote || ch == CharSingleQuote:
		return s.scanString(start)
	}

	_, size := utf8.DecodeRuneInString(s.source[s.pos:])
	s.advanceN(size)
	return s.token(TokenKindSymbol, s.source[start.Offset:s.pos], start), nil
}

// scanNumber scans digits with an optional fractional part
func (s *Scanner) scanNumber(start Position) Token {
	for !s.isAtEnd() && isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == CharDot && s.pos+1 < len(s.source) && isDigit(s.source[s.pos+1]) {
		s.advance()
		for !s.isAtEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.token(TokenKindNumber, s.source[start.Offset:s.pos], start)
}

// scanString scans a quoted string literal, resolving escape sequences
func (s *Scanner) scanString(start Position) (Token, error) {
	quote := s.advance()

	var sb strings.Builder
	for !s.isAtEnd() {
		ch := s.peek()
		if ch == quote {
			s.advance()
			return s.token(TokenKindString, sb.String(), start), nil
		}
		if ch == CharBackslash && s.pos+1 < len(s.source) {
			s.advance()
			switch escaped := s.advance(); escaped {
			case 'n':
				sb.WriteByte(CharNewline)
			case 't':
				sb.WriteByte(CharTab)
			case 'r':
				sb.WriteByte(CharCarriageRet)
			default:
				sb.WriteByte(escaped)
			}
			continue
		}
		sb.WriteByte(s.advance())
	}

	return Token{}, NewLexingError(ErrMsgUnterminatedStr, start, "")
}

// token builds a token spanning from start to the current position
func (s *Scanner) token(kind TokenKind, value string, start Position) Token {
	return Token{
		Kind:     kind,
		Value:    value,
		Position: start,
		Length:   s.pos - start.Offset,
	}
}

// Helper methods

// currentPosition returns the current position
func (s *Scanner) currentPosition() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

// peek returns the current character without advancing
func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos]
}

// advance consumes and returns the current character
func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return 0
	}
	ch := s.source[s.pos]
	s.pos++
	if ch == CharNewline {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return ch
}

// advanceN advances by n characters
func (s *Scanner) advanceN(n int) {
	for i := 0; i < n && !s.isAtEnd(); i++ {
		s.advance()
	}
}

// matchStr returns true if the remaining source starts with str
func (s *Scanner) matchStr(str string) bool {
	return str != "" && strings.HasPrefix(s.source[s.pos:], str)
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == CharUnderscore
}

func isWhitespace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet
}

// IsIdentifier reports whether name matches [A-Za-z_][A-Za-z0-9_]*
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if !isLetter(name[0]) && name[0] != CharUnderscore {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentifierChar(name[i]) {
			return false
		}
	}
	return true
}
