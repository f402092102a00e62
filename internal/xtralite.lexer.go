package internal

import (
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Lex is one unit produced by the Lexer: *UnparsedLex or *TagLex
type Lex interface {
	// Pos returns the position of the first character of the unit
	Pos() Position
	// Len returns the number of source bytes the unit spans
	Len() int
	lex()
}

// UnparsedLex is a run of plain template text
type UnparsedLex struct {
	Text     string
	Position Position
	Length   int
}

func (u *UnparsedLex) Pos() Position { return u.Position }
func (u *UnparsedLex) Len() int      { return u.Length }
func (u *UnparsedLex) lex()          {}

// TagComponent is one matched component of a tag. Keyword and identifier
// components carry Text; expression components carry a constructed Expression.
type TagComponent struct {
	Text       string
	Expression *Expression
}

// IsExpression reports whether the component holds an expression
func (c TagComponent) IsExpression() bool {
	return c.Expression != nil
}

// String returns the matched text or the canonical expression rendering
func (c TagComponent) String() string {
	if c.Expression != nil {
		return c.Expression.String()
	}
	return c.Text
}

// TagLex is a tag matched against exactly one registered pattern
type TagLex struct {
	Pattern    *TagPattern
	Components []TagComponent
	Position   Position
	Length     int
}

func (t *TagLex) Pos() Position { return t.Position }
func (t *TagLex) Len() int      { return t.Length }
func (t *TagLex) lex()          {}

// String renders the components separated by spaces
func (t *TagLex) String() string {
	parts := make([]string, len(t.Components))
	for i, c := range t.Components {
		parts[i] = c.String()
	}
	return strings.Join(parts, RenderSpace)
}

// LexerOption configures a Lexer
type LexerOption func(*Lexer)

// WithLexerLogger sets the logger used by the lexer
func WithLexerLogger(logger *zap.Logger) LexerOption {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Lexer matches a token stream against registered tag patterns and yields
// one Lex per ReadNext call. Tags and operators must be registered before
// the first read.
type Lexer struct {
	source    TokenSource
	table     *OperatorTable
	tags      []*TagPattern
	tagKeys   map[string]struct{}
	tagNames  map[string]struct{}
	started   bool
	lookahead *Token
	logger    *zap.Logger
}

// NewLexer creates a lexer reading from source with the given operator table
func NewLexer(source TokenSource, table *OperatorTable, opts ...LexerOption) (*Lexer, error) {
	if source == nil {
		return nil, NewArgumentError(ErrMsgNilTokenSource, "")
	}
	if table == nil {
		return nil, NewArgumentError(ErrMsgNilOperatorTable, "")
	}

	l := &Lexer{
		source:   source,
		table:    table,
		tagKeys:  make(map[string]struct{}),
		tagNames: make(map[string]struct{}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger.Debug(LogMsgLexerCreated)
	return l, nil
}

// Tags returns the registered patterns in registration order
func (l *Lexer) Tags() []*TagPattern {
	out := make([]*TagPattern, len(l.tags))
	copy(out, l.tags)
	return out
}

// Table returns the operator table
func (l *Lexer) Table() *OperatorTable {
	return l.table
}

// RegisterTag adds a tag pattern. Equivalent patterns and tag names that
// collide with operator symbols are rejected.
func (l *Lexer) RegisterTag(pattern *TagPattern) error {
	if pattern == nil {
		return NewArgumentError(ErrMsgNilPattern, "")
	}
	if l.started {
		return NewStateError(ErrMsgRegistrationClosed)
	}

	key := pattern.Key()
	if _, exists := l.tagKeys[key]; exists {
		l.logger.Warn(LogMsgTagCollision, zap.String(LogFieldTag, pattern.String()))
		return NewRegistrationError(ErrMsgTagConflict, pattern.String())
	}
	names := pattern.names()
	for _, name := range names {
		if l.table.HasSymbol(name) {
			l.logger.Warn(LogMsgTagCollision, zap.String(LogFieldTag, pattern.String()), zap.String(LogFieldSymbol, name))
			return NewRegistrationError(ErrMsgTagSymbolConflict, name)
		}
	}

	l.tagKeys[key] = struct{}{}
	for _, name := range names {
		l.tagNames[l.table.Comparer().Key(name)] = struct{}{}
	}
	l.tags = append(l.tags, pattern)
	l.logger.Debug(LogMsgTagRegistered, zap.String(LogFieldTag, pattern.String()), zap.Int(LogFieldTagCount, len(l.tags)))
	return nil
}

// MustRegisterTag adds a tag pattern and panics on error
func (l *Lexer) MustRegisterTag(pattern *TagPattern) *Lexer {
	if err := l.RegisterTag(pattern); err != nil {
		panic(err)
	}
	return l
}

// RegisterOperator adds an operator to the lexer's table. Symbols equal to a
// registered tag keyword or identifier are rejected.
func (l *Lexer) RegisterOperator(op Operator) error {
	if op == nil {
		return NewArgumentError(ErrMsgNilOperator, "")
	}
	if l.started {
		return NewStateError(ErrMsgRegistrationClosed)
	}
	for _, symbol := range op.Symbols() {
		if _, taken := l.tagNames[l.table.Comparer().Key(symbol)]; taken {
			l.logger.Warn(LogMsgOperatorCollision, zap.String(LogFieldSymbol, symbol))
			return NewRegistrationError(ErrMsgTagSymbolConflict, symbol)
		}
	}
	return l.table.Register(op)
}

// MustRegisterOperator adds an operator and panics on error
func (l *Lexer) MustRegisterOperator(op Operator) *Lexer {
	if err := l.RegisterOperator(op); err != nil {
		panic(err)
	}
	return l
}

// ReadNext returns the next unit of the template, or nil and io.EOF once
// the input is exhausted
func (l *Lexer) ReadNext() (Lex, error) {
	if !l.started {
		l.started = true
		l.table.Freeze()
	}

	tok, err := l.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenKindUnparsed:
		return l.readUnparsed(tok)
	case TokenKindStartTag:
		return l.readTag(tok)
	default:
		return nil, NewLexingError(ErrMsgUnexpectedToken, tok.Position, tok.Value)
	}
}

func (l *Lexer) next() (Token, error) {
	if l.lookahead != nil {
		tok := *l.lookahead
		l.lookahead = nil
		return tok, nil
	}
	return l.source.Next()
}

// readUnparsed merges consecutive unparsed tokens into one unit
func (l *Lexer) readUnparsed(first Token) (Lex, error) {
	var sb strings.Builder
	sb.WriteString(first.Value)
	last := first

	for {
		tok, err := l.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenKindUnparsed {
			l.lookahead = &tok
			break
		}
		sb.WriteString(tok.Value)
		last = tok
	}

	u := &UnparsedLex{
		Text:     sb.String(),
		Position: first.Position,
		Length:   last.End() - first.Position.Offset,
	}
	l.logger.Debug(LogMsgUnparsedRead, zap.Int(LogFieldOffset, u.Position.Offset), zap.Int(LogFieldLength, u.Length))
	return u, nil
}

// readTag consumes tokens up to the end tag, narrowing the candidate
// patterns as it goes
func (l *Lexer) readTag(start Token) (Lex, error) {
	m := &tagMatcher{lexer: l}
	for _, p := range l.tags {
		m.candidates = append(m.candidates, &candidate{pattern: p})
	}

	var chain []Token
	last := start
	for {
		tok, err := l.next()
		if errors.Is(err, io.EOF) {
			return nil, NewLexingError(ErrMsgUnexpectedEnd, last.Position, last.Value)
		}
		if err != nil {
			return nil, err
		}

		if tok.Kind == TokenKindSymbol {
			chain = append(chain, tok)
			last = tok
			continue
		}
		if len(chain) > 0 {
			if err := m.feedChain(chain); err != nil {
				return nil, err
			}
			chain = nil
		}

		switch tok.Kind {
		case TokenKindWhitespace:
			last = tok
			continue
		case TokenKindWord:
			m.matchWord(tok)
		case TokenKindNumber:
			v, err := ParseNumber(tok.Value)
			if err != nil {
				return nil, NewLexingError(ErrMsgUnexpectedToken, tok.Position, tok.Value)
			}
			m.feedExpression(tok, func(e *Expression) error { return e.FeedLiteral(v) })
		case TokenKindString:
			v := String(tok.Value)
			m.feedExpression(tok, func(e *Expression) error { return e.FeedLiteral(v) })
		case TokenKindEndTag:
			return m.finish(start, tok)
		default:
			return nil, NewLexingError(ErrMsgUnexpectedToken, tok.Position, tok.Value)
		}

		if len(m.candidates) == 0 {
			return nil, m.exhausted(tok)
		}
		last = tok
	}
}
