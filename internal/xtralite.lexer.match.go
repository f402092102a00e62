package internal

import (
	"strings"

	"go.uber.org/zap"
)

// candidate tracks one registered pattern still compatible with the tag
// being read. Each candidate owns its expression, so alternatives that read
// the same token differently do not interfere.
type candidate struct {
	pattern     *TagPattern
	index       int // component being matched; while expr is open, the expression slot
	components  []TagComponent
	expr        *Expression
	specificity []int
}

// keywordAt reports whether word would be read as a keyword: the current
// component, or the keyword that closes an open expression
func (c *candidate) keywordAt(word string) bool {
	if c.expr != nil {
		return c.pattern.MatchesKeyword(c.index+1, word)
	}
	return c.pattern.MatchesKeyword(c.index, word)
}

// wordsAt lists the keyword or identifier set the current component accepts
func (c *candidate) wordsAt() []string {
	if c.index >= c.pattern.Len() {
		return nil
	}
	comp := c.pattern.Component(c.index)
	switch comp.Kind {
	case ComponentKeyword:
		return []string{comp.Keyword}
	case ComponentIdentifierSet:
		return comp.Identifiers
	default:
		return nil
	}
}

// closingWords lists the keyword that ends the expression slot at index
func (c *candidate) closingWords() []string {
	next := c.index + 1
	if next >= c.pattern.Len() {
		return nil
	}
	if comp := c.pattern.Component(next); comp.Kind == ComponentKeyword {
		return []string{comp.Keyword}
	}
	return nil
}

func (c *candidate) accept(word string, kind ComponentKind) {
	c.components = append(c.components, TagComponent{Text: word})
	c.specificity = append(c.specificity, kind.specificity())
	c.index++
}

func (c *candidate) closeExpression() error {
	if err := c.expr.Construct(); err != nil {
		return err
	}
	c.components = append(c.components, TagComponent{Expression: c.expr})
	c.specificity = append(c.specificity, ComponentExpression.specificity())
	c.expr = nil
	c.index++
	return nil
}

// compareSpecificity orders two candidates component by component. When one
// vector is a prefix of the other the longer one is more specific.
func compareSpecificity(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

// tagMatcher narrows the candidate set of one tag
type tagMatcher struct {
	lexer      *Lexer
	candidates []*candidate
	cause      error    // why the most recent candidate was dropped
	expected   []string // words the candidates dropped by the last word wanted
}

func (m *tagMatcher) drop(c *candidate, tok Token, cause error) {
	if cause != nil {
		m.cause = cause
	}
	m.lexer.logger.Debug(LogMsgCandidateDropped,
		zap.String(LogFieldTag, c.pattern.String()),
		zap.String(LogFieldKind, tok.Kind.String()),
		zap.Int(LogFieldOffset, tok.Position.Offset))
}

// matchWord applies a word token. A keyword reading by any candidate
// eliminates every other reading of the word.
func (m *tagMatcher) matchWord(tok Token) {
	word := tok.Value
	keyword := false
	for _, c := range m.candidates {
		if c.keywordAt(word) {
			keyword = true
			break
		}
	}

	m.expected = m.expected[:0]
	survivors := m.candidates[:0]
	for _, c := range m.candidates {
		if keyword {
			if !c.keywordAt(word) {
				m.drop(c, tok, nil)
				continue
			}
			if c.expr != nil {
				if err := c.closeExpression(); err != nil {
					m.drop(c, tok, err)
					continue
				}
			}
			c.accept(word, ComponentKeyword)
			survivors = append(survivors, c)
			continue
		}

		switch {
		case c.expr != nil || c.pattern.MatchesExpression(c.index):
			if m.feed(c, tok, func(e *Expression) error { return e.FeedSymbol(word) }) {
				survivors = append(survivors, c)
				continue
			}
			m.expected = append(m.expected, c.closingWords()...)
		case c.pattern.MatchesIdentifierSet(c.index, word):
			c.accept(word, ComponentIdentifierSet)
			survivors = append(survivors, c)
		case c.pattern.MatchesAnyIdentifier(c.index):
			c.accept(word, ComponentAnyIdentifier)
			survivors = append(survivors, c)
		default:
			m.expected = append(m.expected, c.wordsAt()...)
			m.drop(c, tok, nil)
		}
	}
	m.candidates = survivors
}

// feedExpression forwards a term to every candidate able to take it in an
// expression slot and drops the rest
func (m *tagMatcher) feedExpression(tok Token, fn func(*Expression) error) {
	survivors := m.candidates[:0]
	for _, c := range m.candidates {
		if c.expr == nil && !c.pattern.MatchesExpression(c.index) {
			m.drop(c, tok, nil)
			continue
		}
		if m.feed(c, tok, fn) {
			survivors = append(survivors, c)
		}
	}
	m.candidates = survivors
}

// feed opens the candidate's expression on demand and applies fn to it
func (m *tagMatcher) feed(c *candidate, tok Token, fn func(*Expression) error) bool {
	if c.expr == nil {
		expr, err := NewExpression(m.lexer.table)
		if err != nil {
			m.drop(c, tok, err)
			return false
		}
		c.expr = expr
	}
	if err := fn(c.expr); err != nil {
		m.drop(c, tok, err)
		return false
	}
	return true
}

// feedChain splits a run of adjacent symbol tokens into operator symbols and
// feeds them one by one
func (m *tagMatcher) feedChain(chain []Token) error {
	var sb strings.Builder
	for _, tok := range chain {
		sb.WriteString(tok.Value)
	}

	pieces, failed := m.lexer.table.SplitSymbols(sb.String())
	if failed >= 0 {
		tok := tokenAt(chain, failed)
		return NewLexingError(ErrMsgUnresolvedSymbols, tok.Position, sb.String()[failed:])
	}

	offset := 0
	for _, piece := range pieces {
		tok := tokenAt(chain, offset)
		m.feedExpression(tok, func(e *Expression) error { return e.FeedSymbol(piece) })
		if len(m.candidates) == 0 {
			return m.exhausted(tok)
		}
		offset += len(piece)
	}
	return nil
}

// tokenAt returns the chain token covering the byte offset of the joined chain
func tokenAt(chain []Token, offset int) Token {
	for _, tok := range chain {
		if offset < len(tok.Value) {
			return tok
		}
		offset -= len(tok.Value)
	}
	return chain[len(chain)-1]
}

// finish closes open expressions at the end tag and picks the single most
// specific complete candidate
func (m *tagMatcher) finish(start, end Token) (Lex, error) {
	var complete []*candidate
	for _, c := range m.candidates {
		if c.expr != nil {
			if err := c.closeExpression(); err != nil {
				m.drop(c, end, err)
				continue
			}
		}
		if c.index != c.pattern.Len() {
			m.drop(c, end, nil)
			continue
		}
		complete = append(complete, c)
	}

	if len(complete) == 0 {
		err := NewLexingError(ErrMsgNoMatchingTag, end.Position, "")
		err.Cause = m.cause
		m.lexer.logger.Debug(LogMsgTagRejected, zap.Int(LogFieldOffset, start.Position.Offset))
		return nil, err
	}

	best, tied := complete[0], false
	for _, c := range complete[1:] {
		switch cmp := compareSpecificity(c.specificity, best.specificity); {
		case cmp > 0:
			best, tied = c, false
		case cmp == 0:
			tied = true
		}
	}
	if tied {
		return nil, NewLexingError(ErrMsgAmbiguousTag, start.Position, best.pattern.String())
	}

	m.lexer.logger.Debug(LogMsgTagMatched,
		zap.String(LogFieldTag, best.pattern.String()),
		zap.Int(LogFieldOffset, start.Position.Offset),
		zap.Int(LogFieldCandidates, len(complete)))

	return &TagLex{
		Pattern:    best.pattern,
		Components: best.components,
		Position:   start.Position,
		Length:     end.End() - start.Position.Offset,
	}, nil
}

// exhausted reports that no candidate survived tok
func (m *tagMatcher) exhausted(tok Token) error {
	err := NewLexingError(ErrMsgUnexpectedToken, tok.Position, tok.Value)
	err.Cause = m.cause
	if tok.Kind == TokenKindWord {
		err.Suggestions = SimilarWords(tok.Value, m.expected, MaxSuggestions)
	}
	return err
}
