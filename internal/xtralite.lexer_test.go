package internal

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLexer(t *testing.T, source string, markups ...string) *Lexer {
	t.Helper()
	l, err := NewLexer(NewScanner(source, nil), standardTable(t))
	require.NoError(t, err)
	for _, markup := range markups {
		require.NoError(t, l.RegisterTag(MustParseTagPattern(markup, nil)))
	}
	return l
}

func readAll(t *testing.T, l *Lexer) []Lex {
	t.Helper()
	var out []Lex
	for {
		lex, err := l.ReadNext()
		if errors.Is(err, io.EOF) {
			require.Nil(t, lex)
			return out
		}
		require.NoError(t, err)
		out = append(out, lex)
	}
}

func readTag(t *testing.T, l *Lexer) *TagLex {
	t.Helper()
	lex, err := l.ReadNext()
	require.NoError(t, err)
	tag, ok := lex.(*TagLex)
	require.True(t, ok, "expected tag, got %T", lex)
	return tag
}

func TestLexer_ReadNext_UnparsedAndTags(t *testing.T) {
	l := newTestLexer(t, `a\{~b {~ x ~} c`, "$")
	lexes := readAll(t, l)
	require.Len(t, lexes, 3)

	first, ok := lexes[0].(*UnparsedLex)
	require.True(t, ok)
	assert.Equal(t, "a{~b ", first.Text)
	assert.Equal(t, 0, first.Pos().Offset)
	assert.Equal(t, 6, first.Len())

	tag, ok := lexes[1].(*TagLex)
	require.True(t, ok)
	assert.Equal(t, 6, tag.Pos().Offset)
	assert.Equal(t, 7, tag.Len())
	require.Len(t, tag.Components, 1)
	assert.True(t, tag.Components[0].IsExpression())
	assert.True(t, tag.Components[0].Expression.IsConstructed())
	assert.Equal(t, "@x", tag.Components[0].String())

	last, ok := lexes[2].(*UnparsedLex)
	require.True(t, ok)
	assert.Equal(t, " c", last.Text)
	assert.Equal(t, 13, last.Pos().Offset)
}

func TestLexer_ReadNext_EOF(t *testing.T) {
	l := newTestLexer(t, "")

	for i := 0; i < 2; i++ {
		lex, err := l.ReadNext()
		assert.Nil(t, lex)
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestLexer_ReadNext_Ambiguity(t *testing.T) {
	patterns := []string{"IF ? THEN OTHER", "IF (A B C) THEN", "IF $ THEN"}

	tests := []struct {
		name       string
		source     string
		pattern    string
		components []string
	}{
		{"identifier set beats any identifier and expression", "{~ IF A THEN ~}", "IF (A B C) THEN", []string{"IF", "A", "THEN"}},
		{"trailing keyword selects any identifier", "{~ IF A THEN OTHER ~}", "IF ? THEN OTHER", []string{"IF", "A", "THEN", "OTHER"}},
		{"non-member word falls to expression", "{~ IF x THEN ~}", "IF $ THEN", []string{"IF", "@x", "THEN"}},
		{"operators force expression", "{~ IF x + 1 THEN ~}", "IF $ THEN", []string{"IF", "+{@x,1}", "THEN"}},
		{"literal forces expression", "{~ IF 3 THEN ~}", "IF $ THEN", []string{"IF", "3", "THEN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := readTag(t, newTestLexer(t, tt.source, patterns...))
			assert.Equal(t, tt.pattern, tag.Pattern.String())

			got := make([]string, len(tag.Components))
			for i, c := range tag.Components {
				got[i] = c.String()
			}
			assert.Equal(t, tt.components, got)
		})
	}
}

func TestLexer_ReadNext_KeywordBeatsExpression(t *testing.T) {
	tag := readTag(t, newTestLexer(t, "{~ END ~}", "$", "END"))
	assert.Equal(t, "END", tag.Pattern.String())

	tag = readTag(t, newTestLexer(t, "{~ ENDING ~}", "$", "END"))
	assert.Equal(t, "$", tag.Pattern.String())
}

func TestLexer_ReadNext_SymbolChain(t *testing.T) {
	l := newTestLexer(t, "{~ a <<-100<< b ~}", "$")
	l.MustRegisterOperator(&BinaryOperator{Symbol: "<<", Precedence: 5, Evaluate: firstBinary})

	tag := readTag(t, l)
	require.Len(t, tag.Components, 1)
	assert.Equal(t, "<<{<<{@a,-100},@b}", tag.Components[0].String())
}

func TestLexer_ReadNext_CallsAndMembers(t *testing.T) {
	tag := readTag(t, newTestLexer(t, "{~ a(b).c(d, e) ~}", "$"))
	assert.Equal(t, ".{@a(){@b},@c}(){@d,@e}", tag.Components[0].String())
}

func TestLexer_ReadNext_StringLiterals(t *testing.T) {
	tag := readTag(t, newTestLexer(t, `{~ "a" + 'b' ~}`, "$"))
	assert.Equal(t, `+{"a","b"}`, tag.Components[0].String())
}

func TestLexer_ReadNext_MultipleExpressions(t *testing.T) {
	tag := readTag(t, newTestLexer(t, "{~ FOR item IN items.all TO 10 - 1 ~}", "FOR ? IN $ TO $"))
	require.Len(t, tag.Components, 6)
	assert.Equal(t, "item", tag.Components[1].Text)
	assert.False(t, tag.Components[1].IsExpression())
	assert.Equal(t, ".{@items,@all}", tag.Components[3].String())
	assert.Equal(t, "-{10,1}", tag.Components[5].String())
}

func TestLexer_ReadNext_CaseInsensitive(t *testing.T) {
	table, err := NewOperatorTable(DefaultFlowSymbols(), IgnoreCaseComparer, nil)
	require.NoError(t, err)
	l, err := NewLexer(NewScanner("{~ if x then ~}", nil), table)
	require.NoError(t, err)
	l.MustRegisterTag(MustParseTagPattern("IF $ THEN", IgnoreCaseComparer))

	tag := readTag(t, l)
	assert.Equal(t, "if", tag.Components[0].Text)
	assert.Equal(t, "then", tag.Components[2].Text)
}

func TestLexer_ReadNext_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		patterns []string
		message  string
		offset   int
	}{
		{"no pattern accepts word", "{~ FOO ~}", []string{"IF $ THEN"}, ErrMsgUnexpectedToken, 3},
		{"incomplete pattern", "{~ IF x ~}", []string{"IF $ THEN"}, ErrMsgNoMatchingTag, 8},
		{"unexpected end", "{~ IF x", []string{"IF $ THEN"}, ErrMsgUnexpectedEnd, 6},
		{"unresolved symbol", "{~ a # b ~}", []string{"$"}, ErrMsgUnresolvedSymbols, 5},
		{"ambiguous sets", "{~ X a ~}", []string{"X (a b)", "X (a c)"}, ErrMsgAmbiguousTag, 0},
		{"no tags registered", "{~ x ~}", nil, ErrMsgUnexpectedToken, 3},
		{"empty tag", "{~ ~}", []string{"$"}, ErrMsgNoMatchingTag, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLexer(t, tt.source, tt.patterns...).ReadNext()
			var lexErr *LexingError
			require.True(t, errors.As(err, &lexErr), "got %v", err)
			assert.Equal(t, tt.message, lexErr.Message)
			assert.Equal(t, tt.offset, lexErr.Position.Offset)
		})
	}
}

func TestLexer_ReadNext_Suggestions(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		patterns []string
		want     []string
	}{
		{"misspelled leading keyword", "{~ IFF x THEN ~}", []string{"IF $ THEN"}, []string{"IF"}},
		{"misspelled closing keyword", "{~ IF x THNE ~}", []string{"IF $ THEN"}, []string{"THEN"}},
		{"closing keyword of several tags", "{~ WHILE x DOO ~}", []string{"WHILE $ DO", "WHILE $ DONE"}, []string{"DO", "DONE"}},
		{"identifier set", "{~ SORT descc ~}", []string{"SORT (asc desc)"}, []string{"desc"}},
		{"nothing close", "{~ IF x QQQQQQ ~}", []string{"IF $ THEN"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLexer(t, tt.source, tt.patterns...).ReadNext()
			var lexErr *LexingError
			require.True(t, errors.As(err, &lexErr), "got %v", err)
			assert.Equal(t, ErrMsgUnexpectedToken, lexErr.Message)
			assert.Equal(t, tt.want, lexErr.Suggestions)
		})
	}
}

func TestLexer_ReadNext_WrapsExpressionError(t *testing.T) {
	_, err := newTestLexer(t, "{~ IF x y THEN ~}", "IF $ THEN").ReadNext()

	var lexErr *LexingError
	require.True(t, errors.As(err, &lexErr))
	var exprErr *ExpressionError
	require.True(t, errors.As(err, &exprErr))
	assert.Equal(t, ErrMsgExprUnexpectedTerm, exprErr.Message)
}

func TestLexer_ReadNext_IncompleteExpressionAtEnd(t *testing.T) {
	_, err := newTestLexer(t, "{~ IF x + THEN ~}", "IF $ THEN").ReadNext()

	var lexErr *LexingError
	require.True(t, errors.As(err, &lexErr))
	var exprErr *ExpressionError
	require.True(t, errors.As(err, &exprErr))
	assert.Equal(t, ErrMsgExprInvalidState, exprErr.Message)
}

func TestLexer_RegisterTag_Conflicts(t *testing.T) {
	l := newTestLexer(t, "", "IF (A B) THEN")

	err := l.RegisterTag(MustParseTagPattern("IF (B A) THEN", nil))
	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, ErrMsgTagConflict, regErr.Message)

	l.MustRegisterOperator(&BinaryOperator{Symbol: "and", Precedence: 3, Evaluate: firstBinary})
	err = l.RegisterTag(MustParseTagPattern("WHEN $ and $", nil))
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, ErrMsgTagSymbolConflict, regErr.Message)
	assert.Equal(t, "and", regErr.Symbol)

	err = l.RegisterOperator(&BinaryOperator{Symbol: "THEN", Precedence: 3, Evaluate: firstBinary})
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, ErrMsgTagSymbolConflict, regErr.Message)

	err = l.RegisterOperator(&UnaryOperator{Symbol: "!", Evaluate: identityUnary})
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, ErrMsgSymbolConflict, regErr.Message)

	assert.Error(t, l.RegisterTag(nil))
	assert.Len(t, l.Tags(), 1)
}

func TestLexer_Registration_ClosedAfterRead(t *testing.T) {
	l := newTestLexer(t, "text", "$")
	_, err := l.ReadNext()
	require.NoError(t, err)
	assert.True(t, l.Table().Frozen())

	var stateErr *StateError
	err = l.RegisterTag(MustParseTagPattern("END", nil))
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, ErrMsgRegistrationClosed, stateErr.Message)

	err = l.RegisterOperator(&BinaryOperator{Symbol: "^", Evaluate: firstBinary})
	assert.True(t, errors.As(err, &stateErr))

	assert.Panics(t, func() { l.MustRegisterTag(MustParseTagPattern("END", nil)) })
}

func TestLexer_ReadNext_SliceTokenSource(t *testing.T) {
	tokens := []Token{
		{Kind: TokenKindUnparsed, Value: "x", Position: Position{Offset: 0, Line: 1, Column: 1}, Length: 1},
		{Kind: TokenKindUnparsed, Value: "y", Position: Position{Offset: 1, Line: 1, Column: 2}, Length: 1},
		{Kind: TokenKindStartTag, Value: "{~", Position: Position{Offset: 2, Line: 1, Column: 3}, Length: 2},
		{Kind: TokenKindWord, Value: "END", Position: Position{Offset: 4, Line: 1, Column: 5}, Length: 3},
		{Kind: TokenKindEndTag, Value: "~}", Position: Position{Offset: 7, Line: 1, Column: 8}, Length: 2},
	}
	l, err := NewLexer(NewSliceTokenSource(tokens), standardTable(t))
	require.NoError(t, err)
	l.MustRegisterTag(MustParseTagPattern("END", nil))

	lexes := readAll(t, l)
	require.Len(t, lexes, 2)
	assert.Equal(t, "xy", lexes[0].(*UnparsedLex).Text)
	assert.Equal(t, "END", lexes[1].(*TagLex).String())
	assert.Equal(t, 7, lexes[1].Len())
}

func TestNewLexer_InvalidArguments(t *testing.T) {
	_, err := NewLexer(nil, standardTable(t))
	assert.Error(t, err)

	_, err = NewLexer(NewScanner("", nil), nil)
	assert.Error(t, err)
}

func TestParseExpression(t *testing.T) {
	table := standardTable(t)

	e, err := ParseExpression("a.b(1, 2) * 3", table, DefaultScannerConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "*{.{@a,@b}(){1,2},3}", e.String())

	tests := []struct {
		name    string
		text    string
		message string
		offset  int
	}{
		{"dangling operator", "1 +", ErrMsgNoMatchingTag, 3},
		{"unresolved symbol", "a # b", ErrMsgUnresolvedSymbols, 2},
		{"trailing text", "a ~} b", ErrMsgTrailingInput, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpression(tt.text, table, DefaultScannerConfig(), nil)
			var lexErr *LexingError
			require.True(t, errors.As(err, &lexErr), "got %v", err)
			assert.Equal(t, tt.message, lexErr.Message)
			assert.Equal(t, tt.offset, lexErr.Position.Offset)
		})
	}
}
