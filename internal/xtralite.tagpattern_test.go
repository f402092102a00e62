package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagPatternBuilder_Build(t *testing.T) {
	p, err := NewTagPatternBuilder(nil).
		Keyword("IF").
		Identifier("A", "B", "A").
		Keyword("THEN").
		Expression().
		Keyword("END").
		Identifier().
		Build()
	require.NoError(t, err)

	require.Equal(t, 6, p.Len())
	assert.Equal(t, ComponentKeyword, p.Component(0).Kind)
	assert.Equal(t, []string{"A", "B"}, p.Component(1).Identifiers)
	assert.Equal(t, ComponentExpression, p.Component(3).Kind)
	assert.Equal(t, ComponentAnyIdentifier, p.Component(5).Kind)
	assert.Equal(t, "IF (A B) THEN $ END ?", p.String())
}

func TestTagPatternBuilder_SequencingViolations(t *testing.T) {
	tests := []struct {
		name    string
		build   func(b *TagPatternBuilder) *TagPatternBuilder
		message string
	}{
		{
			name:    "any identifier after expression",
			build:   func(b *TagPatternBuilder) *TagPatternBuilder { return b.Expression().Identifier() },
			message: ErrMsgIdentifierAfterExpr,
		},
		{
			name:    "identifier set after expression",
			build:   func(b *TagPatternBuilder) *TagPatternBuilder { return b.Keyword("X").Expression().Identifier("a") },
			message: ErrMsgIdentifierAfterExpr,
		},
		{
			name:    "expression after expression",
			build:   func(b *TagPatternBuilder) *TagPatternBuilder { return b.Expression().Expression() },
			message: ErrMsgExprAfterExpr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewTagPatternBuilder(nil)).Build()
			require.Error(t, err)

			var stateErr *StateError
			require.True(t, errors.As(err, &stateErr))
			assert.Equal(t, tt.message, stateErr.Message)
		})
	}
}

func TestTagPatternBuilder_InvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *TagPatternBuilder) *TagPatternBuilder
	}{
		{"empty keyword", func(b *TagPatternBuilder) *TagPatternBuilder { return b.Keyword("") }},
		{"digit keyword", func(b *TagPatternBuilder) *TagPatternBuilder { return b.Keyword("1x") }},
		{"symbol in set", func(b *TagPatternBuilder) *TagPatternBuilder { return b.Identifier("ok", "no-way") }},
		{"empty pattern", func(b *TagPatternBuilder) *TagPatternBuilder { return b }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewTagPatternBuilder(nil)).Build()
			var argErr *ArgumentError
			assert.True(t, errors.As(err, &argErr))
		})
	}
}

func TestTagPatternBuilder_StickyError(t *testing.T) {
	b := NewTagPatternBuilder(nil).Keyword("bad name").Keyword("FINE")
	require.Error(t, b.Err())
	assert.Panics(t, func() { b.MustBuild() })
}

func TestParseTagPattern(t *testing.T) {
	tests := []struct {
		markup   string
		expected string
	}{
		{"IF $ THEN", "IF $ THEN"},
		{"  FOR   ?  IN $ ", "FOR ? IN $"},
		{"IF (A B C) THEN", "IF (A B C) THEN"},
		{"IF (A   B A) THEN", "IF (A B) THEN"},
		{"IF (A B)THEN", "IF (A B) THEN"},
		{"$", "$"},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			p, err := ParseTagPattern(tt.markup, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.String())
		})
	}
}

func TestParseTagPattern_Failures(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"IF (A B THEN",
		"IF () THEN",
		"IF (A (B)) THEN",
		"IF A) THEN",
		"IF (A 1B) THEN",
		"IF 9 THEN",
		"IF $ $",
		"$ ?",
	}

	for _, markup := range tests {
		t.Run(markup, func(t *testing.T) {
			p, err := ParseTagPattern(markup, nil)
			assert.Error(t, err)
			assert.Nil(t, p)

			_, ok := TryParseTagPattern(markup, nil)
			assert.False(t, ok)
		})
	}
}

func TestTagPattern_RoundTrip(t *testing.T) {
	patterns := []*TagPattern{
		NewTagPatternBuilder(nil).Keyword("IF").Expression().Keyword("THEN").MustBuild(),
		NewTagPatternBuilder(nil).Keyword("FOR").Identifier().Keyword("IN").Expression().MustBuild(),
		NewTagPatternBuilder(nil).Keyword("IF").Identifier("C", "A", "B", "A").Keyword("THEN").MustBuild(),
		NewTagPatternBuilder(nil).Expression().MustBuild(),
		NewTagPatternBuilder(nil).Identifier("x").Identifier().Expression().Keyword("END").MustBuild(),
	}

	for _, p := range patterns {
		t.Run(p.String(), func(t *testing.T) {
			parsed, err := ParseTagPattern(p.String(), OrdinalComparer)
			require.NoError(t, err)
			assert.True(t, p.Equal(parsed))
			assert.Equal(t, p.Key(), parsed.Key())
		})
	}
}

func TestTagPattern_Equal(t *testing.T) {
	a := MustParseTagPattern("IF (A B) THEN", nil)
	b := MustParseTagPattern("IF (B A A) THEN", nil)
	c := MustParseTagPattern("if (b a) then", nil)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	ci := MustParseTagPattern("IF (A B) THEN", IgnoreCaseComparer)
	cc := MustParseTagPattern("if (b a) then", IgnoreCaseComparer)
	assert.True(t, ci.Equal(cc))
}

func TestTagPattern_Matches(t *testing.T) {
	p := MustParseTagPattern("IF (A B) ? $ END", nil)

	assert.True(t, p.MatchesKeyword(0, "IF"))
	assert.False(t, p.MatchesKeyword(0, "if"))
	assert.False(t, p.MatchesKeyword(1, "A"))

	assert.True(t, p.MatchesIdentifier(1, "A"))
	assert.False(t, p.MatchesIdentifier(1, "C"))
	assert.True(t, p.MatchesIdentifierSet(1, "B"))
	assert.False(t, p.MatchesAnyIdentifier(1))

	assert.True(t, p.MatchesIdentifier(2, "anything"))
	assert.True(t, p.MatchesAnyIdentifier(2))
	assert.False(t, p.MatchesIdentifierSet(2, "anything"))

	assert.True(t, p.MatchesExpression(3))
	assert.False(t, p.MatchesExpression(4))

	assert.False(t, p.MatchesKeyword(-1, "IF"))
	assert.False(t, p.MatchesKeyword(5, "END"))
	assert.False(t, p.MatchesExpression(99))
}

func TestTagPattern_MatchesIgnoreCase(t *testing.T) {
	p := MustParseTagPattern("If (Alpha) $", IgnoreCaseComparer)
	assert.True(t, p.MatchesKeyword(0, "IF"))
	assert.True(t, p.MatchesIdentifierSet(1, "ALPHA"))
}
