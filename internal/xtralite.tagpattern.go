package internal

import (
	"sort"
	"strings"
)

// ComponentKind identifies the kind of a tag pattern component
type ComponentKind int

// Component kind constants
const (
	ComponentKeyword ComponentKind = iota
	ComponentAnyIdentifier
	ComponentIdentifierSet
	ComponentExpression
)

// Component kind names for debugging
const (
	ComponentKindNameKeyword       = "KEYWORD"
	ComponentKindNameAnyIdentifier = "ANY_IDENTIFIER"
	ComponentKindNameIdentifierSet = "IDENTIFIER_SET"
	ComponentKindNameExpression    = "EXPRESSION"
)

// String returns the string representation of the component kind
func (k ComponentKind) String() string {
	switch k {
	case ComponentKeyword:
		return ComponentKindNameKeyword
	case ComponentAnyIdentifier:
		return ComponentKindNameAnyIdentifier
	case ComponentIdentifierSet:
		return ComponentKindNameIdentifierSet
	case ComponentExpression:
		return ComponentKindNameExpression
	default:
		return ComponentKindNameKeyword
	}
}

// specificity ranks how narrowly a component kind matches a word.
// Higher is more specific.
func (k ComponentKind) specificity() int {
	switch k {
	case ComponentKeyword:
		return 3
	case ComponentIdentifierSet:
		return 2
	case ComponentAnyIdentifier:
		return 1
	default:
		return 0
	}
}

// Component is one element of a tag pattern
type Component struct {
	Kind        ComponentKind
	Keyword     string   // set for ComponentKeyword
	Identifiers []string // set for ComponentIdentifierSet, deduplicated
}

// String renders the component in tag markup
func (c Component) String() string {
	switch c.Kind {
	case ComponentKeyword:
		return c.Keyword
	case ComponentAnyIdentifier:
		return MarkupAnyIdentifier
	case ComponentIdentifierSet:
		return MarkupGroupOpen + strings.Join(c.Identifiers, MarkupSeparator) + MarkupGroupClose
	default:
		return MarkupExpression
	}
}

// TagPattern is an immutable grammar rule describing one directive shape
type TagPattern struct {
	components []Component
	comparer   NameComparer
}

// Len returns the number of components
func (p *TagPattern) Len() int {
	return len(p.components)
}

// Component returns the component at index i
func (p *TagPattern) Component(i int) Component {
	return p.components[i]
}

// Components returns a copy of the pattern components
func (p *TagPattern) Components() []Component {
	out := make([]Component, len(p.components))
	copy(out, p.components)
	return out
}

// Comparer returns the name comparer the pattern was built with
func (p *TagPattern) Comparer() NameComparer {
	return p.comparer
}

// String renders the pattern in tag markup
func (p *TagPattern) String() string {
	parts := make([]string, len(p.components))
	for i, c := range p.components {
		parts[i] = c.String()
	}
	return strings.Join(parts, MarkupSeparator)
}

// Key returns a canonical form of the pattern: equal patterns have equal keys
func (p *TagPattern) Key() string {
	parts := make([]string, len(p.components))
	for i, c := range p.components {
		switch c.Kind {
		case ComponentKeyword:
			parts[i] = p.comparer.Key(c.Keyword)
		case ComponentIdentifierSet:
			parts[i] = MarkupGroupOpen + strings.Join(p.foldedSet(c.Identifiers), MarkupSeparator) + MarkupGroupClose
		default:
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, MarkupSeparator)
}

// foldedSet returns the comparer keys of a set, sorted and deduplicated
func (p *TagPattern) foldedSet(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	keys := make([]string, 0, len(names))
	for _, n := range names {
		k := p.comparer.Key(n)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports structural equality under this pattern's comparer
func (p *TagPattern) Equal(other *TagPattern) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Key() == other.Key()
}

// MatchesKeyword reports whether component i is a keyword equal to word
func (p *TagPattern) MatchesKeyword(i int, word string) bool {
	if i < 0 || i >= len(p.components) {
		return false
	}
	c := p.components[i]
	return c.Kind == ComponentKeyword && p.comparer.Equal(c.Keyword, word)
}

// MatchesIdentifier reports whether word is accepted as an identifier at i,
// either by an any-identifier component or by identifier set membership
func (p *TagPattern) MatchesIdentifier(i int, word string) bool {
	return p.MatchesAnyIdentifier(i) || p.MatchesIdentifierSet(i, word)
}

// MatchesAnyIdentifier reports whether component i accepts any identifier
func (p *TagPattern) MatchesAnyIdentifier(i int) bool {
	if i < 0 || i >= len(p.components) {
		return false
	}
	return p.components[i].Kind == ComponentAnyIdentifier
}

// MatchesIdentifierSet reports whether component i is a set containing word
func (p *TagPattern) MatchesIdentifierSet(i int, word string) bool {
	if i < 0 || i >= len(p.components) {
		return false
	}
	c := p.components[i]
	if c.Kind != ComponentIdentifierSet {
		return false
	}
	for _, id := range c.Identifiers {
		if p.comparer.Equal(id, word) {
			return true
		}
	}
	return false
}

// MatchesExpression reports whether component i is an expression slot
func (p *TagPattern) MatchesExpression(i int) bool {
	if i < 0 || i >= len(p.components) {
		return false
	}
	return p.components[i].Kind == ComponentExpression
}

// names returns every keyword and identifier set member of the pattern
func (p *TagPattern) names() []string {
	var out []string
	for _, c := range p.components {
		switch c.Kind {
		case ComponentKeyword:
			out = append(out, c.Keyword)
		case ComponentIdentifierSet:
			out = append(out, c.Identifiers...)
		}
	}
	return out
}

// TagPatternBuilder assembles a TagPattern component by component.
// The first error sticks; later calls are ignored and Build returns it.
type TagPatternBuilder struct {
	components []Component
	comparer   NameComparer
	err        error
}

// NewTagPatternBuilder creates a builder using the given name comparer.
// A nil comparer means ordinal comparison.
func NewTagPatternBuilder(comparer NameComparer) *TagPatternBuilder {
	return &TagPatternBuilder{comparer: comparerOrDefault(comparer)}
}

// Keyword appends a fixed keyword component
func (b *TagPatternBuilder) Keyword(name string) *TagPatternBuilder {
	if b.err != nil {
		return b
	}
	if err := validateIdentifier(name); err != nil {
		b.err = err
		return b
	}
	b.components = append(b.components, Component{Kind: ComponentKeyword, Keyword: name})
	return b
}

// Identifier appends an identifier component. Without candidates it accepts
// any identifier; with candidates it accepts only members of the set.
func (b *TagPatternBuilder) Identifier(candidates ...string) *TagPatternBuilder {
	if b.err != nil {
		return b
	}
	if b.lastIs(ComponentExpression) {
		b.err = NewStateError(ErrMsgIdentifierAfterExpr)
		return b
	}
	if len(candidates) == 0 {
		b.components = append(b.components, Component{Kind: ComponentAnyIdentifier})
		return b
	}

	set := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, name := range candidates {
		if err := validateIdentifier(name); err != nil {
			b.err = err
			return b
		}
		k := b.comparer.Key(name)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		set = append(set, name)
	}
	b.components = append(b.components, Component{Kind: ComponentIdentifierSet, Identifiers: set})
	return b
}

// Expression appends an expression slot
func (b *TagPatternBuilder) Expression() *TagPatternBuilder {
	if b.err != nil {
		return b
	}
	if b.lastIs(ComponentExpression) {
		b.err = NewStateError(ErrMsgExprAfterExpr)
		return b
	}
	b.components = append(b.components, Component{Kind: ComponentExpression})
	return b
}

// Err returns the first error recorded by the builder
func (b *TagPatternBuilder) Err() error {
	return b.err
}

// Build returns the finished, immutable pattern
func (b *TagPatternBuilder) Build() (*TagPattern, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.components) == 0 {
		return nil, NewArgumentError(ErrMsgEmptyPattern, "")
	}
	components := make([]Component, len(b.components))
	copy(components, b.components)
	return &TagPattern{components: components, comparer: b.comparer}, nil
}

// MustBuild returns the finished pattern and panics on error
func (b *TagPatternBuilder) MustBuild() *TagPattern {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

func (b *TagPatternBuilder) lastIs(kind ComponentKind) bool {
	return len(b.components) > 0 && b.components[len(b.components)-1].Kind == kind
}

func validateIdentifier(name string) error {
	if name == "" {
		return NewArgumentError(ErrMsgEmptyName, "")
	}
	if !IsIdentifier(name) {
		return NewArgumentError(ErrMsgInvalidIdentifier, name)
	}
	return nil
}

// ParseTagPattern parses compact tag markup: "$" is an expression slot, "?"
// any identifier, "(a b c)" an identifier set and any other word a keyword.
// Terms are separated by whitespace.
func ParseTagPattern(markup string, comparer NameComparer) (*TagPattern, error) {
	terms, err := splitMarkup(markup)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, NewArgumentError(ErrMsgMarkupEmpty, "")
	}

	b := NewTagPatternBuilder(comparer)
	for _, term := range terms {
		switch {
		case term.group != nil:
			b.Identifier(term.group...)
		case term.text == MarkupExpression:
			b.Expression()
		case term.text == MarkupAnyIdentifier:
			b.Identifier()
		default:
			b.Keyword(term.text)
		}
	}
	return b.Build()
}

// TryParseTagPattern is ParseTagPattern reporting failure as a boolean
func TryParseTagPattern(markup string, comparer NameComparer) (*TagPattern, bool) {
	p, err := ParseTagPattern(markup, comparer)
	if err != nil {
		return nil, false
	}
	return p, true
}

// MustParseTagPattern parses markup and panics on error
func MustParseTagPattern(markup string, comparer NameComparer) *TagPattern {
	p, err := ParseTagPattern(markup, comparer)
	if err != nil {
		panic(err)
	}
	return p
}

// markupTerm is either a plain term or an identifier group
type markupTerm struct {
	text  string
	group []string
}

// splitMarkup breaks markup into terms, collecting parenthesized groups
func splitMarkup(markup string) ([]markupTerm, error) {
	var terms []markupTerm
	var group []string
	inGroup := false

	fields := strings.Fields(strings.NewReplacer(
		MarkupGroupOpen, MarkupSeparator+MarkupGroupOpen+MarkupSeparator,
		MarkupGroupClose, MarkupSeparator+MarkupGroupClose+MarkupSeparator,
	).Replace(markup))

	for _, f := range fields {
		switch f {
		case MarkupGroupOpen:
			if inGroup {
				return nil, NewArgumentError(ErrMsgMarkupNestedGroup, markup)
			}
			inGroup = true
			group = nil
		case MarkupGroupClose:
			if !inGroup {
				return nil, NewArgumentError(ErrMsgMarkupUnexpected, f)
			}
			if len(group) == 0 {
				return nil, NewArgumentError(ErrMsgMarkupEmptyGroup, markup)
			}
			terms = append(terms, markupTerm{group: group})
			inGroup = false
		default:
			if inGroup {
				if !IsIdentifier(f) {
					return nil, NewArgumentError(ErrMsgInvalidIdentifier, f)
				}
				group = append(group, f)
				continue
			}
			terms = append(terms, markupTerm{text: f})
		}
	}

	if inGroup {
		return nil, NewArgumentError(ErrMsgMarkupUnclosedGroup, markup)
	}
	return terms, nil
}
