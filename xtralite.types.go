package xtralite

import (
	"github.com/itsatony/go-xtralite/internal"
	"github.com/shopspring/decimal"
)

// Lexing results
type (
	// Lex is one unit of a lexed template: *UnparsedLex or *TagLex
	Lex = internal.Lex
	// UnparsedLex is a run of plain template text
	UnparsedLex = internal.UnparsedLex
	// TagLex is a tag matched against exactly one registered pattern
	TagLex = internal.TagLex
	// TagComponent is a matched keyword, identifier or expression
	TagComponent = internal.TagComponent
	// Position is a location in template source
	Position = internal.Position
)

// Tokens
type (
	Token            = internal.Token
	TokenKind        = internal.TokenKind
	TokenSource      = internal.TokenSource
	SliceTokenSource = internal.SliceTokenSource
)

// Token kinds
const (
	TokenKindUnparsed   = internal.TokenKindUnparsed
	TokenKindStartTag   = internal.TokenKindStartTag
	TokenKindEndTag     = internal.TokenKindEndTag
	TokenKindWord       = internal.TokenKindWord
	TokenKindNumber     = internal.TokenKindNumber
	TokenKindString     = internal.TokenKindString
	TokenKindSymbol     = internal.TokenKindSymbol
	TokenKindWhitespace = internal.TokenKindWhitespace
)

// Tag grammar
type (
	TagPattern        = internal.TagPattern
	TagPatternBuilder = internal.TagPatternBuilder
	Component         = internal.Component
	ComponentKind     = internal.ComponentKind
	NameComparer      = internal.NameComparer
)

// Component kinds
const (
	ComponentKeyword       = internal.ComponentKeyword
	ComponentAnyIdentifier = internal.ComponentAnyIdentifier
	ComponentIdentifierSet = internal.ComponentIdentifierSet
	ComponentExpression    = internal.ComponentExpression
)

// Name comparers
var (
	OrdinalComparer    = internal.OrdinalComparer
	IgnoreCaseComparer = internal.IgnoreCaseComparer
)

// Operators
type (
	Operator           = internal.Operator
	UnaryOperator      = internal.UnaryOperator
	BinaryOperator     = internal.BinaryOperator
	GroupOperator      = internal.GroupOperator
	FlowSymbols        = internal.FlowSymbols
	Associativity      = internal.Associativity
	UnaryEvaluator     = internal.UnaryEvaluator
	BinaryEvaluator    = internal.BinaryEvaluator
	GroupEvaluator     = internal.GroupEvaluator
	SubscriptEvaluator = internal.SubscriptEvaluator
)

// Associativity values
const (
	LeftToRight = internal.LeftToRight
	RightToLeft = internal.RightToLeft
)

// Precedences of the standard operator set. Higher binds tighter.
const (
	PrecedenceOr             = internal.PrecedenceOr
	PrecedenceAnd            = internal.PrecedenceAnd
	PrecedenceEquality       = internal.PrecedenceEquality
	PrecedenceRelational     = internal.PrecedenceRelational
	PrecedenceAdditive       = internal.PrecedenceAdditive
	PrecedenceMultiplicative = internal.PrecedenceMultiplicative
	PrecedenceUnary          = internal.PrecedenceUnary
	MaxPrecedence            = internal.MaxPrecedence
)

// Expressions
type (
	Expression      = internal.Expression
	ExpressionState = internal.ExpressionState
	RenderStyle     = internal.RenderStyle
	EvalContext     = internal.EvalContext
	EvalOption      = internal.EvalOption
)

// Render styles
const (
	RenderCanonical  = internal.RenderCanonical
	RenderArithmetic = internal.RenderArithmetic
	RenderPolish     = internal.RenderPolish
)

// Values
type (
	Value = internal.Value
	Kind  = internal.Kind
)

// Value kinds
const (
	KindUndefined = internal.KindUndefined
	KindBoolean   = internal.KindBoolean
	KindNumber    = internal.KindNumber
	KindString    = internal.KindString
	KindObject    = internal.KindObject
	KindSequence  = internal.KindSequence
)

// NewSliceTokenSource serves a prepared token slice, for tokens produced by
// another scanner
func NewSliceTokenSource(tokens []Token) *SliceTokenSource {
	return internal.NewSliceTokenSource(tokens)
}

// DefaultFlowSymbols returns "," "." "(" ")"
func DefaultFlowSymbols() FlowSymbols { return internal.DefaultFlowSymbols() }

// NewTagPatternBuilder starts a tag pattern. A nil comparer compares names
// ordinally.
func NewTagPatternBuilder(comparer NameComparer) *TagPatternBuilder {
	return internal.NewTagPatternBuilder(comparer)
}

// ParseTagPattern reads tag markup such as "IF $ THEN" or "SORT (ASC DESC)"
func ParseTagPattern(markup string, comparer NameComparer) (*TagPattern, error) {
	p, err := internal.ParseTagPattern(markup, comparer)
	if err != nil {
		return nil, convertError(err)
	}
	return p, nil
}

// StandardOperators returns a fresh copy of the standard operator set
func StandardOperators() []Operator { return internal.StandardOperators() }

// ParseRenderStyle maps "canonical", "arithmetic" or "polish" to a style
func ParseRenderStyle(name string) (RenderStyle, bool) { return internal.ParseRenderStyle(name) }

// WithPermissive makes evaluation yield undefined instead of failing on
// unsupported operand kinds or failed invocations
func WithPermissive() EvalOption { return internal.WithPermissive() }

// Value constructors
func Undefined() Value                       { return internal.Undefined() }
func Bool(b bool) Value                      { return internal.Bool(b) }
func Number(n decimal.Decimal) Value         { return internal.Number(n) }
func NumberFromInt(i int64) Value            { return internal.NumberFromInt(i) }
func NumberFromFloat(f float64) Value        { return internal.NumberFromFloat(f) }
func String(s string) Value                  { return internal.String(s) }
func Object(obj any) Value                   { return internal.Object(obj) }
func Sequence(items ...Value) Value          { return internal.Sequence(items...) }
func FromGo(x any) Value                     { return internal.FromGo(x) }
func ParseNumber(text string) (Value, error) { return internal.ParseNumber(text) }
