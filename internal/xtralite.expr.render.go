package internal

import (
	"strconv"
	"strings"
)

// RenderStyle selects the textual form produced by Expression.Render
type RenderStyle int

// Render styles
const (
	// RenderCanonical is the fully parenthesized prefix form OP{a,b}
	RenderCanonical RenderStyle = iota
	// RenderArithmetic is infix with explicit parentheses
	RenderArithmetic
	// RenderPolish is prefix notation
	RenderPolish
)

// Render style names
const (
	RenderStyleNameCanonical  = "canonical"
	RenderStyleNameArithmetic = "arithmetic"
	RenderStyleNamePolish     = "polish"
)

// String returns the string representation of the style
func (s RenderStyle) String() string {
	switch s {
	case RenderArithmetic:
		return RenderStyleNameArithmetic
	case RenderPolish:
		return RenderStyleNamePolish
	default:
		return RenderStyleNameCanonical
	}
}

// ParseRenderStyle maps a style name to a RenderStyle
func ParseRenderStyle(name string) (RenderStyle, bool) {
	switch strings.ToLower(name) {
	case RenderStyleNameCanonical:
		return RenderCanonical, true
	case RenderStyleNameArithmetic:
		return RenderArithmetic, true
	case RenderStyleNamePolish:
		return RenderPolish, true
	default:
		return RenderCanonical, false
	}
}

// Render returns the expression in the given style. It never fails: an
// unfinished expression renders "??" where operands are missing.
func (e *Expression) Render(style RenderStyle) string {
	nodes, root := e.snapshot()
	r := renderer{nodes: nodes, table: e.table, flow: e.table.Flow()}
	var sb strings.Builder
	switch style {
	case RenderArithmetic:
		r.arithmetic(&sb, root, false)
	case RenderPolish:
		r.polish(&sb, root)
	default:
		r.canonical(&sb, root)
	}
	return sb.String()
}

// String returns the canonical rendering
func (e *Expression) String() string {
	return e.Render(RenderCanonical)
}

type renderer struct {
	nodes *arena
	table *OperatorTable
	flow  FlowSymbols
}

func (r renderer) literal(sb *strings.Builder, v Value) {
	switch v.Kind() {
	case KindString:
		sb.WriteString(strconv.Quote(v.String()))
	case KindUndefined:
		sb.WriteString(RenderUndefined)
	default:
		sb.WriteString(v.String())
	}
}

func (r renderer) canonical(sb *strings.Builder, idx int) {
	n := r.nodes.get(idx)
	switch n.kind {
	case NodeLiteral:
		r.literal(sb, n.value)
	case NodeVarRef:
		sb.WriteString(RenderVarPrefix + n.name)
	case NodeUnary:
		sb.WriteString(n.unary.Symbol)
		r.canonical(sb, n.children[0])
	case NodeBinary:
		sb.WriteString(n.binary.Symbol)
		r.canonicalArgs(sb, n.children)
	case NodeGroup:
		sb.WriteString(n.group.Open + n.group.Close)
		r.canonicalArgs(sb, n.children)
	case NodeSequence:
		r.canonicalList(sb, n.children)
	case NodeInvoke:
		r.canonical(sb, n.children[0])
		sb.WriteString(n.group.Open + n.group.Close)
		r.canonicalArgs(sb, n.children[1:])
	default:
		sb.WriteString(RenderPlaceholder)
	}
}

func (r renderer) canonicalArgs(sb *strings.Builder, children []int) {
	sb.WriteString(RenderArgsOpen)
	r.canonicalList(sb, children)
	sb.WriteString(RenderArgsClose)
}

func (r renderer) canonicalList(sb *strings.Builder, children []int) {
	for i, c := range children {
		if i > 0 {
			sb.WriteString(RenderArgSeparator)
		}
		r.canonical(sb, c)
	}
}

// arithmetic writes infix form. Nested operator nodes are parenthesized.
func (r renderer) arithmetic(sb *strings.Builder, idx int, nested bool) {
	n := r.nodes.get(idx)
	switch n.kind {
	case NodeLiteral:
		r.literal(sb, n.value)
	case NodeVarRef:
		sb.WriteString(n.name)
	case NodeUnary:
		sb.WriteString(n.unary.Symbol)
		if IsIdentifier(n.unary.Symbol) {
			sb.WriteString(RenderSpace)
		}
		r.arithmetic(sb, n.children[0], true)
	case NodeBinary:
		if r.table.IsMemberAccess(n.binary) {
			r.arithmetic(sb, n.children[0], true)
			sb.WriteString(n.binary.Symbol)
			r.arithmetic(sb, n.children[1], true)
			return
		}
		if nested {
			sb.WriteString(r.flow.GroupOpen)
		}
		r.arithmetic(sb, n.children[0], true)
		sb.WriteString(RenderSpace + n.binary.Symbol + RenderSpace)
		r.arithmetic(sb, n.children[1], true)
		if nested {
			sb.WriteString(r.flow.GroupClose)
		}
	case NodeGroup:
		sb.WriteString(n.group.Open)
		r.arithmeticList(sb, n.children)
		sb.WriteString(n.group.Close)
	case NodeSequence:
		if nested {
			sb.WriteString(r.flow.GroupOpen)
		}
		r.arithmeticList(sb, n.children)
		if nested {
			sb.WriteString(r.flow.GroupClose)
		}
	case NodeInvoke:
		r.arithmetic(sb, n.children[0], true)
		sb.WriteString(n.group.Open)
		r.arithmeticList(sb, n.children[1:])
		sb.WriteString(n.group.Close)
	default:
		sb.WriteString(RenderPlaceholder)
	}
}

func (r renderer) arithmeticList(sb *strings.Builder, children []int) {
	for i, c := range children {
		if i > 0 {
			sb.WriteString(r.flow.Separator + RenderSpace)
		}
		r.arithmetic(sb, c, false)
	}
}

// polish writes prefix form. Fixed operator arity makes it unambiguous, so
// parentheses only appear for groups, sequences and invocations.
func (r renderer) polish(sb *strings.Builder, idx int) {
	n := r.nodes.get(idx)
	switch n.kind {
	case NodeLiteral:
		r.literal(sb, n.value)
	case NodeVarRef:
		sb.WriteString(n.name)
	case NodeUnary:
		sb.WriteString(n.unary.Symbol + RenderSpace)
		r.polish(sb, n.children[0])
	case NodeBinary:
		sb.WriteString(n.binary.Symbol + RenderSpace)
		r.polish(sb, n.children[0])
		sb.WriteString(RenderSpace)
		r.polish(sb, n.children[1])
	case NodeGroup:
		sb.WriteString(n.group.Open)
		r.polishList(sb, n.children)
		sb.WriteString(n.group.Close)
	case NodeSequence:
		sb.WriteString(r.flow.GroupOpen)
		r.polishList(sb, n.children)
		sb.WriteString(r.flow.GroupClose)
	case NodeInvoke:
		r.polish(sb, n.children[0])
		sb.WriteString(n.group.Open)
		r.polishList(sb, n.children[1:])
		sb.WriteString(n.group.Close)
	default:
		sb.WriteString(RenderPlaceholder)
	}
}

func (r renderer) polishList(sb *strings.Builder, children []int) {
	for i, c := range children {
		if i > 0 {
			sb.WriteString(r.flow.Separator + RenderSpace)
		}
		r.polish(sb, c)
	}
}
