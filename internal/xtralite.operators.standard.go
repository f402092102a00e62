package internal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Standard operator precedences. Higher binds tighter.
const (
	PrecedenceOr             = 2
	PrecedenceAnd            = 4
	PrecedenceEquality       = 6
	PrecedenceRelational     = 8
	PrecedenceAdditive       = 10
	PrecedenceMultiplicative = 20
	PrecedenceUnary          = 30
)

// Standard operator symbols
const (
	SymbolPlus      = "+"
	SymbolMinus     = "-"
	SymbolMultiply  = "*"
	SymbolDivide    = "/"
	SymbolModulo    = "%"
	SymbolNot       = "!"
	SymbolEqual     = "=="
	SymbolNotEqual  = "!="
	SymbolLess      = "<"
	SymbolLessEq    = "<="
	SymbolGreater   = ">"
	SymbolGreaterEq = ">="
	SymbolAnd       = "&&"
	SymbolOr        = "||"
)

// StandardOperators returns a fresh set of arithmetic, comparison and
// logical operators. "+" also concatenates when either side is a string.
func StandardOperators() []Operator {
	return []Operator{
		&UnaryOperator{Symbol: SymbolPlus, Precedence: PrecedenceUnary, Evaluate: unaryPlus},
		&UnaryOperator{Symbol: SymbolMinus, Precedence: PrecedenceUnary, Evaluate: unaryMinus},
		&UnaryOperator{Symbol: SymbolNot, Precedence: PrecedenceUnary, Evaluate: logicalNot},

		&BinaryOperator{Symbol: SymbolPlus, Precedence: PrecedenceAdditive, Evaluate: add},
		&BinaryOperator{Symbol: SymbolMinus, Precedence: PrecedenceAdditive, Evaluate: arithmetic(decimal.Decimal.Sub)},
		&BinaryOperator{Symbol: SymbolMultiply, Precedence: PrecedenceMultiplicative, Evaluate: arithmetic(decimal.Decimal.Mul)},
		&BinaryOperator{Symbol: SymbolDivide, Precedence: PrecedenceMultiplicative, Evaluate: divide(decimal.Decimal.Div)},
		&BinaryOperator{Symbol: SymbolModulo, Precedence: PrecedenceMultiplicative, Evaluate: divide(decimal.Decimal.Mod)},

		&BinaryOperator{Symbol: SymbolEqual, Precedence: PrecedenceEquality, Evaluate: equal},
		&BinaryOperator{Symbol: SymbolNotEqual, Precedence: PrecedenceEquality, Evaluate: notEqual},
		&BinaryOperator{Symbol: SymbolLess, Precedence: PrecedenceRelational, Evaluate: relational(func(c int) bool { return c < 0 })},
		&BinaryOperator{Symbol: SymbolLessEq, Precedence: PrecedenceRelational, Evaluate: relational(func(c int) bool { return c <= 0 })},
		&BinaryOperator{Symbol: SymbolGreater, Precedence: PrecedenceRelational, Evaluate: relational(func(c int) bool { return c > 0 })},
		&BinaryOperator{Symbol: SymbolGreaterEq, Precedence: PrecedenceRelational, Evaluate: relational(func(c int) bool { return c >= 0 })},

		&BinaryOperator{Symbol: SymbolAnd, Precedence: PrecedenceAnd, Evaluate: logicalAnd},
		&BinaryOperator{Symbol: SymbolOr, Precedence: PrecedenceOr, Evaluate: logicalOr},
	}
}

// RegisterStandardOperators registers StandardOperators into table
func RegisterStandardOperators(table *OperatorTable) error {
	for _, op := range StandardOperators() {
		if err := table.Register(op); err != nil {
			return err
		}
	}
	return nil
}

func unaryPlus(arg Value) (Value, bool) {
	n, ok := arg.AsNumber()
	if !ok {
		return Undefined(), false
	}
	return Number(n), true
}

func unaryMinus(arg Value) (Value, bool) {
	n, ok := arg.AsNumber()
	if !ok {
		return Undefined(), false
	}
	return Number(n.Neg()), true
}

func logicalNot(arg Value) (Value, bool) {
	return Bool(!arg.Truthy()), true
}

func add(l, r Value) (Value, bool) {
	if l.Kind() == KindString || r.Kind() == KindString {
		return String(l.String() + r.String()), true
	}
	return arithmetic(decimal.Decimal.Add)(l, r)
}

func arithmetic(fn func(a, b decimal.Decimal) decimal.Decimal) BinaryEvaluator {
	return func(l, r Value) (Value, bool) {
		a, okL := l.AsNumber()
		b, okR := r.AsNumber()
		if !okL || !okR {
			return Undefined(), false
		}
		return Number(fn(a, b)), true
	}
}

// divide is arithmetic that rejects a zero divisor
func divide(fn func(a, b decimal.Decimal) decimal.Decimal) BinaryEvaluator {
	return func(l, r Value) (Value, bool) {
		if b, ok := r.AsNumber(); ok && b.IsZero() {
			return Undefined(), false
		}
		return arithmetic(fn)(l, r)
	}
}

func equal(l, r Value) (Value, bool) {
	return Bool(l.Equal(r)), true
}

func notEqual(l, r Value) (Value, bool) {
	return Bool(!l.Equal(r)), true
}

// relational orders two numbers or two strings
func relational(accept func(cmp int) bool) BinaryEvaluator {
	return func(l, r Value) (Value, bool) {
		if a, ok := l.AsNumber(); ok {
			if b, ok := r.AsNumber(); ok {
				return Bool(accept(a.Cmp(b))), true
			}
		}
		if a, ok := l.AsString(); ok {
			if b, ok := r.AsString(); ok {
				return Bool(accept(strings.Compare(a, b))), true
			}
		}
		return Undefined(), false
	}
}

func logicalAnd(l, r Value) (Value, bool) {
	return Bool(l.Truthy() && r.Truthy()), true
}

func logicalOr(l, r Value) (Value, bool) {
	return Bool(l.Truthy() || r.Truthy()), true
}
