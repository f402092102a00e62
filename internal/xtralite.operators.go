package internal

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"go.uber.org/zap"
)

// Associativity decides how operators of equal precedence group
type Associativity int

// Associativity constants
const (
	LeftToRight Associativity = iota
	RightToLeft
)

// MaxPrecedence is the precedence of the built-in member access operator.
// Registered operators should use smaller values; higher binds tighter.
const MaxPrecedence = math.MaxInt32

// UnaryEvaluator computes a prefix operator result. Returning false signals
// an unsupported operand kind.
type UnaryEvaluator func(arg Value) (Value, bool)

// BinaryEvaluator computes an infix operator result. Returning false signals
// an unsupported combination of operand kinds.
type BinaryEvaluator func(left, right Value) (Value, bool)

// GroupEvaluator transforms the result of a grouped sub-expression
type GroupEvaluator func(inner Value) (Value, bool)

// SubscriptEvaluator applies a group written after an operand, as in a[i]
type SubscriptEvaluator func(target, inner Value) (Value, bool)

// Operator is implemented by UnaryOperator, BinaryOperator and GroupOperator
type Operator interface {
	// Symbols returns every symbol the operator occupies
	Symbols() []string
	operator()
}

// UnaryOperator is a prefix operator such as -x or !x.
// With ExpectRhsIdentifier the operand must be a bare name, which is passed
// to Evaluate as a string value instead of being resolved.
type UnaryOperator struct {
	Symbol              string
	Precedence          int
	ExpectRhsIdentifier bool
	Evaluate            UnaryEvaluator
}

func (o *UnaryOperator) Symbols() []string { return []string{o.Symbol} }
func (o *UnaryOperator) operator()         {}

// BinaryOperator is an infix operator. Identifier-expecting sides receive the
// bare name as a string value.
type BinaryOperator struct {
	Symbol              string
	Precedence          int
	Associativity       Associativity
	ExpectLhsIdentifier bool
	ExpectRhsIdentifier bool
	Evaluate            BinaryEvaluator
}

func (o *BinaryOperator) Symbols() []string { return []string{o.Symbol} }
func (o *BinaryOperator) operator()         {}

// GroupOperator encloses a sub-expression between Open and Close.
// A nil Evaluate passes the inner value through unchanged. Subscript, when
// set, allows the group to follow an operand.
type GroupOperator struct {
	Open      string
	Close     string
	Evaluate  GroupEvaluator
	Subscript SubscriptEvaluator
}

func (o *GroupOperator) Symbols() []string { return []string{o.Open, o.Close} }
func (o *GroupOperator) operator()         {}

// FlowSymbols are the structural symbols every expression understands
type FlowSymbols struct {
	Separator    string
	MemberAccess string
	GroupOpen    string
	GroupClose   string
}

// DefaultFlowSymbols returns ",", ".", "(" and ")"
func DefaultFlowSymbols() FlowSymbols {
	return FlowSymbols{
		Separator:    DefaultSeparator,
		MemberAccess: DefaultMemberAccess,
		GroupOpen:    DefaultGroupOpen,
		GroupClose:   DefaultGroupClose,
	}
}

// Validate checks that the four symbols are non-empty and pairwise distinct
func (f FlowSymbols) Validate(comparer NameComparer) error {
	comparer = comparerOrDefault(comparer)
	all := []string{f.Separator, f.MemberAccess, f.GroupOpen, f.GroupClose}
	seen := make(map[string]struct{}, len(all))
	for _, s := range all {
		if err := validateSymbol(s); err != nil {
			return NewArgumentError(ErrMsgFlowSymbolsInvalid, s)
		}
		k := comparer.Key(s)
		if _, dup := seen[k]; dup {
			return NewArgumentError(ErrMsgFlowSymbolsInvalid, s)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// OperatorTable is the registry of operators usable inside expressions.
// Registration must finish before the table is used; the first Lexer or
// Expression that reads it freezes it, after which it is safe for
// concurrent readers.
type OperatorTable struct {
	flow         FlowSymbols
	comparer     NameComparer
	unary        map[string]*UnaryOperator
	binary       map[string]*BinaryOperator
	groupOpen    map[string]*GroupOperator
	groupClose   map[string]*GroupOperator
	ordered      []Operator
	memberAccess *BinaryOperator
	flowGroup    *GroupOperator
	maxChainLen  int
	delimiters   []string
	frozen       atomic.Bool
	mu           sync.Mutex
	logger       *zap.Logger
}

// NewOperatorTable creates an empty operator table with the given flow
// symbols. A nil comparer means ordinal comparison.
func NewOperatorTable(flow FlowSymbols, comparer NameComparer, logger *zap.Logger) (*OperatorTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	comparer = comparerOrDefault(comparer)
	if err := flow.Validate(comparer); err != nil {
		return nil, err
	}

	t := &OperatorTable{
		flow:       flow,
		comparer:   comparer,
		unary:      make(map[string]*UnaryOperator),
		binary:     make(map[string]*BinaryOperator),
		groupOpen:  make(map[string]*GroupOperator),
		groupClose: make(map[string]*GroupOperator),
		delimiters: []string{StrOpenDelim, StrCloseDelim},
		logger:     logger,
	}
	t.memberAccess = &BinaryOperator{
		Symbol:              flow.MemberAccess,
		Precedence:          MaxPrecedence,
		Associativity:       LeftToRight,
		ExpectRhsIdentifier: true,
	}
	t.flowGroup = &GroupOperator{Open: flow.GroupOpen, Close: flow.GroupClose}

	t.binary[comparer.Key(flow.MemberAccess)] = t.memberAccess
	t.groupOpen[comparer.Key(flow.GroupOpen)] = t.flowGroup
	t.groupClose[comparer.Key(flow.GroupClose)] = t.flowGroup
	for _, s := range []string{flow.Separator, flow.MemberAccess, flow.GroupOpen, flow.GroupClose} {
		t.trackChainLen(s)
	}
	return t, nil
}

// Register adds an operator to the table
func (t *OperatorTable) Register(op Operator) error {
	if op == nil {
		return NewArgumentError(ErrMsgNilOperator, "")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen.Load() {
		return NewStateError(ErrMsgOperatorTableFrozen)
	}
	for _, s := range op.Symbols() {
		if err := validateSymbol(s); err != nil {
			return err
		}
		if containsAny(s, t.delimiters) {
			return NewArgumentError(ErrMsgSymbolHasDelimiter, s)
		}
	}

	switch o := op.(type) {
	case *UnaryOperator:
		if o.Evaluate == nil {
			return NewArgumentError(ErrMsgNilEvaluator, o.Symbol)
		}
		k := t.comparer.Key(o.Symbol)
		if _, exists := t.unary[k]; exists || t.isStructural(k) {
			return t.collision(o.Symbol)
		}
		t.unary[k] = o
	case *BinaryOperator:
		if o.Evaluate == nil {
			return NewArgumentError(ErrMsgNilEvaluator, o.Symbol)
		}
		k := t.comparer.Key(o.Symbol)
		if _, exists := t.binary[k]; exists || t.isStructural(k) {
			return t.collision(o.Symbol)
		}
		t.binary[k] = o
	case *GroupOperator:
		open, closing := t.comparer.Key(o.Open), t.comparer.Key(o.Close)
		if open == closing {
			return t.collision(o.Close)
		}
		for _, sym := range []string{o.Open, o.Close} {
			if t.isKnown(t.comparer.Key(sym)) {
				return t.collision(sym)
			}
		}
		t.groupOpen[open] = o
		t.groupClose[closing] = o
	default:
		return NewArgumentError(ErrMsgNilOperator, "")
	}

	for _, s := range op.Symbols() {
		t.trackChainLen(s)
	}
	t.ordered = append(t.ordered, op)
	t.logger.Debug(LogMsgOperatorRegistered, zap.Strings(LogFieldSymbol, op.Symbols()))
	return nil
}

// MustRegister adds an operator and panics if registration fails
func (t *OperatorTable) MustRegister(op Operator) *OperatorTable {
	if err := t.Register(op); err != nil {
		panic(err)
	}
	return t
}

func (t *OperatorTable) collision(symbol string) error {
	t.logger.Warn(LogMsgOperatorCollision, zap.String(LogFieldSymbol, symbol))
	return NewRegistrationError(ErrMsgSymbolConflict, symbol)
}

// isStructural reports whether key is a flow or group symbol
func (t *OperatorTable) isStructural(key string) bool {
	if key == t.comparer.Key(t.flow.Separator) || key == t.comparer.Key(t.flow.MemberAccess) {
		return true
	}
	_, open := t.groupOpen[key]
	_, closing := t.groupClose[key]
	return open || closing
}

// isKnown reports whether key is occupied by any symbol
func (t *OperatorTable) isKnown(key string) bool {
	_, unary := t.unary[key]
	_, binary := t.binary[key]
	return unary || binary || t.isStructural(key)
}

func (t *OperatorTable) trackChainLen(symbol string) {
	if !IsIdentifier(symbol) && len(symbol) > t.maxChainLen {
		t.maxChainLen = len(symbol)
	}
}

// ReserveDelimiters replaces the tag delimiters no symbol may contain. It
// fails when a flow symbol or a registered operator already contains one.
func (t *OperatorTable) ReserveDelimiters(open, close string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen.Load() {
		return NewStateError(ErrMsgOperatorTableFrozen)
	}
	delimiters := []string{open, close}
	symbols := []string{t.flow.Separator, t.flow.MemberAccess, t.flow.GroupOpen, t.flow.GroupClose}
	for _, op := range t.ordered {
		symbols = append(symbols, op.Symbols()...)
	}
	for _, s := range symbols {
		if containsAny(s, delimiters) {
			return NewArgumentError(ErrMsgSymbolHasDelimiter, s)
		}
	}
	t.delimiters = delimiters
	return nil
}

// Freeze closes the table for registration
func (t *OperatorTable) Freeze() {
	if t.frozen.CompareAndSwap(false, true) {
		t.logger.Debug(LogMsgOperatorTableFrozen, zap.Int(LogFieldCandidates, len(t.ordered)))
	}
}

// Frozen reports whether the table is closed for registration
func (t *OperatorTable) Frozen() bool {
	return t.frozen.Load()
}

// Flow returns the flow symbols
func (t *OperatorTable) Flow() FlowSymbols {
	return t.flow
}

// Comparer returns the name comparer used for symbols
func (t *OperatorTable) Comparer() NameComparer {
	return t.comparer
}

// Operators returns the registered operators in registration order
func (t *OperatorTable) Operators() []Operator {
	out := make([]Operator, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Unary looks up a prefix operator
func (t *OperatorTable) Unary(symbol string) (*UnaryOperator, bool) {
	op, ok := t.unary[t.comparer.Key(symbol)]
	return op, ok
}

// Binary looks up an infix operator, including member access
func (t *OperatorTable) Binary(symbol string) (*BinaryOperator, bool) {
	op, ok := t.binary[t.comparer.Key(symbol)]
	return op, ok
}

// GroupByOpen looks up a group operator by its opening symbol
func (t *OperatorTable) GroupByOpen(symbol string) (*GroupOperator, bool) {
	op, ok := t.groupOpen[t.comparer.Key(symbol)]
	return op, ok
}

// GroupByClose looks up a group operator by its closing symbol
func (t *OperatorTable) GroupByClose(symbol string) (*GroupOperator, bool) {
	op, ok := t.groupClose[t.comparer.Key(symbol)]
	return op, ok
}

// IsSeparator reports whether symbol is the separator flow symbol
func (t *OperatorTable) IsSeparator(symbol string) bool {
	return t.comparer.Equal(symbol, t.flow.Separator)
}

// IsMemberAccess reports whether op is the built-in member access operator
func (t *OperatorTable) IsMemberAccess(op *BinaryOperator) bool {
	return op == t.memberAccess
}

// IsFlowGroup reports whether op is the built-in group operator
func (t *OperatorTable) IsFlowGroup(op *GroupOperator) bool {
	return op == t.flowGroup
}

// HasSymbol reports whether symbol is known to the table in any role
func (t *OperatorTable) HasSymbol(symbol string) bool {
	return t.isKnown(t.comparer.Key(symbol))
}

// SplitSymbols decomposes a run of punctuation into known symbols by greedy
// leftmost-longest matching. On failure it returns the pieces matched so far
// and the byte offset of the first fragment no symbol matches; on success the
// offset is -1.
func (t *OperatorTable) SplitSymbols(chain string) ([]string, int) {
	var pieces []string
	offset := 0
	for offset < len(chain) {
		rest := chain[offset:]
		n := min(t.maxChainLen, len(rest))
		for ; n > 0; n-- {
			if t.HasSymbol(rest[:n]) {
				break
			}
		}
		if n == 0 {
			return pieces, offset
		}
		pieces = append(pieces, rest[:n])
		offset += n
	}
	return pieces, -1
}

// validateSymbol accepts either an identifier-shaped word or a run of
// punctuation without whitespace, letters, digits or quotes
func validateSymbol(symbol string) error {
	if symbol == "" {
		return NewArgumentError(ErrMsgEmptySymbol, "")
	}
	if IsIdentifier(symbol) {
		return nil
	}
	for _, r := range symbol {
		if unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.IsDigit(r) ||
			r == CharUnderscore || r == CharDoubleQuote || r == CharSingleQuote {
			return NewArgumentError(ErrMsgInvalidSymbol, symbol)
		}
	}
	return nil
}

// containsAny reports whether symbol contains one of the delimiters
func containsAny(symbol string, delimiters []string) bool {
	for _, d := range delimiters {
		if d != "" && strings.Contains(symbol, d) {
			return true
		}
	}
	return false
}
