package internal

import "math"

// ExpressionState is the lifecycle state of an Expression
type ExpressionState int

// Expression lifecycle states
const (
	ExpressionNotStarted ExpressionState = iota
	ExpressionStarted
	ExpressionConstructed
)

// Expression state names
const (
	ExpressionStateNameNotStarted  = "NOT_STARTED"
	ExpressionStateNameStarted     = "STARTED"
	ExpressionStateNameConstructed = "CONSTRUCTED"
)

// String returns the string representation of the state
func (s ExpressionState) String() string {
	switch s {
	case ExpressionStarted:
		return ExpressionStateNameStarted
	case ExpressionConstructed:
		return ExpressionStateNameConstructed
	default:
		return ExpressionStateNameNotStarted
	}
}

// ExpressionBuilder is the feed interface the lexer drives
type ExpressionBuilder interface {
	FeedLiteral(v Value) error
	FeedSymbol(symbol string) error
	Construct() error
	IsConstructed() bool
}

// pendingOp is an operator waiting for its operands
type pendingOp struct {
	unary  *UnaryOperator
	binary *BinaryOperator
}

func (p pendingOp) precedence() int {
	if p.unary != nil {
		return p.unary.Precedence
	}
	return p.binary.Precedence
}

// frame accumulates one open group. The root frame has no group.
type frame struct {
	group    *GroupOperator
	target   int // invocation target, or noNode for a plain group
	operands []int
	ops      []pendingOp
	items    []int // finished separator-delimited items
}

func (f *frame) clone() *frame {
	c := *f
	c.operands = append([]int(nil), f.operands...)
	c.ops = append([]pendingOp(nil), f.ops...)
	c.items = append([]int(nil), f.items...)
	return &c
}

// Expression builds an expression tree from literals and symbols fed one at
// a time, using precedence climbing against an OperatorTable. Once
// constructed it is read-only and may be evaluated or rendered any number of
// times.
type Expression struct {
	table            *OperatorTable
	state            ExpressionState
	nodes            *arena
	frames           []*frame
	expectOperand    bool
	expectIdentifier bool
	root             int
}

// NewExpression creates an empty expression over table and freezes the table
func NewExpression(table *OperatorTable) (*Expression, error) {
	if table == nil {
		return nil, NewArgumentError(ErrMsgNilOperatorTable, "")
	}
	table.Freeze()
	return &Expression{
		table:         table,
		nodes:         &arena{},
		frames:        []*frame{{target: noNode}},
		expectOperand: true,
		root:          noNode,
	}, nil
}

// State returns the lifecycle state
func (e *Expression) State() ExpressionState {
	return e.state
}

// IsConstructed reports whether Construct has completed
func (e *Expression) IsConstructed() bool {
	return e.state == ExpressionConstructed
}

// Table returns the operator table the expression was built against
func (e *Expression) Table() *OperatorTable {
	return e.table
}

// FeedLiteral appends a literal operand
func (e *Expression) FeedLiteral(v Value) error {
	if err := e.begin(); err != nil {
		return err
	}
	if e.expectIdentifier {
		return NewExpressionSyntaxError(ErrMsgExprIdentifierRequired, v.String())
	}
	if !e.expectOperand {
		return NewExpressionSyntaxError(ErrMsgExprOperatorExpected, v.String())
	}
	e.pushOperand(e.nodes.literal(v))
	return nil
}

// FeedSymbol appends an operator, flow symbol or bare name
func (e *Expression) FeedSymbol(symbol string) error {
	if err := e.begin(); err != nil {
		return err
	}
	if symbol == "" {
		return NewArgumentError(ErrMsgEmptySymbol, "")
	}

	if e.expectIdentifier {
		return e.feedIdentifier(symbol)
	}
	if e.expectOperand {
		return e.feedOperandSymbol(symbol)
	}
	return e.feedOperatorSymbol(symbol)
}

func (e *Expression) begin() error {
	if e.state == ExpressionConstructed {
		return NewExpressionStateError(ErrMsgExprAlreadyConstructed)
	}
	e.state = ExpressionStarted
	return nil
}

func (e *Expression) top() *frame {
	return e.frames[len(e.frames)-1]
}

func (e *Expression) pushOperand(idx int) {
	f := e.top()
	f.operands = append(f.operands, idx)
	e.expectOperand = false
}

// feedIdentifier places a bare name after an identifier-requiring operator
// and binds that operator to it at once
func (e *Expression) feedIdentifier(symbol string) error {
	if !IsIdentifier(symbol) {
		return NewExpressionSyntaxError(ErrMsgExprIdentifierExpected, symbol)
	}
	e.expectIdentifier = false
	e.pushOperand(e.nodes.varRef(symbol))

	f := e.top()
	if n := len(f.ops); n > 0 {
		p := f.ops[n-1]
		if (p.unary != nil && p.unary.ExpectRhsIdentifier) || (p.binary != nil && p.binary.ExpectRhsIdentifier) {
			f.ops = f.ops[:n-1]
			return e.apply(f, p, false)
		}
	}
	return nil
}

func (e *Expression) feedOperandSymbol(symbol string) error {
	if op, ok := e.table.Unary(symbol); ok {
		f := e.top()
		f.ops = append(f.ops, pendingOp{unary: op})
		e.expectIdentifier = op.ExpectRhsIdentifier
		return nil
	}
	if op, ok := e.table.GroupByOpen(symbol); ok {
		e.frames = append(e.frames, &frame{group: op, target: noNode})
		return nil
	}
	if op, ok := e.table.GroupByClose(symbol); ok {
		f := e.top()
		if f.group == op && len(f.operands) == 0 && len(f.ops) == 0 && len(f.items) == 0 {
			return e.closeFrame()
		}
		return NewExpressionSyntaxError(ErrMsgExprUnexpectedTerm, symbol)
	}
	if IsIdentifier(symbol) && !e.table.HasSymbol(symbol) {
		e.pushOperand(e.nodes.varRef(symbol))
		return nil
	}
	return NewExpressionSyntaxError(ErrMsgExprUnexpectedTerm, symbol)
}

func (e *Expression) feedOperatorSymbol(symbol string) error {
	f := e.top()

	if op, ok := e.table.Binary(symbol); ok {
		if err := e.reduce(f, op.Precedence, op.Associativity); err != nil {
			return err
		}
		if op.ExpectLhsIdentifier {
			lhs := f.operands[len(f.operands)-1]
			if e.nodes.get(lhs).kind != NodeVarRef {
				return NewExpressionSyntaxError(ErrMsgExprIdentifierExpected, symbol)
			}
		}
		f.ops = append(f.ops, pendingOp{binary: op})
		e.expectOperand = true
		e.expectIdentifier = op.ExpectRhsIdentifier
		return nil
	}

	if e.table.IsSeparator(symbol) {
		if err := e.reduce(f, minPrecedence, LeftToRight); err != nil {
			return err
		}
		f.items = append(f.items, e.popOperand(f))
		e.expectOperand = true
		return nil
	}

	if op, ok := e.table.GroupByOpen(symbol); ok {
		if !e.table.IsFlowGroup(op) && op.Subscript == nil {
			return NewExpressionSyntaxError(ErrMsgExprUnexpectedTerm, symbol)
		}
		// Only member access binds tighter than a postfix group.
		if err := e.reduce(f, MaxPrecedence, LeftToRight); err != nil {
			return err
		}
		target := e.popOperand(f)
		e.frames = append(e.frames, &frame{group: op, target: target})
		e.expectOperand = true
		return nil
	}

	if op, ok := e.table.GroupByClose(symbol); ok {
		if f.group != op {
			return NewExpressionSyntaxError(ErrMsgExprUnexpectedTerm, symbol)
		}
		return e.closeFrame()
	}

	return NewExpressionSyntaxError(ErrMsgExprUnexpectedTerm, symbol)
}

// minPrecedence is below every operator precedence and reduces a whole frame
const minPrecedence = math.MinInt

// reduce applies pending operators of the frame that bind at least as
// tightly as an incoming operator of the given precedence. Equal precedence
// reduces only for left-associative incoming operators.
func (e *Expression) reduce(f *frame, precedence int, assoc Associativity) error {
	for len(f.ops) > 0 {
		p := f.ops[len(f.ops)-1]
		top := p.precedence()
		if top < precedence || (top == precedence && assoc == RightToLeft) {
			return nil
		}
		f.ops = f.ops[:len(f.ops)-1]
		if err := e.apply(f, p, false); err != nil {
			return err
		}
	}
	return nil
}

// apply turns a pending operator into a node. With fill set, missing
// operands become placeholders instead of failing.
func (e *Expression) apply(f *frame, p pendingOp, fill bool) error {
	arity := 1
	if p.binary != nil {
		arity = 2
	}
	if len(f.operands) < arity {
		if !fill {
			return NewExpressionSyntaxError(ErrMsgExprInvalidState, "")
		}
		for len(f.operands) < arity {
			f.operands = append([]int{e.nodes.placeholder()}, f.operands...)
		}
	}

	if p.unary != nil {
		operand := e.popOperand(f)
		f.operands = append(f.operands, e.nodes.unaryNode(p.unary, operand))
		return nil
	}
	right := e.popOperand(f)
	left := e.popOperand(f)
	f.operands = append(f.operands, e.nodes.binaryNode(p.binary, left, right))
	return nil
}

func (e *Expression) popOperand(f *frame) int {
	n := len(f.operands)
	if n == 0 {
		return e.nodes.placeholder()
	}
	idx := f.operands[n-1]
	f.operands = f.operands[:n-1]
	return idx
}

// frameContent reduces a frame completely and returns its content: the
// single operand, a sequence of separated items, or noNode when empty
func (e *Expression) frameContent(f *frame, fill bool) (int, []int, error) {
	for len(f.ops) > 0 {
		p := f.ops[len(f.ops)-1]
		f.ops = f.ops[:len(f.ops)-1]
		if err := e.apply(f, p, fill); err != nil {
			return noNode, nil, err
		}
	}
	if len(f.operands) > 1 && !fill {
		return noNode, nil, NewExpressionSyntaxError(ErrMsgExprInvalidState, "")
	}

	if len(f.items) == 0 {
		if len(f.operands) == 0 {
			return noNode, nil, nil
		}
		return f.operands[len(f.operands)-1], nil, nil
	}
	items := append([]int(nil), f.items...)
	if len(f.operands) > 0 {
		items = append(items, f.operands[len(f.operands)-1])
	} else if fill {
		items = append(items, e.nodes.placeholder())
	}
	return e.nodes.sequenceNode(items), items, nil
}

// closeFrame finishes the innermost group and pushes the resulting node
// into its parent frame
func (e *Expression) closeFrame() error {
	return e.closeFrameWith(false)
}

func (e *Expression) closeFrameWith(fill bool) error {
	f := e.top()
	content, items, err := e.frameContent(f, fill)
	if err != nil {
		return err
	}
	e.frames = e.frames[:len(e.frames)-1]

	var idx int
	if f.target != noNode {
		var args []int
		switch {
		case items != nil && e.table.IsFlowGroup(f.group):
			args = items
		case content != noNode:
			args = []int{content}
		}
		idx = e.nodes.invokeNode(f.group, f.target, args)
	} else {
		idx = e.nodes.groupNode(f.group, content)
	}
	e.pushOperand(idx)
	return nil
}

// Construct finishes the expression. It fails when a group is still open
// or an operator lacks an operand.
func (e *Expression) Construct() error {
	if e.state == ExpressionConstructed {
		return NewExpressionStateError(ErrMsgExprAlreadyConstructed)
	}
	if e.state == ExpressionNotStarted || e.expectOperand || e.expectIdentifier || len(e.frames) != 1 {
		return NewExpressionSyntaxError(ErrMsgExprInvalidState, "")
	}

	// Reduce a copy so a failed construction leaves the pending state intact.
	root, _, err := e.frameContent(e.frames[0].clone(), false)
	if err != nil {
		return err
	}
	e.root = root
	e.frames = nil
	e.state = ExpressionConstructed
	return nil
}

// snapshot returns the root of the tree as it stands. Unfinished engines are
// completed on a copy, with placeholders for missing operands.
func (e *Expression) snapshot() (*arena, int) {
	if e.state == ExpressionConstructed {
		return e.nodes, e.root
	}

	c := &Expression{
		table:            e.table,
		nodes:            e.nodes.clone(),
		frames:           make([]*frame, len(e.frames)),
		expectOperand:    e.expectOperand,
		expectIdentifier: e.expectIdentifier,
	}
	for i, f := range e.frames {
		c.frames[i] = f.clone()
	}

	if c.expectOperand || c.expectIdentifier {
		c.pushOperand(c.nodes.placeholder())
	}
	for len(c.frames) > 1 {
		// fill mode never fails
		_ = c.closeFrameWith(true)
	}
	root, _, _ := c.frameContent(c.frames[0], true)
	if root == noNode {
		root = c.nodes.placeholder()
	}
	return c.nodes, root
}
