package internal

import (
	"context"
	"fmt"
)

// EvalContext supplies variables and host capabilities during evaluation
type EvalContext interface {
	// Resolve looks up a variable by name
	Resolve(name string) (Value, bool)
	// Member looks up a named member of an object value
	Member(obj Value, name string) (Value, bool)
	// Invoke calls target with the given arguments
	Invoke(target Value, args []Value) (Value, bool)
}

// EvalOption configures a single evaluation
type EvalOption func(*evalConfig)

type evalConfig struct {
	permissive bool
}

// WithPermissive makes unsupported operand kinds evaluate to Undefined
// instead of failing
func WithPermissive() EvalOption {
	return func(c *evalConfig) {
		c.permissive = true
	}
}

// Evaluate computes the value of a constructed expression. ctx is checked
// before every node; a cancelled context aborts with an EvaluationError
// wrapping ctx.Err().
func (e *Expression) Evaluate(ctx context.Context, ec EvalContext, opts ...EvalOption) (Value, error) {
	if e.state != ExpressionConstructed {
		return Undefined(), NewExpressionStateError(ErrMsgExprNotConstructed)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := &evalConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ev := &evaluator{ctx: ctx, ec: ec, nodes: e.nodes, table: e.table, permissive: cfg.permissive}
	return ev.eval(e.root)
}

type evaluator struct {
	ctx        context.Context
	ec         EvalContext
	nodes      *arena
	table      *OperatorTable
	permissive bool
}

func (ev *evaluator) eval(idx int) (Value, error) {
	if err := ev.ctx.Err(); err != nil {
		return Undefined(), newCancelledError(err)
	}

	n := ev.nodes.get(idx)
	switch n.kind {
	case NodeLiteral:
		return n.value, nil
	case NodeVarRef:
		return ev.resolve(n.name)
	case NodeUnary:
		return ev.evalUnary(n)
	case NodeBinary:
		return ev.evalBinary(n)
	case NodeGroup:
		return ev.evalGroup(n)
	case NodeSequence:
		return ev.evalSequence(n.children)
	case NodeInvoke:
		return ev.evalInvoke(n)
	default:
		return Undefined(), NewExpressionStateError(ErrMsgExprNotConstructed)
	}
}

// resolve returns Undefined for names the context does not know
func (ev *evaluator) resolve(name string) (Value, error) {
	if ev.ec == nil {
		return Undefined(), NewEvaluationError(ErrMsgEvalNoContext, name)
	}
	v, ok := ev.ec.Resolve(name)
	if !ok {
		return Undefined(), nil
	}
	return v, nil
}

// operand evaluates a child, passing bare names through as strings when the
// operator asked for an identifier
func (ev *evaluator) operand(idx int, identifier bool) (Value, error) {
	if n := ev.nodes.get(idx); identifier && n.kind == NodeVarRef {
		return String(n.name), nil
	}
	return ev.eval(idx)
}

func (ev *evaluator) evalUnary(n *node) (Value, error) {
	arg, err := ev.operand(n.children[0], n.unary.ExpectRhsIdentifier)
	if err != nil {
		return Undefined(), err
	}
	if v, ok := n.unary.Evaluate(arg); ok {
		return v, nil
	}
	return ev.unsupported(fmt.Sprintf(ErrFmtOperandKinds, n.unary.Symbol, arg.Kind()))
}

func (ev *evaluator) evalBinary(n *node) (Value, error) {
	if ev.table.IsMemberAccess(n.binary) {
		return ev.evalMember(n)
	}

	left, err := ev.operand(n.children[0], n.binary.ExpectLhsIdentifier)
	if err != nil {
		return Undefined(), err
	}
	right, err := ev.operand(n.children[1], n.binary.ExpectRhsIdentifier)
	if err != nil {
		return Undefined(), err
	}
	if v, ok := n.binary.Evaluate(left, right); ok {
		return v, nil
	}
	return ev.unsupported(fmt.Sprintf(ErrFmtBinaryKinds, n.binary.Symbol, left.Kind(), right.Kind()))
}

// evalMember returns Undefined for missing members, like missing variables
func (ev *evaluator) evalMember(n *node) (Value, error) {
	obj, err := ev.eval(n.children[0])
	if err != nil {
		return Undefined(), err
	}
	if ev.ec == nil {
		return Undefined(), NewEvaluationError(ErrMsgEvalNoContext, n.binary.Symbol)
	}
	name := ev.nodes.get(n.children[1]).name
	v, ok := ev.ec.Member(obj, name)
	if !ok {
		return Undefined(), nil
	}
	return v, nil
}

func (ev *evaluator) evalGroup(n *node) (Value, error) {
	inner := Undefined()
	if len(n.children) > 0 {
		v, err := ev.eval(n.children[0])
		if err != nil {
			return Undefined(), err
		}
		inner = v
	}
	if n.group.Evaluate == nil {
		return inner, nil
	}
	if v, ok := n.group.Evaluate(inner); ok {
		return v, nil
	}
	return ev.unsupported(fmt.Sprintf(ErrFmtOperandKinds, n.group.Open+n.group.Close, inner.Kind()))
}

// evalSequence flattens nested sequences by one level
func (ev *evaluator) evalSequence(children []int) (Value, error) {
	items := make([]Value, 0, len(children))
	for _, c := range children {
		v, err := ev.eval(c)
		if err != nil {
			return Undefined(), err
		}
		if v.Kind() == KindSequence {
			items = append(items, v.Items()...)
			continue
		}
		items = append(items, v)
	}
	return Sequence(items...), nil
}

func (ev *evaluator) evalInvoke(n *node) (Value, error) {
	target, err := ev.eval(n.children[0])
	if err != nil {
		return Undefined(), err
	}
	args := make([]Value, 0, len(n.children)-1)
	for _, c := range n.children[1:] {
		v, err := ev.eval(c)
		if err != nil {
			return Undefined(), err
		}
		args = append(args, v)
	}

	if !ev.table.IsFlowGroup(n.group) {
		inner := Undefined()
		if len(args) > 0 {
			inner = args[0]
		}
		if v, ok := n.group.Subscript(target, inner); ok {
			return v, nil
		}
		return ev.unsupported(fmt.Sprintf(ErrFmtBinaryKinds, n.group.Open+n.group.Close, target.Kind(), inner.Kind()))
	}

	if ev.ec == nil {
		return Undefined(), NewEvaluationError(ErrMsgEvalNoContext, n.group.Open+n.group.Close)
	}
	if v, ok := ev.ec.Invoke(target, args); ok {
		return v, nil
	}
	if ev.permissive {
		return Undefined(), nil
	}
	return Undefined(), NewEvaluationError(ErrMsgEvalInvokeFailed, target.Kind().String())
}

func (ev *evaluator) unsupported(detail string) (Value, error) {
	if ev.permissive {
		return Undefined(), nil
	}
	return Undefined(), NewEvaluationError(ErrMsgEvalUnsupportedKinds, detail)
}
