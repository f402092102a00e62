package internal

// NodeKind identifies the kind of an expression tree node
type NodeKind int

// Node kind constants
const (
	NodeLiteral NodeKind = iota
	NodeVarRef
	NodeUnary
	NodeBinary
	NodeGroup
	NodeSequence
	NodeInvoke
	nodePlaceholder
)

// Node kind names for debugging
const (
	NodeKindNameLiteral     = "LITERAL"
	NodeKindNameVarRef      = "VAR_REF"
	NodeKindNameUnary       = "UNARY"
	NodeKindNameBinary      = "BINARY"
	NodeKindNameGroup       = "GROUP"
	NodeKindNameSequence    = "SEQUENCE"
	NodeKindNameInvoke      = "INVOKE"
	NodeKindNamePlaceholder = "PLACEHOLDER"
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeLiteral:
		return NodeKindNameLiteral
	case NodeVarRef:
		return NodeKindNameVarRef
	case NodeUnary:
		return NodeKindNameUnary
	case NodeBinary:
		return NodeKindNameBinary
	case NodeGroup:
		return NodeKindNameGroup
	case NodeSequence:
		return NodeKindNameSequence
	case NodeInvoke:
		return NodeKindNameInvoke
	default:
		return NodeKindNamePlaceholder
	}
}

// noNode marks an absent node reference
const noNode = -1

// node is one arena entry. Children refer to other entries by index and
// always point at earlier entries, so the tree cannot contain cycles.
//
//	Unary:    children = [operand]
//	Binary:   children = [left, right]
//	Group:    children = [] or [inner]
//	Sequence: children = items
//	Invoke:   children = [target, args...]
type node struct {
	kind     NodeKind
	value    Value
	name     string
	unary    *UnaryOperator
	binary   *BinaryOperator
	group    *GroupOperator
	children []int
}

// arena owns every node of one expression
type arena struct {
	nodes []node
}

func (a *arena) add(n node) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *arena) get(i int) *node {
	return &a.nodes[i]
}

func (a *arena) literal(v Value) int {
	return a.add(node{kind: NodeLiteral, value: v})
}

func (a *arena) varRef(name string) int {
	return a.add(node{kind: NodeVarRef, name: name})
}

func (a *arena) placeholder() int {
	return a.add(node{kind: nodePlaceholder})
}

func (a *arena) unaryNode(op *UnaryOperator, operand int) int {
	return a.add(node{kind: NodeUnary, unary: op, children: []int{operand}})
}

func (a *arena) binaryNode(op *BinaryOperator, left, right int) int {
	return a.add(node{kind: NodeBinary, binary: op, children: []int{left, right}})
}

func (a *arena) groupNode(op *GroupOperator, inner int) int {
	n := node{kind: NodeGroup, group: op}
	if inner != noNode {
		n.children = []int{inner}
	}
	return a.add(n)
}

func (a *arena) sequenceNode(items []int) int {
	children := make([]int, len(items))
	copy(children, items)
	return a.add(node{kind: NodeSequence, children: children})
}

func (a *arena) invokeNode(op *GroupOperator, target int, args []int) int {
	children := make([]int, 0, len(args)+1)
	children = append(children, target)
	children = append(children, args...)
	return a.add(node{kind: NodeInvoke, group: op, children: children})
}

// clone copies the arena. Node child slices are never mutated after
// creation, so sharing them is safe.
func (a *arena) clone() *arena {
	nodes := make([]node, len(a.nodes))
	copy(nodes, a.nodes)
	return &arena{nodes: nodes}
}
