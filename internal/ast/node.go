// Package ast defines the syntax tree the script engine evaluates and the
// optimizer rewrites.
//
// A Node is a closed tagged variant: the Kind discriminant says which
// construct it is, and the variant-specific payloads (the value of a
// constant, the original of a specialized node) are reached through
// accessors that report absence on a kind mismatch. Nodes are immutable
// once built; rewriting produces new nodes and leaves old ones intact for
// any holder that still references them.
package ast

import (
	"fmt"

	"github.com/orizon-lang/scriptopt/internal/position"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

// Kind identifies the construct a node represents
type Kind int

const (
	KindDef         Kind = iota // function definition: name, parameters, body
	KindBlock                   // braced statement list, opens a scope
	KindIf                      // if (cond) then [else]
	KindTernaryCond             // cond ? a : b
	KindBinary                  // lhs <op> rhs, operator in Text
	KindFunCall                 // callee, argument list
	KindArgList                 // call arguments or parameter names
	KindId                      // identifier, name in Text
	KindConstant                // literal or folded value
	KindVarDecl                 // var <id>
	KindEquation                // assignment, operator in Text
	KindPrefix                  // prefix operator applied to one child
	KindFor                     // init; cond; step; body
	KindWhile                   // while (cond) body
	KindReturn                  // return [expr]
	KindBreak                   // break
	KindContinue                // continue
	KindNoop                    // empty statement
	KindSpecialized             // optimizer-built replacement with a native body
)

var kindNames = [...]string{
	KindDef:         "Def",
	KindBlock:       "Block",
	KindIf:          "If",
	KindTernaryCond: "TernaryCond",
	KindBinary:      "Binary",
	KindFunCall:     "FunCall",
	KindArgList:     "ArgList",
	KindId:          "Id",
	KindConstant:    "Constant",
	KindVarDecl:     "VarDecl",
	KindEquation:    "Equation",
	KindPrefix:      "Prefix",
	KindFor:         "For",
	KindWhile:       "While",
	KindReturn:      "Return",
	KindBreak:       "Break",
	KindContinue:    "Continue",
	KindNoop:        "Noop",
	KindSpecialized: "Specialized",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a kind from its String form.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// SpecializedBody runs in place of generic evaluation for a specialized node.
// It receives the retained children and must not keep state between calls.
type SpecializedBody func(ctx *runtime.Context, children []*Node) (runtime.Result, error)

// Node is a syntax tree node.
type Node struct {
	kind     Kind
	text     string
	span     position.Span
	children []*Node

	value runtime.Value // KindConstant

	original *Node           // KindSpecialized, read-only
	body     SpecializedBody // KindSpecialized
}

// New builds a node of the given kind. The children slice is copied.
func New(kind Kind, text string, span position.Span, children ...*Node) *Node {
	return &Node{
		kind:     kind,
		text:     text,
		span:     span,
		children: append([]*Node(nil), children...),
	}
}

// NewConstant builds a constant node holding an evaluated value.
func NewConstant(text string, span position.Span, v runtime.Value) *Node {
	return &Node{kind: KindConstant, text: text, span: span, value: v}
}

// NewSpecialized builds a node that evaluates body instead of original. The
// new node references original for introspection only; original never learns
// about its replacement.
func NewSpecialized(original *Node, children []*Node, body SpecializedBody) *Node {
	return &Node{
		kind:     KindSpecialized,
		text:     original.text,
		span:     original.span,
		children: append([]*Node(nil), children...),
		original: original,
		body:     body,
	}
}

func (n *Node) Kind() Kind             { return n.kind }
func (n *Node) Text() string           { return n.text }
func (n *Node) Span() position.Span    { return n.span }
func (n *Node) Len() int               { return len(n.children) }
func (n *Node) Is(k Kind) bool         { return n != nil && n.kind == k }
func (n *Node) Child(i int) *Node      { return n.children[i] }
func (n *Node) Children() []*Node      { return append([]*Node(nil), n.children...) }
func (n *Node) IsConstant() bool       { return n.Is(KindConstant) }
func (n *Node) IsSpecialized() bool    { return n.Is(KindSpecialized) }
func (n *Node) Last() *Node            { return n.children[len(n.children)-1] }
func (n *Node) HasChildren() bool      { return len(n.children) > 0 }
func (n *Node) ChildKind(i int) Kind   { return n.children[i].kind }
func (n *Node) ChildText(i int) string { return n.children[i].text }

// Body returns the native body of a specialized node, nil otherwise.
func (n *Node) Body() SpecializedBody { return n.body }

// Constant returns the value of a constant node.
func (n *Node) Constant() (runtime.Value, bool) {
	if !n.Is(KindConstant) {
		return runtime.Value{}, false
	}
	return n.value, true
}

// Original returns the node a specialized node replaced.
func (n *Node) Original() (*Node, bool) {
	if !n.Is(KindSpecialized) {
		return nil, false
	}
	return n.original, true
}

// WithChildren returns a copy of n with its children replaced. Payloads are
// carried over, so a specialized copy keeps its original and body.
func (n *Node) WithChildren(children []*Node) *Node {
	cp := *n
	cp.children = append([]*Node(nil), children...)
	return &cp
}

// WithChild returns a copy of n with child i replaced.
func (n *Node) WithChild(i int, child *Node) *Node {
	children := n.Children()
	children[i] = child
	return n.WithChildren(children)
}

func (n *Node) String() string {
	switch n.kind {
	case KindConstant:
		return fmt.Sprintf("Constant(%s = %s)", n.text, n.value)
	case KindSpecialized:
		return fmt.Sprintf("Specialized(%s)", n.original.kind)
	}
	if n.text == "" {
		return n.kind.String()
	}
	return fmt.Sprintf("%s(%s)", n.kind, n.text)
}
