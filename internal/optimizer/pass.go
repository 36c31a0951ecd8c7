// Package optimizer rewrites syntax trees into cheaper equivalents. Each pass
// inspects a single node, without recursing, and either returns it unchanged or
// returns a replacement that behaves identically when evaluated. Walk drives the
// passes over a whole tree bottom-up.
package optimizer

import (
	"strings"

	"github.com/orizon-lang/scriptopt/internal/ast"
)

// Pass is a single local rewrite.
type Pass interface {
	// Name identifies the pass in configuration and logs.
	Name() string

	// Optimize returns node itself when the pass does not apply, or a
	// replacement node otherwise. It never modifies node.
	Optimize(node *ast.Node) *ast.Node

	// ShouldApply reports whether the pass belongs in a pipeline built for level.
	ShouldApply(level Level) bool
}

// Level selects how much rewriting a pipeline does.
type Level int

const (
	LevelNone       Level = iota // No rewriting
	LevelBasic                   // Structural clean-ups and folding
	LevelDefault                 // Adds dead-branch elimination
	LevelAggressive              // Adds native loop specialization
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelBasic:
		return "basic"
	case LevelDefault:
		return "default"
	case LevelAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseLevel accepts a level name or its -O digit.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return LevelNone, true
	case "basic", "1":
		return LevelBasic, true
	case "default", "2", "":
		return LevelDefault, true
	case "aggressive", "3":
		return LevelAggressive, true
	}
	return LevelNone, false
}

// childAt and childCount look at a specialized node's original rather than at
// its retained children, so passes see the structure the parser produced.
func childAt(n *ast.Node, i int) *ast.Node {
	if orig, ok := n.Original(); ok {
		return orig.Child(i)
	}
	return n.Child(i)
}

func childCount(n *ast.Node) int {
	if orig, ok := n.Original(); ok {
		return orig.Len()
	}
	return n.Len()
}
