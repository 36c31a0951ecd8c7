package optimizer

import (
	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/typeinfo"
)

// DeadBranchPass resolves conditionals whose condition is a literal bool.
type DeadBranchPass struct{}

func (DeadBranchPass) Name() string                 { return "if" }
func (DeadBranchPass) ShouldApply(level Level) bool { return level >= LevelDefault }

func (DeadBranchPass) Optimize(n *ast.Node) *ast.Node {
	if !n.Is(ast.KindIf) && !n.Is(ast.KindTernaryCond) {
		return n
	}
	if n.Len() < 2 {
		return n
	}

	v, ok := n.Child(0).Constant()
	if !ok || !v.Type().EqualKey(typeinfo.BoolType.Key()) {
		return n
	}
	cond, err := v.AsBool()
	if err != nil {
		return n
	}

	switch {
	case cond:
		return n.Child(1)
	case n.Len() == 3:
		return n.Child(2)
	}
	// if (false) without an else: keep it.
	return n
}
