package optimizer

import "github.com/orizon-lang/scriptopt/internal/ast"

// ReturnPass drops a trailing `return expr` from a function body, since the
// value of the body's last statement is already the function's result.
type ReturnPass struct{}

func (ReturnPass) Name() string                 { return "return" }
func (ReturnPass) ShouldApply(level Level) bool { return level >= LevelBasic }

func (ReturnPass) Optimize(n *ast.Node) *ast.Node {
	if !n.Is(ast.KindDef) || !n.HasChildren() {
		return n
	}

	body := n.Last()
	if !body.Is(ast.KindBlock) || !body.HasChildren() {
		return n
	}

	ret := body.Last()
	if !ret.Is(ast.KindReturn) || ret.Len() != 1 {
		return n
	}

	return n.WithChild(n.Len()-1, body.WithChild(body.Len()-1, ret.Child(0)))
}
