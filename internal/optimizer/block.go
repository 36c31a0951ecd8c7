package optimizer

import "github.com/orizon-lang/scriptopt/internal/ast"

// BlockPass replaces a single-statement block by that statement when the block
// scope has nothing to hold.
type BlockPass struct{}

func (BlockPass) Name() string                 { return "block" }
func (BlockPass) ShouldApply(level Level) bool { return level >= LevelBasic }

func (BlockPass) Optimize(n *ast.Node) *ast.Node {
	if n.Is(ast.KindBlock) && n.Len() == 1 && !declaresInScope(n) {
		return n.Child(0)
	}
	return n
}

// declaresInScope reports whether n introduces a binding in the scope that
// encloses it. Nested blocks own their declarations and are not searched.
// Function definitions bind their name, so they count as declarations.
func declaresInScope(n *ast.Node) bool {
	if n.Is(ast.KindVarDecl) || n.Is(ast.KindDef) {
		return true
	}
	for i := 0; i < childCount(n); i++ {
		c := childAt(n, i)
		if !c.Is(ast.KindBlock) && declaresInScope(c) {
			return true
		}
	}
	return false
}
