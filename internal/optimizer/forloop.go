package optimizer

import (
	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/runtime"
	"github.com/orizon-lang/scriptopt/internal/typeinfo"
)

// CountedLoopPass recognises
//
//	for (var x = a; x < b; ++x) body
//
// with int literals a and b, and replaces it by a node that keeps the counter
// in a native int32 instead of re-evaluating the header generically.
type CountedLoopPass struct{}

func (CountedLoopPass) Name() string                 { return "for_loop" }
func (CountedLoopPass) ShouldApply(level Level) bool { return level >= LevelAggressive }

func (CountedLoopPass) Optimize(n *ast.Node) *ast.Node {
	if !n.Is(ast.KindFor) || childCount(n) != 4 {
		return n
	}

	name, from, ok := counterInit(childAt(n, 0))
	if !ok {
		return n
	}
	to, ok := counterBound(childAt(n, 1), name)
	if !ok || !isIncrement(childAt(n, 2), name) {
		return n
	}

	return ast.NewSpecialized(n, []*ast.Node{childAt(n, 3)}, countedLoop(name, from, to))
}

// counterInit matches `var x = <int literal>`.
func counterInit(n *ast.Node) (string, int32, bool) {
	if !n.Is(ast.KindEquation) || n.Text() != "=" || childCount(n) != 2 {
		return "", 0, false
	}
	decl := childAt(n, 0)
	if !decl.Is(ast.KindVarDecl) || childCount(decl) < 1 {
		return "", 0, false
	}
	from, ok := intLiteral(childAt(n, 1))
	if !ok {
		return "", 0, false
	}
	return childAt(decl, 0).Text(), from, true
}

// counterBound matches `x < <int literal>`.
func counterBound(n *ast.Node, name string) (int32, bool) {
	if !n.Is(ast.KindBinary) || n.Text() != "<" || childCount(n) != 2 {
		return 0, false
	}
	if lhs := childAt(n, 0); !lhs.Is(ast.KindId) || lhs.Text() != name {
		return 0, false
	}
	return intLiteral(childAt(n, 1))
}

// isIncrement matches `++x`.
func isIncrement(n *ast.Node, name string) bool {
	if !n.Is(ast.KindPrefix) || n.Text() != "++" || childCount(n) != 1 {
		return false
	}
	operand := childAt(n, 0)
	return operand.Is(ast.KindId) && operand.Text() == name
}

func intLiteral(n *ast.Node) (int32, bool) {
	v, ok := n.Constant()
	if !ok || !v.Type().EqualKey(typeinfo.IntType.Key()) {
		return 0, false
	}
	i, err := v.AsInt()
	return i, err == nil
}

// countedLoop builds the native body. All iteration state lives on the Go
// stack of each call, so one specialized node may run on many goroutines or
// recursively.
func countedLoop(name string, from, to int32) ast.SpecializedBody {
	return func(ctx *runtime.Context, children []*ast.Node) (runtime.Result, error) {
		body := children[0]

		return ctx.WithScope(func() (runtime.Result, error) {
			i := from
			ctx.BindCell(name, &i)

			for ; i < to; i++ {
				r, err := body.Eval(ctx)
				if err != nil {
					return runtime.Result{}, err
				}
				switch r.Flow {
				case runtime.FlowBreak:
					return runtime.Normal(runtime.Void()), nil
				case runtime.FlowReturn:
					return r, nil
				}
			}
			return runtime.Normal(runtime.Void()), nil
		})
	}
}
