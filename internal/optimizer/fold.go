package optimizer

import (
	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

// ConstantFoldingPass evaluates arithmetic on literals and numeric conversions
// of literals ahead of time. Anything the runtime would reject is left alone,
// so the error still happens when the program runs.
type ConstantFoldingPass struct{}

func (ConstantFoldingPass) Name() string                 { return "constant_fold" }
func (ConstantFoldingPass) ShouldApply(level Level) bool { return level >= LevelBasic }

func (ConstantFoldingPass) Optimize(n *ast.Node) *ast.Node {
	switch {
	case n.Is(ast.KindBinary) && n.Len() == 2:
		return foldBinary(n)
	case n.Is(ast.KindFunCall) && n.Len() == 2:
		return foldConversion(n)
	}
	return n
}

func foldBinary(n *ast.Node) *ast.Node {
	lhs, rhs := n.Child(0), n.Child(1)
	l, ok := lhs.Constant()
	if !ok || !l.Type().IsArithmetic() {
		return n
	}
	r, ok := rhs.Constant()
	if !ok || !r.Type().IsArithmetic() {
		return n
	}

	op := runtime.ParseOperator(n.Text())
	if op == runtime.OpInvalid {
		return n
	}

	v, err := runtime.EvalBinary(op, l, r)
	if err != nil {
		return n
	}
	return ast.NewConstant(lhs.Text()+" "+n.Text()+" "+rhs.Text(), n.Span(), v)
}

// foldConversion handles double(x), int(x), float(x) and long(x) applied to a
// single numeric literal.
func foldConversion(n *ast.Node) *ast.Node {
	callee, args := n.Child(0), n.Child(1)
	if !callee.Is(ast.KindId) || !args.Is(ast.KindArgList) || args.Len() != 1 {
		return n
	}
	if _, ok := runtime.Conversions[callee.Text()]; !ok {
		return n
	}

	arg, ok := args.Child(0).Constant()
	if !ok || !arg.Type().IsArithmetic() {
		return n
	}

	v, err := runtime.Convert(callee.Text(), arg)
	if err != nil {
		return n
	}
	return ast.NewConstant(callee.Text()+"("+args.Child(0).Text()+")", n.Span(), v)
}
