// Package asttest builds syntax trees in the shape the parser produces, for
// use in tests.
package asttest

import (
	"strconv"
	"strings"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/position"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

// Span is the location given to every node built here.
var Span = position.At("test.chai", 1, 1)

func Id(name string) *ast.Node { return ast.New(ast.KindId, name, Span) }

func Int(i int32) *ast.Node {
	return ast.NewConstant(strconv.FormatInt(int64(i), 10), Span, runtime.Int(i))
}

func Long(i int64) *ast.Node {
	return ast.NewConstant(strconv.FormatInt(i, 10)+"l", Span, runtime.Long(i))
}

func Double(f float64) *ast.Node {
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return ast.NewConstant(text, Span, runtime.Double(f))
}

func Bool(b bool) *ast.Node {
	return ast.NewConstant(strconv.FormatBool(b), Span, runtime.Bool(b))
}

func Str(s string) *ast.Node {
	return ast.NewConstant(strconv.Quote(s), Span, runtime.String(s))
}

func Binary(op string, lhs, rhs *ast.Node) *ast.Node {
	return ast.New(ast.KindBinary, op, Span, lhs, rhs)
}

func Prefix(op string, operand *ast.Node) *ast.Node {
	return ast.New(ast.KindPrefix, op, Span, operand)
}

func Block(stmts ...*ast.Node) *ast.Node { return ast.New(ast.KindBlock, "", Span, stmts...) }

// If builds an if statement; pass a third node for the else branch.
func If(cond, then *ast.Node, otherwise ...*ast.Node) *ast.Node {
	return ast.New(ast.KindIf, "if", Span, append([]*ast.Node{cond, then}, otherwise...)...)
}

func Ternary(cond, a, b *ast.Node) *ast.Node {
	return ast.New(ast.KindTernaryCond, "?", Span, cond, a, b)
}

func Args(args ...*ast.Node) *ast.Node { return ast.New(ast.KindArgList, "", Span, args...) }

// Call builds a call of a named function.
func Call(name string, args ...*ast.Node) *ast.Node {
	return ast.New(ast.KindFunCall, name, Span, Id(name), Args(args...))
}

func VarDecl(name string) *ast.Node { return ast.New(ast.KindVarDecl, "var", Span, Id(name)) }

func Assign(name string, rhs *ast.Node) *ast.Node {
	return ast.New(ast.KindEquation, "=", Span, Id(name), rhs)
}

// Decl builds `var name = init`.
func Decl(name string, init *ast.Node) *ast.Node {
	return ast.New(ast.KindEquation, "=", Span, VarDecl(name), init)
}

func For(init, cond, step, body *ast.Node) *ast.Node {
	return ast.New(ast.KindFor, "for", Span, init, cond, step, body)
}

func While(cond, body *ast.Node) *ast.Node { return ast.New(ast.KindWhile, "while", Span, cond, body) }

func Return(exprs ...*ast.Node) *ast.Node { return ast.New(ast.KindReturn, "return", Span, exprs...) }

func Break() *ast.Node    { return ast.New(ast.KindBreak, "break", Span) }
func Continue() *ast.Node { return ast.New(ast.KindContinue, "continue", Span) }
func Noop() *ast.Node     { return ast.New(ast.KindNoop, "", Span) }

// Def builds `def name(params...) body`.
func Def(name string, params []string, body *ast.Node) *ast.Node {
	ps := make([]*ast.Node, 0, len(params))
	for _, p := range params {
		ps = append(ps, Id(p))
	}
	return ast.New(ast.KindDef, name, Span, Id(name), Args(ps...), body)
}

// CountedLoop builds `for (var v = from; v < bound; ++v) body`.
func CountedLoop(v string, from, bound, body *ast.Node) *ast.Node {
	return For(Decl(v, from), Binary("<", Id(v), bound), Prefix("++", Id(v)), body)
}

// Collect returns a function value bound as name that appends every argument
// it is called with to *out.
func Collect(ctx *runtime.Context, name string, out *[]runtime.Value) {
	ctx.Bind(name, runtime.Func(&collector{name: name, out: out}))
}

type collector struct {
	name string
	out  *[]runtime.Value
}

func (c *collector) Name() string { return c.name }

func (c *collector) Call(_ *runtime.Context, args []runtime.Value) (runtime.Value, error) {
	*c.out = append(*c.out, args...)
	return runtime.Void(), nil
}
