package ast_test

import (
	"testing"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/ast/asttest"
	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

func eval(t *testing.T, ctx *runtime.Context, n *ast.Node) runtime.Result {
	t.Helper()
	r, err := n.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval(%s) error: %v", n, err)
	}
	return r
}

func ints(vals []runtime.Value) []int32 {
	out := make([]int32, 0, len(vals))
	for _, v := range vals {
		i, _ := v.AsInt()
		out = append(out, i)
	}
	return out
}

func TestEvalExpressions(t *testing.T) {
	tests := []struct {
		name     string
		node     *ast.Node
		expected runtime.Value
	}{
		{"arithmetic", asttest.Binary("*", asttest.Binary("+", asttest.Int(2), asttest.Int(3)), asttest.Int(4)), runtime.Int(20)},
		{"mixed promotion", asttest.Binary("+", asttest.Int(1), asttest.Double(0.5)), runtime.Double(1.5)},
		{"string concat", asttest.Binary("+", asttest.Str("a"), asttest.Str("b")), runtime.String("ab")},
		{"bool equality", asttest.Binary("==", asttest.Bool(true), asttest.Bool(true)), runtime.Bool(true)},
		{"short-circuit and", asttest.Binary("&&", asttest.Bool(false), asttest.Id("undefined")), runtime.Bool(false)},
		{"short-circuit or", asttest.Binary("||", asttest.Bool(true), asttest.Id("undefined")), runtime.Bool(true)},
		{"ternary", asttest.Ternary(asttest.Bool(false), asttest.Int(1), asttest.Int(2)), runtime.Int(2)},
		{"negation", asttest.Prefix("-", asttest.Int(5)), runtime.Int(-5)},
		{"logical not", asttest.Prefix("!", asttest.Bool(false)), runtime.Bool(true)},
		{"conversion builtin", asttest.Call("int", asttest.Double(3.7)), runtime.Int(3)},
		{"if yields branch value", asttest.If(asttest.Bool(true), asttest.Int(7), asttest.Int(8)), runtime.Int(7)},
		{"if without else", asttest.If(asttest.Bool(false), asttest.Int(7)), runtime.Void()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := eval(t, runtime.NewContext(), tt.node)
			if !r.Value.Type().Equal(tt.expected.Type()) || r.Value.Interface() != tt.expected.Interface() {
				t.Errorf("got %v (%s), want %v (%s)", r.Value, r.Value.Type(), tt.expected, tt.expected.Type())
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
		code string
	}{
		{"division by zero", asttest.Binary("/", asttest.Int(1), asttest.Int(0)), "DIVISION_BY_ZERO"},
		{"unknown variable", asttest.Id("nope"), "UNDEFINED_VARIABLE"},
		{"non-bool condition", asttest.If(asttest.Int(1), asttest.Int(2)), "TYPE_MISMATCH"},
		{"redeclaration", asttest.Block(asttest.Decl("x", asttest.Int(1)), asttest.Decl("x", asttest.Int(2))), "REDECLARED"},
		{"string minus", asttest.Binary("-", asttest.Str("a"), asttest.Str("b")), "UNDEFINED_OPERATOR"},
		{"call non-function", asttest.Block(asttest.Decl("f", asttest.Int(1)), asttest.Call("f")), "NOT_CALLABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.node.Eval(runtime.NewContext())
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEvalCountedLoop(t *testing.T) {
	var seen []runtime.Value
	ctx := runtime.NewContext()
	asttest.Collect(ctx, "emit", &seen)

	loop := asttest.CountedLoop("i", asttest.Int(0), asttest.Int(5), asttest.Block(asttest.Call("emit", asttest.Id("i"))))
	eval(t, ctx, loop)

	want := []int32{0, 1, 2, 3, 4}
	if got := ints(seen); len(got) != len(want) {
		t.Fatalf("emitted %v, want %v", got, want)
	}
	for i, v := range ints(seen) {
		if v != want[i] {
			t.Errorf("iteration %d saw %d", i, v)
		}
	}
	if ctx.Depth() != 1 {
		t.Errorf("loop leaked scopes: depth %d", ctx.Depth())
	}
	if _, err := ctx.Get("i"); err == nil {
		t.Error("loop variable should not outlive the loop")
	}
}

func TestEvalLoopControl(t *testing.T) {
	body := func() *ast.Node {
		return asttest.Block(
			asttest.If(asttest.Binary("==", asttest.Id("i"), asttest.Int(3)), asttest.Block(asttest.Continue())),
			asttest.If(asttest.Binary("==", asttest.Id("i"), asttest.Int(6)), asttest.Block(asttest.Break())),
			asttest.Call("emit", asttest.Id("i")),
		)
	}

	for _, loop := range []*ast.Node{
		asttest.CountedLoop("i", asttest.Int(0), asttest.Int(10), body()),
		asttest.Block(asttest.Decl("i", asttest.Int(-1)), asttest.While(asttest.Binary("<", asttest.Id("i"), asttest.Int(10)), asttest.Block(
			asttest.Prefix("++", asttest.Id("i")),
			asttest.If(asttest.Binary("==", asttest.Id("i"), asttest.Int(3)), asttest.Block(asttest.Continue())),
			asttest.If(asttest.Binary("==", asttest.Id("i"), asttest.Int(6)), asttest.Block(asttest.Break())),
			asttest.Call("emit", asttest.Id("i")),
		))),
	} {
		var seen []runtime.Value
		ctx := runtime.NewContext()
		asttest.Collect(ctx, "emit", &seen)

		r := eval(t, ctx, loop)
		if r.Flow != runtime.FlowNormal {
			t.Errorf("loop should absorb break, got flow %s", r.Flow)
		}
		got := ints(seen)
		want := []int32{0, 1, 2, 4, 5}
		if len(got) != len(want) {
			t.Fatalf("%s emitted %v, want %v", loop.Kind(), got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s emitted %v, want %v", loop.Kind(), got, want)
				break
			}
		}
	}
}

func TestEvalFunctions(t *testing.T) {
	ctx := runtime.NewContext()

	// def first_over(limit) { for (var i = 0; i < 100; ++i) { if (i > limit) { return i } } return -1 }
	def := asttest.Def("first_over", []string{"limit"}, asttest.Block(
		asttest.CountedLoop("i", asttest.Int(0), asttest.Int(100), asttest.Block(
			asttest.If(asttest.Binary(">", asttest.Id("i"), asttest.Id("limit")), asttest.Block(asttest.Return(asttest.Id("i")))),
		)),
		asttest.Return(asttest.Int(-1)),
	))
	eval(t, ctx, def)

	r := eval(t, ctx, asttest.Call("first_over", asttest.Int(41)))
	if r.Value.Interface() != int32(42) {
		t.Errorf("first_over(41) = %v, want 42", r.Value)
	}
	if r.Value.Type().IsReference() {
		t.Error("returned loop counter should be a plain int")
	}

	r = eval(t, ctx, asttest.Call("first_over", asttest.Int(500)))
	if r.Value.Interface() != int32(-1) {
		t.Errorf("first_over(500) = %v, want -1", r.Value)
	}

	square := asttest.Def("square", []string{"x"}, asttest.Block(asttest.Binary("*", asttest.Id("x"), asttest.Id("x"))))
	eval(t, ctx, square)
	if r := eval(t, ctx, asttest.Call("square", asttest.Int(9))); r.Value.Interface() != int32(81) {
		t.Errorf("square(9) = %v, want 81 from the last statement", r.Value)
	}

	if _, err := asttest.Call("square").Eval(ctx); !errors.HasCode(err, "ARITY_MISMATCH") {
		t.Errorf("square() error = %v", err)
	}
}

func TestEvalCompoundAssignment(t *testing.T) {
	ctx := runtime.NewContext()
	prog := asttest.Block(
		asttest.Decl("x", asttest.Int(10)),
		ast.New(ast.KindEquation, "+=", asttest.Span, asttest.Id("x"), asttest.Int(5)),
		ast.New(ast.KindEquation, "*=", asttest.Span, asttest.Id("x"), asttest.Int(2)),
		asttest.Prefix("--", asttest.Id("x")),
	)

	r := eval(t, ctx, prog)
	if r.Value.Interface() != int32(29) {
		t.Errorf("x = %v, want 29", r.Value)
	}
}
