package optimizer_test

import (
	"testing"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/ast/asttest"
	"github.com/orizon-lang/scriptopt/internal/optimizer"
)

func TestDeadBranchPass(t *testing.T) {
	a, b := asttest.Call("emit", asttest.Int(1)), asttest.Call("emit", asttest.Int(2))

	tests := []struct {
		name     string
		node     *ast.Node
		expected *ast.Node // nil: unchanged
	}{
		{"true selects then", asttest.If(asttest.Bool(true), a, b), a},
		{"false selects else", asttest.If(asttest.Bool(false), a, b), b},
		{"true without else", asttest.If(asttest.Bool(true), a), a},
		{"false without else is kept", asttest.If(asttest.Bool(false), a), nil},
		{"ternary true", asttest.Ternary(asttest.Bool(true), a, b), a},
		{"ternary false", asttest.Ternary(asttest.Bool(false), a, b), b},
		{"int condition", asttest.If(asttest.Int(1), a, b), nil},
		{"variable condition", asttest.If(asttest.Id("c"), a, b), nil},
		{"expression condition", asttest.If(asttest.Binary("<", asttest.Int(1), asttest.Int(2)), a, b), nil},
		{"not a conditional", a, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := optimizer.DeadBranchPass{}.Optimize(tt.node)
			want := tt.expected
			if want == nil {
				want = tt.node
			}
			if out != want {
				t.Errorf("got\n%s\nwant\n%s", ast.Format(out), ast.Format(want))
			}
		})
	}
}

func TestDeadBranchPassKeepsBehaviour(t *testing.T) {
	for _, tree := range []*ast.Node{
		asttest.If(asttest.Bool(true), asttest.Call("emit", asttest.Int(1)), asttest.Call("emit", asttest.Int(2))),
		asttest.If(asttest.Bool(false), asttest.Call("emit", asttest.Int(1)), asttest.Call("emit", asttest.Int(2))),
		asttest.Ternary(asttest.Bool(false), asttest.Int(1), asttest.Int(2)),
	} {
		assertSameBehaviour(t, tree, optimizer.DeadBranchPass{}.Optimize(tree))
	}
}
