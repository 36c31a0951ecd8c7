package optimizer_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/ast/asttest"
	"github.com/orizon-lang/scriptopt/internal/optimizer"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		name     string
		node     *ast.Node
		expected runtime.Value
		text     string
	}{
		{"int sum", asttest.Binary("+", asttest.Int(2), asttest.Int(3)), runtime.Int(5), "2 + 3"},
		{"comparison", asttest.Binary("<", asttest.Int(2), asttest.Int(3)), runtime.Bool(true), "2 < 3"},
		{"promotion", asttest.Binary("*", asttest.Double(2.5), asttest.Int(2)), runtime.Double(5), "2.5 * 2"},
		{"long arithmetic", asttest.Binary("-", asttest.Long(10), asttest.Int(4)), runtime.Long(6), "10l - 4"},
		{"remainder", asttest.Binary("%", asttest.Int(7), asttest.Int(3)), runtime.Int(1), "7 % 3"},
		{"shift", asttest.Binary("<<", asttest.Int(1), asttest.Int(4)), runtime.Int(16), "1 << 4"},
		{"int conversion truncates", asttest.Call("int", asttest.Double(3.7)), runtime.Int(3), "int(3.7)"},
		{"double conversion", asttest.Call("double", asttest.Int(2)), runtime.Double(2), "double(2)"},
		{"long conversion", asttest.Call("long", asttest.Int(-4)), runtime.Long(-4), "long(-4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := optimizer.ConstantFoldingPass{}.Optimize(tt.node)
			v, ok := out.Constant()
			if !ok {
				t.Fatalf("expected a constant, got %s", out)
			}
			if !sameValue(v, tt.expected) {
				t.Errorf("value = %v (%s), want %v (%s)", v, v.Type(), tt.expected, tt.expected.Type())
			}
			if out.Text() != tt.text {
				t.Errorf("text = %q, want %q", out.Text(), tt.text)
			}
			if out.Span() != tt.node.Span() {
				t.Errorf("span = %s, want %s", out.Span(), tt.node.Span())
			}
		})
	}
}

func TestConstantFoldingNoOp(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
	}{
		{"division by zero", asttest.Binary("/", asttest.Int(1), asttest.Int(0))},
		{"remainder by zero", asttest.Binary("%", asttest.Int(1), asttest.Int(0))},
		{"float remainder", asttest.Binary("%", asttest.Double(1.5), asttest.Int(2))},
		{"variable operand", asttest.Binary("+", asttest.Id("x"), asttest.Int(1))},
		{"string operands", asttest.Binary("+", asttest.Str("a"), asttest.Str("b"))},
		{"bool operands", asttest.Binary("==", asttest.Bool(true), asttest.Bool(true))},
		{"logical operator", asttest.Binary("&&", asttest.Int(1), asttest.Int(2))},
		{"assignment operator", asttest.Binary("=", asttest.Int(1), asttest.Int(2))},
		{"unknown function", asttest.Call("foo", asttest.Int(1))},
		{"conversion of string", asttest.Call("int", asttest.Str("3"))},
		{"conversion with two arguments", asttest.Call("int", asttest.Int(1), asttest.Int(2))},
		{"conversion of variable", asttest.Call("int", asttest.Id("x"))},
		{"not foldable", asttest.Block(asttest.Int(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := (optimizer.ConstantFoldingPass{}).Optimize(tt.node); out != tt.node {
				t.Errorf("expected the same node back, got %s", out)
			}
		})
	}
}

// Folding 1/0 away would lose the runtime error.
func TestConstantFoldingKeepsRuntimeError(t *testing.T) {
	tree := asttest.Call("emit", asttest.Binary("/", asttest.Int(1), asttest.Int(0)))
	out, _ := optimizer.Walk(tree, optimizer.Standard())
	assertSameBehaviour(t, tree, out)

	if _, _, err := run(t, out); err == nil {
		t.Error("expected division by zero at run time")
	}
}

func TestFoldedInfinitySurvivesEncoding(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
		sign int
	}{
		{"positive", asttest.Binary("/", asttest.Double(1), asttest.Double(0)), 1},
		{"negative", asttest.Binary("/", asttest.Double(-1), asttest.Int(0)), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folded := optimizer.ConstantFoldingPass{}.Optimize(tt.node)
			if _, ok := folded.Constant(); !ok {
				t.Fatalf("expected a constant, got %s", folded)
			}

			var buf bytes.Buffer
			if err := ast.Encode(&buf, folded); err != nil {
				t.Fatal(err)
			}
			back, err := ast.Unmarshal(buf.Bytes())
			if err != nil {
				t.Fatalf("Unmarshal error: %v\n%s", err, buf.String())
			}

			assertSameBehaviour(t, tt.node, back)
			_, r, err := run(t, back)
			if err != nil {
				t.Fatal(err)
			}
			if f, ok := r.Value.Interface().(float64); !ok || !math.IsInf(f, tt.sign) {
				t.Errorf("decoded value = %v (%s), want %d infinity double", r.Value, r.Value.Type(), tt.sign)
			}
		})
	}
}
