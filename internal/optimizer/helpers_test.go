package optimizer_test

import (
	"testing"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/ast/asttest"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

// run evaluates n in a fresh context with an "emit" collector bound.
func run(t *testing.T, n *ast.Node) ([]runtime.Value, runtime.Result, error) {
	t.Helper()
	ctx := runtime.NewContext()
	var emitted []runtime.Value
	asttest.Collect(ctx, "emit", &emitted)
	r, err := n.Eval(ctx)
	return emitted, r, err
}

func ints(vals []runtime.Value) []int32 {
	out := make([]int32, 0, len(vals))
	for _, v := range vals {
		i, _ := v.AsInt()
		out = append(out, i)
	}
	return out
}

func sameValue(a, b runtime.Value) bool {
	return a.Type().Equal(b.Type()) && a.Interface() == b.Interface()
}

// assertSameBehaviour runs both trees and requires identical output, result
// and error code.
func assertSameBehaviour(t *testing.T, before, after *ast.Node) {
	t.Helper()
	wantOut, wantRes, wantErr := run(t, before)
	gotOut, gotRes, gotErr := run(t, after)

	if (wantErr == nil) != (gotErr == nil) || (wantErr != nil && wantErr.Error() != gotErr.Error()) {
		t.Fatalf("error changed: before %v, after %v", wantErr, gotErr)
	}
	if len(wantOut) != len(gotOut) {
		t.Fatalf("output changed: before %v, after %v", wantOut, gotOut)
	}
	for i := range wantOut {
		if !sameValue(wantOut[i], gotOut[i]) {
			t.Fatalf("output %d changed: before %v, after %v", i, wantOut[i], gotOut[i])
		}
	}
	if wantRes.Flow != gotRes.Flow || !sameValue(wantRes.Value, gotRes.Value) {
		t.Fatalf("result changed: before %v/%s, after %v/%s", wantRes.Value, wantRes.Flow, gotRes.Value, gotRes.Flow)
	}
}
