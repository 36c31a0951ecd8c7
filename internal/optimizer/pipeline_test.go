package optimizer_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/ast/asttest"
	"github.com/orizon-lang/scriptopt/internal/optimizer"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

func TestStandardOrder(t *testing.T) {
	want := []string{"return", "block", "if", "constant_fold", "for_loop"}
	if got := optimizer.Standard().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Standard() = %v, want %v", got, want)
	}
}

func TestPassesReturnsCopy(t *testing.T) {
	p := optimizer.Standard()
	passes := p.Passes()
	if len(passes) != len(p.Names()) {
		t.Fatalf("Passes() has %d entries, Names() %d", len(passes), len(p.Names()))
	}
	for i, name := range p.Names() {
		if passes[i].Name() != name {
			t.Errorf("pass %d = %s, want %s", i, passes[i].Name(), name)
		}
	}

	passes[0] = optimizer.CountedLoopPass{}
	if got := p.Names()[0]; got != "return" {
		t.Errorf("mutating Passes() changed the pipeline, first pass = %s", got)
	}
}

func TestForLevel(t *testing.T) {
	tests := []struct {
		level    optimizer.Level
		expected []string
	}{
		{optimizer.LevelNone, []string{}},
		{optimizer.LevelBasic, []string{"return", "block", "constant_fold"}},
		{optimizer.LevelDefault, []string{"return", "block", "if", "constant_fold"}},
		{optimizer.LevelAggressive, []string{"return", "block", "if", "constant_fold", "for_loop"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := optimizer.ForLevel(tt.level).Names(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ForLevel(%s) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected optimizer.Level
		ok       bool
	}{
		{"none", optimizer.LevelNone, true},
		{"0", optimizer.LevelNone, true},
		{"Basic", optimizer.LevelBasic, true},
		{"2", optimizer.LevelDefault, true},
		{"", optimizer.LevelDefault, true},
		{" aggressive ", optimizer.LevelAggressive, true},
		{"3", optimizer.LevelAggressive, true},
		{"ludicrous", optimizer.LevelNone, false},
	}

	for _, tt := range tests {
		got, ok := optimizer.ParseLevel(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %s, %v; want %s, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestLookupPass(t *testing.T) {
	for _, name := range optimizer.Standard().Names() {
		pass, ok := optimizer.LookupPass(name)
		if !ok || pass.Name() != name {
			t.Errorf("LookupPass(%q) = %v, %v", name, pass, ok)
		}
	}
	if _, ok := optimizer.LookupPass("inline"); ok {
		t.Error("LookupPass found a pass that does not exist")
	}
}

// tracePass records what it was given and wraps it in a block.
type tracePass struct {
	name string
	seen *[]*ast.Node
}

func (p tracePass) Name() string                     { return p.name }
func (p tracePass) ShouldApply(optimizer.Level) bool { return true }

func (p tracePass) Optimize(n *ast.Node) *ast.Node {
	*p.seen = append(*p.seen, n)
	return asttest.Block(n)
}

func TestPipelineThreadsOutput(t *testing.T) {
	var seen []*ast.Node
	p := optimizer.NewPipeline(tracePass{"a", &seen}, tracePass{"b", &seen})

	in := asttest.Int(1)
	out := p.Optimize(in)

	if len(seen) != 2 {
		t.Fatalf("passes ran %d times, want 2", len(seen))
	}
	if seen[0] != in {
		t.Error("first pass did not receive the input")
	}
	if seen[1] == in || !ast.Equal(seen[1], asttest.Block(in)) {
		t.Error("second pass did not receive the first pass's output")
	}
	if !ast.Equal(out, asttest.Block(asttest.Block(in))) {
		t.Errorf("got\n%s", ast.Format(out))
	}
}

func TestPipelineCombinesPasses(t *testing.T) {
	// The dead branch yields 2 + 3, which folding sees in the same pipeline run.
	in := asttest.If(asttest.Bool(true), asttest.Binary("+", asttest.Int(2), asttest.Int(3)))
	out := optimizer.Standard().Optimize(in)

	v, ok := out.Constant()
	if !ok || !sameValue(v, runtime.Int(5)) {
		t.Fatalf("got %s, want constant 5", out)
	}
}

func TestEmptyPipeline(t *testing.T) {
	in := asttest.Block(asttest.Int(1))
	if out := optimizer.NewPipeline().Optimize(in); out != in {
		t.Error("an empty pipeline must return its input")
	}
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Debug(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestPipelineLogsRewrites(t *testing.T) {
	log := &recordingLogger{}
	p := optimizer.Standard()
	p.SetLogger(log)

	p.Optimize(asttest.Block(asttest.Call("emit", asttest.Int(1))))
	p.Optimize(asttest.Call("emit", asttest.Int(1)))

	if len(log.lines) != 1 {
		t.Fatalf("logged %d lines, want 1: %q", len(log.lines), log.lines)
	}
	if !strings.HasPrefix(log.lines[0], "block: ") {
		t.Errorf("unexpected trace line %q", log.lines[0])
	}
}
