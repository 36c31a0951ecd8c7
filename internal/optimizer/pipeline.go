package optimizer

import (
	"github.com/orizon-lang/scriptopt/internal/ast"
)

// Logger receives a trace line for every rewrite. *cli.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
}

// Pipeline applies an ordered list of passes to one node. It performs no
// traversal of its own; see Walk.
type Pipeline struct {
	passes []Pass
	logger Logger
}

// NewPipeline creates a pipeline running passes in the given order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: append([]Pass(nil), passes...)}
}

// StandardPasses returns every pass in its standard order.
func StandardPasses() []Pass {
	return []Pass{
		ReturnPass{},
		BlockPass{},
		DeadBranchPass{},
		ConstantFoldingPass{},
		CountedLoopPass{},
	}
}

// Standard returns a pipeline with every pass in standard order.
func Standard() *Pipeline {
	return NewPipeline(StandardPasses()...)
}

// ForLevel returns the standard passes that apply at level, in standard order.
func ForLevel(level Level) *Pipeline {
	var passes []Pass
	for _, pass := range StandardPasses() {
		if pass.ShouldApply(level) {
			passes = append(passes, pass)
		}
	}
	return NewPipeline(passes...)
}

// LookupPass finds a standard pass by name.
func LookupPass(name string) (Pass, bool) {
	for _, pass := range StandardPasses() {
		if pass.Name() == name {
			return pass, true
		}
	}
	return nil, false
}

// SetLogger enables rewrite tracing. A nil logger disables it.
func (p *Pipeline) SetLogger(l Logger) { p.logger = l }

// Passes returns a copy of the passes in the order Optimize applies them.
func (p *Pipeline) Passes() []Pass { return append([]Pass(nil), p.passes...) }

// Names lists the pass names in application order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Optimize threads node through every pass in order, each pass receiving the
// previous one's output.
func (p *Pipeline) Optimize(node *ast.Node) *ast.Node {
	return p.apply(node, nil)
}

func (p *Pipeline) apply(node *ast.Node, stats *Stats) *ast.Node {
	for _, pass := range p.passes {
		out := pass.Optimize(node)
		if out == node {
			continue
		}
		stats.record(pass.Name())
		if p.logger != nil {
			p.logger.Debug("%s: %s at %s -> %s", pass.Name(), node, node.Span(), out)
		}
		node = out
	}
	return node
}
