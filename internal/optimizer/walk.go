package optimizer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/orizon-lang/scriptopt/internal/ast"
)

// Stats describes one Walk.
type Stats struct {
	NodesVisited int            // Nodes offered to the pipeline
	Rewrites     map[string]int // Rewrites performed, by pass name
	Duration     time.Duration  // Wall time of the walk
}

func newStats() *Stats {
	return &Stats{Rewrites: make(map[string]int)}
}

func (s *Stats) record(pass string) {
	if s == nil {
		return
	}
	s.Rewrites[pass]++
}

// Total returns the number of rewrites across all passes.
func (s *Stats) Total() int {
	total := 0
	for _, n := range s.Rewrites {
		total += n
	}
	return total
}

// Merge adds other into s.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	if s.Rewrites == nil {
		s.Rewrites = make(map[string]int)
	}
	s.NodesVisited += other.NodesVisited
	s.Duration += other.Duration
	for name, n := range other.Rewrites {
		s.Rewrites[name] += n
	}
}

func (s *Stats) String() string {
	names := make([]string, 0, len(s.Rewrites))
	for name := range s.Rewrites {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, s.Rewrites[name])
	}
	return fmt.Sprintf("Visited: %d, Rewritten: %d [%s], Time: %s",
		s.NodesVisited, s.Total(), strings.Join(parts, " "), s.Duration)
}

// Walk optimizes a whole tree bottom-up. Children are optimized first; a node
// is rebuilt only when one of its children changed, and is then offered to the
// pipeline. Whatever the pipeline returns is final: it is not walked again.
// A specialized node's original is never visited.
func Walk(root *ast.Node, p *Pipeline) (*ast.Node, *Stats) {
	stats := newStats()
	if root == nil {
		return nil, stats
	}

	start := time.Now()
	out := walk(root, p, stats)
	stats.Duration = time.Since(start)
	return out, stats
}

func walk(n *ast.Node, p *Pipeline, stats *Stats) *ast.Node {
	stats.NodesVisited++

	if n.HasChildren() {
		children := n.Children()
		changed := false
		for i, c := range children {
			if oc := walk(c, p, stats); oc != c {
				children[i] = oc
				changed = true
			}
		}
		if changed {
			n = n.WithChildren(children)
		}
	}

	return p.apply(n, stats)
}
