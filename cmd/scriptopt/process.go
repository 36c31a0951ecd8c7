package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/scriptopt/internal/ast"
	"github.com/orizon-lang/scriptopt/internal/optimizer"
	"github.com/orizon-lang/scriptopt/internal/runtime"
)

type options struct {
	jobs    int
	execute bool
	emitDir string
	stats   bool
	color   bool
}

// fileResult is everything printed for one input file.
type fileResult struct {
	path  string
	tree  *ast.Node
	stats *optimizer.Stats
	value runtime.Value
}

// processFiles optimizes every file concurrently and prints the results in
// input order. Passes keep no state, so one pipeline serves all goroutines.
func processFiles(ctx context.Context, out io.Writer, files []string, pipeline *optimizer.Pipeline, opts options) error {
	results := make([]fileResult, len(files))
	sem := make(chan struct{}, opts.jobs)
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range files {
		i, path := i, path

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			r, err := processFile(path, pipeline, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var total optimizer.Stats
	for _, r := range results {
		printResult(out, r, opts)
		total.Merge(r.stats)
	}
	if opts.stats && len(results) > 1 {
		fmt.Fprintf(out, "%s %s\n", heading("total:", opts.color), &total)
	}
	return nil
}

func processFile(path string, pipeline *optimizer.Pipeline, opts options) (fileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileResult{}, err
	}
	defer f.Close()

	tree, err := ast.Decode(f)
	if err != nil {
		return fileResult{}, err
	}

	optimized, stats := optimizer.Walk(tree, pipeline)
	r := fileResult{path: path, tree: optimized, stats: stats}

	if opts.emitDir != "" {
		if err := emit(filepath.Join(opts.emitDir, filepath.Base(path)), optimized); err != nil {
			return fileResult{}, err
		}
	}

	if opts.execute {
		res, err := optimized.Eval(runtime.NewContext())
		if err != nil {
			return fileResult{}, fmt.Errorf("run: %w", err)
		}
		r.value = res.Value.Decay()
	}
	return r, nil
}

func emit(path string, tree *ast.Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ast.Encode(f, tree); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printResult(out io.Writer, r fileResult, opts options) {
	fmt.Fprintln(out, heading(r.path+":", opts.color))
	switch {
	case opts.execute:
		fmt.Fprintf(out, "  result: %s\n", r.value)
	case opts.emitDir == "":
		_ = ast.Fprint(out, r.tree)
	}
	if opts.stats {
		fmt.Fprintf(out, "  %s\n", r.stats)
	}
}

func heading(s string, color bool) string {
	if !color {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}
