package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/carloscds/stylecop-go/internal/config"
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/log"
	"github.com/carloscds/stylecop-go/internal/rule"
)

// Runner drives the linting pipeline: files are read and analyzed
// concurrently, each one parsed once and walked once with rules dispatched
// by node kind. Diagnostics from all files land in a shared reporter.
type Runner struct {
	Config *config.Config
	Rules  []rule.Rule
	// Log receives verbose per-file progress. May be nil.
	Log *log.Logger
}

// Result holds the output of a lint run.
type Result struct {
	Diagnostics []lint.Diagnostic
	Errors      []error
}

// Run lints the files at the given paths and returns a Result containing
// all diagnostics (sorted by file, line, column) and any errors encountered.
func (r *Runner) Run(ctx context.Context, paths []string) *Result {
	policy := lint.NewExclusionPolicy(r.Config.Ignore)
	reporter := &lint.Reporter{}

	var mu sync.Mutex
	var errs []error
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, path := range paths {
		if policy.ExcludedPath(path) {
			continue
		}
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				record(fmt.Errorf("reading %q: %w", path, err))
				return nil
			}
			f, err := lint.NewFile(path, source)
			if err != nil {
				record(fmt.Errorf("parsing %q: %w", path, err))
				return nil
			}
			if r.excludeGenerated() && lint.IsGeneratedFile(f) {
				r.Log.Printf("skip generated: %s", path)
				return nil
			}
			diags, err := r.Analyze(ctx, f)
			r.Log.Printf("checked %s: %d diagnostics", path, len(diags))
			if err != nil {
				record(fmt.Errorf("analyzing %q: %w", path, err))
			}
			reporter.Report(diags...)
			return nil
		})
	}
	_ = g.Wait()

	return &Result{Diagnostics: reporter.Sorted(), Errors: errs}
}

// RunSource lints a single in-memory source, reported under the given name.
// Used for stdin input, where exclusion and generated-file policies do not
// apply.
func (r *Runner) RunSource(ctx context.Context, name string, source []byte) *Result {
	f, err := lint.NewFile(name, source)
	if err != nil {
		return &Result{Errors: []error{fmt.Errorf("parsing %q: %w", name, err)}}
	}
	diags, err := r.Analyze(ctx, f)
	res := &Result{}
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("analyzing %q: %w", name, err))
	}
	reporter := &lint.Reporter{}
	reporter.Report(diags...)
	res.Diagnostics = reporter.Sorted()
	return res
}

// excludeGenerated reports whether generated files should be skipped.
// Defaults to true when the config does not say otherwise.
func (r *Runner) excludeGenerated() bool {
	if r.Config.ExcludeGenerated == nil {
		return true
	}
	return *r.Config.ExcludeGenerated
}
