package fix

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/carloscds/stylecop-go/internal/config"
	"github.com/carloscds/stylecop-go/internal/engine"
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/log"
	"github.com/carloscds/stylecop-go/internal/rule"
)

// Fixer applies auto-fixes for fixable rules and reports remaining diagnostics.
type Fixer struct {
	Config *config.Config
	Rules  []rule.Rule
	// Log receives verbose per-file progress. May be nil.
	Log *log.Logger
}

// Result holds the outcome of a fix run.
type Result struct {
	// Diagnostics contains remaining diagnostics after fixing (from
	// non-fixable rules and any occurrences the fixes declined).
	Diagnostics []lint.Diagnostic
	// Modified lists file paths that were written back to disk.
	Modified []string
	// Errors contains any errors encountered during the fix process.
	Errors []error
}

// Fix applies auto-fixes to the files at the given paths and returns a
// Result containing remaining diagnostics, modified file paths, and any
// errors.
func (f *Fixer) Fix(ctx context.Context, paths []string) *Result {
	res := &Result{}
	policy := lint.NewExclusionPolicy(f.Config.Ignore)
	runner := &engine.Runner{Config: f.Config, Rules: f.Rules, Log: f.Log}
	reporter := &lint.Reporter{}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, err)
			break
		}
		if policy.ExcludedPath(path) {
			continue
		}

		source, err := os.ReadFile(path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("reading %q: %w", path, err))
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("stat %q: %w", path, err))
			continue
		}

		lf, err := lint.NewFile(path, source)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parsing %q: %w", path, err))
			continue
		}
		if f.excludeGenerated() && lint.IsGeneratedFile(lf) {
			continue
		}

		effective := config.Effective(f.Config, path)
		fixable := f.fixableRules(effective)

		// Apply fixable rules in repeated passes until stable. A later
		// rule's fix may introduce violations caught by an earlier rule,
		// so we loop until no pass produces changes.
		const maxPasses = 10
		current := source
		for pass := 0; pass < maxPasses; pass++ {
			if ctx.Err() != nil {
				break
			}
			before := current
			for _, fr := range fixable {
				lf, err := lint.NewFile(path, current)
				if err != nil {
					res.Errors = append(res.Errors, fmt.Errorf("parsing %q: %w", path, err))
					break
				}
				if out, changed := fr.Fix(lf); changed {
					current = out
				}
			}
			if bytes.Equal(before, current) {
				break
			}
		}

		// Write back only if content changed. A cancelled context must
		// never touch the disk, even when earlier passes produced changes.
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, err)
			break
		}
		if !bytes.Equal(source, current) {
			if err := os.WriteFile(path, current, info.Mode()); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("writing %q: %w", path, err))
				continue
			}
			res.Modified = append(res.Modified, path)
			f.Log.Printf("fixed %s", path)
		}

		// Final lint pass with ALL enabled rules to collect remaining
		// diagnostics.
		lf, err = lint.NewFile(path, current)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parsing %q after fix: %w", path, err))
			continue
		}
		diags, err := runner.Analyze(ctx, lf)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("analyzing %q: %w", path, err))
		}
		reporter.Report(diags...)
	}

	res.Diagnostics = reporter.Sorted()
	return res
}

// fixableRules returns enabled rules that implement FixableRule, sorted by ID.
func (f *Fixer) fixableRules(effective map[string]config.RuleCfg) []rule.FixableRule {
	var fixable []rule.FixableRule
	for _, rl := range f.Rules {
		d := rl.Descriptor()
		cfg, ok := effective[d.ID]
		if !ok {
			cfg, ok = effective[d.Name]
		}
		if ok && !cfg.Enabled {
			continue
		}
		if !ok && !d.EnabledByDefault {
			continue
		}
		if fr, ok := rl.(rule.FixableRule); ok {
			fixable = append(fixable, fr)
		}
	}
	sort.Slice(fixable, func(i, j int) bool {
		return fixable[i].Descriptor().ID < fixable[j].Descriptor().ID
	})
	return fixable
}

// excludeGenerated reports whether generated files should be skipped.
// Defaults to true when the config does not say otherwise.
func (f *Fixer) excludeGenerated() bool {
	if f.Config.ExcludeGenerated == nil {
		return true
	}
	return *f.Config.ExcludeGenerated
}
