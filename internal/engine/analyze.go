package engine

import (
	"context"
	"fmt"

	"github.com/carloscds/stylecop-go/internal/config"
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/rule"
	"github.com/carloscds/stylecop-go/internal/syntax"
)

// Analyze runs the enabled rules over one parsed file. The tree is walked
// once; each rule sees only the node kinds it asked for. A panicking rule
// produces an internal-error diagnostic instead of taking down the run.
func (r *Runner) Analyze(ctx context.Context, f *lint.File) ([]lint.Diagnostic, error) {
	effective := config.Effective(r.Config, f.Path)

	var enabled []rule.Rule
	severities := make(map[string]lint.Severity)
	for _, rl := range r.Rules {
		d := rl.Descriptor()
		cfg, ok := ruleConfig(effective, d)
		if ok && !cfg.Enabled {
			continue
		}
		if !ok && !d.EnabledByDefault {
			continue
		}
		if sev, has := cfg.SeverityOverride(); has {
			severities[d.ID] = sev
		}
		enabled = append(enabled, rl)
	}

	idx := rule.NewIndex(enabled)

	var diags []lint.Diagnostic
	err := syntax.Walk(ctx, f.Tree, func(n *syntax.Node, ancestors []*syntax.Node) bool {
		for _, rl := range idx[n.Kind()] {
			diags = append(diags, checkNode(rl, f, n, ancestors)...)
		}
		return true
	})
	if err != nil {
		return diags, err
	}

	for i := range diags {
		if sev, ok := severities[diags[i].RuleID]; ok {
			diags[i].Severity = sev
		}
	}
	return diags, nil
}

// ruleConfig looks a rule's configuration up by ID first, then by name.
func ruleConfig(effective map[string]config.RuleCfg, d lint.Descriptor) (config.RuleCfg, bool) {
	if cfg, ok := effective[d.ID]; ok {
		return cfg, true
	}
	cfg, ok := effective[d.Name]
	return cfg, ok
}

// checkNode invokes one rule callback with panic containment.
func checkNode(rl rule.Rule, f *lint.File, n *syntax.Node, ancestors []*syntax.Node) (diags []lint.Diagnostic) {
	defer func() {
		if p := recover(); p != nil {
			d := rl.Descriptor()
			pos := n.Span().Start
			diags = []lint.Diagnostic{{
				File:     f.Path,
				Line:     pos.Line,
				Column:   pos.Column,
				RuleID:   d.ID,
				RuleName: d.Name,
				Severity: lint.Error,
				Message:  fmt.Sprintf("internal error: %v", p),
			}}
		}
	}()
	return rl.Check(f, n, ancestors)
}
