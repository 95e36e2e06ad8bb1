package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"

	"github.com/carloscds/stylecop-go/internal/config"
	"github.com/carloscds/stylecop-go/internal/engine"
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/rule"

	_ "github.com/carloscds/stylecop-go/internal/rules/braces"
	_ "github.com/carloscds/stylecop-go/internal/rules/multilineargument"
)

var ruleIDPattern = regexp.MustCompile(`^(SA\d+)-`)

type expectedDiag struct {
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

type fixtureFrontMatter struct {
	Diagnostics []expectedDiag `yaml:"diagnostics"`
}

// parseFixture extracts the expected diagnostics from a fixture's YAML front
// matter and the C# source from its first fenced code block.
func parseFixture(t *testing.T, data []byte) ([]expectedDiag, []byte) {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(&frontmatter.Extender{}))
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(data), parser.WithContext(ctx))

	var fm fixtureFrontMatter
	if d := frontmatter.Get(ctx); d != nil {
		if err := d.Decode(&fm); err != nil {
			t.Fatalf("decoding front matter: %v", err)
		}
	}

	var source []byte
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		for i := 0; i < cb.Lines().Len(); i++ {
			seg := cb.Lines().At(i)
			source = append(source, seg.Value(data)...)
		}
		return ast.WalkStop, nil
	})
	if err != nil {
		t.Fatalf("walking fixture markdown: %v", err)
	}
	if source == nil {
		t.Fatal("fixture has no fenced code block")
	}

	return fm.Diagnostics, source
}

func TestRuleFixtures(t *testing.T) {
	dirs, err := filepath.Glob("testdata/SA*-*")
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) == 0 {
		t.Fatal("no rule fixture directories found")
	}

	for _, dir := range dirs {
		base := filepath.Base(dir)
		m := ruleIDPattern.FindStringSubmatch(base)
		if m == nil {
			t.Errorf("cannot extract rule ID from directory: %s", base)
			continue
		}
		ruleID := m[1]

		t.Run(ruleID, func(t *testing.T) {
			r := rule.ByID(ruleID)
			if r == nil {
				t.Fatalf("rule %s not found in registry", ruleID)
			}

			t.Run("good", func(t *testing.T) {
				runGood(t, dir)
			})
			t.Run("bad", func(t *testing.T) {
				runBad(t, dir, ruleID)
			})

			fixedPath := filepath.Join(dir, "fixed.md")
			if _, err := os.Stat(fixedPath); err == nil {
				t.Run("fix", func(t *testing.T) {
					runFix(t, dir, r, ruleID)
				})
			}
		})
	}
}

// runGood checks that the good fixture produces no diagnostics from any rule.
func runGood(t *testing.T, dir string) {
	t.Helper()
	_, src := parseFixture(t, readFixture(t, filepath.Join(dir, "good.md")))
	diags := analyze(t, "good.cs", src)
	reportUnexpectedDiags(t, "good.md", diags)
}

// runBad checks the bad fixture against the diagnostics its front matter
// declares.
func runBad(t *testing.T, dir, ruleID string) {
	t.Helper()
	expected, src := parseFixture(t, readFixture(t, filepath.Join(dir, "bad.md")))
	diags := filterByRule(analyze(t, "bad.cs", src), ruleID)
	assertExpectedDiags(t, expected, diags, "bad.md")
}

// runFix applies the rule's fix to the bad fixture and compares the output
// against the fixed fixture, then verifies the output is clean.
func runFix(t *testing.T, dir string, r rule.Rule, ruleID string) {
	t.Helper()
	fr, ok := r.(rule.FixableRule)
	if !ok {
		t.Fatalf("fixed.md exists but rule %s does not implement FixableRule", ruleID)
	}

	_, badSrc := parseFixture(t, readFixture(t, filepath.Join(dir, "bad.md")))
	f, err := lint.NewFile("bad.cs", badSrc)
	if err != nil {
		t.Fatalf("parsing bad fixture: %v", err)
	}

	got, changed := fr.Fix(f)
	if !changed {
		t.Fatal("expected Fix to report a change")
	}

	_, want := parseFixture(t, readFixture(t, filepath.Join(dir, "fixed.md")))
	if !bytes.Equal(got, want) {
		t.Errorf("Fix output does not match fixed.md\ngot:\n%s\nwant:\n%s", got, want)
	}

	diags := analyze(t, "fixed.cs", want)
	reportUnexpectedDiags(t, "fixed.md", diags)
}

// analyze runs all registered rules over the source with default config.
func analyze(t *testing.T, name string, src []byte) []lint.Diagnostic {
	t.Helper()
	f, err := lint.NewFile(name, src)
	if err != nil {
		t.Fatalf("parsing %s: %v", name, err)
	}
	runner := &engine.Runner{Config: config.Defaults(), Rules: rule.All()}
	diags, err := runner.Analyze(context.Background(), f)
	if err != nil {
		t.Fatalf("analyzing %s: %v", name, err)
	}
	return diags
}

func reportUnexpectedDiags(t *testing.T, filename string, diags []lint.Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		t.Errorf("%s: expected 0 diagnostics from all rules, got %d", filename, len(diags))
		for _, d := range diags {
			t.Logf("  %s line %d col %d: %s", d.RuleID, d.Line, d.Column, d.Message)
		}
	}
}

func assertExpectedDiags(t *testing.T, expected []expectedDiag, diags []lint.Diagnostic, filename string) {
	t.Helper()
	if len(diags) != len(expected) {
		t.Errorf("%s: expected %d diagnostics, got %d", filename, len(expected), len(diags))
		for _, d := range diags {
			t.Logf("  actual: line %d col %d: %s", d.Line, d.Column, d.Message)
		}
		return
	}
	for i, exp := range expected {
		d := diags[i]
		if d.Line != exp.Line || d.Column != exp.Column || d.Message != exp.Message {
			t.Errorf(
				"diagnostic %d:\n  want: line %d col %d: %s\n  got:  line %d col %d: %s",
				i, exp.Line, exp.Column, exp.Message,
				d.Line, d.Column, d.Message,
			)
		}
	}
}

func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

func filterByRule(diags []lint.Diagnostic, ruleID string) []lint.Diagnostic {
	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
