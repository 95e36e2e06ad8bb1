// Package braces implements SA1503: the body of a control-flow statement
// must be wrapped in braces. The rule ships with an auto-fix that inserts
// the braces while preserving comments and blank lines, and declines when
// preprocessor directives make the rewrite unsafe.
package braces

import (
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/rule"
	"github.com/carloscds/stylecop-go/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

var descriptor = lint.Descriptor{
	ID:               "SA1503",
	Name:             "braces-required",
	Title:            "Braces must not be omitted",
	MessageFormat:    "statement must be wrapped in braces",
	Category:         "layout",
	DefaultSeverity:  lint.Warning,
	EnabledByDefault: true,
	Description: "Control-flow bodies written as bare statements are easy to " +
		"misread when lines are added later. Every if, else, while, do, for " +
		"and foreach body must be an explicit block.",
	HelpLink: "https://github.com/carloscds/stylecop-go/blob/main/SA1503/README.md",
}

// Rule checks embedded statement positions for missing braces.
type Rule struct{}

// Descriptor implements rule.Rule.
func (r *Rule) Descriptor() lint.Descriptor { return descriptor }

// Kinds implements rule.Rule.
func (r *Rule) Kinds() []syntax.Kind {
	return []syntax.Kind{
		syntax.KindIfStatement,
		syntax.KindElseClause,
		syntax.KindWhileStatement,
		syntax.KindForStatement,
		syntax.KindForEachStatement,
		syntax.KindDoStatement,
	}
}

// Check implements rule.Rule. Each embedding position is evaluated
// independently, so a chain of braceless constructs reports once per
// level.
func (r *Rule) Check(f *lint.File, n *syntax.Node, _ []*syntax.Node) []lint.Diagnostic {
	stmt := n.EmbeddedStatement()
	if !violates(n, stmt) {
		return nil
	}
	return []lint.Diagnostic{descriptor.At(f.Path, stmt.Span().Start)}
}

// violates reports whether the embedded statement at n needs wrapping.
// An else clause whose body is another if forms an else-if chain and is
// exempt.
func violates(n *syntax.Node, stmt *syntax.Node) bool {
	if stmt == nil || stmt.FirstToken() == nil {
		return false
	}
	if stmt.Kind() == syntax.KindBlock {
		return false
	}
	if n.Kind() == syntax.KindElseClause && stmt.Kind() == syntax.KindIfStatement {
		return false
	}
	return true
}
