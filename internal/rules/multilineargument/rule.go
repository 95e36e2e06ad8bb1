// Package multilineargument implements SA1118: a call, indexer or
// attribute argument after the first must not span multiple lines, unless
// it is a function literal.
package multilineargument

import (
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/rule"
	"github.com/carloscds/stylecop-go/internal/syntax"
)

func init() {
	rule.Register(&Rule{})
}

var descriptor = lint.Descriptor{
	ID:               "SA1118",
	Name:             "multiline-argument",
	Title:            "Argument must not span multiple lines",
	MessageFormat:    "argument must begin and end on the same line, or be the first argument",
	Category:         "readability",
	DefaultSeverity:  lint.Warning,
	EnabledByDefault: true,
	Description: "Arguments after the first that span multiple lines hide the " +
		"argument boundaries of a call. Lambdas and anonymous methods are " +
		"exempt because their delimiters make them self-describing.",
	HelpLink: "https://github.com/carloscds/stylecop-go/blob/main/SA1118/README.md",
}

// Rule checks non-first arguments for multi-line spans.
type Rule struct{}

// Descriptor implements rule.Rule.
func (r *Rule) Descriptor() lint.Descriptor { return descriptor }

// Kinds implements rule.Rule.
func (r *Rule) Kinds() []syntax.Kind {
	return []syntax.Kind{
		syntax.KindArgumentList,
		syntax.KindBracketedArgumentList,
		syntax.KindAttributeArgumentList,
	}
}

// Check implements rule.Rule. The first argument is always exempt; every
// later argument reports when its span crosses a line boundary, except
// function-literal arguments in ordinary (non-attribute) lists.
func (r *Rule) Check(f *lint.File, n *syntax.Node, _ []*syntax.Node) []lint.Diagnostic {
	var diags []lint.Diagnostic

	index := 0
	for _, c := range n.Children() {
		if c.Kind() != syntax.KindArgument && c.Kind() != syntax.KindAttributeArgument {
			continue
		}
		i := index
		index++
		if i == 0 {
			continue
		}
		if !c.Span().Multiline() {
			continue
		}
		if n.Kind() != syntax.KindAttributeArgumentList && isFunctionLiteral(c) {
			continue
		}
		diags = append(diags, descriptor.At(f.Path, c.Span().Start))
	}

	return diags
}

// isFunctionLiteral reports whether the argument's expression is a lambda
// or anonymous method. An argument with no expression is never a literal.
func isFunctionLiteral(arg *syntax.Node) bool {
	expr := arg.Child(0)
	if expr == nil {
		return false
	}
	switch expr.Kind() {
	case syntax.KindLambdaExpression, syntax.KindAnonymousMethodExpression:
		return true
	}
	return false
}
