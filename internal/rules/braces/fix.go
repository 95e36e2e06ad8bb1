package braces

import (
	"bytes"
	"strings"

	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/syntax"
)

// Fix implements rule.FixableRule. It rewrites the tree bottom-up,
// wrapping every braceless embedded statement in a block, and renders the
// result back to source. Occurrences containing preprocessor directives
// are left as they are; the caller re-lints and keeps reporting them.
func (r *Rule) Fix(f *lint.File) ([]byte, bool) {
	root, changed := rewrite(f, f.Tree, "", lineBreak(f))
	if !changed {
		return nil, false
	}
	return []byte(root.Text()), true
}

// rewrite returns a copy of n with all violating embedded statements in
// its subtree wrapped. indent is the indentation to assume for n when it
// does not start its own line; token spans always describe the original
// file, so line lookups stay valid throughout the rewrite. nl is the
// file's line terminator.
func rewrite(f *lint.File, n *syntax.Node, indent, nl string) (*syntax.Node, bool) {
	if n.Kind() == syntax.KindToken {
		return n, false
	}

	base := indent
	if tok := n.FirstToken(); tok != nil && startsLine(f, tok) {
		base = f.Indentation(tok.Span.Start.Line)
	}
	embIdx := n.EmbeddedStatementIndex()
	unit := ""
	if embIdx >= 0 {
		unit = indentUnit(f, n, base)
	}

	out := n
	changed := false
	for i, c := range n.Children() {
		childIndent := base
		// The embedded statement only moves one level deeper when it is
		// going to be wrapped; an exempt else-if or an existing block
		// stays where it is.
		if i == embIdx && violates(n, c) {
			childIndent = base + unit
		}
		rc, ch := rewrite(f, c, childIndent, nl)
		if ch {
			out = out.ReplaceChild(i, rc)
			changed = true
		}
	}

	if embIdx >= 0 {
		stmt := out.Child(embIdx)
		if violates(n, stmt) && !stmt.ContainsDirective() {
			out = out.ReplaceChild(embIdx, wrap(stmt, base, unit, nl))
			changed = true
		}
	}
	return out, changed
}

// startsLine reports whether the token is the first non-whitespace text on
// its line.
func startsLine(f *lint.File, tok *syntax.Token) bool {
	return tok.Span.Start.Column == len(f.Indentation(tok.Span.Start.Line))+1
}

// indentUnit infers one level of indentation for n's embedded statement.
// When the statement already sits on its own line deeper than the keyword,
// the difference between the two is the file's own unit. Otherwise fall
// back to a tab in tab-indented context and four spaces elsewhere.
func indentUnit(f *lint.File, n *syntax.Node, base string) string {
	if stmt := n.EmbeddedStatement(); stmt != nil {
		if tok := stmt.FirstToken(); tok != nil && startsLine(f, tok) {
			si := f.Indentation(tok.Span.Start.Line)
			if strings.HasPrefix(si, base) && len(si) > len(base) {
				return si[len(base):]
			}
		}
	}
	if strings.Contains(base, "\t") {
		return "\t"
	}
	return "    "
}

// wrap builds a block around stmt. The statement and any comments in its
// leading trivia are re-anchored one level deeper than base; blank lines
// between the condition and the statement stay where they were. Both
// braces go on their own lines at base.
func wrap(stmt *syntax.Node, base, unit, nl string) *syntax.Node {
	inner := base + unit

	var lead []syntax.Trivia
	if first := stmt.FirstToken(); first != nil {
		// Consecutive line breaks beyond the first in a run are blank
		// lines and are kept.
		newlines := 0
		for _, tr := range first.Leading {
			switch tr.Kind {
			case syntax.TriviaEndOfLine:
				newlines++
			case syntax.TriviaComment:
				for ; newlines > 1; newlines-- {
					lead = append(lead, syntax.Trivia{Kind: syntax.TriviaEndOfLine, Text: nl})
				}
				newlines = 0
				lead = append(lead, lineStart(inner, nl)...)
				lead = append(lead, tr)
			}
		}
		for ; newlines > 1; newlines-- {
			lead = append(lead, syntax.Trivia{Kind: syntax.TriviaEndOfLine, Text: nl})
		}
	}
	lead = append(lead, lineStart(inner, nl)...)

	open := syntax.Token{Kind: syntax.TokenPunct, Text: "{", Leading: lineStart(base, nl)}
	closing := syntax.Token{Kind: syntax.TokenPunct, Text: "}", Leading: lineStart(base, nl)}
	return syntax.NewNode(syntax.KindBlock,
		syntax.NewTokenNode(open),
		stmt.WithFirstLeading(lead),
		syntax.NewTokenNode(closing))
}

// lineStart returns trivia for a line break followed by the given
// indentation.
func lineStart(indent, nl string) []syntax.Trivia {
	trivia := []syntax.Trivia{{Kind: syntax.TriviaEndOfLine, Text: nl}}
	if indent != "" {
		trivia = append(trivia, syntax.Trivia{Kind: syntax.TriviaWhitespace, Text: indent})
	}
	return trivia
}

// lineBreak returns the file's line terminator, CRLF when the source uses
// it anywhere.
func lineBreak(f *lint.File) string {
	if bytes.Contains(f.Source, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}
