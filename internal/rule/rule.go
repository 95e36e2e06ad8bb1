package rule

import (
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/syntax"
)

// Rule is a single style rule driven by node-kind dispatch: the engine
// calls Check once per matching node during a single depth-first walk.
type Rule interface {
	// Descriptor returns the rule's immutable identity and metadata.
	Descriptor() lint.Descriptor
	// Kinds lists the node kinds the rule wants to see.
	Kinds() []syntax.Kind
	// Check inspects one node. ancestors runs from the root to the
	// node's parent and is only valid for the duration of the call.
	// Implementations must not mutate the tree.
	Check(f *lint.File, n *syntax.Node, ancestors []*syntax.Node) []lint.Diagnostic
}

// FixableRule is a Rule that can also rewrite the file to resolve its
// violations. Fix returns the new source and whether anything changed;
// occurrences the fix declines (for example directive-guarded regions)
// are left untouched in the output.
type FixableRule interface {
	Rule
	Fix(f *lint.File) ([]byte, bool)
}
