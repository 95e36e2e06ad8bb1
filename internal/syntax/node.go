package syntax

import "strings"

// Kind classifies a syntax tree node.
type Kind int

const (
	// KindCompilationUnit is the root node of a parsed file. Its last child
	// is always the EOF token node.
	KindCompilationUnit Kind = iota
	// KindDeclaration is a namespace, type, member or using declaration,
	// parsed leniently as a header followed by an optional block or
	// semicolon.
	KindDeclaration
	// KindBlock is a { } delimited statement list.
	KindBlock
	// KindIfStatement is an if statement, including any else clause.
	KindIfStatement
	// KindElseClause is the else keyword and its statement.
	KindElseClause
	// KindWhileStatement is a while statement.
	KindWhileStatement
	// KindForStatement is a for statement.
	KindForStatement
	// KindForEachStatement is a foreach statement.
	KindForEachStatement
	// KindDoStatement is a do statement with its trailing while clause.
	KindDoStatement
	// KindReturnStatement is a return statement.
	KindReturnStatement
	// KindExpressionStatement is an expression or local declaration
	// terminated by a semicolon.
	KindExpressionStatement
	// KindEmptyStatement is a lone semicolon.
	KindEmptyStatement
	// KindAttributeList is a [ ] attribute group at statement or member
	// position.
	KindAttributeList
	// KindAttribute is one attribute inside an attribute list.
	KindAttribute
	// KindArgumentList is a parenthesized invocation argument list.
	KindArgumentList
	// KindBracketedArgumentList is an indexer argument list.
	KindBracketedArgumentList
	// KindAttributeArgumentList is the parenthesized argument list of an
	// attribute.
	KindAttributeArgumentList
	// KindArgument is one argument in an argument or bracketed argument
	// list.
	KindArgument
	// KindAttributeArgument is one argument in an attribute argument list.
	KindAttributeArgument
	// KindLambdaExpression is a lambda, expression-bodied or block-bodied.
	KindLambdaExpression
	// KindAnonymousMethodExpression is a delegate { } expression.
	KindAnonymousMethodExpression
	// KindExpression is any other expression, kept as a flat sequence of
	// tokens and nested structured nodes.
	KindExpression
	// KindToken is a leaf node wrapping a single token.
	KindToken
)

var kindNames = map[Kind]string{
	KindCompilationUnit:           "CompilationUnit",
	KindDeclaration:               "Declaration",
	KindBlock:                     "Block",
	KindIfStatement:               "IfStatement",
	KindElseClause:                "ElseClause",
	KindWhileStatement:            "WhileStatement",
	KindForStatement:              "ForStatement",
	KindForEachStatement:          "ForEachStatement",
	KindDoStatement:               "DoStatement",
	KindReturnStatement:           "ReturnStatement",
	KindExpressionStatement:       "ExpressionStatement",
	KindEmptyStatement:            "EmptyStatement",
	KindAttributeList:             "AttributeList",
	KindAttribute:                 "Attribute",
	KindArgumentList:              "ArgumentList",
	KindBracketedArgumentList:     "BracketedArgumentList",
	KindAttributeArgumentList:     "AttributeArgumentList",
	KindArgument:                  "Argument",
	KindAttributeArgument:         "AttributeArgument",
	KindLambdaExpression:          "LambdaExpression",
	KindAnonymousMethodExpression: "AnonymousMethodExpression",
	KindExpression:                "Expression",
	KindToken:                     "Token",
}

// String returns the kind's name for logs and test failures.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is an immutable syntax tree node. Interior nodes hold children;
// KindToken leaves hold a token. Trees are safe to share between
// goroutines; rewrites build new nodes instead of mutating.
type Node struct {
	kind     Kind
	token    *Token
	children []*Node
}

// NewNode builds an interior node. The children slice is not copied; the
// caller must not modify it afterwards.
func NewNode(kind Kind, children ...*Node) *Node {
	return &Node{kind: kind, children: children}
}

// NewTokenNode builds a leaf node around a token.
func NewTokenNode(tok Token) *Node {
	return &Node{kind: KindToken, token: &tok}
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Token returns the leaf token, or nil for interior nodes.
func (n *Node) Token() *Token { return n.token }

// Children returns the node's children. The slice is shared; callers must
// treat it as read-only.
func (n *Node) Children() []*Node { return n.children }

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstToken returns the first token in the subtree, or nil for an empty
// node.
func (n *Node) FirstToken() *Token {
	if n == nil {
		return nil
	}
	if n.token != nil {
		return n.token
	}
	for _, c := range n.children {
		if t := c.FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token in the subtree, or nil for an empty
// node.
func (n *Node) LastToken() *Token {
	if n == nil {
		return nil
	}
	if n.token != nil {
		return n.token
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if t := n.children[i].LastToken(); t != nil {
			return t
		}
	}
	return nil
}

// Span returns the source region covered by the node's tokens, excluding
// leading trivia. Spans are only meaningful on parsed trees; synthesized
// nodes report a zero span.
func (n *Node) Span() Span {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil || last == nil {
		return Span{}
	}
	return Span{Start: first.Span.Start, End: last.Span.End}
}

// Text renders the subtree back to source text, including the leading
// trivia of every token in it. Rendering a CompilationUnit reproduces the
// original file byte for byte.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.token != nil {
		for _, tr := range n.token.Leading {
			b.WriteString(tr.Text)
		}
		b.WriteString(n.token.Text)
		return
	}
	for _, c := range n.children {
		c.writeText(b)
	}
}

// EmbeddedStatementIndex returns the child index of the node's embedded
// statement position, or -1 for nodes that have none. The embedded
// statement is the body that may legally be a single statement instead of
// a block.
func (n *Node) EmbeddedStatementIndex() int {
	switch n.kind {
	case KindIfStatement, KindWhileStatement, KindForStatement, KindForEachStatement:
		return 2
	case KindElseClause, KindDoStatement:
		return 1
	}
	return -1
}

// EmbeddedStatement returns the statement at the node's embedded statement
// position, or nil.
func (n *Node) EmbeddedStatement() *Node {
	i := n.EmbeddedStatementIndex()
	if i < 0 {
		return nil
	}
	return n.Child(i)
}

// ContainsDirective reports whether any token in the subtree carries
// preprocessor directive trivia.
func (n *Node) ContainsDirective() bool {
	if n == nil {
		return false
	}
	if n.token != nil {
		return hasDirective(n.token.Leading)
	}
	for _, c := range n.children {
		if c.ContainsDirective() {
			return true
		}
	}
	return false
}

// ReplaceChild returns a copy of n with the child at index i swapped for
// repl. The original node is left untouched.
func (n *Node) ReplaceChild(i int, repl *Node) *Node {
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	children[i] = repl
	return &Node{kind: n.kind, token: n.token, children: children}
}

// WithLeading returns a copy of the leaf node's token with its leading
// trivia replaced. Panics if called on an interior node.
func (n *Node) WithLeading(trivia []Trivia) *Node {
	tok := *n.token
	tok.Leading = trivia
	return &Node{kind: n.kind, token: &tok}
}

// WithFirstLeading returns a copy of the subtree in which the first
// token's leading trivia is replaced. Only the path from the root to that
// token is rebuilt; all other nodes are shared with the original.
func (n *Node) WithFirstLeading(trivia []Trivia) *Node {
	if n == nil {
		return nil
	}
	if n.token != nil {
		return n.WithLeading(trivia)
	}
	for i, c := range n.children {
		if c.FirstToken() != nil {
			return n.ReplaceChild(i, c.WithFirstLeading(trivia))
		}
	}
	return n
}
