package syntax

// Parse builds a syntax tree from a token stream. The parser is tolerant:
// it never fails, and every token ends up in the tree exactly once, so the
// tree always renders back to the original source. Constructs outside the
// recognized grammar are kept as flat token runs inside Expression or
// Declaration nodes.
func Parse(tokens []Token) *Node {
	p := &parser{toks: tokens}
	return p.parseCompilationUnit()
}

// ParseSource lexes and parses source in one step.
func ParseSource(source string) *Node {
	return Parse(Lex(source))
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() *Token { return &p.toks[p.pos] }

func (p *parser) atEOF() bool { return p.cur().Kind == TokenEOF }

func (p *parser) is(text string) bool { return p.cur().Is(text) }

// eat consumes the current token as a leaf node.
func (p *parser) eat() *Node {
	n := NewTokenNode(p.toks[p.pos])
	if !p.atEOF() {
		p.pos++
	}
	return n
}

func (p *parser) parseCompilationUnit() *Node {
	var children []*Node
	for !p.atEOF() {
		children = append(children, p.parseStatement())
	}
	children = append(children, p.eat()) // EOF carries trailing trivia
	return NewNode(KindCompilationUnit, children...)
}

// declarationStarters begin a leniently parsed declaration: a token run up
// to the next { or ; with an optional block body.
var declarationStarters = map[string]bool{
	"namespace": true, "class": true, "struct": true, "interface": true,
	"enum": true, "public": true, "private": true, "protected": true,
	"internal": true, "static": true, "void": true, "using": true,
	"switch": true,
}

func (p *parser) parseStatement() *Node {
	tok := p.cur()
	switch {
	case tok.Is("{"):
		return p.parseBlock()
	case tok.Is("if"):
		return p.parseIf()
	case tok.Is("while"):
		return p.parseCondStatement(KindWhileStatement)
	case tok.Is("for"):
		return p.parseCondStatement(KindForStatement)
	case tok.Is("foreach"):
		return p.parseCondStatement(KindForEachStatement)
	case tok.Is("do"):
		return p.parseDo()
	case tok.Is("return"):
		return p.parseKeywordStatement(KindReturnStatement)
	case tok.Is("break") || tok.Is("continue") || tok.Is("throw"):
		return p.parseKeywordStatement(KindExpressionStatement)
	case tok.Is(";"):
		return NewNode(KindEmptyStatement, p.eat())
	case tok.Is("["):
		return p.parseAttributeList()
	case tok.Kind == TokenKeyword && declarationStarters[tok.Text]:
		return p.parseDeclaration()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseBlock() *Node {
	children := []*Node{p.eat()} // {
	for !p.atEOF() && !p.is("}") {
		children = append(children, p.parseStatement())
	}
	if p.is("}") {
		children = append(children, p.eat())
	}
	return NewNode(KindBlock, children...)
}

// parseIf parses an if statement as [if, condition, statement, else?].
func (p *parser) parseIf() *Node {
	children := []*Node{p.eat(), p.parseParenGroup(), p.parseStatement()}
	if p.is("else") {
		elseChildren := []*Node{p.eat(), p.parseStatement()}
		children = append(children, NewNode(KindElseClause, elseChildren...))
	}
	return NewNode(KindIfStatement, children...)
}

// parseCondStatement parses while/for/foreach as [keyword, condition,
// statement].
func (p *parser) parseCondStatement(kind Kind) *Node {
	return NewNode(kind, p.eat(), p.parseParenGroup(), p.parseStatement())
}

// parseDo parses do statement while (condition) ; as [do, statement,
// while?, condition?, semicolon?].
func (p *parser) parseDo() *Node {
	children := []*Node{p.eat(), p.parseStatement()}
	if p.is("while") {
		children = append(children, p.eat(), p.parseParenGroup())
		if p.is(";") {
			children = append(children, p.eat())
		}
	}
	return NewNode(KindDoStatement, children...)
}

// parseParenGroup consumes a balanced ( ... ) run as a flat Expression
// node. Everything inside, including semicolons in for-headers and braces
// in lambda bodies, is kept as plain tokens.
func (p *parser) parseParenGroup() *Node {
	var children []*Node
	if !p.is("(") {
		return NewNode(KindExpression, children...)
	}
	depth := 0
	for !p.atEOF() {
		if p.is("(") {
			depth++
		} else if p.is(")") {
			depth--
			children = append(children, p.eat())
			if depth == 0 {
				break
			}
			continue
		}
		children = append(children, p.eat())
	}
	return NewNode(KindExpression, children...)
}

// parseKeywordStatement parses keyword [expression] ; leniently.
func (p *parser) parseKeywordStatement(kind Kind) *Node {
	children := []*Node{p.eat()}
	if expr := p.parseExpression(";", "}"); expr != nil {
		children = append(children, expr)
	}
	if p.is(";") {
		children = append(children, p.eat())
	}
	return NewNode(kind, children...)
}

// parseDeclaration consumes header tokens up to { or ;, then an optional
// block body. Namespaces, types, members and using directives all take
// this shape.
func (p *parser) parseDeclaration() *Node {
	var children []*Node
	for !p.atEOF() && !p.is("{") && !p.is(";") {
		children = append(children, p.eat())
	}
	if p.is("{") {
		children = append(children, p.parseBlock())
	} else if p.is(";") {
		children = append(children, p.eat())
	}
	return NewNode(KindDeclaration, children...)
}

func (p *parser) parseExpressionStatement() *Node {
	var children []*Node
	if expr := p.parseExpression(";", "}"); expr != nil {
		children = append(children, expr)
	}
	if p.is(";") {
		children = append(children, p.eat())
	}
	if len(children) == 0 && !p.atEOF() {
		// Stray closer; consume one token to guarantee progress. At EOF the
		// node stays empty so the EOF token is not captured twice.
		children = append(children, p.eat())
	}
	return NewNode(KindExpressionStatement, children...)
}

// parseAttributeList parses [Attr(...), Attr2] at statement or member
// position.
func (p *parser) parseAttributeList() *Node {
	children := []*Node{p.eat()} // [
	for !p.atEOF() && !p.is("]") {
		children = append(children, p.parseAttribute())
		if p.is(",") {
			children = append(children, p.eat())
		}
	}
	if p.is("]") {
		children = append(children, p.eat())
	}
	return NewNode(KindAttributeList, children...)
}

func (p *parser) parseAttribute() *Node {
	var children []*Node
	for !p.atEOF() && !p.is(",") && !p.is("]") {
		if p.is("(") {
			children = append(children, p.parseArgumentList("(", ")",
				KindAttributeArgumentList, KindAttributeArgument))
			continue
		}
		children = append(children, p.eat())
	}
	return NewNode(KindAttribute, children...)
}

// parseExpression collects expression elements until one of the stop
// tokens appears at the current nesting level. Nested argument lists,
// lambdas and brace groups are parsed recursively, so stop tokens inside
// them do not end the expression. Returns nil when no tokens were
// consumed.
func (p *parser) parseExpression(stops ...string) *Node {
	var elements []*Node
	for !p.atEOF() && !p.stopped(stops) {
		switch {
		case p.is("("):
			if p.lambdaAhead() {
				elements = append(elements, p.parseLambda(stops))
			} else if lastIsPrimary(elements) {
				elements = append(elements, p.parseArgumentList("(", ")",
					KindArgumentList, KindArgument))
			} else {
				elements = append(elements, p.parseParenExpr())
			}
		case p.is("["):
			elements = append(elements, p.parseArgumentList("[", "]",
				KindBracketedArgumentList, KindArgument))
		case p.is("{"):
			elements = append(elements, p.parseBraceGroup())
		case p.is("delegate"):
			elements = append(elements, p.parseAnonymousMethod())
		case p.cur().Kind == TokenIdentifier && p.toks[p.pos+1].Is("=>"):
			elements = append(elements, p.parseLambda(stops))
		default:
			elements = append(elements, p.eat())
		}
	}
	if len(elements) == 0 {
		return nil
	}
	if len(elements) == 1 && elements[0].Kind() != KindToken {
		return elements[0]
	}
	return NewNode(KindExpression, elements...)
}

func (p *parser) stopped(stops []string) bool {
	for _, s := range stops {
		if p.is(s) {
			return true
		}
	}
	return false
}

// lastIsPrimary reports whether the preceding element can be invoked or
// indexed, making a following ( an argument list rather than a
// parenthesized expression.
func lastIsPrimary(elements []*Node) bool {
	if len(elements) == 0 {
		return false
	}
	last := elements[len(elements)-1]
	switch last.Kind() {
	case KindExpression, KindArgumentList, KindBracketedArgumentList:
		return true
	case KindToken:
		t := last.Token()
		return t.Kind == TokenIdentifier || t.Kind == TokenString ||
			t.Kind == TokenNumber || t.Is("this") || t.Is(")") || t.Is("]") ||
			t.Is(">")
	}
	return false
}

// lambdaAhead reports whether the ( at the current position opens a lambda
// parameter list, i.e. its matching ) is directly followed by =>.
func (p *parser) lambdaAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		t := &p.toks[i]
		if t.Kind == TokenEOF {
			return false
		}
		if t.Is("(") {
			depth++
		} else if t.Is(")") {
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Is("=>")
			}
		}
	}
	return false
}

// parseLambda parses x => body and (params) => body. A { body is a block;
// otherwise the body expression extends to the caller's stop tokens.
func (p *parser) parseLambda(stops []string) *Node {
	var children []*Node
	if p.is("(") {
		children = append(children, p.parseParenGroup())
	} else {
		children = append(children, p.eat()) // single parameter
	}
	if p.is("=>") {
		children = append(children, p.eat())
	}
	if p.is("{") {
		children = append(children, p.parseBlock())
	} else if body := p.parseExpression(stops...); body != nil {
		children = append(children, body)
	}
	return NewNode(KindLambdaExpression, children...)
}

// parseAnonymousMethod parses delegate [(params)] { body }.
func (p *parser) parseAnonymousMethod() *Node {
	children := []*Node{p.eat()} // delegate
	if p.is("(") {
		children = append(children, p.parseParenGroup())
	}
	if p.is("{") {
		children = append(children, p.parseBlock())
	}
	return NewNode(KindAnonymousMethodExpression, children...)
}

func (p *parser) parseParenExpr() *Node {
	children := []*Node{p.eat()} // (
	if inner := p.parseExpression(")"); inner != nil {
		children = append(children, inner)
	}
	if p.is(")") {
		children = append(children, p.eat())
	}
	return NewNode(KindExpression, children...)
}

// parseBraceGroup consumes a balanced { ... } run appearing inside an
// expression (object and collection initializers) as flat tokens.
func (p *parser) parseBraceGroup() *Node {
	var children []*Node
	depth := 0
	for !p.atEOF() {
		if p.is("{") {
			depth++
		} else if p.is("}") {
			depth--
			children = append(children, p.eat())
			if depth == 0 {
				break
			}
			continue
		}
		children = append(children, p.eat())
	}
	return NewNode(KindExpression, children...)
}

// parseArgumentList parses open arg, arg, ... close with the given node
// kinds. Commas sit between argument nodes as direct children of the list.
func (p *parser) parseArgumentList(open, close string, listKind, argKind Kind) *Node {
	children := []*Node{p.eat()} // open
	for !p.atEOF() && !p.is(close) {
		var argChildren []*Node
		if expr := p.parseExpression(",", close); expr != nil {
			argChildren = append(argChildren, expr)
		}
		children = append(children, NewNode(argKind, argChildren...))
		if p.is(",") {
			children = append(children, p.eat())
		}
	}
	if p.is(close) {
		children = append(children, p.eat())
	}
	return NewNode(listKind, children...)
}
