// Package syntax provides a lossless lexer and tolerant parser for C#
// source, producing an immutable tree whose rendered text reproduces the
// input byte for byte.
package syntax

import "strings"

// Lex splits source into tokens. Every input byte lands either in a token's
// Text or in some token's Leading trivia, so the stream always renders back
// to the original source. Lexing never fails; unrecognized bytes become
// one-character punctuation tokens.
func Lex(source string) []Token {
	lx := &lexer{src: source, line: 1, col: 1, atLineStart: true}
	return lx.run()
}

type lexer struct {
	src         string
	pos         int
	line        int
	col         int
	atLineStart bool // only whitespace seen since the last newline
	pending     []Trivia
	tokens      []Token
}

func (lx *lexer) run() []Token {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t':
			lx.lexWhitespace()
		case c == '\n' || c == '\r':
			lx.lexNewline()
		case c == '/' && lx.peek(1) == '/':
			lx.lexLineComment()
		case c == '/' && lx.peek(1) == '*':
			lx.lexBlockComment()
		case c == '#' && lx.atLineStart:
			lx.lexDirective()
		case c == '@' && lx.peek(1) == '"':
			lx.lexString(true)
		case isIdentStart(c):
			lx.lexIdentifier()
		case c >= '0' && c <= '9':
			lx.lexNumber()
		case c == '"':
			lx.lexString(false)
		case c == '\'':
			lx.lexChar()
		default:
			lx.lexPunct()
		}
	}

	lx.emit(TokenEOF, lx.pos, lx.mark())
	return lx.tokens
}

func (lx *lexer) peek(ahead int) byte {
	if lx.pos+ahead < len(lx.src) {
		return lx.src[lx.pos+ahead]
	}
	return 0
}

// advance moves past n bytes of a single line.
func (lx *lexer) advance(n int) {
	lx.pos += n
	lx.col += n
}

func (lx *lexer) trivia(kind TriviaKind, start int) {
	lx.pending = append(lx.pending, Trivia{Kind: kind, Text: lx.src[start:lx.pos]})
}

// mark records the coordinates where a token's text begins. Lex functions
// that emit a token call it before consuming any bytes.
func (lx *lexer) mark() Position {
	return Position{Line: lx.line, Column: lx.col}
}

// emit produces a token from start to the current position, consuming any
// pending trivia as its leading trivia.
func (lx *lexer) emit(kind TokenKind, start int, from Position) {
	tok := Token{
		Kind:    kind,
		Text:    lx.src[start:lx.pos],
		Leading: lx.pending,
		Span: Span{
			Start: from,
			End:   Position{Line: lx.line, Column: lx.col},
		},
	}
	lx.pending = nil
	lx.atLineStart = false
	lx.tokens = append(lx.tokens, tok)
}

func (lx *lexer) lexWhitespace() {
	start := lx.pos
	for lx.pos < len(lx.src) && (lx.src[lx.pos] == ' ' || lx.src[lx.pos] == '\t') {
		lx.advance(1)
	}
	lx.trivia(TriviaWhitespace, start)
}

func (lx *lexer) lexNewline() {
	start := lx.pos
	if lx.src[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '\n' {
		lx.pos++
	}
	lx.trivia(TriviaEndOfLine, start)
	lx.line++
	lx.col = 1
	lx.atLineStart = true
}

func (lx *lexer) lexLineComment() {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
		lx.advance(1)
	}
	lx.trivia(TriviaComment, start)
}

func (lx *lexer) lexBlockComment() {
	start := lx.pos
	lx.advance(2)
	for lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '*' && lx.peek(1) == '/' {
			lx.advance(2)
			break
		}
		if lx.src[lx.pos] == '\n' {
			lx.pos++
			lx.line++
			lx.col = 1
			continue
		}
		lx.advance(1)
	}
	lx.trivia(TriviaComment, start)
}

// lexDirective consumes a whole preprocessor line (without its newline) as
// directive trivia. The lexer only reaches here when # is the first
// non-whitespace character on the line.
func (lx *lexer) lexDirective() {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
		lx.advance(1)
	}
	lx.trivia(TriviaDirective, start)
}

func (lx *lexer) lexIdentifier() {
	start, from := lx.pos, lx.mark()
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.advance(1)
	}
	kind := TokenIdentifier
	if keywords[lx.src[start:lx.pos]] {
		kind = TokenKeyword
	}
	lx.emit(kind, start, from)
}

func (lx *lexer) lexNumber() {
	start, from := lx.pos, lx.mark()
	for lx.pos < len(lx.src) && (isIdentPart(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
		// Stop at a dot not followed by a digit so member access on a
		// literal (1.ToString()) still splits.
		if lx.src[lx.pos] == '.' {
			next := lx.peek(1)
			if next < '0' || next > '9' {
				break
			}
		}
		lx.advance(1)
	}
	lx.emit(TokenNumber, start, from)
}

func (lx *lexer) lexString(verbatim bool) {
	start, from := lx.pos, lx.mark()
	if verbatim {
		lx.advance(2) // @"
		for lx.pos < len(lx.src) {
			if lx.src[lx.pos] == '"' {
				if lx.peek(1) == '"' {
					lx.advance(2)
					continue
				}
				lx.advance(1)
				break
			}
			if lx.src[lx.pos] == '\n' {
				lx.pos++
				lx.line++
				lx.col = 1
				continue
			}
			lx.advance(1)
		}
	} else {
		lx.advance(1) // "
		for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
			if lx.src[lx.pos] == '\\' && lx.pos+1 < len(lx.src) {
				lx.advance(2)
				continue
			}
			if lx.src[lx.pos] == '"' {
				lx.advance(1)
				break
			}
			lx.advance(1)
		}
	}
	lx.emit(TokenString, start, from)
}

func (lx *lexer) lexChar() {
	start, from := lx.pos, lx.mark()
	lx.advance(1) // '
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		if lx.src[lx.pos] == '\\' && lx.pos+1 < len(lx.src) {
			lx.advance(2)
			continue
		}
		if lx.src[lx.pos] == '\'' {
			lx.advance(1)
			break
		}
		lx.advance(1)
	}
	lx.emit(TokenChar, start, from)
}

func (lx *lexer) lexPunct() {
	start, from := lx.pos, lx.mark()
	if lx.pos+1 < len(lx.src) && twoCharPuncts[lx.src[lx.pos:lx.pos+2]] {
		lx.advance(2)
	} else {
		lx.advance(1)
	}
	lx.emit(TokenPunct, start, from)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '@' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// renderTokens reconstructs source text from a token slice.
func renderTokens(tokens []Token) string {
	var b strings.Builder
	for i := range tokens {
		for _, tr := range tokens[i].Leading {
			b.WriteString(tr.Text)
		}
		b.WriteString(tokens[i].Text)
	}
	return b.String()
}
