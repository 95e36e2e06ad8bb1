package syntax

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// TokenEOF terminates every token stream. Its Leading trivia holds
	// whatever formatting follows the last real token in the file.
	TokenEOF TokenKind = iota
	// TokenIdentifier is a name that is not a reserved word.
	TokenIdentifier
	// TokenKeyword is a reserved word (if, else, while, for, foreach, ...).
	TokenKeyword
	// TokenNumber is a numeric literal, including any type suffix.
	TokenNumber
	// TokenString is a string literal, regular or verbatim.
	TokenString
	// TokenChar is a character literal.
	TokenChar
	// TokenPunct is an operator or punctuation token.
	TokenPunct
)

// Token is a lexed source token. Leading holds all trivia between the end
// of the previous token and the start of this one; trivia is never attached
// on the trailing side. Span covers the token text only, not its trivia.
type Token struct {
	Kind    TokenKind
	Text    string
	Leading []Trivia
	Span    Span
}

// Is reports whether the token is punctuation or a keyword with the given
// text.
func (t *Token) Is(text string) bool {
	return (t.Kind == TokenPunct || t.Kind == TokenKeyword) && t.Text == text
}

// keywords is the set of reserved words the lexer distinguishes from
// identifiers. Only words the parser or rules care about need to be here;
// unknown reserved words lex as identifiers and still round-trip.
var keywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "foreach": true,
	"do": true, "switch": true, "case": true, "default": true,
	"break": true, "continue": true, "return": true, "throw": true,
	"delegate": true, "new": true, "in": true, "using": true,
	"namespace": true, "class": true, "struct": true, "interface": true,
	"enum": true, "public": true, "private": true, "protected": true,
	"internal": true, "static": true, "void": true, "var": true,
	"true": true, "false": true, "null": true, "this": true,
}

// twoCharPuncts are operators matched greedily before single characters.
// => must be here so lambda detection sees a single token.
var twoCharPuncts = map[string]bool{
	"=>": true, "==": true, "!=": true, "<=": true, ">=": true,
	"&&": true, "||": true, "++": true, "--": true, "+=": true,
	"-=": true, "*=": true, "/=": true, "%=": true, "??": true,
	"?.": true, "->": true, "<<": true, ">>": true, "::": true,
}
