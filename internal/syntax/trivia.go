package syntax

// TriviaKind classifies a piece of non-semantic source text.
type TriviaKind int

const (
	// TriviaWhitespace is a run of spaces or tabs within one line.
	TriviaWhitespace TriviaKind = iota
	// TriviaEndOfLine is a single line terminator (\n or \r\n).
	TriviaEndOfLine
	// TriviaComment is a // line comment or a /* */ block comment.
	TriviaComment
	// TriviaDirective is a preprocessor line (#if, #else, #endif, #region,
	// #pragma, ...), excluding its terminating newline.
	TriviaDirective
)

// Trivia is a single piece of formatting text attached to a token. Trivia
// attaches to the token that follows it; trailing file content attaches to
// the EOF token.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// hasDirective reports whether any piece in the list is a preprocessor
// directive.
func hasDirective(trivia []Trivia) bool {
	for _, tr := range trivia {
		if tr.Kind == TriviaDirective {
			return true
		}
	}
	return false
}
