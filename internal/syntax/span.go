package syntax

// Position is a 1-based line/column location in source text.
type Position struct {
	Line   int
	Column int
}

// Span covers a region of source text. Start is inclusive; End points just
// past the last character of the region.
type Span struct {
	Start Position
	End   Position
}

// Multiline reports whether the span ends on a later line than it starts.
func (s Span) Multiline() bool {
	return s.End.Line > s.Start.Line
}

// Contains reports whether p falls within the span.
func (s Span) Contains(p Position) bool {
	if p.Line < s.Start.Line || p.Line > s.End.Line {
		return false
	}
	if p.Line == s.Start.Line && p.Column < s.Start.Column {
		return false
	}
	if p.Line == s.End.Line && p.Column > s.End.Column {
		return false
	}
	return true
}
