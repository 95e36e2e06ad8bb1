package lint

import (
	"bytes"

	"github.com/carloscds/stylecop-go/internal/syntax"
)

// File holds a parsed C# source file. The tree is immutable and shared;
// rules must never modify it.
type File struct {
	Path   string
	Source []byte
	Lines  [][]byte
	Tree   *syntax.Node
}

// NewFile parses source and returns a File. Parsing is tolerant and never
// fails; the error return exists for callers that feed files through I/O
// wrappers.
func NewFile(path string, source []byte) (*File, error) {
	return &File{
		Path:   path,
		Source: source,
		Lines:  bytes.Split(source, []byte("\n")),
		Tree:   syntax.ParseSource(string(source)),
	}, nil
}

// Line returns the text of a 1-based line number, or nil when out of
// range.
func (f *File) Line(n int) []byte {
	if n < 1 || n > len(f.Lines) {
		return nil
	}
	return f.Lines[n-1]
}

// Indentation returns the leading whitespace of a 1-based line number.
func (f *File) Indentation(n int) string {
	line := f.Line(n)
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return string(line[:i])
}
