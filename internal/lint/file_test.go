package lint

import (
	"testing"

	"github.com/carloscds/stylecop-go/internal/syntax"
)

func TestNewFile_EmptyContent(t *testing.T) {
	f, err := NewFile("empty.cs", []byte(""))
	if err != nil {
		t.Fatal(err)
	}
	if f.Tree == nil {
		t.Fatal("expected tree for empty file")
	}
	if f.Tree.Kind() != syntax.KindCompilationUnit {
		t.Errorf("expected CompilationUnit root, got %v", f.Tree.Kind())
	}
}

func TestNewFile_RoundTrip(t *testing.T) {
	src := []byte("if (i == 0)\n    Body();\n")
	f, err := NewFile("a.cs", src)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Tree.Text(); got != string(src) {
		t.Errorf("tree text mismatch: %q", got)
	}
}

func TestFile_Line(t *testing.T) {
	f, _ := NewFile("a.cs", []byte("first\nsecond\n"))
	if got := string(f.Line(2)); got != "second" {
		t.Errorf("expected line 2 = second, got %q", got)
	}
	if f.Line(0) != nil || f.Line(99) != nil {
		t.Error("out-of-range lines must return nil")
	}
}

func TestFile_Indentation(t *testing.T) {
	f, _ := NewFile("a.cs", []byte("none\n    four\n\ttab\n"))
	if got := f.Indentation(1); got != "" {
		t.Errorf("expected no indent, got %q", got)
	}
	if got := f.Indentation(2); got != "    " {
		t.Errorf("expected four spaces, got %q", got)
	}
	if got := f.Indentation(3); got != "\t" {
		t.Errorf("expected tab, got %q", got)
	}
}
