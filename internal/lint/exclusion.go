package lint

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// generatedSuffixes mark files produced by tools; analysis is suppressed
// for them regardless of configuration.
var generatedSuffixes = []string{".designer.cs", ".generated.cs", ".g.cs", ".g.i.cs"}

// ExclusionPolicy decides, before any rule runs, whether a file is
// excluded from analysis. It is read-only during a pass and safe to share
// between goroutines.
type ExclusionPolicy struct {
	globs []glob.Glob
}

// NewExclusionPolicy compiles the given glob patterns. Invalid patterns
// are skipped silently, matching how ignore lists behave elsewhere.
func NewExclusionPolicy(patterns []string) *ExclusionPolicy {
	p := &ExclusionPolicy{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		p.globs = append(p.globs, g)
	}
	return p
}

// ExcludedPath reports whether the path is excluded by suffix or pattern.
func (p *ExclusionPolicy) ExcludedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	cleanPath := filepath.Clean(path)
	for _, g := range p.globs {
		if g.Match(path) || g.Match(cleanPath) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// Excluded reports whether the file should be skipped entirely: excluded
// path or generated content.
func (p *ExclusionPolicy) Excluded(f *File) bool {
	return p.ExcludedPath(f.Path) || IsGeneratedFile(f)
}

// IsGeneratedFile reports whether the file carries an auto-generated
// header comment in its first lines, the marker tools emit into generated
// C# sources.
func IsGeneratedFile(f *File) bool {
	limit := len(f.Lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range f.Lines[:limit] {
		if bytes.Contains(line, []byte("<auto-generated")) {
			return true
		}
	}
	return false
}
