package lint

import (
	"sort"
	"sync"
)

// Reporter accumulates diagnostics from concurrent file analyses. Appends
// are safe from multiple goroutines; ordering across files is not
// significant until Sorted is called.
type Reporter struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report appends diagnostics to the reporter.
func (r *Reporter) Report(diags ...Diagnostic) {
	if len(diags) == 0 {
		return
	}
	r.mu.Lock()
	r.diags = append(r.diags, diags...)
	r.mu.Unlock()
}

// Len returns the number of diagnostics reported so far.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

// Sorted returns a copy of all diagnostics ordered by file, line, column.
func (r *Reporter) Sorted() []Diagnostic {
	r.mu.Lock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i], out[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		return di.RuleID < dj.RuleID
	})
	return out
}
