package lint

import (
	"fmt"

	"github.com/carloscds/stylecop-go/internal/syntax"
)

// Severity indicates the severity level of a diagnostic.
type Severity string

// Severity levels, from least to most severe.
const (
	Hidden  Severity = "hidden"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// ParseSeverity maps a configuration string to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(s); sev {
	case Hidden, Info, Warning, Error:
		return sev, true
	}
	return "", false
}

// Descriptor is the immutable identity of a rule: one value per rule,
// constructed at process start and never mutated.
type Descriptor struct {
	// ID is the stable short code, e.g. "SA1503".
	ID string
	// Name is the human-oriented rule name, e.g. "braces-required".
	Name string
	// Title is a one-line summary of what the rule enforces.
	Title string
	// MessageFormat is a fmt template for occurrence messages.
	MessageFormat string
	// Category groups related rules, e.g. "readability" or "layout".
	Category string
	// DefaultSeverity applies when the config does not override it.
	DefaultSeverity Severity
	// EnabledByDefault controls whether the rule runs without explicit
	// configuration.
	EnabledByDefault bool
	// Description explains the rule in a sentence or two.
	Description string
	// HelpLink points at the rule's documentation.
	HelpLink string
}

// At builds a diagnostic occurrence for this descriptor at the given
// source position. args fill the MessageFormat template.
func (d Descriptor) At(file string, pos syntax.Position, args ...any) Diagnostic {
	return Diagnostic{
		File:     file,
		Line:     pos.Line,
		Column:   pos.Column,
		RuleID:   d.ID,
		RuleName: d.Name,
		Severity: d.DefaultSeverity,
		Message:  fmt.Sprintf(d.MessageFormat, args...),
	}
}

// Diagnostic represents a single rule violation. It is a plain value; two
// diagnostics with equal fields are the same occurrence.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	RuleID   string
	RuleName string
	Severity Severity
	Message  string
}
