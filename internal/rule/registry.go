package rule

import "github.com/carloscds/stylecop-go/internal/syntax"

var registry []Rule

// Register adds a rule to the global registry. Rules register from their
// package init functions; the registry is effectively frozen once main
// starts.
func Register(r Rule) {
	registry = append(registry, r)
}

// All returns a copy of all registered rules.
func All() []Rule {
	result := make([]Rule, len(registry))
	copy(result, registry)
	return result
}

// ByID returns the registered rule with the given ID, or nil.
func ByID(id string) Rule {
	for _, r := range registry {
		if r.Descriptor().ID == id {
			return r
		}
	}
	return nil
}

// Index maps node kinds to the rules interested in them. Built once per
// pass from a rule set, then read-only.
type Index map[syntax.Kind][]Rule

// NewIndex builds a dispatch index for the given rules.
func NewIndex(rules []Rule) Index {
	idx := make(Index)
	for _, r := range rules {
		for _, k := range r.Kinds() {
			idx[k] = append(idx[k], r)
		}
	}
	return idx
}

// Reset clears the registry. Used for testing.
func Reset() {
	registry = nil
}
