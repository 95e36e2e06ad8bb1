// Package stylecop exposes the rule documentation embedded in the
// repository, for the `stylecop rules` command and help output.
package stylecop

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

//go:embed SA*/README.md
var rulesFS embed.FS

// RuleInfo holds metadata extracted from a rule README's front matter.
type RuleInfo struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Content     string `yaml:"-"`
}

// ListRules returns all embedded rules sorted by ID.
func ListRules() ([]RuleInfo, error) {
	return listRulesFromFS(rulesFS)
}

// LookupRule finds a rule by ID (e.g. "SA1503") or name (e.g.
// "braces-required") and returns its full README content.
func LookupRule(query string) (string, error) {
	return lookupRuleFromFS(rulesFS, query)
}

func listRulesFromFS(fsys fs.FS) ([]RuleInfo, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading rules directory: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(&frontmatter.Extender{}))

	var rules []RuleInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := entry.Name() + "/README.md"
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			continue
		}
		info, err := parseRuleDoc(md, data)
		if err != nil {
			continue
		}
		info.Content = string(data)
		rules = append(rules, info)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})

	return rules, nil
}

// parseRuleDoc extracts the YAML front matter from a rule README.
func parseRuleDoc(md goldmark.Markdown, data []byte) (RuleInfo, error) {
	ctx := parser.NewContext()
	md.Parser().Parse(text.NewReader(data), parser.WithContext(ctx))

	d := frontmatter.Get(ctx)
	if d == nil {
		return RuleInfo{}, fmt.Errorf("missing front matter")
	}

	var info RuleInfo
	if err := d.Decode(&info); err != nil {
		return RuleInfo{}, fmt.Errorf("decoding front matter: %w", err)
	}
	if info.ID == "" {
		return RuleInfo{}, fmt.Errorf("front matter missing id")
	}
	return info, nil
}

func lookupRuleFromFS(fsys fs.FS, query string) (string, error) {
	rules, err := listRulesFromFS(fsys)
	if err != nil {
		return "", err
	}

	q := strings.ToUpper(query)
	for _, r := range rules {
		if strings.ToUpper(r.ID) == q || r.Name == query {
			return r.Content, nil
		}
	}

	return "", fmt.Errorf("unknown rule %q", query)
}
