package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carloscds/stylecop-go/internal/rule"
	"gopkg.in/yaml.v3"
)

const configFileName = ".stylecop.yml"

// Load reads, schema-validates and parses a config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Discover walks up the directory tree from startDir looking for a
// .stylecop.yml config file. It stops searching when it encounters a .git
// directory (the repository root) or reaches the filesystem root.
// Returns the path to the config file, or "" if none was found.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		// Check for .git boundary — if .git exists in this dir,
		// this is the repo root and we should not search further up.
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Defaults returns a Config with every registered rule at its default
// enablement, keyed by rule ID.
func Defaults() *Config {
	all := rule.All()
	rules := make(map[string]RuleCfg, len(all))
	for _, r := range all {
		d := r.Descriptor()
		rules[d.ID] = RuleCfg{Enabled: d.EnabledByDefault}
	}
	return &Config{
		Rules: rules,
	}
}

// DumpDefaults returns a Config with all registered rules enabled and
// their default severity spelled out. This is consumed by `stylecop init`
// to generate a default config file.
func DumpDefaults() *Config {
	all := rule.All()
	rules := make(map[string]RuleCfg, len(all))
	for _, r := range all {
		d := r.Descriptor()
		rules[d.ID] = RuleCfg{
			Enabled:  true,
			Settings: map[string]any{"severity": string(d.DefaultSeverity)},
		}
	}
	return &Config{
		Rules: rules,
	}
}
