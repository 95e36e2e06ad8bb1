package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	stylecop "github.com/carloscds/stylecop-go"
	"github.com/carloscds/stylecop-go/internal/config"
	"github.com/carloscds/stylecop-go/internal/discovery"
	"github.com/carloscds/stylecop-go/internal/engine"
	fixpkg "github.com/carloscds/stylecop-go/internal/fix"
	"github.com/carloscds/stylecop-go/internal/lint"
	"github.com/carloscds/stylecop-go/internal/log"
	"github.com/carloscds/stylecop-go/internal/output"
	"github.com/carloscds/stylecop-go/internal/rule"

	// Import all rule packages so their init() functions register rules.
	_ "github.com/carloscds/stylecop-go/internal/rules/braces"
	_ "github.com/carloscds/stylecop-go/internal/rules/multilineargument"
)

func main() {
	os.Exit(run())
}

const usageText = `Usage: stylecop <command> [flags] [files...]

Commands:
  check     Lint C# files (default when given file arguments)
  fix       Auto-fix lint issues in place
  rules     List rules, or show one rule's documentation
  help      Show help for rules and topics
  init      Generate a default .stylecop.yml config file
  version   Print version and exit

Global flags:
  -h, --help      Show this help

Run 'stylecop <command> --help' for more information on a command.
`

func run() int {
	// Handle no arguments: print usage, exit 0.
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		return 0
	}

	// Handle global flags before subcommand dispatch.
	first := os.Args[1]

	switch first {
	case "--help", "-h":
		fmt.Fprint(os.Stderr, usageText)
		return 0
	}

	// Dispatch to subcommand.
	switch first {
	case "check":
		return runCheck(os.Args[2:])
	case "fix":
		return runFix(os.Args[2:])
	case "rules":
		return runHelpRule(os.Args[2:])
	case "help":
		return runHelp(os.Args[2:])
	case "init":
		return runInit(os.Args[2:])
	case "version":
		printVersion()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "stylecop: unknown command %q\n\n%s", first, usageText)
		return 2
	}
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("stylecop %s\n", version)
}

// runCheck implements the "check" subcommand: lint files.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var (
		configPath  string
		format      string
		noColor     bool
		quiet       bool
		noGitignore bool
		verbose     bool
	)

	fs.StringVarP(&configPath, "config", "c", "", "Override config file path")
	fs.StringVarP(&format, "format", "f", "text", "Output format: text, json")
	fs.BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	fs.BoolVar(&noGitignore, "no-gitignore", false, "Disable .gitignore filtering when walking directories")
	fs.BoolVar(&verbose, "verbose", false, "Log per-file progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stylecop check [flags] [files...]\n\n"+
			"Lint C# files for style issues.\n\n"+
			"Files can be paths, directories (walked recursively for *.cs), or glob patterns.\n"+
			"With no file arguments, reads from stdin if piped; otherwise the working\n"+
			"directory is walked using the config's files: patterns (default **/*.cs).\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()

	// No file args with piped stdin: lint stdin. Otherwise checkFiles
	// falls back to config-driven discovery.
	if len(files) == 0 && isStdinPipe() {
		return checkStdin(format, noColor, quiet, configPath)
	}

	return checkFiles(files, configPath, format, noColor, quiet, noGitignore, verbose)
}

// runFix implements the "fix" subcommand: auto-fix lint issues in place.
func runFix(args []string) int {
	fs := flag.NewFlagSet("fix", flag.ContinueOnError)
	var (
		configPath  string
		format      string
		noColor     bool
		quiet       bool
		noGitignore bool
		verbose     bool
	)

	fs.StringVarP(&configPath, "config", "c", "", "Override config file path")
	fs.StringVarP(&format, "format", "f", "text", "Output format: text, json")
	fs.BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	fs.BoolVar(&noGitignore, "no-gitignore", false, "Disable .gitignore filtering when walking directories")
	fs.BoolVar(&verbose, "verbose", false, "Log per-file progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stylecop fix [flags] [files...]\n\n"+
			"Auto-fix lint issues in C# files.\n\n"+
			"Files can be paths, directories (walked recursively for *.cs), or glob patterns.\n"+
			"Stdin is not supported (files must be writable).\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()

	// Fix rejects stdin; without file args it fixes the discovered tree.
	if len(files) == 0 && isStdinPipe() {
		fmt.Fprintf(os.Stderr, "stylecop: cannot fix stdin in place\n")
		return 2
	}

	return fixFiles(files, configPath, format, noColor, quiet, noGitignore, verbose)
}

// runInit implements the "init" subcommand: generate .stylecop.yml.
func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stylecop init\n\n"+
			"Generate a default .stylecop.yml config file in the current directory.\n")
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "stylecop: init takes no arguments\n")
		return 2
	}

	const configFile = ".stylecop.yml"

	// Check if config file already exists.
	if _, err := os.Stat(configFile); err == nil {
		fmt.Fprintf(os.Stderr, "stylecop: %s already exists\n", configFile)
		return 2
	}

	cfg := config.DumpDefaults()

	// Record exclude-generated: true explicitly so the generated file
	// documents the default.
	eg := true
	cfg.ExcludeGenerated = &eg

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: marshalling config: %v\n", err)
		return 2
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: writing %s: %v\n", configFile, err)
		return 2
	}

	fmt.Fprintf(os.Stderr, "stylecop: created %s\n", configFile)
	return 0
}

// checkFiles lints the given file paths and returns the appropriate exit code.
func checkFiles(fileArgs []string, configPath, format string, noColor, quiet, noGitignore, verbose bool) int {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}

	files, err := resolveFiles(fileArgs, cfg, noGitignore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}

	if len(files) == 0 {
		return 0
	}

	runner := &engine.Runner{
		Config: cfg,
		Rules:  rule.All(),
		Log:    &log.Logger{Enabled: verbose, W: os.Stderr},
	}

	result := runner.Run(context.Background(), files)

	return report(result.Diagnostics, result.Errors, format, noColor, quiet)
}

// fixFiles fixes lint issues in the given file paths.
func fixFiles(fileArgs []string, configPath, format string, noColor, quiet, noGitignore, verbose bool) int {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}

	files, err := resolveFiles(fileArgs, cfg, noGitignore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}

	if len(files) == 0 {
		return 0
	}

	fixer := &fixpkg.Fixer{
		Config: cfg,
		Rules:  rule.All(),
		Log:    &log.Logger{Enabled: verbose, W: os.Stderr},
	}

	fixResult := fixer.Fix(context.Background(), files)

	return report(fixResult.Diagnostics, fixResult.Errors, format, noColor, quiet)
}

// checkStdin reads from stdin, lints the content, and returns the appropriate
// exit code.
func checkStdin(format string, noColor, quiet bool, configPath string) int {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: reading stdin: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}

	runner := &engine.Runner{
		Config: cfg,
		Rules:  rule.All(),
	}

	result := runner.RunSource(context.Background(), "<stdin>", source)

	return report(result.Diagnostics, result.Errors, format, noColor, quiet)
}

// report prints errors and formatted diagnostics and maps them to an exit
// code: 2 for run errors without diagnostics, 1 for diagnostics, 0 otherwise.
func report(diags []lint.Diagnostic, errs []error, format string, noColor, quiet bool) int {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", e)
	}

	if len(errs) > 0 && len(diags) == 0 {
		return 2
	}

	if !quiet && len(diags) > 0 {
		var formatter output.Formatter
		switch format {
		case "json":
			formatter = &output.JSONFormatter{}
		default:
			formatter = &output.TextFormatter{Color: !noColor}
		}

		if err := formatter.Format(os.Stderr, diags); err != nil {
			fmt.Fprintf(os.Stderr, "stylecop: error writing output: %v\n", err)
			return 2
		}
	}

	if len(diags) > 0 {
		return 1
	}

	return 0
}

// resolveFiles expands explicit file arguments, or falls back to walking
// the working directory with the config's files: patterns when no
// arguments were given.
func resolveFiles(fileArgs []string, cfg *config.Config, noGitignore bool) ([]string, error) {
	if len(fileArgs) > 0 {
		useGitignore := !noGitignore
		return lint.ResolveFilesWithOpts(fileArgs, lint.ResolveOpts{UseGitignore: &useGitignore})
	}
	return discovery.Discover(discovery.Options{
		Patterns:     cfg.Files,
		UseGitignore: !noGitignore,
	})
}

// isStdinPipe returns true if stdin is a pipe (not a terminal).
func isStdinPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// loadConfig loads configuration by either using the specified path or
// discovering a config file from the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	defaults := config.Defaults()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return config.Merge(defaults, loaded), nil
	}

	// Try to discover a config file.
	cwd, err := os.Getwd()
	if err != nil {
		return config.Merge(defaults, nil), nil
	}

	discovered, err := config.Discover(cwd)
	if err != nil {
		return config.Merge(defaults, nil), nil
	}

	if discovered == "" {
		return config.Merge(defaults, nil), nil
	}

	loaded, err := config.Load(discovered)
	if err != nil {
		return nil, err
	}

	return config.Merge(defaults, loaded), nil
}

const helpUsageText = `Usage: stylecop help <topic>

Topics:
  rule [id|name]   Show rule documentation
`

// runHelp implements the "help" subcommand.
func runHelp(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, helpUsageText)
		return 0
	}

	switch args[0] {
	case "rule":
		return runHelpRule(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "stylecop: help: unknown topic %q\n", args[0])
		return 2
	}
}

// runHelpRule implements "help rule [id|name]".
func runHelpRule(args []string) int {
	if len(args) == 0 {
		return listAllRules()
	}
	return showRule(args[0])
}

func listAllRules() int {
	rules, err := stylecop.ListRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}

	for _, r := range rules {
		fmt.Printf("%-6s %-24s %s\n", r.ID, r.Name, r.Description)
	}
	return 0
}

func showRule(query string) int {
	content, err := stylecop.LookupRule(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecop: %v\n", err)
		return 2
	}
	fmt.Print(content)
	return 0
}
