package main_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all e2e tests.
	// go test runs from the package directory (cmd/stylecop/),
	// so "go build ." builds the main package in this directory.
	tmp, err := os.MkdirTemp("", "stylecop-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	binaryPath = filepath.Join(tmp, "stylecop")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binary: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(tmp)
	os.Exit(code)
}

// runBinary runs the stylecop binary with the given args and optional stdin.
// It returns stdout, stderr, and the exit code.
func runBinary(t *testing.T, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("unexpected error running binary: %v", err)
		}
	}

	return outBuf.String(), errBuf.String(), exitCode
}

// runBinaryInDir runs the stylecop binary with the given working directory.
func runBinaryInDir(t *testing.T, dir string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("unexpected error running binary: %v", err)
		}
	}

	return outBuf.String(), errBuf.String(), exitCode
}

// writeFixture creates a file with the given content in the given directory.
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

func TestE2E_NoArgs_ExitsZero(t *testing.T) {
	_, _, exitCode := runBinary(t, "")
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
}

func TestE2E_CleanFile_ExitsZero(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "Clean.cs", "if (x)\n{\n    Foo();\n}\n")

	_, _, exitCode := runBinary(t, "", "check", "--no-color", path)
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for clean file, got %d", exitCode)
	}
}

func TestE2E_Violations_ExitsOne(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "Dirty.cs", "if (x)\n    Foo();\n")

	_, stderr, exitCode := runBinary(t, "", "check", "--no-color", path)
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(stderr, "SA1503") {
		t.Errorf("expected stderr to contain SA1503, got: %s", stderr)
	}
	if !strings.Contains(stderr, "braces") {
		t.Errorf("expected stderr to mention braces, got: %s", stderr)
	}
}

func TestE2E_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "Dirty.cs", "if (x)\n    Foo();\n")

	_, stderr, exitCode := runBinary(t, "", "check", "--no-color", "--format", "json", path)
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}

	// Validate JSON output.
	var diagnostics []map[string]interface{}
	if err := json.Unmarshal([]byte(stderr), &diagnostics); err != nil {
		t.Fatalf("stderr is not valid JSON: %v\nstderr: %s", err, stderr)
	}

	if len(diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic in JSON output")
	}

	// Check the JSON schema has required fields.
	d := diagnostics[0]
	requiredFields := []string{"file", "line", "column", "rule", "name", "severity", "message"}
	for _, field := range requiredFields {
		if _, ok := d[field]; !ok {
			t.Errorf("JSON diagnostic missing required field %q", field)
		}
	}

	// Check that the file field points to our fixture.
	fileVal, _ := d["file"].(string)
	if !strings.HasSuffix(fileVal, "Dirty.cs") {
		t.Errorf("expected file field to end with Dirty.cs, got %q", fileVal)
	}
}

func TestE2E_FixSubcommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "FixMe.cs", "if (x)\n    Foo();\n")

	_, _, exitCode := runBinary(t, "", "fix", "--no-color", path)
	if exitCode != 0 {
		t.Errorf("expected exit code 0 after fix, got %d", exitCode)
	}

	// Read the file back and check that braces were inserted.
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixed file: %v", err)
	}
	want := "if (x)\n{\n    Foo();\n}\n"
	if string(content) != want {
		t.Errorf("expected fixed content:\n%s\ngot:\n%s", want, content)
	}

	// Re-run check; should exit 0 now.
	_, _, exitCode = runBinary(t, "", "check", "--no-color", path)
	if exitCode != 0 {
		t.Errorf("expected exit code 0 on re-lint after fix, got %d", exitCode)
	}
}

func TestE2E_CustomConfig(t *testing.T) {
	dir := t.TempDir()

	path := writeFixture(t, dir, "Test.cs", "if (x)\n    Foo();\n")

	// Create a config that disables braces-required.
	configContent := "rules:\n  SA1503: false\n"
	configPath := writeFixture(t, dir, ".stylecop.yml", configContent)

	// Run with the custom config; the violation should be suppressed.
	_, stderr, exitCode := runBinary(t, "", "check", "--no-color", "--config", configPath, path)
	if strings.Contains(stderr, "SA1503") {
		t.Errorf("expected SA1503 to be suppressed by config, but found in stderr: %s", stderr)
	}
	if exitCode != 0 {
		t.Errorf("expected exit code 0 with rule disabled, got %d", exitCode)
	}
}

func TestE2E_NoFileArgs_DiscoversConfiguredPatterns(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, dir, "src/Dirty.cs", "if (x)\n    Foo();\n")
	writeFixture(t, dir, "Other.cs", "if (x)\n    Foo();\n")
	writeFixture(t, dir, ".stylecop.yml", "files:\n  - \"src/**/*.cs\"\nrules:\n  SA1503: true\n")

	_, stderr, exitCode := runBinaryInDir(t, dir, "check", "--no-color")
	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d; stderr: %s", exitCode, stderr)
	}
	if !strings.Contains(stderr, "Dirty.cs") {
		t.Errorf("expected the configured pattern's file in stderr, got: %s", stderr)
	}
	if strings.Contains(stderr, "Other.cs") {
		t.Errorf("expected Other.cs outside files: patterns to be skipped, got: %s", stderr)
	}
}

func TestE2E_NoFileArgs_DefaultPatternFindsCS(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "Dirty.cs", "if (x)\n    Foo();\n")

	_, stderr, exitCode := runBinaryInDir(t, dir, "check", "--no-color")
	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d; stderr: %s", exitCode, stderr)
	}
	if !strings.Contains(stderr, "SA1503") {
		t.Errorf("expected SA1503 via default **/*.cs discovery, got: %s", stderr)
	}
}

func TestE2E_InvalidConfig_ExitsTwo(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "Test.cs", "if (x)\n{\n    Foo();\n}\n")
	configPath := writeFixture(t, dir, ".stylecop.yml", "rulez:\n  SA1503: false\n")

	_, stderr, exitCode := runBinary(t, "", "check", "--no-color", "--config", configPath, path)
	if exitCode != 2 {
		t.Errorf("expected exit code 2 for invalid config, got %d", exitCode)
	}
	if stderr == "" {
		t.Error("expected an error message on stderr")
	}
}

func TestE2E_Version(t *testing.T) {
	stdout, _, exitCode := runBinary(t, "", "version")
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.HasPrefix(stdout, "stylecop ") {
		t.Errorf("expected version output to start with 'stylecop ', got: %s", stdout)
	}
}

func TestE2E_HelpRule_ListsRules(t *testing.T) {
	stdout, _, exitCode := runBinary(t, "", "help", "rule")
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "SA1503") || !strings.Contains(stdout, "SA1118") {
		t.Errorf("expected rule list to contain SA1503 and SA1118, got: %s", stdout)
	}
}

func TestE2E_HelpRule_ShowsRule(t *testing.T) {
	stdout, _, exitCode := runBinary(t, "", "help", "rule", "braces-required")
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "# SA1503") {
		t.Errorf("expected rule README, got: %s", stdout)
	}
}

func TestE2E_RulesSubcommand(t *testing.T) {
	stdout, _, exitCode := runBinary(t, "", "rules")
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "SA1503") {
		t.Errorf("expected rule list to contain SA1503, got: %s", stdout)
	}

	stdout, _, exitCode = runBinary(t, "", "rules", "SA1118")
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(stdout, "# SA1118") {
		t.Errorf("expected rule README, got: %s", stdout)
	}
}

func TestE2E_Init_CreatesConfig(t *testing.T) {
	dir := t.TempDir()

	cmd := exec.Command(binaryPath, "init")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".stylecop.yml"))
	if err != nil {
		t.Fatalf("reading generated config: %v", err)
	}
	if !strings.Contains(string(data), "SA1503") {
		t.Errorf("expected generated config to mention SA1503, got:\n%s", data)
	}

	// A second init must refuse to overwrite.
	cmd = exec.Command(binaryPath, "init")
	cmd.Dir = dir
	if err := cmd.Run(); err == nil {
		t.Error("expected second init to fail")
	}
}

func TestE2E_Stdin_Clean(t *testing.T) {
	_, _, exitCode := runBinary(t, "if (x)\n{\n    Foo();\n}\n", "check")
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for clean stdin, got %d", exitCode)
	}
}

func TestE2E_Stdin_Violations(t *testing.T) {
	_, stderr, exitCode := runBinary(t, "if (x)\n    Foo();\n", "check", "--no-color")
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for stdin with violations, got %d", exitCode)
	}
	if !strings.Contains(stderr, "<stdin>") {
		t.Errorf("expected diagnostics to use <stdin> as file name, got: %s", stderr)
	}
	if !strings.Contains(stderr, "SA1503") {
		t.Errorf("expected SA1503 in stderr, got: %s", stderr)
	}
}

func TestE2E_Stdin_Fix_ExitsTwo(t *testing.T) {
	_, stderr, exitCode := runBinary(t, "if (x)\n    Foo();\n", "fix")
	if exitCode != 2 {
		t.Errorf("expected exit code 2 for fix with stdin, got %d", exitCode)
	}
	if !strings.Contains(stderr, "cannot fix stdin in place") {
		t.Errorf("expected error message about stdin fix, got: %s", stderr)
	}
}
