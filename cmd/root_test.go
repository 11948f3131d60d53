package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand 用全新的配置实例执行一次根命令，日志默认丢弃。
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	rootCmd := newRootCmd("test", newConfig())
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--" + logFileFlagName, "-"}, args...))

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFixture(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeResult(t *testing.T, content string) map[string]any {
	t.Helper()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &decoded))
	return decoded
}

func TestVersionCmd(t *testing.T) {
	out, _, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "commentcount version test\n", out)
}

func TestLanguageCmd(t *testing.T) {
	out, _, err := executeCommand(t, "", "language")
	require.NoError(t, err)

	assert.Contains(t, out, ".ruby")
	assert.Contains(t, out, "=begin")
	assert.Contains(t, out, "(default)")
	assert.NotContains(t, out, ".lua")
}

func TestLanguageCmdWithConfigRows(t *testing.T) {
	configPath := writeFixture(t, "custom.yaml", strings.Join([]string{
		"languages:",
		"  - extension: .lua",
		"    single_line: \"--\"",
		"    block_start: \"--[[\"",
		"    block_end: \"]]\"",
		"",
	}, "\n"))

	out, _, err := executeCommand(t, "", "--config", configPath, "language")
	require.NoError(t, err)
	assert.Contains(t, out, ".lua")
	assert.Contains(t, out, "--[[")
}

func TestMissingExplicitConfigFails(t *testing.T) {
	_, _, err := executeCommand(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestScanCmdText(t *testing.T) {
	path := writeFixture(t, "demo.c", "// hello world\ncode\n")

	out, _, err := executeCommand(t, "", "scan", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Total # of lines: 2\n")
	assert.Contains(t, out, "Total # of comment lines: 0\n")
	assert.Contains(t, out, "Total # of single line comments: 1\n")
}

func TestScanCmdCorrectedJSON(t *testing.T) {
	path := writeFixture(t, "demo.py", "# TODO: tidy\nprint(1)\n")

	out, _, err := executeCommand(t, "", "scan", "--mode", "corrected", "--format", "json", path)
	require.NoError(t, err)

	decoded := decodeResult(t, out)
	assert.Equal(t, "corrected", decoded["mode"])

	total, ok := decoded["total"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), total["comment_lines"])
	assert.Equal(t, float64(1), total["todo_count"])
}

func TestScanCmdModeFromEnv(t *testing.T) {
	t.Setenv("COMMENTCOUNT_MODE", "corrected")
	path := writeFixture(t, "demo.c", "x //\n")

	out, _, err := executeCommand(t, "", "scan", "--format", "json", path)
	require.NoError(t, err)
	assert.Equal(t, "corrected", decodeResult(t, out)["mode"])
}

func TestScanCmdFormatFromConfig(t *testing.T) {
	configPath := writeFixture(t, "commentcount.yaml", "format: table\nworkers: 2\n")
	path := writeFixture(t, "demo.c", "/* block */ int x;\n")

	out, _, err := executeCommand(t, "", "--config", configPath, "scan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Block Body")
	assert.Contains(t, out, "demo.c")
}

func TestScanCmdExportsJSON(t *testing.T) {
	path := writeFixture(t, "demo.sql", "SELECT 1; /* note here */\n")
	target := filepath.Join(t.TempDir(), "reports", "result.json")

	out, _, err := executeCommand(t, "", "scan", "--output", target, path)
	require.NoError(t, err)
	assert.Contains(t, out, "JSON exported to "+target)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "legacy", decodeResult(t, string(content))["mode"])
}

func TestScanCmdValidation(t *testing.T) {
	path := writeFixture(t, "demo.c", "int x;\n")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "format", args: []string{"scan", "--format", "xml", path}, message: "unsupported format"},
		{name: "mode", args: []string{"scan", "--mode", "strict", path}, message: "unsupported mode"},
		{name: "workers", args: []string{"scan", "--workers", "0", path}, message: "workers must be greater than 0"},
		{name: "no extension", args: []string{"scan", writeFixture(t, "Makefile", "all:\n")}, message: "file has no extension"},
		{name: "no args", args: []string{"scan"}, message: "requires at least 1 arg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := executeCommand(t, "", tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestPromptCmd(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.c")
	path := writeFixture(t, "demo.c", "/* a */ int x;\n")

	out, errOut, err := executeCommand(t, missing+"\n"+path+"\n", "prompt")
	require.NoError(t, err)

	assert.Contains(t, errOut, "Sorry, can't open file.")
	assert.Contains(t, out, "Invalid file name. Please try again.")
	assert.Contains(t, out, "Total # of block line comments: 1\n")
	assert.Contains(t, out, "To scan another file")
}

func TestInitCmd(t *testing.T) {
	directory := t.TempDir()

	out, _, err := executeCommand(t, "", "init", "--dir", directory)
	require.NoError(t, err)

	target := filepath.Join(directory, configFileName)
	assert.Contains(t, out, target)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mode: legacy")

	_, _, err = executeCommand(t, "", "init", "--dir", directory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config file")
}
