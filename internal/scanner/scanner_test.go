package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentcount/internal/classifier"
	"commentcount/internal/languages"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "single.go")

	writeFixtureFile(t, filePath, strings.Join([]string{
		"package main",
		"// top comment",
		"func main() { x := 1 // inline }",
	}, "\n"))

	service := NewService(languages.NewRegistry(), Options{})
	result, err := service.ScanFile(filePath)
	require.NoError(t, err)

	assert.Equal(t, ".go", result.Extension)
	assert.Equal(t, filepath.ToSlash(filePath), result.Path)
	assert.Equal(t, int64(3), result.Counters.TotalLines)
	assert.Equal(t, int64(2), result.Counters.SingleLineCommentLines)
	assert.Equal(t, int64(0), result.Counters.CommentLines)
}

func TestScanFileUsesResolvedSyntax(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "script.py")
	writeFixtureFile(t, filePath, "# TODO: rewrite\nprint('// not python')\n")

	legacy, err := NewService(languages.NewRegistry(), Options{Mode: classifier.ModeLegacy}).ScanFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(0), legacy.Counters.SingleLineCommentLines)

	corrected, err := NewService(languages.NewRegistry(), Options{Mode: classifier.ModeCorrected}).ScanFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), corrected.Counters.SingleLineCommentLines)
	assert.Equal(t, int64(1), corrected.Counters.TodoCount)
	assert.Equal(t, int64(1), corrected.Counters.CommentLines)
}

func TestScanFileErrors(t *testing.T) {
	tempDir := t.TempDir()
	service := NewService(languages.NewRegistry(), Options{})

	_, err := service.ScanFile("   ")
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = service.ScanFile(filepath.Join(tempDir, "Makefile"))
	require.ErrorIs(t, err, ErrNoExtension)

	_, err = service.ScanFile(filepath.Join(tempDir, "missing.c"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "open file")
}

func TestScanPathsDirectory(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "main.c"), "/* header */ int x;\nint main() { return 0; }\n")
	writeFixtureFile(t, filepath.Join(tempDir, "lib", "util.c"), "// helper file\n")
	writeFixtureFile(t, filepath.Join(tempDir, "tools", "run.sh"), "#!/bin/sh\necho ok\n")
	writeFixtureFile(t, filepath.Join(tempDir, "Makefile"), "all:\n\techo // skipped\n")
	writeFixtureFile(t, filepath.Join(tempDir, ".hidden.c"), "// skipped\n")
	writeFixtureFile(t, filepath.Join(tempDir, ".git", "config.c"), "// skipped\n")

	service := NewService(languages.NewRegistry(), Options{Workers: 4})
	result, err := service.ScanPaths(context.Background(), []string{tempDir})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "legacy", result.Mode)

	paths := make([]string, 0, len(result.Files))
	for _, item := range result.Files {
		paths = append(paths, item.Path)
	}
	assert.Equal(t, []string{
		filepath.ToSlash(filepath.Join(tempDir, "lib", "util.c")),
		filepath.ToSlash(filepath.Join(tempDir, "main.c")),
		filepath.ToSlash(filepath.Join(tempDir, "tools", "run.sh")),
	}, paths)

	assert.Equal(t, int64(3), result.Total.Files)
	assert.Equal(t, int64(5), result.Total.TotalLines)
	assert.Equal(t, int64(1), result.Total.SingleLineCommentLines)
	assert.Equal(t, int64(1), result.Total.BlockCommentOpenings)

	require.Len(t, result.Extensions, 2)
	assert.Equal(t, ".c", result.Extensions[0].Extension)
	assert.Equal(t, int64(2), result.Extensions[0].Files)
	assert.Equal(t, ".sh", result.Extensions[1].Extension)
	assert.Equal(t, int64(1), result.Extensions[1].Files)
}

func TestScanPathsMixedTargets(t *testing.T) {
	tempDir := t.TempDir()
	single := filepath.Join(tempDir, "one.sql")
	writeFixtureFile(t, single, "SELECT 1; /* trailing note */\n")
	writeFixtureFile(t, filepath.Join(tempDir, "nested", "two.sql"), "-- not a comment in this table\n")

	service := NewService(languages.NewRegistry(), Options{Workers: 2})
	result, err := service.ScanPaths(context.Background(), []string{single, filepath.Join(tempDir, "nested")})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Total.Files)
	assert.Equal(t, int64(1), result.Total.BlockCommentOpenings)
}

func TestScanPathsRejectsBadTargets(t *testing.T) {
	tempDir := t.TempDir()
	noExt := filepath.Join(tempDir, "README")
	writeFixtureFile(t, noExt, "text")

	service := NewService(languages.NewRegistry(), Options{})

	_, err := service.ScanPaths(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = service.ScanPaths(context.Background(), []string{""})
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = service.ScanPaths(context.Background(), []string{noExt})
	require.ErrorIs(t, err, ErrNoExtension)

	_, err = service.ScanPaths(context.Background(), []string{filepath.Join(tempDir, "missing")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanPathsRecordsUnreadableFiles(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "ok.c"), "int x;\n")
	locked := filepath.Join(tempDir, "locked.c")
	writeFixtureFile(t, locked, "int y;\n")
	require.NoError(t, os.Chmod(locked, 0o000))

	service := NewService(languages.NewRegistry(), Options{})
	result, err := service.ScanPaths(context.Background(), []string{tempDir})
	require.NoError(t, err)

	assert.Len(t, result.Files, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, filepath.ToSlash(locked), result.Errors[0].Path)
}

func TestScanPathsCanceledContext(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"a.c", "b.c", "c.c"} {
		writeFixtureFile(t, filepath.Join(tempDir, name), "int x;\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewService(languages.NewRegistry(), Options{})
	_, err := service.ScanPaths(ctx, []string{tempDir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewServiceDefaults(t *testing.T) {
	service := NewService(languages.NewRegistry(), Options{Workers: -3})

	assert.Equal(t, 1, service.workers)
	assert.Equal(t, classifier.ModeLegacy, service.Mode())
	assert.NotNil(t, service.logger)
}
