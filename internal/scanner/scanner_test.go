package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"devhub/internal/locale"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "README.md", "# demo\n")
	writeFile(t, root, "package.json", `{"name":"demo"}`)
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "big.go", strings.Repeat("x", 100))
	writeFile(t, root, "lib/util.go", "package lib\n")
	writeFile(t, root, "lib/util_test.go", "package lib\n")
	writeFile(t, root, "yarn.lock", "lock")
	writeFile(t, root, "app.min.js", "min")
	writeFile(t, root, ".gitignore", "node_modules\n")
	writeFile(t, root, "node_modules/dep/index.js", strings.Repeat("y", 4096))
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")

	return root
}

func TestAnalyze(t *testing.T) {
	root := fixture(t)

	opts := DefaultOptions()
	opts.MaxFileBytes = 32
	opts.MaxSampleFiles = 2

	a, err := Analyze(context.Background(), root, opts)
	require.NoError(t, err)

	require.Equal(t, 9, a.TotalFiles)
	require.Equal(t, 2, a.TotalDirectories)

	require.Equal(t, []FileTypeStat{
		{Extension: "go", Count: 4},
		{Extension: "json", Count: 1},
		{Extension: "md", Count: 1},
	}, a.FileTypes)

	require.NotEmpty(t, a.LargestFiles)
	require.Equal(t, FileInfo{Path: "big.go", Size: 100}, a.LargestFiles[0])
	for _, f := range a.LargestFiles {
		require.NotContains(t, f.Path, "node_modules")
	}

	require.Equal(t, []string{locale.Default().WellStructured}, a.Suggestions)

	summary := a.Summary
	require.Contains(t, summary, "# Project: "+filepath.Base(root))
	require.Contains(t, summary, "| .go | 4 |")
	require.Contains(t, summary, "## Configuration files")
	require.Contains(t, summary, "```json\n{\"name\":\"demo\"}\n```")
	require.Contains(t, summary, "## Source samples (2 of 4)")
	require.Contains(t, summary, "### big.go")
	require.Contains(t, summary, "### lib/util.go")
	require.NotContains(t, summary, "### main.go")
	require.NotContains(t, summary, "### app.min.js")
	require.Contains(t, summary, "_(truncated at 32 B)_")
	require.NotContains(t, summary, strings.Repeat("x", 33))
	require.Contains(t, summary, "- "+locale.Default().WellStructured)
}

func TestAnalyze_TopNOrdering(t *testing.T) {
	root := t.TempDir()
	for i, ext := range []string{"py", "py", "py", "rs", "rs", "ts", "ts", "c"} {
		writeFile(t, root, filepath.Join("src", string(rune('a'+i))+"."+ext), strings.Repeat("z", i+1))
	}

	opts := DefaultOptions()
	opts.TopN = 3

	a, err := Analyze(context.Background(), root, opts)
	require.NoError(t, err)

	require.Equal(t, []FileTypeStat{
		{Extension: "py", Count: 3},
		{Extension: "rs", Count: 2},
		{Extension: "ts", Count: 2},
	}, a.FileTypes)

	require.Len(t, a.LargestFiles, 3)
	require.Equal(t, "src/h.c", a.LargestFiles[0].Path)
	require.Equal(t, int64(8), a.LargestFiles[0].Size)
}

func TestAnalyze_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", "hi")

	_, err := Analyze(context.Background(), filepath.Join(root, "file.txt"), DefaultOptions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a directory")

	_, err = Analyze(context.Background(), filepath.Join(root, "missing"), DefaultOptions())
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Analyze(ctx, root, DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_EmptyDirectory(t *testing.T) {
	a, err := Analyze(context.Background(), t.TempDir(), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, a.TotalFiles)
	require.Equal(t, 1, a.TotalDirectories)
	require.Empty(t, a.FileTypes)
	require.Empty(t, a.LargestFiles)
	require.Equal(t, []string{locale.Default().SuggestReadme}, a.Suggestions)
}

func TestExtensionOf(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		ok   bool
	}{
		{"main.go", "go", true},
		{"App.TSX", "tsx", true},
		{"bundle.min.js", "js", true},
		{".gitignore", "", false},
		{"Makefile", "", false},
		{"trailing.", "", false},
		{".eslintrc.json", "json", true},
	}
	for _, tc := range cases {
		ext, ok := extensionOf(tc.name)
		require.Equal(t, tc.ok, ok, tc.name)
		require.Equal(t, tc.ext, ext, tc.name)
	}

	require.True(t, isIgnoredExtension("bundle.min.js", "js"))
	require.True(t, isIgnoredExtension("styles.MIN.CSS", "css"))
	require.True(t, isIgnoredExtension("Cargo.lock", "lock"))
	require.False(t, isIgnoredExtension("index.js", "js"))
}

func TestSuggest(t *testing.T) {
	cat := locale.Default()

	got := suggest(120, map[string]int{"js": 5}, signals{}, cat)
	require.Equal(t, []string{
		cat.SuggestTests,
		cat.SuggestReadme,
		cat.SuggestTypeScript,
		cat.SuggestESLint,
		cat.SuggestModularize,
		cat.SuggestCI,
	}, got)

	got = suggest(60, map[string]int{"ts": 5, "js": 1}, signals{hasTests: true, hasReadme: true, hasESLint: true, hasCI: true}, cat)
	require.Equal(t, []string{cat.WellStructured}, got)

	got = suggest(20, map[string]int{"go": 20}, signals{hasReadme: true}, cat)
	require.Equal(t, []string{cat.WellStructured}, got)

	pt := locale.For("pt-BR")
	got = suggest(1, map[string]int{}, signals{}, pt)
	require.Equal(t, []string{pt.SuggestReadme}, got)
}

func TestSignals(t *testing.T) {
	var s signals
	s.observe("docs/README.md", "README.md")
	require.False(t, s.hasReadme)
	s.observe("readme.txt", "readme.txt")
	require.True(t, s.hasReadme)

	s.observe(".github/workflows/ci.yml", "ci.yml")
	require.True(t, s.hasCI)

	s.observe(".eslintrc.cjs", ".eslintrc.cjs")
	require.True(t, s.hasESLint)

	for _, rel := range []string{
		"src/app.test.ts",
		"src/app.spec.js",
		"pkg/x_test.go",
		"test_models.py",
		"tests/fixtures/data.json",
		"src/__tests__/App.jsx",
	} {
		require.True(t, isTestFile(rel, strings.ToLower(filepath.Base(rel))), rel)
	}
	require.False(t, isTestFile("src/testing.go", "testing.go"))
}

func TestWriteExcerpts(t *testing.T) {
	var b strings.Builder
	writeExcerpts(&b, []excerpt{
		{path: "README.md", content: "```sh\nmake\n```\n"},
		{path: "data.bin", skipped: "binary"},
	}, 1024)

	out := b.String()
	require.Contains(t, out, "````\n```sh\nmake\n```\n````\n")
	require.Contains(t, out, "### data.bin\n\n_(binary, omitted)_")
}

func TestReadExcerpt(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bin.dat", "ab\x00cd")
	writeFile(t, root, "short.go", "package x")

	ex := readExcerpt(root, "bin.dat", 64)
	require.Equal(t, "binary", ex.skipped)

	ex = readExcerpt(root, "short.go", 64)
	require.Equal(t, "package x", ex.content)
	require.False(t, ex.truncated)

	ex = readExcerpt(root, "short.go", 4)
	require.Equal(t, "pack", ex.content)
	require.True(t, ex.truncated)

	ex = readExcerpt(root, "missing.go", 64)
	require.Equal(t, "unreadable", ex.skipped)
}
