package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

var configFileNames = map[string]string{
	"package.json":       "json",
	"tsconfig.json":      "json",
	"composer.json":      "json",
	"go.mod":             "go",
	"cargo.toml":         "toml",
	"pyproject.toml":     "toml",
	"requirements.txt":   "text",
	"pom.xml":            "xml",
	"build.gradle":       "groovy",
	"build.gradle.kts":   "kotlin",
	"gemfile":            "ruby",
	"dockerfile":         "dockerfile",
	"docker-compose.yml": "yaml",
	"makefile":           "makefile",
}

var sourceLanguages = map[string]string{
	"go":     "go",
	"rs":     "rust",
	"ts":     "typescript",
	"tsx":    "tsx",
	"js":     "javascript",
	"jsx":    "jsx",
	"py":     "python",
	"java":   "java",
	"kt":     "kotlin",
	"rb":     "ruby",
	"php":    "php",
	"c":      "c",
	"h":      "c",
	"cpp":    "cpp",
	"hpp":    "cpp",
	"cs":     "csharp",
	"swift":  "swift",
	"vue":    "vue",
	"svelte": "svelte",
}

func isConfigFile(name string) bool {
	_, ok := configFileNames[strings.ToLower(name)]
	return ok
}

func isSourceExtension(ext string) bool {
	_, ok := sourceLanguages[ext]
	return ok
}

func fenceLanguage(rel string) string {
	name := strings.ToLower(filepath.Base(rel))
	if lang, ok := configFileNames[name]; ok {
		return lang
	}
	if ext, ok := extensionOf(name); ok {
		return sourceLanguages[ext]
	}
	return ""
}

// excerpt is the (possibly truncated) content of one embedded file.
type excerpt struct {
	path      string
	content   string
	truncated bool
	skipped   string
}

// readExcerpts loads files concurrently; results keep the order of paths.
func readExcerpts(ctx context.Context, root string, paths []string, limit int64, workers int) ([]excerpt, error) {
	out := make([]excerpt, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = readExcerpt(root, rel, limit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readExcerpt(root, rel string, limit int64) excerpt {
	ex := excerpt{path: rel}

	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		ex.skipped = "unreadable"
		return ex
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		ex.skipped = "unreadable"
		return ex
	}
	if bytes.IndexByte(data, 0) >= 0 {
		ex.skipped = "binary"
		return ex
	}
	if int64(len(data)) > limit {
		data = data[:limit]
		ex.truncated = true
	}
	ex.content = string(data)
	return ex
}

func renderSummary(ctx context.Context, a *Analysis, res *walkResult, opts Options) (string, error) {
	configs, err := readExcerpts(ctx, a.Root, res.configFiles, opts.MaxFileBytes, opts.Workers)
	if err != nil {
		return "", err
	}

	sources := res.sources
	if len(sources) > opts.MaxSampleFiles {
		sources = sources[:opts.MaxSampleFiles]
	}
	samples, err := readExcerpts(ctx, a.Root, sources, opts.MaxFileBytes, opts.Workers)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Project: %s\n\n", filepath.Base(a.Root))
	fmt.Fprintf(&b, "- Path: `%s`\n", a.Root)
	fmt.Fprintf(&b, "- Files: %d\n", a.TotalFiles)
	fmt.Fprintf(&b, "- Directories: %d\n\n", a.TotalDirectories)

	if len(a.FileTypes) > 0 {
		b.WriteString("## File types\n\n| Extension | Files |\n|---|---|\n")
		for _, ft := range a.FileTypes {
			fmt.Fprintf(&b, "| .%s | %d |\n", ft.Extension, ft.Count)
		}
		b.WriteString("\n")
	}

	if len(a.LargestFiles) > 0 {
		b.WriteString("## Largest files\n\n")
		for _, f := range a.LargestFiles {
			fmt.Fprintf(&b, "- `%s` (%s)\n", f.Path, humanize.Bytes(uint64(f.Size)))
		}
		b.WriteString("\n")
	}

	if len(configs) > 0 {
		b.WriteString("## Configuration files\n\n")
		writeExcerpts(&b, configs, opts.MaxFileBytes)
	}

	if len(samples) > 0 {
		fmt.Fprintf(&b, "## Source samples (%d of %d)\n\n", len(samples), len(res.sources))
		writeExcerpts(&b, samples, opts.MaxFileBytes)
	}

	if len(a.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range a.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	return b.String(), nil
}

func writeExcerpts(b *strings.Builder, excerpts []excerpt, limit int64) {
	for _, ex := range excerpts {
		fmt.Fprintf(b, "### %s\n\n", ex.path)
		if ex.skipped != "" {
			fmt.Fprintf(b, "_(%s, omitted)_\n\n", ex.skipped)
			continue
		}
		fence := "```"
		if strings.Contains(ex.content, "```") {
			fence = "````"
		}
		fmt.Fprintf(b, "%s%s\n%s", fence, fenceLanguage(ex.path), ex.content)
		if !strings.HasSuffix(ex.content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(fence + "\n")
		if ex.truncated {
			fmt.Fprintf(b, "_(truncated at %s)_\n", humanize.Bytes(uint64(limit)))
		}
		b.WriteString("\n")
	}
}
