// Package scanner produces a shallow static analysis of a project directory:
// counts, an extension histogram, the largest files, heuristic suggestions and a
// markdown summary suitable for inclusion in a prompt.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devhub/internal/locale"
)

var ignoredDirs = map[string]struct{}{
	"node_modules": {},
	"target":       {},
	"dist":         {},
	"build":        {},
	".git":         {},
	".next":        {},
	".nuxt":        {},
	"__pycache__":  {},
	"venv":         {},
	".venv":        {},
	"vendor":       {},
}

// Extensions left out of the histogram. Compound ones match on the file-name suffix.
var ignoredExtensions = []string{
	"lock",
	"log",
	"tmp",
	"temp",
	"cache",
	"min.js",
	"min.css",
	"map",
}

// IsIgnoredDir reports whether a directory name is skipped by the walk.
func IsIgnoredDir(name string) bool {
	_, ok := ignoredDirs[name]
	return ok
}

// Options bounds the analysis.
type Options struct {
	TopN           int
	MaxSampleFiles int
	MaxFileBytes   int64
	Workers        int
	Catalog        locale.Catalog
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		TopN:           10,
		MaxSampleFiles: 12,
		MaxFileBytes:   8 * 1024,
		Workers:        4,
		Catalog:        locale.Default(),
	}
}

// FileTypeStat is one histogram bucket.
type FileTypeStat struct {
	Extension string `json:"extension"`
	Count     int    `json:"count"`
}

// FileInfo is a file path relative to the root and its size in bytes.
type FileInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Analysis is the result of Analyze.
type Analysis struct {
	Root             string         `json:"root"`
	TotalFiles       int            `json:"total_files"`
	TotalDirectories int            `json:"total_directories"`
	FileTypes        []FileTypeStat `json:"file_types"`
	LargestFiles     []FileInfo     `json:"largest_files"`
	Suggestions      []string       `json:"suggestions"`
	Summary          string         `json:"summary"`
}

// walkResult accumulates everything gathered in the single pass over the tree.
type walkResult struct {
	files       int
	dirs        int
	histogram   map[string]int
	sizes       []FileInfo
	configFiles []string
	sources     []string
	signals     signals
}

// Analyze walks root (the working directory when empty) and builds an Analysis.
func Analyze(ctx context.Context, root string, opts Options) (*Analysis, error) {
	opts = withDefaults(opts)

	if strings.TrimSpace(root) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat project path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %q is not a directory", root)
	}

	res, err := walk(ctx, root)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Root:             root,
		TotalFiles:       res.files,
		TotalDirectories: res.dirs,
		FileTypes:        topFileTypes(res.histogram, opts.TopN),
		LargestFiles:     largestFiles(res.sizes, opts.TopN),
	}
	analysis.Suggestions = suggest(res.files, res.histogram, res.signals, opts.Catalog)

	summary, err := renderSummary(ctx, analysis, res, opts)
	if err != nil {
		return nil, err
	}
	analysis.Summary = summary

	return analysis, nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.MaxSampleFiles < 0 {
		opts.MaxSampleFiles = 0
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = def.MaxFileBytes
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.Catalog.UnsupportedProvider == "" {
		opts.Catalog = def.Catalog
	}
	return opts
}

func walk(ctx context.Context, root string) (*walkResult, error) {
	res := &walkResult{histogram: make(map[string]int)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && IsIgnoredDir(d.Name()) {
				return fs.SkipDir
			}
			res.dirs++
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		res.files++
		name := d.Name()

		ext, hasExt := extensionOf(name)
		counted := hasExt && !isIgnoredExtension(name, ext)
		if counted {
			res.histogram[ext]++
		}
		if fi, infoErr := d.Info(); infoErr == nil {
			res.sizes = append(res.sizes, FileInfo{Path: rel, Size: fi.Size()})
		}

		res.signals.observe(rel, name)

		switch {
		case !strings.Contains(rel, "/") && isConfigFile(name):
			res.configFiles = append(res.configFiles, rel)
		case counted && isSourceExtension(ext):
			res.sources = append(res.sources, rel)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}
	return res, nil
}

// extensionOf returns the lower-cased extension without the dot. Dotfiles such
// as ".gitignore" have none.
func extensionOf(name string) (string, bool) {
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 || idx == len(trimmed)-1 {
		return "", false
	}
	return strings.ToLower(trimmed[idx+1:]), true
}

func isIgnoredExtension(name, ext string) bool {
	lower := strings.ToLower(name)
	for _, ignored := range ignoredExtensions {
		if strings.Contains(ignored, ".") {
			if strings.HasSuffix(lower, "."+ignored) {
				return true
			}
			continue
		}
		if ext == ignored {
			return true
		}
	}
	return false
}

func topFileTypes(histogram map[string]int, n int) []FileTypeStat {
	stats := make([]FileTypeStat, 0, len(histogram))
	for ext, count := range histogram {
		stats = append(stats, FileTypeStat{Extension: ext, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Extension < stats[j].Extension
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

func largestFiles(sizes []FileInfo, n int) []FileInfo {
	sorted := make([]FileInfo, len(sizes))
	copy(sorted, sizes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}
		return sorted[i].Path < sorted[j].Path
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
