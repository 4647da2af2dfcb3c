// Package workspace implements the file-system and process pass-throughs used
// by the editor views: directory listing, file read/write, shell commands and
// repository cloning.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devhub/internal/scanner"
)

// MaxReadBytes caps ReadFile.
const MaxReadBytes = 10 << 20 // 10 MiB

// FileNode is one entry of a directory listing.
type FileNode struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsDirectory bool   `json:"isDirectory"`
}

// Listing is the result of ListDirectory.
type Listing struct {
	Path  string     `json:"path"`
	Files []FileNode `json:"files"`
}

// ListDirectory lists one level of path, or of the working directory when path is empty.
func ListDirectory(path string) (Listing, error) {
	if strings.TrimSpace(path) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Listing{}, fmt.Errorf("resolve working directory: %w", err)
		}
		path = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Listing{}, fmt.Errorf("resolve %q: %w", path, err)
	}

	nodes, err := ExpandDirectory(abs)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Path: abs, Files: nodes}, nil
}

// ExpandDirectory returns the children of path: directories first, then files,
// each group sorted case-insensitively. Hidden entries and build directories
// are left out.
func ExpandDirectory(path string) ([]FileNode, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", path, err)
	}

	nodes := make([]FileNode, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		isDir := entry.IsDir()
		if isDir && scanner.IsIgnoredDir(name) {
			continue
		}
		nodes = append(nodes, FileNode{
			Name:        name,
			Path:        filepath.Join(path, name),
			IsDirectory: isDir,
		})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDirectory != nodes[j].IsDirectory {
			return nodes[i].IsDirectory
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nodes, nil
}

// ReadFile returns the content of a regular file as text.
func ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%q is a directory", path)
	}
	if info.Size() > MaxReadBytes {
		return "", fmt.Errorf("%q is too large to open (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}
	return string(data), nil
}

// WriteFile replaces the content of path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent of %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
