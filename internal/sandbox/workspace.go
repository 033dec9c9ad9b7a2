// Package sandbox is the filesystem collaborator: every pipeline read and
// write goes through a Workspace scoped to one checked-out repository
// root. Paths are workspace-relative; escapes are rejected.
package sandbox

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are never descended into, regardless of ignore rules.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "dist": true, "build": true,
	".next": true, "vendor": true, "__pycache__": true,
}

// codeExts is the tree-walk allow-list. Broad on purpose: the compiler
// applies its own, stricter inclusion policy afterwards.
var codeExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".py": true,
	".java": true, ".go": true, ".rs": true, ".rb": true, ".php": true,
	".c": true, ".h": true, ".cpp": true, ".cs": true, ".swift": true,
	".kt": true, ".vue": true, ".svelte": true,
	".html": true, ".css": true, ".scss": true, ".sass": true, ".less": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".xml": true,
	".md": true, ".txt": true, ".sql": true, ".sh": true, ".env": true,
}

// bareNames are extension-less files worth reading.
var bareNames = map[string]bool{
	"README": true, "readme": true, "LICENSE": true, "license": true,
	"CHANGELOG": true, "Dockerfile": true, "Makefile": true,
	".gitignore": true, ".editorconfig": true,
}

// Workspace is one repository checkout on disk.
type Workspace struct {
	root    string
	matcher *ignore.GitIgnore
}

// Open binds a Workspace to an existing directory, loading .gitignore
// rules when present.
func Open(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}

	return &Workspace{root: abs, matcher: loadIgnoreRules(abs)}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// ReadTree walks the workspace and returns relative path -> content for
// every readable code-like file. Unreadable files are skipped, not fatal.
func (w *Workspace) ReadTree() (map[string]string, error) {
	files := make(map[string]string)

	err := filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(w.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !readableName(d.Name()) {
			return nil
		}
		if w.matcher != nil && w.matcher.MatchesPath(rel) {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		files[rel] = string(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return files, nil
}

// Paths returns the sorted relative paths in the tree.
func (w *Workspace) Paths() ([]string, error) {
	files, err := w.ReadTree()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// Read returns one file's content by relative path.
func (w *Workspace) Read(rel string) (string, error) {
	abs, err := w.resolve(rel)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(content), nil
}

// Write stores content at a relative path, creating parent directories.
func (w *Workspace) Write(rel, content string) error {
	abs, err := w.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// Delete removes a file. A missing target is not an error.
func (w *Workspace) Delete(rel string) error {
	abs, err := w.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", rel, err)
	}
	return nil
}

// resolve joins a relative path against the root and rejects escapes.
func (w *Workspace) resolve(rel string) (string, error) {
	rel = filepath.FromSlash(strings.TrimSpace(rel))
	if rel == "" {
		return "", errors.New("empty path")
	}
	abs := filepath.Clean(filepath.Join(w.root, rel))
	if abs != w.root && !strings.HasPrefix(abs, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s escapes the workspace", rel)
	}
	return abs, nil
}

func readableName(name string) bool {
	if bareNames[name] {
		return true
	}
	return codeExts[strings.ToLower(filepath.Ext(name))]
}

func loadIgnoreRules(root string) *ignore.GitIgnore {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
