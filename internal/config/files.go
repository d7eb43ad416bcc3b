package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolvedLibrary is a library with its patterns expanded.
type ResolvedLibrary struct {
	Name  string
	Files []string
}

// Resolve expands the patterns of every library against root. Libraries come
// back sorted by name and files sorted by path; only .vhd and .vhdl files are
// kept.
func (c *Config) Resolve(root string) ([]ResolvedLibrary, error) {
	names := make([]string, 0, len(c.Libraries))
	for name := range c.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ResolvedLibrary, 0, len(names))
	for _, name := range names {
		lib := c.Libraries[name]
		files := map[string]bool{}
		for _, pattern := range lib.Files {
			matches, err := expand(root, pattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				if isVHDL(m) {
					files[m] = true
				}
			}
		}
		for _, pattern := range lib.Exclude {
			matches, err := expand(root, pattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				delete(files, m)
			}
		}

		resolved := ResolvedLibrary{Name: name, Files: make([]string, 0, len(files))}
		for f := range files {
			resolved.Files = append(resolved.Files, f)
		}
		sort.Strings(resolved.Files)
		out = append(out, resolved)
	}
	return out, nil
}

// LibraryOf returns the library a file belongs to, or "work" when no library
// claims it.
func (c *Config) LibraryOf(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "work"
	}
	rel = filepath.ToSlash(rel)

	names := make([]string, 0, len(c.Libraries))
	for name := range c.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lib := c.Libraries[name]
		if matchAny(lib.Files, rel) && !matchAny(lib.Exclude, rel) {
			return name
		}
	}
	return "work"
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(p), rel); ok {
			return true
		}
	}
	return false
}

func expand(root, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	base := filepath.ToSlash(root)
	if path.IsAbs(pattern) || filepath.IsAbs(pattern) {
		base, pattern = doublestar.SplitPattern(pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(filepath.FromSlash(base)), pattern, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
	}
	return out, nil
}

func isVHDL(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".vhd", ".vhdl":
		return true
	}
	return false
}
