// Package sources expands the configured glob patterns into GraphQL source paths.
package sources

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

// Set is a validated list of glob patterns. Patterns use forward slashes and
// support `**`, `{a,b}` alternation and character classes.
type Set struct {
	patterns []string
}

// NewSet validates patterns. At least one is required.
func NewSet(patterns []string) (*Set, error) {
	if len(patterns) == 0 {
		return nil, ferrors.ConfigError("at least one source pattern is required").Build()
	}
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		slashed := filepath.ToSlash(p)
		if !doublestar.ValidatePattern(slashed) {
			return nil, ferrors.ValidationError("invalid glob pattern").WithContext("pattern", p).Build()
		}
		cleaned = append(cleaned, path.Clean(slashed))
	}
	return &Set{patterns: cleaned}, nil
}

// Patterns returns the cleaned patterns.
func (s *Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Expand returns every regular, non-hidden file matching any pattern, sorted and
// without duplicates.
func (s *Set) Expand() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.patterns {
		matches, err := doublestar.FilepathGlob(filepath.FromSlash(p))
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "expand glob pattern").
				WithContext("pattern", p).Build()
		}
		for _, m := range matches {
			if seen[m] || IsHidden(m) {
				continue
			}
			if info, statErr := os.Stat(m); statErr != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Match reports whether p matches any pattern and is not hidden. It is used for
// watch events, where the file may already be gone.
func (s *Set) Match(p string) bool {
	if IsHidden(p) {
		return false
	}
	slashed := path.Clean(filepath.ToSlash(p))
	for _, pattern := range s.patterns {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// Bases returns the deduplicated static prefix directory of every pattern.
func (s *Set) Bases() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.patterns {
		b := StaticBase(p)
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

// StaticBase returns the directory part of pattern that precedes any glob
// metacharacter. A pattern without metacharacters yields its parent directory.
func StaticBase(pattern string) string {
	base, _ := doublestar.SplitPattern(path.Clean(filepath.ToSlash(pattern)))
	if base == "" {
		base = "."
	}
	return filepath.FromSlash(base)
}

// IsHidden reports whether any path segment is a dotfile or dot-directory.
func IsHidden(p string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if len(seg) > 1 && seg[0] == '.' && seg != ".." {
			return true
		}
	}
	return false
}
