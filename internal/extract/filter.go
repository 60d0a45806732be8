package extract

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides which scanned entries are candidates for extraction.
type FileFilter interface {
	// Match reports whether the file at the given source-relative path
	// should be extracted.
	Match(relativePath string) bool
}

// Filter implements FileFilter with an extension match plus an optional glob
// pattern; both must agree for a file to pass. Case sensitivity applies to
// the extension and the pattern alike.
type Filter struct {
	extension     string
	pattern       string
	caseSensitive bool
}

// NewFilter creates a Filter for the given extension (normalized to a
// leading dot by the config layer) and optional doublestar pattern. An empty
// pattern matches every path.
func NewFilter(extension string, caseSensitive bool, pattern string) *Filter {
	return &Filter{
		extension:     extension,
		pattern:       pattern,
		caseSensitive: caseSensitive,
	}
}

// Match reports whether the file at relativePath should be extracted.
func (f *Filter) Match(relativePath string) bool {
	if !f.matchExtension(filepath.Base(relativePath)) {
		return false
	}

	return f.matchPattern(relativePath)
}

func (f *Filter) matchExtension(name string) bool {
	ext := extensionOf(name)
	if ext == "" {
		return false
	}

	if f.caseSensitive {
		return ext == f.extension
	}

	return strings.EqualFold(ext, f.extension)
}

func (f *Filter) matchPattern(relativePath string) bool {
	if f.pattern == "" {
		return true
	}

	pattern := f.pattern
	candidate := filepath.ToSlash(relativePath)

	if !f.caseSensitive {
		pattern = strings.ToLower(pattern)
		candidate = strings.ToLower(candidate)
	}

	matched, err := doublestar.Match(pattern, candidate)
	if err != nil {
		// The pattern was validated at startup; a match error here means a
		// malformed path, which should never be extracted.
		return false
	}

	return matched
}

// extensionOf returns the filename's extension including the dot. Dotfiles
// like .bashrc have no extension and never match any filter.
func extensionOf(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return ""
	}

	if strings.Trim(name[:dot], ".") == "" {
		return ""
	}

	return name[dot:]
}
