package errors

import "strings"

// PatternMatcher maps an error message to an ErrorCategory.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// categoryPatterns binds one category to the message fragments that signal
// it.
type categoryPatterns struct {
	category ErrorCategory
	patterns []string
}

// NewPatternMatcher creates a matcher over the built-in pattern table.
func NewPatternMatcher() PatternMatcher {
	// Categories are probed in order, most specific first, so a message
	// matching several patterns always classifies the same way. Delete comes
	// before permission: a failed source removal usually also mentions
	// permissions, and the removal advice is the useful one there.
	return &patternMatcher{table: []categoryPatterns{
		{CategoryConfiguration, []string{
			"locked by another run",
			"is not a directory",
			"invalid file pattern",
			"unsupported algorithm",
		}},
		{CategoryConnectivity, []string{
			"connection refused",
			"connection reset",
			"connection lost",
			"broken pipe",
			"handshake failed",
			"unable to authenticate",
		}},
		{CategoryDiskSpace, []string{
			"no space left on device",
			"disk full",
			"quota exceeded",
		}},
		{CategoryDelete, []string{
			"directory not empty",
			"cannot remove",
		}},
		{CategoryPlacement, []string{
			"short write",
			"input/output error",
			"i/o error",
		}},
		{CategoryPermission, []string{
			"permission denied",
			"access denied",
			"operation not permitted",
		}},
		{CategoryPath, []string{
			"no such file or directory",
			"file not found",
			"path does not exist",
		}},
	}}
}

type patternMatcher struct {
	table []categoryPatterns
}

// Match returns the first category whose patterns appear in the message,
// or CategoryUnknown. Matching is case-insensitive.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, entry := range m.table {
		for _, pattern := range entry.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return entry.category
			}
		}
	}

	return CategoryUnknown
}
