package errors

import (
	"errors"
	"io/fs"
	"regexp"
	"strings"
)

// Enricher classifies an error and wraps it into an ActionableError.
type Enricher interface {
	// Enrich returns err classified and annotated with suggestions. When
	// affectedPath is "", the path is recovered from the error itself where
	// possible. An error that is already actionable passes through
	// unchanged.
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates an Enricher backed by the built-in pattern matcher
// and suggestion texts.
func NewEnricher() Enricher {
	return &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

func (e *enricher) Enrich(err error, affectedPath string) error {
	var actionable ActionableError
	if errors.As(err, &actionable) {
		return actionable
	}

	if affectedPath == "" {
		affectedPath = pathFromError(err)
	}

	category := e.matcher.Match(err.Error())

	return &actionableError{
		message:      err.Error(),
		category:     category,
		suggestions:  e.generator.Generate(category, affectedPath),
		affectedPath: affectedPath,
		cause:        err,
	}
}

// messagePathPattern recovers a path from error text of the shape
// "<operation> <path>: <cause>", the convention both the os package and
// this codebase's wrapping follow. Only "/"- or "."-rooted paths are
// recognized; anything else is too ambiguous to present to the user.
//
//nolint:gochecknoglobals // Compiled once, shared by every enricher
var messagePathPattern = regexp.MustCompile(`\b\w+\s+([./][^\s:]+):`)

// pathFromError digs the affected path out of an error. Local filesystem
// failures carry a typed *fs.PathError naming the exact file, which beats
// parsing: a wrapped chain like "failed to scan /src: open /src/sub:
// permission denied" yields the inner /src/sub, not the scan root. Remote
// failures only carry text, so those fall back to the message convention.
func pathFromError(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Path != "" {
		return pathErr.Path
	}

	if matches := messagePathPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	return ""
}
