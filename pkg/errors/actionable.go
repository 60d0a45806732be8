// Package errors classifies extraction failures and attaches recovery steps
// the user can act on.
//
// A run can fail at three points: reading a source file (local or SFTP),
// placing it into the target directory, and removing the source after a
// move. The raw errors from those layers are precise but unhelpful on their
// own; this package turns them into an ActionableError carrying a category,
// the affected path, and concrete suggestions:
//
//	enricher := errors.NewEnricher()
//	if err := place(file); err != nil {
//	    display(enricher.Enrich(err, file))
//	}
//
// Enriched errors keep their cause chain, so errors.Is and errors.As still
// reach the underlying failure. FormatSuggestions renders the suggestion
// list for terminal output:
//
//	fmt.Println(errors.FormatSuggestions(enriched))
//	// →   • Check permissions with 'ls -la /src/a.txt'
//	//     • ...
package errors

import "strings"

// ErrorCategory names the kind of failure an error was classified as.
type ErrorCategory string

// The classification set. Placement covers write failures into the target,
// delete covers source removal after a move, and configuration covers
// problems with the flags or a held run lock.
const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryConnectivity  ErrorCategory = "connectivity"
	CategoryDelete        ErrorCategory = "delete"
	CategoryDiskSpace     ErrorCategory = "disk_space"
	CategoryPath          ErrorCategory = "path"
	CategoryPermission    ErrorCategory = "permission"
	CategoryPlacement     ErrorCategory = "placement"
	CategoryUnknown       ErrorCategory = "unknown"
)

// ActionableError is an error annotated with a category, the path it
// concerns, and suggestions for resolving it.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError builds an ActionableError from an already-known
// classification. Callers that hold the causing error should prefer
// Enricher.Enrich, which classifies automatically and preserves the cause
// chain.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		message:      originalError,
		category:     category,
		suggestions:  suggestions,
		affectedPath: affectedPath,
	}
}

// FormatSuggestions renders the suggestions of an ActionableError as an
// indented bullet list, one per line. Any other error, a nil error, or an
// empty suggestion list yields "".
func FormatSuggestions(err error) string {
	actionable, ok := err.(ActionableError)
	if !ok || len(actionable.Suggestions()) == 0 {
		return ""
	}

	lines := make([]string, 0, len(actionable.Suggestions()))
	for _, suggestion := range actionable.Suggestions() {
		lines = append(lines, "  • "+suggestion)
	}

	return strings.Join(lines, "\n")
}

// actionableError implements ActionableError. The message is kept separate
// from the cause so errors built from bare strings (no live error value)
// still render; cause is nil in that case.
type actionableError struct {
	message      string
	category     ErrorCategory
	suggestions  []string
	affectedPath string
	cause        error
}

func (e *actionableError) Error() string {
	return e.message
}

// OriginalError returns the message of the failure that was classified.
func (e *actionableError) OriginalError() string {
	return e.message
}

// Category returns the classification.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Suggestions returns the recovery steps for the category.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// AffectedPath returns the path the failure concerns, or "" when none is
// known.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Unwrap exposes the causing error so errors.Is and errors.As see through
// the classification.
func (e *actionableError) Unwrap() error {
	return e.cause
}
