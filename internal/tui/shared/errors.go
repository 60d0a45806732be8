package shared

import (
	"fmt"
	"strings"

	"github.com/meg/extract-files/internal/extract"
	"github.com/meg/extract-files/pkg/errors"
)

// Error display limits for different screen contexts
const (
	// ErrorLimitInProgress is for the live view while a run is in flight
	ErrorLimitInProgress = 3

	// ErrorLimitComplete is for the final summary of a completed run
	ErrorLimitComplete = 10

	// ErrorLimitOther is for the summary after cancellation or a run error
	ErrorLimitOther = 5
)

// ErrorDisplayContext defines the context in which errors are being displayed
type ErrorDisplayContext int

const (
	// ContextInProgress indicates errors shown while the run is in flight
	ContextInProgress ErrorDisplayContext = iota
	// ContextComplete indicates errors shown after a completed run
	ContextComplete
	// ContextOther indicates errors shown after cancellation or a run error
	ContextOther
)

// ErrorListConfig holds configuration for rendering error lists
type ErrorListConfig struct {
	// Errors is the list of per-file failures to display
	Errors []extract.FileError

	// Context determines the display limit and overflow message
	Context ErrorDisplayContext

	// MaxWidth is the maximum width for path and error message display
	MaxWidth int

	// TruncatePathFunc is the function to use for truncating paths
	TruncatePathFunc func(string, int) string
}

// RenderErrorList renders a list of per-file failures with the limit and
// overflow message appropriate to the display context.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Errors) == 0 {
		return ""
	}

	var builder strings.Builder

	enricher := errors.NewEnricher()
	limit := errorLimit(config.Context)

	for i, fileErr := range config.Errors {
		if i >= limit {
			fmt.Fprintf(&builder, "%s\n", overflowMessage(config.Context, len(config.Errors)-limit))

			break
		}

		// Enrich with actionable suggestions before display
		enriched := enricher.Enrich(fileErr.Error, fileErr.FilePath)

		displayPath := fileErr.FilePath
		if config.TruncatePathFunc != nil && config.MaxWidth > 0 {
			displayPath = config.TruncatePathFunc(fileErr.FilePath, config.MaxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n",
			ErrorSymbol(),
			FileItemErrorStyle().Render(displayPath))

		message := enriched.Error()
		if config.MaxWidth > 0 && len(message) > config.MaxWidth {
			message = message[:config.MaxWidth-3] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", message)

		if suggestions := errors.FormatSuggestions(enriched); suggestions != "" {
			indented := "    " + strings.ReplaceAll(suggestions, "\n", "\n    ")
			fmt.Fprintf(&builder, "%s\n", indented)
		}
	}

	return builder.String()
}

func errorLimit(context ErrorDisplayContext) int {
	switch context {
	case ContextInProgress:
		return ErrorLimitInProgress
	case ContextComplete:
		return ErrorLimitComplete
	case ContextOther:
		return ErrorLimitOther
	default:
		return ErrorLimitOther
	}
}

func overflowMessage(context ErrorDisplayContext, remaining int) string {
	if context == ContextInProgress {
		return fmt.Sprintf("  ... and %d more (shown in the summary)", remaining)
	}

	return fmt.Sprintf("... and %d more error(s)", remaining)
}
