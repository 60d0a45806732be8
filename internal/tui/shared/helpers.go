package shared

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// ============================================================================
// Formatting Functions
// These are used across the run screen for consistent display
// ============================================================================

// FormatBytes formats bytes into human-readable form (e.g., "1.5MB")
func FormatBytes(bytes int64) string {
	return units.HumanSize(float64(bytes))
}

// FormatDuration formats duration into human-readable form (e.g., "2m 30s")
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// TruncatePath shortens a path to at most maxWidth characters, keeping the
// tail, which carries the filename.
func TruncatePath(path string, maxWidth int) string {
	if maxWidth <= 0 || len(path) <= maxWidth {
		return path
	}

	const ellipsis = "..."
	if maxWidth <= len(ellipsis) {
		return path[len(path)-maxWidth:]
	}

	return ellipsis + path[len(path)-(maxWidth-len(ellipsis)):]
}

// CalculateMaxPathWidth returns the usable width for path display at the
// given terminal width.
func CalculateMaxPathWidth(termWidth int) int {
	width := termWidth - PathDisplayMargin
	if width < PathDisplayMargin {
		return PathDisplayMargin
	}

	return width
}
