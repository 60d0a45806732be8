package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewProgressModel creates a progress bar model with the package's standard
// styling. The percentage is rendered by the caller, not the bar.
func NewProgressModel(width int) progress.Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = width
	bar.ShowPercentage = false

	if !colorsDisabled {
		bar.EmptyColor = dimColorCode
		bar.FullColor = accentColorCode
	}

	return bar
}

// RenderProgress renders a progress bar, falling back to plain ASCII when
// styled output is suppressed (NO_COLOR, TERM=dumb).
func RenderProgress(model progress.Model, percent float64) string {
	if colorsDisabled {
		return RenderASCIIProgress(percent, model.Width)
	}

	return model.ViewAs(percent)
}

// RenderASCIIProgress renders a progress bar using only ASCII, in the shape
// "[=====>        ] 34%". percent is in [0.0, 1.0]; width is the bar's
// interior width in characters.
func RenderASCIIProgress(percent float64, width int) string {
	display := int(percent * ProgressPercentageScale)
	filled := int(percent * float64(width))

	// Room needed before the > marker: wide bars keep a space for it, thin
	// bars sacrifice an = so the marker always shows.
	const minWideBar = 3

	var bar strings.Builder

	bar.WriteString("[")

	switch {
	case filled >= width:
		bar.WriteString(strings.Repeat("=", width))
	case percent > 0:
		equals := max(0, filled-1)
		if filled >= minWideBar {
			equals = filled - 2 //nolint:mnd // Marker plus its leading space
		}

		bar.WriteString(strings.Repeat("=", equals))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", width-equals-1))
	default:
		bar.WriteString(strings.Repeat(" ", width))
	}

	bar.WriteString("]")

	return fmt.Sprintf("%s %d%%", bar.String(), display)
}
