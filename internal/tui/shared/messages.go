package shared

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meg/extract-files/internal/extract"
)

// ============================================================================
// Run Messages
// Delivered by the tea.Cmd that drives the extraction engine
// ============================================================================

// RunDoneMsg is sent when the run finishes, however it ended; Result carries
// the final counts, including a cancelled run's partial ones.
type RunDoneMsg struct {
	Result *extract.RunResult
}

// ErrorMsg is sent when the run aborts before scanning could finish.
type ErrorMsg struct {
	Err error
}

// ============================================================================
// Tick Messages
// Drive animations and the throttled status polling
// ============================================================================

// TickMsg is a message sent on each tick interval
type TickMsg time.Time

// TickCmd returns a command that sends tick messages at regular intervals
func TickCmd() tea.Cmd {
	return tea.Tick(TickIntervalMs*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
