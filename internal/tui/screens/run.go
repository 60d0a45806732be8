// Package screens contains the bubbletea models composing the terminal UI.
package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meg/extract-files/internal/config"
	"github.com/meg/extract-files/internal/extract"
	"github.com/meg/extract-files/internal/tui/shared"
)

// unexported constants.
const (
	// maxRecentPlacedToShow is the maximum number of recent placements to display
	maxRecentPlacedToShow = 5
	// progressWidthMargin is subtracted from the terminal width for the bar
	progressWidthMargin = 10
	// minProgressWidth is the narrowest the bar is allowed to get
	minProgressWidth = 20
)

// RunScreen drives a single extraction run: it starts the engine in a
// command, polls its status on a tick, and renders live counts until the
// run finishes, fails, or is cancelled.
type RunScreen struct {
	engine       *extract.Engine
	cfg          *config.Config
	status       *extract.Status
	result       *extract.RunResult
	err          error
	spinner      spinner.Model
	fileProgress progress.Model
	width        int
	height       int
	state        string
	lastUpdate   time.Time
}

// NewRunScreen creates a run screen for the given engine.
func NewRunScreen(engine *extract.Engine, cfg *config.Config) RunScreen {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(shared.PrimaryColor())

	return RunScreen{
		engine:       engine,
		cfg:          cfg,
		spinner:      spin,
		fileProgress: shared.NewProgressModel(shared.ProgressBarWidth),
		state:        shared.StateRunning,
		lastUpdate:   time.Now(),
	}
}

// Init implements tea.Model
func (s RunScreen) Init() tea.Cmd {
	return tea.Batch(
		s.spinner.Tick,
		s.startRun(),
		shared.TickCmd(),
	)
}

// Update implements tea.Model
func (s RunScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return s.handleWindowSize(msg)
	case tea.KeyMsg:
		return s.handleKeyMsg(msg)
	case shared.RunDoneMsg:
		return s.handleRunDone(msg)
	case shared.ErrorMsg:
		return s.handleError(msg)
	case spinner.TickMsg:
		return s.handleSpinnerTick(msg)
	case shared.TickMsg:
		return s.handleTick()
	}

	return s, nil
}

// View implements tea.Model
func (s RunScreen) View() string {
	var builder strings.Builder

	switch s.state {
	case shared.StateCancelling:
		builder.WriteString(s.renderCancellingContent())
	case shared.StateComplete, shared.StateCancelled:
		builder.WriteString(s.renderSummaryContent())
	case shared.StateError:
		builder.WriteString(s.renderErrorContent())
	default:
		builder.WriteString(s.renderRunningContent())
	}

	return shared.RenderBox(builder.String())
}

// State returns the current lifecycle state (for testing).
func (s RunScreen) State() string {
	return s.state
}

// ============================================================================
// Message Handlers
// ============================================================================

func (s RunScreen) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	s.width = msg.Width
	s.height = msg.Height

	progressWidth := max(msg.Width-progressWidthMargin, minProgressWidth)
	progressWidth = min(progressWidth, shared.MaxProgressBarWidth)
	s.fileProgress.Width = progressWidth

	return s, nil
}

//nolint:exhaustive // Only handling specific key types
func (s RunScreen) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		// Emergency exit - quit immediately
		return s, tea.Quit

	case tea.KeyEsc:
		return s.cancelOrQuit()

	case tea.KeyEnter:
		if s.isFinal() {
			return s, tea.Quit
		}

		return s, nil
	}

	//nolint:gocritic // Single case switch is intentional for extensibility
	switch msg.String() {
	case "q":
		return s.cancelOrQuit()
	}

	return s, nil
}

// cancelOrQuit requests a graceful cancel during a run and quits once the
// run has reached a final state.
func (s RunScreen) cancelOrQuit() (tea.Model, tea.Cmd) {
	if s.isFinal() {
		return s, tea.Quit
	}

	s.state = shared.StateCancelling
	if s.engine != nil {
		s.engine.Cancel()
	}

	return s, nil
}

func (s RunScreen) handleRunDone(msg shared.RunDoneMsg) (tea.Model, tea.Cmd) {
	s.result = msg.Result

	s.state = shared.StateComplete
	if msg.Result != nil && msg.Result.Cancelled {
		s.state = shared.StateCancelled
	}

	// One final snapshot so the summary shows the closing counts
	if s.engine != nil {
		s.status = s.engine.GetStatus()
	}

	return s, nil
}

func (s RunScreen) handleError(msg shared.ErrorMsg) (tea.Model, tea.Cmd) {
	s.err = msg.Err
	s.state = shared.StateError

	if s.engine != nil {
		s.status = s.engine.GetStatus()
	}

	return s, nil
}

func (s RunScreen) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	s.spinner, cmd = s.spinner.Update(msg)

	return s, cmd
}

func (s RunScreen) handleTick() (tea.Model, tea.Cmd) {
	// Poll the engine, but only every 200ms to reduce lock contention
	if s.engine != nil && !s.isFinal() {
		now := time.Now()
		if now.Sub(s.lastUpdate) >= shared.StatusUpdateThrottleMs*time.Millisecond {
			s.status = s.engine.GetStatus()
			s.lastUpdate = now
		}
	}

	// Always continue ticking for animations and elapsed-time updates
	return s, shared.TickCmd()
}

func (s RunScreen) isFinal() bool {
	return s.state == shared.StateComplete ||
		s.state == shared.StateCancelled ||
		s.state == shared.StateError
}

// ============================================================================
// Rendering
// ============================================================================

func (s RunScreen) renderHeader(builder *strings.Builder) {
	verb := "copy"
	if s.cfg != nil && s.cfg.Move {
		verb = "move"
	}

	extension := ""
	if s.cfg != nil {
		extension = s.cfg.Extension
	}

	builder.WriteString(shared.RenderTitle(fmt.Sprintf("Extracting *%s files", extension)))
	builder.WriteString("\n")

	if s.engine != nil {
		builder.WriteString(shared.RenderSubtitle(
			fmt.Sprintf("%s → %s (%s)", s.engine.SourcePath, s.engine.TargetPath, verb)))
		builder.WriteString("\n")
	}
}

func (s RunScreen) renderRunningContent() string {
	var builder strings.Builder

	s.renderHeader(&builder)

	if s.status == nil || (s.status.Matched == 0 && s.status.CurrentFile == "") {
		builder.WriteString(s.spinner.View())
		builder.WriteString(" Scanning...\n")

		return builder.String()
	}

	// Current file with its byte progress when a large copy is in flight
	builder.WriteString(s.spinner.View())
	builder.WriteString(" ")
	builder.WriteString(shared.TruncatePath(s.status.CurrentFile, s.maxPathWidth()))
	builder.WriteString("\n")

	if s.status.CurrentFileTotal > 0 && s.status.CurrentFileBytes < s.status.CurrentFileTotal {
		percent := float64(s.status.CurrentFileBytes) / float64(s.status.CurrentFileTotal)
		builder.WriteString(shared.RenderProgress(s.fileProgress, percent))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	s.renderCounts(&builder)
	s.renderRecentPlacements(&builder)
	s.renderErrors(&builder, shared.ContextInProgress)

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("Esc or q to cancel • Ctrl+C to exit immediately"))
	builder.WriteString("\n")

	return builder.String()
}

func (s RunScreen) renderCancellingContent() string {
	var builder strings.Builder

	s.renderHeader(&builder)

	builder.WriteString(s.spinner.View())
	builder.WriteString(" Cancelling, finishing the file in flight...\n\n")

	s.renderCounts(&builder)

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("Press Ctrl+C to force quit"))
	builder.WriteString("\n")

	return builder.String()
}

func (s RunScreen) renderSummaryContent() string {
	var builder strings.Builder

	if s.state == shared.StateCancelled {
		builder.WriteString(shared.RenderWarning("Extraction cancelled"))
	} else {
		builder.WriteString(shared.RenderSuccess(fmt.Sprintf("%s Extraction complete", shared.SuccessSymbol())))
	}

	builder.WriteString("\n\n")

	if s.result != nil {
		fmt.Fprintf(&builder, "Placed %d of %d matched files (%s) in %s\n",
			s.result.Placed,
			s.result.Matched,
			shared.FormatBytes(s.result.Bytes),
			shared.FormatDuration(s.result.Duration))
	}

	if s.engine != nil {
		builder.WriteString(shared.RenderLabel("Target: "))
		builder.WriteString(s.engine.TargetPath)
		builder.WriteString("\n")
	}

	context := shared.ContextComplete
	if s.state == shared.StateCancelled {
		context = shared.ContextOther
	}

	s.renderErrors(&builder, context)

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("Press Enter or q to exit"))
	builder.WriteString("\n")

	return builder.String()
}

func (s RunScreen) renderErrorContent() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderError(fmt.Sprintf("%s Extraction failed", shared.ErrorSymbol())))
	builder.WriteString("\n\n")

	if s.err != nil {
		builder.WriteString(s.err.Error())
		builder.WriteString("\n")
	}

	s.renderErrors(&builder, shared.ContextOther)

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("Press Enter or q to exit"))
	builder.WriteString("\n")

	return builder.String()
}

func (s RunScreen) renderCounts(builder *strings.Builder) {
	if s.status == nil {
		return
	}

	fmt.Fprintf(builder, "Matched %d • Placed %d • Failed %d • %s\n",
		s.status.Matched,
		s.status.Placed,
		s.status.Failed,
		shared.FormatBytes(s.status.Bytes))

	if !s.status.StartTime.IsZero() {
		builder.WriteString(shared.RenderDim(
			"Elapsed " + shared.FormatDuration(time.Since(s.status.StartTime))))
		builder.WriteString("\n")
	}
}

func (s RunScreen) renderRecentPlacements(builder *strings.Builder) {
	if s.status == nil || len(s.status.RecentlyPlaced) == 0 {
		return
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderLabel("Recently placed:"))
	builder.WriteString("\n")

	recent := s.status.RecentlyPlaced
	if len(recent) > maxRecentPlacedToShow {
		recent = recent[len(recent)-maxRecentPlacedToShow:]
	}

	for _, placement := range recent {
		fmt.Fprintf(builder, "  %s %s → %s\n",
			shared.SuccessSymbol(),
			shared.TruncatePath(placement.SourcePath, s.maxPathWidth()),
			shared.FileItemCompleteStyle().Render(placement.DestName))
	}
}

func (s RunScreen) renderErrors(builder *strings.Builder, context shared.ErrorDisplayContext) {
	if s.status == nil || len(s.status.Errors) == 0 {
		return
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderError(fmt.Sprintf("⚠ Errors (%d):", len(s.status.Errors))))
	builder.WriteString("\n")

	builder.WriteString(shared.RenderErrorList(shared.ErrorListConfig{
		Errors:           s.status.Errors,
		Context:          context,
		MaxWidth:         s.maxPathWidth(),
		TruncatePathFunc: shared.TruncatePath,
	}))
}

func (s RunScreen) maxPathWidth() int {
	return shared.CalculateMaxPathWidth(s.width)
}

// ============================================================================
// Run Start
// ============================================================================

func (s RunScreen) startRun() tea.Cmd {
	return func() tea.Msg {
		result, err := s.engine.Run()
		if err != nil {
			return shared.ErrorMsg{Err: err}
		}

		return shared.RunDoneMsg{Result: result}
	}
}
