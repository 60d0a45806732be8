// Package tui wires the bubbletea program around the extraction engine.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meg/extract-files/internal/config"
	"github.com/meg/extract-files/internal/extract"
	"github.com/meg/extract-files/internal/tui/screens"
)

// AppModel is the top-level model. The whole run happens on a single
// screen, so the app only captures the window size and delegates.
type AppModel struct {
	config        *config.Config
	currentScreen tea.Model
	width         int
	height        int
}

// NewAppModel creates a new app model around a run screen for the engine.
func NewAppModel(engine *extract.Engine, cfg *config.Config) *AppModel {
	return &AppModel{
		config:        cfg,
		currentScreen: screens.NewRunScreen(engine, cfg),
	}
}

// CurrentScreen returns the current screen (for testing)
func (a AppModel) CurrentScreen() tea.Model {
	return a.currentScreen
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	return a.currentScreen.Init()
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Capture window size
	if windowMsg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = windowMsg.Width
		a.height = windowMsg.Height
	}

	// Delegate everything to the run screen
	var cmd tea.Cmd
	a.currentScreen, cmd = a.currentScreen.Update(msg)

	return a, cmd
}

// View implements tea.Model
func (a AppModel) View() string {
	return a.currentScreen.View()
}
