//nolint:varnamelen // Test files use idiomatic short variable names (ok, etc.)
package screens_test

import (
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
	"github.com/sirupsen/logrus"

	"github.com/meg/extract-files/internal/config"
	"github.com/meg/extract-files/internal/extract"
	"github.com/meg/extract-files/internal/tui/screens"
	"github.com/meg/extract-files/internal/tui/shared"
)

func TestRunScreenStartsRunning(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	g.Expect(screen.State()).Should(Equal(shared.StateRunning))

	// Init wires up the spinner, the run command, and the tick
	g.Expect(screen.Init()).ShouldNot(BeNil())
}

func TestRunScreenCtrlCQuits(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	ctrlCMsg := tea.KeyMsg{Type: tea.KeyCtrlC}
	_, cmd := screen.Update(ctrlCMsg)

	g.Expect(cmd).ShouldNot(BeNil(), "Ctrl+C should return a quit command")

	// Execute the command to verify it's tea.Quit
	msg := cmd()
	g.Expect(msg).Should(BeAssignableToTypeOf(tea.QuitMsg{}),
		"Ctrl+C should send tea.QuitMsg")
}

func TestRunScreenEscCancelsWhileRunning(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	escMsg := tea.KeyMsg{Type: tea.KeyEsc}
	updatedModel, cmd := screen.Update(escMsg)

	g.Expect(cmd).Should(BeNil(), "Esc during a run should not quit")

	updated, ok := updatedModel.(screens.RunScreen)
	g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
	g.Expect(updated.State()).Should(Equal(shared.StateCancelling))
}

func TestRunScreenQCancelsWhileRunning(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	qMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	updatedModel, cmd := screen.Update(qMsg)

	g.Expect(cmd).Should(BeNil(), "q during a run should not quit")

	updated, ok := updatedModel.(screens.RunScreen)
	g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
	g.Expect(updated.State()).Should(Equal(shared.StateCancelling))
}

func TestRunScreenEnterIgnoredWhileRunning(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	enterMsg := tea.KeyMsg{Type: tea.KeyEnter}
	updatedModel, cmd := screen.Update(enterMsg)

	g.Expect(cmd).Should(BeNil(), "Enter during a run should do nothing")

	updated, ok := updatedModel.(screens.RunScreen)
	g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
	g.Expect(updated.State()).Should(Equal(shared.StateRunning))
}

func TestRunScreenRunDoneTransitionsToComplete(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	doneMsg := shared.RunDoneMsg{Result: &extract.RunResult{Matched: 2, Placed: 2}}
	updatedModel, _ := screen.Update(doneMsg)

	updated, ok := updatedModel.(screens.RunScreen)
	g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
	g.Expect(updated.State()).Should(Equal(shared.StateComplete))
	g.Expect(updated.View()).Should(ContainSubstring("Extraction complete"))
}

func TestRunScreenRunDoneCancelledTransitionsToCancelled(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	doneMsg := shared.RunDoneMsg{Result: &extract.RunResult{Cancelled: true}}
	updatedModel, _ := screen.Update(doneMsg)

	updated, ok := updatedModel.(screens.RunScreen)
	g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
	g.Expect(updated.State()).Should(Equal(shared.StateCancelled))
	g.Expect(updated.View()).Should(ContainSubstring("Extraction cancelled"))
}

func TestRunScreenErrorMsgTransitionsToError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	errMsg := shared.ErrorMsg{Err: errors.New("target directory is locked")}
	updatedModel, _ := screen.Update(errMsg)

	updated, ok := updatedModel.(screens.RunScreen)
	g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
	g.Expect(updated.State()).Should(Equal(shared.StateError))

	view := updated.View()
	g.Expect(view).Should(ContainSubstring("Extraction failed"))
	g.Expect(view).Should(ContainSubstring("target directory is locked"))
}

func TestRunScreenQuitsFromFinalStates(t *testing.T) {
	t.Parallel()

	quitKeys := []struct {
		name string
		key  tea.KeyMsg
	}{
		{name: "enter", key: tea.KeyMsg{Type: tea.KeyEnter}},
		{name: "esc", key: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "q", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
	}

	for _, testCase := range quitKeys {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			screen := mustNewRunScreen(t)

			doneMsg := shared.RunDoneMsg{Result: &extract.RunResult{}}
			updatedModel, _ := screen.Update(doneMsg)

			updatedModel, cmd := updatedModel.Update(testCase.key)

			g.Expect(cmd).ShouldNot(BeNil(), "final states should quit on "+testCase.name)

			msg := cmd()
			g.Expect(msg).Should(BeAssignableToTypeOf(tea.QuitMsg{}))

			updated, ok := updatedModel.(screens.RunScreen)
			g.Expect(ok).Should(BeTrue(), "Expected updatedModel to be RunScreen")
			g.Expect(updated.State()).ShouldNot(Equal(shared.StateRunning))
		})
	}
}

func TestRunScreenTickKeepsTicking(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := mustNewRunScreen(t)

	_, cmd := screen.Update(shared.TickMsg{})

	g.Expect(cmd).ShouldNot(BeNil(), "ticks should reschedule themselves")
}

// mustNewRunScreen builds a run screen around an engine over empty
// directories. The engine is never started, so the screen's Update and
// View paths can be exercised synchronously.
func mustNewRunScreen(t *testing.T) screens.RunScreen {
	t.Helper()

	cfg := &config.Config{
		Source:    t.TempDir(),
		TargetDir: t.TempDir(),
		Extension: ".txt",
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine, err := extract.NewEngine(cfg, logger)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	t.Cleanup(engine.Close)

	return screens.NewRunScreen(engine, cfg)
}
