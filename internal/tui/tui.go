package tui

import (
	"planline/internal/model"
	"planline/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive TUI. An empty projectID opens the projects
// list; a known id jumps straight to that project's timeline.
func Run(s store.Store, st *model.AppState, projectID string) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(s, st, projectID)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
