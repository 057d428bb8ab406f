package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"planline/internal/model"
	"planline/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewProjects view = iota
	viewTimeline
)

type reloadTickMsg struct{}

type appModel struct {
	s  store.Store
	st *model.AppState

	width  int
	height int

	view view

	projectsList list.Model
	timeline     *timelineModel

	lastStateModTime time.Time
}

type projectItem struct {
	project model.Project
	locked  bool
}

func (it projectItem) Title() string {
	title := it.project.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	label := fmt.Sprintf("%s %s  %s", glyphBullet(), title, styleMuted().Render(it.project.ID))
	if it.locked {
		label += styleMuted().Render("  [locked]")
	}
	return label
}

func (it projectItem) Description() string { return it.project.ShortDescription }
func (it projectItem) FilterValue() string {
	return it.project.Title + " " + it.project.ID
}

func newAppModel(s store.Store, st *model.AppState, projectID string) appModel {
	m := appModel{
		s:    s,
		st:   st,
		view: viewProjects,
	}

	m.projectsList = newList("Projects", []list.Item{})
	m.projectsList.SetDelegate(newCompactItemDelegate())
	m.refreshProjects()

	if projectID != "" && store.FindProject(st, projectID) != nil {
		m.openTimeline(projectID)
	}

	m.captureStoreModTime()
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// Bubble list defaults to quitting on ESC; in planline ESC is "back".
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reloadTickMsg:
		if m.storeChanged() {
			_ = m.reloadFromDisk()
		}
		return m, tickReload()
	}

	if m.view == viewTimeline && m.timeline != nil {
		back, cmd := m.timeline.Update(msg)
		if back {
			m.view = viewProjects
			m.timeline = nil
			m.refreshProjects()
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// Reload from disk so CLI commands run in another terminal are
			// reflected.
			_ = m.reloadFromDisk()
			return m, nil
		case "enter":
			if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
				m.openTimeline(it.project.ID)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.projectsList, cmd = m.projectsList.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	if m.view == viewTimeline && m.timeline != nil {
		return m.timeline.View()
	}

	header := lipgloss.NewStyle().Bold(true).Render("planline")
	sub := styleMuted().Render(fmt.Sprintf("dir=%s  projects=%d", m.s.Dir, len(m.st.Projects)))

	body := m.projectsList.View()
	if len(m.st.Projects) == 0 {
		body = styleMuted().Render("No projects yet. Create one with: planline projects create --title \"…\"")
	}

	footer := styleMuted().Render("enter: open timeline  r: reload  q: quit")
	return strings.Join([]string{header + "  " + sub, "", body, "", footer}, "\n")
}

func (m *appModel) openTimeline(projectID string) {
	m.timeline = newTimelineModel(m.s, m.st, projectID)
	m.timeline.setSize(m.width, m.height)
	m.view = viewTimeline
}

func (m *appModel) resize() {
	h := m.height - 5
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.projectsList.SetSize(w, h)
	if m.timeline != nil {
		m.timeline.setSize(m.width, m.height)
	}
}

func (m *appModel) refreshProjects() {
	curID := ""
	if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
		curID = it.project.ID
	}
	now := time.Now()
	var items []list.Item
	for _, p := range m.st.Projects {
		items = append(items, projectItem{
			project: p,
			locked:  store.ProjectLocked(m.st, p.ID, now),
		})
	}
	m.projectsList.SetItems(items)
	if curID != "" {
		for i, it := range m.projectsList.Items() {
			if pi, ok := it.(projectItem); ok && pi.project.ID == curID {
				m.projectsList.Select(i)
				break
			}
		}
	}
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m *appModel) captureStoreModTime() {
	m.lastStateModTime = fileModTime(filepath.Join(m.s.Dir, "state.json"))
}

func (m *appModel) storeChanged() bool {
	return fileModTime(filepath.Join(m.s.Dir, "state.json")).After(m.lastStateModTime)
}

func fileModTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

func (m *appModel) reloadFromDisk() error {
	st, err := m.s.Load()
	if err != nil {
		return err
	}
	*m.st = *st
	m.captureStoreModTime()

	switch m.view {
	case viewProjects:
		m.refreshProjects()
	case viewTimeline:
		if m.timeline != nil {
			m.timeline.refreshTasks()
		}
	}
	return nil
}
