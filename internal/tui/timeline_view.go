package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"planline/internal/model"
	"planline/internal/store"
	"planline/internal/timeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// First bar row on screen: header + off-screen hint line above it.
	barsTopRow = 2

	detailPanelWidth = 34
	keyPanStepPx     = 16
)

// timelineModel hosts one project's timeline: the pure engine plus the
// terminal rendering, input translation, and store plumbing around it. One
// terminal cell is one engine pixel.
type timelineModel struct {
	s         store.Store
	st        *model.AppState
	projectID string

	engine *timeline.View
	frame  timeline.Frame

	width   int
	height  int
	tlWidth int

	readOnly bool

	drag          *timeline.DragGesture
	pan           *timeline.PanGesture
	dragMoved     bool
	pressX        int
	pressedTaskID string

	// Undo coalescing: the schedule snapshot taken when a gesture (or
	// nudge, or modal apply) begins. One gesture = one undo step.
	undoTaskID string
	undoBefore *model.Schedule

	modal       modalKind
	modalTaskID string
	inputs      modalInputs
	modalErr    string

	status string
}

func newTimelineModel(s store.Store, st *model.AppState, projectID string) *timelineModel {
	tm := &timelineModel{
		s:         s,
		st:        st,
		projectID: projectID,
		width:     80,
		height:    24,
	}

	p := store.FindProject(st, projectID)
	now := time.Now()
	r := model.DefaultTimeRange(now)
	if p != nil {
		r = store.ProjectTimeRange(p, now)
	}

	tm.engine = timeline.NewView(r)
	tm.engine.Location = appLocation(st)
	tm.engine.Callbacks = timeline.Callbacks{
		OnScheduleUpdate:  tm.applyScheduleUpdate,
		OnTaskFieldUpdate: tm.applyFieldUpdate,
		OnZoomChange: func(z timeline.ZoomLevel) {
			tm.status = "zoom: " + z.Label()
		},
	}
	tm.inputs = newModalInputs()
	tm.refreshTasks()
	return tm
}

func appLocation(st *model.AppState) *time.Location {
	if loc, err := time.LoadLocation(st.App.Timezone); err == nil {
		return loc
	}
	return time.Local
}

// refreshTasks re-reads the project out of the shared state and feeds the
// engine. Pan, zoom, focus and expansion survive the refresh.
func (tm *timelineModel) refreshTasks() {
	p := store.FindProject(tm.st, tm.projectID)
	if p == nil {
		tm.engine.SetTasks(nil)
		return
	}
	tm.engine.Range = store.ProjectTimeRange(p, time.Now())
	tm.engine.SetTasks(p.Milestones)
	tm.readOnly = store.ProjectLocked(tm.st, tm.projectID, time.Now())
	tm.engine.Interactive = !tm.readOnly
}

func (tm *timelineModel) setSize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 8 {
		h = 8
	}
	tm.width = w
	tm.height = h
	tm.tlWidth = w
	if w >= 100 {
		tm.tlWidth = w - detailPanelWidth - 1
	}
}

// Update handles one bubbletea message. back=true means "leave the timeline
// and return to the projects list".
func (tm *timelineModel) Update(msg tea.Msg) (back bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if tm.modal != modalNone {
			return false, tm.updateModal(msg)
		}
		return tm.handleKey(msg)
	case tea.MouseMsg:
		if tm.modal != modalNone {
			return false, nil
		}
		tm.handleMouse(msg)
		return false, nil
	}
	return false, nil
}

func (tm *timelineModel) handleKey(msg tea.KeyMsg) (back bool, cmd tea.Cmd) {
	tm.status = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return false, tea.Quit

	case "esc", "backspace":
		if tm.engine.ExpandedID() != "" {
			tm.engine.Collapse()
			return false, nil
		}
		return true, nil

	case "up":
		tm.engine.FocusPrev()
	case "down":
		tm.engine.FocusNext()

	case "shift+left":
		// RTL: left is later in time.
		tm.nudgeFocused(tm.engine.NudgeLater)
	case "shift+right":
		tm.nudgeFocused(tm.engine.NudgeEarlier)

	case "+", "=":
		tm.engine.ZoomIn()
	case "-", "_":
		tm.engine.ZoomOut()

	case "n":
		tm.engine.NavigateNext()
	case "p":
		tm.engine.NavigatePrev()
	case "t":
		tm.engine.JumpToNow()

	case "enter", "o":
		if id := tm.engine.FocusedID(); id != "" {
			tm.engine.ToggleExpand(id)
		}

	case "left", "h":
		tm.panBy(keyPanStepPx)
	case "right", "l":
		tm.panBy(-keyPanStepPx)

	case "e":
		tm.openScheduleModal(tm.engine.FocusedID())
	case "a":
		tm.openPeopleModal(tm.engine.FocusedID())
	case "m":
		tm.openNotesModal(tm.engine.FocusedID())

	case "u":
		tm.undo()
	case "ctrl+r":
		tm.redo()

	case "r":
		tm.reloadFromDisk()
	}
	return false, nil
}

func (tm *timelineModel) handleMouse(msg tea.MouseMsg) {
	if msg.X >= tm.tlWidth {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		tm.engine.Wheel(1)
		return
	case tea.MouseButtonWheelDown:
		tm.engine.Wheel(-1)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		tm.pressX = msg.X
		tm.dragMoved = false
		row := msg.Y - barsTopRow
		if bar, ok := tm.frame.BarAt(msg.X, row); ok {
			tm.pressedTaskID = bar.TaskID
			tm.engine.SetFocus(bar.TaskID)
			if !tm.readOnly {
				tm.beginScheduleChange(bar.TaskID)
				tm.drag = tm.engine.StartDrag(bar.TaskID, bar.ModeAt(msg.X), msg.X)
			}
			return
		}
		tm.pressedTaskID = ""
		tm.pan = tm.engine.StartPan(msg.X)

	case tea.MouseActionMotion:
		if tm.drag != nil {
			if msg.X != tm.pressX {
				tm.dragMoved = true
			}
			tm.drag.Move(msg.X)
			return
		}
		if tm.pan != nil {
			tm.pan.Move(msg.X)
		}

	case tea.MouseActionRelease:
		if tm.drag != nil {
			tm.drag.Release()
			tm.drag = nil
			if tm.dragMoved {
				tm.commitScheduleChange()
			} else {
				// Sub-threshold press on a bar is a click: toggle the
				// Level-2 drill-down.
				tm.abandonScheduleChange()
				tm.engine.ToggleExpand(tm.pressedTaskID)
			}
			tm.pressedTaskID = ""
			return
		}
		if tm.pan != nil {
			if click := tm.pan.Release(); click {
				// Background click collapses the expansion.
				tm.engine.Collapse()
			}
			tm.pan = nil
			return
		}
		if tm.pressedTaskID != "" {
			// Read-only press on a bar never started a drag; a click still
			// expands.
			tm.engine.ToggleExpand(tm.pressedTaskID)
			tm.pressedTaskID = ""
		}
	}
}

func (tm *timelineModel) panBy(deltaPx int) {
	if g := tm.engine.StartPan(0); g != nil {
		g.Move(deltaPx)
		g.Release()
	}
}

// ---- mutation plumbing ------------------------------------------------

// applyScheduleUpdate is the engine's OnScheduleUpdate sink: it lands the
// new schedule in the shared state and re-feeds the engine. Persistence and
// undo happen on commit, not per emitted update.
func (tm *timelineModel) applyScheduleUpdate(taskID string, sched model.Schedule) {
	p := store.FindProject(tm.st, tm.projectID)
	if p == nil {
		return
	}
	path, _, ok := store.FindTaskByID(p, taskID)
	if !ok {
		return
	}
	if _, err := store.SetSchedule(p, path, &sched); err != nil {
		tm.status = err.Error()
		return
	}
	tm.engine.SetTasks(p.Milestones)
}

func (tm *timelineModel) applyFieldUpdate(taskID string, patch model.TaskPatch) {
	p := store.FindProject(tm.st, tm.projectID)
	if p == nil {
		return
	}
	path, _, ok := store.FindTaskByID(p, taskID)
	if !ok {
		return
	}
	if _, err := store.PatchTask(p, path, patch); err != nil {
		tm.status = err.Error()
		return
	}
	tm.engine.SetTasks(p.Milestones)
	if err := tm.s.Save(tm.st); err != nil {
		tm.status = err.Error()
		return
	}
	_ = tm.s.AppendEvent(context.Background(), "task.updated", taskID, patch)
}

func (tm *timelineModel) beginScheduleChange(taskID string) {
	tm.undoTaskID = taskID
	tm.undoBefore = nil
	if t := tm.engine.Task(taskID); t != nil {
		tm.undoBefore = cloneSchedule(t.Schedule)
	}
}

func (tm *timelineModel) abandonScheduleChange() {
	tm.undoTaskID = ""
	tm.undoBefore = nil
}

// commitScheduleChange closes one logical schedule change: push a single
// undo entry, persist, and log. No-op when nothing actually changed.
func (tm *timelineModel) commitScheduleChange() {
	taskID := tm.undoTaskID
	before := tm.undoBefore
	tm.abandonScheduleChange()
	if taskID == "" {
		return
	}

	p := store.FindProject(tm.st, tm.projectID)
	if p == nil {
		return
	}
	path, t, ok := store.FindTaskByID(p, taskID)
	if !ok {
		return
	}
	after := cloneSchedule(t.Schedule)
	if schedulesEqual(before, after) {
		return
	}

	store.PushUndo(tm.st, model.UndoEntry{
		ProjectID: tm.projectID,
		TaskPath:  path,
		Before:    before,
		After:     after,
	})
	if err := tm.s.Save(tm.st); err != nil {
		tm.status = err.Error()
		return
	}
	_ = tm.s.AppendEvent(context.Background(), "task.schedule_updated", taskID, map[string]any{
		"before": before,
		"after":  after,
	})
	tm.status = "schedule updated"
}

func (tm *timelineModel) nudgeFocused(nudge func()) {
	id := tm.engine.FocusedID()
	if id == "" || tm.readOnly {
		return
	}
	tm.beginScheduleChange(id)
	nudge()
	tm.commitScheduleChange()
}

func (tm *timelineModel) undo() {
	e, ok, err := store.Undo(tm.st)
	if err != nil {
		tm.status = err.Error()
		return
	}
	if !ok {
		tm.status = "nothing to undo"
		return
	}
	tm.afterUndoRedo("undid", e)
}

func (tm *timelineModel) redo() {
	e, ok, err := store.Redo(tm.st)
	if err != nil {
		tm.status = err.Error()
		return
	}
	if !ok {
		tm.status = "nothing to redo"
		return
	}
	tm.afterUndoRedo("redid", e)
}

func (tm *timelineModel) afterUndoRedo(verb string, e model.UndoEntry) {
	tm.refreshTasks()
	if err := tm.s.Save(tm.st); err != nil {
		tm.status = err.Error()
		return
	}
	taskID := ""
	if len(e.TaskPath) > 0 {
		taskID = e.TaskPath[len(e.TaskPath)-1]
	}
	tm.status = fmt.Sprintf("%s schedule change on %s", verb, taskID)
}

func (tm *timelineModel) reloadFromDisk() {
	st, err := tm.s.Load()
	if err != nil {
		tm.status = err.Error()
		return
	}
	*tm.st = *st
	tm.refreshTasks()
	tm.status = "reloaded"
}

func cloneSchedule(s *model.Schedule) *model.Schedule {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func schedulesEqual(a, b *model.Schedule) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// ---- rendering --------------------------------------------------------

func (tm *timelineModel) View() string {
	f := tm.engine.Render(tm.tlWidth)
	tm.frame = f

	var lines []string
	lines = append(lines, tm.renderHeader(f))
	lines = append(lines, tm.renderHints(f))

	rows := f.Rows
	if rows < 1 {
		rows = 1
	}
	for r := 0; r < rows; r++ {
		lines = append(lines, renderBarRow(tm.tlWidth, f.Bars, r))
	}

	lines = append(lines, tm.renderAxisMarks(f))
	lines = append(lines, renderAxisLabels(tm.tlWidth, f.Ticks))

	if f.SubBand != nil {
		lines = append(lines, tm.renderSubBandHeader(f.SubBand))
		subRows := f.SubBand.Rows
		if subRows < 1 {
			subRows = 1
		}
		for r := 0; r < subRows; r++ {
			lines = append(lines, renderBarRow(tm.tlWidth, f.SubBand.Bars, r))
		}
	}

	bodyH := tm.height - 1
	left := normalizePane(strings.Join(lines, "\n"), tm.tlWidth, bodyH)

	body := left
	if tm.width >= 100 {
		panel := tm.renderDetailPanel(detailPanelWidth, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", panel)
	}

	if tm.modal != modalNone {
		body = lipgloss.Place(tm.width, bodyH, lipgloss.Center, lipgloss.Center, tm.viewModal())
	}

	return body + "\n" + tm.renderFooter()
}

func (tm *timelineModel) renderHeader(f timeline.Frame) string {
	p := store.FindProject(tm.st, tm.projectID)
	title := "(missing project)"
	if p != nil {
		title = p.Title
	}

	nav := "no scheduled tasks"
	if f.NavTotal > 0 {
		nav = fmt.Sprintf("task %d/%d", f.NavPos, f.NavTotal)
	}
	window := fmt.Sprintf("%s %s %s",
		fmtTime(f.VisibleEnd), glyphArrowLeft(), fmtTime(f.VisibleStart))

	parts := []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		"zoom: " + f.Zoom.Label(),
		nav,
		window,
	}
	if tm.readOnly {
		parts = append(parts, "read-only")
	}
	return truncateCell(strings.Join(parts, "  "+glyphBullet()+"  "), tm.tlWidth)
}

// renderHints shows how many scheduled tasks sit wholly outside the window:
// later tasks are off the left edge, earlier ones off the right.
func (tm *timelineModel) renderHints(f timeline.Frame) string {
	left := ""
	if f.LaterCount > 0 {
		left = fmt.Sprintf("%s %d later", glyphArrowLeft(), f.LaterCount)
	}
	right := ""
	if f.EarlierCount > 0 {
		right = fmt.Sprintf("%d earlier %s", f.EarlierCount, glyphArrowRight())
	}
	gap := tm.tlWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleMuted().Render(left + strings.Repeat(" ", gap) + right)
}

func (tm *timelineModel) renderAxisMarks(f timeline.Frame) string {
	marks := make([]string, tm.tlWidth)
	rule := glyphHRule()
	for i := range marks {
		marks[i] = rule
	}
	for _, t := range f.Ticks {
		if t.X >= 0 && t.X < tm.tlWidth {
			marks[t.X] = glyphTick()
		}
	}

	nowX := tm.nowX(f)
	line := lipgloss.NewStyle().Foreground(colorAxis).Render(strings.Join(marks, ""))
	if nowX >= 0 && nowX < tm.tlWidth {
		pre := lipgloss.NewStyle().Foreground(colorAxis).Render(strings.Join(marks[:nowX], ""))
		post := lipgloss.NewStyle().Foreground(colorAxis).Render(strings.Join(marks[nowX+1:], ""))
		line = pre + lipgloss.NewStyle().Foreground(colorNow).Render(glyphNow()) + post
	}
	return line
}

// nowX is the pixel column of clamped "now" in the current window.
func (tm *timelineModel) nowX(f timeline.Frame) int {
	now := tm.engine.Range.Clamp(time.Now())
	deltaMS := now.UnixMilli() - f.VisibleStart.UnixMilli()
	return f.Width - int(deltaMS/f.Zoom.TimePerPixel())
}

func renderAxisLabels(width int, ticks []timeline.Tick) string {
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = ' '
	}
	for _, t := range ticks {
		label := []rune(t.Label)
		start := t.X - len(label)/2
		if start < 0 {
			start = 0
		}
		if start+len(label) > width {
			start = width - len(label)
		}
		if start < 0 {
			continue
		}
		copy(cells[start:], label)
	}
	return lipgloss.NewStyle().Foreground(colorAxisLabel).Render(string(cells))
}

func (tm *timelineModel) renderSubBandHeader(sb *timeline.SubBand) string {
	title := sb.Task.Title
	if strings.TrimSpace(title) == "" {
		title = sb.Task.ID
	}
	label := fmt.Sprintf(" %s: %s %s %s ", title, fmtTime(sb.End), glyphArrowLeft(), fmtTime(sb.Start))
	rule := strings.Repeat(glyphHRule(), 3)
	return styleMuted().Render(truncateCell(rule+label, tm.tlWidth))
}

// renderBarRow paints one packed row of bars into a full-width line.
func renderBarRow(width int, bars []timeline.Bar, row int) string {
	var rowBars []timeline.Bar
	for _, b := range bars {
		if b.Row == row {
			rowBars = append(rowBars, b)
		}
	}
	sort.Slice(rowBars, func(i, j int) bool { return rowBars[i].StartX < rowBars[j].StartX })

	var sb strings.Builder
	col := 0
	for _, b := range rowBars {
		s, e := b.StartX, b.EndX
		if s < 0 {
			s = 0
		}
		if e > width-1 {
			e = width - 1
		}
		if e < col {
			continue
		}
		if s < col {
			s = col
		}
		sb.WriteString(strings.Repeat(" ", s-col))
		sb.WriteString(renderBar(b, e-s+1))
		col = e + 1
	}
	if col < width {
		sb.WriteString(strings.Repeat(" ", width-col))
	}
	return sb.String()
}

func renderBar(b timeline.Bar, cells int) string {
	if cells < 1 {
		return ""
	}
	color := barColor(b.Color, b.TaskID)

	if b.IsPoint {
		st := lipgloss.NewStyle().Foreground(color)
		if b.Focused {
			st = st.Bold(true).Underline(true)
		}
		if b.Dimmed {
			st = st.Faint(true)
		}
		mid := cells / 2
		txt := strings.Repeat(" ", mid) + glyphPoint() + strings.Repeat(" ", cells-mid-1)
		return st.Render(txt)
	}

	st := lipgloss.NewStyle().Background(color).Foreground(colorAccentFg)
	if b.Focused {
		st = st.Bold(true).Underline(true)
	}
	if b.Dimmed {
		st = st.Faint(true)
	}

	txt := strings.Repeat(glyphBarFill(), cells)
	if cells >= 6 && b.Task != nil {
		label := " " + glyphStatus(b.Task.Status) + " " + b.Task.Title
		txt = truncateCell(label, cells)
	}
	return st.Render(txt)
}

func (tm *timelineModel) renderFooter() string {
	if tm.status != "" {
		return styleMuted().Render(truncateCell(tm.status, tm.width))
	}
	help := "↑/↓ focus  shift+←/→ nudge  +/- zoom  n/p next/prev  t now  enter expand  e schedule  u undo  q quit"
	if tm.readOnly {
		help = "↑/↓ focus  +/- zoom  n/p next/prev  t now  enter expand  q quit  (locked: editing disabled)"
	}
	return styleMuted().Render(truncateCell(help, tm.width))
}

func fmtTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("2 Jan 06")
	}
	return t.Format("2 Jan 15:04")
}
