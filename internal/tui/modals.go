package tui

import (
	"strings"
	"time"

	"planline/internal/model"
	"planline/internal/store"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalSchedule
	modalPeople
	modalNotes
)

type modalInputs struct {
	start  textinput.Model
	end    textinput.Model
	people textinput.Model
	notes  textarea.Model
	focus  int // schedule modal: 0 = start, 1 = end
}

func newModalInputs() modalInputs {
	in := modalInputs{}

	in.start = textinput.New()
	in.start.Placeholder = "YYYY-MM-DD [HH:MM]"
	in.start.CharLimit = 20
	in.start.Width = 20

	in.end = textinput.New()
	in.end.Placeholder = "YYYY-MM-DD [HH:MM] (empty = point)"
	in.end.CharLimit = 20
	in.end.Width = 34

	in.people = textinput.New()
	in.people.Placeholder = "Dana, Yoav"
	in.people.CharLimit = 200
	in.people.Width = 40

	in.notes = textarea.New()
	in.notes.Placeholder = "Notes…"
	in.notes.CharLimit = 0
	in.notes.SetWidth(60)
	in.notes.SetHeight(8)
	in.notes.ShowLineNumbers = false

	return in
}

func (tm *timelineModel) openScheduleModal(taskID string) {
	if tm.readOnly || taskID == "" {
		return
	}
	t := tm.engine.Task(taskID)
	if t == nil {
		return
	}
	tm.modal = modalSchedule
	tm.modalTaskID = taskID
	tm.modalErr = ""
	tm.inputs.focus = 0

	tm.inputs.start.SetValue("")
	tm.inputs.end.SetValue("")
	if s := t.Schedule; s != nil {
		if s.IsPoint() {
			tm.inputs.start.SetValue(fmtModalTime(s.Point))
		} else {
			n := s.Normalized()
			tm.inputs.start.SetValue(fmtModalTime(n.Start))
			tm.inputs.end.SetValue(fmtModalTime(n.End))
		}
	}
	tm.inputs.start.Focus()
	tm.inputs.end.Blur()
}

func (tm *timelineModel) openPeopleModal(taskID string) {
	if tm.readOnly || taskID == "" {
		return
	}
	t := tm.engine.Task(taskID)
	if t == nil {
		return
	}
	tm.modal = modalPeople
	tm.modalTaskID = taskID
	tm.modalErr = ""
	tm.inputs.people.SetValue(strings.Join(t.People, ", "))
	tm.inputs.people.Focus()
}

func (tm *timelineModel) openNotesModal(taskID string) {
	if tm.readOnly || taskID == "" {
		return
	}
	t := tm.engine.Task(taskID)
	if t == nil {
		return
	}
	tm.modal = modalNotes
	tm.modalTaskID = taskID
	tm.modalErr = ""
	tm.inputs.notes.SetValue(t.Notes)
	tm.inputs.notes.Focus()
}

func (tm *timelineModel) closeModal() {
	tm.modal = modalNone
	tm.modalTaskID = ""
	tm.modalErr = ""
	tm.inputs.start.Blur()
	tm.inputs.end.Blur()
	tm.inputs.people.Blur()
	tm.inputs.notes.Blur()
}

func (tm *timelineModel) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		tm.closeModal()
		return nil
	case "ctrl+c":
		return tea.Quit
	}

	switch tm.modal {
	case modalSchedule:
		return tm.updateScheduleModal(msg)
	case modalPeople:
		if msg.String() == "enter" {
			tm.applyPeopleModal()
			return nil
		}
		var cmd tea.Cmd
		tm.inputs.people, cmd = tm.inputs.people.Update(msg)
		return cmd
	case modalNotes:
		if msg.String() == "ctrl+s" {
			tm.applyNotesModal()
			return nil
		}
		var cmd tea.Cmd
		tm.inputs.notes, cmd = tm.inputs.notes.Update(msg)
		return cmd
	}
	return nil
}

func (tm *timelineModel) updateScheduleModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		tm.inputs.focus = 1 - tm.inputs.focus
		if tm.inputs.focus == 0 {
			tm.inputs.start.Focus()
			tm.inputs.end.Blur()
		} else {
			tm.inputs.start.Blur()
			tm.inputs.end.Focus()
		}
		return nil
	case "enter":
		tm.applyScheduleModal()
		return nil
	}

	var cmd tea.Cmd
	if tm.inputs.focus == 0 {
		tm.inputs.start, cmd = tm.inputs.start.Update(msg)
	} else {
		tm.inputs.end, cmd = tm.inputs.end.Update(msg)
	}
	return cmd
}

func (tm *timelineModel) applyScheduleModal() {
	loc := appLocation(tm.st)
	startStr := strings.TrimSpace(tm.inputs.start.Value())
	endStr := strings.TrimSpace(tm.inputs.end.Value())
	if startStr == "" {
		tm.modalErr = "start date is required"
		return
	}
	start, err := parseModalTime(startStr, loc)
	if err != nil {
		tm.modalErr = err.Error()
		return
	}

	var sched *model.Schedule
	if endStr == "" {
		sched = model.NewPointSchedule(start)
	} else {
		end, err := parseModalTime(endStr, loc)
		if err != nil {
			tm.modalErr = err.Error()
			return
		}
		sched = model.NewRangeSchedule(start, end)
	}
	if err := sched.Validate(); err != nil {
		tm.modalErr = err.Error()
		return
	}

	p := store.FindProject(tm.st, tm.projectID)
	if p == nil {
		tm.closeModal()
		return
	}
	path, _, ok := store.FindTaskByID(p, tm.modalTaskID)
	if !ok {
		tm.closeModal()
		return
	}

	tm.beginScheduleChange(tm.modalTaskID)
	if _, err := store.SetSchedule(p, path, sched); err != nil {
		tm.abandonScheduleChange()
		tm.modalErr = err.Error()
		return
	}
	tm.engine.SetTasks(p.Milestones)
	tm.commitScheduleChange()
	tm.closeModal()
}

func (tm *timelineModel) applyPeopleModal() {
	var people []string
	for _, part := range strings.Split(tm.inputs.people.Value(), ",") {
		if p := strings.TrimSpace(part); p != "" {
			people = append(people, p)
		}
	}
	if people == nil {
		people = []string{}
	}
	tm.engine.UpdateTaskFields(tm.modalTaskID, model.TaskPatch{People: &people})
	tm.closeModal()
	tm.status = "people updated"
}

func (tm *timelineModel) applyNotesModal() {
	notes := tm.inputs.notes.Value()
	tm.engine.UpdateTaskFields(tm.modalTaskID, model.TaskPatch{Notes: &notes})
	tm.closeModal()
	tm.status = "notes updated"
}

func (tm *timelineModel) viewModal() string {
	var b strings.Builder
	title := ""
	switch tm.modal {
	case modalSchedule:
		title = "Schedule"
		b.WriteString("Start  " + tm.inputs.start.View() + "\n")
		b.WriteString("End    " + tm.inputs.end.View() + "\n\n")
		b.WriteString(styleMuted().Render("enter: apply  tab: switch field  esc: cancel"))
	case modalPeople:
		title = "People"
		b.WriteString(tm.inputs.people.View() + "\n\n")
		b.WriteString(styleMuted().Render("enter: apply  esc: cancel"))
	case modalNotes:
		title = "Notes"
		b.WriteString(tm.inputs.notes.View() + "\n\n")
		b.WriteString(styleMuted().Render("ctrl+s: save  esc: cancel"))
	}
	if tm.modalErr != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(colorNow).Render(tm.modalErr))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	return box.Render(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + b.String())
}

const (
	modalLayoutDateTime = "2006-01-02 15:04"
	modalLayoutDate     = "2006-01-02"
)

func fmtModalTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format(modalLayoutDate)
	}
	return t.Format(modalLayoutDateTime)
}

func parseModalTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(modalLayoutDateTime, s, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(modalLayoutDate, s, loc)
}
