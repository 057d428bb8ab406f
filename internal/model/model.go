package model

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

type BackupReason string

const (
	BackupManualSave BackupReason = "manual_save"
	BackupAuto       BackupReason = "auto_backup"
	BackupPreRestore BackupReason = "pre_restore"
)

type AppSettings struct {
	Timezone   string `json:"timezone"`
	DateFormat string `json:"date_format"`
	RTL        bool   `json:"rtl"`
	Theme      Theme  `json:"theme"`
}

func DefaultAppSettings() AppSettings {
	return AppSettings{
		Timezone:   "Asia/Jerusalem",
		DateFormat: "DD/MM/YY",
		RTL:        true,
		Theme:      ThemeSystem,
	}
}

type LockedProject struct {
	LockedUntilEpochMS int64 `json:"locked_until_epoch_ms"`
}

// UndoEntry records one reversible schedule change. All updates emitted
// during a single gesture coalesce into one entry.
type UndoEntry struct {
	ProjectID string    `json:"project_id"`
	TaskPath  []string  `json:"task_path"`
	Before    *Schedule `json:"before,omitempty"`
	After     *Schedule `json:"after,omitempty"`
}

type UndoState struct {
	Stack     []UndoEntry `json:"stack"`
	RedoStack []UndoEntry `json:"redo_stack"`
}

type UIState struct {
	ProjectOrder   []string                 `json:"project_order"`
	LockedProjects map[string]LockedProject `json:"locked_projects"`
	Undo           UndoState                `json:"undo"`
}

type Project struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	ShortDescription    string     `json:"short_description"`
	DetailedDescription string     `json:"detailed_description"`
	Notebook            string     `json:"notebook"`
	Tags                []string   `json:"tags"`
	Color               string     `json:"color"`
	TimeRange           *TimeRange `json:"time_range,omitempty"`
	Milestones          []Task     `json:"milestones"`
}

// Task is used for both milestones and subtasks. A task exclusively owns
// its subtasks; the structure is a tree, never shared.
type Task struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Details  string     `json:"details"`
	Status   TaskStatus `json:"status"`
	Priority int        `json:"priority"`
	Tags     []string   `json:"tags"`
	Color    string     `json:"color"`
	Schedule *Schedule  `json:"schedule,omitempty"`
	People   []string   `json:"people"`
	Notes    string     `json:"notes"`
	Subtasks []Task     `json:"subtasks"`
}

type BackupInfo struct {
	ID           string       `json:"id"`
	CreatedAtISO string       `json:"created_at_iso"`
	Reason       BackupReason `json:"reason"`
	FilePath     string       `json:"file_path"`
}

// AppState is the root of the persisted state file.
type AppState struct {
	SchemaVersion int          `json:"schema_version"`
	App           AppSettings  `json:"app"`
	UIState       UIState      `json:"ui_state"`
	Projects      []Project    `json:"projects"`
	Backups       []BackupInfo `json:"backups"`
}

func DefaultAppState() *AppState {
	return &AppState{
		SchemaVersion: 1,
		App:           DefaultAppSettings(),
		UIState: UIState{
			ProjectOrder:   []string{},
			LockedProjects: map[string]LockedProject{},
		},
		Projects: []Project{},
		Backups:  []BackupInfo{},
	}
}

// TaskPatch carries a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title    *string     `json:"title,omitempty"`
	Details  *string     `json:"details,omitempty"`
	Status   *TaskStatus `json:"status,omitempty"`
	Priority *int        `json:"priority,omitempty"`
	Tags     *[]string   `json:"tags,omitempty"`
	Color    *string     `json:"color,omitempty"`
	People   *[]string   `json:"people,omitempty"`
	Notes    *string     `json:"notes,omitempty"`
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Details != nil {
		t.Details = *p.Details
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.People != nil {
		t.People = *p.People
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}
