package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"planline/internal/model"
)

const stateFileName = "state.json"

// Store reads and writes the app state under one data dir.
type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .planline data dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".planline")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the data dir: PLANLINE_DIR, then discovery upward from
// the cwd, then ./.planline.
func DefaultDir() (string, error) {
	if v := os.Getenv("PLANLINE_DIR"); v != "" {
		return v, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".planline"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) statePath() string {
	return filepath.Join(s.Dir, stateFileName)
}

// Load reads state.json. A missing file yields the default state; a corrupt
// file degrades to the default state with a warning on stderr rather than an
// error, so a bad byte on disk never locks the user out.
func (s Store) Load() (*model.AppState, error) {
	b, err := os.ReadFile(s.statePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.DefaultAppState(), nil
		}
		return nil, err
	}
	var st model.AppState
	if err := json.Unmarshal(b, &st); err != nil {
		fmt.Fprintf(os.Stderr, "planline: state file %s is corrupt (%v); starting from default state\n", s.statePath(), err)
		return model.DefaultAppState(), nil
	}
	if st.UIState.LockedProjects == nil {
		st.UIState.LockedProjects = map[string]model.LockedProject{}
	}
	return &st, nil
}

// Save writes state.json atomically (temp file + rename), pretty-printed so
// the file stays diffable and hand-editable.
func (s Store) Save(st *model.AppState) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := s.statePath() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.statePath())
}

// FindProject returns a pointer into the state's project list, nil if absent.
func FindProject(st *model.AppState, id string) *model.Project {
	for i := range st.Projects {
		if st.Projects[i].ID == id {
			return &st.Projects[i]
		}
	}
	return nil
}

// ProjectLocked reports whether a project is locked for editing at t. A
// zero locked_until means "locked indefinitely".
func ProjectLocked(st *model.AppState, projectID string, t time.Time) bool {
	lp, ok := st.UIState.LockedProjects[projectID]
	if !ok {
		return false
	}
	return lp.LockedUntilEpochMS == 0 || t.UnixMilli() < lp.LockedUntilEpochMS
}

// ProjectTimeRange resolves a project's horizon: its explicit range, or the
// derived default (now to one month ahead) when none is set.
func ProjectTimeRange(p *model.Project, now time.Time) model.TimeRange {
	if p.TimeRange != nil {
		return *p.TimeRange
	}
	return model.DefaultTimeRange(now)
}
