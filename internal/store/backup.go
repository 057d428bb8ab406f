package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"planline/internal/model"
)

const backupsDirName = "backups"

func (s Store) backupsDir() string {
	return filepath.Join(s.Dir, backupsDirName)
}

func (s Store) backupPath(createdAt time.Time) string {
	return filepath.Join(s.backupsDir(), fmt.Sprintf("state_%s.json", createdAt.Format("20060102_150405")))
}

// Backup snapshots the current state file into backups/ and records the
// backup in the state itself. The state is saved first so the snapshot
// matches what the caller sees.
func (s Store) Backup(st *model.AppState, reason model.BackupReason, now time.Time) (model.BackupInfo, error) {
	if err := s.Save(st); err != nil {
		return model.BackupInfo{}, err
	}
	dest := s.backupPath(now)
	if err := CopyFile(s.statePath(), dest); err != nil {
		return model.BackupInfo{}, err
	}
	info := model.BackupInfo{
		ID:           BackupID(now),
		CreatedAtISO: now.UTC().Format(time.RFC3339),
		Reason:       reason,
		FilePath:     dest,
	}
	st.Backups = append(st.Backups, info)
	if err := s.Save(st); err != nil {
		return model.BackupInfo{}, err
	}
	return info, nil
}

// Restore replaces the live state with a backup's contents. A pre-restore
// backup is taken first, and the backup lists of both states are unioned so
// restoring never loses knowledge of other backups.
func (s Store) Restore(st *model.AppState, backupID string, now time.Time) (*model.AppState, error) {
	var target *model.BackupInfo
	for i := range st.Backups {
		if st.Backups[i].ID == backupID {
			target = &st.Backups[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("backup not found: %s", backupID)
	}

	b, err := os.ReadFile(target.FilePath)
	if err != nil {
		return nil, fmt.Errorf("backup file unreadable: %w", err)
	}
	var restored model.AppState
	if err := json.Unmarshal(b, &restored); err != nil {
		return nil, fmt.Errorf("backup file corrupt: %w", err)
	}

	if _, err := s.Backup(st, model.BackupPreRestore, now); err != nil {
		return nil, err
	}

	restored.Backups = unionBackups(restored.Backups, st.Backups)
	if restored.UIState.LockedProjects == nil {
		restored.UIState.LockedProjects = map[string]model.LockedProject{}
	}
	if err := s.Save(&restored); err != nil {
		return nil, err
	}
	return &restored, nil
}

func unionBackups(a, b []model.BackupInfo) []model.BackupInfo {
	seen := map[string]bool{}
	out := make([]model.BackupInfo, 0, len(a)+len(b))
	for _, lst := range [][]model.BackupInfo{a, b} {
		for _, info := range lst {
			if seen[info.ID] {
				continue
			}
			seen[info.ID] = true
			out = append(out, info)
		}
	}
	return out
}

// VerifyBackups reports backup entries whose snapshot file is missing or
// unparsable. Used by doctor.
func (s Store) VerifyBackups(st *model.AppState) []string {
	var issues []string
	for _, info := range st.Backups {
		b, err := os.ReadFile(info.FilePath)
		if err != nil {
			issues = append(issues, fmt.Sprintf("backup %s: file missing (%s)", info.ID, info.FilePath))
			continue
		}
		var probe model.AppState
		if err := json.Unmarshal(b, &probe); err != nil {
			issues = append(issues, fmt.Sprintf("backup %s: file corrupt", info.ID))
		}
	}
	return issues
}
