package store

import (
	"testing"
	"time"

	"planline/internal/model"
)

func TestBackupAndRestore(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	st := model.DefaultAppState()
	st.Projects = []model.Project{{ID: "proj_a", Title: "Before"}}

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	info, err := s.Backup(st, model.BackupManualSave, t0)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if info.ID != "bkp_20240301_100000" {
		t.Fatalf("unexpected backup id: %s", info.ID)
	}
	if info.Reason != model.BackupManualSave {
		t.Fatalf("unexpected reason: %s", info.Reason)
	}

	// Mutate and restore.
	st.Projects[0].Title = "After"
	if err := s.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	restored, err := s.Restore(st, info.ID, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Projects[0].Title != "Before" {
		t.Fatalf("restore did not bring back the snapshot, got %q", restored.Projects[0].Title)
	}

	// Restoring created a pre-restore backup, and the lists were unioned.
	var reasons []model.BackupReason
	for _, b := range restored.Backups {
		reasons = append(reasons, b.Reason)
	}
	foundPre := false
	for _, r := range reasons {
		if r == model.BackupPreRestore {
			foundPre = true
		}
	}
	if !foundPre {
		t.Fatalf("expected a pre-restore backup, got %v", reasons)
	}

	if issues := s.VerifyBackups(restored); len(issues) != 0 {
		t.Fatalf("unexpected backup issues: %v", issues)
	}
}

func TestRestoreUnknownBackup(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	st := model.DefaultAppState()
	if _, err := s.Restore(st, "bkp_nope", time.Now()); err == nil {
		t.Fatalf("expected error for unknown backup id")
	}
}
