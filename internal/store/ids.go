package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewID returns prefix_<12 hex chars of a v4 UUID>, e.g. "task_3f9a01c2d47b".
func NewID(prefix string) (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return prefix + "_" + hex.EncodeToString(b[:])[:12], nil
}

// BackupID names a backup by its creation time: bkp_YYYYMMDD_HHMMSS.
func BackupID(t time.Time) string {
	return fmt.Sprintf("bkp_%s", t.Format("20060102_150405"))
}
