package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// MaxBackups is the maximum number of manual backups to keep
	MaxBackups = 10
	// MaxAutoBackups is the default number of auto backups to keep
	MaxAutoBackups = 5
	// AutoBackupPrefix is the prefix for auto backup files
	AutoBackupPrefix = "auto_"
	// ManualBackupPrefix is the prefix for manual backup files
	ManualBackupPrefix = "backup_"
	// BackupExt is the extension of backup files
	BackupExt = ".bak"

	timestampLayout = "20060102_150405.000000000"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	ID        string
	Path      string
	Timestamp time.Time
	Size      int64
}

// CreateBackup creates a timestamped copy of the file at path inside dir.
// Returns the backup ID, or an empty string if the source doesn't exist.
func CreateBackup(path, dir string) (string, error) {
	return createBackup(path, dir, ManualBackupPrefix, MaxBackups)
}

// CreateAutoBackup creates an automatic backup before a rewrite and keeps
// only the newest retain auto backups. retain < 0 disables auto backups.
func CreateAutoBackup(path, dir string, retain int) (string, error) {
	if retain < 0 {
		return "", nil
	}
	return createBackup(path, dir, AutoBackupPrefix, retain)
}

func createBackup(path, dir, prefix string, retain int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	id := prefix + time.Now().UTC().Format(timestampLayout)
	backupPath := filepath.Join(dir, id+BackupExt)
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	cleanupBackupsByPrefix(dir, prefix, retain)
	return id, nil
}

// cleanupBackupsByPrefix removes the oldest backups with the given prefix
// beyond retain. Failures are ignored; a leftover backup is harmless.
func cleanupBackupsByPrefix(dir, prefix string, retain int) {
	if retain <= 0 {
		return
	}

	backups, err := ListBackups(dir)
	if err != nil {
		return
	}

	var matching []BackupInfo
	for _, b := range backups {
		if strings.HasPrefix(b.ID, prefix) {
			matching = append(matching, b)
		}
	}

	// ListBackups is newest first
	for i := retain; i < len(matching); i++ {
		os.Remove(matching[i].Path)
	}
}

// ListBackups returns all backups in dir sorted newest first
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != BackupExt {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), BackupExt)
		ts, ok := parseTimestamp(id)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			ID:        id,
			Path:      filepath.Join(dir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// FindBackup looks up a backup by ID
func FindBackup(dir, id string) (*BackupInfo, error) {
	backups, err := ListBackups(dir)
	if err != nil {
		return nil, err
	}
	for _, b := range backups {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fs.ErrNotExist
}

func parseTimestamp(id string) (time.Time, bool) {
	for _, prefix := range []string{AutoBackupPrefix, ManualBackupPrefix} {
		if rest, ok := strings.CutPrefix(id, prefix); ok {
			ts, err := time.Parse(timestampLayout, rest)
			return ts, err == nil
		}
	}
	return time.Time{}, false
}
