package repository

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/backup"
)

// Backups lists the saved copies of this repository, newest first.
func (s *Store) Backups() ([]backup.BackupInfo, error) {
	backups, err := backup.ListBackups(s.backupDir)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "cannot list backups of %q", s.name)
	}
	return backups, nil
}

// Restore replaces the storage unit with the backup id. The backup must
// decode cleanly; the current unit is itself backed up first. Returns the ID
// of that safety backup.
func (s *Store) Restore(id string) (string, error) {
	info, err := backup.FindBackup(s.backupDir, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.NotFound("backup %q of repository %q was not found", id, s.name)
		}
		return "", apperr.Wrap(apperr.ErrInternal, err, "cannot read backups of %q", s.name)
	}

	data, err := os.ReadFile(info.Path)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInternal, err, "cannot read backup %q", id)
	}
	c, err := decodeCollection(s.name, data)
	if err != nil {
		return "", err
	}

	var safety string
	err = s.withLock(func() error {
		safety, err = backup.CreateBackup(s.unitPath, s.backupDir)
		if err != nil {
			return apperr.Wrap(apperr.ErrInternal, err, "cannot back up repository %q before restore", s.name)
		}
		return s.write(c)
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("repository restored", slog.String("repository", s.name), slog.String("backup", id), slog.Int("templates", len(c.Templates)))
	return safety, nil
}
