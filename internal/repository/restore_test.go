package repository

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/backup"
	"github.com/YangQing-Lin/templo-cli/internal/testutil"
)

func TestMutationsCreateAutoBackups(t *testing.T) {
	s, _ := newStore(t, WithBackups(2))

	backups, err := s.Backups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("Backups() on fresh repository = %v, %v", backups, err)
	}

	for _, n := range []string{"one", "two", "three", "four"} {
		if err := s.SaveTemplate(makeTemplate(t, n, map[string]string{"f": n})); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = s.Backups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected retention of 2 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if !strings.HasPrefix(b.ID, backup.AutoBackupPrefix) {
			t.Errorf("unexpected backup id %q", b.ID)
		}
	}
}

func TestBackupsDisabled(t *testing.T) {
	s, _ := newStore(t, WithBackups(-1))
	if err := s.SaveTemplate(makeTemplate(t, "demo", map[string]string{"a": "a"})); err != nil {
		t.Fatal(err)
	}
	backups, err := s.Backups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("Backups() = %v, %v; want none", backups, err)
	}
}

func TestRestore(t *testing.T) {
	s, _ := newStore(t)
	if err := s.SaveTemplate(makeTemplate(t, "keep", map[string]string{"a": "a"})); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTemplate(makeTemplate(t, "later", map[string]string{"b": "b"})); err != nil {
		t.Fatal(err)
	}

	// Newest backup holds the state before "later" was saved.
	backups, err := s.Backups()
	if err != nil || len(backups) == 0 {
		t.Fatalf("Backups() = %v, %v", backups, err)
	}
	target := backups[0].ID

	safety, err := s.Restore(target)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := names(t, s); !slices.Equal(got, []string{"keep"}) {
		t.Fatalf("after restore: %v", got)
	}

	if safety == "" {
		t.Fatal("expected a safety backup id")
	}
	if _, err := s.Restore(safety); err != nil {
		t.Fatalf("Restore(safety) error = %v", err)
	}
	if got := names(t, s); !slices.Equal(got, []string{"keep", "later"}) {
		t.Fatalf("after undo: %v", got)
	}
}

func TestRestoreErrors(t *testing.T) {
	s, r := newStore(t)

	if _, err := s.Restore("auto_19990101_000000.000000000"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Restore(missing) error = %v, want ErrNotFound", err)
	}

	backupsDir, _ := r.BackupsDir()
	testutil.CreateTempFile(t, backupsDir, "main/backup_20260101_000000.000000000"+backup.BackupExt, "garbage")
	if _, err := s.Restore("backup_20260101_000000.000000000"); !errors.Is(err, apperr.ErrInternal) {
		t.Fatalf("Restore(corrupt) error = %v, want ErrInternal", err)
	}
	if got := names(t, s); len(got) != 0 {
		t.Fatalf("corrupt restore changed repository: %v", got)
	}
}
