package cmd

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
)

var backupIDPattern = regexp.MustCompile(`(?m)^(auto_\S+)`)

func TestBackupListAndRestore(t *testing.T) {
	home := t.TempDir()
	src := sampleProject(t)

	out := mustExecute(t, home, "", "backup", "list")
	if !strings.Contains(out, `No backups of "main".`) {
		t.Errorf("empty list output = %q", out)
	}

	mustExecute(t, home, "", "save", "-n", "demo", "-r", "main", "-d", "", src)
	mustExecute(t, home, "", "del", "demo")

	out = mustExecute(t, home, "", "backup", "list", "main")
	ids := backupIDPattern.FindAllString(out, -1)
	if len(ids) < 2 {
		t.Fatalf("backup list = %q, want at least two auto backups", out)
	}

	// Newest first: ids[0] was taken right before the delete.
	out = mustExecute(t, home, "", "backup", "restore", ids[0])
	if !strings.Contains(out, `Repository "main" restored from `+ids[0]) {
		t.Errorf("restore output = %q", out)
	}
	if ok, _ := openRepo(t, home, "main").HasTemplate("demo"); !ok {
		t.Fatal("demo not back after restore")
	}
}

func TestBackupRestoreUnknown(t *testing.T) {
	_, _, err := executeCommand(t, t.TempDir(), "", "backup", "restore", "auto_20240101_000000.000000000", "main")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestBackupsDisabled(t *testing.T) {
	home := t.TempDir()
	src := sampleProject(t)
	mustExecute(t, home, "", "settings", "--set", "backups.retain=-1")

	mustExecute(t, home, "", "save", "-n", "demo", "-r", "main", "-d", "", src)
	out := mustExecute(t, home, "", "backup", "list")
	if !strings.Contains(out, "No backups") {
		t.Errorf("backup list = %q, want none", out)
	}
}
