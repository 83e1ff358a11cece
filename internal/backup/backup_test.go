package backup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// skipPermissionTest 检查是否应该跳过权限测试（root用户或Windows）
func skipPermissionTest(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("跳过 Windows 权限测试")
	}
	if os.Getuid() == 0 {
		t.Skip("跳过 root 用户权限测试")
	}
}

func writeUnit(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}

func TestCreateBackup(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, unit string)
		wantID bool
	}{
		{
			name:   "create backup",
			setup:  func(t *testing.T, unit string) { writeUnit(t, unit, "current") },
			wantID: true,
		},
		{
			name:   "missing source",
			setup:  func(t *testing.T, unit string) {},
			wantID: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			unit := filepath.Join(tmpDir, "main")
			dir := filepath.Join(tmpDir, "backups", "main")
			tt.setup(t, unit)

			id, err := CreateBackup(unit, dir)
			if err != nil {
				t.Fatalf("CreateBackup() error = %v", err)
			}
			if (id != "") != tt.wantID {
				t.Fatalf("CreateBackup() id = %q, wantID %v", id, tt.wantID)
			}
			if !tt.wantID {
				return
			}
			if !strings.HasPrefix(id, ManualBackupPrefix) {
				t.Fatalf("unexpected id %s", id)
			}
			data, err := os.ReadFile(filepath.Join(dir, id+BackupExt))
			if err != nil {
				t.Fatalf("读取备份失败: %v", err)
			}
			if string(data) != "current" {
				t.Fatalf("备份内容不匹配: %s", data)
			}
		})
	}
}

func TestCreateBackupUnreadableSource(t *testing.T) {
	skipPermissionTest(t)

	tmpDir := t.TempDir()
	unit := filepath.Join(tmpDir, "main")
	writeUnit(t, unit, "secret")
	if err := os.Chmod(unit, 0000); err != nil {
		t.Fatalf("设置文件权限失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(unit, 0600) })

	if _, err := CreateBackup(unit, filepath.Join(tmpDir, "backups")); err == nil {
		t.Fatalf("expected error for unreadable source")
	}
}

func TestAutoBackupRetention(t *testing.T) {
	tmpDir := t.TempDir()
	unit := filepath.Join(tmpDir, "main")
	dir := filepath.Join(tmpDir, "backups")

	var ids []string
	for i := 0; i < 4; i++ {
		writeUnit(t, unit, strings.Repeat("x", i+1))
		id, err := CreateAutoBackup(unit, dir, 2)
		if err != nil {
			t.Fatalf("CreateAutoBackup() error = %v", err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	backups, err := ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if backups[0].ID != ids[3] || backups[1].ID != ids[2] {
		t.Fatalf("unexpected retained backups: %+v", backups)
	}
	if backups[0].Size != 4 {
		t.Fatalf("unexpected size %d", backups[0].Size)
	}
}

func TestAutoBackupDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	unit := filepath.Join(tmpDir, "main")
	writeUnit(t, unit, "data")

	id, err := CreateAutoBackup(unit, filepath.Join(tmpDir, "backups"), -1)
	if err != nil || id != "" {
		t.Fatalf("CreateAutoBackup() = %q, %v", id, err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "backups")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("backup directory should not exist")
	}
}

func TestListAndFindBackups(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "backups")

	backups, err := ListBackups(dir)
	if err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups() on missing dir = %v, %v", backups, err)
	}

	unit := filepath.Join(tmpDir, "main")
	writeUnit(t, unit, "data")
	id, err := CreateBackup(unit, dir)
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	writeUnit(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeUnit(t, filepath.Join(dir, "random.bak"), "ignored")

	backups, err = ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %+v", backups)
	}

	found, err := FindBackup(dir, id)
	if err != nil {
		t.Fatalf("FindBackup() error = %v", err)
	}
	if found.Path != filepath.Join(dir, id+BackupExt) {
		t.Fatalf("unexpected path %s", found.Path)
	}
	if _, err := FindBackup(dir, "backup_missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("FindBackup() error = %v, want ErrNotExist", err)
	}
}
