package settings

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/testutil"
	"github.com/YangQing-Lin/templo-cli/internal/utils"
)

func TestNewManagerWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if !utils.FileExists(path) {
		t.Fatal("设置文件未被创建")
	}
	if runtime.GOOS != "windows" {
		testutil.AssertFileMode(t, path, 0600)
	}

	s := manager.Get()
	if s.Language != "en" || s.LogLevel != slog.LevelWarn || s.Backups.Retain != 5 {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.Remote.Timeout != 30*time.Second {
		t.Errorf("Remote.Timeout = %v", s.Remote.Timeout)
	}

	// 重新加载应得到相同的设置
	again, err := NewManager(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if again.Get().Limits != s.Limits || again.Get().LogLevel != s.LogLevel || again.Get().Remote != s.Remote {
		t.Errorf("reloaded settings differ: %+v vs %+v", again.Get(), s)
	}
}

func TestLoadYAML(t *testing.T) {
	path := testutil.CreateTempFile(t, t.TempDir(), "config.yaml", `
language: zh
log_level: debug
exclude:
  - node_modules/
  - "*.log"
limits:
  max_files: 10
remote:
  registry: team
  timeout: 5s
backups:
  retain: -1
`)

	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	s := manager.Get()
	if s.Language != "zh" || s.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected language/log level: %+v", s)
	}
	if len(s.Exclude) != 2 || s.Exclude[1] != "*.log" {
		t.Errorf("Exclude = %v", s.Exclude)
	}
	if s.Limits.MaxFiles != 10 || s.Limits.MaxDepth != 64 {
		t.Errorf("partial limits must keep other defaults: %+v", s.Limits)
	}
	if s.Remote.Registry != "team" || s.Remote.Timeout != 5*time.Second {
		t.Errorf("Remote = %+v", s.Remote)
	}
	if s.Backups.Retain != -1 {
		t.Errorf("Backups.Retain = %d", s.Backups.Retain)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "language: [unterminated"},
		{"bad language", "language: fr"},
		{"bad log level", "log_level: loud"},
		{"negative limit", "limits:\n  max_files: -1"},
		{"bad retain", "backups:\n  retain: -5"},
		{"bad timeout", "remote:\n  timeout: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.CreateTempFile(t, t.TempDir(), "config.yaml", tt.content)
			if _, err := NewManager(path); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("NewManager() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tests := []struct {
		name    string
		lang    string
		wantErr bool
	}{
		{"设置英文", "en", false},
		{"设置中文", "zh", false},
		{"设置无效语言", "fr", true},
		{"空字符串", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.SetLanguage(tt.lang)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetLanguage(%q) error = %v, wantErr %v", tt.lang, err, tt.wantErr)
			}
			if !tt.wantErr && manager.Get().Language != tt.lang {
				t.Errorf("Language = %q, want %q", manager.Get().Language, tt.lang)
			}
		})
	}

	// 未调用 Save 前不写入文件
	unsaved, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if unsaved.Get().Language != "en" {
		t.Errorf("language persisted before Save: %q", unsaved.Get().Language)
	}
	if err := manager.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// 持久化检查
	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Get().Language != "zh" {
		t.Errorf("persisted language = %q, want zh", reloaded.Get().Language)
	}
}

func TestApplyEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	manager, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	env := map[string]string{EnvLogLevel: "DEBUG", EnvLanguage: "zh"}
	if err := manager.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if manager.Get().LogLevel != slog.LevelDebug || manager.Get().Language != "zh" {
		t.Errorf("env not applied: %+v", manager.Get())
	}

	// 环境变量覆盖不写入文件
	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Get().Language != "en" {
		t.Errorf("env override was persisted")
	}

	for _, bad := range []map[string]string{{EnvLogLevel: "loud"}, {EnvLanguage: "fr"}} {
		err := manager.ApplyEnv(func(k string) string { return bad[k] })
		if !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("ApplyEnv(%v) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestSavedFileIsReadableYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := NewManager(path); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data := string(raw)
	for _, want := range []string{"language: en", "log_level: WARN", "timeout: 30s", "retain: 5"} {
		if !strings.Contains(data, want) {
			t.Errorf("config.yaml missing %q:\n%s", want, data)
		}
	}
}
