package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
)

func TestAppLocalRoot(t *testing.T) {
	home := filepath.Join(string(filepath.Separator), "home", "dev")

	tests := []struct {
		name string
		r    Resolver
		want string
	}{
		{
			name: "windows",
			r:    Resolver{Home: home, GOOS: "windows"},
			want: filepath.Join(home, "AppData", "Local", "Templo"),
		},
		{
			name: "darwin",
			r:    Resolver{Home: home, GOOS: "darwin"},
			want: filepath.Join(home, "Library", "Application Support", "Templo"),
		},
		{
			name: "linux default",
			r:    Resolver{Home: home, GOOS: "linux"},
			want: filepath.Join(home, ".local", "share", "templo"),
		},
		{
			name: "linux xdg",
			r: Resolver{Home: home, GOOS: "linux", Getenv: func(key string) string {
				if key == "XDG_DATA_HOME" {
					return filepath.Join(string(filepath.Separator), "xdg")
				}
				return ""
			}},
			want: filepath.Join(string(filepath.Separator), "xdg", "templo"),
		},
		{
			name: "relative xdg ignored",
			r: Resolver{Home: home, GOOS: "linux", Getenv: func(string) string {
				return "relative"
			}},
			want: filepath.Join(home, ".local", "share", "templo"),
		},
		{
			name: "override",
			r:    Resolver{Home: home, GOOS: "plan9", Override: filepath.Join(home, "custom")},
			want: filepath.Join(home, "custom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.AppLocalRoot()
			if err != nil {
				t.Fatalf("AppLocalRoot() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("AppLocalRoot() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	root := t.TempDir()
	r := &Resolver{Override: root}

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"repositories", r.RepositoriesRoot, filepath.Join(root, "Repositories")},
		{"repository", func() (string, error) { return r.RepositoryPath("team") }, filepath.Join(root, "Repositories", "team")},
		{"registry", r.RemoteRegistryPath, filepath.Join(root, "remote-repos-registry.json")},
		{"account", r.AccountPath, filepath.Join(root, "user-account")},
		{"settings", r.SettingsPath, filepath.Join(root, "config.yaml")},
		{"locks", r.LocksDir, filepath.Join(root, "locks")},
		{"backups", r.BackupsDir, filepath.Join(root, "backups")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUnsupportedPlatform(t *testing.T) {
	r := &Resolver{Home: "/home/dev", GOOS: "plan9"}

	if err := r.CheckPlatform(); !errors.Is(err, apperr.ErrUnsupportedPlatform) {
		t.Fatalf("CheckPlatform() error = %v, want ErrUnsupportedPlatform", err)
	}
	if _, err := r.RepositoriesRoot(); !errors.Is(err, apperr.ErrUnsupportedPlatform) {
		t.Fatalf("RepositoriesRoot() error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestMissingHome(t *testing.T) {
	r := &Resolver{GOOS: "linux"}
	if _, err := r.AppLocalRoot(); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("AppLocalRoot() error = %v, want ErrNotFound", err)
	}
}

func TestNewWithoutHomeFolder(t *testing.T) {
	orig := userHomeDir
	userHomeDir = func() (string, error) { return "", errors.New("no home") }
	t.Cleanup(func() { userHomeDir = orig })

	override := t.TempDir()
	r, err := New(override)
	if err != nil {
		t.Fatalf("New(%q) error = %v", override, err)
	}
	root, err := r.AppLocalRoot()
	if err != nil || root != filepath.Clean(override) {
		t.Fatalf("AppLocalRoot() = %q, %v; want %q", root, err, override)
	}

	if _, err := New(""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("New(\"\") error = %v, want ErrNotFound", err)
	}
}
