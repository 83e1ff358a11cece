// Package paths resolves where templo keeps its data on the local machine.
//
// Layout under the application root:
//
//	<root>/Repositories/<repository>   one storage unit per repository
//	<root>/remote-repos-registry.json  remote endpoints (JSONC)
//	<root>/user-account                credential record of the logged-in user
//	<root>/config.yaml                 settings
//	<root>/locks/<repository>.lock     per-repository lock files
//	<root>/backups/<repository>/       rolling backups of storage units
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/portable"
)

// EnvHome overrides the data root, like the --home flag.
const EnvHome = "TEMPLO_HOME"

const (
	AppFolderName       = "Templo"
	unixAppFolderName   = "templo"
	RepositoriesDirName = "Repositories"
	RemoteRegistryFile  = "remote-repos-registry.json"
	AccountFile         = "user-account"
	SettingsFile        = "config.yaml"
	LocksDirName        = "locks"
	BackupsDirName      = "backups"
)

// Resolver computes data locations. It holds no state besides its inputs, so
// tests can point it at a temporary directory through Override.
type Resolver struct {
	Home     string
	GOOS     string
	Override string
	Getenv   func(string) string
}

var userHomeDir = os.UserHomeDir

// New returns a Resolver for the running process. A non-empty override wins
// over portable mode and the platform rule.
func New(override string) (*Resolver, error) {
	if override == "" && portable.IsPortableMode() {
		dir, err := portable.GetPortableDataDir()
		if err == nil {
			override = dir
		}
	}

	home, err := userHomeDir()
	if override == "" && (err != nil || home == "") {
		return nil, apperr.Wrap(apperr.ErrNotFound, err, "cannot determine your home folder")
	}

	return &Resolver{
		Home:     home,
		GOOS:     runtime.GOOS,
		Override: override,
		Getenv:   os.Getenv,
	}, nil
}

// CheckPlatform reports whether the resolver knows where to keep data on its
// operating system. Commands call it once at startup.
func (r *Resolver) CheckPlatform() error {
	if r.Override != "" {
		return nil
	}
	switch r.GOOS {
	case "windows", "darwin", "linux", "freebsd", "openbsd", "netbsd":
		return nil
	default:
		return apperr.New(apperr.ErrUnsupportedPlatform, "operating system %q is not supported", r.GOOS)
	}
}

// AppLocalRoot returns the application data directory.
func (r *Resolver) AppLocalRoot() (string, error) {
	if r.Override != "" {
		return filepath.Clean(r.Override), nil
	}
	if err := r.CheckPlatform(); err != nil {
		return "", err
	}
	if r.Home == "" {
		return "", apperr.NotFound("cannot determine your home folder")
	}

	switch r.GOOS {
	case "windows":
		return filepath.Join(r.Home, "AppData", "Local", AppFolderName), nil
	case "darwin":
		return filepath.Join(r.Home, "Library", "Application Support", AppFolderName), nil
	default:
		if xdg := r.getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
			return filepath.Join(xdg, unixAppFolderName), nil
		}
		return filepath.Join(r.Home, ".local", "share", unixAppFolderName), nil
	}
}

func (r *Resolver) RepositoriesRoot() (string, error) {
	return r.join(RepositoriesDirName)
}

func (r *Resolver) RepositoryPath(name string) (string, error) {
	root, err := r.RepositoriesRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func (r *Resolver) RemoteRegistryPath() (string, error) {
	return r.join(RemoteRegistryFile)
}

func (r *Resolver) AccountPath() (string, error) {
	return r.join(AccountFile)
}

func (r *Resolver) SettingsPath() (string, error) {
	return r.join(SettingsFile)
}

func (r *Resolver) LocksDir() (string, error) {
	return r.join(LocksDirName)
}

func (r *Resolver) BackupsDir() (string, error) {
	return r.join(BackupsDirName)
}

func (r *Resolver) join(elem string) (string, error) {
	root, err := r.AppLocalRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, elem), nil
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv == nil {
		return ""
	}
	return r.Getenv(key)
}
