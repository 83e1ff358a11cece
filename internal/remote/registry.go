package remote

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"net/url"
	"os"
	"slices"

	"github.com/tidwall/jsonc"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
)

// Registry 远程仓库注册表（remote-repos-registry.json，允许注释和尾逗号）
type Registry struct {
	Default      string            `json:"default"`
	Repositories map[string]string `json:"repositories"`
}

// LoadRegistry reads the registry file. A missing file is an empty registry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Registry{Repositories: map[string]string{}}, nil
		}
		return nil, apperr.Wrap(apperr.ErrInternal, err, "cannot read remote registry")
	}

	var reg Registry
	if err := json.Unmarshal(jsonc.ToJSON(data), &reg); err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "remote registry %s is corrupted", path)
	}
	if reg.Repositories == nil {
		reg.Repositories = map[string]string{}
	}
	return &reg, nil
}

// Names returns the registered remote names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.Repositories))
}

// Resolve returns the base URL for name. An empty name selects the default
// entry, or the only entry when no default is set.
func (r *Registry) Resolve(name string) (string, error) {
	if name == "" {
		name = r.Default
	}
	if name == "" {
		switch len(r.Repositories) {
		case 0:
			return "", apperr.NotFound("no remote repository is registered")
		case 1:
			name = r.Names()[0]
		default:
			return "", apperr.InvalidInput("several remote repositories are registered; set a default")
		}
	}

	raw, ok := r.Repositories[name]
	if !ok {
		return "", apperr.NotFound("remote repository %q is not registered", name)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.InvalidInput("remote repository %q has an invalid url %q", name, raw)
	}
	return raw, nil
}
