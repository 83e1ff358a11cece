package template

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/utils"
)

// ApplyTemplate 将模板内容写入目标目录，返回写入的相对路径
//
// Every key is checked before anything is written. Existing files are only
// replaced when force is set.
func ApplyTemplate(t *Template, targetDir string, force bool) ([]string, error) {
	root, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "resolve %s", targetDir)
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return nil, apperr.InvalidInput("%s is not a directory", targetDir)
	}

	keys := t.Paths()
	targets := make([]string, len(keys))
	for i, key := range keys {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
		target := filepath.Join(root, filepath.FromSlash(key))
		if !strings.HasPrefix(target, root+string(filepath.Separator)) {
			return nil, apperr.InvalidInput("template path %q escapes %s", key, targetDir)
		}
		targets[i] = target

		if force {
			continue
		}
		if _, err := os.Lstat(target); err == nil {
			return nil, apperr.AlreadyExists("%s already exists in %s (use --force to overwrite)", key, targetDir)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrInternal, err, "check %s", target)
		}
	}

	for i, key := range keys {
		if err := utils.AtomicWriteFile(targets[i], t.FileTree[key], 0644); err != nil {
			return nil, apperr.Wrap(apperr.ErrInternal, err, "write %s", key)
		}
	}
	return keys, nil
}
