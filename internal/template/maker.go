package template

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
)

// MakerOptions 模板制作选项，零值表示不排除任何文件且不限制大小
type MakerOptions struct {
	Exclude       []string // 排除规则（glob，支持 **）
	MaxFiles      int      // 最多文件数，0 表示不限制
	MaxTotalBytes int64    // 内容总字节数上限，0 表示不限制
	MaxDepth      int      // 相对路径最多层级，0 表示不限制
	Now           func() time.Time
	NewID         func() string
	Logger        *slog.Logger
}

// Maker 将目录制作为模板快照
type Maker struct {
	opts     MakerOptions
	excluder *Excluder
}

func NewMaker(opts MakerOptions) *Maker {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Maker{opts: opts, excluder: NewExcluder(opts.Exclude)}
}

// Make walks dir and returns a Local template holding every regular file in
// it. Symlinks and special files are not stored. The source tree is only read.
func (m *Maker) Make(name, dir string, description *string) (*Template, error) {
	if err := namespace.ValidateTemplateName(name); err != nil {
		return nil, err
	}

	root, err := m.resolveRoot(dir)
	if err != nil {
		return nil, err
	}

	tree := make(map[string][]byte)
	var total int64

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return apperr.Wrap(apperr.ErrNotFound, walkErr, "cannot read %s", p)
		}
		if p == root {
			return nil
		}

		key, err := relativeKey(root, p)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if m.excluder.Excluded(key, true) {
				m.opts.Logger.Debug("directory excluded", slog.String("path", key))
				return filepath.SkipDir
			}
			return nil
		}
		if m.excluder.Excluded(key, false) {
			m.opts.Logger.Debug("file excluded", slog.String("path", key))
			return nil
		}
		if !d.Type().IsRegular() {
			m.opts.Logger.Debug("non-regular file skipped", slog.String("path", key), slog.String("mode", d.Type().String()))
			return nil
		}

		if m.opts.MaxDepth > 0 && strings.Count(key, "/")+1 > m.opts.MaxDepth {
			return apperr.InvalidInput("%s is nested deeper than %d levels", key, m.opts.MaxDepth)
		}
		if m.opts.MaxFiles > 0 && len(tree) >= m.opts.MaxFiles {
			return apperr.InvalidInput("directory %s has more than %d files", dir, m.opts.MaxFiles)
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return apperr.Wrap(apperr.ErrNotFound, err, "cannot read %s", p)
		}
		total += int64(len(content))
		if m.opts.MaxTotalBytes > 0 && total > m.opts.MaxTotalBytes {
			return apperr.InvalidInput("directory %s is larger than %d bytes", dir, m.opts.MaxTotalBytes)
		}

		tree[key] = content
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.opts.Logger.Debug("template made",
		slog.String("name", name),
		slog.String("source", root),
		slog.Int("files", len(tree)),
		slog.Int64("bytes", total))

	var desc *string
	if description != nil {
		d := *description
		desc = &d
	}

	return &Template{
		ID:          m.opts.NewID(),
		Name:        name,
		Description: desc,
		CreatedAt:   m.opts.Now(),
		FileTree:    tree,
		Type:        TypeLocal,
	}, nil
}

func (m *Maker) resolveRoot(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.NotFound("directory %s does not exist", dir)
		}
		return "", apperr.Wrap(apperr.ErrNotFound, err, "directory %s is not readable", dir)
	}
	if !info.IsDir() {
		return "", apperr.InvalidInput("%s is not a directory", dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInternal, err, "resolve %s", dir)
	}
	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrNotFound, err, "directory %s is not readable", dir)
	}
	return root, nil
}

// relativeKey strips root from p and normalises separators to "/". A path
// outside root means the walk broke its own invariant.
func relativeKey(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInternal, err, "%s is not under %s", p, root)
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperr.Internal("%s is not under %s", p, root)
	}
	return filepath.ToSlash(rel), nil
}

// ValidateKey checks a stored file tree key before it is written anywhere.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return apperr.InvalidInput("invalid template path %q", key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return apperr.InvalidInput("invalid template path %q", key)
		}
	}
	if filepath.VolumeName(filepath.FromSlash(key)) != "" {
		return apperr.InvalidInput("invalid template path %q", key)
	}
	return nil
}
