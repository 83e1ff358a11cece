// Package repository persists the templates of one named repository.
//
// A repository is a single storage unit file holding the whole collection.
// Every mutating call runs a full cycle under the repository lock: load the
// unit, change the collection in memory, back up the previous unit, then
// atomically replace it. A failed mutation never writes. Reads skip the lock
// because the unit is only ever replaced by rename.
package repository

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/backup"
	"github.com/YangQing-Lin/templo-cli/internal/lock"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
	"github.com/YangQing-Lin/templo-cli/internal/paths"
	"github.com/YangQing-Lin/templo-cli/internal/template"
	"github.com/YangQing-Lin/templo-cli/internal/utils"
)

const unitPerm = 0644

// Store gives access to one repository's templates.
type Store struct {
	name      string
	unitPath  string
	backupDir string
	lock      *lock.Lock
	retain    int
	wait      time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now for timestamps set by the store.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBackups sets how many automatic backups are kept; negative disables them.
func WithBackups(retain int) Option {
	return func(s *Store) { s.retain = retain }
}

// WithLockWait sets how long a mutation waits for another process.
func WithLockWait(d time.Duration) Option {
	return func(s *Store) { s.wait = d }
}

// Connect opens the repository called name, creating the repositories root
// and an empty storage unit on first use.
func Connect(r *paths.Resolver, name string, opts ...Option) (*Store, error) {
	if err := namespace.ValidateRepositoryName(name); err != nil {
		return nil, err
	}

	root, err := r.RepositoriesRoot()
	if err != nil {
		return nil, err
	}
	locksDir, err := r.LocksDir()
	if err != nil {
		return nil, err
	}
	backupsDir, err := r.BackupsDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "cannot create repositories folder")
	}

	s := &Store{
		name:      name,
		unitPath:  filepath.Join(root, name),
		backupDir: filepath.Join(backupsDir, name),
		lock:      lock.NewLock(locksDir, name),
		retain:    backup.MaxAutoBackups,
		wait:      lock.DefaultWait,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	info, err := os.Stat(s.unitPath)
	switch {
	case err == nil && info.IsDir():
		return nil, apperr.Internal("repository %q storage is a directory: %s", name, s.unitPath)
	case err == nil:
		return s, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, apperr.Wrap(apperr.ErrInternal, err, "cannot open repository %q", name)
	}

	err = s.withLock(func() error {
		if utils.FileExists(s.unitPath) {
			return nil
		}
		s.logger.Debug("creating repository", slog.String("repository", name), slog.String("path", s.unitPath))
		return s.write(template.NewCollection(name))
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListRepositories returns the names of all repositories, sorted.
func ListRepositories(r *paths.Resolver) ([]string, error) {
	root, err := r.RepositoriesRoot()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, apperr.Wrap(apperr.ErrInternal, err, "cannot read repositories folder")
	}

	names := []string{}
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if namespace.ValidateRepositoryName(e.Name()) != nil {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) Name() string {
	return s.name
}

// Path returns the storage unit location.
func (s *Store) Path() string {
	return s.unitPath
}

func (s *Store) HasTemplate(name string) (bool, error) {
	c, err := s.load()
	if err != nil {
		return false, err
	}
	return c.Index(name) >= 0, nil
}

func (s *Store) GetTemplate(name string) (*template.Template, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	i := c.Index(name)
	if i < 0 {
		return nil, s.notFound(name)
	}
	return &c.Templates[i], nil
}

// ListTemplates returns the repository's templates in insertion order.
func (s *Store) ListTemplates() ([]template.Template, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	return c.Templates, nil
}

func (s *Store) SaveTemplate(t *template.Template) error {
	if t == nil {
		return apperr.InvalidInput("no template to save")
	}
	if t.Type == template.TypeRemote {
		return apperr.InvalidInput("remote template %q cannot be saved as a local record", t.Name)
	}
	if err := namespace.ValidateTemplateName(t.Name); err != nil {
		return err
	}
	for key := range t.FileTree {
		if err := template.ValidateKey(key); err != nil {
			return err
		}
	}

	return s.update(func(c *template.Collection) error {
		if c.Index(t.Name) >= 0 {
			return apperr.AlreadyExists("template %q already exists in %q repository", t.Name, s.name)
		}
		saved := t.Clone()
		saved.Type = template.TypeLocal
		saved.Owner = ""
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = s.now()
		}
		c.Templates = append(c.Templates, *saved)
		s.logger.Debug("template saved", slog.String("repository", s.name), slog.String("template", t.Name), slog.Int("files", saved.FileCount()))
		return nil
	})
}

func (s *Store) DeleteTemplate(name string) error {
	return s.update(func(c *template.Collection) error {
		i := c.Index(name)
		if i < 0 {
			return s.notFound(name)
		}
		c.Templates = slices.Delete(c.Templates, i, i+1)
		s.logger.Debug("template deleted", slog.String("repository", s.name), slog.String("template", name))
		return nil
	})
}

// UpdateTemplateContent replaces the file tree and description of name with
// those of next. ID and CreatedAt are kept; UpdatedAt is set to now.
func (s *Store) UpdateTemplateContent(name string, next *template.Template) error {
	if next == nil {
		return apperr.InvalidInput("no template content to update %q with", name)
	}
	for key := range next.FileTree {
		if err := template.ValidateKey(key); err != nil {
			return err
		}
	}

	return s.update(func(c *template.Collection) error {
		i := c.Index(name)
		if i < 0 {
			return s.notFound(name)
		}
		fresh := next.Clone()
		cur := &c.Templates[i]
		cur.FileTree = fresh.FileTree
		cur.Description = fresh.Description

		now := s.now()
		if !now.After(cur.CreatedAt) {
			now = cur.CreatedAt.Add(time.Nanosecond)
		}
		cur.UpdatedAt = &now
		s.logger.Debug("template content updated", slog.String("repository", s.name), slog.String("template", name), slog.Int("files", cur.FileCount()))
		return nil
	})
}

func (s *Store) UpdateTemplateName(oldName, newName string) error {
	if err := namespace.ValidateTemplateName(newName); err != nil {
		return err
	}

	return s.update(func(c *template.Collection) error {
		i := c.Index(oldName)
		if i < 0 {
			return s.notFound(oldName)
		}
		if c.Index(newName) >= 0 {
			return apperr.AlreadyExists("template %q already exists in %q repository", newName, s.name)
		}
		c.Templates[i].Name = newName
		s.logger.Debug("template renamed", slog.String("repository", s.name), slog.String("from", oldName), slog.String("to", newName))
		return nil
	})
}

// UpdateTemplateDescription replaces the description; nil clears it.
func (s *Store) UpdateTemplateDescription(name string, description *string) error {
	return s.update(func(c *template.Collection) error {
		i := c.Index(name)
		if i < 0 {
			return s.notFound(name)
		}
		if description == nil {
			c.Templates[i].Description = nil
		} else {
			d := *description
			c.Templates[i].Description = &d
		}
		return nil
	})
}

func (s *Store) notFound(name string) error {
	return apperr.NotFound("template %q was not found in %q repository", name, s.name)
}

// load reads and decodes the storage unit. A unit that does not decode fails
// the whole call; it is never treated as an empty repository.
func (s *Store) load() (*template.Collection, error) {
	data, err := os.ReadFile(s.unitPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("repository %q does not exist", s.name)
		}
		return nil, apperr.Wrap(apperr.ErrInternal, err, "cannot read repository %q", s.name)
	}
	return decodeCollection(s.name, data)
}

func decodeCollection(name string, data []byte) (*template.Collection, error) {
	var c template.Collection
	if err := utils.DecodeJSON(data, &c); err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, err, "repository %q is corrupted", name)
	}
	if c.Version > template.CollectionVersion {
		return nil, apperr.Internal("repository %q uses storage version %d, newer than supported %d", name, c.Version, template.CollectionVersion)
	}

	seen := make(map[string]bool, len(c.Templates))
	for i := range c.Templates {
		t := &c.Templates[i]
		if seen[t.Name] {
			return nil, apperr.Internal("repository %q is corrupted: duplicate template %q", name, t.Name)
		}
		seen[t.Name] = true
		t.Type = template.TypeLocal
		if t.FileTree == nil {
			t.FileTree = map[string][]byte{}
		}
	}
	if c.Templates == nil {
		c.Templates = []template.Template{}
	}
	c.Version = template.CollectionVersion
	c.Repository = name
	return &c, nil
}

func (s *Store) update(fn func(c *template.Collection) error) error {
	return s.withLock(func() error {
		c, err := s.load()
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if _, err := backup.CreateAutoBackup(s.unitPath, s.backupDir, s.retain); err != nil {
			s.logger.Warn("auto backup failed", slog.String("repository", s.name), slog.String("error", err.Error()))
		}
		return s.write(c)
	})
}

func (s *Store) write(c *template.Collection) error {
	if err := utils.WriteEncodedFile(s.unitPath, c, unitPerm); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "cannot write repository %q", s.name)
	}
	s.logger.Debug("repository written", slog.String("repository", s.name), slog.Int("templates", len(c.Templates)))
	return nil
}

func (s *Store) withLock(fn func() error) error {
	if err := s.lock.Acquire(s.wait); err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return apperr.Wrap(apperr.ErrInternal, err, "repository %q is busy", s.name)
		}
		return apperr.Wrap(apperr.ErrInternal, err, "cannot lock repository %q", s.name)
	}
	defer func() {
		if err := s.lock.Release(); err != nil {
			s.logger.Warn("release lock failed", slog.String("repository", s.name), slog.String("error", err.Error()))
		}
	}()
	return fn()
}
