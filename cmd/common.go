package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
	"github.com/YangQing-Lin/templo-cli/internal/paths"
	"github.com/YangQing-Lin/templo-cli/internal/remote"
	"github.com/YangQing-Lin/templo-cli/internal/repository"
	"github.com/YangQing-Lin/templo-cli/internal/settings"
	"github.com/YangQing-Lin/templo-cli/internal/template"
)

// appEnv 一次命令执行所需的环境（数据目录、设置、日志）
type appEnv struct {
	paths    *paths.Resolver
	settings *settings.Settings
	logger   *slog.Logger
	out      io.Writer
}

// loadEnv resolves the data root, loads settings and builds the logger.
// Precedence: flags, then environment, then config.yaml.
func loadEnv(cmd *cobra.Command) (*appEnv, error) {
	override := homeDir
	if override == "" {
		override = os.Getenv(paths.EnvHome)
	}
	resolver, err := paths.New(override)
	if err != nil {
		return nil, err
	}
	if err := resolver.CheckPlatform(); err != nil {
		return nil, err
	}

	settingsPath, err := resolver.SettingsPath()
	if err != nil {
		return nil, err
	}
	manager, err := settings.NewManager(settingsPath)
	if err != nil {
		return nil, err
	}
	if err := manager.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	s := manager.Get()

	if langFlag != "" {
		if langFlag != settings.LanguageEnglish && langFlag != settings.LanguageChinese {
			return nil, apperr.InvalidInput("unsupported language %q (supported: en, zh)", langFlag)
		}
		s.Language = langFlag
	}
	i18n.SetLanguage(s.Language)

	level := s.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("environment loaded", slog.String("settings", settingsPath), slog.String("language", s.Language))

	return &appEnv{
		paths:    resolver,
		settings: s,
		logger:   logger,
		out:      cmd.OutOrStdout(),
	}, nil
}

func (e *appEnv) openStore(repo string) (*repository.Store, error) {
	return repository.Connect(e.paths, repo,
		repository.WithLogger(e.logger),
		repository.WithBackups(e.settings.Backups.Retain))
}

// resolve parses a namespace argument and opens its repository.
func (e *appEnv) resolve(arg string) (namespace.Namespace, *repository.Store, error) {
	ns, err := namespace.Resolve(arg)
	if err != nil {
		return ns, nil, err
	}
	store, err := e.openStore(ns.Repository)
	if err != nil {
		return ns, nil, err
	}
	return ns, store, nil
}

// maker builds a Maker from settings plus per-command exclude patterns.
func (e *appEnv) maker(extraExclude []string) *template.Maker {
	exclude := append(append([]string{}, e.settings.Exclude...), extraExclude...)
	return template.NewMaker(template.MakerOptions{
		Exclude:       exclude,
		MaxFiles:      e.settings.Limits.MaxFiles,
		MaxTotalBytes: e.settings.Limits.MaxTotalBytes,
		MaxDepth:      e.settings.Limits.MaxDepth,
		Logger:        e.logger,
	})
}

// remoteClient connects to the registry entry chosen in settings.
func (e *appEnv) remoteClient() (remote.Client, error) {
	registryPath, err := e.paths.RemoteRegistryPath()
	if err != nil {
		return nil, err
	}
	registry, err := remote.LoadRegistry(registryPath)
	if err != nil {
		return nil, err
	}
	baseURL, err := registry.Resolve(e.settings.Remote.Registry)
	if err != nil {
		return nil, err
	}
	client, err := remote.NewHTTPClient(baseURL, e.settings.Remote.Timeout, e.logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (e *appEnv) accountPath() (string, error) {
	return e.paths.AccountPath()
}

// success 输出成功信息
func (e *appEnv) success(msg string) {
	color.New(color.FgGreen).Fprint(e.out, "✓ ")
	fmt.Fprintln(e.out, msg)
}

func (e *appEnv) doneIn(start time.Time) {
	color.New(color.FgHiBlack).Fprintln(e.out, i18n.T("done_in", time.Since(start).Round(time.Millisecond)))
}
