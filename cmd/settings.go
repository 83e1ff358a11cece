package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/settings"
)

var setSettings []string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "显示或修改设置",
	Long: `显示或修改 config.yaml 中的设置。

示例:
  templo settings                            # 显示所有设置
  templo settings --set language=zh          # 切换为中文
  templo settings --set backups.retain=10    # 保留 10 个自动备份
  templo settings --set remote.timeout=1m    # 远程请求超时

可用设置项: language, log_level, remote.registry, remote.timeout, backups.retain,
limits.max_files, limits.max_total_bytes, limits.max_depth.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettings(cmd)
	},
}

func init() {
	settingsCmd.Flags().StringArrayVar(&setSettings, "set", nil, "设置项 (格式: key=value，可重复)")

	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	path, err := env.paths.SettingsPath()
	if err != nil {
		return err
	}

	if len(setSettings) > 0 {
		// Environment and flag overrides must not end up in the file.
		manager, err := settings.NewManager(path)
		if err != nil {
			return err
		}
		for _, kv := range setSettings {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return apperr.InvalidInput("设置格式错误 %q，应为: key=value", kv)
			}
			if err := setSetting(manager, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
				return err
			}
		}
		if err := manager.Save(); err != nil {
			return err
		}
		for _, kv := range setSettings {
			env.success(kv)
		}
		return nil
	}

	s := env.settings
	out := env.out
	fmt.Fprintf(out, "Settings (%s):\n", path)
	fmt.Fprintf(out, "  language:               %s\n", s.Language)
	fmt.Fprintf(out, "  log_level:              %s\n", s.LogLevel)
	fmt.Fprintf(out, "  exclude:                %s\n", strings.Join(s.Exclude, ", "))
	fmt.Fprintf(out, "  limits.max_files:       %d\n", s.Limits.MaxFiles)
	fmt.Fprintf(out, "  limits.max_total_bytes: %d (%s)\n", s.Limits.MaxTotalBytes, humanize.IBytes(uint64(s.Limits.MaxTotalBytes)))
	fmt.Fprintf(out, "  limits.max_depth:       %d\n", s.Limits.MaxDepth)
	registry := s.Remote.Registry
	if registry == "" {
		registry = "(default)"
	}
	fmt.Fprintf(out, "  remote.registry:        %s\n", registry)
	fmt.Fprintf(out, "  remote.timeout:         %s\n", s.Remote.Timeout)
	fmt.Fprintf(out, "  backups.retain:         %d\n", s.Backups.Retain)
	return nil
}

func setSetting(m *settings.Manager, key, value string) error {
	s := m.Get()
	var err error
	switch key {
	case "language":
		return m.SetLanguage(value)
	case "log_level":
		err = s.LogLevel.UnmarshalText([]byte(value))
	case "remote.registry":
		s.Remote.Registry = value
	case "remote.timeout":
		s.Remote.Timeout, err = time.ParseDuration(value)
	case "backups.retain":
		s.Backups.Retain, err = strconv.Atoi(value)
	case "limits.max_files":
		s.Limits.MaxFiles, err = strconv.Atoi(value)
	case "limits.max_total_bytes":
		var n uint64
		n, err = humanize.ParseBytes(value)
		s.Limits.MaxTotalBytes = int64(n)
	case "limits.max_depth":
		s.Limits.MaxDepth, err = strconv.Atoi(value)
	default:
		return apperr.InvalidInput("未知的设置项: %s", key)
	}
	if err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, err, "invalid value for %s", key)
	}
	return nil
}
