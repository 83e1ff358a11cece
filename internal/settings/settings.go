// Package settings loads config.yaml from the data root.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/utils"
)

// Environment overrides. They apply for one run and are never saved.
const (
	EnvLogLevel = "TEMPLO_LOG_LEVEL"
	EnvLanguage = "TEMPLO_LANG"
)

// Supported languages.
const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
)

// Settings 应用设置（config.yaml）
type Settings struct {
	Language string     `yaml:"language"`  // 语言: "en" 或 "zh"
	LogLevel slog.Level `yaml:"log_level"` // debug / info / warn / error
	Exclude  []string   `yaml:"exclude"`   // save 时默认排除的规则
	Limits   Limits     `yaml:"limits"`
	Remote   Remote     `yaml:"remote"`
	Backups  Backups    `yaml:"backups"`
}

// Limits 制作模板时的目录遍历限制，0 表示不限制
type Limits struct {
	MaxFiles      int   `yaml:"max_files"`
	MaxTotalBytes int64 `yaml:"max_total_bytes"`
	MaxDepth      int   `yaml:"max_depth"`
}

// Remote 远程模板服务设置
type Remote struct {
	Registry string        `yaml:"registry"` // remote-repos-registry.json 中的条目名，空表示默认
	Timeout  time.Duration `yaml:"timeout"`
}

// Backups 自动备份设置
type Backups struct {
	Retain int `yaml:"retain"` // 保留数量，0 表示全部保留，-1 关闭自动备份
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Language: LanguageEnglish,
		LogLevel: slog.LevelWarn,
		Exclude:  []string{},
		Limits: Limits{
			MaxFiles:      10000,
			MaxTotalBytes: 256 << 20,
			MaxDepth:      64,
		},
		Remote:  Remote{Timeout: 30 * time.Second},
		Backups: Backups{Retain: 5},
	}
}

func (s *Settings) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Language, validation.Required, validation.In(LanguageEnglish, LanguageChinese)),
	); err != nil {
		return err
	}
	if err := s.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if err := s.Remote.Validate(); err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	if err := s.Backups.Validate(); err != nil {
		return fmt.Errorf("backups: %w", err)
	}
	return nil
}

func (l *Limits) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.MaxFiles, validation.Min(0)),
		validation.Field(&l.MaxTotalBytes, validation.Min(int64(0))),
		validation.Field(&l.MaxDepth, validation.Min(0)),
	)
}

func (r *Remote) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Timeout, validation.Min(time.Duration(0))),
	)
}

func (b *Backups) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Retain, validation.Min(-1), validation.Max(100)),
	)
}

// Manager 设置管理器
type Manager struct {
	settings     *Settings
	settingsPath string
}

// NewManager loads the settings at path, writing the defaults on first use.
func NewManager(path string) (*Manager, error) {
	m := &Manager{settingsPath: path}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load 加载设置文件；文件不存在时写入默认设置
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.settingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		m.settings = Default()
		return m.Save()
	}
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "读取设置文件失败")
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, err, "解析设置文件 %s 失败", m.settingsPath)
	}
	if s.Exclude == nil {
		s.Exclude = []string{}
	}
	if err := s.Validate(); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, err, "设置文件 %s 无效", m.settingsPath)
	}
	m.settings = s
	return nil
}

// Save 保存设置文件
func (m *Manager) Save() error {
	if err := m.settings.Validate(); err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, err, "设置无效")
	}
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "序列化设置失败")
	}
	if err := utils.AtomicWriteFile(m.settingsPath, data, 0600); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "保存设置文件失败")
	}
	return nil
}

// ApplyEnv overrides settings from the environment for this run only.
func (m *Manager) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return apperr.Wrap(apperr.ErrInvalidInput, err, "invalid %s", EnvLogLevel)
		}
		m.settings.LogLevel = level
	}
	if v := getenv(EnvLanguage); v != "" {
		if v != LanguageEnglish && v != LanguageChinese {
			return apperr.InvalidInput("invalid %s %q (supported: en, zh)", EnvLanguage, v)
		}
		m.settings.Language = v
	}
	return nil
}

// SetLanguage 设置语言，调用 Save 后写入文件
func (m *Manager) SetLanguage(language string) error {
	if language != LanguageEnglish && language != LanguageChinese {
		return apperr.InvalidInput("不支持的语言: %s (支持: en, zh)", language)
	}
	m.settings.Language = language
	return nil
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.settingsPath
}

// Get 获取所有设置
func (m *Manager) Get() *Settings {
	return m.settings
}
