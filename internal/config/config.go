package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds reviewdeck's settings.
type Config struct {
	APIBase              string `toml:"api_base" envconfig:"API_BASE" validate:"required,url"`
	LogFile              string `toml:"log_file" envconfig:"LOG_FILE" validate:"required"`
	LogLevel             string `toml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	RosterRefreshSeconds int    `toml:"roster_refresh_seconds" envconfig:"ROSTER_REFRESH_SECONDS" validate:"gte=0"`
	TopicWords           int    `toml:"topic_words" envconfig:"TOPIC_WORDS" validate:"gte=1,lte=20"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-" ignored:"true"`
}

const (
	envPrefix         = "REVIEWDECK"
	defaultConfigPath = "~/.config/reviewdeck/config.toml"
	defaultAPIBase    = "http://127.0.0.1:8000"
	defaultLogFile    = "~/.local/state/reviewdeck/reviewdeck.log"
	defaultLogLevel   = "info"
	defaultTopicWords = 5
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:    defaultAPIBase,
		LogFile:    mustExpand(defaultLogFile),
		LogLevel:   defaultLogLevel,
		TopicWords: defaultTopicWords,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the TOML file at path (or the default location), applies
// REVIEWDECK_* environment overrides, and validates the result. A missing
// file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	cfg.Path = path
	return nil
}

func normalize(cfg *Config) {
	cfg.APIBase = strings.TrimSpace(cfg.APIBase)
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if !strings.Contains(cfg.APIBase, "://") {
		cfg.APIBase = "http://" + cfg.APIBase
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")

	cfg.LogFile = strings.TrimSpace(cfg.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.TopicWords == 0 {
		cfg.TopicWords = defaultTopicWords
	}
}

var validate = validator.New()

// Validate checks field constraints and reports the first few violations in
// config-file terms.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", tomlKey(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func tomlKey(field string) string {
	switch field {
	case "APIBase":
		return "api_base"
	case "LogFile":
		return "log_file"
	case "LogLevel":
		return "log_level"
	case "RosterRefreshSeconds":
		return "roster_refresh_seconds"
	case "TopicWords":
		return "topic_words"
	default:
		return field
	}
}

// Overrides are command-line values that win over the file and environment.
// Empty fields leave the loaded value alone.
type Overrides struct {
	APIBase  string
	LogLevel string
}

// Apply returns a copy of c with o applied, normalized and validated again.
func (c Config) Apply(o Overrides) (Config, error) {
	if v := strings.TrimSpace(o.APIBase); v != "" {
		c.APIBase = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.LogLevel = v
	}
	normalize(&c)
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// RosterRefresh returns the periodic roster refresh interval; zero disables it.
func (c Config) RosterRefresh() time.Duration {
	return time.Duration(c.RosterRefreshSeconds) * time.Second
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	return filepath.Dir(c.LogFile)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
