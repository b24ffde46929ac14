package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults" toml:"defaults"`
	Paths    PathsConfig    `yaml:"paths" toml:"paths"`
	Scan     ScanConfig     `yaml:"scan" toml:"scan"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// DefaultsConfig holds default values for new elements
type DefaultsConfig struct {
	TargetExt string `yaml:"target_ext" toml:"target_ext"`
	Gamma     bool   `yaml:"gamma" toml:"gamma"`
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	MakeTx string `yaml:"maketx" toml:"maketx"`
}

// ScanConfig controls directory discovery
type ScanConfig struct {
	Extensions  []string `yaml:"extensions" toml:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs" toml:"exclude_dirs"`
}

// HistoryConfig controls how long conversion reports are kept
type HistoryConfig struct {
	Retention string `yaml:"retention" toml:"retention"`
}

// LogConfig controls the log output
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DefaultExtensions lists the image formats picked up by a scan
var DefaultExtensions = []string{".exr", ".tif", ".tiff", ".png", ".jpg", ".jpeg", ".hdr", ".tga"}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	exts := make([]string, len(DefaultExtensions))
	copy(exts, DefaultExtensions)

	return &Config{
		Defaults: DefaultsConfig{
			TargetExt: ".tx",
			Gamma:     false,
		},
		Paths: PathsConfig{
			MakeTx: "",
		},
		Scan: ScanConfig{
			Extensions: exts,
		},
		History: HistoryConfig{
			Retention: "30d",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// AppDir returns the application directory (~/.txconverter)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".txconverter"
	}
	return filepath.Join(home, ".txconverter")
}

// BinDir returns the directory searched first for a bundled maketx
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// HistoryDir returns the directory holding conversion reports
func HistoryDir() string {
	return filepath.Join(AppDir(), "history")
}

// HistoryLockPath returns the lock file guarding history writes
func HistoryLockPath() string {
	return filepath.Join(AppDir(), "history.lock")
}

// LogPath returns the log file
func LogPath() string {
	return filepath.Join(AppDir(), "txconverter.log")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), BinDir(), HistoryDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal(FormatOf(path))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Config file formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatOf picks the format from the file extension. Anything but .toml is YAML.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

func isTOML(path string) bool {
	return FormatOf(path) == FormatTOML
}

// Marshal encodes the config as yaml or toml
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(c)
	case FormatTOML:
		return toml.Marshal(c)
	}
	return nil, fmt.Errorf("unknown config format %q (use yaml or toml)", format)
}

// Validate checks values that cannot be repaired silently
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Defaults.TargetExt, ".") || len(c.Defaults.TargetExt) < 2 {
		return fmt.Errorf("invalid target_ext %q (use a form like .tx)", c.Defaults.TargetExt)
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid scan extension %q (must start with a dot)", ext)
		}
	}
	if _, err := c.GetRetention(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// GetRetention parses the history retention as a time.Duration
func (c *Config) GetRetention() (time.Duration, error) {
	return ParseDuration(c.History.Retention)
}

var durationPattern = regexp.MustCompile(`^(\d+)(h|d)$`)

// ParseDuration parses duration strings like "24h", "7d", "30d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 24h, 7d)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	if matches[2] == "d" {
		return time.Duration(value) * 24 * time.Hour, nil
	}
	return time.Duration(value) * time.Hour, nil
}

// ParseLevel maps a config log level to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}
