package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.TargetExt != ".tx" {
		t.Errorf("Default target ext = %s, want .tx", cfg.Defaults.TargetExt)
	}
	if cfg.Defaults.Gamma {
		t.Error("Default gamma = true, want false")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Default log level = %s, want info", cfg.Log.Level)
	}
	if len(cfg.Scan.Extensions) == 0 {
		t.Error("Default scan extensions empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestDefaultConfig_ExtensionsNotShared(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scan.Extensions[0] = ".changed"

	if DefaultExtensions[0] == ".changed" {
		t.Error("DefaultConfig() must copy DefaultExtensions")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantSecs int64
		wantErr  bool
	}{
		{"24h", 86400, false},
		{"7d", 604800, false},
		{"30d", 2592000, false},
		{"1h", 3600, false},
		{"invalid", 0, true},
		{"5m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dur, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDuration(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if err == nil && int64(dur.Seconds()) != tt.wantSecs {
				t.Errorf("ParseDuration(%s) = %v, want %d seconds", tt.input, dur, tt.wantSecs)
			}
		})
	}
}

func TestConfig_Save_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Defaults.Gamma = true
	cfg.Paths.MakeTx = "/opt/oiio/bin/maketx"
	cfg.Scan.ExcludeDirs = []string{"cache"}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !loaded.Defaults.Gamma {
		t.Error("Loaded gamma = false, want true")
	}
	if loaded.Paths.MakeTx != "/opt/oiio/bin/maketx" {
		t.Errorf("Loaded maketx = %s, want /opt/oiio/bin/maketx", loaded.Paths.MakeTx)
	}
	if len(loaded.Scan.ExcludeDirs) != 1 || loaded.Scan.ExcludeDirs[0] != "cache" {
		t.Errorf("Loaded exclude dirs = %v, want [cache]", loaded.Scan.ExcludeDirs)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.TargetExt != ".tx" {
		t.Errorf("target ext = %s, want .tx", cfg.Defaults.TargetExt)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  gamma: true\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Defaults.Gamma {
		t.Error("gamma = false, want true")
	}
	if cfg.Defaults.TargetExt != ".tx" {
		t.Errorf("target ext = %q, want default .tx", cfg.Defaults.TargetExt)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "defaults: [\n"},
		{"bad target ext", "defaults:\n  target_ext: tx\n"},
		{"bad scan ext", "scan:\n  extensions: [exr]\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad retention", "history:\n  retention: forever\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAppDir(t *testing.T) {
	dir := AppDir()
	if dir == "" {
		t.Error("AppDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".txconverter")
	if dir != expected {
		t.Errorf("AppDir() = %s, want %s", dir, expected)
	}
}

func TestConfig_SaveLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Defaults.Gamma = true
	cfg.Scan.ExcludeDirs = []string{"cache"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "[defaults]") {
		t.Errorf("saved file is not TOML:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Defaults.Gamma || len(loaded.Scan.ExcludeDirs) != 1 || loaded.Scan.ExcludeDirs[0] != "cache" {
		t.Errorf("Load() = %+v", loaded)
	}
}

func TestLoad_PartialTOMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[history]\nretention = \"7d\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.Retention != "7d" || cfg.Defaults.TargetExt != ".tx" {
		t.Errorf("Load() = %+v, want retention 7d with default target ext", cfg)
	}
}
