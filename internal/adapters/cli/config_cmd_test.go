package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxWiklund/txConverter/internal/config"
)

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", "--config", path, "--gamma"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Defaults.Gamma {
		t.Error("gamma = false, want true from --gamma")
	}

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show", "--config", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out.String(), "gamma: true") {
		t.Errorf("config show output = %q, want gamma: true", out.String())
	}
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--config", path})
	if err := root.Execute(); err == nil {
		t.Error("config init over an existing file should fail without --force")
	}
}

func TestConfigShow_TOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "config", "show", "--format", "toml", "--config", path)
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "[defaults]") || !strings.Contains(out, "retention = ") || !strings.Contains(out, "30d") {
		t.Errorf("config show output = %q", out)
	}

	if _, err := execute(t, "config", "show", "--format", "ini", "--config", path); err == nil {
		t.Error("config show --format ini should fail")
	}
}
