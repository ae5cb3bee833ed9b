package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgconv.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if cfg.Server.Addr != def.Server.Addr {
		t.Errorf("addr: got %q, want %q", cfg.Server.Addr, def.Server.Addr)
	}
	if cfg.Convert.Quality != 75 {
		t.Errorf("quality: got %d", cfg.Convert.Quality)
	}
	if cfg.Server.UniformErrors {
		t.Error("uniform_errors should default to false")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  max_upload_mb: 8
  shutdown_timeout: 3s
  uniform_errors: true
convert:
  quality: 90
  auto_orient: true
log:
  level: debug
  format: json
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MaxUploadMB != 8 {
		t.Errorf("server: got %+v", cfg.Server)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("shutdown_timeout: got %v", cfg.Server.ShutdownTimeout)
	}
	if !cfg.Server.UniformErrors {
		t.Error("uniform_errors not read")
	}
	if cfg.Convert.Quality != 90 || !cfg.Convert.AutoOrient {
		t.Errorf("convert: got %+v", cfg.Convert)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log: got %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("IMGCONV_SERVER_ADDR", ":7000")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr: got %q, want :7000", cfg.Server.Addr)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IMGCONV_CONVERT_QUALITY", "50")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("quality", 0, "")
	fs.String("addr", "", "")
	if err := fs.Parse([]string{"--quality=95"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Convert.Quality != 95 {
		t.Errorf("quality: got %d, want 95", cfg.Convert.Quality)
	}
	// Unset flags must not clobber defaults.
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr: got %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"log level", "log:\n  level: loud\n"},
		{"log format", "log:\n  format: xml\n"},
		{"quality", "convert:\n  quality: 150\n"},
		{"upload limit", "server:\n  max_upload_mb: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body), nil); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
