package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/AnyUserName/imgconv/internal/config"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "imgconv.log")
	logger, err := New(config.LogConfig{Level: "info", Format: "json", Outputs: []string{path}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("converted", zap.String("format", "png"))
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `"msg":"converted"`) || !strings.Contains(text, `"format":"png"`) {
		t.Errorf("log line missing fields: %s", text)
	}
	if strings.Contains(text, "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestNew_RotatedFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.log")
	logger, err := New(config.LogConfig{
		Level:    "debug",
		Format:   "console",
		Outputs:  []string{path},
		Rotation: config.RotationConfig{Enable: true, MaxSizeMB: 1, MaxBackups: 1},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("rotating sink")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "rotating sink") {
		t.Errorf("missing message: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zap.AtomicLevel
		ok   bool
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel), true},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel), true},
		{"WARNING", zap.NewAtomicLevelAt(zap.WarnLevel), true},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel), true},
		{"loud", zap.AtomicLevel{}, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseLevel(%q): err=%v", tt.in, err)
			continue
		}
		if tt.ok && got.Level() != tt.want.Level() {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got.Level(), tt.want.Level())
		}
	}
}
