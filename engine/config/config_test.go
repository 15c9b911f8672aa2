package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
)

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	doc := "compute_workers: 3\nprofiling: true\nprofiler_interval: 2s\ndefault_blend_type: ease_in_out\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ComputeWorkers != 3 || !cfg.Profiling || cfg.ProfilerInterval != 2*time.Second {
		t.Errorf("explicit fields lost: %+v", cfg)
	}
	if cfg.TickRate != DefaultTickRate || cfg.DefaultFadeTime != DefaultFadeTime {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.BlendType() != animator.BlendTypeEaseInOut {
		t.Errorf("blend type = %v", cfg.BlendType())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.SlogLevel())
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative tick rate", "tick_rate: -1"},
		{"unknown blend", "default_blend_type: wobble"},
		{"unknown level", "log_level: loud"},
		{"negative fade", "default_fade_time: -0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped ErrNotExist", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Error(err)
	}
}
