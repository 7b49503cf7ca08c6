package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig documents the defaults; a failure here means a default
// changed and the change should be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.BatchSize != 8 {
		t.Errorf("BatchSize = %d, want 8", cfg.BatchSize)
	}
	if cfg.MaxFileSize != 10*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 10MB", cfg.MaxFileSize)
	}
	if !cfg.SaveToDB {
		t.Error("SaveToDB should default to true")
	}
	if cfg.DBDir != XDGDataDir() {
		t.Errorf("DBDir = %q, want %q", cfg.DBDir, XDGDataDir())
	}
	if cfg.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", cfg.Debounce)
	}
	if cfg.JSONReport || cfg.MarkdownReport || cfg.Strict || cfg.ChangedOnly {
		t.Error("output and strictness flags should default to false")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid configuration",
			modify:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "no targets",
			modify:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero batch size",
			modify:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "json and markdown together",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "changed-only without history",
			modify: func(c *Config) {
				c.ChangedOnly = true
				c.SaveToDB = false
			},
			wantErr: ErrChangedOnlyWithoutHistory,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Debounce = -time.Second },
			wantErr: ErrInvalidDebounce,
		},
		{
			name:    "negative max file size",
			modify:  func(c *Config) { c.MaxFileSize = -1 },
			wantErr: ErrInvalidMaxFileSize,
		},
		{
			name:    "malformed ignore pattern",
			modify:  func(c *Config) { c.Ignore = []string{"drafts/[a-"} },
			wantErr: ErrInvalidPattern,
		},
		{
			name:    "valid ignore pattern",
			modify:  func(c *Config) { c.Ignore = []string{"**/drafts/**"} },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Targets = []string{"ports"}
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IgnorePatterns(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Ignore = []string{"a/**"}
	if got := cfg.IgnorePatterns(); len(got) != 1 {
		t.Errorf("IgnorePatterns() = %v, want one pattern", got)
	}

	cfg.Project = &File{Ignore: []string{"b/**", "c/*.html"}}
	got := cfg.IgnorePatterns()
	want := []string{"a/**", "b/**", "c/*.html"}
	if len(got) != len(want) {
		t.Fatalf("IgnorePatterns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IgnorePatterns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
