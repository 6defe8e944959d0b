package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BatchFile != "urls.txt" {
		t.Errorf("default batch_file = %q, want urls.txt", cfg.BatchFile)
	}
	if cfg.CookieFile != "cookies.txt" {
		t.Errorf("default cookie_file = %q, want cookies.txt", cfg.CookieFile)
	}
	if len(cfg.Browsers) == 0 || cfg.Browsers[0] != "firefox" {
		t.Errorf("default browsers = %v, want firefox first", cfg.Browsers)
	}
	if cfg.ProbeTimeoutSeconds != 5 {
		t.Errorf("default probe timeout = %d, want 5", cfg.ProbeTimeoutSeconds)
	}
	if cfg.TitleLimit != 200 {
		t.Errorf("default title_limit = %d, want 200", cfg.TitleLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"probe timeout zero", func(c *Config) { c.ProbeTimeoutSeconds = 0 }, true},
		{"probe timeout too long", func(c *Config) { c.ProbeTimeoutSeconds = 30 }, true},
		{"negative retries", func(c *Config) { c.Retries = -1 }, true},
		{"zero concurrent fragments", func(c *Config) { c.ConcurrentFragments = 0 }, true},
		{"tiny title limit", func(c *Config) { c.TitleLimit = 4 }, true},
		{"empty batch file", func(c *Config) { c.BatchFile = "" }, true},
		{"absolute batch file", func(c *Config) { c.BatchFile = "/etc/urls.txt" }, true},
		{"no browsers", func(c *Config) { c.Browsers = nil }, true},
		{"custom browsers ok", func(c *Config) { c.Browsers = []string{"edge"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "ripbox")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	content := `
download_base = "~/Media"
batch_file = "queue.txt"
browsers = ["chromium"]
probe_timeout_seconds = 3
default_formats = "1 4"
debug = true
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DownloadBase != "~/Media" {
		t.Errorf("download_base = %q, want ~/Media", cfg.DownloadBase)
	}
	if cfg.BatchFile != "queue.txt" {
		t.Errorf("batch_file = %q, want queue.txt", cfg.BatchFile)
	}
	if len(cfg.Browsers) != 1 || cfg.Browsers[0] != "chromium" {
		t.Errorf("browsers = %v, want [chromium]", cfg.Browsers)
	}
	if cfg.ProbeTimeoutSeconds != 3 {
		t.Errorf("probe_timeout_seconds = %d, want 3", cfg.ProbeTimeoutSeconds)
	}
	if cfg.DefaultFormats != "1 4" {
		t.Errorf("default_formats = %q, want \"1 4\"", cfg.DefaultFormats)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	// Unset keys keep defaults.
	if cfg.CookieFile != "cookies.txt" {
		t.Errorf("cookie_file = %q, want default cookies.txt", cfg.CookieFile)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BatchFile != "urls.txt" {
		t.Errorf("missing config should yield defaults, got batch_file %q", cfg.BatchFile)
	}
}
