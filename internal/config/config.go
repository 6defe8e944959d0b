// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	DownloadBase        string   `toml:"download_base"`         // base output directory; empty = ~/Downloads
	BatchFile           string   `toml:"batch_file"`            // URL list file, relative to the working directory
	CookieFile          string   `toml:"cookie_file"`           // exported cookie file name, colocated with the binary
	Browsers            []string `toml:"browsers"`              // browser cookie sources, tried in order
	ProbeTimeoutSeconds int      `toml:"probe_timeout_seconds"` // per-URL reachability probe budget
	DefaultFormats      string   `toml:"default_formats"`       // format selection used when none is given, e.g. "1 4" or "mp4,mp3"
	Retries             int      `toml:"retries"`
	FragmentRetries     int      `toml:"fragment_retries"`
	ConcurrentFragments int      `toml:"concurrent_fragments"`
	TitleLimit          int      `toml:"title_limit"` // max filename title length
	Debug               bool     `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DownloadBase:        "",
		BatchFile:           "urls.txt",
		CookieFile:          "cookies.txt",
		Browsers:            []string{"firefox", "chrome", "chromium"},
		ProbeTimeoutSeconds: 5,
		DefaultFormats:      "",
		Retries:             10,
		FragmentRetries:     10,
		ConcurrentFragments: 4,
		TitleLimit:          200,
		Debug:               false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ripbox"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ripbox"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the XDG-compliant data directory (download history lives here).
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ripbox"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ripbox"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.ProbeTimeoutSeconds < 1 || c.ProbeTimeoutSeconds > 9 {
		return fmt.Errorf("probe_timeout_seconds must be 1-9, got %d", c.ProbeTimeoutSeconds)
	}
	if c.Retries < 0 || c.FragmentRetries < 0 {
		return fmt.Errorf("retry counts cannot be negative")
	}
	if c.ConcurrentFragments < 1 {
		return fmt.Errorf("concurrent_fragments must be at least 1, got %d", c.ConcurrentFragments)
	}
	if c.TitleLimit < 16 {
		return fmt.Errorf("title_limit too small: %d", c.TitleLimit)
	}
	if c.BatchFile == "" {
		return fmt.Errorf("batch_file cannot be empty")
	}
	if filepath.IsAbs(c.BatchFile) {
		return fmt.Errorf("batch_file must be a relative path, got %q", c.BatchFile)
	}
	if len(c.Browsers) == 0 {
		return fmt.Errorf("browsers cannot be empty")
	}
	return nil
}
