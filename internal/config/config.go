package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Host  HostSettings  `toml:"host"`
	Scan  ScanSettings  `toml:"scan"`
	Spawn SpawnSettings `toml:"spawn"`
	UI    UISettings    `toml:"ui"`
	Log   LogSettings   `toml:"log"`
}

// HostSettings configure the simulated editor
type HostSettings struct {
	Toolbox   string   `toml:"toolbox"`    // toolbox XML, embedded default when empty
	Blocks    string   `toml:"blocks"`     // block definitions YAML, embedded default when empty
	BootDelay Duration `toml:"boot_delay"` // time until the editor reports itself loaded
	Watch     bool     `toml:"watch"`      // reload and rescan when the files change
}

// ScanSettings configure catalog discovery
type ScanSettings struct {
	PollInterval Duration `toml:"poll_interval"`
	SettleDelay  Duration `toml:"settle_delay"`
	RetryAfter   Duration `toml:"retry_after"` // 0 never re-requests an unanswered scan
}

// SpawnSettings configure block placement
type SpawnSettings struct {
	Jitter float64 `toml:"jitter"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Hotkeys []string `toml:"hotkeys"`
	Mouse   bool     `toml:"mouse"`
}

// LogSettings configure the log file
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a time.Duration written as a string such as "500ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Host: HostSettings{
			BootDelay: Duration{800 * time.Millisecond},
			Watch:     true,
		},
		Scan: ScanSettings{
			PollInterval: Duration{500 * time.Millisecond},
			SettleDelay:  Duration{1500 * time.Millisecond},
			RetryAfter:   Duration{10 * time.Second},
		},
		Spawn: SpawnSettings{
			Jitter: 20,
		},
		UI: UISettings{
			// ctrl+f stands in for ctrl+shift+f, which terminals cannot tell apart
			Hotkeys: []string{"ctrl+p", "ctrl+k", "ctrl+f"},
			Mouse:   true,
		},
		Log: LogSettings{
			Level: "info",
			File:  "blockpalette.log",
		},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "blockpalette", "config.toml")
}

// Load reads the config file at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative source paths are relative to the config file
	base := filepath.Dir(path)
	cfg.Host.Toolbox = resolve(base, cfg.Host.Toolbox)
	cfg.Host.Blocks = resolve(base, cfg.Host.Blocks)
	return cfg, nil
}

// Save writes the configuration to path, creating its directory
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	if c.Scan.PollInterval.Duration <= 0 {
		return fmt.Errorf("invalid configuration: scan.poll_interval must be positive")
	}
	if c.Scan.SettleDelay.Duration < 0 || c.Scan.RetryAfter.Duration < 0 || c.Host.BootDelay.Duration < 0 {
		return fmt.Errorf("invalid configuration: durations must not be negative")
	}
	if c.Spawn.Jitter < 0 {
		return fmt.Errorf("invalid configuration: spawn.jitter must not be negative")
	}
	if len(c.UI.Hotkeys) == 0 {
		return fmt.Errorf("invalid configuration: ui.hotkeys must not be empty")
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
