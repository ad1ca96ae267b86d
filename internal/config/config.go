// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "LAZYDB_CONFIG"

// Config represents the application configuration
type Config struct {
	QueryTimeout Duration                     `toml:"query_timeout"`
	Connections  map[string]Connection        `toml:"connections"`
	Keybindings  map[string]map[string]string `toml:"keybindings"`
	Theme        Theme                        `toml:"theme_colors"`

	path string
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
}

// Duration reads "30s" style values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		QueryTimeout: Duration{30 * time.Second},
		Connections:  map[string]Connection{},
		Keybindings:  map[string]map[string]string{},
		Theme: Theme{
			// Nord
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
		},
	}
}

// ResolvePath picks the config file: an explicit path, then
// $LAZYDB_CONFIG, then the XDG config dir.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return xdg.ConfigFile("lazydb/config.toml")
}

// Load reads the config at path, creating it with defaults on first run.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.path = path

	defaults := DefaultConfig()
	if cfg.Theme.TextPrimary == "" {
		cfg.Theme = defaults.Theme
	}
	if cfg.QueryTimeout.Duration < 0 {
		return nil, fmt.Errorf("query_timeout must not be negative")
	}
	for name, conn := range cfg.Connections {
		conn.Name = name
		if conn.URL != "" {
			if err := conn.applyURL(); err != nil {
				return nil, fmt.Errorf("connection %q: %w", name, err)
			}
		}
		cfg.Connections[name] = conn
	}
	if _, err := cfg.KeyTable(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path is the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Save writes the config to disk
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no path")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	// owner read/write only, passwords may live here
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Connection looks a connection up by name.
func (c *Config) Connection(name string) (Connection, bool) {
	conn, ok := c.Connections[name]
	if ok {
		conn.Name = name
	}
	return conn, ok
}

// ConnectionNames returns the configured names in sorted order.
func (c *Config) ConnectionNames() []string {
	names := make([]string, 0, len(c.Connections))
	for name := range c.Connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
