// Package config implements the Configuration loader of SPEC_FULL.md §6.1:
// one of TOML/YAML/JSON/INI selected by the extension found on disk, a
// field-by-field overlay of defaults -> config file -> CLI flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/rainfrog/rainfrog/internal/parser"
)

// DBConn is one entry of the config file's `db` table.
type DBConn struct {
	Driver           string `toml:"driver" yaml:"driver" json:"driver"`
	Default          bool   `toml:"default" yaml:"default" json:"default"`
	ConnectionString string `toml:"connection_string" yaml:"connection_string" json:"connection_string"`
	Host             string `toml:"host" yaml:"host" json:"host"`
	Port             string `toml:"port" yaml:"port" json:"port"`
	Database         string `toml:"database" yaml:"database" json:"database"`
	Username         string `toml:"username" yaml:"username" json:"username"`
}

// Settings mirrors spec.md §6's `settings` table.
type Settings struct {
	MouseMode          *bool `toml:"mouse_mode,omitempty" yaml:"mouse_mode,omitempty" json:"mouse_mode,omitempty"`
	DataCompactColumns *bool `toml:"data_compact_columns,omitempty" yaml:"data_compact_columns,omitempty" json:"data_compact_columns,omitempty"`
	DataRowSpacer      *bool `toml:"data_row_spacer,omitempty" yaml:"data_row_spacer,omitempty" json:"data_row_spacer,omitempty"`
}

// Config is the fully-parsed config-file shape. Keybindings/Styles stay as
// raw string maps here; internal/config's sibling Keymap loader resolves
// Keybindings against the action registry (SPEC_FULL.md §6.2).
type Config struct {
	Keybindings map[string]map[string]string `toml:"keybindings" yaml:"keybindings" json:"keybindings"`
	Styles      map[string]map[string]string `toml:"styles" yaml:"styles" json:"styles"`
	Settings    Settings                      `toml:"settings" yaml:"settings" json:"settings"`
	DB          map[string]DBConn             `toml:"db" yaml:"db" json:"db"`
}

// Defaults returns the built-in baseline, the lowest-precedence layer of
// the merge order (defaults -> config file -> CLI flags).
func Defaults() Config {
	mouse := true
	return Config{
		Settings: Settings{MouseMode: &mouse},
		DB:       map[string]DBConn{},
	}
}

// Dir returns the config directory, creating it if absent.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, "rainfrog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create config dir: %w", err)
	}
	return dir, nil
}

// FavoritesDir returns the favorites subdirectory under the config dir.
func FavoritesDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	favDir := filepath.Join(dir, "favorites")
	if err := os.MkdirAll(favDir, 0o755); err != nil {
		return "", fmt.Errorf("config: create favorites dir: %w", err)
	}
	return favDir, nil
}

// candidateExtensions lists the extensions Load probes for, in the order
// that decides "first match wins" when more than one happens to exist.
var candidateExtensions = []string{".toml", ".yaml", ".yml", ".json", ".ini"}

// Load finds "config.<ext>" under dir for the first extension on disk and
// parses it, overlaying onto Defaults(). Returns Defaults() unmodified,
// with no error, if no config file exists at all — an absent config is
// not a configuration error.
func Load(dir string) (Config, error) {
	cfg := Defaults()

	path, ext, found := findConfigFile(dir)
	if !found {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse TOML %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse YAML %s: %w", path, err)
		}
	case ".json":
		// JSON5 from spec.md §6 is accepted as plain JSON: no JSON5 parser
		// exists anywhere in the reachable ecosystem, and none of the
		// recognized keys need JSON5's trailing-comma/comment syntax.
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse JSON %s: %w", path, err)
		}
	case ".ini":
		if err := loadINI(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse INI %s: %w", path, err)
		}
	}
	return cfg, nil
}

func findConfigFile(dir string) (path, ext string, found bool) {
	for _, e := range candidateExtensions {
		p := filepath.Join(dir, "config"+e)
		if _, err := os.Stat(p); err == nil {
			return p, e, true
		}
	}
	return "", "", false
}

// loadINI covers only the flat `settings` section; INI has no native
// nested-map support for `keybindings`/`styles`/`db`, so those sections are
// simply unavailable via an INI config file — a documented limitation
// rather than a half-built nested-key encoding scheme.
func loadINI(path string, cfg *Config) error {
	f, err := ini.Load(path)
	if err != nil {
		return err
	}
	sec := f.Section("settings")
	if sec.HasKey("mouse_mode") {
		v := sec.Key("mouse_mode").MustBool(true)
		cfg.Settings.MouseMode = &v
	}
	if sec.HasKey("data_compact_columns") {
		v := sec.Key("data_compact_columns").MustBool(false)
		cfg.Settings.DataCompactColumns = &v
	}
	if sec.HasKey("data_row_spacer") {
		v := sec.Key("data_row_spacer").MustBool(false)
		cfg.Settings.DataRowSpacer = &v
	}
	return nil
}

// ApplyFlags overlays CLI-flag-derived connection options onto cfg,
// producing the final, highest-precedence DBConn. An empty flag value
// never overwrites a config-file value.
func ApplyFlags(cfg Config, name string, driver parser.DriverTag, url, host, port, database, username string) DBConn {
	conn := cfg.DB[name]
	if driver != "" {
		conn.Driver = string(driver)
	}
	if url != "" {
		conn.ConnectionString = url
	}
	if host != "" {
		conn.Host = host
	}
	if port != "" {
		conn.Port = port
	}
	if database != "" {
		conn.Database = database
	}
	if username != "" {
		conn.Username = username
	}
	return conn
}
