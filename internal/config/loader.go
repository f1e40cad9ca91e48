package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config file names, searched in order: an explicit --config path, the
// XDG config directory, then a dotfile in the home directory.
const (
	DefaultConfigFile = "wayfarer.yaml"
	homeConfigFile    = ".wayfarer.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not
// exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML shape of the config file. Every field is optional;
// unset fields keep their defaults or CLI values.
type File struct {
	SaveDir     string  `yaml:"save_dir"`
	SavePattern string  `yaml:"save_pattern"`
	Debounce    string  `yaml:"debounce"`
	CatalogURL  string  `yaml:"catalog_url"`
	APIKey      string  `yaml:"api_key"`
	DataDir     string  `yaml:"data_dir"`
	Keymap      string  `yaml:"keymap"`
	MinRadius   float64 `yaml:"min_radius"`
	Timeout     string  `yaml:"timeout"`
	UserAgent   string  `yaml:"user_agent"`
	LogJSON     bool    `yaml:"log_json"`
}

// LoadConfigFile reads and parses a YAML config file. A missing file
// returns ErrConfigNotFound; callers decide whether that matters based
// on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile locates the config file: the explicit path if given,
// then wayfarer.yaml in the XDG config directory, then .wayfarer.yaml
// in the home directory. Returns "" when nothing exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, homeConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply overlays the file's set fields onto the config. Durations are
// parsed from Go duration strings ("2s", "500ms").
func (f *File) Apply(c *Config) error {
	if f.SaveDir != "" {
		c.SaveDir = f.SaveDir
	}
	if f.SavePattern != "" {
		c.SavePattern = f.SavePattern
	}
	if f.Debounce != "" {
		d, err := time.ParseDuration(f.Debounce)
		if err != nil {
			return fmt.Errorf("invalid debounce %q: %w", f.Debounce, err)
		}
		c.Debounce = d
	}
	if f.CatalogURL != "" {
		c.CatalogURL = f.CatalogURL
	}
	if f.APIKey != "" {
		c.APIKey = f.APIKey
	}
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.Keymap != "" {
		c.KeymapPath = f.Keymap
	}
	if f.MinRadius > 0 {
		c.MinRadius = f.MinRadius
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", f.Timeout, err)
		}
		c.Timeout = d
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.LogJSON {
		c.LogJSON = true
	}
	return nil
}

// Load assembles a Config from defaults and the config file found via
// configPath. A missing implicit config file is not an error.
func Load(configPath string) (*Config, error) {
	c := NewConfig()
	c.ConfigFilePath = configPath

	found := FindConfigFile(configPath)
	if found == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return c, nil
	}

	f, err := LoadConfigFile(found)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(c); err != nil {
		return nil, err
	}
	c.ConfigFilePath = found
	return c, nil
}
