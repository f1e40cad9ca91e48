package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wayfarer"

	// DefaultCatalogURL is the community star catalog API root.
	DefaultCatalogURL = "https://api.starchart.dev"

	// DefaultSavePattern matches the game's save slots: save.hg for the
	// first slot, save2.hg and up for the rest.
	DefaultSavePattern = "save*.hg"

	// DefaultDebounce is the quiet period after the last save write
	// before a run starts. The game rewrites the save in bursts; two
	// seconds comfortably outlasts a burst without feeling laggy.
	DefaultDebounce = 2 * time.Second

	// DefaultTimeout bounds one catalog request end to end.
	DefaultTimeout = 30 * time.Second

	// DefaultMinRadius is the distance from the galactic center, in
	// voxel units, below which addresses are considered void regions
	// the game never generates.
	DefaultMinRadius = 4.0

	// DefaultUserAgent identifies the agent in catalog requests.
	DefaultUserAgent = "Wayfarer/1.0 (+https://github.com/starchart-tools/wayfarer)"
)

// Config holds all configuration for the agent. Populated from
// defaults, the YAML config file, and CLI flags, in that order.
type Config struct {
	// SaveDir is the directory the game writes save files into.
	// Required for the watch and run commands.
	SaveDir string

	// SavePattern is the glob matched against save file base names.
	SavePattern string

	// Debounce is the quiet period after the last save write before a
	// run starts.
	Debounce time.Duration

	// CatalogURL is the catalog API root.
	CatalogURL string

	// APIKey authenticates catalog requests. When empty, submissions
	// are spooled to a local file instead of sent.
	APIKey string

	// DataDir is where the store database and spool live. Empty means
	// the XDG data directory.
	DataDir string

	// KeymapPath points to a YAML overlay extending the built-in
	// obfuscated-key table. Empty means built-in only.
	KeymapPath string

	// MinRadius overrides the void-region floor for address
	// validation. Zero means DefaultMinRadius.
	MinRadius float64

	// Timeout bounds one catalog request.
	Timeout time.Duration

	// UserAgent is sent with catalog requests.
	UserAgent string

	// Verbose enables debug-level log output.
	Verbose bool

	// LogJSON emits log lines as JSON instead of text, for collection
	// by another tool.
	LogJSON bool

	// Force reprocesses the save even when its content is unchanged.
	Force bool

	// JSONReport and MarkdownReport select the output format for run
	// and status reports. Mutually exclusive; neither means plain text.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file location. Empty means
	// search the standard locations.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		SavePattern: DefaultSavePattern,
		Debounce:    DefaultDebounce,
		CatalogURL:  DefaultCatalogURL,
		Timeout:     DefaultTimeout,
		MinRadius:   DefaultMinRadius,
		UserAgent:   DefaultUserAgent,
	}
}

// StoreDir returns the directory holding the agent's database.
func (c *Config) StoreDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return XDGDataDir()
}

// SpoolPath returns the file submissions are spooled to when no API
// key is configured.
func (c *Config) SpoolPath() string {
	return filepath.Join(c.StoreDir(), "spool.jsonl")
}

// XDGDataDir returns the XDG data directory for the agent.
// On Linux: ~/.local/share/wayfarer
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the agent.
// On Linux: ~/.config/wayfarer
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration, returning the first problem found
// as a sentinel error usable with errors.Is.
func (c *Config) Validate() error {
	if c.SaveDir == "" {
		return ErrNoSaveDir
	}
	if c.SavePattern == "" {
		return ErrNoSavePattern
	}
	if c.Debounce <= 0 {
		return ErrInvalidDebounce
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MinRadius < 0 {
		return ErrInvalidMinRadius
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
