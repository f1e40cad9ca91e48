package keymap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultVersion identifies the save-format generation the built-in
// table was captured from.
const defaultVersion = "4155"

// defaultKeys is the built-in obfuscated-key table. Tokens are the
// game's compact identifiers; values are canonical field names the
// extractor understands.
var defaultKeys = map[string]string{
	"F2P": "Version",
	"8>q": "GameMode",
	"vLc": "DiscoveryManager",
	"N:8": "Records",
	">Gb": "Type",
	"f=Q": "Name",
	"0A-": "Address",
	"GQ:": "Galaxy",
	"dZ4": "VoxelX",
	"dZ5": "VoxelY",
	"dZ6": "VoxelZ",
	"uw1": "System",
	"uw2": "Planet",
	"p6o": "Parent",
	"ksu": "Discoverer",
	"B2h": "Timestamp",
	"XJ>": "Attributes",
	"1o9": "StarClass",
	"SLa": "Economy",
	"SLb": "EconomyLevel",
	"wxB": "Conflict",
	"L[0": "Sentinels",
	"c?v": "Flora",
	"c?w": "Fauna",
	"Rc3": "Resources",
}

// Table is an immutable, versioned obfuscated-key lookup. Construct one
// with Default or Load; concurrent readers are safe because a Table is
// never mutated after construction.
type Table struct {
	version string
	keys    map[string]string
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{version: defaultVersion, keys: defaultKeys}
}

// Version returns the save-format generation the table targets.
func (t *Table) Version() string { return t.version }

// Len returns the number of known keys.
func (t *Table) Len() int { return len(t.keys) }

// Resolve maps an obfuscated key to its canonical name. The second
// return is false when the key is unknown; callers must then pass the
// key through unchanged.
func (t *Table) Resolve(key string) (string, bool) {
	name, ok := t.keys[key]
	return name, ok
}

// overlayFile is the YAML shape of a user-provided table overlay.
type overlayFile struct {
	// Version replaces the table version when non-empty.
	Version string `yaml:"version"`
	// Keys are merged over the built-in table, overriding collisions.
	Keys map[string]string `yaml:"keys"`
}

// Load returns the built-in table merged with the overlay file at path.
// A missing file is not an error; the default table is returned, since
// the overlay is an optional escape hatch for new game builds.
func Load(path string) (*Table, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-provided overlay path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("failed to read key table overlay: %w", err)
	}

	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse key table overlay: %w", err)
	}

	merged := make(map[string]string, len(base.keys)+len(overlay.Keys))
	for k, v := range base.keys {
		merged[k] = v
	}
	for k, v := range overlay.Keys {
		merged[k] = v
	}

	version := base.version
	if overlay.Version != "" {
		version = overlay.Version
	}
	return &Table{version: version, keys: merged}, nil
}
