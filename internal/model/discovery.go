package model

import (
	"time"

	"github.com/starchart-tools/wayfarer/internal/portal"
)

// Kind identifies what type of location a DiscoveryRecord describes.
// Kind determines which attributes are populated: systems carry economy
// and conflict data, planets and moons carry survey data, bases carry
// only their name and position.
type Kind string

// Discovery kinds.
const (
	// KindSystem is a discovered solar system.
	KindSystem Kind = "system"
	// KindPlanet is a discovered planet within a system.
	KindPlanet Kind = "planet"
	// KindMoon is a discovered moon orbiting a planet.
	KindMoon Kind = "moon"
	// KindBase is a player base on a planet, moon, or station.
	KindBase Kind = "base"
)

// saveTypeNames maps the save file's type discriminant strings to kinds.
var saveTypeNames = map[string]Kind{
	"SolarSystem": KindSystem,
	"Planet":      KindPlanet,
	"Moon":        KindMoon,
	"Base":        KindBase,
}

// ParseKind converts a save-file type discriminant into a Kind.
// The second return is false for unrecognized discriminants.
func ParseKind(s string) (Kind, bool) {
	k, ok := saveTypeNames[s]
	return k, ok
}

// Mode is the game mode the save was created in. The catalog keys
// submissions on (address code, galaxy, mode) because the game generates
// an independent universe per mode.
type Mode string

// Game modes.
const (
	ModeNormal     Mode = "normal"
	ModeSurvival   Mode = "survival"
	ModeCreative   Mode = "creative"
	ModePermadeath Mode = "permadeath"
)

// ParseMode converts a save-file mode string into a Mode, defaulting to
// ModeNormal for anything unrecognized.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeSurvival, ModeCreative, ModePermadeath:
		return Mode(s)
	default:
		return ModeNormal
	}
}

// DiscoveryRecord is one normalized discovery extracted from the save:
// a system with nested planets, a planet with nested moons, or a leaf
// moon or base. Records are ephemeral, produced per pipeline run and
// discarded after classification and submission.
type DiscoveryRecord struct {
	// Kind is the location type.
	Kind Kind `json:"kind"`

	// GalaxyIndex is the raw galaxy index from the save.
	GalaxyIndex int `json:"galaxy_index"`

	// Galaxy is the player-facing galaxy name.
	Galaxy string `json:"galaxy"`

	// Address locates the discovery within the galaxy.
	Address portal.Address `json:"address"`

	// AddressCode is the 12-character encoding of Address. Empty until
	// address resolution runs; only top-level records carry one.
	AddressCode string `json:"address_code,omitempty"`

	// Name is the player-assigned (or procedural) name, NFC-normalized.
	Name string `json:"name"`

	// Discoverer is the player name credited with the discovery.
	Discoverer string `json:"discoverer"`

	// DiscoveredAt is when the discovery was made, from the save's
	// timestamp.
	DiscoveredAt time.Time `json:"discovered_at"`

	// Attributes holds the normalized key/value survey data for this
	// kind (star class, economy, sentinel level, resources, ...).
	Attributes map[string]string `json:"attributes,omitempty"`

	// Children are nested discoveries in save order: planets under a
	// system, moons under a planet, bases under their host.
	Children []DiscoveryRecord `json:"children,omitempty"`
}

// Total returns the record count including all nested children.
func (r *DiscoveryRecord) Total() int {
	n := 1
	for i := range r.Children {
		n += r.Children[i].Total()
	}
	return n
}
