package extract

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/starchart-tools/wayfarer/internal/galaxy"
	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/portal"
	"github.com/starchart-tools/wayfarer/internal/savefile"
)

// Extractor turns a deobfuscated document tree into discovery records.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Result is the outcome of one extraction pass.
type Result struct {
	// Records are the top-level discoveries in save order. Planets nest
	// under their system, moons under their planet, bases under their
	// host; entries whose parent is absent from this save surface at
	// top level instead of being lost.
	Records []model.DiscoveryRecord
	// Extracted counts every recovered record, including children.
	Extracted int
	// Dropped counts records missing a mandatory field.
	Dropped int
}

// Meta reads the save version and game mode from the document root.
// Missing fields fall back to zero and ModeNormal.
func Meta(root savefile.Node) (version int, mode model.Mode) {
	if n, ok := savefile.GetPath(root, "Version"); ok {
		version, _ = savefile.Int(n)
	}
	mode = model.ModeNormal
	if n, ok := savefile.GetPath(root, "GameMode"); ok {
		if s, ok := savefile.String(n); ok {
			mode = model.ParseMode(s)
		}
	}
	return version, mode
}

// node is the mutable assembly form of a record; children are attached
// here and the tree is materialized into value records at the end.
type node struct {
	rec      model.DiscoveryRecord
	parent   int // moon/base host planet index from the save
	children []*node
}

// systemKey identifies a system for parent matching.
type systemKey struct {
	galaxy, x, y, z, system int
}

// Extract walks DiscoveryManager.Records and assembles the nested
// discovery tree. It never returns an error: an unusable document
// yields an empty result.
func (e *Extractor) Extract(root savefile.Node) Result {
	var res Result

	recordsNode, ok := savefile.GetPath(root, "DiscoveryManager", "Records")
	if !ok {
		e.logger.Warn("save document has no discovery records")
		return res
	}
	list, ok := recordsNode.(savefile.List)
	if !ok {
		e.logger.Warn("discovery records are not a list")
		return res
	}

	// Parse flat, preserving save order within each kind.
	var systems, planets, moons, bases []*node
	for _, raw := range list {
		n, kind, ok := e.parseRecord(raw)
		if !ok {
			res.Dropped++
			continue
		}
		switch kind {
		case model.KindSystem:
			systems = append(systems, n)
		case model.KindPlanet:
			planets = append(planets, n)
		case model.KindMoon:
			moons = append(moons, n)
		case model.KindBase:
			bases = append(bases, n)
		}
	}

	// Attach children: planets to systems, moons to planets, bases to
	// their host planet (falling back to the system). Orphans become
	// top-level records.
	bySystem := make(map[systemKey]*node, len(systems))
	top := make([]*node, 0, len(systems))
	for _, s := range systems {
		bySystem[keyOf(s)] = s
		top = append(top, s)
	}

	for _, p := range planets {
		if host, ok := bySystem[systemOf(p)]; ok {
			host.children = append(host.children, p)
		} else {
			top = append(top, p)
		}
	}
	for _, m := range moons {
		if host := findPlanet(bySystem[systemOf(m)], m.parent); host != nil {
			host.children = append(host.children, m)
		} else {
			top = append(top, m)
		}
	}
	for _, b := range bases {
		sys := bySystem[systemOf(b)]
		if host := findPlanet(sys, b.rec.Address.Planet); host != nil {
			host.children = append(host.children, b)
		} else if sys != nil {
			sys.children = append(sys.children, b)
		} else {
			top = append(top, b)
		}
	}

	res.Records = materialize(top)
	for i := range res.Records {
		res.Extracted += res.Records[i].Total()
	}
	return res
}

// parseRecord converts one raw save record. ok is false when a
// mandatory field (recognized type, name, address) is missing.
func (e *Extractor) parseRecord(raw savefile.Node) (*node, model.Kind, bool) {
	m, ok := raw.(savefile.Map)
	if !ok {
		return nil, "", false
	}

	typeStr, _ := stringAt(m, "Type")
	kind, ok := model.ParseKind(typeStr)
	if !ok {
		e.logger.Debug("skipping record with unknown type", "type", typeStr)
		return nil, "", false
	}

	name := normalizeName(firstString(m, "Name"))
	if name == "" {
		e.logger.Debug("skipping unnamed record", "kind", kind)
		return nil, "", false
	}

	addrNode, ok := m["Address"]
	if !ok {
		e.logger.Debug("skipping record without address", "kind", kind, "name", name)
		return nil, "", false
	}
	addrMap, ok := addrNode.(savefile.Map)
	if !ok {
		return nil, "", false
	}

	galaxyIdx := intAt(addrMap, "Galaxy")
	rec := model.DiscoveryRecord{
		Kind:        kind,
		GalaxyIndex: galaxyIdx,
		Galaxy:      galaxy.Name(galaxyIdx),
		Address: portal.Address{
			VoxelX: intAt(addrMap, "VoxelX"),
			VoxelY: intAt(addrMap, "VoxelY"),
			VoxelZ: intAt(addrMap, "VoxelZ"),
			System: intAt(addrMap, "System"),
			Planet: intAt(addrMap, "Planet"),
		},
		Name:       name,
		Discoverer: firstString(m, "Discoverer"),
	}
	if ts := int64At(m, "Timestamp"); ts > 0 {
		rec.DiscoveredAt = time.Unix(ts, 0).UTC()
	}
	rec.Attributes = e.attributes(kind, m)

	return &node{rec: rec, parent: intAt(m, "Parent")}, kind, true
}

// attributes normalizes the kind-specific survey data. Missing optional
// fields resolve to documented defaults rather than being omitted, so
// the catalog payload is always fully populated.
func (e *Extractor) attributes(kind model.Kind, m savefile.Map) map[string]string {
	attrNode, _ := m["Attributes"]
	attrs, _ := attrNode.(savefile.Map)

	out := make(map[string]string)
	switch kind {
	case model.KindSystem:
		star := firstString(attrs, "StarClass")
		if star == "" {
			star = "G"
		}
		out["star_class"] = star
		out["economy"] = galaxy.EconomyType(intAt(attrs, "Economy"))
		out["economy_level"] = galaxy.EconomyLevel(intAt(attrs, "EconomyLevel"))
		out["conflict"] = galaxy.ConflictLevel(intAt(attrs, "Conflict"))
	case model.KindPlanet, model.KindMoon:
		out["sentinels"] = galaxy.SentinelLevel(intAt(attrs, "Sentinels")).String()
		out["flora"] = lifeTier(attrs, "Flora").String()
		out["fauna"] = lifeTier(attrs, "Fauna").String()
		if resources := galaxy.Resources(savefile.Strings(nodeAt(attrs, "Resources"))); resources != nil {
			out["resources"] = strings.Join(resources, ", ")
		}
	case model.KindBase:
		// Bases carry no survey data beyond name and position.
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// lifeTier reads a flora/fauna tier, distinguishing "absent" (never
// surveyed) from an explicit zero (surveyed, none found).
func lifeTier(attrs savefile.Map, key string) galaxy.LifeTier {
	if attrs == nil {
		return galaxy.TierUnsurveyed
	}
	n, ok := attrs[key]
	if !ok {
		return galaxy.TierUnsurveyed
	}
	v, ok := savefile.Int(n)
	if !ok {
		return galaxy.TierUnsurveyed
	}
	return galaxy.LifeTier(v)
}

// normalizeName NFC-normalizes and trims a player-entered name.
func normalizeName(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func keyOf(n *node) systemKey {
	return systemKey{
		galaxy: n.rec.GalaxyIndex,
		x:      n.rec.Address.VoxelX,
		y:      n.rec.Address.VoxelY,
		z:      n.rec.Address.VoxelZ,
		system: n.rec.Address.System,
	}
}

// systemOf is keyOf for child records, which share their system's
// voxel and system index.
func systemOf(n *node) systemKey { return keyOf(n) }

// findPlanet locates the child planet with the given index under a
// system node, or nil.
func findPlanet(sys *node, planetIndex int) *node {
	if sys == nil {
		return nil
	}
	for _, c := range sys.children {
		if c.rec.Kind == model.KindPlanet && c.rec.Address.Planet == planetIndex {
			return c
		}
	}
	return nil
}

// materialize converts the assembly tree into value records.
func materialize(nodes []*node) []model.DiscoveryRecord {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]model.DiscoveryRecord, len(nodes))
	for i, n := range nodes {
		rec := n.rec
		rec.Children = materialize(n.children)
		out[i] = rec
	}
	return out
}

// Node field helpers. The save's numbers may arrive as JSON numbers or
// numeric strings depending on the game build, so intAt accepts both.

func nodeAt(m savefile.Map, key string) savefile.Node {
	if m == nil {
		return nil
	}
	return m[key]
}

func stringAt(m savefile.Map, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	n, ok := m[key]
	if !ok {
		return "", false
	}
	return savefile.String(n)
}

func firstString(m savefile.Map, key string) string {
	s, _ := stringAt(m, key)
	return s
}

func intAt(m savefile.Map, key string) int {
	if m == nil {
		return 0
	}
	n, ok := m[key]
	if !ok {
		return 0
	}
	if v, ok := savefile.Int(n); ok {
		return v
	}
	if s, ok := savefile.String(n); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v
		}
	}
	return 0
}

func int64At(m savefile.Map, key string) int64 {
	if m == nil {
		return 0
	}
	n, ok := m[key]
	if !ok {
		return 0
	}
	v, _ := savefile.Int64(n)
	return v
}
