// Package portal converts in-game galactic addresses to and from the
// catalog's fixed-width 12-character address codes.
//
// The code packs a planet index, a solar system index, and three signed
// voxel axes into positional hex fields. Negative axis values are stored
// as modular complements (value + modulus), mirroring how the game itself
// renders portal glyph sequences.
//
// Design decision: the codec rejects addresses the catalog can never
// accept (the origin void region, a zero system index, out-of-range
// planet indexes) at encode time rather than letting the server bounce
// them. A rejected address fails only that record, never the run.
package portal
