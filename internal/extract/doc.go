// Package extract walks the deobfuscated save document and produces
// normalized discovery records: systems with nested planets, planets
// with nested moons, and bases attached to their host.
//
// Extraction is best-effort by design. A record missing a mandatory
// field (name or address) is dropped and counted, never raised as an
// error, and unrecognized type discriminants are skipped the same way.
// Partial extraction beats total failure when the save format drifts.
package extract
