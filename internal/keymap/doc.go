// Package keymap translates the save file's obfuscated field identifiers
// back to canonical names.
//
// The game ships a compact dispatch table of short tokens in place of
// field names; this package models it as a versioned immutable lookup
// with an explicit pass-through-on-miss policy. Unknown keys are never
// dropped; they stay in the tree so extraction can still attempt
// structural recovery, and each one is reported once per run with its
// first-seen path. Partial extraction beats total failure when the save
// format drifts ahead of the table.
//
// An optional YAML overlay lets users patch the table for new game builds
// without waiting for a release.
package keymap
