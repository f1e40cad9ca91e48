// Package galaxy provides the static lookup tables that translate the
// save file's enumerated identifiers into the catalog's vocabulary:
// galaxy names, economy and conflict descriptors, sentinel activity,
// flora and fauna tiers, and resource names.
//
// Everything in this package is pure and stateless. Unknown indexes map
// to documented fallbacks rather than errors, because a save produced by
// a newer game build must still extract.
package galaxy
