// Package pipeline executes one save-processing run as a sequence of
// steps: decode the save container, deobfuscate its keys, extract
// discovery records, resolve address codes, classify against local
// history and the remote catalog, and submit what is productive.
//
// Each step receives the accumulated run report and records its results
// there. A single record's failure never aborts a run; only a save that
// cannot be decoded does. The Runner on top serializes runs triggered
// by the save watcher so a write burst mid-run coalesces into one
// follow-up run instead of piling up.
package pipeline
