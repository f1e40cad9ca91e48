// Package model defines the domain value types shared across the agent:
// discovery records extracted from the save, upload history entries,
// queue items awaiting delivery, unknown-key diagnostics, and the
// per-run report the pipeline accumulates.
//
// Types here are plain data with no behavior beyond parsing and
// formatting; the packages that produce and consume them hold the logic.
package model
