// Package store provides the agent's durable local state: upload
// history, the offline submission queue, unknown-key diagnostics, and
// key/value settings.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Uniqueness and FIFO constraints map directly onto the schema
// 4. WAL mode lets the status command read while the agent writes
//
// All mutations go through a single writer: one SQL connection plus a
// store-level mutex, so the pipeline path and the queue-drain path can
// never interleave partial writes.
package store
