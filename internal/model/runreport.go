package model

import (
	"fmt"
	"time"

	"github.com/starchart-tools/wayfarer/internal/savefile"
)

// RunReport accumulates the state and outcome of one pipeline run.
// Steps read what earlier steps produced and record their own results;
// the report is rendered once at run end. A single record's failure
// never aborts the run, so the counters, not an error, are the primary
// outcome.
type RunReport struct {
	// SavePath is the save file this run processed.
	SavePath string
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Fingerprint is the digest of the raw save bytes.
	Fingerprint string
	// SaveVersion is the save-format version from the decoded document.
	SaveVersion int
	// Mode is the game mode the save was created in.
	Mode Mode
	// TableVersion is the obfuscated-key table version used.
	TableVersion string

	// Document is the deobfuscated canonical tree. Ephemeral; cleared
	// when the run finishes.
	Document savefile.Node
	// Records are the extracted top-level discoveries.
	Records []DiscoveryRecord

	// Skipped is set when the save content was unchanged and the run
	// ended early without extraction.
	Skipped bool

	// Counters.
	Extracted   int // records recovered, including children
	Dropped     int // records missing mandatory fields
	Rejected    int // records with invalid addresses
	Submitted   int // productive submissions this run
	Queued      int // submissions deferred to the offline queue
	Duplicates  int // records already uploaded or known remotely
	Edits       int // submissions classified as edits
	Failed      int // permanent submission failures
	UnknownKeys int // unknown obfuscated keys observed

	// Err is the fatal error that aborted the run, if any. Only a save
	// decode failure aborts; everything else degrades to counters.
	Err error
}

// Summary renders the one-line outcome used for notifications and logs.
func (r *RunReport) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("run failed: %v", r.Err)
	}
	if r.Skipped {
		return "save unchanged, run skipped"
	}
	return fmt.Sprintf(
		"extracted %d (dropped %d, rejected %d): %d submitted, %d queued, %d duplicates, %d edits, %d failed, %d unknown keys",
		r.Extracted, r.Dropped, r.Rejected,
		r.Submitted, r.Queued, r.Duplicates, r.Edits, r.Failed, r.UnknownKeys,
	)
}

// Duration returns the wall-clock duration of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
