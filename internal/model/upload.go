package model

import "time"

// UploadStatus is the catalog's disposition of a submitted discovery.
type UploadStatus string

// Upload statuses.
const (
	// StatusPending means the catalog accepted the submission but a
	// moderator has not reviewed it yet.
	StatusPending UploadStatus = "pending"
	// StatusApproved means the submission is live in the catalog.
	StatusApproved UploadStatus = "approved"
	// StatusRejected means a moderator declined the submission.
	StatusRejected UploadStatus = "rejected"
)

// ParseUploadStatus converts a string into an UploadStatus, defaulting
// to StatusPending for anything unrecognized.
func ParseUploadStatus(s string) UploadStatus {
	switch UploadStatus(s) {
	case StatusApproved, StatusRejected:
		return UploadStatus(s)
	default:
		return StatusPending
	}
}

// UploadRecord is the durable memory of one productive submission.
// Unique on (address code, galaxy, mode); created when a submission
// succeeds, updated by later status checks, and never deleted except by
// an explicit purge.
type UploadRecord struct {
	// ID is the local store row identifier.
	ID int64
	// AddressCode is the 12-character address code.
	AddressCode string
	// Galaxy is the galaxy name the code belongs to.
	Galaxy string
	// Mode is the game mode the discovery was made in.
	Mode Mode
	// Name is the discovery name at submission time.
	Name string
	// SubmissionID is the catalog's identifier for the submission.
	SubmissionID string
	// Status is the catalog's current disposition.
	Status UploadStatus
	// IsEdit records whether the submission was an edit of an existing
	// catalog entry.
	IsEdit bool
	// UploadedAt is when the submission succeeded.
	UploadedAt time.Time
}

// QueueItem is one submission waiting in the durable offline queue.
// Created on transient submission failure; removed on success or
// permanent rejection; parked (kept but excluded from automatic drains)
// after exhausting its retry budget.
type QueueItem struct {
	// ID is the local store row identifier; drain order is ascending ID.
	ID int64
	// Record is the snapshot of the discovery to submit.
	Record DiscoveryRecord
	// AddressCode is the resolved address code for the record.
	AddressCode string
	// Mode is the game mode the discovery was made in.
	Mode Mode
	// QueuedAt is when the item first entered the queue.
	QueuedAt time.Time
	// RetryCount is how many delivery attempts have failed.
	RetryCount int
	// LastError describes the most recent failure.
	LastError string
	// NextAttemptAt is the earliest time the drain loop may retry.
	NextAttemptAt time.Time
	// Parked marks an item that exhausted its retries and now waits for
	// a manual retry.
	Parked bool
	// IsEdit marks a submission that edits an existing catalog entry.
	IsEdit bool
	// EditID is the catalog id being edited when IsEdit is set.
	EditID string
}

// UnknownKey is one accumulated unknown-key diagnostic. Deduplicated by
// key string; first_seen is preserved across re-sightings.
type UnknownKey struct {
	// Key is the obfuscated identifier with no mapping.
	Key string
	// FirstSeen is when the key was first observed.
	FirstSeen time.Time
	// Context is the document path of the first sighting.
	Context string
}
