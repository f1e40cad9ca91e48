// Package classify decides what to do with an extracted discovery:
// submit it as new, skip it as already uploaded or already cataloged,
// or resubmit it as an edit of an existing entry.
//
// The local upload history is consulted first so repeat runs over an
// unchanged save file never touch the network. Only locations with no
// local history trigger a remote duplicate check, and those checks run
// concurrently with a bounded worker count.
package classify
