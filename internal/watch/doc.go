// Package watch monitors the save directory for settled save writes.
//
// The game rewrites its save file in bursts, often several writes and a
// rename within a second or two. Reacting to each raw event would
// decode half-written files, so events for matching save files are
// coalesced with a trailing-edge debounce: the timer resets on every
// event and only a quiet period emits a change.
package watch
