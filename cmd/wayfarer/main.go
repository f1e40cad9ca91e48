// Package main provides the entry point for the Wayfarer CLI.
//
// Wayfarer is a companion agent for sharing in-game discoveries. It
// watches the game's save directory, extracts newly discovered star
// systems and planets, and submits them to the community star catalog.
//
// Usage:
//
//	wayfarer watch --save-dir ~/.local/share/game/saves
//	wayfarer run <save-file>
//
// See --help for all available options.
package main

// main is the entry point for Wayfarer.
func main() {
	Execute()
}
