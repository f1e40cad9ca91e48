package galaxy

import "fmt"

// galaxyNames lists the named galaxies in traversal order. The game
// addresses galaxies by index; players know them by these names. Indexes
// beyond the table fall back to a procedural name.
var galaxyNames = []string{
	"Elyndra",    // 0, the starting galaxy
	"Veshan",     // 1
	"Orvadris",   // 2
	"Calyptra",   // 3
	"Nuvenmar",   // 4
	"Tessivain",  // 5
	"Ryskellion", // 6
	"Umbraxis",   // 7
	"Pellorin",   // 8
	"Dravemunt",  // 9
	"Sorvachel",  // 10
	"Ithelyra",   // 11
	"Quonmasa",   // 12
	"Bellitrax",  // 13
	"Hastavel",   // 14
	"Wrendalia",  // 15
}

// MaxGalaxyIndex is the largest galaxy index the game generates.
const MaxGalaxyIndex = 255

// Name returns the player-facing name of a galaxy by index.
// Indexes past the named table get a stable procedural name; negative or
// impossible indexes collapse to the starting galaxy, matching the game's
// own wraparound behavior.
func Name(index int) string {
	if index < 0 || index > MaxGalaxyIndex {
		index = 0
	}
	if index < len(galaxyNames) {
		return galaxyNames[index]
	}
	return fmt.Sprintf("Galaxy %d", index+1)
}
