package galaxy

// unknownStr is the fallback for enumerations where absence means the
// player never surveyed the value.
const unknownStr = "Unknown"

// SentinelLevel describes sentinel activity on a planet.
// The save stores it as a small integer; absence means no sentinels were
// observed, so the zero value deliberately reads as "None".
type SentinelLevel int

// Sentinel activity levels, in increasing order of hostility.
const (
	SentinelNone SentinelLevel = iota
	SentinelLow
	SentinelHigh
	SentinelAggressive
	SentinelCorrupted
)

// String returns the catalog vocabulary for the sentinel level.
// Out-of-range values read as "None", the documented default.
func (s SentinelLevel) String() string {
	switch s {
	case SentinelNone:
		return "None"
	case SentinelLow:
		return "Low"
	case SentinelHigh:
		return "High"
	case SentinelAggressive:
		return "Aggressive"
	case SentinelCorrupted:
		return "Corrupted"
	default:
		return "None"
	}
}

// LifeTier describes the abundance of flora or fauna on a planet.
// TierUnsurveyed (-1) is used when the save omits the field entirely.
type LifeTier int

// Flora/fauna abundance tiers.
const (
	TierUnsurveyed LifeTier = iota - 1
	TierNone
	TierSparse
	TierCommon
	TierRich
	TierAbundant
)

// String returns the catalog vocabulary for the tier.
func (l LifeTier) String() string {
	switch l {
	case TierNone:
		return "None"
	case TierSparse:
		return "Sparse"
	case TierCommon:
		return "Common"
	case TierRich:
		return "Rich"
	case TierAbundant:
		return "Abundant"
	default:
		return unknownStr
	}
}

// economyTypes maps the save's economy-type index to catalog vocabulary.
// Index 0 is an uncharted system (no economy), which is also the default
// when the field is missing.
var economyTypes = []string{
	"Uncharted",
	"Trading",
	"Mining",
	"Manufacturing",
	"Technology",
	"Scientific",
	"Power Generation",
}

// EconomyType returns the economy type name for a save index.
func EconomyType(index int) string {
	if index < 0 || index >= len(economyTypes) {
		return economyTypes[0]
	}
	return economyTypes[index]
}

// economyLevels maps the save's economy-strength index to vocabulary.
var economyLevels = []string{
	"None",
	"Declining",
	"Balanced",
	"Prosperous",
	"Flourishing",
}

// EconomyLevel returns the economy strength name for a save index.
func EconomyLevel(index int) string {
	if index < 0 || index >= len(economyLevels) {
		return economyLevels[0]
	}
	return economyLevels[index]
}

// conflictLevels maps the save's conflict index to vocabulary.
var conflictLevels = []string{
	"None",
	"Low",
	"Medium",
	"High",
	"Critical",
}

// ConflictLevel returns the conflict level name for a save index.
func ConflictLevel(index int) string {
	if index < 0 || index >= len(conflictLevels) {
		return conflictLevels[0]
	}
	return conflictLevels[index]
}
