package galaxy

import "testing"

// TestName tests galaxy index to name mapping.
func TestName(t *testing.T) {
	t.Parallel()

	t.Run("named galaxies", func(t *testing.T) {
		t.Parallel()

		if got := Name(0); got != "Elyndra" {
			t.Errorf("expected Elyndra for index 0, got %s", got)
		}
		if got := Name(15); got != "Wrendalia" {
			t.Errorf("expected Wrendalia for index 15, got %s", got)
		}
	})

	t.Run("procedural fallback", func(t *testing.T) {
		t.Parallel()

		if got := Name(41); got != "Galaxy 42" {
			t.Errorf("expected Galaxy 42 for index 41, got %s", got)
		}
	})

	t.Run("out-of-range wraps to start", func(t *testing.T) {
		t.Parallel()

		if got := Name(-1); got != "Elyndra" {
			t.Errorf("expected Elyndra for negative index, got %s", got)
		}
		if got := Name(900); got != "Elyndra" {
			t.Errorf("expected Elyndra for impossible index, got %s", got)
		}
	})
}

// TestVocab tests enumerated value mapping and fallbacks.
func TestVocab(t *testing.T) {
	t.Parallel()

	t.Run("sentinel defaults to None", func(t *testing.T) {
		t.Parallel()

		if got := SentinelLevel(0).String(); got != "None" {
			t.Errorf("expected None, got %s", got)
		}
		if got := SentinelLevel(99).String(); got != "None" {
			t.Errorf("expected None for out-of-range, got %s", got)
		}
		if got := SentinelAggressive.String(); got != "Aggressive" {
			t.Errorf("expected Aggressive, got %s", got)
		}
	})

	t.Run("life tier unsurveyed reads Unknown", func(t *testing.T) {
		t.Parallel()

		if got := TierUnsurveyed.String(); got != "Unknown" {
			t.Errorf("expected Unknown, got %s", got)
		}
		if got := TierRich.String(); got != "Rich" {
			t.Errorf("expected Rich, got %s", got)
		}
	})

	t.Run("economy and conflict clamp to defaults", func(t *testing.T) {
		t.Parallel()

		if got := EconomyType(-3); got != "Uncharted" {
			t.Errorf("expected Uncharted, got %s", got)
		}
		if got := EconomyType(4); got != "Technology" {
			t.Errorf("expected Technology, got %s", got)
		}
		if got := EconomyLevel(3); got != "Prosperous" {
			t.Errorf("expected Prosperous, got %s", got)
		}
		if got := ConflictLevel(17); got != "None" {
			t.Errorf("expected None for out-of-range conflict, got %s", got)
		}
	})
}

// TestResource tests resource code mapping.
func TestResource(t *testing.T) {
	t.Parallel()

	if got := Resource("CU"); got != "Copper" {
		t.Errorf("expected Copper, got %s", got)
	}
	if got := Resource("XZ9"); got != "XZ9" {
		t.Errorf("expected unknown code to pass through, got %s", got)
	}

	names := Resources([]string{"AU", "FE"})
	if len(names) != 2 || names[0] != "Gold" || names[1] != "Ferrite" {
		t.Errorf("unexpected mapped resources: %v", names)
	}
	if Resources(nil) != nil {
		t.Error("expected nil for empty input")
	}
}
