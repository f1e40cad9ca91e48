package portal

import (
	"errors"
	"testing"
)

// TestEncode tests address-to-code conversion.
func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("known vector", func(t *testing.T) {
		t.Parallel()

		code, err := Encode(Address{VoxelX: 0, VoxelY: 0, VoxelZ: -1000, System: 1, Planet: 1})
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if code != "100100C18000" {
			t.Errorf("expected 100100C18000, got %s", code)
		}
	})

	t.Run("positive axes", func(t *testing.T) {
		t.Parallel()

		code, err := Encode(Address{VoxelX: 2047, VoxelY: 127, VoxelZ: 100, System: 0x2FF, Planet: 6})
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if code != "62FF7F0647FF" {
			t.Errorf("expected 62FF7F0647FF, got %s", code)
		}
	})

	t.Run("rejects axis out of range", func(t *testing.T) {
		t.Parallel()

		_, err := Encode(Address{VoxelX: 2048, VoxelZ: 5, System: 1, Planet: 1})
		if !errors.Is(err, ErrAxisRange) {
			t.Errorf("expected ErrAxisRange, got %v", err)
		}

		_, err = Encode(Address{VoxelY: -128, VoxelZ: 500, System: 1, Planet: 1})
		if !errors.Is(err, ErrAxisRange) {
			t.Errorf("expected ErrAxisRange, got %v", err)
		}
	})

	t.Run("rejects zero system index", func(t *testing.T) {
		t.Parallel()

		_, err := Encode(Address{VoxelZ: -1000, System: 0, Planet: 1})
		if !errors.Is(err, ErrZeroSystem) {
			t.Errorf("expected ErrZeroSystem, got %v", err)
		}
	})

	t.Run("rejects planet index outside enumerated range", func(t *testing.T) {
		t.Parallel()

		_, err := Encode(Address{VoxelZ: -1000, System: 1, Planet: 7})
		if !errors.Is(err, ErrPlanetRange) {
			t.Errorf("expected ErrPlanetRange, got %v", err)
		}
	})

	t.Run("rejects all-zero coordinate", func(t *testing.T) {
		t.Parallel()

		_, err := Encode(Address{System: 1, Planet: 1}, WithMinRadius(0))
		if !errors.Is(err, ErrOriginAddress) {
			t.Errorf("expected ErrOriginAddress, got %v", err)
		}
	})

	t.Run("rejects void region inside min radius", func(t *testing.T) {
		t.Parallel()

		_, err := Encode(Address{VoxelX: 1, VoxelZ: 1, System: 1, Planet: 1})
		if !errors.Is(err, ErrVoidRegion) {
			t.Errorf("expected ErrVoidRegion, got %v", err)
		}

		// The same address passes when the radius check is disabled.
		if _, err := Encode(Address{VoxelX: 1, VoxelZ: 1, System: 1, Planet: 1}, WithMinRadius(0)); err != nil {
			t.Errorf("expected success with radius disabled, got %v", err)
		}
	})
}

// TestDecode tests code-to-address conversion.
func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("known vector", func(t *testing.T) {
		t.Parallel()

		addr, err := Decode("100100C18000")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		want := Address{VoxelX: 0, VoxelY: 0, VoxelZ: -1000, System: 1, Planet: 1}
		if addr != want {
			t.Errorf("expected %+v, got %+v", want, addr)
		}
	})

	t.Run("accepts lowercase input", func(t *testing.T) {
		t.Parallel()

		addr, err := Decode("100100c18000")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if addr.VoxelZ != -1000 {
			t.Errorf("expected VoxelZ -1000, got %d", addr.VoxelZ)
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		t.Parallel()

		_, err := Decode("100100C1800")
		if !errors.Is(err, ErrCodeLength) {
			t.Errorf("expected ErrCodeLength, got %v", err)
		}
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		t.Parallel()

		_, err := Decode("100100C18ZZZ")
		if !errors.Is(err, ErrCodeFormat) {
			t.Errorf("expected ErrCodeFormat, got %v", err)
		}
	})

	t.Run("rejects half-modulus sentinel on each axis", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"X at 0x800": "100100C18800",
			"Z at 0x800": "100100800123",
			"Y at 0x80":  "100180C18000",
		}
		for name, code := range cases {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				if _, err := Decode(Code(code)); !errors.Is(err, ErrForbiddenSentinel) {
					t.Errorf("expected ErrForbiddenSentinel for %s, got %v", code, err)
				}
			})
		}
	})

	t.Run("rejects zero system index", func(t *testing.T) {
		t.Parallel()

		_, err := Decode("100000C18000")
		if !errors.Is(err, ErrZeroSystem) {
			t.Errorf("expected ErrZeroSystem, got %v", err)
		}
	})

	t.Run("rejects planet nibble above range", func(t *testing.T) {
		t.Parallel()

		_, err := Decode("700100C18000")
		if !errors.Is(err, ErrPlanetRange) {
			t.Errorf("expected ErrPlanetRange, got %v", err)
		}
	})
}

// TestRoundTrip verifies decode(encode(a))==a and encode(decode(c))==c
// across a sweep of valid addresses.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	addrs := []Address{
		{VoxelX: 0, VoxelY: 0, VoxelZ: -1000, System: 1, Planet: 1},
		{VoxelX: 2047, VoxelY: 127, VoxelZ: 2047, System: 0xFFF, Planet: 6},
		{VoxelX: -2047, VoxelY: -127, VoxelZ: -2047, System: 1, Planet: 0},
		{VoxelX: 512, VoxelY: -64, VoxelZ: -768, System: 0x2A, Planet: 3},
		{VoxelX: -5, VoxelY: 0, VoxelZ: 5, System: 0x100, Planet: 2},
	}

	for _, a := range addrs {
		code, err := Encode(a)
		if err != nil {
			t.Fatalf("encode %s: %v", a, err)
		}
		back, err := Decode(code)
		if err != nil {
			t.Fatalf("decode %s: %v", code, err)
		}
		if back != a {
			t.Errorf("round trip mismatch: %+v -> %s -> %+v", a, code, back)
		}
		again, err := Encode(back)
		if err != nil {
			t.Fatalf("re-encode %s: %v", code, err)
		}
		if again != code {
			t.Errorf("code round trip mismatch: %s -> %s", code, again)
		}
	}
}
