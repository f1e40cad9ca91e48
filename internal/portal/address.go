package portal

import (
	"errors"
	"fmt"
	"math"
)

// Address errors.
var (
	// ErrAxisRange is returned when a voxel axis exceeds its magnitude limit.
	ErrAxisRange = errors.New("voxel axis out of range")
	// ErrZeroSystem is returned when the solar system index is zero.
	ErrZeroSystem = errors.New("solar system index must be non-zero")
	// ErrSystemRange is returned when the solar system index exceeds three hex digits.
	ErrSystemRange = errors.New("solar system index out of range")
	// ErrPlanetRange is returned when the planet index is outside 0..6.
	ErrPlanetRange = errors.New("planet index out of range")
	// ErrOriginAddress is returned for the all-zero voxel coordinate.
	ErrOriginAddress = errors.New("origin address is reserved")
	// ErrVoidRegion is returned for addresses inside the reserved region
	// around the galactic origin.
	ErrVoidRegion = errors.New("address inside reserved void region")
)

// Axis limits and moduli for the signed-hex encoding.
//
// X and Z span three hex digits; Y spans two. The magnitude limits stop one
// short of half the modulus so that the half-modulus value itself (0x800,
// 0x80) can never be produced by a valid address. That value is the
// forbidden sentinel checked on decode.
const (
	// MaxVoxelXZ is the unsigned magnitude limit for the X and Z axes.
	MaxVoxelXZ = 2047
	// MaxVoxelY is the unsigned magnitude limit for the Y axis.
	MaxVoxelY = 127
	// modXZ is the modulus for the X and Z axes (three hex digits).
	modXZ = 0x1000
	// modY is the modulus for the Y axis (two hex digits).
	modY = 0x100
	// MaxSystem is the largest solar system index (three hex digits).
	MaxSystem = 0xFFF
	// MaxPlanet is the largest planet index the catalog enumerates.
	// Index 0 addresses the system itself (used by station bases).
	MaxPlanet = 6

	// DefaultMinRadius is the default radius (in voxels, Euclidean) of the
	// reserved region around the galactic origin. Addresses inside it are
	// rejected because the catalog treats the region as void.
	DefaultMinRadius = 4.0
)

// Address locates a discovery within one galaxy: three signed voxel axes,
// a solar system index within the voxel, and a planet index within the
// system. The galaxy itself is not part of the address; the catalog keys
// on (address code, galaxy) separately.
type Address struct {
	// VoxelX is the signed X axis, |VoxelX| <= MaxVoxelXZ.
	VoxelX int
	// VoxelY is the signed Y axis, |VoxelY| <= MaxVoxelY.
	VoxelY int
	// VoxelZ is the signed Z axis, |VoxelZ| <= MaxVoxelXZ.
	VoxelZ int
	// System is the solar system index, 1..MaxSystem.
	System int
	// Planet is the planet index, 0..MaxPlanet.
	Planet int
}

// String renders the address in a human-readable form for logs.
func (a Address) String() string {
	return fmt.Sprintf("voxel(%d,%d,%d) system %d planet %d",
		a.VoxelX, a.VoxelY, a.VoxelZ, a.System, a.Planet)
}

// validate checks the address against axis limits, index ranges, and the
// reserved void region. minRadius <= 0 disables the radius check; the
// exact origin is always rejected.
func (a Address) validate(minRadius float64) error {
	if a.VoxelX < -MaxVoxelXZ || a.VoxelX > MaxVoxelXZ ||
		a.VoxelZ < -MaxVoxelXZ || a.VoxelZ > MaxVoxelXZ {
		return fmt.Errorf("%w: %s", ErrAxisRange, a)
	}
	if a.VoxelY < -MaxVoxelY || a.VoxelY > MaxVoxelY {
		return fmt.Errorf("%w: %s", ErrAxisRange, a)
	}
	if a.System == 0 {
		return ErrZeroSystem
	}
	if a.System < 0 || a.System > MaxSystem {
		return fmt.Errorf("%w: %d", ErrSystemRange, a.System)
	}
	if a.Planet < 0 || a.Planet > MaxPlanet {
		return fmt.Errorf("%w: %d", ErrPlanetRange, a.Planet)
	}
	if a.VoxelX == 0 && a.VoxelY == 0 && a.VoxelZ == 0 {
		return ErrOriginAddress
	}
	if minRadius > 0 {
		dist := math.Sqrt(float64(a.VoxelX*a.VoxelX + a.VoxelY*a.VoxelY + a.VoxelZ*a.VoxelZ))
		if dist < minRadius {
			return fmt.Errorf("%w: %s", ErrVoidRegion, a)
		}
	}
	return nil
}
