package portal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code errors.
var (
	// ErrCodeLength is returned when a code is not exactly 12 characters.
	ErrCodeLength = errors.New("address code must be 12 characters")
	// ErrCodeFormat is returned when a code contains non-hex characters.
	ErrCodeFormat = errors.New("address code must be hexadecimal")
	// ErrForbiddenSentinel is returned when an axis field sits exactly at
	// the half-modulus boundary, which no valid address can produce.
	ErrForbiddenSentinel = errors.New("axis at forbidden half-modulus sentinel")
)

// CodeLength is the fixed width of an address code.
const CodeLength = 12

// Code is a 12-character uppercase hex address code. Field layout:
//
//	P SSS YY ZZZ XXX
//
// planet nibble, system index, then the Y, Z, and X axes in signed-hex
// form. Construct values with Encode or ParseCode; the zero value is not
// a valid code.
type Code string

// String returns the code as a plain string.
func (c Code) String() string { return string(c) }

// Option configures codec validation.
type Option func(*codecOptions)

type codecOptions struct {
	minRadius float64
}

// WithMinRadius overrides the reserved-region radius around the origin.
// A value of zero disables the radius check (the exact origin is still
// rejected).
func WithMinRadius(r float64) Option {
	return func(o *codecOptions) {
		o.minRadius = r
	}
}

func applyOptions(opts []Option) codecOptions {
	o := codecOptions{minRadius: DefaultMinRadius}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Encode converts an address into its 12-character code.
// The address is validated first; every valid address round-trips
// through Decode.
func Encode(a Address, opts ...Option) (Code, error) {
	o := applyOptions(opts)
	if err := a.validate(o.minRadius); err != nil {
		return "", err
	}

	code := fmt.Sprintf("%01X%03X%02X%03X%03X",
		a.Planet,
		a.System,
		signedHex(a.VoxelY, modY),
		signedHex(a.VoxelZ, modXZ),
		signedHex(a.VoxelX, modXZ),
	)
	return Code(code), nil
}

// ParseCode normalizes and validates the textual form of a code without
// interpreting its fields. Lowercase input is accepted and uppercased.
func ParseCode(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != CodeLength {
		return "", fmt.Errorf("%w: got %d", ErrCodeLength, len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return "", fmt.Errorf("%w: %q", ErrCodeFormat, s)
		}
	}
	return Code(s), nil
}

// Decode converts a code back into an address. It rejects codes whose
// axis fields sit at the forbidden half-modulus sentinel, and codes that
// decode into an address Encode would refuse.
func Decode(c Code, opts ...Option) (Address, error) {
	o := applyOptions(opts)

	parsed, err := ParseCode(string(c))
	if err != nil {
		return Address{}, err
	}
	s := string(parsed)

	planet := hexField(s[0:1])
	system := hexField(s[1:4])
	yHex := hexField(s[4:6])
	zHex := hexField(s[6:9])
	xHex := hexField(s[9:12])

	if xHex == modXZ/2 || zHex == modXZ/2 || yHex == modY/2 {
		return Address{}, fmt.Errorf("%w: %s", ErrForbiddenSentinel, s)
	}

	a := Address{
		VoxelX: signedValue(xHex, modXZ),
		VoxelY: signedValue(yHex, modY),
		VoxelZ: signedValue(zHex, modXZ),
		System: system,
		Planet: planet,
	}
	if err := a.validate(o.minRadius); err != nil {
		return Address{}, err
	}
	return a, nil
}

// signedHex maps a signed axis value onto its unsigned hex field.
func signedHex(v, modulus int) int {
	if v < 0 {
		return modulus + v
	}
	return v
}

// signedValue inverts signedHex: fields below half the modulus are
// positive, the rest are modular complements of negative values.
func signedValue(hex, modulus int) int {
	if hex < modulus/2 {
		return hex
	}
	return hex - modulus
}

// hexField parses a validated hex substring. ParseCode guarantees the
// input is hex, so the error path is unreachable.
func hexField(s string) int {
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		panic(err)
	}
	return int(v)
}
