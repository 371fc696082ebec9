// Package helpers provides small numeric utilities shared across dnslens.
package helpers

import "math"

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	if v < lowerLimit {
		return lowerLimit
	}
	if v > upperLimit {
		return upperLimit
	}
	return v
}

// ClampIntToUint16 converts v to uint16 with clamping.
// Values below 0 become 0; values above math.MaxUint16 become math.MaxUint16.
func ClampIntToUint16(v int) uint16 {
	return uint16(ClampInt(v, 0, math.MaxUint16)) //nolint:gosec // clamped to valid range
}
