package gdsvalue

import "math"

// The exact* family are the only implicit cross-type numeric conversions
// permitted by the store (spec.md §4.3). Every other cross-type read must
// fail.

const (
	// maxSafeLong is 2^53, the largest magnitude a double can represent
	// exactly as an integer.
	maxSafeLong int64 = 1 << 53
	// maxSafeFloatLong is 2^24, the largest magnitude a float32 can
	// represent exactly as an integer.
	maxSafeFloatLong int64 = 1 << 24
)

// ExactDoubleToLong succeeds iff d is an integer value representable
// exactly as an int64.
func ExactDoubleToLong(d float64) (int64, bool) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	if d != math.Trunc(d) {
		return 0, false
	}
	if d >= math.MaxInt64 || d < math.MinInt64 {
		return 0, false
	}
	return int64(d), true
}

// ExactLongToDouble succeeds iff |l| <= 2^53.
func ExactLongToDouble(l int64) (float64, bool) {
	if l > maxSafeLong || l < -maxSafeLong {
		return 0, false
	}
	return float64(l), true
}

// ExactLongToFloat succeeds iff |l| < 2^24.
func ExactLongToFloat(l int64) (float32, bool) {
	if l >= maxSafeFloatLong || l <= -maxSafeFloatLong {
		return 0, false
	}
	return float32(l), true
}

// NotOverflowingDoubleToFloat succeeds iff |d| <= math.MaxFloat32. NaN
// passes through unchanged.
func NotOverflowingDoubleToFloat(d float64) (float32, bool) {
	if math.IsNaN(d) {
		return float32(math.NaN()), true
	}
	if d > math.MaxFloat32 || d < -math.MaxFloat32 {
		return 0, false
	}
	return float32(d), true
}
