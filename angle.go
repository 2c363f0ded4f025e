package ink

import "math"

// Angle helpers. All angles in this package are float32 radians; 0 points
// along +X and angles increase counter-clockwise.

const (
	twoPi = 2 * math.Pi
)

// NormalizedAngle maps an angle into [0, 2π).
// Non-finite input normalizes to 0 so that downstream trigonometry can never
// observe NaN.
func NormalizedAngle(radians float32) float32 {
	r := float64(radians)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	m := math.Mod(r, twoPi)
	if m < 0 {
		m += twoPi
	}
	out := float32(m)
	// Rounding to float32 can land exactly on 2π for inputs just below a
	// full turn, so clamp after the conversion.
	if out >= twoPi {
		out = 0
	}
	return out
}

// NormalizedAngleAboutZero maps an angle into (-π, π].
// Non-finite input normalizes to 0.
func NormalizedAngleAboutZero(radians float32) float32 {
	n := NormalizedAngle(radians)
	if n > math.Pi {
		n -= twoPi
	}
	return n
}

// SmallestAngleDifference returns the signed shortest rotation from a to b,
// in (-π, π]. Adding the result to a lands on b modulo a full turn.
func SmallestAngleDifference(a, b float32) float32 {
	return NormalizedAngleAboutZero(b - a)
}

// LerpAngle interpolates between two angles along the shorter arc.
// t=0 returns a and t=1 returns b (both normalized into [0, 2π));
// values outside [0,1] extrapolate along the same arc.
func LerpAngle(a, b, t float32) float32 {
	return NormalizedAngle(a + SmallestAngleDifference(a, b)*t)
}
