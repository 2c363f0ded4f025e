package ink

import "math"

// Compact 32-bit scalar unit types used throughout the input pipeline.
//
// Both types are defined over float32 and exclude NaN by construction:
// every arithmetic helper collapses a would-be NaN to a signed infinity, so
// ordinary < and == give a total order on any value the pipeline produces.

// Duration32 is a span of time stored as float32 seconds.
//
// Unlike time.Duration it is a 32-bit floating-point quantity, matching the
// precision of stylus hardware timestamps while staying cheap to store per
// input sample.
type Duration32 float32

// Seconds returns a Duration32 of s seconds.
func Seconds(s float32) Duration32 {
	return Duration32(sanitizeNaN(s, 1))
}

// Millis returns a Duration32 of ms milliseconds.
func Millis(ms float32) Duration32 {
	return Duration32(sanitizeNaN(ms/1000, 1))
}

// InfiniteDuration returns the positive-infinite duration. It compares
// greater than every finite Duration32.
func InfiniteDuration() Duration32 {
	return Duration32(math.Inf(1))
}

// Seconds returns the duration in seconds.
func (d Duration32) Seconds() float32 { return float32(d) }

// Millis returns the duration in milliseconds.
func (d Duration32) Millis() float32 { return float32(d) * 1000 }

// IsFinite reports whether the duration is not an infinity.
func (d Duration32) IsFinite() bool { return !math.IsInf(float64(d), 0) }

// IsInfinite reports whether the duration is positive or negative infinity.
func (d Duration32) IsInfinite() bool { return math.IsInf(float64(d), 0) }

// Add returns d + other, collapsing NaN to an infinity with d's sign.
func (d Duration32) Add(other Duration32) Duration32 {
	return Duration32(sanitizeNaN(float32(d)+float32(other), float32(d)))
}

// Sub returns d - other, collapsing NaN to an infinity with d's sign.
func (d Duration32) Sub(other Duration32) Duration32 {
	return Duration32(sanitizeNaN(float32(d)-float32(other), float32(d)))
}

// Mul returns the duration scaled by f.
func (d Duration32) Mul(f float32) Duration32 {
	return Duration32(sanitizeNaN(float32(d)*f, signProduct(float32(d), f)))
}

// Div returns the duration divided by f.
func (d Duration32) Div(f float32) Duration32 {
	return Duration32(sanitizeNaN(float32(d)/f, signProduct(float32(d), f)))
}

// PhysicalDistance is a physical length stored as float32 centimeters.
//
// It relates stroke-space units to the real world: a stroke input's unit
// length is the physical distance covered by one stroke-space unit, when the
// input device can report it (mice cannot).
type PhysicalDistance float32

// CentimetersPerInch is the exact definition of the inch.
const CentimetersPerInch = 2.54

// Centimeters returns a PhysicalDistance of cm centimeters.
func Centimeters(cm float32) PhysicalDistance {
	return PhysicalDistance(sanitizeNaN(cm, 1))
}

// Inches returns a PhysicalDistance of in inches.
func Inches(in float32) PhysicalDistance {
	return PhysicalDistance(sanitizeNaN(in*CentimetersPerInch, 1))
}

// Centimeters returns the distance in centimeters.
func (p PhysicalDistance) Centimeters() float32 { return float32(p) }

// Inches returns the distance in inches.
func (p PhysicalDistance) Inches() float32 { return float32(p) / CentimetersPerInch }

// IsFinite reports whether the distance is not an infinity.
func (p PhysicalDistance) IsFinite() bool { return !math.IsInf(float64(p), 0) }

// Add returns p + other, collapsing NaN to an infinity with p's sign.
func (p PhysicalDistance) Add(other PhysicalDistance) PhysicalDistance {
	return PhysicalDistance(sanitizeNaN(float32(p)+float32(other), float32(p)))
}

// Sub returns p - other, collapsing NaN to an infinity with p's sign.
func (p PhysicalDistance) Sub(other PhysicalDistance) PhysicalDistance {
	return PhysicalDistance(sanitizeNaN(float32(p)-float32(other), float32(p)))
}

// Mul returns the distance scaled by f.
func (p PhysicalDistance) Mul(f float32) PhysicalDistance {
	return PhysicalDistance(sanitizeNaN(float32(p)*f, signProduct(float32(p), f)))
}

// Div returns the distance divided by f.
func (p PhysicalDistance) Div(f float32) PhysicalDistance {
	return PhysicalDistance(sanitizeNaN(float32(p)/f, signProduct(float32(p), f)))
}

// sanitizeNaN returns x unchanged unless it is NaN, in which case it returns
// an infinity carrying the sign of sign. Keeps the unit types NaN-free so
// comparisons stay total.
func sanitizeNaN(x, sign float32) float32 {
	if x != x {
		if math.Signbit(float64(sign)) {
			return float32(math.Inf(-1))
		}
		return float32(math.Inf(1))
	}
	return x
}

// signProduct returns a value whose sign bit is the product of the signs of
// a and b. Used to pick the collapse direction for multiplicative NaNs.
func signProduct(a, b float32) float32 {
	if math.Signbit(float64(a)) != math.Signbit(float64(b)) {
		return -1
	}
	return 1
}
