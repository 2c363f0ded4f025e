package ink

import "math"

// Easing is a response curve mapping a behavior value in [0, 1] to an eased
// value. This is a sealed interface - only types in this package implement
// it.
//
// The predefined curves match the CSS easing keywords; arbitrary curves are
// expressed as CubicBezierEasing control points.
type Easing interface {
	// easingMarker is an unexported method that seals this interface.
	easingMarker()

	// Apply evaluates the curve at v. Input is clamped to [0, 1]; output
	// may overshoot that range for curves whose control points do.
	Apply(v float32) float32
}

// PredefinedEasing is one of the standard CSS easing keywords.
type PredefinedEasing int

const (
	// EasingLinear is the identity curve.
	EasingLinear PredefinedEasing = iota
	// EasingEase starts fast and decelerates, cubic-bezier(0.25, 0.1, 0.25, 1).
	EasingEase
	// EasingEaseIn accelerates from zero, cubic-bezier(0.42, 0, 1, 1).
	EasingEaseIn
	// EasingEaseOut decelerates to the end, cubic-bezier(0, 0, 0.58, 1).
	EasingEaseOut
	// EasingEaseInOut accelerates then decelerates, cubic-bezier(0.42, 0, 0.58, 1).
	EasingEaseInOut
	// EasingStepStart jumps to 1 immediately after the start: 0 at v=0,
	// 1 for any v > 0.
	EasingStepStart
	// EasingStepEnd holds 0 until the very end: 1 at v=1, 0 for any v < 1.
	EasingStepEnd
)

func (PredefinedEasing) easingMarker() {}

// String returns the CSS keyword for the curve.
func (e PredefinedEasing) String() string {
	switch e {
	case EasingLinear:
		return "linear"
	case EasingEase:
		return "ease"
	case EasingEaseIn:
		return "ease-in"
	case EasingEaseOut:
		return "ease-out"
	case EasingEaseInOut:
		return "ease-in-out"
	case EasingStepStart:
		return "step-start"
	case EasingStepEnd:
		return "step-end"
	default:
		return "unknown"
	}
}

func (e PredefinedEasing) isValid() bool {
	return e >= EasingLinear && e <= EasingStepEnd
}

// Apply implements Easing.
func (e PredefinedEasing) Apply(v float32) float32 {
	v = clamp01(v)
	switch e {
	case EasingEase:
		return CubicBezierEasing{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1}.Apply(v)
	case EasingEaseIn:
		return CubicBezierEasing{X1: 0.42, Y1: 0, X2: 1, Y2: 1}.Apply(v)
	case EasingEaseOut:
		return CubicBezierEasing{X1: 0, Y1: 0, X2: 0.58, Y2: 1}.Apply(v)
	case EasingEaseInOut:
		return CubicBezierEasing{X1: 0.42, Y1: 0, X2: 0.58, Y2: 1}.Apply(v)
	case EasingStepStart:
		if v > 0 {
			return 1
		}
		return 0
	case EasingStepEnd:
		if v >= 1 {
			return 1
		}
		return 0
	default:
		return v
	}
}

// CubicBezierEasing is a curve through (0,0) and (1,1) shaped by two control
// points, exactly as in CSS cubic-bezier(). X components must lie in [0, 1]
// so the curve stays a function of the input; Y components may overshoot.
type CubicBezierEasing struct {
	X1, Y1, X2, Y2 float32
}

func (CubicBezierEasing) easingMarker() {}

// validate reports whether the control points describe a usable curve.
func (c CubicBezierEasing) validate() bool {
	for _, v := range []float32{c.X1, c.Y1, c.X2, c.Y2} {
		if !isFinite32(v) {
			return false
		}
	}
	return c.X1 >= 0 && c.X1 <= 1 && c.X2 >= 0 && c.X2 <= 1
}

// Apply implements Easing. It inverts the x polynomial to find the curve
// parameter for the input, then evaluates the y polynomial there.
func (c CubicBezierEasing) Apply(v float32) float32 {
	v = clamp01(v)
	if v == 0 || v == 1 {
		// The curve is pinned to (0,0) and (1,1).
		return v
	}
	t, ok := c.parameterAtX(float64(v))
	if !ok {
		return v
	}
	return float32(bezierPolynomial(float64(c.Y1), float64(c.Y2), t))
}

// parameterAtX finds the unique t in [0, 1] with x(t) == x. With both
// control x components in [0, 1] the x polynomial is monotone, so at most
// one root survives the unit-interval filter.
func (c CubicBezierEasing) parameterAtX(x float64) (float64, bool) {
	x1, x2 := float64(c.X1), float64(c.X2)
	roots := solveCubicInUnitInterval(
		3*x1-3*x2+1,
		3*x2-6*x1,
		3*x1,
		-x,
	)
	if len(roots) == 0 {
		return 0, false
	}
	return roots[0], true
}

// bezierPolynomial evaluates the cubic Bezier component polynomial with
// control values p1, p2 (endpoints pinned at 0 and 1) at parameter t.
func bezierPolynomial(p1, p2, t float64) float64 {
	return ((3*p1-3*p2+1)*t+(3*p2-6*p1))*t*t + 3*p1*t
}

// clamp01 restricts v to [0, 1]. NaN clamps to 0 so response curves can
// never launder an undefined value into their output.
func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Cubic and quadratic root solving for the Bezier inversion above.
//
// Based on the method from https://momentsingraphics.de/CubicRoots.html
// (Blinn's "How to Solve a Cubic Equation"), numerically robust against
// degenerate leading coefficients: a vanishing cubic term falls back to the
// quadratic solver rather than dividing by zero.

// solveCubicInUnitInterval returns the real roots of ax^3 + bx^2 + cx + d = 0
// that lie in [0, 1], in ascending order.
func solveCubicInUnitInterval(a, b, c, d float64) []float64 {
	return filterRootsToUnit(solveCubic(a, b, c, d))
}

func solveCubic(a, b, c, d float64) []float64 {
	const oneThird = 1.0 / 3.0
	aRecip := 1.0 / a
	c2 := b * (oneThird * aRecip)
	c1 := c * (oneThird * aRecip)
	c0 := d * aRecip

	if !isFinite(c0) || !isFinite(c1) || !isFinite(c2) {
		// Leading coefficient is zero or nearly so.
		return solveQuadratic(b, c, d)
	}

	d0 := (-c2)*c2 + c1
	d1 := (-c1)*c2 + c0
	d2 := c2*c0 - c1*c1
	disc := 4.0*d0*d2 - d1*d1
	de := (-2.0*c2)*d0 + d1

	switch {
	case disc < 0:
		sq := math.Sqrt(-0.25 * disc)
		r := -0.5 * de
		t1 := math.Cbrt(r+sq) + math.Cbrt(r-sq)
		return []float64{t1 - c2}
	case disc == 0:
		t1 := math.Copysign(math.Sqrt(-d0), de)
		return []float64{t1 - c2, -2.0*t1 - c2}
	default:
		th := math.Atan2(math.Sqrt(disc), -de) * oneThird
		thSin, thCos := math.Sincos(th)
		ss3 := thSin * math.Sqrt(3.0)
		t := 2.0 * math.Sqrt(-d0)
		return []float64{
			t*thCos - c2,
			t*0.5*(-thCos+ss3) - c2,
			t*0.5*(-thCos-ss3) - c2,
		}
	}
}

func solveQuadratic(a, b, c float64) []float64 {
	sc0 := c / a
	sc1 := b / a
	if !isFinite(sc0) || !isFinite(sc1) {
		// Linear, or fully degenerate.
		root := -c / b
		if isFinite(root) {
			return []float64{root}
		}
		if b == 0 && c == 0 {
			return []float64{0}
		}
		return nil
	}

	arg := sc1*sc1 - 4.0*sc0
	switch {
	case !isFinite(arg):
		root1 := -sc1
		root2 := sc0 / root1
		if !isFinite(root2) {
			return []float64{root1}
		}
		return sortedPair(root1, root2)
	case arg < 0:
		return nil
	case arg == 0:
		return []float64{-0.5 * sc1}
	}

	// Stable form avoiding cancellation between -b and the discriminant.
	root1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	root2 := sc0 / root1
	if !isFinite(root2) {
		return []float64{root1}
	}
	return sortedPair(root1, root2)
}

func sortedPair(a, b float64) []float64 {
	if a > b {
		return []float64{b, a}
	}
	return []float64{a, b}
}

// filterRootsToUnit keeps roots in [0, 1], clamping values a hair outside
// the interval back onto the boundary, and returns them sorted.
func filterRootsToUnit(roots []float64) []float64 {
	const eps = 1e-12
	out := roots[:0]
	for _, r := range roots {
		if r < -eps || r > 1+eps {
			continue
		}
		out = append(out, math.Min(math.Max(r, 0), 1))
	}
	if len(out) == 0 {
		return nil
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// isFinite returns true if x is neither infinite nor NaN.
func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
