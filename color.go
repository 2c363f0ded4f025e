package ink

import (
	"image/color"
	"math"
)

// RGBA is a color with red, green, blue and alpha components in [0, 1],
// unpremultiplied.
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Color converts to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	return RGBA{
		R: lerp32(c.R, other.R, t),
		G: lerp32(c.G, other.G, t),
		B: lerp32(c.B, other.B, t),
		A: lerp32(c.A, other.A, t),
	}
}

// HSL creates an opaque color from hue in degrees [0, 360), saturation and
// lightness in [0, 1].
func HSL(h, s, l float32) RGBA {
	hd := math.Mod(float64(h), 360)
	if hd < 0 {
		hd += 360
	}
	hd /= 360

	c := (1 - math.Abs(2*float64(l)-1)) * float64(s)
	x := c * (1 - math.Abs(math.Mod(hd*6, 2)-1))
	m := float64(l) - c/2

	var r, g, b float64
	switch {
	case hd < 1.0/6:
		r, g, b = c, x, 0
	case hd < 2.0/6:
		r, g, b = x, c, 0
	case hd < 3.0/6:
		r, g, b = 0, c, x
	case hd < 4.0/6:
		r, g, b = 0, x, c
	case hd < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB(float32(r+m), float32(g+m), float32(b+m))
}

// toHSL decomposes the color into hue (degrees in [0, 360)), saturation and
// lightness, ignoring alpha.
func (c RGBA) toHSL() (h, s, l float32) {
	r, g, b := float64(clamp01(c.R)), float64(clamp01(c.G)), float64(clamp01(c.B))
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))

	l = float32((hi + lo) / 2)
	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	s = float32(d / (1 - math.Abs(hi+lo-1)))

	var hue float64
	switch hi {
	case r:
		hue = math.Mod((g-b)/d, 6)
	case g:
		hue = (b-r)/d + 2
	default:
		hue = (r-g)/d + 4
	}
	hue *= 60
	if hue < 0 {
		hue += 360
	}
	return float32(hue), s, l
}

// ColorShift is the color portion of a brush tip state: a hue rotation, a
// saturation scale and a lightness shift, applied in HSL space.
type ColorShift struct {
	// HueOffsetInTurns rotates the hue; one turn is a full trip around the
	// hue circle.
	HueOffsetInTurns float32

	// SaturationMultiplier scales the saturation, in [0, 2]. Values above
	// one push toward full saturation.
	SaturationMultiplier float32

	// LuminosityShift adds to the lightness, in [-1, 1].
	LuminosityShift float32
}

// ColorShift extracts the color modifiers of a tip state.
func (s BrushTipState) ColorShift() ColorShift {
	return ColorShift{
		HueOffsetInTurns:     s.HueOffsetInTurns,
		SaturationMultiplier: s.SaturationMultiplier,
		LuminosityShift:      s.LuminosityShift,
	}
}

// IsIdentity reports whether applying the shift leaves every color as is.
func (s ColorShift) IsIdentity() bool {
	return s.HueOffsetInTurns == 0 && s.SaturationMultiplier == 1 && s.LuminosityShift == 0
}

// Apply shifts a color through HSL space. Alpha passes through untouched;
// saturation and lightness clamp to [0, 1] after the shift.
func (s ColorShift) Apply(c RGBA) RGBA {
	if s.IsIdentity() {
		return c
	}
	h, sat, l := c.toHSL()
	out := HSL(
		h+s.HueOffsetInTurns*360,
		clamp01(sat*s.SaturationMultiplier),
		clamp01(l+s.LuminosityShift),
	)
	out.A = c.A
	return out
}
