package ink

import "math"

// BrushTip is the base geometry and appearance of a brush stamp, before any
// behavior modifiers apply. All lengths are fractions of the brush size, so
// one tip spec serves every size of the same brush family.
type BrushTip struct {
	// Scale is the tip extent along x and y, in multiples of the brush
	// size. {1, 1} is a full-size round tip; {0.1, 1} a narrow pen nib.
	Scale Vec2

	// CornerRounding is how round the tip corners are, from 0 (sharp
	// rectangle) to 1 (full ellipse).
	CornerRounding float32

	// Slant is the shear angle of the tip, in radians in (-π/2, π/2).
	Slant float32

	// Pinch is how much the tip narrows toward one end, in [0, 1].
	Pinch float32

	// Rotation is the base rotation of the tip, radians.
	Rotation float32

	// Opacity is the base opacity of the stamp, in [0, 1].
	Opacity float32

	// ParticleGapDistance and ParticleGapDuration space out the stamps of
	// spray-like brushes, in multiples of brush size and in time. Zero
	// values produce a continuous stroke.
	ParticleGapDistance float32
	ParticleGapDuration Duration32
}

// DefaultBrushTip returns a full-size round opaque tip.
func DefaultBrushTip() BrushTip {
	return BrushTip{
		Scale:          V2(1, 1),
		CornerRounding: 1,
		Opacity:        1,
	}
}

// WithScale returns a copy of the tip with the given scale.
func (t BrushTip) WithScale(scale Vec2) BrushTip {
	t.Scale = scale
	return t
}

// WithCornerRounding returns a copy of the tip with the given rounding.
func (t BrushTip) WithCornerRounding(rounding float32) BrushTip {
	t.CornerRounding = rounding
	return t
}

// WithSlant returns a copy of the tip with the given slant.
func (t BrushTip) WithSlant(slant float32) BrushTip {
	t.Slant = slant
	return t
}

// WithPinch returns a copy of the tip with the given pinch.
func (t BrushTip) WithPinch(pinch float32) BrushTip {
	t.Pinch = pinch
	return t
}

// WithRotation returns a copy of the tip with the given rotation.
func (t BrushTip) WithRotation(rotation float32) BrushTip {
	t.Rotation = rotation
	return t
}

// WithOpacity returns a copy of the tip with the given opacity.
func (t BrushTip) WithOpacity(opacity float32) BrushTip {
	t.Opacity = opacity
	return t
}

// Validate checks that every field is inside its documented range.
func (t BrushTip) Validate() error {
	switch {
	case !isFinite32(t.Scale.X) || t.Scale.X < 0 || !isFinite32(t.Scale.Y) || t.Scale.Y < 0:
		return errTipField("scale", t.Scale.X, t.Scale.Y)
	case !isFinite32(t.CornerRounding) || t.CornerRounding < 0 || t.CornerRounding > 1:
		return errTipField("corner rounding", t.CornerRounding)
	case !isFinite32(t.Slant) || t.Slant <= -math.Pi/2 || t.Slant >= math.Pi/2:
		return errTipField("slant", t.Slant)
	case !isFinite32(t.Pinch) || t.Pinch < 0 || t.Pinch > 1:
		return errTipField("pinch", t.Pinch)
	case !isFinite32(t.Rotation):
		return errTipField("rotation", t.Rotation)
	case !isFinite32(t.Opacity) || t.Opacity < 0 || t.Opacity > 1:
		return errTipField("opacity", t.Opacity)
	case !isFinite32(t.ParticleGapDistance) || t.ParticleGapDistance < 0:
		return errTipField("particle gap distance", t.ParticleGapDistance)
	case t.ParticleGapDuration < 0:
		return errTipField("particle gap duration", t.ParticleGapDuration.Seconds())
	}
	return nil
}

// BrushTipState is the fully-resolved geometry and appearance of one brush
// stamp, ready for tessellation.
//
// Every field is guaranteed finite and inside its documented range, no
// matter how adversarial the behavior modifiers were. CreateTipState is the
// only producer.
type BrushTipState struct {
	// Position is the stamp center in stroke space.
	Position Point

	// Width and Height are the stamp extent in stroke units, each within
	// [0, 2× the tip's base extent].
	Width  float32
	Height float32

	// CornerRounding is in [0, 1].
	CornerRounding float32

	// Slant is normalized into (-π, π].
	Slant float32

	// Pinch is in [0, 1].
	Pinch float32

	// Rotation is normalized into (-π, π].
	Rotation float32

	// TextureAnimationProgressOffset is in [0, 1), in full animation cycles.
	TextureAnimationProgressOffset float32

	// HueOffsetInTurns is in [0, 1), where one turn is a full trip around
	// the hue circle.
	HueOffsetInTurns float32

	// SaturationMultiplier is in [0, 2].
	SaturationMultiplier float32

	// LuminosityShift is in [-1, 1].
	LuminosityShift float32

	// OpacityMultiplier is in [0, 2].
	OpacityMultiplier float32
}

// CreateTipState resolves one brush stamp: the base tip scaled by brushSize,
// with the composed behavior modifiers applied field by field.
//
// position and velocity come from the modeled input the modifiers were
// evaluated against; velocity fixes the travel frame for forward/lateral
// position offsets (at zero velocity that frame is undefined and those
// offsets are dropped).
//
// Width and height combine multiplicatively and clamp to [0, 2× base].
// Slant and rotation combine additively and normalize about zero. Pinch and
// corner rounding combine additively and clamp to [0, 1], luminosity to
// [-1, 1]; saturation and opacity multiply and clamp to [0, 2]. Hue and
// texture-progress offsets wrap into [0, 1). Arithmetic that would produce
// NaN (such as ∞ × 0) resolves to the clamp bound instead, so a tip state
// can never carry NaN into a renderer.
func CreateTipState(position Point, velocity Vec2, tip BrushTip, brushSize float32, mods TargetModifiers) BrushTipState {
	baseWidth := tip.Scale.X * brushSize
	baseHeight := tip.Scale.Y * brushSize

	sizeMult := mods.Value(TargetSizeMultiplier)
	out := BrushTipState{
		Position: position,
		Width:    clampedProduct(baseWidth, mods.Value(TargetWidthMultiplier)*sizeMult, 2*baseWidth),
		Height:   clampedProduct(baseHeight, mods.Value(TargetHeightMultiplier)*sizeMult, 2*baseHeight),

		CornerRounding: clampFinite(tip.CornerRounding+mods.Value(TargetCornerRoundingOffset), 0, 1),
		Slant:          NormalizedAngleAboutZero(tip.Slant + mods.Value(TargetSlantOffset)),
		Pinch:          clampFinite(tip.Pinch+mods.Value(TargetPinchOffset), 0, 1),
		Rotation:       NormalizedAngleAboutZero(tip.Rotation + mods.Value(TargetRotationOffset)),

		TextureAnimationProgressOffset: wrapUnit(mods.Value(TargetTextureProgressOffset)),
		HueOffsetInTurns:               wrapUnit(mods.Value(TargetHueOffsetInTurns)),
		SaturationMultiplier:           clampFinite(mods.Value(TargetSaturationMultiplier), 0, 2),
		LuminosityShift:                clampFinite(mods.Value(TargetLuminosityShift), -1, 1),
		OpacityMultiplier:              clampedProduct(tip.Opacity, mods.Value(TargetOpacityMultiplier), 2),
	}

	offset := V2(mods.Value(TargetPositionOffsetX), mods.Value(TargetPositionOffsetY)).Mul(brushSize)
	if !velocity.IsZero() {
		forward := velocity.Normalize()
		offset = offset.Add(forward.Mul(mods.Value(TargetPositionOffsetForward) * brushSize))
		offset = offset.Add(forward.Orthogonal().Mul(mods.Value(TargetPositionOffsetLateral) * brushSize))
	}
	if isFinite32(offset.X) && isFinite32(offset.Y) {
		out.Position = position.Add(offset)
	}
	return out
}

// clampedProduct multiplies base by mult and clamps into [0, hi]. A NaN
// product (∞ × 0 and friends) resolves to 0, an infinite one to the bound.
func clampedProduct(base, mult, hi float32) float32 {
	p := base * mult
	if p != p {
		return 0
	}
	return clampFinite(p, 0, hi)
}

// clampFinite clamps v into [lo, hi], treating NaN as lo. The comparisons
// are written so a NaN v falls through to lo.
func clampFinite(v, lo, hi float32) float32 {
	if v > hi {
		return hi
	}
	if v >= lo {
		return v
	}
	return lo
}

// wrapUnit wraps v into [0, 1). Non-finite input wraps to 0.
func wrapUnit(v float32) float32 {
	if !isFinite32(v) {
		return 0
	}
	f := v - float32(math.Floor(float64(v)))
	// Rounding to float32 can land exactly on 1 for inputs just below a
	// whole number.
	if f >= 1 || f < 0 {
		return 0
	}
	return f
}
