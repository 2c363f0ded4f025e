package ink

import (
	"errors"
	"fmt"
)

// ErrInvalidBrush is returned when a brush or tip field is out of range.
var ErrInvalidBrush = errors.New("ink: invalid brush")

func errTipField(name string, vals ...float32) error {
	return fmt.Errorf("%w: tip %s %v out of range", ErrInvalidBrush, name, vals)
}

// Brush is everything the pipeline needs to know about what is drawing: a
// tip geometry, the behaviors that animate it, a base color, an overall
// size, and the modeling epsilon matched to that size.
//
// A Brush is immutable once built; the With* methods return modified copies,
// so one brush value can safely serve many concurrent strokes.
type Brush struct {
	// Tip is the base stamp geometry.
	Tip BrushTip

	// Behaviors animate the tip per modeled input, in declaration order.
	Behaviors []*BrushBehavior

	// Color is the base stamp color before any hue/saturation/luminosity
	// modifiers apply.
	Color RGBA

	// Size is the overall brush scale in stroke units. Behavior sources
	// measured "in brush sizes" divide by it.
	Size float32

	// Epsilon is the smallest positional distance considered meaningful
	// for this brush, in stroke units. StartStroke receives it.
	Epsilon float32
}

// NewBrush builds a validated brush around a tip.
//
// size must be positive and finite. The epsilon defaults to size/1000,
// small enough that merging never visibly moves a stamp.
func NewBrush(tip BrushTip, color RGBA, size float32, behaviors ...*BrushBehavior) (Brush, error) {
	if !(size > 0) || !isFinite32(size) {
		return Brush{}, fmt.Errorf("%w: size %v must be positive and finite", ErrInvalidBrush, size)
	}
	if err := tip.Validate(); err != nil {
		return Brush{}, err
	}
	for i, b := range behaviors {
		if b == nil {
			return Brush{}, fmt.Errorf("%w: behavior %d is nil", ErrInvalidBrush, i)
		}
	}
	return Brush{
		Tip:       tip,
		Behaviors: behaviors,
		Color:     color,
		Size:      size,
		Epsilon:   size / 1000,
	}, nil
}

// WithSize returns a copy of the brush at a new size, with the epsilon
// rescaled proportionally. It panics if size is not positive and finite,
// matching NewBrush's validation.
func (b Brush) WithSize(size float32) Brush {
	if !(size > 0) || !isFinite32(size) {
		panic(fmt.Sprintf("ink: brush size %v must be positive and finite", size))
	}
	b.Epsilon *= size / b.Size
	b.Size = size
	return b
}

// WithColor returns a copy of the brush with a new base color.
func (b Brush) WithColor(c RGBA) Brush {
	b.Color = c
	return b
}

// WithEpsilon returns a copy of the brush with an explicit modeling epsilon.
// It panics if epsilon is not positive and finite.
func (b Brush) WithEpsilon(epsilon float32) Brush {
	validateEpsilon(epsilon)
	b.Epsilon = epsilon
	return b
}
