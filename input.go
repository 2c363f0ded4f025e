package ink

import (
	"errors"
	"fmt"
	"math"
)

// ToolType identifies the kind of device that produced a stroke.
type ToolType int

const (
	// ToolTypeUnknown is the zero value for inputs whose device is unreported.
	ToolTypeUnknown ToolType = iota
	// ToolTypeMouse is a relative pointing device with no physical scale.
	ToolTypeMouse
	// ToolTypeTouch is a finger or capacitive touch contact.
	ToolTypeTouch
	// ToolTypeStylus is an active pen, typically with pressure and tilt.
	ToolTypeStylus
)

// String returns a human-readable name for the tool type.
func (t ToolType) String() string {
	switch t {
	case ToolTypeUnknown:
		return "unknown"
	case ToolTypeMouse:
		return "mouse"
	case ToolTypeTouch:
		return "touch"
	case ToolTypeStylus:
		return "stylus"
	default:
		return fmt.Sprintf("ToolType(%d)", int(t))
	}
}

// isValid reports whether t is one of the declared tool types.
func (t ToolType) isValid() bool {
	return t >= ToolTypeUnknown && t <= ToolTypeStylus
}

// StrokeInput is one raw pointer sample. Values are immutable once created;
// the modeler only ever reads them.
type StrokeInput struct {
	// ToolType identifies the producing device. It must be the same for
	// every input of a stroke.
	ToolType ToolType

	// Position is the sample location in stroke space.
	Position Point

	// ElapsedTime is the time since the start of the stroke. It must be
	// non-decreasing across the inputs of a stroke.
	ElapsedTime Duration32

	// StrokeUnitLength is the physical size of one stroke-space unit, when
	// the device can report it. Absent for mice. Once reported it must stay
	// the same for the entire stroke.
	StrokeUnitLength Optional[PhysicalDistance]

	// Pressure is the normalized contact pressure in [0, 1], when reported.
	Pressure Optional[float32]

	// Tilt is the angle between the tool and the surface normal, in
	// [0, π/2], when reported.
	Tilt Optional[float32]

	// Orientation is the azimuth of the tool projected onto the surface, in
	// [0, 2π), when reported. It carries no information while Tilt is zero.
	Orientation Optional[float32]
}

// Sentinel errors reported by StrokeInput and StrokeInputBatch validation.
var (
	// ErrInvalidInput is returned when a single sample holds an
	// out-of-range or non-finite value.
	ErrInvalidInput = errors.New("ink: invalid stroke input")

	// ErrToolTypeMismatch is returned when an appended input's tool type
	// differs from the batch's.
	ErrToolTypeMismatch = errors.New("ink: tool type differs within a stroke")

	// ErrUnitLengthMismatch is returned when an appended input's stroke
	// unit length differs from the batch's.
	ErrUnitLengthMismatch = errors.New("ink: stroke unit length differs within a stroke")

	// ErrChannelPresence is returned when an optional channel is present on
	// only part of a stroke.
	ErrChannelPresence = errors.New("ink: optional channel present on only part of a stroke")

	// ErrNonMonotonicTime is returned when an appended input's elapsed time
	// precedes the batch's last input.
	ErrNonMonotonicTime = errors.New("ink: elapsed time decreased within a stroke")
)

// Validate checks the per-sample invariants: a declared tool type, finite
// position, non-negative finite elapsed time, and every present optional
// channel within its documented range.
func (in StrokeInput) Validate() error {
	if !in.ToolType.isValid() {
		return fmt.Errorf("%w: tool type %d", ErrInvalidInput, int(in.ToolType))
	}
	if !isFinite32(in.Position.X) || !isFinite32(in.Position.Y) {
		return fmt.Errorf("%w: non-finite position (%v, %v)", ErrInvalidInput, in.Position.X, in.Position.Y)
	}
	if t := in.ElapsedTime.Seconds(); !isFinite32(t) || t < 0 {
		return fmt.Errorf("%w: elapsed time %v s", ErrInvalidInput, t)
	}
	if u, ok := in.StrokeUnitLength.Get(); ok {
		if cm := u.Centimeters(); !isFinite32(cm) || cm <= 0 {
			return fmt.Errorf("%w: stroke unit length %v cm", ErrInvalidInput, cm)
		}
	}
	if p, ok := in.Pressure.Get(); ok {
		if !isFinite32(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: pressure %v outside [0, 1]", ErrInvalidInput, p)
		}
	}
	if tilt, ok := in.Tilt.Get(); ok {
		if !isFinite32(tilt) || tilt < 0 || tilt > math.Pi/2 {
			return fmt.Errorf("%w: tilt %v outside [0, π/2]", ErrInvalidInput, tilt)
		}
	}
	if o, ok := in.Orientation.Get(); ok {
		if !isFinite32(o) || o < 0 || o >= twoPi {
			return fmt.Errorf("%w: orientation %v outside [0, 2π)", ErrInvalidInput, o)
		}
	}
	return nil
}

// isFinite32 reports whether x is neither NaN nor infinite.
func isFinite32(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}
