package ink

import (
	"fmt"
)

// StrokeInputBatch is an ordered collection of raw inputs belonging to one
// stroke. Inputs can only enter through Append or MakeStrokeInputBatch, so a
// batch that exists is always internally consistent: one tool type, one
// stroke unit length, uniform optional-channel presence, and non-decreasing
// elapsed time.
//
// The zero value is an empty batch ready for use.
type StrokeInputBatch struct {
	inputs []StrokeInput
}

// MakeStrokeInputBatch validates and collects inputs into a batch. On error
// it reports the offending index and returns the zero batch.
func MakeStrokeInputBatch(inputs []StrokeInput) (StrokeInputBatch, error) {
	var b StrokeInputBatch
	for i, in := range inputs {
		if err := b.Append(in); err != nil {
			return StrokeInputBatch{}, fmt.Errorf("ink: input %d: %w", i, err)
		}
	}
	return b, nil
}

// Append validates in against the per-sample invariants and against the
// batch's existing inputs, then adds it. On error the batch is unchanged.
func (b *StrokeInputBatch) Append(in StrokeInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if len(b.inputs) > 0 {
		last := b.inputs[len(b.inputs)-1]
		if in.ToolType != last.ToolType {
			return fmt.Errorf("%w: %v then %v", ErrToolTypeMismatch, last.ToolType, in.ToolType)
		}
		if err := checkPresence("stroke unit length", last.StrokeUnitLength.IsSet(), in.StrokeUnitLength.IsSet()); err != nil {
			return err
		}
		if prev, ok := last.StrokeUnitLength.Get(); ok {
			if cur, _ := in.StrokeUnitLength.Get(); cur != prev {
				return fmt.Errorf("%w: %v cm then %v cm", ErrUnitLengthMismatch, prev.Centimeters(), cur.Centimeters())
			}
		}
		if err := checkPresence("pressure", last.Pressure.IsSet(), in.Pressure.IsSet()); err != nil {
			return err
		}
		if err := checkPresence("tilt", last.Tilt.IsSet(), in.Tilt.IsSet()); err != nil {
			return err
		}
		if err := checkPresence("orientation", last.Orientation.IsSet(), in.Orientation.IsSet()); err != nil {
			return err
		}
		if in.ElapsedTime.Seconds() < last.ElapsedTime.Seconds() {
			return fmt.Errorf("%w: %v s then %v s", ErrNonMonotonicTime, last.ElapsedTime.Seconds(), in.ElapsedTime.Seconds())
		}
	}
	b.inputs = append(b.inputs, in)
	return nil
}

func checkPresence(channel string, had, has bool) error {
	if had != has {
		return fmt.Errorf("%w: %s", ErrChannelPresence, channel)
	}
	return nil
}

// Len returns the number of inputs in the batch.
func (b StrokeInputBatch) Len() int { return len(b.inputs) }

// IsEmpty reports whether the batch holds no inputs.
func (b StrokeInputBatch) IsEmpty() bool { return len(b.inputs) == 0 }

// Get returns the input at index i. It panics if i is out of range, matching
// slice indexing.
func (b StrokeInputBatch) Get(i int) StrokeInput { return b.inputs[i] }

// First returns the earliest input. It panics on an empty batch.
func (b StrokeInputBatch) First() StrokeInput { return b.inputs[0] }

// Last returns the most recent input. It panics on an empty batch.
func (b StrokeInputBatch) Last() StrokeInput { return b.inputs[len(b.inputs)-1] }

// ToolType returns the batch's tool type, or ToolTypeUnknown when empty.
func (b StrokeInputBatch) ToolType() ToolType {
	if len(b.inputs) == 0 {
		return ToolTypeUnknown
	}
	return b.inputs[0].ToolType
}

// StrokeUnitLength returns the physical size of one stroke-space unit, or an
// unset value when the batch is empty or the device did not report one.
func (b StrokeInputBatch) StrokeUnitLength() Optional[PhysicalDistance] {
	if len(b.inputs) == 0 {
		return None[PhysicalDistance]()
	}
	return b.inputs[0].StrokeUnitLength
}

// HasStrokeUnitLength reports whether the inputs carry a physical scale.
func (b StrokeInputBatch) HasStrokeUnitLength() bool {
	return len(b.inputs) > 0 && b.inputs[0].StrokeUnitLength.IsSet()
}

// HasPressure reports whether the inputs carry the pressure channel.
func (b StrokeInputBatch) HasPressure() bool {
	return len(b.inputs) > 0 && b.inputs[0].Pressure.IsSet()
}

// HasTilt reports whether the inputs carry the tilt channel.
func (b StrokeInputBatch) HasTilt() bool {
	return len(b.inputs) > 0 && b.inputs[0].Tilt.IsSet()
}

// HasOrientation reports whether the inputs carry the orientation channel.
func (b StrokeInputBatch) HasOrientation() bool {
	return len(b.inputs) > 0 && b.inputs[0].Orientation.IsSet()
}

// Duration returns the elapsed time spanned by the batch, which is zero for
// an empty or single-input batch.
func (b StrokeInputBatch) Duration() Duration32 {
	if len(b.inputs) == 0 {
		return Seconds(0)
	}
	return b.Last().ElapsedTime.Sub(b.First().ElapsedTime)
}

// Envelope returns the tight bounding rectangle of the input positions. The
// second result is false when the batch is empty.
func (b StrokeInputBatch) Envelope() (Rect, bool) {
	if len(b.inputs) == 0 {
		return Rect{}, false
	}
	r := NewRect(b.inputs[0].Position, b.inputs[0].Position)
	for _, in := range b.inputs[1:] {
		r = r.Union(NewRect(in.Position, in.Position))
	}
	return r, true
}
