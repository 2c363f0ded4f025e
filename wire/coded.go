// Package wire implements the transport encoding for raw stroke inputs: a
// columnar batch of delta-encoded integer runs, plus a little-endian binary
// framing of that batch.
//
// Consecutive stylus samples are highly correlated, so each channel stores
// signed integer deltas against a per-channel scale; value i of a channel is
// the scale times the running sum of the first i deltas. Decoding validates
// the batch structure once, then reconstructs samples lazily.
package wire

import (
	"fmt"
	"iter"
	"math"

	"github.com/gogpu/ink"
)

// NumericRun is one delta-encoded channel. Sample i decodes to
// Scale × (Deltas[0] + … + Deltas[i]).
type NumericRun struct {
	Scale  float32
	Deltas []int32
}

// CodedStrokeInputBatch is the wire form of a stroke input batch. The three
// stroke-space channels are mandatory and must cover every sample; the
// pressure, tilt and orientation channels either cover every sample or are
// empty when the device does not report them.
//
// The struct is plain data: copying it shares the delta slices, which is
// safe because decoding never mutates them.
type CodedStrokeInputBatch struct {
	// ToolType is the producing device for every sample of the batch.
	ToolType ink.ToolType

	// StrokeUnitLengthInCentimeters is the physical size of one
	// stroke-space unit. Zero means the device reported none.
	StrokeUnitLengthInCentimeters float32

	// XStrokeSpace, YStrokeSpace and ElapsedTimeSeconds are the mandatory
	// position and timestamp channels.
	XStrokeSpace       NumericRun
	YStrokeSpace       NumericRun
	ElapsedTimeSeconds NumericRun

	// Pressure, Tilt and Orientation are the optional channels.
	Pressure    NumericRun
	Tilt        NumericRun
	Orientation NumericRun
}

// Len returns the number of samples the batch encodes.
func (c CodedStrokeInputBatch) Len() int { return len(c.XStrokeSpace.Deltas) }

// validate checks the structural wire invariants and returns the sample
// count. Run lengths are checked across every channel before any scale, so
// a batch with both defects reports the length mismatch.
func (c CodedStrokeInputBatch) validate() (int, error) {
	type channel struct {
		name     string
		run      NumericRun
		optional bool
	}
	channels := [...]channel{
		{"x_stroke_space", c.XStrokeSpace, false},
		{"y_stroke_space", c.YStrokeSpace, false},
		{"elapsed_time_seconds", c.ElapsedTimeSeconds, false},
		{"pressure", c.Pressure, true},
		{"tilt", c.Tilt, true},
		{"orientation", c.Orientation, true},
	}

	n := len(c.XStrokeSpace.Deltas)
	for _, ch := range channels {
		if ch.optional && len(ch.run.Deltas) == 0 {
			continue
		}
		if len(ch.run.Deltas) != n {
			return 0, fmt.Errorf("%w: %s has %d deltas, x_stroke_space has %d",
				ErrMismatchedRunLengths, ch.name, len(ch.run.Deltas), n)
		}
	}
	for _, ch := range channels {
		if len(ch.run.Deltas) == 0 {
			continue
		}
		if !isFinite(ch.run.Scale) {
			return 0, fmt.Errorf("%w: %s scale %v", ErrNonFiniteScale, ch.name, ch.run.Scale)
		}
	}
	return n, nil
}

// Decode validates the coded batch and returns a lazy sequence over its
// samples. The sequence is restartable: ranging over it again replays the
// batch from the first sample. An empty batch decodes to an empty sequence
// and a nil error.
//
// Decode checks only the wire-level structure. Per-sample range checks and
// the cross-sample batch invariants are applied when the samples are
// appended to an ink.StrokeInputBatch; see DecodeBatch.
func Decode(coded CodedStrokeInputBatch) (iter.Seq[ink.StrokeInput], error) {
	n, err := coded.validate()
	if err != nil {
		return nil, err
	}

	unitLength := ink.None[ink.PhysicalDistance]()
	if coded.StrokeUnitLengthInCentimeters != 0 {
		unitLength = ink.Some(ink.Centimeters(coded.StrokeUnitLengthInCentimeters))
	}
	hasPressure := len(coded.Pressure.Deltas) > 0
	hasTilt := len(coded.Tilt.Deltas) > 0
	hasOrientation := len(coded.Orientation.Deltas) > 0

	return func(yield func(ink.StrokeInput) bool) {
		var x, y, t, p, tl, o int64
		for i := 0; i < n; i++ {
			x += int64(coded.XStrokeSpace.Deltas[i])
			y += int64(coded.YStrokeSpace.Deltas[i])
			t += int64(coded.ElapsedTimeSeconds.Deltas[i])

			in := ink.StrokeInput{
				ToolType:         coded.ToolType,
				Position:         ink.Pt(coded.XStrokeSpace.Scale*float32(x), coded.YStrokeSpace.Scale*float32(y)),
				ElapsedTime:      ink.Seconds(coded.ElapsedTimeSeconds.Scale * float32(t)),
				StrokeUnitLength: unitLength,
			}
			if hasPressure {
				p += int64(coded.Pressure.Deltas[i])
				in.Pressure = ink.Some(coded.Pressure.Scale * float32(p))
			}
			if hasTilt {
				tl += int64(coded.Tilt.Deltas[i])
				in.Tilt = ink.Some(coded.Tilt.Scale * float32(tl))
			}
			if hasOrientation {
				o += int64(coded.Orientation.Deltas[i])
				in.Orientation = ink.Some(coded.Orientation.Scale * float32(o))
			}
			if !yield(in) {
				return
			}
		}
	}, nil
}

// DecodeBatch decodes and materializes the coded batch, applying the full
// per-sample and cross-sample validation of ink.StrokeInputBatch. On any
// failure the whole batch is rejected.
func DecodeBatch(coded CodedStrokeInputBatch) (ink.StrokeInputBatch, error) {
	seq, err := Decode(coded)
	if err != nil {
		return ink.StrokeInputBatch{}, err
	}
	var batch ink.StrokeInputBatch
	i := 0
	for in := range seq {
		if err := batch.Append(in); err != nil {
			return ink.StrokeInputBatch{}, fmt.Errorf("wire: sample %d: %w", i, err)
		}
		i++
	}
	return batch, nil
}

// EncodeOptions sets the quantization step of each channel: the channel's
// units covered by one integer delta. Zero or negative fields fall back to
// the defaults.
type EncodeOptions struct {
	// PositionScale is in stroke units per step.
	PositionScale float32

	// TimeScale is in seconds per step.
	TimeScale float32

	// PressureScale, TiltScale and OrientationScale are in the channel's
	// natural unit (normalized pressure, radians) per step.
	PressureScale    float32
	TiltScale        float32
	OrientationScale float32
}

// DefaultEncodeOptions quantizes positions to 1/1024 of a stroke unit and
// the remaining channels to 1/4096 of their unit, comfortably below what a
// stylus can resolve.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		PositionScale:    1.0 / 1024,
		TimeScale:        1.0 / 4096,
		PressureScale:    1.0 / 4096,
		TiltScale:        1.0 / 4096,
		OrientationScale: 1.0 / 4096,
	}
}

func (o EncodeOptions) withDefaults() EncodeOptions {
	d := DefaultEncodeOptions()
	if !(o.PositionScale > 0) || !isFinite(o.PositionScale) {
		o.PositionScale = d.PositionScale
	}
	if !(o.TimeScale > 0) || !isFinite(o.TimeScale) {
		o.TimeScale = d.TimeScale
	}
	if !(o.PressureScale > 0) || !isFinite(o.PressureScale) {
		o.PressureScale = d.PressureScale
	}
	if !(o.TiltScale > 0) || !isFinite(o.TiltScale) {
		o.TiltScale = d.TiltScale
	}
	if !(o.OrientationScale > 0) || !isFinite(o.OrientationScale) {
		o.OrientationScale = d.OrientationScale
	}
	return o
}

// Encode quantizes a batch into its coded wire form. Each value is rounded
// to the nearest multiple of its channel scale, so encoding is lossy up to
// half a scale step per value; values already on the scale grid round-trip
// exactly. Optional channels are emitted only when the batch carries them.
func Encode(batch ink.StrokeInputBatch, opts EncodeOptions) CodedStrokeInputBatch {
	opts = opts.withDefaults()

	coded := CodedStrokeInputBatch{ToolType: batch.ToolType()}
	if u, ok := batch.StrokeUnitLength().Get(); ok {
		coded.StrokeUnitLengthInCentimeters = u.Centimeters()
	}
	n := batch.Len()
	if n == 0 {
		return coded
	}

	coded.XStrokeSpace = NumericRun{Scale: opts.PositionScale, Deltas: make([]int32, n)}
	coded.YStrokeSpace = NumericRun{Scale: opts.PositionScale, Deltas: make([]int32, n)}
	coded.ElapsedTimeSeconds = NumericRun{Scale: opts.TimeScale, Deltas: make([]int32, n)}
	if batch.HasPressure() {
		coded.Pressure = NumericRun{Scale: opts.PressureScale, Deltas: make([]int32, n)}
	}
	if batch.HasTilt() {
		coded.Tilt = NumericRun{Scale: opts.TiltScale, Deltas: make([]int32, n)}
	}
	if batch.HasOrientation() {
		coded.Orientation = NumericRun{Scale: opts.OrientationScale, Deltas: make([]int32, n)}
	}

	// Quantize against the running integer sum, not the previous value, so
	// rounding error never accumulates along the stroke.
	var x, y, t, p, tl, o int64
	for i := 0; i < n; i++ {
		in := batch.Get(i)
		x = appendDelta(coded.XStrokeSpace, i, x, in.Position.X)
		y = appendDelta(coded.YStrokeSpace, i, y, in.Position.Y)
		t = appendDelta(coded.ElapsedTimeSeconds, i, t, in.ElapsedTime.Seconds())
		if v, ok := in.Pressure.Get(); ok {
			p = appendDelta(coded.Pressure, i, p, v)
		}
		if v, ok := in.Tilt.Get(); ok {
			tl = appendDelta(coded.Tilt, i, tl, v)
		}
		if v, ok := in.Orientation.Get(); ok {
			o = appendDelta(coded.Orientation, i, o, v)
		}
	}
	return coded
}

func appendDelta(run NumericRun, i int, prev int64, v float32) int64 {
	q := int64(math.Round(float64(v) / float64(run.Scale)))
	run.Deltas[i] = int32(q - prev)
	return q
}

func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}
