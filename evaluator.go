package ink

import "math"

// The evaluation stack uses NaN as its null sentinel. The sentinel never
// escapes: modifiers only receive non-null contributions.

func nullValue() float32 { return float32(math.NaN()) }

func isNull(v float32) bool { return v != v }

// BehaviorEvaluator runs a fixed set of brush behaviors over the successive
// modeled inputs of one stroke.
//
// The evaluator owns the per-stroke persistent state the nodes need: one
// damped value per damping node, one noise generator per noise node, and
// the progress trackers that turn consecutive inputs into distance/time
// deltas. All of it is pre-sized at construction, so Evaluate allocates
// nothing.
//
// Like the modeler, an evaluator serves one stroke at a time with a single
// writer. Clone makes speculative evaluation cheap: evaluate the stable
// prefix on the original and the retractable tail on a throwaway copy.
type BehaviorEvaluator struct {
	behaviors []*BrushBehavior

	// Slot arenas, indexed by behavior offset + node slot.
	dampingOffsets []int
	noiseOffsets   []int
	damped         []float32
	noise          []NoiseGenerator

	stack []float32

	prevTraveled float32
	prevElapsed  Duration32
}

// NewBehaviorEvaluator builds an evaluator over the given behaviors,
// evaluated in order against a shared modifier array. Behaviors must come
// from NewBrushBehavior; a nil behavior panics.
func NewBehaviorEvaluator(behaviors ...*BrushBehavior) *BehaviorEvaluator {
	e := &BehaviorEvaluator{
		behaviors:      behaviors,
		dampingOffsets: make([]int, len(behaviors)),
		noiseOffsets:   make([]int, len(behaviors)),
	}
	dampingTotal, noiseTotal, maxStack := 0, 0, 0
	for i, b := range behaviors {
		e.dampingOffsets[i] = dampingTotal
		e.noiseOffsets[i] = noiseTotal
		dampingTotal += b.dampingSlots
		noiseTotal += b.noiseSlots
		if b.maxStack > maxStack {
			maxStack = b.maxStack
		}
	}
	e.damped = make([]float32, dampingTotal)
	e.noise = make([]NoiseGenerator, noiseTotal)
	e.stack = make([]float32, 0, maxStack)
	e.Reset()
	return e
}

// Reset prepares the evaluator for a new stroke: damped values become
// unset, noise generators rewind to their seeds, and progress restarts at
// zero. Resetting makes replayed strokes reproduce exactly.
func (e *BehaviorEvaluator) Reset() {
	for i := range e.damped {
		e.damped[i] = nullValue()
	}
	for i, b := range e.behaviors {
		slot := e.noiseOffsets[i]
		for ni, node := range b.nodes {
			if noise, ok := node.(NoiseNode); ok {
				e.noise[slot+b.nodeSlots[ni]] = NewNoiseGenerator(noise.Seed)
			}
		}
	}
	e.prevTraveled = 0
	e.prevElapsed = Seconds(0)
}

// Clone returns an independent copy sharing no mutable state, positioned at
// exactly the same point of the stroke.
func (e *BehaviorEvaluator) Clone() *BehaviorEvaluator {
	out := &BehaviorEvaluator{
		behaviors:      e.behaviors,
		dampingOffsets: e.dampingOffsets,
		noiseOffsets:   e.noiseOffsets,
		damped:         append([]float32(nil), e.damped...),
		noise:          append([]NoiseGenerator(nil), e.noise...),
		stack:          make([]float32, 0, cap(e.stack)),
		prevTraveled:   e.prevTraveled,
		prevElapsed:    e.prevElapsed,
	}
	return out
}

// Evaluate runs every behavior against one modeled input and returns the
// composed target modifiers. brushSize is the stroke's brush size; it must
// stay constant across a stroke for distance-in-brush-size progress to be
// meaningful.
func (e *BehaviorEvaluator) Evaluate(input ModeledStrokeInput, state ModelerState, brushSize float32) TargetModifiers {
	var mods TargetModifiers
	mods.Reset()

	ctx := evalContext{
		input:     input,
		state:     state,
		brushSize: brushSize,
		deltaDist: max32(input.TraveledDistance-e.prevTraveled, 0),
		deltaTime: max32(input.ElapsedTime.Sub(e.prevElapsed).Seconds(), 0),
	}
	e.prevTraveled = input.TraveledDistance
	e.prevElapsed = input.ElapsedTime

	for bi, b := range e.behaviors {
		e.stack = e.stack[:0]
		for ni, node := range b.nodes {
			e.evalNode(node, &ctx, &mods,
				e.dampingOffsets[bi]+b.nodeSlots[ni],
				e.noiseOffsets[bi]+b.nodeSlots[ni])
		}
	}
	return mods
}

// evalContext carries one modeled input plus the per-call progress deltas
// shared by every node of every behavior.
type evalContext struct {
	input     ModeledStrokeInput
	state     ModelerState
	brushSize float32
	deltaDist float32 // stroke units since the previous evaluation
	deltaTime float32 // seconds since the previous evaluation
}

// unitCentimeters returns the physical size of one stroke unit, when known.
func (c *evalContext) unitCentimeters() (float32, bool) {
	u, ok := c.state.StrokeUnitLength.Get()
	if !ok {
		return 0, false
	}
	return u.Centimeters(), true
}

// brushSizeValid reports whether brush-relative quantities are meaningful.
func (c *evalContext) brushSizeValid() bool {
	return c.brushSize > 0 && isFinite32(c.brushSize)
}

// progressDelta converts the per-call deltas into base units, divided by
// period. Physical progress degrades to zero when the unit length is
// unknown rather than failing.
func (c *evalContext) progressDelta(base NoiseProgressBase, period float32) float32 {
	switch base {
	case NoiseOverDistanceInCentimeters:
		cm, ok := c.unitCentimeters()
		if !ok {
			return 0
		}
		return c.deltaDist * cm / period
	case NoiseOverDistanceInBrushSizes:
		if !c.brushSizeValid() {
			return 0
		}
		return c.deltaDist / c.brushSize / period
	default:
		return c.deltaTime / period
	}
}

// dampingDelta is progressDelta for a damping source with a unit period.
func (c *evalContext) dampingDelta(source DampingSource) float32 {
	switch source {
	case DampingDistanceInCentimeters:
		return c.progressDelta(NoiseOverDistanceInCentimeters, 1)
	case DampingDistanceInBrushSizes:
		return c.progressDelta(NoiseOverDistanceInBrushSizes, 1)
	default:
		return c.progressDelta(NoiseOverTimeInSeconds, 1)
	}
}

func (e *BehaviorEvaluator) push(v float32) {
	e.stack = append(e.stack, v)
}

func (e *BehaviorEvaluator) pop() float32 {
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

// evalNode executes one node. Validation has proven the stack holds enough
// operands, so no bounds checks are repeated here.
func (e *BehaviorEvaluator) evalNode(node BehaviorNode, ctx *evalContext, mods *TargetModifiers, dampingSlot, noiseSlot int) {
	switch n := node.(type) {
	case SourceNode:
		raw, ok := sourceValue(n.Source, ctx)
		if !ok {
			e.push(nullValue())
			return
		}
		ratio := (raw - n.ValueRange[0]) / (n.ValueRange[1] - n.ValueRange[0])
		e.push(foldIntoUnit(ratio, n.OutOfRange))

	case ConstantNode:
		e.push(n.Value)

	case NoiseNode:
		gen := &e.noise[noiseSlot]
		gen.AdvanceInputBy(ctx.progressDelta(n.VaryOver, n.BasePeriod))
		e.push(gen.CurrentOutputValue())

	case FallbackFilterNode:
		if inputCarries(n.IsFallbackFor, ctx.input) {
			e.stack[len(e.stack)-1] = nullValue()
		}

	case ToolTypeFilterNode:
		enabled := false
		for _, tool := range n.EnabledTools {
			if tool == ctx.state.ToolType {
				enabled = true
				break
			}
		}
		if !enabled {
			e.stack[len(e.stack)-1] = nullValue()
		}

	case DampingNode:
		v := e.pop()
		held := e.damped[dampingSlot]
		switch {
		case isNull(v):
			// Hold the last known good value; null before the first
			// non-null input stays null.
			e.push(held)
		case isNull(held) || n.Gap <= 0:
			// First defined input snaps, no decayed approach from an
			// undefined prior state.
			e.damped[dampingSlot] = v
			e.push(v)
		default:
			catchUp := 1 - float32(math.Exp(float64(-ctx.dampingDelta(n.Source)/n.Gap)))
			held += (v - held) * catchUp
			e.damped[dampingSlot] = held
			e.push(held)
		}

	case ResponseNode:
		v := e.pop()
		if isNull(v) {
			e.push(v)
			return
		}
		e.push(n.Response.Apply(v))

	case BinaryOpNode:
		b, a := e.pop(), e.pop()
		if isNull(a) || isNull(b) {
			e.push(nullValue())
			return
		}
		if n.Op == BinaryOpSum {
			e.push(a + b)
			return
		}
		e.push(a * b)

	case InterpolationNode:
		param, start, end := e.pop(), e.pop(), e.pop()
		if isNull(param) || isNull(start) || isNull(end) {
			e.push(nullValue())
			return
		}
		if n.Interpolation == InterpolationLerp {
			e.push(start + (end-start)*param)
			return
		}
		if start == end {
			e.push(nullValue())
			return
		}
		e.push((param - start) / (end - start))

	case TargetNode:
		v := e.pop()
		if isNull(v) {
			return
		}
		mods.compose(n.Target, lerp32(n.OutputRange[0], n.OutputRange[1], v))

	case PolarTargetNode:
		angleParam, magParam := e.pop(), e.pop()
		if isNull(angleParam) || isNull(magParam) {
			return
		}
		angle := lerp32(n.AngleRange[0], n.AngleRange[1], angleParam)
		mag := lerp32(n.MagnitudeRange[0], n.MagnitudeRange[1], magParam)
		sin, cos := math.Sincos(float64(angle))
		if n.Target == PolarTargetPositionOffsetAbsolute {
			mods.compose(TargetPositionOffsetX, mag*float32(cos))
			mods.compose(TargetPositionOffsetY, mag*float32(sin))
			return
		}
		mods.compose(TargetPositionOffsetForward, mag*float32(cos))
		mods.compose(TargetPositionOffsetLateral, mag*float32(sin))
	}
}

// foldIntoUnit maps an already range-normalized ratio into [0, 1] according
// to the out-of-range policy. A non-finite ratio (infinite range endpoints
// cannot produce one, but an adversarial source could) folds to 0.
func foldIntoUnit(ratio float32, policy OutOfRangeBehavior) float32 {
	if !isFinite32(ratio) {
		return 0
	}
	switch policy {
	case OutOfRangeRepeat:
		f := ratio - float32(math.Floor(float64(ratio)))
		if f >= 1 {
			f = 0
		}
		return f
	case OutOfRangeMirror:
		m := float32(math.Mod(float64(ratio), 2))
		if m < 0 {
			m += 2
		}
		if m > 1 {
			m = 2 - m
		}
		return m
	default:
		return clamp01(ratio)
	}
}

// inputCarries reports whether the input provides an optional property.
func inputCarries(p OptionalInputProperty, in ModeledStrokeInput) bool {
	switch p {
	case OptionalPropertyPressure:
		return in.Pressure.IsSet()
	case OptionalPropertyTilt:
		return in.Tilt.IsSet()
	case OptionalPropertyOrientation:
		return in.Orientation.IsSet()
	default:
		return in.Tilt.IsSet() && in.Orientation.IsSet()
	}
}

// sourceValue extracts the raw quantity a source reads, reporting false
// when it is undefined for this input.
func sourceValue(src BehaviorSource, ctx *evalContext) (float32, bool) {
	in := &ctx.input
	switch src {
	case SourcePressure:
		return in.Pressure.Get()
	case SourceTilt:
		return in.Tilt.Get()
	case SourceTiltX:
		x, _, ok := tiltComponents(in)
		return x, ok
	case SourceTiltY:
		_, y, ok := tiltComponents(in)
		return y, ok
	case SourceOrientation:
		return definedOrientation(in)
	case SourceOrientationAboutZero:
		o, ok := definedOrientation(in)
		if !ok {
			return 0, false
		}
		return NormalizedAngleAboutZero(o), true

	case SourceSpeedInBrushSizes:
		return ctx.perBrushSize(in.Velocity.Length())
	case SourceVelocityXInBrushSizes:
		return ctx.perBrushSize(in.Velocity.X)
	case SourceVelocityYInBrushSizes:
		return ctx.perBrushSize(in.Velocity.Y)

	case SourceDirection:
		if in.Velocity.IsZero() {
			return 0, false
		}
		return NormalizedAngle(in.Velocity.Atan2()), true
	case SourceDirectionAboutZero:
		if in.Velocity.IsZero() {
			return 0, false
		}
		return NormalizedAngleAboutZero(in.Velocity.Atan2()), true
	case SourceNormalizedDirectionX:
		if in.Velocity.IsZero() {
			return 0, false
		}
		return in.Velocity.Normalize().X, true
	case SourceNormalizedDirectionY:
		if in.Velocity.IsZero() {
			return 0, false
		}
		return in.Velocity.Normalize().Y, true

	case SourceDistanceTraveledInBrushSizes:
		return ctx.perBrushSize(in.TraveledDistance)
	case SourceDistanceRemainingInBrushSizes:
		return ctx.perBrushSize(max32(ctx.state.CompleteTraveledDistance-in.TraveledDistance, 0))
	case SourcePredictedDistanceInBrushSizes:
		return ctx.perBrushSize(max32(in.TraveledDistance-ctx.state.TotalRealDistance, 0))
	case SourcePredictedTimeInSeconds:
		return max32(in.ElapsedTime.Sub(ctx.state.TotalRealElapsedTime).Seconds(), 0), true

	case SourceTimeElapsedInSeconds:
		return in.ElapsedTime.Seconds(), true
	case SourceTimeElapsedInMillis:
		return in.ElapsedTime.Millis(), true
	case SourceTimeRemainingInSeconds:
		return max32(ctx.state.CompleteElapsedTime.Sub(in.ElapsedTime).Seconds(), 0), true
	case SourceTimeRemainingInMillis:
		return max32(ctx.state.CompleteElapsedTime.Sub(in.ElapsedTime).Millis(), 0), true

	case SourceAccelerationXInBrushSizes:
		return ctx.perBrushSize(in.Acceleration.X)
	case SourceAccelerationYInBrushSizes:
		return ctx.perBrushSize(in.Acceleration.Y)
	case SourceAccelerationForwardInBrushSizes:
		if in.Velocity.IsZero() {
			return 0, false
		}
		return ctx.perBrushSize(in.Acceleration.Dot(in.Velocity.Normalize()))
	case SourceAccelerationLateralInBrushSizes:
		if in.Velocity.IsZero() {
			return 0, false
		}
		return ctx.perBrushSize(in.Acceleration.Dot(in.Velocity.Normalize().Orthogonal()))

	case SourceInputSpeedInCentimeters:
		return ctx.perCentimeter(in.Velocity.Length())
	case SourceInputVelocityXInCentimeters:
		return ctx.perCentimeter(in.Velocity.X)
	case SourceInputVelocityYInCentimeters:
		return ctx.perCentimeter(in.Velocity.Y)
	case SourceInputDistanceTraveledInCentimeters:
		return ctx.perCentimeter(in.TraveledDistance)
	case SourceInputDistanceRemainingInCentimeters:
		return ctx.perCentimeter(max32(ctx.state.CompleteTraveledDistance-in.TraveledDistance, 0))
	case SourceInputAccelerationInCentimeters:
		return ctx.perCentimeter(in.Acceleration.Length())
	default:
		return 0, false
	}
}

// perBrushSize expresses a stroke-unit quantity in brush sizes.
func (c *evalContext) perBrushSize(v float32) (float32, bool) {
	if !c.brushSizeValid() {
		return 0, false
	}
	return v / c.brushSize, true
}

// perCentimeter expresses a stroke-unit quantity physically.
func (c *evalContext) perCentimeter(v float32) (float32, bool) {
	cm, ok := c.unitCentimeters()
	if !ok {
		return 0, false
	}
	return v * cm, true
}

// tiltComponents decomposes tilt and orientation into the tilt angles about
// the y and x axes: the spherical tool direction projected onto the xz and
// yz planes.
func tiltComponents(in *ModeledStrokeInput) (tiltX, tiltY float32, ok bool) {
	tilt, okTilt := in.Tilt.Get()
	orientation, okOrient := in.Orientation.Get()
	if !okTilt || !okOrient {
		return 0, 0, false
	}
	sinT, cosT := math.Sincos(float64(tilt))
	sinO, cosO := math.Sincos(float64(orientation))
	tiltX = float32(math.Atan2(sinT*cosO, cosT))
	tiltY = float32(math.Atan2(sinT*sinO, cosT))
	return tiltX, tiltY, true
}

// definedOrientation returns the orientation when it carries information:
// present, and not degenerate because the tool is perpendicular.
func definedOrientation(in *ModeledStrokeInput) (float32, bool) {
	o, ok := in.Orientation.Get()
	if !ok {
		return 0, false
	}
	if tilt, ok := in.Tilt.Get(); ok && tilt == 0 {
		return 0, false
	}
	return o, true
}
