package ink

import (
	"math"
	"testing"
)

// identityMods is the all-identity modifier array, the result of evaluating
// nothing.
func identityMods() TargetModifiers {
	var m TargetModifiers
	m.Reset()
	return m
}

// evalOnce builds a single-behavior evaluator and runs it against one input.
func evalOnce(t *testing.T, in ModeledStrokeInput, state ModelerState, brushSize float32, nodes ...BehaviorNode) TargetModifiers {
	t.Helper()
	return NewBehaviorEvaluator(mustBehavior(t, nodes...)).Evaluate(in, state, brushSize)
}

// fullInput is a modeled input with every channel defined and non-trivial
// kinematics: velocity (30, 40), acceleration (10, 0), 20 units traveled by
// t=2s.
func fullInput() ModeledStrokeInput {
	return ModeledStrokeInput{
		Position:         Pt(3, 4),
		Velocity:         V2(30, 40),
		Acceleration:     V2(10, 0),
		TraveledDistance: 20,
		ElapsedTime:      Seconds(2),
		Pressure:         Some[float32](0.5),
		Tilt:             Some[float32](math.Pi / 4),
		Orientation:      Some[float32](math.Pi / 2),
	}
}

// fullState pairs with fullInput: the stroke spans 3s and 50 units in total,
// of which 1.5s and 15 units are confirmed, and one stroke unit is 0.1 cm.
func fullState() ModelerState {
	return ModelerState{
		ToolType:                 ToolTypeStylus,
		StrokeUnitLength:         Some(Centimeters(0.1)),
		CompleteElapsedTime:      Seconds(3),
		CompleteTraveledDistance: 50,
		TotalRealElapsedTime:     Seconds(1.5),
		TotalRealDistance:        15,
	}
}

func TestSourceValue_Quantities(t *testing.T) {
	ctx := evalContext{input: fullInput(), state: fullState(), brushSize: 10}

	tests := []struct {
		name   string
		source BehaviorSource
		want   float32
	}{
		{"pressure", SourcePressure, 0.5},
		{"tilt", SourceTilt, math.Pi / 4},
		{"tilt x", SourceTiltX, 0},
		{"tilt y", SourceTiltY, math.Pi / 4},
		{"orientation", SourceOrientation, math.Pi / 2},
		{"orientation about zero", SourceOrientationAboutZero, math.Pi / 2},
		{"speed in brush sizes", SourceSpeedInBrushSizes, 5},
		{"velocity x in brush sizes", SourceVelocityXInBrushSizes, 3},
		{"velocity y in brush sizes", SourceVelocityYInBrushSizes, 4},
		{"direction", SourceDirection, 0.9272952},
		{"direction about zero", SourceDirectionAboutZero, 0.9272952},
		{"normalized direction x", SourceNormalizedDirectionX, 0.6},
		{"normalized direction y", SourceNormalizedDirectionY, 0.8},
		{"distance traveled in brush sizes", SourceDistanceTraveledInBrushSizes, 2},
		{"distance remaining in brush sizes", SourceDistanceRemainingInBrushSizes, 3},
		{"predicted distance in brush sizes", SourcePredictedDistanceInBrushSizes, 0.5},
		{"predicted time in seconds", SourcePredictedTimeInSeconds, 0.5},
		{"time elapsed in seconds", SourceTimeElapsedInSeconds, 2},
		{"time elapsed in millis", SourceTimeElapsedInMillis, 2000},
		{"time remaining in seconds", SourceTimeRemainingInSeconds, 1},
		{"time remaining in millis", SourceTimeRemainingInMillis, 1000},
		{"acceleration x in brush sizes", SourceAccelerationXInBrushSizes, 1},
		{"acceleration y in brush sizes", SourceAccelerationYInBrushSizes, 0},
		{"acceleration forward in brush sizes", SourceAccelerationForwardInBrushSizes, 0.6},
		{"acceleration lateral in brush sizes", SourceAccelerationLateralInBrushSizes, -0.8},
		{"input speed in centimeters", SourceInputSpeedInCentimeters, 5},
		{"input velocity x in centimeters", SourceInputVelocityXInCentimeters, 3},
		{"input velocity y in centimeters", SourceInputVelocityYInCentimeters, 4},
		{"input distance traveled in centimeters", SourceInputDistanceTraveledInCentimeters, 2},
		{"input distance remaining in centimeters", SourceInputDistanceRemainingInCentimeters, 3},
		{"input acceleration in centimeters", SourceInputAccelerationInCentimeters, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sourceValue(tt.source, &ctx)
			if !ok {
				t.Fatalf("sourceValue(%d) undefined, want %v", int(tt.source), tt.want)
			}
			if !near(got, tt.want) {
				t.Errorf("sourceValue(%d) = %v, want %v", int(tt.source), got, tt.want)
			}
		})
	}
}

func TestSourceValue_Undefined(t *testing.T) {
	bare := evalContext{input: ModeledStrokeInput{ElapsedTime: Seconds(1)}, state: ModelerState{}, brushSize: 10}
	noBrush := evalContext{input: fullInput(), state: fullState(), brushSize: 0}

	perpendicular := fullInput()
	perpendicular.Tilt = Some[float32](0)
	perp := evalContext{input: perpendicular, state: fullState(), brushSize: 10}

	tests := []struct {
		name   string
		ctx    *evalContext
		source BehaviorSource
	}{
		{"pressure missing", &bare, SourcePressure},
		{"tilt missing", &bare, SourceTilt},
		{"tilt x needs both channels", &bare, SourceTiltX},
		{"orientation missing", &bare, SourceOrientation},
		{"orientation degenerate at zero tilt", &perp, SourceOrientation},
		{"direction at rest", &bare, SourceDirection},
		{"normalized direction at rest", &bare, SourceNormalizedDirectionX},
		{"forward acceleration at rest", &bare, SourceAccelerationForwardInBrushSizes},
		{"physical speed without unit length", &bare, SourceInputSpeedInCentimeters},
		{"physical distance without unit length", &bare, SourceInputDistanceTraveledInCentimeters},
		{"brush-relative speed without brush size", &noBrush, SourceSpeedInBrushSizes},
		{"brush-relative distance without brush size", &noBrush, SourceDistanceTraveledInBrushSizes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := sourceValue(tt.source, tt.ctx); ok {
				t.Errorf("sourceValue(%d) defined, want undefined", int(tt.source))
			}
		})
	}
}

func TestBehaviorEvaluator_SourceToTarget(t *testing.T) {
	nodes := []BehaviorNode{
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0.5, 1.5}},
	}

	mods := evalOnce(t, fullInput(), fullState(), 10, nodes...)
	if got := mods.Value(TargetWidthMultiplier); !near(got, 1.0) {
		t.Errorf("width multiplier = %v, want 1.0 for pressure 0.5", got)
	}

	// Every other slot stays at its identity.
	want := identityMods()
	want.compose(TargetWidthMultiplier, mods.Value(TargetWidthMultiplier))
	if mods != want {
		t.Errorf("unrelated modifier slots were touched: %v", mods)
	}

	// A missing source leaves the target slot at its identity.
	noPressure := fullInput()
	noPressure.Pressure = None[float32]()
	mods = evalOnce(t, noPressure, fullState(), 10, nodes...)
	if got := mods.Value(TargetWidthMultiplier); got != 1 {
		t.Errorf("width multiplier = %v, want identity 1 when pressure is missing", got)
	}
}

func TestBehaviorEvaluator_ValueRangeFolding(t *testing.T) {
	eval := func(pressure float32, valueRange [2]float32, policy OutOfRangeBehavior) float32 {
		in := fullInput()
		in.Pressure = Some(pressure)
		mods := evalOnce(t, in, fullState(), 10,
			SourceNode{Source: SourcePressure, ValueRange: valueRange, OutOfRange: policy},
			TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
		)
		return mods.Value(TargetLuminosityShift)
	}

	tests := []struct {
		name       string
		pressure   float32
		valueRange [2]float32
		policy     OutOfRangeBehavior
		want       float32
	}{
		{"inside range", 0.4, [2]float32{0.2, 0.6}, OutOfRangeClamp, 0.5},
		{"clamp above", 1.0, [2]float32{0.2, 0.6}, OutOfRangeClamp, 1},
		{"clamp below", 0.1, [2]float32{0.2, 0.6}, OutOfRangeClamp, 0},
		{"repeat wraps", 0.9, [2]float32{0.2, 0.6}, OutOfRangeRepeat, 0.75},
		{"repeat lands on integer", 0.75, [2]float32{0.25, 0.5}, OutOfRangeRepeat, 0},
		{"mirror reflects", 0.9, [2]float32{0.2, 0.6}, OutOfRangeMirror, 0.25},
		{"mirror second period", 1.0, [2]float32{0.1, 0.5}, OutOfRangeMirror, 0.25},
		{"reversed range", 0.3, [2]float32{1, 0}, OutOfRangeClamp, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eval(tt.pressure, tt.valueRange, tt.policy); !near(got, tt.want) {
				t.Errorf("folded value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBehaviorEvaluator_BinaryAndInterpolationOps(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []BehaviorNode
		target BehaviorTarget
		want   float32
	}{
		{
			"product",
			[]BehaviorNode{
				ConstantNode{Value: 0.5},
				ConstantNode{Value: 0.8},
				BinaryOpNode{Op: BinaryOpProduct},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
			TargetLuminosityShift, 0.4,
		},
		{
			"sum",
			[]BehaviorNode{
				ConstantNode{Value: 0.5},
				ConstantNode{Value: 0.8},
				BinaryOpNode{Op: BinaryOpSum},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
			TargetLuminosityShift, 1.3,
		},
		{
			"lerp extrapolates through target range",
			[]BehaviorNode{
				ConstantNode{Value: 10}, // end
				ConstantNode{Value: 2},  // start
				ConstantNode{Value: 0.25},
				InterpolationNode{Interpolation: InterpolationLerp},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
			TargetLuminosityShift, 4,
		},
		{
			"inverse lerp",
			[]BehaviorNode{
				ConstantNode{Value: 10}, // end
				ConstantNode{Value: 2},  // start
				ConstantNode{Value: 4},
				InterpolationNode{Interpolation: InterpolationInverseLerp},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
			TargetLuminosityShift, 0.25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods := evalOnce(t, fullInput(), fullState(), 10, tt.nodes...)
			if got := mods.Value(tt.target); !near(got, tt.want) {
				t.Errorf("modifier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBehaviorEvaluator_NullPropagation(t *testing.T) {
	noPressure := fullInput()
	noPressure.Pressure = None[float32]()
	nullSource := SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}}

	tests := []struct {
		name  string
		nodes []BehaviorNode
	}{
		{
			"through binary op",
			[]BehaviorNode{
				nullSource,
				ConstantNode{Value: 0.5},
				BinaryOpNode{Op: BinaryOpSum},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
		},
		{
			"through interpolation",
			[]BehaviorNode{
				ConstantNode{Value: 1},
				ConstantNode{Value: 0},
				nullSource,
				InterpolationNode{Interpolation: InterpolationLerp},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
		},
		{
			"through response curve",
			[]BehaviorNode{
				nullSource,
				ResponseNode{Response: EasingEaseInOut},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
		},
		{
			"inverse lerp over empty range",
			[]BehaviorNode{
				ConstantNode{Value: 0.7}, // end
				ConstantNode{Value: 0.7}, // start
				ConstantNode{Value: 0.3},
				InterpolationNode{Interpolation: InterpolationInverseLerp},
				TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
			},
		},
		{
			"into polar target",
			[]BehaviorNode{
				ConstantNode{Value: 1},
				nullSource,
				PolarTargetNode{
					Target:         PolarTargetPositionOffsetAbsolute,
					AngleRange:     [2]float32{0, math.Pi},
					MagnitudeRange: [2]float32{0, 1},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods := evalOnce(t, noPressure, fullState(), 10, tt.nodes...)
			if mods != identityMods() {
				t.Errorf("null leaked into modifiers: %v", mods)
			}
		})
	}
}

func TestBehaviorEvaluator_FallbackFilter(t *testing.T) {
	nodes := []BehaviorNode{
		ConstantNode{Value: 1},
		FallbackFilterNode{IsFallbackFor: OptionalPropertyPressure},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0, 2}},
	}

	// Pressure present: the fallback branch is suppressed.
	mods := evalOnce(t, fullInput(), fullState(), 10, nodes...)
	if got := mods.Value(TargetWidthMultiplier); got != 1 {
		t.Errorf("width multiplier = %v, want identity 1 while pressure is present", got)
	}

	// Pressure absent: the fallback applies.
	noPressure := fullInput()
	noPressure.Pressure = None[float32]()
	mods = evalOnce(t, noPressure, fullState(), 10, nodes...)
	if got := mods.Value(TargetWidthMultiplier); !near(got, 2) {
		t.Errorf("width multiplier = %v, want 2 as pressure fallback", got)
	}

	// The combined tilt/orientation property needs both channels present to
	// suppress the fallback.
	both := []BehaviorNode{
		ConstantNode{Value: 1},
		FallbackFilterNode{IsFallbackFor: OptionalPropertyTiltXAndY},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0, 2}},
	}
	noOrientation := fullInput()
	noOrientation.Orientation = None[float32]()
	mods = evalOnce(t, noOrientation, fullState(), 10, both...)
	if got := mods.Value(TargetWidthMultiplier); !near(got, 2) {
		t.Errorf("width multiplier = %v, want 2 when orientation is missing", got)
	}
	mods = evalOnce(t, fullInput(), fullState(), 10, both...)
	if got := mods.Value(TargetWidthMultiplier); got != 1 {
		t.Errorf("width multiplier = %v, want identity 1 with both channels present", got)
	}
}

func TestBehaviorEvaluator_ToolTypeFilter(t *testing.T) {
	nodes := []BehaviorNode{
		ConstantNode{Value: 1},
		ToolTypeFilterNode{EnabledTools: []ToolType{ToolTypeStylus, ToolTypeMouse}},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0, 2}},
	}

	mods := evalOnce(t, fullInput(), fullState(), 10, nodes...)
	if got := mods.Value(TargetWidthMultiplier); !near(got, 2) {
		t.Errorf("width multiplier = %v, want 2 for an enabled tool", got)
	}

	touchState := fullState()
	touchState.ToolType = ToolTypeTouch
	mods = evalOnce(t, fullInput(), touchState, 10, nodes...)
	if got := mods.Value(TargetWidthMultiplier); got != 1 {
		t.Errorf("width multiplier = %v, want identity 1 for a disabled tool", got)
	}
}

func TestBehaviorEvaluator_DampingOverTime(t *testing.T) {
	b := mustBehavior(t,
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		DampingNode{Source: DampingTimeInSeconds, Gap: 1},
		TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
	)
	e := NewBehaviorEvaluator(b)

	at := func(seconds, pressure float32) ModeledStrokeInput {
		in := fullInput()
		in.ElapsedTime = Seconds(seconds)
		in.Pressure = Some(pressure)
		return in
	}

	// The first defined value snaps with no decay from an unset state.
	mods := e.Evaluate(at(0, 1), fullState(), 10)
	if got := mods.Value(TargetLuminosityShift); !near(got, 1) {
		t.Fatalf("first damped value = %v, want snap to 1", got)
	}

	// One time constant later the value has covered 1-1/e of the way down.
	mods = e.Evaluate(at(1, 0), fullState(), 10)
	if got := mods.Value(TargetLuminosityShift); !within(got, 0.3678794, 1e-4) {
		t.Fatalf("damped value after one gap = %v, want 0.36788", got)
	}
	held := mods.Value(TargetLuminosityShift)

	// A null input holds the damped value rather than resetting it.
	noPressure := at(2, 0)
	noPressure.Pressure = None[float32]()
	mods = e.Evaluate(noPressure, fullState(), 10)
	if got := mods.Value(TargetLuminosityShift); got != held {
		t.Errorf("damped value across null input = %v, want held %v", got, held)
	}

	// Zero elapsed progress means zero catch-up.
	mods = e.Evaluate(at(2, 1), fullState(), 10)
	if got := mods.Value(TargetLuminosityShift); got != held {
		t.Errorf("damped value with no time progress = %v, want held %v", got, held)
	}
}

func TestBehaviorEvaluator_DampingSnapsWithZeroGap(t *testing.T) {
	b := mustBehavior(t,
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		DampingNode{Source: DampingTimeInSeconds, Gap: 0},
		TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
	)
	e := NewBehaviorEvaluator(b)

	for i, p := range []float32{0.9, 0.1, 0.6} {
		in := fullInput()
		in.ElapsedTime = Seconds(float32(i))
		in.Pressure = Some(p)
		mods := e.Evaluate(in, fullState(), 10)
		if got := mods.Value(TargetLuminosityShift); !near(got, p) {
			t.Errorf("zero-gap damped value = %v, want %v", got, p)
		}
	}
}

func TestBehaviorEvaluator_DampingOverPhysicalDistanceFreezes(t *testing.T) {
	// With no stroke unit length, physical damping makes no progress: the
	// first value snaps and then never moves.
	b := mustBehavior(t,
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		DampingNode{Source: DampingDistanceInCentimeters, Gap: 0.5},
		TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
	)
	e := NewBehaviorEvaluator(b)

	state := fullState()
	state.StrokeUnitLength = None[PhysicalDistance]()

	in := fullInput()
	in.Pressure = Some[float32](0.9)
	mods := e.Evaluate(in, state, 10)
	if got := mods.Value(TargetLuminosityShift); !near(got, 0.9) {
		t.Fatalf("first damped value = %v, want 0.9", got)
	}

	in.ElapsedTime = Seconds(5)
	in.TraveledDistance = 500
	in.Pressure = Some[float32](0.1)
	mods = e.Evaluate(in, state, 10)
	if got := mods.Value(TargetLuminosityShift); !near(got, 0.9) {
		t.Errorf("damped value = %v, want frozen at 0.9 without a unit length", got)
	}
}

func TestBehaviorEvaluator_NoiseMatchesReferenceGenerator(t *testing.T) {
	const seed = 42
	const period = 2

	b := mustBehavior(t,
		NoiseNode{Seed: seed, VaryOver: NoiseOverTimeInSeconds, BasePeriod: period},
		TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
	)
	e := NewBehaviorEvaluator(b)
	ref := NewNoiseGenerator(seed)

	prev := float32(0)
	for _, ts := range []float32{0, 0.5, 1.25, 1.25, 3} {
		in := fullInput()
		in.ElapsedTime = Seconds(ts)
		mods := e.Evaluate(in, fullState(), 10)

		ref.AdvanceInputBy((ts - prev) / period)
		prev = ts
		if got, want := mods.Value(TargetLuminosityShift), ref.CurrentOutputValue(); got != want {
			t.Errorf("noise at t=%v = %v, want %v", ts, got, want)
		}
	}
}

func TestBehaviorEvaluator_NoiseSeedsDiffer(t *testing.T) {
	value := func(seed uint64) float32 {
		mods := evalOnce(t, fullInput(), fullState(), 10,
			NoiseNode{Seed: seed, VaryOver: NoiseOverTimeInSeconds, BasePeriod: 1},
			TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
		)
		return mods.Value(TargetLuminosityShift)
	}
	if value(1) == value(2) {
		t.Error("different noise seeds produced identical first values")
	}
}

func TestBehaviorEvaluator_ResetReplaysExactly(t *testing.T) {
	b := mustBehavior(t,
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		DampingNode{Source: DampingTimeInSeconds, Gap: 0.5},
		TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
	)
	n := mustBehavior(t,
		NoiseNode{Seed: 7, VaryOver: NoiseOverTimeInSeconds, BasePeriod: 1},
		TargetNode{Target: TargetRotationOffset, OutputRange: [2]float32{-1, 1}},
	)
	e := NewBehaviorEvaluator(b, n)

	inputs := []ModeledStrokeInput{fullInput(), fullInput(), fullInput()}
	inputs[1].ElapsedTime = Seconds(2.5)
	inputs[1].Pressure = Some[float32](0.1)
	inputs[2].ElapsedTime = Seconds(3)
	inputs[2].Pressure = Some[float32](0.8)

	var first []TargetModifiers
	for _, in := range inputs {
		first = append(first, e.Evaluate(in, fullState(), 10))
	}

	e.Reset()
	for i, in := range inputs {
		if got := e.Evaluate(in, fullState(), 10); got != first[i] {
			t.Errorf("replay diverged at input %d: %v != %v", i, got, first[i])
		}
	}
}

func TestBehaviorEvaluator_CloneIsIndependent(t *testing.T) {
	b := mustBehavior(t,
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		DampingNode{Source: DampingTimeInSeconds, Gap: 0.5},
		TargetNode{Target: TargetLuminosityShift, OutputRange: [2]float32{0, 1}},
	)
	e := NewBehaviorEvaluator(b)

	in := fullInput()
	in.ElapsedTime = Seconds(0)
	e.Evaluate(in, fullState(), 10)

	next := fullInput()
	next.ElapsedTime = Seconds(1)
	next.Pressure = Some[float32](0.1)

	// Two clones observing the same input agree; advancing one leaves the
	// base untouched.
	c1, c2 := e.Clone(), e.Clone()
	m1 := c1.Evaluate(next, fullState(), 10)
	if m2 := c2.Evaluate(next, fullState(), 10); m2 != m1 {
		t.Errorf("sibling clones diverged: %v != %v", m1, m2)
	}
	far := fullInput()
	far.ElapsedTime = Seconds(30)
	far.Pressure = Some[float32](0)
	c1.Evaluate(far, fullState(), 10)

	if m3 := e.Clone().Evaluate(next, fullState(), 10); m3 != m1 {
		t.Errorf("base evaluator state was disturbed by a clone: %v != %v", m3, m1)
	}
}

func TestBehaviorEvaluator_BehaviorsCompose(t *testing.T) {
	double := mustBehavior(t,
		ConstantNode{Value: 1},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0, 2}},
	)
	triple := mustBehavior(t,
		ConstantNode{Value: 1},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0, 3}},
	)
	nudge := mustBehavior(t,
		ConstantNode{Value: 1},
		TargetNode{Target: TargetRotationOffset, OutputRange: [2]float32{0, 0.25}},
	)

	e := NewBehaviorEvaluator(double, triple, nudge, nudge)
	mods := e.Evaluate(fullInput(), fullState(), 10)
	if got := mods.Value(TargetWidthMultiplier); !near(got, 6) {
		t.Errorf("width multiplier = %v, want 2 * 3 = 6", got)
	}
	if got := mods.Value(TargetRotationOffset); !near(got, 0.5) {
		t.Errorf("rotation offset = %v, want 0.25 + 0.25 = 0.5", got)
	}
}

func TestBehaviorEvaluator_PolarTargets(t *testing.T) {
	absolute := []BehaviorNode{
		ConstantNode{Value: 1},   // magnitude parameter
		ConstantNode{Value: 0.5}, // angle parameter
		PolarTargetNode{
			Target:         PolarTargetPositionOffsetAbsolute,
			AngleRange:     [2]float32{0, math.Pi},
			MagnitudeRange: [2]float32{0, 2},
		},
	}
	mods := evalOnce(t, fullInput(), fullState(), 10, absolute...)
	if got := mods.Value(TargetPositionOffsetX); !near(got, 0) {
		t.Errorf("x offset = %v, want 0 at a quarter turn", got)
	}
	if got := mods.Value(TargetPositionOffsetY); !near(got, 2) {
		t.Errorf("y offset = %v, want 2", got)
	}

	relative := []BehaviorNode{
		ConstantNode{Value: 1},
		ConstantNode{Value: 0},
		PolarTargetNode{
			Target:         PolarTargetPositionOffsetRelative,
			AngleRange:     [2]float32{0, math.Pi},
			MagnitudeRange: [2]float32{0, 2},
		},
	}
	mods = evalOnce(t, fullInput(), fullState(), 10, relative...)
	if got := mods.Value(TargetPositionOffsetForward); !near(got, 2) {
		t.Errorf("forward offset = %v, want 2 at angle 0", got)
	}
	if got := mods.Value(TargetPositionOffsetLateral); !near(got, 0) {
		t.Errorf("lateral offset = %v, want 0", got)
	}
}

func BenchmarkBehaviorEvaluator_Evaluate(b *testing.B) {
	behavior, err := NewBrushBehavior(
		SourceNode{Source: SourcePressure, ValueRange: [2]float32{0, 1}},
		ResponseNode{Response: EasingEaseInOut},
		DampingNode{Source: DampingTimeInSeconds, Gap: 0.1},
		TargetNode{Target: TargetWidthMultiplier, OutputRange: [2]float32{0.5, 1.5}},
	)
	if err != nil {
		b.Fatal(err)
	}
	e := NewBehaviorEvaluator(behavior)
	in := fullInput()
	state := fullState()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.ElapsedTime = Seconds(float32(i) * 0.005)
		_ = e.Evaluate(in, state, 10)
	}
}
