package ink

import (
	"errors"
	"fmt"
)

// BehaviorSource identifies the stroke quantity a SourceNode reads from the
// current modeled input and running stroke state.
//
// Brush-relative sources divide by the brush size; physical sources multiply
// by the stroke unit length and are undefined (null) when the input device
// reported none.
type BehaviorSource int

const (
	// SourcePressure is the normalized pressure in [0, 1].
	SourcePressure BehaviorSource = iota
	// SourceTilt is the tilt angle in [0, π/2].
	SourceTilt
	// SourceTiltX is the tilt component about the y axis, derived from tilt
	// and orientation.
	SourceTiltX
	// SourceTiltY is the tilt component about the x axis.
	SourceTiltY
	// SourceOrientation is the tool azimuth in [0, 2π). Undefined while the
	// tilt is zero.
	SourceOrientation
	// SourceOrientationAboutZero is the tool azimuth in (-π, π].
	SourceOrientationAboutZero
	// SourceSpeedInBrushSizes is the speed in brush sizes per second.
	SourceSpeedInBrushSizes
	// SourceVelocityXInBrushSizes is the x velocity in brush sizes per second.
	SourceVelocityXInBrushSizes
	// SourceVelocityYInBrushSizes is the y velocity in brush sizes per second.
	SourceVelocityYInBrushSizes
	// SourceDirection is the travel direction in [0, 2π). Undefined at zero
	// velocity.
	SourceDirection
	// SourceDirectionAboutZero is the travel direction in (-π, π].
	SourceDirectionAboutZero
	// SourceNormalizedDirectionX is the x component of the unit travel
	// direction. Undefined at zero velocity.
	SourceNormalizedDirectionX
	// SourceNormalizedDirectionY is the y component of the unit travel
	// direction.
	SourceNormalizedDirectionY
	// SourceDistanceTraveledInBrushSizes is the traveled path length in
	// brush sizes.
	SourceDistanceTraveledInBrushSizes
	// SourceDistanceRemainingInBrushSizes is the path length still ahead,
	// including the current prediction, in brush sizes.
	SourceDistanceRemainingInBrushSizes
	// SourcePredictedDistanceInBrushSizes is how far this sample reaches
	// past the confirmed input, in brush sizes. Zero within the real prefix.
	SourcePredictedDistanceInBrushSizes
	// SourcePredictedTimeInSeconds is how far this sample reaches past the
	// confirmed input in time.
	SourcePredictedTimeInSeconds
	// SourceTimeElapsedInSeconds is the time since stroke start.
	SourceTimeElapsedInSeconds
	// SourceTimeElapsedInMillis is the time since stroke start, milliseconds.
	SourceTimeElapsedInMillis
	// SourceTimeRemainingInSeconds is the time until the stroke's current
	// end, including prediction.
	SourceTimeRemainingInSeconds
	// SourceTimeRemainingInMillis is the remaining time in milliseconds.
	SourceTimeRemainingInMillis
	// SourceAccelerationXInBrushSizes is the x acceleration in brush sizes
	// per second squared.
	SourceAccelerationXInBrushSizes
	// SourceAccelerationYInBrushSizes is the y acceleration.
	SourceAccelerationYInBrushSizes
	// SourceAccelerationForwardInBrushSizes is the acceleration along the
	// travel direction. Undefined at zero velocity.
	SourceAccelerationForwardInBrushSizes
	// SourceAccelerationLateralInBrushSizes is the acceleration orthogonal
	// to the travel direction (positive to the left).
	SourceAccelerationLateralInBrushSizes
	// SourceInputSpeedInCentimeters is the physical speed in cm/s. Undefined
	// when the stroke unit length is unknown.
	SourceInputSpeedInCentimeters
	// SourceInputVelocityXInCentimeters is the physical x velocity in cm/s.
	SourceInputVelocityXInCentimeters
	// SourceInputVelocityYInCentimeters is the physical y velocity in cm/s.
	SourceInputVelocityYInCentimeters
	// SourceInputDistanceTraveledInCentimeters is the physical traveled
	// path length in cm.
	SourceInputDistanceTraveledInCentimeters
	// SourceInputDistanceRemainingInCentimeters is the physical remaining
	// path length in cm, including prediction.
	SourceInputDistanceRemainingInCentimeters
	// SourceInputAccelerationInCentimeters is the physical acceleration
	// magnitude in cm/s².
	SourceInputAccelerationInCentimeters
)

func (s BehaviorSource) isValid() bool {
	return s >= SourcePressure && s <= SourceInputAccelerationInCentimeters
}

// OutOfRangeBehavior says how a source value is folded back into [0, 1]
// after mapping through the source value range.
type OutOfRangeBehavior int

const (
	// OutOfRangeClamp pins values to the nearest bound.
	OutOfRangeClamp OutOfRangeBehavior = iota
	// OutOfRangeRepeat wraps values modulo 1, so 1.25 becomes 0.25.
	OutOfRangeRepeat
	// OutOfRangeMirror reflects values as a triangle wave, so 1.25 becomes
	// 0.75 and 2.25 becomes 0.25.
	OutOfRangeMirror
)

func (o OutOfRangeBehavior) isValid() bool {
	return o >= OutOfRangeClamp && o <= OutOfRangeMirror
}

// DampingSource selects the units a DampingNode's gap is measured in.
type DampingSource int

const (
	// DampingDistanceInCentimeters damps over physical distance. Strokes
	// with no unit length make no damping progress, holding the first value.
	DampingDistanceInCentimeters DampingSource = iota
	// DampingDistanceInBrushSizes damps over traveled brush-size multiples.
	DampingDistanceInBrushSizes
	// DampingTimeInSeconds damps over elapsed time.
	DampingTimeInSeconds
)

func (d DampingSource) isValid() bool {
	return d >= DampingDistanceInCentimeters && d <= DampingTimeInSeconds
}

// NoiseProgressBase selects what a NoiseNode's progress accumulates over.
type NoiseProgressBase int

const (
	// NoiseOverDistanceInCentimeters advances noise by physical distance.
	// Unknown unit length degrades to no advance, never an error.
	NoiseOverDistanceInCentimeters NoiseProgressBase = iota
	// NoiseOverDistanceInBrushSizes advances noise by brush-size multiples.
	NoiseOverDistanceInBrushSizes
	// NoiseOverTimeInSeconds advances noise by elapsed time.
	NoiseOverTimeInSeconds
)

func (n NoiseProgressBase) isValid() bool {
	return n >= NoiseOverDistanceInCentimeters && n <= NoiseOverTimeInSeconds
}

// OptionalInputProperty names an optional input channel for fallback
// filtering.
type OptionalInputProperty int

const (
	// OptionalPropertyPressure is the pressure channel.
	OptionalPropertyPressure OptionalInputProperty = iota
	// OptionalPropertyTilt is the tilt channel.
	OptionalPropertyTilt
	// OptionalPropertyOrientation is the orientation channel.
	OptionalPropertyOrientation
	// OptionalPropertyTiltXAndY requires both tilt and orientation.
	OptionalPropertyTiltXAndY
)

func (p OptionalInputProperty) isValid() bool {
	return p >= OptionalPropertyPressure && p <= OptionalPropertyTiltXAndY
}

// BinaryOp is a two-operand stack operation.
type BinaryOp int

const (
	// BinaryOpProduct multiplies the two popped values.
	BinaryOpProduct BinaryOp = iota
	// BinaryOpSum adds the two popped values.
	BinaryOpSum
)

func (o BinaryOp) isValid() bool {
	return o == BinaryOpProduct || o == BinaryOpSum
}

// Interpolation is a three-operand interpolation kind.
type Interpolation int

const (
	// InterpolationLerp maps a parameter through [start, end], extrapolating
	// outside [0, 1].
	InterpolationLerp Interpolation = iota
	// InterpolationInverseLerp recovers where a value sits within
	// [start, end], extrapolating outside and undefined when start == end.
	InterpolationInverseLerp
)

func (i Interpolation) isValid() bool {
	return i == InterpolationLerp || i == InterpolationInverseLerp
}

// BehaviorTarget names the tip-state quantity a TargetNode modifies.
// Multiplier targets compose by multiplication from an identity of 1;
// offset and shift targets compose by addition from 0.
type BehaviorTarget int

const (
	// TargetWidthMultiplier scales the tip width.
	TargetWidthMultiplier BehaviorTarget = iota
	// TargetHeightMultiplier scales the tip height.
	TargetHeightMultiplier
	// TargetSizeMultiplier scales width and height together.
	TargetSizeMultiplier
	// TargetSlantOffset shifts the tip slant, radians.
	TargetSlantOffset
	// TargetRotationOffset shifts the tip rotation, radians.
	TargetRotationOffset
	// TargetPinchOffset shifts the pinch fraction.
	TargetPinchOffset
	// TargetCornerRoundingOffset shifts the corner-rounding fraction.
	TargetCornerRoundingOffset
	// TargetTextureProgressOffset shifts the texture animation progress,
	// in full cycles.
	TargetTextureProgressOffset
	// TargetHueOffsetInTurns shifts the hue, in full turns.
	TargetHueOffsetInTurns
	// TargetSaturationMultiplier scales the color saturation.
	TargetSaturationMultiplier
	// TargetLuminosityShift shifts the color luminosity.
	TargetLuminosityShift
	// TargetOpacityMultiplier scales the tip opacity.
	TargetOpacityMultiplier
	// TargetPositionOffsetX shifts the tip position along x, in brush sizes.
	TargetPositionOffsetX
	// TargetPositionOffsetY shifts the tip position along y, in brush sizes.
	TargetPositionOffsetY
	// TargetPositionOffsetForward shifts the tip along the travel direction,
	// in brush sizes.
	TargetPositionOffsetForward
	// TargetPositionOffsetLateral shifts the tip orthogonal to the travel
	// direction, in brush sizes.
	TargetPositionOffsetLateral
)

// targetKindCount is the number of distinct behavior targets.
const targetKindCount = int(TargetPositionOffsetLateral) + 1

func (t BehaviorTarget) isValid() bool {
	return t >= TargetWidthMultiplier && int(t) < targetKindCount
}

// isMultiplicative reports whether contributions to t compose by
// multiplication rather than addition.
func (t BehaviorTarget) isMultiplicative() bool {
	switch t {
	case TargetWidthMultiplier, TargetHeightMultiplier, TargetSizeMultiplier,
		TargetSaturationMultiplier, TargetOpacityMultiplier:
		return true
	default:
		return false
	}
}

// identity returns the value of an unmodified slot for t.
func (t BehaviorTarget) identity() float32 {
	if t.isMultiplicative() {
		return 1
	}
	return 0
}

// PolarTarget names the coordinate frame of a PolarTargetNode's position
// offset.
type PolarTarget int

const (
	// PolarTargetPositionOffsetAbsolute measures the offset angle in stroke
	// space, contributing to the x/y position offsets.
	PolarTargetPositionOffsetAbsolute PolarTarget = iota
	// PolarTargetPositionOffsetRelative measures the offset angle from the
	// travel direction, contributing to the forward/lateral offsets.
	PolarTargetPositionOffsetRelative
)

func (p PolarTarget) isValid() bool {
	return p == PolarTargetPositionOffsetAbsolute || p == PolarTargetPositionOffsetRelative
}

// TargetModifiers holds one composed modifier value per behavior target for
// a single modeled input. Multiplier slots start at 1, offset slots at 0;
// every behavior node targeting a slot composes into it, never overwrites.
type TargetModifiers [targetKindCount]float32

// Reset returns every slot to its identity.
func (m *TargetModifiers) Reset() {
	for i := range m {
		m[i] = BehaviorTarget(i).identity()
	}
}

// Value returns the composed modifier for target t.
func (m *TargetModifiers) Value(t BehaviorTarget) float32 {
	return m[t]
}

// compose folds one contribution into target t's slot.
func (m *TargetModifiers) compose(t BehaviorTarget, v float32) {
	if t.isMultiplicative() {
		m[t] *= v
		return
	}
	m[t] += v
}

// BehaviorNode is one step of a brush behavior's evaluation program. This
// is a sealed interface - only types in this package implement it, keeping
// the node set closed and exhaustively matchable.
//
// Nodes share a single stack of scalars. A NaN on the stack is the null
// sentinel: "this datum is unavailable on this input." Most nodes propagate
// null (null in, null out); damping holds its last value and targets leave
// their modifier unchanged.
type BehaviorNode interface {
	// behaviorNode is an unexported method that seals this interface.
	behaviorNode()
}

// SourceNode pushes one stroke quantity, mapped through ValueRange so that
// ValueRange[0] lands on 0 and ValueRange[1] on 1, then folded into [0, 1]
// by the OutOfRange policy. Pushes null when the quantity is undefined for
// the current input.
type SourceNode struct {
	Source     BehaviorSource
	ValueRange [2]float32
	OutOfRange OutOfRangeBehavior
}

// ConstantNode pushes a fixed literal.
type ConstantNode struct {
	Value float32
}

// NoiseNode pushes a seeded continuous noise value. The generator advances
// by the progress accumulated since the previous evaluation, measured in
// VaryOver units and divided by BasePeriod, so one period spans one full
// noise cell.
type NoiseNode struct {
	Seed       uint64
	VaryOver   NoiseProgressBase
	BasePeriod float32
}

// FallbackFilterNode nulls the top of the stack when the stroke actually
// carries the named optional channel, so the branch below it only takes
// effect as a fallback for missing data.
type FallbackFilterNode struct {
	IsFallbackFor OptionalInputProperty
}

// ToolTypeFilterNode nulls the top of the stack unless the stroke's tool
// type is one of EnabledTools.
type ToolTypeFilterNode struct {
	EnabledTools []ToolType
}

// DampingNode smooths the top of the stack over distance or time. The
// damped value starts unset: the first non-null input snaps it directly,
// later inputs are approached exponentially with Gap as the distance/time
// constant, and a null input holds the damped value unchanged. A zero Gap
// means no damping.
type DampingNode struct {
	Source DampingSource
	Gap    float32
}

// ResponseNode maps the top of the stack through a response curve.
type ResponseNode struct {
	Response Easing
}

// BinaryOpNode pops two values and pushes the result of Op. Null if either
// operand is null.
type BinaryOpNode struct {
	Op BinaryOp
}

// InterpolationNode pops a parameter, a range start, and a range end (in
// that stack order) and pushes the interpolated value. Null if any operand
// is null, or for inverse lerp over an empty range.
type InterpolationNode struct {
	Interpolation Interpolation
}

// TargetNode pops one value, maps it through OutputRange (0 lands on
// OutputRange[0], 1 on OutputRange[1], extrapolating outside), and composes
// the result into the Target modifier slot. A null input leaves the slot
// unchanged.
type TargetNode struct {
	Target      BehaviorTarget
	OutputRange [2]float32
}

// PolarTargetNode pops an angle parameter and a magnitude parameter (angle
// on top), maps them through their ranges, and composes the resulting polar
// offset into the two cartesian position-offset slots of the chosen frame.
// A null in either operand leaves both slots unchanged.
type PolarTargetNode struct {
	Target         PolarTarget
	AngleRange     [2]float32
	MagnitudeRange [2]float32
}

func (SourceNode) behaviorNode()         {}
func (ConstantNode) behaviorNode()       {}
func (NoiseNode) behaviorNode()          {}
func (FallbackFilterNode) behaviorNode() {}
func (ToolTypeFilterNode) behaviorNode() {}
func (DampingNode) behaviorNode()        {}
func (ResponseNode) behaviorNode()       {}
func (BinaryOpNode) behaviorNode()       {}
func (InterpolationNode) behaviorNode()  {}
func (TargetNode) behaviorNode()         {}
func (PolarTargetNode) behaviorNode()    {}

// ErrInvalidBehavior is returned when a behavior's node list cannot form a
// valid evaluation program.
var ErrInvalidBehavior = errors.New("ink: invalid brush behavior")

// BrushBehavior is a validated, ready-to-evaluate list of behavior nodes.
//
// Construction proves that every node's operands exist when it runs and
// that targets consume everything pushed, so evaluation itself can never
// fail. It also counts the damping and noise slots so an evaluator can
// pre-size its per-stroke state and stay allocation-free per sample.
type BrushBehavior struct {
	nodes []BehaviorNode

	// nodeSlots assigns each damping/noise node its slot index within this
	// behavior; -1 for nodes without persistent state.
	nodeSlots    []int
	dampingSlots int
	noiseSlots   int
	maxStack     int
}

// NewBrushBehavior validates nodes into an evaluatable behavior. The node
// list may be empty, which is a behavior with no effect.
func NewBrushBehavior(nodes ...BehaviorNode) (*BrushBehavior, error) {
	b := &BrushBehavior{
		nodes:     make([]BehaviorNode, len(nodes)),
		nodeSlots: make([]int, len(nodes)),
	}
	copy(b.nodes, nodes)

	depth := 0
	for i, node := range b.nodes {
		b.nodeSlots[i] = -1
		if err := validateNode(node); err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidBehavior, i, err)
		}
		pops, pushes := stackEffect(node)
		if depth < pops {
			return nil, fmt.Errorf("%w: node %d pops %d of %d stacked values",
				ErrInvalidBehavior, i, pops, depth)
		}
		depth += pushes - pops
		if depth > b.maxStack {
			b.maxStack = depth
		}
		switch node.(type) {
		case DampingNode:
			b.nodeSlots[i] = b.dampingSlots
			b.dampingSlots++
		case NoiseNode:
			b.nodeSlots[i] = b.noiseSlots
			b.noiseSlots++
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: %d unconsumed stack values; behaviors must end in targets",
			ErrInvalidBehavior, depth)
	}
	return b, nil
}

// Nodes returns the behavior's node list. The slice must not be modified.
func (b *BrushBehavior) Nodes() []BehaviorNode { return b.nodes }

// stackEffect returns how many values a node pops and pushes.
func stackEffect(node BehaviorNode) (pops, pushes int) {
	switch node.(type) {
	case SourceNode, ConstantNode, NoiseNode:
		return 0, 1
	case FallbackFilterNode, ToolTypeFilterNode, DampingNode, ResponseNode:
		return 1, 1
	case BinaryOpNode:
		return 2, 1
	case InterpolationNode:
		return 3, 1
	case TargetNode:
		return 1, 0
	case PolarTargetNode:
		return 2, 0
	default:
		panic(fmt.Sprintf("ink: unknown behavior node %T", node))
	}
}

// validateNode checks one node's fields.
func validateNode(node BehaviorNode) error {
	switch n := node.(type) {
	case SourceNode:
		if !n.Source.isValid() {
			return fmt.Errorf("unknown source %d", int(n.Source))
		}
		if !n.OutOfRange.isValid() {
			return fmt.Errorf("unknown out-of-range behavior %d", int(n.OutOfRange))
		}
		if !isFinite32(n.ValueRange[0]) || !isFinite32(n.ValueRange[1]) {
			return fmt.Errorf("non-finite value range [%v, %v]", n.ValueRange[0], n.ValueRange[1])
		}
		if n.ValueRange[0] == n.ValueRange[1] {
			return fmt.Errorf("empty value range at %v", n.ValueRange[0])
		}
	case ConstantNode:
		if !isFinite32(n.Value) {
			return fmt.Errorf("non-finite constant %v", n.Value)
		}
	case NoiseNode:
		if !n.VaryOver.isValid() {
			return fmt.Errorf("unknown noise progress base %d", int(n.VaryOver))
		}
		if !(n.BasePeriod > 0) || !isFinite32(n.BasePeriod) {
			return fmt.Errorf("base period %v must be positive and finite", n.BasePeriod)
		}
	case FallbackFilterNode:
		if !n.IsFallbackFor.isValid() {
			return fmt.Errorf("unknown optional input property %d", int(n.IsFallbackFor))
		}
	case ToolTypeFilterNode:
		if len(n.EnabledTools) == 0 {
			return errors.New("tool type filter enables no tools")
		}
		for _, tool := range n.EnabledTools {
			if !tool.isValid() {
				return fmt.Errorf("unknown tool type %d", int(tool))
			}
		}
	case DampingNode:
		if !n.Source.isValid() {
			return fmt.Errorf("unknown damping source %d", int(n.Source))
		}
		if n.Gap < 0 || !isFinite32(n.Gap) {
			return fmt.Errorf("damping gap %v must be non-negative and finite", n.Gap)
		}
	case ResponseNode:
		switch r := n.Response.(type) {
		case nil:
			return errors.New("missing response curve")
		case PredefinedEasing:
			if !r.isValid() {
				return fmt.Errorf("unknown predefined easing %d", int(r))
			}
		case CubicBezierEasing:
			if !r.validate() {
				return fmt.Errorf("invalid cubic bezier controls (%v, %v, %v, %v)", r.X1, r.Y1, r.X2, r.Y2)
			}
		}
	case BinaryOpNode:
		if !n.Op.isValid() {
			return fmt.Errorf("unknown binary op %d", int(n.Op))
		}
	case InterpolationNode:
		if !n.Interpolation.isValid() {
			return fmt.Errorf("unknown interpolation %d", int(n.Interpolation))
		}
	case TargetNode:
		if !n.Target.isValid() {
			return fmt.Errorf("unknown target %d", int(n.Target))
		}
		if !isFinite32(n.OutputRange[0]) || !isFinite32(n.OutputRange[1]) {
			return fmt.Errorf("non-finite output range [%v, %v]", n.OutputRange[0], n.OutputRange[1])
		}
	case PolarTargetNode:
		if !n.Target.isValid() {
			return fmt.Errorf("unknown polar target %d", int(n.Target))
		}
		for _, v := range []float32{n.AngleRange[0], n.AngleRange[1], n.MagnitudeRange[0], n.MagnitudeRange[1]} {
			if !isFinite32(v) {
				return errors.New("non-finite polar range")
			}
		}
	}
	return nil
}
