package preset

import (
	"fmt"

	"github.com/gogpu/ink"
)

// Node is the YAML form of one behavior node. Kind selects the node type;
// only the fields of that kind are read, and Save emits only those.
type Node struct {
	Kind string `yaml:"kind"`

	// kind: source
	Source     string    `yaml:"source,omitempty"`
	ValueRange []float32 `yaml:"value_range,omitempty,flow"`
	OutOfRange string    `yaml:"out_of_range,omitempty"`

	// kind: constant
	Value float32 `yaml:"value,omitempty"`

	// kind: noise
	Seed       uint64  `yaml:"seed,omitempty"`
	VaryOver   string  `yaml:"vary_over,omitempty"`
	BasePeriod float32 `yaml:"base_period,omitempty"`

	// kind: fallback_filter
	IsFallbackFor string `yaml:"is_fallback_for,omitempty"`

	// kind: tool_type_filter
	EnabledTools []string `yaml:"enabled_tools,omitempty,flow"`

	// kind: damping
	DampingSource string  `yaml:"damping_source,omitempty"`
	DampingGap    float32 `yaml:"damping_gap,omitempty"`

	// kind: response; either a predefined easing keyword or four
	// cubic-bezier control values
	Easing string    `yaml:"easing,omitempty"`
	Bezier []float32 `yaml:"bezier,omitempty,flow"`

	// kind: binary_op
	Op string `yaml:"op,omitempty"`

	// kind: interpolation
	Interpolation string `yaml:"interpolation,omitempty"`

	// kind: target
	Target      string    `yaml:"target,omitempty"`
	OutputRange []float32 `yaml:"output_range,omitempty,flow"`

	// kind: polar_target
	PolarTarget    string    `yaml:"polar_target,omitempty"`
	AngleRange     []float32 `yaml:"angle_range,omitempty,flow"`
	MagnitudeRange []float32 `yaml:"magnitude_range,omitempty,flow"`
}

// Enum spellings, indexed by the corresponding ink constants.

var sourceNames = []string{
	int(ink.SourcePressure):                         "pressure",
	int(ink.SourceTilt):                             "tilt",
	int(ink.SourceTiltX):                            "tilt_x",
	int(ink.SourceTiltY):                            "tilt_y",
	int(ink.SourceOrientation):                      "orientation",
	int(ink.SourceOrientationAboutZero):             "orientation_about_zero",
	int(ink.SourceSpeedInBrushSizes):                "speed_in_brush_sizes",
	int(ink.SourceVelocityXInBrushSizes):            "velocity_x_in_brush_sizes",
	int(ink.SourceVelocityYInBrushSizes):            "velocity_y_in_brush_sizes",
	int(ink.SourceDirection):                        "direction",
	int(ink.SourceDirectionAboutZero):               "direction_about_zero",
	int(ink.SourceNormalizedDirectionX):             "normalized_direction_x",
	int(ink.SourceNormalizedDirectionY):             "normalized_direction_y",
	int(ink.SourceDistanceTraveledInBrushSizes):     "distance_traveled_in_brush_sizes",
	int(ink.SourceDistanceRemainingInBrushSizes):    "distance_remaining_in_brush_sizes",
	int(ink.SourcePredictedDistanceInBrushSizes):    "predicted_distance_in_brush_sizes",
	int(ink.SourcePredictedTimeInSeconds):           "predicted_time_in_seconds",
	int(ink.SourceTimeElapsedInSeconds):             "time_elapsed_in_seconds",
	int(ink.SourceTimeElapsedInMillis):              "time_elapsed_in_millis",
	int(ink.SourceTimeRemainingInSeconds):           "time_remaining_in_seconds",
	int(ink.SourceTimeRemainingInMillis):            "time_remaining_in_millis",
	int(ink.SourceAccelerationXInBrushSizes):        "acceleration_x_in_brush_sizes",
	int(ink.SourceAccelerationYInBrushSizes):        "acceleration_y_in_brush_sizes",
	int(ink.SourceAccelerationForwardInBrushSizes):  "acceleration_forward_in_brush_sizes",
	int(ink.SourceAccelerationLateralInBrushSizes):  "acceleration_lateral_in_brush_sizes",
	int(ink.SourceInputSpeedInCentimeters):          "input_speed_in_centimeters",
	int(ink.SourceInputVelocityXInCentimeters):      "input_velocity_x_in_centimeters",
	int(ink.SourceInputVelocityYInCentimeters):      "input_velocity_y_in_centimeters",
	int(ink.SourceInputDistanceTraveledInCentimeters):  "input_distance_traveled_in_centimeters",
	int(ink.SourceInputDistanceRemainingInCentimeters): "input_distance_remaining_in_centimeters",
	int(ink.SourceInputAccelerationInCentimeters):      "input_acceleration_in_centimeters",
}

var outOfRangeNames = []string{
	int(ink.OutOfRangeClamp):  "clamp",
	int(ink.OutOfRangeRepeat): "repeat",
	int(ink.OutOfRangeMirror): "mirror",
}

var progressNames = []string{
	int(ink.NoiseOverDistanceInCentimeters): "distance_in_centimeters",
	int(ink.NoiseOverDistanceInBrushSizes):  "distance_in_brush_sizes",
	int(ink.NoiseOverTimeInSeconds):         "time_in_seconds",
}

var dampingNames = []string{
	int(ink.DampingDistanceInCentimeters): "distance_in_centimeters",
	int(ink.DampingDistanceInBrushSizes):  "distance_in_brush_sizes",
	int(ink.DampingTimeInSeconds):         "time_in_seconds",
}

var optionalPropertyNames = []string{
	int(ink.OptionalPropertyPressure):    "pressure",
	int(ink.OptionalPropertyTilt):        "tilt",
	int(ink.OptionalPropertyOrientation): "orientation",
	int(ink.OptionalPropertyTiltXAndY):   "tilt_x_and_y",
}

var toolTypeNames = []string{
	int(ink.ToolTypeUnknown): "unknown",
	int(ink.ToolTypeMouse):   "mouse",
	int(ink.ToolTypeTouch):   "touch",
	int(ink.ToolTypeStylus):  "stylus",
}

var easingNames = []string{
	int(ink.EasingLinear):    "linear",
	int(ink.EasingEase):      "ease",
	int(ink.EasingEaseIn):    "ease-in",
	int(ink.EasingEaseOut):   "ease-out",
	int(ink.EasingEaseInOut): "ease-in-out",
	int(ink.EasingStepStart): "step-start",
	int(ink.EasingStepEnd):   "step-end",
}

var binaryOpNames = []string{
	int(ink.BinaryOpProduct): "product",
	int(ink.BinaryOpSum):     "sum",
}

var interpolationNames = []string{
	int(ink.InterpolationLerp):        "lerp",
	int(ink.InterpolationInverseLerp): "inverse_lerp",
}

var targetNames = []string{
	int(ink.TargetWidthMultiplier):       "width_multiplier",
	int(ink.TargetHeightMultiplier):      "height_multiplier",
	int(ink.TargetSizeMultiplier):        "size_multiplier",
	int(ink.TargetSlantOffset):           "slant_offset",
	int(ink.TargetRotationOffset):        "rotation_offset",
	int(ink.TargetPinchOffset):           "pinch_offset",
	int(ink.TargetCornerRoundingOffset):  "corner_rounding_offset",
	int(ink.TargetTextureProgressOffset): "texture_progress_offset",
	int(ink.TargetHueOffsetInTurns):      "hue_offset_in_turns",
	int(ink.TargetSaturationMultiplier):  "saturation_multiplier",
	int(ink.TargetLuminosityShift):       "luminosity_shift",
	int(ink.TargetOpacityMultiplier):     "opacity_multiplier",
	int(ink.TargetPositionOffsetX):       "position_offset_x",
	int(ink.TargetPositionOffsetY):       "position_offset_y",
	int(ink.TargetPositionOffsetForward): "position_offset_forward",
	int(ink.TargetPositionOffsetLateral): "position_offset_lateral",
}

var polarTargetNames = []string{
	int(ink.PolarTargetPositionOffsetAbsolute): "position_offset_absolute",
	int(ink.PolarTargetPositionOffsetRelative): "position_offset_relative",
}

func parseEnum(names []string, s, what string) (int, error) {
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

func span(r [2]float32) []float32 {
	return []float32{r[0], r[1]}
}

func pair(vals []float32, what string) ([2]float32, error) {
	if len(vals) != 2 {
		return [2]float32{}, fmt.Errorf("%s needs two values, got %d", what, len(vals))
	}
	return [2]float32{vals[0], vals[1]}, nil
}

// toInk converts the descriptor into the behavior node it names. Field
// ranges are not checked here; ink.NewBrushBehavior validates the finished
// node list.
func (n Node) toInk() (ink.BehaviorNode, error) {
	switch n.Kind {
	case "source":
		src, err := parseEnum(sourceNames, n.Source, "source")
		if err != nil {
			return nil, err
		}
		rng, err := pair(n.ValueRange, "value_range")
		if err != nil {
			return nil, err
		}
		out := ink.OutOfRangeClamp
		if n.OutOfRange != "" {
			v, err := parseEnum(outOfRangeNames, n.OutOfRange, "out_of_range")
			if err != nil {
				return nil, err
			}
			out = ink.OutOfRangeBehavior(v)
		}
		return ink.SourceNode{Source: ink.BehaviorSource(src), ValueRange: rng, OutOfRange: out}, nil

	case "constant":
		return ink.ConstantNode{Value: n.Value}, nil

	case "noise":
		base, err := parseEnum(progressNames, n.VaryOver, "vary_over")
		if err != nil {
			return nil, err
		}
		return ink.NoiseNode{Seed: n.Seed, VaryOver: ink.NoiseProgressBase(base), BasePeriod: n.BasePeriod}, nil

	case "fallback_filter":
		prop, err := parseEnum(optionalPropertyNames, n.IsFallbackFor, "is_fallback_for")
		if err != nil {
			return nil, err
		}
		return ink.FallbackFilterNode{IsFallbackFor: ink.OptionalInputProperty(prop)}, nil

	case "tool_type_filter":
		tools := make([]ink.ToolType, 0, len(n.EnabledTools))
		for _, name := range n.EnabledTools {
			tool, err := parseEnum(toolTypeNames, name, "tool type")
			if err != nil {
				return nil, err
			}
			tools = append(tools, ink.ToolType(tool))
		}
		return ink.ToolTypeFilterNode{EnabledTools: tools}, nil

	case "damping":
		src, err := parseEnum(dampingNames, n.DampingSource, "damping_source")
		if err != nil {
			return nil, err
		}
		return ink.DampingNode{Source: ink.DampingSource(src), Gap: n.DampingGap}, nil

	case "response":
		switch {
		case len(n.Bezier) > 0 && n.Easing != "":
			return nil, fmt.Errorf("response takes easing or bezier, not both")
		case len(n.Bezier) > 0:
			if len(n.Bezier) != 4 {
				return nil, fmt.Errorf("bezier needs four control values, got %d", len(n.Bezier))
			}
			return ink.ResponseNode{Response: ink.CubicBezierEasing{
				X1: n.Bezier[0], Y1: n.Bezier[1], X2: n.Bezier[2], Y2: n.Bezier[3],
			}}, nil
		default:
			e, err := parseEnum(easingNames, n.Easing, "easing")
			if err != nil {
				return nil, err
			}
			return ink.ResponseNode{Response: ink.PredefinedEasing(e)}, nil
		}

	case "binary_op":
		op, err := parseEnum(binaryOpNames, n.Op, "op")
		if err != nil {
			return nil, err
		}
		return ink.BinaryOpNode{Op: ink.BinaryOp(op)}, nil

	case "interpolation":
		in, err := parseEnum(interpolationNames, n.Interpolation, "interpolation")
		if err != nil {
			return nil, err
		}
		return ink.InterpolationNode{Interpolation: ink.Interpolation(in)}, nil

	case "target":
		target, err := parseEnum(targetNames, n.Target, "target")
		if err != nil {
			return nil, err
		}
		rng, err := pair(n.OutputRange, "output_range")
		if err != nil {
			return nil, err
		}
		return ink.TargetNode{Target: ink.BehaviorTarget(target), OutputRange: rng}, nil

	case "polar_target":
		target, err := parseEnum(polarTargetNames, n.PolarTarget, "polar_target")
		if err != nil {
			return nil, err
		}
		angles, err := pair(n.AngleRange, "angle_range")
		if err != nil {
			return nil, err
		}
		magnitudes, err := pair(n.MagnitudeRange, "magnitude_range")
		if err != nil {
			return nil, err
		}
		return ink.PolarTargetNode{
			Target:         ink.PolarTarget(target),
			AngleRange:     angles,
			MagnitudeRange: magnitudes,
		}, nil

	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}

// nodeSpec converts a validated behavior node back into its YAML form.
func nodeSpec(node ink.BehaviorNode) (Node, error) {
	switch n := node.(type) {
	case ink.SourceNode:
		return Node{
			Kind:       "source",
			Source:     sourceNames[n.Source],
			ValueRange: span(n.ValueRange),
			OutOfRange: outOfRangeNames[n.OutOfRange],
		}, nil
	case ink.ConstantNode:
		return Node{Kind: "constant", Value: n.Value}, nil
	case ink.NoiseNode:
		return Node{
			Kind:       "noise",
			Seed:       n.Seed,
			VaryOver:   progressNames[n.VaryOver],
			BasePeriod: n.BasePeriod,
		}, nil
	case ink.FallbackFilterNode:
		return Node{Kind: "fallback_filter", IsFallbackFor: optionalPropertyNames[n.IsFallbackFor]}, nil
	case ink.ToolTypeFilterNode:
		tools := make([]string, 0, len(n.EnabledTools))
		for _, tool := range n.EnabledTools {
			tools = append(tools, toolTypeNames[tool])
		}
		return Node{Kind: "tool_type_filter", EnabledTools: tools}, nil
	case ink.DampingNode:
		return Node{Kind: "damping", DampingSource: dampingNames[n.Source], DampingGap: n.Gap}, nil
	case ink.ResponseNode:
		switch r := n.Response.(type) {
		case ink.PredefinedEasing:
			return Node{Kind: "response", Easing: easingNames[r]}, nil
		case ink.CubicBezierEasing:
			return Node{Kind: "response", Bezier: []float32{r.X1, r.Y1, r.X2, r.Y2}}, nil
		default:
			return Node{}, fmt.Errorf("unknown response curve %T", n.Response)
		}
	case ink.BinaryOpNode:
		return Node{Kind: "binary_op", Op: binaryOpNames[n.Op]}, nil
	case ink.InterpolationNode:
		return Node{Kind: "interpolation", Interpolation: interpolationNames[n.Interpolation]}, nil
	case ink.TargetNode:
		return Node{Kind: "target", Target: targetNames[n.Target], OutputRange: span(n.OutputRange)}, nil
	case ink.PolarTargetNode:
		return Node{
			Kind:           "polar_target",
			PolarTarget:    polarTargetNames[n.Target],
			AngleRange:     span(n.AngleRange),
			MagnitudeRange: span(n.MagnitudeRange),
		}, nil
	default:
		return Node{}, fmt.Errorf("unknown behavior node %T", node)
	}
}
