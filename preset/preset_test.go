package preset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink"
)

// testBrush builds a brush whose behaviors exercise every node kind.
func testBrush(t *testing.T) ink.Brush {
	t.Helper()

	sizeResponse, err := ink.NewBrushBehavior(
		ink.SourceNode{Source: ink.SourcePressure, ValueRange: [2]float32{0, 1}},
		ink.FallbackFilterNode{IsFallbackFor: ink.OptionalPropertyPressure},
		ink.DampingNode{Source: ink.DampingTimeInSeconds, Gap: 0.1},
		ink.ResponseNode{Response: ink.EasingEaseIn},
		ink.ConstantNode{Value: 0.25},
		ink.BinaryOpNode{Op: ink.BinaryOpProduct},
		ink.TargetNode{Target: ink.TargetSizeMultiplier, OutputRange: [2]float32{0.5, 1.5}},
	)
	require.NoError(t, err)

	wobble, err := ink.NewBrushBehavior(
		ink.NoiseNode{Seed: 12345, VaryOver: ink.NoiseOverDistanceInBrushSizes, BasePeriod: 2},
		ink.ToolTypeFilterNode{EnabledTools: []ink.ToolType{ink.ToolTypeStylus, ink.ToolTypeTouch}},
		ink.ResponseNode{Response: ink.CubicBezierEasing{X1: 0.25, Y1: 0.1, X2: 0.75, Y2: 0.9}},
		ink.ConstantNode{Value: -0.1},
		ink.ConstantNode{Value: 0.1},
		ink.InterpolationNode{Interpolation: ink.InterpolationLerp},
		ink.TargetNode{Target: ink.TargetRotationOffset, OutputRange: [2]float32{-0.5, 0.5}},
	)
	require.NoError(t, err)

	scatter, err := ink.NewBrushBehavior(
		ink.SourceNode{Source: ink.SourceDirection, ValueRange: [2]float32{0, 6.25}, OutOfRange: ink.OutOfRangeRepeat},
		ink.ConstantNode{Value: 0.5},
		ink.PolarTargetNode{
			Target:         ink.PolarTargetPositionOffsetAbsolute,
			AngleRange:     [2]float32{0, 6.25},
			MagnitudeRange: [2]float32{0, 2},
		},
	)
	require.NoError(t, err)

	tip := ink.BrushTip{
		Scale:               ink.V2(1, 0.5),
		CornerRounding:      0.25,
		Slant:               0.3,
		Pinch:               0.2,
		Rotation:            0.1,
		Opacity:             0.75,
		ParticleGapDistance: 0.05,
		ParticleGapDuration: ink.Seconds(0.01),
	}
	brush, err := ink.NewBrush(tip, ink.RGBA{R: 0.1, G: 0.4, B: 0.9, A: 1}, 12, sizeResponse, wobble, scatter)
	require.NoError(t, err)
	return brush
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	brush := testBrush(t)
	family, err := FromBrush("gritty ink", brush)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, family))

	loaded, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, family, loaded)

	rebuilt, err := loaded.Brush()
	require.NoError(t, err)
	assert.Equal(t, brush, rebuilt)
}

func TestSave_DocumentShape(t *testing.T) {
	family, err := FromBrush("gritty ink", testBrush(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, family))
	doc := buf.String()

	assert.Contains(t, doc, "name: gritty ink")
	assert.Contains(t, doc, "scale: [1, 0.5]")
	assert.Contains(t, doc, "kind: source")
	assert.Contains(t, doc, "source: pressure")
	assert.Contains(t, doc, "easing: ease-in")
	assert.Contains(t, doc, "enabled_tools: [stylus, touch]")
	assert.Contains(t, doc, "target: size_multiplier")
	assert.Contains(t, doc, "polar_target: position_offset_absolute")
	assert.NotContains(t, doc, "epsilon", "derived epsilon should not be written out")
}

func TestLoad_Document(t *testing.T) {
	const doc = `
name: pressure pen
size: 8
color: {r: 0, g: 0, b: 0, a: 1}
tip:
  scale: [1, 1]
  corner_rounding: 1
  opacity: 1
behaviors:
  - nodes:
      - kind: source
        source: pressure
        value_range: [0.2, 0.8]
        out_of_range: clamp
      - kind: response
        easing: ease-in-out
      - kind: target
        target: size_multiplier
        output_range: [0.4, 1.0]
`
	family, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "pressure pen", family.Name)
	assert.Equal(t, float32(8), family.Size)
	require.NotNil(t, family.Tip)
	assert.Equal(t, float32(1), family.Tip.Opacity)

	brush, err := family.Brush()
	require.NoError(t, err)
	assert.Equal(t, float32(8), brush.Size)
	require.Len(t, brush.Behaviors, 1)

	nodes := brush.Behaviors[0].Nodes()
	require.Len(t, nodes, 3)
	src, ok := nodes[0].(ink.SourceNode)
	require.True(t, ok, "first node should be a source, got %T", nodes[0])
	assert.Equal(t, ink.SourcePressure, src.Source)
	assert.Equal(t, [2]float32{0.2, 0.8}, src.ValueRange)
	assert.Equal(t, ink.OutOfRangeClamp, src.OutOfRange)
	resp, ok := nodes[1].(ink.ResponseNode)
	require.True(t, ok, "second node should be a response, got %T", nodes[1])
	assert.Equal(t, ink.EasingEaseInOut, resp.Response)
}

func TestLoad_DefaultsWhenOmitted(t *testing.T) {
	const doc = `
name: plain
size: 5
color: {r: 0.5, g: 0.5, b: 0.5, a: 1}
`
	family, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Nil(t, family.Tip)

	brush, err := family.Brush()
	require.NoError(t, err)
	assert.Equal(t, ink.DefaultBrushTip(), brush.Tip)
	assert.Empty(t, brush.Behaviors)
	assert.Equal(t, float32(0.005), brush.Epsilon, "epsilon defaults to a thousandth of the size")

	// An out_of_range left off a source defaults to clamping.
	withSource, err := Load(strings.NewReader(doc + `
behaviors:
  - nodes:
      - {kind: source, source: tilt, value_range: [0, 1.5]}
      - {kind: target, target: opacity_multiplier, output_range: [0.3, 1]}
`))
	require.NoError(t, err)
	brush, err = withSource.Brush()
	require.NoError(t, err)
	src := brush.Behaviors[0].Nodes()[0].(ink.SourceNode)
	assert.Equal(t, ink.OutOfRangeClamp, src.OutOfRange)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("name: x\nsize: 4\ncolour: {r: 1}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestFamily_Brush_Epsilon(t *testing.T) {
	family := Family{Name: "fine", Size: 4, Color: ink.RGBA{A: 1}, Epsilon: 0.25}
	brush, err := family.Brush()
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), brush.Epsilon)

	family.Epsilon = -1
	_, err = family.Brush()
	require.ErrorIs(t, err, ErrInvalidPreset)
	assert.Contains(t, err.Error(), "epsilon")
}

func TestFamily_Brush_NodeErrors(t *testing.T) {
	base := func(nodes ...Node) Family {
		return Family{
			Name:      "broken",
			Size:      4,
			Color:     ink.RGBA{A: 1},
			Behaviors: []Behavior{{Nodes: nodes}},
		}
	}
	tests := []struct {
		name   string
		family Family
		want   string
	}{
		{
			name:   "unknown kind",
			family: base(Node{Kind: "sparkle"}),
			want:   `unknown node kind "sparkle"`,
		},
		{
			name:   "unknown source",
			family: base(Node{Kind: "source", Source: "squeeze", ValueRange: []float32{0, 1}}),
			want:   `unknown source "squeeze"`,
		},
		{
			name:   "short value range",
			family: base(Node{Kind: "source", Source: "pressure", ValueRange: []float32{0.5}}),
			want:   "value_range needs two values",
		},
		{
			name:   "unknown easing",
			family: base(Node{Kind: "response", Easing: "bouncy"}),
			want:   `unknown easing "bouncy"`,
		},
		{
			name:   "bezier control count",
			family: base(Node{Kind: "response", Bezier: []float32{0.1, 0.2, 0.3}}),
			want:   "bezier needs four control values",
		},
		{
			name:   "easing and bezier together",
			family: base(Node{Kind: "response", Easing: "linear", Bezier: []float32{0, 0, 1, 1}}),
			want:   "easing or bezier, not both",
		},
		{
			name:   "unknown tool",
			family: base(Node{Kind: "tool_type_filter", EnabledTools: []string{"chisel"}}),
			want:   `unknown tool type "chisel"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.family.Brush()
			require.ErrorIs(t, err, ErrInvalidPreset)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "behavior 0 node 0")
		})
	}
}

func TestFamily_Brush_BehaviorErrors(t *testing.T) {
	// A source with nothing consuming it fails behavior validation.
	family := Family{
		Name:  "dangling",
		Size:  4,
		Color: ink.RGBA{A: 1},
		Behaviors: []Behavior{{Nodes: []Node{
			{Kind: "source", Source: "pressure", ValueRange: []float32{0, 1}},
		}}},
	}
	_, err := family.Brush()
	require.ErrorIs(t, err, ink.ErrInvalidBehavior)
	assert.Contains(t, err.Error(), "behavior 0")

	// Tip shape errors surface before brush construction.
	family = Family{
		Name:  "lopsided",
		Size:  4,
		Color: ink.RGBA{A: 1},
		Tip:   &Tip{Scale: []float32{1, 2, 3}, Opacity: 1},
	}
	_, err = family.Brush()
	require.ErrorIs(t, err, ErrInvalidPreset)
	assert.Contains(t, err.Error(), "tip scale")

	// Out-of-range tip fields are the brush validator's to report.
	family.Tip = &Tip{Scale: []float32{1, 1}, Opacity: 3}
	_, err = family.Brush()
	require.ErrorIs(t, err, ink.ErrInvalidBrush)
}

func TestLoadBrush(t *testing.T) {
	family, err := FromBrush("gritty ink", testBrush(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, family))

	brush, err := LoadBrush(&buf)
	require.NoError(t, err)
	assert.Equal(t, testBrush(t), brush)

	_, err = LoadBrush(strings.NewReader("size: [not, a, number]\n"))
	require.Error(t, err)
}
