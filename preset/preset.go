// Package preset reads and writes brush families as YAML documents.
//
// A family captures everything needed to reconstruct a brush: its base
// size and color, the tip geometry, and the behavior graphs that map
// stroke inputs onto tip state. Families are the interchange format for
// brush pickers and for shipping curated brush sets with an app.
package preset

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v2"

	"github.com/gogpu/ink"
)

// ErrInvalidPreset reports a family document that names unknown kinds or
// enum spellings, or carries malformed field shapes.
var ErrInvalidPreset = errors.New("preset: invalid brush family")

// Family is a named brush in its serialized form.
type Family struct {
	Name string  `yaml:"name"`
	Size float32 `yaml:"size"`

	// Epsilon overrides the brush's default visual granularity when
	// positive. Zero means: derive it from the size.
	Epsilon float32 `yaml:"epsilon,omitempty"`

	Color     ink.RGBA   `yaml:"color"`
	Tip       *Tip       `yaml:"tip,omitempty"`
	Behaviors []Behavior `yaml:"behaviors,omitempty"`
}

// Tip is the YAML form of ink.BrushTip. A nil Tip in a Family stands for
// the default round tip.
type Tip struct {
	Scale               []float32 `yaml:"scale,flow"`
	CornerRounding      float32   `yaml:"corner_rounding"`
	Slant               float32   `yaml:"slant,omitempty"`
	Pinch               float32   `yaml:"pinch,omitempty"`
	Rotation            float32   `yaml:"rotation,omitempty"`
	Opacity             float32   `yaml:"opacity"`
	ParticleGapDistance float32   `yaml:"particle_gap_distance,omitempty"`
	ParticleGapSeconds  float32   `yaml:"particle_gap_seconds,omitempty"`
}

// Behavior is one behavior graph, listed in its postfix node order.
type Behavior struct {
	Nodes []Node `yaml:"nodes"`
}

// Load parses a family document from r. The returned family is
// structurally sound YAML; Family.Brush applies brush validation proper.
// Unknown keys are rejected so typos surface as errors instead of
// silently dropped fields.
func Load(r io.Reader) (Family, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Family{}, fmt.Errorf("preset: read: %w", err)
	}
	var f Family
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return Family{}, fmt.Errorf("preset: parse: %w", err)
	}
	return f, nil
}

// LoadBrush parses a family document and materializes its brush.
func LoadBrush(r io.Reader) (ink.Brush, error) {
	f, err := Load(r)
	if err != nil {
		return ink.Brush{}, err
	}
	return f.Brush()
}

// Save writes the family as a YAML document to w.
func Save(w io.Writer, f Family) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("preset: marshal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("preset: write: %w", err)
	}
	return nil
}

// Brush materializes the family into a validated brush. Errors from
// behavior construction name the behavior and node they came from.
func (f Family) Brush() (ink.Brush, error) {
	tip := ink.DefaultBrushTip()
	if f.Tip != nil {
		var err error
		if tip, err = f.Tip.toInk(); err != nil {
			return ink.Brush{}, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
		}
	}
	behaviors := make([]*ink.BrushBehavior, 0, len(f.Behaviors))
	for bi, spec := range f.Behaviors {
		nodes := make([]ink.BehaviorNode, 0, len(spec.Nodes))
		for ni, desc := range spec.Nodes {
			node, err := desc.toInk()
			if err != nil {
				return ink.Brush{}, fmt.Errorf("%w: behavior %d node %d: %v", ErrInvalidPreset, bi, ni, err)
			}
			nodes = append(nodes, node)
		}
		behavior, err := ink.NewBrushBehavior(nodes...)
		if err != nil {
			return ink.Brush{}, fmt.Errorf("preset: behavior %d: %w", bi, err)
		}
		behaviors = append(behaviors, behavior)
	}
	brush, err := ink.NewBrush(tip, f.Color, f.Size, behaviors...)
	if err != nil {
		return ink.Brush{}, fmt.Errorf("preset: %w", err)
	}
	if f.Epsilon != 0 {
		if !(f.Epsilon > 0) || math.IsInf(float64(f.Epsilon), 0) {
			return ink.Brush{}, fmt.Errorf("%w: epsilon must be a positive finite number, got %v", ErrInvalidPreset, f.Epsilon)
		}
		brush = brush.WithEpsilon(f.Epsilon)
	}
	return brush, nil
}

// FromBrush captures a brush as a family document under the given name.
func FromBrush(name string, b ink.Brush) (Family, error) {
	f := Family{
		Name:  name,
		Size:  b.Size,
		Color: b.Color,
		Tip:   tipSpec(b.Tip),
	}
	if b.Epsilon != b.Size/1000 {
		f.Epsilon = b.Epsilon
	}
	for bi, behavior := range b.Behaviors {
		spec := Behavior{Nodes: make([]Node, 0, len(behavior.Nodes()))}
		for ni, node := range behavior.Nodes() {
			desc, err := nodeSpec(node)
			if err != nil {
				return Family{}, fmt.Errorf("preset: behavior %d node %d: %w", bi, ni, err)
			}
			spec.Nodes = append(spec.Nodes, desc)
		}
		f.Behaviors = append(f.Behaviors, spec)
	}
	return f, nil
}

func (t Tip) toInk() (ink.BrushTip, error) {
	tip := ink.BrushTip{
		CornerRounding:      t.CornerRounding,
		Slant:               t.Slant,
		Pinch:               t.Pinch,
		Rotation:            t.Rotation,
		Opacity:             t.Opacity,
		ParticleGapDistance: t.ParticleGapDistance,
		ParticleGapDuration: ink.Seconds(t.ParticleGapSeconds),
	}
	switch len(t.Scale) {
	case 0:
		tip.Scale = ink.V2(1, 1)
	case 2:
		tip.Scale = ink.V2(t.Scale[0], t.Scale[1])
	default:
		return ink.BrushTip{}, fmt.Errorf("tip scale needs [x, y], got %d values", len(t.Scale))
	}
	return tip, nil
}

func tipSpec(tip ink.BrushTip) *Tip {
	return &Tip{
		Scale:               []float32{tip.Scale.X, tip.Scale.Y},
		CornerRounding:      tip.CornerRounding,
		Slant:               tip.Slant,
		Pinch:               tip.Pinch,
		Rotation:            tip.Rotation,
		Opacity:             tip.Opacity,
		ParticleGapDistance: tip.ParticleGapDistance,
		ParticleGapSeconds:  tip.ParticleGapDuration.Seconds(),
	}
}
