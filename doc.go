// Package ink models stylus and touch stroke input for drawing engines.
//
// # Overview
//
// ink is the input half of a brush engine: it turns a live, possibly
// lagging, possibly speculative stream of raw pointer samples into a
// stable, resampled, kinematically-complete sequence, and evaluates brush
// behaviors over that sequence into per-sample tip states ready for
// tessellation. Rendering itself is out of scope; a tip state carries
// everything a tessellator needs.
//
// # Quick Start
//
//	import "github.com/gogpu/ink"
//
//	// Describe the brush.
//	pressure, _ := ink.NewBrushBehavior(
//	    ink.SourceNode{Source: ink.SourcePressure, ValueRange: [2]float32{0, 1}},
//	    ink.TargetNode{Target: ink.TargetSizeMultiplier, OutputRange: [2]float32{0.3, 1.5}},
//	)
//	brush, _ := ink.NewBrush(ink.DefaultBrushTip(), ink.RGB(0, 0, 0), 10, pressure)
//
//	// Model a stroke as input arrives.
//	modeler := ink.NewStrokeInputModeler(ink.ModelerSlidingWindow)
//	modeler.StartStroke(brush.Epsilon)
//	modeler.ExtendStroke(realBatch, predictedBatch, now)
//
//	// Resolve tip states.
//	eval := ink.NewBehaviorEvaluator(brush.Behaviors...)
//	for _, in := range modeler.ModeledInputs() {
//	    mods := eval.Evaluate(in, modeler.State(), brush.Size)
//	    tip := ink.CreateTipState(in.Position, in.Velocity, brush.Tip, brush.Size, mods)
//	    // hand tip to the tessellator
//	}
//
// The session package wraps these steps into one per-stroke object and a
// multi-touch pool; the wire package decodes the compact delta-encoded
// transport format into StrokeInputBatch values.
//
// # Architecture
//
// Data flows one direction:
//
//	wire bytes → StrokeInputBatch → StrokeInputModeler → ModeledStrokeInput
//	           → BehaviorEvaluator → BrushTipState → (external tessellator)
//
// The modeler is an incremental state machine: confirmed inputs extend the
// stroke permanently while each call's predicted batch wholly replaces the
// previous prediction. Its stable prefix is guaranteed never to change on a
// later call, which is what lets a renderer commit pixels without risk of
// retroactive correction.
//
// Everything in the hot path is deterministic and NaN-free by construction:
// replaying the same inputs yields bit-identical tip states, and adversarial
// modifier arithmetic clamps instead of corrupting a stroke.
//
// # Coordinate System
//
// Positions are in "stroke space", an arbitrary per-stroke coordinate
// system chosen by the host. A StrokeInput's unit length relates it to
// physical centimeters when the device reports one. Angles are in radians,
// 0 along +X, increasing counter-clockwise.
//
// # Concurrency
//
// One modeler, evaluator or session serves one stroke with a single writer.
// Concurrent strokes (multi-touch) each get their own instance; see
// session.Pool for a managed registry.
package ink

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
