// Package session runs stroke pipelines for concurrent in-progress strokes.
//
// A Session owns the full pipeline of one stroke: the input modeler, the
// brush behavior evaluator, and the tip state builder. A Pool tracks the
// live sessions of a multi-touch surface and fans frame updates out across
// them.
package session

import (
	"github.com/gogpu/ink"
)

// Session is the in-progress pipeline of a single stroke.
//
// Like the modeler it wraps, a session is a single-writer state machine:
// calls must come from one goroutine or be externally serialized. Distinct
// sessions share nothing and may run in parallel.
type Session struct {
	brush   ink.Brush
	modeler ink.StrokeInputModeler
	eval    *ink.BehaviorEvaluator

	// committed counts the modeled inputs permanently folded into eval.
	committed int
	stable    []ink.BrushTipState
	tips      []ink.BrushTipState
}

// New builds a started session for one stroke of the given brush. kind
// selects the input modeling strategy and opts tune it; inputs can be fed
// to Extend immediately.
func New(brush ink.Brush, kind ink.ModelerKind, opts ...ink.ModelerOption) *Session {
	s := &Session{
		brush:   brush,
		modeler: ink.NewStrokeInputModeler(kind, opts...),
		eval:    ink.NewBehaviorEvaluator(brush.Behaviors...),
	}
	s.Start()
	return s
}

// Brush returns the brush the session draws with.
func (s *Session) Brush() ink.Brush { return s.brush }

// Start begins a new stroke, discarding all state of the previous one.
// Sessions are reusable across strokes of the same brush.
func (s *Session) Start() {
	s.modeler.StartStroke(s.brush.Epsilon)
	s.eval.Reset()
	s.committed = 0
	s.stable = s.stable[:0]
	s.tips = s.tips[:0]
}

// Extend appends confirmed inputs, replaces the predicted tail, and returns
// the tip states for the whole stroke so far, one per modeled input. real,
// predicted and now follow the ExtendStroke contract of
// ink.StrokeInputModeler. The returned slice is valid until the next call.
func (s *Session) Extend(real, predicted ink.StrokeInputBatch, now ink.Duration32) []ink.BrushTipState {
	s.modeler.ExtendStroke(real, predicted, now)
	modeled := s.modeler.ModeledInputs()
	state := s.modeler.State()

	// Newly stable inputs fold into the evaluator permanently.
	for ; s.committed < state.StableInputCount; s.committed++ {
		s.stable = append(s.stable, s.tipState(s.eval, modeled[s.committed], state))
	}

	// The rest is retractable. It runs on a throwaway evaluator copy so the
	// next extension can replay it against revised inputs.
	s.tips = append(s.tips[:0], s.stable...)
	if s.committed < len(modeled) {
		scratch := s.eval.Clone()
		for _, in := range modeled[s.committed:] {
			s.tips = append(s.tips, s.tipState(scratch, in, state))
		}
	}
	return s.tips
}

func (s *Session) tipState(eval *ink.BehaviorEvaluator, in ink.ModeledStrokeInput, state ink.ModelerState) ink.BrushTipState {
	mods := eval.Evaluate(in, state, s.brush.Size)
	return ink.CreateTipState(in.Position, in.Velocity, s.brush.Tip, s.brush.Size, mods)
}

// TipStates returns the tip states produced by the last Extend. Valid until
// the next Extend.
func (s *Session) TipStates() []ink.BrushTipState { return s.tips }

// Modeled returns the modeled inputs of the last Extend: stable prefix,
// unstable real tail, predicted tail. Valid until the next Extend.
func (s *Session) Modeled() []ink.ModeledStrokeInput { return s.modeler.ModeledInputs() }

// StableCount returns how many leading tip states are final. Everything
// past it may still be revised or withdrawn by a later Extend.
func (s *Session) StableCount() int { return s.committed }

// State returns the modeler's running stroke state.
func (s *Session) State() ink.ModelerState { return s.modeler.State() }
