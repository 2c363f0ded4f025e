package ink

import "fmt"

// ModelerKind selects the strategy a StrokeInputModeler uses to turn raw
// inputs into modeled inputs.
type ModelerKind int

const (
	// ModelerSlidingWindow smooths positions over a trailing time window
	// and resamples the result, trading a short stability lag for much
	// cleaner kinematics. This is the strategy real brushes want.
	ModelerSlidingWindow ModelerKind = iota

	// ModelerNaive passes every raw input through one-to-one, deriving
	// kinematics by finite differences. Useful for debugging and for hosts
	// that pre-smooth their input.
	ModelerNaive
)

// String returns the modeler kind name.
func (k ModelerKind) String() string {
	switch k {
	case ModelerSlidingWindow:
		return "SlidingWindow"
	case ModelerNaive:
		return "Naive"
	default:
		return "Unknown"
	}
}

// ModelerState is the running per-stroke state a modeler maintains across
// ExtendStroke calls.
//
// The counts always satisfy
//
//	StableInputCount <= RealInputCount <= len(ModeledInputs())
//
// where the stable prefix is guaranteed never to change on a future
// extension and the real prefix is derived purely from confirmed input.
type ModelerState struct {
	// ToolType is the stroke's device kind, ToolTypeUnknown until the
	// first input arrives.
	ToolType ToolType

	// StrokeUnitLength is the physical size of one stroke unit, when the
	// inputs report one.
	StrokeUnitLength Optional[PhysicalDistance]

	// CompleteElapsedTime is the time the stroke spans including the
	// current prediction and the host clock passed to ExtendStroke.
	CompleteElapsedTime Duration32

	// CompleteTraveledDistance is the modeled path length in stroke units
	// including the current prediction.
	CompleteTraveledDistance float32

	// TotalRealElapsedTime and TotalRealDistance are the same quantities
	// restricted to confirmed input.
	TotalRealElapsedTime Duration32
	TotalRealDistance    float32

	// StableInputCount is the length of the modeled prefix that will never
	// change on a future extension.
	StableInputCount int

	// RealInputCount is the length of the modeled prefix derived without
	// any predicted input.
	RealInputCount int
}

// StrokeInputModeler incrementally turns raw stroke inputs into a smoothed,
// resampled, kinematically-complete modeled sequence.
//
// A modeler is a single-stroke, single-writer state machine: StartStroke
// resets it, then ExtendStroke is called repeatedly as input arrives. Using
// it from multiple goroutines requires external serialization, and separate
// concurrent strokes require separate modelers.
type StrokeInputModeler interface {
	// StartStroke resets all running state and begins a new stroke.
	// epsilon is the smallest positional distance considered meaningful,
	// in stroke units; it must be positive and finite or StartStroke
	// panics.
	StartStroke(epsilon float32)

	// ExtendStroke appends newly confirmed inputs and replaces the
	// predicted tail. real holds confirmed samples that extend the stroke
	// permanently. predicted wholly replaces the previous prediction; pass
	// an empty batch to withdraw it. now is the host's authoritative
	// current elapsed time for this call, on the same clock as the inputs'
	// ElapsedTime, and advances time-derived state even when both batches
	// are empty. ExtendStroke panics if the modeler was never started.
	ExtendStroke(real, predicted StrokeInputBatch, now Duration32)

	// ModeledInputs returns the full modeled sequence: stable prefix,
	// unstable real tail, then the predicted tail. The returned slice is
	// valid until the next ExtendStroke call.
	ModeledInputs() []ModeledStrokeInput

	// State returns the running stroke state.
	State() ModelerState
}

// NewStrokeInputModeler returns a modeler using the given strategy. Options
// only affect the strategies that declare them; a naive modeler ignores
// window options.
func NewStrokeInputModeler(kind ModelerKind, opts ...ModelerOption) StrokeInputModeler {
	cfg := defaultModelerOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	switch kind {
	case ModelerNaive:
		return &naiveModeler{}
	case ModelerSlidingWindow:
		return &slidingWindowModeler{cfg: cfg}
	default:
		panic(fmt.Sprintf("ink: unknown modeler kind %d", int(kind)))
	}
}

// ModelerOption configures a StrokeInputModeler during creation.
type ModelerOption func(*modelerOptions)

// modelerOptions holds optional configuration for modeler creation.
type modelerOptions struct {
	windowSize       Duration32
	upsamplingPeriod Duration32
}

// defaultModelerOptions returns the default modeler options: a 40 ms
// smoothing window and no upsampling (modeled samples at the raw sample
// times).
func defaultModelerOptions() modelerOptions {
	return modelerOptions{
		windowSize:       Millis(40),
		upsamplingPeriod: InfiniteDuration(),
	}
}

// WithWindowSize sets the trailing smoothing window of the sliding-window
// strategy. Larger windows smooth harder and delay the stable prefix
// further behind the latest input. The size must be positive and finite or
// the option panics.
func WithWindowSize(size Duration32) ModelerOption {
	if !(size > 0) || !size.IsFinite() {
		panic("ink: window size must be positive and finite")
	}
	return func(o *modelerOptions) {
		o.windowSize = size
	}
}

// WithUpsamplingPeriod sets the output sample period of the sliding-window
// strategy. The modeled sequence is emitted on a fixed grid of this period
// plus a final sample at the latest input time. Passing InfiniteDuration()
// disables upsampling, emitting one modeled input per distinct raw sample
// time. The period must be positive or the option panics.
func WithUpsamplingPeriod(period Duration32) ModelerOption {
	if !(period > 0) {
		panic("ink: upsampling period must be positive")
	}
	return func(o *modelerOptions) {
		o.upsamplingPeriod = period
	}
}

// Shared contract-violation messages.
const (
	panicNotStarted = "ink: ExtendStroke called before StartStroke"
	panicEpsilon    = "ink: StartStroke requires a positive finite epsilon"
)

// validateEpsilon panics unless epsilon is positive and finite. Starting a
// stroke with a non-positive epsilon is a programming error, not a runtime
// condition.
func validateEpsilon(epsilon float32) {
	if !(epsilon > 0) || !isFinite32(epsilon) {
		panic(panicEpsilon)
	}
}
