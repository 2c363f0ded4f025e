package ink

// minKinematicTimeDelta is the floor, in seconds, applied to the time step
// of finite-difference velocity and acceleration estimates. Repeated or
// nearly repeated timestamps would otherwise blow the division up.
const minKinematicTimeDelta = 1e-5

// naiveModeler emits exactly one modeled input per raw input, in arrival
// order, deriving kinematics by finite differences against the previous
// modeled input. Nothing is resampled, so every real input is immediately
// stable.
type naiveModeler struct {
	started bool
	modeled []ModeledStrokeInput
	state   ModelerState
}

func (m *naiveModeler) StartStroke(epsilon float32) {
	validateEpsilon(epsilon)
	m.started = true
	m.modeled = m.modeled[:0]
	m.state = ModelerState{}
}

func (m *naiveModeler) ExtendStroke(real, predicted StrokeInputBatch, now Duration32) {
	if !m.started {
		panic(panicNotStarted)
	}

	// The previous prediction is wholly replaced, never extended.
	m.modeled = m.modeled[:m.state.RealInputCount]

	for i := 0; i < real.Len(); i++ {
		m.appendModeled(real.Get(i))
	}
	m.state.RealInputCount = len(m.modeled)
	m.state.StableInputCount = len(m.modeled)
	if n := m.state.RealInputCount; n > 0 {
		m.state.TotalRealElapsedTime = m.modeled[n-1].ElapsedTime
		m.state.TotalRealDistance = m.modeled[n-1].TraveledDistance
	}

	for i := 0; i < predicted.Len(); i++ {
		m.appendModeled(predicted.Get(i))
	}

	if len(m.modeled) == 0 {
		m.state = ModelerState{}
		return
	}
	last := m.modeled[len(m.modeled)-1]
	m.state.CompleteElapsedTime = last.ElapsedTime
	if now > last.ElapsedTime {
		m.state.CompleteElapsedTime = now
	}
	m.state.CompleteTraveledDistance = last.TraveledDistance
}

// appendModeled converts one raw input and chains its kinematics off the
// previous modeled input, which for the first predicted input is the last
// real one.
func (m *naiveModeler) appendModeled(in StrokeInput) {
	if len(m.modeled) == 0 && m.state.RealInputCount == 0 {
		m.state.ToolType = in.ToolType
		m.state.StrokeUnitLength = in.StrokeUnitLength
	}
	out := ModeledStrokeInput{
		Position:    in.Position,
		ElapsedTime: in.ElapsedTime,
		Pressure:    in.Pressure,
		Tilt:        in.Tilt,
		Orientation: in.Orientation,
	}
	if n := len(m.modeled); n > 0 {
		prev := m.modeled[n-1]
		dt := max32(in.ElapsedTime.Sub(prev.ElapsedTime).Seconds(), minKinematicTimeDelta)
		out.Velocity = in.Position.Sub(prev.Position).Div(dt)
		out.Acceleration = out.Velocity.Sub(prev.Velocity).Div(dt)
		out.TraveledDistance = prev.TraveledDistance + in.Position.Distance(prev.Position)
	}
	m.modeled = append(m.modeled, out)
}

func (m *naiveModeler) ModeledInputs() []ModeledStrokeInput { return m.modeled }

func (m *naiveModeler) State() ModelerState { return m.state }
