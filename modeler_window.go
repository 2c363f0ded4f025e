package ink

import (
	"math"
	"sort"
)

// slidingWindowModeler smooths raw positions over a trailing time window and
// resamples the result, either at the raw sample times or on a fixed
// upsampling grid.
//
// The smoothed value at an output time is the box average of the
// piecewise-linear interpolant of the combined samples over the window
// around that time, computed exactly by the trapezoid rule over the
// interpolant's breakpoints. Averaging the interpolant rather than the
// discrete samples keeps the output a continuous, C1 curve even when raw
// samples are sparse relative to the window. The window shrinks near the
// stroke ends so the first and last modeled positions coincide with the
// first and last raw positions. Orientation averages through sin/cos so
// angles near the wraparound combine correctly.
//
// A modeled sample is stable once the window around its time can no longer
// admit future input, which happens half a window behind the latest
// confirmed sample.
type slidingWindowModeler struct {
	started bool
	epsilon float32
	cfg     modelerOptions

	raw      []StrokeInput // confirmed samples, in time order
	combined []StrokeInput // raw plus the accepted prediction, rebuilt per call
	times    []Duration32  // output sample times, rebuilt per call
	modeled  []ModeledStrokeInput
	state    ModelerState
}

func (m *slidingWindowModeler) StartStroke(epsilon float32) {
	validateEpsilon(epsilon)
	m.started = true
	m.epsilon = epsilon
	m.raw = m.raw[:0]
	m.combined = m.combined[:0]
	m.times = m.times[:0]
	m.modeled = m.modeled[:0]
	m.state = ModelerState{}
}

func (m *slidingWindowModeler) ExtendStroke(real, predicted StrokeInputBatch, now Duration32) {
	if !m.started {
		panic(panicNotStarted)
	}
	m.ingestReal(real)
	m.rebuildCombined(predicted)

	if len(m.combined) == 0 {
		m.modeled = m.modeled[:0]
		m.state = ModelerState{}
		return
	}

	m.state.ToolType = m.combined[0].ToolType
	m.state.StrokeUnitLength = m.combined[0].StrokeUnitLength

	m.rebuildTimes()

	h := m.cfg.windowSize.Seconds() / 2
	haveReal := len(m.raw) > 0
	var lastRealTime Duration32
	if haveReal {
		lastRealTime = m.raw[len(m.raw)-1].ElapsedTime
	}

	// Outputs strictly more than half a window behind the latest confirmed
	// sample can no longer be influenced by anything that arrives later.
	newStable := 0
	if haveReal {
		limit := lastRealTime.Seconds() - h
		for _, tau := range m.times {
			if !(tau.Seconds() < limit) {
				break
			}
			newStable++
		}
	}

	predCount := len(m.combined) - len(m.raw)
	var realCount int
	switch {
	case !haveReal:
		realCount = 0
	case predCount == 0:
		realCount = len(m.times)
	default:
		// An output is real only while its window cannot reach the first
		// predicted sample.
		firstPred := m.combined[len(m.raw)].ElapsedTime.Seconds()
		for _, tau := range m.times {
			if tau > lastRealTime || !(tau.Seconds()+h < firstPred) {
				break
			}
			realCount++
		}
	}
	if newStable > realCount {
		newStable = realCount
	}

	// The previously stable prefix is frozen; everything after it is
	// recomputed against the current raw and predicted data.
	keep := m.state.StableInputCount
	if keep > newStable {
		keep = newStable
	}
	m.modeled = m.modeled[:keep]
	for i := keep; i < len(m.times); i++ {
		snap := m.smoothedAt(m.times[i])
		out := ModeledStrokeInput{
			Position:    snap.pos,
			ElapsedTime: m.times[i],
			Pressure:    snap.pressure,
			Tilt:        snap.tilt,
			Orientation: snap.orientation,
		}
		if i > 0 {
			prev := m.modeled[i-1]
			dt := max32(out.ElapsedTime.Sub(prev.ElapsedTime).Seconds(), minKinematicTimeDelta)
			out.Velocity = out.Position.Sub(prev.Position).Div(dt)
			out.Acceleration = out.Velocity.Sub(prev.Velocity).Div(dt)
			out.TraveledDistance = prev.TraveledDistance + out.Position.Distance(prev.Position)
		}
		m.modeled = append(m.modeled, out)
	}

	m.state.StableInputCount = newStable
	m.state.RealInputCount = realCount

	m.state.TotalRealElapsedTime = Seconds(0)
	m.state.TotalRealDistance = 0
	if haveReal {
		m.state.TotalRealElapsedTime = lastRealTime
		idx := 0
		for _, tau := range m.times {
			if tau > lastRealTime {
				break
			}
			idx++
		}
		if idx > 0 {
			m.state.TotalRealDistance = m.modeled[idx-1].TraveledDistance
		}
	}

	last := m.modeled[len(m.modeled)-1]
	m.state.CompleteElapsedTime = last.ElapsedTime
	if now > last.ElapsedTime {
		m.state.CompleteElapsedTime = now
	}
	m.state.CompleteTraveledDistance = last.TraveledDistance
}

// ingestReal appends confirmed samples. A sample landing on the same
// timestamp within epsilon of the previous one merges into it, and
// out-of-order confirmed input clamps to the stroke's latest time so the
// sequence stays monotone.
func (m *slidingWindowModeler) ingestReal(real StrokeInputBatch) {
	for i := 0; i < real.Len(); i++ {
		in := real.Get(i)
		if n := len(m.raw); n > 0 {
			last := m.raw[n-1]
			if in.ElapsedTime < last.ElapsedTime {
				in.ElapsedTime = last.ElapsedTime
			}
			if in.ElapsedTime == last.ElapsedTime && in.Position.Distance(last.Position) < m.epsilon {
				m.raw[n-1] = in
				continue
			}
		}
		m.raw = append(m.raw, in)
	}
}

// rebuildCombined lays the current prediction after the confirmed samples.
// Predicted samples that do not extend past the confirmed stream are
// dropped; an equal-time near-duplicate of the latest confirmed sample is
// dropped rather than allowed to rewrite it.
func (m *slidingWindowModeler) rebuildCombined(predicted StrokeInputBatch) {
	m.combined = append(m.combined[:0], m.raw...)
	haveReal := len(m.raw) > 0
	var lastRealTime Duration32
	if haveReal {
		lastRealTime = m.raw[len(m.raw)-1].ElapsedTime
	}
	for i := 0; i < predicted.Len(); i++ {
		p := predicted.Get(i)
		if haveReal && p.ElapsedTime < lastRealTime {
			continue
		}
		if n := len(m.combined); n > 0 {
			last := m.combined[n-1]
			if p.ElapsedTime == last.ElapsedTime && p.Position.Distance(last.Position) < m.epsilon {
				if n > len(m.raw) {
					m.combined[n-1] = p
				}
				continue
			}
		}
		m.combined = append(m.combined, p)
	}
}

// rebuildTimes chooses the output sample times: the distinct combined sample
// times when upsampling is off, otherwise a fixed grid from the first sample
// time plus a final sample at the latest time.
func (m *slidingWindowModeler) rebuildTimes() {
	m.times = m.times[:0]
	if m.cfg.upsamplingPeriod.IsInfinite() {
		for _, in := range m.combined {
			if n := len(m.times); n > 0 && m.times[n-1] == in.ElapsedTime {
				continue
			}
			m.times = append(m.times, in.ElapsedTime)
		}
		return
	}
	t0 := m.combined[0].ElapsedTime
	tLast := m.combined[len(m.combined)-1].ElapsedTime
	// The grid is re-derived from t0 every call, so entries never drift and
	// the prefix below the stable limit is reproducible.
	for k := 0; ; k++ {
		tau := t0.Add(m.cfg.upsamplingPeriod.Mul(float32(k)))
		if !(tau < tLast) {
			break
		}
		m.times = append(m.times, tau)
	}
	m.times = append(m.times, tLast)
}

// smoothedSample is the window average of the raw channels at one output
// time, before kinematics are attached.
type smoothedSample struct {
	pos         Point
	pressure    Optional[float32]
	tilt        Optional[float32]
	orientation Optional[float32]
}

// smoothedAt box-averages the piecewise-linear interpolant of the combined
// samples over the window around tau. The window half-width shrinks near
// the stroke ends, down to plain interpolation at the endpoints themselves,
// so the modeled stroke starts and ends exactly on the raw data.
func (m *slidingWindowModeler) smoothedAt(tau Duration32) smoothedSample {
	t := tau.Seconds()
	hEff := m.cfg.windowSize.Seconds() / 2
	if d := t - m.combined[0].ElapsedTime.Seconds(); d < hEff {
		hEff = d
	}
	if d := m.combined[len(m.combined)-1].ElapsedTime.Seconds() - t; d < hEff {
		hEff = d
	}
	if hEff <= minKinematicTimeDelta {
		return m.interpolatedAt(tau)
	}
	w0, w1 := t-hEff, t+hEff

	var acc windowAccumulator
	prevTime := w0
	prev := m.interpolatedAt(Seconds(w0))

	lo := sort.Search(len(m.combined), func(i int) bool {
		return m.combined[i].ElapsedTime.Seconds() > w0
	})
	for i := lo; i < len(m.combined); i++ {
		in := m.combined[i]
		ti := in.ElapsedTime.Seconds()
		if !(ti < w1) {
			break
		}
		cur := snapshotOf(in)
		acc.addSegment(prevTime, prev, ti, cur)
		prevTime, prev = ti, cur
	}
	acc.addSegment(prevTime, prev, w1, m.interpolatedAt(Seconds(w1)))

	return acc.result(m.interpolatedAt(tau))
}

// windowAccumulator integrates the interpolant's channels over the window
// one linear segment at a time. Optional channels integrate over the
// sub-span where both segment ends carry them; orientation integrates its
// sine and cosine so the mean respects wraparound.
type windowAccumulator struct {
	dt     float32
	px, py float32

	wPress, sPress      float32
	wTilt, sTilt        float32
	wOrient, sSin, sCos float32
}

func (a *windowAccumulator) addSegment(t0 float32, s0 smoothedSample, t1 float32, s1 smoothedSample) {
	dt := t1 - t0
	if dt <= 0 {
		return
	}
	a.dt += dt
	a.px += (s0.pos.X + s1.pos.X) / 2 * dt
	a.py += (s0.pos.Y + s1.pos.Y) / 2 * dt

	if p0, ok := s0.pressure.Get(); ok {
		if p1, ok := s1.pressure.Get(); ok {
			a.wPress += dt
			a.sPress += (p0 + p1) / 2 * dt
		}
	}
	if t0v, ok := s0.tilt.Get(); ok {
		if t1v, ok := s1.tilt.Get(); ok {
			a.wTilt += dt
			a.sTilt += (t0v + t1v) / 2 * dt
		}
	}
	if o0, ok := s0.orientation.Get(); ok {
		if o1, ok := s1.orientation.Get(); ok {
			sin0, cos0 := math.Sincos(float64(o0))
			sin1, cos1 := math.Sincos(float64(o1))
			a.wOrient += dt
			a.sSin += float32(sin0+sin1) / 2 * dt
			a.sCos += float32(cos0+cos1) / 2 * dt
		}
	}
}

func (a *windowAccumulator) result(fallback smoothedSample) smoothedSample {
	if a.dt <= 0 {
		return fallback
	}
	out := smoothedSample{pos: Pt(a.px/a.dt, a.py/a.dt)}
	if a.wPress > 0 {
		out.pressure = Some(a.sPress / a.wPress)
	}
	if a.wTilt > 0 {
		out.tilt = Some(a.sTilt / a.wTilt)
	}
	if a.wOrient > 0 {
		out.orientation = Some(NormalizedAngle(float32(math.Atan2(float64(a.sSin), float64(a.sCos)))))
	}
	return out
}

// interpolatedAt evaluates the piecewise-linear interpolant of the combined
// samples at tau, clamping to the first and last samples outside the
// stroke's time span.
func (m *slidingWindowModeler) interpolatedAt(tau Duration32) smoothedSample {
	i := sort.Search(len(m.combined), func(i int) bool {
		return m.combined[i].ElapsedTime > tau
	})
	if i == 0 {
		return snapshotOf(m.combined[0])
	}
	if i == len(m.combined) {
		return snapshotOf(m.combined[i-1])
	}
	a, b := m.combined[i-1], m.combined[i]
	dt := b.ElapsedTime.Sub(a.ElapsedTime).Seconds()
	if dt <= 0 {
		return snapshotOf(b)
	}
	u := tau.Sub(a.ElapsedTime).Seconds() / dt

	out := smoothedSample{pos: a.Position.Lerp(b.Position, u)}
	if pa, ok := a.Pressure.Get(); ok {
		if pb, ok := b.Pressure.Get(); ok {
			out.pressure = Some(lerp32(pa, pb, u))
		}
	}
	if ta, ok := a.Tilt.Get(); ok {
		if tb, ok := b.Tilt.Get(); ok {
			out.tilt = Some(lerp32(ta, tb, u))
		}
	}
	if oa, ok := a.Orientation.Get(); ok {
		if ob, ok := b.Orientation.Get(); ok {
			out.orientation = Some(LerpAngle(oa, ob, u))
		}
	}
	return out
}

func snapshotOf(in StrokeInput) smoothedSample {
	return smoothedSample{
		pos:         in.Position,
		pressure:    in.Pressure,
		tilt:        in.Tilt,
		orientation: in.Orientation,
	}
}

func (m *slidingWindowModeler) ModeledInputs() []ModeledStrokeInput { return m.modeled }

func (m *slidingWindowModeler) State() ModelerState { return m.state }
