package ink

// ModeledStrokeInput is one sample of the smoothed, resampled stroke that
// the modeler produces from raw inputs. In addition to the raw channels it
// carries the kinematics (velocity, acceleration, traveled distance) that
// brush behaviors consume.
type ModeledStrokeInput struct {
	// Position is the smoothed location in stroke space.
	Position Point

	// Velocity is the rate of change of position, in stroke units per
	// second.
	Velocity Vec2

	// Acceleration is the rate of change of velocity, in stroke units per
	// second squared.
	Acceleration Vec2

	// TraveledDistance is the arc length of the modeled polyline from the
	// start of the stroke to this sample, in stroke units. Non-decreasing
	// along a stroke.
	TraveledDistance float32

	// ElapsedTime is the time since the start of the stroke. Non-decreasing
	// along a stroke.
	ElapsedTime Duration32

	// Pressure, Tilt and Orientation carry the smoothed optional channels,
	// present exactly when the raw inputs carried them.
	Pressure    Optional[float32]
	Tilt        Optional[float32]
	Orientation Optional[float32]
}

// Lerp interpolates between two modeled inputs. Position, kinematics and
// time interpolate linearly; orientation follows the shorter arc and comes
// back normalized into [0, 2π). An optional channel is present in the result
// only when both endpoints carry it. The endpoints themselves come back
// exactly: t = 0 is m and t = 1 is next.
func (m ModeledStrokeInput) Lerp(next ModeledStrokeInput, t float32) ModeledStrokeInput {
	switch t {
	case 0:
		return m
	case 1:
		return next
	}
	out := ModeledStrokeInput{
		Position:         m.Position.Lerp(next.Position, t),
		Velocity:         lerpVec(m.Velocity, next.Velocity, t),
		Acceleration:     lerpVec(m.Acceleration, next.Acceleration, t),
		TraveledDistance: lerp32(m.TraveledDistance, next.TraveledDistance, t),
		ElapsedTime:      Duration32(lerp32(m.ElapsedTime.Seconds(), next.ElapsedTime.Seconds(), t)),
	}
	if a, ok := m.Pressure.Get(); ok {
		if b, ok := next.Pressure.Get(); ok {
			out.Pressure = Some(lerp32(a, b, t))
		}
	}
	if a, ok := m.Tilt.Get(); ok {
		if b, ok := next.Tilt.Get(); ok {
			out.Tilt = Some(lerp32(a, b, t))
		}
	}
	if a, ok := m.Orientation.Get(); ok {
		if b, ok := next.Orientation.Get(); ok {
			out.Orientation = Some(LerpAngle(a, b, t))
		}
	}
	return out
}

func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpVec(v, w Vec2, t float32) Vec2 {
	return Vec2{
		X: lerp32(v.X, w.X, t),
		Y: lerp32(v.Y, w.Y, t),
	}
}
