package ink

import (
	"math"
	"testing"
)

const epsilon32 = 1e-5

func near(a, b float32) bool {
	return math.Abs(float64(a)-float64(b)) < epsilon32
}

func pointsNear(p, q Point) bool {
	return near(p.X, q.X) && near(p.Y, q.Y)
}

func vecsNear(v, w Vec2) bool {
	return near(v.X, w.X) && near(v.Y, w.Y)
}

// -------------------------------------------------------------------
// Point Tests
// -------------------------------------------------------------------

func TestPoint_AddSub(t *testing.T) {
	p := Pt(1, 2).Add(V2(3, -1))
	if !pointsNear(p, Pt(4, 1)) {
		t.Errorf("Add = %v, want (4, 1)", p)
	}
	v := Pt(4, 1).Sub(Pt(1, 2))
	if !vecsNear(v, V2(3, -1)) {
		t.Errorf("Sub = %v, want (3, -1)", v)
	}
}

func TestPoint_Distance(t *testing.T) {
	tests := []struct {
		name   string
		p, q   Point
		expect float32
	}{
		{"same point", Pt(1, 1), Pt(1, 1), 0},
		{"horizontal", Pt(0, 0), Pt(3, 0), 3},
		{"diagonal 3-4-5", Pt(0, 0), Pt(3, 4), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Distance(tt.q); !near(got, tt.expect) {
				t.Errorf("Distance = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestPoint_Lerp(t *testing.T) {
	p, q := Pt(0, 0), Pt(10, -4)

	tests := []struct {
		name   string
		t      float32
		expect Point
	}{
		{"t=0", 0, Pt(0, 0)},
		{"t=1", 1, Pt(10, -4)},
		{"t=0.5", 0.5, Pt(5, -2)},
		{"extrapolate", 2, Pt(20, -8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Lerp(q, tt.t); !pointsNear(got, tt.expect) {
				t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.expect)
			}
		})
	}
}

// -------------------------------------------------------------------
// Vec2 Tests
// -------------------------------------------------------------------

func TestVec2_DotCross(t *testing.T) {
	v, w := V2(2, 3), V2(-1, 4)
	if got := v.Dot(w); !near(got, 10) {
		t.Errorf("Dot = %v, want 10", got)
	}
	if got := v.Cross(w); !near(got, 11) {
		t.Errorf("Cross = %v, want 11", got)
	}
}

func TestVec2_Length(t *testing.T) {
	if got := V2(3, 4).Length(); !near(got, 5) {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := V2(3, 4).LengthSquared(); !near(got, 25) {
		t.Errorf("LengthSquared = %v, want 25", got)
	}
}

func TestVec2_Normalize(t *testing.T) {
	n := V2(0, -7).Normalize()
	if !vecsNear(n, V2(0, -1)) {
		t.Errorf("Normalize = %v, want (0, -1)", n)
	}
	if z := V2(0, 0).Normalize(); !z.IsZero() {
		t.Errorf("Normalize of zero = %v, want zero vector", z)
	}
}

func TestVec2_Rotate(t *testing.T) {
	tests := []struct {
		name   string
		angle  float32
		expect Vec2
	}{
		{"quarter turn", math.Pi / 2, V2(0, 1)},
		{"half turn", math.Pi, V2(-1, 0)},
		{"full turn", 2 * math.Pi, V2(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := V2(1, 0).Rotate(tt.angle); !vecsNear(got, tt.expect) {
				t.Errorf("Rotate(%v) = %v, want %v", tt.angle, got, tt.expect)
			}
		})
	}
}

func TestVec2_Orthogonal(t *testing.T) {
	o := V2(2, 1).Orthogonal()
	if !vecsNear(o, V2(-1, 2)) {
		t.Errorf("Orthogonal = %v, want (-1, 2)", o)
	}
	if got := V2(2, 1).Dot(o); !near(got, 0) {
		t.Errorf("Dot with orthogonal = %v, want 0", got)
	}
}

func TestVec2_Atan2(t *testing.T) {
	tests := []struct {
		name   string
		v      Vec2
		expect float32
	}{
		{"+x", V2(1, 0), 0},
		{"+y", V2(0, 2), math.Pi / 2},
		{"-x", V2(-3, 0), math.Pi},
		{"-y", V2(0, -1), -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Atan2(); !near(got, tt.expect) {
				t.Errorf("Atan2 = %v, want %v", got, tt.expect)
			}
		})
	}
}

// -------------------------------------------------------------------
// Rect Tests
// -------------------------------------------------------------------

func TestRect_NewRect(t *testing.T) {
	tests := []struct {
		name      string
		p1, p2    Point
		expectMin Point
		expectMax Point
	}{
		{
			name: "normal order",
			p1:   Pt(0, 0), p2: Pt(10, 10),
			expectMin: Pt(0, 0), expectMax: Pt(10, 10),
		},
		{
			name: "reversed order",
			p1:   Pt(10, 10), p2: Pt(0, 0),
			expectMin: Pt(0, 0), expectMax: Pt(10, 10),
		},
		{
			name: "mixed",
			p1:   Pt(5, 0), p2: Pt(0, 5),
			expectMin: Pt(0, 0), expectMax: Pt(5, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRect(tt.p1, tt.p2)
			if !pointsNear(r.Min, tt.expectMin) {
				t.Errorf("Min = %v, want %v", r.Min, tt.expectMin)
			}
			if !pointsNear(r.Max, tt.expectMax) {
				t.Errorf("Max = %v, want %v", r.Max, tt.expectMax)
			}
		})
	}
}

func TestRect_Union(t *testing.T) {
	u := NewRect(Pt(0, 0), Pt(5, 5)).Union(NewRect(Pt(3, 3), Pt(10, 10)))
	if !pointsNear(u.Min, Pt(0, 0)) {
		t.Errorf("Union Min = %v, want (0, 0)", u.Min)
	}
	if !pointsNear(u.Max, Pt(10, 10)) {
		t.Errorf("Union Max = %v, want (10, 10)", u.Max)
	}
}

func TestRect_Contains(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(10, 10))

	tests := []struct {
		name   string
		p      Point
		expect bool
	}{
		{"inside", Pt(5, 5), true},
		{"corner", Pt(0, 0), true},
		{"edge", Pt(5, 0), true},
		{"outside", Pt(15, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.expect {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.expect)
			}
		})
	}
}
