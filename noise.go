package ink

import "math"

// NoiseGenerator is a seeded, deterministic pseudo-random signal indexed by
// continuous progress rather than wall time.
//
// The generator hashes integer lattice points with a SplitMix64 scrambler and
// interpolates between consecutive lattice values with a smoothstep, so the
// output is a continuous function of cumulative progress. Two generators
// built from the same seed and advanced by the same cumulative progress
// produce identical output, which keeps replayed strokes pixel-stable.
//
// Progress is dimensionless; callers derive it from distance, time, or
// brush-size multiples. Values are copyable: assigning a NoiseGenerator
// snapshots its state.
type NoiseGenerator struct {
	seed     uint64
	progress float64
}

// NewNoiseGenerator returns a generator seeded with seed, positioned at
// progress zero.
func NewNoiseGenerator(seed uint64) NoiseGenerator {
	return NoiseGenerator{seed: seed}
}

// AdvanceInputBy moves the generator forward by delta progress. Negative or
// non-finite deltas are ignored; progress only ever accumulates.
func (n *NoiseGenerator) AdvanceInputBy(delta float32) {
	d := float64(delta)
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return
	}
	n.progress += d
}

// CurrentOutputValue returns the signal value at the current progress, in
// [0, 1]. It does not mutate the generator.
func (n NoiseGenerator) CurrentOutputValue() float32 {
	cell := math.Floor(n.progress)
	t := float32(n.progress - cell)
	a := n.latticeValue(uint64(int64(cell)))
	b := n.latticeValue(uint64(int64(cell) + 1))
	// Smoothstep keeps the first derivative continuous across cells.
	u := t * t * (3 - 2*t)
	return a + (b-a)*u
}

// latticeValue hashes one lattice cell into [0, 1).
func (n NoiseGenerator) latticeValue(cell uint64) float32 {
	// 2^64 / phi, the Weyl increment SplitMix64 is built around.
	const golden = 0x9E3779B97F4A7C15
	x := n.seed + cell*golden
	x += golden
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	// Top 24 bits are enough for a float32 mantissa.
	return float32(x>>40) / float32(1<<24)
}
