// Package rng provides the seedable 32-bit generator that drives every
// pseudo-random draw in a simulation run.
package rng

// increment is the odd constant added to the state on every draw.
const increment uint32 = 0x6D2B79F5

// Generator is a mulberry32-style sequence. The zero value is a valid
// generator seeded with 0. It is not safe for concurrent use; build one per stage.
type Generator struct {
	state uint32
}

// New returns a generator seeded with the low 32 bits of seed.
func New(seed int64) *Generator {
	return &Generator{state: uint32(seed)}
}

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 {
	g.state += increment
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Centered returns the next value shifted into [-0.5, 0.5).
func (g *Generator) Centered() float64 {
	return g.Float64() - 0.5
}

// Symmetric returns the next value scaled into [-1, 1).
func (g *Generator) Symmetric() float64 {
	return (g.Float64() - 0.5) * 2
}
