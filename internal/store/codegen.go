package store

import (
	"fmt"
	"strings"
)

// CodeGenerator produces room codes from a fixed alphabet. The rng is
// injected so tests can force collisions; production wires math/rand.
type CodeGenerator struct {
	alphabet string
	length   int
	rng      func() float64
}

// NewCodeGenerator validates the alphabet and length up front.
func NewCodeGenerator(alphabet string, length int, rng func() float64) (*CodeGenerator, error) {
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("room code alphabet must not be empty")
	}
	if length < 1 {
		return nil, fmt.Errorf("room code length must be at least 1, got %d", length)
	}
	return &CodeGenerator{alphabet: alphabet, length: length, rng: rng}, nil
}

// Next returns a fresh code. Uniqueness is the registry's problem.
func (g *CodeGenerator) Next() string {
	var b strings.Builder
	b.Grow(g.length)
	for i := 0; i < g.length; i++ {
		idx := int(g.rng() * float64(len(g.alphabet)))
		// rng contracts to [0,1) but clamp an exact 1.0 anyway.
		if idx >= len(g.alphabet) {
			idx = 0
		}
		b.WriteByte(g.alphabet[idx])
	}
	return b.String()
}
