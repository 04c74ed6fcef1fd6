// Package allpass provides first-order allpass sections and fixed cascades
// used as diffusers.
//
// An allpass filter has unity magnitude at every frequency and only alters
// phase. Cascades of them smear transients (decorrelation) without changing
// tonal balance, which is exactly what a reverb diffuser needs.
package allpass

import "fmt"

const (
	minChainStages = 1
	maxChainStages = 16
)

// Section is a single first-order allpass stage.
type Section struct {
	state float64
}

// Process runs one sample through the stage with coefficient g.
//
//	y = −g·x + s
//	s = x + g·y
func (s *Section) Process(x, g float64) float64 {
	y := -g*x + s.state
	s.state = x + g*y

	return y
}

// Reset clears the stage memory.
func (s *Section) Reset() {
	s.state = 0
}

// Chain is a fixed cascade of first-order allpass sections sharing a single
// per-call coefficient.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade with the given number of stages.
func NewChain(stages int) (*Chain, error) {
	if stages < minChainStages || stages > maxChainStages {
		return nil, fmt.Errorf("allpass chain stages must be in [%d, %d]: %d",
			minChainStages, maxChainStages, stages)
	}

	return &Chain{sections: make([]Section, stages)}, nil
}

// Stages returns the number of cascaded sections.
func (c *Chain) Stages() int {
	return len(c.sections)
}

// Process runs one sample through every stage in order using coefficient g.
func (c *Chain) Process(x, g float64) float64 {
	for i := range c.sections {
		x = c.sections[i].Process(x, g)
	}

	return x
}

// Reset clears all stage memories.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}
