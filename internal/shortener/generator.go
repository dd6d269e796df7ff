package shortener

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync/atomic"

	"github.com/jaevor/go-nanoid"
)

// CodeGenerator generates short codes.
type CodeGenerator func() Code

// Strategy names a code generation scheme.
type Strategy string

const (
	// StrategyCounter advances a process-local counter and renders it in hex.
	StrategyCounter Strategy = "counter"
	// StrategyNanoID draws random URL-safe codes.
	StrategyNanoID Strategy = "nanoid"
)

const (
	// DefaultCounterSeed is the counter's starting value.
	DefaultCounterSeed uint64 = 18921839
	// maxCounterStep bounds how far the counter moves on each call.
	maxCounterStep = 50
)

// CounterGenerator produces codes from a counter that only moves forward.
// Codes are unique within one process lifetime but easy to guess.
type CounterGenerator struct {
	counter atomic.Uint64
	step    func() uint64
}

// NewCounterGenerator creates a counter generator starting at seed.
func NewCounterGenerator(seed uint64) *CounterGenerator {
	g := &CounterGenerator{
		step: func() uint64 { return rand.Uint64N(maxCounterStep) + 1 },
	}
	g.counter.Store(seed)

	return g
}

// Next advances the counter by a step in [1, 50] and returns it in base 16.
func (g *CounterGenerator) Next() Code {
	n := g.counter.Add(g.step())

	return Code(strconv.FormatUint(n, 16))
}

// NewCodeGenerator builds the generator for the named strategy.
// length only applies to StrategyNanoID.
func NewCodeGenerator(strategy Strategy, length int) (CodeGenerator, error) {
	switch strategy {
	case StrategyCounter, "":
		return NewCounterGenerator(DefaultCounterSeed).Next, nil
	case StrategyNanoID:
		gen, err := nanoid.Standard(length)
		if err != nil {
			return nil, fmt.Errorf("nanoid generator: %w", err)
		}

		return func() Code { return Code(gen()) }, nil
	default:
		return nil, fmt.Errorf("unknown code strategy %q: must be %q or %q", strategy, StrategyCounter, StrategyNanoID)
	}
}
