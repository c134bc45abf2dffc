package services

import (
	"math/rand"

	"github.com/mroth/weightedrand/v2"
)

// Sampler picks one of a fixed set of values with probability proportional
// to its weight.
type Sampler[T any] struct {
	chooser *weightedrand.Chooser[T, int]
}

func NewSampler[T any](choices []weightedrand.Choice[T, int]) (*Sampler[T], error) {
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &Sampler[T]{chooser}, nil
}

func (s *Sampler[T]) Pick(rng *rand.Rand) T {
	return s.chooser.PickSource(rng)
}

func weightOf(w int) int {
	if w <= 0 {
		return 1
	}
	return w
}
