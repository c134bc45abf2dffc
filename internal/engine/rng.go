package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Roller yields uniform values in [0, 1). *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// NewRand returns a generator seeded from the OS entropy source. Each battle
// or draw request takes its own generator so no state leaks between calls.
func NewRand() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewSource(rand.Int63()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// Chance reports whether a roll in [0, 1) lands under p.
func Chance(r Roller, p float64) bool {
	return r.Float64() < p
}
