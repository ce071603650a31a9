package life

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
)

// SeedPolicy selects where the universe's random source is seeded from.
type SeedPolicy struct {
	// Seed is used verbatim when Deterministic is set.
	Seed int64
	// Deterministic seeds a PCG source from Seed. Otherwise a seed is drawn
	// from the system entropy source.
	Deterministic bool
}

// Seeded returns a deterministic policy for the given seed.
func Seeded(seed int64) SeedPolicy {
	return SeedPolicy{Seed: seed, Deterministic: true}
}

// entropy is the reader used for non-deterministic seeds.
var entropy io.Reader = crand.Reader

// resolve returns the concrete seed for the policy.
func (p SeedPolicy) resolve() (int64, error) {
	if p.Deterministic {
		return p.Seed, nil
	}
	var buf [8]byte
	if _, err := io.ReadFull(entropy, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
