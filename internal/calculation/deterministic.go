package calculation

import (
	"math/rand"
	"time"
)

// seedFunc returns a pseudo-random seed (override for deterministic year sampling in tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// NewRandomSource returns a source for SelectYears. A zero seed draws one from seedFunc.
// The returned source is not safe for concurrent use.
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = seedFunc()
	}
	return rand.New(rand.NewSource(seed))
}
