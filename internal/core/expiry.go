package core

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	minExpiryDays  = 30
	expirySpanDays = 365 // offsets fall in [30, 394]
)

// ExpiryGenerator simulates reading an expiry date off a product label.
type ExpiryGenerator interface {
	GenerateExpiryDate() time.Time
}

// ExpiryGeneratorFunc adapts a plain function to ExpiryGenerator.
type ExpiryGeneratorFunc func() time.Time

func (f ExpiryGeneratorFunc) GenerateExpiryDate() time.Time { return f() }

// FixedExpiry always returns the same date. Useful in tests and demos.
func FixedExpiry(t time.Time) ExpiryGenerator {
	return ExpiryGeneratorFunc(func() time.Time { return t })
}

// RandomExpiry picks a uniformly distributed day offset in [30, 394] from now.
type RandomExpiry struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRandomExpiry returns a RandomExpiry. A nil rng or now falls back to a
// time-seeded generator and time.Now.
func NewRandomExpiry(rng *rand.Rand, now func() time.Time) *RandomExpiry {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	if now == nil {
		now = time.Now
	}
	return &RandomExpiry{rng: rng, now: now}
}

func (g *RandomExpiry) GenerateExpiryDate() time.Time {
	g.mu.Lock()
	days := minExpiryDays + g.rng.IntN(expirySpanDays)
	g.mu.Unlock()

	y, m, d := g.now().Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC)
}
