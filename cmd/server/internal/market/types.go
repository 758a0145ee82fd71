package market

import (
	"context"
	"math/rand"
	"time"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

// Rand is the source of randomness for the generator. Injecting it keeps
// every draw deterministic under test.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// RealRand adapts math/rand to the Rand interface.
type RealRand struct{ *rand.Rand }

func (r RealRand) Intn(n int) int   { return r.Rand.Intn(n) }
func (r RealRand) Float64() float64 { return r.Rand.Float64() }

// Clock supplies the current time for candle timestamps.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// QuoteSource supplies the token listing from outside the process.
// Implementations live in the source package; the generator only needs
// Fetch.
type QuoteSource interface {
	Fetch(ctx context.Context) ([]models.TokenQuote, error)
}
