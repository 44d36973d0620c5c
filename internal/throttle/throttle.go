// Package throttle paces requests to the USGS services. The pause after each
// request is a politeness delay toward the upstream, not a correctness
// mechanism, so it is injected and can be disabled in tests.
package throttle

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Throttle blocks until the next request may be sent or ctx is done.
// *rate.Limiter satisfies it.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Pause waits a fixed delay on every call.
type Pause struct {
	clock clockwork.Clock
	delay time.Duration
}

// NewPause creates a Pause of delay measured on clock. A nil clock uses
// real time.
func NewPause(clock clockwork.Clock, delay time.Duration) *Pause {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pause{clock: clock, delay: delay}
}

func (p *Pause) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	timer := p.clock.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// NewLimiter returns a token bucket admitting rps requests per second with
// no burst.
func NewLimiter(rps float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), 1)
}

type none struct{}

func (none) Wait(ctx context.Context) error { return ctx.Err() }

// None never waits.
var None Throttle = none{}
