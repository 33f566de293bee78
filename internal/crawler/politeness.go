package crawler

import (
	"context"

	"golang.org/x/time/rate"
)

// throttle paces the engine between URLs. It wraps a token bucket sized to
// one request per configured delay; Wait blocks until the next slot or the
// context is canceled.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(cfg Config) *throttle {
	if cfg.RequestDelay <= 0 {
		return &throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &throttle{limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)}
}

// Wait blocks until the politeness delay since the previous call has passed.
func (t *throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
