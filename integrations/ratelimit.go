package integrations

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles one integration's outgoing requests: a proactive
// token bucket plus reactive honoring of 429 Retry-After answers.
type Limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewLimiter builds a limiter allowing perSecond sustained requests
// with the given burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Wait blocks until a request may go out, or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	wait := l.retryAt.Sub(l.now())
	l.mu.Unlock()

	if wait > 0 {
		return l.sleep(ctx, wait)
	}
	return nil
}

// Observe records the outcome of a request. A 429 with Retry-After
// holds subsequent requests until the provider's stated reset; any
// other status clears the hold.
func (l *Limiter) Observe(status int, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if status == 429 {
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		l.retryAt = l.now().Add(retryAfter)
		return
	}
	l.retryAt = time.Time{}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
