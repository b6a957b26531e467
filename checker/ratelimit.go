package checker

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultTargetRTT is the response time the adaptive limiter steers toward.
	defaultTargetRTT = 500 * time.Millisecond

	// minRateFactor and maxRateFactor bound the adaptive rate relative to
	// the configured one.
	minRateFactor = 0.1
	maxRateFactor = 4.0

	// emaAlpha is the smoothing factor for the RTT moving average.
	// 0.2 gives a new observation 20% weight.
	emaAlpha = 0.2

	// recoveryFactor is the per-observation increase when responses are fast.
	recoveryFactor = 1.1

	// backoffFactor caps how far the rate can drop in one step.
	backoffFactor = 0.5
)

// AdaptiveLimiter is a shared request-rate limiter. When adaptation is on it
// tracks an exponential moving average of response times and slows down
// when servers respond slower than the target, recovering gradually.
type AdaptiveLimiter struct {
	limiter   *rate.Limiter
	targetRTT time.Duration
	adaptive  bool
	floor     float64
	ceiling   float64

	mu          sync.Mutex
	emaRTT      time.Duration
	currentRate float64
}

// NewAdaptiveLimiter creates a limiter starting at rps requests per second.
// With adaptive false the rate stays fixed.
func NewAdaptiveLimiter(rps float64, targetRTT time.Duration, adaptive bool) *AdaptiveLimiter {
	if targetRTT <= 0 {
		targetRTT = defaultTargetRTT
	}
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(rate.Limit(rps), burstFor(rps)),
		targetRTT:   targetRTT,
		adaptive:    adaptive,
		floor:       rps * minRateFactor,
		ceiling:     rps * maxRateFactor,
		emaRTT:      targetRTT,
		currentRate: rps,
	}
}

// Wait blocks until the next request may start or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// ObserveRTT feeds one response time into the moving average and adjusts
// the rate. It is a no-op when adaptation is off.
func (a *AdaptiveLimiter) ObserveRTT(rtt time.Duration) {
	if !a.adaptive {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.emaRTT = time.Duration(emaAlpha*float64(rtt) + (1-emaAlpha)*float64(a.emaRTT))

	var next float64
	ratio := float64(a.targetRTT) / float64(a.emaRTT)
	if ratio < 1 {
		next = math.Max(a.currentRate*ratio, a.currentRate*backoffFactor)
	} else {
		next = a.currentRate * recoveryFactor
	}
	next = math.Min(math.Max(next, a.floor), a.ceiling)

	if math.Abs(next-a.currentRate) > 0.01 {
		a.currentRate = next
		a.limiter.SetLimit(rate.Limit(next))
		a.limiter.SetBurst(burstFor(next))
	}
}

// CurrentRate returns the current limit in requests per second.
func (a *AdaptiveLimiter) CurrentRate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

// CurrentEMA returns the moving average of observed response times.
func (a *AdaptiveLimiter) CurrentEMA() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.emaRTT
}

func burstFor(rps float64) int {
	return max(1, int(math.Ceil(rps)))
}
