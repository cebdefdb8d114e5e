// internal/httpserver/ratelimit.go
//
// Per-player token-bucket rate limiting. Limiters are created on first use
// and evicted after a period of inactivity so the map cannot grow without
// bound.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterTTL controls eviction of idle per-player limiters.
const limiterTTL = 10 * time.Minute

// playerLimiter pairs a limiter with its last access time.
type playerLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// rateLimiter manages per-player token buckets.
type rateLimiter struct {
	perSec rate.Limit
	burst  int

	mu        sync.Mutex
	limiters  map[string]*playerLimiter
	lastSweep time.Time
}

// newRateLimiter builds a limiter allowing perMin requests per minute with
// the given burst. Non-positive values disable limiting.
func newRateLimiter(perMin, burst int) *rateLimiter {
	rl := &rateLimiter{
		limiters:  make(map[string]*playerLimiter),
		lastSweep: time.Now(),
	}
	if perMin > 0 {
		rl.perSec = rate.Limit(float64(perMin) / 60.0)
		if burst <= 0 {
			burst = perMin
		}
		rl.burst = burst
	}
	return rl
}

// middleware rejects callers that exceed their budget with 429.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	if rl.perSec == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.get(playerID(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"rate_limited"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// get returns the player's limiter, creating it on first use and sweeping
// idle entries opportunistically.
func (rl *rateLimiter) get(id string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > limiterTTL {
		for k, pl := range rl.limiters {
			if now.Sub(pl.lastAccess) > limiterTTL {
				delete(rl.limiters, k)
			}
		}
		rl.lastSweep = now
	}

	pl, ok := rl.limiters[id]
	if !ok {
		pl = &playerLimiter{limiter: rate.NewLimiter(rl.perSec, rl.burst)}
		rl.limiters[id] = pl
	}
	pl.lastAccess = now
	return pl.limiter
}
