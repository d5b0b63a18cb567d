package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/utils"
)

// RateLimitConfig tunes the per-visitor limiter in front of /api.
type RateLimitConfig struct {
	Burst             int              // requests a fresh visitor may send at once
	RefillPerIPPerMin int              // sustained requests per minute
	MaxEntries        int              // forces an eviction pass when reached (0 = unbounded)
	SweepInterval     time.Duration    // how often idle visitors are evicted (default 1m)
	IdleTTL           time.Duration    // a visitor unseen this long is forgotten (default 15m)
	TrustProxy        bool             // resolve IP from proxy headers when true
	Now               func() time.Time // clock, defaults to time.Now
}

func (c *RateLimitConfig) withDefaults() {
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// allowance is what one visitor has left.
type allowance struct {
	tokens  float64
	updated time.Time
}

// verdict is the outcome of one take.
type verdict struct {
	allowed    bool
	remaining  int
	retryAfter int // seconds, only set when rejected
}

type visitorLimiter struct {
	cfg      RateLimitConfig
	perSec   float64
	mu       sync.Mutex
	visitors map[string]*allowance
	swept    time.Time
}

func newVisitorLimiter(cfg RateLimitConfig) *visitorLimiter {
	cfg.withDefaults()
	return &visitorLimiter{
		cfg:      cfg,
		perSec:   float64(cfg.RefillPerIPPerMin) / 60,
		visitors: make(map[string]*allowance, 256),
		swept:    cfg.Now(),
	}
}

// take spends one token for ip. A single lock guards the map and the
// allowances; /api traffic is a handful of calls per page view.
func (v *visitorLimiter) take(ip string, now time.Time) verdict {
	v.mu.Lock()
	defer v.mu.Unlock()

	full := v.cfg.MaxEntries > 0 && len(v.visitors) >= v.cfg.MaxEntries
	if full || now.Sub(v.swept) >= v.cfg.SweepInterval {
		v.evictIdle(now)
	}

	a, ok := v.visitors[ip]
	if !ok {
		a = &allowance{tokens: float64(v.cfg.Burst), updated: now}
		v.visitors[ip] = a
	}

	if dt := now.Sub(a.updated).Seconds(); dt > 0 {
		a.tokens = math.Min(float64(v.cfg.Burst), a.tokens+dt*v.perSec)
	}
	a.updated = now

	if a.tokens < 1 {
		wait := int(math.Ceil((1 - a.tokens) / v.perSec))
		return verdict{retryAfter: max(wait, 1)}
	}

	a.tokens--
	return verdict{allowed: true, remaining: max(int(a.tokens), 0)}
}

func (v *visitorLimiter) evictIdle(now time.Time) {
	for ip, a := range v.visitors {
		if now.Sub(a.updated) > v.cfg.IdleTTL {
			delete(v.visitors, ip)
		}
	}
	v.swept = now
}

// RateLimit is a per-IP token bucket. Rejected requests get 429 with
// Retry-After; accepted ones carry the remaining allowance.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newVisitorLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.remaining))

			if !res.allowed {
				h.Set("Retry-After", strconv.Itoa(res.retryAfter))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
