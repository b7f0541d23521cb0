package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"clubsite/internal/config"
	"clubsite/pkg/utils"
)

const (
	// Defaults used when a bucket is configured with zero values
	DefaultRequests = 20
	BurstSize       = 50

	// Garbage Collection
	VisitorTTL      = 5 * time.Minute // Time before an inactive IP is removed from memory
	CleanupInterval = 3 * time.Minute // Frequency of the cleanup routine
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket set.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	enabled  bool
	trusted  bool
	limit    rate.Limit
	burst    int
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimiter builds a limiter from a config bucket and starts the stale
// visitor cleanup. Call Close to stop it. trustProxy keys buckets on
// X-Forwarded-For / X-Real-IP instead of the peer address.
func NewRateLimiter(conf config.RateLimitConfig, trustProxy bool) *RateLimiter {
	window, _ := time.ParseDuration(conf.Window)
	if window <= 0 {
		window = time.Second
	}
	requests := conf.Requests
	if requests <= 0 {
		requests = DefaultRequests
	}
	burst := conf.Burst
	if burst <= 0 {
		burst = BurstSize
	}

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		enabled:  conf.Enabled,
		trusted:  trustProxy,
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    burst,
		stop:     make(chan struct{}),
	}
	if rl.enabled {
		go rl.startCleanupRoutine()
	}
	return rl
}

func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// startCleanupRoutine removes stale visitor entries so the map does not grow forever.
func (rl *RateLimiter) startCleanupRoutine() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > VisitorTTL {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// ClientIP is the key Middleware uses for r.
func (rl *RateLimiter) ClientIP(r *http.Request) string {
	return utils.GetRealIP(r, rl.trusted)
}

// Allow spends one token from ip's bucket. Disabled limiters always allow.
func (rl *RateLimiter) Allow(ip string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// Middleware enforces the quota per client IP with a 429 JSON response.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.ClientIP(r)) {
			utils.WriteError(
				w,
				http.StatusTooManyRequests,
				utils.ErrRequestRateLimitExceeded,
				"Too many requests. Please wait a moment.",
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}
