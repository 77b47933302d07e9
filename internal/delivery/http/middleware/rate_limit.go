package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"glowify-backend/pkg/metrics"
	"glowify-backend/pkg/utils"

	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// CheckoutPerMinute caps order, custom order and frame upload submissions
	// per client on top of the general bucket. Zero disables it.
	CheckoutPerMinute int
	IdleTTL           time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP and route class.
type RateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu       sync.Mutex
	general  map[string]*bucket
	checkout map[string]*bucket

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		now:      time.Now,
		general:  make(map[string]*bucket),
		checkout: make(map[string]*bucket),
	}
}

// Start evicts idle clients every interval until ctx is cancelled or
// Shutdown is called.
func (rl *RateLimiter) Start(ctx context.Context, interval time.Duration) {
	ctx, rl.cancel = context.WithCancel(ctx)
	rl.wg.Add(1)
	go func() {
		defer rl.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.evictIdle()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (rl *RateLimiter) Shutdown() {
	if rl.cancel != nil {
		rl.cancel()
	}
	rl.wg.Wait()
}

func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := "general"
			if rl.cfg.CheckoutPerMinute > 0 && isCheckout(r) {
				class = "checkout"
			}
			if wait, ok := rl.allow(getClientIP(r), class); !ok {
				metrics.RecordRateLimited(class)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				utils.WriteError(w, http.StatusTooManyRequests, "Too many requests, please slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// isCheckout matches the routes that create orders or store frame images.
func isCheckout(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return r.URL.Path == "/api/v1/orders" || strings.HasPrefix(r.URL.Path, "/api/v1/custom-orders")
}

// allow takes a token from the general bucket and, for checkout requests,
// from the checkout bucket too. On refusal it returns how long to wait and
// no token is spent.
func (rl *RateLimiter) allow(ip, class string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	general := rl.reserve(rl.general, ip, now, rate.Limit(rl.cfg.RPS), rl.cfg.Burst)
	if wait, ok := delay(general, now); !ok {
		return wait, false
	}
	if class != "checkout" {
		return 0, true
	}

	perMin := rl.cfg.CheckoutPerMinute
	checkout := rl.reserve(rl.checkout, ip, now, rate.Every(time.Minute/time.Duration(perMin)), perMin)
	if wait, ok := delay(checkout, now); !ok {
		general.CancelAt(now)
		return wait, false
	}
	return 0, true
}

func (rl *RateLimiter) reserve(buckets map[string]*bucket, ip string, now time.Time, limit rate.Limit, burst int) *rate.Reservation {
	b, ok := buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(limit, burst)}
		buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.ReserveN(now, 1)
}

// delay cancels a reservation that would have to wait.
func delay(r *rate.Reservation, now time.Time) (time.Duration, bool) {
	if !r.OK() {
		return time.Second, false
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return d, false
	}
	return 0, true
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.cfg.IdleTTL)
	for _, buckets := range []map[string]*bucket{rl.general, rl.checkout} {
		for ip, b := range buckets {
			if b.lastSeen.Before(cutoff) {
				delete(buckets, ip)
			}
		}
	}
}

func (rl *RateLimiter) clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.general)
}
