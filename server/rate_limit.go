package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-warehouse-client/api"
	"golang.org/x/time/rate"
)

// DefaultLimiterCleanupInterval is how often idle login limiters are evicted.
const DefaultLimiterCleanupInterval = 5 * time.Minute

type accountLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// loginLimiter keeps one token bucket per account name. Buckets idle for two
// cleanup intervals are evicted.
type loginLimiter struct {
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu       sync.Mutex
	limiters map[string]*accountLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newLoginLimiter(perSecond float64, burst int, cleanupInterval time.Duration) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultLimiterCleanupInterval
	}
	l := &loginLimiter{
		limit:           rate.Limit(perSecond),
		burst:           burst,
		cleanupInterval: cleanupInterval,
		limiters:        make(map[string]*accountLimiter),
		stopCh:          make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *loginLimiter) allow(account string) bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	al, ok := l.limiters[account]
	if !ok {
		al = &accountLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[account] = al
	}
	al.lastAccess = time.Now()
	l.mu.Unlock()
	return al.limiter.Allow()
}

func (l *loginLimiter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// stop ends the cleanup goroutine. It is safe to call more than once.
func (l *loginLimiter) stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *loginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *loginLimiter) cleanup(now time.Time) {
	ttl := l.cleanupInterval * 2

	l.mu.Lock()
	defer l.mu.Unlock()
	for account, al := range l.limiters {
		if now.Sub(al.lastAccess) > ttl {
			delete(l.limiters, account)
		}
	}
}

func (l *loginLimiter) retryAfter() int {
	if l.limit <= 0 {
		return 1
	}
	secs := int(math.Ceil(1.0 / float64(l.limit)))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// LoginRateLimit throttles login attempts per account. The body is peeked and
// restored for the next handler.
func (s *Server) LoginRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var creds api.Credentials
		_ = json.Unmarshal(body, &creds)
		account := strings.ToLower(strings.TrimSpace(creds.Account))

		if !s.limiter.allow(account) {
			s.log.Warn().Str("account", account).Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(s.limiter.retryAfter()))
			writeJSONError(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
