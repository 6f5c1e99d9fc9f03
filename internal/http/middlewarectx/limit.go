package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/awards-dashboard/internal/config"
)

// limiterIdleTTL через столько без запросов limiter клиента забывается.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter держит отдельный token bucket на каждый адрес клиента.
type LoginLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewLimiter создаёт LoginLimiter для попыток входа.
func NewLimiter(cfg config.LoginRateLimit) *LoginLimiter {
	return &LoginLimiter{
		limit:     rate.Limit(cfg.RatePerSecond),
		burst:     cfg.Burst,
		idleTTL:   limiterIdleTTL,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow тратит токен клиента key.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) >= l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// clientIP адрес клиента без порта. За прокси RemoteAddr выставляет middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware ограничивает частоту попыток входа с одного адреса.
// Ограничиваются только POST: показ формы не тратит токены.
func RateLimitMiddleware(limiter *LoginLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				ip := clientIP(r)
				if !limiter.Allow(ip) {
					log.Warn("too many requests",
						slog.String("path", r.URL.Path),
						slog.String("client_ip", ip),
						slog.String("request_id", middleware.GetReqID(r.Context())),
					)
					render.Status(r, http.StatusTooManyRequests)
					render.PlainText(w, r, "Too many login attempts, try again later.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
