package httpx

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter mantiene un token bucket por cliente (IP).
// Usar después de middleware.RealIP para que RemoteAddr refleje al cliente real.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter crea un limitador con rps requests por segundo y ráfagas de burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consume un token del cliente key.
// Devuelve cuánto esperar antes de reintentar cuando no hay tokens.
func (limiter *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := limiter.now()

	limiter.mu.Lock()
	client, ok := limiter.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.clients[key] = client
	}
	client.lastSeen = now
	limiter.mu.Unlock()

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		// No vamos a esperar: devolvemos el token para no penalizar al cliente dos veces.
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup descarta clientes sin actividad desde hace más de idle.
func (limiter *RateLimiter) Cleanup(idle time.Duration) {
	cutoff := limiter.now().Add(-idle)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for key, client := range limiter.clients {
		if client.lastSeen.Before(cutoff) {
			delete(limiter.clients, key)
		}
	}
}

// StartJanitor limpia clientes inactivos cada every hasta que ctx se cancele.
func (limiter *RateLimiter) StartJanitor(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup(idle)
			}
		}
	}()
}

// Middleware rechaza con 429 a los clientes que agotaron su bucket.
func (limiter *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		allowed, retryAfter := limiter.Allow(clientKey(request))
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			writer.Header().Set("Retry-After", strconv.Itoa(seconds))
			Fail(writer, request, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func clientKey(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if request.RemoteAddr != "" {
		return request.RemoteAddr
	}
	return "unknown"
}
