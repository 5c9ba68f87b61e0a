package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter acota los intentos por clave (email normalizado en el login admin).
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

func limiterKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// bucketLimiter da a cada clave un token bucket de capacidad max que se
// rellena a max por window.
type bucketLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

// NewRateLimiter crea un limiter en memoria, valido para una sola instancia.
func NewRateLimiter(window time.Duration, max int) RateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &bucketLimiter{
		every:   rate.Every(window / time.Duration(max)),
		burst:   max,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *bucketLimiter) Allow(_ context.Context, key string) bool {
	key = limiterKey(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}

// incrWindow cuenta intentos en una ventana fija; la TTL se fija solo en el primer hit.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type windowLimiter struct {
	client redis.Scripter
	prefix string
	window time.Duration
	max    int
}

// NewRedisRateLimiter comparte el conteo entre instancias. Si Redis falla,
// el intento se permite: el limiter no debe dejar a los admins afuera.
func NewRedisRateLimiter(client *redis.Client, prefix string, window time.Duration, max int) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &windowLimiter{client: client, prefix: prefix, window: window, max: max}
}

func (l *windowLimiter) Allow(ctx context.Context, key string) bool {
	key = limiterKey(key)
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	n, err := incrWindow.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int()
	if err != nil {
		return true
	}
	return n <= l.max
}
