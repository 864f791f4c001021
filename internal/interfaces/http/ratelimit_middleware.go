package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimitConfig limite de requisições por usuário (ou IP, sem token).
type RateLimitConfig struct {
	RPS   float64
	Burst int
	// IdleTTL tempo sem uso após o qual o limitador do usuário é descartado.
	IdleTTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type keyedLimiter struct {
	mu       sync.Mutex
	cfg      RateLimitConfig
	visitors map[string]*visitor
	lastGC   time.Time
}

// RateLimitMiddleware limita as chamadas ao modelo de visão. RPS <= 0 desativa.
func RateLimitMiddleware(cfg RateLimitConfig) fiber.Handler {
	if cfg.RPS <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	kl := &keyedLimiter{cfg: cfg, visitors: make(map[string]*visitor)}

	return func(c *fiber.Ctx) error {
		key := GetUserID(c)
		if key == "" {
			key = "ip:" + c.IP()
		}
		lim := kl.get(key, time.Now())
		if !lim.Allow() {
			retry := time.Duration(float64(time.Second) / cfg.RPS)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Seconds())+1))
			return respondError(c, fiber.StatusTooManyRequests, "Muitas requisições", "aguarde antes de enviar outra imagem")
		}
		return c.Next()
	}
}

func (k *keyedLimiter) get(key string, now time.Time) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if now.Sub(k.lastGC) > k.cfg.IdleTTL {
		for id, v := range k.visitors {
			if now.Sub(v.lastSeen) > k.cfg.IdleTTL {
				delete(k.visitors, id)
			}
		}
		k.lastGC = now
	}

	v, ok := k.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(k.cfg.RPS), k.cfg.Burst)}
		k.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}
