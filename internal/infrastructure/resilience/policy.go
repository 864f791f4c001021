package resilience

import "time"

// Backoff define como cresce a espera entre tentativas.
type Backoff string

const (
	// BackoffLinear espera BaseDelay × tentativa (1s, 2s, 3s...).
	BackoffLinear Backoff = "linear"
	// BackoffExponential espera BaseDelay × Multiplier^(tentativa-1).
	BackoffExponential Backoff = "exponential"
)

// Config agrupa a política de novas tentativas e do circuit breaker.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Backoff     Backoff
	Multiplier  float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// DefaultConfig: 3 tentativas com espera linear de 1s × tentativa, breaker desligado.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Backoff:     BackoffLinear,
		Multiplier:  2.0,

		BreakerEnabled:          false,
		BreakerMinRequests:      5,
		BreakerFailureRatio:     0.6,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 1,
	}
}

// SingleAttempt é a política dos endpoints que devolvem o erro direto ao cliente.
func SingleAttempt() Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 1
	return cfg
}

// Delay devolve a espera antes da tentativa seguinte a `attempt` (começando em 1).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	var d time.Duration
	switch c.Backoff {
	case BackoffExponential:
		f := float64(c.BaseDelay)
		for i := 1; i < attempt; i++ {
			f *= c.Multiplier
			if f > float64(c.MaxDelay) {
				break
			}
		}
		d = time.Duration(f)
	default:
		d = c.BaseDelay * time.Duration(attempt)
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.MaxAttempts <= 0 {
		out.MaxAttempts = def.MaxAttempts
	}
	if out.BaseDelay < 0 {
		out.BaseDelay = 0
	}
	if out.MaxDelay <= 0 {
		out.MaxDelay = def.MaxDelay
	}
	if out.MaxDelay < out.BaseDelay {
		out.MaxDelay = out.BaseDelay
	}
	if out.Backoff != BackoffExponential {
		out.Backoff = BackoffLinear
	}
	if out.Multiplier < 1.0 {
		out.Multiplier = def.Multiplier
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}
	return out
}
