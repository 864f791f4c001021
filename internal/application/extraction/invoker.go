package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
	"github.com/jhoicas/oficina-api/internal/infrastructure/resilience"
)

// DefaultAttemptTimeout limita cada chamada ao modelo.
const DefaultAttemptTimeout = 45 * time.Second

// Invoker chama o modelo de visão com o prompt da variante, aplicando timeout por tentativa
// e a política de novas tentativas do executor.
type Invoker struct {
	model          ports.VisionModel
	exec           *resilience.Executor
	attemptTimeout time.Duration
	metrics        Metrics
	log            zerolog.Logger
}

// NewInvoker constrói o invoker. attemptTimeout <= 0 usa DefaultAttemptTimeout; metrics nil descarta eventos.
func NewInvoker(model ports.VisionModel, exec *resilience.Executor, attemptTimeout time.Duration, metrics Metrics, log zerolog.Logger) *Invoker {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Invoker{
		model:          model,
		exec:           exec,
		attemptTimeout: attemptTimeout,
		metrics:        metrics,
		log:            log,
	}
}

// Configured indica se o provedor tem credencial.
func (i *Invoker) Configured() bool { return i.model.Configured() }

// Invoke devolve o texto bruto do modelo. Toda falha é ErrExtraction com a causa encadeada.
func (i *Invoker) Invoke(ctx context.Context, img extraction.Image, variant extraction.Variant) (string, error) {
	if !i.model.Configured() {
		return "", fmt.Errorf("%w: %w", extraction.ErrExtraction, extraction.ErrConfiguration)
	}

	prompt, params := promptFor(variant)
	req := ports.VisionRequest{
		Prompt:   prompt,
		Image:    img.Data,
		MIMEType: img.MIMEType,
		Params:   params,
	}
	provider := i.model.Provider()
	log := i.log.With().
		Str("request_id", requestID(ctx)).
		Str("provider", provider).
		Str("variant", string(variant)).
		Logger()

	var text string
	err := i.exec.Execute(ctx, "vision."+provider+"."+string(variant), func(ctx context.Context, attempt int) error {
		attemptCtx, cancel := context.WithTimeout(ctx, i.attemptTimeout)
		defer cancel()

		start := time.Now()
		out, err := i.model.GenerateFromImage(attemptCtx, req)
		elapsed := time.Since(start)

		if err != nil {
			i.metrics.ObserveAttempt(provider, variant, "error", elapsed)
			log.Warn().Int("attempt", attempt).Dur("duration", elapsed).Err(err).Msg("vision_attempt_failed")
			return fmt.Errorf("%w: %w", extraction.ErrExtraction, err)
		}
		i.metrics.ObserveAttempt(provider, variant, "ok", elapsed)
		log.Debug().Int("attempt", attempt).Dur("duration", elapsed).Int("chars", len(out)).Msg("vision_attempt_ok")
		text = out
		return nil
	}, classifyInvokeError)
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return "", fmt.Errorf("%w: circuito aberto: %w", extraction.ErrExtraction, err)
		}
		if !errors.Is(err, extraction.ErrExtraction) {
			err = fmt.Errorf("%w: %w", extraction.ErrExtraction, err)
		}
		return "", err
	}
	return text, nil
}

// classifyInvokeError: falta de credencial e cancelamento pelo cliente não são retentados
// nem contam para o breaker; qualquer outra falha do modelo é transitória.
func classifyInvokeError(err error) resilience.ErrorClassification {
	if errors.Is(err, extraction.ErrConfiguration) || errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
