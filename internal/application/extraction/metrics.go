package extraction

import (
	"context"
	"time"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// Metrics recebe os eventos do pipeline. A implementação Prometheus fica em observability/metrics.
type Metrics interface {
	ObserveAttempt(provider string, variant extraction.Variant, status string, d time.Duration)
	IncStageFailure(variant extraction.Variant, stage string)
	IncOutcome(kind extraction.Kind, fromFallback bool)
}

// NopMetrics descarta todos os eventos.
type NopMetrics struct{}

func (NopMetrics) ObserveAttempt(string, extraction.Variant, string, time.Duration) {}
func (NopMetrics) IncStageFailure(extraction.Variant, string)                     {}
func (NopMetrics) IncOutcome(extraction.Kind, bool)                               {}

type requestIDKey struct{}

// WithRequestID anexa o id da requisição ao contexto para os logs do pipeline.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
