package extraction

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// Extractor são as duas granularidades de extração usadas pelo orquestrador.
type Extractor interface {
	ExtractSingle(ctx context.Context, img extraction.Image) (extraction.SingleItem, error)
	ExtractMulti(ctx context.Context, img extraction.Image) (extraction.Result, error)
}

// Orchestrator decide entre revisão de peça única e aprovação em lote.
//
//	multi com >1 peça  → MultiOutcome
//	multi com 1 peça   → SingleOutcome (nota achatada)
//	multi falhou       → uma tentativa de peça única → SingleOutcome ou FailedOutcome
type Orchestrator struct {
	extractor Extractor
	metrics   Metrics
	log       zerolog.Logger
}

func NewOrchestrator(extractor Extractor, metrics Metrics, log zerolog.Logger) *Orchestrator {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Orchestrator{extractor: extractor, metrics: metrics, log: log}
}

// Analyze nunca devolve erro: falhas do pipeline viram FailedOutcome.
func (o *Orchestrator) Analyze(ctx context.Context, img extraction.Image) extraction.Outcome {
	log := o.log.With().Str("request_id", requestID(ctx)).Logger()

	res, multiErr := o.extractor.ExtractMulti(ctx, img)
	if multiErr == nil {
		switch {
		case len(res.Items) > 1:
			o.metrics.IncOutcome(extraction.KindMulti, false)
			log.Info().Int("items", len(res.Items)).Msg("analyze_multi")
			return extraction.MultiOutcome{Result: res}
		case len(res.Items) == 1:
			o.metrics.IncOutcome(extraction.KindSingle, false)
			log.Info().Msg("analyze_single_from_invoice")
			return extraction.SingleOutcome{Item: res.Flatten()}
		default:
			multiErr = extraction.ErrEmptyExtraction
		}
	}

	log.Warn().Err(multiErr).Msg("analyze_multi_failed_fallback_single")

	item, singleErr := o.extractor.ExtractSingle(ctx, img)
	if singleErr == nil {
		o.metrics.IncOutcome(extraction.KindSingle, true)
		return extraction.SingleOutcome{Item: item, FromFallback: true}
	}

	o.metrics.IncOutcome(extraction.KindFailed, true)
	log.Error().Err(singleErr).Msg("analyze_failed")
	return extraction.FailedOutcome{
		Message: extraction.ManualEntryMessage,
		Cause:   errors.Join(multiErr, singleErr),
	}
}
