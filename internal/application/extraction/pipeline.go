package extraction

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// Etapas usadas nas métricas de falha.
const (
	stageValidate  = "validate"
	stageInvoke    = "invoke"
	stageParse     = "parse"
	stageNormalize = "normalize"
)

// Pipeline executa validação → modelo → parser → normalizador (→ frete, na variante multi).
// Não guarda estado entre chamadas; uma instância atende requisições concorrentes.
type Pipeline struct {
	invoker   *Invoker
	validate  extraction.ImageValidator
	parseMode extraction.ParseMode
	log       zerolog.Logger
}

// NewPipeline constrói o pipeline. validate nil usa o validador permissivo.
func NewPipeline(invoker *Invoker, validate extraction.ImageValidator, parseMode extraction.ParseMode, log zerolog.Logger) *Pipeline {
	if validate == nil {
		validate = extraction.ValidateImage
	}
	return &Pipeline{
		invoker:   invoker,
		validate:  validate,
		parseMode: parseMode,
		log:       log,
	}
}

// Configured indica se o provedor do modelo tem credencial.
func (p *Pipeline) Configured() bool { return p.invoker.Configured() }

// Validate aplica o validador do pipeline sem chamar o modelo.
func (p *Pipeline) Validate(img extraction.Image) error {
	return p.validate(img.MIMEType, img.Size()).Err()
}

// ExtractSingle extrai uma única peça da imagem.
func (p *Pipeline) ExtractSingle(ctx context.Context, img extraction.Image) (extraction.SingleItem, error) {
	raw, repaired, err := p.run(ctx, img, extraction.VariantSingle)
	if err != nil {
		return extraction.SingleItem{}, err
	}
	item := extraction.NormalizeSingle(raw)
	item.Repaired = repaired
	return item, nil
}

// ExtractMulti extrai todas as peças da nota e distribui o frete entre elas.
func (p *Pipeline) ExtractMulti(ctx context.Context, img extraction.Image) (extraction.Result, error) {
	raw, repaired, err := p.run(ctx, img, extraction.VariantMulti)
	if err != nil {
		return extraction.Result{}, err
	}
	res, err := extraction.NormalizeMulti(raw)
	if err != nil {
		p.invoker.metrics.IncStageFailure(extraction.VariantMulti, stageNormalize)
		return extraction.Result{}, err
	}
	res.Repaired = repaired
	return extraction.DistributeShipping(res), nil
}

// run cobre as etapas comuns às duas variantes e devolve o objeto decodificado.
func (p *Pipeline) run(ctx context.Context, img extraction.Image, variant extraction.Variant) (map[string]any, bool, error) {
	log := p.log.With().
		Str("request_id", requestID(ctx)).
		Str("variant", string(variant)).
		Logger()

	if err := p.Validate(img); err != nil {
		p.invoker.metrics.IncStageFailure(variant, stageValidate)
		return nil, false, err
	}

	text, err := p.invoker.Invoke(ctx, img, variant)
	if err != nil {
		p.invoker.metrics.IncStageFailure(variant, stageInvoke)
		log.Warn().Err(err).Msg("extraction_invoke_failed")
		return nil, false, err
	}

	raw, err := extraction.ParseResponse(text, p.parseMode)
	if err != nil {
		p.invoker.metrics.IncStageFailure(variant, stageParse)
		log.Warn().Err(err).Str("parse_mode", p.parseMode.String()).Int("chars", len(text)).Msg("extraction_parse_failed")
		return nil, false, err
	}

	repaired := false
	if err := extraction.CheckShape(variant, raw); err != nil {
		repaired = true
		log.Warn().Err(err).Msg("extraction_shape_repaired")
	}
	return raw, repaired, nil
}
