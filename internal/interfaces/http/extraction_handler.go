package http

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/oficina-api/internal/application/dto"
	appextraction "github.com/jhoicas/oficina-api/internal/application/extraction"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// imageField nome do campo multipart com a foto.
const imageField = "image"

// ExtractionHandler expõe o pipeline de extração de notas e peças.
// endpoint atende /part e /invoice (validação estrita, uma tentativa);
// analysis e orchestrator atendem /analyze (validação permissiva, com retentativas).
type ExtractionHandler struct {
	endpoint     *appextraction.Pipeline
	analysis     *appextraction.Pipeline
	orchestrator *appextraction.Orchestrator
	log          zerolog.Logger
}

// NewExtractionHandler constrói o handler.
func NewExtractionHandler(endpoint, analysis *appextraction.Pipeline, orchestrator *appextraction.Orchestrator, log zerolog.Logger) *ExtractionHandler {
	return &ExtractionHandler{endpoint: endpoint, analysis: analysis, orchestrator: orchestrator, log: log}
}

// ExtractPart godoc
// @Summary      Extrair dados de uma peça
// @Description  Recebe a foto da peça ou etiqueta e devolve nome, custo, frete, fornecedor e quantidade.
//               Aceita jpeg, png e webp até 10 MiB.
// @Tags         extraction
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        image  formData  file  true  "Foto da peça"
// @Success      200  {object}  dto.PartExtractionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      405  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/extraction/part [post]
func (h *ExtractionHandler) ExtractPart(c *fiber.Ctx) error {
	img, ok, err := h.readImage(c, h.endpoint)
	if !ok {
		return err
	}
	item, err := h.endpoint.ExtractSingle(h.requestContext(c), img)
	if err != nil {
		return respondExtractionError(c, err)
	}
	return c.JSON(dto.PartFromItem(item))
}

// ExtractInvoice godoc
// @Summary      Extrair peças de uma nota fiscal
// @Description  Lê todas as linhas da nota e distribui o frete total proporcionalmente ao valor de cada linha.
// @Tags         extraction
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        image  formData  file  true  "Foto da nota"
// @Success      200  {object}  dto.InvoiceExtractionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      405  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/extraction/invoice [post]
func (h *ExtractionHandler) ExtractInvoice(c *fiber.Ctx) error {
	img, ok, err := h.readImage(c, h.endpoint)
	if !ok {
		return err
	}
	res, err := h.endpoint.ExtractMulti(h.requestContext(c), img)
	if err != nil {
		return respondExtractionError(c, err)
	}
	return c.JSON(dto.InvoiceFromResult(res))
}

// Analyze godoc
// @Summary      Analisar imagem (nota ou peça)
// @Description  Tenta ler a imagem como nota com várias peças; com uma peça só, ou se a leitura falhar,
//               cai para peça única. Depois da validação da imagem responde sempre 200:
//               kind=multi (result), kind=single (item) ou kind=failed (message, preencher manualmente).
// @Tags         extraction
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        image  formData  file  true  "Foto da nota ou da peça"
// @Success      200  {object}  dto.AnalyzeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/extraction/analyze [post]
func (h *ExtractionHandler) Analyze(c *fiber.Ctx) error {
	img, ok, err := h.readImage(c, h.analysis)
	if !ok {
		return err
	}
	outcome := h.orchestrator.Analyze(h.requestContext(c), img)
	return c.JSON(dto.AnalyzeFromOutcome(outcome))
}

// readImage lê o campo multipart, aplica o validador do pipeline e confere a credencial do modelo.
// Com ok=false a resposta de erro já foi escrita e err é o retorno do handler.
func (h *ExtractionHandler) readImage(c *fiber.Ctx, p *appextraction.Pipeline) (extraction.Image, bool, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		return extraction.Image{}, false, respondError(c, fiber.StatusBadRequest, msgNoImage, "campo multipart '"+imageField+"' obrigatório")
	}

	f, err := fh.Open()
	if err != nil {
		return extraction.Image{}, false, respondError(c, fiber.StatusBadRequest, msgNoImage, "arquivo ilegível")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return extraction.Image{}, false, respondError(c, fiber.StatusBadRequest, msgNoImage, "arquivo ilegível")
	}
	img := extraction.Image{Data: data, MIMEType: fh.Header.Get(fiber.HeaderContentType)}
	if err := p.Validate(img); err != nil {
		return extraction.Image{}, false, respondExtractionError(c, err)
	}

	if !p.Configured() {
		h.log.Error().Msg("extraction_provider_not_configured")
		return extraction.Image{}, false, respondExtractionError(c, extraction.ErrConfiguration)
	}
	return img, true, nil
}

func (h *ExtractionHandler) requestContext(c *fiber.Ctx) context.Context {
	id, _ := c.Locals(requestIDLocal).(string)
	return appextraction.WithRequestID(c.UserContext(), id)
}
