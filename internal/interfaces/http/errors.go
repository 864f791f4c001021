package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/oficina-api/internal/application/dto"
	"github.com/jhoicas/oficina-api/internal/domain"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// Mensagens exibidas ao usuário.
const (
	msgNoImage        = "Nenhuma imagem enviada"
	msgInvalidImage   = "Imagem inválida"
	msgNotConfigured  = "Serviço de extração não configurado"
	msgUnreadable     = "Não foi possível ler os dados da imagem"
	msgNoItems        = "Nenhuma peça identificada na imagem"
	msgExtractionFail = "Erro ao processar a imagem"
	msgInternal       = "Erro interno do servidor"
)

func respondError(c *fiber.Ctx, status int, msg, details string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Details: details})
}

// respondExtractionError traduz os erros do pipeline de extração para o contrato HTTP.
//
//	imagem inválida             → 400
//	sem JSON / JSON malformado  → 422
//	nenhuma peça                → 422
//	configuração ausente        → 500
//	falha do modelo / outros    → 500
func respondExtractionError(c *fiber.Ctx, err error) error {
	var verr *extraction.ValidationError
	switch {
	case errors.As(err, &verr):
		return respondError(c, fiber.StatusBadRequest, msgInvalidImage, verr.Reason)
	case errors.Is(err, extraction.ErrEmptyExtraction):
		return respondError(c, fiber.StatusUnprocessableEntity, msgNoItems, err.Error())
	case extraction.IsParseFailure(err):
		return respondError(c, fiber.StatusUnprocessableEntity, msgUnreadable, err.Error())
	case errors.Is(err, extraction.ErrConfiguration):
		return respondError(c, fiber.StatusInternalServerError, msgNotConfigured, "")
	case errors.Is(err, extraction.ErrExtraction):
		return respondError(c, fiber.StatusInternalServerError, msgExtractionFail, err.Error())
	default:
		return respondError(c, fiber.StatusInternalServerError, msgInternal, err.Error())
	}
}

// respondDomainError mapeia os erros genéricos do domínio.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return respondError(c, fiber.StatusBadRequest, "Dados inválidos", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, "Registro não encontrado", "")
	case errors.Is(err, domain.ErrDuplicate):
		return respondError(c, fiber.StatusConflict, "Registro duplicado", "")
	case errors.Is(err, domain.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, "Acesso negado", "")
	default:
		return respondError(c, fiber.StatusInternalServerError, msgInternal, err.Error())
	}
}

// onlyMethod deixa passar o método informado e responde 405 aos demais.
func onlyMethod(allowed string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == allowed {
			return c.Next()
		}
		c.Set(fiber.HeaderAllow, allowed)
		return respondError(c, fiber.StatusMethodNotAllowed, "Método não permitido", "use "+allowed)
	}
}
