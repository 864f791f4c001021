package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/oficina-api/internal/application/dto"
	"github.com/jhoicas/oficina-api/internal/application/inventory"
)

// InventoryHandler recebe as notas revisadas e consulta o estoque de peças (protegido).
type InventoryHandler struct {
	uc *inventory.StockEntryUseCase
}

// NewInventoryHandler constrói o handler.
func NewInventoryHandler(uc *inventory.StockEntryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de peças
// @Description  Recebe a nota revisada. Peças com aprovado=false são ignoradas; as demais entram no estoque
//               com custo final = preço unitário + frete/quantidade.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "fornecedor_geral, frete_total e pecas"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return respondError(c, fiber.StatusUnauthorized, "Token inválido", "")
	}
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Corpo da requisição inválido", err.Error())
	}
	entry, err := h.uc.RegisterEntry(c.UserContext(), userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockEntryFromEntity(entry))
}

// GetEntry godoc
// @Summary      Obter entrada de peças
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da entrada"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/entries/{id} [get]
func (h *InventoryHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.uc.GetEntry(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.StockEntryFromEntity(entry))
}

// DownloadEntryPDF godoc
// @Summary      Comprovante de entrada em PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID da entrada"
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/entries/{id}/pdf [get]
func (h *InventoryHandler) DownloadEntryPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.DownloadEntryPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// ListParts godoc
// @Summary      Listar peças em estoque
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de itens (padrão 20, máx. 100)"
// @Param        offset  query  int  false  "Deslocamento"
// @Success      200  {object}  dto.PartListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/parts [get]
func (h *InventoryHandler) ListParts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Parâmetros de paginação inválidos", err.Error())
	}
	page.DefaultPage()
	parts, total, err := h.uc.ListParts(c.UserContext(), page)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.PartResponse, 0, len(parts))
	for _, p := range parts {
		items = append(items, dto.PartFromEntity(p))
	}
	return c.JSON(dto.PartListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}
