package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	appextraction "github.com/jhoicas/oficina-api/internal/application/extraction"
	"github.com/jhoicas/oficina-api/internal/application/inventory"
	"github.com/jhoicas/oficina-api/internal/observability/metrics"
)

// requestIDLocal chave padrão do middleware requestid em c.Locals.
const requestIDLocal = "requestid"

// RouterDeps dependências do router.
type RouterDeps struct {
	EndpointPipeline *appextraction.Pipeline
	AnalysisPipeline *appextraction.Pipeline
	Orchestrator     *appextraction.Orchestrator
	StockEntryUC     *inventory.StockEntryUseCase
	Metrics          *metrics.Metrics // nil desativa /metrics
	JWTSecret        string
	JWTIssuer        string
	EntryRoles       []string // vazio = qualquer usuário autenticado registra entradas
	RateLimit        RateLimitConfig
	ServiceName      string
	Log              zerolog.Logger
}

// Router registra as rotas da API. Os middlewares globais (recover, requestid, swagger)
// ficam em cmd/api.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// 405 antes da autenticação: o método errado é recusado mesmo sem token
	for _, path := range []string{"/api/extraction/part", "/api/extraction/invoice", "/api/extraction/analyze"} {
		app.All(path, onlyMethod(fiber.MethodPost))
	}

	// Rotas protegidas (Bearer token do backend hospedado)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Extração por visão; cada chamada custa uma requisição ao provedor
	ext := api.Group("/extraction", RateLimitMiddleware(deps.RateLimit))
	extHandler := NewExtractionHandler(deps.EndpointPipeline, deps.AnalysisPipeline, deps.Orchestrator, deps.Log)
	ext.Post("/part", extHandler.ExtractPart)
	ext.Post("/invoice", extHandler.ExtractInvoice)
	ext.Post("/analyze", extHandler.Analyze)

	// Entrada de peças no estoque
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.StockEntryUC)
	entryHandlers := []fiber.Handler{invHandler.RegisterEntry}
	if len(deps.EntryRoles) > 0 {
		entryHandlers = append([]fiber.Handler{RequireRole(deps.EntryRoles...)}, entryHandlers...)
	}
	inv.Post("/entries", entryHandlers...)
	inv.Get("/entries/:id", invHandler.GetEntry)
	inv.Get("/entries/:id/pdf", invHandler.DownloadEntryPDF)
	inv.Get("/parts", invHandler.ListParts)
}
