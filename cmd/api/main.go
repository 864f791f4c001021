package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	appextraction "github.com/jhoicas/oficina-api/internal/application/extraction"
	"github.com/jhoicas/oficina-api/internal/application/inventory"
	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
	infraai "github.com/jhoicas/oficina-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/oficina-api/internal/infrastructure/pdf"
	"github.com/jhoicas/oficina-api/internal/infrastructure/postgres"
	"github.com/jhoicas/oficina-api/internal/infrastructure/resilience"
	httpRouter "github.com/jhoicas/oficina-api/internal/interfaces/http"
	"github.com/jhoicas/oficina-api/internal/observability/metrics"
	"github.com/jhoicas/oficina-api/pkg/config"
	"github.com/jhoicas/oficina-api/pkg/logger"
)

// bodyLimit acima do limite da imagem, para o validador responder 400 em vez do 413 do fiber.
const bodyLimit = extraction.MaxImageBytes + 1<<20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("ai_provider", cfg.AI.Provider).
		Bool("ai_configured", cfg.AI.APIKeyConfigured()).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("criar schema")
	}

	// Modelo de visão: sem api key o serviço sobe e as rotas de extração respondem 500.
	model, closeModel := newVisionModel(ctx, cfg.AI, log)
	defer closeModel()

	m := metrics.New(cfg.App.Name)
	pipelineLog := log.Component("pipeline")
	parseMode := extraction.ParseModeFromString(cfg.AI.JSONParseMode)
	attemptTimeout := time.Duration(cfg.AI.AttemptTimeoutSeconds) * time.Second

	// Endpoints /part e /invoice: validação estrita e uma única tentativa.
	endpointInvoker := appextraction.NewInvoker(model,
		resilience.NewExecutor(resilience.SingleAttempt(), pipelineLog),
		attemptTimeout, m, pipelineLog)
	endpointPipeline := appextraction.NewPipeline(endpointInvoker, extraction.ValidateImageStrict, parseMode, pipelineLog)

	// Fluxo /analyze: validação permissiva, retentativas lineares e breaker opcional.
	retryCfg := resilience.DefaultConfig()
	retryCfg.MaxAttempts = cfg.AI.RetryAttempts
	retryCfg.BaseDelay = time.Duration(cfg.AI.RetryBaseDelayMS) * time.Millisecond
	retryCfg.BreakerEnabled = cfg.AI.BreakerEnabled
	analysisInvoker := appextraction.NewInvoker(model,
		resilience.NewExecutor(retryCfg, pipelineLog),
		attemptTimeout, m, pipelineLog)
	analysisPipeline := appextraction.NewPipeline(analysisInvoker, extraction.ValidateImage, parseMode, pipelineLog)
	orchestrator := appextraction.NewOrchestrator(analysisPipeline, m, pipelineLog)

	// Entrada de peças no estoque
	stockEntryUC := inventory.NewStockEntryUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewPartRepository(pool),
		postgres.NewStockEntryRepository(pool),
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: attemptTimeout*time.Duration(cfg.AI.RetryAttempts*2) + 30*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(m.Middleware())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Oficina API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		EndpointPipeline: endpointPipeline,
		AnalysisPipeline: analysisPipeline,
		Orchestrator:     orchestrator,
		StockEntryUC:     stockEntryUC,
		Metrics:          m,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
		EntryRoles:       cfg.JWT.EntryRoles,
		RateLimit: httpRouter.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		ServiceName: cfg.App.Name,
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}

// newVisionModel escolhe o adaptador pelo AI_PROVIDER.
func newVisionModel(ctx context.Context, cfg config.AIConfig, log *logger.Logger) (ports.VisionModel, func()) {
	switch cfg.Provider {
	case "anthropic":
		return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel), func() {}
	default:
		svc, err := infraai.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Gemini")
		}
		return svc, func() { _ = svc.Close() }
	}
}
