package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// Verificar em tempo de compilação que GeminiService implementa VisionModel.
var _ ports.VisionModel = (*GeminiService)(nil)

// DefaultGeminiModel é usado quando GEMINI_MODEL não está definido.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiService adaptador de VisionModel sobre o SDK generative-ai-go.
// Sem api key o cliente não é criado e toda chamada devolve ErrConfiguration.
type GeminiService struct {
	client   *genai.Client
	model    string
	generate generateFunc
}

// generateFunc executa a chamada ao modelo; substituída nos testes.
type generateFunc func(ctx context.Context, cfg genai.GenerationConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error)

// NewGeminiService cria o cliente. Com apiKey vazio devolve um serviço não configurado, sem erro.
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	s := &GeminiService{model: model}
	if strings.TrimSpace(apiKey) == "" {
		return s, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("AI: criar cliente Gemini: %w", err)
	}
	s.client = client
	s.generate = s.callModel
	return s, nil
}

func (s *GeminiService) callModel(ctx context.Context, cfg genai.GenerationConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	model := s.client.GenerativeModel(s.model)
	model.GenerationConfig = cfg
	return model.GenerateContent(ctx, parts...)
}

func (s *GeminiService) Configured() bool { return s.generate != nil }

func (s *GeminiService) Provider() string { return "gemini" }

// Close libera as conexões do cliente.
func (s *GeminiService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// GenerateFromImage envia a imagem como Blob seguida do prompt e concatena as partes de texto da resposta.
func (s *GeminiService) GenerateFromImage(ctx context.Context, req ports.VisionRequest) (string, error) {
	if s.generate == nil {
		return "", fmt.Errorf("%w: GEMINI_API_KEY não configurada", extraction.ErrConfiguration)
	}

	resp, err := s.generate(ctx, generationConfig(req.Params),
		genai.Blob{MIMEType: normalizeMIME(req.MIMEType), Data: req.Image},
		genai.Text(req.Prompt),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("AI: timeout ou cancelamento: %w", errors.Join(ctxErr, err))
		}
		return "", fmt.Errorf("AI: Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("AI: Gemini devolveu resposta vazia")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("AI: Gemini sem texto na resposta (finish reason: %v)", resp.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}

func generationConfig(p ports.GenerationParams) genai.GenerationConfig {
	var cfg genai.GenerationConfig
	cfg.SetTemperature(p.Temperature)
	if p.TopK > 0 {
		cfg.SetTopK(p.TopK)
	}
	if p.TopP > 0 {
		cfg.SetTopP(p.TopP)
	}
	if p.MaxOutputTokens > 0 {
		cfg.SetMaxOutputTokens(p.MaxOutputTokens)
	}
	return cfg
}

// normalizeMIME remove parâmetros e ajusta apelidos que as APIs não aceitam.
func normalizeMIME(mime string) string {
	m := strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	if m == "image/jpg" {
		return "image/jpeg"
	}
	return m
}
