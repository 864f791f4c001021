package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

// Verificar em tempo de compilação que AnthropicService implementa VisionModel.
var _ ports.VisionModel = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	// DefaultAnthropicModel é usado quando ANTHROPIC_MODEL não está definido.
	DefaultAnthropicModel = "claude-3-5-haiku-20241022"
)

// AnthropicService adaptador de VisionModel sobre a Messages API da Anthropic (REST).
type AnthropicService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService constrói o adaptador. Com apiKey vazio as chamadas devolvem ErrConfiguration.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicService{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: anthropicMessagesURL,
		httpClient: &http.Client{
			// Timeout de rede; cada tentativa ainda tem o seu context.WithTimeout.
			Timeout: 60 * time.Second,
		},
	}
}

func (s *AnthropicService) Configured() bool { return s.apiKey != "" }

func (s *AnthropicService) Provider() string { return "anthropic" }

// ── Estruturas do protocolo Messages API ──────────────────────────────────────

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int32              `json:"max_tokens"`
	Temperature *float32           `json:"temperature,omitempty"`
	TopK        *int32             `json:"top_k,omitempty"`
	TopP        *float32           `json:"top_p,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementação do porto ────────────────────────────────────────────────────

// GenerateFromImage envia a imagem em base64 e o prompt numa única mensagem de usuário.
func (s *AnthropicService) GenerateFromImage(ctx context.Context, req ports.VisionRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: ANTHROPIC_API_KEY não configurada", extraction.ErrConfiguration)
	}

	temperature := req.Params.Temperature
	payload := anthropicRequest{
		Model:       s.model,
		MaxTokens:   req.Params.MaxOutputTokens,
		Temperature: &temperature,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicBlock{
				{
					Type: "image",
					Source: &anthropicSource{
						Type:      "base64",
						MediaType: normalizeMIME(req.MIMEType),
						Data:      base64.StdEncoding.EncodeToString(req.Image),
					},
				},
				{Type: "text", Text: req.Prompt},
			},
		}},
	}
	if req.Params.TopK > 0 {
		topK := req.Params.TopK
		payload.TopK = &topK
	}
	if req.Params.TopP > 0 {
		topP := req.Params.TopP
		payload.TopP = &topP
	}
	if payload.MaxTokens <= 0 {
		payload.MaxTokens = 1024
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: criar HTTP request: %w", err)
	}
	httpReq.Header.Set("x-api-key", s.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout ou cancelamento: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: chamada HTTP falhou: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic erro (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d", resp.StatusCode)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: desserializar resposta Anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range anthResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("AI: Claude devolveu resposta vazia")
	}
	return sb.String(), nil
}
