package ports

import "context"

// GenerationParams parâmetros de geração repassados ao modelo.
type GenerationParams struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

// VisionRequest é uma chamada multimodal: uma imagem e um prompt de texto.
type VisionRequest struct {
	Prompt   string
	Image    []byte
	MIMEType string
	Params   GenerationParams
}

// VisionModel é o porto de saída para modelos de visão (Gemini, Anthropic, fakes em teste).
// A aplicação só conhece este contrato; o texto devolvido é livre e quem interpreta é o parser.
type VisionModel interface {
	// GenerateFromImage envia a imagem e o prompt e devolve o texto da resposta.
	// O contexto deve carregar o timeout da tentativa.
	GenerateFromImage(ctx context.Context, req VisionRequest) (string, error)
	// Configured indica se há credencial para chamar o provedor.
	Configured() bool
	// Provider identifica o adaptador em logs e métricas.
	Provider() string
}
