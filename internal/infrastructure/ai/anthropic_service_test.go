package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

func TestAnthropicService_EnviaImagemEPrompt(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chave", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"nome\":\"Tela\"}"}]}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("chave", "")
	s.baseURL = srv.URL

	text, err := s.GenerateFromImage(context.Background(), ports.VisionRequest{
		Prompt:   "extraia",
		Image:    []byte{0xff, 0xd8},
		MIMEType: "image/jpg",
		Params:   ports.GenerationParams{Temperature: 0.1, TopK: 1, TopP: 0.8, MaxOutputTokens: 1024},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"nome":"Tela"}`, text)

	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.1, *got.Temperature, 1e-6)
	require.NotNil(t, got.TopK)
	assert.Equal(t, int32(1), *got.TopK)
	require.NotNil(t, got.TopP)
	assert.InDelta(t, 0.8, *got.TopP, 1e-6)

	assert.Equal(t, DefaultAnthropicModel, got.Model)
	assert.Equal(t, int32(1024), got.MaxTokens)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)

	img := got.Messages[0].Content[0]
	assert.Equal(t, "image", img.Type)
	require.NotNil(t, img.Source)
	assert.Equal(t, "image/jpeg", img.Source.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8}), img.Source.Data)
	assert.Equal(t, "extraia", got.Messages[0].Content[1].Text)
}

func TestAnthropicService_ErroDaAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"calma"}}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("chave", "modelo")
	s.baseURL = srv.URL

	_, err := s.GenerateFromImage(context.Background(), ports.VisionRequest{Prompt: "x", Image: []byte{1}, MIMEType: "image/png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicService_SemChave(t *testing.T) {
	s := NewAnthropicService("", "")
	assert.False(t, s.Configured())

	_, err := s.GenerateFromImage(context.Background(), ports.VisionRequest{})
	assert.True(t, errors.Is(err, extraction.ErrConfiguration))
}

func TestGeminiService_SemChave(t *testing.T) {
	s, err := NewGeminiService(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, s.Configured())
	assert.Equal(t, "gemini", s.Provider())

	_, err = s.GenerateFromImage(context.Background(), ports.VisionRequest{})
	assert.True(t, errors.Is(err, extraction.ErrConfiguration))
	assert.NoError(t, s.Close())
}

func TestGeminiMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", normalizeMIME("image/jpg"))
	assert.Equal(t, "image/png", normalizeMIME("IMAGE/PNG; q=1"))
}
