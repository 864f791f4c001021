package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
	"github.com/jhoicas/oficina-api/internal/infrastructure/resilience"
)

func TestInvoker_UsaPromptEParametrosDaVariante(t *testing.T) {
	model := &fakeModel{replies: []fakeReply{{text: "{}"}}}
	inv := NewInvoker(model, retrying(1), time.Second, nil, zerolog.Nop())

	_, err := inv.Invoke(context.Background(), pngImage, extraction.VariantSingle)
	require.NoError(t, err)
	_, err = inv.Invoke(context.Background(), pngImage, extraction.VariantMulti)
	require.NoError(t, err)

	require.Len(t, model.calls, 2)
	single, multi := model.calls[0], model.calls[1]

	assert.Equal(t, singlePrompt, single.Prompt)
	assert.Equal(t, int32(1024), single.Params.MaxOutputTokens)
	assert.Equal(t, multiPrompt, multi.Prompt)
	assert.Equal(t, int32(2048), multi.Params.MaxOutputTokens)

	for _, c := range model.calls {
		assert.InDelta(t, 0.1, c.Params.Temperature, 1e-6)
		assert.Equal(t, int32(1), c.Params.TopK)
		assert.InDelta(t, 0.8, c.Params.TopP, 1e-6)
		assert.Equal(t, "image/png", c.MIMEType)
		assert.Equal(t, pngImage.Data, c.Image)
	}
}

func TestInvoker_RetentaAteSucesso(t *testing.T) {
	errNet := errors.New("rede indisponível")
	model := &fakeModel{replies: []fakeReply{{err: errNet}, {err: errNet}, {text: "ok"}}}
	inv := NewInvoker(model, retrying(3), time.Second, nil, zerolog.Nop())

	text, err := inv.Invoke(context.Background(), pngImage, extraction.VariantMulti)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, model.callCount())
}

func TestInvoker_EsgotaTentativas(t *testing.T) {
	errNet := errors.New("rede indisponível")
	model := &fakeModel{replies: []fakeReply{{err: errNet}}}
	inv := NewInvoker(model, retrying(3), time.Second, nil, zerolog.Nop())

	_, err := inv.Invoke(context.Background(), pngImage, extraction.VariantSingle)
	assert.ErrorIs(t, err, extraction.ErrExtraction)
	assert.ErrorIs(t, err, errNet)
	assert.Equal(t, 3, model.callCount())
}

func TestInvoker_TentativaUnica(t *testing.T) {
	model := &fakeModel{replies: []fakeReply{{err: errors.New("falhou")}}}
	inv := NewInvoker(model, resilience.NewExecutor(resilience.SingleAttempt(), zerolog.Nop()), time.Second, nil, zerolog.Nop())

	_, err := inv.Invoke(context.Background(), pngImage, extraction.VariantSingle)
	assert.ErrorIs(t, err, extraction.ErrExtraction)
	assert.Equal(t, 1, model.callCount())
}

func TestInvoker_SemCredencialNaoChamaModelo(t *testing.T) {
	model := &fakeModel{noAPIKey: true}
	inv := NewInvoker(model, retrying(3), time.Second, nil, zerolog.Nop())

	_, err := inv.Invoke(context.Background(), pngImage, extraction.VariantSingle)
	assert.ErrorIs(t, err, extraction.ErrConfiguration)
	assert.ErrorIs(t, err, extraction.ErrExtraction)
	assert.Zero(t, model.callCount())
}

func TestInvoker_ErroDeConfiguracaoNaoRetenta(t *testing.T) {
	model := &fakeModel{replies: []fakeReply{{err: extraction.ErrConfiguration}}}
	inv := NewInvoker(model, retrying(3), time.Second, nil, zerolog.Nop())

	_, err := inv.Invoke(context.Background(), pngImage, extraction.VariantSingle)
	assert.ErrorIs(t, err, extraction.ErrConfiguration)
	assert.Equal(t, 1, model.callCount())
}

func TestInvoker_TimeoutPorTentativa(t *testing.T) {
	model := &slowModel{delay: time.Second}
	inv := NewInvoker(model, retrying(1), 20*time.Millisecond, nil, zerolog.Nop())

	start := time.Now()
	_, err := inv.Invoke(context.Background(), pngImage, extraction.VariantSingle)
	assert.ErrorIs(t, err, extraction.ErrExtraction)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

type slowModel struct{ delay time.Duration }

func (s *slowModel) GenerateFromImage(ctx context.Context, _ ports.VisionRequest) (string, error) {
	select {
	case <-time.After(s.delay):
		return "{}", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
func (s *slowModel) Configured() bool { return true }
func (s *slowModel) Provider() string { return "slow" }
