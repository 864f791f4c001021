package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

func twoItems() extraction.Result {
	return extraction.Result{
		SupplierGeneral: "Loja X",
		TotalShipping:   decimal.NewFromInt(10),
		Items: []extraction.LineItem{
			{Name: "Tela", Quantity: 1, UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(100), ShippingShare: decimal.NewFromInt(5), Supplier: "Loja X"},
			{Name: "Bateria", Quantity: 1, UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(100), ShippingShare: decimal.NewFromInt(5), Supplier: "Loja X"},
		},
	}
}

func TestAnalyze_VariasPecas(t *testing.T) {
	ex := &fakeExtractor{multi: twoItems()}
	out := NewOrchestrator(ex, nil, zerolog.Nop()).Analyze(context.Background(), pngImage)

	multi, ok := out.(extraction.MultiOutcome)
	require.True(t, ok, "esperado MultiOutcome, obtido %T", out)
	assert.Len(t, multi.Result.Items, 2)
	assert.Zero(t, ex.singleCalls)
}

func TestAnalyze_UmaPecaViraSingle(t *testing.T) {
	res := twoItems()
	res.Items = res.Items[:1]
	ex := &fakeExtractor{multi: res}

	out := NewOrchestrator(ex, nil, zerolog.Nop()).Analyze(context.Background(), pngImage)

	single, ok := out.(extraction.SingleOutcome)
	require.True(t, ok, "esperado SingleOutcome, obtido %T", out)
	assert.False(t, single.FromFallback)
	assert.Equal(t, "Tela", single.Item.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(single.Item.Shipping))
	assert.Zero(t, ex.singleCalls)
}

func TestAnalyze_FallbackChamaSingleUmaVez(t *testing.T) {
	ex := &fakeExtractor{
		multiErr: extraction.ErrNoJSONFound,
		single:   extraction.SingleItem{Name: "Tela", Quantity: 1, Supplier: "Loja X"},
	}

	out := NewOrchestrator(ex, nil, zerolog.Nop()).Analyze(context.Background(), pngImage)

	single, ok := out.(extraction.SingleOutcome)
	require.True(t, ok, "esperado SingleOutcome, obtido %T", out)
	assert.True(t, single.FromFallback)
	assert.Equal(t, 1, ex.multiCalls)
	assert.Equal(t, 1, ex.singleCalls)
}

func TestAnalyze_DuplaFalha(t *testing.T) {
	errMulti := errors.New("multi falhou")
	ex := &fakeExtractor{multiErr: errMulti, singleErr: extraction.ErrMalformedJSON}

	out := NewOrchestrator(ex, nil, zerolog.Nop()).Analyze(context.Background(), pngImage)

	failed, ok := out.(extraction.FailedOutcome)
	require.True(t, ok, "esperado FailedOutcome, obtido %T", out)
	assert.Equal(t, extraction.ManualEntryMessage, failed.Message)
	assert.ErrorIs(t, failed.Cause, errMulti)
	assert.ErrorIs(t, failed.Cause, extraction.ErrMalformedJSON)
	assert.Equal(t, 1, ex.singleCalls)
}

func TestAnalyze_PipelineReal_TresTentativasEFallback(t *testing.T) {
	model := &fakeModel{replies: []fakeReply{
		{err: errors.New("timeout")},
		{err: errors.New("timeout")},
		{err: errors.New("timeout")},
		{text: `{"nome": "Tela", "preco_custo": 80, "frete": 0, "fornecedor": "Loja X", "quantidade": 1}`},
	}}
	p := newTestPipeline(model, 3, nil)

	out := NewOrchestrator(p, nil, zerolog.Nop()).Analyze(context.Background(), pngImage)

	single, ok := out.(extraction.SingleOutcome)
	require.True(t, ok, "esperado SingleOutcome, obtido %T", out)
	assert.True(t, single.FromFallback)
	assert.Equal(t, "Tela", single.Item.Name)
	assert.Equal(t, 4, model.callCount(), "3 tentativas multi + 1 single")
	assert.Equal(t, multiPrompt, model.calls[0].Prompt)
	assert.Equal(t, singlePrompt, model.calls[3].Prompt)
}
