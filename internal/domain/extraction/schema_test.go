package extraction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

func TestCheckShape_Single(t *testing.T) {
	ok := map[string]any{
		"nome":        "Tela",
		"preco_custo": json.Number("120.5"),
		"frete":       json.Number("0"),
		"fornecedor":  "Loja X",
		"quantidade":  json.Number("1"),
	}
	assert.NoError(t, extraction.CheckShape(extraction.VariantSingle, ok))

	assert.Error(t, extraction.CheckShape(extraction.VariantSingle, map[string]any{"nome": "Tela"}))
	assert.Error(t, extraction.CheckShape(extraction.VariantSingle, nil))
}

func TestCheckShape_Multi(t *testing.T) {
	ok := map[string]any{
		"fornecedor_geral": "Loja X",
		"frete_total":      json.Number("10"),
		"pecas": []any{
			map[string]any{
				"nome":           "Tela",
				"quantidade":     json.Number("1"),
				"valor_unitario": json.Number("100"),
				"valor_total":    json.Number("100"),
			},
		},
	}
	assert.NoError(t, extraction.CheckShape(extraction.VariantMulti, ok))

	bad := map[string]any{
		"fornecedor_geral": "Loja X",
		"frete_total":      "dez",
		"pecas":            []any{},
	}
	assert.Error(t, extraction.CheckShape(extraction.VariantMulti, bad))
}
