package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/oficina-api/internal/domain/entity"
)

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":       "R$ 0,00",
		"5":       "R$ 5,00",
		"1234.5":  "R$ 1.234,50",
		"1000000": "R$ 1.000.000,00",
		"-12.345": "-R$ 12,35",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatBRL(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateEntryPDF(t *testing.T) {
	entry := &entity.StockEntry{
		ID:            "0f8fad5b-d9cb-469f-a165-70867728950e",
		Supplier:      "Loja X",
		TotalShipping: decimal.NewFromInt(10),
		CreatedBy:     "user-1",
		CreatedAt:     time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
		Items: []entity.StockEntryItem{
			{Name: "Tela iPhone 11", Quantity: 1, UnitPrice: decimal.NewFromInt(100), ShippingShare: decimal.NewFromInt(5), LandedUnitCost: decimal.NewFromInt(105)},
			{Name: "Bateria iPhone 11", Quantity: 2, UnitPrice: decimal.NewFromInt(50), ShippingShare: decimal.NewFromInt(5), LandedUnitCost: decimal.RequireFromString("52.5")},
		},
	}

	out, err := NewMarotoPDFGenerator("Oficina Teste").GenerateEntryPDF(context.Background(), entry)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
