package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

func TestResult_Flatten(t *testing.T) {
	r := extraction.Result{
		SupplierGeneral: "Loja X",
		TotalShipping:   dec("12"),
		Items: []extraction.LineItem{
			{Name: "Tela", Quantity: 2, UnitPrice: dec("80"), LineTotal: dec("160"), ShippingShare: dec("12"), Supplier: "Loja X"},
		},
	}

	item := r.Flatten()
	assert.Equal(t, "Tela", item.Name)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, dec("80").Equal(item.CostPrice))
	assert.True(t, dec("12").Equal(item.Shipping), "frete da peça é o frete total da nota")
	assert.Equal(t, "Loja X", item.Supplier)
}

func TestOutcome_Kind(t *testing.T) {
	assert.Equal(t, extraction.KindSingle, extraction.SingleOutcome{}.Kind())
	assert.Equal(t, extraction.KindMulti, extraction.MultiOutcome{}.Kind())
	assert.Equal(t, extraction.KindFailed, extraction.FailedOutcome{}.Kind())
}
