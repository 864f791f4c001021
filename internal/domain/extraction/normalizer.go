package extraction

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Chaves do JSON pedido ao modelo nos dois prompts.
const (
	keyName            = "nome"
	keyCostPrice       = "preco_custo"
	keyShipping        = "frete"
	keySupplier        = "fornecedor"
	keyQuantity        = "quantidade"
	keySupplierGeneral = "fornecedor_geral"
	keyTotalShipping   = "frete_total"
	keyItems           = "pecas"
	keyUnitValue       = "valor_unitario"
	keyLineTotal       = "valor_total"
)

// NormalizeSingle converte a resposta de peça única em um SingleItem completo.
// Campos ausentes, vazios ou de tipo errado recebem o valor padrão; chaves desconhecidas são ignoradas.
func NormalizeSingle(raw map[string]any) SingleItem {
	return SingleItem{
		Name:      text(raw[keyName], DefaultProductName),
		CostPrice: money(raw[keyCostPrice]),
		Shipping:  money(raw[keyShipping]),
		Supplier:  text(raw[keySupplier], DefaultSupplier),
		Quantity:  quantity(raw[keyQuantity]),
	}
}

// NormalizeMulti converte a resposta de nota com várias peças.
// Se "pecas" não for uma lista não vazia devolve ErrEmptyExtraction.
// O fornecedor de cada peça é o fornecedor geral da nota. ShippingShare fica zerado
// até a distribuição do frete (DistributeShipping).
func NormalizeMulti(raw map[string]any) (Result, error) {
	list, ok := raw[keyItems].([]any)
	if !ok || len(list) == 0 {
		return Result{}, ErrEmptyExtraction
	}

	supplier := text(raw[keySupplierGeneral], DefaultSupplier)
	items := make([]LineItem, 0, len(list))
	for _, entry := range list {
		// Entradas que não são objeto viram uma peça com todos os padrões.
		obj, _ := entry.(map[string]any)
		items = append(items, LineItem{
			Name:          text(obj[keyName], DefaultProductName),
			Quantity:      quantity(obj[keyQuantity]),
			UnitPrice:     money(obj[keyUnitValue]),
			LineTotal:     money(obj[keyLineTotal]),
			ShippingShare: decimal.Zero,
			Supplier:      supplier,
		})
	}

	return Result{
		SupplierGeneral: supplier,
		TotalShipping:   money(raw[keyTotalShipping]),
		Items:           items,
	}, nil
}

// ── coerção ──────────────────────────────────────────────────────────────────

// Magnitudes aceitas em número: até 10^12 em módulo; abaixo de 10^-12 vale zero.
const (
	maxMagnitude = 12
	minMagnitude = -12
)

var maxNumber = decimal.New(1, maxMagnitude)

// number tenta obter um decimal a partir de json.Number, float64, inteiros ou string numérica.
// Valores fora da faixa contam como não numéricos.
func number(v any) (decimal.Decimal, bool) {
	d, ok := parseNumber(v)
	if !ok {
		return decimal.Zero, false
	}
	return bounded(d)
}

func parseNumber(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// bounded decide pela ordem de grandeza (dígitos do coeficiente + expoente) antes de
// qualquer comparação, que reescalaria o coeficiente.
func bounded(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsZero() {
		return decimal.Zero, true
	}
	magnitude := int64(d.NumDigits()) + int64(d.Exponent())
	if magnitude > maxMagnitude+1 {
		return decimal.Zero, false
	}
	if magnitude < minMagnitude {
		return decimal.Zero, true
	}
	if d.Exponent() < minMagnitude {
		d = d.Round(-minMagnitude)
	}
	if d.Abs().GreaterThan(maxNumber) {
		return decimal.Zero, false
	}
	return d, true
}

// money: valores monetários ausentes, inválidos ou negativos valem 0.
func money(v any) decimal.Decimal {
	d, ok := number(v)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// quantity: inteiro ≥ 1 (parte inteira do número); qualquer outra coisa vale 1.
func quantity(v any) int {
	d, ok := number(v)
	if !ok {
		return 1
	}
	q := d.IntPart()
	if q < 1 {
		return 1
	}
	return int(q)
}

// text: string sem espaços nas pontas e em NFC; vazia ou de outro tipo vale def.
func text(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return def
	}
	return s
}
