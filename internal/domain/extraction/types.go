package extraction

import "github.com/shopspring/decimal"

// Valores usados quando o modelo não devolve o campo.
const (
	DefaultProductName = "Produto não identificado"
	DefaultSupplier    = "Não identificado"
)

// Variant seleciona a granularidade da extração (e o prompt enviado ao modelo).
type Variant string

const (
	VariantSingle Variant = "single"
	VariantMulti  Variant = "multi"
)

// Image é a imagem enviada pelo usuário, já lida em memória.
type Image struct {
	Data     []byte
	MIMEType string
}

// Size devolve o tamanho da imagem em bytes.
func (i Image) Size() int64 { return int64(len(i.Data)) }

// LineItem é uma linha reconhecida em uma nota fiscal de compra de peças.
// LineTotal é o valor informado no documento e não é recalculado.
type LineItem struct {
	Name          string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	ShippingShare decimal.Decimal
	Supplier      string
}

// CostPrice é o mesmo valor de UnitPrice, com o nome usado pelo cadastro de peças.
func (i LineItem) CostPrice() decimal.Decimal { return i.UnitPrice }

// Result é a extração de uma nota com várias peças.
// Items nunca é vazio: uma nota sem peças é ErrEmptyExtraction.
type Result struct {
	SupplierGeneral string
	TotalShipping   decimal.Decimal
	Items           []LineItem
	// Repaired indica que a resposta do modelo não seguia o formato esperado
	// e foi completada pelo normalizador.
	Repaired bool
}

// SingleItem é a extração de uma única peça.
type SingleItem struct {
	Name      string
	CostPrice decimal.Decimal
	Shipping  decimal.Decimal
	Supplier  string
	Quantity  int
	Repaired  bool
}

// Flatten converte uma nota com exatamente uma peça no formato de peça única.
// O frete da peça passa a ser o frete total da nota.
func (r Result) Flatten() SingleItem {
	if len(r.Items) == 0 {
		return SingleItem{
			Name:     DefaultProductName,
			Supplier: r.SupplierGeneral,
			Quantity: 1,
			Shipping: r.TotalShipping,
			Repaired: r.Repaired,
		}
	}
	item := r.Items[0]
	return SingleItem{
		Name:      item.Name,
		CostPrice: item.UnitPrice,
		Shipping:  r.TotalShipping,
		Supplier:  item.Supplier,
		Quantity:  item.Quantity,
		Repaired:  r.Repaired,
	}
}
