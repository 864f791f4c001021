package dto

import "github.com/jhoicas/oficina-api/internal/domain/extraction"

// PartExtractionResponse resposta de POST /api/extraction/part.
type PartExtractionResponse struct {
	Name      string `json:"nome"`
	CostPrice Money  `json:"preco_custo"`
	Shipping  Money  `json:"frete"`
	Supplier  string `json:"fornecedor"`
	Quantity  int    `json:"quantidade"`
	// Adjusted indica que a resposta do modelo veio fora do formato e foi completada.
	Adjusted bool `json:"ajustado,omitempty"`
}

// InvoiceItemResponse uma peça da nota, com a parcela de frete já distribuída.
type InvoiceItemResponse struct {
	Name      string `json:"nome"`
	Quantity  int    `json:"quantidade"`
	UnitValue Money  `json:"valor_unitario"`
	LineTotal Money  `json:"valor_total"`
	CostPrice Money  `json:"preco_custo"`
	Shipping  Money  `json:"frete"`
	Supplier  string `json:"fornecedor"`
}

// InvoiceExtractionResponse resposta de POST /api/extraction/invoice.
type InvoiceExtractionResponse struct {
	SupplierGeneral string                `json:"fornecedor_geral"`
	TotalShipping   Money                 `json:"frete_total"`
	Items           []InvoiceItemResponse `json:"pecas"`
	Adjusted        bool                  `json:"ajustado,omitempty"`
}

// AnalyzeResponse resposta de POST /api/extraction/analyze.
// Kind é "single", "multi" ou "failed"; apenas o campo correspondente vem preenchido.
type AnalyzeResponse struct {
	Kind         string                     `json:"kind"`
	Item         *PartExtractionResponse    `json:"item,omitempty"`
	Result       *InvoiceExtractionResponse `json:"result,omitempty"`
	Message      string                     `json:"message,omitempty"`
	FromFallback bool                       `json:"from_fallback,omitempty"`
}

func PartFromItem(item extraction.SingleItem) PartExtractionResponse {
	return PartExtractionResponse{
		Name:      item.Name,
		CostPrice: NewMoney(item.CostPrice),
		Shipping:  NewMoney(item.Shipping),
		Supplier:  item.Supplier,
		Quantity:  item.Quantity,
		Adjusted:  item.Repaired,
	}
}

func InvoiceFromResult(r extraction.Result) InvoiceExtractionResponse {
	items := make([]InvoiceItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, InvoiceItemResponse{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitValue: NewMoney(it.UnitPrice),
			LineTotal: NewMoney(it.LineTotal),
			CostPrice: NewMoney(it.CostPrice()),
			Shipping:  NewMoney(it.ShippingShare),
			Supplier:  it.Supplier,
		})
	}
	return InvoiceExtractionResponse{
		SupplierGeneral: r.SupplierGeneral,
		TotalShipping:   NewMoney(r.TotalShipping),
		Items:           items,
		Adjusted:        r.Repaired,
	}
}

// AnalyzeFromOutcome converte o resultado da análise no corpo da resposta.
func AnalyzeFromOutcome(o extraction.Outcome) AnalyzeResponse {
	resp := AnalyzeResponse{Kind: string(o.Kind())}
	switch v := o.(type) {
	case extraction.SingleOutcome:
		item := PartFromItem(v.Item)
		resp.Item = &item
		resp.FromFallback = v.FromFallback
	case extraction.MultiOutcome:
		res := InvoiceFromResult(v.Result)
		resp.Result = &res
	case extraction.FailedOutcome:
		resp.Message = v.Message
	}
	return resp
}
