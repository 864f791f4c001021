package extraction

import "github.com/shopspring/decimal"

// AllocateShipping reparte o frete total entre as linhas proporcionalmente ao valor de cada uma:
//
//	share_i = round(totalShipping × lineTotal_i / Σ lineTotal, 2)
//
// O arredondamento é feito por linha (meio para cima); a soma pode diferir do total em
// até n × 0,005 e não é corrigida. Se a soma das linhas é zero, todas as parcelas são zero.
// Valores negativos são tratados como zero.
func AllocateShipping(totalShipping decimal.Decimal, lineTotals []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(lineTotals))
	for i := range shares {
		shares[i] = decimal.Zero
	}

	grandTotal := decimal.Zero
	for _, t := range lineTotals {
		grandTotal = grandTotal.Add(nonNegative(t))
	}
	if !grandTotal.IsPositive() {
		return shares
	}

	total := nonNegative(totalShipping)
	for i, t := range lineTotals {
		shares[i] = total.Mul(nonNegative(t)).Div(grandTotal).Round(2)
	}
	return shares
}

// DistributeShipping devolve uma cópia do resultado com ShippingShare preenchido em cada peça.
func DistributeShipping(r Result) Result {
	lineTotals := make([]decimal.Decimal, len(r.Items))
	for i, item := range r.Items {
		lineTotals[i] = item.LineTotal
	}
	shares := AllocateShipping(r.TotalShipping, lineTotals)

	items := make([]LineItem, len(r.Items))
	for i, item := range r.Items {
		item.ShippingShare = shares[i]
		items[i] = item
	}
	r.Items = items
	return r
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
