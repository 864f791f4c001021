package inventory

import "github.com/shopspring/decimal"

// CostCalculator aplica o custo médio ponderado (serviço de domínio).
// NovoCusto = ((EstoqueAtual * CustoAtual) + (QtdEntrada * CustoEntrada)) / (EstoqueAtual + QtdEntrada)
func CostCalculator(stockActual, costActual, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(qtyIn)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costActual).Add(qtyIn.Mul(costIn))
	return num.Div(sum).Round(4)
}

// LandedUnitCost custo unitário de chegada: preço unitário mais a parcela de frete por unidade.
func LandedUnitCost(unitPrice, shippingShare decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < 1 {
		quantity = 1
	}
	return unitPrice.Add(shippingShare.Div(decimal.NewFromInt(int64(quantity)))).Round(4)
}
