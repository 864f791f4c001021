package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry é uma entrada de estoque confirmada a partir de uma nota de compra revisada.
type StockEntry struct {
	ID            string
	Supplier      string
	TotalShipping decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
	Items         []StockEntryItem
}

// StockEntryItem linha da entrada. LandedUnitCost = UnitPrice + ShippingShare / Quantity.
type StockEntryItem struct {
	ID             string
	EntryID        string
	PartID         string
	Name           string
	Quantity       int
	UnitPrice      decimal.Decimal
	ShippingShare  decimal.Decimal
	LandedUnitCost decimal.Decimal
}

// Total devolve o valor da entrada (mercadoria + frete).
func (e *StockEntry) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range e.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))).Add(it.ShippingShare)
	}
	return total
}
