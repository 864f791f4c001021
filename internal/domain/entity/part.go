package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa uma peça do estoque da assistência.
// UnitCost é o custo médio ponderado com frete (custo de chegada); LastPurchasePrice é o preço unitário da última nota.
type Part struct {
	ID                string
	Name              string
	NameKey           string // chave de busca: minúsculas, sem acentos e espaços repetidos
	Supplier          string
	Quantity          int
	UnitCost          decimal.Decimal
	LastPurchasePrice decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
