package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/oficina-api/internal/domain/entity"
)

// PartRepository porto de persistência das peças em estoque.
// As buscas devolvem (nil, nil) quando não há registro.
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	// GetByKeyForUpdate busca pela chave de nome e bloqueia a linha até o fim da transação.
	GetByKeyForUpdate(ctx context.Context, nameKey string) (*entity.Part, error)
	UpdateStock(ctx context.Context, id string, quantity int, unitCost, lastPurchasePrice decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Part, int, error)
}
