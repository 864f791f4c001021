package repository

import (
	"context"

	"github.com/jhoicas/oficina-api/internal/domain/entity"
)

// StockEntryRepository porto de persistência das entradas de estoque (cabeçalho + itens).
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
}
