package inventory

import (
	"context"

	"github.com/jhoicas/oficina-api/internal/domain/entity"
	"github.com/jhoicas/oficina-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação, com repositórios atados a ela.
// Garante que a entrada e a atualização das peças sejam atômicas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		partRepo repository.PartRepository,
		entryRepo repository.StockEntryRepository,
	) error) error
}

// EntryPDFGenerator gera o comprovante de entrada de peças.
type EntryPDFGenerator interface {
	GenerateEntryPDF(ctx context.Context, entry *entity.StockEntry) ([]byte, error)
}
