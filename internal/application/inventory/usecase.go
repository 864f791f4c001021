package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/oficina-api/internal/application/dto"
	"github.com/jhoicas/oficina-api/internal/domain"
	"github.com/jhoicas/oficina-api/internal/domain/entity"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
	"github.com/jhoicas/oficina-api/internal/domain/inventory"
	"github.com/jhoicas/oficina-api/internal/domain/repository"
)

// StockEntryUseCase transforma uma nota revisada em entrada de estoque:
// cria as peças que ainda não existem, recalcula o custo médio e soma as quantidades.
type StockEntryUseCase struct {
	txRunner  TxRunner
	partRepo  repository.PartRepository
	entryRepo repository.StockEntryRepository
	pdf       EntryPDFGenerator
	now       func() time.Time
}

// NewStockEntryUseCase constrói o caso de uso.
func NewStockEntryUseCase(
	txRunner TxRunner,
	partRepo repository.PartRepository,
	entryRepo repository.StockEntryRepository,
	pdf EntryPDFGenerator,
) *StockEntryUseCase {
	return &StockEntryUseCase{
		txRunner:  txRunner,
		partRepo:  partRepo,
		entryRepo: entryRepo,
		pdf:       pdf,
		now:       time.Now,
	}
}

// approvedItem peça aprovada já validada.
type approvedItem struct {
	name     string
	quantity int
	unit     decimal.Decimal
	shipping decimal.Decimal
}

// RegisterEntry registra a entrada numa única transação.
// Peças com aprovado=false são ignoradas; sem nenhuma peça aprovada devolve ErrInvalidInput.
func (uc *StockEntryUseCase) RegisterEntry(ctx context.Context, userID string, in dto.RegisterEntryRequest) (*entity.StockEntry, error) {
	items, err := approvedItems(in.Items)
	if err != nil {
		return nil, err
	}
	if in.TotalShipping.Decimal().IsNegative() {
		return nil, fmt.Errorf("%w: frete_total negativo", domain.ErrInvalidInput)
	}

	supplier := strings.TrimSpace(in.SupplierGeneral)
	if supplier == "" {
		supplier = firstSupplier(in.Items)
	}

	now := uc.now()
	entry := &entity.StockEntry{
		ID:            uuid.New().String(),
		Supplier:      supplier,
		TotalShipping: in.TotalShipping.Decimal(),
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	if entry.TotalShipping.IsZero() {
		for _, it := range items {
			entry.TotalShipping = entry.TotalShipping.Add(it.shipping)
		}
	}

	err = uc.txRunner.Run(ctx, func(partRepo repository.PartRepository, entryRepo repository.StockEntryRepository) error {
		for _, it := range items {
			part, err := uc.findOrCreatePart(ctx, partRepo, it.name, supplier, now)
			if err != nil {
				return err
			}

			landed := inventory.LandedUnitCost(it.unit, it.shipping, it.quantity)
			newCost := inventory.CostCalculator(
				decimal.NewFromInt(int64(part.Quantity)), part.UnitCost,
				decimal.NewFromInt(int64(it.quantity)), landed,
			)
			if err := partRepo.UpdateStock(ctx, part.ID, part.Quantity+it.quantity, newCost, it.unit); err != nil {
				return err
			}

			entry.Items = append(entry.Items, entity.StockEntryItem{
				ID:             uuid.New().String(),
				EntryID:        entry.ID,
				PartID:         part.ID,
				Name:           part.Name,
				Quantity:       it.quantity,
				UnitPrice:      it.unit,
				ShippingShare:  it.shipping,
				LandedUnitCost: landed,
			})
		}
		return entryRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *StockEntryUseCase) findOrCreatePart(ctx context.Context, partRepo repository.PartRepository, name, supplier string, now time.Time) (*entity.Part, error) {
	key := inventory.PartKey(name)
	part, err := partRepo.GetByKeyForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if part != nil {
		return part, nil
	}
	part = &entity.Part{
		ID:                uuid.New().String(),
		Name:              name,
		NameKey:           key,
		Supplier:          supplier,
		Quantity:          0,
		UnitCost:          decimal.Zero,
		LastPurchasePrice: decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := partRepo.Create(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// GetEntry devolve a entrada com seus itens.
func (uc *StockEntryUseCase) GetEntry(ctx context.Context, id string) (*entity.StockEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obter entrada: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// DownloadEntryPDF gera o comprovante da entrada e o nome de arquivo sugerido.
func (uc *StockEntryUseCase) DownloadEntryPDF(ctx context.Context, id string) ([]byte, string, error) {
	entry, err := uc.GetEntry(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdf.GenerateEntryPDF(ctx, entry)
	if err != nil {
		return nil, "", fmt.Errorf("gerar comprovante: %w", err)
	}
	return pdfBytes, fmt.Sprintf("entrada-%s.pdf", shortID(entry.ID)), nil
}

// ListParts lista as peças em estoque com paginação.
func (uc *StockEntryUseCase) ListParts(ctx context.Context, page dto.PageRequest) ([]*entity.Part, int, error) {
	page.DefaultPage()
	parts, total, err := uc.partRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listar peças: %w", err)
	}
	return parts, total, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func approvedItems(in []dto.EntryItemRequest) ([]approvedItem, error) {
	out := make([]approvedItem, 0, len(in))
	for i, it := range in {
		if !it.IsApproved() {
			continue
		}
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: peça %d sem nome", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: peça %d com quantidade inválida", domain.ErrInvalidInput, i+1)
		}
		unit, shipping := it.CostPrice.Decimal(), it.Shipping.Decimal()
		if unit.IsNegative() || shipping.IsNegative() {
			return nil, fmt.Errorf("%w: peça %d com valor negativo", domain.ErrInvalidInput, i+1)
		}
		out = append(out, approvedItem{name: name, quantity: it.Quantity, unit: unit, shipping: shipping})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: nenhuma peça aprovada", domain.ErrInvalidInput)
	}
	return out, nil
}

func firstSupplier(items []dto.EntryItemRequest) string {
	for _, it := range items {
		if s := strings.TrimSpace(it.Supplier); s != "" {
			return s
		}
	}
	return extraction.DefaultSupplier
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
