package inventory

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/oficina-api/internal/application/dto"
	"github.com/jhoicas/oficina-api/internal/domain"
	"github.com/jhoicas/oficina-api/internal/domain/entity"
	"github.com/jhoicas/oficina-api/internal/domain/repository"
)

// ── fakes em memória ──────────────────────────────────────────────────────────

type memParts struct {
	byID map[string]*entity.Part
}

func newMemParts() *memParts { return &memParts{byID: map[string]*entity.Part{}} }

func (m *memParts) Create(_ context.Context, p *entity.Part) error {
	for _, existing := range m.byID {
		if existing.NameKey == p.NameKey {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memParts) GetByID(_ context.Context, id string) (*entity.Part, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memParts) GetByKeyForUpdate(_ context.Context, key string) (*entity.Part, error) {
	for _, p := range m.byID {
		if p.NameKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memParts) UpdateStock(_ context.Context, id string, qty int, cost, last decimal.Decimal) error {
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity, p.UnitCost, p.LastPurchasePrice = qty, cost, last
	return nil
}

func (m *memParts) List(_ context.Context, limit, offset int) ([]*entity.Part, int, error) {
	all := make([]*entity.Part, 0, len(m.byID))
	for _, p := range m.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type memEntries struct {
	byID map[string]*entity.StockEntry
	err  error
}

func (m *memEntries) Create(_ context.Context, e *entity.StockEntry) error {
	if m.err != nil {
		return m.err
	}
	m.byID[e.ID] = e
	return nil
}

func (m *memEntries) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	return m.byID[id], nil
}

// memTx restaura as peças se a função falhar.
type memTx struct {
	parts   *memParts
	entries *memEntries
}

func (tx *memTx) Run(ctx context.Context, fn func(repository.PartRepository, repository.StockEntryRepository) error) error {
	snapshot := map[string]entity.Part{}
	for id, p := range tx.parts.byID {
		snapshot[id] = *p
	}
	if err := fn(tx.parts, tx.entries); err != nil {
		tx.parts.byID = map[string]*entity.Part{}
		for id, p := range snapshot {
			cp := p
			tx.parts.byID[id] = &cp
		}
		return err
	}
	return nil
}

type fakePDF struct{}

func (fakePDF) GenerateEntryPDF(context.Context, *entity.StockEntry) ([]byte, error) {
	return []byte("%PDF-1.3"), nil
}

func newUseCase() (*StockEntryUseCase, *memParts, *memEntries) {
	parts := newMemParts()
	entries := &memEntries{byID: map[string]*entity.StockEntry{}}
	return NewStockEntryUseCase(&memTx{parts: parts, entries: entries}, parts, entries, fakePDF{}), parts, entries
}

func money(s string) dto.Money { return dto.NewMoney(decimal.RequireFromString(s)) }

// ── testes ────────────────────────────────────────────────────────────────────

func TestRegisterEntry_CriaPecasComCustoDeChegada(t *testing.T) {
	uc, parts, _ := newUseCase()
	no := false

	entry, err := uc.RegisterEntry(context.Background(), "user-1", dto.RegisterEntryRequest{
		SupplierGeneral: "Loja X",
		TotalShipping:   money("10"),
		Items: []dto.EntryItemRequest{
			{Name: "Tela iPhone 11", Quantity: 1, CostPrice: money("100"), Shipping: money("5")},
			{Name: "Bateria iPhone 11", Quantity: 2, CostPrice: money("50"), Shipping: money("5")},
			{Name: "Capinha", Quantity: 1, CostPrice: money("3"), Approved: &no},
		},
	})
	require.NoError(t, err)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, "Loja X", entry.Supplier)
	assert.Equal(t, "user-1", entry.CreatedBy)
	assert.True(t, decimal.RequireFromString("210").Equal(entry.Total()))

	assert.Len(t, parts.byID, 2, "peça rejeitada não entra no estoque")

	bateria, err := parts.GetByKeyForUpdate(context.Background(), "bateria iphone 11")
	require.NoError(t, err)
	require.NotNil(t, bateria)
	assert.Equal(t, 2, bateria.Quantity)
	assert.True(t, decimal.RequireFromString("52.5").Equal(bateria.UnitCost), bateria.UnitCost.String())
	assert.True(t, decimal.RequireFromString("50").Equal(bateria.LastPurchasePrice))
}

func TestRegisterEntry_AtualizaCustoMedio(t *testing.T) {
	uc, parts, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.RegisterEntry(ctx, "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "Conector Tipo-C", Quantity: 10, CostPrice: money("20")}},
	})
	require.NoError(t, err)

	_, err = uc.RegisterEntry(ctx, "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "conector tipo-c", Quantity: 10, CostPrice: money("28"), Shipping: money("20")}},
	})
	require.NoError(t, err)

	require.Len(t, parts.byID, 1, "mesma peça reconhecida pela chave de nome")
	p, _ := parts.GetByKeyForUpdate(ctx, "conector tipo-c")
	assert.Equal(t, 20, p.Quantity)
	// (10×20 + 10×30) / 20 = 25
	assert.True(t, decimal.NewFromInt(25).Equal(p.UnitCost), p.UnitCost.String())
}

func TestRegisterEntry_SemPecasAprovadas(t *testing.T) {
	uc, _, _ := newUseCase()
	no := false

	_, err := uc.RegisterEntry(context.Background(), "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "Tela", Quantity: 1, Approved: &no}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterEntry(context.Background(), "u", dto.RegisterEntryRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterEntry_ItemInvalido(t *testing.T) {
	uc, _, _ := newUseCase()

	_, err := uc.RegisterEntry(context.Background(), "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "Tela", Quantity: 0, CostPrice: money("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterEntry(context.Background(), "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "Tela", Quantity: 1, CostPrice: money("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterEntry_RollbackQuandoFalha(t *testing.T) {
	uc, parts, entries := newUseCase()
	entries.err = errors.New("disco cheio")

	_, err := uc.RegisterEntry(context.Background(), "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "Tela", Quantity: 1, CostPrice: money("10")}},
	})
	require.Error(t, err)
	assert.Empty(t, parts.byID)
}

func TestGetEntryEPDF(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.GetEntry(ctx, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entry, err := uc.RegisterEntry(ctx, "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{{Name: "Tela", Quantity: 1, CostPrice: money("10")}},
	})
	require.NoError(t, err)

	got, err := uc.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	pdf, name, err := uc.DownloadEntryPDF(ctx, entry.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "entrada-"+entry.ID[:8]+".pdf", name)
}

func TestListParts(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.RegisterEntry(ctx, "u", dto.RegisterEntryRequest{
		Items: []dto.EntryItemRequest{
			{Name: "A", Quantity: 1, CostPrice: money("1")},
			{Name: "B", Quantity: 1, CostPrice: money("1")},
			{Name: "C", Quantity: 1, CostPrice: money("1")},
		},
	})
	require.NoError(t, err)

	list, total, err := uc.ListParts(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)
}
