package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/oficina-api/internal/domain/entity"
	"github.com/jhoicas/oficina-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo implementação de StockEntryRepository sobre PostgreSQL.
// Create deve rodar dentro de uma tx para gravar cabeçalho e itens juntos.
type StockEntryRepo struct {
	q Querier
}

func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create grava a entrada e seus itens na ordem recebida.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_entries (id, supplier, total_shipping, created_by, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Supplier, e.TotalShipping, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}

	for i, it := range e.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_entry_items (id, entry_id, part_id, position, name, quantity, unit_price, shipping_share, landed_unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, e.ID, it.PartID, i, it.Name, it.Quantity, it.UnitPrice, it.ShippingShare, it.LandedUnitCost,
		)
		if err != nil {
			return fmt.Errorf("insert stock entry item: %w", err)
		}
	}
	return nil
}

// GetByID obtém a entrada com os itens; (nil, nil) se não existir.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := r.q.QueryRow(ctx,
		`SELECT id, supplier, total_shipping, created_by, created_at FROM stock_entries WHERE id = $1`, id,
	).Scan(&e.ID, &e.Supplier, &e.TotalShipping, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, entry_id, part_id, name, quantity, unit_price, shipping_share, landed_unit_cost
		FROM stock_entry_items WHERE entry_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list stock entry items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.StockEntryItem
		if err := rows.Scan(&it.ID, &it.EntryID, &it.PartID, &it.Name, &it.Quantity,
			&it.UnitPrice, &it.ShippingShare, &it.LandedUnitCost); err != nil {
			return nil, fmt.Errorf("scan stock entry item: %w", err)
		}
		e.Items = append(e.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &e, nil
}
