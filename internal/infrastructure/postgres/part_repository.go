package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/oficina-api/internal/domain"
	"github.com/jhoicas/oficina-api/internal/domain/entity"
	"github.com/jhoicas/oficina-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, name, name_key, supplier, quantity, unit_cost, last_purchase_price, created_at, updated_at`

// PartRepo implementação de PartRepository sobre PostgreSQL (pool ou tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// Create persiste uma nova peça.
func (r *PartRepo) Create(ctx context.Context, p *entity.Part) error {
	query := `INSERT INTO parts (` + partColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.NameKey, p.Supplier, p.Quantity, p.UnitCost, p.LastPurchasePrice, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtém uma peça por ID.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetByKeyForUpdate obtém a peça pela chave de nome com SELECT ... FOR UPDATE.
func (r *PartRepo) GetByKeyForUpdate(ctx context.Context, nameKey string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE name_key = $1 FOR UPDATE`, nameKey))
	if err != nil {
		return nil, fmt.Errorf("get part by key: %w", err)
	}
	return p, nil
}

// UpdateStock grava quantidade, custo médio e último preço de compra.
func (r *PartRepo) UpdateStock(ctx context.Context, id string, quantity int, unitCost, lastPurchasePrice decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE parts SET quantity = $2, unit_cost = $3, last_purchase_price = $4, updated_at = now() WHERE id = $1`,
		id, quantity, unitCost, lastPurchasePrice,
	)
	if err != nil {
		return fmt.Errorf("update part stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista as peças por nome com paginação e devolve o total.
func (r *PartRepo) List(ctx context.Context, limit, offset int) ([]*entity.Part, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM parts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count parts: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+partColumns+` FROM parts ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Part
	for rows.Next() {
		var p entity.Part
		if err := rows.Scan(&p.ID, &p.Name, &p.NameKey, &p.Supplier, &p.Quantity,
			&p.UnitCost, &p.LastPurchasePrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, &p)
	}
	return list, total, rows.Err()
}

// scanPart devolve (nil, nil) quando não há linha.
func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.Name, &p.NameKey, &p.Supplier, &p.Quantity,
		&p.UnitCost, &p.LastPurchasePrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
