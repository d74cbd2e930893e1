package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

var _ repository.PurchasePriceRepository = (*PurchasePriceRepo)(nil)

const purchasePriceColumns = `id, item, pack, supplier, year, purchase_price, created_at, updated_at`

// PurchasePriceRepo implementación de PurchasePriceRepository.
type PurchasePriceRepo struct {
	q Querier
}

// NewPurchasePriceRepository construye el adaptador.
func NewPurchasePriceRepository(q Querier) *PurchasePriceRepo {
	return &PurchasePriceRepo{q: q}
}

// List devuelve los precios de compra del producto para los años dados.
func (r *PurchasePriceRepo) List(ctx context.Context, item string, years []int) ([]*entity.PurchasePrice, error) {
	query := `SELECT ` + purchasePriceColumns + ` FROM purchase_prices
		WHERE ($1 = '' OR item = $1) AND (cardinality($2::int[]) = 0 OR year = ANY($2::int[]))
		ORDER BY year DESC, pack, supplier`
	rows, err := r.q.Query(ctx, query, item, yearsArg(years))
	if err != nil {
		return nil, wrap("list purchase prices", err)
	}
	defer rows.Close()
	var list []*entity.PurchasePrice
	for rows.Next() {
		p, err := scanPurchasePrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase price: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un precio de compra; nil, nil si no existe.
func (r *PurchasePriceRepo) GetByID(ctx context.Context, id string) (*entity.PurchasePrice, error) {
	p, err := scanPurchasePrice(r.q.QueryRow(ctx, `SELECT `+purchasePriceColumns+` FROM purchase_prices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase price: %w", err)
	}
	return p, nil
}

// Create persiste un precio de compra.
func (r *PurchasePriceRepo) Create(ctx context.Context, p *entity.PurchasePrice) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_prices (`+purchasePriceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Item, p.Pack, p.Supplier, p.Year, p.PurchasePrice, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert purchase price", err)
	}
	return nil
}

// Update actualiza un precio de compra.
func (r *PurchasePriceRepo) Update(ctx context.Context, p *entity.PurchasePrice) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_prices SET item = $2, pack = $3, supplier = $4, year = $5, purchase_price = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Item, p.Pack, p.Supplier, p.Year, p.PurchasePrice, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("update purchase price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un precio de compra.
func (r *PurchasePriceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_prices WHERE id = $1`, id)
	if err != nil {
		return wrap("delete purchase price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPurchasePrice(row pgx.Row) (*entity.PurchasePrice, error) {
	var p entity.PurchasePrice
	if err := row.Scan(&p.ID, &p.Item, &p.Pack, &p.Supplier, &p.Year, &p.PurchasePrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
