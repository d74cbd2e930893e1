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

var _ repository.SalesPriceRepository = (*SalesPriceRepo)(nil)

const salesPriceColumns = `id, item, pack, supplier, year, sales_price, created_at, updated_at`

// SalesPriceRepo implementación de SalesPriceRepository.
type SalesPriceRepo struct {
	q Querier
}

// NewSalesPriceRepository construye el adaptador.
func NewSalesPriceRepository(q Querier) *SalesPriceRepo {
	return &SalesPriceRepo{q: q}
}

// List devuelve los precios de venta del producto para los años dados.
func (r *SalesPriceRepo) List(ctx context.Context, item string, years []int) ([]*entity.SalesPrice, error) {
	query := `SELECT ` + salesPriceColumns + ` FROM sales_prices
		WHERE ($1 = '' OR item = $1) AND (cardinality($2::int[]) = 0 OR year = ANY($2::int[]))
		ORDER BY year DESC, pack, supplier NULLS FIRST`
	rows, err := r.q.Query(ctx, query, item, yearsArg(years))
	if err != nil {
		return nil, wrap("list sales prices", err)
	}
	defer rows.Close()
	var list []*entity.SalesPrice
	for rows.Next() {
		p, err := scanSalesPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales price: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un precio de venta; nil, nil si no existe.
func (r *SalesPriceRepo) GetByID(ctx context.Context, id string) (*entity.SalesPrice, error) {
	p, err := scanSalesPrice(r.q.QueryRow(ctx, `SELECT `+salesPriceColumns+` FROM sales_prices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales price: %w", err)
	}
	return p, nil
}

// Create persiste un precio de venta. (item, pack, supplier, year) es único.
func (r *SalesPriceRepo) Create(ctx context.Context, p *entity.SalesPrice) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_prices (`+salesPriceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Item, p.Pack, uniformSupplier(p.Supplier), p.Year, p.SalesPrice, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert sales price", err)
	}
	return nil
}

// Update actualiza un precio de venta.
func (r *SalesPriceRepo) Update(ctx context.Context, p *entity.SalesPrice) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales_prices SET item = $2, pack = $3, supplier = $4, year = $5, sales_price = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Item, p.Pack, uniformSupplier(p.Supplier), p.Year, p.SalesPrice, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("update sales price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un precio de venta.
func (r *SalesPriceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales_prices WHERE id = $1`, id)
	if err != nil {
		return wrap("delete sales price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSalesPrice(row pgx.Row) (*entity.SalesPrice, error) {
	var p entity.SalesPrice
	if err := row.Scan(&p.ID, &p.Item, &p.Pack, &p.Supplier, &p.Year, &p.SalesPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// uniformSupplier guarda NULL para precios uniformes.
func uniformSupplier(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func yearsArg(years []int) []int32 {
	out := make([]int32, len(years))
	for i, y := range years {
		out[i] = int32(y)
	}
	return out
}
