package repository

import (
	"context"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// SalesPriceRepository puerto de persistencia de sales_prices.
type SalesPriceRepository interface {
	// List filtra por producto y años; item vacío o years vacío no filtran.
	List(ctx context.Context, item string, years []int) ([]*entity.SalesPrice, error)
	GetByID(ctx context.Context, id string) (*entity.SalesPrice, error)
	Create(ctx context.Context, p *entity.SalesPrice) error
	Update(ctx context.Context, p *entity.SalesPrice) error
	Delete(ctx context.Context, id string) error
}

// PurchasePriceRepository puerto de persistencia de purchase_prices.
type PurchasePriceRepository interface {
	List(ctx context.Context, item string, years []int) ([]*entity.PurchasePrice, error)
	GetByID(ctx context.Context, id string) (*entity.PurchasePrice, error)
	Create(ctx context.Context, p *entity.PurchasePrice) error
	Update(ctx context.Context, p *entity.PurchasePrice) error
	Delete(ctx context.Context, id string) error
}
