// Package prices administra las tablas de precios de venta y compra y arma el
// PriceBook que consumen los reportes.
package prices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pack"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// UseCase casos de uso de gestión de precios.
type UseCase struct {
	sales     repository.SalesPriceRepository
	purchases repository.PurchasePriceRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(sales repository.SalesPriceRepository, purchases repository.PurchasePriceRepository) *UseCase {
	return &UseCase{sales: sales, purchases: purchases}
}

// Book arma el PriceBook para el producto y los años dados (años vacíos = todos).
// Las dos tablas se consultan en paralelo.
func (uc *UseCase) Book(ctx context.Context, item string, years []int) (*pricing.PriceBook, error) {
	type salesResult struct {
		rows []*entity.SalesPrice
		err  error
	}
	type purchaseResult struct {
		rows []*entity.PurchasePrice
		err  error
	}
	salesCh := make(chan salesResult, 1)
	purchaseCh := make(chan purchaseResult, 1)

	go func() {
		rows, err := uc.sales.List(ctx, item, years)
		salesCh <- salesResult{rows, err}
	}()
	go func() {
		rows, err := uc.purchases.List(ctx, item, years)
		purchaseCh <- purchaseResult{rows, err}
	}()

	s := <-salesCh
	p := <-purchaseCh
	if s.err != nil {
		return nil, fmt.Errorf("precios de venta: %w", s.err)
	}
	if p.err != nil {
		return nil, fmt.Errorf("precios de compra: %w", p.err)
	}
	return pricing.NewPriceBook(s.rows, p.rows), nil
}

// ── Venta ─────────────────────────────────────────────────────────────────────

// ListSales lista precios de venta.
func (uc *UseCase) ListSales(ctx context.Context, item string, year int) ([]dto.SalesPriceResponse, error) {
	rows, err := uc.sales.List(ctx, item, yearFilter(year))
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalesPriceResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, toSalesResponse(p))
	}
	return out, nil
}

// CreateSales da de alta un precio de venta.
func (uc *UseCase) CreateSales(ctx context.Context, in dto.SalesPriceRequest) (*dto.SalesPriceResponse, error) {
	if err := validatePrice(in.Item, in.Pack, in.Year, in.SalesPrice.IsNegative()); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.SalesPrice{
		ID:         uuid.New().String(),
		Item:       in.Item,
		Pack:       pack.NormalizeCode(in.Pack),
		Supplier:   optionalSupplier(in.Supplier),
		Year:       in.Year,
		SalesPrice: in.SalesPrice.Round(2),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.sales.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toSalesResponse(p)
	return &out, nil
}

// UpdateSales modifica un precio de venta existente.
func (uc *UseCase) UpdateSales(ctx context.Context, id string, in dto.SalesPriceRequest) (*dto.SalesPriceResponse, error) {
	if err := validatePrice(in.Item, in.Pack, in.Year, in.SalesPrice.IsNegative()); err != nil {
		return nil, err
	}
	p, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Item = in.Item
	p.Pack = pack.NormalizeCode(in.Pack)
	p.Supplier = optionalSupplier(in.Supplier)
	p.Year = in.Year
	p.SalesPrice = in.SalesPrice.Round(2)
	p.UpdatedAt = time.Now()
	if err := uc.sales.Update(ctx, p); err != nil {
		return nil, err
	}
	out := toSalesResponse(p)
	return &out, nil
}

// DeleteSales elimina un precio de venta.
func (uc *UseCase) DeleteSales(ctx context.Context, id string) error {
	return uc.sales.Delete(ctx, id)
}

// ── Compra ────────────────────────────────────────────────────────────────────

// ListPurchases lista precios de compra.
func (uc *UseCase) ListPurchases(ctx context.Context, item string, year int) ([]dto.PurchasePriceResponse, error) {
	rows, err := uc.purchases.List(ctx, item, yearFilter(year))
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchasePriceResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

// CreatePurchase da de alta un precio de compra. El proveedor es obligatorio.
func (uc *UseCase) CreatePurchase(ctx context.Context, in dto.PurchasePriceRequest) (*dto.PurchasePriceResponse, error) {
	if err := validatePrice(in.Item, in.Pack, in.Year, in.PurchasePrice.IsNegative()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Supplier) == "" {
		return nil, fmt.Errorf("%w: el proveedor es obligatorio en precios de compra", domain.ErrInvalidInput)
	}
	now := time.Now()
	p := &entity.PurchasePrice{
		ID:            uuid.New().String(),
		Item:          in.Item,
		Pack:          pack.NormalizeCode(in.Pack),
		Supplier:      strings.ToUpper(strings.TrimSpace(in.Supplier)),
		Year:          in.Year,
		PurchasePrice: in.PurchasePrice.Round(2),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.purchases.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// UpdatePurchase modifica un precio de compra existente.
func (uc *UseCase) UpdatePurchase(ctx context.Context, id string, in dto.PurchasePriceRequest) (*dto.PurchasePriceResponse, error) {
	if err := validatePrice(in.Item, in.Pack, in.Year, in.PurchasePrice.IsNegative()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Supplier) == "" {
		return nil, fmt.Errorf("%w: el proveedor es obligatorio en precios de compra", domain.ErrInvalidInput)
	}
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Item = in.Item
	p.Pack = pack.NormalizeCode(in.Pack)
	p.Supplier = strings.ToUpper(strings.TrimSpace(in.Supplier))
	p.Year = in.Year
	p.PurchasePrice = in.PurchasePrice.Round(2)
	p.UpdatedAt = time.Now()
	if err := uc.purchases.Update(ctx, p); err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// DeletePurchase elimina un precio de compra.
func (uc *UseCase) DeletePurchase(ctx context.Context, id string) error {
	return uc.purchases.Delete(ctx, id)
}

func validatePrice(item, packCode string, year int, negative bool) error {
	if item != entity.ItemBananas && item != entity.ItemPineapples {
		return fmt.Errorf("%w: item debe ser %s o %s", domain.ErrInvalidInput, entity.ItemBananas, entity.ItemPineapples)
	}
	if strings.TrimSpace(packCode) == "" {
		return fmt.Errorf("%w: pack requerido", domain.ErrInvalidInput)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: año fuera de rango", domain.ErrInvalidInput)
	}
	if negative {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func optionalSupplier(s string) *string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

func yearFilter(year int) []int {
	if year == 0 {
		return nil
	}
	return []int{year}
}

func toSalesResponse(p *entity.SalesPrice) dto.SalesPriceResponse {
	return dto.SalesPriceResponse{
		ID: p.ID, Item: p.Item, Pack: p.Pack, Supplier: p.Supplier, Year: p.Year,
		SalesPrice: p.SalesPrice, UpdatedAt: p.UpdatedAt,
	}
}

func toPurchaseResponse(p *entity.PurchasePrice) dto.PurchasePriceResponse {
	return dto.PurchasePriceResponse{
		ID: p.ID, Item: p.Item, Pack: p.Pack, Supplier: p.Supplier, Year: p.Year,
		PurchasePrice: p.PurchasePrice, UpdatedAt: p.UpdatedAt,
	}
}
