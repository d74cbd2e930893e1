package apptest

import (
	"context"
	"slices"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

var (
	_ repository.SalesPriceRepository    = (*SalesPrices)(nil)
	_ repository.PurchasePriceRepository = (*PurchasePrices)(nil)
)

// SalesPrices tabla de precios de venta en memoria.
type SalesPrices struct {
	Rows []*entity.SalesPrice
}

func (s *SalesPrices) List(_ context.Context, item string, years []int) ([]*entity.SalesPrice, error) {
	var out []*entity.SalesPrice
	for _, p := range s.Rows {
		if (item == "" || p.Item == item) && (len(years) == 0 || slices.Contains(years, p.Year)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *SalesPrices) GetByID(_ context.Context, id string) (*entity.SalesPrice, error) {
	for _, p := range s.Rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *SalesPrices) Create(_ context.Context, p *entity.SalesPrice) error {
	s.Rows = append(s.Rows, p)
	return nil
}

func (s *SalesPrices) Update(_ context.Context, p *entity.SalesPrice) error {
	for i, cur := range s.Rows {
		if cur.ID == p.ID {
			s.Rows[i] = p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *SalesPrices) Delete(_ context.Context, id string) error {
	for i, cur := range s.Rows {
		if cur.ID == id {
			s.Rows = append(s.Rows[:i], s.Rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// PurchasePrices tabla de precios de compra en memoria.
type PurchasePrices struct {
	Rows []*entity.PurchasePrice
}

func (s *PurchasePrices) List(_ context.Context, item string, years []int) ([]*entity.PurchasePrice, error) {
	var out []*entity.PurchasePrice
	for _, p := range s.Rows {
		if (item == "" || p.Item == item) && (len(years) == 0 || slices.Contains(years, p.Year)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PurchasePrices) GetByID(_ context.Context, id string) (*entity.PurchasePrice, error) {
	for _, p := range s.Rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *PurchasePrices) Create(_ context.Context, p *entity.PurchasePrice) error {
	s.Rows = append(s.Rows, p)
	return nil
}

func (s *PurchasePrices) Update(_ context.Context, p *entity.PurchasePrice) error {
	for i, cur := range s.Rows {
		if cur.ID == p.ID {
			s.Rows[i] = p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *PurchasePrices) Delete(_ context.Context, id string) error {
	for i, cur := range s.Rows {
		if cur.ID == id {
			s.Rows = append(s.Rows[:i], s.Rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
