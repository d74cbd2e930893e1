package pnl

import (
	"context"
	"fmt"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// PriceBookLoader arma el libro de precios (lo implementa prices.UseCase).
type PriceBookLoader interface {
	Book(ctx context.Context, item string, years []int) (*pricing.PriceBook, error)
}

// UseCase genera el P&L.
type UseCase struct {
	records repository.ShippingRecordRepository
	prices  PriceBookLoader
}

// NewUseCase construye el caso de uso.
func NewUseCase(records repository.ShippingRecordRepository, prices PriceBookLoader) *UseCase {
	return &UseCase{records: records, prices: prices}
}

// Report carga registros y precios en paralelo y agrega. year == 0 incluye todos los años.
func (uc *UseCase) Report(ctx context.Context, item string, year int) (*dto.PnLReport, error) {
	if item != entity.ItemBananas && item != entity.ItemPineapples {
		return nil, fmt.Errorf("%w: item requerido", domain.ErrInvalidInput)
	}
	var years []int
	if year != 0 {
		years = []int{year}
	}

	type recordsResult struct {
		rows []*entity.ShippingRecord
		err  error
	}
	type bookResult struct {
		book *pricing.PriceBook
		err  error
	}
	recCh := make(chan recordsResult, 1)
	bookCh := make(chan bookResult, 1)

	go func() {
		rows, err := uc.records.List(ctx, repository.RecordFilter{Item: item, Year: year})
		recCh <- recordsResult{rows, err}
	}()
	go func() {
		book, err := uc.prices.Book(ctx, item, years)
		bookCh <- bookResult{book, err}
	}()

	recs := <-recCh
	book := <-bookCh
	if recs.err != nil {
		return nil, fmt.Errorf("pnl: registros: %w", recs.err)
	}
	if book.err != nil {
		return nil, fmt.Errorf("pnl: precios: %w", book.err)
	}
	return Aggregate(item, year, recs.rows, book.book), nil
}
