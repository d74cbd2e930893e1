// Package analytics contiene los casos de uso del Dashboard y de la vista de Análisis:
// volúmenes por pack, proveedor, año y tipo, series semanales y matriz proveedor × pack.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// PriceBookLoader arma el libro de precios.
type PriceBookLoader interface {
	Book(ctx context.Context, item string, years []int) (*pricing.PriceBook, error)
}

// DashboardUseCase genera el resumen del dashboard y la vista de análisis.
//
// Fuente de datos: ShippingRecordRepository + tablas de precios; toda la agregación se
// hace en memoria sobre el conjunto filtrado.
type DashboardUseCase struct {
	records repository.ShippingRecordRepository
	prices  PriceBookLoader
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(records repository.ShippingRecordRepository, prices PriceBookLoader) *DashboardUseCase {
	return &DashboardUseCase{records: records, prices: prices}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos llamadas en paralelo:
//  1. registros filtrados por item/año
//  2. PriceBook del item/año → ventas estimadas
func (uc *DashboardUseCase) GetSummary(ctx context.Context, item string, year int) (*dto.DashboardSummaryDTO, error) {
	if err := validItem(item); err != nil {
		return nil, err
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
		return nil, fmt.Errorf("dashboard: registros: %w", recs.err)
	}
	if book.err != nil {
		return nil, fmt.Errorf("dashboard: precios: %w", book.err)
	}
	return Summarize(item, year, recs.rows, book.book), nil
}

// GetAnalysis construye series semanales y la matriz proveedor × pack.
func (uc *DashboardUseCase) GetAnalysis(ctx context.Context, item string, year int) (*dto.AnalysisDTO, error) {
	if err := validItem(item); err != nil {
		return nil, err
	}
	rows, err := uc.records.List(ctx, repository.RecordFilter{Item: item, Year: year})
	if err != nil {
		return nil, fmt.Errorf("analysis: registros: %w", err)
	}
	return Analyze(item, year, rows), nil
}

// Summarize agrega los registros del dashboard.
func Summarize(item string, year int, records []*entity.ShippingRecord, book *pricing.PriceBook) *dto.DashboardSummaryDTO {
	out := &dto.DashboardSummaryDTO{Item: item, Year: year, Records: len(records), Sales: decimal.Zero}
	byPack := newVolume()
	bySupplier := newVolume()
	byYear := newVolume()
	byType := newVolume()
	containers := make(map[entity.ContainerKey]struct{})

	for _, r := range records {
		out.Cartons += r.Cartons
		out.Containers += r.LCont
		containers[r.GroupKey()] = struct{}{}
		byPack.add(r.Pack, r)
		bySupplier.add(r.Supplier, r)
		byYear.add(strconv.Itoa(r.Year), r)
		byType.add(r.Type, r)
		if book != nil {
			out.Sales = out.Sales.Add(decimal.NewFromInt(int64(r.Cartons)).Mul(book.Resolve(r).Sales))
		}
	}
	out.Containers = loadcount.RoundTo(out.Containers, loadcount.Precision)
	out.DistinctContainers = len(containers)
	out.Sales = out.Sales.Round(2)
	out.ByPack = byPack.buckets()
	out.BySupplier = bySupplier.buckets()
	out.ByYear = byYear.buckets()
	out.ByType = byType.buckets()
	return out
}

// Analyze agrega por semana y construye la matriz de contenedores proveedor × pack.
func Analyze(item string, year int, records []*entity.ShippingRecord) *dto.AnalysisDTO {
	type weekKey struct{ year, week int }
	weeks := make(map[weekKey]*dto.WeekPoint)
	matrix := make(map[string]*dto.MatrixRow)
	packs := make(map[string]struct{})

	for _, r := range records {
		k := weekKey{r.Year, r.Week}
		p, ok := weeks[k]
		if !ok {
			p = &dto.WeekPoint{Year: r.Year, Week: r.Week}
			weeks[k] = p
		}
		p.Cartons += r.Cartons
		p.Containers += r.LCont

		row, ok := matrix[r.Supplier]
		if !ok {
			row = &dto.MatrixRow{Supplier: r.Supplier, ByPack: make(map[string]float64)}
			matrix[r.Supplier] = row
		}
		row.ByPack[r.Pack] += r.LCont
		row.Total += r.LCont
		packs[r.Pack] = struct{}{}
	}

	out := &dto.AnalysisDTO{Item: item, Year: year, Weekly: make([]dto.WeekPoint, 0, len(weeks))}
	for _, p := range weeks {
		p.Containers = loadcount.RoundTo(p.Containers, loadcount.Precision)
		out.Weekly = append(out.Weekly, *p)
	}
	sort.Slice(out.Weekly, func(i, j int) bool {
		if out.Weekly[i].Year != out.Weekly[j].Year {
			return out.Weekly[i].Year < out.Weekly[j].Year
		}
		return out.Weekly[i].Week < out.Weekly[j].Week
	})

	for p := range packs {
		out.Packs = append(out.Packs, p)
	}
	sort.Strings(out.Packs)

	out.Matrix = make([]dto.MatrixRow, 0, len(matrix))
	for _, row := range matrix {
		for p, v := range row.ByPack {
			row.ByPack[p] = loadcount.RoundTo(v, loadcount.Precision)
		}
		row.Total = loadcount.RoundTo(row.Total, loadcount.Precision)
		out.Matrix = append(out.Matrix, *row)
	}
	sort.Slice(out.Matrix, func(i, j int) bool {
		if out.Matrix[i].Total != out.Matrix[j].Total {
			return out.Matrix[i].Total > out.Matrix[j].Total
		}
		return out.Matrix[i].Supplier < out.Matrix[j].Supplier
	})
	return out
}

func validItem(item string) error {
	if item != entity.ItemBananas && item != entity.ItemPineapples {
		return fmt.Errorf("%w: item debe ser %s o %s", domain.ErrInvalidInput, entity.ItemBananas, entity.ItemPineapples)
	}
	return nil
}

// volume acumula cajas y contenedores por clave.
type volume map[string]*dto.VolumeBucket

func newVolume() volume { return make(volume) }

func (v volume) add(key string, r *entity.ShippingRecord) {
	b, ok := v[key]
	if !ok {
		b = &dto.VolumeBucket{Key: key}
		v[key] = b
	}
	b.Cartons += r.Cartons
	b.Containers += r.LCont
}

// buckets ordenados por contenedores descendente, luego por clave.
func (v volume) buckets() []dto.VolumeBucket {
	out := make([]dto.VolumeBucket, 0, len(v))
	for _, b := range v {
		b.Containers = loadcount.RoundTo(b.Containers, loadcount.Precision)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Containers != out[j].Containers {
			return out[i].Containers > out[j].Containers
		}
		return out[i].Key < out[j].Key
	})
	return out
}
