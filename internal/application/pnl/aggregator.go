// Package pnl agrupa los embarques por pack y proveedor y calcula ventas, compras y
// utilidad con los precios resueltos.
package pnl

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
)

type bucket struct {
	cartons    int
	containers float64
	sales      decimal.Decimal
	purchase   decimal.Decimal
	estimated  bool
}

func (b *bucket) add(o *bucket) {
	b.cartons += o.cartons
	b.containers += o.containers
	b.sales = b.sales.Add(o.sales)
	b.purchase = b.purchase.Add(o.purchase)
	b.estimated = b.estimated || o.estimated
}

func (b *bucket) cell() dto.PnLCell {
	sales := b.sales.Round(2)
	purchase := b.purchase.Round(2)
	return dto.PnLCell{
		Cartons:    b.cartons,
		Containers: loadcount.RoundTo(b.containers, loadcount.Precision),
		Sales:      sales,
		Purchase:   purchase,
		Profit:     sales.Sub(purchase),
	}
}

// Aggregate reduce los registros (ya filtrados por item/año) a pack → proveedor.
// Los totales por pack y el total general son sumas de las celdas.
func Aggregate(item string, year int, records []*entity.ShippingRecord, book *pricing.PriceBook) *dto.PnLReport {
	cells := make(map[string]map[string]*bucket)
	for _, r := range records {
		res := book.Resolve(r)
		qty := decimal.NewFromInt(int64(r.Cartons))

		bySupplier, ok := cells[r.Pack]
		if !ok {
			bySupplier = make(map[string]*bucket)
			cells[r.Pack] = bySupplier
		}
		b, ok := bySupplier[r.Supplier]
		if !ok {
			b = &bucket{}
			bySupplier[r.Supplier] = b
		}
		b.add(&bucket{
			cartons:    r.Cartons,
			containers: r.LCont,
			sales:      qty.Mul(res.Sales),
			purchase:   qty.Mul(res.Purchase),
			estimated:  res.PurchaseEstimated,
		})
	}

	report := &dto.PnLReport{Item: item, Year: year, Packs: make([]dto.PnLPackGroup, 0, len(cells))}
	var grand bucket
	for _, packCode := range sortedKeys(cells) {
		group := dto.PnLPackGroup{Pack: packCode}
		var packTotal bucket
		for _, supplier := range sortedKeys(cells[packCode]) {
			b := cells[packCode][supplier]
			group.Suppliers = append(group.Suppliers, dto.PnLSupplierRow{
				Supplier:          supplier,
				PnLCell:           b.cell(),
				PurchaseEstimated: b.estimated,
			})
			packTotal.add(b)
		}
		group.Total = packTotal.cell()
		report.Packs = append(report.Packs, group)
		grand.add(&packTotal)
	}
	report.Total = grand.cell()
	return report
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
