package pnl_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/application/pnl"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
)

func rec(packCode, supplier string, cartons int, lcont float64) *entity.ShippingRecord {
	return &entity.ShippingRecord{
		Item: entity.ItemPineapples, Year: 2025, Pack: packCode, Supplier: supplier,
		Cartons: cartons, LCont: lcont,
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func book() *pricing.PriceBook {
	return pricing.NewPriceBook(
		[]*entity.SalesPrice{
			{Item: entity.ItemPineapples, Pack: "7C", Year: 2025, SalesPrice: d("5.00")},
		},
		[]*entity.PurchasePrice{
			{Item: entity.ItemPineapples, Pack: "7C", Supplier: "APR AGRI", Year: 2025, PurchasePrice: d("4.00")},
		},
	)
}

func TestAggregate_CeldaPackProveedor(t *testing.T) {
	records := []*entity.ShippingRecord{
		rec("7C", "APR AGRI", 100, 0.25),
		rec("7C", "APR AGRI", 200, 0.5),
	}

	report := pnl.Aggregate(entity.ItemPineapples, 2025, records, book())

	require.Len(t, report.Packs, 1)
	require.Len(t, report.Packs[0].Suppliers, 1)
	cell := report.Packs[0].Suppliers[0]
	assert.Equal(t, "APR AGRI", cell.Supplier)
	assert.Equal(t, 300, cell.Cartons)
	assert.Equal(t, 0.75, cell.Containers)
	assert.True(t, d("1500").Equal(cell.Sales), cell.Sales.String())
	assert.True(t, d("1200").Equal(cell.Purchase), cell.Purchase.String())
	assert.True(t, d("300").Equal(cell.Profit), cell.Profit.String())
	assert.False(t, cell.PurchaseEstimated)

	assert.Equal(t, cell.PnLCell, report.Packs[0].Total)
	assert.Equal(t, cell.PnLCell, report.Total)
}

func TestAggregate_TotalesSonAditivos(t *testing.T) {
	records := []*entity.ShippingRecord{
		rec("7C", "APR AGRI", 100, 0.5),
		rec("7C", "DOLE", 100, 0.5),
		rec("8C", "APR AGRI", 50, 1),
	}
	records[2].Price = d("6.00") // sin precio en tablas: usa el heredado

	report := pnl.Aggregate(entity.ItemPineapples, 2025, records, book())

	require.Len(t, report.Packs, 2)
	seven := report.Packs[0]
	assert.Equal(t, "7C", seven.Pack)
	require.Len(t, seven.Suppliers, 2)
	assert.Equal(t, "DOLE", seven.Suppliers[1].Supplier)
	assert.True(t, seven.Suppliers[1].PurchaseEstimated, "DOLE no tiene precio de compra")
	assert.True(t, d("450").Equal(seven.Suppliers[1].Purchase))
	assert.Equal(t, 200, seven.Total.Cartons)
	assert.True(t, d("1000").Equal(seven.Total.Sales))
	assert.True(t, d("850").Equal(seven.Total.Purchase))

	eight := report.Packs[1]
	assert.True(t, d("300").Equal(eight.Total.Sales))
	assert.True(t, d("270").Equal(eight.Total.Purchase))

	assert.Equal(t, 250, report.Total.Cartons)
	assert.Equal(t, 2.0, report.Total.Containers)
	assert.True(t, d("1300").Equal(report.Total.Sales))
	assert.True(t, d("1120").Equal(report.Total.Purchase))
	assert.True(t, d("180").Equal(report.Total.Profit))
}

func TestAggregate_SinRegistros(t *testing.T) {
	report := pnl.Aggregate(entity.ItemBananas, 0, nil, book())
	assert.Empty(t, report.Packs)
	assert.Equal(t, 0, report.Total.Cartons)
	assert.True(t, report.Total.Sales.IsZero())
}
