package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func bananaBook() *pricing.PriceBook {
	return pricing.NewPriceBook(
		[]*entity.SalesPrice{
			{Item: entity.ItemBananas, Pack: "13.5 KG A", Supplier: strPtr("LAPANDAY"), Year: 2025, SalesPrice: dec("9.00")},
			{Item: entity.ItemBananas, Pack: "13.5 KG A", Supplier: nil, Year: 2025, SalesPrice: dec("8.65")},
			{Item: entity.ItemBananas, Pack: "13.5 KG B", Supplier: strPtr("MARSMAN"), Year: 2026, SalesPrice: dec("10.00")},
		},
		[]*entity.PurchasePrice{
			{Item: entity.ItemBananas, Pack: "13.5 KG A", Supplier: "LAPANDAY", Year: 2025, PurchasePrice: dec("7.50")},
			{Item: entity.ItemBananas, Pack: "13.5 KG B", Supplier: "MARSMAN", Year: 2026, PurchasePrice: dec("8.20")},
		},
	)
}

func TestResolve_PrecioEspecificoDelProveedor(t *testing.T) {
	res := bananaBook().ResolveFor(entity.ItemBananas, "13.5 KG A", "LAPANDAY", 2025, decimal.Zero)
	assert.True(t, dec("9.00").Equal(res.Sales), "got %s", res.Sales)
	assert.Equal(t, pricing.SourceSupplier, res.SalesSource)
	assert.True(t, dec("7.50").Equal(res.Purchase))
	assert.False(t, res.PurchaseEstimated)
}

func TestResolve_PrecioUniformeParaOtroProveedor(t *testing.T) {
	res := bananaBook().ResolveFor(entity.ItemBananas, "13.5 KG A", "APR AGRI", 2025, decimal.Zero)
	assert.True(t, dec("8.65").Equal(res.Sales), "got %s", res.Sales)
	assert.Equal(t, pricing.SourceUniform, res.SalesSource)
}

func TestResolve_SoloEspecificoSinUniforme(t *testing.T) {
	book := pricing.NewPriceBook([]*entity.SalesPrice{
		{Item: entity.ItemBananas, Pack: "13.5 KG A", Supplier: strPtr("LAPANDAY"), Year: 2025, SalesPrice: dec("9.00")},
	}, nil)
	res := book.ResolveFor(entity.ItemBananas, "13.5 KG A", "LAPANDAY", 2025, dec("1.00"))
	assert.True(t, dec("9.00").Equal(res.Sales))
}

func TestResolve_CaeAlPrecioDelRegistro(t *testing.T) {
	rec := &entity.ShippingRecord{
		Item: entity.ItemBananas, Pack: "18 KG A", Supplier: "APR AGRI", Year: 2025, Price: dec("11.25"),
	}
	res := bananaBook().Resolve(rec)
	assert.True(t, dec("11.25").Equal(res.Sales))
	assert.Equal(t, pricing.SourceRecord, res.SalesSource)
}

func TestResolve_CompraEstimadaNoventaPorCiento(t *testing.T) {
	book := pricing.NewPriceBook([]*entity.SalesPrice{
		{Item: entity.ItemPineapples, Pack: "7C", Year: 2025, SalesPrice: dec("10.00")},
	}, nil)
	res := book.ResolveFor(entity.ItemPineapples, "7C", "APR AGRI", 2025, decimal.Zero)
	assert.True(t, dec("9.00").Equal(res.Purchase), "got %s", res.Purchase)
	assert.True(t, res.PurchaseEstimated)
}

func TestResolve_NormalizaPackYProveedor(t *testing.T) {
	res := bananaBook().ResolveFor("bananas", "13.5kg a", " lapanday ", 2025, decimal.Zero)
	assert.Equal(t, pricing.SourceSupplier, res.SalesSource)
}

func TestInvoiceUnitPrice_MargenParaLapandayMarsman2026(t *testing.T) {
	book := bananaBook()
	res := book.ResolveFor(entity.ItemBananas, "13.5 KG B", "MARSMAN", 2026, decimal.Zero)
	assert.True(t, dec("1.80").Equal(pricing.InvoiceUnitPrice(res, "MARSMAN", 2026)))

	res2025 := book.ResolveFor(entity.ItemBananas, "13.5 KG A", "LAPANDAY", 2025, decimal.Zero)
	assert.True(t, dec("9.00").Equal(pricing.InvoiceUnitPrice(res2025, "LAPANDAY", 2025)),
		"fuera de 2026 se factura el precio de venta")

	other := book.ResolveFor(entity.ItemBananas, "13.5 KG A", "APR AGRI", 2026, dec("8.00"))
	assert.True(t, dec("8.00").Equal(pricing.InvoiceUnitPrice(other, "APR AGRI", 2026)))
}
