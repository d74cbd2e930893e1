// Package pricing resuelve precios de venta y compra de una línea de embarque a partir de
// las tablas sales_prices y purchase_prices.
package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pack"
)

// SalesSource origen del precio de venta resuelto.
type SalesSource string

const (
	SourceSupplier SalesSource = "SUPPLIER" // precio específico del proveedor
	SourceUniform  SalesSource = "UNIFORM"  // precio uniforme del pack
	SourceRecord   SalesSource = "RECORD"   // precio heredado del propio registro
)

// EstimatedPurchaseRatio fracción del precio de venta usada cuando no hay precio de compra.
var EstimatedPurchaseRatio = decimal.NewFromFloat(0.9)

// marginInvoiceYear y marginInvoiceSuppliers: en 2026 estas facturas se emiten por el margen.
const marginInvoiceYear = 2026

var marginInvoiceSuppliers = map[string]bool{
	"LAPANDAY": true,
	"MARSMAN":  true,
}

// Resolution precios resueltos para una línea.
type Resolution struct {
	Sales             decimal.Decimal `json:"sales_price"`
	Purchase          decimal.Decimal `json:"purchase_price"`
	SalesSource       SalesSource     `json:"sales_source"`
	PurchaseEstimated bool            `json:"purchase_estimated"`
}

// Margin precio de venta menos precio de compra.
func (r Resolution) Margin() decimal.Decimal {
	return r.Sales.Sub(r.Purchase)
}

// PriceBook vista inmutable de las tablas de precios para una selección (producto, años).
// Se construye en cada consulta; no se guarda entre peticiones.
type PriceBook struct {
	sales    map[string]decimal.Decimal
	purchase map[string]decimal.Decimal
}

// NewPriceBook indexa las filas de precios. Si hay filas repetidas gana la última.
func NewPriceBook(sales []*entity.SalesPrice, purchases []*entity.PurchasePrice) *PriceBook {
	b := &PriceBook{
		sales:    make(map[string]decimal.Decimal, len(sales)),
		purchase: make(map[string]decimal.Decimal, len(purchases)),
	}
	for _, p := range sales {
		if p.IsUniform() {
			b.sales[uniformKey(p.Item, p.Pack, p.Year)] = p.SalesPrice
			continue
		}
		b.sales[supplierKey(p.Item, p.Pack, *p.Supplier, p.Year)] = p.SalesPrice
	}
	for _, p := range purchases {
		b.purchase[supplierKey(p.Item, p.Pack, p.Supplier, p.Year)] = p.PurchasePrice
	}
	return b
}

// Resolve resuelve los precios de un registro.
func (b *PriceBook) Resolve(r *entity.ShippingRecord) Resolution {
	return b.ResolveFor(r.Item, r.Pack, r.Supplier, r.Year, r.Price)
}

// ResolveFor orden de venta: proveedor → uniforme → precio heredado.
// Compra: proveedor → 90% del precio de venta resuelto.
func (b *PriceBook) ResolveFor(item, packCode, supplier string, year int, legacy decimal.Decimal) Resolution {
	var res Resolution
	if v, ok := b.sales[supplierKey(item, packCode, supplier, year)]; ok {
		res.Sales, res.SalesSource = v, SourceSupplier
	} else if v, ok := b.sales[uniformKey(item, packCode, year)]; ok {
		res.Sales, res.SalesSource = v, SourceUniform
	} else {
		res.Sales, res.SalesSource = legacy, SourceRecord
	}

	if v, ok := b.purchase[supplierKey(item, packCode, supplier, year)]; ok {
		res.Purchase = v
	} else {
		res.Purchase = res.Sales.Mul(EstimatedPurchaseRatio)
		res.PurchaseEstimated = true
	}
	return res
}

// InvoiceUnitPrice precio unitario que se imprime en la factura. Para LAPANDAY y MARSMAN
// en 2026 se factura el margen (venta − compra); para el resto, el precio de venta.
func InvoiceUnitPrice(res Resolution, supplier string, year int) decimal.Decimal {
	if year == marginInvoiceYear && marginInvoiceSuppliers[normalize(supplier)] {
		return res.Margin()
	}
	return res.Sales
}

func supplierKey(item, packCode, supplier string, year int) string {
	return normalize(item) + "|" + pack.NormalizeCode(packCode) + "|" + normalize(supplier) + "|" + strconv.Itoa(year)
}

func uniformKey(item, packCode string, year int) string {
	return normalize(item) + "|" + pack.NormalizeCode(packCode) + "|" + strconv.Itoa(year)
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
