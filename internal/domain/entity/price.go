package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesPrice precio de venta por pack y año. Supplier nil significa precio uniforme
// para todos los proveedores de ese pack.
type SalesPrice struct {
	ID         string
	Item       string
	Pack       string
	Supplier   *string
	Year       int
	SalesPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsUniform indica si el precio aplica a todos los proveedores.
func (p *SalesPrice) IsUniform() bool {
	return p.Supplier == nil || *p.Supplier == ""
}

// PurchasePrice precio de compra por pack, proveedor y año (proveedor obligatorio).
type PurchasePrice struct {
	ID            string
	Item          string
	Pack          string
	Supplier      string
	Year          int
	PurchasePrice decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
