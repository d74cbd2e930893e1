package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Productos exportados.
const (
	ItemBananas    = "BANANAS"
	ItemPineapples = "PINEAPPLES"
)

// Tipos de venta de un embarque.
const (
	TypeContract = "CONTRACT"
	TypeSpot     = "SPOT"
)

// ShippingRecord representa una línea de embarque: un pack de un proveedor dentro de un
// contenedor que sale en una fecha ETD. Varias líneas comparten (Container, ETD).
type ShippingRecord struct {
	ID          string
	Year        int
	Week        int
	ETD         time.Time
	POL         string // puerto de carga
	Item        string // BANANAS | PINEAPPLES
	Destination string // puerto de descarga (POD)
	Supplier    string
	SLine       string // naviera
	Container   string
	Pack        string
	LCont       float64 // fracción del contenedor (load count)
	Cartons     int
	Price       decimal.Decimal // precio heredado por registro
	Type        string          // CONTRACT | SPOT

	// Campos de factura (los completa el script de upsert por contenedor+ETD).
	InvoiceNo    string
	InvoiceDate  *time.Time
	CustomerName string
	BillingNo    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupKey devuelve la clave (contenedor, ETD) que agrupa las líneas de un mismo contenedor.
func (r *ShippingRecord) GroupKey() ContainerKey {
	return ContainerKey{Container: r.Container, ETD: r.ETD.Format(DateLayout)}
}

// ContainerKey identifica un movimiento de contenedor.
type ContainerKey struct {
	Container string
	ETD       string // YYYY-MM-DD
}

// DateLayout formato ISO usado para ETD y fechas de factura.
const DateLayout = "2006-01-02"

// InvoiceFields campos de factura que se adjuntan a todas las líneas de un contenedor+ETD.
type InvoiceFields struct {
	InvoiceNo    string
	InvoiceDate  *time.Time
	CustomerName string
	BillingNo    string
}
