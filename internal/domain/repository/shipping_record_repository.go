package repository

import (
	"context"
	"time"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// RecordFilter filtros de la tabla de registros. Los campos vacíos no filtran.
type RecordFilter struct {
	Item      string
	Year      int
	Week      int
	Supplier  string
	Pack      string
	Container string
	Type      string
	InvoiceNo string
	ETDFrom   *time.Time
	ETDTo     *time.Time
	Limit     int // 0 = sin límite
	Offset    int
}

// InvoiceSummary cabecera derivada de una factura (vista sobre shipping_records).
type InvoiceSummary struct {
	InvoiceNo    string
	InvoiceDate  *time.Time
	CustomerName string
	BillingNo    string
	Item         string
	Containers   int
	Cartons      int
}

// ShippingRecordRepository puerto de persistencia de shipping_records.
type ShippingRecordRepository interface {
	Create(ctx context.Context, record *entity.ShippingRecord) error
	Update(ctx context.Context, record *entity.ShippingRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.ShippingRecord, error)
	List(ctx context.Context, f RecordFilter) ([]*entity.ShippingRecord, error)
	Count(ctx context.Context, f RecordFilter) (int, error)
	// ListByContainer devuelve las líneas de un contenedor en una ETD.
	ListByContainer(ctx context.Context, key entity.ContainerKey) ([]*entity.ShippingRecord, error)
	// UpdateLoadCounts persiste solo l_cont de cada registro.
	UpdateLoadCounts(ctx context.Context, records []*entity.ShippingRecord) error
	// UpdateInvoiceFields adjunta los datos de factura a todas las líneas del contenedor+ETD
	// y devuelve cuántas filas cambió.
	UpdateInvoiceFields(ctx context.Context, key entity.ContainerKey, fields entity.InvoiceFields) (int64, error)
	ListInvoices(ctx context.Context, item string) ([]InvoiceSummary, error)
	DistinctPacks(ctx context.Context, item string) ([]string, error)
	DistinctSuppliers(ctx context.Context, item string) ([]string, error)
}

// RecordSource fuente de solo lectura con todos los registros (validación offline).
type RecordSource interface {
	ListAll(ctx context.Context) ([]*entity.ShippingRecord, error)
}
