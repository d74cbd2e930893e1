package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordColumns columnas visibles de la tabla de registros, en orden.
// El CSV exportado usa exactamente esta cabecera.
var RecordColumns = []string{
	"Year", "Week", "ETD", "POL", "Item", "Destination", "Supplier", "S.Line",
	"Container", "Pack", "L.Cont", "Cartons", "Price", "Type",
}

// RecordResponse fila de la tabla de registros.
type RecordResponse struct {
	ID           string          `json:"id"`
	Year         int             `json:"year"`
	Week         int             `json:"week"`
	ETD          string          `json:"etd"`
	POL          string          `json:"pol"`
	Item         string          `json:"item"`
	Destination  string          `json:"destination"`
	Supplier     string          `json:"supplier"`
	SLine        string          `json:"s_line"`
	Container    string          `json:"container"`
	Pack         string          `json:"pack"`
	LCont        float64         `json:"l_cont"`
	Cartons      int             `json:"cartons"`
	Price        decimal.Decimal `json:"price"`
	Type         string          `json:"type"`
	InvoiceNo    string          `json:"invoice_no,omitempty"`
	InvoiceDate  string          `json:"invoice_date,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	BillingNo    string          `json:"billing_no,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RecordCSVRow fila exportada; el orden de los campos es el de RecordColumns.
type RecordCSVRow struct {
	Year        int     `csv:"Year"`
	Week        int     `csv:"Week"`
	ETD         string  `csv:"ETD"`
	POL         string  `csv:"POL"`
	Item        string  `csv:"Item"`
	Destination string  `csv:"Destination"`
	Supplier    string  `csv:"Supplier"`
	SLine       string  `csv:"S.Line"`
	Container   string  `csv:"Container"`
	Pack        string  `csv:"Pack"`
	LCont       float64 `csv:"L.Cont"`
	Cartons     int     `csv:"Cartons"`
	Price       string  `csv:"Price"`
	Type        string  `csv:"Type"`
}

// RecordListResponse página de registros.
type RecordListResponse struct {
	Items []RecordResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// RecordFilterRequest filtros de la tabla (query string).
type RecordFilterRequest struct {
	Item      string `query:"item"`
	Year      int    `query:"year"`
	Week      int    `query:"week"`
	Supplier  string `query:"supplier"`
	Pack      string `query:"pack"`
	Container string `query:"container"`
	Type      string `query:"type"`
	InvoiceNo string `query:"invoice_no"`
	ETDFrom   string `query:"etd_from"`
	ETDTo     string `query:"etd_to"`
	PageRequest
}

// PackLine una línea de pack dentro del alta de un contenedor.
type PackLine struct {
	Supplier string          `json:"supplier"`
	Pack     string          `json:"pack"`
	Cartons  int             `json:"cartons"`
	Price    decimal.Decimal `json:"price"`
}

// ContainerEntryRequest alta de un contenedor con una o más líneas de pack.
type ContainerEntryRequest struct {
	Year        int        `json:"year"`
	Week        int        `json:"week"`
	ETD         string     `json:"etd"`
	POL         string     `json:"pol"`
	Item        string     `json:"item"`
	Destination string     `json:"destination"`
	SLine       string     `json:"s_line"`
	Container   string     `json:"container"`
	Type        string     `json:"type"`
	Lines       []PackLine `json:"lines"`
	// Force confirma el alta aunque ya existan registros del contenedor+ETD.
	Force bool `json:"force"`
}

// UpdateRecordRequest edición de una línea.
type UpdateRecordRequest struct {
	Year        int             `json:"year"`
	Week        int             `json:"week"`
	ETD         string          `json:"etd"`
	POL         string          `json:"pol"`
	Item        string          `json:"item"`
	Destination string          `json:"destination"`
	Supplier    string          `json:"supplier"`
	SLine       string          `json:"s_line"`
	Container   string          `json:"container"`
	Pack        string          `json:"pack"`
	Cartons     int             `json:"cartons"`
	Price       decimal.Decimal `json:"price"`
	Type        string          `json:"type"`
	InvoiceNo   string          `json:"invoice_no"`
	InvoiceDate string          `json:"invoice_date"`
	Customer    string          `json:"customer_name"`
	BillingNo   string          `json:"billing_no"`
}

// DuplicateCheckResponse resultado de la verificación de contenedor+ETD existente.
type DuplicateCheckResponse struct {
	Container string           `json:"container"`
	ETD       string           `json:"etd"`
	Exists    bool             `json:"exists"`
	Records   []RecordResponse `json:"records"`
}
