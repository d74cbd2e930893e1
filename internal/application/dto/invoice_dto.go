package dto

import "github.com/shopspring/decimal"

// InvoiceSummaryDTO cabecera de una factura en el listado.
type InvoiceSummaryDTO struct {
	InvoiceNo    string `json:"invoice_no"`
	InvoiceDate  string `json:"invoice_date,omitempty"`
	CustomerName string `json:"customer_name"`
	BillingNo    string `json:"billing_no,omitempty"`
	Item         string `json:"item"`
	Containers   int    `json:"containers"`
	Cartons      int    `json:"cartons"`
}

// InvoiceLineDTO línea agrupada por descripción del pack.
type InvoiceLineDTO struct {
	Description string          `json:"description"`
	Packs       []string        `json:"packs"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	// MarginPriced true cuando el precio unitario es venta − compra.
	MarginPriced bool `json:"margin_priced,omitempty"`
}

// ShipmentDetailDTO datos de embarque impresos en la factura.
type ShipmentDetailDTO struct {
	Containers  []string `json:"containers"`
	ETD         string   `json:"etd"`
	POL         string   `json:"pol"`
	Destination string   `json:"destination"`
	SLine       string   `json:"s_line"`
}

// InvoiceDTO vista completa de una factura.
type InvoiceDTO struct {
	InvoiceNo    string            `json:"invoice_no"`
	InvoiceDate  string            `json:"invoice_date,omitempty"`
	CustomerName string            `json:"customer_name"`
	BillingNo    string            `json:"billing_no,omitempty"`
	Item         string            `json:"item"`
	Currency     string            `json:"currency"`
	Lines        []InvoiceLineDTO  `json:"lines"`
	TotalCartons int               `json:"total_cartons"`
	Total        decimal.Decimal   `json:"total"`
	Shipment     ShipmentDetailDTO `json:"shipment"`
}
