package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesPriceRequest alta/edición de precio de venta. Supplier vacío = precio uniforme.
type SalesPriceRequest struct {
	Item       string          `json:"item"`
	Pack       string          `json:"pack"`
	Supplier   string          `json:"supplier"`
	Year       int             `json:"year"`
	SalesPrice decimal.Decimal `json:"sales_price"`
}

// SalesPriceResponse precio de venta.
type SalesPriceResponse struct {
	ID         string          `json:"id"`
	Item       string          `json:"item"`
	Pack       string          `json:"pack"`
	Supplier   *string         `json:"supplier"`
	Year       int             `json:"year"`
	SalesPrice decimal.Decimal `json:"sales_price"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PurchasePriceRequest alta/edición de precio de compra.
type PurchasePriceRequest struct {
	Item          string          `json:"item"`
	Pack          string          `json:"pack"`
	Supplier      string          `json:"supplier"`
	Year          int             `json:"year"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// PurchasePriceResponse precio de compra.
type PurchasePriceResponse struct {
	ID            string          `json:"id"`
	Item          string          `json:"item"`
	Pack          string          `json:"pack"`
	Supplier      string          `json:"supplier"`
	Year          int             `json:"year"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
