package invoice

import (
	"context"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
)

// PDFGenerator genera el documento de la factura comercial.
type PDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *dto.InvoiceDTO) ([]byte, error)
}

// PriceBookLoader arma el libro de precios.
type PriceBookLoader interface {
	Book(ctx context.Context, item string, years []int) (*pricing.PriceBook, error)
}
