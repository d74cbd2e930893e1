package invoice

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// UseCase consulta facturas y genera su PDF.
type UseCase struct {
	records   repository.ShippingRecordRepository
	prices    PriceBookLoader
	generator PDFGenerator
	currency  string
}

// NewUseCase construye el caso de uso.
func NewUseCase(records repository.ShippingRecordRepository, prices PriceBookLoader, generator PDFGenerator, currency string) *UseCase {
	return &UseCase{records: records, prices: prices, generator: generator, currency: currency}
}

// List devuelve las cabeceras de factura del producto (vacío = todos).
func (uc *UseCase) List(ctx context.Context, item string) ([]dto.InvoiceSummaryDTO, error) {
	rows, err := uc.records.ListInvoices(ctx, strings.ToUpper(strings.TrimSpace(item)))
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceSummaryDTO, 0, len(rows))
	for _, s := range rows {
		d := dto.InvoiceSummaryDTO{
			InvoiceNo:    s.InvoiceNo,
			CustomerName: s.CustomerName,
			BillingNo:    s.BillingNo,
			Item:         s.Item,
			Containers:   s.Containers,
			Cartons:      s.Cartons,
		}
		if s.InvoiceDate != nil {
			d.InvoiceDate = s.InvoiceDate.Format(entity.DateLayout)
		}
		out = append(out, d)
	}
	return out, nil
}

// Get arma la factura completa. ErrNotFound si ningún registro tiene ese número.
func (uc *UseCase) Get(ctx context.Context, invoiceNo string) (*dto.InvoiceDTO, error) {
	invoiceNo = strings.ToUpper(strings.TrimSpace(invoiceNo))
	if invoiceNo == "" {
		return nil, fmt.Errorf("%w: número de factura requerido", domain.ErrInvalidInput)
	}
	rows, err := uc.records.List(ctx, repository.RecordFilter{InvoiceNo: invoiceNo})
	if err != nil {
		return nil, fmt.Errorf("invoice: registros: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	book, err := uc.prices.Book(ctx, bookItem(rows), years(rows))
	if err != nil {
		return nil, fmt.Errorf("invoice: precios: %w", err)
	}
	inv := Build(invoiceNo, rows, book)
	inv.Currency = uc.currency
	return inv, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// DownloadPDF genera el PDF de la factura y el nombre de archivo sugerido.
func (uc *UseCase) DownloadPDF(ctx context.Context, invoiceNo string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.Get(ctx, invoiceNo)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("invoice_%s.pdf", unsafeFilename.ReplaceAllString(inv.InvoiceNo, "_"))
	return pdfBytes, filename, nil
}

// bookItem devuelve el producto común de la factura, o "" (todos) si mezcla productos.
func bookItem(rows []*entity.ShippingRecord) string {
	item := rows[0].Item
	for _, r := range rows[1:] {
		if r.Item != item {
			return ""
		}
	}
	return item
}

func years(rows []*entity.ShippingRecord) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range rows {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	sort.Ints(out)
	return out
}
