// Package pdf implementa la factura comercial de exportación con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Exportador + dirección  │  COMMERCIAL INVOICE N°    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: Cliente + billing no.                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cajas | P.Unit | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  SHIPPING DETAILS: contenedores, ETD, POL, POD, naviera      │
//	│  BANK DETAILS: beneficiario, banco, cuenta, SWIFT            │
//	│  FIRMA                                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/application/invoice"
	appconfig "github.com/jhoicas/shipping-dashboard/pkg/config"
)

var _ invoice.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 50}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa invoice.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	seller appconfig.InvoiceConfig
	p      *message.Printer
}

// NewMarotoPDFGenerator construye el generador con los datos fijos del exportador.
func NewMarotoPDFGenerator(seller appconfig.InvoiceConfig) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{seller: seller, p: message.NewPrinter(language.English)}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, inv *dto.InvoiceDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Commercial Invoice "+inv.InvoiceNo, true).
		WithAuthor(g.seller.SellerName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(inv.Currency))
	m.AddRows(g.tableDetailRows(inv.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(inv))

	m.AddRows(row.New(4))
	m.AddRows(shippingRows(inv.Shipment)...)
	m.AddRows(row.New(4))
	m.AddRows(g.bankRows()...)
	m.AddRows(row.New(10))
	m.AddRows(g.signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: exportador (izq) y número/fecha de factura (der).
func (g *MarotoPDFGenerator) headerRow(inv *dto.InvoiceDTO) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(g.seller.SellerName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(g.seller.SellerAddress, ""), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New(labelled("TAX ID", g.seller.SellerTaxID), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMMERCIAL INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("No. "+inv.InvoiceNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+nonEmpty(inv.InvoiceDate, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

// billToRow: cliente y número de billing.
func billToRow(inv *dto.InvoiceDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(inv.CustomerName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New(labelled("Billing No.", inv.BillingNo), props.Text{
				Size: 8, Align: align.Right, Top: 6, Color: colorGray,
			}),
			text.New("Product: "+inv.Item, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow(currency string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Description of goods", 6, align.Left),
		h("Cartons", 2, align.Center),
		h("Unit price ("+currency+")", 2, align.Right),
		h("Amount ("+currency+")", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea agrupada.
func (g *MarotoPDFGenerator) tableDetailRows(lines []dto.InvoiceLineDTO) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.quantity(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalRow: total de cajas y total a pagar.
func (g *MarotoPDFGenerator) totalRow(inv *dto.InvoiceDTO) core.Row {
	bold := props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}
	return row.New(10).Add(
		col.New(6).Add(text.New("TOTAL", withAlign(bold, align.Right))),
		col.New(2).Add(text.New(g.quantity(inv.TotalCartons), withAlign(bold, align.Center))),
		col.New(2),
		col.New(2).Add(text.New(inv.Currency+" "+g.money(inv.Total), withAlign(bold, align.Right))),
	)
}

// shippingRows: contenedores, ETD y puertos.
func shippingRows(s dto.ShipmentDetailDTO) []core.Row {
	rows := []core.Row{sectionTitle("SHIPPING DETAILS")}
	for _, kv := range [][2]string{
		{"Container(s)", strings.Join(s.Containers, ", ")},
		{"ETD", s.ETD},
		{"Port of loading", s.POL},
		{"Port of discharge", s.Destination},
		{"Shipping line", s.SLine},
	} {
		rows = append(rows, detailRow(kv[0], kv[1]))
	}
	return rows
}

// bankRows: datos bancarios del beneficiario.
func (g *MarotoPDFGenerator) bankRows() []core.Row {
	rows := []core.Row{sectionTitle("BENEFICIARY BANK DETAILS")}
	for _, kv := range [][2]string{
		{"Beneficiary", nonEmpty(g.seller.Beneficiary, g.seller.SellerName)},
		{"Bank", g.seller.BankName},
		{"Bank address", g.seller.BankAddress},
		{"Account No.", g.seller.BankAccount},
		{"SWIFT", g.seller.BankSwift},
	} {
		rows = append(rows, detailRow(kv[0], kv[1]))
	}
	return rows
}

// signatureRow: línea de firma a la derecha.
func (g *MarotoPDFGenerator) signatureRow() core.Row {
	return row.New(18).Add(
		col.New(7),
		col.New(5).Add(
			text.New("______________________________", props.Text{Align: align.Center, Top: 2}),
			text.New(nonEmpty(g.seller.Signatory, "Authorized signature"), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 8,
			}),
			text.New("For and on behalf of "+g.seller.SellerName, props.Text{
				Size: 7, Align: align.Center, Top: 12, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sectionTitle(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(s, props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	})))
}

func detailRow(label, value string) core.Row {
	return row.New(5).Add(
		col.New(3).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 8, Left: 2})),
		col.New(9).Add(text.New(nonEmpty(value, "—"), props.Text{Size: 8, Color: colorGray})),
	)
}

func withAlign(t props.Text, a align.Type) props.Text {
	t.Align = a
	return t
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles y dos decimales: 12345.6 → "12,345.60".
func (g *MarotoPDFGenerator) money(v decimal.Decimal) string {
	return g.p.Sprintf("%.2f", v.Round(2).InexactFloat64())
}

func (g *MarotoPDFGenerator) quantity(n int) string {
	return g.p.Sprintf("%d", n)
}
