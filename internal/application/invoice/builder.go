// Package invoice arma la factura comercial como vista sobre los registros de embarque
// que comparten número de factura, y delega el PDF en un generador.
package invoice

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pack"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pricing"
)

type lineKey struct {
	description string
	unitPrice   string
}

// Build agrupa los registros de una factura por descripción de pack y precio unitario.
// quantity = Σ cartons; amount = quantity × unit price; total = Σ amounts.
func Build(invoiceNo string, records []*entity.ShippingRecord, book *pricing.PriceBook) *dto.InvoiceDTO {
	out := &dto.InvoiceDTO{InvoiceNo: invoiceNo, Total: decimal.Zero}
	lines := make(map[lineKey]*dto.InvoiceLineDTO)
	packsSeen := make(map[lineKey]map[string]bool)

	for _, r := range records {
		if out.Item == "" {
			out.Item = r.Item
		}
		if out.CustomerName == "" {
			out.CustomerName = r.CustomerName
		}
		if out.BillingNo == "" {
			out.BillingNo = r.BillingNo
		}
		if out.InvoiceDate == "" && r.InvoiceDate != nil {
			out.InvoiceDate = r.InvoiceDate.Format(entity.DateLayout)
		}

		res := book.Resolve(r)
		unit := pricing.InvoiceUnitPrice(res, r.Supplier, r.Year).Round(2)
		k := lineKey{description: pack.Describe(r.Item, r.Pack), unitPrice: unit.StringFixed(2)}
		l, ok := lines[k]
		if !ok {
			l = &dto.InvoiceLineDTO{
				Description:  k.description,
				UnitPrice:    unit,
				Amount:       decimal.Zero,
				MarginPriced: !unit.Equal(res.Sales.Round(2)),
			}
			lines[k] = l
			packsSeen[k] = make(map[string]bool)
		}
		l.Quantity += r.Cartons
		if !packsSeen[k][r.Pack] {
			packsSeen[k][r.Pack] = true
			l.Packs = append(l.Packs, r.Pack)
		}
		out.TotalCartons += r.Cartons
	}

	keys := make([]lineKey, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].description != keys[j].description {
			return keys[i].description < keys[j].description
		}
		return lines[keys[i]].UnitPrice.GreaterThan(lines[keys[j]].UnitPrice)
	})
	for _, k := range keys {
		l := lines[k]
		l.Amount = decimal.NewFromInt(int64(l.Quantity)).Mul(l.UnitPrice).Round(2)
		sort.Strings(l.Packs)
		out.Lines = append(out.Lines, *l)
		out.Total = out.Total.Add(l.Amount)
	}

	out.Shipment = shipmentDetail(records)
	return out
}

// shipmentDetail contenedores, ETD y puertos; valores distintos se unen con " / ".
func shipmentDetail(records []*entity.ShippingRecord) dto.ShipmentDetailDTO {
	containers := distinct(records, func(r *entity.ShippingRecord) string { return r.Container })
	return dto.ShipmentDetailDTO{
		Containers:  containers,
		ETD:         strings.Join(distinct(records, func(r *entity.ShippingRecord) string { return r.ETD.Format(entity.DateLayout) }), " / "),
		POL:         strings.Join(distinct(records, func(r *entity.ShippingRecord) string { return r.POL }), " / "),
		Destination: strings.Join(distinct(records, func(r *entity.ShippingRecord) string { return r.Destination }), " / "),
		SLine:       strings.Join(distinct(records, func(r *entity.ShippingRecord) string { return r.SLine }), " / "),
	}
}

func distinct(records []*entity.ShippingRecord, field func(*entity.ShippingRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
