// Package normalize convierte filas crudas de hojas de cálculo en registros tipados.
// Cada conversión devuelve el resultado junto con la lista de problemas encontrados;
// una fila con problemas no se persiste.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pack"
)

// Columnas lógicas reconocidas en las hojas de importación.
const (
	ColYear         = "year"
	ColWeek         = "week"
	ColETD          = "etd"
	ColPOL          = "pol"
	ColItem         = "item"
	ColDestination  = "destination"
	ColSupplier     = "supplier"
	ColSLine        = "s_line"
	ColContainer    = "container"
	ColPack         = "pack"
	ColCartons      = "cartons"
	ColPrice        = "price"
	ColType         = "type"
	ColInvoiceNo    = "invoice_no"
	ColInvoiceDate  = "invoice_date"
	ColCustomerName = "customer_name"
	ColBillingNo    = "billing_no"
)

// Row valores de una fila indexados por columna lógica.
type Row map[string]string

// Get devuelve el valor recortado de una columna.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// ParseError problema de conversión de un campo.
type ParseError struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s=%q: %s", e.Field, e.Value, e.Reason)
}

// ShipmentResult resultado de convertir una fila de embarque.
type ShipmentResult struct {
	Line   int
	Record *entity.ShippingRecord
	Issues []ParseError
}

// OK indica que la fila se puede persistir.
func (r ShipmentResult) OK() bool { return len(r.Issues) == 0 }

// InvoiceResult resultado de convertir una fila de datos de factura.
type InvoiceResult struct {
	Line     int
	Key      entity.ContainerKey
	Fields   entity.InvoiceFields
	Inferred bool // el cliente se dedujo del prefijo de la factura
	Issues   []ParseError
}

// OK indica que la fila se puede aplicar.
func (r InvoiceResult) OK() bool { return len(r.Issues) == 0 }

// CustomerNames nombres de cliente usados al deducirlo del número de factura.
type CustomerNames struct {
	SB2025  string // facturas con prefijo SB emitidas en 2025
	Default string
}

var whitespace = regexp.MustCompile(`\s+`)

// Container normaliza un número de contenedor: mayúsculas y sin espacios.
func Container(s string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(s), "")
}

// InferCustomer deduce el cliente a partir del prefijo del número de factura.
func InferCustomer(invoiceNo string, year int, names CustomerNames) string {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(invoiceNo)), "SB") && year == 2025 {
		return names.SB2025
	}
	return names.Default
}

// Item normaliza el nombre de producto.
func Item(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BANANA", "BANANAS", "CAVENDISH":
		return entity.ItemBananas, true
	case "PINEAPPLE", "PINEAPPLES", "PINE":
		return entity.ItemPineapples, true
	}
	return "", false
}

// Shipment convierte una fila en un ShippingRecord. LCont queda en 0: lo asigna el
// llamador al agrupar por contenedor+ETD.
func Shipment(row Row, line int) ShipmentResult {
	res := ShipmentResult{Line: line}
	fail := func(field, value, reason string) {
		res.Issues = append(res.Issues, ParseError{Field: field, Value: value, Reason: reason})
	}

	rec := &entity.ShippingRecord{
		POL:         strings.ToUpper(row.Get(ColPOL)),
		Destination: strings.ToUpper(row.Get(ColDestination)),
		Supplier:    strings.ToUpper(row.Get(ColSupplier)),
		SLine:       strings.ToUpper(row.Get(ColSLine)),
		Container:   Container(row.Get(ColContainer)),
		Pack:        pack.NormalizeCode(row.Get(ColPack)),
		Type:        entity.TypeContract,
		Price:       decimal.Zero,
	}

	if rec.Container == "" {
		fail(ColContainer, "", "requerido")
	}
	if rec.Supplier == "" {
		fail(ColSupplier, "", "requerido")
	}
	if rec.Pack == "" {
		fail(ColPack, "", "requerido")
	}

	if etd, err := Date(row.Get(ColETD)); err != nil {
		fail(ColETD, row.Get(ColETD), err.Error())
	} else {
		rec.ETD = etd
	}

	if item, ok := Item(row.Get(ColItem)); ok {
		rec.Item = item
	} else {
		fail(ColItem, row.Get(ColItem), "producto desconocido")
	}

	if v := row.Get(ColCartons); v == "" {
		fail(ColCartons, "", "requerido")
	} else if n, err := parseInt(v); err != nil || n < 0 {
		fail(ColCartons, v, "entero no negativo esperado")
	} else {
		rec.Cartons = n
	}

	if v := row.Get(ColPrice); v != "" {
		p, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
		if err != nil {
			fail(ColPrice, v, "número inválido")
		} else {
			rec.Price = p
		}
	}

	switch t := strings.ToUpper(row.Get(ColType)); t {
	case "", entity.TypeContract:
	case entity.TypeSpot:
		rec.Type = entity.TypeSpot
	default:
		fail(ColType, t, "se espera CONTRACT o SPOT")
	}

	rec.Year = rec.ETD.Year()
	if v := row.Get(ColYear); v != "" {
		if n, err := parseInt(v); err != nil {
			fail(ColYear, v, "año inválido")
		} else {
			rec.Year = n
		}
	}
	_, rec.Week = rec.ETD.ISOWeek()
	if v := row.Get(ColWeek); v != "" {
		if n, err := parseInt(v); err != nil || n < 1 || n > 53 {
			fail(ColWeek, v, "semana fuera de rango")
		} else {
			rec.Week = n
		}
	}

	if res.OK() {
		res.Record = rec
	}
	return res
}

// Invoice convierte una fila de datos de factura. El cliente se deduce del número de
// factura cuando la hoja no trae esa columna o viene vacía.
func Invoice(row Row, line int, names CustomerNames) InvoiceResult {
	res := InvoiceResult{Line: line}
	fail := func(field, value, reason string) {
		res.Issues = append(res.Issues, ParseError{Field: field, Value: value, Reason: reason})
	}

	res.Key.Container = Container(row.Get(ColContainer))
	if res.Key.Container == "" {
		fail(ColContainer, "", "requerido")
	}
	etd, err := Date(row.Get(ColETD))
	if err != nil {
		fail(ColETD, row.Get(ColETD), err.Error())
	} else {
		res.Key.ETD = etd.Format(entity.DateLayout)
	}

	res.Fields.InvoiceNo = strings.ToUpper(row.Get(ColInvoiceNo))
	if res.Fields.InvoiceNo == "" {
		fail(ColInvoiceNo, "", "requerido")
	}
	res.Fields.BillingNo = row.Get(ColBillingNo)

	year := etd.Year()
	if v := row.Get(ColInvoiceDate); v != "" {
		d, err := Date(v)
		if err != nil {
			fail(ColInvoiceDate, v, err.Error())
		} else {
			res.Fields.InvoiceDate = &d
			year = d.Year()
		}
	}

	res.Fields.CustomerName = row.Get(ColCustomerName)
	if res.Fields.CustomerName == "" {
		res.Fields.CustomerName = InferCustomer(res.Fields.InvoiceNo, year, names)
		res.Inferred = true
	}
	return res
}

// ── Fechas ────────────────────────────────────────────────────────────────────

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1/2/06",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// excelEpoch día cero del sistema de fechas 1900 de Excel, ya corrido por el falso
// 29/02/1900 que Excel cuenta como serial 60.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date interpreta seriales de Excel, fechas ISO y los formatos de texto habituales de
// las planillas. Devuelve la fecha a medianoche UTC.
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "-/+eE") && !isCompactDate(s) {
		return FromExcelSerial(f)
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha no reconocida")
}

// isCompactDate reconoce AAAAMMDD: ocho dígitos sin punto decimal.
func isCompactDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FromExcelSerial convierte un serial de Excel (sistema 1900) en fecha.
func FromExcelSerial(serial float64) (time.Time, error) {
	if serial < 1 || serial > 2958465 { // 9999-12-31
		return time.Time{}, fmt.Errorf("serial de Excel fuera de rango")
	}
	days := int(math.Floor(serial))
	if days < 60 {
		// antes del falso 29/02/1900 el desfase es un día menor
		days++
	}
	return excelEpoch.AddDate(0, 0, days), nil
}

// DateValue acepta el valor de una celda ya tipada (time.Time, número o texto).
func DateValue(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC), nil
	case float64:
		return FromExcelSerial(x)
	case int:
		return FromExcelSerial(float64(x))
	case string:
		return Date(x)
	case nil:
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	return time.Time{}, fmt.Errorf("tipo de celda no soportado %T", v)
}

func parseInt(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("entero inválido")
	}
	return int(f), nil
}
