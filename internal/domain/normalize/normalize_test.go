package normalize_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
)

var names = normalize.CustomerNames{SB2025: "SB CUSTOMER", Default: "DEFAULT CUSTOMER"}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestContainer(t *testing.T) {
	assert.Equal(t, "MSCU1234567", normalize.Container("  mscu 123 4567\t"))
	assert.Equal(t, "", normalize.Container("   "))
}

func TestDate_Formatos(t *testing.T) {
	cases := map[string]time.Time{
		"45658":                day(2025, 1, 1),
		"45663.0":              day(2025, 1, 6),
		"45658.25":             day(2025, 1, 1),
		"45658.75":             day(2025, 1, 1),
		"2025-01-06":           day(2025, 1, 6),
		"2025/01/06":           day(2025, 1, 6),
		"01/06/2025":           day(2025, 1, 6),
		"1/6/2025":             day(2025, 1, 6),
		"06-Jan-2025":          day(2025, 1, 6),
		"Jan 6, 2025":          day(2025, 1, 6),
		"20250106":             day(2025, 1, 6),
		"2025-01-06T08:30:00Z": day(2025, 1, 6),
	}
	for in, want := range cases {
		got, err := normalize.Date(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s → %s", in, got)
	}
}

func TestDate_Invalida(t *testing.T) {
	_, err := normalize.Date("")
	assert.Error(t, err)
	_, err = normalize.Date("next tuesday")
	assert.Error(t, err)
	_, err = normalize.Date("-5")
	assert.Error(t, err)
}

func TestFromExcelSerial_Anterior1900Bisiesto(t *testing.T) {
	d, err := normalize.FromExcelSerial(1)
	require.NoError(t, err)
	assert.True(t, day(1900, 1, 1).Equal(d))

	d, err = normalize.FromExcelSerial(61)
	require.NoError(t, err)
	assert.True(t, day(1900, 3, 1).Equal(d))
}

func TestDateValue(t *testing.T) {
	d, err := normalize.DateValue(time.Date(2025, 2, 3, 15, 4, 5, 0, time.Local))
	require.NoError(t, err)
	assert.True(t, day(2025, 2, 3).Equal(d))

	d, err = normalize.DateValue(45658.0)
	require.NoError(t, err)
	assert.True(t, day(2025, 1, 1).Equal(d))

	_, err = normalize.DateValue(nil)
	assert.Error(t, err)
	_, err = normalize.DateValue(true)
	assert.Error(t, err)
}

func TestInferCustomer(t *testing.T) {
	assert.Equal(t, "SB CUSTOMER", normalize.InferCustomer("SB-2025-001", 2025, names))
	assert.Equal(t, "SB CUSTOMER", normalize.InferCustomer(" sb0012", 2025, names))
	assert.Equal(t, "DEFAULT CUSTOMER", normalize.InferCustomer("SB-2026-001", 2026, names))
	assert.Equal(t, "DEFAULT CUSTOMER", normalize.InferCustomer("PH-2025-001", 2025, names))
}

func TestShipment_FilaValida(t *testing.T) {
	res := normalize.Shipment(normalize.Row{
		normalize.ColETD:         "2025-03-10",
		normalize.ColItem:        "Bananas",
		normalize.ColSupplier:    "apr agri",
		normalize.ColContainer:   "mscu 1234567",
		normalize.ColPack:        "13.5kg a",
		normalize.ColCartons:     "1,080",
		normalize.ColPrice:       "8.65",
		normalize.ColType:        "spot",
		normalize.ColPOL:         "davao",
		normalize.ColDestination: "busan",
		normalize.ColSLine:       "msc",
	}, 2)
	require.True(t, res.OK(), "%v", res.Issues)
	r := res.Record
	assert.Equal(t, "MSCU1234567", r.Container)
	assert.Equal(t, "13.5 KG A", r.Pack)
	assert.Equal(t, entity.ItemBananas, r.Item)
	assert.Equal(t, "APR AGRI", r.Supplier)
	assert.Equal(t, 1080, r.Cartons)
	assert.True(t, decimal.RequireFromString("8.65").Equal(r.Price))
	assert.Equal(t, entity.TypeSpot, r.Type)
	assert.Equal(t, 2025, r.Year)
	assert.Equal(t, 11, r.Week)
}

func TestShipment_ReportaTodosLosProblemas(t *testing.T) {
	res := normalize.Shipment(normalize.Row{
		normalize.ColETD:     "sometime",
		normalize.ColItem:    "mangoes",
		normalize.ColCartons: "-3",
		normalize.ColType:    "BARTER",
	}, 7)
	assert.False(t, res.OK())
	assert.Nil(t, res.Record)
	assert.Equal(t, 7, res.Line)

	fields := map[string]bool{}
	for _, i := range res.Issues {
		fields[i.Field] = true
	}
	for _, f := range []string{
		normalize.ColContainer, normalize.ColSupplier, normalize.ColPack,
		normalize.ColETD, normalize.ColItem, normalize.ColCartons, normalize.ColType,
	} {
		assert.True(t, fields[f], "falta problema para %s", f)
	}
}

func TestInvoice_DeduceCliente(t *testing.T) {
	res := normalize.Invoice(normalize.Row{
		normalize.ColContainer:   "tghu 7654321",
		normalize.ColETD:         "45663",
		normalize.ColInvoiceNo:   "sb-0042",
		normalize.ColInvoiceDate: "2025-01-10",
		normalize.ColBillingNo:   "BL-99",
	}, 3, names)
	require.True(t, res.OK(), "%v", res.Issues)
	assert.Equal(t, entity.ContainerKey{Container: "TGHU7654321", ETD: "2025-01-06"}, res.Key)
	assert.Equal(t, "SB-0042", res.Fields.InvoiceNo)
	assert.Equal(t, "SB CUSTOMER", res.Fields.CustomerName)
	assert.True(t, res.Inferred)
	require.NotNil(t, res.Fields.InvoiceDate)
	assert.True(t, day(2025, 1, 10).Equal(*res.Fields.InvoiceDate))
}

func TestInvoice_ClienteExplicitoYErrores(t *testing.T) {
	res := normalize.Invoice(normalize.Row{
		normalize.ColContainer:    "TGHU7654321",
		normalize.ColETD:          "2025-01-06",
		normalize.ColInvoiceNo:    "SB-0042",
		normalize.ColCustomerName: "EXPLICIT LTD",
	}, 4, names)
	require.True(t, res.OK())
	assert.Equal(t, "EXPLICIT LTD", res.Fields.CustomerName)
	assert.False(t, res.Inferred)

	bad := normalize.Invoice(normalize.Row{normalize.ColETD: "??"}, 5, names)
	assert.False(t, bad.OK())
	assert.Len(t, bad.Issues, 3)
}
