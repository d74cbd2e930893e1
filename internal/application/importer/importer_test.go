package importer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/application/apptest"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
)

var customers = normalize.CustomerNames{SB2025: "SEOUL BANANA CO", Default: "KOREA FRESH LTD"}

func etd(s string) time.Time {
	t, _ := time.Parse(entity.DateLayout, s)
	return t
}

func stored(id, container, day string, cartons int, lcont float64) *entity.ShippingRecord {
	return &entity.ShippingRecord{
		ID: id, Year: 2025, Week: 10, ETD: etd(day), Item: entity.ItemBananas, Supplier: "REYBANPAC",
		Container: container, Pack: "13.5 KG A", Cartons: cartons, LCont: lcont, Type: entity.TypeContract,
	}
}

func invoiceRow(line int, container, day, invoiceNo string) Row {
	return Row{Line: line, Values: normalize.Row{
		normalize.ColContainer: container,
		normalize.ColETD:       day,
		normalize.ColInvoiceNo: invoiceNo,
	}}
}

// ── Upsert de facturas ──

func TestInvoiceUpserter_ActualizaCuentaYDescarta(t *testing.T) {
	store := apptest.NewRecordStore(
		stored("a", "MSKU1234567", "2025-03-03", 600, 0.5),
		stored("b", "MSKU1234567", "2025-03-03", 600, 0.5),
	)
	up := NewInvoiceUpserter(store, nil, InvoiceOptions{Customers: customers})

	sum, err := up.Run(context.Background(), []Row{
		invoiceRow(2, "msku 1234567", "2025-03-03", "sb-0001"),
		invoiceRow(3, "TGHU0000001", "2025-03-03", "SB-0002"),
		invoiceRow(4, "TGHU0000002", "2025-03-03", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Rows)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, int64(2), sum.RowsTouched)
	assert.Equal(t, 1, sum.NotFound)
	assert.Equal(t, 0, sum.Failed)
	require.Len(t, sum.Rejected, 1)
	assert.Equal(t, 4, sum.Rejected[0].Line)
	assert.Equal(t, normalize.ColInvoiceNo, sum.Rejected[0].Issues[0].Field)

	for _, r := range store.All() {
		assert.Equal(t, "SB-0001", r.InvoiceNo)
		assert.Equal(t, "SEOUL BANANA CO", r.CustomerName)
	}
}

func TestInvoiceUpserter_DryRunNoEscribe(t *testing.T) {
	store := apptest.NewRecordStore(stored("a", "MSKU1234567", "2025-03-03", 600, 1))
	up := NewInvoiceUpserter(store, nil, InvoiceOptions{DryRun: true, Customers: customers})

	sum, err := up.Run(context.Background(), []Row{invoiceRow(2, "MSKU1234567", "2025-03-03", "INV-9")})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)
	assert.Empty(t, store.All()[0].InvoiceNo)
}

func TestInvoiceUpserter_PausaEntreLotes(t *testing.T) {
	store := apptest.NewRecordStore()
	up := NewInvoiceUpserter(store, nil, InvoiceOptions{BatchSize: 2, Pause: 100 * time.Millisecond})
	var pauses []time.Duration
	up.sleep = func(_ context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}

	rows := make([]Row, 5)
	for i := range rows {
		rows[i] = invoiceRow(i+2, fmt.Sprintf("MSKU000000%d", i), "2025-03-03", "INV-1")
	}
	sum, err := up.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.NotFound)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, pauses)
}

func TestInvoiceUpserter_RLSMarcaPermisoDenegado(t *testing.T) {
	store := apptest.NewRecordStore(stored("a", "MSKU1234567", "2025-03-03", 600, 1))
	store.Err = fmt.Errorf("update invoice fields: %w", domain.ErrPermissionDenied)
	up := NewInvoiceUpserter(store, nil, InvoiceOptions{})

	sum, err := up.Run(context.Background(), []Row{
		invoiceRow(2, "MSKU1234567", "2025-03-03", "INV-1"),
		invoiceRow(3, "MSKU1234567", "2025-03-03", "INV-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Failed)
	assert.True(t, sum.PermissionDenied)
}

func TestInvoiceUpserter_UpdateFiltradoPorRLS(t *testing.T) {
	store := apptest.NewRecordStore(
		stored("a", "MSKU1234567", "2025-03-03", 600, 0.5),
		stored("b", "MSKU1234567", "2025-03-03", 600, 0.5),
	)
	store.ReadOnly = true
	up := NewInvoiceUpserter(store, nil, InvoiceOptions{Customers: customers})

	sum, err := up.Run(context.Background(), []Row{
		invoiceRow(2, "MSKU1234567", "2025-03-03", "INV-1"),
		invoiceRow(3, "TGHU0000001", "2025-03-03", "INV-2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.NotFound)
	assert.Equal(t, 0, sum.Updated)
	assert.True(t, sum.PermissionDenied)
	assert.Empty(t, store.All()[0].InvoiceNo)
}

func TestInvoiceUpserter_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	up := NewInvoiceUpserter(apptest.NewRecordStore(), nil, InvoiceOptions{})

	_, err := up.Run(ctx, []Row{invoiceRow(2, "MSKU1234567", "2025-03-03", "INV-1")})
	assert.ErrorIs(t, err, context.Canceled)
}

// ── Alta masiva de registros ──

func shipmentRow(line int, container, supplier string, cartons int) Row {
	return Row{Line: line, Values: normalize.Row{
		normalize.ColETD:       "2025-03-03",
		normalize.ColItem:      "Bananas",
		normalize.ColSupplier:  supplier,
		normalize.ColContainer: container,
		normalize.ColPack:      "13.5kg a",
		normalize.ColCartons:   fmt.Sprint(cartons),
	}}
}

func TestRecordImporter_AgrupaYAsignaLCont(t *testing.T) {
	store := apptest.NewRecordStore()
	im := NewRecordImporter(store, nil)

	sum, err := im.Run(context.Background(), []Row{
		shipmentRow(2, "MSKU1234567", "reybanpac", 100),
		shipmentRow(3, "MSKU1234567", "lapanday", 300),
		shipmentRow(4, "TGHU7654321", "reybanpac", 1200),
		shipmentRow(5, "", "reybanpac", 10),
	}, RecordOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Groups)
	assert.Equal(t, 3, sum.Inserted)
	require.Len(t, sum.Rejected, 1)
	assert.Equal(t, 5, sum.Rejected[0].Line)

	byContainer := map[string]float64{}
	for _, r := range store.All() {
		assert.NotEmpty(t, r.ID)
		byContainer[r.Container] += r.LCont
		if r.Supplier == "LAPANDAY" {
			assert.InDelta(t, 0.75, r.LCont, 1e-9)
		}
	}
	assert.InDelta(t, 1, byContainer["MSKU1234567"], 1e-9)
	assert.InDelta(t, 1, byContainer["TGHU7654321"], 1e-9)
}

func TestRecordImporter_DuplicadoSeOmiteSalvoForce(t *testing.T) {
	store := apptest.NewRecordStore(stored("x", "MSKU1234567", "2025-03-03", 100, 1))
	im := NewRecordImporter(store, nil)
	rows := []Row{shipmentRow(2, "MSKU1234567", "lapanday", 300)}

	sum, err := im.Run(context.Background(), rows, RecordOptions{})
	require.NoError(t, err)
	assert.Equal(t, []entity.ContainerKey{{Container: "MSKU1234567", ETD: "2025-03-03"}}, sum.Duplicates)
	assert.Len(t, store.All(), 1)

	sum, err = im.Run(context.Background(), rows, RecordOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Inserted)
	all := store.All()
	require.Len(t, all, 2)
	for _, r := range all {
		if r.ID == "x" {
			assert.InDelta(t, 0.25, r.LCont, 1e-9)
		}
	}
}

func TestRecordImporter_DryRunNoPersiste(t *testing.T) {
	store := apptest.NewRecordStore()
	im := NewRecordImporter(store, nil)

	sum, err := im.Run(context.Background(), []Row{shipmentRow(2, "MSKU1234567", "reybanpac", 10)}, RecordOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Inserted)
	assert.Empty(t, store.All())
}

func TestRecordImporter_ErrorDeGrupoContinua(t *testing.T) {
	store := apptest.NewRecordStore()
	store.Err = fmt.Errorf("boom")
	im := NewRecordImporter(store, nil)

	sum, err := im.Run(context.Background(), []Row{
		shipmentRow(2, "MSKU1234567", "reybanpac", 10),
		shipmentRow(3, "TGHU7654321", "reybanpac", 10),
	}, RecordOptions{})
	require.NoError(t, err)
	assert.Len(t, sum.FailedGroups, 2)
	assert.Zero(t, sum.Inserted)
}
