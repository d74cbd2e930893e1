package loadcheck_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/application/apptest"
	"github.com/jhoicas/shipping-dashboard/internal/application/loadcheck"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
)

func rec(id, container string, cartons int, lcont float64) *entity.ShippingRecord {
	return &entity.ShippingRecord{
		ID: id, ETD: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), Item: entity.ItemBananas,
		Supplier: "REYBANPAC", Pack: "13.5 KG A", Container: container, Cartons: cartons, LCont: lcont,
	}
}

func report(t *testing.T) *loadcount.Report {
	t.Helper()
	store := apptest.NewRecordStore(
		rec("1", "MSCU1234567", 500, 0.5),
		rec("2", "MSCU1234567", 500, 0.5),
		rec("3", "TGHU0000001", 300, 0.5),
		rec("4", "TGHU0000001", 900, 0.5),
	)
	rep, err := loadcheck.Run(context.Background(), store)
	require.NoError(t, err)
	return rep
}

func TestRun_MarcaSoloContenedoresDesactualizados(t *testing.T) {
	rep := report(t)
	assert.Equal(t, 4, rep.TotalRecords)
	assert.Equal(t, 2, rep.TotalContainers)
	require.Len(t, rep.FlaggedContainers, 1)
	assert.Equal(t, "TGHU0000001", rep.FlaggedContainers[0].Container)
	assert.Equal(t, 2, rep.MismatchedRecords)
}

func TestRun_ErrorDeFuente(t *testing.T) {
	store := apptest.NewRecordStore()
	store.Err = assert.AnError
	_, err := loadcheck.Run(context.Background(), store)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWriteCSV_UnaFilaPorRegistro(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, loadcheck.WriteCSV(&buf, report(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "expected_lcont", rows[0][8])
	assert.Equal(t, "0.25", rows[3][8])
	assert.Equal(t, "true", rows[3][10])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, loadcheck.WriteJSON(&buf, report(t), "sqlite:records.db", now))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, false, got["ok"])
	assert.Equal(t, "sqlite:records.db", got["source"])
	inner := got["report"].(map[string]any)
	assert.Len(t, inner["flagged_containers"], 1)
}

func TestWriteFlagged_IncluyeWhere(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, loadcheck.WriteFlagged(&buf, report(t)))
	assert.Contains(t, buf.String(), "WHERE (etd, container) IN (\n  ('2025-01-06', 'TGHU0000001')\n);")
	assert.Contains(t, buf.String(), "LOAD_COUNT_MISMATCH")
}
