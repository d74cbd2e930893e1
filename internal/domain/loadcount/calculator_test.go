package loadcount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
)

func TestCompute_SumaUnoPorGrupo(t *testing.T) {
	groups := [][]int{
		{1080},
		{540, 540},
		{100, 200, 300},
		{1, 1, 1},
		{17, 993, 4, 250, 61},
		{1540, 20, 20, 20, 20, 20, 20},
	}
	for _, g := range groups {
		shares := loadcount.Compute(g)
		require.Len(t, shares, len(g))
		sum := 0.0
		for _, s := range shares {
			sum += s
		}
		// cada fracción se redondea a 8 dígitos: el error acumulado es como máximo n·0.5e-8
		assert.InDelta(t, 1.0, sum, float64(len(g))*0.5e-8+1e-12, "grupo %v", g)
	}
}

func TestCompute_TotalCeroDevuelveCeros(t *testing.T) {
	shares := loadcount.Compute([]int{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, shares)

	assert.Empty(t, loadcount.Compute(nil))
}

func TestCompute_RedondeoOchoDigitos(t *testing.T) {
	shares := loadcount.Compute([]int{1, 2})
	assert.Equal(t, 0.33333333, shares[0])
	assert.Equal(t, 0.66666667, shares[1])
}

func TestRoundTo_Idempotente(t *testing.T) {
	for _, x := range []float64{0, 1, 0.123456789, 0.333333335, 2.0 / 3.0, 1e-9, 0.99999999949} {
		once := loadcount.RoundTo(x, 8)
		assert.Equal(t, once, loadcount.RoundTo(once, 8), "x=%v", x)
	}
}

func TestRoundTo_HalfUp(t *testing.T) {
	assert.Equal(t, 0.13, loadcount.RoundTo(0.125, 2))
	assert.Equal(t, 0.5, loadcount.RoundTo(0.49999999999, 8))
}

func TestRecalculate_AsignaPorContenedorYETD(t *testing.T) {
	etd := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	other := etd.AddDate(0, 0, 7)
	recs := []*entity.ShippingRecord{
		{Container: "MSCU1234567", ETD: etd, Cartons: 540},
		{Container: "MSCU1234567", ETD: etd, Cartons: 540},
		{Container: "MSCU1234567", ETD: other, Cartons: 1080},
		{Container: "TGHU7654321", ETD: etd, Cartons: 270},
		{Container: "TGHU7654321", ETD: etd, Cartons: 810},
	}
	loadcount.Recalculate(recs)

	assert.Equal(t, 0.5, recs[0].LCont)
	assert.Equal(t, 0.5, recs[1].LCont)
	assert.Equal(t, 1.0, recs[2].LCont, "misma caja en otra ETD es otro grupo")
	assert.Equal(t, 0.25, recs[3].LCont)
	assert.Equal(t, 0.75, recs[4].LCont)
}
