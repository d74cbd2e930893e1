package loadcount_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
)

var testETD = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func line(container string, cartons int, lcont float64) *entity.ShippingRecord {
	return &entity.ShippingRecord{
		ID:        fmt.Sprintf("%s-%d", container, cartons),
		Container: container,
		ETD:       testETD,
		Supplier:  "APR AGRI",
		Pack:      "13.5 KG A",
		Cartons:   cartons,
		LCont:     lcont,
	}
}

func TestValidate_ContenedorCorrectoNoSeMarca(t *testing.T) {
	rep := loadcount.Validate([]*entity.ShippingRecord{
		line("MSCU1111111", 540, 0.5),
		line("MSCU1111111", 540, 0.5),
	})
	assert.True(t, rep.OK())
	assert.Equal(t, 2, rep.TotalRecords)
	assert.Equal(t, 1, rep.TotalContainers)
	assert.Equal(t, 0, rep.MismatchedRecords)
}

func TestValidate_SumaFueraDeToleranciaSeMarca(t *testing.T) {
	// 0.5 + 0.4999 = 0.9999 → a 1e-4 de 1.0, fuera de tolerancia
	rep := loadcount.Validate([]*entity.ShippingRecord{
		line("MSCU2222222", 500, 0.5),
		line("MSCU2222222", 500, 0.4999),
	})
	require.Len(t, rep.FlaggedContainers, 1)
	assert.Contains(t, rep.FlaggedContainers[0].Issues, loadcount.IssueContainerSumNotOne)
	assert.Equal(t, 1, rep.SumNotOneCount)
}

func TestValidate_SumaDentroDeToleranciaNoSeMarca(t *testing.T) {
	// 0.5 + 0.50005 = 1.00005 → dentro de tolerancia
	rep := loadcount.Validate([]*entity.ShippingRecord{
		line("MSCU3333333", 500, 0.5),
		line("MSCU3333333", 500, 0.50005),
	})
	assert.True(t, rep.OK())
	assert.Equal(t, 0, rep.SumNotOneCount)
	assert.Equal(t, 0, rep.MismatchedRecords)
}

func TestValidate_LoadCountDesactualizado(t *testing.T) {
	// se agregó una línea después de insertar sin recalcular las hermanas
	rep := loadcount.Validate([]*entity.ShippingRecord{
		line("TGHU4444444", 540, 1.0),
		line("TGHU4444444", 540, 0.5),
	})
	require.Len(t, rep.FlaggedContainers, 1)
	issues := rep.FlaggedContainers[0].Issues
	assert.Contains(t, issues, loadcount.IssueLoadCountMismatch)
	assert.Contains(t, issues, loadcount.IssueContainerSumNotOne)
	assert.Equal(t, 1, rep.MismatchedRecords)

	var mismatched []loadcount.RecordCheck
	for _, rc := range rep.Records {
		if rc.Mismatch {
			mismatched = append(mismatched, rc)
		}
	}
	require.Len(t, mismatched, 1)
	assert.Equal(t, 0.5, mismatched[0].ExpectedLCont)
	assert.Equal(t, 1.0, mismatched[0].StoredLCont)
}

func TestValidate_AgrupaPorETD(t *testing.T) {
	a := line("MSCU5555555", 1080, 1.0)
	b := line("MSCU5555555", 1080, 1.0)
	b.ETD = testETD.AddDate(0, 0, 14)
	rep := loadcount.Validate([]*entity.ShippingRecord{a, b})
	assert.True(t, rep.OK())
	assert.Equal(t, 2, rep.DistinctETDs)
	assert.Equal(t, 2, rep.TotalContainers)
}

func TestWhereClause(t *testing.T) {
	assert.Empty(t, loadcount.WhereClause(nil))

	sql := loadcount.WhereClause([]loadcount.ContainerCheck{
		{ETD: "2025-01-06", Container: "MSCU2222222"},
		{ETD: "2025-01-13", Container: "TGHU4444444"},
	})
	assert.Equal(t,
		"WHERE (etd, container) IN (\n  ('2025-01-06', 'MSCU2222222'),\n  ('2025-01-13', 'TGHU4444444')\n)",
		sql)
}
