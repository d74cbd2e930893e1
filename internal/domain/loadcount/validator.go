package loadcount

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// Tolerance diferencia mínima que se considera discrepancia. Un valor está dentro de
// tolerancia cuando |diferencia| < Tolerance.
const Tolerance = 1e-4

// Códigos de problema reportados por el validador.
const (
	IssueLoadCountMismatch  = "LOAD_COUNT_MISMATCH"
	IssueContainerSumNotOne = "CONTAINER_SUM_NOT_ONE"
)

// RecordCheck resultado de la verificación de una línea.
type RecordCheck struct {
	ID            string  `json:"id" csv:"id"`
	ETD           string  `json:"etd" csv:"etd"`
	Container     string  `json:"container" csv:"container"`
	Supplier      string  `json:"supplier" csv:"supplier"`
	Pack          string  `json:"pack" csv:"pack"`
	Cartons       int     `json:"cartons" csv:"cartons"`
	TotalCartons  int     `json:"total_cartons" csv:"total_cartons"`
	StoredLCont   float64 `json:"stored_lcont" csv:"stored_lcont"`
	ExpectedLCont float64 `json:"expected_lcont" csv:"expected_lcont"`
	Difference    float64 `json:"difference" csv:"difference"`
	Mismatch      bool    `json:"mismatch" csv:"mismatch"`
}

// ContainerCheck resultado agregado de un contenedor en una ETD.
type ContainerCheck struct {
	ETD          string   `json:"etd"`
	Container    string   `json:"container"`
	Lines        int      `json:"lines"`
	TotalCartons int      `json:"total_cartons"`
	StoredSum    float64  `json:"stored_sum"`
	Issues       []string `json:"issues,omitempty"`
}

// Flagged indica si el contenedor tiene al menos un problema.
func (c ContainerCheck) Flagged() bool { return len(c.Issues) > 0 }

// Report resultado completo de la validación.
type Report struct {
	TotalRecords      int              `json:"total_records"`
	TotalContainers   int              `json:"total_containers"`
	DistinctETDs      int              `json:"distinct_etds"`
	MismatchedRecords int              `json:"mismatched_records"`
	SumNotOneCount    int              `json:"containers_sum_not_one"`
	FlaggedContainers []ContainerCheck `json:"flagged_containers"`
	Records           []RecordCheck    `json:"-"`
	Containers        []ContainerCheck `json:"-"`
}

// OK indica que no se encontró ninguna discrepancia.
func (r *Report) OK() bool { return len(r.FlaggedContainers) == 0 }

// exceeds compara una diferencia contra la tolerancia. La diferencia se redondea a 10
// dígitos para que el ruido de punto flotante no decida el límite.
func exceeds(diff float64) bool {
	return RoundTo(math.Abs(diff), 10) >= Tolerance
}

// Validate recalcula el load count esperado de cada registro a partir de los cartones
// actuales y lo compara con el almacenado. Es de solo lectura.
func Validate(records []*entity.ShippingRecord) *Report {
	rep := &Report{TotalRecords: len(records)}

	byETD := make(map[string][]*entity.ShippingRecord)
	for _, r := range records {
		etd := r.ETD.Format(entity.DateLayout)
		byETD[etd] = append(byETD[etd], r)
	}
	etds := make([]string, 0, len(byETD))
	for etd := range byETD {
		etds = append(etds, etd)
	}
	sort.Strings(etds)
	rep.DistinctETDs = len(etds)

	for _, etd := range etds {
		byContainer := make(map[string][]*entity.ShippingRecord)
		var containers []string
		for _, r := range byETD[etd] {
			if _, ok := byContainer[r.Container]; !ok {
				containers = append(containers, r.Container)
			}
			byContainer[r.Container] = append(byContainer[r.Container], r)
		}
		sort.Strings(containers)

		for _, container := range containers {
			lines := byContainer[container]
			total := 0
			for _, l := range lines {
				total += l.Cartons
			}

			cc := ContainerCheck{ETD: etd, Container: container, Lines: len(lines), TotalCartons: total}
			hasMismatch := false
			for _, l := range lines {
				expected := 0.0
				if total > 0 {
					expected = RoundTo(float64(l.Cartons)/float64(total), Precision)
				}
				diff := l.LCont - expected
				rc := RecordCheck{
					ID:            l.ID,
					ETD:           etd,
					Container:     container,
					Supplier:      l.Supplier,
					Pack:          l.Pack,
					Cartons:       l.Cartons,
					TotalCartons:  total,
					StoredLCont:   l.LCont,
					ExpectedLCont: expected,
					Difference:    RoundTo(diff, 10),
					Mismatch:      exceeds(diff),
				}
				if rc.Mismatch {
					rep.MismatchedRecords++
					hasMismatch = true
				}
				cc.StoredSum += l.LCont
				rep.Records = append(rep.Records, rc)
			}
			cc.StoredSum = RoundTo(cc.StoredSum, 10)

			if hasMismatch {
				cc.Issues = append(cc.Issues, IssueLoadCountMismatch)
			}
			if exceeds(cc.StoredSum - 1) {
				cc.Issues = append(cc.Issues, IssueContainerSumNotOne)
				rep.SumNotOneCount++
			}
			rep.Containers = append(rep.Containers, cc)
			if cc.Flagged() {
				rep.FlaggedContainers = append(rep.FlaggedContainers, cc)
			}
		}
	}
	rep.TotalContainers = len(rep.Containers)
	return rep
}

// WhereClause arma una cláusula SQL lista para pegar con los contenedores marcados:
// WHERE (etd, container) IN (('2025-01-06','MSCU1234567'), ...)
func WhereClause(flagged []ContainerCheck) string {
	if len(flagged) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(flagged))
	for _, c := range flagged {
		pairs = append(pairs, fmt.Sprintf("('%s', '%s')", c.ETD, strings.ReplaceAll(c.Container, "'", "''")))
	}
	return "WHERE (etd, container) IN (\n  " + strings.Join(pairs, ",\n  ") + "\n)"
}
