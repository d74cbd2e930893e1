// Package loadcheck ejecuta la validación offline de load count sobre una fuente de
// registros y escribe sus salidas (CSV, JSON y lista de contenedores marcados).
package loadcheck

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// Run lee todos los registros de la fuente y los valida. No escribe nada en la fuente.
func Run(ctx context.Context, src repository.RecordSource) (*loadcount.Report, error) {
	rows, err := src.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer registros: %w", err)
	}
	return loadcount.Validate(rows), nil
}

// WriteCSV escribe una fila por registro con el lCont esperado y el almacenado.
func WriteCSV(w io.Writer, rep *loadcount.Report) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(loadcount.RecordCheck{}); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, rc := range rep.Records {
		if err := enc.Encode(rc); err != nil {
			return fmt.Errorf("csv %s: %w", rc.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary cuerpo del JSON de resumen.
type Summary struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Source      string            `json:"source"`
	Tolerance   float64           `json:"tolerance"`
	OK          bool              `json:"ok"`
	Report      *loadcount.Report `json:"report"`
}

// WriteJSON escribe el resumen con los contenedores marcados.
func WriteJSON(w io.Writer, rep *loadcount.Report, source string, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Summary{
		GeneratedAt: now.UTC(),
		Source:      source,
		Tolerance:   loadcount.Tolerance,
		OK:          rep.OK(),
		Report:      rep,
	})
}

// WriteFlagged escribe la lista legible de contenedores marcados seguida de la cláusula
// WHERE lista para pegar en una consulta.
func WriteFlagged(w io.Writer, rep *loadcount.Report) error {
	if rep.OK() {
		_, err := fmt.Fprintln(w, "Sin contenedores marcados.")
		return err
	}
	for _, c := range rep.FlaggedContainers {
		if _, err := fmt.Fprintf(w, "%s  %-12s  líneas=%d  cajas=%d  Σ lCont=%.8f  %v\n",
			c.ETD, c.Container, c.Lines, c.TotalCartons, c.StoredSum, c.Issues); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s;\n", loadcount.WhereClause(rep.FlaggedContainers))
	return err
}
