package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// Export escribe en w el CSV de todos los registros que cumplen el filtro (sin paginar).
// La cabecera son las columnas visibles de la tabla en el mismo orden.
func (uc *UseCase) Export(ctx context.Context, in dto.RecordFilterRequest, w io.Writer) (int, error) {
	f, err := ToFilter(in)
	if err != nil {
		return 0, err
	}
	f.Limit, f.Offset = 0, 0
	rows, err := uc.repo.List(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// WriteCSV serializa los registros con la cabecera de RecordColumns.
func WriteCSV(w io.Writer, rows []*entity.ShippingRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(dto.RecordCSVRow{}); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, r := range rows {
		if err := enc.Encode(toCSVRow(r)); err != nil {
			return fmt.Errorf("csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func toCSVRow(r *entity.ShippingRecord) dto.RecordCSVRow {
	return dto.RecordCSVRow{
		Year:        r.Year,
		Week:        r.Week,
		ETD:         r.ETD.Format(entity.DateLayout),
		POL:         r.POL,
		Item:        r.Item,
		Destination: r.Destination,
		Supplier:    r.Supplier,
		SLine:       r.SLine,
		Container:   r.Container,
		Pack:        r.Pack,
		LCont:       r.LCont,
		Cartons:     r.Cartons,
		Price:       r.Price.StringFixed(2),
		Type:        r.Type,
	}
}
