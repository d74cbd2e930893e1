package importer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/shipping-dashboard/internal/application/records"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

// RecordOptions parámetros del alta masiva.
type RecordOptions struct {
	// Force agrega las líneas aunque el contenedor+ETD ya tenga registros.
	Force  bool
	DryRun bool
}

// RecordSummary resultado del alta masiva.
type RecordSummary struct {
	Rows         int
	Groups       int
	Inserted     int
	Duplicates   []entity.ContainerKey
	FailedGroups []entity.ContainerKey
	Rejected     []Rejected
}

// RecordImporter da de alta registros de embarque agrupados por contenedor+ETD.
type RecordImporter struct {
	tx  records.TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewRecordImporter construye el importador.
func NewRecordImporter(tx records.TxRunner, log *logger.Logger) *RecordImporter {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordImporter{tx: tx, log: log, now: time.Now}
}

// Run normaliza las filas, agrupa por contenedor+ETD y persiste cada grupo en su propia
// transacción con lCont recalculado sobre el grupo completo (existentes + nuevos).
func (im *RecordImporter) Run(ctx context.Context, rows []Row, opts RecordOptions) (*RecordSummary, error) {
	sum := &RecordSummary{Rows: len(rows)}

	var parsed []*entity.ShippingRecord
	for _, row := range rows {
		res := normalize.Shipment(row.Values, row.Line)
		if !res.OK() {
			sum.Rejected = append(sum.Rejected, Rejected{Line: res.Line, Issues: res.Issues})
			im.log.Warn().Int("line", res.Line).Interface("issues", res.Issues).Msg("fila descartada")
			continue
		}
		parsed = append(parsed, res.Record)
	}

	keys, groups := loadcount.GroupByContainer(parsed)
	sum.Groups = len(keys)
	now := im.now()
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		group := groups[key]
		for _, r := range group {
			r.ID = uuid.New().String()
			r.CreatedAt, r.UpdatedAt = now, now
		}

		err := im.tx.Run(ctx, func(recs repository.ShippingRecordRepository) error {
			existing, err := recs.ListByContainer(ctx, key)
			if err != nil {
				return err
			}
			if len(existing) > 0 && !opts.Force {
				return domain.ErrDuplicateContainer
			}
			loadcount.ForGroup(append(append([]*entity.ShippingRecord{}, existing...), group...))
			if opts.DryRun {
				return nil
			}
			for _, r := range group {
				if err := recs.Create(ctx, r); err != nil {
					return err
				}
			}
			return recs.UpdateLoadCounts(ctx, existing)
		})

		switch {
		case errors.Is(err, domain.ErrDuplicateContainer):
			sum.Duplicates = append(sum.Duplicates, key)
			im.log.Warn().Str("container", key.Container).Str("etd", key.ETD).Msg("contenedor ya cargado, se omite")
		case err != nil:
			sum.FailedGroups = append(sum.FailedGroups, key)
			im.log.Error().Err(err).Str("container", key.Container).Str("etd", key.ETD).Msg("no se pudo insertar el grupo")
		default:
			sum.Inserted += len(group)
			im.log.Debug().Str("container", key.Container).Str("etd", key.ETD).Int("lines", len(group)).Msg("grupo insertado")
		}
	}
	return sum, nil
}
