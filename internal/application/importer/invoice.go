// Package importer aplica planillas sobre shipping_records: datos de factura por
// contenedor+ETD y altas masivas de registros.
package importer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

// Row fila de planilla ya mapeada a columnas canónicas.
type Row struct {
	Line   int
	Values normalize.Row
}

// Rejected fila descartada por el normalizador.
type Rejected struct {
	Line   int                    `json:"line"`
	Issues []normalize.ParseError `json:"issues"`
}

// InvoiceOptions parámetros del upsert de facturas.
type InvoiceOptions struct {
	BatchSize int
	Pause     time.Duration
	DryRun    bool
	Customers normalize.CustomerNames
}

// InvoiceSummary resultado del upsert.
type InvoiceSummary struct {
	Rows        int
	Updated     int   // filas de la planilla que tocaron al menos un registro
	RowsTouched int64 // registros de la base modificados
	NotFound    int
	Failed      int
	Inferred    int // clientes deducidos del número de factura
	Rejected    []Rejected
	// PermissionDenied alguna escritura fue bloqueada por RLS.
	PermissionDenied bool
}

// InvoiceUpserter adjunta los datos de factura a los registros existentes.
type InvoiceUpserter struct {
	repo  repository.ShippingRecordRepository
	log   *logger.Logger
	opts  InvoiceOptions
	sleep func(ctx context.Context, d time.Duration) error
}

// NewInvoiceUpserter construye el upserter. BatchSize <= 0 procesa todo en un lote.
func NewInvoiceUpserter(repo repository.ShippingRecordRepository, log *logger.Logger, opts InvoiceOptions) *InvoiceUpserter {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUpserter{repo: repo, log: log, opts: opts, sleep: pause}
}

// Run normaliza y aplica las filas por lotes, con una pausa entre lotes. Los errores por
// fila se registran y cuentan; solo la cancelación del contexto corta la corrida.
func (u *InvoiceUpserter) Run(ctx context.Context, rows []Row) (*InvoiceSummary, error) {
	sum := &InvoiceSummary{Rows: len(rows)}

	var valid []normalize.InvoiceResult
	for _, row := range rows {
		res := normalize.Invoice(row.Values, row.Line, u.opts.Customers)
		if !res.OK() {
			sum.Rejected = append(sum.Rejected, Rejected{Line: res.Line, Issues: res.Issues})
			u.log.Warn().Int("line", res.Line).Interface("issues", res.Issues).Msg("fila descartada")
			continue
		}
		if res.Inferred {
			sum.Inferred++
		}
		valid = append(valid, res)
	}

	size := u.opts.BatchSize
	if size <= 0 {
		size = len(valid)
	}
	for start := 0; start < len(valid); start += size {
		if start > 0 && u.opts.Pause > 0 {
			if err := u.sleep(ctx, u.opts.Pause); err != nil {
				return sum, err
			}
		}
		end := min(start+size, len(valid))
		u.log.Info().Int("from", start+1).Int("to", end).Int("total", len(valid)).Msg("procesando lote")
		for _, res := range valid[start:end] {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			u.apply(ctx, res, sum)
		}
	}
	return sum, nil
}

func (u *InvoiceUpserter) apply(ctx context.Context, res normalize.InvoiceResult, sum *InvoiceSummary) {
	logRow := func(ev *zerolog.Event) *zerolog.Event {
		return ev.Int("line", res.Line).Str("container", res.Key.Container).Str("etd", res.Key.ETD)
	}

	matches, err := u.repo.ListByContainer(ctx, res.Key)
	if err != nil {
		u.fail(sum, err)
		logRow(u.log.Error().Err(err)).Msg("no se pudo buscar el contenedor")
		return
	}
	if len(matches) == 0 {
		sum.NotFound++
		logRow(u.log.Warn()).Msg("sin registros para contenedor+ETD")
		return
	}

	n := int64(len(matches))
	if !u.opts.DryRun {
		n, err = u.repo.UpdateInvoiceFields(ctx, res.Key, res.Fields)
		if err != nil {
			u.fail(sum, err)
			logRow(u.log.Error().Err(err)).Msg("no se pudo actualizar")
			return
		}
		if n == 0 {
			// visibles pero no actualizables: la política RLS filtró el UPDATE sin error
			sum.Failed++
			sum.PermissionDenied = true
			logRow(u.log.Error()).Int("matches", len(matches)).Msg("actualización bloqueada por RLS")
			return
		}
	}
	sum.Updated++
	sum.RowsTouched += n
	logRow(u.log.Debug()).Int64("records", n).Str("invoice_no", res.Fields.InvoiceNo).Msg("factura aplicada")
}

func (u *InvoiceUpserter) fail(sum *InvoiceSummary, err error) {
	sum.Failed++
	if errors.Is(err, domain.ErrPermissionDenied) {
		sum.PermissionDenied = true
	}
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
