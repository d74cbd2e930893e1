// Comando upsert-invoice-data: adjunta número de factura, fecha, cliente y billing no a
// los registros de embarque, buscando por contenedor+ETD, a partir de la planilla de
// facturas más reciente.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/shipping-dashboard/internal/application/importer"
	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/shipping-dashboard/pkg/config"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	file := flag.String("file", "", "planilla a procesar (por defecto la más reciente que coincide con -pattern)")
	dir := flag.String("dir", ".", "directorio donde buscar la planilla")
	pattern := flag.String("pattern", cfg.Import.FilePattern, "patrón de nombre de archivo")
	batch := flag.Int("batch", cfg.Import.BatchSize, "filas por lote")
	dryRun := flag.Bool("dry-run", false, "solo reporta, no escribe")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "upsert-invoice-data"})

	db := cfg.DB.Elevated()
	if !db.Configured() {
		log.Error().Msg("faltan credenciales de base de datos (DATABASE_URL o DB_HOST/DB_USER)")
		os.Exit(1)
	}

	path := *file
	if path == "" {
		path, err = spreadsheet.NewestMatching(*dir, *pattern)
		if err != nil {
			log.Error().Err(err).Str("dir", *dir).Str("pattern", *pattern).Msg("no hay planilla para procesar")
			os.Exit(1)
		}
	}
	log.Info().Str("file", path).Msg("leyendo planilla")

	sheet, err := spreadsheet.ReadFile(path, spreadsheet.InvoiceAliases, spreadsheet.InvoiceRequired)
	if err != nil {
		var missing *spreadsheet.MissingColumnsError
		if errors.As(err, &missing) {
			log.Error().Strs("missing", missing.Missing).Strs("header", missing.Header).Msg("faltan columnas requeridas")
		} else {
			log.Error().Err(err).Msg("no se pudo leer la planilla")
		}
		os.Exit(1)
	}
	log.Info().Str("sheet", sheet.Name).Int("rows", len(sheet.Rows)).Msg("hoja cargada")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, db, "upsert-invoice-data")
	if err != nil {
		log.Error().Err(err).Str("db", postgres.RedactedURL(db)).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	rows := make([]importer.Row, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		rows = append(rows, importer.Row{Line: r.Line, Values: r.Values})
	}

	up := importer.NewInvoiceUpserter(postgres.NewShippingRecordRepository(pool), log.Component("upsert"), importer.InvoiceOptions{
		BatchSize: *batch,
		Pause:     cfg.Import.BatchPause,
		DryRun:    *dryRun,
		Customers: normalize.CustomerNames{SB2025: cfg.Import.CustomerSB2025, Default: cfg.Import.CustomerDefault},
	})
	sum, err := up.Run(ctx, rows)
	if err != nil {
		log.Error().Err(err).Msg("corrida interrumpida")
	}

	log.Info().
		Bool("dry_run", *dryRun).
		Int("rows", sum.Rows).
		Int("updated", sum.Updated).
		Int64("records_touched", sum.RowsTouched).
		Int("not_found", sum.NotFound).
		Int("failed", sum.Failed).
		Int("rejected", len(sum.Rejected)).
		Int("customer_inferred", sum.Inferred).
		Msg("resumen")

	if sum.PermissionDenied {
		log.Warn().Msg("la base rechazó escrituras por RLS: defina DATABASE_SERVICE_URL (credencial elevada) y vuelva a ejecutar")
	}
	if err != nil || sum.Failed > 0 {
		os.Exit(1)
	}
}
