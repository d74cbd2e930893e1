// Comando import-records: alta masiva de registros de embarque desde una planilla .xlsx.
// Agrupa por contenedor+ETD, calcula lCont por grupo e inserta cada grupo en una transacción.
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

	file := flag.String("file", "", "planilla de embarques (.xlsx)")
	force := flag.Bool("force", false, "agrega líneas aunque el contenedor+ETD ya exista")
	dryRun := flag.Bool("dry-run", false, "valida y agrupa sin insertar")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import-records"})

	if *file == "" {
		log.Error().Msg("uso: import-records -file embarques.xlsx [-force] [-dry-run]")
		os.Exit(1)
	}
	if !cfg.DB.Configured() {
		log.Error().Msg("faltan credenciales de base de datos (DATABASE_URL o DB_HOST/DB_USER/DB_PASSWORD)")
		os.Exit(1)
	}

	sheet, err := spreadsheet.ReadFile(*file, spreadsheet.ShipmentAliases, spreadsheet.ShipmentRequired)
	if err != nil {
		var missing *spreadsheet.MissingColumnsError
		if errors.As(err, &missing) {
			log.Error().Strs("missing", missing.Missing).Strs("header", missing.Header).Msg("faltan columnas requeridas")
		} else {
			log.Error().Err(err).Str("file", *file).Msg("no se pudo leer la planilla")
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, "import-records")
	if err != nil {
		log.Error().Err(err).Str("db", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	rows := make([]importer.Row, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		rows = append(rows, importer.Row{Line: r.Line, Values: r.Values})
	}

	im := importer.NewRecordImporter(postgres.NewTxRunner(pool), log.Component("import"))
	sum, err := im.Run(ctx, rows, importer.RecordOptions{Force: *force, DryRun: *dryRun})
	if err != nil {
		log.Error().Err(err).Msg("importación interrumpida")
	}

	for _, r := range sum.Rejected {
		for _, issue := range r.Issues {
			log.Warn().Int("line", r.Line).Str("field", issue.Field).Str("value", issue.Value).Str("reason", issue.Reason).Msg("fila rechazada")
		}
	}
	log.Info().
		Bool("dry_run", *dryRun).
		Int("rows", sum.Rows).
		Int("groups", sum.Groups).
		Int("inserted", sum.Inserted).
		Int("duplicates", len(sum.Duplicates)).
		Int("failed_groups", len(sum.FailedGroups)).
		Int("rejected", len(sum.Rejected)).
		Msg("resumen")

	if err != nil || len(sum.FailedGroups) > 0 {
		os.Exit(1)
	}
}
