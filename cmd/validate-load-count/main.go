// Comando validate-load-count: recalcula el load count esperado de cada registro y lo
// compara con el almacenado. Solo lectura sobre la fuente. Sale con código 2 si encuentra
// contenedores marcados.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/shipping-dashboard/internal/application/loadcheck"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/sqlite"
	"github.com/jhoicas/shipping-dashboard/pkg/config"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	source := flag.String("source", "postgres", "fuente de registros: postgres | sqlite")
	sqlitePath := flag.String("sqlite", "shipping_records.db", "archivo SQLite cuando -source=sqlite")
	saveSnapshot := flag.String("save-snapshot", "", "guarda una copia SQLite de los registros leídos")
	writeCSV := flag.Bool("csv", false, "escribe el detalle por registro en CSV")
	writeJSON := flag.Bool("json", false, "escribe el resumen en JSON")
	writeSQL := flag.Bool("sql", false, "escribe los contenedores marcados con la cláusula WHERE")
	outDir := flag.String("out", cfg.Import.ExportsDir, "directorio de salida")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "validate-load-count"})
	ctx := context.Background()

	var src repository.RecordSource
	label := *source
	switch *source {
	case "postgres":
		if !cfg.DB.Configured() {
			log.Error().Msg("faltan credenciales de base de datos (DATABASE_URL o DB_HOST/DB_USER/DB_PASSWORD)")
			os.Exit(1)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB, "validate-load-count")
		if err != nil {
			log.Error().Err(err).Str("db", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
			os.Exit(1)
		}
		defer pool.Close()
		src = postgres.NewShippingRecordRepository(pool)
		label = "postgres:" + postgres.RedactedURL(cfg.DB)
	case "sqlite":
		if _, err := os.Stat(*sqlitePath); err != nil {
			log.Error().Err(err).Str("file", *sqlitePath).Msg("snapshot SQLite no encontrado")
			os.Exit(1)
		}
		snap, err := sqlite.Open(*sqlitePath)
		if err != nil {
			log.Error().Err(err).Msg("abrir snapshot")
			os.Exit(1)
		}
		defer snap.Close()
		src = snap
		label = "sqlite:" + *sqlitePath
	default:
		log.Error().Str("source", *source).Msg("fuente desconocida (postgres | sqlite)")
		os.Exit(1)
	}

	started := time.Now()
	rows, err := src.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("leer registros")
		os.Exit(1)
	}
	if *saveSnapshot != "" {
		if err := save(ctx, *saveSnapshot, rows); err != nil {
			log.Error().Err(err).Str("file", *saveSnapshot).Msg("guardar snapshot")
			os.Exit(1)
		}
		log.Info().Str("file", *saveSnapshot).Int("records", len(rows)).Msg("snapshot guardado")
	}

	rep, err := loadcheck.Run(ctx, staticSource(rows))
	if err != nil {
		log.Error().Err(err).Msg("validación")
		os.Exit(1)
	}

	log.Info().
		Str("source", label).
		Int("records", rep.TotalRecords).
		Int("containers", rep.TotalContainers).
		Int("etds", rep.DistinctETDs).
		Int("mismatched_records", rep.MismatchedRecords).
		Int("containers_sum_not_one", rep.SumNotOneCount).
		Int("flagged_containers", len(rep.FlaggedContainers)).
		Dur("elapsed", time.Since(started)).
		Msg("validación de load count")
	for _, c := range rep.FlaggedContainers {
		log.Warn().Str("etd", c.ETD).Str("container", c.Container).Int("lines", c.Lines).
			Float64("stored_sum", c.StoredSum).Strs("issues", c.Issues).Msg("contenedor marcado")
	}

	stamp := started.Format("20060102_150405")
	outputs := []struct {
		enabled bool
		name    string
		write   func(io.Writer) error
	}{
		{*writeCSV, "load_count_validation_" + stamp + ".csv", func(w io.Writer) error { return loadcheck.WriteCSV(w, rep) }},
		{*writeJSON, "load_count_summary_" + stamp + ".json", func(w io.Writer) error { return loadcheck.WriteJSON(w, rep, label, started) }},
		{*writeSQL, "flagged_containers_" + stamp + ".txt", func(w io.Writer) error { return loadcheck.WriteFlagged(w, rep) }},
	}
	for _, o := range outputs {
		if !o.enabled {
			continue
		}
		path := filepath.Join(*outDir, o.name)
		if err := writeFile(path, o.write); err != nil {
			log.Error().Err(err).Str("file", path).Msg("escribir salida")
			os.Exit(1)
		}
		log.Info().Str("file", path).Msg("salida escrita")
	}

	if !rep.OK() {
		os.Exit(2)
	}
}

// staticSource adapta registros ya leídos a RecordSource.
type staticSource []*entity.ShippingRecord

func (s staticSource) ListAll(context.Context) ([]*entity.ShippingRecord, error) { return s, nil }

func save(ctx context.Context, path string, rows []*entity.ShippingRecord) error {
	snap, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer snap.Close()
	return snap.Save(ctx, rows)
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("crear directorio: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
