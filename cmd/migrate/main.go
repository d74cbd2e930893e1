// Comando migrate: aplica las migraciones SQL pendientes (embebidas o de -dir) y las
// registra en schema_migrations con su checksum.
//
// Uso: go run ./cmd/migrate [-dir internal/infrastructure/postgres/migrations]
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/shipping-dashboard/pkg/config"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

func main() {
	dir := flag.String("dir", "", "directorio de migraciones (vacío = las embebidas en el binario)")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	// DDL requiere el rol dueño del esquema
	db := cfg.DB.Elevated()
	if !db.Configured() {
		log.Error().Msg("configure DATABASE_URL o DATABASE_SERVICE_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, db, cfg.App.Name+"-migrate")
	if err != nil {
		log.Error().Err(err).Str("db", postgres.RedactedURL(db)).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	var src fs.FS = postgres.Migrations()
	if *dir != "" {
		src = os.DirFS(*dir)
	}

	results, err := postgres.Migrate(ctx, pool, src)
	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
			log.Info().Str("file", r.Filename).Msg("migración aplicada")
		} else {
			log.Debug().Str("file", r.Filename).Msg("ya aplicada")
		}
	}
	if err != nil {
		ev := log.Error().Err(err)
		if errors.Is(err, postgres.ErrChecksumMismatch) {
			ev = ev.Str("hint", "no edite migraciones aplicadas; cree un archivo nuevo")
		}
		ev.Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Int("applied", applied).Int("total", len(results)).Msg("esquema al día")
}
