// seed_admin crea el primer usuario administrador del dashboard.
//
// Uso: go run ./cmd/seed_admin -email ops@empresa.com -name "Operaciones"
// El password se toma de -password o de SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/shipping-dashboard/internal/application/auth"
	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	domain "github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/shipping-dashboard/pkg/config"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del usuario")
	password := flag.String("password", "", "password (mínimo 8 caracteres)")
	name := flag.String("name", "", "nombre visible")
	role := flag.String("role", entity.RoleAdmin, "admin | viewer")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	if *password == "" {
		*password = os.Getenv("SEED_ADMIN_PASSWORD")
	}
	if *email == "" || *password == "" {
		log.Error().Msg("se requieren -email y -password (o SEED_ADMIN_PASSWORD)")
		os.Exit(1)
	}

	ctx := context.Background()
	db := cfg.DB.Elevated()
	pool, err := postgres.NewPool(ctx, db, cfg.App.Name+"-seed")
	if err != nil {
		log.Error().Err(err).Str("db", postgres.RedactedURL(db)).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
	user, err := uc.CreateUser(ctx, dto.CreateUserRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
		Role:     *role,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("email", *email).Msg("el usuario ya existe")
		return
	case err != nil:
		log.Error().Err(err).Msg("crear usuario")
		os.Exit(1)
	}
	log.Info().Str("id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("usuario creado")
}
