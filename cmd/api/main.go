package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	appanalytics "github.com/jhoicas/shipping-dashboard/internal/application/analytics"
	"github.com/jhoicas/shipping-dashboard/internal/application/auth"
	"github.com/jhoicas/shipping-dashboard/internal/application/invoice"
	"github.com/jhoicas/shipping-dashboard/internal/application/pnl"
	"github.com/jhoicas/shipping-dashboard/internal/application/prices"
	"github.com/jhoicas/shipping-dashboard/internal/application/records"
	infrapdf "github.com/jhoicas/shipping-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/shipping-dashboard/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/shipping-dashboard/internal/interfaces/http"
	"github.com/jhoicas/shipping-dashboard/pkg/config"
	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Str("db", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	recordRepo := postgres.NewShippingRecordRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	salesRepo := postgres.NewSalesPriceRepository(pool)
	purchaseRepo := postgres.NewPurchasePriceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	pricesUC := prices.NewUseCase(salesRepo, purchaseRepo)
	recordsUC := records.NewUseCase(recordRepo, txRunner, authUC)
	dashboardUC := appanalytics.NewDashboardUseCase(recordRepo, pricesUC)
	pnlUC := pnl.NewUseCase(recordRepo, pricesUC)

	// PDF: factura comercial del embarque
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Invoice)
	invoiceUC := invoice.NewUseCase(recordRepo, pricesUC, pdfGenerator, cfg.Invoice.Currency)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Shipping Dashboard API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		RecordsUC:   recordsUC,
		PricesUC:    pricesUC,
		DashboardUC: dashboardUC,
		PnLUC:       pnlUC,
		InvoiceUC:   invoiceUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
