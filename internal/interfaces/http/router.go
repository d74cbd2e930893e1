package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/shipping-dashboard/internal/application/analytics"
	"github.com/jhoicas/shipping-dashboard/internal/application/auth"
	"github.com/jhoicas/shipping-dashboard/internal/application/invoice"
	"github.com/jhoicas/shipping-dashboard/internal/application/pnl"
	"github.com/jhoicas/shipping-dashboard/internal/application/prices"
	"github.com/jhoicas/shipping-dashboard/internal/application/records"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	RecordsUC   *records.UseCase
	PricesUC    *prices.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	PnLUC       *pnl.UseCase
	InvoiceUC   *invoice.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	protected.Get("/auth/me", authHandler.Me)

	// Registros de embarque. Las rutas fijas van antes de /:id.
	recordHandler := NewRecordHandler(deps.RecordsUC)
	recs := protected.Group("/records")
	recs.Get("/", recordHandler.List)
	recs.Get("/export.csv", recordHandler.Export)
	recs.Get("/duplicates", recordHandler.Duplicates)
	recs.Post("/containers", adminOnly, recordHandler.CreateContainer)
	recs.Get("/:id", recordHandler.GetByID)
	recs.Put("/:id", adminOnly, recordHandler.Update)
	recs.Delete("/:id", adminOnly, recordHandler.Delete)

	// Lookups para filtros
	lookups := protected.Group("/lookups")
	lookups.Get("/packs", recordHandler.Packs)
	lookups.Get("/suppliers", recordHandler.Suppliers)

	// Vistas agregadas
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.PnLUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
	protected.Get("/analysis", dashboardHandler.GetAnalysis)
	protected.Get("/pnl", dashboardHandler.GetPnL)

	// Precios (lectura para todos, escritura solo admin)
	priceHandler := NewPriceHandler(deps.PricesUC)
	sales := protected.Group("/prices/sales")
	sales.Get("/", priceHandler.ListSales)
	sales.Post("/", adminOnly, priceHandler.CreateSales)
	sales.Put("/:id", adminOnly, priceHandler.UpdateSales)
	sales.Delete("/:id", adminOnly, priceHandler.DeleteSales)
	purchase := protected.Group("/prices/purchase")
	purchase.Get("/", priceHandler.ListPurchases)
	purchase.Post("/", adminOnly, priceHandler.CreatePurchase)
	purchase.Put("/:id", adminOnly, priceHandler.UpdatePurchase)
	purchase.Delete("/:id", adminOnly, priceHandler.DeletePurchase)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:invoiceNo/pdf", invoiceHandler.GetPDF)
	invoices.Get("/:invoiceNo", invoiceHandler.GetByNumber)
}
