package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/shipping-dashboard/internal/application/analytics"
	"github.com/jhoicas/shipping-dashboard/internal/application/pnl"
)

// DashboardHandler maneja las vistas agregadas: dashboard, análisis y P&L.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	pnl *pnl.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, pnlUC *pnl.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, pnl: pnlUC}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Totales de cajas y contenedores (Σ lCont), desglose por pack, proveedor, año y tipo.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  true   "BANANAS | PINEAPPLES"
// @Param        year  query  int     false  "Año"
// @Success      200   {object}  dto.DashboardSummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), itemQuery(c), c.QueryInt("year", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetAnalysis godoc
// @Summary      Análisis semanal y matriz proveedor × pack
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  true   "BANANAS | PINEAPPLES"
// @Param        year  query  int     false  "Año"
// @Success      200   {object}  dto.AnalysisDTO
// @Router       /api/analysis [get]
func (h *DashboardHandler) GetAnalysis(c *fiber.Ctx) error {
	out, err := h.uc.GetAnalysis(c.Context(), itemQuery(c), c.QueryInt("year", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPnL godoc
// @Summary      Estado de resultados por pack y proveedor
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  true   "BANANAS | PINEAPPLES"
// @Param        year  query  int     false  "Año"
// @Success      200   {object}  dto.PnLReport
// @Router       /api/pnl [get]
func (h *DashboardHandler) GetPnL(c *fiber.Ctx) error {
	out, err := h.pnl.Report(c.Context(), itemQuery(c), c.QueryInt("year", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
