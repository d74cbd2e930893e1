package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/application/prices"
)

// PriceHandler administra las tablas de precios de venta y compra.
type PriceHandler struct {
	uc *prices.UseCase
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *prices.UseCase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// ListSales godoc
// @Summary      Listar precios de venta
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  false  "Producto"
// @Param        year  query  int     false  "Año"
// @Success      200   {array}  dto.SalesPriceResponse
// @Router       /api/prices/sales [get]
func (h *PriceHandler) ListSales(c *fiber.Ctx) error {
	out, err := h.uc.ListSales(c.Context(), itemQuery(c), c.QueryInt("year", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateSales godoc
// @Summary      Crear precio de venta
// @Description  supplier vacío registra el precio uniforme del pack para el año.
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalesPriceRequest  true  "Precio"
// @Success      201   {object}  dto.SalesPriceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/prices/sales [post]
func (h *PriceHandler) CreateSales(c *fiber.Ctx) error {
	var in dto.SalesPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSales(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSales godoc
// @Summary      Editar precio de venta
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.SalesPriceRequest  true  "Precio"
// @Success      200   {object}  dto.SalesPriceResponse
// @Router       /api/prices/sales/{id} [put]
func (h *PriceHandler) UpdateSales(c *fiber.Ctx) error {
	var in dto.SalesPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSales(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSales godoc
// @Summary      Eliminar precio de venta
// @Tags         prices
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Router       /api/prices/sales/{id} [delete]
func (h *PriceHandler) DeleteSales(c *fiber.Ctx) error {
	if err := h.uc.DeleteSales(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPurchases godoc
// @Summary      Listar precios de compra
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  false  "Producto"
// @Param        year  query  int     false  "Año"
// @Success      200   {array}  dto.PurchasePriceResponse
// @Router       /api/prices/purchase [get]
func (h *PriceHandler) ListPurchases(c *fiber.Ctx) error {
	out, err := h.uc.ListPurchases(c.Context(), itemQuery(c), c.QueryInt("year", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreatePurchase godoc
// @Summary      Crear precio de compra
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchasePriceRequest  true  "Precio"
// @Success      201   {object}  dto.PurchasePriceResponse
// @Router       /api/prices/purchase [post]
func (h *PriceHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.PurchasePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePurchase(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePurchase godoc
// @Summary      Editar precio de compra
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.PurchasePriceRequest  true  "Precio"
// @Success      200   {object}  dto.PurchasePriceResponse
// @Router       /api/prices/purchase/{id} [put]
func (h *PriceHandler) UpdatePurchase(c *fiber.Ctx) error {
	var in dto.PurchasePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePurchase(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeletePurchase godoc
// @Summary      Eliminar precio de compra
// @Tags         prices
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Router       /api/prices/purchase/{id} [delete]
func (h *PriceHandler) DeletePurchase(c *fiber.Ctx) error {
	if err := h.uc.DeletePurchase(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
