package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/application/records"
)

// RecordHandler maneja la tabla de registros de embarque.
type RecordHandler struct {
	uc *records.UseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(uc *records.UseCase) *RecordHandler {
	return &RecordHandler{uc: uc}
}

// List godoc
// @Summary      Listar registros de embarque
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        item        query  string  false  "BANANAS | PINEAPPLES"
// @Param        year        query  int     false  "Año"
// @Param        week        query  int     false  "Semana"
// @Param        supplier    query  string  false  "Proveedor"
// @Param        pack        query  string  false  "Pack"
// @Param        container   query  string  false  "Contenedor (parcial)"
// @Param        type        query  string  false  "CONTRACT | SPOT"
// @Param        invoice_no  query  string  false  "Factura"
// @Param        etd_from    query  string  false  "ETD desde (YYYY-MM-DD)"
// @Param        etd_to      query  string  false  "ETD hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.RecordListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/records [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	var in dto.RecordFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar registros filtrados a CSV
// @Tags         records
// @Security     Bearer
// @Produce      text/csv
// @Router       /api/records/export.csv [get]
func (h *RecordHandler) Export(c *fiber.Ctx) error {
	var in dto.RecordFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	var buf bytes.Buffer
	if _, err := h.uc.Export(c.Context(), in, &buf); err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("shipping_records_%s.csv", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// GetByID godoc
// @Summary      Obtener registro por ID
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.RecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{id} [get]
func (h *RecordHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Duplicates godoc
// @Summary      Verificar contenedor+ETD ya cargado
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        container  query  string  true  "Contenedor"
// @Param        etd        query  string  true  "ETD (YYYY-MM-DD)"
// @Success      200  {object}  dto.DuplicateCheckResponse
// @Router       /api/records/duplicates [get]
func (h *RecordHandler) Duplicates(c *fiber.Ctx) error {
	out, err := h.uc.CheckDuplicate(c.Context(), c.Query("container"), c.Query("etd"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateContainer godoc
// @Summary      Alta de contenedor multi-pack
// @Description  Crea una línea por pack y recalcula lCont del contenedor. Si el contenedor+ETD ya existe responde 409 DUPLICATE_CONTAINER salvo force=true.
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContainerEntryRequest  true  "Contenedor y líneas"
// @Success      201   {array}   dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/records/containers [post]
func (h *RecordHandler) CreateContainer(c *fiber.Ctx) error {
	var in dto.ContainerEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateContainer(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar registro
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del registro"
// @Param        body  body  dto.UpdateRecordRequest  true  "Datos"
// @Success      200   {object}  dto.RecordResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/records/{id} [put]
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro (requiere contraseña)
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Param        id    path  string              true  "ID del registro"
// @Param        body  body  dto.ReauthRequest   true  "password"
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/records/{id} [delete]
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	var in dto.ReauthRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id"), in.Password); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Packs godoc
// @Summary      Packs distintos
// @Tags         lookups
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  false  "Producto"
// @Success      200   {array}  string
// @Router       /api/lookups/packs [get]
func (h *RecordHandler) Packs(c *fiber.Ctx) error {
	out, err := h.uc.Packs(c.Context(), c.Query("item"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(out))
}

// Suppliers godoc
// @Summary      Proveedores distintos
// @Tags         lookups
// @Security     Bearer
// @Produce      json
// @Param        item  query  string  false  "Producto"
// @Success      200   {array}  string
// @Router       /api/lookups/suppliers [get]
func (h *RecordHandler) Suppliers(c *fiber.Ctx) error {
	out, err := h.uc.Suppliers(c.Context(), c.Query("item"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(out))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
