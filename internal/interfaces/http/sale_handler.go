package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/importer"
)

// SaleHandler maneja ventas y cambios de mercadería (protegido).
type SaleHandler struct {
	uc *sales.UseCase
	rs *Responder
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, rs *Responder) *SaleHandler {
	return &SaleHandler{uc: uc, rs: rs}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Todas las líneas y sus movimientos de stock se confirman juntos o ninguno.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "Líneas de venta"
// @Success      201   {object}  dto.RegisterSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterSale(c.UserContext(), GetTenantID(c), in.Lines)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterGroup godoc
// @Summary      Registrar venta múltiple
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterGroupedSaleRequest  true  "Grupo y líneas"
// @Success      201   {object}  dto.GroupedSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/group [post]
func (h *SaleHandler) RegisterGroup(c *fiber.Ctx) error {
	var in dto.RegisterGroupedSaleRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterGroupedSale(c.UserContext(), GetTenantID(c), in.GroupID, in.Lines)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ImportHistory godoc
// @Summary      Importar historial de ventas
// @Description  CSV con encabezado y columnas fecha (dd/mm/aaaa), código, cantidad, precio total, categoría, factura y tipo de pago. No modifica el stock.
// @Tags         sales
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "Historial de ventas"
// @Success      200   {object}  dto.SaleImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/import [post]
func (h *SaleHandler) ImportHistory(c *fiber.Ctx) error {
	f, _, ok, err := openUpload(c, h.rs)
	if !ok {
		return err
	}
	defer f.Close()

	rows, rejected, err := importer.ParseSalesCSV(f)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	out, err := h.uc.ImportHistory(c.UserContext(), GetTenantID(c), rows, rejected)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular venta
// @Description  Elimina la línea y devuelve la cantidad al stock.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.VoidSaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, ok, err := ParamID(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.VoidSale(c.UserContext(), GetTenantID(c), id)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// VoidGroup godoc
// @Summary      Anular venta múltiple completa
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        group  path  string  true  "ID del grupo"
// @Success      200  {object}  dto.VoidGroupResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/group/{group} [delete]
func (h *SaleHandler) VoidGroup(c *fiber.Ctx) error {
	out, err := h.uc.VoidGroup(c.UserContext(), GetTenantID(c), pathParam(c, "group"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// UpdateNote godoc
// @Summary      Editar nota de una venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Param        id    path  int                    true  "ID de la venta"
// @Param        body  body  dto.UpdateNoteRequest  true  "Nota"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/note [put]
func (h *SaleHandler) UpdateNote(c *fiber.Ctx) error {
	id, ok, err := ParamID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateNoteRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	if err := h.uc.UpdateNote(c.UserContext(), GetTenantID(c), id, in.Note); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Ventas recientes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de filas"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.ListRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if ok, err := h.rs.Check(c, &q); !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), GetTenantID(c), q.Limit)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// ListByDate godoc
// @Summary      Ventas de un día
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {array}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/day/{date} [get]
func (h *SaleHandler) ListByDate(c *fiber.Ctx) error {
	list, err := h.uc.ListByDate(c.UserContext(), GetTenantID(c), c.Params("date"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// RegisterExchange godoc
// @Summary      Registrar cambio de mercadería
// @Description  Vuelve una unidad de returned_code y sale una de delivered_code.
// @Tags         exchanges
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterExchangeRequest  true  "Cambio"
// @Success      201   {object}  dto.ExchangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/exchanges [post]
func (h *SaleHandler) RegisterExchange(c *fiber.Ctx) error {
	var in dto.RegisterExchangeRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterExchange(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExchanges godoc
// @Summary      Listar cambios
// @Tags         exchanges
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {array}  dto.ExchangeResponse
// @Router       /api/exchanges [get]
func (h *SaleHandler) ListExchanges(c *fiber.Ctx) error {
	list, err := h.uc.ListExchanges(c.UserContext(), GetTenantID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// DeleteExchange godoc
// @Summary      Anular cambio
// @Description  Revierte los movimientos de stock y la venta de diferencia si existía.
// @Tags         exchanges
// @Security     Bearer
// @Param        id   path  int  true  "ID del cambio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exchanges/{id} [delete]
func (h *SaleHandler) DeleteExchange(c *fiber.Ctx) error {
	id, ok, err := ParamID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.DeleteExchange(c.UserContext(), GetTenantID(c), id); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
