package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/cashdrawer"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// CashHandler maneja la caja diaria (protegido).
type CashHandler struct {
	uc *cashdrawer.UseCase
	rs *Responder
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cashdrawer.UseCase, rs *Responder) *CashHandler {
	return &CashHandler{uc: uc, rs: rs}
}

// GetOpening godoc
// @Summary      Caja inicial de un día
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.OpeningFloatResponse
// @Router       /api/cash/opening/{date} [get]
func (h *CashHandler) GetOpening(c *fiber.Ctx) error {
	out, err := h.uc.GetOpeningFloat(c.UserContext(), GetTenantID(c), c.Params("date"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// SetOpening godoc
// @Summary      Cargar caja inicial de un día
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        date  path  string                   true  "YYYY-MM-DD"
// @Param        body  body  dto.OpeningFloatRequest  true  "Monto"
// @Success      200  {object}  dto.OpeningFloatResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cash/opening/{date} [put]
func (h *CashHandler) SetOpening(c *fiber.Ctx) error {
	var in dto.OpeningFloatRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetOpeningFloat(c.UserContext(), GetTenantID(c), c.Params("date"), in.Amount)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// AddMovement godoc
// @Summary      Registrar ingreso o egreso de caja
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashMovementRequest  true  "in | out"
// @Success      201  {object}  dto.CashMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cash/movements [post]
func (h *CashHandler) AddMovement(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddCashMovement(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Movimientos de caja de un día
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {array}  dto.CashMovementResponse
// @Router       /api/cash/movements/{date} [get]
func (h *CashHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.uc.ListCashMovements(c.UserContext(), GetTenantID(c), c.Params("date"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// UpdateMovement godoc
// @Summary      Editar detalle de un movimiento de caja
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Param        id    path  int                      true  "ID del movimiento"
// @Param        body  body  dto.UpdateDetailRequest  true  "Detalle"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/movements/{id} [put]
func (h *CashHandler) UpdateMovement(c *fiber.Ctx) error {
	id, ok, err := ParamID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateDetailRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	if err := h.uc.UpdateCashMovementDetail(c.UserContext(), GetTenantID(c), id, in.Detail); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento de caja
// @Tags         cash
// @Security     Bearer
// @Param        id  path  int  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/movements/{id} [delete]
func (h *CashHandler) DeleteMovement(c *fiber.Ctx) error {
	id, ok, err := ParamID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.DeleteCashMovement(c.UserContext(), GetTenantID(c), id); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Closing godoc
// @Summary      Cierre diario
// @Description  Total = caja inicial + ventas del día. Los movimientos de caja se informan aparte.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.ClosingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cash/closing/{date} [get]
func (h *CashHandler) Closing(c *fiber.Ctx) error {
	out, err := h.uc.DailyClosing(c.UserContext(), GetTenantID(c), c.Params("date"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// ClosingPDF godoc
// @Summary      Cierre diario en PDF
// @Tags         cash
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cash/closing/{date}/pdf [get]
func (h *CashHandler) ClosingPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.ClosingPDF(c.UserContext(), GetTenantID(c), GetBusinessName(c), c.Params("date"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}
