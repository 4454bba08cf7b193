package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/ledger"
)

// AccountHandler maneja cuentas corrientes de clientes (protegido).
type AccountHandler struct {
	uc *ledger.UseCase
	rs *Responder
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *ledger.UseCase, rs *Responder) *AccountHandler {
	return &AccountHandler{uc: uc, rs: rs}
}

// Create godoc
// @Summary      Crear cuenta corriente
// @Description  Idempotente: si ya existe devuelve la cuenta con created=false.
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "Cliente"
// @Success      200   {object}  dto.AccountResponse
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateOrGetAccount(c.UserContext(), GetTenantID(c), in.Customer)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// List godoc
// @Summary      Listar cuentas corrientes
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AccountResponse
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListAccounts(c.UserContext(), GetTenantID(c))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// Get godoc
// @Summary      Obtener cuenta corriente
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        customer  path  string  true  "Cliente"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{customer} [get]
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetAccount(c.UserContext(), GetTenantID(c), pathParam(c, "customer"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cuenta corriente y sus movimientos
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        customer  path  string  true  "Cliente"
// @Success      200  {object}  dto.DeleteAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{customer} [delete]
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.DeleteAccount(c.UserContext(), GetTenantID(c), pathParam(c, "customer"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// AddMovement godoc
// @Summary      Registrar movimiento de cuenta corriente
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        customer  path  string                  true  "Cliente"
// @Param        body      body  dto.AddMovementRequest  true  "debt | credit"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{customer}/movements [post]
func (h *AccountHandler) AddMovement(c *fiber.Ctx) error {
	var in dto.AddMovementRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddMovement(c.UserContext(), GetTenantID(c), pathParam(c, "customer"), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Movimientos de una cuenta corriente
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        customer  path  string  true  "Cliente"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{customer}/movements [get]
func (h *AccountHandler) ListMovements(c *fiber.Ctx) error {
	list, err := h.uc.ListMovements(c.UserContext(), GetTenantID(c), pathParam(c, "customer"))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// UpdateMovementComment godoc
// @Summary      Editar comentario de un movimiento
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Param        id    path  int                       true  "ID del movimiento"
// @Param        body  body  dto.UpdateCommentRequest  true  "Comentario"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/accounts/movements/{id} [put]
func (h *AccountHandler) UpdateMovementComment(c *fiber.Ctx) error {
	id, ok, err := ParamID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateCommentRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	if err := h.uc.UpdateMovementComment(c.UserContext(), GetTenantID(c), id, in.Comment); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
