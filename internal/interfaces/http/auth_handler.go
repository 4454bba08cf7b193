package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// AuthHandler maneja login y el alta de comercios.
type AuthHandler struct {
	uc *auth.AuthUseCase
	rs *Responder
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, rs *Responder) *AuthHandler {
	return &AuthHandler{uc: uc, rs: rs}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Comercio autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TenantResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.GetTenant(c.UserContext(), GetTenantID(c))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(out)
}

// CreateTenant godoc
// @Summary      Registrar comercio (solo admin)
// @Description  La base del comercio se crea en su primer acceso.
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "Datos del comercio"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *AuthHandler) CreateTenant(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateTenant(c.UserContext(), in)
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTenants godoc
// @Summary      Listar comercios (solo admin)
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TenantResponse
// @Router       /api/tenants [get]
func (h *AuthHandler) ListTenants(c *fiber.Ctx) error {
	list, err := h.uc.ListTenants(c.UserContext())
	if err != nil {
		return h.rs.Fail(c, err)
	}
	return c.JSON(list)
}

// SetTenantActive godoc
// @Summary      Activar o suspender comercio (solo admin)
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                true  "Comercio"
// @Param        body  body  dto.SetActiveRequest  true  "active"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/active [put]
func (h *AuthHandler) SetTenantActive(c *fiber.Ctx) error {
	var in dto.SetActiveRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	if err := h.uc.SetActive(c.UserContext(), c.Params("id"), *in.Active); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
