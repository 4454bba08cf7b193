package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

// tenantChecker es el contrato mínimo que necesita el middleware para verificar el comercio.
// Lo implementa *auth.AuthUseCase.
type tenantChecker interface {
	GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
}

// RequireActiveTenant verifica que el comercio del token siga activo en el directorio.
// Un token emitido antes de suspender al comercio deja de servir de inmediato.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay tenant en el contexto o el comercio ya no existe.
//   - 403 si el comercio está suspendido.
//   - 503 si falla la consulta al directorio.
func RequireActiveTenant(checker tenantChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetTenantID(c)
		if tenantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "tenant no encontrado en el token",
			})
		}

		t, err := checker.GetTenant(c.UserContext(), tenantID)
		if errors.Is(err, domain.ErrTenantNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "el comercio no existe",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "TENANT_CHECK_FAILED",
				Message: "no se pudo verificar el comercio, intente más tarde",
			})
		}

		if !t.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "TENANT_DISABLED",
				Message: "el comercio '" + tenantID + "' está suspendido",
			})
		}

		c.Locals(LocalBusinessName, t.BusinessName)
		return c.Next()
	}
}

// LocalBusinessName razón social del comercio, cargada por RequireActiveTenant.
const LocalBusinessName = "business_name"

// GetBusinessName devuelve la razón social del comercio, o su id si no se cargó.
func GetBusinessName(c *fiber.Ctx) string {
	if s, _ := c.Locals(LocalBusinessName).(string); s != "" {
		return s
	}
	return GetTenantID(c)
}
