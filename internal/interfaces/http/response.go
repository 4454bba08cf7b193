package http

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// Responder centraliza el binding de cuerpos y el mapeo de errores de dominio a HTTP.
// En producción los errores internos se registran y al cliente solo llega un mensaje genérico.
type Responder struct {
	log        *logger.Logger
	validate   *validator.Validate
	production bool
}

// NewResponder construye el responder compartido por los handlers.
func NewResponder(log *logger.Logger, production bool) *Responder {
	return &Responder{log: log, validate: validator.New(), production: production}
}

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: las variantes por entidad antes que ErrNotFound.
var errorMappings = []errorMapping{
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrSaleNotFound, fiber.StatusNotFound, "SALE_NOT_FOUND"},
	{domain.ErrAccountNotFound, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{domain.ErrBackupNotFound, fiber.StatusNotFound, "BACKUP_NOT_FOUND"},
	{domain.ErrExchangeNotFound, fiber.StatusNotFound, "EXCHANGE_NOT_FOUND"},
	{domain.ErrTenantNotFound, fiber.StatusNotFound, "TENANT_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// Fail escribe la respuesta de error correspondiente a err.
func (r *Responder) Fail(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	code := "INTERNAL"
	if errors.Is(err, domain.ErrTransaction) {
		code = "TRANSACTION_FAILED"
	}
	r.log.Error().Err(err).
		Str("tenant", GetTenantID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	msg := err.Error()
	if r.production {
		msg = "error interno del servidor"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// Bind parsea el cuerpo en out y lo valida. Si falla ya escribió la respuesta 400 y ok es false;
// el handler debe devolver err tal cual.
func (r *Responder) Bind(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return r.Check(c, out)
}

// Check valida una estructura ya poblada (cuerpo o query).
func (r *Responder) Check(c *fiber.Ctx, in any) (ok bool, err error) {
	if err := r.validate.Struct(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	msg := "campo " + fe.Namespace() + " inválido (" + fe.Tag()
	if fe.Param() != "" {
		msg += "=" + fe.Param()
	}
	return msg + ")"
}

// ParamID lee un id numérico de la ruta. Si no es válido ya escribió la respuesta 400.
func ParamID(c *fiber.Ctx, name string) (int64, bool, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: name + " debe ser un entero positivo"})
	}
	return id, true, nil
}
