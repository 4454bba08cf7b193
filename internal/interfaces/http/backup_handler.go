package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// backupService lo que el handler necesita del motor de backups.
type backupService interface {
	List(tenantID string) ([]entity.BackupRecord, error)
	PrepareRestore(ctx context.Context, tenantID, file string) error
}

// BackupHandler lista y restaura backups del comercio autenticado.
type BackupHandler struct {
	svc backupService
	rs  *Responder
}

// NewBackupHandler construye el handler.
func NewBackupHandler(svc backupService, rs *Responder) *BackupHandler {
	return &BackupHandler{svc: svc, rs: rs}
}

// List godoc
// @Summary      Listar backups
// @Description  Más reciente primero.
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BackupResponse
// @Router       /api/backups [get]
func (h *BackupHandler) List(c *fiber.Ctx) error {
	records, err := h.svc.List(GetTenantID(c))
	if err != nil {
		return h.rs.Fail(c, err)
	}
	out := make([]dto.BackupResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.BackupResponse{
			File:        r.File,
			Timestamp:   r.Timestamp,
			Action:      r.Action,
			Detail:      r.Detail,
			TimestampMs: r.TimestampMs,
		})
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar backup
// @Description  Deja la restauración preparada; se aplica al reiniciar el servidor.
// @Tags         backups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestoreRequest  true  "Archivo listado en /api/backups"
// @Success      202  {object}  dto.RestoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/backups/restore [post]
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreRequest
	if ok, err := h.rs.Bind(c, &in); !ok {
		return err
	}
	if err := h.svc.PrepareRestore(c.UserContext(), GetTenantID(c), in.File); err != nil {
		return h.rs.Fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.RestoreResponse{File: in.File, Pending: true, RequiresRestart: true})
}
