package dto

// BackupResponse entrada del registro de backups.
type BackupResponse struct {
	File        string `json:"file"`
	Timestamp   string `json:"timestamp"`
	Action      string `json:"action"`
	Detail      string `json:"detail"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// RestoreRequest restauración de un backup listado.
type RestoreRequest struct {
	File string `json:"file" validate:"required,max=255"`
}

// RestoreResponse la restauración queda pendiente hasta reiniciar el proceso.
type RestoreResponse struct {
	File            string `json:"file"`
	Pending         bool   `json:"pending"`
	RequiresRestart bool   `json:"requires_restart"`
}
