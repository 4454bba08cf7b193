package entity

// BackupRecord entrada del registro de backups de un comercio (metadata.json).
type BackupRecord struct {
	File        string `json:"archivo"`
	Timestamp   string `json:"fecha"`
	Action      string `json:"accion"`
	Detail      string `json:"detalle"`
	TimestampMs int64  `json:"timestampMs"`
}
