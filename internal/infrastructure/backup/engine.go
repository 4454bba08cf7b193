// Package backup guarda una copia completa de la base de un comercio después de cada
// operación que la modifica y permite volver a cualquiera de esas copias.
//
// Estructura en disco:
//
//	<backup_dir>/<tenant>/<YYYY-MM-DD_HH-MM-SS.ffffff>_<accion>.db
//	<backup_dir>/<tenant>/metadata.json   (más reciente primero, máximo Limit entradas)
//	<data_dir>/<tenant>.restore_pending.db (restauración preparada, se aplica al iniciar)
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/sqlite"
	"github.com/jhoicas/tienda-pos/pkg/logger"
	"github.com/jhoicas/tienda-pos/pkg/metrics"
)

var _ ports.Snapshotter = (*Engine)(nil)

const (
	metadataFile  = "metadata.json"
	pendingSuffix = ".restore_pending.db"
	maxActionLen  = 30

	// ActionPreRestore etiqueta del snapshot tomado antes de preparar una restauración.
	ActionPreRestore = "Pre-restauración"
)

// StoreResolver es lo que el motor necesita del registro de comercios.
type StoreResolver interface {
	Resolve(ctx context.Context, tenantID string) (*sqlite.Store, error)
	Invalidate(tenantID string)
}

// Config ubicación de backups y bases.
type Config struct {
	BackupDir string
	DataDir   string
	Limit     int
}

// Engine motor de backups por comercio.
type Engine struct {
	cfg     Config
	stores  StoreResolver
	log     *logger.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine construye el motor. m puede ser nil.
func NewEngine(cfg Config, stores StoreResolver, log *logger.Logger, m *metrics.StoreMetrics) *Engine {
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	return &Engine{
		cfg:     cfg,
		stores:  stores,
		log:     log,
		metrics: m,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

// tenantLock serializa el read-modify-write de metadata.json de un comercio.
func (e *Engine) tenantLock(tenantID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[tenantID] = l
	}
	return l
}

func (e *Engine) tenantDir(tenantID string) string {
	return filepath.Join(e.cfg.BackupDir, tenantID)
}

// PendingPath ruta de la restauración preparada de un comercio.
func (e *Engine) PendingPath(tenantID string) string {
	return filepath.Join(e.cfg.DataDir, tenantID+pendingSuffix)
}

// Snapshot copia la base completa del comercio y registra la acción. Nunca devuelve error:
// un backup fallido se registra y no afecta a la operación que lo disparó.
func (e *Engine) Snapshot(ctx context.Context, tenantID, action, detail string) {
	rec, err := e.snapshot(ctx, tenantID, action, detail)
	e.metrics.IncSnapshot(err)
	if err != nil {
		e.log.Error().Err(err).Str("tenant", tenantID).Str("action", action).Msg("backup fallido")
		return
	}
	e.log.Debug().Str("tenant", tenantID).Str("file", rec.File).Msg("backup creado")
}

func (e *Engine) snapshot(ctx context.Context, tenantID, action, detail string) (*entity.BackupRecord, error) {
	if !entity.ValidTenantID(tenantID) {
		return nil, domain.Invalid("identificador de comercio %q", tenantID)
	}
	lock := e.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	dir := e.tenantDir(tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de backups: %w", err)
	}
	records, err := readMetadata(dir)
	if err != nil {
		return nil, err
	}

	st, err := e.stores.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	name := uniqueName(dir, now.Format("2006-01-02_15-04-05.000000")+"_"+sanitizeAction(action))
	if err := st.VacuumInto(ctx, filepath.Join(dir, name)); err != nil {
		return nil, err
	}

	rec := entity.BackupRecord{
		File:        name,
		Timestamp:   now.Format("2006-01-02_15-04-05"),
		Action:      action,
		Detail:      detail,
		TimestampMs: now.UnixMilli(),
	}
	records = append([]entity.BackupRecord{rec}, records...)
	if len(records) > e.cfg.Limit {
		for _, old := range records[e.cfg.Limit:] {
			if err := os.Remove(filepath.Join(dir, filepath.Base(old.File))); err != nil && !errors.Is(err, os.ErrNotExist) {
				e.log.Warn().Err(err).Str("tenant", tenantID).Str("file", old.File).Msg("no se pudo eliminar backup antiguo")
			}
		}
		records = records[:e.cfg.Limit]
	}
	if err := writeMetadata(dir, records); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List registro de backups del comercio, más reciente primero. Vacío si no hay.
func (e *Engine) List(tenantID string) ([]entity.BackupRecord, error) {
	if !entity.ValidTenantID(tenantID) {
		return nil, domain.Invalid("identificador de comercio %q", tenantID)
	}
	lock := e.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()
	return readMetadata(e.tenantDir(tenantID))
}

// PrepareRestore deja el backup elegido como restauración pendiente sin tocar la base viva.
// El archivo tiene que figurar en metadata.json. La copia pendiente se hace antes del snapshot
// de pre-restauración, porque ese snapshot puede desalojar al backup más antiguo del registro.
// La restauración se aplica en el próximo inicio del proceso (ApplyStagedRestores).
func (e *Engine) PrepareRestore(ctx context.Context, tenantID, file string) error {
	if !entity.ValidTenantID(tenantID) {
		return domain.Invalid("identificador de comercio %q", tenantID)
	}
	if file == "" || file != filepath.Base(file) || !strings.HasSuffix(file, ".db") || strings.HasPrefix(file, ".") {
		return domain.ErrBackupNotFound
	}
	if err := e.stageRestore(tenantID, file); err != nil {
		return err
	}

	e.Snapshot(ctx, tenantID, ActionPreRestore, "Antes de restaurar a: "+file)
	e.log.Info().Str("tenant", tenantID).Str("file", file).Msg("restauración preparada, requiere reinicio")
	return nil
}

// stageRestore copia el backup a la ruta pendiente con el lock del comercio tomado,
// así ningún snapshot concurrente lo desaloja a mitad de la copia.
func (e *Engine) stageRestore(tenantID, file string) error {
	lock := e.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	dir := e.tenantDir(tenantID)
	records, err := readMetadata(dir)
	if err != nil {
		return err
	}
	listed := false
	for _, r := range records {
		if r.File == file {
			listed = true
			break
		}
	}
	if !listed {
		return domain.ErrBackupNotFound
	}
	src := filepath.Join(dir, file)
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return domain.ErrBackupNotFound
	}

	if err := os.MkdirAll(e.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("crear directorio de datos: %w", err)
	}
	if err := copyFile(src, e.PendingPath(tenantID)); err != nil {
		return fmt.Errorf("preparar restauración: %w", err)
	}
	return nil
}

// ApplyStagedRestores reemplaza la base viva de cada comercio con restauración pendiente.
// Debe ejecutarse al iniciar el proceso, antes de servir peticiones. Devuelve los comercios restaurados.
func (e *Engine) ApplyStagedRestores() ([]string, error) {
	pending, err := filepath.Glob(filepath.Join(e.cfg.DataDir, "*"+pendingSuffix))
	if err != nil {
		return nil, fmt.Errorf("buscar restauraciones pendientes: %w", err)
	}
	var restored []string
	for _, p := range pending {
		tenantID := strings.TrimSuffix(filepath.Base(p), pendingSuffix)
		if !entity.ValidTenantID(tenantID) {
			e.log.Warn().Str("file", p).Msg("restauración pendiente con nombre inválido, se ignora")
			continue
		}
		e.stores.Invalidate(tenantID)
		live := filepath.Join(e.cfg.DataDir, tenantID+".db")
		// Un WAL viejo se aplicaría sobre el archivo restaurado.
		for _, suffix := range []string{"-wal", "-shm"} {
			if err := os.Remove(live + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
				return restored, fmt.Errorf("eliminar %s%s: %w", live, suffix, err)
			}
		}
		if err := os.Rename(p, live); err != nil {
			return restored, fmt.Errorf("aplicar restauración de %s: %w", tenantID, err)
		}
		e.log.Info().Str("tenant", tenantID).Msg("base restaurada")
		restored = append(restored, tenantID)
	}
	return restored, nil
}

func readMetadata(dir string) ([]entity.BackupRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entity.BackupRecord{}, nil
		}
		return nil, fmt.Errorf("leer metadata de backups: %w", err)
	}
	records := []entity.BackupRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("metadata de backups corrupta: %w", err)
	}
	return records, nil
}

// writeMetadata escribe a un temporal y renombra para no dejar un índice a medio escribir.
func writeMetadata(dir string, records []entity.BackupRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar metadata: %w", err)
	}
	tmp := filepath.Join(dir, metadataFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribir metadata: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, metadataFile)); err != nil {
		return fmt.Errorf("reemplazar metadata: %w", err)
	}
	return nil
}

// sanitizeAction deja la etiqueta apta para un nombre de archivo (máx. 30 caracteres).
func sanitizeAction(action string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(action) {
		if n >= maxActionLen {
			break
		}
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			continue
		}
		n++
	}
	if b.Len() == 0 {
		return "backup"
	}
	return b.String()
}

// uniqueName agrega un sufijo si ya existe un backup con el mismo nombre.
func uniqueName(dir, base string) string {
	name := base + ".db"
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, name)); errors.Is(err, os.ErrNotExist) {
			return name
		}
		name = fmt.Sprintf("%s-%d.db", base, i)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
