package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics contadores del núcleo transaccional por comercio.
// Un *StoreMetrics nil (o sin registrar) es válido: todas las operaciones son no-op.
type StoreMetrics struct {
	storesOpened *prometheus.CounterVec
	snapshots    *prometheus.CounterVec
	transactions *prometheus.CounterVec
}

// NewStoreMetrics registra los contadores en el registerer indicado.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	storesOpened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tenant_stores_opened_total",
		Help: "Bases de comercio abiertas (aprovisionamiento perezoso).",
	}, []string{"result"})
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backup_snapshots_total",
		Help: "Snapshots de backup por resultado.",
	}, []string{"result"})
	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_transactions_total",
		Help: "Transacciones de escritura por operación y resultado.",
	}, []string{"operation", "result"})
	reg.MustRegister(storesOpened, snapshots, transactions)
	return &StoreMetrics{
		storesOpened: storesOpened,
		snapshots:    snapshots,
		transactions: transactions,
	}
}

// IncStoreOpened cuenta una apertura de base (ok | error).
func (m *StoreMetrics) IncStoreOpened(err error) {
	if m == nil || m.storesOpened == nil {
		return
	}
	m.storesOpened.WithLabelValues(result(err)).Inc()
}

// IncSnapshot cuenta un snapshot de backup (ok | error).
func (m *StoreMetrics) IncSnapshot(err error) {
	if m == nil || m.snapshots == nil {
		return
	}
	m.snapshots.WithLabelValues(result(err)).Inc()
}

// IncTransaction cuenta una transacción terminada.
func (m *StoreMetrics) IncTransaction(operation string, err error) {
	if m == nil || m.transactions == nil {
		return
	}
	m.transactions.WithLabelValues(normalizeLabel(operation), result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func normalizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
