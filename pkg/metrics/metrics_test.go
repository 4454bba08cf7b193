package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStoreMetricsExportaContadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.IncStoreOpened(nil)
	m.IncSnapshot(nil)
	m.IncSnapshot(errors.New("disco lleno"))
	m.IncTransaction("register_sale", nil)
	m.IncTransaction("", errors.New("x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storesOpened.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshots.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshots.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("register_sale", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues("unknown", "error")))
}

func TestStoreMetricsNilEsNoOp(t *testing.T) {
	var m *StoreMetrics
	assert.NotPanics(t, func() {
		m.IncStoreOpened(nil)
		m.IncSnapshot(errors.New("x"))
		m.IncTransaction("void_sale", nil)
	})

	sinRegistro := NewStoreMetrics(nil)
	assert.NotPanics(t, func() { sinRegistro.IncSnapshot(nil) })
}
