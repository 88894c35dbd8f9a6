package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics records reservation-engine activity per flavor.
type InventoryMetrics struct {
	reserveAttempts *prometheus.CounterVec
	reserveRejected *prometheus.CounterVec
	releaseClamped  *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reserve_attempts",
		Help: "Reservation attempts against the flavor ledger.",
	}, []string{"flavor"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reserve_rejected",
		Help: "Reservations rejected for insufficient stock.",
	}, []string{"flavor"})
	clamped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_release_clamped",
		Help: "Releases that would have driven reserved below zero.",
	}, []string{"flavor"})
	reg.MustRegister(attempts, rejected, clamped)
	return &InventoryMetrics{
		reserveAttempts: attempts,
		reserveRejected: rejected,
		releaseClamped:  clamped,
	}
}

// IncReserveAttempt counts one reservation attempt for the flavor.
func (m *InventoryMetrics) IncReserveAttempt(flavor string) {
	if m == nil || m.reserveAttempts == nil {
		return
	}
	m.reserveAttempts.WithLabelValues(normalizeLabel(flavor)).Inc()
}

// IncReserveRejected counts one insufficient-stock rejection for the flavor.
func (m *InventoryMetrics) IncReserveRejected(flavor string) {
	if m == nil || m.reserveRejected == nil {
		return
	}
	m.reserveRejected.WithLabelValues(normalizeLabel(flavor)).Inc()
}

// IncReleaseClamped counts one clamped release. A nonzero series means the
// reserve/release accounting has drifted and needs investigation.
func (m *InventoryMetrics) IncReleaseClamped(flavor string) {
	if m == nil || m.releaseClamped == nil {
		return
	}
	m.releaseClamped.WithLabelValues(normalizeLabel(flavor)).Inc()
}

func normalizeLabel(flavor string) string {
	if flavor == "" {
		return "unknown"
	}
	return flavor
}
