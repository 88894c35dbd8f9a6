package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestInventoryMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewInventoryMetrics(reg)
	flavor := "red_twist"
	metrics.IncReserveAttempt(flavor)
	metrics.IncReserveAttempt(flavor)
	metrics.IncReserveRejected(flavor)
	metrics.IncReleaseClamped(flavor)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "inventory_reserve_attempts", "flavor", flavor); err != nil {
		t.Fatalf("fetch attempts: %v", err)
	} else if got != 2 {
		t.Fatalf("expected attempts=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "inventory_reserve_rejected", "flavor", flavor); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "inventory_release_clamped", "flavor", flavor); err != nil {
		t.Fatalf("fetch clamped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected clamped=1, got %f", got)
	}
}

func TestInventoryMetricsNilSafe(t *testing.T) {
	var metrics *InventoryMetrics
	metrics.IncReserveAttempt("red_twist")
	metrics.IncReserveRejected("red_twist")
	metrics.IncReleaseClamped("red_twist")

	unregistered := NewInventoryMetrics(nil)
	unregistered.IncReserveAttempt("")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
