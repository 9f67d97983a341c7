package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncStarted()
	m.IncCompleted()
	m.IncFailed()
	m.IncRolledBack()
	m.IncCompensationFailure()
	m.ObserveStep("RESERVE_STOCK", 150*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	counters := map[string]float64{
		"erp_checkout_started_total":               1,
		"erp_checkout_completed_total":             1,
		"erp_checkout_failed_total":                1,
		"erp_checkout_rolled_back_total":           1,
		"erp_checkout_compensation_failures_total": 1,
	}
	for name, want := range counters {
		got, err := fetchCounterValue(mfs, name, "", "")
		if err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("expected %s=%f, got %f", name, want, got)
		}
	}

	sum, err := fetchHistogramSum(mfs, "erp_checkout_step_duration_seconds", "step", "RESERVE_STOCK")
	if err != nil {
		t.Fatalf("fetch step duration: %v", err)
	}
	if sum <= 0 {
		t.Fatalf("expected step duration sum > 0, got %f", sum)
	}
}

func TestNilCheckoutMetricsAreSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.IncStarted()
	m.ObserveStep("FINALIZE", time.Millisecond)

	noop := NewCheckoutMetrics(nil)
	noop.IncCompleted()
	noop.ObserveStep("", time.Millisecond)
}

func TestTxnMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTxnMetrics(reg)

	m.IncStarted()
	m.IncCommitted()
	m.IncRolledBack()
	m.IncRetried()
	m.IncDeadlocks()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for name, want := range map[string]float64{
		"erp_txn_started_total":     1,
		"erp_txn_committed_total":   1,
		"erp_txn_rolled_back_total": 1,
		"erp_txn_retried_total":     1,
		"erp_txn_deadlocks_total":   1,
	} {
		got, err := fetchCounterValue(mfs, name, "", "")
		if err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("expected %s=%f, got %f", name, want, got)
		}
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
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

func matchesLabel(pairs []*dto.LabelPair, label, value string) bool {
	for _, pair := range pairs {
		if pair.GetName() == label && pair.GetValue() == value {
			return true
		}
	}
	return false
}
