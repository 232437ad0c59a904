package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestExtrasMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewExtrasMetrics(reg)
	metrics.ObserveResolution("ok", 250*time.Millisecond)
	metrics.ObserveResolution("error", 10*time.Millisecond)
	metrics.IncCacheHit()
	metrics.IncCacheMiss()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "extras_resolutions_total", "outcome", "ok"); err != nil {
		t.Fatalf("fetch ok outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected ok=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "extras_resolutions_total", "outcome", "error"); err != nil {
		t.Fatalf("fetch error outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected error=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "extras_resolution_cache_total", "result", "hit"); err != nil {
		t.Fatalf("fetch cache hit: %v", err)
	} else if got != 1 {
		t.Fatalf("expected hit=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "extras_resolution_duration_seconds", "outcome", "ok"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestExtrasMetricsNilSafe(t *testing.T) {
	var metrics *ExtrasMetrics
	metrics.ObserveResolution("ok", time.Second)
	metrics.IncCacheHit()
	metrics.IncCacheMiss()

	unregistered := NewExtrasMetrics(nil)
	unregistered.ObserveResolution("ok", time.Second)
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
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
