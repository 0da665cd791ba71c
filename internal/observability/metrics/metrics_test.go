package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveCatalogLoad("ok")
	m.ObserveCatalogLoad("ok")
	m.ObserveRegistrationCheck("registered")
	m.ObserveSubmission("success", 0.2)
	m.ObserveNotification("message")

	if got := testutil.ToFloat64(m.catalogLoads.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 catalog loads, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 submission, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var latency *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "salon_booking_submit_latency_seconds" {
			latency = f
		}
	}
	if latency == nil {
		t.Fatal("expected latency histogram to be registered")
	}
	if got := latency.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 latency sample, got %d", got)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveCatalogLoad("error")
	m.ObserveRegistrationCheck("failed")
	m.ObserveSubmission("timeout", 15)
	m.ObserveNotification("none")
}

func TestAPIMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)
	m.ObserveRequest("POST", "/api/bookings", 201, 0.01)
	m.ObserveRequest("POST", "/api/bookings", 400, 0.01)
	m.ObserveRateLimited()

	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/bookings", "201")); got != 1 {
		t.Fatalf("expected 1 created request, got %v", got)
	}
	if got := testutil.ToFloat64(m.limited); got != 1 {
		t.Fatalf("expected 1 limited request, got %v", got)
	}
}

func TestAPIMetricsNilSafe(t *testing.T) {
	var m *APIMetrics
	m.ObserveRequest("GET", "/health", 200, 0)
	m.ObserveRateLimited()
}
