package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	appconfig "github.com/wolfman30/salon-booking/internal/config"
	"github.com/wolfman30/salon-booking/internal/salonapi"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

func TestSetupMetricsExposesAPIMetrics(t *testing.T) {
	handler, m := setupMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.ObserveRequest(http.MethodPost, "/api/bookings", http.StatusCreated, 0.01)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "salon_api_requests_total") {
		t.Fatalf("expected request counter to be exported")
	}
}

func TestBuildStoreRedisSeedsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{StoreBackend: "redis", RedisAddr: mr.Addr()}
	ctx := context.Background()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		t.Fatalf("buildStore: %v", err)
	}
	defer closeStore()

	logger := logging.Discard()
	if err := seedServices(ctx, store, "", logger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.SeedServices(ctx, salonapi.DefaultServices[:1]); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if err := seedServices(ctx, store, "", logger); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	services, err := store.ListServices(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("expected existing catalog to be kept, got %d services", len(services))
	}
}

func TestBuildStoreErrors(t *testing.T) {
	ctx := context.Background()
	if _, _, err := buildStore(ctx, &appconfig.Config{StoreBackend: "postgres"}); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
	if _, _, err := buildStore(ctx, &appconfig.Config{StoreBackend: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
