// Package salonapi is the development booking backend: the JSON endpoints the
// booking flow talks to, backed by Redis or Postgres.
package salonapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/salon-booking/internal/backend"
)

// StatusPending is the status of every newly created booking.
const StatusPending = "pending"

// ErrStoreUnavailable wraps failures of the underlying store.
var ErrStoreUnavailable = errors.New("salonapi: store unavailable")

// Store persists the catalog, user profiles and bookings.
type Store interface {
	ListServices(ctx context.Context) ([]backend.Service, error)
	IsRegistered(ctx context.Context, userID string) (bool, error)
	UpsertUser(ctx context.Context, user backend.RegisterUserRequest) error
	CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (backend.BookingResult, error)
	SeedServices(ctx context.Context, services []backend.Service) error
	Ping(ctx context.Context) error
}

// DefaultServices is the catalog seeded when no seed is configured.
var DefaultServices = []backend.Service{
	{ID: "cut", Name: "剪髮", Price: 800},
	{ID: "wash", Name: "洗髮", Price: 300},
	{ID: "color", Name: "染髮", Price: 2500},
	{ID: "perm", Name: "燙髮", Price: 3000},
	{ID: "treatment", Name: "護髮", Price: 1200},
}

// ParseSeedServices decodes a JSON service list. An empty input yields
// DefaultServices.
func ParseSeedServices(raw string) ([]backend.Service, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultServices, nil
	}
	var services []backend.Service
	if err := json.Unmarshal([]byte(raw), &services); err != nil {
		return nil, fmt.Errorf("salonapi: parse seed services: %w", err)
	}
	for i, svc := range services {
		if strings.TrimSpace(svc.ID) == "" || strings.TrimSpace(svc.Name) == "" {
			return nil, fmt.Errorf("salonapi: seed service %d needs _id and name", i)
		}
	}
	return services, nil
}
