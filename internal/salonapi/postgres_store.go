package salonapi

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/salon-booking/internal/backend"
)

// pgxDB is the subset of *pgxpool.Pool the store uses.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore persists to the tables created by the migrations package.
type PostgresStore struct {
	db pgxDB
}

func NewPostgresStore(db pgxDB) *PostgresStore {
	if db == nil {
		panic("salonapi: pgx pool required")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListServices(ctx context.Context) ([]backend.Service, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, price
		FROM services
		WHERE is_active
		ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list services: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	services := []backend.Service{}
	for rows.Next() {
		var svc backend.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price); err != nil {
			return nil, fmt.Errorf("salonapi: scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list services: %w", ErrStoreUnavailable, err)
	}
	return services, nil
}

func (s *PostgresStore) SeedServices(ctx context.Context, services []backend.Service) error {
	for i, svc := range services {
		_, err := s.db.Exec(ctx, `
			INSERT INTO services (id, name, price, display_order, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, price = EXCLUDED.price, display_order = EXCLUDED.display_order`,
			svc.ID, svc.Name, svc.Price, i)
		if err != nil {
			return fmt.Errorf("%w: seed service %s: %w", ErrStoreUnavailable, svc.ID, err)
		}
	}
	return nil
}

func (s *PostgresStore) IsRegistered(ctx context.Context, userID string) (bool, error) {
	var registered bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM salon_users WHERE user_id = $1 AND phone <> '')`,
		userID).Scan(&registered)
	if err != nil {
		return false, fmt.Errorf("%w: check user: %w", ErrStoreUnavailable, err)
	}
	return registered, nil
}

func (s *PostgresStore) UpsertUser(ctx context.Context, user backend.RegisterUserRequest) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO salon_users (user_id, display_name, picture_url, phone, birthday)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    picture_url = EXCLUDED.picture_url,
		    phone = EXCLUDED.phone,
		    birthday = EXCLUDED.birthday,
		    updated_at = now()`,
		user.UserID, user.DisplayName, user.PictureURL, user.Phone, user.Birthday)
	if err != nil {
		return fmt.Errorf("%w: upsert user: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (backend.BookingResult, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (id, user_id, display_name, picture_url, booking_date, booking_time, service_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, req.UserProfile.UserID, req.UserProfile.DisplayName, req.UserProfile.PictureURL,
		req.Date, req.Time, req.ServiceIDs, StatusPending)
	if err != nil {
		return backend.BookingResult{}, fmt.Errorf("%w: create booking: %w", ErrStoreUnavailable, err)
	}
	return backend.BookingResult{ID: id, Status: StatusPending}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
