package salonapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/salon-booking/internal/backend"
)

const (
	redisServicesKey = "salon:services"
	redisBookingsKey = "salon:bookings"
	redisUserPrefix  = "salon:user:"
	redisBookPrefix  = "salon:booking:"
)

// RedisStore keeps the catalog as an ordered list of JSON entries, users as
// hashes and bookings as hashes indexed by a list of ids.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("salonapi: redis client required")
	}
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) ListServices(ctx context.Context) ([]backend.Service, error) {
	raw, err := s.client.LRange(ctx, redisServicesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list services: %w", ErrStoreUnavailable, err)
	}
	services := make([]backend.Service, 0, len(raw))
	for _, entry := range raw {
		var svc backend.Service
		if err := json.Unmarshal([]byte(entry), &svc); err != nil {
			return nil, fmt.Errorf("salonapi: decode service: %w", err)
		}
		services = append(services, svc)
	}
	return services, nil
}

func (s *RedisStore) SeedServices(ctx context.Context, services []backend.Service) error {
	entries := make([]any, 0, len(services))
	for _, svc := range services {
		data, err := json.Marshal(svc)
		if err != nil {
			return fmt.Errorf("salonapi: encode service: %w", err)
		}
		entries = append(entries, string(data))
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisServicesKey)
		if len(entries) > 0 {
			pipe.RPush(ctx, redisServicesKey, entries...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: seed services: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// IsRegistered is true once the user has stored a phone number.
func (s *RedisStore) IsRegistered(ctx context.Context, userID string) (bool, error) {
	phone, err := s.client.HGet(ctx, redisUserPrefix+userID, "phone").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check user: %w", ErrStoreUnavailable, err)
	}
	return phone != "", nil
}

func (s *RedisStore) UpsertUser(ctx context.Context, user backend.RegisterUserRequest) error {
	err := s.client.HSet(ctx, redisUserPrefix+user.UserID,
		"display_name", user.DisplayName,
		"picture_url", user.PictureURL,
		"phone", user.Phone,
		"birthday", user.Birthday,
		"updated_at", s.now().UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: upsert user: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (backend.BookingResult, error) {
	serviceIDs, err := json.Marshal(req.ServiceIDs)
	if err != nil {
		return backend.BookingResult{}, fmt.Errorf("salonapi: encode service ids: %w", err)
	}
	id := uuid.NewString()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisBookPrefix+id,
			"user_id", req.UserProfile.UserID,
			"display_name", req.UserProfile.DisplayName,
			"picture_url", req.UserProfile.PictureURL,
			"date", req.Date,
			"time", req.Time,
			"service_ids", string(serviceIDs),
			"status", StatusPending,
			"created_at", s.now().UTC().Format(time.RFC3339),
		)
		pipe.RPush(ctx, redisBookingsKey, id)
		return nil
	})
	if err != nil {
		return backend.BookingResult{}, fmt.Errorf("%w: create booking: %w", ErrStoreUnavailable, err)
	}
	return backend.BookingResult{ID: id, Status: StatusPending}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
