package salonapi

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salon-booking/internal/backend"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	store.now = func() time.Time { return time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC) }
	return store, mr
}

func TestRedisStoreServicesKeepSeedOrder(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)

	require.NoError(t, store.SeedServices(ctx, DefaultServices))
	require.NoError(t, store.SeedServices(ctx, DefaultServices[:2]))

	services, err = store.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultServices[:2], services, "reseeding replaces the catalog")
}

func TestRedisStoreRegistration(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	registered, err := store.IsRegistered(ctx, "U1")
	require.NoError(t, err)
	assert.False(t, registered)

	require.NoError(t, store.UpsertUser(ctx, backend.RegisterUserRequest{
		UserID: "U1", DisplayName: "Alice", Phone: "0912345678", Birthday: "1990-01-01",
	}))

	registered, err = store.IsRegistered(ctx, "U1")
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, "0912345678", mr.HGet("salon:user:U1", "phone"))
	assert.Equal(t, "2025-05-20T10:00:00Z", mr.HGet("salon:user:U1", "updated_at"))
}

func TestRedisStoreCreateBooking(t *testing.T) {
	store, mr := newRedisStore(t)

	result, err := store.CreateBooking(context.Background(), backend.CreateBookingRequest{
		UserProfile: backend.UserProfile{UserID: "U1", DisplayName: "Alice"},
		Date:        "2025-06-01",
		Time:        "14:00",
		ServiceIDs:  []string{"s1", "s2"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, StatusPending, result.Status)

	ids, err := mr.List(redisBookingsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{result.ID}, ids)
	assert.Equal(t, `["s1","s2"]`, mr.HGet(redisBookPrefix+result.ID, "service_ids"))
	assert.Equal(t, "U1", mr.HGet(redisBookPrefix+result.ID, "user_id"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.ListServices(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Error(t, store.Ping(context.Background()))
}
