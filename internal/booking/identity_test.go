package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salon-booking/internal/host"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

func signedToken(t *testing.T, claims host.IDTokenClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestResolveIdentityFromProfile(t *testing.T) {
	h := &fakeHost{profile: host.Profile{UserID: " U1 ", DisplayName: "Alice", PictureURL: "https://img/a.png"}}

	id, err := resolveIdentity(context.Background(), h, host.InClient, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "U1", DisplayName: "Alice", AvatarURL: "https://img/a.png"}, id)
}

func TestResolveIdentityInClientProfileFailure(t *testing.T) {
	h := &fakeHost{profileErr: errors.New("boom")}

	_, err := resolveIdentity(context.Background(), h, host.InClient, logging.Discard())
	assert.ErrorIs(t, err, ErrIdentityUnavailable)
}

func TestResolveIdentityExternalFallsBackToToken(t *testing.T) {
	token := signedToken(t, host.IDTokenClaims{
		Name:             "Bob",
		Picture:          "https://img/b.png",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "U2"},
	})
	h := &fakeHost{profileErr: errors.New("boom"), idToken: token}

	id, err := resolveIdentity(context.Background(), h, host.External, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "U2", DisplayName: "Bob", AvatarURL: "https://img/b.png"}, id)
}

func TestResolveIdentityTokenFillsMissingName(t *testing.T) {
	token := signedToken(t, host.IDTokenClaims{
		Name:             "From Token",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ignored"},
	})
	h := &fakeHost{profile: host.Profile{UserID: "U1"}, idToken: token}

	id, err := resolveIdentity(context.Background(), h, host.External, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "U1", id.UserID, "profile user id wins")
	assert.Equal(t, "From Token", id.DisplayName)
}

func TestResolveIdentityPlaceholderName(t *testing.T) {
	h := &fakeHost{profileErr: errors.New("boom")}

	id, err := resolveIdentity(context.Background(), h, host.External, logging.Discard())
	require.NoError(t, err)
	assert.False(t, id.Valid())
	assert.Equal(t, placeholderName, id.DisplayName)
}
