package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/salon-booking/internal/host"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

// placeholderName is shown when neither the host nor the token supplies a name.
const placeholderName = "顧客"

// Identity is the authenticated user for one session. It is captured once and
// not changed afterwards.
type Identity struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// Valid reports whether the identity carries a stable user id.
func (id Identity) Valid() bool {
	return strings.TrimSpace(id.UserID) != ""
}

// resolveIdentity obtains the session identity from the host. Inside the host
// container a failed profile call is fatal; outside it the identity token's
// claims fill in, and the returned identity may lack a user id.
func resolveIdentity(ctx context.Context, h host.Client, env host.Environment, logger *logging.Logger) (Identity, error) {
	var id Identity

	profile, err := h.Profile(ctx)
	if err != nil {
		if env == host.InClient {
			return Identity{}, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
		}
		logger.Warn("host profile unavailable, falling back to id token", "error", err)
	} else {
		id = Identity{
			UserID:      strings.TrimSpace(profile.UserID),
			DisplayName: profile.DisplayName,
			AvatarURL:   profile.PictureURL,
		}
	}

	if !id.Valid() || id.DisplayName == "" {
		if claims, cerr := host.DecodeIDToken(h.IDToken()); cerr == nil {
			if id.UserID == "" {
				id.UserID = strings.TrimSpace(claims.Subject)
			}
			if id.DisplayName == "" {
				id.DisplayName = claims.Name
			}
			if id.AvatarURL == "" {
				id.AvatarURL = claims.Picture
			}
		}
	}
	if id.DisplayName == "" {
		id.DisplayName = placeholderName
	}
	return id, nil
}
