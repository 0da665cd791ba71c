package host

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIDToken is returned when there is no identity token to decode.
var ErrNoIDToken = errors.New("host: no id token")

// IDTokenClaims are the identity token claims the booking flow reads.
// Subject carries the host user id.
type IDTokenClaims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// DecodeIDToken reads the claims of raw without verifying its signature. The host
// already verified the token; the flow only needs the display fields.
func DecodeIDToken(raw string) (*IDTokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoIDToken
	}
	claims := &IDTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("host: decode id token: %w", err)
	}
	return claims, nil
}
