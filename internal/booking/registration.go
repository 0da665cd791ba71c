package booking

import (
	"context"
	"strings"

	"github.com/wolfman30/salon-booking/internal/backend"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

// UserRegistrar stores a first-time user's profile.
type UserRegistrar interface {
	RegisterUser(ctx context.Context, req backend.RegisterUserRequest) error
}

// RegistrationForm is the one-time profile a new user fills in.
type RegistrationForm struct {
	Phone    string
	Birthday string
}

// registrar is the registration-submission flow: it saves the profile and then
// hands the gate its resolution.
type registrar struct {
	users  UserRegistrar
	gate   *RegistrationGate
	logger *logging.Logger
}

func (r *registrar) submit(ctx context.Context, id Identity, form RegistrationForm) error {
	if !id.Valid() {
		return ErrIdentityUnavailable
	}
	req := backend.RegisterUserRequest{
		UserID:      id.UserID,
		DisplayName: id.DisplayName,
		PictureURL:  id.AvatarURL,
		Phone:       strings.TrimSpace(form.Phone),
		Birthday:    strings.TrimSpace(form.Birthday),
	}
	if err := r.users.RegisterUser(ctx, req); err != nil {
		regErr := &RegistrationError{Err: err}
		if se, ok := backend.AsStatusError(err); ok {
			regErr.Message = se.Message
		}
		r.logger.Warn("registration rejected", "user_id", id.UserID, "error", err)
		return regErr
	}
	if !r.gate.Resolve() {
		r.logger.Debug("registration signal already consumed", "user_id", id.UserID)
	}
	r.logger.Info("registration completed", "user_id", id.UserID)
	return nil
}
