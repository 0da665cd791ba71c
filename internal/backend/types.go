package backend

import (
	"errors"
	"fmt"
)

// Service is a bookable catalog entry as served by GET /api/services.
type Service struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// UserProfile identifies the booking user on the wire.
type UserProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// RegisterUserRequest is the body of PUT /api/users.
type RegisterUserRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
	Phone       string `json:"phone"`
	Birthday    string `json:"birthday"`
}

// CreateBookingRequest is the body of POST /api/bookings.
type CreateBookingRequest struct {
	UserProfile UserProfile `json:"userProfile"`
	Date        string      `json:"date"` // YYYY-MM-DD
	Time        string      `json:"time"` // HH:MM
	ServiceIDs  []string    `json:"serviceIds"`
}

// BookingResult is the server's reply to a created booking.
type BookingResult struct {
	ID     string `json:"_id"`
	Status string `json:"status,omitempty"`
}

// CheckResponse is the body of GET /api/users/check.
type CheckResponse struct {
	Registered bool `json:"registered"`
}

// ErrorResponse is the error body every endpoint may return.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError reports a non-2xx reply. Message holds the server-supplied error
// text and is empty when the body could not be parsed.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %s returned %d", e.Op, e.StatusCode)
}

// AsStatusError unwraps err into a *StatusError when it is one.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
