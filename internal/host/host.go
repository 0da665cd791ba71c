// Package host describes the capabilities the embedding messaging app exposes to
// the booking flow. The flow only branches on the success or failure of these
// calls; it never depends on how the host implements them.
package host

import (
	"context"
	"errors"
)

var (
	// ErrNotInClient is returned by capabilities that only exist inside the host container.
	ErrNotInClient = errors.New("host: not running inside the host container")
	// ErrProfileUnavailable is returned when the host cannot supply a profile.
	ErrProfileUnavailable = errors.New("host: profile unavailable")
)

// Profile is the authenticated user as reported by the host.
type Profile struct {
	UserID      string
	DisplayName string
	PictureURL  string
}

// Message is a single in-host chat message.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextMessage builds a plain text message.
func TextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// Client is the capability set consumed from the host SDK.
type Client interface {
	IsLoggedIn() bool
	// Login starts the host login; in a browser this navigates away from the page.
	Login(ctx context.Context) error
	Profile(ctx context.Context) (Profile, error)
	IsInClient() bool
	// IDToken returns the raw identity token, or "" when none is available.
	IDToken() string
	SendMessages(ctx context.Context, msgs []Message) error
	OpenWindow(ctx context.Context, url string, external bool) error
	CloseWindow(ctx context.Context) error
	// Navigate replaces the current page location (external browser only).
	Navigate(ctx context.Context, url string) error
}

// Environment is where the session runs. It is resolved once per session.
type Environment int

const (
	// External is a regular browser (or console) outside the host container.
	External Environment = iota
	// InClient is inside the host container with native messaging available.
	InClient
)

func (e Environment) String() string {
	if e == InClient {
		return "in_client"
	}
	return "external"
}

// Classify resolves the environment for c.
func Classify(c Client) Environment {
	if c != nil && c.IsInClient() {
		return InClient
	}
	return External
}
