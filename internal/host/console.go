package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleConfig configures a Console host.
type ConsoleConfig struct {
	Profile Profile
	IDToken string
	Out     io.Writer
}

// Console is a Client for running the flow outside the host container. Window and
// navigation calls are written to Out.
type Console struct {
	profile Profile
	idToken string
	out     io.Writer

	mu          sync.Mutex
	opened      []string
	navigations []string
}

// NewConsole creates a console host.
func NewConsole(cfg ConsoleConfig) *Console {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Console{profile: cfg.Profile, idToken: cfg.IDToken, out: out}
}

func (c *Console) IsLoggedIn() bool {
	return c.profile.UserID != "" || c.idToken != ""
}

func (c *Console) Login(ctx context.Context) error {
	_, err := fmt.Fprintln(c.out, "login required: set HOST_USER_ID or HOST_ID_TOKEN")
	return err
}

func (c *Console) Profile(ctx context.Context) (Profile, error) {
	if c.profile.UserID == "" {
		return Profile{}, ErrProfileUnavailable
	}
	return c.profile, nil
}

func (c *Console) IsInClient() bool { return false }

func (c *Console) IDToken() string { return c.idToken }

func (c *Console) SendMessages(ctx context.Context, msgs []Message) error {
	return ErrNotInClient
}

func (c *Console) OpenWindow(ctx context.Context, url string, external bool) error {
	c.mu.Lock()
	c.opened = append(c.opened, url)
	c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "open %s (external=%t)\n", url, external)
	return err
}

func (c *Console) CloseWindow(ctx context.Context) error {
	return ErrNotInClient
}

func (c *Console) Navigate(ctx context.Context, url string) error {
	c.mu.Lock()
	c.navigations = append(c.navigations, url)
	c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "navigate %s\n", url)
	return err
}

// Opened returns the URLs passed to OpenWindow, in order.
func (c *Console) Opened() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.opened...)
}

// Navigations returns the URLs passed to Navigate, in order.
func (c *Console) Navigations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.navigations...)
}
