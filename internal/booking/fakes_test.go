package booking

import (
	"context"
	"sync"

	"github.com/wolfman30/salon-booking/internal/backend"
	"github.com/wolfman30/salon-booking/internal/host"
)

type fakeHost struct {
	mu         sync.Mutex
	loggedIn   bool
	inClient   bool
	profile    host.Profile
	profileErr error
	idToken    string
	sendErr    error
	openErr    error

	logins    int
	sent      []host.Message
	opened    []string
	closed    int
	navigated []string
}

func (h *fakeHost) IsLoggedIn() bool { return h.loggedIn }

func (h *fakeHost) Login(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logins++
	return nil
}

func (h *fakeHost) Profile(ctx context.Context) (host.Profile, error) {
	if h.profileErr != nil {
		return host.Profile{}, h.profileErr
	}
	return h.profile, nil
}

func (h *fakeHost) IsInClient() bool { return h.inClient }

func (h *fakeHost) IDToken() string { return h.idToken }

func (h *fakeHost) SendMessages(ctx context.Context, msgs []host.Message) error {
	if h.sendErr != nil {
		return h.sendErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, msgs...)
	return nil
}

func (h *fakeHost) OpenWindow(ctx context.Context, url string, external bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = append(h.opened, url)
	return h.openErr
}

func (h *fakeHost) CloseWindow(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

func (h *fakeHost) Navigate(ctx context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navigated = append(h.navigated, url)
	return nil
}

type fakeBackend struct {
	services   []backend.Service
	listErr    error
	registered bool
	checkErr   error
	checkCalls int
	registerFn func(req backend.RegisterUserRequest) error
	createFn   func(ctx context.Context, req backend.CreateBookingRequest) (*backend.BookingResult, error)
	mu         sync.Mutex
}

func (b *fakeBackend) ListServices(ctx context.Context) ([]backend.Service, error) {
	return b.services, b.listErr
}

func (b *fakeBackend) CheckRegistration(ctx context.Context, userID string) (bool, error) {
	b.mu.Lock()
	b.checkCalls++
	b.mu.Unlock()
	return b.registered, b.checkErr
}

func (b *fakeBackend) RegisterUser(ctx context.Context, req backend.RegisterUserRequest) error {
	if b.registerFn != nil {
		return b.registerFn(req)
	}
	return nil
}

func (b *fakeBackend) CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (*backend.BookingResult, error) {
	if b.createFn != nil {
		return b.createFn(ctx, req)
	}
	return &backend.BookingResult{ID: "B1"}, nil
}

type fakeSurface struct {
	shown chan struct{}
	mu    sync.Mutex
	shows int
	hides int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{shown: make(chan struct{}, 4)}
}

func (s *fakeSurface) ShowRegistration() {
	s.mu.Lock()
	s.shows++
	s.mu.Unlock()
	s.shown <- struct{}{}
}

func (s *fakeSurface) HideRegistration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hides++
}

func (s *fakeSurface) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shows, s.hides
}

var testServices = []backend.Service{
	{ID: "s1", Name: "Cut", Price: 1000},
	{ID: "s2", Name: "Wash", Price: 200},
}
