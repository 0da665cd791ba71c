// Package booking orchestrates one booking attempt inside the messaging mini-app:
// identity, the registration gate, the service catalog, form collection,
// submission and the post-submit notification.
package booking

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wolfman30/salon-booking/internal/host"
	"github.com/wolfman30/salon-booking/internal/observability/metrics"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

// Backend is every backend call the flow makes.
type Backend interface {
	ServiceLister
	RegistrationChecker
	UserRegistrar
	BookingCreator
}

// FlowConfig wires a Flow.
type FlowConfig struct {
	Host          host.Client
	Backend       Backend
	Surface       RegistrationSurface
	Contacts      Contacts
	SubmitTimeout time.Duration
	CloseDelay    time.Duration
	Location      *time.Location
	// RejectPastDates makes collection refuse dates before today in Location.
	// Off by default; the date picker normally enforces its own minimum.
	RejectPastDates bool
	Now             func() time.Time
	Metrics         *metrics.BookingMetrics
	Logger          *logging.Logger
}

// Flow opens booking sessions.
type Flow struct {
	cfg FlowConfig
}

// NewFlow creates a flow. Host and Backend are required.
func NewFlow(cfg FlowConfig) *Flow {
	if cfg.Host == nil || cfg.Backend == nil {
		panic("booking: host and backend required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.RejectPastDates && cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.RejectPastDates {
		cfg.Now = nil
	}
	return &Flow{cfg: cfg}
}

// Session is the state of one booking screen: created on entry, discarded on
// exit with Close. The identity and catalog it holds are shared read-only by
// its components.
type Session struct {
	host   host.Client
	env    host.Environment
	logger *logging.Logger

	catalog   *Catalog
	gate      *RegistrationGate
	registrar *registrar
	collector *Collector
	submitter *Submitter
	notifier  *Notifier

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	identity Identity
	resolved bool
	ready    bool

	submitting atomic.Bool
}

// Open starts a session. The host environment is classified here, once.
func (f *Flow) Open() *Session {
	cfg := f.cfg
	env := host.Classify(cfg.Host)
	logger := cfg.Logger.With("environment", env.String())
	ctx, cancel := context.WithCancel(context.Background())

	catalog := NewCatalog(cfg.Backend, cfg.Metrics, logger)
	gate := NewRegistrationGate(cfg.Backend, cfg.Surface, cfg.Metrics, logger)
	return &Session{
		host:      cfg.Host,
		env:       env,
		logger:    logger,
		catalog:   catalog,
		gate:      gate,
		registrar: &registrar{users: cfg.Backend, gate: gate, logger: logger},
		collector: NewCollector(catalog, cfg.Location, cfg.Now),
		submitter: NewSubmitter(cfg.Backend, cfg.SubmitTimeout, cfg.Metrics, logger),
		notifier:  NewNotifier(cfg.Host, env, cfg.Contacts, cfg.CloseDelay, cfg.Metrics, logger),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Environment is where this session runs.
func (s *Session) Environment() host.Environment { return s.env }

// Catalog is the session's service catalog.
func (s *Session) Catalog() *Catalog { return s.catalog }

// Gate is the session's registration gate.
func (s *Session) Gate() *RegistrationGate { return s.gate }

// Identity returns the captured identity and whether it has been resolved.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.resolved
}

// Ready reports whether the booking screen has been reached.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Close ends the session. A registration wait in progress is abandoned.
func (s *Session) Close() {
	s.cancel()
}

// bind derives a context that also ends when the session is closed.
func (s *Session) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Session) alive() error {
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}
	return nil
}

// Enter runs identity -> registration gate -> catalog load. It blocks while a
// first-time user fills in the registration form. A catalog failure still
// reaches the booking screen: Ready is true and the returned error matches
// ErrCatalogUnavailable.
func (s *Session) Enter(ctx context.Context) error {
	if err := s.alive(); err != nil {
		return err
	}
	ctx, done := s.bind(ctx)
	defer done()

	if !s.host.IsLoggedIn() {
		if err := s.host.Login(ctx); err != nil {
			s.logger.Warn("host login failed", "error", err)
		}
		return ErrLoginRequired
	}

	id, err := resolveIdentity(ctx, s.host, s.env, s.logger)
	if err != nil {
		s.logger.Error("identity resolution failed", "error", err)
		return err
	}
	s.mu.Lock()
	s.identity = id
	s.resolved = true
	s.mu.Unlock()

	if err := s.gate.EnsureRegistered(ctx, id); err != nil {
		if s.ctx.Err() != nil {
			return ErrSessionClosed
		}
		return err
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	s.logger.Info("booking screen reached", "user_id", id.UserID)

	if _, err := s.catalog.Load(ctx); err != nil {
		return err
	}
	return nil
}

// Register submits the registration form for the session's identity and
// releases a waiting Enter.
func (s *Session) Register(ctx context.Context, form RegistrationForm) error {
	if err := s.alive(); err != nil {
		return err
	}
	id, ok := s.Identity()
	if !ok {
		return ErrIdentityUnavailable
	}
	return s.registrar.submit(ctx, id, form)
}

// RefreshCatalog reloads the service catalog.
func (s *Session) RefreshCatalog(ctx context.Context) ([]Service, error) {
	if err := s.alive(); err != nil {
		return nil, err
	}
	return s.catalog.Load(ctx)
}

// Collect validates sel without submitting it.
func (s *Session) Collect(sel Selection) (BookingRequest, error) {
	id, _ := s.Identity()
	return s.collector.Collect(sel, id)
}

// Submit validates sel, submits it and, on success, runs the notification and
// exit sequence. Only one submission may be in flight; a failed attempt leaves
// the session ready for another.
func (s *Session) Submit(ctx context.Context, sel Selection) (*BookingResult, NotifyOutcome, error) {
	if err := s.alive(); err != nil {
		return nil, NotifyOutcome{}, err
	}
	if !s.Ready() {
		return nil, NotifyOutcome{}, ErrScreenNotReady
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, NotifyOutcome{}, ErrSubmissionInProgress
	}
	defer s.submitting.Store(false)

	req, err := s.Collect(sel)
	if err != nil {
		return nil, NotifyOutcome{}, err
	}

	result, err := s.submitter.Submit(ctx, req)
	if err != nil {
		return nil, NotifyOutcome{}, err
	}

	outcome := s.notifier.NotifyAndClose(ctx, result, req, s.catalog)
	return result, outcome, nil
}
