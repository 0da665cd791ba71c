package booking

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/salon-booking/internal/observability/metrics"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

var bookingTracer = otel.Tracer("salon.internal.booking")

// RegistrationChecker asks the backend whether a user finished the profile form.
type RegistrationChecker interface {
	CheckRegistration(ctx context.Context, userID string) (bool, error)
}

// RegistrationSurface is the profile form shown to first-time users.
type RegistrationSurface interface {
	ShowRegistration()
	HideRegistration()
}

type noopSurface struct{}

func (noopSurface) ShowRegistration() {}
func (noopSurface) HideRegistration() {}

// GateState is the registration gate's position in
// Unchecked -> Checking -> {Registered, AwaitingSubmission} -> Registered.
type GateState int

const (
	GateUnchecked GateState = iota
	GateChecking
	GateAwaitingSubmission
	GateRegistered
)

func (s GateState) String() string {
	switch s {
	case GateChecking:
		return "checking"
	case GateAwaitingSubmission:
		return "awaiting_submission"
	case GateRegistered:
		return "registered"
	default:
		return "unchecked"
	}
}

// oneShot is a single-use signal. Only the first raise has an effect.
type oneShot struct {
	once sync.Once
	done chan struct{}
}

func newOneShot() *oneShot {
	return &oneShot{done: make(chan struct{})}
}

func (o *oneShot) raise() bool {
	fired := false
	o.once.Do(func() {
		close(o.done)
		fired = true
	})
	return fired
}

// RegistrationGate blocks the booking screen until the session's user has a
// completed profile. It is scoped to one session and re-checks on every entry.
type RegistrationGate struct {
	checker RegistrationChecker
	surface RegistrationSurface
	metrics *metrics.BookingMetrics
	logger  *logging.Logger

	mu        sync.Mutex
	state     GateState
	waiting   bool
	submitted *oneShot
}

// NewRegistrationGate creates a gate in the Unchecked state. A nil surface is
// replaced by one that does nothing.
func NewRegistrationGate(checker RegistrationChecker, surface RegistrationSurface, m *metrics.BookingMetrics, logger *logging.Logger) *RegistrationGate {
	if surface == nil {
		surface = noopSurface{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationGate{
		checker:   checker,
		surface:   surface,
		metrics:   m,
		logger:    logger,
		submitted: newOneShot(),
	}
}

// State returns the current gate state.
func (g *RegistrationGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// EnsureRegistered returns once id is registered. For an unregistered user it
// shows the registration surface and waits, without a timeout, for Resolve.
// Cancelling ctx abandons the wait; the gate stays in AwaitingSubmission and a
// later call waits again without re-checking.
func (g *RegistrationGate) EnsureRegistered(ctx context.Context, id Identity) error {
	if !id.Valid() {
		return ErrIdentityUnavailable
	}

	g.mu.Lock()
	switch {
	case g.state == GateRegistered:
		g.mu.Unlock()
		return nil
	case g.state == GateChecking, g.waiting:
		g.mu.Unlock()
		return ErrGateBusy
	case g.state == GateAwaitingSubmission:
		g.waiting = true
		g.mu.Unlock()
		return g.wait(ctx)
	}
	g.state = GateChecking
	g.mu.Unlock()

	registered, err := g.check(ctx, id)
	if err != nil {
		g.mu.Lock()
		g.state = GateUnchecked
		g.mu.Unlock()
		return err
	}

	g.mu.Lock()
	if registered {
		g.submitted.raise()
		g.state = GateRegistered
		g.mu.Unlock()
		return nil
	}
	g.state = GateAwaitingSubmission
	g.waiting = true
	g.mu.Unlock()

	g.logger.Info("registration required", "user_id", id.UserID)
	g.surface.ShowRegistration()
	return g.wait(ctx)
}

func (g *RegistrationGate) check(ctx context.Context, id Identity) (bool, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.registration_check")
	defer span.End()
	span.SetAttributes(attribute.String("salon.user_id", id.UserID))

	registered, err := g.checker.CheckRegistration(ctx, id.UserID)
	if err != nil {
		span.RecordError(err)
		g.metrics.ObserveRegistrationCheck("failed")
		g.logger.Error("registration check failed", "user_id", id.UserID, "error", err)
		return false, fmt.Errorf("%w: %w", ErrRegistrationCheckFailed, err)
	}
	if registered {
		g.metrics.ObserveRegistrationCheck("registered")
	} else {
		g.metrics.ObserveRegistrationCheck("unregistered")
	}
	return registered, nil
}

func (g *RegistrationGate) wait(ctx context.Context) error {
	select {
	case <-g.submitted.done:
		g.mu.Lock()
		g.waiting = false
		g.mu.Unlock()
		g.surface.HideRegistration()
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		g.waiting = false
		g.mu.Unlock()
		return ctx.Err()
	}
}

// Resolve raises the registration-submitted signal. Only a gate in
// AwaitingSubmission accepts it; a signal raised before or during the check is
// dropped. It reports true only for the call that resolved the gate.
func (g *RegistrationGate) Resolve() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != GateAwaitingSubmission {
		return false
	}
	if !g.submitted.raise() {
		return false
	}
	g.state = GateRegistered
	return true
}
