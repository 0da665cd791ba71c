package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/salon-booking/internal/backend"
	"github.com/wolfman30/salon-booking/internal/observability/metrics"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

// DefaultSubmitTimeout bounds a booking submission.
const DefaultSubmitTimeout = 15 * time.Second

// BookingCreator sends a booking to the backend.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (*backend.BookingResult, error)
}

// BookingResult is the server's confirmation of a booking.
type BookingResult struct {
	ID     string
	Status string
}

// Submitter sends booking requests with a hard timeout.
type Submitter struct {
	creator BookingCreator
	timeout time.Duration
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewSubmitter creates a submitter. A non-positive timeout means DefaultSubmitTimeout.
func NewSubmitter(creator BookingCreator, timeout time.Duration, m *metrics.BookingMetrics, logger *logging.Logger) *Submitter {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{creator: creator, timeout: timeout, metrics: m, logger: logger}
}

// Submit creates the booking. When the timeout elapses first the request is
// cancelled and ErrSubmissionTimeout is returned. A non-success reply becomes a
// *RejectedError carrying the server's message.
func (s *Submitter) Submit(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.user_id", req.identity.UserID),
		attribute.String("salon.booking_date", req.date),
		attribute.Int("salon.service_count", len(req.serviceIDs)),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.creator.CreateBooking(callCtx, req.wire())
	elapsed := time.Since(start)
	if err != nil {
		err = s.classify(callCtx, err)
		span.RecordError(err)
		s.metrics.ObserveSubmission(outcomeLabel(err), elapsed.Seconds())
		s.logger.Warn("booking submission failed", "user_id", req.identity.UserID, "elapsed", elapsed, "error", err)
		return nil, err
	}

	result := &BookingResult{}
	if res != nil {
		result.ID = res.ID
		result.Status = res.Status
	}
	span.SetAttributes(attribute.String("salon.booking_id", result.ID))
	s.metrics.ObserveSubmission("success", elapsed.Seconds())
	s.logger.Info("booking submitted", "user_id", req.identity.UserID, "booking_id", result.ID, "elapsed", elapsed)
	return result, nil
}

func (s *Submitter) classify(callCtx context.Context, err error) error {
	if se, ok := backend.AsStatusError(err); ok {
		msg := se.Message
		if msg == "" {
			msg = fmt.Sprintf("伺服器發生錯誤 (%d)，請稍後再試。", se.StatusCode)
		}
		return &RejectedError{StatusCode: se.StatusCode, Message: msg}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrSubmissionTimeout, s.timeout)
	}
	return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrSubmissionTimeout):
		return "timeout"
	case errors.Is(err, ErrSubmissionRejected):
		return "rejected"
	default:
		return "failed"
	}
}
