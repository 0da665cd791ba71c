package booking

import (
	"context"
	"strings"
	"time"

	"github.com/wolfman30/salon-booking/internal/host"
	"github.com/wolfman30/salon-booking/internal/observability/metrics"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

// DefaultCloseDelay is the pause between the notification calls and tearing
// down the view, so fire-and-forget host calls get dispatched first.
const DefaultCloseDelay = 300 * time.Millisecond

const (
	chatURLPrefix = "https://line.me/R/ti/p/"
	rootPath      = "/"
)

// Contacts are the business-contact fallbacks used when no in-host message
// could be sent.
type Contacts struct {
	AddFriendURL string
	BasicID      string
}

// FallbackURL is the add-contact URL, else a chat URL derived from BasicID,
// else "".
func (c Contacts) FallbackURL() string {
	if c.AddFriendURL != "" {
		return c.AddFriendURL
	}
	if c.BasicID != "" {
		return chatURLPrefix + escapeComponent(c.BasicID)
	}
	return ""
}

// escapeComponent percent-encodes s the way browsers encode a URI component:
// spaces become %20 and only A-Z a-z 0-9 - _ . ! ~ * ' ( ) pass through.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
			b.WriteByte(ch)
		case strings.IndexByte("-_.!~*'()", ch) >= 0:
			b.WriteByte(ch)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[ch>>4])
			b.WriteByte(hex[ch&0x0F])
		}
	}
	return b.String()
}

// NotifyOutcome describes what the notifier did. Every field is informational;
// the booking already succeeded and callers may ignore it.
type NotifyOutcome struct {
	Summary     string
	MessageSent bool
	SendErr     error
	FallbackURL string
	OpenErr     error
	// Closed is true when the host window was closed; otherwise Destination is
	// where the page was sent.
	Closed       bool
	Destination  string
	TerminateErr error
}

// Notifier informs the business after a successful booking and then ends the view.
type Notifier struct {
	host     host.Client
	env      host.Environment
	contacts Contacts
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration)
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewNotifier creates a notifier for a session running in env. A non-positive
// delay means DefaultCloseDelay.
func NewNotifier(h host.Client, env host.Environment, contacts Contacts, delay time.Duration, m *metrics.BookingMetrics, logger *logging.Logger) *Notifier {
	if delay <= 0 {
		delay = DefaultCloseDelay
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{
		host:     h,
		env:      env,
		contacts: contacts,
		delay:    delay,
		sleep:    sleepContext,
		metrics:  m,
		logger:   logger,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// ComposeSummary renders the confirmation text sent to the business.
func ComposeSummary(result *BookingResult, req BookingRequest, catalog *Catalog) string {
	var names []string
	if catalog != nil {
		names = catalog.Names(req.serviceIDs)
	}
	lines := []string{
		"您好～我剛送出預約申請：",
		"日期：" + req.date,
		"時間：" + req.time,
		"項目：" + strings.Join(names, "、"),
	}
	if result != nil && result.ID != "" {
		lines = append(lines, "預約編號："+result.ID)
	}
	return strings.Join(lines, "\n")
}

// NotifyAndClose sends the summary in-host when possible, falls back to the
// external contact page otherwise, then closes or redirects the view after the
// close delay. Failures are logged and reported in the outcome only.
func (n *Notifier) NotifyAndClose(ctx context.Context, result *BookingResult, req BookingRequest, catalog *Catalog) NotifyOutcome {
	out := NotifyOutcome{Summary: ComposeSummary(result, req, catalog)}

	if n.env == host.InClient && n.host.IsLoggedIn() {
		err := n.host.SendMessages(ctx, []host.Message{host.TextMessage(out.Summary)})
		if err != nil {
			out.SendErr = err
			n.logger.Warn("in-host message send failed", "user_id", req.identity.UserID, "error", err)
		} else {
			out.MessageSent = true
		}
	}

	fallback := n.contacts.FallbackURL()
	switch {
	case out.MessageSent:
		n.metrics.ObserveNotification("message")
	case fallback != "":
		out.FallbackURL = fallback
		if err := n.host.OpenWindow(ctx, fallback, true); err != nil {
			out.OpenErr = err
			n.logger.Warn("fallback window open failed", "url", fallback, "error", err)
		}
		n.metrics.ObserveNotification("fallback")
	default:
		n.metrics.ObserveNotification("none")
	}

	n.sleep(ctx, n.delay)

	if n.env == host.InClient {
		out.Closed = true
		if err := n.host.CloseWindow(ctx); err != nil {
			out.TerminateErr = err
			n.logger.Warn("close window failed", "error", err)
		}
		return out
	}

	out.Destination = fallback
	if out.Destination == "" {
		out.Destination = rootPath
	}
	if err := n.host.Navigate(ctx, out.Destination); err != nil {
		out.TerminateErr = err
		n.logger.Warn("navigate failed", "url", out.Destination, "error", err)
	}
	return out
}
