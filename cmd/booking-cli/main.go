// Command booking-cli runs one booking attempt against the booking API from a
// terminal, standing in for the mini-app outside the host container.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wolfman30/salon-booking/internal/backend"
	"github.com/wolfman30/salon-booking/internal/booking"
	appconfig "github.com/wolfman30/salon-booking/internal/config"
	"github.com/wolfman30/salon-booking/internal/host"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

type options struct {
	date     string
	time     string
	services string
	phone    string
	birthday string
	listOnly bool
	baseURL  string
	userID   string
	userName string
	logLevel string
}

func parseFlags(args []string, cfg *appconfig.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("booking-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.date, "date", "", "booking date (YYYY-MM-DD)")
	fs.StringVar(&opts.time, "time", "", "booking time (HH:MM)")
	fs.StringVar(&opts.services, "services", "", "comma-separated service ids")
	fs.StringVar(&opts.phone, "phone", "", "phone number, used if registration is required")
	fs.StringVar(&opts.birthday, "birthday", "", "birthday (YYYY-MM-DD), used if registration is required")
	fs.BoolVar(&opts.listOnly, "list", false, "print the service catalog and exit")
	fs.StringVar(&opts.baseURL, "backend", cfg.BackendBaseURL, "booking API base URL")
	fs.StringVar(&opts.userID, "user", cfg.HostUserID, "user id (defaults to HOST_USER_ID)")
	fs.StringVar(&opts.userName, "name", cfg.HostDisplayName, "display name (defaults to HOST_DISPLAY_NAME)")
	fs.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], cfg, os.Stdout, os.Stderr))
}

// cliSurface turns "show the registration form" into a registration attempt
// with the phone and birthday given on the command line.
type cliSurface struct {
	shown chan struct{}
	out   io.Writer
}

func (s *cliSurface) ShowRegistration() {
	fmt.Fprintln(s.out, "first visit: registering profile")
	select {
	case s.shown <- struct{}{}:
	default:
	}
}

func (s *cliSurface) HideRegistration() {
	fmt.Fprintln(s.out, "registration complete")
}

func run(ctx context.Context, args []string, cfg *appconfig.Config, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return 2
	}
	logger := logging.NewWithWriter(opts.logLevel, stderr)

	console := host.NewConsole(host.ConsoleConfig{
		Profile: host.Profile{
			UserID:      strings.TrimSpace(opts.userID),
			DisplayName: opts.userName,
			PictureURL:  cfg.HostPictureURL,
		},
		IDToken: cfg.HostIDToken,
		Out:     stdout,
	})
	surface := &cliSurface{shown: make(chan struct{}, 1), out: stdout}

	flow := booking.NewFlow(booking.FlowConfig{
		Host:            console,
		Backend:         backend.NewClient(opts.baseURL, backend.WithLogger(logger)),
		Surface:         surface,
		Contacts:        booking.Contacts{AddFriendURL: cfg.AddFriendURL, BasicID: cfg.ContactBasicID},
		SubmitTimeout:   cfg.SubmitTimeout,
		CloseDelay:      cfg.CloseDelay,
		Location:        cfg.Location(),
		RejectPastDates: true,
		Logger:          logger,
	})
	session := flow.Open()
	defer session.Close()

	if err := enter(ctx, session, surface, opts); err != nil {
		fmt.Fprintln(stderr, booking.UserMessage(err))
		if !errors.Is(err, booking.ErrCatalogUnavailable) {
			return 1
		}
	}

	if opts.listOnly {
		for _, line := range session.Catalog().PriceList() {
			fmt.Fprintf(stdout, "%-12s %s %s\n", line.ID, line.Name, line.Price)
		}
		return 0
	}

	result, outcome, err := session.Submit(ctx, booking.Selection{
		Date:       opts.date,
		Time:       opts.time,
		ServiceIDs: splitIDs(opts.services),
	})
	if err != nil {
		fmt.Fprintln(stderr, booking.UserMessage(err))
		return 1
	}
	fmt.Fprintf(stdout, "booking %s created (%s)\n", result.ID, result.Status)
	fmt.Fprintln(stdout, outcome.Summary)
	return 0
}

// enter runs Session.Enter and answers the registration form from the flags
// when the backend does not know the user yet.
func enter(ctx context.Context, session *booking.Session, surface *cliSurface, opts options) error {
	done := make(chan error, 1)
	go func() { done <- session.Enter(ctx) }()

	for {
		select {
		case err := <-done:
			return err
		case <-surface.shown:
			if opts.phone == "" || opts.birthday == "" {
				session.Close()
				<-done
				return &booking.RegistrationError{Message: "首次預約請提供 -phone 與 -birthday"}
			}
			if err := session.Register(ctx, booking.RegistrationForm{Phone: opts.phone, Birthday: opts.birthday}); err != nil {
				session.Close()
				<-done
				return err
			}
		}
	}
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
