package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/salon-booking/internal/backend"
)

const dateLayout = "2006-01-02"

// Selection is the raw form state: a date, a time slot and the picked services.
type Selection struct {
	Date       string
	Time       string
	ServiceIDs []string
}

// BookingRequest is a validated booking. It is built once per submission attempt
// and cannot be modified afterwards.
type BookingRequest struct {
	identity   Identity
	date       string
	time       string
	serviceIDs []string
}

// Identity is the user the booking is made for.
func (r BookingRequest) Identity() Identity { return r.identity }

// Date is the booking day as YYYY-MM-DD.
func (r BookingRequest) Date() string { return r.date }

// Time is the selected time slot, passed through as picked.
func (r BookingRequest) Time() string { return r.time }

// ServiceIDs returns the de-duplicated service ids in first-picked order.
func (r BookingRequest) ServiceIDs() []string {
	return append([]string(nil), r.serviceIDs...)
}

func (r BookingRequest) wire() backend.CreateBookingRequest {
	return backend.CreateBookingRequest{
		UserProfile: backend.UserProfile{
			UserID:      r.identity.UserID,
			DisplayName: r.identity.DisplayName,
			PictureURL:  r.identity.AvatarURL,
		},
		Date:       r.date,
		Time:       r.time,
		ServiceIDs: r.ServiceIDs(),
	}
}

// Collector turns form state into a BookingRequest. It does no I/O.
type Collector struct {
	catalog *Catalog
	loc     *time.Location
	now     func() time.Time
}

// NewCollector creates a collector that checks service ids against catalog and
// rejects dates before today in loc. A nil now disables the past-date check.
func NewCollector(catalog *Catalog, loc *time.Location, now func() time.Time) *Collector {
	if loc == nil {
		loc = time.UTC
	}
	return &Collector{catalog: catalog, loc: loc, now: now}
}

// Collect validates sel for id.
func (c *Collector) Collect(sel Selection, id Identity) (BookingRequest, error) {
	date := strings.TrimSpace(sel.Date)
	if date == "" {
		return BookingRequest{}, ErrMissingDate
	}
	day, err := time.ParseInLocation(dateLayout, date, c.loc)
	if err != nil {
		return BookingRequest{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if c.now != nil {
		n := c.now().In(c.loc)
		today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, c.loc)
		if day.Before(today) {
			return BookingRequest{}, fmt.Errorf("%w: %s", ErrDateInPast, date)
		}
	}

	slot := strings.TrimSpace(sel.Time)
	if slot == "" {
		return BookingRequest{}, ErrMissingTime
	}

	ids := uniqueIDs(sel.ServiceIDs)
	if len(ids) == 0 {
		return BookingRequest{}, ErrNoServiceSelected
	}

	if !id.Valid() {
		return BookingRequest{}, ErrIdentityUnavailable
	}

	if c.catalog != nil {
		for _, sid := range ids {
			if _, ok := c.catalog.Lookup(sid); !ok {
				return BookingRequest{}, fmt.Errorf("%w: %s", ErrUnknownService, sid)
			}
		}
	}

	return BookingRequest{
		identity:   id,
		date:       date,
		time:       slot,
		serviceIDs: ids,
	}, nil
}

func uniqueIDs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
