package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wolfman30/salon-booking/internal/backend"
	"github.com/wolfman30/salon-booking/internal/observability/metrics"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

var errEmptyCatalog = errors.New("catalog is empty")

// ServiceLister fetches the bookable services.
type ServiceLister interface {
	ListServices(ctx context.Context) ([]backend.Service, error)
}

// Service is a bookable catalog entry.
type Service struct {
	ID    string
	Name  string
	Price int
}

// PriceLine is one rendered row of the price list.
type PriceLine struct {
	ID    string
	Name  string
	Price string
}

// Catalog holds the service snapshot for one booking screen. It is replaced as a
// whole by Load and never updated incrementally.
type Catalog struct {
	lister  ServiceLister
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	group   singleflight.Group

	mu       sync.RWMutex
	services []Service
	index    map[string]int
	errMsg   string
}

// NewCatalog creates an empty catalog backed by lister.
func NewCatalog(lister ServiceLister, m *metrics.BookingMetrics, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.Default()
	}
	return &Catalog{lister: lister, metrics: m, logger: logger}
}

// Load fetches a fresh snapshot. On failure the catalog is left empty and the
// failure message is kept for display; nothing is retried. Concurrent calls
// share one fetch.
func (c *Catalog) Load(ctx context.Context) ([]Service, error) {
	v, err, _ := c.group.Do("load", func() (any, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]Service(nil), v.([]Service)...), nil
}

func (c *Catalog) load(ctx context.Context) ([]Service, error) {
	raw, err := c.lister.ListServices(ctx)
	if err == nil && len(raw) == 0 {
		err = errEmptyCatalog
	}
	if err != nil {
		msg := catalogMessage(err)
		c.mu.Lock()
		c.services = nil
		c.index = nil
		c.errMsg = msg
		c.mu.Unlock()
		c.metrics.ObserveCatalogLoad("error")
		c.logger.Error("catalog load failed", "error", err)
		return nil, &CatalogError{Message: msg, Err: err}
	}

	services := make([]Service, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, svc := range raw {
		if svc.ID == "" {
			continue
		}
		if _, dup := index[svc.ID]; dup {
			continue
		}
		price := svc.Price
		if price < 0 {
			price = 0
		}
		index[svc.ID] = len(services)
		services = append(services, Service{ID: svc.ID, Name: svc.Name, Price: price})
	}

	c.mu.Lock()
	c.services = services
	c.index = index
	c.errMsg = ""
	c.mu.Unlock()
	c.metrics.ObserveCatalogLoad("ok")
	c.logger.Info("catalog loaded", "count", len(services))
	return services, nil
}

func catalogMessage(err error) string {
	if errors.Is(err, errEmptyCatalog) {
		return "目前尚無服務項目。"
	}
	if se, ok := backend.AsStatusError(err); ok {
		return fmt.Sprintf("讀取失敗 (%d)", se.StatusCode)
	}
	return "服務項目載入失敗，請稍後再試。"
}

// Services returns a copy of the current snapshot.
func (c *Catalog) Services() []Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Service(nil), c.services...)
}

// Ready reports whether a non-empty snapshot is loaded. Service selection stays
// disabled until it is.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.services) > 0
}

// Err returns the last load failure message, or "".
func (c *Catalog) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// Lookup finds a service by id.
func (c *Catalog) Lookup(id string) (Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return Service{}, false
	}
	return c.services[i], true
}

// Names returns the names of the services in ids, in catalog order.
func (c *Catalog) Names(ids []string) []string {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for _, svc := range c.services {
		if _, ok := want[svc.ID]; ok {
			names = append(names, svc.Name)
		}
	}
	return names
}

// PriceList renders the snapshot with grouped prices, e.g. "$1,000".
func (c *Catalog) PriceList() []PriceLine {
	p := message.NewPrinter(language.English)
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]PriceLine, 0, len(c.services))
	for _, svc := range c.services {
		lines = append(lines, PriceLine{ID: svc.ID, Name: svc.Name, Price: p.Sprintf("$%d", svc.Price)})
	}
	return lines
}
