// Package endpoint assigns the server endpoint the application talks to when
// none is configured yet.
package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// DefaultProbeTimeout bounds each proxy reachability check.
const DefaultProbeTimeout = 3 * time.Second

// Configurator implements ports.EndpointConfigurator. It persists the chosen
// endpoint through a SettingsStore.
type Configurator struct {
	store        ports.SettingsStore
	client       ports.HTTPClient
	def          domain.Endpoint
	proxies      []domain.Endpoint
	probeTimeout time.Duration
	logger       log.Logger
}

// Option configures a Configurator.
type Option func(*Configurator)

// WithProbeTimeout sets the per-proxy reachability timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Configurator) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Configurator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Configurator with a default endpoint and an ordered list of
// proxy candidates.
func New(store ports.SettingsStore, client ports.HTTPClient, def domain.Endpoint, proxies []domain.Endpoint, opts ...Option) *Configurator {
	c := &Configurator{
		store:        store,
		client:       client,
		def:          def,
		proxies:      append([]domain.Endpoint(nil), proxies...),
		probeTimeout: DefaultProbeTimeout,
		logger:       log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDefaultServer persists the default endpoint.
func (c *Configurator) SetDefaultServer(ctx context.Context) (domain.Endpoint, error) {
	if err := c.store.SaveServer(ctx, c.def); err != nil {
		return domain.Endpoint{}, fmt.Errorf("set default server: %w", err)
	}
	c.logger.Info("default server set", log.String("server_url", c.def.URL))
	return c.def, nil
}

// ChooseProxyServer probes every proxy candidate concurrently and persists
// the first reachable one in configured order. When none answers, the first
// candidate is used.
func (c *Configurator) ChooseProxyServer(ctx context.Context) (domain.Endpoint, error) {
	if len(c.proxies) == 0 {
		return domain.Endpoint{}, domain.ErrNoProxyServers
	}

	reachable := make([]bool, len(c.proxies))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range c.proxies {
		i, p := i, p
		g.Go(func() error {
			reachable[i] = c.reachable(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Endpoint{}, fmt.Errorf("choose proxy server: %w", err)
	}

	chosen := -1
	for i, ok := range reachable {
		if ok {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		chosen = 0
		c.logger.Warn("no proxy answered, using first candidate", log.String("server_url", c.proxies[0].URL))
	}
	ep := c.proxies[chosen]

	if err := c.store.SaveServer(ctx, ep); err != nil {
		return domain.Endpoint{}, fmt.Errorf("choose proxy server: %w", err)
	}
	c.logger.Info("proxy server chosen", log.String("server", ep.Name), log.String("server_url", ep.URL))
	return ep, nil
}

func (c *Configurator) reachable(ctx context.Context, ep domain.Endpoint) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ep.URL, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("proxy unreachable", log.String("server_url", ep.URL), log.Err(err))
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

var _ ports.EndpointConfigurator = (*Configurator)(nil)
