package http

import (
	"context"
	"net/http"

	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// ConnectivityProbe implements ports.ConnectivityProbe by sending a HEAD
// request to a well-known URL. Any HTTP response, whatever its status, means
// the network is reachable.
type ConnectivityProbe struct {
	client ports.HTTPClient
	url    string
	logger log.Logger
}

// NewConnectivityProbe creates a probe against url.
func NewConnectivityProbe(client ports.HTTPClient, url string, logger log.Logger) *ConnectivityProbe {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &ConnectivityProbe{client: client, url: url, logger: logger}
}

// HasConnection reports whether the probe URL answered.
func (p *ConnectivityProbe) HasConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.logger.Error("build connectivity request", log.String("url", p.url), log.Err(err))
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("connectivity probe failed", log.String("url", p.url), log.Err(err))
		return false
	}
	resp.Body.Close()

	p.logger.Debug("connectivity probe answered", log.Int("status", resp.StatusCode))
	return true
}

var _ ports.ConnectivityProbe = (*ConnectivityProbe)(nil)
