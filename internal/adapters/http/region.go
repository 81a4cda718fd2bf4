package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// DefaultProxyRegions are the ISO country codes that reach the server
// through a proxy.
var DefaultProxyRegions = []string{"CN"}

// maxGeoBody caps how much of the geo response is read.
const maxGeoBody = 64 << 10

// geoResponse is the subset of the geo-IP lookup answer used here.
type geoResponse struct {
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
}

// RegionDetector implements ports.RegionDetector with a geo-IP lookup.
type RegionDetector struct {
	client  ports.HTTPClient
	url     string
	regions map[string]bool
	logger  log.Logger
}

// NewRegionDetector creates a detector that asks url for the device's country
// and requires a proxy when it is one of proxyRegions.
func NewRegionDetector(client ports.HTTPClient, url string, proxyRegions []string, logger log.Logger) *RegionDetector {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if len(proxyRegions) == 0 {
		proxyRegions = DefaultProxyRegions
	}
	regions := make(map[string]bool, len(proxyRegions))
	for _, r := range proxyRegions {
		regions[strings.ToUpper(strings.TrimSpace(r))] = true
	}
	return &RegionDetector{client: client, url: url, regions: regions, logger: logger}
}

// RequiresProxy looks up the device country.
func (d *RegionDetector) RequiresProxy(ctx context.Context) (bool, error) {
	code, err := d.Country(ctx)
	if err != nil {
		return false, err
	}
	proxy := d.regions[code]
	d.logger.Info("region detected", log.String("country", code), log.Bool("proxy", proxy))
	return proxy, nil
}

// Country returns the upper-case ISO country code reported by the lookup.
func (d *RegionDetector) Country(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeoBody))
	if err != nil {
		return "", fmt.Errorf("read geo response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("geo lookup returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var geo geoResponse
	if err := json.Unmarshal(body, &geo); err != nil {
		return "", fmt.Errorf("decode geo response: %w", err)
	}
	code := strings.ToUpper(strings.TrimSpace(geo.CountryCode))
	if code == "" {
		return "", fmt.Errorf("geo response has no country_code")
	}
	return code, nil
}

var _ ports.RegionDetector = (*RegionDetector)(nil)
