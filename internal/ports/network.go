package ports

import (
	"context"

	"github.com/anno-app/annoboot/internal/domain"
)

// ConnectivityProbe reports whether the device has a network connection.
type ConnectivityProbe interface {
	HasConnection(ctx context.Context) bool
}

// RegionDetector classifies the network region of the device.
type RegionDetector interface {
	// RequiresProxy reports whether the device is in a region that must
	// reach the server through a proxy.
	RequiresProxy(ctx context.Context) (bool, error)
}

// EndpointConfigurator assigns the server endpoint when none is configured.
type EndpointConfigurator interface {
	// ChooseProxyServer picks one of the proxy endpoints and persists it.
	ChooseProxyServer(ctx context.Context) (domain.Endpoint, error)

	// SetDefaultServer persists the default endpoint.
	SetDefaultServer(ctx context.Context) (domain.Endpoint, error)
}
