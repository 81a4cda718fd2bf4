package ports

import "net/http"

// HTTPClient abstracts HTTP operations for the network probes.
// The standard *http.Client satisfies this interface; tests substitute
// clients that fail or record requests.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}
