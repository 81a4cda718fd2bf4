package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func geoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRegionDetector_RequiresProxy(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		regions []string
		want    bool
	}{
		{"china uses proxy", `{"country_code":"CN"}`, nil, true},
		{"lower case code", `{"country_code":"cn"}`, nil, true},
		{"elsewhere is direct", `{"country_code":"US","country":"United States"}`, nil, false},
		{"custom regions", `{"country_code":"IR"}`, []string{"ir", "CN"}, true},
		{"custom regions exclude default", `{"country_code":"CN"}`, []string{"IR"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := geoServer(t, http.StatusOK, tt.body)
			d := NewRegionDetector(ts.Client(), ts.URL, tt.regions, nil)

			got, err := d.RequiresProxy(context.Background())
			if err != nil {
				t.Fatalf("RequiresProxy() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RequiresProxy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegionDetector_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, `upstream down`},
		{"not json", http.StatusOK, `<html>`},
		{"missing code", http.StatusOK, `{"country":"Nowhere"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := geoServer(t, tt.status, tt.body)
			d := NewRegionDetector(ts.Client(), ts.URL, nil, nil)

			if _, err := d.RequiresProxy(context.Background()); err == nil {
				t.Error("RequiresProxy() error = nil, want error")
			}
		})
	}
}

func TestRegionDetector_NoNetwork(t *testing.T) {
	d := NewRegionDetector(failingClient{}, "http://geo.invalid", nil, nil)
	if _, err := d.RequiresProxy(context.Background()); err == nil {
		t.Error("RequiresProxy() error = nil with failing client")
	}
}
