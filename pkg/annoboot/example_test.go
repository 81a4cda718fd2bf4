package annoboot_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/anno-app/annoboot/pkg/annoboot"
)

// ExampleNew runs the sequence against a local network and prints how the
// server endpoint was chosen.
func ExampleNew() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/geo" {
			fmt.Fprint(w, `{"country_code":"FR"}`)
		}
	}))
	defer srv.Close()

	dir, err := os.MkdirTemp("", "annoboot-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	cfg := annoboot.DefaultConfig()
	cfg.DataDir = dir
	cfg.ProbeURL = srv.URL
	cfg.GeoURL = srv.URL + "/geo"
	cfg.DefaultServer = srv.URL
	cfg.NonInteractive = true

	launched := annoboot.AppShell(shellFunc(func(ctx context.Context, lc annoboot.LaunchConfig) error {
		fmt.Println("launching", lc.Values["name"])
		return nil
	}))

	b, err := annoboot.New(cfg,
		annoboot.WithShell(launched),
		annoboot.WithIO(nil, io.Discard),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer b.Close()

	res, err := b.Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Stage, res.SelectedBy)

	// Output:
	// launching Anno
	// Launched default
}

type shellFunc func(context.Context, annoboot.LaunchConfig) error

func (f shellFunc) Launch(ctx context.Context, lc annoboot.LaunchConfig) error { return f(ctx, lc) }
