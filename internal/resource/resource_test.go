package resource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Bundled(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Empty() {
		t.Fatal("bundled config is empty")
	}
	if cfg.Values["name"] != "Anno" {
		t.Errorf("name = %v, want Anno", cfg.Values["name"])
	}
	pages, ok := cfg.Values["pages"].([]any)
	if !ok || len(pages) == 0 {
		t.Errorf("pages = %#v", cfg.Values["pages"])
	}
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.toml")
	if err := os.WriteFile(path, []byte("name = \"Anno Dev\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Values["name"] != "Anno Dev" {
		t.Errorf("name = %v", cfg.Values["name"])
	}
	if string(cfg.Raw) != "name = \"Anno Dev\"\n" {
		t.Errorf("Raw = %q", cfg.Raw)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Parse([]byte("name = ")); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestBundled_ReturnsCopy(t *testing.T) {
	b := Bundled()
	b[0] = 'X'
	if Bundled()[0] == 'X' {
		t.Error("Bundled() exposes the embedded slice")
	}
}
