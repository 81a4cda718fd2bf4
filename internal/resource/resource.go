// Package resource loads the application shell configuration.
package resource

import (
	_ "embed"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/anno-app/annoboot/internal/domain"
)

//go:embed launch.toml
var bundled []byte

// Bundled returns the embedded launch configuration text.
func Bundled() []byte {
	return append([]byte(nil), bundled...)
}

// Load reads the launch configuration from path, or the bundled resource if
// path is empty.
func Load(path string) (domain.LaunchConfig, error) {
	raw := Bundled()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return domain.LaunchConfig{}, fmt.Errorf("read launch config: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes TOML launch configuration text.
func Parse(raw []byte) (domain.LaunchConfig, error) {
	values := make(map[string]any)
	if err := toml.Unmarshal(raw, &values); err != nil {
		return domain.LaunchConfig{}, fmt.Errorf("parse launch config: %w", err)
	}
	return domain.LaunchConfig{Raw: raw, Values: values}, nil
}
