package manifest

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

// LoadFile reads and parses a Kargo.toml file, first resolving any
// "${env:VAR}" references against a sibling .kargo.env file and the
// process environment.
func LoadFile(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, kargoerr.Wrap(kargoerr.KindIO, err, "reading %s", path)
	}

	envVars, err := LoadEnvFile(filepath.Join(filepath.Dir(path), ".kargo.env"))
	if err != nil {
		return nil, kargoerr.Wrap(kargoerr.KindIO, err, "reading .kargo.env alongside %s", path)
	}
	resolved := InterpolateEnv(string(content), envVars)

	return ParseString(resolved)
}

// ParseString parses Kargo.toml content with no env interpolation.
func ParseString(content string) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal([]byte(content), &m); err != nil {
		return nil, kargoerr.Manifest("failed to parse Kargo.toml: %v", err)
	}
	return &m, nil
}
