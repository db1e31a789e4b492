package server

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

// Config holds the service tunables. Values come from an optional YAML file
// overlaid with FORMFLOW_-prefixed environment variables, where "__" maps to
// a nested key (FORMFLOW_HTTP__ADDR sets http.addr).
type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Catalog CatalogConfig `koanf:"catalog"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// CatalogConfig points at the form descriptor document to serve.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// DefaultConfig is the zero-file configuration.
func DefaultConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Addr: ":8080"},
		Catalog: CatalogConfig{Path: "forms.json"},
	}
}

// LoadConfig builds a Config from the YAML file at path (skipped when empty)
// plus environment overrides.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("server: load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FORMFLOW_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "FORMFLOW_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("server: env overlay: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("server: unmarshal config: %w", err)
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	return cfg, nil
}
