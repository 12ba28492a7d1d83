package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/fitadmin/internal/config"
	"github.com/studiowebux/fitadmin/internal/types"
)

// format reads and writes one config file syntax
type format struct {
	decode func(data []byte, v any) error
	encode func(v any) ([]byte, error)
}

func decodeJSONC(data []byte, v any) error { return json.Unmarshal(jsonc.ToJSON(data), v) }
func encodeJSON(v any) ([]byte, error)     { return json.MarshalIndent(v, "", "  ") }

var formats = map[string]format{
	".yaml":  {yaml.Unmarshal, yaml.Marshal},
	".yml":   {yaml.Unmarshal, yaml.Marshal},
	".json":  {decodeJSONC, encodeJSON},
	".jsonc": {decodeJSONC, encodeJSON},
}

func formatFor(path string) (format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return format{}, fmt.Errorf("unsupported mock config format %q (use .yaml, .yml, .json or .jsonc)", ext)
	}
	return f, nil
}

// LoadConfig reads a mock configuration. Routes in the file are served ahead
// of the built-in backend routes unless the file sets builtin: false, so a
// file only needs the endpoints it wants to override.
func LoadConfig(path string) (*Config, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock config: %w", err)
	}

	cfg := DefaultConfig()
	if err := f.decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mock config %s: %w", path, err)
	}
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mock config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configured routes. The built-in routes are known good.
func (c *Config) Validate() error {
	if len(c.Routes) == 0 && !c.Builtin {
		return fmt.Errorf("no routes defined and built-in routes disabled")
	}
	if c.Builtin && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("basePath %q must start with /", c.BasePath)
	}

	for i, route := range c.Routes {
		label := route.Name
		if label == "" {
			label = fmt.Sprintf("route %d", i)
		}
		if !slices.Contains(types.Methods, strings.ToUpper(route.Method)) {
			return fmt.Errorf("%s: method %q is not one the client sends", label, route.Method)
		}
		if route.Status != 0 && (route.Status < 100 || route.Status > 599) {
			return fmt.Errorf("%s: status %d out of range", label, route.Status)
		}
		switch route.PathType {
		case "", "exact", "prefix":
			if !strings.HasPrefix(route.Path, "/") {
				return fmt.Errorf("%s: path %q must start with /", label, route.Path)
			}
		case "regex":
			if _, err := regexp.Compile(route.Path); err != nil {
				return fmt.Errorf("%s: invalid regex %q: %w", label, route.Path, err)
			}
		default:
			return fmt.Errorf("%s: pathType must be exact, prefix or regex", label)
		}
		if route.Body != "" && route.BodyFile != "" {
			return fmt.Errorf("%s: body and bodyFile are mutually exclusive", label)
		}
	}
	return nil
}

// Effective returns the routes in match order: configured routes first, then
// the built-in backend under BasePath when enabled.
func (c *Config) Effective() []Route {
	routes := slices.Clone(c.Routes)
	if c.Builtin {
		basePath := c.BasePath
		if basePath == "" {
			basePath = DefaultBasePath
		}
		routes = append(routes, DefaultRoutes(basePath)...)
	}
	return routes
}

// Expand returns a standalone copy with the built-in routes written out, for
// dumping a config that can be edited route by route.
func (c *Config) Expand() *Config {
	out := *c
	out.Routes = c.Effective()
	out.Builtin = false
	return &out
}

// SaveConfig writes cfg in the format implied by the extension of path
func SaveConfig(cfg *Config, path string) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	data, err := f.encode(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode mock config: %w", err)
	}
	if err := os.WriteFile(path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write mock config: %w", err)
	}
	return nil
}
