package sites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// configFile represents the structure of a sites file.
type configFile struct {
	Sites []Site `json:"sites" yaml:"sites"`
}

// Registry maps site names to their validated configuration.
type Registry struct {
	mu    sync.RWMutex
	sites []Site
	idx   map[string]Site
}

// NewRegistry sanitizes and validates the given sites. Names are case-insensitive and unique.
func NewRegistry(sites ...Site) (*Registry, error) {
	if len(sites) == 0 {
		return nil, errors.New("no sites configured")
	}

	reg := &Registry{
		sites: make([]Site, 0, len(sites)),
		idx:   make(map[string]Site, len(sites)),
	}

	for i := range sites {
		site := sanitize(sites[i])
		if err := site.Validate(); err != nil {
			return nil, fmt.Errorf("sites[%d]: %w", i, err)
		}
		key := strings.ToLower(site.Name)
		if _, exists := reg.idx[key]; exists {
			return nil, fmt.Errorf("duplicate site name %q", site.Name)
		}
		reg.sites = append(reg.sites, site)
		reg.idx[key] = site
	}

	return reg, nil
}

// DefaultRegistry wires up the built-in sources.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(Builtin()...)
}

// LoadRegistry loads a site registry from a YAML/JSON file. ${VAR} references are expanded.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sites file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	parsed, err := parseSitesFile(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Sites) == 0 {
		return nil, errors.New("sites file contains no sites entries")
	}

	return NewRegistry(parsed.Sites...)
}

// parseSitesFile attempts to decode the sites file content.
func parseSitesFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cfg configFile
		if err := d.fn(data, &cfg); err != nil {
			lastErr = fmt.Errorf("decode %s sites: %w", d.name, err)
			continue
		}
		return cfg, nil
	}

	if lastErr != nil {
		return configFile{}, lastErr
	}
	return configFile{}, errors.New("sites file format not recognized (expected YAML or JSON)")
}

// ByName returns the site with the given name.
func (r *Registry) ByName(name string) (Site, bool) {
	if r == nil {
		return Site{}, false
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Site{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	site, ok := r.idx[key]
	return site, ok
}

// All returns every configured site in declaration order.
func (r *Registry) All() []Site {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Site, len(r.sites))
	copy(out, r.sites)
	return out
}

// Select resolves names to sites, preserving the order given. No names selects every site.
func (r *Registry) Select(names []string) ([]Site, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	out := make([]Site, 0, len(names))
	for _, name := range names {
		site, ok := r.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown site %q", name)
		}
		out = append(out, site)
	}
	return out, nil
}
