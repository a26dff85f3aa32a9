package widget

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/openwidget/widgetkit/core"
)

// Registry is an ordered mapping from endpoint identifier to widget
// configuration. It serves the mapping as a single JSON object, which is
// what the dashboard host fetches from /widgets.json.
//
// Registration happens during server setup and is not goroutine-safe;
// after setup the registry is read-only and can be served concurrently.
type Registry struct {
	endpoints []string
	configs   map[string]Config
}

// NewRegistry creates an empty widget registry
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]Config),
	}
}

// Register validates the configuration, stores it under its endpoint
// identifier and returns the handler unchanged, so that registration can
// wrap the handler right where the route is declared.
//
// If the configuration has no id, the endpoint identifier is used.
// Registering two configurations for the same endpoint is an error.
func (r *Registry) Register(cfg Config, h http.HandlerFunc) (http.HandlerFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("widget %q: %w", cfg.Endpoint, err)
	}
	key := core.EndpointID(cfg.Endpoint)
	if _, ok := r.configs[key]; ok {
		return nil, fmt.Errorf("widget %q: endpoint already registered", key)
	}
	if cfg.ID == "" {
		cfg.ID = key
	}
	r.endpoints = append(r.endpoints, key)
	r.configs[key] = cfg
	return h, nil
}

// MustRegister is like Register but panics on configuration errors
func (r *Registry) MustRegister(cfg Config, h http.HandlerFunc) http.HandlerFunc {
	wrapped, err := r.Register(cfg, h)
	if err != nil {
		panic(err)
	}
	return wrapped
}

// Lookup returns the configuration registered for the given endpoint
func (r *Registry) Lookup(endpoint string) (Config, bool) {
	cfg, ok := r.configs[core.EndpointID(endpoint)]
	return cfg, ok
}

// Endpoints returns all registered endpoint identifiers in registration order
func (r *Registry) Endpoints() []string {
	return append([]string{}, r.endpoints...)
}

// Len returns the number of registered widgets
func (r *Registry) Len() int {
	return len(r.endpoints)
}

// MarshalJSON marshals the registry as a JSON object keyed by endpoint
// identifier, in registration order. An empty registry marshals as {}.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.endpoints {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.configs[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ServeHTTP serves the registry mapping as application/json
func (r *Registry) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	jsonData, err := r.MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}
