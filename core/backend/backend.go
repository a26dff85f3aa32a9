/*
Package backend provides the HTTP server for a dashboard widget backend.

A backend bundles a widget registry with a mux router and serves the
discovery endpoints the dashboard host requires: the backend description
at /, the widget configurations at /widgets.json and the optional app
layouts at /apps.json.

Widget data handlers are added with Register and RegisterPost, which
store the widget configuration and mount the handler on the widget's
endpoint in a single call.
*/
package backend

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/openwidget/widgetkit/core"
	"github.com/openwidget/widgetkit/core/access"
	"github.com/openwidget/widgetkit/core/logger"
	"github.com/openwidget/widgetkit/core/widget"
)

// Builder is a builder of backend objects
type Builder struct {
	// Router is the mux router the backend mounts its routes on. Mandatory.
	Router *mux.Router
	// Name is the human readable name of this backend. Mandatory.
	Name string
	// Description is shown by the dashboard host in its data connector list
	Description string
	// Version is the version string reported at /version. Optional.
	Version string
	// Apps is the raw JSON served at /apps.json. Optional; without it the
	// backend answers /apps.json with 404.
	Apps json.RawMessage
	// Auth protects all routes with bearer-token verification. Optional.
	Auth access.Verifier
	// LogRequests enables request logging in Apache combined log format
	LogRequests bool
}

// Backend is the widget backend
type Backend struct {
	name        string
	description string
	router      *mux.Router
	registry    *widget.Registry
	apps        json.RawMessage
}

// New realizes the actual backend from a builder
func New(bb *Builder) *Backend {
	if bb.Router == nil {
		panic("backend builder: router is missing")
	}
	if bb.Name == "" {
		panic("backend builder: name is missing")
	}

	b := &Backend{
		name:        bb.Name,
		description: bb.Description,
		router:      bb.Router,
		registry:    widget.NewRegistry(),
		apps:        bb.Apps,
	}

	if bb.Version != "" {
		Version = bb.Version
	}

	logger.AddRequestID(b.router)
	b.router.Use(handlers.RecoveryHandler())
	if bb.LogRequests {
		b.router.Use(func(h http.Handler) http.Handler {
			return handlers.LoggingHandler(logger.Default().Writer(), h)
		})
	}
	if bb.Auth != nil {
		b.router.Use(access.Middleware(bb.Auth))
	}

	b.handleRoutes(b.router)
	return b
}

// Router returns the mux router this backend operates on
func (b *Backend) Router() *mux.Router {
	return b.router
}

// Registry returns the widget registry of this backend
func (b *Backend) Registry() *widget.Registry {
	return b.registry
}

// HandleRoutes adds all necessary handlers for the discovery endpoints
func (b *Backend) handleRoutes(router *mux.Router) {
	logger.Default().Debugln("backend: adding discovery routes")

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, r, map[string]string{
			"name":        b.name,
			"description": b.description,
		})
	}).Methods(http.MethodGet)

	router.Handle("/widgets.json", b.registry).Methods(http.MethodGet)

	router.HandleFunc("/apps.json", func(w http.ResponseWriter, r *http.Request) {
		if b.apps == nil {
			Error(w, http.StatusNotFound, "no apps configured")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(b.apps)
	}).Methods(http.MethodGet)

	router.HandleFunc("/version", versionHandler).Methods(http.MethodGet)
}

// Register stores the widget configuration and mounts the handler for
// GET requests on the widget's endpoint. It returns an error if the
// configuration does not validate or the endpoint is already taken.
func (b *Backend) Register(cfg widget.Config, h http.HandlerFunc) error {
	return b.register(cfg, h, http.MethodGet)
}

// RegisterPost is like Register, but mounts the handler for POST
// requests. This is how omni widgets receive their prompt payload.
func (b *Backend) RegisterPost(cfg widget.Config, h http.HandlerFunc) error {
	return b.register(cfg, h, http.MethodPost)
}

// MustRegister is like Register but panics on error. Backends are
// assembled at startup, where a configuration error should abort the
// process with a clear message.
func (b *Backend) MustRegister(cfg widget.Config, h http.HandlerFunc) {
	if err := b.Register(cfg, h); err != nil {
		panic(err)
	}
}

// MustRegisterPost is like RegisterPost but panics on error
func (b *Backend) MustRegisterPost(cfg widget.Config, h http.HandlerFunc) {
	if err := b.RegisterPost(cfg, h); err != nil {
		panic(err)
	}
}

func (b *Backend) register(cfg widget.Config, h http.HandlerFunc, method string) error {
	wrapped, err := b.registry.Register(cfg, h)
	if err != nil {
		return err
	}
	logger.Default().Debugf("backend: widget %s %s", method, core.RoutePath(cfg.Endpoint))
	b.router.HandleFunc(core.RoutePath(cfg.Endpoint), wrapped).Methods(method)
	return nil
}

// HandleOptions mounts a handler that serves dropdown options for
// parameters of type endpoint. The options function receives the request
// and returns the option list; query parameters carry the resolved
// values of dependent parameters.
func (b *Backend) HandleOptions(path string, options func(r *http.Request) ([]widget.Option, error)) {
	b.router.HandleFunc(core.RoutePath(path), func(w http.ResponseWriter, r *http.Request) {
		list, err := options(r)
		if err != nil {
			Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []widget.Option{}
		}
		WriteJSON(w, r, list)
	}).Methods(http.MethodGet)
}
