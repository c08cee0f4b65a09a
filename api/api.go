// Package api exposes the authentication service over HTTP.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/jmcleod/gatehouse/auth"
	"github.com/jmcleod/gatehouse/redact"
)

//go:embed openapi.yaml
var openapiSpec []byte

// defaultExcludedPaths lists routes reachable without authentication.
var defaultExcludedPaths = []string{
	"/status/",
	"/openapi.yaml/",
	"/docs*",
	"/redoc*",
	"/auth/register/",
	"/auth/login/",
	"/auth/logout/",
	"/auth/reset_password/",
}

// API holds the dependencies needed by the REST handlers.
type API struct {
	svc      *auth.Service
	strategy Strategy
	cfg      Config
	logger   *slog.Logger
	excluded []string
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger. If not set, a default JSON logger
// writing to stderr is used. Either way the logger is wrapped so that
// personally identifiable attributes are redacted.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// WithExcludedPaths replaces the default list of routes reachable without
// authentication.
func WithExcludedPaths(paths []string) Option {
	return func(a *API) {
		a.excluded = paths
	}
}

// New creates a new API instance.
func New(svc *auth.Service, strategy Strategy, cfg Config, opts ...Option) *API {
	a := &API{
		svc:      svc,
		strategy: strategy,
		cfg:      cfg,
		excluded: defaultExcludedPaths,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	a.logger = slog.New(redact.NewHandler(a.logger.Handler(), redact.PIIFields))
	return a
}

// Router returns a chi.Router with all API routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(a.AuthMiddleware)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/openapi.yaml",
		Path:    "redoc",
	}, nil))

	r.Get("/status", a.Status)

	r.Post("/auth/register", a.Register)
	r.Post("/auth/login", a.Login)
	r.Post("/auth/logout", a.Logout)
	r.Post("/auth/reset_password", a.RequestResetToken)
	r.Put("/auth/reset_password", a.UpdatePassword)

	r.Get("/users/me", a.CurrentUser)

	return r
}

// Status handles GET /status.
func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "OK"})
}
