// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/feedview/internal/adapters/http/proxy"
	service "github.com/okian/feedview/internal/app"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/viewer"
	"github.com/okian/feedview/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	State() viewer.State
	SelectOrder(ctx context.Context, raw string) (viewer.State, error)
	SetTab(ctx context.Context, raw string) (viewer.State, error)

	Post(ctx context.Context, id string, image int, nav string) (model.ScoredPost, viewer.Detail, error)
	CopyImage(ctx context.Context, id, url string) (time.Time, error)
	Copied(url string) bool

	Creation(ctx context.Context, id string) (model.Creation, int, error)
}

// Server wires HTTP routes for the viewer API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	postsHandler     *PostsHandler
	creationsHandler *CreationsHandler
	stateHandler     *StateHandler
	proxy            http.Handler
	logger           logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithImageProxy mounts h on the image proxy path.
func WithImageProxy(h http.Handler) Option {
	return func(s *Server) {
		s.proxy = h
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		postsHandler:     NewPostsHandler(deps),
		creationsHandler: NewCreationsHandler(deps),
		stateHandler:     NewStateHandler(deps),
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/posts", MetricsMiddleware(s.postsHandler.HandleList, "posts"))
	mux.HandleFunc("GET /api/posts/{id}", MetricsMiddleware(s.postsHandler.HandleDetail, "post"))
	mux.HandleFunc("POST /api/posts/{id}/copy", MetricsMiddleware(s.postsHandler.HandleCopy, "post_copy"))

	mux.HandleFunc("GET /api/creations", MetricsMiddleware(s.creationsHandler.HandleList, "creations"))
	mux.HandleFunc("GET /api/creations/{id}", MetricsMiddleware(s.creationsHandler.HandleDetail, "creation"))

	mux.HandleFunc("GET /api/state", MetricsMiddleware(s.stateHandler.HandleState, "state"))
	mux.HandleFunc("PUT /api/state/tab", MetricsMiddleware(s.stateHandler.HandleSetTab, "state_tab"))
	mux.HandleFunc("GET /api/sort-options", MetricsMiddleware(s.stateHandler.HandleSortOptions, "sort_options"))

	if s.proxy != nil {
		mux.HandleFunc(proxy.Path, MetricsMiddleware(s.proxy.ServeHTTP, "proxy_image"))
	}

	s.logger.Debug(ctx, "api routes registered", logger.Bool("imageProxy", s.proxy != nil))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and domain sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCreationNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ranking.ErrUnknownSortOrder),
		errors.Is(err, service.ErrInvalidTab),
		errors.Is(err, service.ErrInvalidNavigation),
		errors.Is(err, service.ErrImageNotInPost),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
