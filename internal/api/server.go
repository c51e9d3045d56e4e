// SPDX-License-Identifier: MIT

// Package api exposes the downstream HTTP surface: the player_api lookup
// endpoint, the refresh trigger and status, settings updates and the
// playback redirects.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/xtreamgate/xtreamgate/internal/cache"
	"github.com/xtreamgate/xtreamgate/internal/config"
	"github.com/xtreamgate/xtreamgate/internal/detail"
	"github.com/xtreamgate/xtreamgate/internal/log"
	"github.com/xtreamgate/xtreamgate/internal/refresh"
)

// Server wires the HTTP handlers to the core collaborators. It holds only
// read access to the published view; all cache mutation goes through the
// refresh runner.
type Server struct {
	settings  *config.Holder
	runner    *refresh.Runner
	published *cache.Published
	details   *detail.Service

	rateRPS   int
	rateBurst int
	logger    zerolog.Logger
}

// NewServer builds the API server.
func NewServer(settings *config.Holder, runner *refresh.Runner, published *cache.Published, details *detail.Service, app config.App) *Server {
	return &Server{
		settings:  settings,
		runner:    runner,
		published: published,
		details:   details,
		rateRPS:   app.RateLimitRPS,
		rateBurst: app.RateLimitBurst,
		logger:    log.WithComponent("api"),
	}
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	if s.rateRPS > 0 {
		limit := s.rateRPS
		if s.rateBurst > limit {
			limit = s.rateBurst
		}
		r.Use(httprate.LimitByIP(limit, time.Second))
	}

	r.Get("/player_api.php", s.handlePlayerAPI)
	r.Get("/refresh_cache", s.handleRefresh)
	r.Get("/status", s.handleStatus)
	r.Get("/update_config", s.handleUpdateConfig)

	r.Get("/live/{username}/{password}/{stream}", s.handleRedirect("live"))
	r.Get("/movie/{username}/{password}/{stream}", s.handleRedirect("movie"))
	r.Get("/series/{username}/{password}/{stream}", s.handleRedirect("series"))

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// requestLogger emits one structured entry per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("event", "http.request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request served")
	})
}
