// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
	"github.com/xtreamgate/xtreamgate/internal/config"
	"github.com/xtreamgate/xtreamgate/internal/refresh"
)

// handlePlayerAPI serves the Xtream-compatible lookup surface from the
// published view, and the two detail actions through the detail service.
func (s *Server) handlePlayerAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user, pass := q.Get("username"), q.Get("password")
	acc := s.settings.Upstream()
	if user != acc.Username || pass != acc.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"user_info": map[string]any{"auth": 0},
		})
		return
	}

	action := q.Get("action")
	if action == "" {
		writeJSON(w, http.StatusOK, handshakePayload(r, user, pass))
		return
	}

	view := s.published.Current()
	if view == nil {
		// Distinct from an empty result: the cache was never built.
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Cache not built"})
		return
	}

	switch action {
	case "get_live_streams":
		writeJSON(w, http.StatusOK, view.Items(catalog.Live))
	case "get_live_categories":
		writeJSON(w, http.StatusOK, view.Categories(catalog.Live))
	case "get_vod_streams":
		writeJSON(w, http.StatusOK, view.Items(catalog.VOD))
	case "get_vod_categories":
		writeJSON(w, http.StatusOK, view.Categories(catalog.VOD))
	case "get_series":
		writeJSON(w, http.StatusOK, view.Items(catalog.Series))
	case "get_series_categories":
		writeJSON(w, http.StatusOK, view.Categories(catalog.Series))
	case "get_vod_info":
		s.handleDetail(w, r, catalog.VOD, q.Get("vod_id"))
	case "get_series_info":
		s.handleDetail(w, r, catalog.Series, q.Get("series_id"))
	default:
		writeJSON(w, http.StatusOK, []any{})
	}
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request, t catalog.ContentType, rawID string) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, s.details.Get(r.Context(), t, id))
}

// handleRefresh triggers a refresh cycle in the background. A trigger while
// one is running reports Busy; it is not an error.
func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if err := s.runner.Trigger(); errors.Is(err, refresh.ErrBusy) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "Busy",
			"message": "Refresh already in progress",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Started",
		"message": "Refresh started in background. Check /status for progress.",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Status())
}

// handleUpdateConfig applies query-parameter settings updates and persists
// them to the settings file.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keys := []string{"base_url", "username", "password", "live_filters", "vod_filters", "series_filters"}
	changed := false
	for _, k := range keys {
		if q.Get(k) != "" {
			changed = true
			break
		}
	}
	if !changed {
		writeJSON(w, http.StatusOK, map[string]string{"status": "No changes"})
		return
	}

	err := s.settings.Update(func(st *config.Settings) {
		if v := strings.TrimSpace(q.Get("base_url")); v != "" {
			st.Xtream.BaseURL = v
		}
		if v := strings.TrimSpace(q.Get("username")); v != "" {
			st.Xtream.Username = v
		}
		if v := strings.TrimSpace(q.Get("password")); v != "" {
			st.Xtream.Password = v
		}
		if v := q.Get("live_filters"); v != "" {
			st.Filters.Live = config.SplitPrefixes(v)
		}
		if v := q.Get("vod_filters"); v != "" {
			st.Filters.VOD = config.SplitPrefixes(v)
		}
		if v := q.Get("series_filters"); v != "" {
			st.Filters.Series = config.SplitPrefixes(v)
		}
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "Updated"})
}

// handleRedirect sends playback requests straight to the upstream origin.
// The proxy never touches media bytes.
func (s *Server) handleRedirect(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "username")
		pass := chi.URLParam(r, "password")
		stream := chi.URLParam(r, "stream")
		base := strings.TrimRight(s.settings.Upstream().BaseURL, "/")
		target := fmt.Sprintf("%s/%s/%s/%s/%s",
			base, kind, url.PathEscape(user), url.PathEscape(pass), url.PathEscape(stream))
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"cache_built": s.published.Current() != nil,
	})
}

// handshakePayload synthesizes the login response Xtream clients expect.
func handshakePayload(r *http.Request, user, pass string) map[string]any {
	hostname, port, err := net.SplitHostPort(r.Host)
	if err != nil {
		hostname, port = r.Host, "80"
	}
	now := time.Now()
	return map[string]any{
		"user_info": map[string]any{
			"username":               user,
			"password":               pass,
			"message":                "Logged In",
			"auth":                   1,
			"status":                 "Active",
			"exp_date":               "1999999999",
			"created_at":             "1600000000",
			"max_connections":        "10",
			"allowed_output_formats": []string{"m3u8", "ts", "rtmp"},
		},
		"server_info": map[string]any{
			"url":             "http://" + hostname,
			"port":            port,
			"https_port":      port,
			"server_protocol": "http",
			"rtmp_port":       port,
			"timezone":        "Europe/London",
			"timestamp_now":   now.Unix(),
			"time_now":        now.Format("2006-01-02 15:04:05"),
			"process":         1,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
