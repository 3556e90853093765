// Package api exposes the catalog, progress and auth services over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/auth"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/progress"
)

const maxBodyBytes = 4 << 20

// HealthChecker is implemented by storage backends that can report readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Config holds the services the API serves.
type Config struct {
	Catalog  *content.Service
	Progress *progress.Service
	Auth     *auth.Service
	Checks   map[string]HealthChecker
}

// Handler serves the REST API.
type Handler struct {
	catalog  *content.Service
	progress *progress.Service
	auth     *auth.Service
	checks   map[string]HealthChecker
}

// New creates an API handler.
func New(cfg Config) *Handler {
	return &Handler{
		catalog:  cfg.Catalog,
		progress: cfg.Progress,
		auth:     cfg.Auth,
		checks:   cfg.Checks,
	}
}

// Routes returns the HTTP router.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	mux.HandleFunc("GET /api/content", h.handleListContent)
	mux.HandleFunc("GET /api/content/export.xlsx", h.handleExportContent)
	mux.HandleFunc("GET /api/content/{id}", h.handleGetContent)
	mux.HandleFunc("POST /api/content/filter", h.handleFilterContent)

	mux.HandleFunc("GET /api/me/content", h.requireLearner(h.handleMyContent))
	mux.HandleFunc("GET /api/me/progress", h.requireLearner(h.handleMyProgress))
	mux.HandleFunc("POST /api/me/progress", h.requireLearner(h.handleCompleteContent))
	return mux
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.checks {
		if err := check.HealthCheck(r.Context()); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "check": name})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type learnerHandler func(w http.ResponseWriter, r *http.Request, learner content.Learner)

func (h *Handler) requireLearner(next learnerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		learner, err := h.auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		next(w, r, learner)
	}
}

// bearerToken extracts the credentials of a Bearer Authorization header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return token, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinels to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid catalog", "problems": verr.Problems})
	case errors.Is(err, content.ErrNotFound):
		writeError(w, http.StatusNotFound, "content not found")
	case errors.Is(err, content.ErrNotAppropriate):
		writeError(w, http.StatusForbidden, "content not available for this grade")
	case errors.Is(err, progress.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "content already completed")
	case errors.Is(err, auth.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusConflict, "username already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid username or password")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
