// Package server exposes the shopping assistant over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	logx "github.com/tanpawarit/chative-shopping-assistant/pkg/logger"
)

type Config struct {
	Addr            string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

// Dialogue is the turn handler behind the API.
type Dialogue interface {
	HandleTurn(ctx context.Context, sessionID string, text string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type TurnRequest struct {
	Text string `json:"text"`
}

type TurnResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type handler struct {
	dialogue Dialogue
	newID    func() string
}

// NewRouter wires the chat routes plus /healthz and /metrics. gatherer may be nil.
func NewRouter(d Dialogue, gatherer prometheus.Gatherer, cfg Config) http.Handler {
	h := &handler{dialogue: d, newID: uuid.NewString}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Post("/{id}/turns", h.postTurn)
		r.Delete("/{id}", h.deleteSession)
	})
	return r
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, SessionResponse{SessionID: h.newID()})
}

func (h *handler) postTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req TurnRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	reply, err := h.dialogue.HandleTurn(r.Context(), sessionID, req.Text)
	switch {
	case errors.Is(err, contractx.ErrInvalidSession):
		respondError(w, http.StatusBadRequest, "invalid_session", err.Error())
		return
	case errors.Is(err, contractx.ErrInvalidMessage):
		respondError(w, http.StatusBadRequest, "invalid_message", err.Error())
		return
	case err != nil:
		logx.Component("server").Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
		respondError(w, http.StatusInternalServerError, "internal", "turn failed")
		return
	}

	respondJSON(w, http.StatusOK, TurnResponse{SessionID: sessionID, Reply: reply})
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := h.dialogue.EndSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, contractx.ErrInvalidSession) {
			respondError(w, http.StatusBadRequest, "invalid_session", err.Error())
			return
		}
		logx.Component("server").Error().Err(err).Str("session_id", sessionID).Msg("end session failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		logx.Component("server").Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(started)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Component("server").Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: strings.TrimSpace(message), Code: code})
}

// Run serves handler until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, handler http.Handler, cfg Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Component("server").Info().Str("addr", cfg.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Component("server").Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
