package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/empathlabs/empath/internal/archive"
	"github.com/empathlabs/empath/internal/config"
	"github.com/empathlabs/empath/internal/observability"
	"github.com/empathlabs/empath/internal/session"
)

// Server exposes the session runtime to the renderer. The browser owns
// presentation only; every state mutation goes through these endpoints and
// the pushed snapshots are display-only inputs.
type Server struct {
	cfg      config.Config
	sess     *session.Session
	history  archive.Store
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sess *session.Session, history archive.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		sess:    sess,
		history: history,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin, so another site cannot drive the user's session if
				// Empath is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/v1/session", s.handleGetSession)
	r.Post("/v1/session/login", s.handleLogin)
	r.Post("/v1/session/ready", s.handleReadyTransition)
	r.Post("/v1/session/logout", s.handleLogout)
	r.Get("/v1/session/ws", s.handleSessionWS)

	r.Post("/v1/chat/message", s.handleSendMessage)
	r.Get("/v1/chat/history", s.handleHistory)

	r.Get("/v1/perf/latency", s.handlePerfLatency)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"phase":  s.sess.Snapshot().Phase,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

type loginRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	switch err := s.sess.Login(req.Name); {
	case errors.Is(err, session.ErrEmptyName):
		respondError(w, http.StatusBadRequest, "empty_name", "please enter your name")
	case errors.Is(err, session.ErrInvalidPhase):
		respondError(w, http.StatusConflict, "already_logged_in", "a session is already established")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "login_failed", err.Error())
	default:
		respondJSON(w, http.StatusOK, s.sess.Snapshot())
	}
}

func (s *Server) handleReadyTransition(w http.ResponseWriter, _ *http.Request) {
	if err := s.sess.CompleteInit(); err != nil {
		respondError(w, http.StatusConflict, "not_initializing", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.sess.Logout()
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

type sendRequest struct {
	Text string `json:"text"`
}

type sendResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// Blocks for the duration of the turn; the at-most-one-in-flight gate
	// lives in the session, so concurrent posts degrade to rejections.
	accepted, reason := s.sess.Send(r.Context(), req.Text)
	respondJSON(w, http.StatusOK, sendResponse{Accepted: accepted, Reason: string(reason)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "history store not configured")
		return
	}

	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.history.RecentTurns(r.Context(), s.sess.UserID(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"turns": records})
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	if s.metrics == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "metrics not configured")
		return
	}
	respondJSON(w, http.StatusOK, s.metrics.LatencySnapshot())
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty request body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
