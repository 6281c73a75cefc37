package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/ent0n29/memoir/internal/biography"
	"github.com/ent0n29/memoir/internal/chat"
	"github.com/ent0n29/memoir/internal/config"
	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/observability"
)

// AdminSecretHeader carries the shared secret for person-level endpoints.
const AdminSecretHeader = "X-Admin-Secret"

type ChatService interface {
	Respond(ctx context.Context, req chat.Request) (chat.Response, error)
	SourceNames() []string
}

type BiographyService interface {
	Report(ctx context.Context, personID string) (biography.Report, error)
}

type Server struct {
	cfg         config.Config
	chat        ChatService
	biographies BiographyService
	store       memory.Store
	metrics     *observability.Metrics
	logger      *log.Logger
	upgrader    websocket.Upgrader
}

func New(cfg config.Config, chatService ChatService, biographies BiographyService, store memory.Store, metrics *observability.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		cfg:         cfg,
		chat:        chatService,
		biographies: biographies,
		store:       store,
		metrics:     metrics,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				if slices.Contains(cfg.CORSAllowedOrigins, origin) {
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
	r.Use(middleware.Recoverer)
	r.Use(s.corsHandler().Handler)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/v1/perf/sources", s.handlePerfSources)

	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/chat/ws", s.handleChatWS)
	r.Post("/v1/notes", s.handleCreateNote)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/v1/turns", s.handleListTurns)
		r.Get("/v1/notes", s.handleListNotes)
		r.Post("/v1/biography", s.handleBiography)
		r.Delete("/v1/persons/{id}", s.handleDeletePerson)
	})

	return r
}

func (s *Server) corsHandler() *cors.Cors {
	origins := s.cfg.CORSAllowedOrigins
	if s.cfg.AllowAnyOrigin {
		origins = []string{"*"}
	}
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", AdminSecretHeader},
	}
	if len(origins) == 0 {
		// cors treats an empty list as "*"; same-origin callers need no headers.
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts)
}

// requireAdmin rejects requests without the configured secret. With no secret
// configured the guarded endpoints are off entirely.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminSecret == "" {
			respondError(w, http.StatusForbidden, "admin_disabled", "admin endpoints are disabled")
			return
		}
		got := r.Header.Get(AdminSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.AdminSecret)) != 1 {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid admin secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var names []string
	if s.chat != nil {
		names = s.chat.SourceNames()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"sources": names,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "store not configured")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.store.QueryTurns(ctx, memory.Filter{Limit: 1}); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
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
