package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"botbridge-backend/internal/auth"
	"botbridge-backend/internal/config"
	"botbridge-backend/internal/dialogflow"
	"botbridge-backend/internal/logger"
	"botbridge-backend/internal/store"
	"botbridge-backend/internal/types"
)

// ConfigStore is the slice of bot-config persistence the handlers need.
type ConfigStore interface {
	GetAll(ctx context.Context) ([]store.BotConfig, error)
	GetByID(ctx context.Context, id string) (*store.BotConfig, error)
	Create(ctx context.Context, cfg *store.BotConfig) error
	Update(ctx context.Context, id string, cfg *store.BotConfig) error
	Delete(ctx context.Context, id string) error
}

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	log      *logger.Logger
	auth     *auth.Service
	configs  ConfigStore
	bot      *dialogflow.Service
	upgrader websocket.Upgrader
}

func NewServer(cfg config.Config, log *logger.Logger, authSvc *auth.Service, configs ConfigStore, bot *dialogflow.Service) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:  r,
		cfg:     cfg,
		log:     log,
		auth:    authSvc,
		configs: configs,
		bot:     bot,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/auth/register", s.handleRegister)
	s.router.Post("/api/auth/login", s.handleLogin)
	// Called by the provider, not the browser; no bearer token.
	s.router.Post("/api/dialogflow/webhook", s.handleWebhook)

	s.router.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/api/dialogflow/detect-intent", s.handleDetectIntent)
		r.Route("/api/botconfigs", func(r chi.Router) {
			r.Get("/", s.handleListConfigs)
			r.Post("/", s.handleCreateConfig)
			r.Get("/{id}", s.handleGetConfig)
			r.Put("/{id}", s.handleUpdateConfig)
			r.Delete("/{id}", s.handleDeleteConfig)
		})
		r.Get("/ws", s.handleWebSocket)
	})
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients
	}
	return s.cfg.AllowedOrigin == "*" || origin == s.cfg.AllowedOrigin
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		s.log.Errorw("register failed", "email", req.Email, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, types.AuthResult{Result: false, Message: "An unexpected error occurred."})
		return
	}
	if !result.Result {
		s.writeJSON(w, http.StatusBadRequest, result)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err == auth.ErrInvalidCredentials {
		s.writeJSON(w, http.StatusBadRequest, types.AuthResult{Result: false, Message: "Invalid credentials"})
		return
	}
	if err != nil {
		s.log.Errorw("login failed", "email", req.Email, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, types.AuthResult{Result: false, Message: "An unexpected error occurred."})
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDetectIntent(w http.ResponseWriter, r *http.Request) {
	var req types.DetectIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	s.writeJSON(w, http.StatusOK, s.bot.DetectIntent(r.Context(), req.SessionID, req.Text))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	out, err := s.bot.ProcessWebhook(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}
