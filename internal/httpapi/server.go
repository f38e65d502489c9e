package httpapi

import (
	"net/http"
	"time"

	"leadcrm/backend/internal/auth"
	"leadcrm/backend/internal/config"
	"leadcrm/backend/internal/store"

	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.Config
	store  store.Store
	issuer *auth.Issuer
	logger *zap.Logger
	mux    *http.ServeMux
	now    func() time.Time
}

func NewServer(cfg config.Config, st store.Store, issuer *auth.Issuer, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  st,
		issuer: issuer,
		logger: logger,
		mux:    http.NewServeMux(),
		now:    time.Now,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.recoverMiddleware(h)
	h = loggingMiddleware(s.logger, h)
	h = requestIDMiddleware(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})(h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /ping", s.handlePing)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/leads", s.requireAuth(s.handleListLeads))
	s.mux.HandleFunc("POST /api/leads", s.requireAuth(s.handleCreateLead))
	s.mux.HandleFunc("GET /api/leads/{id}", s.requireAuth(s.handleGetLead))
	s.mux.HandleFunc("PUT /api/leads/{id}", s.requireAuth(s.handleUpdateLead))
	s.mux.HandleFunc("DELETE /api/leads/{id}", s.requireAuth(s.handleDeleteLead))

	s.mux.HandleFunc("/", s.handleNoRoute)
}

// handleNoRoute answers unknown paths and unsupported methods in the API's
// JSON error shape.
func (s *Server) handleNoRoute(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, errRouteNotFound, nil)
}
