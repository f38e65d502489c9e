package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check: store unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"ok":   false,
			"time": s.now().UTC().Format(time.RFC3339Nano),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": s.now().UTC().Format(time.RFC3339Nano),
	})
}
