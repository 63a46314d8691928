package httpapi

import (
	"context"
	"net/http"
	"time"
)

// root is the liveness endpoint.
func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, map[string]string{"message": "Library API is running"})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// readyz checks store connectivity with a short timeout when the backing
// store exposes a readiness probe.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.ready == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
	defer cancel()
	if err := s.ready.Ready(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
