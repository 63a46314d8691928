// Package httpapi wires the HTTP surface of the library service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfd/library/internal/service/book"
	"github.com/shelfd/library/internal/service/loan"
	"github.com/shelfd/library/internal/validation"
)

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	books book.Service
	loans loan.Service
	ready ReadyChecker
	log   *slog.Logger
	rt    *chi.Mux
}

// New constructs the HTTP server with routes and middleware. ready may be nil
// when the backing store has no connectivity to check (the in-memory store).
func New(books book.Service, loans loan.Service, ready ReadyChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		books: books,
		loans: loans,
		ready: ready,
		rt:    r,
		log:   logger,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route
// middleware.
func (s *Server) routes() {
	s.rt.Get("/", s.root)

	s.rt.Route("/api", func(r chi.Router) {
		r.With(s.validateCreateBook()).Post("/books", s.createBook)
		r.With(s.validateListBooks()).Get("/books", s.listBooks)
		r.Get("/books/{bookId}", s.getBook)
		r.With(s.validateUpdateBook()).Put("/books/{bookId}", s.updateBook)
		r.Delete("/books/{bookId}", s.deleteBook)
		r.With(s.validateBorrow()).Post("/borrow", s.postBorrow)
		r.Get("/borrow", s.borrowSummary)
	})

	// Health (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())

	s.rt.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "Route not found", validation.NameNotFoundError)
	})
	s.rt.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed", validation.NameError)
	})
}
