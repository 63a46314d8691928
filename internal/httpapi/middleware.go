package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shelfd/library/internal/validation"
)

type ctxKey string

const ctxKeyCreateBook ctxKey = "validatedCreateBook"
const ctxKeyUpdateBook ctxKey = "validatedUpdateBook"
const ctxKeyListBooks ctxKey = "validatedListBooks"
const ctxKeyBorrow ctxKey = "validatedBorrow"

// decodeBody decodes a JSON request body into dst with unknown fields
// rejected. On failure it writes the 400 malformed-payload envelope and
// returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON payload", validation.NameError)
		return false
	}
	return true
}

// validateCreateBook parses and validates the POST /api/books body and stores
// the request struct in the context for the handler to use.
func (s *Server) validateCreateBook() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req createBookRequest
			if !decodeBody(w, r, &req) {
				return
			}
			req.normalize()
			if fields := validation.Struct(req); fields != nil {
				failValidation(w, fields)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyCreateBook, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateUpdateBook checks the path id first (shared precondition with
// get/delete), then parses and validates the partial body.
func (s *Server) validateUpdateBook() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bookIDParam(w, r); !ok {
				return
			}
			if !requireJSON(w, r) {
				return
			}
			var req updateBookRequest
			if !decodeBody(w, r, &req) {
				return
			}
			req.normalize()
			if fields := validation.Struct(req); fields != nil {
				failValidation(w, fields)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUpdateBook, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateListBooks parses query params for GET /api/books. Values are passed
// through raw; defaults and the sort allow-list are the book service's job.
func (s *Server) validateListBooks() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			query := listBooksQuery{
				Filter: q.Get("filter"),
				SortBy: q.Get("sortBy"),
				Sort:   q.Get("sort"),
			}
			if raw := q.Get("limit"); raw != "" {
				if n, err := strconv.Atoi(raw); err == nil {
					query.Limit = n
				}
			}
			ctx := context.WithValue(r.Context(), ctxKeyListBooks, query)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatedBorrow carries the parsed borrow input into the handler.
type validatedBorrow struct {
	req    borrowRequest
	bookID uuid.UUID
	due    time.Time
}

// validateBorrow parses and validates the POST /api/borrow body, including
// the due-date parse and the strict in-the-future check. No transaction is
// opened until all of this has passed.
func (s *Server) validateBorrow() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req borrowRequest
			if !decodeBody(w, r, &req) {
				return
			}
			if fields := validation.Struct(req); fields != nil {
				failValidation(w, fields)
				return
			}
			due, err := time.Parse(time.RFC3339, req.DueDate)
			if err != nil {
				failField(w, validation.NewFieldError("dueDate", validation.KindFormat,
					"dueDate must be a valid date-time", req.DueDate, nil))
				return
			}
			if !due.After(time.Now()) {
				failField(w, validation.NewFieldError("dueDate", validation.KindFuture,
					"Due date must be in the future", req.DueDate, nil))
				return
			}
			bookID, err := uuid.Parse(req.Book)
			if err != nil {
				// The uuid tag already checked this; keep the guard for safety.
				failField(w, validation.NewFieldError("book", validation.KindFormat,
					"Invalid book ID format", req.Book, nil))
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyBorrow, validatedBorrow{req: req, bookID: bookID, due: due})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bookIDParam extracts the {bookId} path parameter. On malformed input it
// writes the 400 single-field envelope and returns ok=false.
func bookIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "bookId")
	id, err := uuid.Parse(raw)
	if err != nil {
		failField(w, validation.NewFieldError("bookId", validation.KindFormat,
			"Invalid book ID format", raw, nil))
		return uuid.Nil, false
	}
	return id, true
}
