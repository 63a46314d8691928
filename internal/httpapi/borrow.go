// Borrow handlers: the transactional borrow operation and the per-book
// borrowed-quantity summary.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shelfd/library/internal/errs"
	"github.com/shelfd/library/internal/validation"
)

func (s *Server) postBorrow(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyBorrow)
	in, ok := v.(validatedBorrow)
	if !ok {
		fail(w, http.StatusInternalServerError, "validated request missing", validation.NameError)
		return
	}
	borrow, err := s.loans.Borrow(r.Context(), in.bookID, *in.req.Quantity, in.due)
	if err != nil {
		var stock *errs.InsufficientStockError
		switch {
		case errors.Is(err, errs.ErrNotFound):
			fail(w, http.StatusNotFound, "Book not found", validation.NameNotFoundError)
		case errors.Is(err, errs.ErrBookUnavailable):
			failField(w, validation.NewFieldError("book", validation.KindAvailability,
				"Book is currently not available for borrowing", in.req.Book, nil))
		case errors.As(err, &stock):
			msg := fmt.Sprintf("Insufficient copies available. Only %d copies remaining", stock.Available)
			failField(w, validation.NewFieldError("quantity", validation.KindInsufficientStock,
				msg, *in.req.Quantity, map[string]any{"available": stock.Available}))
		case errors.Is(err, errs.ErrPastDueDate):
			failField(w, validation.NewFieldError("dueDate", validation.KindFuture,
				"Due date must be in the future", in.req.DueDate, nil))
		default:
			s.log.Error("borrow failed", "err", err, "book_id", in.bookID)
			fail(w, http.StatusInternalServerError, "Internal server error while processing borrow request", validation.NameError)
		}
		return
	}
	success(w, http.StatusCreated, "Book borrowed successfully", borrow)
}

func (s *Server) borrowSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.loans.Summary(r.Context())
	if err != nil {
		if errors.Is(err, errs.ErrDatabase) {
			s.log.Error("borrow summary aggregation failed", "err", err)
			fail(w, http.StatusInternalServerError, "Database aggregation error", validation.NameDatabaseError)
			return
		}
		s.log.Error("borrow summary failed", "err", err)
		fail(w, http.StatusInternalServerError, "Internal server error while retrieving borrowed books summary", validation.NameError)
		return
	}
	success(w, http.StatusOK, "Borrowed books summary retrieved successfully", summary)
}
