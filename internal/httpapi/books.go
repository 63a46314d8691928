// Book handlers: create, list, get, update, delete.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/shelfd/library/internal/errs"
	"github.com/shelfd/library/internal/service/book"
	"github.com/shelfd/library/internal/validation"
)

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyCreateBook)
	req, ok := v.(createBookRequest)
	if !ok {
		fail(w, http.StatusInternalServerError, "validated request missing", validation.NameError)
		return
	}
	created, err := s.books.Create(r.Context(), req.toDomain())
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateISBN) {
			failField(w, validation.NewFieldError("isbn", validation.KindUnique,
				"isbn already exists", req.ISBN, nil))
			return
		}
		s.log.Error("create book failed", "err", err)
		fail(w, http.StatusInternalServerError, "Internal server error while creating book", validation.NameError)
		return
	}
	success(w, http.StatusCreated, "Book created successfully", created)
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyListBooks)
	q, ok := v.(listBooksQuery)
	if !ok {
		fail(w, http.StatusInternalServerError, "validated query missing", validation.NameError)
		return
	}
	books, err := s.books.List(r.Context(), book.ListInput{
		Genre:  q.Filter,
		SortBy: q.SortBy,
		Order:  q.Sort,
		Limit:  q.Limit,
	})
	if err != nil {
		s.log.Error("list books failed", "err", err)
		fail(w, http.StatusInternalServerError, "Internal server error while retrieving books", validation.NameError)
		return
	}
	success(w, http.StatusOK, "Books retrieved successfully", books)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}
	b, err := s.books.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			fail(w, http.StatusNotFound, "Book not found", validation.NameNotFoundError)
			return
		}
		s.log.Error("get book failed", "err", err, "book_id", id)
		fail(w, http.StatusInternalServerError, "Internal server error while retrieving book", validation.NameError)
		return
	}
	success(w, http.StatusOK, "Book retrieved successfully", b)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}
	v := r.Context().Value(ctxKeyUpdateBook)
	req, ok := v.(updateBookRequest)
	if !ok {
		fail(w, http.StatusInternalServerError, "validated request missing", validation.NameError)
		return
	}
	updated, err := s.books.Update(r.Context(), id, req.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			fail(w, http.StatusNotFound, "Book not found", validation.NameNotFoundError)
		case errors.Is(err, errs.ErrDuplicateISBN):
			var value any
			if req.ISBN != nil {
				value = *req.ISBN
			}
			failField(w, validation.NewFieldError("isbn", validation.KindUnique,
				"isbn already exists", value, nil))
		default:
			s.log.Error("update book failed", "err", err, "book_id", id)
			fail(w, http.StatusInternalServerError, "Internal server error while updating book", validation.NameError)
		}
		return
	}
	success(w, http.StatusOK, "Book updated successfully", updated)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}
	if err := s.books.Delete(r.Context(), id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			fail(w, http.StatusNotFound, "Book not found", validation.NameNotFoundError)
			return
		}
		s.log.Error("delete book failed", "err", err, "book_id", id)
		fail(w, http.StatusInternalServerError, "Internal server error while deleting book", validation.NameError)
		return
	}
	success(w, http.StatusOK, "Book deleted successfully", nil)
}
