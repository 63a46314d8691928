package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It mirrors the postgres store's semantics (unique
// isbn, stock checks, summary ordering) while keeping code paths easy to
// follow.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfd/library/internal/errs"
	"github.com/shelfd/library/internal/library"
)

// Store is an in-memory implementation of the repository+writer used by the
// API. It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu      sync.RWMutex
	books   map[uuid.UUID]library.Book
	borrows map[uuid.UUID]library.Borrow
	// Unique index: isbn -> book id
	isbnIndex map[string]uuid.UUID
	now       func() time.Time
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		books:     make(map[uuid.UUID]library.Book),
		borrows:   make(map[uuid.UUID]library.Borrow),
		isbnIndex: make(map[string]uuid.UUID),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SeedBook inserts a book directly, bypassing uniqueness checks. Test helper.
func (s *Store) SeedBook(b library.Book) {
	s.mu.Lock()
	s.books[b.ID] = b
	s.isbnIndex[b.ISBN] = b.ID
	s.mu.Unlock()
}

// Reset drops all state. Test helper.
func (s *Store) Reset() {
	s.mu.Lock()
	s.books = map[uuid.UUID]library.Book{}
	s.borrows = map[uuid.UUID]library.Borrow{}
	s.isbnIndex = map[string]uuid.UUID{}
	s.mu.Unlock()
}

// --- Book reads ---

// ListBooks returns books matching the genre filter, ordered by the query's
// sort key and capped at its limit.
func (s *Store) ListBooks(_ context.Context, q library.BookQuery) ([]library.Book, error) {
	s.mu.RLock()
	out := make([]library.Book, 0, len(s.books))
	for _, b := range s.books {
		if q.Genre != "" && b.Genre != q.Genre {
			continue
		}
		out = append(out, b)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		c := bookCompare(out[i], out[j], q.SortBy)
		if c == 0 {
			// Deterministic tie-break regardless of map iteration order.
			return out[i].ID.String() < out[j].ID.String()
		}
		if q.Desc {
			return c > 0
		}
		return c < 0
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func bookCompare(a, b library.Book, sortBy string) int {
	switch sortBy {
	case "title":
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case "author":
		return strings.Compare(strings.ToLower(a.Author), strings.ToLower(b.Author))
	case "isbn":
		return strings.Compare(a.ISBN, b.ISBN)
	case "copies":
		switch {
		case a.Copies < b.Copies:
			return -1
		case a.Copies > b.Copies:
			return 1
		}
		return 0
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// GetBook fetches a single book by id.
func (s *Store) GetBook(_ context.Context, id uuid.UUID) (library.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return library.Book{}, errs.ErrNotFound
	}
	return b, nil
}

// --- Book writes ---

// CreateBook stores a new book, enforcing isbn uniqueness.
func (s *Store) CreateBook(_ context.Context, b library.Book) (library.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.isbnIndex[b.ISBN]; exists {
		return library.Book{}, errs.ErrDuplicateISBN
	}
	ts := s.now()
	b.CreatedAt = ts
	b.UpdatedAt = ts
	s.books[b.ID] = b
	s.isbnIndex[b.ISBN] = b.ID
	return b, nil
}

// UpdateBook applies a partial update; nil fields keep their stored value.
func (s *Store) UpdateBook(_ context.Context, id uuid.UUID, upd library.BookUpdate) (library.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return library.Book{}, errs.ErrNotFound
	}
	if upd.ISBN != nil && *upd.ISBN != b.ISBN {
		if _, exists := s.isbnIndex[*upd.ISBN]; exists {
			return library.Book{}, errs.ErrDuplicateISBN
		}
		delete(s.isbnIndex, b.ISBN)
		s.isbnIndex[*upd.ISBN] = id
		b.ISBN = *upd.ISBN
	}
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Author != nil {
		b.Author = *upd.Author
	}
	if upd.Genre != nil {
		b.Genre = *upd.Genre
	}
	if upd.Copies != nil {
		b.Copies = *upd.Copies
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.Available != nil {
		b.Available = *upd.Available
	}
	b.UpdatedAt = s.now()
	s.books[id] = b
	return b, nil
}

// DeleteBook removes a book by id. Borrow records referencing it are left in
// place, matching the unguarded delete of the persistence layer.
func (s *Store) DeleteBook(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return errs.ErrNotFound
	}
	delete(s.isbnIndex, b.ISBN)
	delete(s.books, id)
	return nil
}

// --- Borrow ---

// BorrowBook runs the borrow critical section under the write lock: check the
// availability flag, check stock, decrement copies (flipping available off at
// zero), and record the borrow. The lock stands in for the database
// transaction's isolation.
func (s *Store) BorrowBook(_ context.Context, bookID uuid.UUID, quantity int, dueDate time.Time) (library.Borrow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[bookID]
	if !ok {
		return library.Borrow{}, errs.ErrNotFound
	}
	if !b.Available {
		return library.Borrow{}, errs.ErrBookUnavailable
	}
	if b.Copies < quantity {
		return library.Borrow{}, &errs.InsufficientStockError{Available: b.Copies}
	}
	b.Copies -= quantity
	if b.Copies == 0 {
		b.Available = false
	}
	ts := s.now()
	b.UpdatedAt = ts
	s.books[bookID] = b

	borrow := library.Borrow{
		ID:        uuid.New(),
		BookID:    bookID,
		Quantity:  quantity,
		DueDate:   dueDate.UTC(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.borrows[borrow.ID] = borrow
	return borrow, nil
}

// BorrowSummary sums borrowed quantities per book and joins titles/isbns,
// ordered by total descending (title ascending on ties for determinism).
func (s *Store) BorrowSummary(_ context.Context) ([]library.BorrowSummary, error) {
	s.mu.RLock()
	totals := make(map[uuid.UUID]int)
	for _, br := range s.borrows {
		totals[br.BookID] += br.Quantity
	}
	out := make([]library.BorrowSummary, 0, len(totals))
	for id, total := range totals {
		b, ok := s.books[id]
		if !ok {
			// Book deleted after borrowing; the join drops the group.
			continue
		}
		out = append(out, library.BorrowSummary{
			Book:          library.BorrowSummaryBook{Title: b.Title, ISBN: b.ISBN},
			TotalQuantity: total,
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].Book.Title < out[j].Book.Title
	})
	return out, nil
}
