package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shelfd/library/internal/errs"
	"github.com/shelfd/library/internal/library"
)

func newBook(title, isbn string, copies int) library.Book {
	return library.Book{
		ID:        uuid.New(),
		Title:     title,
		Author:    "Author",
		Genre:     library.GenreFiction,
		ISBN:      isbn,
		Copies:    copies,
		Available: copies > 0,
	}
}

func TestCreateBook_UniqueISBN(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.CreateBook(ctx, newBook("A", "9780134190440", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not stamped: %+v", a)
	}

	_, err = s.CreateBook(ctx, newBook("B", "9780134190440", 1))
	if !errors.Is(err, errs.ErrDuplicateISBN) {
		t.Fatalf("expected ErrDuplicateISBN, got %v", err)
	}
}

func TestUpdateBook_PartialAndReindex(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, _ := s.CreateBook(ctx, newBook("A", "9780134190440", 3))
	b, _ := s.CreateBook(ctx, newBook("B", "9780441172719", 1))

	desc := "updated"
	got, err := s.UpdateBook(ctx, a.ID, library.BookUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description != "updated" || got.Title != "A" || got.Copies != 3 {
		t.Fatalf("partial update wrong: %+v", got)
	}

	// Taking b's isbn must fail, a's index entry must survive.
	taken := b.ISBN
	if _, err := s.UpdateBook(ctx, a.ID, library.BookUpdate{ISBN: &taken}); !errors.Is(err, errs.ErrDuplicateISBN) {
		t.Fatalf("expected ErrDuplicateISBN, got %v", err)
	}

	// Moving to a fresh isbn frees the old one for reuse.
	fresh := "9780517884416"
	if _, err := s.UpdateBook(ctx, a.ID, library.BookUpdate{ISBN: &fresh}); err != nil {
		t.Fatalf("reindex update: %v", err)
	}
	if _, err := s.CreateBook(ctx, newBook("C", "9780134190440", 1)); err != nil {
		t.Fatalf("old isbn should be reusable: %v", err)
	}

	if _, err := s.UpdateBook(ctx, uuid.New(), library.BookUpdate{Description: &desc}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBook(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, _ := s.CreateBook(ctx, newBook("A", "9780134190440", 1))

	if err := s.DeleteBook(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteBook(ctx, a.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetBook(ctx, a.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// The isbn is released with the book.
	if _, err := s.CreateBook(ctx, newBook("A2", "9780134190440", 1)); err != nil {
		t.Fatalf("isbn should be free after delete: %v", err)
	}
}

func TestListBooks_SortAndFilter(t *testing.T) {
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	ctx := context.Background()

	mk := func(title string, genre library.Genre, copies int, created time.Time) {
		b := newBook(title, "isbn-"+title, copies)
		b.Genre = genre
		b.CreatedAt = created
		b.UpdatedAt = created
		s.SeedBook(b)
	}
	mk("Cosmos", library.GenreScience, 5, base)
	mk("Dune", library.GenreFantasy, 2, base.Add(time.Hour))
	mk("Relativity", library.GenreScience, 1, base.Add(2*time.Hour))

	got, err := s.ListBooks(ctx, library.BookQuery{SortBy: "createdAt", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].Title != "Cosmos" || got[2].Title != "Relativity" {
		t.Fatalf("createdAt asc: %+v", got)
	}

	got, _ = s.ListBooks(ctx, library.BookQuery{SortBy: "copies", Desc: true, Limit: 10})
	if got[0].Title != "Cosmos" || got[2].Title != "Relativity" {
		t.Fatalf("copies desc: %+v", got)
	}

	got, _ = s.ListBooks(ctx, library.BookQuery{Genre: library.GenreScience, SortBy: "title", Limit: 10})
	if len(got) != 2 || got[0].Title != "Cosmos" || got[1].Title != "Relativity" {
		t.Fatalf("genre filter: %+v", got)
	}

	got, _ = s.ListBooks(ctx, library.BookQuery{SortBy: "createdAt", Limit: 2})
	if len(got) != 2 {
		t.Fatalf("limit: %+v", got)
	}
}

func TestBorrowBook_StockRules(t *testing.T) {
	s := New()
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour)
	a, _ := s.CreateBook(ctx, newBook("A", "9780134190440", 2))

	if _, err := s.BorrowBook(ctx, uuid.New(), 1, due); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var stock *errs.InsufficientStockError
	_, err := s.BorrowBook(ctx, a.ID, 3, due)
	if !errors.As(err, &stock) || stock.Available != 2 {
		t.Fatalf("expected insufficient stock with 2 available, got %v", err)
	}

	br, err := s.BorrowBook(ctx, a.ID, 2, due)
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if br.BookID != a.ID || br.Quantity != 2 {
		t.Fatalf("unexpected borrow: %+v", br)
	}
	got, _ := s.GetBook(ctx, a.ID)
	if got.Copies != 0 || got.Available {
		t.Fatalf("expected depleted and unavailable, got %+v", got)
	}

	if _, err := s.BorrowBook(ctx, a.ID, 1, due); !errors.Is(err, errs.ErrBookUnavailable) {
		t.Fatalf("expected ErrBookUnavailable, got %v", err)
	}
}

func TestBorrowSummary_AggregatesAndOrders(t *testing.T) {
	s := New()
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour)
	a, _ := s.CreateBook(ctx, newBook("Cosmos", "9780345331359", 10))
	b, _ := s.CreateBook(ctx, newBook("Dune", "9780441172719", 10))
	c, _ := s.CreateBook(ctx, newBook("Gone", "9780517884416", 10))

	for _, in := range []struct {
		id  uuid.UUID
		qty int
	}{{a.ID, 2}, {b.ID, 1}, {a.ID, 3}, {c.ID, 4}} {
		if _, err := s.BorrowBook(ctx, in.id, in.qty, due); err != nil {
			t.Fatalf("borrow: %v", err)
		}
	}
	// Groups for deleted books are dropped from the join.
	if err := s.DeleteBook(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, err := s.BorrowSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	if rows[0].Book.Title != "Cosmos" || rows[0].TotalQuantity != 5 {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1].Book.Title != "Dune" || rows[1].TotalQuantity != 1 {
		t.Fatalf("row 1: %+v", rows[1])
	}
}
