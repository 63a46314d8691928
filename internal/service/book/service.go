// Package book implements the catalog rules: field normalization on create,
// partial updates, and the sort-key allow-list for listings.
package book

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shelfd/library/internal/library"
)

// Defaults and bounds for listings.
const (
	DefaultSortBy = "createdAt"
	DefaultLimit  = 10
	MaxLimit      = 100
)

type Repo interface {
	ListBooks(ctx context.Context, q library.BookQuery) ([]library.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (library.Book, error)
}

type Writer interface {
	CreateBook(ctx context.Context, b library.Book) (library.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, upd library.BookUpdate) (library.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	Create(ctx context.Context, b library.Book) (library.Book, error)
	List(ctx context.Context, in ListInput) ([]library.Book, error)
	Get(ctx context.Context, id uuid.UUID) (library.Book, error)
	Update(ctx context.Context, id uuid.UUID, upd library.BookUpdate) (library.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ListInput carries the raw listing parameters from the query string before
// defaults and the allow-list are applied.
type ListInput struct {
	Genre  string
	SortBy string
	Order  string
	Limit  int
}

// sortable is the allow-list of caller-suppliable sort keys. Anything else
// falls back to DefaultSortBy rather than reaching the store.
var sortable = map[string]struct{}{
	"createdAt": {},
	"updatedAt": {},
	"title":     {},
	"author":    {},
	"isbn":      {},
	"copies":    {},
}

// Create assigns the id, trims text fields, and persists the book.
// Available is forced off when the initial stock is zero so the
// copies/available invariant holds from the start.
func (s *service) Create(ctx context.Context, b library.Book) (library.Book, error) {
	b.ID = uuid.New()
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.ISBN = strings.TrimSpace(b.ISBN)
	b.Description = strings.TrimSpace(b.Description)
	if b.Copies == 0 {
		b.Available = false
	}
	return s.writer.CreateBook(ctx, b)
}

// List applies defaults and the sort allow-list, then queries the store.
func (s *service) List(ctx context.Context, in ListInput) ([]library.Book, error) {
	sortBy := in.SortBy
	if _, ok := sortable[sortBy]; !ok {
		sortBy = DefaultSortBy
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	q := library.BookQuery{
		Genre:  library.Genre(in.Genre),
		SortBy: sortBy,
		Desc:   strings.EqualFold(in.Order, "desc"),
		Limit:  limit,
	}
	return s.repo.ListBooks(ctx, q)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (library.Book, error) {
	return s.repo.GetBook(ctx, id)
}

// Update trims supplied text fields and applies the partial update. The
// store's own constraints still run against the merged row.
func (s *service) Update(ctx context.Context, id uuid.UUID, upd library.BookUpdate) (library.Book, error) {
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		upd.Title = &t
	}
	if upd.Author != nil {
		a := strings.TrimSpace(*upd.Author)
		upd.Author = &a
	}
	if upd.ISBN != nil {
		i := strings.TrimSpace(*upd.ISBN)
		upd.ISBN = &i
	}
	if upd.Description != nil {
		d := strings.TrimSpace(*upd.Description)
		upd.Description = &d
	}
	return s.writer.UpdateBook(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.writer.DeleteBook(ctx, id)
}
