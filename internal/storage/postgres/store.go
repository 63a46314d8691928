package postgres

// Package postgres provides a pgx-backed storage implementation that satisfies
// the repository and writer interfaces used by the HTTP/API and services.
//
// It is intentionally small and explicit. Migrations that create the expected
// schema live under db/migrations. This package focuses on mapping between the
// domain entities and SQL rows and running the necessary statements and the
// borrow transaction.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfd/library/internal/errs"
	"github.com/shelfd/library/internal/library"
)

// Store holds a pgx connection pool and implements the read/write interfaces
// used across the service layer. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

const bookColumns = `id, title, author, genre, isbn, copies, description, available, created_at, updated_at`

// sortColumn resolves an API sort key to its column. Keys are already checked
// against the allow-list in the book service; anything else still falls back
// to created_at so no caller-supplied string ever reaches the query text.
func sortColumn(key string) string {
	switch key {
	case "title":
		return "title"
	case "author":
		return "author"
	case "isbn":
		return "isbn"
	case "copies":
		return "copies"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

// --- Book reads ---

// ListBooks returns books matching the query's genre filter, ordered by its
// sort key and capped at its limit.
func (s *Store) ListBooks(ctx context.Context, q library.BookQuery) ([]library.Book, error) {
	dir := "asc"
	if q.Desc {
		dir = "desc"
	}
	sql := fmt.Sprintf(`
        select %s
        from books
        where ($1 = '' or genre = $1)
        order by %s %s
        limit $2
    `, bookColumns, sortColumn(q.SortBy), dir)
	rows, err := s.pool.Query(ctx, sql, string(q.Genre), q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]library.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBook fetches a single book by id.
func (s *Store) GetBook(ctx context.Context, id uuid.UUID) (library.Book, error) {
	row := s.pool.QueryRow(ctx, `
        select `+bookColumns+`
        from books
        where id = $1
    `, id)
	b, err := scanBook(row)
	if err != nil {
		return library.Book{}, mapError(err)
	}
	return b, nil
}

// --- Book writes ---

// CreateBook inserts a book row and reads back the generated timestamps.
func (s *Store) CreateBook(ctx context.Context, b library.Book) (library.Book, error) {
	err := s.pool.QueryRow(ctx, `
        insert into books (id, title, author, genre, isbn, copies, description, available)
        values ($1,$2,$3,$4,$5,$6,$7,$8)
        returning created_at, updated_at
    `, b.ID, b.Title, b.Author, string(b.Genre), b.ISBN, b.Copies, b.Description, b.Available).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return library.Book{}, mapError(err)
	}
	return b, nil
}

// UpdateBook applies a partial update; nil fields keep their stored value.
// The merged row still runs through the table constraints (unique isbn,
// copies >= 0).
func (s *Store) UpdateBook(ctx context.Context, id uuid.UUID, upd library.BookUpdate) (library.Book, error) {
	var genre *string
	if upd.Genre != nil {
		g := string(*upd.Genre)
		genre = &g
	}
	row := s.pool.QueryRow(ctx, `
        update books
        set title       = coalesce($2, title),
            author      = coalesce($3, author),
            genre       = coalesce($4, genre),
            isbn        = coalesce($5, isbn),
            copies      = coalesce($6, copies),
            description = coalesce($7, description),
            available   = coalesce($8, available),
            updated_at  = now()
        where id = $1
        returning `+bookColumns+`
    `, id, upd.Title, upd.Author, genre, upd.ISBN, upd.Copies, upd.Description, upd.Available)
	b, err := scanBook(row)
	if err != nil {
		return library.Book{}, mapError(err)
	}
	return b, nil
}

// DeleteBook removes a book row by id.
func (s *Store) DeleteBook(ctx context.Context, id uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from books where id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Borrow ---

// BorrowBook runs the borrow transaction: lock the book row, check the
// availability flag and stock, decrement copies (flipping available off at
// zero), and insert the borrow record. The deferred rollback is a no-op after
// commit, so the transaction is released on every exit path.
func (s *Store) BorrowBook(ctx context.Context, bookID uuid.UUID, quantity int, dueDate time.Time) (library.Borrow, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return library.Borrow{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var copies int
	var available bool
	err = tx.QueryRow(ctx, `
        select copies, available
        from books
        where id = $1
        for update
    `, bookID).Scan(&copies, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return library.Borrow{}, errs.ErrNotFound
	}
	if err != nil {
		return library.Borrow{}, err
	}
	if !available {
		return library.Borrow{}, errs.ErrBookUnavailable
	}
	if copies < quantity {
		return library.Borrow{}, &errs.InsufficientStockError{Available: copies}
	}

	remaining := copies - quantity
	if _, err := tx.Exec(ctx, `
        update books
        set copies = $2, available = $3, updated_at = now()
        where id = $1
    `, bookID, remaining, remaining > 0); err != nil {
		return library.Borrow{}, err
	}

	borrow := library.Borrow{ID: uuid.New(), BookID: bookID, Quantity: quantity, DueDate: dueDate.UTC()}
	err = tx.QueryRow(ctx, `
        insert into borrows (id, book_id, quantity, due_date)
        values ($1,$2,$3,$4)
        returning created_at, updated_at
    `, borrow.ID, borrow.BookID, borrow.Quantity, borrow.DueDate).
		Scan(&borrow.CreatedAt, &borrow.UpdatedAt)
	if err != nil {
		return library.Borrow{}, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return library.Borrow{}, err
	}
	return borrow, nil
}

// BorrowSummary groups borrows by book, sums quantities, and joins each group
// back to its book for title and isbn, ordered by total descending.
func (s *Store) BorrowSummary(ctx context.Context) ([]library.BorrowSummary, error) {
	rows, err := s.pool.Query(ctx, `
        select b.title, b.isbn, sum(br.quantity)::bigint as total
        from borrows br
        join books b on b.id = br.book_id
        group by b.id, b.title, b.isbn
        order by total desc, b.title asc
    `)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDatabase, err)
	}
	defer rows.Close()
	out := make([]library.BorrowSummary, 0)
	for rows.Next() {
		var row library.BorrowSummary
		var total int64
		if err := rows.Scan(&row.Book.Title, &row.Book.ISBN, &total); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrDatabase, err)
		}
		row.TotalQuantity = int(total)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDatabase, err)
	}
	return out, nil
}

// SeedDev inserts a handful of books for quick local testing. Re-runs are
// no-ops because inserts skip isbns that already exist.
func (s *Store) SeedDev(ctx context.Context) ([]library.Book, error) {
	books := []library.Book{
		{ID: uuid.New(), Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Genre: library.GenreNonFiction, ISBN: "9780135957059", Copies: 5, Available: true},
		{ID: uuid.New(), Title: "Dune", Author: "Frank Herbert", Genre: library.GenreFiction, ISBN: "9780441172719", Copies: 3, Available: true},
		{ID: uuid.New(), Title: "A Brief History of Time", Author: "Stephen Hawking", Genre: library.GenreScience, ISBN: "9780553380163", Copies: 2, Available: true},
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	for _, b := range books {
		if _, err := tx.Exec(ctx, `
            insert into books (id, title, author, genre, isbn, copies, description, available)
            values ($1,$2,$3,$4,$5,$6,$7,$8)
            on conflict (isbn) do nothing
        `, b.ID, b.Title, b.Author, string(b.Genre), b.ISBN, b.Copies, b.Description, b.Available); err != nil {
			return nil, mapError(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return books, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (library.Book, error) {
	var b library.Book
	var genre string
	err := row.Scan(&b.ID, &b.Title, &b.Author, &genre, &b.ISBN, &b.Copies, &b.Description, &b.Available, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return library.Book{}, err
	}
	b.Genre = library.Genre(genre)
	return b, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return errs.ErrDuplicateISBN
		case "23503": // foreign_key_violation
			return errs.ErrNotFound
		}
	}
	return err
}
