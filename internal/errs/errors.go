package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	// ErrDuplicateISBN indicates a write rejected by the unique ISBN constraint.
	ErrDuplicateISBN = errors.New("duplicate_isbn")
	// ErrBookUnavailable indicates the book's availability flag is off.
	ErrBookUnavailable = errors.New("book_unavailable")
	// ErrPastDueDate indicates a borrow due date that is not in the future.
	ErrPastDueDate = errors.New("past_due_date")
	// ErrDatabase marks recognized database-level query failures.
	ErrDatabase = errors.New("database_error")
)

// InsufficientStockError is returned when a borrow asks for more copies than
// the book has left. Available carries the remaining stock at check time.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: %d copies remaining", e.Available)
}
