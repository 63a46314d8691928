// Package loan implements the borrow operation and the borrowed-quantity
// summary. The inventory-consistent critical section itself lives in the
// store's BorrowBook transaction; this layer re-checks the due date at the
// persistence-constraint stage and delegates.
package loan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shelfd/library/internal/errs"
	"github.com/shelfd/library/internal/library"
)

type Repo interface {
	BorrowSummary(ctx context.Context) ([]library.BorrowSummary, error)
}

type Writer interface {
	BorrowBook(ctx context.Context, bookID uuid.UUID, quantity int, dueDate time.Time) (library.Borrow, error)
}

type Service interface {
	Borrow(ctx context.Context, bookID uuid.UUID, quantity int, dueDate time.Time) (library.Borrow, error)
	Summary(ctx context.Context) ([]library.BorrowSummary, error)
}

type service struct {
	repo   Repo
	writer Writer
	now    func() time.Time
}

func New(repo Repo, writer Writer) Service {
	return &service{repo: repo, writer: writer, now: time.Now}
}

// Borrow checks the due date against wall-clock now a second time (input
// validation already did; the two reads of the clock may disagree, which is
// accepted) and runs the store transaction.
func (s *service) Borrow(ctx context.Context, bookID uuid.UUID, quantity int, dueDate time.Time) (library.Borrow, error) {
	if !dueDate.After(s.now()) {
		return library.Borrow{}, errs.ErrPastDueDate
	}
	return s.writer.BorrowBook(ctx, bookID, quantity, dueDate)
}

func (s *service) Summary(ctx context.Context) ([]library.BorrowSummary, error) {
	return s.repo.BorrowSummary(ctx)
}
