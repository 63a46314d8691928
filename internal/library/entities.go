package library

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Genre classifies a book into one of the catalog's fixed categories.
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreScience    Genre = "SCIENCE"
	GenreHistory    Genre = "HISTORY"
	GenreBiography  Genre = "BIOGRAPHY"
	GenreFantasy    Genre = "FANTASY"
)

// Genres returns the full set of accepted genres in declaration order.
func Genres() []Genre {
	return []Genre{GenreFiction, GenreNonFiction, GenreScience, GenreHistory, GenreBiography, GenreFantasy}
}

// Valid reports whether g is one of the accepted genres.
func (g Genre) Valid() bool {
	switch g {
	case GenreFiction, GenreNonFiction, GenreScience, GenreHistory, GenreBiography, GenreFantasy:
		return true
	}
	return false
}

// Book is a catalog entry with stock count and availability flag.
// Copies tracks the remaining available stock; Available flips to false
// when Copies reaches zero and is never re-derived upward (there is no
// return/restock operation).
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       Genre     `json:"genre"`
	ISBN        string    `json:"isbn"`
	Copies      int       `json:"copies"`
	Description string    `json:"description,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookUpdate carries a partial update. Nil fields are left untouched so the
// caller can distinguish "not provided" from "set to the zero value".
type BookUpdate struct {
	Title       *string
	Author      *string
	Genre       *Genre
	ISBN        *string
	Copies      *int
	Description *string
	Available   *bool
}

// BookQuery defines filtering, ordering and limiting for book listings.
// SortBy must already be resolved against the allow-list of sortable fields;
// stores translate it to their own column naming.
type BookQuery struct {
	Genre  Genre
	SortBy string
	Desc   bool
	Limit  int
}

// Borrow records copies lent against a due date. A borrow is written exactly
// once, atomically with the stock decrement on its book, and never mutated.
type Borrow struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book"`
	Quantity  int       `json:"quantity"`
	DueDate   time.Time `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BorrowSummary is one row of the per-book borrowed-quantity aggregation.
type BorrowSummary struct {
	Book          BorrowSummaryBook `json:"book"`
	TotalQuantity int               `json:"totalQuantity"`
}

// BorrowSummaryBook identifies the book a summary row belongs to.
type BorrowSummaryBook struct {
	Title string `json:"title"`
	ISBN  string `json:"isbn"`
}

var (
	isbnPrefixRx = regexp.MustCompile(`^(?i)ISBN(?:-1[03])?:?\s*`)
	isbn10Rx     = regexp.MustCompile(`^\d{9}[\dXx]$`)
	isbn13Rx     = regexp.MustCompile(`^\d{13}$`)
)

// NormalizeISBN strips an optional "ISBN"/"ISBN-10"/"ISBN-13" prefix and all
// hyphens and spaces, leaving only the bare digit sequence.
func NormalizeISBN(s string) string {
	s = isbnPrefixRx.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// ValidISBN reports whether s is a plausible ISBN-10 or ISBN-13, with or
// without hyphens, spaces or an "ISBN" prefix.
func ValidISBN(s string) bool {
	n := NormalizeISBN(s)
	return isbn10Rx.MatchString(n) || isbn13Rx.MatchString(n)
}
