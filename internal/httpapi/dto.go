package httpapi

import (
	"strings"

	"github.com/shelfd/library/internal/library"
)

type createBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre" validate:"required,oneof=FICTION NON_FICTION SCIENCE HISTORY BIOGRAPHY FANTASY"`
	ISBN        string `json:"isbn" validate:"required,isbn"`
	Copies      *int   `json:"copies" validate:"required,min=0"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// normalize trims text fields before validation so whitespace-only input
// fails the required checks.
func (r *createBookRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.Description = strings.TrimSpace(r.Description)
}

func (r createBookRequest) toDomain() library.Book {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return library.Book{
		Title:       r.Title,
		Author:      r.Author,
		Genre:       library.Genre(r.Genre),
		ISBN:        r.ISBN,
		Copies:      *r.Copies,
		Description: r.Description,
		Available:   available,
	}
}

// updateBookRequest mirrors createBookRequest with every field optional.
// Pointers distinguish "not provided" from "set to the zero value".
type updateBookRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Author      *string `json:"author" validate:"omitempty,min=1"`
	Genre       *string `json:"genre" validate:"omitempty,oneof=FICTION NON_FICTION SCIENCE HISTORY BIOGRAPHY FANTASY"`
	ISBN        *string `json:"isbn" validate:"omitempty,isbn"`
	Copies      *int    `json:"copies" validate:"omitempty,min=0"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (r *updateBookRequest) normalize() {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		t := strings.TrimSpace(*p)
		return &t
	}
	r.Title = trim(r.Title)
	r.Author = trim(r.Author)
	r.ISBN = trim(r.ISBN)
	r.Description = trim(r.Description)
}

func (r updateBookRequest) toDomain() library.BookUpdate {
	var genre *library.Genre
	if r.Genre != nil {
		g := library.Genre(*r.Genre)
		genre = &g
	}
	return library.BookUpdate{
		Title:       r.Title,
		Author:      r.Author,
		Genre:       genre,
		ISBN:        r.ISBN,
		Copies:      r.Copies,
		Description: r.Description,
		Available:   r.Available,
	}
}

type borrowRequest struct {
	Book     string `json:"book" validate:"required,uuid"`
	Quantity *int   `json:"quantity" validate:"required,min=1"`
	DueDate  string `json:"dueDate" validate:"required"`
}

// listBooksQuery holds validated query params for GET /api/books.
type listBooksQuery struct {
	Filter string
	SortBy string
	Sort   string
	Limit  int
}
