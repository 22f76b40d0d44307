package domain

// Page selects a window of a result set ordered newest first.
// Number is 1-indexed. NewPage caps both fields.
type Page struct {
	Number int
	Size   int
}

// Page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPageNumber keeps Offset well inside int range.
	MaxPageNumber = 1_000_000
)

// NewPage builds a Page from optional query values.
// Nil or non-positive values fall back to page 1 and DefaultPageSize.
func NewPage(number, size *int) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if number != nil && *number >= 1 {
		p.Number = min(*number, MaxPageNumber)
	}
	if size != nil && *size >= 1 {
		p.Size = min(*size, MaxPageSize)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// RatingPage is one page of a user's rating history plus the total row count.
type RatingPage struct {
	Ratings []Rating
	Page    Page
	Total   int64
}
