package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// DefaultPageSize is used when a list request does not carry a size.
const DefaultPageSize = 50

// OffsetParams carries the from/size query parameters used by list endpoints.
// From is a zero-based row offset; Size is the number of rows per page.
type OffsetParams struct {
	From *int `form:"from" binding:"omitempty,min=0"`
	Size *int `form:"size" binding:"omitempty,min=1"`
}

// Page converts the offset parameters into a zero-based page.
// Size is capped at maxSize when maxSize is positive.
func (p OffsetParams) Page(maxSize int) Page {
	from := 0
	if p.From != nil {
		from = *p.From
	}
	size := DefaultPageSize
	if p.Size != nil {
		size = *p.Size
	}
	return NewPage(from, size, maxSize)
}

// Page is a resolved page window: Index is zero-based, Offset is Index*Size.
type Page struct {
	Index int
	Size  int
}

// NewPage builds a page from a row offset, aligning the offset down to a page boundary.
func NewPage(from, size, maxSize int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if from < 0 {
		from = 0
	}
	return Page{Index: from / size, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return p.Index * p.Size
}
