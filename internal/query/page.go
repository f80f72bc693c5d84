package query

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidPageRequest is returned before any query runs when the paging
// parameters cannot describe a page window.
var ErrInvalidPageRequest = errors.New("invalid page request")

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts "asc"/"desc" in any case. Empty means Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidPageRequest, s)
}

// Order sorts by a single property.
type Order struct {
	Property  string    `json:"property"`
	Direction Direction `json:"direction"`
}

// PageRequest selects a window of a result set. Index is zero-based.
type PageRequest struct {
	Index int
	Size  int
	Sort  []Order
}

// NewPageRequest builds a request; validation happens in Validate.
func NewPageRequest(index, size int, sort ...Order) PageRequest {
	return PageRequest{Index: index, Size: size, Sort: sort}
}

// Validate rejects negative indexes, non-positive sizes and malformed orders.
func (r PageRequest) Validate() error {
	if r.Index < 0 {
		return fmt.Errorf("%w: page index must not be negative, got %d", ErrInvalidPageRequest, r.Index)
	}
	if r.Size <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidPageRequest, r.Size)
	}
	if r.Index > (math.MaxInt-r.Size)/r.Size {
		return fmt.Errorf("%w: page index %d overflows offset", ErrInvalidPageRequest, r.Index)
	}
	for _, o := range r.Sort {
		if strings.TrimSpace(o.Property) == "" {
			return fmt.Errorf("%w: empty sort property", ErrInvalidPageRequest)
		}
		if o.Direction != Asc && o.Direction != Desc {
			return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidPageRequest, o.Direction)
		}
	}
	return nil
}

// Offset is the number of rows before the page.
func (r PageRequest) Offset() int {
	return r.Index * r.Size
}

// Next returns the request for the following page.
func (r PageRequest) Next() PageRequest {
	r.Index++
	return r
}

// Page is one window of a result set. TotalElements is nil when the total
// is unknown (slice paging).
type Page[T any] struct {
	Content       []T
	TotalElements *int64
	Index         int
	Size          int
	Sort          []Order
	// Counted reports whether a count query ran to produce TotalElements.
	Counted bool

	more bool
}

// NumberOfElements is len(Content).
func (p *Page[T]) NumberOfElements() int {
	return len(p.Content)
}

// TotalPages is 0 when the total is unknown.
func (p *Page[T]) TotalPages() int {
	if p.TotalElements == nil || p.Size <= 0 {
		return 0
	}
	total := *p.TotalElements
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// HasNext reports whether a following page has rows.
func (p *Page[T]) HasNext() bool {
	if p.TotalElements == nil {
		return p.more
	}
	return int64(p.Index+1)*int64(p.Size) < *p.TotalElements
}

func (p *Page[T]) HasPrevious() bool {
	return p.Index > 0
}

func (p *Page[T]) IsFirst() bool {
	return !p.HasPrevious()
}

func (p *Page[T]) IsLast() bool {
	return !p.HasNext()
}

// MapPage converts page content, keeping the paging metadata.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := &Page[U]{
		Content:       make([]U, len(p.Content)),
		TotalElements: p.TotalElements,
		Index:         p.Index,
		Size:          p.Size,
		Sort:          p.Sort,
		Counted:       p.Counted,
		more:          p.more,
	}
	for i, v := range p.Content {
		out.Content[i] = fn(v)
	}
	return out
}
