package query

import "context"

// Query is what an Executor runs: a filter, an order and a row window.
// Limit <= 0 means no limit.
type Query struct {
	Where  *Predicate
	Sort   []Order
	Offset int
	Limit  int
}

// Executor runs queries against a backing store. Implementations choose the
// query shape; Count only needs cardinality and may skip joins used for
// display fields.
type Executor[T any] interface {
	Fetch(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, where *Predicate) (int64, error)
}

// Paginate fetches one page of rows matching where.
//
// With optimizeCount the count query is skipped when the fetched page is
// short, since a short page is the last one: on the first page always, and
// on later pages when the page is not empty. Otherwise the count query runs.
// Executor errors are returned as-is.
func Paginate[T any](ctx context.Context, where *Predicate, req PageRequest, exec Executor[T], optimizeCount bool) (*Page[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, err := exec.Fetch(ctx, Query{
		Where:  where,
		Sort:   req.Sort,
		Offset: req.Offset(),
		Limit:  req.Size,
	})
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = []T{}
	}

	page := &Page[T]{
		Content: content,
		Index:   req.Index,
		Size:    req.Size,
		Sort:    req.Sort,
	}

	if optimizeCount {
		if total, ok := inferTotal(req, len(content)); ok {
			page.TotalElements = &total
			return page, nil
		}
	}

	total, err := exec.Count(ctx, where)
	if err != nil {
		return nil, err
	}
	page.TotalElements = &total
	page.Counted = true
	return page, nil
}

// inferTotal derives the total from a short page.
func inferTotal(req PageRequest, n int) (int64, bool) {
	if n >= req.Size {
		return 0, false
	}
	if req.Index == 0 || n > 0 {
		return int64(req.Offset()) + int64(n), true
	}
	// An empty page past the first says nothing about earlier pages.
	return 0, false
}

// FetchSlice fetches one page without a count query. It asks for one extra
// row to learn whether a next page exists.
func FetchSlice[T any](ctx context.Context, where *Predicate, req PageRequest, exec Executor[T]) (*Page[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	limit := req.Size + 1
	if limit <= 0 {
		// Size is already the largest int; no next page can be detected.
		limit = req.Size
	}

	content, err := exec.Fetch(ctx, Query{
		Where:  where,
		Sort:   req.Sort,
		Offset: req.Offset(),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	more := len(content) > req.Size
	if more {
		content = content[:req.Size]
	}
	if content == nil {
		content = []T{}
	}

	return &Page[T]{
		Content: content,
		Index:   req.Index,
		Size:    req.Size,
		Sort:    req.Sort,
		more:    more,
	}, nil
}
