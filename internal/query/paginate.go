// Package query holds the read-side utilities shared by every list endpoint:
// predicate filtering, stable sorting, offset/limit pagination, relevance
// scoring for free-text search and time bucketing for analytics.
//
// Everything here is pure: inputs are never mutated and nothing is logged.
package query

import (
	"errors"
	"slices"
)

// ErrInvalidArgument is returned for an unsupported sort key.
var ErrInvalidArgument = errors.New("invalid argument")

// Page is an offset/limit window. Negative values are clamped to zero.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Result is one page of a filtered, sorted collection.
type Result[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// Predicate reports whether an item stays in the result.
type Predicate[T any] func(T) bool

// Options describes a complete list query.
type Options[T any] struct {
	Filters []Predicate[T]
	Sort    SortKey // empty keeps collection order
	Keys    SortKeys[T]
	Page    Page
}

// Apply filters, sorts and paginates items. The input slice is left untouched;
// sorting is stable, so equal keys keep collection order.
func Apply[T any](items []T, opts Options[T]) (Result[T], error) {
	filtered := Filter(items, opts.Filters...)

	if opts.Sort != "" {
		cmp, err := opts.Keys.Comparator(opts.Sort)
		if err != nil {
			return Result[T]{}, err
		}
		slices.SortStableFunc(filtered, cmp)
	}

	return Paginate(filtered, opts.Page), nil
}

// Filter returns a new slice with the items that satisfy every predicate.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if p != nil && !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// Paginate slices items to the page window. An offset past the end yields an
// empty (non-nil) item list with the full total.
func Paginate[T any](items []T, p Page) Result[T] {
	p = p.Clamp()
	total := len(items)

	res := Result[T]{
		Items:   []T{},
		Total:   total,
		HasMore: p.Offset < total && p.Limit < total-p.Offset,
	}
	if p.Offset >= total || p.Limit == 0 {
		return res
	}

	end := total
	if p.Limit < total-p.Offset {
		end = p.Offset + p.Limit
	}
	res.Items = slices.Clone(items[p.Offset:end])
	return res
}

// Clamp replaces negative limit/offset with zero.
func (p Page) Clamp() Page {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
