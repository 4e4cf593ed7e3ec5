package query

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// SortKey names an ordering understood by SortKeys.
type SortKey string

const (
	SortLatest  SortKey = "latest"
	SortOldest  SortKey = "oldest"
	SortTitle   SortKey = "title"
	SortPopular SortKey = "popular"
)

// SortKeys maps an entity to the fields the generic sort keys read.
// A nil accessor means the entity does not support that key.
type SortKeys[T any] struct {
	Date       func(T) time.Time
	Title      func(T) string
	Popularity func(T) float64
}

// Comparator returns the comparison function for key, or ErrInvalidArgument
// when the entity has no field backing it.
func (k SortKeys[T]) Comparator(key SortKey) (func(a, b T) int, error) {
	switch {
	case key == SortLatest && k.Date != nil:
		return func(a, b T) int { return k.Date(b).Compare(k.Date(a)) }, nil
	case key == SortOldest && k.Date != nil:
		return func(a, b T) int { return k.Date(a).Compare(k.Date(b)) }, nil
	case key == SortTitle && k.Title != nil:
		return func(a, b T) int {
			return strings.Compare(strings.ToLower(k.Title(a)), strings.ToLower(k.Title(b)))
		}, nil
	case key == SortPopular && k.Popularity != nil:
		return func(a, b T) int { return cmp.Compare(k.Popularity(b), k.Popularity(a)) }, nil
	}
	return nil, fmt.Errorf("%w: unsupported sort %q, valid options: %s",
		ErrInvalidArgument, key, strings.Join(k.Supported(), ", "))
}

// Supported lists the keys this entity can be sorted by.
func (k SortKeys[T]) Supported() []string {
	var out []string
	if k.Date != nil {
		out = append(out, string(SortLatest), string(SortOldest))
	}
	if k.Title != nil {
		out = append(out, string(SortTitle))
	}
	if k.Popularity != nil {
		out = append(out, string(SortPopular))
	}
	return out
}
