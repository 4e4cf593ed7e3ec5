package query

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string
	Title string
	At    time.Time
	Views int
}

var itemKeys = SortKeys[item]{
	Date:       func(i item) time.Time { return i.At },
	Title:      func(i item) string { return i.Title },
	Popularity: func(i item) float64 { return float64(i.Views) },
}

func fixture() []item {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []item{
		{ID: "a", Title: "Bravo", At: base, Views: 10},
		{ID: "b", Title: "alpha", At: base.Add(2 * time.Hour), Views: 50},
		{ID: "c", Title: "Charlie", At: base, Views: 10},
		{ID: "d", Title: "delta", At: base.Add(-time.Hour), Views: 5},
		{ID: "e", Title: "Echo", At: base.Add(time.Hour), Views: 70},
	}
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestPaginateBounds(t *testing.T) {
	items := fixture()

	tests := []struct {
		name      string
		page      Page
		wantLen   int
		wantMore  bool
		wantFirst string
	}{
		{name: "first page", page: Page{Limit: 2, Offset: 0}, wantLen: 2, wantMore: true, wantFirst: "a"},
		{name: "last partial page", page: Page{Limit: 2, Offset: 4}, wantLen: 1, wantMore: false, wantFirst: "e"},
		{name: "exact end", page: Page{Limit: 5, Offset: 0}, wantLen: 5, wantMore: false, wantFirst: "a"},
		{name: "offset past end", page: Page{Limit: 10, Offset: 99}, wantLen: 0, wantMore: false},
		{name: "negative values clamp", page: Page{Limit: -3, Offset: -1}, wantLen: 0, wantMore: true},
		{name: "max offset", page: Page{Limit: 10, Offset: math.MaxInt}, wantLen: 0, wantMore: false},
		{name: "max limit", page: Page{Limit: math.MaxInt, Offset: 1}, wantLen: 4, wantMore: false, wantFirst: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Paginate(items, tt.page)
			assert.Equal(t, 5, res.Total)
			assert.Len(t, res.Items, tt.wantLen)
			assert.NotNil(t, res.Items)
			assert.Equal(t, tt.wantMore, res.HasMore)

			p := tt.page.Clamp()
			assert.LessOrEqual(t, len(res.Items), p.Limit)
			// offset+limit < total без переполнения int
			assert.Equal(t, p.Offset < res.Total && p.Limit < res.Total-p.Offset, res.HasMore)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, res.Items[0].ID)
			}
		})
	}
}

func TestApplyFiltersAndSorts(t *testing.T) {
	items := fixture()
	popularOnly := func(i item) bool { return i.Views >= 10 }

	res, err := Apply(items, Options[item]{
		Filters: []Predicate[item]{popularOnly},
		Sort:    SortPopular,
		Keys:    itemKeys,
		Page:    Page{Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, []string{"e", "b", "a", "c"}, ids(res.Items))

	// input order is untouched
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(items))
}

func TestApplyTitleIsCaseInsensitive(t *testing.T) {
	res, err := Apply(fixture(), Options[item]{Sort: SortTitle, Keys: itemKeys, Page: Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d", "e"}, ids(res.Items))
}

func TestApplyLatestIsStable(t *testing.T) {
	items := fixture()
	var first []string
	for i := 0; i < 20; i++ {
		res, err := Apply(items, Options[item]{Sort: SortLatest, Keys: itemKeys, Page: Page{Limit: 10}})
		require.NoError(t, err)
		if first == nil {
			first = ids(res.Items)
			continue
		}
		assert.Equal(t, first, ids(res.Items))
	}
	// a and c share a timestamp and keep collection order
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, first)
}

func TestApplyOldest(t *testing.T) {
	res, err := Apply(fixture(), Options[item]{Sort: SortOldest, Keys: itemKeys, Page: Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "c", "e", "b"}, ids(res.Items))
}

func TestApplyInvalidSort(t *testing.T) {
	_, err := Apply(fixture(), Options[item]{Sort: "random", Keys: itemKeys, Page: Page{Limit: 10}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "latest, oldest, title, popular")

	noPopularity := SortKeys[item]{Date: itemKeys.Date}
	_, err = Apply(fixture(), Options[item]{Sort: SortPopular, Keys: noPopularity})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
