package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devblog/internal/query"
)

func TestSearch_RelevanceScores(t *testing.T) {
	f := newFixture(t)

	res, err := f.search.Search(context.Background(), SearchParams{Q: "React Hooks", Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, SearchRelevance, res.Sort)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "1", res.Items[0].ID)
	// react: 10+5+3+8, hooks: 10+5+3
	assert.Equal(t, 44, res.Items[0].Score)
}

func TestSearch_TitleMatchOutranksTagMatch(t *testing.T) {
	f := newFixture(t)

	res, err := f.search.Search(context.Background(), SearchParams{Q: "react", Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "1", res.Items[0].ID)
	assert.Equal(t, "8", res.Items[1].ID)
	assert.Greater(t, res.Items[0].Score, res.Items[1].Score)
}

func TestSearch_TagsAnyOfAndDateSort(t *testing.T) {
	f := newFixture(t)

	res, err := f.search.Search(context.Background(), SearchParams{Tags: []string{"go", "css"}, Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, SearchDateDesc, res.Sort)
	var got []string
	for _, h := range res.Items {
		got = append(got, h.ID)
	}
	// запланированный пост 7 с тегом Go не попадает
	assert.Equal(t, []string{"2", "4"}, got)

	res, err = f.search.Search(context.Background(), SearchParams{Tags: []string{"go", "css"}, Sort: SearchDateAsc, Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, "4", res.Items[0].ID)
}

func TestSearch_FacetsCoverPublishedSet(t *testing.T) {
	f := newFixture(t)

	res, err := f.search.Search(context.Background(), SearchParams{Q: "docker", Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	require.NotEmpty(t, res.Facets.Tags)
	assert.Equal(t, "JavaScript", res.Facets.Tags[0].Name)
	assert.Equal(t, 2, res.Facets.Tags[0].Count)
	require.NotEmpty(t, res.Facets.Authors)
	assert.Equal(t, "Jane Developer", res.Facets.Authors[0].Name)
	assert.Equal(t, 3, res.Facets.Authors[0].Count)
	assert.Len(t, res.Facets.Categories, 4)
}

func TestSearch_InvalidSort(t *testing.T) {
	f := newFixture(t)

	_, err := f.search.Search(context.Background(), SearchParams{Sort: "score"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"date_desc", "date_asc", "relevance"}, verr.Options)
}
