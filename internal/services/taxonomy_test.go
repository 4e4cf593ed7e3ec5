package services

import (
	"context"
	"testing"

	"devblog/internal/models"
	"devblog/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_CountsIncludeDescendants(t *testing.T) {
	f := newFixture(t)

	counts := map[string]int{}
	for _, c := range f.taxonomy.ListCategories(context.Background()) {
		counts[c.Slug] = c.PostCount
	}
	assert.Equal(t, map[string]int{
		"web-development": 5,
		"frontend":        4,
		"backend":         1,
		"react":           2,
		"devops":          1,
		"databases":       0,
	}, counts)
}

func TestCategoryTree(t *testing.T) {
	f := newFixture(t)

	tree := f.taxonomy.CategoryTree(context.Background())
	require.Len(t, tree, 2)
	assert.Equal(t, "web-development", tree[0].Slug)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "frontend", tree[0].Children[0].Slug)
	assert.Equal(t, "react", tree[0].Children[0].Children[0].Slug)
	assert.Equal(t, "databases", tree[0].Children[1].Children[0].Slug)
	assert.Empty(t, tree[1].Children)
}

func TestGetCategory(t *testing.T) {
	f := newFixture(t)

	c, err := f.taxonomy.GetCategory(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, c.DescendantIDs)

	_, err = f.taxonomy.GetCategory(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var verr *ValidationError

	_, err := f.taxonomy.CreateCategory(ctx, models.CategoryRequest{Name: "FRONTEND"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.taxonomy.CreateCategory(ctx, models.CategoryRequest{Name: "Mobile", ParentID: "404"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "parentId", verr.Field)

	_, err = f.taxonomy.UpdateCategory(ctx, "1", models.CategoryRequest{Name: "Web Development", ParentID: "4"})
	require.ErrorAs(t, err, &verr, "категория не может стать потомком самой себя")
	_, err = f.taxonomy.UpdateCategory(ctx, "2", models.CategoryRequest{Name: "Frontend", ParentID: "2"})
	require.ErrorAs(t, err, &verr)

	mobile, err := f.taxonomy.CreateCategory(ctx, models.CategoryRequest{Name: "Mobile", ParentID: "2"})
	require.NoError(t, err)
	assert.Equal(t, "mobile", mobile.Slug)

	moved, err := f.taxonomy.UpdateCategory(ctx, mobile.ID, models.CategoryRequest{Name: "Mobile Apps", ParentID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "mobile-apps", moved.Slug)
	assert.Equal(t, "1", moved.ParentID)

	assert.ErrorIs(t, f.taxonomy.DeleteCategory(ctx, "6"), ErrConflict)
	assert.ErrorIs(t, f.taxonomy.DeleteCategory(ctx, "1"), ErrConflict)
	assert.ErrorIs(t, f.taxonomy.DeleteCategory(ctx, "404"), ErrNotFound)
	require.NoError(t, f.taxonomy.DeleteCategory(ctx, mobile.ID))
}

func TestTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	popular, err := f.taxonomy.ListTags(ctx, "popular", query.Page{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "4"}, ids(popular.Items))
	assert.True(t, popular.HasMore)

	byName, err := f.taxonomy.ListTags(ctx, "", query.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "CSS", byName.Items[0].Name)
	assert.Equal(t, "Docker", byName.Items[1].Name)

	_, err = f.taxonomy.ListTags(ctx, "latest", query.Page{Limit: 2})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	tag, err := f.taxonomy.GetTag(ctx, "typescript")
	require.NoError(t, err)
	assert.Equal(t, 1, tag.PostCount)

	_, err = f.taxonomy.CreateTag(ctx, models.TagRequest{Name: "react"})
	assert.ErrorIs(t, err, ErrConflict)

	rust, err := f.taxonomy.CreateTag(ctx, models.TagRequest{Name: "Rust"})
	require.NoError(t, err)
	assert.ErrorIs(t, f.taxonomy.DeleteTag(ctx, "1"), ErrConflict)
	require.NoError(t, f.taxonomy.DeleteTag(ctx, rust.ID))
	assert.ErrorIs(t, f.taxonomy.DeleteTag(ctx, rust.ID), ErrNotFound)
}
