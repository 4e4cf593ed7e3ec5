package services

import (
	"context"
	"testing"

	"devblog/internal/models"
	"devblog/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentList_Threads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.comments.List(ctx, "1", "", query.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total, "в total только корневые комментарии")
	require.Len(t, res.Items, 2)
	assert.Equal(t, "3", res.Items[0].ID)
	assert.Equal(t, "1", res.Items[1].ID)

	replies := res.Items[1].Replies
	require.Len(t, replies, 1)
	assert.Equal(t, "2", replies[0].ID)
	require.Len(t, replies[0].Replies, 1)
	assert.Equal(t, "4", replies[0].Replies[0].ID)
	assert.NotNil(t, res.Items[0].Replies)

	res, err = f.comments.List(ctx, "1", "popular", query.Page{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "1", res.Items[0].ID)
	assert.True(t, res.HasMore)

	_, err = f.comments.List(ctx, "1", "best", query.Page{Limit: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"newest", "oldest", "popular"}, verr.Options)

	_, err = f.comments.List(ctx, "404", "", query.Page{Limit: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.comments.Create(ctx, models.CreateCommentRequest{
		PostID:   "1",
		Content:  "<b>Nice</b> <script>x()</script>post",
		ParentID: "3",
	}, reader)
	require.NoError(t, err)
	assert.Equal(t, "100", c.Author.UserID)
	assert.Equal(t, "Reader", c.Author.Name)
	assert.NotContains(t, c.Content, "<")

	post, _ := f.store.Posts.Get(ctx, "1")
	assert.Equal(t, 5, post.CommentCount)

	anon, err := f.comments.Create(ctx, models.CreateCommentRequest{
		PostID:  "2",
		Content: "anonymous",
		Author:  models.CommentAuthor{Name: "Guest", UserID: "1"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, anon.Author.UserID, "анонимный автор не может выдать себя за пользователя")
}

func TestCommentCreate_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var verr *ValidationError

	_, err := f.comments.Create(ctx, models.CreateCommentRequest{PostID: "2", Content: "hi", ParentID: "1", Author: models.CommentAuthor{Name: "Tom"}}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "parentId", verr.Field)

	_, err = f.comments.Create(ctx, models.CreateCommentRequest{PostID: "2", Content: "hi"}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "author.name", verr.Field)

	_, err = f.comments.Create(ctx, models.CreateCommentRequest{PostID: "2", Content: "<script></script>", Author: models.CommentAuthor{Name: "Tom"}}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content", verr.Field)

	_, err = f.comments.Create(ctx, models.CreateCommentRequest{PostID: "6", Content: "draft", Author: models.CommentAuthor{Name: "Tom"}}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentDelete_Subtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.comments.Delete(ctx, "1", other)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.comments.Delete(ctx, "3", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	removed, err := f.comments.Delete(ctx, "1", reader)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	post, _ := f.store.Posts.Get(ctx, "1")
	assert.Equal(t, 1, post.CommentCount)

	removed, err = f.comments.Delete(ctx, "3", admin)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = f.comments.Delete(ctx, "3", admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentLikeAndRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.comments.Like(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 1, c.LikeCount)

	_, err = f.comments.Like(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)

	recent := f.comments.Recent(ctx, 2)
	assert.Equal(t, []string{"4", "3"}, ids(recent))
}
