package repository

import (
	"context"
	"testing"
	"time"

	"devblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLog_ListByPostAndRange(t *testing.T) {
	ctx := context.Background()
	log, err := NewShareLog()
	require.NoError(t, err)
	defer log.Close()

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []models.ShareEvent{
		{ID: "a", PostID: "1", Platform: models.PlatformTwitter, Timestamp: base.Add(2 * time.Hour)},
		{ID: "b", PostID: "1", Platform: models.PlatformReddit, Timestamp: base},
		{ID: "c", PostID: "10", Platform: models.PlatformEmail, Timestamp: base.Add(time.Hour)},
		{ID: "d", PostID: "1", Platform: models.PlatformOther, Timestamp: base.Add(-48 * time.Hour)},
		{ID: "e", PostID: "2", Platform: models.PlatformFacebook, Timestamp: base.Add(30 * time.Minute)},
	}
	for _, ev := range events {
		require.NoError(t, log.Record(ctx, ev))
	}

	got, err := log.List(ctx, "1", base.Add(-time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// по возрастанию времени, пост "10" не попадает в префикс "1:"
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	all, err := log.List(ctx, "", base.Add(-time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	ids := []string{}
	for _, ev := range all {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"b", "e", "c", "a"}, ids)
}

func TestShareLog_OrdersAcrossEpoch(t *testing.T) {
	ctx := context.Background()
	log, err := NewShareLog()
	require.NoError(t, err)
	defer log.Close()

	epoch := time.Unix(0, 0).UTC()
	events := []models.ShareEvent{
		{ID: "after", PostID: "1", Platform: models.PlatformTwitter, Timestamp: epoch.Add(time.Hour)},
		{ID: "long-before", PostID: "1", Platform: models.PlatformTwitter, Timestamp: epoch.AddDate(-1, 0, 0)},
		{ID: "before", PostID: "1", Platform: models.PlatformTwitter, Timestamp: epoch.Add(-time.Hour)},
		{ID: "late", PostID: "1", Platform: models.PlatformTwitter, Timestamp: epoch.AddDate(2, 0, 0)},
	}
	for _, ev := range events {
		require.NoError(t, log.Record(ctx, ev))
	}

	got, err := log.List(ctx, "1", epoch.AddDate(-2, 0, 0), epoch.AddDate(1, 0, 0))
	require.NoError(t, err)
	ids := []string{}
	for _, ev := range got {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"long-before", "before", "after"}, ids)

	got, err = log.List(ctx, "1", epoch.Add(-2*time.Hour), epoch.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "before", got[0].ID)
	assert.Equal(t, "after", got[1].ID)
}

func TestSeed_PopulatesStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore()
	require.NoError(t, err)
	defer s.Close()

	now := time.Now()
	require.NoError(t, Seed(ctx, s, now))

	assert.Equal(t, 8, s.Posts.Len(ctx))
	assert.Equal(t, 10, s.Tags.Len(ctx))

	react, err := s.Tags.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, react.PostCount)

	post, err := s.Posts.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 4, post.CommentCount)

	shares, err := s.Shares.List(ctx, "", now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	assert.Len(t, shares, 12)
}
