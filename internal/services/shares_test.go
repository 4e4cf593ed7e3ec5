package services

import (
	"context"
	"testing"

	"devblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareRecordAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ev, err := f.shares.Record(ctx, models.ShareRequest{PostID: "1", Platform: "Reddit", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, models.PlatformReddit, ev.Platform)
	assert.Equal(t, testNow, ev.Timestamp)

	stats, err := f.shares.Stats(ctx, "1", 0)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.ByPlatform["twitter"])
	assert.Equal(t, 2, stats.ByPlatform["reddit"])
	assert.Equal(t, 0, stats.ByPlatform["email"])
	assert.Equal(t, "day", stats.Granularity)

	sum := 0
	for i, b := range stats.Timeline {
		sum += b.Total
		if i > 0 {
			assert.Less(t, stats.Timeline[i-1].Key, b.Key)
		}
	}
	assert.Equal(t, stats.Total, sum)
}

func TestShareStats_Granularity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day, err := f.shares.Stats(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, "hour", day.Granularity)
	assert.Equal(t, 2, day.Total)

	year, err := f.shares.Stats(ctx, "", 90)
	require.NoError(t, err)
	assert.Equal(t, "month", year.Granularity)
	assert.Equal(t, 14, year.Total)
}

func TestShareValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var verr *ValidationError

	_, err := f.shares.Record(ctx, models.ShareRequest{PostID: "1", Platform: "myspace"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.Platforms, verr.Options)

	_, err = f.shares.Record(ctx, models.ShareRequest{PostID: "404", Platform: "email"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.shares.Stats(ctx, "", 400)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "days", verr.Field)
}
