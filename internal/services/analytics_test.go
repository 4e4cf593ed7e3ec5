package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsletterAnalytics_30d(t *testing.T) {
	f := newFixture(t)

	a, err := f.analytics.Newsletter(context.Background(), "", true)
	require.NoError(t, err)
	assert.Equal(t, "30d", a.Period)
	assert.Equal(t, "day", a.Granularity)

	s := a.Summary
	assert.Equal(t, 10, s.TotalSubscribers)
	assert.Equal(t, 8, s.ActiveSubscribers)
	assert.Equal(t, 3, s.NewSubscribers)
	assert.Equal(t, 2, s.Unsubscribes)
	assert.Equal(t, 1, s.NetGrowth)
	assert.Equal(t, 2, s.CampaignsSent)
	assert.InDelta(t, 66.95, s.AvgOpenRate, 0.001)
	assert.InDelta(t, 29.15, s.AvgClickRate, 0.001)

	total := 0
	for _, b := range a.Growth {
		total += b.Total
	}
	assert.Equal(t, 5, total)

	assert.Equal(t, map[string]int{"high": 1, "medium": 2, "low": 3, "inactive": 2}, a.Engagement.Levels)
	require.Len(t, a.Engagement.BySegment, 3)
	assert.Equal(t, 2, a.Engagement.BySegment[0].Subscribers)
	assert.InDelta(t, 13, a.Engagement.BySegment[0].AvgOpens, 0.001)

	require.Len(t, a.TopCampaigns, 2)
	assert.Equal(t, "2", a.TopCampaigns[0].ID)
	assert.Equal(t, 3, a.Demographics.ByEmailDomain["gmail.com"])
	assert.Equal(t, 11, a.Delivery.Recipients)

	require.NotNil(t, a.Comparison)
	prev := a.Comparison.Previous
	assert.Equal(t, 7, prev.TotalSubscribers)
	assert.Equal(t, 2, prev.NewSubscribers)
	assert.Equal(t, 0, prev.Unsubscribes)
	require.NotNil(t, a.Comparison.Changes["newSubscribers"])
	assert.InDelta(t, 50, *a.Comparison.Changes["newSubscribers"], 0.001)
	assert.Nil(t, a.Comparison.Changes["unsubscribes"], "прошлый период без отписок: изменение не определено")
	assert.InDelta(t, 100, *a.Comparison.Changes["campaignsSent"], 0.001)
}

func TestNewsletterAnalytics_All(t *testing.T) {
	f := newFixture(t)

	a, err := f.analytics.Newsletter(context.Background(), "all", true)
	require.NoError(t, err)
	assert.Nil(t, a.Comparison)
	assert.Equal(t, "month", a.Granularity)
	assert.Equal(t, testNow.AddDate(0, 0, -300), a.From)
	assert.Equal(t, 10, a.Summary.NewSubscribers)
	assert.Equal(t, 3, a.Summary.CampaignsSent)
}

func TestNewsletterAnalytics_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.analytics.Newsletter(context.Background(), "2w", false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "period", verr.Field)
	assert.Equal(t, []string{"7d", "30d", "90d", "6m", "12m", "all"}, verr.Options)
}
