package services

import (
	"context"
	"testing"
	"time"

	"devblog/internal/models"
	"devblog/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, created, err := f.newsletter.Subscribe(ctx, models.SubscribeRequest{Email: " New@Example.com ", Interests: []string{"Go", "go", " react "}})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "new@example.com", sub.Email)
	assert.Equal(t, []string{"go", "react"}, sub.Interests)
	assert.Equal(t, models.SubscriberActive, sub.Status)

	_, _, err = f.newsletter.Subscribe(ctx, models.SubscribeRequest{Email: "MARIA@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	back, created, err := f.newsletter.Subscribe(ctx, models.SubscribeRequest{Email: "paul@outlook.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "9", back.ID)
	assert.Equal(t, models.SubscriberActive, back.Status)
	assert.Nil(t, back.UnsubscribedAt)

	_, _, err = f.newsletter.Subscribe(ctx, models.SubscribeRequest{Email: "not-an-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.newsletter.Unsubscribe(ctx, models.UnsubscribeRequest{Email: "tom@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriberUnsubscribed, sub.Status)
	require.NotNil(t, sub.UnsubscribedAt)
	assert.Equal(t, testNow, *sub.UnsubscribedAt)

	again, err := f.newsletter.Unsubscribe(ctx, models.UnsubscribeRequest{Email: "tom@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, sub.UnsubscribedAt, again.UnsubscribedAt)

	_, err = f.newsletter.Unsubscribe(ctx, models.UnsubscribeRequest{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSubscribers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.newsletter.ListSubscribers(ctx, SubscriberFilter{Status: "active", Search: "gmail", Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "5", "2"}, ids(res.Items))
	assert.Equal(t, []string{"2", "3"}, res.Items[0].Segments)

	res, err = f.newsletter.ListSubscribers(ctx, SubscriberFilter{Segment: "1", Page: query.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(res.Items))

	_, err = f.newsletter.ListSubscribers(ctx, SubscriberFilter{Status: "bounced"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, f.newsletter.DeleteSubscriber(ctx, "10"))
	assert.ErrorIs(t, f.newsletter.DeleteSubscriber(ctx, "10"), ErrNotFound)
}

func TestSegments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	counts := map[string]int{}
	for _, s := range f.newsletter.ListSegments(ctx) {
		counts[s.ID] = s.Count
	}
	assert.Equal(t, map[string]int{"1": 2, "2": 3, "3": 3}, counts)

	stored, _ := f.store.Segments.Get(ctx, "2")
	assert.Equal(t, 3, stored.Count)

	_, err := f.newsletter.CreateSegment(ctx, models.SegmentRequest{
		Name:     "Broken",
		Criteria: []models.Criterion{{Type: models.CriterionEngagement, Field: "opens", Operator: "between", Value: "1"}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "criteria[0].operator", verr.Field)
	assert.Equal(t, []string{"gt", "gte", "lt", "lte", "eq"}, verr.Options)

	seg, err := f.newsletter.CreateSegment(ctx, models.SegmentRequest{
		Name: "Gmail users",
		Criteria: []models.Criterion{
			{Type: models.CriterionProperty, Field: "email", Operator: "ends_with", Value: "@GMAIL.com"},
			{Type: models.CriterionEngagement, Field: "opens", Operator: "gt", Value: "0"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seg.Count)

	_, err = f.newsletter.CreateSegment(ctx, models.SegmentRequest{
		Name:     "gmail USERS",
		Criteria: []models.Criterion{{Type: models.CriterionInterest, Field: "interests", Operator: "contains", Value: "go"}},
	})
	assert.ErrorIs(t, err, ErrConflict)

	members, err := f.newsletter.SegmentSubscribers(ctx, "2", query.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "5", "1"}, ids(members.Items))

	assert.ErrorIs(t, f.newsletter.DeleteSegment(ctx, "1"), ErrConflict)
	require.NoError(t, f.newsletter.DeleteSegment(ctx, "3"))
	assert.ErrorIs(t, f.newsletter.DeleteSegment(ctx, "3"), ErrNotFound)
}

func TestSegmentCriteria(t *testing.T) {
	sub := models.Subscriber{
		Email:        "ann@Example.org",
		Status:       models.SubscriberActive,
		Interests:    []string{"react"},
		SubscribedAt: testNow.AddDate(0, 0, -10),
		Stats:        models.EngagementStats{Opens: 4, Clicks: 1, EmailsReceived: 6},
	}
	cases := []struct {
		c    models.Criterion
		want bool
	}{
		{models.Criterion{Type: models.CriterionTimeframe, Field: "subscribedAt", Operator: "within_days", Value: "14"}, true},
		{models.Criterion{Type: models.CriterionTimeframe, Field: "subscribedAt", Operator: "older_than_days", Value: "14"}, false},
		{models.Criterion{Type: models.CriterionEngagement, Field: "clicks", Operator: "eq", Value: "1"}, true},
		{models.Criterion{Type: models.CriterionEngagement, Field: "emailsReceived", Operator: "lt", Value: "6"}, false},
		{models.Criterion{Type: models.CriterionInterest, Field: "interests", Operator: "contains", Value: "React"}, true},
		{models.Criterion{Type: models.CriterionProperty, Field: "email", Operator: "contains", Value: "example"}, true},
		{models.Criterion{Type: models.CriterionProperty, Field: "status", Operator: "neq", Value: "active"}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matches(sub, tc.c, testNow), "%+v", tc.c)
	}
}

func TestTemplates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.newsletter.CreateTemplate(ctx, models.TemplateRequest{Name: "weekly DIGEST", Subject: "x", Content: "<p>x</p>"})
	assert.ErrorIs(t, err, ErrConflict)

	tpl, err := f.newsletter.CreateTemplate(ctx, models.TemplateRequest{
		Name: "Welcome", Subject: "Welcome {{firstName}}", Content: `<p onclick="evil()">Hi {{firstName}}</p>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, tpl.Content, "onclick")
	assert.Len(t, f.newsletter.ListTemplates(ctx), 3)

	preview, err := f.newsletter.PreviewTemplate(ctx, "1", models.TemplatePreviewRequest{SubscriberID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "This week on the blog, Maria", preview.Subject)
	assert.Contains(t, preview.HTML, "Hi Maria,")
	assert.Contains(t, preview.HTML, `href="https://devblog.io"`)
	assert.Contains(t, preview.HTML, "unsubscribe?email=maria%40example.com")

	preview, err = f.newsletter.PreviewTemplate(ctx, "2", models.TemplatePreviewRequest{Variables: map[string]string{"firstName": "<Bob>"}})
	require.NoError(t, err)
	assert.Contains(t, preview.HTML, "Hello &lt;Bob&gt; {{lastName}}")

	_, err = f.newsletter.PreviewTemplate(ctx, "1", models.TemplatePreviewRequest{SubscriberID: "404"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaigns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	popular, err := f.newsletter.ListCampaigns(ctx, "sent", "popular", query.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "3"}, ids(popular.Items))

	latest, err := f.newsletter.ListCampaigns(ctx, "", "", query.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5", "1", "2", "3"}, ids(latest.Items))

	_, err = f.newsletter.ListCampaigns(ctx, "archived", "", query.Page{Limit: 10})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	c, err := f.newsletter.CreateCampaign(ctx, models.CampaignRequest{
		Subject: "React news", TemplateID: "1", RecipientType: "segment", SegmentID: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignDraft, c.Status)
	assert.Equal(t, 3, c.Recipients)

	_, err = f.newsletter.CreateCampaign(ctx, models.CampaignRequest{Subject: "No segment", TemplateID: "1", RecipientType: "segment"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "segmentId", verr.Field)

	past := testNow.Add(-time.Minute)
	_, err = f.newsletter.CreateCampaign(ctx, models.CampaignRequest{Subject: "Too late", TemplateID: "1", RecipientType: "all", ScheduledFor: &past})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduledFor", verr.Field)
}

func TestSendCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.newsletter.SendCampaign(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, sent.Status)
	assert.Equal(t, 8, sent.Recipients)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, testNow, *sent.SentAt)

	ken, _ := f.store.Subscribers.Get(ctx, "8")
	assert.Equal(t, 1, ken.Stats.EmailsReceived)
	paul, _ := f.store.Subscribers.Get(ctx, "9")
	assert.Equal(t, 9, paul.Stats.EmailsReceived, "отписавшимся не отправляем")

	_, err = f.newsletter.SendCampaign(ctx, "5")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.newsletter.SendCampaign(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

type recordingMailer struct{ jobs []EmailJob }

func (m *recordingMailer) Send(_ context.Context, job EmailJob) error {
	m.jobs = append(m.jobs, job)
	return nil
}

func TestMailQueue_DrainsOnClose(t *testing.T) {
	m := &recordingMailer{}
	q := NewMailQueue(m, 2)
	q.Start()
	for _, batch := range chunkStrings([]string{"a", "b", "c", "d", "e"}, 2) {
		q.Enqueue(EmailJob{CampaignID: "1", To: batch})
	}
	q.Close()

	require.Len(t, m.jobs, 3)
	assert.Equal(t, []string{"e"}, m.jobs[2].To)
}

func TestSendDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, 0, f.newsletter.SendDue(ctx), "кампания 4 запланирована через 3 дня")

	f.newsletter.now = func() time.Time { return testNow.AddDate(0, 0, 4) }
	assert.Equal(t, 1, f.newsletter.SendDue(ctx))

	c, err := f.store.Campaigns.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, c.Status)
	assert.Equal(t, 0, f.newsletter.SendDue(ctx))
}
