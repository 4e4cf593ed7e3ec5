package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"

	"go.uber.org/zap"
)

const topCampaigns = 5

var analyticsPeriods = []string{"7d", "30d", "90d", "6m", "12m", "all"}

type AnalyticsService struct {
	subscribers repository.Repository[models.Subscriber]
	segments    repository.Repository[models.Segment]
	campaigns   repository.Repository[models.Campaign]
	now         func() time.Time
}

func NewAnalyticsService(
	subscribers repository.Repository[models.Subscriber],
	segments repository.Repository[models.Segment],
	campaigns repository.Repository[models.Campaign],
) *AnalyticsService {
	return &AnalyticsService{subscribers: subscribers, segments: segments, campaigns: campaigns, now: time.Now}
}

// window возвращает начало периода. "all" начинается с первой подписки.
func (s *AnalyticsService) window(period string, now time.Time, subs []models.Subscriber) (time.Time, error) {
	switch period {
	case "7d":
		return now.AddDate(0, 0, -7), nil
	case "30d":
		return now.AddDate(0, 0, -30), nil
	case "90d":
		return now.AddDate(0, 0, -90), nil
	case "6m":
		return now.AddDate(0, -6, 0), nil
	case "12m":
		return now.AddDate(-1, 0, 0), nil
	case "all":
		from := now
		for _, sub := range subs {
			if sub.SubscribedAt.Before(from) {
				from = sub.SubscribedAt
			}
		}
		return from, nil
	}
	return time.Time{}, invalid("period", fmt.Sprintf("invalid value %q", period), analyticsPeriods...)
}

// Newsletter собирает аналитику рассылки за период. compare добавляет
// сравнение с предыдущим периодом той же длины (кроме "all").
func (s *AnalyticsService) Newsletter(ctx context.Context, period string, compare bool) (models.NewsletterAnalytics, error) {
	logger.Log.Debug("Сервис: аналитика рассылки", zap.String("period", period), zap.Bool("compare", compare))

	if period == "" {
		period = "30d"
	}
	now := s.now().UTC()
	subs := s.subscribers.List(ctx)
	campaigns := s.campaigns.List(ctx)

	from, err := s.window(period, now, subs)
	if err != nil {
		return models.NewsletterAnalytics{}, err
	}

	g := query.PickGranularity(query.DaySpan(from, now))
	sent := sentBetween(campaigns, from, now)
	active := query.Filter(subs, func(sub models.Subscriber) bool { return sub.Status == models.SubscriberActive })

	top, err := query.Apply(sent, query.Options[models.Campaign]{
		Sort: query.SortPopular,
		Keys: campaignSortKeys,
		Page: query.Page{Limit: topCampaigns},
	})
	if err != nil {
		return models.NewsletterAnalytics{}, err
	}

	out := models.NewsletterAnalytics{
		Period:       period,
		From:         from,
		To:           now,
		Granularity:  string(g),
		Summary:      summarize(subs, sent, from, now),
		Growth:       query.Bucketize(growthEvents(subs, from, now), g),
		Engagement:   s.engagement(ctx, active, now),
		TopCampaigns: top.Items,
		Demographics: demographics(active),
		Delivery:     delivery(sent),
	}

	if compare && period != "all" {
		span := now.Sub(from)
		prevFrom, prevTo := from.Add(-span), from
		prev := summarize(subs, sentBetween(campaigns, prevFrom, prevTo), prevFrom, prevTo)
		out.Comparison = &models.AnalyticsComparison{
			From:     prevFrom,
			To:       prevTo,
			Previous: prev,
			Changes:  changes(prev, out.Summary),
		}
	}
	return out, nil
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func sentBetween(campaigns []models.Campaign, from, to time.Time) []models.Campaign {
	return query.Filter(campaigns, func(c models.Campaign) bool {
		return c.Status == models.CampaignSent && c.SentAt != nil && within(*c.SentAt, from, to)
	})
}

// summarize: Total: все, кто подписался к концу периода; Active: кто на конец
// периода не отписан.
func summarize(subs []models.Subscriber, sent []models.Campaign, from, to time.Time) models.AnalyticsSummary {
	var sum models.AnalyticsSummary
	for _, sub := range subs {
		if sub.SubscribedAt.After(to) {
			continue
		}
		sum.TotalSubscribers++
		if sub.UnsubscribedAt == nil || sub.UnsubscribedAt.After(to) {
			sum.ActiveSubscribers++
		}
		if !sub.SubscribedAt.Before(from) {
			sum.NewSubscribers++
		}
		if sub.UnsubscribedAt != nil && within(*sub.UnsubscribedAt, from, to) {
			sum.Unsubscribes++
		}
	}
	sum.NetGrowth = sum.NewSubscribers - sum.Unsubscribes

	sum.CampaignsSent = len(sent)
	if len(sent) > 0 {
		var opens, clicks float64
		for _, c := range sent {
			opens += c.Stats.OpenRate
			clicks += c.Stats.ClickRate
		}
		sum.AvgOpenRate = round2(opens / float64(len(sent)))
		sum.AvgClickRate = round2(clicks / float64(len(sent)))
	}
	return sum
}

func growthEvents(subs []models.Subscriber, from, to time.Time) []query.Event {
	var events []query.Event
	for _, sub := range subs {
		if within(sub.SubscribedAt, from, to) {
			events = append(events, query.Event{At: sub.SubscribedAt, Category: "subscribed"})
		}
		if sub.UnsubscribedAt != nil && within(*sub.UnsubscribedAt, from, to) {
			events = append(events, query.Event{At: *sub.UnsubscribedAt, Category: "unsubscribed"})
		}
	}
	return events
}

func engagementLevel(opens int) string {
	switch {
	case opens >= 10:
		return "high"
	case opens >= 3:
		return "medium"
	case opens > 0:
		return "low"
	}
	return "inactive"
}

func (s *AnalyticsService) engagement(ctx context.Context, active []models.Subscriber, now time.Time) models.EngagementBreakdown {
	out := models.EngagementBreakdown{
		Levels:    map[string]int{"high": 0, "medium": 0, "low": 0, "inactive": 0},
		BySegment: []models.SegmentEngagement{},
	}
	for _, sub := range active {
		out.Levels[engagementLevel(sub.Stats.Opens)]++
	}

	for _, seg := range s.segments.List(ctx) {
		row := models.SegmentEngagement{SegmentID: seg.ID, Name: seg.Name}
		var opens, clicks int
		for _, sub := range active {
			if matchesAll(sub, seg.Criteria, now) {
				row.Subscribers++
				opens += sub.Stats.Opens
				clicks += sub.Stats.Clicks
			}
		}
		if row.Subscribers > 0 {
			row.AvgOpens = round2(float64(opens) / float64(row.Subscribers))
			row.AvgClicks = round2(float64(clicks) / float64(row.Subscribers))
		}
		out.BySegment = append(out.BySegment, row)
	}
	return out
}

func demographics(active []models.Subscriber) models.Demographics {
	out := models.Demographics{ByEmailDomain: map[string]int{}, ByInterest: map[string]int{}}
	for _, sub := range active {
		if _, domain, ok := strings.Cut(sub.Email, "@"); ok {
			out.ByEmailDomain[strings.ToLower(domain)]++
		}
		for _, in := range sub.Interests {
			out.ByInterest[in]++
		}
	}
	return out
}

func delivery(sent []models.Campaign) models.DeliveryMetrics {
	out := models.DeliveryMetrics{CampaignsSent: len(sent)}
	if len(sent) == 0 {
		return out
	}
	var bounce, unsub float64
	for _, c := range sent {
		out.Recipients += c.Recipients
		out.Delivered += c.Recipients - int(math.Round(float64(c.Recipients)*c.Stats.BounceRate/100))
		bounce += c.Stats.BounceRate
		unsub += c.Stats.UnsubscribeRate
	}
	out.AvgBounceRate = round2(bounce / float64(len(sent)))
	out.AvgUnsubscribeRate = round2(unsub / float64(len(sent)))
	return out
}

func changes(prev, cur models.AnalyticsSummary) map[string]*float64 {
	pct := func(old, new float64) *float64 {
		v := query.PercentChange(old, new)
		if v != nil {
			r := round2(*v)
			v = &r
		}
		return v
	}
	out := map[string]*float64{
		"totalSubscribers":  pct(float64(prev.TotalSubscribers), float64(cur.TotalSubscribers)),
		"activeSubscribers": pct(float64(prev.ActiveSubscribers), float64(cur.ActiveSubscribers)),
		"newSubscribers":    pct(float64(prev.NewSubscribers), float64(cur.NewSubscribers)),
		"unsubscribes":      pct(float64(prev.Unsubscribes), float64(cur.Unsubscribes)),
		"campaignsSent":     pct(float64(prev.CampaignsSent), float64(cur.CampaignsSent)),
		"avgOpenRate":       pct(prev.AvgOpenRate, cur.AvgOpenRate),
		"avgClickRate":      pct(prev.AvgClickRate, cur.AvgClickRate),
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
