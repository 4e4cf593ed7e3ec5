package models

import (
	"time"

	"devblog/internal/query"
)

type AnalyticsSummary struct {
	TotalSubscribers  int     `json:"totalSubscribers"`
	ActiveSubscribers int     `json:"activeSubscribers"`
	NewSubscribers    int     `json:"newSubscribers"`
	Unsubscribes      int     `json:"unsubscribes"`
	NetGrowth         int     `json:"netGrowth"`
	CampaignsSent     int     `json:"campaignsSent"`
	AvgOpenRate       float64 `json:"avgOpenRate"`
	AvgClickRate      float64 `json:"avgClickRate"`
}

type SegmentEngagement struct {
	SegmentID   string  `json:"segmentId"`
	Name        string  `json:"name"`
	Subscribers int     `json:"subscribers"`
	AvgOpens    float64 `json:"avgOpens"`
	AvgClicks   float64 `json:"avgClicks"`
}

type EngagementBreakdown struct {
	Levels    map[string]int      `json:"levels"`
	BySegment []SegmentEngagement `json:"bySegment"`
}

type Demographics struct {
	ByEmailDomain map[string]int `json:"byEmailDomain"`
	ByInterest    map[string]int `json:"byInterest"`
}

type DeliveryMetrics struct {
	CampaignsSent      int     `json:"campaignsSent"`
	Recipients         int     `json:"recipients"`
	Delivered          int     `json:"delivered"`
	AvgBounceRate      float64 `json:"avgBounceRate"`
	AvgUnsubscribeRate float64 `json:"avgUnsubscribeRate"`
}

// AnalyticsComparison: значения за предыдущий период той же длины и изменения в процентах.
// Изменение = nil, если в прошлом периоде было 0.
type AnalyticsComparison struct {
	From     time.Time           `json:"from"`
	To       time.Time           `json:"to"`
	Previous AnalyticsSummary    `json:"previous"`
	Changes  map[string]*float64 `json:"changes"`
}

type NewsletterAnalytics struct {
	Period       string               `json:"period"`
	From         time.Time            `json:"from"`
	To           time.Time            `json:"to"`
	Granularity  string               `json:"granularity"`
	Summary      AnalyticsSummary     `json:"summary"`
	Growth       []query.Bucket       `json:"growth"`
	Engagement   EngagementBreakdown  `json:"engagement"`
	TopCampaigns []Campaign           `json:"topCampaigns"`
	Demographics Demographics         `json:"demographics"`
	Delivery     DeliveryMetrics      `json:"delivery"`
	Comparison   *AnalyticsComparison `json:"comparison,omitempty"`
}
