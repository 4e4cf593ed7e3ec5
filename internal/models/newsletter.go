package models

import "time"

type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

type EngagementStats struct {
	EmailsReceived int `json:"emailsReceived"`
	Opens          int `json:"opens"`
	Clicks         int `json:"clicks"`
}

type Subscriber struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Status         SubscriberStatus `json:"status"`
	Segments       []string         `json:"segments"`
	Interests      []string         `json:"interests"`
	SubscribedAt   time.Time        `json:"subscribedAt"`
	UnsubscribedAt *time.Time       `json:"unsubscribedAt,omitempty"`
	Stats          EngagementStats  `json:"stats"`
}

func (s Subscriber) GetID() string { return s.ID }

type SubscribeRequest struct {
	Email     string   `json:"email"     validate:"required,email,max=254"`
	FirstName string   `json:"firstName" validate:"max=60"`
	LastName  string   `json:"lastName"  validate:"max=60"`
	Interests []string `json:"interests" validate:"max=20,dive,min=1,max=60"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CriterionType string

const (
	CriterionTimeframe  CriterionType = "timeframe"
	CriterionEngagement CriterionType = "engagement"
	CriterionInterest   CriterionType = "interest"
	CriterionProperty   CriterionType = "property"
)

// Criterion: одно условие сегмента; сегмент включает подписчика, если выполнены все условия.
type Criterion struct {
	Type     CriterionType `json:"type"     validate:"required,oneof=timeframe engagement interest property"`
	Field    string        `json:"field"    validate:"required"`
	Operator string        `json:"operator" validate:"required"`
	Value    string        `json:"value"    validate:"required"`
}

type Segment struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Criteria    []Criterion `json:"criteria"`
	Count       int         `json:"count"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (s Segment) GetID() string { return s.ID }

type SegmentRequest struct {
	Name        string      `json:"name"        validate:"required,min=2,max=80"`
	Description string      `json:"description" validate:"max=300"`
	Criteria    []Criterion `json:"criteria"    validate:"required,min=1,dive"`
}

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSent      CampaignStatus = "sent"
)

var CampaignStatuses = []string{string(CampaignDraft), string(CampaignScheduled), string(CampaignSent)}

type CampaignStats struct {
	OpenRate        float64 `json:"openRate"`
	ClickRate       float64 `json:"clickRate"`
	BounceRate      float64 `json:"bounceRate"`
	UnsubscribeRate float64 `json:"unsubscribeRate"`
}

type Campaign struct {
	ID            string         `json:"id"`
	Subject       string         `json:"subject"`
	Status        CampaignStatus `json:"status"`
	TemplateID    string         `json:"templateId"`
	RecipientType string         `json:"recipientType"`
	SegmentID     string         `json:"segmentId,omitempty"`
	ScheduledFor  *time.Time     `json:"scheduledFor,omitempty"`
	SentAt        *time.Time     `json:"sentAt,omitempty"`
	Recipients    int            `json:"recipients"`
	Stats         CampaignStats  `json:"stats"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (c Campaign) GetID() string { return c.ID }

func (c Campaign) EffectiveDate() time.Time {
	switch {
	case c.SentAt != nil:
		return *c.SentAt
	case c.ScheduledFor != nil:
		return *c.ScheduledFor
	}
	return c.CreatedAt
}

type CampaignRequest struct {
	Subject       string     `json:"subject"       validate:"required,min=3,max=150"`
	TemplateID    string     `json:"templateId"    validate:"required"`
	RecipientType string     `json:"recipientType" validate:"required,oneof=all segment"`
	SegmentID     string     `json:"segmentId"     validate:"required_if=RecipientType segment"`
	ScheduledFor  *time.Time `json:"scheduledFor"`
}

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Template) GetID() string { return t.ID }

type TemplateRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=80"`
	Subject string `json:"subject" validate:"required,max=150"`
	Content string `json:"content" validate:"required"`
}

type TemplatePreviewRequest struct {
	SubscriberID string            `json:"subscriberId"`
	Variables    map[string]string `json:"variables"`
}

type TemplatePreview struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
