package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"slices"
	"strings"
	"time"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"
	"devblog/internal/utils/helpers"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const mailBatchSize = 50

type NewsletterService struct {
	subscribers repository.Repository[models.Subscriber]
	segments    repository.Repository[models.Segment]
	templates   repository.Repository[models.Template]
	campaigns   repository.Repository[models.Campaign]
	queue       *MailQueue
	policy      *bluemonday.Policy
	siteURL     string
	now         func() time.Time
}

func NewNewsletterService(
	subscribers repository.Repository[models.Subscriber],
	segments repository.Repository[models.Segment],
	templates repository.Repository[models.Template],
	campaigns repository.Repository[models.Campaign],
	queue *MailQueue,
	siteURL string,
) *NewsletterService {
	return &NewsletterService{
		subscribers: subscribers,
		segments:    segments,
		templates:   templates,
		campaigns:   campaigns,
		queue:       queue,
		policy:      bluemonday.UGCPolicy(),
		siteURL:     strings.TrimRight(siteURL, "/"),
		now:         time.Now,
	}
}

// ---------- Подписчики ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe подписывает email. Отписавшийся ранее адрес активируется заново;
// повторная подписка активного адреса: конфликт.
func (s *NewsletterService) Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscriber, bool, error) {
	req.Email = normalizeEmail(req.Email)
	logger.Log.Info("Сервис: подписка на рассылку", zap.String("email", req.Email))

	if err := validateStruct(req); err != nil {
		return models.Subscriber{}, false, err
	}
	interests := normalizeInterests(req.Interests)
	now := s.now().UTC()

	if existing, ok := s.subscribers.Find(ctx, func(sub models.Subscriber) bool { return sub.Email == req.Email }); ok {
		if existing.Status == models.SubscriberActive {
			return models.Subscriber{}, false, conflict("email %q is already subscribed", req.Email)
		}
		sub, err := s.subscribers.Mutate(ctx, existing.ID, func(sub *models.Subscriber) error {
			sub.Status = models.SubscriberActive
			sub.SubscribedAt = now
			sub.UnsubscribedAt = nil
			if req.FirstName != "" {
				sub.FirstName = strings.TrimSpace(req.FirstName)
			}
			if req.LastName != "" {
				sub.LastName = strings.TrimSpace(req.LastName)
			}
			if len(interests) > 0 {
				sub.Interests = interests
			}
			return nil
		})
		if err != nil {
			return models.Subscriber{}, false, fromRepo("subscriber", err)
		}
		logger.Log.Info("Сервис: подписка восстановлена", zap.String("subscriber_id", sub.ID))
		return sub, false, nil
	}

	sub := models.Subscriber{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Status:       models.SubscriberActive,
		Segments:     []string{},
		Interests:    interests,
		SubscribedAt: now,
	}
	err := s.subscribers.Insert(ctx, sub, func(other models.Subscriber) bool { return other.Email == sub.Email })
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Subscriber{}, false, conflict("email %q is already subscribed", req.Email)
	}
	if err != nil {
		return models.Subscriber{}, false, err
	}

	logger.Log.Info("Сервис: новый подписчик", zap.String("subscriber_id", sub.ID))
	return sub, true, nil
}

func normalizeInterests(in []string) []string {
	out := []string{}
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Unsubscribe идемпотентен: повторная отписка возвращает ту же запись.
func (s *NewsletterService) Unsubscribe(ctx context.Context, req models.UnsubscribeRequest) (models.Subscriber, error) {
	req.Email = normalizeEmail(req.Email)
	logger.Log.Info("Сервис: отписка от рассылки", zap.String("email", req.Email))

	if err := validateStruct(req); err != nil {
		return models.Subscriber{}, err
	}
	existing, ok := s.subscribers.Find(ctx, func(sub models.Subscriber) bool { return sub.Email == req.Email })
	if !ok {
		return models.Subscriber{}, notFound("subscriber")
	}
	if existing.Status == models.SubscriberUnsubscribed {
		return existing, nil
	}

	now := s.now().UTC()
	sub, err := s.subscribers.Mutate(ctx, existing.ID, func(sub *models.Subscriber) error {
		sub.Status = models.SubscriberUnsubscribed
		sub.UnsubscribedAt = &now
		return nil
	})
	return sub, fromRepo("subscriber", err)
}

type SubscriberFilter struct {
	Status  string
	Segment string
	Search  string
	Page    query.Page
}

var subscriberSortKeys = query.SortKeys[models.Subscriber]{
	Date: func(s models.Subscriber) time.Time { return s.SubscribedAt },
}

func (s *NewsletterService) ListSubscribers(ctx context.Context, f SubscriberFilter) (query.Result[models.Subscriber], error) {
	logger.Log.Debug("Сервис: список подписчиков", zap.String("status", f.Status), zap.String("segment", f.Segment))

	var preds []query.Predicate[models.Subscriber]
	if f.Status != "" {
		statuses := []string{string(models.SubscriberActive), string(models.SubscriberUnsubscribed)}
		if !slices.Contains(statuses, f.Status) {
			return query.Result[models.Subscriber]{}, invalid("status", fmt.Sprintf("invalid value %q", f.Status), statuses...)
		}
		preds = append(preds, func(sub models.Subscriber) bool { return string(sub.Status) == f.Status })
	}
	if f.Segment != "" {
		seg, err := s.segments.Get(ctx, f.Segment)
		if err != nil {
			return query.Result[models.Subscriber]{}, fromRepo("segment", err)
		}
		now := s.now().UTC()
		preds = append(preds, func(sub models.Subscriber) bool { return matchesAll(sub, seg.Criteria, now) })
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		preds = append(preds, func(sub models.Subscriber) bool {
			return strings.Contains(strings.ToLower(sub.Email+" "+sub.FirstName+" "+sub.LastName), q)
		})
	}

	res, err := query.Apply(s.subscribers.List(ctx), query.Options[models.Subscriber]{
		Filters: preds,
		Sort:    query.SortLatest,
		Keys:    subscriberSortKeys,
		Page:    f.Page,
	})
	if err != nil {
		return res, err
	}
	s.annotate(ctx, res.Items)
	return res, nil
}

// annotate проставляет подписчикам id сегментов, в которые они сейчас попадают.
func (s *NewsletterService) annotate(ctx context.Context, subs []models.Subscriber) {
	segs := s.segments.List(ctx)
	now := s.now().UTC()
	for i := range subs {
		subs[i].Segments = []string{}
		for _, seg := range segs {
			if matchesAll(subs[i], seg.Criteria, now) {
				subs[i].Segments = append(subs[i].Segments, seg.ID)
			}
		}
	}
}

func (s *NewsletterService) DeleteSubscriber(ctx context.Context, id string) error {
	logger.Log.Info("Сервис: удаление подписчика", zap.String("subscriber_id", id))
	return fromRepo("subscriber", s.subscribers.Delete(ctx, id))
}

// ---------- Сегменты ----------

func (s *NewsletterService) activeSubscribers(ctx context.Context) []models.Subscriber {
	return query.Filter(s.subscribers.List(ctx), func(sub models.Subscriber) bool {
		return sub.Status == models.SubscriberActive
	})
}

func (s *NewsletterService) members(ctx context.Context, seg models.Segment) []models.Subscriber {
	now := s.now().UTC()
	return query.Filter(s.activeSubscribers(ctx), func(sub models.Subscriber) bool {
		return matchesAll(sub, seg.Criteria, now)
	})
}

// ListSegments пересчитывает Count каждого сегмента по активным подписчикам.
func (s *NewsletterService) ListSegments(ctx context.Context) []models.Segment {
	segs := s.segments.List(ctx)
	for i, seg := range segs {
		n := len(s.members(ctx, seg))
		segs[i].Count = n
		_, _ = s.segments.Mutate(ctx, seg.ID, func(stored *models.Segment) error {
			stored.Count = n
			return nil
		})
	}
	return segs
}

func (s *NewsletterService) CreateSegment(ctx context.Context, req models.SegmentRequest) (models.Segment, error) {
	logger.Log.Info("Сервис: создание сегмента", zap.String("name", req.Name))

	if err := validateStruct(req); err != nil {
		return models.Segment{}, err
	}
	for i, c := range req.Criteria {
		if err := checkCriterion(i, c); err != nil {
			return models.Segment{}, err
		}
	}

	seg := models.Segment{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Criteria:    req.Criteria,
		CreatedAt:   s.now().UTC(),
	}
	seg.Count = len(s.members(ctx, seg))

	err := s.segments.Insert(ctx, seg, func(other models.Segment) bool { return strings.EqualFold(other.Name, seg.Name) })
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Segment{}, conflict("segment %q already exists", seg.Name)
	}
	if err != nil {
		return models.Segment{}, err
	}

	logger.Log.Info("Сервис: сегмент создан", zap.String("segment_id", seg.ID), zap.Int("count", seg.Count))
	return seg, nil
}

func (s *NewsletterService) SegmentSubscribers(ctx context.Context, id string, page query.Page) (query.Result[models.Subscriber], error) {
	seg, err := s.segments.Get(ctx, id)
	if err != nil {
		return query.Result[models.Subscriber]{}, fromRepo("segment", err)
	}
	res, err := query.Apply(s.members(ctx, seg), query.Options[models.Subscriber]{
		Sort: query.SortLatest,
		Keys: subscriberSortKeys,
		Page: page,
	})
	if err != nil {
		return res, err
	}
	s.annotate(ctx, res.Items)
	return res, nil
}

// DeleteSegment запрещено, пока сегмент выбран получателем какой-либо кампании.
func (s *NewsletterService) DeleteSegment(ctx context.Context, id string) error {
	logger.Log.Info("Сервис: удаление сегмента", zap.String("segment_id", id))

	if _, err := s.segments.Get(ctx, id); err != nil {
		return fromRepo("segment", err)
	}
	if c, used := s.campaigns.Find(ctx, func(c models.Campaign) bool { return c.SegmentID == id }); used {
		return conflict("segment is used by campaign %q", c.Subject)
	}
	return fromRepo("segment", s.segments.Delete(ctx, id))
}

// ---------- Шаблоны ----------

func (s *NewsletterService) ListTemplates(ctx context.Context) []models.Template {
	return s.templates.List(ctx)
}

func (s *NewsletterService) CreateTemplate(ctx context.Context, req models.TemplateRequest) (models.Template, error) {
	logger.Log.Info("Сервис: создание шаблона", zap.String("name", req.Name))

	if err := validateStruct(req); err != nil {
		return models.Template{}, err
	}
	content := s.policy.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		return models.Template{}, invalid("content", "is empty after sanitizing")
	}

	now := s.now().UTC()
	t := models.Template{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Subject:   strings.TrimSpace(req.Subject),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.templates.Insert(ctx, t, func(other models.Template) bool { return strings.EqualFold(other.Name, t.Name) })
	if errors.Is(err, repository.ErrDuplicate) {
		return models.Template{}, conflict("template %q already exists", t.Name)
	}
	if err != nil {
		return models.Template{}, err
	}
	return t, nil
}

// PreviewTemplate подставляет переменные {{name}} и оборачивает письмо в общий
// HTML-шаблон. Значения берутся из подписчика (если указан), затем из запроса.
func (s *NewsletterService) PreviewTemplate(ctx context.Context, id string, req models.TemplatePreviewRequest) (models.TemplatePreview, error) {
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return models.TemplatePreview{}, fromRepo("template", err)
	}

	vars := map[string]string{"siteUrl": s.siteURL}
	email := ""
	if req.SubscriberID != "" {
		sub, err := s.subscribers.Get(ctx, req.SubscriberID)
		if err != nil {
			return models.TemplatePreview{}, fromRepo("subscriber", err)
		}
		vars["firstName"], vars["lastName"], vars["email"] = sub.FirstName, sub.LastName, sub.Email
		email = sub.Email
	}
	for k, v := range req.Variables {
		vars[k] = v
	}

	subject := render(t.Subject, vars, false)
	body := render(t.Content, vars, true)
	return models.TemplatePreview{
		Subject: subject,
		HTML:    helpers.BuildNewsletterHTML(subject, body, s.siteURL, s.unsubscribeURL(email)),
	}, nil
}

func (s *NewsletterService) unsubscribeURL(email string) string {
	u := s.siteURL + "/newsletter/unsubscribe"
	if email != "" {
		u += "?email=" + url.QueryEscape(email)
	}
	return u
}

// render заменяет {{key}} значениями vars. Неизвестные переменные остаются как есть.
func render(text string, vars map[string]string, escape bool) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		if escape {
			v = html.EscapeString(v)
		}
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// ---------- Кампании ----------

var campaignSortKeys = query.SortKeys[models.Campaign]{
	Date:       models.Campaign.EffectiveDate,
	Title:      func(c models.Campaign) string { return c.Subject },
	Popularity: func(c models.Campaign) float64 { return c.Stats.OpenRate },
}

func (s *NewsletterService) ListCampaigns(ctx context.Context, status, sort string, page query.Page) (query.Result[models.Campaign], error) {
	var preds []query.Predicate[models.Campaign]
	if status != "" {
		if !slices.Contains(models.CampaignStatuses, status) {
			return query.Result[models.Campaign]{}, invalid("status", fmt.Sprintf("invalid value %q", status), models.CampaignStatuses...)
		}
		preds = append(preds, func(c models.Campaign) bool { return string(c.Status) == status })
	}
	if sort == "" {
		sort = string(query.SortLatest)
	}
	if sort != string(query.SortLatest) && sort != string(query.SortPopular) {
		return query.Result[models.Campaign]{}, invalid("sort", fmt.Sprintf("invalid value %q", sort), "latest", "popular")
	}
	return query.Apply(s.campaigns.List(ctx), query.Options[models.Campaign]{
		Filters: preds,
		Sort:    query.SortKey(sort),
		Keys:    campaignSortKeys,
		Page:    page,
	})
}

func (s *NewsletterService) audience(ctx context.Context, c models.Campaign) ([]models.Subscriber, error) {
	if c.RecipientType != "segment" {
		return s.activeSubscribers(ctx), nil
	}
	seg, err := s.segments.Get(ctx, c.SegmentID)
	if err != nil {
		return nil, fromRepo("segment", err)
	}
	return s.members(ctx, seg), nil
}

func (s *NewsletterService) CreateCampaign(ctx context.Context, req models.CampaignRequest) (models.Campaign, error) {
	logger.Log.Info("Сервис: создание кампании", zap.String("subject", req.Subject))

	if err := validateStruct(req); err != nil {
		return models.Campaign{}, err
	}
	if _, err := s.templates.Get(ctx, req.TemplateID); err != nil {
		return models.Campaign{}, invalid("templateId", fmt.Sprintf("template %q not found", req.TemplateID))
	}
	if req.RecipientType == "segment" {
		if _, err := s.segments.Get(ctx, req.SegmentID); err != nil {
			return models.Campaign{}, invalid("segmentId", fmt.Sprintf("segment %q not found", req.SegmentID))
		}
	} else {
		req.SegmentID = ""
	}

	now := s.now().UTC()
	c := models.Campaign{
		ID:            uuid.NewString(),
		Subject:       strings.TrimSpace(req.Subject),
		Status:        models.CampaignDraft,
		TemplateID:    req.TemplateID,
		RecipientType: req.RecipientType,
		SegmentID:     req.SegmentID,
		CreatedAt:     now,
	}
	if req.ScheduledFor != nil {
		if !req.ScheduledFor.After(now) {
			return models.Campaign{}, invalid("scheduledFor", "must be in the future")
		}
		at := req.ScheduledFor.UTC()
		c.ScheduledFor = &at
		c.Status = models.CampaignScheduled
	}

	aud, err := s.audience(ctx, c)
	if err != nil {
		return models.Campaign{}, err
	}
	c.Recipients = len(aud)

	if err := s.campaigns.Insert(ctx, c); err != nil {
		return models.Campaign{}, err
	}
	logger.Log.Info("Сервис: кампания создана", zap.String("campaign_id", c.ID), zap.String("status", string(c.Status)))
	return c, nil
}

// SendCampaign: имитация отправки: письма уходят в очередь с LogMailer,
// статистика получателей обновляется сразу.
func (s *NewsletterService) SendCampaign(ctx context.Context, id string) (models.Campaign, error) {
	logger.Log.Info("Сервис: отправка кампании", zap.String("campaign_id", id))

	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return models.Campaign{}, fromRepo("campaign", err)
	}
	if c.Status == models.CampaignSent {
		return models.Campaign{}, conflict("campaign was already sent")
	}
	t, err := s.templates.Get(ctx, c.TemplateID)
	if err != nil {
		return models.Campaign{}, fromRepo("template", err)
	}
	aud, err := s.audience(ctx, c)
	if err != nil {
		return models.Campaign{}, err
	}

	now := s.now().UTC()
	c, err = s.campaigns.Mutate(ctx, id, func(c *models.Campaign) error {
		if c.Status == models.CampaignSent {
			return conflict("campaign was already sent")
		}
		c.Status = models.CampaignSent
		c.SentAt = &now
		c.Recipients = len(aud)
		return nil
	})
	if err != nil {
		return models.Campaign{}, fromRepo("campaign", err)
	}

	emails := make([]string, 0, len(aud))
	for _, sub := range aud {
		emails = append(emails, sub.Email)
		_, _ = s.subscribers.Mutate(ctx, sub.ID, func(sub *models.Subscriber) error {
			sub.Stats.EmailsReceived++
			return nil
		})
	}
	body := helpers.BuildNewsletterHTML(c.Subject, t.Content, s.siteURL, s.unsubscribeURL(""))
	for _, batch := range chunkStrings(emails, mailBatchSize) {
		s.queue.Enqueue(EmailJob{CampaignID: c.ID, To: batch, Subject: c.Subject, Body: body})
	}

	logger.Log.Info("Сервис: кампания отправлена", zap.String("campaign_id", c.ID), zap.Int("recipients", c.Recipients))
	return c, nil
}

// SendDue отправляет запланированные кампании, время которых наступило.
func (s *NewsletterService) SendDue(ctx context.Context) int {
	now := s.now()
	due := query.Filter(s.campaigns.List(ctx), func(c models.Campaign) bool {
		return c.Status == models.CampaignScheduled && c.ScheduledFor != nil && !c.ScheduledFor.After(now)
	})

	sent := 0
	for _, c := range due {
		if _, err := s.SendCampaign(ctx, c.ID); err != nil {
			logger.Log.Warn("Сервис: не удалось отправить запланированную кампанию", zap.String("campaign_id", c.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}
