package handlers

import (
	"net/http"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type NewsletterHandler struct {
	newsletter *services.NewsletterService
	analytics  *services.AnalyticsService
	maxPage    int
}

func NewNewsletterHandler(newsletter *services.NewsletterService, analytics *services.AnalyticsService, maxPage int) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter, analytics: analytics, maxPage: maxPage}
}

// Subscribe godoc
// @Summary Подписаться на рассылку
// @Description Новый адрес: 201, повторная подписка отписавшегося: 200, активный адрес: 409.
// @Tags newsletter
// @Accept json
// @Produce json
// @Param input body models.SubscribeRequest true "Подписчик"
// @Success 201 {object} helpers.Response{data=models.Subscriber}
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, created, err := h.newsletter.Subscribe(r.Context(), req)
	if err != nil {
		fail(w, r, "Subscription failed", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Подписка оформлена", zap.String("subscriber_id", sub.ID), zap.Bool("created", created))
	if created {
		helpers.JSON(w, http.StatusCreated, "Successfully subscribed", sub)
		return
	}
	helpers.JSON(w, http.StatusOK, "Subscription reactivated", sub)
}

// Unsubscribe godoc
// @Summary Отписаться от рассылки
// @Tags newsletter
// @Accept json
// @Produce json
// @Param input body models.UnsubscribeRequest true "Email"
// @Success 200 {object} helpers.Response{data=models.Subscriber}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/newsletter/unsubscribe [post]
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.UnsubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.newsletter.Unsubscribe(r.Context(), req)
	if err != nil {
		fail(w, r, "Unsubscribe failed", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Successfully unsubscribed", sub)
}

type subscriberListResponse struct {
	Subscribers []models.Subscriber `json:"subscribers"`
	Pagination  pagination          `json:"pagination"`
}

// ListSubscribers godoc
// @Summary Подписчики (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "active | unsubscribed"
// @Param segment query string false "ID сегмента"
// @Param search query string false "Поиск по email и имени"
// @Param limit query int false "Лимит (по умолчанию 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=subscriberListResponse}
// @Failure 400 {object} helpers.Response
// @Router /api/newsletter/subscribers [get]
func (h *NewsletterHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageParams(r, h.maxPage)

	res, err := h.newsletter.ListSubscribers(r.Context(), services.SubscriberFilter{
		Status:  q.Get("status"),
		Segment: q.Get("segment"),
		Search:  q.Get("search"),
		Page:    page,
	})
	if err != nil {
		fail(w, r, "Failed to fetch subscribers", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Subscribers retrieved successfully", subscriberListResponse{
		Subscribers: res.Items,
		Pagination:  paginationOf(res, page),
	})
}

// DeleteSubscriber godoc
// @Summary Удалить подписчика (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID подписчика"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/newsletter/subscribers/{id} [delete]
func (h *NewsletterHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.newsletter.DeleteSubscriber(r.Context(), id); err != nil {
		fail(w, r, "Failed to delete subscriber", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Подписчик удалён", zap.String("subscriber_id", id))
	helpers.JSON(w, http.StatusOK, "Subscriber deleted successfully", nil)
}

// ListSegments godoc
// @Summary Сегменты с актуальным числом подписчиков (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.Response{data=[]models.Segment}
// @Router /api/newsletter/segments [get]
func (h *NewsletterHandler) ListSegments(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, "Segments retrieved successfully", h.newsletter.ListSegments(r.Context()))
}

// CreateSegment godoc
// @Summary Создать сегмент (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.SegmentRequest true "Сегмент"
// @Success 201 {object} helpers.Response{data=models.Segment}
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/newsletter/segments [post]
func (h *NewsletterHandler) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req models.SegmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seg, err := h.newsletter.CreateSegment(r.Context(), req)
	if err != nil {
		fail(w, r, "Failed to create segment", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Segment created successfully", seg)
}

// SegmentSubscribers godoc
// @Summary Подписчики сегмента (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID сегмента"
// @Param limit query int false "Лимит (по умолчанию 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=subscriberListResponse}
// @Failure 404 {object} helpers.Response
// @Router /api/newsletter/segments/{id}/subscribers [get]
func (h *NewsletterHandler) SegmentSubscribers(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r, h.maxPage)
	res, err := h.newsletter.SegmentSubscribers(r.Context(), mux.Vars(r)["id"], page)
	if err != nil {
		fail(w, r, "Failed to fetch segment subscribers", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Segment subscribers retrieved successfully", subscriberListResponse{
		Subscribers: res.Items,
		Pagination:  paginationOf(res, page),
	})
}

// DeleteSegment godoc
// @Summary Удалить сегмент (только admin)
// @Description Сегмент, выбранный в кампании, удалить нельзя (400).
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID сегмента"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/newsletter/segments/{id} [delete]
func (h *NewsletterHandler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.newsletter.DeleteSegment(r.Context(), id); err != nil {
		failWithConflict(w, r, "Cannot delete segment", err, http.StatusBadRequest)
		return
	}
	logger.WithCtx(r.Context()).Info("Сегмент удалён", zap.String("segment_id", id))
	helpers.JSON(w, http.StatusOK, "Segment deleted successfully", nil)
}

// ListTemplates godoc
// @Summary Шаблоны писем (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.Response{data=[]models.Template}
// @Router /api/newsletter/templates [get]
func (h *NewsletterHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, "Templates retrieved successfully", h.newsletter.ListTemplates(r.Context()))
}

// CreateTemplate godoc
// @Summary Создать шаблон письма (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.TemplateRequest true "Шаблон"
// @Success 201 {object} helpers.Response{data=models.Template}
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/newsletter/templates [post]
func (h *NewsletterHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.newsletter.CreateTemplate(r.Context(), req)
	if err != nil {
		fail(w, r, "Failed to create template", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Template created successfully", t)
}

// PreviewTemplate godoc
// @Summary Предпросмотр шаблона с подстановкой переменных (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID шаблона"
// @Param input body models.TemplatePreviewRequest false "Подписчик и переменные"
// @Success 200 {object} helpers.Response{data=models.TemplatePreview}
// @Failure 404 {object} helpers.Response
// @Router /api/newsletter/templates/{id}/preview [post]
func (h *NewsletterHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.TemplatePreviewRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	preview, err := h.newsletter.PreviewTemplate(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		fail(w, r, "Failed to render template", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Template preview rendered", preview)
}

type campaignListResponse struct {
	Campaigns  []models.Campaign `json:"campaigns"`
	Pagination pagination        `json:"pagination"`
}

// ListCampaigns godoc
// @Summary Кампании рассылки (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "draft | scheduled | sent"
// @Param sort query string false "latest | popular"
// @Param limit query int false "Лимит (по умолчанию 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=campaignListResponse}
// @Failure 400 {object} helpers.Response
// @Router /api/newsletter/campaigns [get]
func (h *NewsletterHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageParams(r, h.maxPage)

	res, err := h.newsletter.ListCampaigns(r.Context(), q.Get("status"), q.Get("sort"), page)
	if err != nil {
		fail(w, r, "Failed to fetch campaigns", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Campaigns retrieved successfully", campaignListResponse{
		Campaigns:  res.Items,
		Pagination: paginationOf(res, page),
	})
}

// CreateCampaign godoc
// @Summary Создать кампанию (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CampaignRequest true "Кампания"
// @Success 201 {object} helpers.Response{data=models.Campaign}
// @Failure 400 {object} helpers.Response
// @Router /api/newsletter/campaigns [post]
func (h *NewsletterHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.CampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.newsletter.CreateCampaign(r.Context(), req)
	if err != nil {
		fail(w, r, "Failed to create campaign", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Кампания создана", zap.String("campaign_id", c.ID), zap.Int("recipients", c.Recipients))
	helpers.JSON(w, http.StatusCreated, "Campaign created successfully", c)
}

// SendCampaign godoc
// @Summary Отправить кампанию (имитация, только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID кампании"
// @Success 200 {object} helpers.Response{data=models.Campaign}
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/newsletter/campaigns/{id}/send [post]
func (h *NewsletterHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.newsletter.SendCampaign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, "Failed to send campaign", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Кампания отправлена", zap.String("campaign_id", c.ID), zap.Int("recipients", c.Recipients))
	helpers.JSON(w, http.StatusOK, "Campaign sent successfully", c)
}

// Analytics godoc
// @Summary Аналитика рассылки (только admin)
// @Tags admin-newsletter
// @Security ApiKeyAuth
// @Produce json
// @Param period query string false "7d | 30d | 90d | 6m | 12m | all"
// @Param compare query bool false "Сравнить с предыдущим периодом"
// @Success 200 {object} helpers.Response{data=models.NewsletterAnalytics}
// @Failure 400 {object} helpers.Response
// @Router /api/newsletter/analytics [get]
func (h *NewsletterHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.analytics.Newsletter(r.Context(), q.Get("period"), parseBool(q.Get("compare")))
	if err != nil {
		fail(w, r, "Failed to build analytics", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Analytics retrieved successfully", res)
}
