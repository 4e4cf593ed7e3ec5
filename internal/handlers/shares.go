package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"go.uber.org/zap"
)

type ShareHandler struct {
	shares *services.ShareService
}

func NewShareHandler(shares *services.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

// ShareStats godoc
// @Summary Статистика шерингов
// @Description Итог, разбивка по платформам и таймлайн. Без postId: по всем постам.
// @Tags shares
// @Produce json
// @Param postId query string false "ID поста"
// @Param days query int false "Период в днях (1-365, по умолчанию 30)"
// @Success 200 {object} helpers.Response{data=models.ShareStats}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/share [get]
func (h *ShareHandler) ShareStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	days := 0
	if raw := strings.TrimSpace(q.Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(w, r, "Invalid days", &services.ValidationError{Field: "days", Message: "invalid value " + strconv.Quote(raw) + ", expected an integer"})
			return
		}
		days = n
	}

	stats, err := h.shares.Stats(r.Context(), q.Get("postId"), days)
	if err != nil {
		fail(w, r, "Failed to fetch share stats", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Share stats retrieved successfully", stats)
}

// RecordShare godoc
// @Summary Зафиксировать шеринг поста
// @Tags shares
// @Accept json
// @Produce json
// @Param input body models.ShareRequest true "Событие"
// @Success 201 {object} helpers.Response{data=models.ShareEvent}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/share [post]
func (h *ShareHandler) RecordShare(w http.ResponseWriter, r *http.Request) {
	var req models.ShareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if p := auth.FromContext(r.Context()); p != nil && req.UserID == "" {
		req.UserID = p.UserID
	}

	ev, err := h.shares.Record(r.Context(), req)
	if err != nil {
		fail(w, r, "Failed to record share", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Шеринг записан", zap.String("post_id", ev.PostID), zap.String("platform", string(ev.Platform)))
	helpers.JSON(w, http.StatusCreated, "Share recorded successfully", ev)
}
